package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/mama165/sdk-go/logs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/newsportal/config"
	"github.com/wansing/newsportal/core"
	"github.com/wansing/newsportal/mail"
	"github.com/wansing/newsportal/portal"
	"github.com/wansing/newsportal/sqldb"
	"github.com/wansing/newsportal/sqldb/mysql"
	"github.com/wansing/newsportal/sqldb/sqlite3"
	"github.com/wansing/newsportal/util"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

const defaultDB = "sqlite3:newsportal.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared"

func main() {

	var dbArg string     // is in both FlagSets
	var configArg string // is in both FlagSets

	// default FlagSet

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", "", "strip off this `prefix` from every HTTP request and prepend it to every link")
	// MySQL: collation should be utf8mb4_unicode_ci
	flag.StringVar(&dbArg, "db", defaultDB, "sql database url, see github.com/xo/dburl")
	flag.StringVar(&configArg, "config", "", "read site and mail settings from this ini `file`")
	var listenAddr = flag.String("listen", "127.0.0.1:8080", "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", defaultDB, "sql database url, see github.com/xo/dburl") // copied from above
	initFlags.StringVar(&configArg, "config", "", "read site and mail settings from this ini `file`")
	var initInsert = initFlags.Bool("insert", false, "creates the given group, user, category or author")
	var initJoin = initFlags.Bool("join", false, "joins the given user to the given group")
	var initGrant = initFlags.Bool("grant", false, "gives the given permission to the given group")
	var groupname = initFlags.String("group", "", "specifies a group `name`")
	var username = initFlags.String("user", "", "specifies a user `email`")
	var permission = initFlags.String("permission", "", "specifies a `permission`: view_post, add_post, change_post, delete_post or admin")
	var categoryname = initFlags.String("category", "", "specifies a category `name`")
	var authorname = initFlags.String("author", "", "specifies an author `name`, bound to -user if given")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// config and logger

	cfg, err := config.Load(configArg)
	if err != nil {
		slog.Error("could not load config", "err", err)
		return
	}

	log := logs.GetLoggerFromString(cfg.Env.LogLevel)

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Error("could not parse database url", "err", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Error("could not open sql database", "err", err)
		return
	}

	defer func() {
		log.Info("closing database")
		sqlDB.Close()
	}()

	if err = sqlDB.Ping(); err != nil {
		log.Error("could not ping sql database", "err", err)
		return
	}

	log.Info("using database", "url", dbURL.Redacted())

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		if err = mysql.CreateTables(sqlDB); err == nil {
			sessionStore, err = mysql.NewSessionStore(sqlDB)
		}
	case "sqlite3":
		if err = sqlite3.CreateTables(sqlDB); err == nil {
			sessionStore, err = sqlite3.NewSessionStore(sqlDB)
		}
	default:
		err = fmt.Errorf("unknown database backend: %s", dbURL.Driver)
	}
	if err != nil {
		log.Error("could not create tables", "err", err)
		return
	}

	db := &core.CoreDB{
		AuthorDB:     sqldb.NewAuthorDB(sqlDB),
		CategoryDB:   sqldb.NewCategoryDB(sqlDB),
		GroupDB:      sqldb.NewGroupDB(sqlDB),
		PermissionDB: sqldb.NewPermissionDB(sqlDB),
		PostDB:       sqldb.NewPostDB(sqlDB),
		UserDB:       sqldb.NewUserDB(sqlDB),
		Log:          log,
		AuthorsGroup: cfg.Site.AuthorsGroup,
		PerPage:      cfg.Site.PerPage,
	}
	db.SignupHooks = []core.SignupHook{core.DefaultGroupHook(db.GroupDB, cfg.Site.DefaultGroup)}
	db.Init(sessionStore, *base)

	if cfg.Mail.Host != "" {
		db.Notifier = &mail.SMTP{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Env.SMTPPassword,
			From:     cfg.Mail.From,
		}
	} else {
		log.Warn("no mail host configured, notifications are logged only")
		db.Notifier = mail.Log{Logger: log}
	}

	// init

	if initFlags.Parsed() {
		var cmd = &initCmd{db: db, log: log}
		switch {
		case *initInsert:
			if *groupname != "" {
				cmd.insertGroup(*groupname)
			}
			if *username != "" && *authorname == "" {
				cmd.insertUser(*username)
			}
			if *categoryname != "" {
				cmd.insertCategory(*categoryname)
			}
			if *authorname != "" {
				cmd.insertAuthor(*authorname, *username)
			}
		case *initJoin:
			if *groupname != "" && *username != "" {
				cmd.join(*groupname, *username)
			}
		case *initGrant:
			if *groupname != "" && *permission != "" {
				cmd.grant(*groupname, core.Permission(*permission))
			}
		}
		return
	}

	listen(db, log, *listenAddr, *base)
}

type initCmd struct {
	db  *core.CoreDB
	log *slog.Logger
}

func (cmd *initCmd) insertGroup(name string) {
	if err := cmd.db.InsertGroup(name); err != nil {
		cmd.log.Error("error creating group", "group", name, "err", err)
	}
}

func (cmd *initCmd) insertUser(name string) {

	fmt.Printf("password for user %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		cmd.log.Error("error reading password", "err", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		cmd.log.Error("error reading password", "err", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		cmd.log.Error("passwords don't match")
		return
	}

	user, err := cmd.db.InsertUser(name)
	if err != nil {
		cmd.log.Error("error creating user", "user", name, "err", err)
		return
	}

	if err := cmd.db.SetPassword(user, string(pass1)); err != nil {
		cmd.log.Error("error setting password", "err", err)
		if err := cmd.db.DeleteUser(user); err != nil {
			cmd.log.Error("error removing user", "user", name, "err", err)
		}
		return
	}
}

func (cmd *initCmd) insertCategory(name string) {
	if _, err := cmd.db.InsertCategory(name); err != nil {
		cmd.log.Error("error creating category", "category", name, "err", err)
	}
}

// insertAuthor binds the author to the user with the given email, if it is not empty.
func (cmd *initCmd) insertAuthor(name string, username string) {

	var userID int
	if username != "" {
		user, err := cmd.db.GetUserByName(username)
		if err != nil {
			cmd.log.Error("error getting user", "user", username, "err", err)
			return
		}
		userID = user.ID()
	}

	if _, err := cmd.db.InsertAuthor(name, userID); err != nil {
		cmd.log.Error("error creating author", "author", name, "err", err)
	}
}

func (cmd *initCmd) join(groupname string, username string) {

	group, err := cmd.db.GetGroupByName(groupname)
	if err != nil {
		cmd.log.Error("error getting group", "group", groupname, "err", err)
		return
	}

	user, err := cmd.db.GetUserByName(username)
	if err != nil {
		cmd.log.Error("error getting user", "user", username, "err", err)
		return
	}

	if err := cmd.db.Join(group, user); err != nil {
		cmd.log.Error("error joining", "err", err)
		return
	}
}

func (cmd *initCmd) grant(groupname string, perm core.Permission) {

	group, err := cmd.db.GetGroupByName(groupname)
	if err != nil {
		cmd.log.Error("error getting group", "group", groupname, "err", err)
		return
	}

	if err := cmd.db.InsertPermission(group, perm); err != nil {
		cmd.log.Error("error granting permission", "group", groupname, "permission", perm, "err", err)
		return
	}
}

func listen(db *core.CoreDB, log *slog.Logger, addr string, base string) {

	var waitingRequests sync.WaitGroup

	var router = portal.NewRouter(db, base)

	var mux = http.NewServeMux()
	mux.Handle("/", util.StripPrefix(base, http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			waitingRequests.Add(1)
			defer waitingRequests.Done()
			router.ServeHTTP(w, req)
		},
	)))

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("could not listen", "err", err)
		return
	}

	log.Info("listening", "addr", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Error("error listening", "err", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Info("shutting down")
	httpSrv.Close()

	waitingRequests.Wait()
}
