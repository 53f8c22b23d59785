package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/wansing/newsportal/core"
	"golang.org/x/crypto/bcrypt"
)

func clean(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return name
}

type user struct {
	id   int
	name string
}

func (u *user) ID() int {
	return u.id
}

func (u *user) Name() string {
	return u.name
}

type UserDB struct {
	*sql.DB
	del         *sql.Stmt
	delMember   *sql.Stmt
	delSubscr   *sql.Stmt
	get         *sql.Stmt
	getAll      *sql.Stmt
	getByName   *sql.Stmt
	insert      *sql.Stmt
	login       *sql.Stmt
	setPassword *sql.Stmt
}

func NewUserDB(db *sql.DB) *UserDB {

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.del = mustPrepare(db, "DELETE FROM usr WHERE id = ?")
	userDB.delMember = mustPrepare(db, "DELETE FROM membership WHERE usr = ?")
	userDB.delSubscr = mustPrepare(db, "DELETE FROM subscription WHERE usr = ?")
	userDB.get = mustPrepare(db, "SELECT mail FROM usr WHERE id = ? LIMIT 1")
	userDB.getAll = mustPrepare(db, "SELECT id, mail FROM usr ORDER BY mail LIMIT ? OFFSET ?")
	userDB.getByName = mustPrepare(db, "SELECT id FROM usr WHERE mail = ? LIMIT 1")
	userDB.insert = mustPrepare(db, "INSERT INTO usr (mail) VALUES (?)") // empty password field is safe because no bcrypt hash equals it
	userDB.login = mustPrepare(db, "SELECT id, password FROM usr WHERE mail = ?")
	userDB.setPassword = mustPrepare(db, "UPDATE usr SET password = ? WHERE id = ?")
	return userDB
}

func (db *UserDB) GetUser(id int) (core.DBUser, error) {
	var u = &user{
		id: id,
	}
	if err := db.get.QueryRow(id).Scan(&u.name); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (db *UserDB) GetUserByName(name string) (core.DBUser, error) {
	var u = &user{
		name: clean(name),
	}
	if err := db.getByName.QueryRow(u.name).Scan(&u.id); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (db *UserDB) GetAllUsers(limit, offset int) ([]core.DBUser, error) {

	var all = []core.DBUser{}

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u = &user{}
		if err = rows.Scan(&u.id, &u.name); err != nil {
			return nil, err
		}
		all = append(all, u)
	}

	return all, rows.Err()
}

// InsertUser creates a user without password. It returns core.ErrUserExists if the name is taken.
func (db *UserDB) InsertUser(name string) (core.DBUser, error) {

	name = clean(name)
	if name == "" {
		return nil, errors.New("empty user name")
	}

	if _, err := db.GetUserByName(name); err == nil {
		return nil, core.ErrUserExists
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	result, err := db.insert.Exec(name)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &user{
		id:   int(id),
		name: name,
	}, nil
}

func (db *UserDB) LoginUser(name, password string) (core.DBUser, error) {

	var u = &user{
		name: clean(name),
	}
	var hash string

	err := db.login.QueryRow(u.name).Scan(&u.id, &hash)
	if err == sql.ErrNoRows {
		return nil, core.ErrAuth // user not found
	}
	if err != nil {
		return nil, err
	}

	if hash == "" {
		return nil, core.ErrAuth // no password set
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, core.ErrAuth // wrong password
	}

	return u, nil
}

func (db *UserDB) SetPassword(u core.DBUser, password string) error {

	if password == "" {
		return errors.New("no password given")
	}

	if u.ID() == 0 {
		return errors.New("can't set password of user 0")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.setPassword.Exec(string(hash), u.ID())
	return err
}

// DeleteUser removes the user and its group memberships and category subscriptions within one transaction.
func (db *UserDB) DeleteUser(u core.DBUser) error {

	if u.ID() == 0 {
		return errors.New("can't delete user 0")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	for _, stmt := range []*sql.Stmt{db.delMember, db.delSubscr, db.del} {
		if _, err := tx.Stmt(stmt).Exec(u.ID()); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
