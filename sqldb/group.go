package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/wansing/newsportal/core"
)

type group struct {
	id   int
	name string
}

func (g *group) ID() int {
	return g.id
}

func (g *group) Name() string {
	return g.name
}

type GroupDB struct {
	*sql.DB
	get       *sql.Stmt
	getAll    *sql.Stmt
	getByName *sql.Stmt
	getMember *sql.Stmt
	getOf     *sql.Stmt
	insert    *sql.Stmt
	isMember  *sql.Stmt
	join      *sql.Stmt
}

func NewGroupDB(db *sql.DB) *GroupDB {

	var groupDB = &GroupDB{}
	groupDB.DB = db
	groupDB.get = mustPrepare(db, "SELECT name FROM grp WHERE id = ? LIMIT 1")
	groupDB.getAll = mustPrepare(db, "SELECT id, name FROM grp ORDER BY name LIMIT ? OFFSET ?")
	groupDB.getByName = mustPrepare(db, "SELECT id FROM grp WHERE name = ? LIMIT 1")
	groupDB.getMember = mustPrepare(db, "SELECT usr.id, usr.mail FROM usr, membership WHERE usr.id = membership.usr AND membership.grp = ? ORDER BY usr.mail")
	groupDB.getOf = mustPrepare(db, "SELECT grp.id, grp.name FROM grp, membership WHERE grp.id = membership.grp AND membership.usr = ? ORDER BY grp.name")
	groupDB.insert = mustPrepare(db, "INSERT INTO grp (name) VALUES (?)")
	groupDB.isMember = mustPrepare(db, "SELECT COUNT(*) FROM membership WHERE grp = ? AND usr = ?")
	groupDB.join = mustPrepare(db, "INSERT INTO membership (grp, usr) VALUES (?, ?)")
	return groupDB
}

func (db *GroupDB) GetGroup(id int) (core.DBGroup, error) {
	var g = &group{
		id: id,
	}
	if err := db.get.QueryRow(id).Scan(&g.name); err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (db *GroupDB) GetGroupByName(name string) (core.DBGroup, error) {
	var g = &group{
		name: strings.TrimSpace(name),
	}
	if err := db.getByName.QueryRow(g.name).Scan(&g.id); err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (db *GroupDB) getMultiple(stmt *sql.Stmt, args ...interface{}) ([]core.DBGroup, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups = []core.DBGroup{}

	for rows.Next() {
		var g = &group{}
		if err = rows.Scan(&g.id, &g.name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

func (db *GroupDB) GetAllGroups(limit, offset int) ([]core.DBGroup, error) {
	return db.getMultiple(db.getAll, limit, offset)
}

func (db *GroupDB) GetGroupsOf(u core.DBUser) ([]core.DBGroup, error) {
	return db.getMultiple(db.getOf, u.ID())
}

func (db *GroupDB) GetMembers(g core.DBGroup) ([]core.DBUser, error) {

	rows, err := db.getMember.Query(g.ID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members = []core.DBUser{}
	for rows.Next() {
		var u = &user{}
		if err = rows.Scan(&u.id, &u.name); err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

func (db *GroupDB) InsertGroup(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("empty group name")
	}
	_, err := db.insert.Exec(name)
	return err
}

// Join adds the user to the group. It does nothing if the user is a member already.
func (db *GroupDB) Join(g core.DBGroup, u core.DBUser) error {
	if u.ID() == 0 {
		return errors.New("can't add user 0")
	}
	return insertUnlessExists(db.DB, db.isMember, db.join, g.ID(), u.ID())
}
