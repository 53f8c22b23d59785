package sqldb

import (
	"database/sql"

	"github.com/wansing/newsportal/core"
)

// PermissionDB stores which group holds which model permission.
type PermissionDB struct {
	db     *sql.DB
	count  *sql.Stmt
	get    *sql.Stmt
	insert *sql.Stmt
	remove *sql.Stmt
}

func NewPermissionDB(db *sql.DB) *PermissionDB {

	var permissionDB = &PermissionDB{}
	permissionDB.db = db
	permissionDB.count = mustPrepare(db, "SELECT COUNT(*) FROM permission WHERE grp = ? AND name = ?")
	permissionDB.get = mustPrepare(db, "SELECT name FROM permission WHERE grp = ? ORDER BY name")
	permissionDB.insert = mustPrepare(db, "INSERT INTO permission (grp, name) VALUES (?, ?)")
	permissionDB.remove = mustPrepare(db, "DELETE FROM permission WHERE grp = ? AND name = ?")
	return permissionDB
}

func (p *PermissionDB) GetPermissions(groupID int) ([]core.Permission, error) {
	rows, err := p.get.Query(groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms = []core.Permission{}
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		perms = append(perms, core.Permission(name))
	}
	return perms, rows.Err()
}

func (p *PermissionDB) InsertPermission(groupID int, perm core.Permission) error {
	return insertUnlessExists(p.db, p.count, p.insert, groupID, string(perm))
}

func (p *PermissionDB) RemovePermission(groupID int, perm core.Permission) error {
	_, err := p.remove.Exec(groupID, string(perm))
	return err
}
