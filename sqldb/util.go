package sqldb

import (
	"database/sql"
	"errors"

	"github.com/wansing/newsportal/core"
)

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(err)
	}
	return stmt
}

// notFound translates sql.ErrNoRows into core.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// insertUnlessExists runs insert if count returns zero, both within one transaction.
// It works on SQLite and MySQL, unlike "INSERT OR IGNORE".
func insertUnlessExists(db *sql.DB, count *sql.Stmt, insert *sql.Stmt, args ...interface{}) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	var n int
	if err := tx.Stmt(count).QueryRow(args...).Scan(&n); err != nil {
		tx.Rollback()
		return err
	}

	if n == 0 {
		if _, err := tx.Stmt(insert).Exec(args...); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
