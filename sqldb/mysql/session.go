package mysql

import (
	"database/sql"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/v2"
)

// NewSessionStore creates the sessions table if required.
func NewSessionStore(db *sql.DB) (scs.Store, error) {

	// MySQL knows CREATE INDEX ... only within CREATE TABLE, and only one statement per Exec
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token CHAR(43) PRIMARY KEY,
			data BLOB NOT NULL,
			expiry TIMESTAMP(6) NOT NULL,
			INDEX sessions_expiry_idx (expiry)
		);`)
	if err != nil {
		return nil, err
	}

	return mysqlstore.New(db), nil
}
