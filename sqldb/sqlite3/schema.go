package sqlite3

import "database/sql"

var tables = []string{
	`CREATE TABLE IF NOT EXISTS usr (
		id INTEGER PRIMARY KEY,
		mail varchar(128) NOT NULL,
		password varchar(60) NOT NULL DEFAULT '',
		UNIQUE(mail)
	)`,
	`CREATE TABLE IF NOT EXISTS grp (
		id INTEGER PRIMARY KEY,
		name varchar(64) NOT NULL,
		UNIQUE(name)
	)`,
	`CREATE TABLE IF NOT EXISTS membership (
		grp int(11) NOT NULL,
		usr int(11) NOT NULL,
		PRIMARY KEY (grp, usr)
	)`,
	`CREATE TABLE IF NOT EXISTS permission (
		grp int(11) NOT NULL,
		name varchar(64) NOT NULL,
		PRIMARY KEY (grp, name)
	)`,
	`CREATE TABLE IF NOT EXISTS author (
		id INTEGER PRIMARY KEY,
		name varchar(128) NOT NULL,
		usr int(11) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS category (
		id INTEGER PRIMARY KEY,
		name varchar(64) NOT NULL,
		UNIQUE(name)
	)`,
	`CREATE TABLE IF NOT EXISTS subscription (
		category int(11) NOT NULL,
		usr int(11) NOT NULL,
		PRIMARY KEY (category, usr)
	)`,
	`CREATE TABLE IF NOT EXISTS post (
		id INTEGER PRIMARY KEY,
		title varchar(128) NOT NULL,
		author int(11) NOT NULL,
		type varchar(16) NOT NULL,
		category int(11) NOT NULL,
		text TEXT NOT NULL,
		time INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS post_time_idx ON post (time)`,
}

// CreateTables creates the portal tables if required. It must run before the sqldb stores are created, because they prepare their statements against these tables.
func CreateTables(db *sql.DB) error {
	return execAll(db, tables...)
}

// execAll runs one statement per Exec.
func execAll(db *sql.DB, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
