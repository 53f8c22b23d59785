package mysql

import "database/sql"

// like the sqlite3 schema, but ids need AUTO_INCREMENT, and indexes are declared within CREATE TABLE
var tables = []string{
	`CREATE TABLE IF NOT EXISTS usr (
		id INTEGER PRIMARY KEY AUTO_INCREMENT,
		mail varchar(128) NOT NULL,
		password varchar(60) NOT NULL DEFAULT '',
		UNIQUE(mail)
	)`,
	`CREATE TABLE IF NOT EXISTS grp (
		id INTEGER PRIMARY KEY AUTO_INCREMENT,
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
		id INTEGER PRIMARY KEY AUTO_INCREMENT,
		name varchar(128) NOT NULL,
		usr int(11) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS category (
		id INTEGER PRIMARY KEY AUTO_INCREMENT,
		name varchar(64) NOT NULL,
		UNIQUE(name)
	)`,
	`CREATE TABLE IF NOT EXISTS subscription (
		category int(11) NOT NULL,
		usr int(11) NOT NULL,
		PRIMARY KEY (category, usr)
	)`,
	`CREATE TABLE IF NOT EXISTS post (
		id INTEGER PRIMARY KEY AUTO_INCREMENT,
		title varchar(128) NOT NULL,
		author int(11) NOT NULL,
		type varchar(16) NOT NULL,
		category int(11) NOT NULL,
		text TEXT NOT NULL,
		time BIGINT NOT NULL,
		INDEX post_time_idx (time)
	)`,
}

// CreateTables creates the portal tables if required. Each statement is executed on its own, so the DSN does not need multiStatements.
func CreateTables(db *sql.DB) error {
	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
