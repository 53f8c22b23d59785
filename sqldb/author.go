package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/wansing/newsportal/core"
)

type AuthorDB struct {
	*sql.DB
	get    *sql.Stmt
	getAll *sql.Stmt
	insert *sql.Stmt
}

func NewAuthorDB(db *sql.DB) *AuthorDB {

	var authorDB = &AuthorDB{}
	authorDB.DB = db
	authorDB.get = mustPrepare(db, "SELECT name, usr FROM author WHERE id = ? LIMIT 1")
	authorDB.getAll = mustPrepare(db, "SELECT id, name, usr FROM author ORDER BY name")
	authorDB.insert = mustPrepare(db, "INSERT INTO author (name, usr) VALUES (?, ?)")
	return authorDB
}

func (db *AuthorDB) GetAuthor(id int) (*core.Author, error) {
	var a = &core.Author{
		ID: id,
	}
	if err := db.get.QueryRow(id).Scan(&a.Name, &a.UserID); err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (db *AuthorDB) GetAllAuthors() ([]*core.Author, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors = []*core.Author{}
	for rows.Next() {
		var a = &core.Author{}
		if err = rows.Scan(&a.ID, &a.Name, &a.UserID); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (db *AuthorDB) InsertAuthor(name string, userID int) (int, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("empty author name")
	}

	result, err := db.insert.Exec(name, userID)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	return int(id), err
}
