package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/wansing/newsportal/core"
)

type CategoryDB struct {
	*sql.DB
	countSubscriber  *sql.Stmt
	get              *sql.Stmt
	getAll           *sql.Stmt
	getSubscribed    *sql.Stmt
	getSubscribers   *sql.Stmt
	insert           *sql.Stmt
	insertSubscriber *sql.Stmt
}

func NewCategoryDB(db *sql.DB) *CategoryDB {

	var categoryDB = &CategoryDB{}
	categoryDB.DB = db
	categoryDB.countSubscriber = mustPrepare(db, "SELECT COUNT(*) FROM subscription WHERE category = ? AND usr = ?")
	categoryDB.get = mustPrepare(db, "SELECT name FROM category WHERE id = ? LIMIT 1")
	categoryDB.getAll = mustPrepare(db, "SELECT id, name FROM category ORDER BY name")
	categoryDB.getSubscribed = mustPrepare(db, "SELECT category FROM subscription WHERE usr = ? ORDER BY category")
	categoryDB.getSubscribers = mustPrepare(db, "SELECT usr FROM subscription WHERE category = ? ORDER BY usr")
	categoryDB.insert = mustPrepare(db, "INSERT INTO category (name) VALUES (?)")
	categoryDB.insertSubscriber = mustPrepare(db, "INSERT INTO subscription (category, usr) VALUES (?, ?)")
	return categoryDB
}

func (db *CategoryDB) GetCategory(id int) (*core.Category, error) {
	var c = &core.Category{
		ID: id,
	}
	if err := db.get.QueryRow(id).Scan(&c.Name); err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (db *CategoryDB) GetAllCategories() ([]*core.Category, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories = []*core.Category{}
	for rows.Next() {
		var c = &core.Category{}
		if err = rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (db *CategoryDB) InsertCategory(name string) (int, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("empty category name")
	}

	result, err := db.insert.Exec(name)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	return int(id), err
}

func (db *CategoryDB) AddSubscriber(categoryID, userID int) error {
	return insertUnlessExists(db.DB, db.countSubscriber, db.insertSubscriber, categoryID, userID)
}

func (db *CategoryDB) GetSubscribedCategories(userID int) ([]int, error) {
	return queryIDs(db.getSubscribed, userID)
}

func (db *CategoryDB) GetSubscribers(categoryID int) ([]int, error) {
	return queryIDs(db.getSubscribers, categoryID)
}

func queryIDs(stmt *sql.Stmt, args ...interface{}) ([]int, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids = []int{}
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
