package sqldb

import (
	"database/sql"
	"strings"
	"time"

	"github.com/wansing/newsportal/core"
)

// '!' instead of a backslash, because MySQL treats backslashes in string literals as escapes
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

type PostDB struct {
	*sql.DB
	delete *sql.Stmt
	get    *sql.Stmt
	insert *sql.Stmt
	update *sql.Stmt
}

func NewPostDB(db *sql.DB) *PostDB {

	var postDB = &PostDB{}
	postDB.DB = db
	postDB.delete = mustPrepare(db, "DELETE FROM post WHERE id = ?")
	postDB.get = mustPrepare(db, "SELECT title, author, type, category, text, time FROM post WHERE id = ? LIMIT 1")
	postDB.insert = mustPrepare(db, "INSERT INTO post (title, author, type, category, text, time) VALUES (?, ?, ?, ?, ?, ?)")
	postDB.update = mustPrepare(db, "UPDATE post SET title = ?, author = ?, type = ?, category = ?, text = ? WHERE id = ?")
	return postDB
}

func (db *PostDB) GetPost(id int) (*core.Post, error) {
	var p = &core.Post{
		ID: id,
	}
	var ts int64
	if err := db.get.QueryRow(id).Scan(&p.Title, &p.AuthorID, &p.Type, &p.CategoryID, &p.Text, &ts); err != nil {
		return nil, notFound(err)
	}
	p.Time = time.Unix(ts, 0).UTC()
	return p, nil
}

func (db *PostDB) InsertPost(p *core.Post) (int, error) {

	result, err := db.insert.Exec(p.Title, p.AuthorID, string(p.Type), p.CategoryID, p.Text, p.Time.Unix())
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	p.ID = int(id)
	return p.ID, nil
}

func (db *PostDB) UpdatePost(p *core.Post) error {
	_, err := db.update.Exec(p.Title, p.AuthorID, string(p.Type), p.CategoryID, p.Text, p.ID)
	return err
}

func (db *PostDB) DeletePost(id int) error {
	_, err := db.delete.Exec(id)
	return err
}

// where builds a WHERE clause from the filter. Its conditions are combined with AND.
func where(filter core.PostFilter) (string, []interface{}) {

	var conds []string
	var args []interface{}

	if title := strings.TrimSpace(filter.Title); title != "" {
		conds = append(conds, `LOWER(title) LIKE ? ESCAPE '!'`)
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(title))+"%")
	}

	if filter.AuthorID != 0 {
		conds = append(conds, "author = ?")
		args = append(args, filter.AuthorID)
	}

	if filter.CategoryID != 0 {
		conds = append(conds, "category = ?")
		args = append(args, filter.CategoryID)
	}

	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(filter.Type))
	}

	if !filter.After.IsZero() {
		conds = append(conds, "time >= ?")
		args = append(args, filter.After.Unix())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (db *PostDB) CountPosts(filter core.PostFilter) (int, error) {
	var clause, args = where(filter)
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM post"+clause, args...).Scan(&count)
	return count, err
}

// GetPosts returns posts ordered by creation time, oldest first.
func (db *PostDB) GetPosts(filter core.PostFilter, limit, offset int) ([]*core.Post, error) {

	var clause, args = where(filter)
	args = append(args, limit, offset)

	rows, err := db.Query("SELECT id, title, author, type, category, text, time FROM post"+clause+" ORDER BY time ASC, id ASC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts = []*core.Post{}
	for rows.Next() {
		var p = &core.Post{}
		var ts int64
		if err = rows.Scan(&p.ID, &p.Title, &p.AuthorID, &p.Type, &p.CategoryID, &p.Text, &ts); err != nil {
			return nil, err
		}
		p.Time = time.Unix(ts, 0).UTC()
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
