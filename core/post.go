package core

import (
	"time"
)

type PostType string

const (
	TypeArticle PostType = "article"
	TypeNews    PostType = "news"
)

func (t PostType) String() string {
	switch t {
	case TypeArticle:
		return "Article"
	case TypeNews:
		return "News"
	}
	return "unknown"
}

type Post struct {
	ID         int
	Title      string
	AuthorID   int
	Type       PostType
	CategoryID int
	Text       string
	Time       time.Time // creation time, default ordering
}

// PostFilter restricts a post query. Zero values don't restrict anything. All conditions must hold.
type PostFilter struct {
	Title      string // case-insensitive substring
	AuthorID   int
	CategoryID int
	Type       PostType
	After      time.Time // inclusive
}

type PostDB interface {
	CountPosts(filter PostFilter) (int, error)
	DeletePost(id int) error
	GetPost(id int) (*Post, error) // returns ErrNotFound if there is no such post
	GetPosts(filter PostFilter, limit, offset int) ([]*Post, error)
	InsertPost(p *Post) (int, error)
	UpdatePost(p *Post) error // overwrites everything except the creation time
}
