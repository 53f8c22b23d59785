package core

// An Author is a display name, usually bound to a user account.
type Author struct {
	ID     int
	Name   string
	UserID int // 0 if not bound
}

type AuthorDB interface {
	GetAllAuthors() ([]*Author, error)
	GetAuthor(id int) (*Author, error)
	InsertAuthor(name string, userID int) (int, error)
}
