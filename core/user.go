package core

type DBUser interface {
	ID() int
	Name() string // email address
}

type UserDB interface {
	DeleteUser(u DBUser) error // removes memberships and subscriptions too
	GetAllUsers(limit, offset int) ([]DBUser, error)
	GetUser(id int) (DBUser, error)
	GetUserByName(name string) (DBUser, error)
	InsertUser(name string) (DBUser, error)
	LoginUser(name, password string) (DBUser, error)
	SetPassword(u DBUser, password string) error
}

// SetPassword shadows UserDB.SetPassword.
func (c *CoreDB) SetPassword(u DBUser, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return c.UserDB.SetPassword(u, password)
}

// IsAuthenticated returns false for the anonymous user, which is nil.
func (c *CoreDB) IsAuthenticated(u DBUser) bool {
	return u != nil
}
