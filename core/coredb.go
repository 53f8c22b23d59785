package core

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

type CoreDB struct {
	AuthorDB
	CategoryDB
	GroupDB
	PermissionDB
	PostDB
	UserDB
	Notifier       Notifier
	SessionManager *scs.SessionManager
	Log            *slog.Logger

	AuthorsGroup string // for PostMeta.IsNotAuthors and Upgrade
	PerPage      int
	SignupHooks  []SignupHook
}

// Init creates the session manager. The stores must be set before.
func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) {

	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"         // 'The default value is "/". Passing the empty string "" will result in it being set to the path that the cookie was issued from.'
	c.SessionManager.Cookie.Persist = false                 // Don't store cookie across browser sessions.
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour
}

// Logger returns c.Log, or slog.Default() if it is nil.
func (c *CoreDB) Logger() *slog.Logger {
	if c.Log == nil {
		return slog.Default()
	}
	return c.Log
}
