package core_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/wansing/newsportal/core"
	"github.com/wansing/newsportal/core/mocks"
	"github.com/wansing/newsportal/sqldb"
	"github.com/wansing/newsportal/sqldb/sqlite3"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	db       *core.CoreDB
	notifier *mocks.MockNotifier

	alice core.DBUser // member of "authors", which may change and delete posts
	bob   core.DBUser // member of "common" only

	authorID   int
	categoryID int
}

func setup(t *testing.T) *fixture {
	req := require.New(t)

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	req.NoError(err)
	sqlDB.SetMaxOpenConns(1) // else every connection would see its own in-memory database
	t.Cleanup(func() { sqlDB.Close() })
	req.NoError(sqlite3.CreateTables(sqlDB))

	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)

	db := &core.CoreDB{
		AuthorDB:     sqldb.NewAuthorDB(sqlDB),
		CategoryDB:   sqldb.NewCategoryDB(sqlDB),
		GroupDB:      sqldb.NewGroupDB(sqlDB),
		PermissionDB: sqldb.NewPermissionDB(sqlDB),
		PostDB:       sqldb.NewPostDB(sqlDB),
		UserDB:       sqldb.NewUserDB(sqlDB),
		Notifier:     notifier,
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		AuthorsGroup: "authors",
		PerPage:      3,
	}
	db.SignupHooks = []core.SignupHook{core.DefaultGroupHook(db.GroupDB, "common")}

	req.NoError(db.InsertGroup("common"))
	req.NoError(db.InsertGroup("authors"))

	authors, err := db.GetGroupByName("authors")
	req.NoError(err)
	req.NoError(db.InsertPermission(authors, core.CanChangePost))
	req.NoError(db.InsertPermission(authors, core.CanDeletePost))

	alice, err := db.Signup("alice@example.com", "alice's password")
	req.NoError(err)
	req.NoError(db.Join(authors, alice))

	bob, err := db.Signup("bob@example.com", "bob's password")
	req.NoError(err)

	authorID, err := db.InsertAuthor("A. Lee", alice.ID())
	req.NoError(err)

	categoryID, err := db.InsertCategory("Weather")
	req.NoError(err)

	return &fixture{
		db:         db,
		notifier:   notifier,
		alice:      alice,
		bob:        bob,
		authorID:   authorID,
		categoryID: categoryID,
	}
}

// form returns a valid form
func (f *fixture) form(title, text string) *core.PostForm {
	return &core.PostForm{
		Title:      title,
		AuthorID:   f.authorID,
		Type:       core.TypeNews,
		CategoryID: f.categoryID,
		Text:       text,
	}
}

func (f *fixture) countPosts(t *testing.T) int {
	count, err := f.db.CountPosts(core.PostFilter{})
	require.NoError(t, err)
	return count
}
