package portal_test

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2/memstore"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/wansing/newsportal/core"
	"github.com/wansing/newsportal/core/mocks"
	"github.com/wansing/newsportal/portal"
	"github.com/wansing/newsportal/sqldb"
	"github.com/wansing/newsportal/sqldb/sqlite3"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	db       *core.CoreDB
	notifier *mocks.MockNotifier
	server   *httptest.Server

	authorID   int
	categoryID int
	postID     int
}

func setup(t *testing.T) *fixture {
	req := require.New(t)

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	req.NoError(err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	req.NoError(sqlite3.CreateTables(sqlDB))

	notifier := mocks.NewMockNotifier(gomock.NewController(t))

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
	db.Init(memstore.New(), "")

	req.NoError(db.InsertGroup("common"))
	req.NoError(db.InsertGroup("authors"))
	authors, err := db.GetGroupByName("authors")
	req.NoError(err)
	req.NoError(db.InsertPermission(authors, core.CanChangePost))
	req.NoError(db.InsertPermission(authors, core.CanDeletePost))

	alice, err := db.Signup("alice@example.com", "alice's password")
	req.NoError(err)
	req.NoError(db.Join(authors, alice))
	_, err = db.Signup("bob@example.com", "bob's password")
	req.NoError(err)

	authorID, err := db.InsertAuthor("A. Lee", alice.ID())
	req.NoError(err)
	categoryID, err := db.InsertCategory("Weather")
	req.NoError(err)

	postID, err := db.CreatePost(nil, core.News, &core.PostForm{
		Title:      "Storm warning",
		AuthorID:   authorID,
		Type:       core.TypeNews,
		CategoryID: categoryID,
		Text:       "Wind is **strong** <script>alert(1)</script>",
	})
	req.NoError(err)

	server := httptest.NewServer(db.SessionManager.LoadAndSave(portal.NewRouter(db, "")))
	t.Cleanup(server.Close)

	return &fixture{
		db:         db,
		notifier:   notifier,
		server:     server,
		authorID:   authorID,
		categoryID: categoryID,
		postID:     postID,
	}
}

// client keeps cookies and does not follow redirects
func (f *fixture) client(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type response struct {
	status   int
	location string
	body     string
}

func (f *fixture) do(t *testing.T, c *http.Client, method, path string, values url.Values, lang string) response {
	var body io.Reader
	if values != nil {
		body = strings.NewReader(values.Encode())
	}
	req, err := http.NewRequest(method, f.server.URL+path, body)
	require.NoError(t, err)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		body:     string(data),
	}
}

func (f *fixture) get(t *testing.T, c *http.Client, path string) response {
	return f.do(t, c, http.MethodGet, path, nil, "")
}

func (f *fixture) post(t *testing.T, c *http.Client, path string, values url.Values) response {
	return f.do(t, c, http.MethodPost, path, values, "")
}

func (f *fixture) login(t *testing.T, email, password string) *http.Client {
	c := f.client(t)
	resp := f.post(t, c, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, resp.status)
	return c
}

func (f *fixture) values(title, text string) url.Values {
	return url.Values{
		"title":    {title},
		"author":   {strconv.Itoa(f.authorID)},
		"type":     {string(core.TypeNews)},
		"category": {strconv.Itoa(f.categoryID)},
		"text":     {text},
	}
}

func (f *fixture) postPath(format string) string {
	return strings.Replace(format, "ID", strconv.Itoa(f.postID), 1)
}

func TestRoot(t *testing.T) {
	f := setup(t)
	resp := f.get(t, f.client(t), "/")
	require.Equal(t, http.StatusSeeOther, resp.status)
	require.Equal(t, "/news", resp.location)
}

func TestListAndDetail(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	c := f.client(t)

	resp := f.get(t, c, "/news")
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "Storm warning")
	req.Contains(resp.body, "A. Lee")
	req.NotContains(resp.body, "<script>alert")

	resp = f.get(t, c, f.postPath("/post/ID"))
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "<strong>strong</strong>")
	req.NotContains(resp.body, "<script>alert")
	req.NotContains(resp.body, "news/edit/") // anonymous users can't edit

	resp = f.get(t, f.login(t, "alice@example.com", "alice's password"), f.postPath("/post/ID"))
	req.Contains(resp.body, f.postPath("news/edit/ID"))
	req.Contains(resp.body, f.postPath("news/delete/ID"))

	req.Equal(http.StatusNotFound, f.get(t, c, "/post/999").status)
	req.Equal(http.StatusNotFound, f.get(t, c, "/post/abc").status)
}

func TestSearch(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	c := f.client(t)

	resp := f.get(t, c, "/news/search?title=STORM")
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "Storm warning")

	resp = f.get(t, c, "/news/search?title=budget")
	req.Contains(resp.body, "No posts found.")

	resp = f.get(t, c, "/news/search?type=article")
	req.Contains(resp.body, "No posts found.")

	resp = f.get(t, c, "/news/search?category="+strconv.Itoa(f.categoryID)+"&after=2000-01-01")
	req.Contains(resp.body, "Storm warning")

	resp = f.get(t, c, "/news/search?after=yesterday")
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "invalid date: yesterday")
	req.Contains(resp.body, "Storm warning")
}

func TestPagination(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	c := f.client(t)

	for _, title := range []string{"Two", "Three", "Four"} {
		_, err := f.db.CreatePost(nil, core.News, &core.PostForm{
			Title:      title,
			AuthorID:   f.authorID,
			Type:       core.TypeNews,
			CategoryID: f.categoryID,
			Text:       "Text of " + title,
		})
		req.NoError(err)
	}

	resp := f.get(t, c, "/news")
	req.Contains(resp.body, `href="news?page=2"`)
	req.NotContains(resp.body, ">Four<")

	resp = f.get(t, c, "/news?page=7") // clamped to the last page
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, ">Four<")
}

func TestCreate(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	c := f.client(t)

	resp := f.do(t, c, http.MethodGet, "/news/create", nil, "ru")
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "Добавить новость")
	req.Contains(resp.body, "Название статьи")

	resp = f.get(t, c, "/articles/create")
	req.Contains(resp.body, "Add article")
	req.Contains(resp.body, "You are not a member of the authors group.")

	resp = f.post(t, c, "/news/create", f.values("Same", "Same"))
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "the text must not be identical to the title")

	resp = f.post(t, c, "/news/create", f.values("Rain", "It will rain tomorrow."))
	req.Equal(http.StatusSeeOther, resp.status)
	req.True(strings.HasPrefix(resp.location, "/post/"))

	count, err := f.db.CountPosts(core.PostFilter{})
	req.NoError(err)
	req.Equal(2, count)
}

func TestEdit(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	path := f.postPath("/news/edit/ID")

	resp := f.get(t, f.client(t), path)
	req.Equal(http.StatusSeeOther, resp.status)
	req.Equal("/login", resp.location)

	bob := f.login(t, "bob@example.com", "bob's password")
	req.Equal(http.StatusForbidden, f.get(t, bob, path).status)
	req.Equal(http.StatusForbidden, f.post(t, bob, path, f.values("", "")).status) // permission before validation

	alice := f.login(t, "alice@example.com", "alice's password")

	resp = f.get(t, alice, path)
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "Edit news")
	req.Contains(resp.body, `value="Storm warning"`)

	resp = f.post(t, alice, path, f.values("", "Text"))
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "title is required")

	resp = f.post(t, alice, path, f.values("Storm over", "The storm is over."))
	req.Equal(http.StatusSeeOther, resp.status)
	req.Equal(f.postPath("/post/ID"), resp.location)

	p, err := f.db.GetPost(f.postID)
	req.NoError(err)
	req.Equal("Storm over", p.Title)

	req.Equal(http.StatusNotFound, f.get(t, alice, "/news/edit/999").status)
}

func TestDelete(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	path := f.postPath("/articles/delete/ID")

	resp := f.post(t, f.client(t), path, url.Values{})
	req.Equal(http.StatusSeeOther, resp.status)
	req.Equal("/login", resp.location)

	bob := f.login(t, "bob@example.com", "bob's password")
	req.Equal(http.StatusForbidden, f.post(t, bob, path, url.Values{}).status)

	alice := f.login(t, "alice@example.com", "alice's password")

	resp = f.get(t, alice, path)
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "Delete article")
	req.Contains(resp.body, `href="news"`)

	resp = f.post(t, alice, path, url.Values{})
	req.Equal(http.StatusSeeOther, resp.status)
	req.Equal("/news", resp.location)

	_, err := f.db.GetPost(f.postID)
	req.ErrorIs(err, core.ErrNotFound)

	req.Equal(http.StatusNotFound, f.post(t, alice, path, url.Values{}).status)
}

func TestSubscribe(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	path := "/categories/subscribe/" + strconv.Itoa(f.categoryID)

	resp := f.post(t, f.client(t), path, url.Values{})
	req.Equal(http.StatusSeeOther, resp.status)
	req.Equal("/login", resp.location)

	f.notifier.EXPECT().Send(gomock.Any(), "alice@example.com", gomock.Any(), gomock.Any()).Return(nil)

	alice := f.login(t, "alice@example.com", "alice's password")
	resp = f.post(t, alice, path, url.Values{})
	req.Equal(http.StatusSeeOther, resp.status)
	req.Equal("/news", resp.location)

	resp = f.get(t, alice, "/categories")
	req.Contains(resp.body, "Weather")
	req.Contains(resp.body, "subscribed")

	req.Equal(http.StatusNotFound, f.post(t, alice, "/categories/subscribe/999", url.Values{}).status)
}

func TestSignup(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	c := f.client(t)

	resp := f.post(t, c, "/signup", url.Values{"email": {"bob@example.com"}, "password": {"another password"}})
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "user exists already")

	resp = f.post(t, c, "/signup", url.Values{"email": {"carol"}, "password": {"carol's password"}})
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "email is invalid (email)")

	resp = f.post(t, c, "/signup", url.Values{"email": {"carol@example.com"}, "password": {"carol's password"}})
	req.Equal(http.StatusSeeOther, resp.status)
	req.Equal("/news", resp.location)

	resp = f.get(t, c, "/news")
	req.Contains(resp.body, "carol@example.com") // logged in

	carol, err := f.db.GetUserByName("carol@example.com")
	req.NoError(err)
	isMember, err := f.db.IsMember(carol, "common")
	req.NoError(err)
	req.True(isMember)
}

func TestLoginLogout(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	c := f.client(t)

	resp := f.post(t, c, "/login", url.Values{"email": {"alice@example.com"}, "password": {"wrong"}})
	req.Equal(http.StatusOK, resp.status)
	req.Contains(resp.body, "wrong email or password")

	resp = f.post(t, c, "/login", url.Values{"email": {"nobody@example.com"}, "password": {"wrong"}})
	req.Contains(resp.body, "wrong email or password")

	resp = f.get(t, c, "/logout")
	req.Equal(http.StatusSeeOther, resp.status)
	req.Equal("/login", resp.location)

	alice := f.login(t, "alice@example.com", "alice's password")
	resp = f.get(t, alice, "/news")
	req.Contains(resp.body, "Welcome alice@example.com!")

	resp = f.get(t, alice, "/logout")
	req.Equal(http.StatusSeeOther, resp.status)
	req.Equal("/news", resp.location)

	resp = f.get(t, alice, "/news")
	req.Contains(resp.body, "Goodbye")
	req.Contains(resp.body, `href="login"`)
}
