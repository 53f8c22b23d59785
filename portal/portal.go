// Package portal contains the HTTP handlers of the news portal.
package portal

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/newsportal/core"
	"github.com/wansing/newsportal/util"
	"gitlab.com/golang-commonmark/markdown"
)

const teaserLength = 200

var commonMarkParser = markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

func renderMarkdown(text string) template.HTML {
	return template.HTML(commonMarkParser.RenderToString([]byte(text))) // raw HTML is escaped by the parser
}

// we need the CoreDB in the handlers
type context struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.CoreDB
}

func (ctx *context) can(perm core.Permission) bool {
	ok, err := ctx.db.HasPermission(ctx.User, perm)
	if err != nil {
		ctx.db.Logger().Error("checking permission", "perm", perm, "err", err)
	}
	return ok
}

func (ctx *context) CanChange() bool {
	return ctx.can(core.CanChangePost)
}

func (ctx *context) CanDelete() bool {
	return ctx.can(core.CanDeletePost)
}

func (ctx *context) CanAdmin() bool {
	return ctx.can(core.CanAdmin)
}

// dangerAll adds a notification for each validation failure. It returns false if err is not a validation failure.
func (ctx *context) dangerAll(err error) bool {
	var errs core.ValidationErrors
	if !errors.As(err, &errs) {
		return false
	}
	for _, e := range errs {
		ctx.Danger(e)
	}
	return true
}

// fail maps an error to a redirect or an HTTP status and renders the error template.
func (ctx *context) fail(w http.ResponseWriter, err error) {

	var status int
	var message string

	switch {
	case errors.Is(err, core.ErrLoginRequired):
		ctx.SeeOther("/login")
		return
	case errors.Is(err, core.ErrPermissionDenied):
		if !ctx.LoggedIn() {
			ctx.SeeOther("/login")
			return
		}
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	default:
		ctx.db.Logger().Error("handling request", "err", err)
		status = http.StatusInternalServerError
		message = http.StatusText(http.StatusInternalServerError)
	}

	ctx.WriteHeader(status)
	_ = errorTmpl.Execute(w, struct {
		*context
		Err string
	}{
		context: ctx,
		Err:     message,
	})
}

type handlerFunc func(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error

func middleware(db *core.CoreDB, prefix string, requireLoggedIn bool, f handlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var ctx = &context{
			Request: db.NewRequest(w, req),
			Prefix:  prefix + "/",
			db:      db,
		}
		defer ctx.Cleanup()

		if requireLoggedIn && !ctx.LoggedIn() {
			ctx.SeeOther("/login")
			return
		}

		if err := f(w, req, ctx, params); err != nil {
			ctx.fail(w, err)
		}
	}
}

// paramID returns ErrNotFound if the id parameter is not a number.
func paramID(params httprouter.Params) (int, error) {
	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return 0, core.ErrNotFound
	}
	return id, nil
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

// NewRouter returns the portal handler. It must be wrapped by db.SessionManager.LoadAndSave.
// The prefix is used in the base tag and must not have a trailing slash.
func NewRouter(db *core.CoreDB, prefix string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	router.GET("/", middleware(db, prefix, false, root))

	router.GET("/news", middleware(db, prefix, false, list))
	router.GET("/news/search", middleware(db, prefix, false, search))
	router.GET("/post/:id", middleware(db, prefix, false, detail))

	for _, v := range []core.Variant{core.Article, core.News} {
		GETAndPOST("/"+v.Slug()+"/create", middleware(db, prefix, false, create(v)))
		GETAndPOST("/"+v.Slug()+"/edit/:id", middleware(db, prefix, false, edit(v)))
		GETAndPOST("/"+v.Slug()+"/delete/:id", middleware(db, prefix, false, del(v)))
	}

	router.GET("/categories", middleware(db, prefix, false, categories))
	router.POST("/categories/subscribe/:id", middleware(db, prefix, false, subscribe))

	router.POST("/upgrade", middleware(db, prefix, true, upgrade))

	GETAndPOST("/groups", middleware(db, prefix, true, groups))
	GETAndPOST("/group/:id", middleware(db, prefix, true, group))

	GETAndPOST("/signup", middleware(db, prefix, false, signup))
	GETAndPOST("/login", middleware(db, prefix, false, login))
	router.GET("/logout", middleware(db, prefix, true, logout))

	return router
}

func root(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	ctx.SeeOther(core.ListingPath)
	return nil
}

func tmpl(text string) *template.Template {
	t := template.Must(portalTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var portalTmpl = template.Must(template.New("portal").Funcs(
	template.FuncMap{
		"Markdown": renderMarkdown,
		"Rel": func(path string) string {
			return strings.TrimPrefix(path, "/") // relative to the base tag
		},
		"Teaser": func(text string) string {
			return util.Teaser(string(renderMarkdown(text)), teaserLength)
		},
	},
).Parse(`
<!DOCTYPE html>
<html lang="{{ .Language }}">
	<head>
		<base href="{{ .Prefix }}">
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<link rel="stylesheet" type="text/css" href="https://cdn.jsdelivr.net/npm/bootstrap@4.4.1/dist/css/bootstrap.min.css">
		<title>News Portal</title>
	</head>
	<body>

		<nav class="navbar navbar-expand-md bg-light">
			<a class="navbar-brand" href="news">News Portal</a>
			<ul class="navbar-nav mr-auto">
				<li class="nav-item">
					<a class="nav-link" href="news/search">Search</a>
				</li>
				<li class="nav-item">
					<a class="nav-link" href="categories">Categories</a>
				</li>
				<li class="nav-item">
					<a class="nav-link" href="news/create">Add news</a>
				</li>
				<li class="nav-item">
					<a class="nav-link" href="articles/create">Add article</a>
				</li>
			</ul>
			<ul class="navbar-nav">
				{{ if .CanAdmin }}
					<li class="nav-item">
						<a class="nav-link" href="groups">Groups</a>
					</li>
				{{ end }}
				{{ if .LoggedIn }}
					<li class="nav-item">
						<span class="navbar-text mr-3">{{ .User.Name }}</span>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="logout">Logout</a>
					</li>
				{{ else }}
					<li class="nav-item">
						<a class="nav-link" href="login">Login</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="signup">Sign up</a>
					</li>
				{{ end }}
			</ul>
		</nav>

		<div class="container pt-3">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>

	</body>
</html>`))
