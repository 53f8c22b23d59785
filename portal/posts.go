package portal

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/newsportal/core"
	"github.com/wansing/newsportal/util"
)

var listTmpl = tmpl(`
	{{ if .Searching }}
		<h1>Search</h1>

		<form method="get" action="news/search" class="mb-4">
			<div class="form-row">
				<div class="col-md-3 mb-2">
					<input class="form-control" type="text" name="title" placeholder="Title" value="{{ .Query.Get "title" }}">
				</div>
				<div class="col-md-2 mb-2">
					<select class="form-control" name="author">
						<option value="">Any author</option>
						{{ range .Authors }}
							<option value="{{ .ID }}" {{ if eq .ID $.Filter.AuthorID }}selected{{ end }}>{{ .Name }}</option>
						{{ end }}
					</select>
				</div>
				<div class="col-md-2 mb-2">
					<select class="form-control" name="category">
						<option value="">Any category</option>
						{{ range .Categories }}
							<option value="{{ .ID }}" {{ if eq .ID $.Filter.CategoryID }}selected{{ end }}>{{ .Name }}</option>
						{{ end }}
					</select>
				</div>
				<div class="col-md-2 mb-2">
					<select class="form-control" name="type">
						<option value="">Any type</option>
						{{ range .Types }}
							<option value="{{ . }}" {{ if eq . $.Filter.Type }}selected{{ end }}>{{ .String }}</option>
						{{ end }}
					</select>
				</div>
				<div class="col-md-2 mb-2">
					<input class="form-control" type="date" name="after" value="{{ .Query.Get "after" }}">
				</div>
				<div class="col-md-1 mb-2">
					<button type="submit" class="btn btn-primary">Search</button>
				</div>
			</div>
		</form>
	{{ else }}
		<h1>News</h1>
	{{ end }}

	{{ range .Posts }}
		<div class="mb-4">
			<h2><a href="post/{{ .ID }}">{{ .Title }}</a></h2>
			<p class="text-muted">
				{{ $.FormatDateTime .Time }}
				{{ with .Author }}&middot; {{ .Name }}{{ end }}
				{{ with .Category }}&middot; {{ .Name }}{{ end }}
				&middot; {{ .Type.String }}
			</p>
			<p>{{ Teaser .Text }}</p>
		</div>
	{{ else }}
		<p>No posts found.</p>
	{{ end }}

	<nav>
		<ul class="pagination">
			{{ range .PageLinks }}
				{{ . }}
			{{ end }}
		</ul>
	</nav>`)

type listData struct {
	*context
	*core.PostPage
	Path  string // relative to the base tag
	Query url.Values

	// search only
	Searching  bool
	Filter     core.PostFilter
	Authors    []*core.Author
	Categories []*core.Category
	Types      []core.PostType
}

func (data *listData) PageLinks() []template.HTML {
	var href = func(page int) string {
		var q = url.Values{}
		for k, v := range data.Query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		return template.HTMLEscapeString(data.Path + "?" + q.Encode())
	}
	return util.PageLinks(
		data.Page,
		data.Pages,
		func(page int, name string) string {
			return fmt.Sprintf(`<li class="page-item"><a class="page-link" href="%s">%s</a></li>`, href(page), name)
		},
		func(page int, name string) string {
			return fmt.Sprintf(`<li class="page-item active"><span class="page-link">%s</span></li>`, name)
		},
	)
}

func pageParam(req *http.Request) int {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	return page // SearchPosts clamps it
}

func list(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	postPage, err := ctx.db.ListPosts(pageParam(req))
	if err != nil {
		return err
	}

	return listTmpl.Execute(w, &listData{
		context:  ctx,
		PostPage: postPage,
		Path:     "news",
		Query:    url.Values{},
	})
}

// parseFilter reads a PostFilter from the query. Malformed values are reported and ignored.
func (ctx *context) parseFilter(query url.Values) core.PostFilter {

	var filter = core.PostFilter{
		Title: strings.TrimSpace(query.Get("title")),
		Type:  core.PostType(query.Get("type")),
	}

	var parseInt = func(key string) int {
		value := query.Get(key)
		if value == "" {
			return 0
		}
		i, err := strconv.Atoi(value)
		if err != nil {
			ctx.Danger(fmt.Errorf("invalid %s: %s", key, value))
			return 0
		}
		return i
	}

	filter.AuthorID = parseInt("author")
	filter.CategoryID = parseInt("category")

	if filter.Type != "" && filter.Type != core.TypeArticle && filter.Type != core.TypeNews {
		ctx.Danger(fmt.Errorf("invalid type: %s", filter.Type))
		filter.Type = ""
	}

	if after := query.Get("after"); after != "" {
		t, err := util.ParseDate(after)
		if err != nil {
			ctx.Danger(fmt.Errorf("invalid date: %s", after))
		} else {
			filter.After = t
		}
	}

	return filter
}

func search(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var query = req.URL.Query()
	var filter = ctx.parseFilter(query)
	query.Del("page")

	postPage, err := ctx.db.SearchPosts(filter, pageParam(req))
	if err != nil {
		return err
	}

	authors, err := ctx.db.GetAllAuthors()
	if err != nil {
		return err
	}

	categories, err := ctx.db.GetAllCategories()
	if err != nil {
		return err
	}

	return listTmpl.Execute(w, &listData{
		context:    ctx,
		PostPage:   postPage,
		Path:       "news/search",
		Query:      query,
		Searching:  true,
		Filter:     filter,
		Authors:    authors,
		Categories: categories,
		Types:      []core.PostType{core.TypeArticle, core.TypeNews},
	})
}

var detailTmpl = tmpl(`
	<h1>{{ .Post.Title }}</h1>
	<p class="text-muted">
		{{ .FormatDateTime .Post.Time }}
		{{ with .Post.Author }}&middot; {{ .Name }}{{ end }}
		{{ with .Post.Category }}&middot; {{ .Name }}{{ end }}
		&middot; {{ .Post.Type.String }}
	</p>

	<div class="mb-4">
		{{ Markdown .Post.Text }}
	</div>

	{{ if .CanChange }}
		<a class="btn btn-secondary" href="{{ .Variant.Slug }}/edit/{{ .Post.ID }}">Edit</a>
	{{ end }}
	{{ if .CanDelete }}
		<a class="btn btn-danger" href="{{ .Variant.Slug }}/delete/{{ .Post.ID }}">Delete</a>
	{{ end }}`)

type detailData struct {
	*context
	Post *core.PostView
}

// Variant returns the variant whose edit pages match the post type.
func (data *detailData) Variant() core.Variant {
	if data.Post.Type == core.TypeNews {
		return core.News
	}
	return core.Article
}

func detail(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := paramID(params)
	if err != nil {
		return err
	}

	post, err := ctx.db.GetPostDetail(id)
	if err != nil {
		return err
	}

	return detailTmpl.Execute(w, &detailData{
		context: ctx,
		Post:    post,
	})
}
