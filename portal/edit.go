package portal

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/newsportal/core"
)

var editTmpl = tmpl(`<h1>{{ .Meta.PageTitle }}</h1>

	{{ if .Meta.IsNotAuthors }}
		<form method="post" action="upgrade" class="form-inline mb-3">
			<span class="text-muted mr-3">You are not a member of the authors group.</span>
			{{ if .LoggedIn }}
				<button type="submit" class="btn btn-sm btn-outline-primary">Become an author</button>
			{{ end }}
		</form>
	{{ end }}

	<form method="post">

		{{ with .Field "title" }}
			<div class="form-group">
				<label for="title">{{ .Label }}</label>
				<input class="form-control" type="text" id="title" name="title" maxlength="{{ $.MaxTitleLength }}" placeholder="{{ .Placeholder }}" value="{{ $.Form.Title }}" required autofocus>
			</div>
		{{ end }}

		<div class="form-row">
			{{ with .Field "author" }}
				<div class="form-group col-md-4">
					<label for="author">{{ .Label }}</label>
					<select class="form-control" id="author" name="author" required>
						<option value="">{{ .Placeholder }}</option>
						{{ range $.Authors }}
							<option value="{{ .ID }}" {{ if eq .ID $.Form.AuthorID }}selected{{ end }}>{{ .Name }}</option>
						{{ end }}
					</select>
				</div>
			{{ end }}

			{{ with .Field "type" }}
				<div class="form-group col-md-4">
					<label for="type">{{ .Label }}</label>
					<select class="form-control" id="type" name="type" required>
						{{ range $.Types }}
							<option value="{{ . }}" {{ if eq . $.Form.Type }}selected{{ end }}>{{ .String }}</option>
						{{ end }}
					</select>
				</div>
			{{ end }}

			{{ with .Field "category" }}
				<div class="form-group col-md-4">
					<label for="category">{{ .Label }}</label>
					<select class="form-control" id="category" name="category" required>
						<option value="">{{ .Placeholder }}</option>
						{{ range $.Categories }}
							<option value="{{ .ID }}" {{ if eq .ID $.Form.CategoryID }}selected{{ end }}>{{ .Name }}</option>
						{{ end }}
					</select>
				</div>
			{{ end }}
		</div>

		{{ with .Field "text" }}
			<div class="form-group">
				<label for="text">{{ .Label }}</label>
				<textarea class="form-control" id="text" name="text" rows="12" placeholder="{{ .Placeholder }}" required>{{ $.Form.Text }}</textarea>
			</div>
		{{ end }}

		<div class="form-group">
			<button type="submit" class="btn btn-primary">Save</button>
		</div>
	</form>`)

type editData struct {
	*context
	Meta       *core.PostMeta
	Form       *core.PostForm
	Authors    []*core.Author
	Categories []*core.Category
	Types      []core.PostType
	fields     map[string]core.FieldInfo
}

func (data *editData) Field(name string) core.FieldInfo {
	return data.fields[name]
}

func (data *editData) MaxTitleLength() int {
	return core.MaxTitleLength
}

func (ctx *context) renderEdit(w http.ResponseWriter, v core.Variant, op core.Op, form *core.PostForm) error {

	meta, err := ctx.db.EditMeta(ctx.User, v, op, ctx.Language)
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

	return editTmpl.Execute(w, &editData{
		context:    ctx,
		Meta:       meta,
		Form:       form,
		Authors:    authors,
		Categories: categories,
		Types:      []core.PostType{core.TypeArticle, core.TypeNews},
		fields:     core.PostFields(ctx.Language),
	})
}

func create(v core.Variant) handlerFunc {
	return func(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

		var form = &core.PostForm{
			Type: v.PostType(),
		}

		if req.Method == http.MethodPost {

			if err := req.ParseForm(); err != nil {
				return err
			}

			form = core.ParsePostForm(req.PostForm)

			id, err := ctx.db.CreatePost(ctx.User, v, form)
			if err == nil {
				ctx.Success("%s has been created", v.PostType())
				ctx.SeeOther("/post/%d", id)
				return nil
			}
			if !ctx.dangerAll(err) {
				return err
			}
		}

		return ctx.renderEdit(w, v, core.OpCreate, form)
	}
}

func edit(v core.Variant) handlerFunc {
	return func(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

		id, err := paramID(params)
		if err != nil {
			return err
		}

		var form *core.PostForm

		if req.Method == http.MethodPost {

			if err := req.ParseForm(); err != nil {
				return err
			}

			form = core.ParsePostForm(req.PostForm)

			err := ctx.db.UpdatePost(ctx.User, v, id, form)
			if err == nil {
				ctx.Success("%s has been saved", v.PostType())
				ctx.SeeOther("/post/%d", id)
				return nil
			}
			if !ctx.dangerAll(err) {
				return err
			}
		} else {
			post, err := ctx.db.OpenPost(ctx.User, core.OpUpdate, id)
			if err != nil {
				return err
			}
			form = core.FormOf(post)
		}

		return ctx.renderEdit(w, v, core.OpUpdate, form)
	}
}

var deleteTmpl = tmpl(`<h1>{{ .Meta.PageTitle }}</h1>

	<p>Do you really want to delete <em>{{ .Post.Title }}</em>?</p>

	<form method="post">
		<a class="btn btn-secondary" href="{{ Rel .Meta.PreviousPage }}">Cancel</a>
		<button type="submit" class="btn btn-danger">Delete</button>
	</form>`)

type deleteData struct {
	*context
	Meta *core.PostMeta
	Post *core.Post
}

func del(v core.Variant) handlerFunc {
	return func(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

		id, err := paramID(params)
		if err != nil {
			return err
		}

		if req.Method == http.MethodPost {
			target, err := ctx.db.DeletePost(ctx.User, v, id)
			if err != nil {
				return err
			}
			ctx.Success("%s has been deleted", v.PostType())
			ctx.SeeOther("%s", target)
			return nil
		}

		post, err := ctx.db.OpenPost(ctx.User, core.OpDelete, id)
		if err != nil {
			return err
		}

		meta, err := ctx.db.EditMeta(ctx.User, v, core.OpDelete, ctx.Language)
		if err != nil {
			return err
		}

		return deleteTmpl.Execute(w, &deleteData{
			context: ctx,
			Meta:    meta,
			Post:    post,
		})
	}
}
