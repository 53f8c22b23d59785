package portal

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/newsportal/core"
)

var categoriesTmpl = tmpl(`<h1>Categories</h1>

	<table class="table">
		<tbody>
			{{ range .Categories }}
				<tr>
					<td>{{ .Name }}</td>
					<td class="text-right">
						{{ if .IsSubscribed }}
							<span class="badge badge-success">subscribed</span>
						{{ else if $.LoggedIn }}
							<form method="post" action="categories/subscribe/{{ .ID }}">
								<button type="submit" class="btn btn-sm btn-primary">Subscribe</button>
							</form>
						{{ end }}
					</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	{{ if not .LoggedIn }}
		<p><a href="login">Log in</a> to subscribe to a category.</p>
	{{ end }}`)

type categoriesData struct {
	*context
	Categories []core.CategoryItem
}

func categories(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	items, err := ctx.db.Categories(ctx.User)
	if err != nil {
		return err
	}

	return categoriesTmpl.Execute(w, &categoriesData{
		context:    ctx,
		Categories: items,
	})
}

func subscribe(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := paramID(params)
	if err != nil {
		return err
	}

	target, err := ctx.db.Subscribe(req.Context(), ctx.User, id)
	if err != nil {
		return err
	}

	ctx.Success("You have subscribed to the category. A confirmation has been sent to %s.", ctx.User.Name())
	ctx.SeeOther("%s", target)
	return nil
}
