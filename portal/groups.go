package portal

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/newsportal/core"
)

var groupsTmpl = tmpl(`<h1>Groups</h1>

	<ul>
		{{ range .Groups }}
			<li><a href="group/{{ .ID }}">{{ .Name }}</a></li>
		{{ end }}
	</ul>

	<h2>Create group</h2>

	<form method="post" class="form-inline">
		<div class="form-group">
			<input class="form-control" name="group_name" placeholder="Group name" required>
			<button type="submit" class="btn btn-primary mx-sm-3">Create group</button>
		</div>
	</form>`)

type groupsData struct {
	*context
	Groups []core.DBGroup
}

func groups(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		name := strings.TrimSpace(req.PostFormValue("group_name"))
		if name == "" {
			ctx.Danger(errors.New("missing group name"))
		} else if err := ctx.db.AdminCreateGroup(ctx.User, name); err != nil {
			return err
		} else {
			ctx.Success("group %s has been created", name)
			ctx.SeeOther("/groups")
			return nil
		}
	}

	all, err := ctx.db.AdminGroups(ctx.User)
	if err != nil {
		return err
	}

	return groupsTmpl.Execute(w, &groupsData{
		context: ctx,
		Groups:  all,
	})
}

var groupTmpl = tmpl(`<h1>Group &raquo;{{ .Group.Name }}&laquo;</h1>

	<h2>Members</h2>

	<ul>
		{{ range .Group.Members }}
			<li>{{ .Name }}</li>
		{{ else }}
			No members.
		{{ end }}
	</ul>

	{{ with .Group.NonMembers }}
		<form method="post" class="form-inline">
			<div class="form-group">
				<select class="form-control" name="user_id">
					{{ range . }}
						<option value="{{ .ID }}">{{ .Name }}</option>
					{{ end }}
				</select>
				<button type="submit" class="btn btn-primary mx-sm-3" name="action" value="join">Add user to group</button>
			</div>
		</form>
	{{ end }}

	<h2>Permissions</h2>

	<table class="table">
		<tbody>
			{{ range .Permissions }}
				<tr>
					<td>{{ . }}</td>
					<td class="text-right">
						<form method="post">
							<input type="hidden" name="permission" value="{{ . }}">
							{{ if $.Group.Holds . }}
								<button type="submit" class="btn btn-sm btn-danger" name="action" value="revoke">Revoke</button>
							{{ else }}
								<button type="submit" class="btn btn-sm btn-primary" name="action" value="grant">Grant</button>
							{{ end }}
						</form>
					</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	<p><a href="groups">All groups</a></p>`)

type groupData struct {
	*context
	Group *core.GroupDetail
}

func (data *groupData) Permissions() []core.Permission {
	return core.AllPermissions
}

func group(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := paramID(params)
	if err != nil {
		return err
	}

	if req.Method == http.MethodPost {

		switch action := req.PostFormValue("action"); action {
		case "join":
			userID, err := strconv.Atoi(req.PostFormValue("user_id"))
			if err != nil {
				return core.ErrNotFound
			}
			g, u, err := ctx.db.AdminJoin(ctx.User, id, userID)
			if err != nil {
				return err
			}
			ctx.Success("user %s has been added to group %s", u.Name(), g.Name())
		case "grant", "revoke":
			perm := core.Permission(req.PostFormValue("permission"))
			if !perm.Valid() {
				ctx.Danger(fmt.Errorf("unknown permission: %s", perm))
				break
			}
			granted := action == "grant"
			if err := ctx.db.AdminSetPermission(ctx.User, id, perm, granted); err != nil {
				return err
			}
			if granted {
				ctx.Success("permission %s has been granted", perm)
			} else {
				ctx.Success("permission %s has been revoked", perm)
			}
		}

		ctx.SeeOther("/group/%d", id)
		return nil
	}

	detail, err := ctx.db.AdminGroup(ctx.User, id)
	if err != nil {
		return err
	}

	return groupTmpl.Execute(w, &groupData{
		context: ctx,
		Group:   detail,
	})
}
