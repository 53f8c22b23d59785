package portal

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/newsportal/core"
)

var loginTmpl = tmpl(`<h1>Login</h1>
	<form method="post" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label>E-Mail</label>
			<input type="text" class="form-control" name="email" value="{{ .Email }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="login">Login</button>
		</div>
	</form>`)

type loginData struct {
	*context
	Email string
}

func login(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var email string

	if req.Method == http.MethodPost {

		email = req.PostFormValue("email")
		password := req.PostFormValue("password")

		err := ctx.Login(email, password)
		switch {
		case err == nil:
			ctx.SeeOther(core.ListingPath)
			return nil
		case errors.Is(err, core.ErrAuth), errors.Is(err, core.ErrNotFound):
			ctx.Danger(core.ErrAuth)
			// keep POST data for email field
		default:
			return err
		}
	}

	return loginTmpl.Execute(w, &loginData{
		context: ctx,
		Email:   email,
	})
}

func logout(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	ctx.Logout()
	ctx.Success("Goodbye")
	ctx.SeeOther(core.ListingPath)
	return nil
}

var signupTmpl = tmpl(`<h1>Sign up</h1>
	<form method="post" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label>E-Mail</label>
			<input type="email" class="form-control" name="email" value="{{ .Email }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" minlength="8" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary">Sign up</button>
		</div>
	</form>`)

func signup(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if ctx.LoggedIn() {
		ctx.SeeOther(core.ListingPath)
		return nil
	}

	var email string

	if req.Method == http.MethodPost {

		email = req.PostFormValue("email")
		password := req.PostFormValue("password")

		u, err := ctx.db.Signup(email, password)
		switch {
		case err == nil:
			if err := ctx.LoginAs(u); err != nil {
				return err
			}
			ctx.SeeOther(core.ListingPath)
			return nil
		case errors.Is(err, core.ErrUserExists):
			ctx.Danger(err)
		case ctx.dangerAll(err):
		default:
			return err
		}
	}

	return signupTmpl.Execute(w, &loginData{
		context: ctx,
		Email:   email,
	})
}

func upgrade(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	target, err := ctx.db.Upgrade(ctx.User)
	if err != nil {
		return err
	}
	ctx.Success("You are now a member of the authors group.")
	ctx.SeeOther("%s", target)
	return nil
}
