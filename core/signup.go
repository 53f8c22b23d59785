package core

import (
	"errors"
	"strings"
)

// A SignupHook runs after an account has been created.
type SignupHook func(u DBUser) error

// joinGroupByName yields GroupNotFoundError if there is no group with the given name.
func joinGroupByName(groups GroupDB, name string, u DBUser) error {
	group, err := groups.GetGroupByName(name)
	if errors.Is(err, ErrNotFound) {
		return GroupNotFoundError{Name: name}
	}
	if err != nil {
		return err
	}
	return groups.Join(group, u)
}

// DefaultGroupHook joins new users to the group with the given name.
// A missing group is a deployment error and yields GroupNotFoundError.
func DefaultGroupHook(groups GroupDB, name string) SignupHook {
	return func(u DBUser) error {
		return joinGroupByName(groups, name, u)
	}
}

type signupRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8,maxbytes=72"` // bcrypt refuses more than 72 bytes
}

// Signup creates an account and runs the SignupHooks on it.
// If setting the password or a hook fails, the account is removed again.
func (c *CoreDB) Signup(email, password string) (DBUser, error) {

	var req = signupRequest{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}

	errs, _, err := checkStruct(req)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	u, err := c.UserDB.InsertUser(req.Email)
	if err != nil {
		return nil, err
	}

	if err := c.completeSignup(u, req.Password); err != nil {
		if delErr := c.UserDB.DeleteUser(u); delErr != nil {
			c.Logger().Error("removing incomplete account", "user", u.Name(), "err", delErr)
		}
		return nil, err
	}

	c.Logger().Info("signed up", "user", u.Name())
	return u, nil
}

func (c *CoreDB) completeSignup(u DBUser, password string) error {
	if err := c.SetPassword(u, password); err != nil {
		return err
	}
	for _, hook := range c.SignupHooks {
		if err := hook(u); err != nil {
			return err
		}
	}
	return nil
}

// Upgrade joins the user to the authors group. It does nothing if the user is a member already.
// On success, it returns the path of the listing.
func (c *CoreDB) Upgrade(u DBUser) (string, error) {

	if !c.IsAuthenticated(u) {
		return "", ErrLoginRequired
	}

	if err := joinGroupByName(c.GroupDB, c.AuthorsGroup, u); err != nil {
		return "", err
	}

	c.Logger().Info("joined authors", "user", u.Name(), "group", c.AuthorsGroup)
	return ListingPath, nil
}
