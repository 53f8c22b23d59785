package core

import (
	"fmt"

	"github.com/samber/lo"
)

// Permission is held by groups. Post permissions are model permissions and are never scoped to a single post.
type Permission string

const (
	CanViewPost   Permission = "view_post"
	CanAddPost    Permission = "add_post"
	CanChangePost Permission = "change_post"
	CanDeletePost Permission = "delete_post"
	CanAdmin      Permission = "admin" // manage groups, memberships and permissions
)

var AllPermissions = []Permission{CanViewPost, CanAddPost, CanChangePost, CanDeletePost, CanAdmin}

func (p Permission) Valid() bool {
	return lo.Contains(AllPermissions, p)
}

type PermissionDB interface {
	GetPermissions(groupID int) ([]Permission, error)
	InsertPermission(groupID int, perm Permission) error // no error if the group holds it already
	RemovePermission(groupID int, perm Permission) error
}

// InsertPermission shadows PermissionDB.InsertPermission.
func (c *CoreDB) InsertPermission(g DBGroup, perm Permission) error {
	if !perm.Valid() {
		return fmt.Errorf("unknown permission: %s", perm)
	}
	return c.PermissionDB.InsertPermission(g.ID(), perm)
}

// HasPermission returns whether any group of the user holds the permission.
func (c *CoreDB) HasPermission(u DBUser, perm Permission) (bool, error) {

	groups, err := c.GroupsOf(u)
	if err != nil {
		return false, err
	}

	for _, group := range groups {
		perms, err := c.PermissionDB.GetPermissions(group.ID())
		if err != nil {
			return false, err
		}
		if lo.Contains(perms, perm) {
			return true, nil
		}
	}

	return false, nil
}

// RequirePermission returns ErrPermissionDenied if the user does not hold the permission.
func (c *CoreDB) RequirePermission(u DBUser, perm Permission) error {
	ok, err := c.HasPermission(u, perm)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}
