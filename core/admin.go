package core

import (
	"fmt"

	"github.com/samber/lo"
)

// assuming there are not more than 10k groups and 100k users
const (
	maxGroups = 10000
	maxUsers  = 100000
)

// GroupDetail is a group together with its members and permissions.
type GroupDetail struct {
	DBGroup
	Members     []DBUser
	NonMembers  []DBUser // candidates for joining
	Permissions []Permission
}

// Holds reports whether the group holds the permission.
func (g *GroupDetail) Holds(perm Permission) bool {
	return lo.Contains(g.Permissions, perm)
}

func (c *CoreDB) requireAdmin(u DBUser) error {
	if !c.IsAuthenticated(u) {
		return ErrLoginRequired
	}
	return c.RequirePermission(u, CanAdmin)
}

// AdminGroups returns all groups, ordered by name.
func (c *CoreDB) AdminGroups(u DBUser) ([]DBGroup, error) {
	if err := c.requireAdmin(u); err != nil {
		return nil, err
	}
	return c.GroupDB.GetAllGroups(maxGroups, 0)
}

// AdminCreateGroup creates a group. Group names are unique.
func (c *CoreDB) AdminCreateGroup(u DBUser, name string) error {
	if err := c.requireAdmin(u); err != nil {
		return err
	}
	if err := c.GroupDB.InsertGroup(name); err != nil {
		return err
	}
	c.Logger().Info("created group", "admin", u.Name(), "group", name)
	return nil
}

// AdminGroup returns the group with the given id, or ErrNotFound.
func (c *CoreDB) AdminGroup(u DBUser, groupID int) (*GroupDetail, error) {

	if err := c.requireAdmin(u); err != nil {
		return nil, err
	}

	group, err := c.GroupDB.GetGroup(groupID)
	if err != nil {
		return nil, err
	}

	members, err := c.GroupDB.GetMembers(group)
	if err != nil {
		return nil, err
	}

	all, err := c.UserDB.GetAllUsers(maxUsers, 0)
	if err != nil {
		return nil, err
	}

	perms, err := c.PermissionDB.GetPermissions(group.ID())
	if err != nil {
		return nil, err
	}

	var memberIDs = lo.Map(members, func(m DBUser, _ int) int { return m.ID() })

	return &GroupDetail{
		DBGroup: group,
		Members: members,
		NonMembers: lo.Reject(all, func(a DBUser, _ int) bool {
			return lo.Contains(memberIDs, a.ID())
		}),
		Permissions: perms,
	}, nil
}

// AdminJoin adds the user to the group. It returns ErrNotFound if either does not exist.
func (c *CoreDB) AdminJoin(u DBUser, groupID, userID int) (DBGroup, DBUser, error) {

	if err := c.requireAdmin(u); err != nil {
		return nil, nil, err
	}

	group, err := c.GroupDB.GetGroup(groupID)
	if err != nil {
		return nil, nil, err
	}

	member, err := c.UserDB.GetUser(userID)
	if err != nil {
		return nil, nil, err
	}

	if err := c.GroupDB.Join(group, member); err != nil {
		return nil, nil, err
	}

	c.Logger().Info("joined group", "admin", u.Name(), "group", group.Name(), "user", member.Name())
	return group, member, nil
}

// AdminSetPermission grants or revokes the permission. Both are idempotent.
func (c *CoreDB) AdminSetPermission(u DBUser, groupID int, perm Permission, granted bool) error {

	if err := c.requireAdmin(u); err != nil {
		return err
	}

	if !perm.Valid() {
		return fmt.Errorf("unknown permission: %s", perm)
	}

	group, err := c.GroupDB.GetGroup(groupID)
	if err != nil {
		return err
	}

	if granted {
		err = c.PermissionDB.InsertPermission(group.ID(), perm)
	} else {
		err = c.PermissionDB.RemovePermission(group.ID(), perm)
	}
	if err != nil {
		return err
	}

	c.Logger().Info("set permission", "admin", u.Name(), "group", group.Name(), "permission", perm, "granted", granted)
	return nil
}
