package core

import (
	"github.com/samber/lo"
)

type DBGroup interface {
	ID() int
	Name() string
}

type GroupDB interface {
	GetAllGroups(limit, offset int) ([]DBGroup, error)
	GetGroup(id int) (DBGroup, error)
	GetGroupByName(name string) (DBGroup, error) // returns ErrNotFound if there is no such group
	GetGroupsOf(u DBUser) ([]DBGroup, error)
	GetMembers(g DBGroup) ([]DBUser, error) // ordered by name
	InsertGroup(name string) error
	Join(g DBGroup, u DBUser) error
}

// GroupsOf shadows GroupDB.GetGroupsOf. The anonymous user is in no group.
func (c *CoreDB) GroupsOf(u DBUser) ([]DBGroup, error) {
	if u == nil {
		return nil, nil
	}
	return c.GroupDB.GetGroupsOf(u)
}

// IsMember returns whether the user is a member of the group with the given name.
func (c *CoreDB) IsMember(u DBUser, groupName string) (bool, error) {
	groups, err := c.GroupsOf(u)
	if err != nil {
		return false, err
	}
	return lo.ContainsBy(groups, func(g DBGroup) bool {
		return g.Name() == groupName
	}), nil
}
