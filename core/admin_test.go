package core_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/wansing/newsportal/core"
)

// makeAdmin grants the admin permission to a new group "admins" and joins alice to it.
func (f *fixture) makeAdmin(t *testing.T) core.DBGroup {
	req := require.New(t)
	req.NoError(f.db.InsertGroup("admins"))
	admins, err := f.db.GetGroupByName("admins")
	req.NoError(err)
	req.NoError(f.db.InsertPermission(admins, core.CanAdmin))
	req.NoError(f.db.Join(admins, f.alice))
	return admins
}

func names[T interface{ Name() string }](items []T) []string {
	return lo.Map(items, func(item T, _ int) string { return item.Name() })
}

func TestAdminAccess(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	f.makeAdmin(t)

	_, err := f.db.AdminGroups(nil)
	req.ErrorIs(err, core.ErrLoginRequired)

	_, err = f.db.AdminGroups(f.bob)
	req.ErrorIs(err, core.ErrPermissionDenied)
	req.ErrorIs(f.db.AdminCreateGroup(f.bob, "editors"), core.ErrPermissionDenied)
	_, _, err = f.db.AdminJoin(f.bob, 1, f.bob.ID())
	req.ErrorIs(err, core.ErrPermissionDenied)
	req.ErrorIs(f.db.AdminSetPermission(f.bob, 1, core.CanAdmin, true), core.ErrPermissionDenied)

	groups, err := f.db.AdminGroups(f.alice)
	req.NoError(err)
	req.Equal([]string{"admins", "authors", "common"}, names(groups))
}

func TestAdminGroup(t *testing.T) {
	req := require.New(t)
	f := setup(t)
	f.makeAdmin(t)

	req.NoError(f.db.AdminCreateGroup(f.alice, "editors"))
	req.Error(f.db.AdminCreateGroup(f.alice, "editors"))
	req.Error(f.db.AdminCreateGroup(f.alice, " "))

	editors, err := f.db.GetGroupByName("editors")
	req.NoError(err)

	detail, err := f.db.AdminGroup(f.alice, editors.ID())
	req.NoError(err)
	req.Equal("editors", detail.Name())
	req.Empty(detail.Members)
	req.Empty(detail.Permissions)
	req.Equal([]string{"alice@example.com", "bob@example.com"}, names(detail.NonMembers))

	group, member, err := f.db.AdminJoin(f.alice, editors.ID(), f.bob.ID())
	req.NoError(err)
	req.Equal("editors", group.Name())
	req.Equal("bob@example.com", member.Name())

	req.NoError(f.db.AdminSetPermission(f.alice, editors.ID(), core.CanChangePost, true))
	req.NoError(f.db.AdminSetPermission(f.alice, editors.ID(), core.CanChangePost, true))

	ok, err := f.db.HasPermission(f.bob, core.CanChangePost)
	req.NoError(err)
	req.True(ok)

	detail, err = f.db.AdminGroup(f.alice, editors.ID())
	req.NoError(err)
	req.Equal([]string{"bob@example.com"}, names(detail.Members))
	req.Equal([]string{"alice@example.com"}, names(detail.NonMembers))
	req.True(detail.Holds(core.CanChangePost))
	req.False(detail.Holds(core.CanDeletePost))

	req.NoError(f.db.AdminSetPermission(f.alice, editors.ID(), core.CanChangePost, false))
	ok, err = f.db.HasPermission(f.bob, core.CanChangePost)
	req.NoError(err)
	req.False(ok)

	t.Run("unknown", func(t *testing.T) {
		req := require.New(t)

		_, err := f.db.AdminGroup(f.alice, 4711)
		req.ErrorIs(err, core.ErrNotFound)

		_, _, err = f.db.AdminJoin(f.alice, 4711, f.bob.ID())
		req.ErrorIs(err, core.ErrNotFound)
		_, _, err = f.db.AdminJoin(f.alice, editors.ID(), 4711)
		req.ErrorIs(err, core.ErrNotFound)

		req.ErrorIs(f.db.AdminSetPermission(f.alice, 4711, core.CanChangePost, true), core.ErrNotFound)
		req.Error(f.db.AdminSetPermission(f.alice, editors.ID(), "fly", true))
	})
}
