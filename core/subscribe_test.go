package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wansing/newsportal/core"
	"go.uber.org/mock/gomock"
)

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		f := setup(t)
		f.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.db.Subscribe(ctx, nil, f.categoryID)
		require.ErrorIs(t, err, core.ErrLoginRequired)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := setup(t)
		f.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.db.Subscribe(ctx, f.bob, 42)
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("twice", func(t *testing.T) {
		req := require.New(t)
		f := setup(t)

		f.notifier.EXPECT().
			Send(gomock.Any(), "bob@example.com", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, to, subject, body string) error {
				req.Contains(subject, "Weather")
				req.Contains(body, "Weather")
				req.Contains(body, to)
				return nil
			}).
			Times(2)

		for i := 0; i < 2; i++ {
			target, err := f.db.Subscribe(ctx, f.bob, f.categoryID)
			req.NoError(err)
			req.Equal(core.ListingPath, target)
		}

		subscribers, err := f.db.GetSubscribers(f.categoryID)
		req.NoError(err)
		req.Equal([]int{f.bob.ID()}, subscribers)
	})

	t.Run("transport failure keeps the subscription", func(t *testing.T) {
		req := require.New(t)
		f := setup(t)

		f.notifier.EXPECT().
			Send(gomock.Any(), "alice@example.com", gomock.Any(), gomock.Any()).
			Return(errors.New("connection refused")).
			Times(1)

		target, err := f.db.Subscribe(ctx, f.alice, f.categoryID)
		req.NoError(err)
		req.Equal(core.ListingPath, target)

		subscribers, err := f.db.GetSubscribers(f.categoryID)
		req.NoError(err)
		req.Equal([]int{f.alice.ID()}, subscribers)
	})
}

func TestCategories(t *testing.T) {
	req := require.New(t)
	f := setup(t)

	politics, err := f.db.InsertCategory("Politics")
	req.NoError(err)

	f.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	_, err = f.db.Subscribe(context.Background(), f.bob, politics)
	req.NoError(err)

	items, err := f.db.Categories(f.bob)
	req.NoError(err)
	req.Len(items, 2)
	req.Equal("Politics", items[0].Name)
	req.True(items[0].IsSubscribed)
	req.Equal("Weather", items[1].Name)
	req.False(items[1].IsSubscribed)

	items, err = f.db.Categories(nil)
	req.NoError(err)
	req.False(items[0].IsSubscribed)
}
