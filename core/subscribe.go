package core

import (
	"context"
	"fmt"
)

// Subscribe adds the user to the subscribers of the category and notifies them by email.
// Subscribing twice is not an error. The subscription is kept if the notification fails.
// On success, it returns the path of the listing.
func (c *CoreDB) Subscribe(ctx context.Context, u DBUser, categoryID int) (string, error) {

	if !c.IsAuthenticated(u) {
		return "", ErrLoginRequired
	}

	category, err := c.CategoryDB.GetCategory(categoryID)
	if err != nil {
		return "", err
	}

	if err := c.CategoryDB.AddSubscriber(category.ID, u.ID()); err != nil {
		return "", err
	}

	c.Logger().Info("subscribed", "user", u.Name(), "category", category.Name)

	c.notifySubscribed(ctx, u, category)

	return ListingPath, nil
}

func (c *CoreDB) notifySubscribed(ctx context.Context, u DBUser, category *Category) {

	if c.Notifier == nil {
		c.Logger().Warn("no notifier configured", "to", u.Name())
		return
	}

	var subject = fmt.Sprintf("News Portal: subscribed to updates of category %s", category)
	var body = fmt.Sprintf(`"%s", you have subscribed to updates of category %s`, u.Name(), category)

	if err := c.Notifier.Send(ctx, u.Name(), subject, body); err != nil {
		c.Logger().Error("notification failed", "err", TransportError{To: u.Name(), Err: err})
	}
}
