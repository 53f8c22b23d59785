package core

import (
	"github.com/samber/lo"
)

type Category struct {
	ID   int
	Name string
}

func (c *Category) String() string {
	return c.Name
}

type CategoryDB interface {
	AddSubscriber(categoryID, userID int) error // no-op if the user is subscribed already
	GetAllCategories() ([]*Category, error)
	GetCategory(id int) (*Category, error)
	GetSubscribedCategories(userID int) ([]int, error)
	GetSubscribers(categoryID int) ([]int, error)
	InsertCategory(name string) (int, error)
}

type CategoryItem struct {
	*Category
	IsSubscribed bool
}

// Categories returns all categories and marks those the user has subscribed to.
func (c *CoreDB) Categories(u DBUser) ([]CategoryItem, error) {

	all, err := c.CategoryDB.GetAllCategories()
	if err != nil {
		return nil, err
	}

	var subscribed []int
	if u != nil {
		subscribed, err = c.CategoryDB.GetSubscribedCategories(u.ID())
		if err != nil {
			return nil, err
		}
	}

	return lo.Map(all, func(cat *Category, _ int) CategoryItem {
		return CategoryItem{
			Category:     cat,
			IsSubscribed: lo.Contains(subscribed, cat.ID),
		}
	}), nil
}
