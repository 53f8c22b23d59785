package core

import (
	"math"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/language"
)

// PostMeta is handed to the edit and delete pages. It is display-only and never gates an operation.
type PostMeta struct {
	PageTitle    string
	IsNotAuthors bool   // the user is not a member of the authors group
	PreviousPage string // for delete pages
}

// EditMeta computes the metadata of an edit or delete page.
func (c *CoreDB) EditMeta(u DBUser, v Variant, op Op, lang language.Tag) (*PostMeta, error) {

	isAuthor, err := c.IsMember(u, c.AuthorsGroup)
	if err != nil {
		return nil, err
	}

	var meta = &PostMeta{
		PageTitle:    PageTitle(lang, v, op),
		IsNotAuthors: !isAuthor,
	}
	if op == OpDelete {
		meta.PreviousPage = ListingPath
	}
	return meta, nil
}

// OpenPost checks authentication and permissions for the operation, then loads the post.
//
// Updating requires a logged-in user with the change_post permission.
// Deleting requires the delete_post permission.
// The permissions are not scoped: whoever holds them may change or delete any post.
func (c *CoreDB) OpenPost(u DBUser, op Op, id int) (*Post, error) {

	switch op {
	case OpUpdate:
		if !c.IsAuthenticated(u) {
			return nil, ErrLoginRequired
		}
		if err := c.RequirePermission(u, CanChangePost); err != nil {
			return nil, err
		}
	case OpDelete:
		if err := c.RequirePermission(u, CanDeletePost); err != nil {
			return nil, err
		}
	}

	return c.PostDB.GetPost(id)
}

// CreatePost validates the form and inserts a new post. It returns the id of the new post.
func (c *CoreDB) CreatePost(u DBUser, v Variant, form *PostForm) (int, error) {

	if err := c.ValidatePost(form); err != nil {
		return 0, err
	}

	var p = &Post{
		Time: time.Now().UTC().Truncate(time.Second),
	}
	form.applyTo(p)

	id, err := c.PostDB.InsertPost(p)
	if err != nil {
		return 0, err
	}

	c.Logger().Info("post created", "id", id, "variant", v.Slug(), "user", userName(u))
	return id, nil
}

// UpdatePost shadows PostDB.UpdatePost. Nothing is written if the form is invalid.
func (c *CoreDB) UpdatePost(u DBUser, v Variant, id int, form *PostForm) error {

	p, err := c.OpenPost(u, OpUpdate, id)
	if err != nil {
		return err
	}

	if err := c.ValidatePost(form); err != nil {
		return err
	}

	form.applyTo(p)

	if err := c.PostDB.UpdatePost(p); err != nil {
		return err
	}

	c.Logger().Info("post updated", "id", id, "variant", v.Slug(), "user", userName(u))
	return nil
}

// DeletePost shadows PostDB.DeletePost. On success, it returns the path of the listing.
func (c *CoreDB) DeletePost(u DBUser, v Variant, id int) (string, error) {

	p, err := c.OpenPost(u, OpDelete, id)
	if err != nil {
		return "", err
	}

	if err := c.PostDB.DeletePost(p.ID); err != nil {
		return "", err
	}

	c.Logger().Info("post deleted", "id", id, "variant", v.Slug(), "user", userName(u))
	return ListingPath, nil
}

// PostView is a post along with its author and category. Both can be nil if the records have been removed.
type PostView struct {
	*Post
	Author   *Author
	Category *Category
}

type PostPage struct {
	Posts []*PostView
	Page  int // starting with 1
	Pages int
}

// ListPosts returns one page of all posts, oldest first.
func (c *CoreDB) ListPosts(page int) (*PostPage, error) {
	return c.SearchPosts(PostFilter{}, page)
}

// SearchPosts returns one page of the posts matching the filter, oldest first.
// The page number is clamped to the available pages.
func (c *CoreDB) SearchPosts(filter PostFilter, page int) (*PostPage, error) {

	count, err := c.PostDB.CountPosts(filter)
	if err != nil {
		return nil, err
	}

	var perPage = c.PerPage
	if perPage <= 0 {
		perPage = 3
	}

	var pages = int(math.Ceil(float64(count) / float64(perPage)))
	if pages < 1 {
		pages = 1
	}

	if page < 1 {
		page = 1
	}

	if page > pages {
		page = pages
	}

	posts, err := c.PostDB.GetPosts(filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	views, err := c.viewPosts(posts)
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts: views,
		Page:  page,
		Pages: pages,
	}, nil
}

// GetPostDetail returns a single post with its author and category.
func (c *CoreDB) GetPostDetail(id int) (*PostView, error) {

	p, err := c.PostDB.GetPost(id)
	if err != nil {
		return nil, err
	}

	views, err := c.viewPosts([]*Post{p})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (c *CoreDB) viewPosts(posts []*Post) ([]*PostView, error) {

	authors, err := c.AuthorDB.GetAllAuthors()
	if err != nil {
		return nil, err
	}

	categories, err := c.CategoryDB.GetAllCategories()
	if err != nil {
		return nil, err
	}

	var authorsByID = lo.KeyBy(authors, func(a *Author) int { return a.ID })
	var categoriesByID = lo.KeyBy(categories, func(cat *Category) int { return cat.ID })

	return lo.Map(posts, func(p *Post, _ int) *PostView {
		return &PostView{
			Post:     p,
			Author:   authorsByID[p.AuthorID],
			Category: categoriesByID[p.CategoryID],
		}
	}), nil
}

func userName(u DBUser) string {
	if u == nil {
		return "anonymous"
	}
	return u.Name()
}
