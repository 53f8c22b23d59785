package core

import (
	"golang.org/x/text/language"
)

// ListingPath is where users are sent after deleting a post or subscribing to a category.
const ListingPath = "/news"

// Variant selects display copy. Articles and news are stored alike.
type Variant int

const (
	Article Variant = iota
	News
)

// Slug is the first path segment of the edit pages.
func (v Variant) Slug() string {
	if v == News {
		return "news"
	}
	return "articles"
}

// PostType is the type which is preselected when creating a post.
func (v Variant) PostType() PostType {
	if v == News {
		return TypeNews
	}
	return TypeArticle
}

type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

var pageTitles = map[string]map[Variant]map[Op]string{
	"en": {
		Article: {
			OpCreate: "Add article",
			OpUpdate: "Edit article",
			OpDelete: "Delete article",
		},
		News: {
			OpCreate: "Add news",
			OpUpdate: "Edit news",
			OpDelete: "Delete news",
		},
	},
	"ru": {
		Article: {
			OpCreate: "Добавить статью",
			OpUpdate: "Редактировать статью",
			OpDelete: "Удалить статью",
		},
		News: {
			OpCreate: "Добавить новость",
			OpUpdate: "Редактировать новость",
			OpDelete: "Удалить новость",
		},
	},
}

func PageTitle(lang language.Tag, v Variant, op Op) string {
	return pageTitles[langKey(lang)][v][op]
}

// langKey returns "ru" for Russian and "en" for everything else.
func langKey(lang language.Tag) string {
	if base, _ := lang.Base(); base.String() == "ru" {
		return "ru"
	}
	return "en"
}
