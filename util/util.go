package util

import (
	"html/template"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// Pages returns non-consecutive page numbers from 1 to numPages. The gaps grow exponentially with the distance from currentPage.
func Pages(currentPage int, numPages int) []int {

	var pages = []int{1, currentPage, numPages}

	for delta := 1; currentPage-delta > 1 || currentPage+delta < numPages; delta *= 2 {
		if currentPage-delta > 0 {
			pages = append(pages, currentPage-delta)
		}
		if currentPage+delta < numPages {
			pages = append(pages, currentPage+delta)
		}
	}

	pages = lo.Uniq(pages)
	sort.Ints(pages)
	return pages
}

// PageLinks calls Pages and wraps links around its result. It adds links to the previous and next page if they exist.
func PageLinks(currentPage int, numPages int, htm func(page int, name string) string, currentPageHtm func(page int, name string) string) []template.HTML {

	pagelinks := []template.HTML{}

	if currentPage < 1 || numPages < 2 {
		return pagelinks
	}

	if currentPage > 1 {
		pagelinks = append(pagelinks, template.HTML(htm(currentPage-1, `&laquo;`)))
	}

	for _, page := range Pages(currentPage, numPages) {
		if page == currentPage {
			pagelinks = append(pagelinks, template.HTML(currentPageHtm(page, strconv.Itoa(page))))
		} else {
			pagelinks = append(pagelinks, template.HTML(htm(page, strconv.Itoa(page))))
		}
	}

	if currentPage < numPages {
		pagelinks = append(pagelinks, template.HTML(htm(currentPage+1, `&raquo;`)))
	}

	return pagelinks
}
