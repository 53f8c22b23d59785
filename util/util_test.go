package util

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPages(t *testing.T) {
	for _, tc := range []struct {
		current, num int
		want         []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{5, 10, []int{1, 3, 4, 5, 6, 7, 9, 10}},
		{1, 20, []int{1, 2, 3, 5, 9, 17, 20}},
	} {
		require.Equal(t, tc.want, Pages(tc.current, tc.num), "page %d of %d", tc.current, tc.num)
	}
}

func TestPageLinks(t *testing.T) {
	req := require.New(t)

	var link = func(page int, name string) string {
		return fmt.Sprintf("<a href=\"?page=%d\">%s</a>", page, name)
	}
	var current = func(page int, name string) string {
		return "<b>" + name + "</b>"
	}

	req.Empty(PageLinks(1, 1, link, current))

	links := PageLinks(2, 3, link, current)
	req.Len(links, 5)
	req.EqualValues(`<a href="?page=1">&laquo;</a>`, links[0])
	req.EqualValues(`<b>2</b>`, links[2])
	req.EqualValues(`<a href="?page=3">&raquo;</a>`, links[4])
}

func TestTrunc(t *testing.T) {
	require.Equal(t, "hello", Trunc(" hello ", 5))
	require.Equal(t, "hello…", Trunc("hello world", 6))
	require.Equal(t, "приве…", Trunc("привет", 5))
}

func TestTeaser(t *testing.T) {
	req := require.New(t)
	req.Equal("Heading First paragraph. Second", Teaser("<h1>Heading</h1>\n<p>First <em>paragraph</em>.</p><p>Second</p>", 100))
	req.Equal("a < b", Teaser("<p>a &lt; b</p>", 100))
	req.Equal("Heading…", Teaser("<h1>Heading</h1><p>Text</p>", 8))
}

func TestParseDate(t *testing.T) {
	req := require.New(t)

	d, err := ParseDate("2024-03-01")
	req.NoError(err)
	req.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("01.03.2024")
	req.Error(err)
}

func TestStripPrefix(t *testing.T) {
	req := require.New(t)

	handler := StripPrefix("/portal/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/news", http.StatusSeeOther)
			return
		}
		w.Write([]byte(r.URL.Path))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portal/", nil))
	req.Equal(http.StatusSeeOther, rec.Code)
	req.Equal("/portal/news", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portal/post/1", nil))
	req.Equal("/post/1", strings.TrimSpace(rec.Body.String()))
}
