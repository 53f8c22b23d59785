package util

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

var inline = map[string]bool{
	"a":      true,
	"b":      true,
	"code":   true,
	"em":     true,
	"i":      true,
	"s":      true,
	"span":   true,
	"strong": true,
}

// PlainText returns the text content of an HTML fragment. Whitespace is collapsed and block boundaries become spaces.
func PlainText(input io.Reader) string {

	tokenizer := html.NewTokenizerFragment(input, "body")

	var text = &strings.Builder{}

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break // assuming tokenizer.Err() == io.EOF
		}

		switch tt {
		case html.TextToken:
			text.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			if name, _ := tokenizer.TagName(); !inline[string(name)] {
				text.WriteString(" ")
			}
		}
	}

	return strings.Join(strings.Fields(text.String()), " ")
}

// Teaser returns the first maxRunes runes of the text content of an HTML fragment.
func Teaser(htm string, maxRunes int) string {
	return Trunc(PlainText(strings.NewReader(htm)), maxRunes)
}
