package content

import (
	"bytes"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

// DefaultExcerptLength is the number of runes kept by Excerpt when no limit is given.
const DefaultExcerptLength = 200

var (
	markdown     goldmark.Markdown
	policy       *bluemonday.Policy
	markdownOnce sync.Once
)

func setup() {
	markdownOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough, extension.Table),
		)

		policy = bluemonday.NewPolicy()
		policy.AllowStandardURLs()
		policy.AllowElements(
			"p", "br", "hr",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
}

// Render converts user supplied markdown into sanitised HTML.
func Render(source string) (string, error) {
	setup()

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", eris.Wrap(err, "rendering markdown")
	}

	return strings.TrimSpace(policy.Sanitize(buf.String())), nil
}

// Sanitize strips anything outside the allowed formatting subset from raw HTML.
func Sanitize(raw string) string {
	setup()
	return strings.TrimSpace(policy.Sanitize(raw))
}

// Excerpt returns the visible text of an HTML fragment, whitespace collapsed and
// cut to at most limit runes with a trailing ellipsis.
func Excerpt(fragment string, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLength
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{Type: html.ElementNode, Data: "div"})
	if err != nil {
		return ""
	}

	var builder strings.Builder
	for _, node := range nodes {
		collectText(&builder, node)
	}

	text := strings.Join(strings.Fields(builder.String()), " ")
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func collectText(builder *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
		return
	case html.ElementNode:
		switch strings.ToLower(node.Data) {
		case "script", "style":
			return
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(builder, child)
	}

	if node.Type == html.ElementNode {
		builder.WriteByte(' ')
	}
}
