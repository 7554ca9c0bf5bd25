package letterboxd

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseDiaryPage(doc *html.Node) []DiaryEntry {
	var entries []DiaryEntry
	for _, row := range findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Tr && hasClass(n, "diary-entry-row")
	}) {
		entry := DiaryEntry{}
		if poster := findFirst(row, func(n *html.Node) bool { return hasClass(n, "linked-film-poster") }); poster != nil {
			entry.Slug = attr(poster, "data-film-slug")
		}
		if headline := findFirst(row, func(n *html.Node) bool {
			return n.DataAtom == atom.H3 && hasClass(n, "headline-3")
		}); headline != nil {
			entry.Title = textContent(headline)
		}
		if released := findFirst(row, func(n *html.Node) bool {
			return n.DataAtom == atom.Td && hasClass(n, "td-released")
		}); released != nil {
			entry.Year = textContent(released)
		}
		if day := findFirst(row, func(n *html.Node) bool {
			return n.DataAtom == atom.Td && hasClass(n, "td-day")
		}); day != nil {
			entry.Day, _ = strconv.Atoi(textContent(day))
		}
		if entry.Title == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func parsePosterSource(doc *html.Node) string {
	img := findFirst(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Img && hasClass(n, "image")
	})
	if img == nil {
		return ""
	}
	return strings.TrimSpace(attr(img, "src"))
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return out
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && match(child) {
			return child
		}
		if found := findFirst(child, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
