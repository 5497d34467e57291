// Package htmltext cleans comment HTML from the remote API and turns it into
// text a terminal can display safely.
package htmltext

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedTags = map[string]bool{
	"a":          true,
	"blockquote": true,
	"br":         true,
	"code":       true,
	"em":         true,
	"i":          true,
	"li":         true,
	"ol":         true,
	"p":          true,
	"pre":        true,
	"strong":     true,
	"ul":         true,
}

var allowedAttrs = map[string]bool{
	"href":   true,
	"rel":    true,
	"target": true,
	"title":  true,
}

// Elements removed together with everything inside them.
var droppedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"math":     true,
	"textarea": true,
	"select":   true,
	"title":    true,
	"head":     true,
}

// Sanitize keeps only allow-listed tags and attributes of an HTML fragment.
// Disallowed tags are unwrapped; their text survives. Scripting elements,
// event handlers and non-http(s)/mailto links are removed.
func Sanitize(fragment string) string {
	if fragment == "" {
		return ""
	}
	nodes, err := parseFragment(fragment)
	if err != nil {
		return html.EscapeString(fragment)
	}
	var b strings.Builder
	for _, n := range nodes {
		writeSanitized(&b, n)
	}
	return b.String()
}

func parseFragment(fragment string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(fragment), body)
}

func writeSanitized(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}

	if droppedTags[n.Data] {
		return
	}
	if !allowedTags[n.Data] {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeSanitized(b, c)
		}
		return
	}

	b.WriteString("<")
	b.WriteString(n.Data)
	for _, attr := range n.Attr {
		if attr.Namespace != "" || !allowedAttrs[attr.Key] {
			continue
		}
		if attr.Key == "href" && !SafeHref(attr.Val) {
			continue
		}
		b.WriteString(" ")
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.Val))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	if n.Data == "br" {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeSanitized(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Data)
	b.WriteString(">")
}

// SafeHref reports whether href is relative or uses http, https or mailto.
func SafeHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return !strings.Contains(strings.ToLower(u.Opaque), "script:")
	default:
		return false
	}
}
