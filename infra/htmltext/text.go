package htmltext

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
)

var (
	spaceRunRe  = regexp.MustCompile(`\s+`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
)

// ToText renders an HTML fragment as plain terminal text: paragraphs are
// separated by blank lines, list items get markers, links show their target
// and preformatted blocks keep their layout.
func ToText(fragment string) string {
	clean := Sanitize(fragment)
	if clean == "" {
		return ""
	}
	nodes, err := parseFragment(clean)
	if err != nil {
		return TerminalSafe(clean)
	}

	var w textWriter
	for _, n := range nodes {
		w.node(n)
	}

	lines := strings.Split(w.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	out := blankRunsRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return TerminalSafe(strings.Trim(out, "\n"))
}

// TerminalSafe strips escape sequences and control characters, keeping
// newlines. Tabs become four spaces.
func TerminalSafe(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case unicode.IsControl(r):
			return -1
		case r >= 0x200b && r <= 0x200f, r >= 0x202a && r <= 0x202e, r >= 0x2066 && r <= 0x2069:
			// Zero-width and bidi overrides.
			return -1
		default:
			return r
		}
	}, strings.ReplaceAll(s, "\t", "    "))
}

type textWriter struct {
	b strings.Builder
}

func (w *textWriter) String() string { return w.b.String() }

func (w *textWriter) atLineStart() bool {
	s := w.b.String()
	return s == "" || strings.HasSuffix(s, "\n")
}

func (w *textWriter) inline(s string) {
	if w.atLineStart() {
		s = strings.TrimLeft(s, " ")
	}
	w.b.WriteString(s)
}

func (w *textWriter) block(s string) {
	s = strings.Trim(s, "\n")
	if strings.TrimSpace(s) == "" {
		return
	}
	cur := w.b.String()
	switch {
	case cur == "", strings.HasSuffix(cur, "\n\n"):
	case strings.HasSuffix(cur, "\n"):
		w.b.WriteString("\n")
	default:
		w.b.WriteString("\n\n")
	}
	w.b.WriteString(s)
	w.b.WriteString("\n\n")
}

func (w *textWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.inline(spaceRunRe.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "br":
		w.b.WriteString("\n")
	case "p":
		w.block(renderChildren(n))
	case "pre":
		w.block(prefixLines(strings.Trim(rawText(n), "\n"), "  ", "  "))
	case "blockquote":
		w.block(prefixLines(strings.Trim(renderChildren(n), "\n"), "│ ", "│ "))
	case "ul", "ol":
		w.block(renderList(n))
	case "li":
		w.block(prefixLines(strings.Trim(renderChildren(n), "\n"), "• ", "  "))
	case "a":
		text := renderChildren(n)
		w.inline(text)
		if href := attr(n, "href"); href != "" && !sameLink(text, href) {
			w.inline(" (" + href + ")")
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.node(c)
		}
	}
}

func renderChildren(n *html.Node) string {
	var w textWriter
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
	return w.String()
}

func renderList(list *html.Node) string {
	var items []string
	index := 0
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		index++
		marker := "• "
		if list.Data == "ol" {
			marker = strconv.Itoa(index) + ". "
		}
		body := strings.Trim(renderChildren(c), "\n")
		items = append(items, prefixLines(body, marker, strings.Repeat(" ", len(marker))))
	}
	return strings.Join(items, "\n")
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = first + lines[i]
		} else {
			lines[i] = rest + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// sameLink reports whether the anchor text already shows the target, as the
// remote does for bare URLs (possibly truncated with "...").
func sameLink(text, href string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if text == href {
		return true
	}
	trimmed := strings.TrimSuffix(text, "...")
	return trimmed != text && strings.HasPrefix(href, trimmed)
}
