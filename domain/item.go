package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// DiscussionBaseURL is where a story's discussion page lives on the web.
const DiscussionBaseURL = "https://news.ycombinator.com/item?id="

// Story is a single top-level submission. Stories are immutable once fetched.
type Story struct {
	ID          int
	By          string
	Title       string
	URL         string // External link; empty for Ask/Show posts
	Score       int
	Descendants int   // Total comment count reported by the remote
	Time        int64 // Unix seconds
	Domain      string
	Kids        []int // Top-level comment ids, in display order
	Text        string
}

// DiscussionURL returns the web URL of the story's comment page.
func (s Story) DiscussionURL() string {
	return fmt.Sprintf("%s%d", DiscussionBaseURL, s.ID)
}

// Comment is a single reply in a thread.
type Comment struct {
	ID      int
	By      string
	Text    string // HTML fragment, sanitize before display
	Time    int64
	Parent  int
	Kids    []int
	Deleted bool
	Dead    bool
}

// Tombstoned reports whether the comment was deleted or flagged dead.
func (c Comment) Tombstoned() bool {
	return c.Deleted || c.Dead
}

// CommentNode is a comment with its resolved replies.
type CommentNode struct {
	Comment
	Children []CommentNode
}

// Count returns the number of nodes in the subtree, including n.
func (n CommentNode) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// StoriesBatch is one page of resolved stories plus the cursor into the id list.
type StoriesBatch struct {
	Stories   []Story
	NextStart int
	HasMore   bool
}

// ExtractDomain returns the host of rawURL without a leading "www.".
// It returns "" when rawURL is empty or has no host.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
