package domain

import (
	"fmt"
	"strings"
)

// FeedType selects the sort order of the story feed.
type FeedType string

const (
	FeedTop FeedType = "top"
	FeedNew FeedType = "new"
)

// ParseFeedType accepts "top" or "new" (case-insensitive, surrounding space ignored).
func ParseFeedType(s string) (FeedType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FeedTop):
		return FeedTop, nil
	case string(FeedNew):
		return FeedNew, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFeed, s)
	}
}

// Endpoint returns the remote endpoint holding the feed's id list.
func (f FeedType) Endpoint() string {
	if f == FeedNew {
		return "newstories"
	}
	return "topstories"
}

// Toggle returns the other feed.
func (f FeedType) Toggle() FeedType {
	if f == FeedNew {
		return FeedTop
	}
	return FeedNew
}

// Label is the display name used in headers.
func (f FeedType) Label() string {
	if f == FeedNew {
		return "New"
	}
	return "Top"
}
