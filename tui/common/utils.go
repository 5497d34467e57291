package common

import (
	"fmt"
	"strings"
	"time"
)

var relativeUnits = []struct {
	suffix string
	size   time.Duration
}{
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
}

// FormatRelativeTime renders unix seconds relative to now using the largest
// whole unit among d/h/m/s, e.g. "10m ago". Anything under a second, or in
// the future, is "just now".
func FormatRelativeTime(unix int64, now time.Time) string {
	diff := max(now.Sub(time.Unix(unix, 0)), 0)
	for _, u := range relativeUnits {
		if diff >= u.size {
			return fmt.Sprintf("%d%s ago", int64(diff/u.size), u.suffix)
		}
	}
	return "just now"
}

// CountLabel renders "1 comment" / "3 comments".
func CountLabel(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}

func joinDot(parts []string) string {
	return strings.Join(parts, " • ")
}

// JoinMeta joins non-empty fragments with " · ".
func JoinMeta(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
