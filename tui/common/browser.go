package common

import (
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// OpenFailedMsg reports that the system browser could not be started.
type OpenFailedMsg struct {
	URL string
	Err error
}

// OpenURL opens rawURL in the system browser. Anything but an absolute
// http(s) URL is ignored.
func OpenURL(rawURL string) tea.Cmd {
	rawURL = strings.TrimSpace(rawURL)
	if !IsSafeExternalURL(rawURL) {
		return nil
	}
	return func() tea.Msg {
		if err := browserCommand(rawURL).Start(); err != nil {
			return OpenFailedMsg{URL: rawURL, Err: err}
		}
		return nil
	}
}

func browserCommand(rawURL string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}

// IsSafeExternalURL reports whether raw is an absolute http or https URL.
func IsSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
