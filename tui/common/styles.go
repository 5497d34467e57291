package common

import "github.com/charmbracelet/lipgloss"

// Accent is the Hacker News orange.
const Accent = lipgloss.Color("#FF6600")

var (
	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			Padding(1, 2, 0, 1)

	// FeedTabActiveStyle marks the selected feed in the header.
	FeedTabActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1E1E2E")).
				Background(Accent).
				Bold(true).
				Padding(0, 1)

	FeedTabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6E738D")).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CAD3F5"))

	SelectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Accent)

	// DomainStyle styles "(example.com)" after a title.
	DomainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	AuthorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4"))

	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	MetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8087A2"))

	ContentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// CursorStyle is the gutter marker of the selected row.
	CursorStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// ThreadGuideStyle colors the indentation guides of nested replies.
	ThreadGuideStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#45475A"))

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Padding(1, 0, 0, 0)

	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true)
)
