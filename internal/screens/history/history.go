package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdrill/internal/router"
	"github.com/abhisek/prepdrill/internal/screen"
	"github.com/abhisek/prepdrill/internal/store"
	"github.com/abhisek/prepdrill/internal/ui/layout"
	"github.com/abhisek/prepdrill/internal/ui/theme"
)

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

type answersLoadedMsg struct {
	Index   int
	Answers []store.AnswerRow
	Err     error
}

// HistoryScreen displays past session reports.
type HistoryScreen struct {
	sessions store.SessionRepo

	records  []store.SessionRecord
	answers  map[int][]store.AnswerRow
	expanded map[int]bool
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(sessions store.SessionRepo) *HistoryScreen {
	return &HistoryScreen{
		sessions: sessions,
		answers:  make(map[int][]store.AnswerRow),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		if s.sessions == nil {
			return historyLoadedMsg{}
		}
		records, err := s.sessions.ListSessions(context.Background(), 50)
		return historyLoadedMsg{Sessions: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err == nil {
			s.answers[msg.Index] = msg.Answers
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			return s, s.toggleDetails()
		}
	}
	return s, nil
}

// toggleDetails expands or collapses the selected session, lazily
// loading its answer log on first expand.
func (s *HistoryScreen) toggleDetails() tea.Cmd {
	if s.selected >= len(s.records) {
		return nil
	}
	s.expanded[s.selected] = !s.expanded[s.selected]

	if _, ok := s.answers[s.selected]; ok || !s.expanded[s.selected] {
		return nil
	}

	idx := s.selected
	id := s.records[idx].ID
	return func() tea.Msg {
		answers, err := s.sessions.Answers(context.Background(), id)
		return answersLoadedMsg{Index: idx, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		dateStr := rec.FinishedAt.Format("Jan 02, 2006")

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s · %s  %d questions  %d%%",
			prefix, dateStr, rec.Category, rec.Topic, rec.TotalQuestions, rec.ScorePercent)
		if rec.Mode == "interview" {
			line += "  (interview)"
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetails(i, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderDetails(i, width int) string {
	var b strings.Builder
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	rec := s.records[i]
	if len(rec.Strengths) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			dim.Render("    strengths: "+strings.Join(rec.Strengths, ", "))))
		b.WriteString("\n")
	}
	if len(rec.Weaknesses) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			dim.Render("    weaknesses: "+strings.Join(rec.Weaknesses, ", "))))
		b.WriteString("\n")
	}

	answers, ok := s.answers[i]
	if !ok {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			dim.Italic(true).Render("    loading answers...")))
		b.WriteString("\n")
		return b.String()
	}

	for _, a := range answers {
		mark := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		if a.Correct {
			mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		}
		note := ""
		if a.TimedOut {
			note = "  (timed out)"
		}
		line := fmt.Sprintf("    %s %s [%s]%s", mark, truncate(a.QuestionText, 60), a.Difficulty, note)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
