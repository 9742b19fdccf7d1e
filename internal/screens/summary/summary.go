package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdrill/internal/router"
	"github.com/abhisek/prepdrill/internal/screen"
	"github.com/abhisek/prepdrill/internal/session"
	"github.com/abhisek/prepdrill/internal/store"
	"github.com/abhisek/prepdrill/internal/ui/layout"
	"github.com/abhisek/prepdrill/internal/ui/theme"
)

// SummaryScreen shows the final report for a finished session.
type SummaryScreen struct {
	record  store.SessionRecord
	report  *session.Report
	saveErr error
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. saveErr, when non-nil, notes that the
// session could not be persisted to history.
func New(record store.SessionRecord, report *session.Report, saveErr error) *SummaryScreen {
	return &SummaryScreen{record: record, report: report, saveErr: saveErr}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Report"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	r := s.report

	var b strings.Builder
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("Session Report"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %s", s.record.Category, s.record.Topic)))
	b.WriteString("\n\n")

	scoreStyle := theme.Correct
	if r.ScorePercent < 50 {
		scoreStyle = theme.Incorrect
	}
	b.WriteString(center.Render(scoreStyle.Render(fmt.Sprintf("%d%%", r.ScorePercent))))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Text).
		Render(fmt.Sprintf("%d of %d correct", r.CorrectAnswers, r.TotalQuestions)))
	b.WriteString("\n\n")

	b.WriteString(renderTagLine(center, "Strengths", r.Strengths, theme.Correct))
	b.WriteString(renderTagLine(center, "Needs work", r.AreasOfImprovement, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)))
	b.WriteString(renderTagLine(center, "Weaknesses", r.Weaknesses, theme.Incorrect))

	if s.saveErr != nil {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Error).
			Render(fmt.Sprintf("Could not save to history: %v", s.saveErr)))
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Center, b.String())
}

func renderTagLine(center lipgloss.Style, label string, tags []string, style lipgloss.Style) string {
	if len(tags) == 0 {
		return ""
	}
	line := style.Render(label+": ") +
		lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(tags, ", "))
	return center.Render(line) + "\n"
}
