package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdrill/internal/evaluator"
	"github.com/abhisek/prepdrill/internal/question"
	"github.com/abhisek/prepdrill/internal/router"
	"github.com/abhisek/prepdrill/internal/screen"
	"github.com/abhisek/prepdrill/internal/screens/history"
	"github.com/abhisek/prepdrill/internal/screens/setup"
	"github.com/abhisek/prepdrill/internal/store"
	"github.com/abhisek/prepdrill/internal/ui/components"
	"github.com/abhisek/prepdrill/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen with injected dependencies.
func New(src question.Source, eval evaluator.Evaluator, sessions store.SessionRepo) *HomeScreen {
	items := []components.MenuItem{
		{
			Label:  "APTITUDE DRILL",
			Detail: "timed multiple-choice questions, adaptive difficulty",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: setup.New(setup.ModeQuiz, src, eval, sessions)}
				}
			},
		},
		{
			Label:  "MOCK INTERVIEW",
			Detail: "open-ended questions with conversational feedback",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: setup.New(setup.ModeInterview, src, eval, sessions)}
				}
			},
		},
		{
			Label:  "HISTORY",
			Detail: "past session reports",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: history.New(sessions)}
				}
			},
		},
		{
			Label: "EXIT",
			Action: func() tea.Cmd {
				return tea.Quit
			},
		},
	}

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(width).Render("PrepDrill"))
	sections = append(sections, theme.Subtitle.Width(width).Render("interview and aptitude practice, one question at a time"))
	sections = append(sections, "")
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
