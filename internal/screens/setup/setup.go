package setup

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdrill/internal/evaluator"
	"github.com/abhisek/prepdrill/internal/question"
	"github.com/abhisek/prepdrill/internal/router"
	"github.com/abhisek/prepdrill/internal/screen"
	"github.com/abhisek/prepdrill/internal/screens/practice"
	"github.com/abhisek/prepdrill/internal/session"
	"github.com/abhisek/prepdrill/internal/store"
	"github.com/abhisek/prepdrill/internal/ui/components"
	"github.com/abhisek/prepdrill/internal/ui/theme"
)

// Mode selects the kind of session being configured.
type Mode int

const (
	// ModeQuiz is the timed multiple-choice drill with a fixed question
	// count.
	ModeQuiz Mode = iota

	// ModeInterview is the open-ended conversational mock interview,
	// ended explicitly by the candidate.
	ModeInterview
)

const (
	quizQuestions      = 10
	quizTimeLimit      = 60 * time.Second
	interviewTimeLimit = 120 * time.Second
)

type step int

const (
	stepCategory step = iota
	stepTopic
)

// SetupScreen walks through category and topic selection before a
// session starts.
type SetupScreen struct {
	mode     Mode
	src      question.Source
	eval     evaluator.Evaluator
	sessions store.SessionRepo

	step     step
	category question.Category
	menu     components.Menu
}

var _ screen.Screen = (*SetupScreen)(nil)

// New creates a SetupScreen for the given mode.
func New(mode Mode, src question.Source, eval evaluator.Evaluator, sessions store.SessionRepo) *SetupScreen {
	s := &SetupScreen{
		mode:     mode,
		src:      src,
		eval:     eval,
		sessions: sessions,
	}
	s.menu = components.NewMenu(s.categoryItems())
	return s
}

func (s *SetupScreen) categoryItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(question.Catalog))
	for _, cat := range question.Catalog {
		cat := cat
		items = append(items, components.MenuItem{
			Label: cat.Name,
			Action: func() tea.Cmd {
				s.category = cat
				s.step = stepTopic
				s.menu = components.NewMenu(s.topicItems(cat))
				return nil
			},
		})
	}
	return items
}

func (s *SetupScreen) topicItems(cat question.Category) []components.MenuItem {
	items := make([]components.MenuItem, 0, len(cat.Topics))
	for _, topic := range cat.Topics {
		topic := topic
		items = append(items, components.MenuItem{
			Label: topic,
			Action: func() tea.Cmd {
				cfg := s.sessionConfig(cat.Name, topic)
				return func() tea.Msg {
					return router.ReplaceScreenMsg{
						Screen: practice.New(cfg, s.src, s.eval, s.sessions),
					}
				}
			},
		})
	}
	return items
}

func (s *SetupScreen) sessionConfig(category, topic string) session.Config {
	cfg := session.Config{
		Category:          category,
		Topic:             topic,
		InitialDifficulty: question.DifficultyEasy,
	}
	switch s.mode {
	case ModeInterview:
		cfg.Format = question.FormatOpenEnded
		cfg.TimeLimitPerQuestion = interviewTimeLimit
		cfg.TotalQuestions = 0
	default:
		cfg.Format = question.FormatMultipleChoice
		cfg.TimeLimitPerQuestion = quizTimeLimit
		cfg.TotalQuestions = quizQuestions
	}
	return cfg
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		// Back out of topic selection to the category list first.
		if s.step == stepTopic {
			s.step = stepCategory
			s.menu = components.NewMenu(s.categoryItems())
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SetupScreen) View(width, height int) string {
	var heading, sub string
	switch s.step {
	case stepTopic:
		heading = s.category.Name
		sub = "Pick a topic"
	default:
		if s.mode == ModeInterview {
			heading = "Mock Interview"
		} else {
			heading = "Aptitude Drill"
		}
		sub = "Pick a category"
	}

	var sections []string
	sections = append(sections, theme.Title.Width(width).Render(heading))
	sections = append(sections, theme.Subtitle.Width(width).Render(sub))
	sections = append(sections, "")
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Center, content)
}

func (s *SetupScreen) Title() string {
	if s.mode == ModeInterview {
		return "Interview Setup"
	}
	return "Drill Setup"
}
