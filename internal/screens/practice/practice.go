package practice

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepdrill/internal/evaluator"
	"github.com/abhisek/prepdrill/internal/question"
	"github.com/abhisek/prepdrill/internal/router"
	"github.com/abhisek/prepdrill/internal/screen"
	"github.com/abhisek/prepdrill/internal/screens/summary"
	"github.com/abhisek/prepdrill/internal/session"
	"github.com/abhisek/prepdrill/internal/store"
	"github.com/abhisek/prepdrill/internal/ui/components"
	"github.com/abhisek/prepdrill/internal/ui/layout"
)

// PracticeScreen drives one session from first question to report. It
// serializes all input into the engine and disables input while a
// network call is pending.
type PracticeScreen struct {
	cfg      session.Config
	engine   *session.Engine
	sessions store.SessionRepo

	view       session.View
	input      components.TextInput
	mcSelected int

	busy            bool
	showQuitConfirm bool
	errMsg          string
	lastAnswer      string
	startedAt       time.Time
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen and its session engine.
func New(cfg session.Config, src question.Source, eval evaluator.Evaluator, sessions store.SessionRepo) *PracticeScreen {
	return &PracticeScreen{
		cfg:      cfg,
		engine:   session.New(cfg, src, eval),
		sessions: sessions,
		input:    components.NewTextInput("Type your answer...", 500),
	}
}

func (p *PracticeScreen) Init() tea.Cmd {
	p.busy = true
	p.startedAt = time.Now()
	return tea.Batch(
		p.engineCmd(func() (session.View, error) {
			return p.engine.Start(context.Background())
		}),
		tickCmd(),
		p.input.Init(),
	)
}

func (p *PracticeScreen) Title() string {
	if p.cfg.Format == question.FormatOpenEnded {
		return "Mock Interview"
	}
	return "Aptitude Drill"
}

func (p *PracticeScreen) Status() string {
	if p.view.State == session.StateNotStarted {
		return p.cfg.Category
	}
	return p.cfg.Category + " · " + p.view.Difficulty.String()
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case p.showQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case p.errMsg != "":
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Esc", Description: "End session"},
		}
	case p.view.State == session.StateFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "End session"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "End session"},
		}
	}
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case engineViewMsg:
		return p.handleEngineView(msg)

	case tickMsg:
		return p.handleTick()

	case savedMsg:
		return p.handleSaved(msg)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.textInputActive() {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *PracticeScreen) handleEngineView(msg engineViewMsg) (screen.Screen, tea.Cmd) {
	p.busy = false
	p.view = msg.View

	if msg.Err != nil {
		p.errMsg = msg.Err.Error()
		return p, nil
	}
	p.errMsg = ""

	switch msg.View.State {
	case session.StateAwaitingAnswer:
		p.mcSelected = 0
		if p.cfg.Format == question.FormatOpenEnded {
			p.input = components.NewTextInput("Type your answer...", 500)
			return p, p.input.Init()
		}
	case session.StateFinished:
		return p, p.saveCmd()
	}
	return p, nil
}

func (p *PracticeScreen) handleTick() (screen.Screen, tea.Cmd) {
	if p.view.State == session.StateFinished {
		return p, nil
	}
	// Pick up countdown movement and timer-driven resolutions.
	if !p.busy {
		p.view = p.engine.View()
	}
	return p, tickCmd()
}

func (p *PracticeScreen) handleSaved(msg savedMsg) (screen.Screen, tea.Cmd) {
	// A failed save still shows the report; the session itself is done.
	report := p.view.Report
	saveErr := msg.Err
	rec := msg.Record

	return p, func() tea.Msg {
		return router.ReplaceScreenMsg{
			Screen: summary.New(rec, report, saveErr),
		}
	}
}

func (p *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if p.showQuitConfirm {
		switch key {
		case "y", "Y":
			p.showQuitConfirm = false
			return p, p.finishCmd()
		case "n", "N", "esc":
			p.showQuitConfirm = false
		}
		return p, nil
	}

	if p.busy {
		return p, nil
	}

	if key == "esc" {
		if p.view.State == session.StateNotStarted {
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		}
		p.showQuitConfirm = true
		return p, nil
	}

	if p.errMsg != "" {
		if key == "enter" {
			return p, p.retryCmd()
		}
		return p, nil
	}

	switch p.view.State {
	case session.StateAwaitingAnswer:
		return p.handleAnswerKey(msg)
	case session.StateFeedback:
		if key == "enter" || key == "space" {
			p.busy = true
			return p, p.engineCmd(func() (session.View, error) {
				return p.engine.Next(context.Background())
			})
		}
	}
	return p, nil
}

func (p *PracticeScreen) handleAnswerKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if p.cfg.Format == question.FormatOpenEnded {
		if key == "enter" {
			answer := strings.TrimSpace(p.input.Value())
			if answer == "" {
				return p, nil
			}
			return p, p.submit(answer)
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}

	q := p.view.Question
	if q == nil {
		return p, nil
	}

	switch key {
	case "up", "k":
		if p.mcSelected > 0 {
			p.mcSelected--
		}
	case "down", "j":
		if p.mcSelected < len(q.Options)-1 {
			p.mcSelected++
		}
	case "enter":
		return p, p.submit(question.OptionLetter(p.mcSelected))
	case "a", "b", "c", "d", "1", "2", "3", "4":
		idx := optionIndex(key)
		if idx >= 0 && idx < len(q.Options) {
			p.mcSelected = idx
			return p, p.submit(question.OptionLetter(idx))
		}
	}
	return p, nil
}

func optionIndex(key string) int {
	switch key {
	case "a", "1":
		return 0
	case "b", "2":
		return 1
	case "c", "3":
		return 2
	case "d", "4":
		return 3
	}
	return -1
}

func (p *PracticeScreen) submit(answer string) tea.Cmd {
	p.busy = true
	p.lastAnswer = answer
	return p.engineCmd(func() (session.View, error) {
		return p.engine.SubmitAnswer(context.Background(), answer)
	})
}

// retryCmd re-issues the operation that failed, chosen by the state the
// engine was left in.
func (p *PracticeScreen) retryCmd() tea.Cmd {
	p.busy = true
	switch p.view.State {
	case session.StateNotStarted:
		return p.engineCmd(func() (session.View, error) {
			return p.engine.Start(context.Background())
		})
	case session.StateAwaitingAnswer:
		answer := p.lastAnswer
		return p.engineCmd(func() (session.View, error) {
			return p.engine.SubmitAnswer(context.Background(), answer)
		})
	case session.StateFeedback:
		return p.engineCmd(func() (session.View, error) {
			return p.engine.Next(context.Background())
		})
	}
	p.busy = false
	return nil
}

func (p *PracticeScreen) finishCmd() tea.Cmd {
	p.busy = true
	return p.engineCmd(func() (session.View, error) {
		return p.engine.Finish()
	})
}

func (p *PracticeScreen) engineCmd(op func() (session.View, error)) tea.Cmd {
	return func() tea.Msg {
		v, err := op()
		return engineViewMsg{View: v, Err: err}
	}
}

// saveCmd persists the finished session, then hands off to the summary
// screen.
func (p *PracticeScreen) saveCmd() tea.Cmd {
	view := p.view
	records := p.engine.Records()
	startedAt := p.startedAt
	mode := "quiz"
	if p.cfg.Format == question.FormatOpenEnded {
		mode = "interview"
	}
	cfg := p.cfg
	sessions := p.sessions

	return func() tea.Msg {
		rec := store.SessionRecord{
			ID:             view.SessionID,
			Category:       cfg.Category,
			Topic:          cfg.Topic,
			Mode:           mode,
			StartedAt:      startedAt,
			FinishedAt:     time.Now(),
			TotalQuestions: view.Report.TotalQuestions,
			CorrectAnswers: view.Report.CorrectAnswers,
			ScorePercent:   view.Report.ScorePercent,

			Strengths:          view.Report.Strengths,
			Weaknesses:         view.Report.Weaknesses,
			AreasOfImprovement: view.Report.AreasOfImprovement,
		}

		rows := make([]store.AnswerRow, 0, len(records))
		for i, r := range records {
			rows = append(rows, store.AnswerRow{
				SessionID:     rec.ID,
				Seq:           i + 1,
				QuestionID:    r.QuestionID,
				QuestionText:  r.QuestionText,
				Category:      r.Category,
				Topic:         r.Topic,
				Difficulty:    r.Difficulty.String(),
				Selected:      r.Selected,
				TimedOut:      r.TimedOut,
				CorrectAnswer: r.CorrectAnswer,
				Correct:       r.Correct,
				TimeTakenMs:   r.TimeTaken.Milliseconds(),
			})
		}

		var err error
		if sessions != nil {
			err = sessions.SaveSession(context.Background(), rec, rows)
		}
		return savedMsg{Record: rec, Err: err}
	}
}

func (p *PracticeScreen) textInputActive() bool {
	return p.cfg.Format == question.FormatOpenEnded &&
		p.view.State == session.StateAwaitingAnswer &&
		!p.busy && !p.showQuitConfirm && p.errMsg == ""
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
