package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdrill/internal/question"
	"github.com/abhisek/prepdrill/internal/session"
	"github.com/abhisek/prepdrill/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	switch {
	case p.showQuitConfirm:
		return renderQuitConfirm(width)
	case p.errMsg != "":
		return renderError(width, p.errMsg)
	case p.view.State == session.StateNotStarted:
		return renderLoading(width, "Preparing your first question...")
	case p.busy && p.view.State == session.StateAwaitingAnswer && p.cfg.Format == question.FormatOpenEnded:
		return renderLoading(width, "Evaluating your answer...")
	case p.busy:
		return renderLoading(width, "Fetching the next question...")
	case p.view.State == session.StateFeedback:
		return p.renderFeedback(width)
	case p.view.State == session.StateAwaitingAnswer:
		return p.renderQuestion(width)
	}
	return renderLoading(width, "Wrapping up...")
}

func (p *PracticeScreen) renderQuestion(width int) string {
	q := p.view.Question
	if q == nil {
		return renderLoading(width, "Fetching the next question...")
	}

	var b strings.Builder

	// Progress and countdown line.
	progress := fmt.Sprintf("Q %d", p.view.QuestionsServed)
	if p.view.TotalQuestions > 0 {
		progress = fmt.Sprintf("Q %d/%d", p.view.QuestionsServed, p.view.TotalQuestions)
	}
	secs := int(p.view.TimeRemaining.Seconds())
	timer := fmt.Sprintf("%d:%02d", secs/60, secs%60)

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + progress)
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d correct  %s %s",
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			p.view.CorrectAnswers,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("⏱"),
			timer,
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Question text.
	questionStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(questionStyle.Render(q.Text))
	b.WriteString("\n\n")

	if p.cfg.Format == question.FormatOpenEnded {
		answerLine := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + p.input.View())
		b.WriteString(answerLine)
	} else {
		b.WriteString(p.renderOptions(width))
	}

	return b.String()
}

func (p *PracticeScreen) renderOptions(width int) string {
	q := p.view.Question

	var b strings.Builder
	for i, opt := range q.Options {
		prefix := "  "
		if i == p.mcSelected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, question.OptionLetter(i), opt)

		if i == p.mcSelected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		}
		b.WriteString("\n")
	}

	hint := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\nSelect (A-D) or use arrows + Enter")
	b.WriteString(hint)

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (p *PracticeScreen) renderFeedback(width int) string {
	fb := p.view.Feedback
	if fb == nil {
		return renderLoading(width, "Fetching the next question...")
	}

	var b strings.Builder
	b.WriteString("\n\n")

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	switch {
	case fb.TimedOut:
		b.WriteString(center.Foreground(theme.Error).Bold(true).Render("Time's up!"))
	case fb.Correct:
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render("Correct!"))
	default:
		b.WriteString(center.Foreground(theme.Error).Bold(true).Render("Not quite"))
	}

	if !fb.Correct && fb.CorrectAnswer != "" {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("Correct answer: %s", fb.CorrectAnswer)))
	}
	b.WriteString("\n\n")

	if fb.Explanation != "" {
		expStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, expStyle.Render(fb.Explanation)))
		b.WriteString("\n\n")
	}

	next := "Press Enter for the next question"
	if p.view.TotalQuestions > 0 && p.view.QuestionsServed >= p.view.TotalQuestions {
		next = "Press Enter to see your report"
	}
	b.WriteString(center.Foreground(theme.TextDim).Render(next))

	return b.String()
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("End this session?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("You'll get a report for the questions answered so far."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, end it"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderLoading(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n" + msg)
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n%s\n\nPress Enter to retry, Esc to end the session.", errMsg))
}
