package session

import (
	"math"
	"sort"
)

// Report is the final session summary, derived purely from the answer
// log and never stored independently.
type Report struct {
	TotalQuestions int
	CorrectAnswers int

	// ScorePercent is round(100 * correct / total), 0 for an empty log.
	ScorePercent int

	// Category buckets by accuracy: strengths at 75% and above,
	// weaknesses below 50%, the rest under areas of improvement.
	// Categories with no answered questions appear in none of them.
	Strengths          []string
	Weaknesses         []string
	AreasOfImprovement []string
}

// BuildReport computes the report from an answer log. It is a pure
// function; the engine calls it once at Finish, and callers may use it
// for live partial reports.
func BuildReport(log []AnswerRecord) *Report {
	r := &Report{TotalQuestions: len(log)}

	type tally struct {
		total   int
		correct int
	}
	byCategory := make(map[string]*tally)

	for _, rec := range log {
		if rec.Correct {
			r.CorrectAnswers++
		}
		t := byCategory[rec.Category]
		if t == nil {
			t = &tally{}
			byCategory[rec.Category] = t
		}
		t.total++
		if rec.Correct {
			t.correct++
		}
	}

	if r.TotalQuestions > 0 {
		r.ScorePercent = int(math.Round(100 * float64(r.CorrectAnswers) / float64(r.TotalQuestions)))
	}

	for cat, t := range byCategory {
		accuracy := float64(t.correct) / float64(t.total)
		switch {
		case accuracy >= 0.75:
			r.Strengths = append(r.Strengths, cat)
		case accuracy < 0.50:
			r.Weaknesses = append(r.Weaknesses, cat)
		default:
			r.AreasOfImprovement = append(r.AreasOfImprovement, cat)
		}
	}

	sort.Strings(r.Strengths)
	sort.Strings(r.Weaknesses)
	sort.Strings(r.AreasOfImprovement)

	return r
}
