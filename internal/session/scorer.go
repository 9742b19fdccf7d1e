package session

import "github.com/abhisek/prepdrill/internal/question"

// scoreChoice judges a multiple-choice submission by exact,
// case-sensitive match on the canonical option letter. Open-ended
// answers never come through here; they go to the evaluator.
func scoreChoice(q *question.Question, selected string) bool {
	return selected != "" && selected == q.Answer
}
