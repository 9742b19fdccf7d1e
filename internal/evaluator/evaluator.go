package evaluator

import (
	"context"

	"github.com/abhisek/prepdrill/internal/question"
)

// Input carries one candidate answer to be judged.
type Input struct {
	// SessionID identifies the session, for logging and persistence.
	SessionID string

	// Question is the open-ended question that was asked.
	Question *question.Question

	// Answer is the candidate's free-text response.
	Answer string
}

// Verdict is the evaluator's judgment of an answer.
type Verdict struct {
	// Correct is the binary outcome fed into scoring and the
	// difficulty ladder.
	Correct bool

	// Feedback is a short critique shown to the candidate.
	Feedback string

	// NextQuestion is an optional follow-up the evaluator proposes,
	// keeping the interview conversational. Empty means the caller
	// should fetch the next question itself.
	NextQuestion string
}

// Evaluator judges free-text answers to open-ended questions.
// Multiple-choice answers are scored locally and never reach it.
type Evaluator interface {
	Evaluate(ctx context.Context, in Input) (*Verdict, error)
}
