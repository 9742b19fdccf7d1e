package question

import "context"

// Request holds all context needed to fetch the next question.
type Request struct {
	// Category is the question category, e.g. "Quantitative".
	Category string

	// Topic narrows the category, e.g. "Percentages". "General" when
	// the candidate did not pick one.
	Topic string

	// Difficulty is the level the question should be generated at.
	Difficulty Difficulty

	// Format selects multiple choice (aptitude drill) or open ended
	// (mock interview).
	Format Format

	// PriorQuestions contains the texts of questions already asked in
	// this session, for deduplication in the prompt.
	PriorQuestions []string
}

// Source produces questions on demand. Each call may return a fresh
// question; callers must not assume idempotence. A failed fetch is
// returned as-is — retry policy belongs to the caller.
type Source interface {
	Fetch(ctx context.Context, req Request) (*Question, error)
}
