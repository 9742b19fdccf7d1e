package question

import "fmt"

// Difficulty is the ordered difficulty ladder used for adaptive
// question selection: easy < medium < hard.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// String returns the lowercase difficulty label.
func (d Difficulty) String() string {
	switch d {
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "easy"
	}
}

// ParseDifficulty parses a difficulty label back to the Difficulty type.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return DifficultyEasy, fmt.Errorf("unknown difficulty: %q", s)
}

// Format describes how the candidate answers a question.
type Format string

const (
	// FormatMultipleChoice means the candidate picks one of four options.
	FormatMultipleChoice Format = "multiple_choice"

	// FormatOpenEnded means the candidate types a free-text answer,
	// judged by the conversational evaluator.
	FormatOpenEnded Format = "open_ended"
)

// Question is one generated practice question ready for display.
type Question struct {
	// ID is a stable identifier assigned when the question is fetched.
	ID string

	// Category and Topic the question was generated for.
	Category string
	Topic    string

	// Difficulty the question was generated at.
	Difficulty Difficulty

	// Text is the question prompt shown to the candidate.
	Text string

	// Format indicates how the candidate answers.
	Format Format

	// Options holds the four option texts for multiple choice, in
	// display order A-D. Empty for open-ended questions.
	Options []string

	// Answer is the canonical correct option letter ("A".."D") for
	// multiple choice. Empty for open-ended questions.
	Answer string

	// Explanation is a short worked solution shown after the candidate
	// answers. Empty for open-ended questions.
	Explanation string
}

// OptionLetter returns the canonical letter for an option index (0 → "A").
func OptionLetter(i int) string {
	return string(rune('A' + i))
}
