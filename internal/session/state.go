package session

import (
	"time"

	"github.com/abhisek/prepdrill/internal/question"
)

// State is the session lifecycle state.
type State int

const (
	StateNotStarted State = iota
	StateAwaitingAnswer
	StateFeedback
	StateFinished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateFeedback:
		return "feedback"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Config is the immutable configuration for one session, supplied at
// Start. The engine holds no state beyond it and the session itself.
type Config struct {
	// Category and Topic drive question generation. Topic may be
	// "General".
	Category string
	Topic    string

	// InitialDifficulty is the level of the first question.
	InitialDifficulty question.Difficulty

	// TimeLimitPerQuestion is the per-question countdown. Zero means
	// the default of one minute.
	TimeLimitPerQuestion time.Duration

	// TotalQuestions bounds a quiz session. Zero means conversational
	// mode: the session runs until an explicit Finish.
	TotalQuestions int

	// Format selects how questions are asked and answered.
	Format question.Format
}

// DefaultTimeLimit is the per-question countdown when the config does
// not set one.
const DefaultTimeLimit = 60 * time.Second

func (c Config) timeLimit() time.Duration {
	if c.TimeLimitPerQuestion <= 0 {
		return DefaultTimeLimit
	}
	return c.TimeLimitPerQuestion
}

func (c Config) format() question.Format {
	if c.Format == "" {
		return question.FormatMultipleChoice
	}
	return c.Format
}

// AnswerRecord is one resolved question in the session log. Records are
// immutable once appended.
type AnswerRecord struct {
	QuestionID   string
	QuestionText string
	Category     string
	Topic        string

	// Difficulty the question was asked at, before the post-answer
	// ladder update.
	Difficulty question.Difficulty

	// Selected is the submitted option letter or free-text answer.
	// Empty with TimedOut set means the countdown ran out first.
	Selected string
	TimedOut bool

	// CorrectAnswer is the canonical answer letter for multiple choice,
	// empty for open-ended questions.
	CorrectAnswer string

	Correct   bool
	TimeTaken time.Duration
}

// Feedback is the per-question outcome shown between questions.
type Feedback struct {
	Correct  bool
	TimedOut bool

	// CorrectAnswer is the canonical letter, for multiple choice.
	CorrectAnswer string

	// Explanation is the worked solution (multiple choice) or the
	// evaluator's critique (open ended).
	Explanation string
}

// View is an immutable snapshot of the observable session state,
// returned from every engine operation.
type View struct {
	SessionID  string
	State      State
	Difficulty question.Difficulty

	// QuestionsServed counts questions shown so far, including the
	// current one. TotalQuestions is zero in conversational mode.
	QuestionsServed int
	TotalQuestions  int

	// CorrectAnswers is the running correct count.
	CorrectAnswers int

	// Question is the active question while awaiting an answer, the
	// just-resolved question during feedback, nil otherwise.
	Question *question.Question

	// TimeRemaining is the countdown for the active question. Zero
	// outside AwaitingAnswer.
	TimeRemaining time.Duration

	Feedback *Feedback
	Report   *Report
}
