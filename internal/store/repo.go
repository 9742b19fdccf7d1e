package store

import (
	"context"
	"time"
)

// SessionRecord is one finished session as persisted for the history
// screen.
type SessionRecord struct {
	ID       string
	Category string
	Topic    string

	// Mode is "quiz" or "interview".
	Mode string

	TotalQuestions int
	CorrectAnswers int
	ScorePercent   int

	Strengths          []string
	Weaknesses         []string
	AreasOfImprovement []string

	StartedAt  time.Time
	FinishedAt time.Time
}

// AnswerRow is one resolved question within a persisted session,
// ordered by Seq.
type AnswerRow struct {
	SessionID    string
	Seq          int
	QuestionID   string
	QuestionText string
	Category     string
	Topic        string
	Difficulty   string

	Selected      string
	TimedOut      bool
	CorrectAnswer string
	Correct       bool
	TimeTakenMs   int64
}

// SessionRepo persists finished sessions and their answer logs.
type SessionRepo interface {
	// SaveSession writes the session and all its answers atomically.
	SaveSession(ctx context.Context, rec SessionRecord, answers []AnswerRow) error

	// ListSessions returns the most recent sessions, newest first.
	ListSessions(ctx context.Context, limit int) ([]SessionRecord, error)

	// Answers returns the answer log for one session in ask order.
	Answers(ctx context.Context, sessionID string) ([]AnswerRow, error)
}

// LLMRequestEventData describes one LLM API call for usage accounting.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	CreatedAt time.Time
	LLMRequestEventData
}

// UsageStat aggregates token consumption per purpose.
type UsageStat struct {
	Purpose      string
	Requests     int
	InputTokens  int
	OutputTokens int
}

// EventRepo is the append-only log of LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentLLMRequests returns the latest events, newest first.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMEvent, error)

	// UsageByPurpose aggregates token usage grouped by request purpose.
	UsageByPurpose(ctx context.Context) ([]UsageStat, error)
}
