package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession(id string, finishedAt time.Time) (SessionRecord, []AnswerRow) {
	rec := SessionRecord{
		ID:             id,
		Category:       "Quantitative",
		Topic:          "Percentages",
		Mode:           "quiz",
		TotalQuestions: 2,
		CorrectAnswers: 1,
		ScorePercent:   50,
		Strengths:      nil,
		Weaknesses:     []string{"Quantitative"},
		StartedAt:      finishedAt.Add(-5 * time.Minute),
		FinishedAt:     finishedAt,
	}
	answers := []AnswerRow{
		{
			SessionID: id, Seq: 1,
			QuestionID: "q1", QuestionText: "What is 10% of 200?",
			Category: "Quantitative", Topic: "Percentages", Difficulty: "easy",
			Selected: "B", CorrectAnswer: "B", Correct: true, TimeTakenMs: 12000,
		},
		{
			SessionID: id, Seq: 2,
			QuestionID: "q2", QuestionText: "What is 15% of 80?",
			Category: "Quantitative", Topic: "Percentages", Difficulty: "medium",
			Selected: "", TimedOut: true, CorrectAnswer: "A", TimeTakenMs: 60000,
		},
	}
	return rec, answers
}

func TestSaveAndListSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	now := time.Now().UTC().Truncate(time.Second)
	first, firstAnswers := sampleSession("s1", now.Add(-time.Hour))
	second, secondAnswers := sampleSession("s2", now)

	require.NoError(t, repo.SaveSession(ctx, first, firstAnswers))
	require.NoError(t, repo.SaveSession(ctx, second, secondAnswers))

	got, err := repo.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	require.Equal(t, "s2", got[0].ID)
	require.Equal(t, "s1", got[1].ID)

	require.Equal(t, 50, got[0].ScorePercent)
	require.Equal(t, []string{"Quantitative"}, got[0].Weaknesses)
	require.Empty(t, got[0].Strengths)
}

func TestListSessionsHonorsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	now := time.Now().UTC()
	for i, id := range []string{"s1", "s2", "s3"} {
		rec, answers := sampleSession(id, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.SaveSession(ctx, rec, answers))
	}

	got, err := repo.ListSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "s3", got[0].ID)
}

func TestAnswersRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	rec, answers := sampleSession("s1", time.Now().UTC())
	require.NoError(t, repo.SaveSession(ctx, rec, answers))

	got, err := repo.Answers(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, "q1", got[0].QuestionID)
	require.True(t, got[0].Correct)
	require.False(t, got[0].TimedOut)

	require.Equal(t, "q2", got[1].QuestionID)
	require.True(t, got[1].TimedOut)
	require.Empty(t, got[1].Selected)
	require.Equal(t, int64(60000), got[1].TimeTakenMs)
}

func TestDuplicateSessionIDRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	rec, answers := sampleSession("s1", time.Now().UTC())
	require.NoError(t, repo.SaveSession(ctx, rec, answers))
	require.Error(t, repo.SaveSession(ctx, rec, answers))

	// The failed save must not leave partial answer rows behind.
	got, err := repo.Answers(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, len(answers))
}

func TestLLMEventLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Events()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen",
		InputTokens: 100, OutputTokens: 50, LatencyMs: 800, Success: true,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen",
		InputTokens: 120, OutputTokens: 60, LatencyMs: 900, Success: true,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "answer-eval",
		LatencyMs: 100, Success: false, ErrorMessage: "rate limited",
	}))

	events, err := repo.RecentLLMRequests(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "answer-eval", events[0].Purpose)
	require.False(t, events[0].Success)
	require.Equal(t, "rate limited", events[0].ErrorMessage)

	stats, err := repo.UsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Alphabetical by purpose.
	require.Equal(t, "answer-eval", stats[0].Purpose)
	require.Equal(t, 1, stats[0].Requests)
	require.Equal(t, "question-gen", stats[1].Purpose)
	require.Equal(t, 2, stats[1].Requests)
	require.Equal(t, 220, stats[1].InputTokens)
	require.Equal(t, 110, stats[1].OutputTokens)
}
