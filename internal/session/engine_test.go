package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/prepdrill/internal/evaluator"
	"github.com/abhisek/prepdrill/internal/question"
)

// stubSource serves canned fetch results in FIFO order and records
// every request.
type stubSource struct {
	mu      sync.Mutex
	results []fetchResult
	calls   []question.Request
}

type fetchResult struct {
	q   *question.Question
	err error
}

func (s *stubSource) Fetch(_ context.Context, req question.Request) (*question.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, req)
	if len(s.results) == 0 {
		return nil, errors.New("stub source exhausted")
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.q, r.err
}

func (s *stubSource) add(q *question.Question) *stubSource {
	s.results = append(s.results, fetchResult{q: q})
	return s
}

func (s *stubSource) addErr(err error) *stubSource {
	s.results = append(s.results, fetchResult{err: err})
	return s
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// stubEvaluator returns canned verdicts in FIFO order.
type stubEvaluator struct {
	mu       sync.Mutex
	verdicts []*evaluator.Verdict
	err      error
	calls    []evaluator.Input
}

func (s *stubEvaluator) Evaluate(_ context.Context, in evaluator.Input) (*evaluator.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, in)
	if s.err != nil {
		err := s.err
		s.err = nil
		return nil, err
	}
	if len(s.verdicts) == 0 {
		return nil, errors.New("stub evaluator exhausted")
	}
	v := s.verdicts[0]
	s.verdicts = s.verdicts[1:]
	return v, nil
}

func mcQuestion(id, category, answer string) *question.Question {
	return &question.Question{
		ID:          id,
		Category:    category,
		Topic:       "General",
		Text:        "question " + id,
		Format:      question.FormatMultipleChoice,
		Options:     []string{"w", "x", "y", "z"},
		Answer:      answer,
		Explanation: "explanation " + id,
	}
}

func openQuestion(id string) *question.Question {
	return &question.Question{
		ID:       id,
		Category: "Reasoning",
		Topic:    "General",
		Text:     "tell me about " + id,
		Format:   question.FormatOpenEnded,
	}
}

func quizConfig(total int) Config {
	return Config{
		Category:             "Quantitative",
		Topic:                "General",
		InitialDifficulty:    question.DifficultyEasy,
		TimeLimitPerQuestion: time.Minute,
		TotalQuestions:       total,
		Format:               question.FormatMultipleChoice,
	}
}

func TestStartServesFirstQuestion(t *testing.T) {
	src := (&stubSource{}).add(mcQuestion("q1", "Quantitative", "A"))
	e := New(quizConfig(5), src, nil)

	v, err := e.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if v.State != StateAwaitingAnswer {
		t.Errorf("state = %v, want awaiting answer", v.State)
	}
	if v.SessionID == "" {
		t.Error("expected a session ID after Start")
	}
	if v.Question == nil || v.Question.ID != "q1" {
		t.Errorf("question = %+v, want q1", v.Question)
	}
	if v.QuestionsServed != 1 {
		t.Errorf("questionsServed = %d, want 1", v.QuestionsServed)
	}
	if v.TimeRemaining <= 0 || v.TimeRemaining > time.Minute {
		t.Errorf("timeRemaining = %v, want within (0, 1m]", v.TimeRemaining)
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if src.calls[0].Difficulty != question.DifficultyEasy {
		t.Errorf("first fetch at %v, want easy", src.calls[0].Difficulty)
	}
}

func TestStartFetchFailureIsRetryable(t *testing.T) {
	src := (&stubSource{}).addErr(errors.New("down")).add(mcQuestion("q1", "Quantitative", "A"))
	e := New(quizConfig(5), src, nil)

	v, err := e.Start(context.Background())
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if v.State != StateNotStarted {
		t.Errorf("failed start left state %v, want not started", v.State)
	}

	v, err = e.Start(context.Background())
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if v.State != StateAwaitingAnswer {
		t.Errorf("retry left state %v, want awaiting answer", v.State)
	}
}

func TestSubmitCorrectAdvancesDifficulty(t *testing.T) {
	src := (&stubSource{}).add(mcQuestion("q1", "Quantitative", "B"))
	e := New(quizConfig(5), src, nil)

	if _, err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	v, err := e.SubmitAnswer(context.Background(), "B")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	if v.State != StateFeedback {
		t.Errorf("state = %v, want feedback", v.State)
	}
	if v.Feedback == nil || !v.Feedback.Correct {
		t.Errorf("feedback = %+v, want correct", v.Feedback)
	}
	if v.Feedback.Explanation != "explanation q1" {
		t.Errorf("explanation = %q", v.Feedback.Explanation)
	}
	if v.Difficulty != question.DifficultyMedium {
		t.Errorf("difficulty = %v, want medium after correct answer", v.Difficulty)
	}
	if v.CorrectAnswers != 1 {
		t.Errorf("correctAnswers = %d, want 1", v.CorrectAnswers)
	}
}

func TestSubmitIsCaseSensitiveOnCanonicalLetter(t *testing.T) {
	src := (&stubSource{}).add(mcQuestion("q1", "Quantitative", "B"))
	e := New(quizConfig(5), src, nil)

	if _, err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	v, err := e.SubmitAnswer(context.Background(), "b")
	if err != nil {
		t.Fatal(err)
	}
	if v.Feedback.Correct {
		t.Error("lowercase letter should not match canonical answer token")
	}
}

func TestQuizScenarioTwoQuestionsFiftyPercent(t *testing.T) {
	src := (&stubSource{}).
		add(mcQuestion("q1", "Quantitative", "A")).
		add(mcQuestion("q2", "Quantitative", "C"))
	e := New(quizConfig(2), src, nil)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	v, err := e.SubmitAnswer(ctx, "A")
	if err != nil {
		t.Fatal(err)
	}
	if v.Difficulty != question.DifficultyMedium {
		t.Errorf("after correct Q1: difficulty = %v, want medium", v.Difficulty)
	}

	if v, err = e.Next(ctx); err != nil {
		t.Fatal(err)
	}
	if v.Question.ID != "q2" {
		t.Fatalf("second question = %q, want q2", v.Question.ID)
	}

	v, err = e.SubmitAnswer(ctx, "D")
	if err != nil {
		t.Fatal(err)
	}
	if v.Difficulty != question.DifficultyEasy {
		t.Errorf("after wrong Q2: difficulty = %v, want reset to easy", v.Difficulty)
	}

	v, err = e.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.State != StateFinished {
		t.Fatalf("state = %v, want finished after %d questions", v.State, 2)
	}
	r := v.Report
	if r == nil {
		t.Fatal("expected a report at finish")
	}
	if r.TotalQuestions != 2 || r.CorrectAnswers != 1 || r.ScorePercent != 50 {
		t.Errorf("report = %d/%d at %d%%, want 1/2 at 50%%", r.CorrectAnswers, r.TotalQuestions, r.ScorePercent)
	}
}

func TestNextFetchesAtUpdatedDifficulty(t *testing.T) {
	src := (&stubSource{}).
		add(mcQuestion("q1", "Quantitative", "A")).
		add(mcQuestion("q2", "Quantitative", "A"))
	e := New(quizConfig(5), src, nil)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SubmitAnswer(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Next(ctx); err != nil {
		t.Fatal(err)
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if src.calls[1].Difficulty != question.DifficultyMedium {
		t.Errorf("second fetch at %v, want medium", src.calls[1].Difficulty)
	}
	if len(src.calls[1].PriorQuestions) != 1 {
		t.Errorf("second fetch carried %d prior questions, want 1", len(src.calls[1].PriorQuestions))
	}
}

func TestNextFetchFailureStaysInFeedback(t *testing.T) {
	src := (&stubSource{}).
		add(mcQuestion("q1", "Quantitative", "A")).
		addErr(errors.New("down")).
		add(mcQuestion("q2", "Quantitative", "A"))
	e := New(quizConfig(5), src, nil)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SubmitAnswer(ctx, "A"); err != nil {
		t.Fatal(err)
	}

	v, err := e.Next(ctx)
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if v.State != StateFeedback {
		t.Errorf("failed next left state %v, want feedback", v.State)
	}
	if len(e.Records()) != 1 {
		t.Errorf("failed next must not touch the log, got %d records", len(e.Records()))
	}

	// Retry succeeds without losing anything.
	v, err = e.Next(ctx)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if v.Question.ID != "q2" {
		t.Errorf("retried next served %q, want q2", v.Question.ID)
	}
}

func TestTimeExpiredScoresIncorrectAndResets(t *testing.T) {
	src := (&stubSource{}).add(mcQuestion("q1", "Quantitative", "A"))
	cfg := quizConfig(5)
	cfg.InitialDifficulty = question.DifficultyHard
	e := New(cfg, src, nil)

	if _, err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	v, err := e.TimeExpired()
	if err != nil {
		t.Fatalf("TimeExpired failed: %v", err)
	}

	if v.State != StateFeedback {
		t.Errorf("state = %v, want feedback", v.State)
	}
	if !v.Feedback.TimedOut || v.Feedback.Correct {
		t.Errorf("feedback = %+v, want incorrect timeout", v.Feedback)
	}
	if v.Difficulty != question.DifficultyEasy {
		t.Errorf("difficulty = %v, want reset to easy on timeout", v.Difficulty)
	}

	recs := e.Records()
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Selected != "" || !recs[0].TimedOut || recs[0].Correct {
		t.Errorf("record = %+v, want empty selection, timed out, incorrect", recs[0])
	}
	if recs[0].TimeTaken != time.Minute {
		t.Errorf("timeTaken = %v, want full limit", recs[0].TimeTaken)
	}
}

func TestRaceExactlyOneResolution(t *testing.T) {
	src := (&stubSource{}).add(mcQuestion("q1", "Quantitative", "A"))
	e := New(quizConfig(5), src, nil)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	v, err := e.SubmitAnswer(ctx, "A")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Feedback.Correct {
		t.Fatal("submission should have resolved the question")
	}

	// The loser of the race is a silent no-op.
	v, err = e.TimeExpired()
	if err != nil {
		t.Fatalf("late TimeExpired errored: %v", err)
	}
	if v.State != StateFeedback || !v.Feedback.Correct {
		t.Errorf("late TimeExpired changed the outcome: %+v", v.Feedback)
	}

	// And so is a duplicate submission.
	if _, err := e.SubmitAnswer(ctx, "B"); err != nil {
		t.Fatalf("late SubmitAnswer errored: %v", err)
	}

	if got := len(e.Records()); got != 1 {
		t.Errorf("got %d records for one question, want exactly 1", got)
	}
}

func TestCountdownResolvesTimeoutOnce(t *testing.T) {
	src := (&stubSource{}).add(mcQuestion("q1", "Quantitative", "A"))
	cfg := quizConfig(5)
	cfg.TimeLimitPerQuestion = 20 * time.Millisecond
	e := New(cfg, src, nil)

	views := make(chan View, 4)
	e.OnTimeout = func(v View) { views <- v }

	if _, err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	select {
	case v := <-views:
		if v.State != StateFeedback || !v.Feedback.TimedOut {
			t.Errorf("timeout view = %+v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("countdown never fired")
	}

	select {
	case <-views:
		t.Fatal("countdown fired more than once")
	case <-time.After(100 * time.Millisecond):
	}

	if got := len(e.Records()); got != 1 {
		t.Errorf("got %d records, want 1", got)
	}
}

func TestFinishEarlyKeepsPartialLog(t *testing.T) {
	src := (&stubSource{}).
		add(mcQuestion("q1", "Quantitative", "A")).
		add(mcQuestion("q2", "Quantitative", "A"))
	e := New(quizConfig(10), src, nil)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SubmitAnswer(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Next(ctx); err != nil {
		t.Fatal(err)
	}

	// Finish mid-question, before answering q2.
	v, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if v.State != StateFinished {
		t.Errorf("state = %v, want finished", v.State)
	}
	if v.Question != nil {
		t.Error("current question should be cleared at finish")
	}
	if v.Report.TotalQuestions != 1 || v.Report.CorrectAnswers != 1 {
		t.Errorf("report = %+v, want the one answered question", v.Report)
	}
}

func TestFinishedIsTerminal(t *testing.T) {
	src := (&stubSource{}).add(mcQuestion("q1", "Quantitative", "A"))
	e := New(quizConfig(5), src, nil)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Finish(); err != nil {
		t.Fatal(err)
	}

	before := e.View()

	calls := map[string]func() (View, error){
		"start":       func() (View, error) { return e.Start(ctx) },
		"submit":      func() (View, error) { return e.SubmitAnswer(ctx, "A") },
		"timeExpired": func() (View, error) { return e.TimeExpired() },
		"next":        func() (View, error) { return e.Next(ctx) },
		"finish":      func() (View, error) { return e.Finish() },
	}
	for name, call := range calls {
		_, err := call()
		var invalid *InvalidStateError
		if !errors.As(err, &invalid) {
			t.Errorf("%s after finish: err = %v, want InvalidStateError", name, err)
		}
	}

	after := e.View()
	if after.Difficulty != before.Difficulty || len(e.Records()) != before.Report.TotalQuestions {
		t.Error("calls after finish mutated the session")
	}
}

func TestOperationsBeforeStart(t *testing.T) {
	e := New(quizConfig(5), &stubSource{}, nil)
	ctx := context.Background()

	var invalid *InvalidStateError
	if _, err := e.SubmitAnswer(ctx, "A"); !errors.As(err, &invalid) {
		t.Errorf("submit before start: %v", err)
	}
	if _, err := e.TimeExpired(); !errors.As(err, &invalid) {
		t.Errorf("timeExpired before start: %v", err)
	}
	if _, err := e.Next(ctx); !errors.As(err, &invalid) {
		t.Errorf("next before start: %v", err)
	}
	if _, err := e.Finish(); !errors.As(err, &invalid) {
		t.Errorf("finish before start: %v", err)
	}
}

func TestLogNeverExceedsConfiguredTotal(t *testing.T) {
	const total = 3
	src := &stubSource{}
	for i := 0; i < total; i++ {
		src.add(mcQuestion(fmt.Sprintf("q%d", i+1), "Quantitative", "A"))
	}
	e := New(quizConfig(total), src, nil)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := e.SubmitAnswer(ctx, "A"); err != nil {
			t.Fatal(err)
		}
		v, err := e.Next(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if v.State == StateFinished {
			break
		}
	}

	if got := len(e.Records()); got != total {
		t.Errorf("log has %d records, want exactly %d", got, total)
	}
	if src.callCount() != total {
		t.Errorf("source called %d times, want %d", src.callCount(), total)
	}
}

func TestOpenEndedSubmitUsesEvaluator(t *testing.T) {
	src := (&stubSource{}).add(openQuestion("q1"))
	eval := &stubEvaluator{verdicts: []*evaluator.Verdict{
		{Correct: true, Feedback: "solid answer", NextQuestion: "and how would you test it?"},
	}}
	cfg := quizConfig(0)
	cfg.Format = question.FormatOpenEnded
	e := New(cfg, src, eval)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	v, err := e.SubmitAnswer(ctx, "my answer")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	if !v.Feedback.Correct || v.Feedback.Explanation != "solid answer" {
		t.Errorf("feedback = %+v", v.Feedback)
	}
	if len(eval.calls) != 1 || eval.calls[0].Answer != "my answer" {
		t.Errorf("evaluator calls = %+v", eval.calls)
	}
	if eval.calls[0].SessionID != v.SessionID {
		t.Error("evaluator input should carry the session ID")
	}

	// The evaluator proposed the next question, so Next must not hit
	// the source.
	v, err = e.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Question.Text != "and how would you test it?" {
		t.Errorf("next question = %q, want the evaluator's follow-up", v.Question.Text)
	}
	if src.callCount() != 1 {
		t.Errorf("source called %d times, want 1 (follow-up came from evaluator)", src.callCount())
	}
}

func TestOpenEndedEvaluatorFailureIsRetryable(t *testing.T) {
	src := (&stubSource{}).add(openQuestion("q1"))
	eval := &stubEvaluator{
		err:      errors.New("down"),
		verdicts: []*evaluator.Verdict{{Correct: false, Feedback: "vague"}},
	}
	cfg := quizConfig(0)
	cfg.Format = question.FormatOpenEnded
	e := New(cfg, src, eval)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	v, err := e.SubmitAnswer(ctx, "my answer")
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if v.State != StateAwaitingAnswer {
		t.Errorf("failed evaluation left state %v, want awaiting answer", v.State)
	}
	if len(e.Records()) != 0 {
		t.Error("failed evaluation must not append a record")
	}

	v, err = e.SubmitAnswer(ctx, "my answer")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if v.State != StateFeedback || v.Feedback.Explanation != "vague" {
		t.Errorf("retry view = %+v", v.Feedback)
	}
}

func TestConversationalModeRunsUntilFinish(t *testing.T) {
	src := (&stubSource{}).add(openQuestion("q1")).add(openQuestion("q2"))
	eval := &stubEvaluator{verdicts: []*evaluator.Verdict{
		{Correct: true, Feedback: "good"},
		{Correct: false, Feedback: "off topic"},
	}}
	cfg := quizConfig(0)
	cfg.Format = question.FormatOpenEnded
	e := New(cfg, src, eval)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SubmitAnswer(ctx, "a1"); err != nil {
		t.Fatal(err)
	}

	// No follow-up from the evaluator, so Next falls back to the source.
	v, err := e.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Question.ID != "q2" {
		t.Errorf("next question = %q, want q2 from source", v.Question.ID)
	}
	if _, err := e.SubmitAnswer(ctx, "a2"); err != nil {
		t.Fatal(err)
	}

	v, err = e.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if v.Report.TotalQuestions != 2 || v.Report.CorrectAnswers != 1 {
		t.Errorf("report = %+v", v.Report)
	}
}
