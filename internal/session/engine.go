package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/prepdrill/internal/evaluator"
	"github.com/abhisek/prepdrill/internal/question"
)

// Engine is the adaptive assessment session state machine. It owns one
// session from Start to Finish: sequencing questions, enforcing the
// per-question countdown, adapting difficulty, recording answers, and
// building the final report.
//
// All operations are safe for concurrent use, but the engine assumes a
// single logical caller; the only inherent race — timer expiry against
// a last-second submission — is resolved first-come-first-served, with
// the loser becoming a no-op.
type Engine struct {
	// OnTimeout, when set before Start, is invoked (outside the engine
	// lock) with the post-resolution view whenever the countdown
	// resolves a question. The UI uses it to refresh.
	OnTimeout func(View)

	cfg    Config
	source question.Source
	eval   evaluator.Evaluator

	mu    sync.Mutex
	id    string
	state State
	timer Timer

	// epoch increments on every question activation and on Finish.
	// Async results carry the epoch they started under and are dropped
	// if it moved on.
	epoch uint64

	difficulty question.Difficulty
	current    *question.Question
	deadline   time.Time

	// claimed marks an open-ended submission in flight at the
	// evaluator; remaining holds the countdown frozen at claim time so
	// a failed evaluation can re-arm where it left off.
	claimed   bool
	remaining time.Duration

	resolved bool
	served   int
	asked    []string

	log      []AnswerRecord
	correct  int
	feedback *Feedback
	report   *Report

	// pendingNext is a follow-up question text proposed by the
	// evaluator, consumed by the next Next call.
	pendingNext string
}

// New creates an engine for one session. The evaluator may be nil for
// multiple-choice-only sessions.
func New(cfg Config, src question.Source, eval evaluator.Evaluator) *Engine {
	return &Engine{
		cfg:        cfg,
		source:     src,
		eval:       eval,
		difficulty: cfg.InitialDifficulty,
	}
}

// View returns a snapshot of the observable session state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Records returns a copy of the answer log, for persistence at Finish.
func (e *Engine) Records() []AnswerRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]AnswerRecord, len(e.log))
	copy(out, e.log)
	return out
}

// Start fetches the first question at the configured initial difficulty
// and arms the countdown. On a fetch failure the session stays in
// NotStarted and Start may be retried.
func (e *Engine) Start(ctx context.Context) (View, error) {
	e.mu.Lock()
	if e.state != StateNotStarted {
		defer e.mu.Unlock()
		return e.viewLocked(), &InvalidStateError{Op: "start", State: e.state}
	}
	if e.id == "" {
		e.id = uuid.New().String()
	}
	epoch := e.epoch
	req := e.fetchRequestLocked()
	e.mu.Unlock()

	q, err := e.source.Fetch(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch != epoch || e.state != StateNotStarted {
		// Finished (or otherwise moved on) while the fetch was in
		// flight; drop the result.
		return e.viewLocked(), nil
	}
	if err != nil {
		return e.viewLocked(), &UnavailableError{Op: "start", Err: err}
	}
	e.activateLocked(q)
	return e.viewLocked(), nil
}

// SubmitAnswer resolves the active question with the candidate's
// answer. Multiple-choice answers are scored locally; open-ended
// answers are judged by the evaluator. If the question was already
// resolved (countdown won the race), the call is a no-op.
func (e *Engine) SubmitAnswer(ctx context.Context, answer string) (View, error) {
	e.mu.Lock()
	if e.state == StateNotStarted || e.state == StateFinished {
		defer e.mu.Unlock()
		return e.viewLocked(), &InvalidStateError{Op: "submit", State: e.state}
	}
	if e.state != StateAwaitingAnswer || e.resolved || e.claimed {
		defer e.mu.Unlock()
		return e.viewLocked(), nil
	}

	if e.current.Format == question.FormatMultipleChoice {
		defer e.mu.Unlock()
		correct := scoreChoice(e.current, answer)
		e.resolveLocked(answer, correct, false, e.current.Explanation)
		return e.viewLocked(), nil
	}

	// Open-ended: claim the question, freeze the countdown, and judge
	// outside the lock.
	e.claimed = true
	e.remaining = e.remainingLocked()
	e.timer.Cancel()
	epoch := e.epoch
	in := evaluator.Input{
		SessionID: e.id,
		Question:  e.current,
		Answer:    answer,
	}
	e.mu.Unlock()

	verdict, err := e.eval.Evaluate(ctx, in)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch != epoch || e.state != StateAwaitingAnswer {
		return e.viewLocked(), nil
	}
	if err != nil {
		// Release the claim and resume the countdown where it stopped;
		// the caller may retry.
		e.claimed = false
		e.deadline = time.Now().Add(e.remaining)
		e.armLocked(e.remaining)
		return e.viewLocked(), &UnavailableError{Op: "evaluate", Err: err}
	}

	// resolveLocked reads the countdown frozen at claim time, so the
	// claim is released inside it, not here.
	e.pendingNext = verdict.NextQuestion
	e.resolveLocked(answer, verdict.Correct, false, verdict.Feedback)
	return e.viewLocked(), nil
}

// TimeExpired resolves the active question as a timeout. The engine's
// own countdown drives this internally; callers with their own clock
// may also invoke it. A no-op if the question was already resolved.
func (e *Engine) TimeExpired() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateNotStarted || e.state == StateFinished {
		return e.viewLocked(), &InvalidStateError{Op: "timeExpired", State: e.state}
	}
	if e.state != StateAwaitingAnswer || e.resolved || e.claimed {
		return e.viewLocked(), nil
	}

	e.resolveLocked("", false, true, e.current.Explanation)
	return e.viewLocked(), nil
}

// Next moves from Feedback to the next question, or to Finished when a
// quiz session has served its configured total. A fetch failure leaves
// the session in Feedback; Next may be retried.
func (e *Engine) Next(ctx context.Context) (View, error) {
	e.mu.Lock()
	if e.state != StateFeedback {
		defer e.mu.Unlock()
		return e.viewLocked(), &InvalidStateError{Op: "next", State: e.state}
	}

	if e.cfg.TotalQuestions > 0 && e.served >= e.cfg.TotalQuestions {
		defer e.mu.Unlock()
		e.finishLocked()
		return e.viewLocked(), nil
	}

	// Conversational mode: the evaluator may have proposed the next
	// question itself; no fetch needed.
	if e.pendingNext != "" {
		defer e.mu.Unlock()
		q := &question.Question{
			ID:         uuid.New().String(),
			Category:   e.cfg.Category,
			Topic:      e.cfg.Topic,
			Difficulty: e.difficulty,
			Text:       e.pendingNext,
			Format:     question.FormatOpenEnded,
		}
		e.pendingNext = ""
		e.activateLocked(q)
		return e.viewLocked(), nil
	}

	epoch := e.epoch
	req := e.fetchRequestLocked()
	e.mu.Unlock()

	q, err := e.source.Fetch(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch != epoch || e.state != StateFeedback {
		return e.viewLocked(), nil
	}
	if err != nil {
		return e.viewLocked(), &UnavailableError{Op: "next", Err: err}
	}
	e.activateLocked(q)
	return e.viewLocked(), nil
}

// Finish terminates the session from any non-terminal started state and
// builds the authoritative report from whatever the log has
// accumulated. Finished is terminal; all further calls fail with
// InvalidStateError.
func (e *Engine) Finish() (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateNotStarted || e.state == StateFinished {
		return e.viewLocked(), &InvalidStateError{Op: "finish", State: e.state}
	}

	e.finishLocked()
	return e.viewLocked(), nil
}

func (e *Engine) fetchRequestLocked() question.Request {
	prior := make([]string, len(e.asked))
	copy(prior, e.asked)
	return question.Request{
		Category:       e.cfg.Category,
		Topic:          e.cfg.Topic,
		Difficulty:     e.difficulty,
		Format:         e.cfg.format(),
		PriorQuestions: prior,
	}
}

// activateLocked installs a new current question, resets the countdown,
// and bumps the epoch so stale async results from the previous question
// are dropped.
func (e *Engine) activateLocked(q *question.Question) {
	e.epoch++
	e.current = q
	e.state = StateAwaitingAnswer
	e.resolved = false
	e.claimed = false
	e.feedback = nil
	e.served++
	e.asked = append(e.asked, q.Text)
	e.deadline = time.Now().Add(e.cfg.timeLimit())
	e.armLocked(e.cfg.timeLimit())
}

func (e *Engine) armLocked(d time.Duration) {
	epoch := e.epoch
	e.timer.Arm(d, func() {
		e.expire(epoch)
	})
}

// expire is the countdown callback. It re-checks the epoch and the
// resolution flag under the lock so a submission that won the race, or
// a session that moved on, turns it into a no-op.
func (e *Engine) expire(epoch uint64) {
	e.mu.Lock()
	if e.epoch != epoch || e.state != StateAwaitingAnswer || e.resolved || e.claimed {
		e.mu.Unlock()
		return
	}
	e.resolveLocked("", false, true, e.current.Explanation)
	view := e.viewLocked()
	notify := e.OnTimeout
	e.mu.Unlock()

	if notify != nil {
		notify(view)
	}
}

// resolveLocked appends exactly one AnswerRecord for the current
// question, updates the difficulty ladder, and moves to Feedback.
func (e *Engine) resolveLocked(selected string, correct, timedOut bool, explanation string) {
	e.resolved = true
	e.timer.Cancel()

	taken := e.cfg.timeLimit() - e.remainingLocked()
	if timedOut {
		taken = e.cfg.timeLimit()
	}

	e.log = append(e.log, AnswerRecord{
		QuestionID:    e.current.ID,
		QuestionText:  e.current.Text,
		Category:      e.current.Category,
		Topic:         e.current.Topic,
		Difficulty:    e.current.Difficulty,
		Selected:      selected,
		TimedOut:      timedOut,
		CorrectAnswer: e.current.Answer,
		Correct:       correct,
		TimeTaken:     taken,
	})
	if correct {
		e.correct++
	}

	e.feedback = &Feedback{
		Correct:       correct,
		TimedOut:      timedOut,
		CorrectAnswer: e.current.Answer,
		Explanation:   explanation,
	}
	e.difficulty = nextDifficulty(e.difficulty, correct)
	e.claimed = false
	e.state = StateFeedback
}

func (e *Engine) finishLocked() {
	e.epoch++
	e.timer.Cancel()
	e.current = nil
	e.feedback = nil
	e.pendingNext = ""
	e.report = BuildReport(e.log)
	e.state = StateFinished
}

func (e *Engine) remainingLocked() time.Duration {
	if e.claimed {
		return e.remaining
	}
	rem := time.Until(e.deadline)
	if rem < 0 {
		return 0
	}
	if limit := e.cfg.timeLimit(); rem > limit {
		return limit
	}
	return rem
}

func (e *Engine) viewLocked() View {
	v := View{
		SessionID:       e.id,
		State:           e.state,
		Difficulty:      e.difficulty,
		QuestionsServed: e.served,
		TotalQuestions:  e.cfg.TotalQuestions,
		CorrectAnswers:  e.correct,
	}
	if e.current != nil {
		q := *e.current
		v.Question = &q
	}
	if e.state == StateAwaitingAnswer {
		v.TimeRemaining = e.remainingLocked()
	}
	if e.feedback != nil {
		f := *e.feedback
		v.Feedback = &f
	}
	if e.report != nil {
		r := *e.report
		v.Report = &r
	}
	return v
}
