package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) SaveSession(ctx context.Context, rec SessionRecord, answers []AnswerRow) error {
	strengths, err := marshalTags(rec.Strengths)
	if err != nil {
		return err
	}
	weaknesses, err := marshalTags(rec.Weaknesses)
	if err != nil {
		return err
	}
	improvements, err := marshalTags(rec.AreasOfImprovement)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save session: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (
			id, category, topic, mode,
			total_questions, correct_answers, score_percent,
			strengths, weaknesses, improvements,
			started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Category, rec.Topic, rec.Mode,
		rec.TotalQuestions, rec.CorrectAnswers, rec.ScorePercent,
		strengths, weaknesses, improvements,
		rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, a := range answers {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO answers (
				session_id, seq, question_id, question_text,
				category, topic, difficulty,
				selected, timed_out, correct_answer, correct, time_taken_ms
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, a.Seq, a.QuestionID, a.QuestionText,
			a.Category, a.Topic, a.Difficulty,
			a.Selected, a.TimedOut, a.CorrectAnswer, a.Correct, a.TimeTakenMs,
		)
		if err != nil {
			return fmt.Errorf("insert answer %d: %w", a.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, topic, mode,
		       total_questions, correct_answers, score_percent,
		       strengths, weaknesses, improvements,
		       started_at, finished_at
		FROM sessions
		ORDER BY finished_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var strengths, weaknesses, improvements string
		err := rows.Scan(
			&rec.ID, &rec.Category, &rec.Topic, &rec.Mode,
			&rec.TotalQuestions, &rec.CorrectAnswers, &rec.ScorePercent,
			&strengths, &weaknesses, &improvements,
			&rec.StartedAt, &rec.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if rec.Strengths, err = unmarshalTags(strengths); err != nil {
			return nil, err
		}
		if rec.Weaknesses, err = unmarshalTags(weaknesses); err != nil {
			return nil, err
		}
		if rec.AreasOfImprovement, err = unmarshalTags(improvements); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *sessionRepo) Answers(ctx context.Context, sessionID string) ([]AnswerRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, seq, question_id, question_text,
		       category, topic, difficulty,
		       selected, timed_out, correct_answer, correct, time_taken_ms
		FROM answers
		WHERE session_id = ?
		ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRow
	for rows.Next() {
		var a AnswerRow
		err := rows.Scan(
			&a.SessionID, &a.Seq, &a.QuestionID, &a.QuestionText,
			&a.Category, &a.Topic, &a.Difficulty,
			&a.Selected, &a.TimedOut, &a.CorrectAnswer, &a.Correct, &a.TimeTakenMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(raw), nil
}

func unmarshalTags(raw string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}
