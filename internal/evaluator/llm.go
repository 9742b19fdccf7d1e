package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/prepdrill/internal/llm"
)

const evalSystemPrompt = `You are a strict but encouraging interviewer evaluating a candidate's answer.

Rules:
- Judge only whether the answer demonstrates a correct understanding of the question. Partial but essentially right answers count as correct; wrong, empty, or off-topic answers do not.
- Give feedback in 2-3 sentences: what was good, what was missing or wrong.
- Propose one natural follow-up question that continues the interview. If no follow-up makes sense, leave it empty.
- Plain text only. No markdown.`

// verdictSchema constrains the evaluation response.
var verdictSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Judgment of a candidate's answer to an interview question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer demonstrates correct understanding",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Short critique of the answer, 2-3 sentences",
			},
			"next_question": map[string]any{
				"type":        "string",
				"description": "Optional follow-up question, empty if none",
			},
		},
		"required":             []any{"correct", "feedback"},
		"additionalProperties": false,
	},
}

// Config controls the LLM evaluator.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns a Config with recommended defaults. Evaluation
// runs at low temperature so verdicts stay consistent.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.2,
	}
}

// LLM implements Evaluator using an LLM provider.
type LLM struct {
	provider llm.Provider
	config   Config
}

// NewLLM creates an LLM evaluator with the given provider and config.
func NewLLM(provider llm.Provider, cfg Config) *LLM {
	return &LLM{provider: provider, config: cfg}
}

type verdictOutput struct {
	Correct      bool   `json:"correct"`
	Feedback     string `json:"feedback"`
	NextQuestion string `json:"next_question"`
}

// Evaluate judges the candidate's answer and returns a verdict.
func (e *LLM) Evaluate(ctx context.Context, in Input) (*Verdict, error) {
	ctx = llm.WithPurpose(ctx, "answer-eval")

	resp, err := e.provider.Generate(ctx, llm.Request{
		System: evalSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildEvalMessage(in)},
		},
		Schema:      verdictSchema,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("answer evaluation failed: %w", err)
	}

	var raw verdictOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse evaluation response: %w", err)
	}
	if raw.Feedback == "" {
		return nil, fmt.Errorf("empty feedback in evaluation response")
	}

	return &Verdict{
		Correct:      raw.Correct,
		Feedback:     raw.Feedback,
		NextQuestion: strings.TrimSpace(raw.NextQuestion),
	}, nil
}

func buildEvalMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Category: %s\n", in.Question.Category)
	fmt.Fprintf(&b, "Question: %s\n\n", in.Question.Text)
	fmt.Fprintf(&b, "Candidate's answer: %s", in.Answer)

	return b.String()
}
