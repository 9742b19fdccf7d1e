package question

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/prepdrill/internal/llm"
)

// Config controls the behavior of the LLMSource.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is the maximum number of prior questions to
	// include in the prompt for deduplication.
	MaxPriorQuestions int
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         512,
		Temperature:       0.7,
		MaxPriorQuestions: 10,
	}
}

// LLMSource implements Source using an LLM provider.
type LLMSource struct {
	provider llm.Provider
	config   Config
}

// NewLLMSource creates an LLMSource with the given provider and config.
func NewLLMSource(provider llm.Provider, cfg Config) *LLMSource {
	return &LLMSource{provider: provider, config: cfg}
}

// choiceOutput is the raw multiple-choice LLM response before validation.
type choiceOutput struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

// openOutput is the raw open-ended LLM response.
type openOutput struct {
	QuestionText string `json:"question_text"`
}

// Fetch generates a single question for the given request.
func (s *LLMSource) Fetch(ctx context.Context, req Request) (*Question, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")

	if req.Format == FormatOpenEnded {
		return s.fetchOpen(ctx, req)
	}
	return s.fetchChoice(ctx, req)
}

func (s *LLMSource) fetchChoice(ctx context.Context, req Request) (*Question, error) {
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: choiceSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, s.config.MaxPriorQuestions)},
		},
		Schema:      ChoiceSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	var raw choiceOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse question response: %w", err)
	}

	q := &Question{
		ID:          uuid.New().String(),
		Category:    req.Category,
		Topic:       req.Topic,
		Difficulty:  req.Difficulty,
		Text:        raw.QuestionText,
		Format:      FormatMultipleChoice,
		Options:     raw.Options,
		Answer:      raw.CorrectOption,
		Explanation: raw.Explanation,
	}

	if err := validateChoice(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *LLMSource) fetchOpen(ctx context.Context, req Request) (*Question, error) {
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: openSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, s.config.MaxPriorQuestions)},
		},
		Schema:      OpenSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	var raw openOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse question response: %w", err)
	}
	if raw.QuestionText == "" {
		return nil, fmt.Errorf("empty question text in response")
	}

	return &Question{
		ID:         uuid.New().String(),
		Category:   req.Category,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Text:       raw.QuestionText,
		Format:     FormatOpenEnded,
	}, nil
}

// validateChoice enforces the structural invariants of a multiple-choice
// question: exactly four non-empty options and an answer letter that
// points at one of them.
func validateChoice(q *Question) error {
	if q.Text == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(q.Options))
	}
	for i, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("option %s is empty", OptionLetter(i))
		}
	}
	if len(q.Answer) != 1 || q.Answer[0] < 'A' || q.Answer[0] > 'D' {
		return fmt.Errorf("correct option %q out of range", q.Answer)
	}
	return nil
}
