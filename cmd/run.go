package cmd

import (
	"fmt"

	"github.com/abhisek/prepdrill/internal/app"
	"github.com/abhisek/prepdrill/internal/evaluator"
	"github.com/abhisek/prepdrill/internal/llm"
	"github.com/abhisek/prepdrill/internal/question"
	"github.com/abhisek/prepdrill/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	provider, err := llm.NewProviderFromEnv(ctx, st.Events())
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w\nSet GEMINI_API_KEY, OPENAI_API_KEY, or ANTHROPIC_API_KEY (or PREPDRILL_LLM_PROVIDER with its matching PREPDRILL_*_API_KEY)", err)
	}

	opts := app.Options{
		Source:    question.NewLLMSource(provider, question.DefaultConfig()),
		Evaluator: evaluator.NewLLM(provider, evaluator.DefaultConfig()),
		Sessions:  st.Sessions(),
	}
	return app.Run(opts)
}
