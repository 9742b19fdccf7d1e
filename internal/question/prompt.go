package question

import (
	"fmt"
	"strings"
)

const choiceSystemPrompt = `You are an expert aptitude test question generator for interview preparation.

Rules:
- Generate a single multiple-choice question for the given category, topic, and difficulty.
- The question must be unique, logically valid, and appropriately challenging for the difficulty level.
- Provide exactly 4 options where exactly one is correct. Distractors should reflect plausible mistakes, not random values.
- Options are plain texts without letter prefixes; identify the correct one by its letter (A-D, in display order).
- The explanation should briefly show why the correct option is right.
- Use plain text. No markdown, no numbering.
- Do not repeat any question from the "already asked" list.`

const openSystemPrompt = `You are a professional interviewer preparing questions for a mock interview.

Rules:
- Generate exactly one open-ended question for the given category, topic, and difficulty.
- The question should feel like a real entry-level interview question: short, conceptual, answerable in a few sentences.
- Output only the question text. No greetings, no explanations, no formatting.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage constructs the user message for a fetch request.
func buildUserMessage(req Request, maxPrior int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Category: %s\n", req.Category)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildDedup(req.PriorQuestions, maxPrior))

	return b.String()
}

// buildDedup formats prior questions for the prompt, respecting the max
// limit. Returns "None" if there are no prior questions.
func buildDedup(priorQuestions []string, max int) string {
	if len(priorQuestions) == 0 {
		return "None"
	}

	// Keep only the most recent N questions.
	if max > 0 && len(priorQuestions) > max {
		priorQuestions = priorQuestions[len(priorQuestions)-max:]
	}

	var b strings.Builder
	for i, q := range priorQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
