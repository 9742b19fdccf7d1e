package question

import "github.com/abhisek/prepdrill/internal/llm"

// ChoiceSchema defines the JSON schema for multiple-choice question
// generation responses.
var ChoiceSchema = &llm.Schema{
	Name:        "aptitude-question",
	Description: "A single multiple-choice aptitude question with answer and explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The question prompt shown to the candidate, plain text",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Exactly 4 option texts in display order A-D, without letter prefixes",
			},
			"correct_option": map[string]any{
				"type":        "string",
				"enum":        []any{"A", "B", "C", "D"},
				"description": "The letter of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "A short worked solution shown after answering",
			},
		},
		"required":             []any{"question_text", "options", "correct_option", "explanation"},
		"additionalProperties": false,
	},
}

// OpenSchema defines the JSON schema for open-ended interview question
// generation responses.
var OpenSchema = &llm.Schema{
	Name:        "interview-question",
	Description: "A single open-ended interview question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The interview question, one sentence, no greetings or formatting",
			},
		},
		"required":             []any{"question_text"},
		"additionalProperties": false,
	},
}
