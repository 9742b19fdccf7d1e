package session

import (
	"testing"

	"github.com/abhisek/prepdrill/internal/question"
)

func TestLadderAdvancesAndSaturates(t *testing.T) {
	d := question.DifficultyEasy

	d = nextDifficulty(d, true)
	if d != question.DifficultyMedium {
		t.Fatalf("easy + correct = %v, want medium", d)
	}
	d = nextDifficulty(d, true)
	if d != question.DifficultyHard {
		t.Fatalf("medium + correct = %v, want hard", d)
	}
	d = nextDifficulty(d, true)
	if d != question.DifficultyHard {
		t.Fatalf("hard + correct = %v, want hard (saturating)", d)
	}
}

func TestLadderResetsToEasyFromAnyLevel(t *testing.T) {
	for _, from := range []question.Difficulty{
		question.DifficultyEasy,
		question.DifficultyMedium,
		question.DifficultyHard,
	} {
		if got := nextDifficulty(from, false); got != question.DifficultyEasy {
			t.Errorf("%v + incorrect = %v, want full reset to easy", from, got)
		}
	}
}
