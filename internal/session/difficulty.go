package session

import "github.com/abhisek/prepdrill/internal/question"

// nextDifficulty advances one step up the easy→medium→hard ladder on a
// correct answer, saturating at hard. Any incorrect or timed-out answer
// resets to easy from any level — a full reset, not a step down. The
// asymmetry is intentional and must not be softened.
func nextDifficulty(current question.Difficulty, correct bool) question.Difficulty {
	if !correct {
		return question.DifficultyEasy
	}
	if current >= question.DifficultyHard {
		return question.DifficultyHard
	}
	return current + 1
}
