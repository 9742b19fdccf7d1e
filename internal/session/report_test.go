package session

import (
	"reflect"
	"testing"
)

func rec(category string, correct bool) AnswerRecord {
	return AnswerRecord{Category: category, Correct: correct}
}

func TestBuildReportEmptyLog(t *testing.T) {
	r := BuildReport(nil)

	if r.TotalQuestions != 0 || r.CorrectAnswers != 0 {
		t.Errorf("empty log: totals = %d/%d, want 0/0", r.CorrectAnswers, r.TotalQuestions)
	}
	if r.ScorePercent != 0 {
		t.Errorf("empty log: scorePercent = %d, want 0", r.ScorePercent)
	}
	if len(r.Strengths)+len(r.Weaknesses)+len(r.AreasOfImprovement) != 0 {
		t.Error("empty log should produce empty category lists")
	}
}

func TestBuildReportRounding(t *testing.T) {
	// 2 of 3 correct = 66.67%, rounds to 67.
	r := BuildReport([]AnswerRecord{
		rec("Quantitative", true),
		rec("Quantitative", true),
		rec("Quantitative", false),
	})
	if r.ScorePercent != 67 {
		t.Errorf("scorePercent = %d, want 67", r.ScorePercent)
	}

	// 1 of 3 correct = 33.33%, rounds to 33.
	r = BuildReport([]AnswerRecord{
		rec("Verbal", true),
		rec("Verbal", false),
		rec("Verbal", false),
	})
	if r.ScorePercent != 33 {
		t.Errorf("scorePercent = %d, want 33", r.ScorePercent)
	}
}

func TestBuildReportCategoryBuckets(t *testing.T) {
	log := []AnswerRecord{
		// Quantitative 4/4 = 100% -> strength.
		rec("Quantitative", true), rec("Quantitative", true),
		rec("Quantitative", true), rec("Quantitative", true),
		// Verbal 1/4 = 25% -> weakness.
		rec("Verbal", true), rec("Verbal", false),
		rec("Verbal", false), rec("Verbal", false),
		// Reasoning 2/4 = 50% -> area of improvement (not a weakness).
		rec("Reasoning", true), rec("Reasoning", true),
		rec("Reasoning", false), rec("Reasoning", false),
	}
	r := BuildReport(log)

	if !reflect.DeepEqual(r.Strengths, []string{"Quantitative"}) {
		t.Errorf("strengths = %v", r.Strengths)
	}
	if !reflect.DeepEqual(r.Weaknesses, []string{"Verbal"}) {
		t.Errorf("weaknesses = %v", r.Weaknesses)
	}
	if !reflect.DeepEqual(r.AreasOfImprovement, []string{"Reasoning"}) {
		t.Errorf("areasOfImprovement = %v", r.AreasOfImprovement)
	}
}

func TestBuildReportBoundaries(t *testing.T) {
	// Exactly 75% is a strength.
	r := BuildReport([]AnswerRecord{
		rec("Logical", true), rec("Logical", true),
		rec("Logical", true), rec("Logical", false),
	})
	if !reflect.DeepEqual(r.Strengths, []string{"Logical"}) {
		t.Errorf("75%% should be a strength, got strengths=%v improvements=%v", r.Strengths, r.AreasOfImprovement)
	}

	// Just under 50% is a weakness.
	r = BuildReport([]AnswerRecord{
		rec("Puzzle Solving", true),
		rec("Puzzle Solving", false),
		rec("Puzzle Solving", false),
	})
	if !reflect.DeepEqual(r.Weaknesses, []string{"Puzzle Solving"}) {
		t.Errorf("33%% should be a weakness, got %v", r.Weaknesses)
	}
}
