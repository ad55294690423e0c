package quiz

import "testing"

func outcomes(correct ...bool) []ItemOutcome {
	out := make([]ItemOutcome, len(correct))
	for i, c := range correct {
		out[i] = ItemOutcome{Item: StudyItem{ID: "x"}, IsCorrect: c, TimeTakenMs: 1000}
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		in        []ItemOutcome
		correct   int
		incorrect int
		score     int
		timeMs    int64
	}{
		{"empty", nil, 0, 0, 0, 0},
		{"all correct", outcomes(true, true), 2, 0, 100, 2000},
		{"none correct", outcomes(false, false, false), 0, 3, 0, 3000},
		{"one third rounds down", outcomes(true, false, false), 1, 2, 33, 3000},
		{"two thirds rounds up", outcomes(true, true, false), 2, 1, 67, 3000},
		{"half", outcomes(true, false), 1, 1, 50, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.in)
			if got.TotalQuestions != len(tt.in) {
				t.Errorf("TotalQuestions = %d, want %d", got.TotalQuestions, len(tt.in))
			}
			if got.CorrectAnswers != tt.correct {
				t.Errorf("CorrectAnswers = %d, want %d", got.CorrectAnswers, tt.correct)
			}
			if got.IncorrectAnswers != tt.incorrect {
				t.Errorf("IncorrectAnswers = %d, want %d", got.IncorrectAnswers, tt.incorrect)
			}
			if got.CorrectAnswers+got.IncorrectAnswers != got.TotalQuestions {
				t.Errorf("correct + incorrect = %d, want %d", got.CorrectAnswers+got.IncorrectAnswers, got.TotalQuestions)
			}
			if got.Score != tt.score {
				t.Errorf("Score = %d, want %d", got.Score, tt.score)
			}
			if got.TimeTakenMs != tt.timeMs {
				t.Errorf("TimeTakenMs = %d, want %d", got.TimeTakenMs, tt.timeMs)
			}
			if len(got.Results) != len(tt.in) {
				t.Errorf("len(Results) = %d, want %d", len(got.Results), len(tt.in))
			}
		})
	}
}

func TestAggregate_Scenario(t *testing.T) {
	in := []ItemOutcome{
		{IsCorrect: true, TimeTakenMs: 8000},
		{IsCorrect: false, TimeTakenMs: 9000},
		{IsCorrect: true, TimeTakenMs: 7000},
		{IsCorrect: true, TimeTakenMs: 10000},
		{IsCorrect: false, TimeTakenMs: 8000},
	}
	got := Aggregate(in)
	want := SessionResult{TotalQuestions: 5, CorrectAnswers: 3, IncorrectAnswers: 2, Score: 60, TimeTakenMs: 42000}
	if got.TotalQuestions != want.TotalQuestions || got.CorrectAnswers != want.CorrectAnswers ||
		got.IncorrectAnswers != want.IncorrectAnswers || got.Score != want.Score || got.TimeTakenMs != want.TimeTakenMs {
		t.Errorf("Aggregate = %+v, want %+v", got, want)
	}
}

func TestAggregate_DoesNotAliasInput(t *testing.T) {
	in := outcomes(true)
	got := Aggregate(in)
	in[0].IsCorrect = false
	if !got.Results[0].IsCorrect {
		t.Error("Aggregate result changed after mutating input")
	}
}

func TestScore_Bounds(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for correct := 0; correct <= total; correct++ {
			s := Score(correct, total)
			if s < 0 || s > 100 {
				t.Fatalf("Score(%d, %d) = %d, out of range", correct, total, s)
			}
		}
	}
}
