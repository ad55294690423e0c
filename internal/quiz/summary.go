package quiz

import "math"

// Aggregate folds the ordered outcomes into a SessionResult.
func Aggregate(outcomes []ItemOutcome) SessionResult {
	res := SessionResult{
		TotalQuestions: len(outcomes),
		Results:        append([]ItemOutcome(nil), outcomes...),
	}
	for _, o := range outcomes {
		if o.IsCorrect {
			res.CorrectAnswers++
		}
		res.TimeTakenMs += o.TimeTakenMs
	}
	res.IncorrectAnswers = res.TotalQuestions - res.CorrectAnswers
	res.Score = Score(res.CorrectAnswers, res.TotalQuestions)
	return res
}

// Score returns the rounded percentage of correct answers, 0 for an empty
// session.
func Score(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
