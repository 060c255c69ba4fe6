package game

import "math"

// Summary is the result screen of a completed game
type Summary struct {
	Score      int
	TotalScore int
	Bonus      int
	Correct    int
	Total      int
	Accuracy   int
	Grade      string
}

// Accuracy returns round(correct/total*100), or 0 for an empty game
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// Grade bands a correct ratio; lower bounds are inclusive
func Grade(ratio float64) string {
	switch {
	case ratio >= 0.9:
		return "Excellent!"
	case ratio >= 0.7:
		return "Good!"
	case ratio >= 0.5:
		return "Fair!"
	default:
		return "Keep trying!"
	}
}

func newSummary(score, totalScore, bonus, correct, total int) Summary {
	ratio := 0.0
	if total > 0 {
		ratio = float64(correct) / float64(total)
	}
	return Summary{
		Score:      score,
		TotalScore: totalScore,
		Bonus:      bonus,
		Correct:    correct,
		Total:      total,
		Accuracy:   Accuracy(correct, total),
		Grade:      Grade(ratio),
	}
}
