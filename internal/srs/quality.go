package srs

// DefaultResponseTimeMs is the baseline latency assumed for a card with no
// recorded response-time history.
const DefaultResponseTimeMs = 15000

// Quality ratings for SM-2:
//
//	0: Complete blackout, no recall at all
//	1: Incorrect, but recognized the answer when shown
//	2: Incorrect, but the correct answer felt familiar
//	3: Correct, but required significant effort
//	4: Correct, with some hesitation
//	5: Perfect, instant recall
const (
	QualityBlackout          = 0
	QualityIncorrect         = 1
	QualityIncorrectFamiliar = 2
	QualityCorrectDifficult  = 3
	QualityCorrectHesitation = 4
	QualityPerfect           = 5
)

// QualityFromResponse derives a quality rating from correctness and response
// latency, measured against the card's historical average. A fast wrong
// answer is a blackout; a slow wrong answer showed some familiarity. Correct
// answers grade down as latency grows past the average.
func QualityFromResponse(correct bool, responseTimeMs int64, avgResponseTimeMs float64) int {
	if !correct {
		if float64(responseTimeMs) < avgResponseTimeMs*0.5 {
			return QualityBlackout
		}
		return QualityIncorrect
	}

	ratio := float64(responseTimeMs) / avgResponseTimeMs
	switch {
	case ratio < 0.5:
		return QualityPerfect
	case ratio < 1.2:
		return QualityCorrectHesitation
	default:
		return QualityCorrectDifficult
	}
}

// QualityFromCorrectness maps a bare correct/incorrect outcome to a quality
// rating when no response timing is available.
func QualityFromCorrectness(correct bool) int {
	if !correct {
		return QualityIncorrect
	}
	return QualityCorrectHesitation
}
