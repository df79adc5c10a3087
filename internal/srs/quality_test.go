package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityFromResponse(t *testing.T) {
	tests := []struct {
		name           string
		correct        bool
		responseTimeMs int64
		avg            float64
		want           int
	}{
		{"fast wrong answer is a blackout", false, 2000, 10000, QualityBlackout},
		{"slow wrong answer showed familiarity", false, 9000, 10000, QualityIncorrect},
		{"very fast correct answer is perfect", true, 4000, 10000, QualityPerfect},
		{"average-speed correct answer", true, 10000, 10000, QualityCorrectHesitation},
		{"just under the struggle threshold", true, 11900, 10000, QualityCorrectHesitation},
		{"slow correct answer was difficult", true, 25000, 10000, QualityCorrectDifficult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QualityFromResponse(tt.correct, tt.responseTimeMs, tt.avg))
		})
	}
}

func TestQualityFromCorrectness(t *testing.T) {
	assert.Equal(t, QualityCorrectHesitation, QualityFromCorrectness(true))
	assert.Equal(t, QualityIncorrect, QualityFromCorrectness(false))
}
