package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleStateJSONRoundTrip(t *testing.T) {
	avg := 1300.0000000001
	state := ScheduleState{
		ID:                  42,
		UserID:              "user-1",
		StudySetID:          "set-1",
		CardID:              "card-9",
		EaseFactor:          2.1800000000000002, // accumulated float must survive intact
		IntervalDays:        16,
		Repetitions:         3,
		NextReviewAt:        1_700_000_000_000,
		LastReviewAt:        1_699_913_600_000,
		LastAnsweredCorrect: true,
		TotalReviews:        7,
		CorrectReviews:      6,
		AvgResponseTimeMs:   &avg,
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded ScheduleState
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Version is internal to the store and deliberately not serialized.
	state.Version = 0
	assert.Equal(t, state, decoded)
}

func TestScheduleStateOmitsAbsentResponseTime(t *testing.T) {
	data, err := json.Marshal(ScheduleState{CardID: "c"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "avg_response_time_ms")
}
