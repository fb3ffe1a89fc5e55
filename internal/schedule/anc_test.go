package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextVisitWeek(t *testing.T) {
	tests := []struct {
		name        string
		currentWeek int
		wantWeek    int
		wantOK      bool
	}{
		{"before first visit", 0, 8, true},
		{"exactly on a scheduled week", 8, 12, true},
		{"between scheduled weeks", 25, 28, true},
		{"weekly phase", 36, 37, true},
		{"last scheduled week", 39, 40, true},
		{"at final week", 40, 0, false},
		{"past final week", 45, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week, ok := NextVisitWeek(tt.currentWeek)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantWeek, week)
		})
	}
}

func TestNextVisitDate(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 2024 年是闰年，1 月 1 日 + 56 天跨过 2 月 29 日
	visit, week, ok := NextVisitDate(0, anchor)
	require.True(t, ok)
	assert.Equal(t, 8, week)
	assert.Equal(t, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC), visit)
}

func TestNextVisitDatePastFinalWeek(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, ok := NextVisitDate(40, anchor)
	assert.False(t, ok)
}

func TestNextVisitDateAcrossYearBoundary(t *testing.T) {
	anchor := time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)

	visit, week, ok := NextVisitDate(4, anchor)
	require.True(t, ok)
	assert.Equal(t, 8, week)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), visit)
}
