package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	for _, s := range []string{
		"2023-12-01",
		"2023-12-01T00:00:00Z",
		"2023-12-01 00:00:00",
	} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.True(t, got.Equal(want), s)
	}

	_, err := ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2023-12-01", NormalizeDate("2023-12-01T00:00:00Z"))
	assert.Equal(t, "2023-12-01", NormalizeDate("2023-12-01"))
	assert.Equal(t, "not-a-date", NormalizeDate("not-a-date"))
	assert.Equal(t, "", NormalizeDate(""))
}
