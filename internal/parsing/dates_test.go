package parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate_Layouts(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"2025-08-20T10:30:00Z", "2025-08-20"},
		{"2025-08-20T10:30:00", "2025-08-20"},
		{"2025-08-20 10:30:00", "2025-08-20"},
		{"2025-08-20", "2025-08-20"},
		{"2025/08/20", "2025-08-20"},
		{"2025-08", "2025-08-01"},
		{"August 20, 2025", "2025-08-20"},
		{"Aug 20, 2025", "2025-08-20"},
		{"  2025-08-20  ", "2025-08-20"},
	}

	for _, tc := range cases {
		parsed, ok := ParseFlexibleDate(tc.input)
		require.True(t, ok, "expected %q to parse", tc.input)
		assert.Equal(t, tc.want, parsed.Format("2006-01-02"), "input %q", tc.input)
	}
}

func TestParseFlexibleDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "last Tuesday", "20-08-2025", "soon"} {
		_, ok := ParseFlexibleDate(input)
		assert.False(t, ok, "expected %q to fail", input)
	}
}

func TestLatestDate_PicksMostRecent(t *testing.T) {
	latest, ok := LatestDate("2025-08-01", "garbage", "2025-08-19", "2024-12-31")
	require.True(t, ok)
	assert.Equal(t, "2025-08-19", latest.Format("2006-01-02"))
}

func TestLatestDate_AllInvalid(t *testing.T) {
	_, ok := LatestDate("", "nope")
	assert.False(t, ok)
}

func TestDaysBetween(t *testing.T) {
	older := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, DaysBetween(older, newer))
	assert.Equal(t, 0, DaysBetween(newer, older))
}
