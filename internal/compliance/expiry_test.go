package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateExpiry(t *testing.T) {
	tests := []struct {
		name  string
		issue time.Time
		years int
		want  time.Time
	}{
		{name: "keeps month and day", issue: date(2022, time.January, 10), years: 3, want: date(2025, time.January, 10)},
		{name: "leap day clamps to 28 Feb", issue: date(2024, time.February, 29), years: 1, want: date(2025, time.February, 28)},
		{name: "leap day to leap year kept", issue: date(2024, time.February, 29), years: 4, want: date(2028, time.February, 29)},
		{name: "end of year", issue: date(2023, time.December, 31), years: 1, want: date(2024, time.December, 31)},
		{name: "time of day dropped", issue: time.Date(2020, time.June, 1, 15, 4, 5, 0, time.UTC), years: 2, want: date(2022, time.June, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateExpiry(tt.issue, tt.years)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestCalculateExpiry_PureAndYearShift(t *testing.T) {
	start := date(2019, time.January, 1)
	for i := 0; i < 3*366; i += 7 {
		issue := start.AddDate(0, 0, i)
		for years := 1; years <= 5; years++ {
			first := CalculateExpiry(issue, years)
			second := CalculateExpiry(issue, years)
			assert.True(t, first.Equal(second))
			assert.Equal(t, issue.Year()+years, first.Year())
			assert.Equal(t, issue.Month(), first.Month())
		}
	}
}

func TestCalculateExpiry_PreservesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	issue := time.Date(2021, time.March, 3, 0, 0, 0, 0, loc)

	got := CalculateExpiry(issue, 1)

	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 3, got.Day())
}

func TestDaysUntil(t *testing.T) {
	expiry := date(2025, time.January, 10)

	assert.Equal(t, 5, DaysUntil(expiry, date(2025, time.January, 5)))
	assert.Equal(t, 5, DaysUntil(expiry, time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysUntil(expiry, expiry))
	assert.Equal(t, -1, DaysUntil(expiry, date(2025, time.January, 11)))
}
