package recurring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tillbook/tillbook/internal/recurring"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextAfter(t *testing.T) {
	tests := []struct {
		name      string
		from      time.Time
		frequency recurring.Frequency
		want      time.Time
	}{
		{"Daily", date(2024, 3, 15), recurring.FrequencyDaily, date(2024, 3, 16)},
		{"DailyAcrossMonthEnd", date(2024, 1, 31), recurring.FrequencyDaily, date(2024, 2, 1)},
		{"Weekly", date(2024, 3, 15), recurring.FrequencyWeekly, date(2024, 3, 22)},
		{"WeeklyAcrossYearEnd", date(2023, 12, 29), recurring.FrequencyWeekly, date(2024, 1, 5)},
		{"Monthly", date(2024, 1, 15), recurring.FrequencyMonthly, date(2024, 2, 15)},
		{"MonthlyClampLeapFebruary", date(2024, 1, 31), recurring.FrequencyMonthly, date(2024, 2, 29)},
		{"MonthlyClampFebruary", date(2023, 1, 31), recurring.FrequencyMonthly, date(2023, 2, 28)},
		{"MonthlyClampedDayPersists", date(2024, 2, 29), recurring.FrequencyMonthly, date(2024, 3, 29)},
		{"MonthlyThirtieth", date(2024, 4, 30), recurring.FrequencyMonthly, date(2024, 5, 30)},
		{"Quarterly", date(2024, 1, 15), recurring.FrequencyQuarterly, date(2024, 4, 15)},
		{"QuarterlyClamp", date(2024, 11, 30), recurring.FrequencyQuarterly, date(2025, 2, 28)},
		{"Yearly", date(2024, 6, 1), recurring.FrequencyYearly, date(2025, 6, 1)},
		{"YearlyLeapDayClamp", date(2024, 2, 29), recurring.FrequencyYearly, date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recurring.NextAfter(tt.from, tt.frequency)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

// A monthly schedule started on Jan 31 must walk 2024-02-29 then 2024-03-29:
// the day clamps to the month length and the clamped day sticks, because each
// date derives from the previous one.
func TestNextAfter_MonthEndSequence(t *testing.T) {
	next := date(2024, 1, 31)

	next = recurring.NextAfter(next, recurring.FrequencyMonthly)
	assert.True(t, next.Equal(date(2024, 2, 29)), "got %s", next)

	next = recurring.NextAfter(next, recurring.FrequencyMonthly)
	assert.True(t, next.Equal(date(2024, 3, 29)), "got %s", next)

	next = recurring.NextAfter(next, recurring.FrequencyMonthly)
	assert.True(t, next.Equal(date(2024, 4, 29)), "got %s", next)
}

func TestNextAfter_UnknownFrequency(t *testing.T) {
	from := date(2024, 1, 1)
	assert.True(t, recurring.NextAfter(from, "fortnightly").Equal(from))
}
