package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DurationHours returns the lesson length in hours as an exact decimal
// (seconds / 3600, not rounded).
func DurationHours(start, end time.Time) decimal.Decimal {
	seconds := int64(end.Sub(start) / time.Second)
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600))
}

// LessonTotal calculates the total cost of a lesson
// Formula: duration_hours * hourly_rate, rounded to 2 decimal places
func LessonTotal(hours, rate decimal.Decimal) decimal.Decimal {
	return hours.Mul(rate).Round(2)
}

// SplitEvenly returns the per-participant share of a total: total / n,
// rounded to 2 decimal places independently. The sum of n shares may drift
// from the total by up to (n-1) * 0.005; that drift is intentional and
// matched by compatibility tests, so do not add remainder correction here.
func SplitEvenly(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return total
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// QuarterOf returns the calendar quarter (1-4) for a month.
func QuarterOf(month time.Month) int {
	return (int(month)-1)/3 + 1
}

// FormatDate renders a timestamp as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
