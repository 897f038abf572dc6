package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/strideapp/coach-billing/internal/domain"
)

// Estimated-tax filing deadlines per calendar quarter. Q4 falls in January
// of the following year.
var quarterDeadlines = [4]struct {
	month    time.Month
	day      int
	nextYear bool
}{
	{time.April, 15, false},
	{time.June, 15, false},
	{time.September, 15, false},
	{time.January, 15, true},
}

// BuildTaxSummary projects the aggregation's quarterly accumulations into a
// tax-ready summary. Pure projection: it cannot fail on well-formed input.
func BuildTaxSummary(year int, quarterPaid [4]decimal.Decimal, totalLessons int, totalHours decimal.Decimal, uniqueClients int) domain.TaxSummary {
	gross := decimal.Zero
	quarters := make([]domain.QuarterTotal, 0, 4)

	for i, paid := range quarterPaid {
		gross = gross.Add(paid)

		deadline := quarterDeadlines[i]
		deadlineYear := year
		if deadline.nextYear {
			deadlineYear = year + 1
		}

		quarters = append(quarters, domain.QuarterTotal{
			Quarter: i + 1,
			Income:  paid,
			Deadline: time.Date(deadlineYear, deadline.month, deadline.day, 0, 0, 0, 0, time.UTC).
				Format("Jan 2, 2006"),
		})
	}

	return domain.TaxSummary{
		Year:          year,
		GrossIncome:   gross.Round(2),
		Quarters:      quarters,
		TotalLessons:  totalLessons,
		TotalHours:    totalHours.Round(2),
		UniqueClients: uniqueClients,
	}
}
