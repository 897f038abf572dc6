package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UncategorizedLabel is the display name for lessons booked without a type.
const UncategorizedLabel = "Uncategorized"

// TypeKey keys the per-lesson-type buckets. It is a tagged variant
// (type id or uncategorized) rather than a nullable string, so an id can
// never collide with the sentinel.
type TypeKey struct {
	ID            uuid.UUID
	Uncategorized bool
}

// TypeKeyFor builds the bucket key for an optional lesson-type reference.
func TypeKeyFor(id *uuid.UUID) TypeKey {
	if id == nil {
		return TypeKey{Uncategorized: true}
	}
	return TypeKey{ID: *id}
}

// MonthlyIncome is one calendar-month bucket of a year summary.
// Lessons and Hours accumulate for every non-cancelled entry; Income only
// for entries actually paid.
type MonthlyIncome struct {
	Month   int             `json:"month"` // 0-11
	Lessons int             `json:"lessons"`
	Hours   decimal.Decimal `json:"hours"`
	Income  decimal.Decimal `json:"income"`
}

type ClientBreakdown struct {
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	Lessons    int             `json:"lessons"`
	Hours      decimal.Decimal `json:"hours"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
}

type TypeBreakdown struct {
	LessonTypeID *uuid.UUID      `json:"lesson_type_id,omitempty"`
	Name         string          `json:"name"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	Lessons      int             `json:"lessons"`
	Hours        decimal.Decimal `json:"hours"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
}

// QuarterTotal pairs a calendar quarter's paid income with its estimated-tax
// filing deadline label.
type QuarterTotal struct {
	Quarter  int             `json:"quarter"` // 1-4
	Income   decimal.Decimal `json:"income"`
	Deadline string          `json:"deadline"`
}

type TaxSummary struct {
	Year          int             `json:"year"`
	GrossIncome   decimal.Decimal `json:"gross_income"`
	Quarters      []QuarterTotal  `json:"quarters"`
	TotalLessons  int             `json:"total_lessons"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	UniqueClients int             `json:"unique_clients"`
}

// ExportRow is one line of the tax-ready export: one row per participant
// entry, real or synthesized from a legacy lesson.
type ExportRow struct {
	Date           string          `json:"date"` // YYYY-MM-DD
	ClientName     string          `json:"client_name"`
	LessonTypeName string          `json:"lesson_type_name"`
	DurationHours  decimal.Decimal `json:"duration_hours"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	PaymentStatus  string          `json:"payment_status"`
}

// FinancialSummary is the full derived year aggregation. It is recomputed
// from scratch on every request and never persisted.
type FinancialSummary struct {
	Year        int               `json:"year"`
	Monthly     []MonthlyIncome   `json:"monthly"` // always 12 entries
	Clients     []ClientBreakdown `json:"clients"`
	LessonTypes []TypeBreakdown   `json:"lesson_types"`
	Tax         TaxSummary        `json:"tax"`
	ExportRows  []ExportRow       `json:"export_rows"`
}
