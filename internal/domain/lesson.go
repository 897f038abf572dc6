package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LessonStatusScheduled = "scheduled"
	LessonStatusCompleted = "completed"
	LessonStatusCancelled = "cancelled"
	LessonStatusNoShow    = "no_show"
)

// Lesson represents a booked lesson. RateAtBooking is the hourly rate
// snapshotted at creation and never updated afterwards, regardless of later
// lesson-type rate changes.
type Lesson struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CoachID       uuid.UUID       `json:"coach_id" db:"coach_id"`
	ClientID      *uuid.UUID      `json:"client_id,omitempty" db:"client_id"` // legacy single-client reference
	LessonTypeID  *uuid.UUID      `json:"lesson_type_id,omitempty" db:"lesson_type_id"`
	Title         string          `json:"title" db:"title"`
	StartTime     time.Time       `json:"start_time" db:"start_time"`
	EndTime       time.Time       `json:"end_time" db:"end_time"`
	RateAtBooking decimal.Decimal `json:"rate_at_booking" db:"rate_at_booking"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// LessonWithEntries is the joined row shape returned by the year fetch.
type LessonWithEntries struct {
	Lesson     *Lesson
	Entries    []*OwedEntry
	LessonType *LessonType
}

// DTOs for requests and responses

type CreateBookingRequest struct {
	ClientIDs        []uuid.UUID      `json:"client_ids" validate:"required,min=1,dive,required"`
	LessonTypeID     *uuid.UUID       `json:"lesson_type_id,omitempty"`
	CustomHourlyRate *decimal.Decimal `json:"custom_hourly_rate,omitempty"`
	Title            string           `json:"title" validate:"required,max=200"`
	StartTime        time.Time        `json:"start_time" validate:"required"`
	EndTime          time.Time        `json:"end_time" validate:"required"`
	Legacy           bool             `json:"legacy,omitempty"`
}

// BookingResult carries the lesson plus either the per-participant owed
// entries or, on the legacy path, the generated invoice.
type BookingResult struct {
	Lesson  *Lesson      `json:"lesson"`
	Entries []*OwedEntry `json:"entries,omitempty"`
	Invoice *Invoice     `json:"invoice,omitempty"`
}
