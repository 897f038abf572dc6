package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ClientStatusActive   = "active"
	ClientStatusArchived = "archived"
)

// Client is a coach's client/athlete record. Archiving is a soft delete.
type Client struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	CoachID           uuid.UUID       `json:"coach_id" db:"coach_id"`
	Name              string          `json:"name" db:"name"`
	Email             string          `json:"email" db:"email"`
	Phone             string          `json:"phone" db:"phone"`
	DefaultHourlyRate decimal.Decimal `json:"default_hourly_rate" db:"default_hourly_rate"`
	Status            string          `json:"status" db:"status"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// LessonType holds a coach's configured lesson category and its current
// hourly rate. The rate is only read at booking time; changing it never
// touches lessons already booked.
type LessonType struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CoachID    uuid.UUID       `json:"coach_id" db:"coach_id"`
	Name       string          `json:"name" db:"name"`
	HourlyRate decimal.Decimal `json:"hourly_rate" db:"hourly_rate"`
	Color      string          `json:"color" db:"color"`
	Active     bool            `json:"active" db:"active"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
