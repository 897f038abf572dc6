package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusOverdue  = "overdue"
	PaymentStatusCanceled = "canceled"
)

// PaymentStatusLabel maps a stored payment status to its display label.
func PaymentStatusLabel(status string) string {
	switch status {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusPaid:
		return "Paid"
	case PaymentStatusOverdue:
		return "Overdue"
	case PaymentStatusCanceled:
		return "Canceled"
	default:
		return status
	}
}

// OwedEntry records one participant's share of a lesson's cost.
// Invariant: PaidAt is set iff PaymentStatus is paid.
type OwedEntry struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LessonID      uuid.UUID       `json:"lesson_id" db:"lesson_id"`
	ClientID      uuid.UUID       `json:"client_id" db:"client_id"`
	AmountOwed    decimal.Decimal `json:"amount_owed" db:"amount_owed"`
	PaymentStatus string          `json:"payment_status" db:"payment_status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Invoice is the legacy single-client path's equivalent of owed entries:
// one bill for the whole lesson, due 14 days after the lesson start.
type Invoice struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	LessonID  uuid.UUID       `json:"lesson_id" db:"lesson_id"`
	ClientID  uuid.UUID       `json:"client_id" db:"client_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	DueDate   time.Time       `json:"due_date" db:"due_date"`
	Status    string          `json:"status" db:"status"`
	PaidAt    *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
