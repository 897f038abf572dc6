package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/strideapp/coach-billing/internal/domain"
)

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	// GetByIDs retrieves the coach's clients matching the given ids.
	// Missing or foreign ids are simply absent from the result.
	GetByIDs(ctx context.Context, coachID uuid.UUID, ids []uuid.UUID) ([]*domain.Client, error)

	// ListActive retrieves all non-archived clients for a coach
	ListActive(ctx context.Context, coachID uuid.UUID) ([]*domain.Client, error)
}

// LessonTypeRepository defines the interface for lesson type data operations
type LessonTypeRepository interface {
	// GetByID retrieves a lesson type owned by the coach
	GetByID(ctx context.Context, coachID, typeID uuid.UUID) (*domain.LessonType, error)
}

// LessonRepository defines the interface for lesson data operations
type LessonRepository interface {
	// Create creates a new lesson
	Create(ctx context.Context, lesson *domain.Lesson) error

	// GetByID retrieves a lesson owned by the coach
	GetByID(ctx context.Context, coachID, lessonID uuid.UUID) (*domain.Lesson, error)

	// UpdateStatus transitions a lesson's lifecycle status
	UpdateStatus(ctx context.Context, coachID, lessonID uuid.UUID, status string) error

	// ListForRange retrieves non-cancelled lessons starting within
	// [from, to), each joined with its owed entries and lesson type
	ListForRange(ctx context.Context, coachID uuid.UUID, from, to time.Time) ([]*domain.LessonWithEntries, error)
}

// BillingRepository defines the interface for owed entry and invoice operations
type BillingRepository interface {
	// CreateEntries inserts the per-participant owed entries in one transaction
	CreateEntries(ctx context.Context, entries []*domain.OwedEntry) error

	// CreateInvoice inserts the legacy path's invoice
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) error

	// MarkEntryPaid sets an entry paid with the given timestamp, scoped to
	// lessons owned by the coach. Returns sql.ErrNoRows semantics via affected=0.
	MarkEntryPaid(ctx context.Context, coachID, entryID uuid.UUID, paidAt time.Time) (int64, error)

	// CancelEntriesForLesson marks all pending entries of a lesson canceled
	CancelEntriesForLesson(ctx context.Context, lessonID uuid.UUID) error

	// MarkOverdueEntries flips pending entries of past, non-cancelled lessons
	// to overdue; returns the number of rows updated
	MarkOverdueEntries(ctx context.Context, now time.Time) (int64, error)

	// MarkOverdueInvoices flips pending past-due invoices of non-cancelled
	// lessons to overdue; returns the number of rows updated
	MarkOverdueInvoices(ctx context.Context, now time.Time) (int64, error)
}
