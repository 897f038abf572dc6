package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/strideapp/coach-billing/internal/domain"
)

type billingRepository struct {
	db *sqlx.DB
}

func NewBillingRepository(db *sqlx.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) CreateEntries(ctx context.Context, entries []*domain.OwedEntry) error {
	query := `
		INSERT INTO owed_entries (id, lesson_id, client_id, amount_owed, payment_status, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, entry := range entries {
		_, err = tx.ExecContext(ctx, query,
			entry.ID,
			entry.LessonID,
			entry.ClientID,
			entry.AmountOwed,
			entry.PaymentStatus,
			entry.PaidAt,
			entry.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *billingRepository) CreateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (id, lesson_id, client_id, amount, due_date, status, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID,
		invoice.LessonID,
		invoice.ClientID,
		invoice.Amount,
		invoice.DueDate,
		invoice.Status,
		invoice.PaidAt,
		invoice.CreatedAt,
	)

	return err
}

func (r *billingRepository) MarkEntryPaid(ctx context.Context, coachID, entryID uuid.UUID, paidAt time.Time) (int64, error) {
	query := `
		UPDATE owed_entries e
		SET payment_status = $3, paid_at = $4
		FROM lessons l
		WHERE e.id = $1 AND e.lesson_id = l.id AND l.coach_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, entryID, coachID, domain.PaymentStatusPaid, paidAt)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *billingRepository) CancelEntriesForLesson(ctx context.Context, lessonID uuid.UUID) error {
	query := `
		UPDATE owed_entries
		SET payment_status = $2
		WHERE lesson_id = $1 AND payment_status IN ('pending', 'overdue')
	`

	_, err := r.db.ExecContext(ctx, query, lessonID, domain.PaymentStatusCanceled)
	return err
}

func (r *billingRepository) MarkOverdueEntries(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE owed_entries e
		SET payment_status = 'overdue'
		FROM lessons l
		WHERE e.lesson_id = l.id
		  AND e.payment_status = 'pending'
		  AND l.end_time < $1
		  AND l.status <> 'cancelled'
	`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *billingRepository) MarkOverdueInvoices(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE invoices i
		SET status = 'overdue'
		FROM lessons l
		WHERE i.lesson_id = l.id
		  AND i.status = 'pending'
		  AND i.due_date < $1
		  AND l.status <> 'cancelled'
	`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
