package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/strideapp/coach-billing/internal/domain"
)

type lessonRepository struct {
	db *sqlx.DB
}

func NewLessonRepository(db *sqlx.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) Create(ctx context.Context, lesson *domain.Lesson) error {
	query := `
		INSERT INTO lessons (id, coach_id, client_id, lesson_type_id, title, start_time, end_time, rate_at_booking, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		lesson.ID,
		lesson.CoachID,
		lesson.ClientID,
		lesson.LessonTypeID,
		lesson.Title,
		lesson.StartTime,
		lesson.EndTime,
		lesson.RateAtBooking,
		lesson.Status,
		lesson.CreatedAt,
		lesson.UpdatedAt,
	)

	return err
}

func (r *lessonRepository) GetByID(ctx context.Context, coachID, lessonID uuid.UUID) (*domain.Lesson, error) {
	query := `
		SELECT id, coach_id, client_id, lesson_type_id, title, start_time, end_time, rate_at_booking, status, created_at, updated_at
		FROM lessons
		WHERE id = $1 AND coach_id = $2
	`

	var lesson domain.Lesson
	err := r.db.GetContext(ctx, &lesson, query, lessonID, coachID)
	if err != nil {
		return nil, err
	}

	return &lesson, nil
}

func (r *lessonRepository) UpdateStatus(ctx context.Context, coachID, lessonID uuid.UUID, status string) error {
	query := `
		UPDATE lessons
		SET status = $3, updated_at = $4
		WHERE id = $1 AND coach_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, lessonID, coachID, status, time.Now())
	return err
}

func (r *lessonRepository) ListForRange(ctx context.Context, coachID uuid.UUID, from, to time.Time) ([]*domain.LessonWithEntries, error) {
	lessonQuery := `
		SELECT id, coach_id, client_id, lesson_type_id, title, start_time, end_time, rate_at_booking, status, created_at, updated_at
		FROM lessons
		WHERE coach_id = $1 AND start_time >= $2 AND start_time < $3 AND status <> 'cancelled'
		ORDER BY start_time, id
	`

	var lessons []*domain.Lesson
	if err := r.db.SelectContext(ctx, &lessons, lessonQuery, coachID, from, to); err != nil {
		return nil, err
	}

	entryQuery := `
		SELECT e.id, e.lesson_id, e.client_id, e.amount_owed, e.payment_status, e.paid_at, e.created_at
		FROM owed_entries e
		JOIN lessons l ON l.id = e.lesson_id
		WHERE l.coach_id = $1 AND l.start_time >= $2 AND l.start_time < $3 AND l.status <> 'cancelled'
		ORDER BY e.lesson_id, e.created_at, e.id
	`

	var entries []*domain.OwedEntry
	if err := r.db.SelectContext(ctx, &entries, entryQuery, coachID, from, to); err != nil {
		return nil, err
	}

	typeQuery := `
		SELECT id, coach_id, name, hourly_rate, color, active, created_at, updated_at
		FROM lesson_types
		WHERE coach_id = $1
	`

	var types []*domain.LessonType
	if err := r.db.SelectContext(ctx, &types, typeQuery, coachID); err != nil {
		return nil, err
	}

	entriesByLesson := make(map[uuid.UUID][]*domain.OwedEntry, len(lessons))
	for _, entry := range entries {
		entriesByLesson[entry.LessonID] = append(entriesByLesson[entry.LessonID], entry)
	}

	typesByID := make(map[uuid.UUID]*domain.LessonType, len(types))
	for _, lt := range types {
		typesByID[lt.ID] = lt
	}

	result := make([]*domain.LessonWithEntries, 0, len(lessons))
	for _, lesson := range lessons {
		joined := &domain.LessonWithEntries{
			Lesson:  lesson,
			Entries: entriesByLesson[lesson.ID],
		}
		if lesson.LessonTypeID != nil {
			joined.LessonType = typesByID[*lesson.LessonTypeID]
		}
		result = append(result, joined)
	}

	return result, nil
}
