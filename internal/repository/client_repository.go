package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/strideapp/coach-billing/internal/domain"
)

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) GetByIDs(ctx context.Context, coachID uuid.UUID, ids []uuid.UUID) ([]*domain.Client, error) {
	if len(ids) == 0 {
		return []*domain.Client{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, coach_id, name, email, phone, default_hourly_rate, status, created_at, updated_at
		FROM clients
		WHERE coach_id = ? AND id IN (?)
	`, coachID, ids)
	if err != nil {
		return nil, err
	}

	var clients []*domain.Client
	if err := r.db.SelectContext(ctx, &clients, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) ListActive(ctx context.Context, coachID uuid.UUID) ([]*domain.Client, error) {
	query := `
		SELECT id, coach_id, name, email, phone, default_hourly_rate, status, created_at, updated_at
		FROM clients
		WHERE coach_id = $1 AND status = 'active'
		ORDER BY name
	`

	var clients []*domain.Client
	if err := r.db.SelectContext(ctx, &clients, query, coachID); err != nil {
		return nil, err
	}

	return clients, nil
}

type lessonTypeRepository struct {
	db *sqlx.DB
}

func NewLessonTypeRepository(db *sqlx.DB) LessonTypeRepository {
	return &lessonTypeRepository{db: db}
}

func (r *lessonTypeRepository) GetByID(ctx context.Context, coachID, typeID uuid.UUID) (*domain.LessonType, error) {
	query := `
		SELECT id, coach_id, name, hourly_rate, color, active, created_at, updated_at
		FROM lesson_types
		WHERE id = $1 AND coach_id = $2
	`

	var lessonType domain.LessonType
	if err := r.db.GetContext(ctx, &lessonType, query, typeID, coachID); err != nil {
		return nil, err
	}

	return &lessonType, nil
}
