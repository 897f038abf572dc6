package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/strideapp/coach-billing/internal/config"
	"github.com/strideapp/coach-billing/internal/repository"
	customError "github.com/strideapp/coach-billing/pkg/errors"
)

// RateResolver determines the hourly rate to snapshot onto a lesson at
// booking time. Exactly one of lesson type or custom rate must supply it.
type RateResolver struct {
	lessonTypes repository.LessonTypeRepository
	maxRate     decimal.Decimal
}

func NewRateResolver(lessonTypes repository.LessonTypeRepository, cfg *config.Config) *RateResolver {
	return &RateResolver{
		lessonTypes: lessonTypes,
		maxRate:     cfg.GetMaxHourlyRate(),
	}
}

// Resolve returns the hourly rate for a booking. A lesson type wins over a
// custom rate; the type must belong to the coach and be active. Inactive,
// foreign, and missing types are all reported as not found.
func (r *RateResolver) Resolve(ctx context.Context, coachID uuid.UUID, lessonTypeID *uuid.UUID, customRate *decimal.Decimal) (decimal.Decimal, error) {
	if lessonTypeID != nil {
		lessonType, err := r.lessonTypes.GetByID(ctx, coachID, *lessonTypeID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return decimal.Zero, customError.WrapLessonTypeNotFound(*lessonTypeID)
			}
			return decimal.Zero, customError.WrapDatabaseError(err)
		}
		if !lessonType.Active {
			return decimal.Zero, customError.WrapLessonTypeNotFound(*lessonTypeID)
		}
		return lessonType.HourlyRate, nil
	}

	if customRate == nil {
		return decimal.Zero, customError.WrapInvalidRate("either lesson_type_id or custom_hourly_rate is required")
	}

	if customRate.LessThanOrEqual(decimal.Zero) || customRate.GreaterThan(r.maxRate) {
		return decimal.Zero, customError.WrapInvalidRate(
			fmt.Sprintf("custom_hourly_rate must be greater than 0 and at most %s", r.maxRate),
		)
	}

	return *customRate, nil
}
