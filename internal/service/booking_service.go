package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/strideapp/coach-billing/internal/config"
	"github.com/strideapp/coach-billing/internal/domain"
	"github.com/strideapp/coach-billing/internal/notify"
	"github.com/strideapp/coach-billing/internal/repository"
	customError "github.com/strideapp/coach-billing/pkg/errors"
	"github.com/strideapp/coach-billing/pkg/utils"
)

// BookingService creates lessons with an immutable rate snapshot and the
// per-participant owed entries (or, on the legacy single-client path, an
// invoice), and drives lesson lifecycle transitions.
type BookingService struct {
	lessons  repository.LessonRepository
	billing  repository.BillingRepository
	clients  repository.ClientRepository
	rates    *RateResolver
	notifier notify.Notifier
	config   *config.Config
}

func NewBookingService(
	lessons repository.LessonRepository,
	billing repository.BillingRepository,
	clients repository.ClientRepository,
	rates *RateResolver,
	notifier notify.Notifier,
	config *config.Config,
) *BookingService {
	return &BookingService{
		lessons:  lessons,
		billing:  billing,
		clients:  clients,
		rates:    rates,
		notifier: notifier,
		config:   config,
	}
}

// CreateBooking validates the request, snapshots the resolved hourly rate
// onto a new lesson, and persists the dependent billing records.
//
// If the lesson row is persisted but the entries/invoice insert fails, the
// partially created state is reported via a PARTIAL_BOOKING error together
// with the persisted lesson, never rolled back silently.
func (s *BookingService) CreateBooking(ctx context.Context, coachID uuid.UUID, request *domain.CreateBookingRequest) (*domain.BookingResult, error) {
	if err := s.validateTimeRange(request); err != nil {
		return nil, err
	}

	if request.Legacy && len(request.ClientIDs) != 1 {
		return nil, customError.WrapValidationFailed("client_ids", "legacy bookings take exactly one client")
	}

	if err := s.verifyClients(ctx, coachID, request.ClientIDs); err != nil {
		return nil, err
	}

	rate, err := s.rates.Resolve(ctx, coachID, request.LessonTypeID, request.CustomHourlyRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	lesson := &domain.Lesson{
		ID:            uuid.New(),
		CoachID:       coachID,
		LessonTypeID:  request.LessonTypeID,
		Title:         request.Title,
		StartTime:     request.StartTime,
		EndTime:       request.EndTime,
		RateAtBooking: rate,
		Status:        domain.LessonStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if request.Legacy {
		clientID := request.ClientIDs[0]
		lesson.ClientID = &clientID
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	hours := utils.DurationHours(request.StartTime, request.EndTime)
	total := utils.LessonTotal(hours, rate)

	result := &domain.BookingResult{Lesson: lesson}

	if request.Legacy {
		invoice := &domain.Invoice{
			ID:        uuid.New(),
			LessonID:  lesson.ID,
			ClientID:  request.ClientIDs[0],
			Amount:    total,
			DueDate:   request.StartTime.AddDate(0, 0, s.config.Billing.InvoiceDueDays),
			Status:    domain.PaymentStatusPending,
			CreatedAt: now,
		}
		if err := s.billing.CreateInvoice(ctx, invoice); err != nil {
			log.Error().Err(err).
				Str("lesson_id", lesson.ID.String()).
				Msg("invoice insert failed after lesson was persisted")
			return result, customError.WrapPartialBooking(lesson.ID, err)
		}
		result.Invoice = invoice
	} else {
		split := utils.SplitEvenly(total, len(request.ClientIDs))
		entries := make([]*domain.OwedEntry, 0, len(request.ClientIDs))
		for _, clientID := range request.ClientIDs {
			entries = append(entries, &domain.OwedEntry{
				ID:            uuid.New(),
				LessonID:      lesson.ID,
				ClientID:      clientID,
				AmountOwed:    split,
				PaymentStatus: domain.PaymentStatusPending,
				CreatedAt:     now,
			})
		}
		if err := s.billing.CreateEntries(ctx, entries); err != nil {
			log.Error().Err(err).
				Str("lesson_id", lesson.ID.String()).
				Msg("owed entry insert failed after lesson was persisted")
			return result, customError.WrapPartialBooking(lesson.ID, err)
		}
		result.Entries = entries
	}

	s.notifyChanged(ctx, coachID)

	return result, nil
}

// CompleteLesson marks a lesson completed.
func (s *BookingService) CompleteLesson(ctx context.Context, coachID, lessonID uuid.UUID) (*domain.Lesson, error) {
	return s.transition(ctx, coachID, lessonID, domain.LessonStatusCompleted)
}

// CancelLesson marks a lesson cancelled and cancels its unpaid owed entries.
// The lesson row is kept; cancellation is a status change only.
func (s *BookingService) CancelLesson(ctx context.Context, coachID, lessonID uuid.UUID) (*domain.Lesson, error) {
	lesson, err := s.transition(ctx, coachID, lessonID, domain.LessonStatusCancelled)
	if err != nil {
		return nil, err
	}

	if err := s.billing.CancelEntriesForLesson(ctx, lessonID); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return lesson, nil
}

// MarkEntryPaid records payment of one owed entry, setting the paid
// timestamp alongside the status.
func (s *BookingService) MarkEntryPaid(ctx context.Context, coachID, entryID uuid.UUID) error {
	affected, err := s.billing.MarkEntryPaid(ctx, coachID, entryID, time.Now())
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if affected == 0 {
		return customError.WrapEntryNotFound(entryID)
	}

	s.notifyChanged(ctx, coachID)

	return nil
}

func (s *BookingService) transition(ctx context.Context, coachID, lessonID uuid.UUID, status string) (*domain.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, coachID, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLessonNotFound(lessonID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if lesson.Status == domain.LessonStatusCancelled {
		return nil, customError.WrapValidationFailed("status", "lesson is already cancelled")
	}

	if err := s.lessons.UpdateStatus(ctx, coachID, lessonID, status); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	lesson.Status = status

	s.notifyChanged(ctx, coachID)

	return lesson, nil
}

func (s *BookingService) validateTimeRange(request *domain.CreateBookingRequest) error {
	if !request.EndTime.After(request.StartTime) {
		return customError.WrapInvalidTimeRange("end_time must be after start_time")
	}

	duration := request.EndTime.Sub(request.StartTime)

	minMinutes := s.config.Billing.MinLessonMinutes
	if request.Legacy {
		minMinutes = s.config.Billing.MinLegacyMinutes
	}

	if duration < time.Duration(minMinutes)*time.Minute {
		return customError.WrapInvalidDuration(
			fmt.Sprintf("lesson must be at least %d minutes", minMinutes),
		)
	}

	if duration > time.Duration(s.config.Billing.MaxLessonHours)*time.Hour {
		return customError.WrapInvalidDuration(
			fmt.Sprintf("lesson must be at most %d hours", s.config.Billing.MaxLessonHours),
		)
	}

	return nil
}

func (s *BookingService) verifyClients(ctx context.Context, coachID uuid.UUID, clientIDs []uuid.UUID) error {
	clients, err := s.clients.GetByIDs(ctx, coachID, clientIDs)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	owned := make(map[uuid.UUID]*domain.Client, len(clients))
	for _, client := range clients {
		owned[client.ID] = client
	}

	for _, id := range clientIDs {
		client, ok := owned[id]
		if !ok || client.Status != domain.ClientStatusActive {
			return customError.WrapClientNotFound(id)
		}
	}

	return nil
}

func (s *BookingService) notifyChanged(ctx context.Context, coachID uuid.UUID) {
	if err := s.notifier.BillingChanged(ctx, coachID); err != nil {
		log.Warn().Err(err).
			Str("coach_id", coachID.String()).
			Msg("billing change notification failed")
	}
}
