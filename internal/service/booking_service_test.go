package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/strideapp/coach-billing/internal/config"
	"github.com/strideapp/coach-billing/internal/domain"
	customError "github.com/strideapp/coach-billing/pkg/errors"
	"github.com/strideapp/coach-billing/tests/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Billing: config.BillingConfig{
			MaxHourlyRate:    "999",
			MinLessonMinutes: 5,
			MinLegacyMinutes: 15,
			MaxLessonHours:   24,
			InvoiceDueDays:   14,
		},
	}
}

func activeClients(coachID uuid.UUID, ids ...uuid.UUID) []*domain.Client {
	clients := make([]*domain.Client, 0, len(ids))
	for i, id := range ids {
		clients = append(clients, &domain.Client{
			ID:      id,
			CoachID: coachID,
			Name:    "Client " + string(rune('A'+i)),
			Status:  domain.ClientStatusActive,
		})
	}
	return clients
}

func newBookingFixture() (*BookingService, *mocks.MockLessonRepository, *mocks.MockBillingRepository, *mocks.MockClientRepository, *mocks.MockLessonTypeRepository, *mocks.MockNotifier) {
	lessonRepo := &mocks.MockLessonRepository{}
	billingRepo := &mocks.MockBillingRepository{}
	clientRepo := &mocks.MockClientRepository{}
	typeRepo := &mocks.MockLessonTypeRepository{}
	notifier := &mocks.MockNotifier{}

	cfg := testConfig()
	svc := NewBookingService(lessonRepo, billingRepo, clientRepo, NewRateResolver(typeRepo, cfg), notifier, cfg)

	return svc, lessonRepo, billingRepo, clientRepo, typeRepo, notifier
}

func TestCreateBooking_SplitRounding(t *testing.T) {
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		rate          decimal.Decimal
		duration      time.Duration
		participants  int
		expectedTotal decimal.Decimal
		expectedSplit decimal.Decimal
	}{
		{
			// 90/hr for 1.5h across 3: splits exactly
			name:          "exact split",
			rate:          decimal.NewFromInt(90),
			duration:      90 * time.Minute,
			participants:  3,
			expectedTotal: decimal.NewFromInt(135),
			expectedSplit: decimal.NewFromInt(45),
		},
		{
			// 100/hr for 1h across 3: 33.33 each, sum 99.99 (0.01 short of
			// the total; accepted drift, no remainder correction)
			name:          "split with rounding drift",
			rate:          decimal.NewFromInt(100),
			duration:      time.Hour,
			participants:  3,
			expectedTotal: decimal.NewFromInt(100),
			expectedSplit: decimal.NewFromFloat(33.33),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, lessonRepo, billingRepo, clientRepo, _, notifier := newBookingFixture()

			coachID := uuid.New()
			clientIDs := make([]uuid.UUID, tt.participants)
			for i := range clientIDs {
				clientIDs[i] = uuid.New()
			}

			clientRepo.On("GetByIDs", mock.Anything, coachID, clientIDs).
				Return(activeClients(coachID, clientIDs...), nil)
			lessonRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			billingRepo.On("CreateEntries", mock.Anything, mock.MatchedBy(func(entries []*domain.OwedEntry) bool {
				return len(entries) == tt.participants
			})).Return(nil)
			notifier.On("BillingChanged", mock.Anything, coachID).Return(nil)

			rate := tt.rate
			result, err := svc.CreateBooking(context.Background(), coachID, &domain.CreateBookingRequest{
				ClientIDs:        clientIDs,
				CustomHourlyRate: &rate,
				Title:            "Group session",
				StartTime:        start,
				EndTime:          start.Add(tt.duration),
			})

			assert.NoError(t, err)
			assert.Equal(t, tt.participants, len(result.Entries))
			assert.Nil(t, result.Invoice)
			assert.True(t, result.Lesson.RateAtBooking.Equal(tt.rate))

			sum := decimal.Zero
			for _, entry := range result.Entries {
				assert.True(t, entry.AmountOwed.Equal(tt.expectedSplit),
					"expected split %s, got %s", tt.expectedSplit, entry.AmountOwed)
				assert.Equal(t, domain.PaymentStatusPending, entry.PaymentStatus)
				assert.Nil(t, entry.PaidAt)
				sum = sum.Add(entry.AmountOwed)
			}

			// Sum may drift from total by at most (N-1) * 0.005.
			drift := sum.Sub(tt.expectedTotal).Abs()
			maxDrift := decimal.NewFromFloat(0.005).Mul(decimal.NewFromInt(int64(tt.participants - 1)))
			assert.True(t, drift.LessThanOrEqual(maxDrift),
				"drift %s exceeds %s", drift, maxDrift)

			billingRepo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestCreateBooking_NoRateSource(t *testing.T) {
	svc, lessonRepo, _, clientRepo, _, _ := newBookingFixture()

	coachID := uuid.New()
	clientID := uuid.New()
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	clientRepo.On("GetByIDs", mock.Anything, coachID, []uuid.UUID{clientID}).
		Return(activeClients(coachID, clientID), nil)

	result, err := svc.CreateBooking(context.Background(), coachID, &domain.CreateBookingRequest{
		ClientIDs: []uuid.UUID{clientID},
		Title:     "No rate",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})

	assert.Nil(t, result)
	var businessErr *customError.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeInvalidRate, businessErr.Code)

	// No lesson may be persisted when the rate cannot be resolved.
	lessonRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_TimeValidation(t *testing.T) {
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		end          time.Time
		legacy       bool
		expectedCode string
	}{
		{
			name:         "end before start",
			end:          start.Add(-time.Hour),
			expectedCode: customError.ErrCodeInvalidTimeRange,
		},
		{
			name:         "end equals start",
			end:          start,
			expectedCode: customError.ErrCodeInvalidTimeRange,
		},
		{
			name:         "under five minutes",
			end:          start.Add(4 * time.Minute),
			expectedCode: customError.ErrCodeInvalidDuration,
		},
		{
			name:         "legacy under fifteen minutes",
			end:          start.Add(10 * time.Minute),
			legacy:       true,
			expectedCode: customError.ErrCodeInvalidDuration,
		},
		{
			name:         "over twenty-four hours",
			end:          start.Add(25 * time.Hour),
			expectedCode: customError.ErrCodeInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, lessonRepo, _, _, _, _ := newBookingFixture()

			rate := decimal.NewFromInt(60)
			result, err := svc.CreateBooking(context.Background(), uuid.New(), &domain.CreateBookingRequest{
				ClientIDs:        []uuid.UUID{uuid.New()},
				CustomHourlyRate: &rate,
				Title:            "Bad times",
				StartTime:        start,
				EndTime:          tt.end,
				Legacy:           tt.legacy,
			})

			assert.Nil(t, result)
			var businessErr *customError.BusinessError
			assert.ErrorAs(t, err, &businessErr)
			assert.Equal(t, tt.expectedCode, businessErr.Code)

			lessonRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_ForeignClient(t *testing.T) {
	svc, lessonRepo, _, clientRepo, _, _ := newBookingFixture()

	coachID := uuid.New()
	owned := uuid.New()
	foreign := uuid.New()
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	// The repository only returns rows the coach owns.
	clientRepo.On("GetByIDs", mock.Anything, coachID, []uuid.UUID{owned, foreign}).
		Return(activeClients(coachID, owned), nil)

	rate := decimal.NewFromInt(60)
	result, err := svc.CreateBooking(context.Background(), coachID, &domain.CreateBookingRequest{
		ClientIDs:        []uuid.UUID{owned, foreign},
		CustomHourlyRate: &rate,
		Title:            "Mixed clients",
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
	})

	assert.Nil(t, result)
	var businessErr *customError.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeClientNotFound, businessErr.Code)

	lessonRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_LegacyInvoice(t *testing.T) {
	svc, lessonRepo, billingRepo, clientRepo, _, notifier := newBookingFixture()

	coachID := uuid.New()
	clientID := uuid.New()
	start := time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC)

	clientRepo.On("GetByIDs", mock.Anything, coachID, []uuid.UUID{clientID}).
		Return(activeClients(coachID, clientID), nil)
	lessonRepo.On("Create", mock.Anything, mock.MatchedBy(func(lesson *domain.Lesson) bool {
		return lesson.ClientID != nil && *lesson.ClientID == clientID
	})).Return(nil)
	billingRepo.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil)
	notifier.On("BillingChanged", mock.Anything, coachID).Return(nil)

	rate := decimal.NewFromInt(75)
	result, err := svc.CreateBooking(context.Background(), coachID, &domain.CreateBookingRequest{
		ClientIDs:        []uuid.UUID{clientID},
		CustomHourlyRate: &rate,
		Title:            "Legacy lesson",
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
		Legacy:           true,
	})

	assert.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.NotNil(t, result.Invoice)
	assert.True(t, result.Invoice.Amount.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, start.AddDate(0, 0, 14), result.Invoice.DueDate)
	assert.Equal(t, domain.PaymentStatusPending, result.Invoice.Status)

	billingRepo.AssertNotCalled(t, "CreateEntries", mock.Anything, mock.Anything)
}

func TestCreateBooking_PartialSuccess(t *testing.T) {
	svc, lessonRepo, billingRepo, clientRepo, _, notifier := newBookingFixture()

	coachID := uuid.New()
	clientIDs := []uuid.UUID{uuid.New(), uuid.New()}
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	clientRepo.On("GetByIDs", mock.Anything, coachID, clientIDs).
		Return(activeClients(coachID, clientIDs...), nil)
	lessonRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	billingRepo.On("CreateEntries", mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	rate := decimal.NewFromInt(60)
	result, err := svc.CreateBooking(context.Background(), coachID, &domain.CreateBookingRequest{
		ClientIDs:        clientIDs,
		CustomHourlyRate: &rate,
		Title:            "Half persisted",
		StartTime:        start,
		EndTime:          start.Add(time.Hour),
	})

	// The lesson exists without its entries; that state is reported, not
	// hidden, so the caller can detect and repair it.
	var businessErr *customError.BusinessError
	assert.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodePartialBooking, businessErr.Code)
	assert.NotNil(t, result)
	assert.NotNil(t, result.Lesson)
	assert.Empty(t, result.Entries)

	notifier.AssertNotCalled(t, "BillingChanged", mock.Anything, mock.Anything)
}

func TestCreateBooking_RateSnapshotImmutable(t *testing.T) {
	svc, lessonRepo, billingRepo, clientRepo, typeRepo, notifier := newBookingFixture()

	coachID := uuid.New()
	clientID := uuid.New()
	typeID := uuid.New()
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	clientRepo.On("GetByIDs", mock.Anything, coachID, []uuid.UUID{clientID}).
		Return(activeClients(coachID, clientID), nil)
	lessonRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	billingRepo.On("CreateEntries", mock.Anything, mock.Anything).Return(nil)
	notifier.On("BillingChanged", mock.Anything, coachID).Return(nil)

	// Rate is 80 at booking time.
	typeRepo.On("GetByID", mock.Anything, coachID, typeID).
		Return(&domain.LessonType{ID: typeID, CoachID: coachID, Name: "Private", HourlyRate: decimal.NewFromInt(80), Active: true}, nil).Once()

	first, err := svc.CreateBooking(context.Background(), coachID, &domain.CreateBookingRequest{
		ClientIDs:    []uuid.UUID{clientID},
		LessonTypeID: &typeID,
		Title:        "Before rate change",
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
	})
	assert.NoError(t, err)

	// The coach raises the type's rate; the earlier snapshot must not move.
	typeRepo.On("GetByID", mock.Anything, coachID, typeID).
		Return(&domain.LessonType{ID: typeID, CoachID: coachID, Name: "Private", HourlyRate: decimal.NewFromInt(120), Active: true}, nil).Once()

	second, err := svc.CreateBooking(context.Background(), coachID, &domain.CreateBookingRequest{
		ClientIDs:    []uuid.UUID{clientID},
		LessonTypeID: &typeID,
		Title:        "After rate change",
		StartTime:    start.Add(24 * time.Hour),
		EndTime:      start.Add(25 * time.Hour),
	})
	assert.NoError(t, err)

	assert.True(t, first.Lesson.RateAtBooking.Equal(decimal.NewFromInt(80)))
	assert.True(t, second.Lesson.RateAtBooking.Equal(decimal.NewFromInt(120)))
}

func TestMarkEntryPaid(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, _, billingRepo, _, _, notifier := newBookingFixture()

		coachID := uuid.New()
		entryID := uuid.New()

		billingRepo.On("MarkEntryPaid", mock.Anything, coachID, entryID, mock.Anything).
			Return(int64(1), nil)
		notifier.On("BillingChanged", mock.Anything, coachID).Return(nil)

		assert.NoError(t, svc.MarkEntryPaid(context.Background(), coachID, entryID))
		billingRepo.AssertExpectations(t)
	})

	t.Run("unknown entry", func(t *testing.T) {
		svc, _, billingRepo, _, _, _ := newBookingFixture()

		coachID := uuid.New()
		entryID := uuid.New()

		billingRepo.On("MarkEntryPaid", mock.Anything, coachID, entryID, mock.Anything).
			Return(int64(0), nil)

		err := svc.MarkEntryPaid(context.Background(), coachID, entryID)

		var businessErr *customError.BusinessError
		assert.ErrorAs(t, err, &businessErr)
		assert.Equal(t, customError.ErrCodeEntryNotFound, businessErr.Code)
	})
}

func TestCancelLesson(t *testing.T) {
	svc, lessonRepo, billingRepo, _, _, notifier := newBookingFixture()

	coachID := uuid.New()
	lessonID := uuid.New()

	lessonRepo.On("GetByID", mock.Anything, coachID, lessonID).
		Return(&domain.Lesson{ID: lessonID, CoachID: coachID, Status: domain.LessonStatusScheduled}, nil)
	lessonRepo.On("UpdateStatus", mock.Anything, coachID, lessonID, domain.LessonStatusCancelled).Return(nil)
	billingRepo.On("CancelEntriesForLesson", mock.Anything, lessonID).Return(nil)
	notifier.On("BillingChanged", mock.Anything, coachID).Return(nil)

	lesson, err := svc.CancelLesson(context.Background(), coachID, lessonID)

	assert.NoError(t, err)
	assert.Equal(t, domain.LessonStatusCancelled, lesson.Status)
	billingRepo.AssertExpectations(t)
}
