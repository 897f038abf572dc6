package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/strideapp/coach-billing/internal/domain"
)

type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) Create(ctx context.Context, lesson *domain.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *MockLessonRepository) GetByID(ctx context.Context, coachID, lessonID uuid.UUID) (*domain.Lesson, error) {
	args := m.Called(ctx, coachID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonRepository) UpdateStatus(ctx context.Context, coachID, lessonID uuid.UUID, status string) error {
	args := m.Called(ctx, coachID, lessonID, status)
	return args.Error(0)
}

func (m *MockLessonRepository) ListForRange(ctx context.Context, coachID uuid.UUID, from, to time.Time) ([]*domain.LessonWithEntries, error) {
	args := m.Called(ctx, coachID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LessonWithEntries), args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) GetByIDs(ctx context.Context, coachID uuid.UUID, ids []uuid.UUID) ([]*domain.Client, error) {
	args := m.Called(ctx, coachID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) ListActive(ctx context.Context, coachID uuid.UUID) ([]*domain.Client, error) {
	args := m.Called(ctx, coachID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

type MockLessonTypeRepository struct {
	mock.Mock
}

func (m *MockLessonTypeRepository) GetByID(ctx context.Context, coachID, typeID uuid.UUID) (*domain.LessonType, error) {
	args := m.Called(ctx, coachID, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LessonType), args.Error(1)
}

type MockBillingRepository struct {
	mock.Mock
}

func (m *MockBillingRepository) CreateEntries(ctx context.Context, entries []*domain.OwedEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockBillingRepository) CreateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockBillingRepository) MarkEntryPaid(ctx context.Context, coachID, entryID uuid.UUID, paidAt time.Time) (int64, error) {
	args := m.Called(ctx, coachID, entryID, paidAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingRepository) CancelEntriesForLesson(ctx context.Context, lessonID uuid.UUID) error {
	args := m.Called(ctx, lessonID)
	return args.Error(0)
}

func (m *MockBillingRepository) MarkOverdueEntries(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingRepository) MarkOverdueInvoices(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BillingChanged(ctx context.Context, coachID uuid.UUID) error {
	args := m.Called(ctx, coachID)
	return args.Error(0)
}
