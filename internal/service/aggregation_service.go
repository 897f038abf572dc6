package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/strideapp/coach-billing/internal/domain"
	"github.com/strideapp/coach-billing/internal/repository"
	customError "github.com/strideapp/coach-billing/pkg/errors"
	"github.com/strideapp/coach-billing/pkg/utils"
)

// AggregationService folds a coach's full-year lesson set into the derived
// FinancialSummary. It only reads; each call fetches once, computes once,
// and returns, so the same input always yields an identical summary.
type AggregationService struct {
	lessons repository.LessonRepository
	clients repository.ClientRepository
}

func NewAggregationService(lessons repository.LessonRepository, clients repository.ClientRepository) *AggregationService {
	return &AggregationService{
		lessons: lessons,
		clients: clients,
	}
}

// YearSummary computes the FinancialSummary for one calendar year (UTC).
// Cancelled lessons are excluded entirely; legacy lessons are bridged into
// synthesized participant entries.
func (s *AggregationService) YearSummary(ctx context.Context, coachID uuid.UUID, year int) (*domain.FinancialSummary, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := s.lessons.ListForRange(ctx, coachID, from, to)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	names := s.clientNames(ctx, coachID, rows)

	acc := newYearAccumulator(year)
	for _, row := range rows {
		if row.Lesson.Status == domain.LessonStatusCancelled {
			continue
		}
		for _, entry := range NormalizeLesson(row, names) {
			acc.add(row, entry)
		}
	}

	return acc.summary(), nil
}

// clientNames batch-resolves the display names for every client referenced
// by the year's lessons. Lookup failures degrade to the placeholder name
// instead of aborting the aggregation.
func (s *AggregationService) clientNames(ctx context.Context, coachID uuid.UUID, rows []*domain.LessonWithEntries) map[uuid.UUID]string {
	idSet := make(map[uuid.UUID]struct{})
	for _, row := range rows {
		if row.Lesson.ClientID != nil {
			idSet[*row.Lesson.ClientID] = struct{}{}
		}
		for _, entry := range row.Entries {
			idSet[entry.ClientID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return map[uuid.UUID]string{}
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	clients, err := s.clients.GetByIDs(ctx, coachID, ids)
	if err != nil {
		log.Warn().Err(err).
			Str("coach_id", coachID.String()).
			Msg("client name lookup failed, using placeholder names")
		return map[uuid.UUID]string{}
	}

	names := make(map[uuid.UUID]string, len(clients))
	for _, client := range clients {
		names[client.ID] = client.Name
	}

	return names
}

type clientBucket struct {
	name    string
	lessons int
	hours   decimal.Decimal
	paid    decimal.Decimal
}

type typeBucket struct {
	id      *uuid.UUID
	name    string
	rate    decimal.Decimal
	lessons int
	hours   decimal.Decimal
	paid    decimal.Decimal
}

// yearAccumulator is the per-request fold state. It is created per call and
// threaded through explicitly, so concurrent summaries for different coaches
// or years never share state.
type yearAccumulator struct {
	year         int
	months       [12]domain.MonthlyIncome
	quarters     [4]decimal.Decimal
	clients      map[uuid.UUID]*clientBucket
	types        map[domain.TypeKey]*typeBucket
	seen         map[uuid.UUID]struct{}
	rows         []domain.ExportRow
	totalLessons int
	totalHours   decimal.Decimal
}

func newYearAccumulator(year int) *yearAccumulator {
	acc := &yearAccumulator{
		year:    year,
		clients: make(map[uuid.UUID]*clientBucket),
		types:   make(map[domain.TypeKey]*typeBucket),
		seen:    make(map[uuid.UUID]struct{}),
		rows:    []domain.ExportRow{},
	}
	for i := range acc.months {
		acc.months[i] = domain.MonthlyIncome{
			Month:  i,
			Hours:  decimal.Zero,
			Income: decimal.Zero,
		}
	}
	for i := range acc.quarters {
		acc.quarters[i] = decimal.Zero
	}
	return acc
}

func (acc *yearAccumulator) add(row *domain.LessonWithEntries, entry ParticipantEntry) {
	lesson := row.Lesson
	start := lesson.StartTime.UTC()
	month := int(start.Month()) - 1
	paid := entry.PaymentStatus == domain.PaymentStatusPaid

	acc.months[month].Lessons++
	acc.months[month].Hours = acc.months[month].Hours.Add(entry.Hours)
	if paid {
		acc.months[month].Income = acc.months[month].Income.Add(entry.Amount)
		acc.quarters[utils.QuarterOf(start.Month())-1] = acc.quarters[utils.QuarterOf(start.Month())-1].Add(entry.Amount)
	}

	cb, ok := acc.clients[entry.ClientID]
	if !ok {
		cb = &clientBucket{name: entry.ClientName, hours: decimal.Zero, paid: decimal.Zero}
		acc.clients[entry.ClientID] = cb
	}
	cb.lessons++
	cb.hours = cb.hours.Add(entry.Hours)
	if paid {
		cb.paid = cb.paid.Add(entry.Amount)
	}

	key := domain.TypeKeyFor(lesson.LessonTypeID)
	tb, ok := acc.types[key]
	if !ok {
		tb = &typeBucket{name: domain.UncategorizedLabel, rate: decimal.Zero, hours: decimal.Zero, paid: decimal.Zero}
		if row.LessonType != nil {
			tb.id = lesson.LessonTypeID
			tb.name = row.LessonType.Name
			tb.rate = row.LessonType.HourlyRate
		} else if lesson.LessonTypeID != nil {
			tb.id = lesson.LessonTypeID
		}
		acc.types[key] = tb
	}
	tb.lessons++
	tb.hours = tb.hours.Add(entry.Hours)
	if paid {
		tb.paid = tb.paid.Add(entry.Amount)
	}

	acc.seen[entry.ClientID] = struct{}{}
	acc.totalLessons++
	acc.totalHours = acc.totalHours.Add(entry.Hours)

	amountPaid := decimal.Zero
	if paid {
		amountPaid = entry.Amount
	}
	typeName := domain.UncategorizedLabel
	if row.LessonType != nil {
		typeName = row.LessonType.Name
	}
	acc.rows = append(acc.rows, domain.ExportRow{
		Date:           utils.FormatDate(lesson.StartTime),
		ClientName:     entry.ClientName,
		LessonTypeName: typeName,
		DurationHours:  entry.Hours.Round(2),
		AmountPaid:     amountPaid,
		PaymentStatus:  domain.PaymentStatusLabel(entry.PaymentStatus),
	})
}

func (acc *yearAccumulator) summary() *domain.FinancialSummary {
	clients := make([]domain.ClientBreakdown, 0, len(acc.clients))
	for id, cb := range acc.clients {
		clients = append(clients, domain.ClientBreakdown{
			ClientID:   id,
			ClientName: cb.name,
			Lessons:    cb.lessons,
			Hours:      cb.hours.Round(2),
			TotalPaid:  cb.paid,
		})
	}
	// Descending by paid total; name and id break ties so repeated runs over
	// the same data produce identical output.
	sort.Slice(clients, func(i, j int) bool {
		if !clients[i].TotalPaid.Equal(clients[j].TotalPaid) {
			return clients[i].TotalPaid.GreaterThan(clients[j].TotalPaid)
		}
		if clients[i].ClientName != clients[j].ClientName {
			return clients[i].ClientName < clients[j].ClientName
		}
		return clients[i].ClientID.String() < clients[j].ClientID.String()
	})

	types := make([]domain.TypeBreakdown, 0, len(acc.types))
	for _, tb := range acc.types {
		types = append(types, domain.TypeBreakdown{
			LessonTypeID: tb.id,
			Name:         tb.name,
			HourlyRate:   tb.rate,
			Lessons:      tb.lessons,
			Hours:        tb.hours.Round(2),
			TotalPaid:    tb.paid,
		})
	}
	sort.Slice(types, func(i, j int) bool {
		if !types[i].TotalPaid.Equal(types[j].TotalPaid) {
			return types[i].TotalPaid.GreaterThan(types[j].TotalPaid)
		}
		return types[i].Name < types[j].Name
	})

	monthly := make([]domain.MonthlyIncome, 12)
	copy(monthly, acc.months[:])

	return &domain.FinancialSummary{
		Year:        acc.year,
		Monthly:     monthly,
		Clients:     clients,
		LessonTypes: types,
		Tax:         BuildTaxSummary(acc.year, acc.quarters, acc.totalLessons, acc.totalHours, len(acc.seen)),
		ExportRows:  acc.rows,
	}
}
