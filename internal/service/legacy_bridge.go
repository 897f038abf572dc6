package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/strideapp/coach-billing/internal/domain"
	"github.com/strideapp/coach-billing/pkg/utils"
)

// UnknownClientName is the placeholder used when a client reference cannot
// be resolved. A missing client degrades that one entry, never the whole
// aggregation.
const UnknownClientName = "Unknown Client"

// ParticipantEntry is the uniform per-participant view the aggregation
// engine folds over. Modern lessons contribute one per owed entry; legacy
// single-client lessons are bridged into exactly one synthesized entry.
type ParticipantEntry struct {
	ClientID      uuid.UUID
	ClientName    string
	Amount        decimal.Decimal
	PaymentStatus string
	Hours         decimal.Decimal
}

// NormalizeLesson bridges both data shapes into participant entries so the
// fold never branches on schema version.
//
// Modern rows: credited hours are the lesson duration divided evenly across
// participants. That time split is computed here, independently of the money
// split done at booking; the two only coincide because every participant
// shares one rate.
//
// Legacy rows (no entries, direct client reference): amount is recomputed
// from the lesson's own rate snapshot, and the entry counts as paid exactly
// when the lesson is completed.
func NormalizeLesson(row *domain.LessonWithEntries, clientNames map[uuid.UUID]string) []ParticipantEntry {
	lesson := row.Lesson
	hours := utils.DurationHours(lesson.StartTime, lesson.EndTime)

	if len(row.Entries) == 0 {
		if lesson.ClientID == nil {
			// Partially booked lesson with no billing records; nothing to credit.
			return nil
		}
		return []ParticipantEntry{synthesizeLegacyEntry(lesson, hours, clientNames)}
	}

	share := hours.Div(decimal.NewFromInt(int64(len(row.Entries))))

	entries := make([]ParticipantEntry, 0, len(row.Entries))
	for _, entry := range row.Entries {
		entries = append(entries, ParticipantEntry{
			ClientID:      entry.ClientID,
			ClientName:    clientName(entry.ClientID, clientNames),
			Amount:        entry.AmountOwed,
			PaymentStatus: entry.PaymentStatus,
			Hours:         share,
		})
	}

	return entries
}

func synthesizeLegacyEntry(lesson *domain.Lesson, hours decimal.Decimal, clientNames map[uuid.UUID]string) ParticipantEntry {
	status := domain.PaymentStatusPending
	if lesson.Status == domain.LessonStatusCompleted {
		status = domain.PaymentStatusPaid
	}

	return ParticipantEntry{
		ClientID:      *lesson.ClientID,
		ClientName:    clientName(*lesson.ClientID, clientNames),
		Amount:        utils.LessonTotal(hours, lesson.RateAtBooking),
		PaymentStatus: status,
		Hours:         hours,
	}
}

func clientName(id uuid.UUID, names map[uuid.UUID]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return UnknownClientName
}
