package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrUnauthenticated    = errors.New("no authenticated coach identity")
	ErrClientNotFound     = errors.New("client not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonTypeNotFound = errors.New("lesson type not found")
	ErrEntryNotFound      = errors.New("owed entry not found")
	ErrInvalidRate        = errors.New("invalid hourly rate")
	ErrInvalidTimeRange   = errors.New("invalid time range")
	ErrInvalidDuration    = errors.New("invalid lesson duration")
	ErrPartialBooking     = errors.New("booking partially persisted")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInvalidRate        = "INVALID_RATE"
	ErrCodeInvalidTimeRange   = "INVALID_TIME_RANGE"
	ErrCodeInvalidDuration    = "INVALID_DURATION"
	ErrCodeClientNotFound     = "CLIENT_NOT_FOUND"
	ErrCodeLessonNotFound     = "LESSON_NOT_FOUND"
	ErrCodeLessonTypeNotFound = "LESSON_TYPE_NOT_FOUND"
	ErrCodeEntryNotFound      = "ENTRY_NOT_FOUND"
	ErrCodePartialBooking     = "PARTIAL_BOOKING"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
)

// Wrap common errors with business context

func WrapUnauthenticated() *BusinessError {
	return NewBusinessError(
		ErrCodeUnauthenticated,
		"request has no authenticated coach identity",
		ErrUnauthenticated,
	)
}

// WrapClientNotFound covers both missing and foreign clients; ownership
// failures are never reported differently from absence.
func WrapClientNotFound(clientID uuid.UUID) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("Client %s not found", clientID),
		ErrClientNotFound,
	)
}

func WrapLessonNotFound(lessonID uuid.UUID) *BusinessError {
	return NewBusinessError(
		ErrCodeLessonNotFound,
		fmt.Sprintf("Lesson %s not found", lessonID),
		ErrLessonNotFound,
	)
}

func WrapLessonTypeNotFound(typeID uuid.UUID) *BusinessError {
	return NewBusinessError(
		ErrCodeLessonTypeNotFound,
		fmt.Sprintf("Lesson type %s not found", typeID),
		ErrLessonTypeNotFound,
	)
}

func WrapEntryNotFound(entryID uuid.UUID) *BusinessError {
	return NewBusinessError(
		ErrCodeEntryNotFound,
		fmt.Sprintf("Owed entry %s not found", entryID),
		ErrEntryNotFound,
	)
}

func WrapInvalidRate(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidRate, message, ErrInvalidRate)
}

func WrapInvalidTimeRange(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidTimeRange, message, ErrInvalidTimeRange)
}

func WrapInvalidDuration(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidDuration, message, ErrInvalidDuration)
}

func WrapValidationFailed(field, message string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidationFailed,
		fmt.Sprintf("%s: %s", field, message),
		nil,
	)
}

// WrapPartialBooking reports the state where the lesson row was persisted
// but its dependent owed entries or invoice were not. Callers must be able
// to detect this to repair the booking.
func WrapPartialBooking(lessonID uuid.UUID, err error) *BusinessError {
	return NewBusinessError(
		ErrCodePartialBooking,
		fmt.Sprintf("Lesson %s was created but its billing records were not", lessonID),
		errors.Join(ErrPartialBooking, err),
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}
