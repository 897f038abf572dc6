package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/strideapp/coach-billing/internal/domain"
	"github.com/strideapp/coach-billing/internal/service"
	customError "github.com/strideapp/coach-billing/pkg/errors"
	"github.com/strideapp/coach-billing/pkg/response"
)

type BookingHandler struct {
	service   *service.BookingService
	validator *validator.Validate
}

func NewBookingHandler(service *service.BookingService) *BookingHandler {
	return &BookingHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	coachID, ok := coachFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, customError.ErrCodeUnauthenticated, "no authenticated coach identity")
		return
	}

	var request domain.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidationFailed, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.ErrCodeValidationFailed, err.Error())
		return
	}

	result, err := h.service.CreateBooking(r.Context(), coachID, &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, result)
}

// CompleteLesson handles POST /api/v1/lessons/{lessonId}/complete
func (h *BookingHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CompleteLesson)
}

// CancelLesson handles POST /api/v1/lessons/{lessonId}/cancel
func (h *BookingHandler) CancelLesson(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CancelLesson)
}

// MarkEntryPaid handles POST /api/v1/entries/{entryId}/pay
func (h *BookingHandler) MarkEntryPaid(w http.ResponseWriter, r *http.Request) {
	coachID, ok := coachFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, customError.ErrCodeUnauthenticated, "no authenticated coach identity")
		return
	}

	entryID, err := uuid.Parse(mux.Vars(r)["entryId"])
	if err != nil {
		response.BadRequest(w, customError.ErrCodeValidationFailed, "entryId must be a UUID")
		return
	}

	if err := h.service.MarkEntryPaid(r.Context(), coachID, entryID); err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, map[string]string{"entry_id": entryID.String(), "payment_status": domain.PaymentStatusPaid})
}

func (h *BookingHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, coachID, lessonID uuid.UUID) (*domain.Lesson, error),
) {
	coachID, ok := coachFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, customError.ErrCodeUnauthenticated, "no authenticated coach identity")
		return
	}

	lessonID, err := uuid.Parse(mux.Vars(r)["lessonId"])
	if err != nil {
		response.BadRequest(w, customError.ErrCodeValidationFailed, "lessonId must be a UUID")
		return
	}

	lesson, err := apply(r.Context(), coachID, lessonID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, lesson)
}

// writeBusinessError maps a service error to an HTTP response. Persistence
// failures are logged in full and surfaced generically.
func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		log.Error().Err(err).Msg("unexpected error")
		response.InternalServerError(w, customError.ErrCodeDatabaseError, "internal error")
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeUnauthenticated:
		response.Unauthorized(w, businessErr.Code, businessErr.Message)
	case customError.ErrCodeClientNotFound,
		customError.ErrCodeLessonNotFound,
		customError.ErrCodeLessonTypeNotFound,
		customError.ErrCodeEntryNotFound:
		response.NotFound(w, businessErr.Code, businessErr.Message)
	case customError.ErrCodeInvalidRate,
		customError.ErrCodeInvalidTimeRange,
		customError.ErrCodeInvalidDuration,
		customError.ErrCodeValidationFailed:
		response.BadRequest(w, businessErr.Code, businessErr.Message)
	case customError.ErrCodePartialBooking:
		// The lesson exists without its billing records; callers need the
		// code and lesson reference to repair the state.
		log.Error().Err(businessErr).Msg("partial booking")
		response.Error(w, http.StatusInternalServerError, businessErr.Code, businessErr.Message)
	default:
		log.Error().Err(businessErr).Msg("persistence failure")
		response.InternalServerError(w, businessErr.Code, "operation failed")
	}
}
