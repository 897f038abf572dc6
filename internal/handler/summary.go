package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/strideapp/coach-billing/internal/service"
	customError "github.com/strideapp/coach-billing/pkg/errors"
	"github.com/strideapp/coach-billing/pkg/response"
)

type SummaryHandler struct {
	service *service.AggregationService
}

func NewSummaryHandler(service *service.AggregationService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// GetYearSummary handles GET /api/v1/summary/{year}
func (h *SummaryHandler) GetYearSummary(w http.ResponseWriter, r *http.Request) {
	coachID, ok := coachFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, customError.ErrCodeUnauthenticated, "no authenticated coach identity")
		return
	}

	year, err := parseYear(mux.Vars(r)["year"])
	if err != nil {
		response.BadRequest(w, customError.ErrCodeValidationFailed, err.Error())
		return
	}

	summary, err := h.service.YearSummary(r.Context(), coachID, year)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, summary)
}

// ExportYearCSV handles GET /api/v1/summary/{year}/export
func (h *SummaryHandler) ExportYearCSV(w http.ResponseWriter, r *http.Request) {
	coachID, ok := coachFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, customError.ErrCodeUnauthenticated, "no authenticated coach identity")
		return
	}

	year, err := parseYear(mux.Vars(r)["year"])
	if err != nil {
		response.BadRequest(w, customError.ErrCodeValidationFailed, err.Error())
		return
	}

	summary, err := h.service.YearSummary(r.Context(), coachID, year)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="income-%d.csv"`, year))

	if err := service.WriteExportCSV(w, summary.ExportRows); err != nil {
		log.Error().Err(err).Int("year", year).Msg("writing CSV export")
	}
}

func parseYear(raw string) (int, error) {
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		return 0, fmt.Errorf("year must be a four-digit year")
	}
	return year, nil
}
