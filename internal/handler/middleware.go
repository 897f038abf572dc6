package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	customError "github.com/strideapp/coach-billing/pkg/errors"
	"github.com/strideapp/coach-billing/pkg/response"
)

type contextKey string

const coachIDKey contextKey = "coach_id"

// AuthMiddleware resolves the caller identity placed on the request by the
// upstream auth gateway (X-Coach-ID). It runs before any other check; a
// missing or malformed identity is rejected as unauthenticated.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Coach-ID")
		if raw == "" {
			response.Unauthorized(w, customError.ErrCodeUnauthenticated, "no authenticated coach identity")
			return
		}

		coachID, err := uuid.Parse(raw)
		if err != nil {
			response.Unauthorized(w, customError.ErrCodeUnauthenticated, "no authenticated coach identity")
			return
		}

		ctx := context.WithValue(r.Context(), coachIDKey, coachID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func coachFromContext(ctx context.Context) (uuid.UUID, bool) {
	coachID, ok := ctx.Value(coachIDKey).(uuid.UUID)
	return coachID, ok
}
