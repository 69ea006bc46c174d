package handlers

import (
	"errors"
	"net/http"

	"namidia/internal/cache"
	apperrors "namidia/internal/errors"
	"namidia/internal/service"
	"namidia/internal/supabase"
)

type Handlers struct {
	services     *service.Services
	sb           *supabase.Client
	valkeyClient *cache.ValkeyClient
}

func NewHandlers(services *service.Services, sb *supabase.Client, valkeyClient *cache.ValkeyClient) *Handlers {
	return &Handlers{
		services:     services,
		sb:           sb,
		valkeyClient: valkeyClient,
	}
}

// statusForError maps service errors onto HTTP status codes. Anything
// unknown is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrCouponNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrStoreClosed),
		errors.Is(err, apperrors.ErrAlcoholWindow),
		errors.Is(err, apperrors.ErrOutOfStock),
		errors.Is(err, apperrors.ErrProductInactive),
		errors.Is(err, apperrors.ErrEmptyOrder),
		errors.Is(err, apperrors.ErrCouponUsed),
		errors.Is(err, apperrors.ErrEventInactive):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
