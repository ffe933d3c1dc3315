package handlers

import (
	"errors"
	"net/http"

	"github.com/mkamande/quickride/internal/models"
)

// statusFromErr maps the service error taxonomy onto HTTP status codes.
// Anything unrecognized is treated as an upstream failure.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
