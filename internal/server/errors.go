package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/agrimrv-lite/internal/submission"
)

// flowStatus returns the HTTP status code for a submission flow error
func flowStatus(err error) int {
	switch {
	case errors.Is(err, submission.ErrNothingToSubmit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, submission.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, submission.ErrClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
