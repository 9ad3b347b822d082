// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/stocktake/pkg/httpx"
	inventorydomain "github.com/ghuser/stocktake/services/inventory/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, StatusFor(err), err.Error())
}

// WriteSafeError is WriteError with 5xx messages hidden in production.
func WriteSafeError(w http.ResponseWriter, err error, isProduction bool) {
	status := StatusFor(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, isProduction))
}

// StatusFor returns the HTTP status code for err.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, inventorydomain.ErrItemNotFound),
		errors.Is(err, inventorydomain.ErrCategoryNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, inventorydomain.ErrCategoryAlreadyExists):
		return http.StatusConflict // 409
	case errors.Is(err, inventorydomain.ErrInvalidItemName),
		errors.Is(err, inventorydomain.ErrInvalidCategoryName),
		errors.Is(err, inventorydomain.ErrInvalidReassignTarget):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}
