package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/planlens/internal/clients/mfapi"
	"github.com/bobmcallan/planlens/internal/models"
	"github.com/bobmcallan/planlens/internal/services/market"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteServiceError maps a service error to a status code and error code.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrPortfolioNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "portfolio_not_found")
	case errors.Is(err, models.ErrInvestmentNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "investment_not_found")
	case errors.Is(err, market.ErrNoCounterpart):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "no_counterpart")
	case errors.Is(err, mfapi.ErrNoData):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "no_nav_data")
	case errors.Is(err, models.ErrInvalid):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_input")
	default:
		var apiErr *mfapi.APIError
		if errors.As(err, &apiErr) {
			WriteErrorWithCode(w, http.StatusBadGateway, err.Error(), "provider_error")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// splitPath returns the path segments after prefix.
func splitPath(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
