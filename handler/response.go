package handler

import (
	"encoding/json"
	"net/http"

	"shorter/store"
	"shorter/utils"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SendJSONError sends a JSON error response
func SendJSONError(w http.ResponseWriter, statusCode int, err error, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   err.Error(),
		Message: message,
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.Error().Err(encodeErr).Msg("Failed to encode error response")
	}
}

// SendJSONSuccess sends a JSON success response
func SendJSONSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode success response")
	}
}

// statusFromError maps store and validation errors to HTTP status codes.
// Anything unrecognized is a storage fault and surfaces as a 500.
func statusFromError(err error) int {
	switch err {
	case utils.ErrEmptyURL, utils.ErrInvalidURL, utils.ErrInvalidScheme,
		utils.ErrEmptyHost, utils.ErrLocalhostNotAllowed,
		utils.ErrPrivateIPNotAllowed, utils.ErrInvalidEmail:
		return http.StatusBadRequest
	case store.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
