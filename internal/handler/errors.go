package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"asset-registry-api/internal/identity"
	apperrors "asset-registry-api/pkg/errors"
)

// ErrorResponse structure for consistent JSON error responses
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// SuccessResponse structure for consistent JSON success responses
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorHandler provides centralized error handling functionality for handlers
type ErrorHandler struct {
	Logger *log.Logger
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(logger *log.Logger) *ErrorHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorHandler{Logger: logger}
}

// SendErrorResponse sends a structured error response
func (e *ErrorHandler) SendErrorResponse(w http.ResponseWriter, statusCode int, message, code string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		e.Logger.Printf("Failed to encode error response: %v", err)
	}
}

// SendSuccessResponse sends a structured success response
func (e *ErrorHandler) SendSuccessResponse(w http.ResponseWriter, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := SuccessResponse{
		Message: message,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		e.Logger.Printf("Failed to encode success response: %v", err)
	}
}

// HandleRepositoryError maps a persistence-layer error to its HTTP
// response through the application error envelope.
func (e *ErrorHandler) HandleRepositoryError(w http.ResponseWriter, err error, operation string) {
	e.Logger.Printf("Repository error during %s: %v", operation, err)

	appErr := apperrors.FromError(err)
	e.SendErrorResponse(w, appErr.GetHTTPStatus(), appErr.Message, string(appErr.Code), appErr.Details)
}

// HandleValidationErrors handles validation errors and sends appropriate response
func (e *ErrorHandler) HandleValidationErrors(w http.ResponseWriter, validationErrors map[string]string) {
	if len(validationErrors) > 0 {
		e.SendErrorResponse(w, http.StatusBadRequest, "Validation failed", string(apperrors.ErrorCodeValidation), validationErrors)
	}
}

// HandleJSONDecodeError handles JSON decoding errors
func (e *ErrorHandler) HandleJSONDecodeError(w http.ResponseWriter, err error) {
	e.Logger.Printf("JSON decode error: %v", err)
	e.SendErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", string(apperrors.ErrorCodeInvalidJSON), nil)
}

// ParseIdentifier parses and validates an identifier from its string
// form, answering the request itself when the string is malformed.
func (e *ErrorHandler) ParseIdentifier(w http.ResponseWriter, idStr string) (uuid.UUID, bool) {
	if idStr == "" {
		e.SendErrorResponse(w, http.StatusBadRequest, "ID is required", string(apperrors.ErrorCodeMalformedIdentifier), nil)
		return uuid.Nil, false
	}

	id, err := identity.Parse(idStr)
	if err != nil {
		e.Logger.Printf("Identifier parse error: %v", err)
		e.SendErrorResponse(w, http.StatusBadRequest, "Malformed identifier", string(apperrors.ErrorCodeMalformedIdentifier), nil)
		return uuid.Nil, false
	}

	return id, true
}
