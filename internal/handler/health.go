package handler

import (
	"database/sql"
	"log"
	"net/http"
)

// HealthHandler provides the service health check endpoint.
type HealthHandler struct {
	DB             *sql.DB
	Logger         *log.Logger
	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db *sql.DB, logger *log.Logger) *HealthHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &HealthHandler{
		DB:             db,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// Handle reports service health, including database reachability.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			h.Logger.Printf("Health check failed: database unreachable: %v", err)
			h.ErrorHandler.SendErrorResponse(w, http.StatusServiceUnavailable, "Database unreachable", "INTERNAL_ERROR", nil)
			return
		}
	}

	healthData := h.ResponseHelper.CreateHealthCheckData()
	h.ErrorHandler.SendSuccessResponse(w, http.StatusOK, "Service is healthy", healthData)
}
