package handler

import (
	"context"
	"net/http"
	"time"
)

// ResponseHelper provides common response utilities and context management
type ResponseHelper struct{}

// NewResponseHelper creates a new ResponseHelper instance
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// ContextKey type for context keys to avoid collisions
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
)

// CreateRequestContext creates a context with timeout and optional request ID
func (rh *ResponseHelper) CreateRequestContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)

	if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
	}

	return ctx, cancel
}

// CreateListResponseData creates response data for list operations
func (rh *ResponseHelper) CreateListResponseData(items any, count int) map[string]any {
	return map[string]any{
		"items": items,
		"count": count,
	}
}

// CreateHealthCheckData creates health check response data
func (rh *ResponseHelper) CreateHealthCheckData() map[string]any {
	return map[string]any{
		"timestamp": time.Now().UTC(),
		"service":   "asset-registry-api",
		"status":    "healthy",
	}
}
