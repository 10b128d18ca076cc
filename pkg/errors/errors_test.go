package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"asset-registry-api/internal/identity"
	"asset-registry-api/internal/repository"
)

func TestFromError_Mapping(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantCode   ErrorCode
		wantStatus int
	}{
		{
			name:       "not found",
			err:        fmt.Errorf("%w: provider %s", repository.ErrNotFound, id),
			wantCode:   ErrorCodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "already identified",
			err:        fmt.Errorf("%w: provider %s", repository.ErrAlreadyIdentified, id),
			wantCode:   ErrorCodeAlreadyIdentified,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid attribute",
			err:        fmt.Errorf("%w: %q", repository.ErrInvalidAttribute, "password"),
			wantCode:   ErrorCodeInvalidAttribute,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed identifier",
			err:        fmt.Errorf("%w: %q", identity.ErrMalformedIdentifier, "nope"),
			wantCode:   ErrorCodeMalformedIdentifier,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "dangling reference",
			err:        &repository.DanglingReferenceError{Kind: "equipment", ID: id},
			wantCode:   ErrorCodeDanglingReference,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "timeout",
			err:        fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantCode:   ErrorCodeTimeout,
			wantStatus: http.StatusRequestTimeout,
		},
		{
			name:       "persistence",
			err:        &repository.PersistenceError{Op: "failed to create provider", Err: stderrors.New("disk full")},
			wantCode:   ErrorCodePersistence,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unknown",
			err:        stderrors.New("surprise"),
			wantCode:   ErrorCodeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromError(tt.err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.GetHTTPStatus())
			// The original error stays reachable through the envelope.
			assert.True(t, stderrors.Is(appErr, tt.err) || stderrors.Is(appErr.Cause, tt.err))
		})
	}
}

func TestFromError_PassesThroughAppError(t *testing.T) {
	original := New(ErrorCodeBadRequest, "bad input")

	mapped := FromError(fmt.Errorf("wrapped: %w", original))

	assert.Same(t, original, mapped)
}

func TestValidationError(t *testing.T) {
	appErr := ValidationError(map[string]string{"name": "name is required"})

	assert.Equal(t, ErrorCodeValidation, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.GetHTTPStatus())
	assert.Equal(t, "name is required", appErr.Details["name"])
}
