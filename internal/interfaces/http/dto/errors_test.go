package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnknownRole, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeHouseNotFound, http.StatusNotFound},
		{ErrCodeAlreadyFormer, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeHouseInUse, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeCapacityExceeded, http.StatusUnprocessableEntity},
		{ErrCodeIdentityProvisioningFailed, http.StatusBadGateway},
		{ErrCodeProfileWriteFailed, http.StatusBadGateway},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	domainCodes := []string{
		shared.CodeValidation,
		shared.CodeNotFound,
		shared.CodeAlreadyExists,
		shared.CodeConcurrencyConflict,
		shared.CodeInvalidState,
		shared.CodeCapacityExceeded,
		shared.CodeUnknownRole,
		shared.CodeAlreadyFormer,
		shared.CodeHouseNotFound,
		shared.CodeHouseInUse,
		shared.CodeIdentityProvisioningFailed,
		shared.CodeProfileWriteFailed,
		shared.CodeMetadataSyncFailed,
		shared.CodeDuplicateRequest,
	}

	for _, code := range domainCodes {
		t.Run(code, func(t *testing.T) {
			apiCode := NormalizeErrorCode(code)
			assert.Equal(t, "ERR_"+strings.TrimSuffix(code, "_ERROR"), apiCode)
			_, mapped := ErrorCodeHTTPStatus[apiCode]
			assert.True(t, mapped, "no status for %s", apiCode)
		})
	}

	assert.Equal(t, ErrCodeInternal, NormalizeErrorCode("SOMETHING_ELSE"))
}

func TestErrorCodeFormat(t *testing.T) {
	for code := range ErrorCodeHTTPStatus {
		assert.True(t, strings.HasPrefix(code, "ERR_"), code)
		assert.Equal(t, strings.ToUpper(code), code)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "House not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "house_number", Message: "This field is required"},
		{Field: "total_portions", Message: "Must be at least 1"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-1", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
}

func TestResponseJSON(t *testing.T) {
	t.Run("nil data stays null", func(t *testing.T) {
		raw, err := json.Marshal(NewSuccessResponse(nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":null}`, string(raw))
	})

	t.Run("error omits empty request id", func(t *testing.T) {
		raw, err := json.Marshal(NewErrorResponse(ErrCodeBadRequest, "bad"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"data":null,"error":{"code":"ERR_BAD_REQUEST","message":"bad"}}`, string(raw))
	})
}
