package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/logger"
	"github.com/colony/backend/internal/interfaces/http/dto"
	"github.com/colony/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type sampleRequest struct {
	Name  string `json:"name" binding:"required,max=5"`
	Count int    `json:"count"`
}

func newContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Responses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "")
		h.Success(c, map[string]string{"k": "v"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Error)
	})

	t.Run("created", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "")
		h.Created(c, "x")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("no content", func(t *testing.T) {
		c, w := newContext(http.MethodDelete, "")
		h.NoContent(c)
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("error carries request id", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "")
		c.Set(logger.RequestIDContextKey, "req-42")
		h.Error(c, dto.ErrCodeHouseNotFound, "House not found")

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeHouseNotFound, resp.Error.Code)
		assert.Equal(t, "req-42", resp.Error.RequestID)
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "domain error keeps message",
			err:     shared.NewDomainError(shared.CodeCapacityExceeded, "Too many portions"),
			status:  http.StatusUnprocessableEntity,
			code:    dto.ErrCodeCapacityExceeded,
			message: "Too many portions",
		},
		{
			name:    "wrapped domain error",
			err:     fmt.Errorf("update: %w", shared.NewDomainError(shared.CodeAlreadyFormer, "Already removed")),
			status:  http.StatusNotFound,
			code:    dto.ErrCodeAlreadyFormer,
			message: "Already removed",
		},
		{
			name:    "unmapped domain code",
			err:     shared.NewDomainError("SOMETHING_NEW", "odd"),
			status:  http.StatusInternalServerError,
			code:    dto.ErrCodeInternal,
			message: "odd",
		},
		{
			name:    "plain error hides detail",
			err:     errors.New("pq: connection reset"),
			status:  http.StatusInternalServerError,
			code:    dto.ErrCodeInternal,
			message: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "")
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Len(t, c.Errors, 1)
		})
	}

	t.Run("nil is ignored", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "")
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandler_BindJSON(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name   string
		body   string
		ok     bool
		status int
		code   string
	}{
		{name: "valid", body: `{"name":"abc","count":2}`, ok: true},
		{name: "validation failure", body: `{"name":"toolongname"}`, status: http.StatusBadRequest, code: dto.ErrCodeValidation},
		{name: "missing required", body: `{}`, status: http.StatusBadRequest, code: dto.ErrCodeValidation},
		{name: "wrong type", body: `{"name":"abc","count":"two"}`, status: http.StatusBadRequest, code: dto.ErrCodeInvalidJSON},
		{name: "syntax error", body: `{"name":}`, status: http.StatusBadRequest, code: dto.ErrCodeInvalidJSON},
		{name: "empty body", body: ``, status: http.StatusBadRequest, code: dto.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodPost, tt.body)
			var req sampleRequest
			ok := h.BindJSON(c, &req)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "abc", req.Name)
				assert.Equal(t, 2, req.Count)
				return
			}
			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	t.Run("oversized body", func(t *testing.T) {
		c, w := newContext(http.MethodPost, `{"name":"abc","count":123456789}`)
		c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 8)

		var req sampleRequest
		assert.False(t, h.BindJSON(c, &req))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestBaseHandler_PathUUID(t *testing.T) {
	h := &BaseHandler{}

	t.Run("valid", func(t *testing.T) {
		want := uuid.New()
		c, _ := newContext(http.MethodGet, "")
		c.Params = gin.Params{{Key: "id", Value: want.String()}}

		got, ok := h.PathUUID(c, "id")
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("invalid", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "")
		c.Params = gin.Params{{Key: "id", Value: "12"}}

		_, ok := h.PathUUID(c, "id")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "Invalid id format", resp.Error.Message)
	})
}
