package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/cache"
	"github.com/colony/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

func idempotentRouter(store shared.IdempotencyStore, status *int) (*gin.Engine, *int) {
	return idempotentRouterWithTTL(store, time.Hour, status)
}

func idempotentRouterWithTTL(store shared.IdempotencyStore, ttl time.Duration, status *int) (*gin.Engine, *int) {
	calls := 0
	router := gin.New()
	router.Use(RequestID())
	router.POST("/api/v1/tenants", IdempotencyKey(store, ttl, nil), func(c *gin.Context) {
		calls++
		c.Status(*status)
	})
	return router, &calls
}

func postWithKey(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants", nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	return serve(router, req)
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestIdempotencyKey(t *testing.T) {
	t.Run("replay is rejected", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		t.Cleanup(func() { _ = store.Close() })
		status := http.StatusCreated
		router, calls := idempotentRouter(store, &status)

		assert.Equal(t, http.StatusCreated, postWithKey(router, "k-1").Code)
		w := postWithKey(router, "k-1")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeDuplicateRequest, errorCode(t, w))
		assert.Equal(t, 1, *calls)
	})

	t.Run("failed request frees the key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		t.Cleanup(func() { _ = store.Close() })
		status := http.StatusBadGateway
		router, calls := idempotentRouter(store, &status)

		assert.Equal(t, http.StatusBadGateway, postWithKey(router, "k-2").Code)
		status = http.StatusCreated
		assert.Equal(t, http.StatusCreated, postWithKey(router, "k-2").Code)
		assert.Equal(t, 2, *calls)
	})

	t.Run("no header passes through", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		status := http.StatusCreated
		router, calls := idempotentRouter(store, &status)

		postWithKey(router, "")
		postWithKey(router, "")

		assert.Equal(t, 2, *calls)
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure refuses the request", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, "idem:POST:/api/v1/tenants:k-3", time.Hour).
			Return(false, errors.New("connection refused"))
		status := http.StatusCreated
		router, calls := idempotentRouter(store, &status)

		w := postWithKey(router, "k-3")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeUnavailable, errorCode(t, w))
		assert.Zero(t, *calls)
	})

	t.Run("oversized key", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		status := http.StatusCreated
		router, _ := idempotentRouter(store, &status)

		w := postWithKey(router, strings.Repeat("k", MaxIdempotencyKeyLength+1))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("zero ttl falls back to the default", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, "idem:POST:/api/v1/tenants:k-4", DefaultIdempotencyTTL).
			Return(true, nil).Once()
		store.On("MarkProcessed", mock.Anything, "idem:POST:/api/v1/tenants:k-4", DefaultIdempotencyTTL).
			Return(false, nil).Once()
		status := http.StatusCreated
		router, calls := idempotentRouterWithTTL(store, 0, &status)

		assert.Equal(t, http.StatusCreated, postWithKey(router, "k-4").Code)
		assert.Equal(t, http.StatusConflict, postWithKey(router, "k-4").Code)
		assert.Equal(t, 1, *calls)
		store.AssertExpectations(t)
	})

	t.Run("zero ttl replay on the in-memory store", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		t.Cleanup(func() { _ = store.Close() })
		status := http.StatusCreated
		router, calls := idempotentRouterWithTTL(store, 0, &status)

		assert.Equal(t, http.StatusCreated, postWithKey(router, "k-5").Code)
		assert.Equal(t, http.StatusConflict, postWithKey(router, "k-5").Code)
		assert.Equal(t, 1, *calls)
	})
}
