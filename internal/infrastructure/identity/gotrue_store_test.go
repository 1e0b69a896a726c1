package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/colony/backend/internal/domain/residency"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceKey = "service-role-key"

func newGoTrue(t *testing.T, handler http.HandlerFunc) *GoTrueStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewGoTrueStore(GoTrueConfig{BaseURL: srv.URL + "/", ServiceKey: serviceKey})
	require.NoError(t, err)
	return store
}

func TestGoTrueConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, GoTrueConfig{ServiceKey: "k"}.Validate(), ErrGoTrueMissingURL)
	assert.ErrorIs(t, GoTrueConfig{BaseURL: "http://x"}.Validate(), ErrGoTrueMissingKey)
	assert.NoError(t, GoTrueConfig{BaseURL: "http://x", ServiceKey: "k"}.Validate())
}

func TestGoTrueStore_CreateIdentity(t *testing.T) {
	id := uuid.New()
	store := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer "+serviceKey, r.Header.Get("Authorization"))
		assert.Equal(t, serviceKey, r.Header.Get("apikey"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tenant@example.local", body["email"])
		assert.Equal(t, true, body["email_confirm"])
		meta := body["user_metadata"].(map[string]any)
		assert.Equal(t, "Priya", meta["name"])
		assert.Equal(t, true, meta["is_shadow_account"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + id.String() + `","email":"tenant@example.local",
			"email_confirmed_at":"2026-04-02T11:00:00Z","created_at":"2026-04-02T11:00:00Z",
			"user_metadata":{"name":"Priya","phone_number":"9876543210","is_shadow_account":true}}`))
	})

	got, err := store.CreateIdentity(context.Background(), shadowIdentity("tenant@example.local"))
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.True(t, got.Confirmed)
	assert.Equal(t, "9876543210", got.Metadata.PhoneNumber)
}

func TestGoTrueStore_CreateIdentity_Errors(t *testing.T) {
	t.Run("email taken", func(t *testing.T) {
		store := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":422,"msg":"A user with this email address has already been registered"}`))
		})
		_, err := store.CreateIdentity(context.Background(), shadowIdentity("x@example.local"))
		assert.ErrorIs(t, err, residency.ErrIdentityEmailDuplicate)
		assert.ErrorContains(t, err, "already been registered")
	})

	t.Run("server error", func(t *testing.T) {
		store := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := store.CreateIdentity(context.Background(), shadowIdentity("x@example.local"))
		assert.ErrorContains(t, err, "HTTP 500")
		assert.NotErrorIs(t, err, residency.ErrIdentityEmailDuplicate)
	})

	t.Run("unreachable", func(t *testing.T) {
		store, err := NewGoTrueStore(GoTrueConfig{BaseURL: "http://127.0.0.1:1", ServiceKey: serviceKey})
		require.NoError(t, err)
		_, err = store.CreateIdentity(context.Background(), shadowIdentity("x@example.local"))
		assert.Error(t, err)
	})
}

func TestGoTrueStore_DeleteIdentity(t *testing.T) {
	id := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		store := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/admin/users/"+id.String(), r.URL.Path)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		})
		assert.NoError(t, store.DeleteIdentity(context.Background(), id))
	})

	t.Run("already gone", func(t *testing.T) {
		store := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"msg":"User not found"}`))
		})
		assert.NoError(t, store.DeleteIdentity(context.Background(), id))
	})

	t.Run("failure", func(t *testing.T) {
		store := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		assert.ErrorContains(t, store.DeleteIdentity(context.Background(), id), "HTTP 503")
	})
}

func TestGoTrueStore_UpdateIdentityMetadata(t *testing.T) {
	id := uuid.New()

	store := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		if r.URL.Path != "/admin/users/"+id.String() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Priya S", body["user_metadata"]["name"])
		_, _ = w.Write([]byte(`{"id":"` + id.String() + `"}`))
	})

	meta := residency.IdentityMetadata{FullName: "Priya S", PhoneNumber: "1", IsShadowAccount: true}
	require.NoError(t, store.UpdateIdentityMetadata(context.Background(), id, meta))

	err := store.UpdateIdentityMetadata(context.Background(), uuid.New(), meta)
	assert.ErrorIs(t, err, residency.ErrIdentityNotFound)
}

func TestGoTrueStore_FindIdentityByEmail(t *testing.T) {
	id := uuid.New()
	store := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/admin/users", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"users":[
			{"id":"` + uuid.NewString() + `","email":"tenant@example.local.other"},
			{"id":"` + id.String() + `","email":"tenant@example.local"}]}`))
	})

	got, err := store.FindIdentityByEmail(context.Background(), "TENANT@example.local")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = store.FindIdentityByEmail(context.Background(), "nobody@example.local")
	assert.ErrorIs(t, err, residency.ErrIdentityNotFound)
}
