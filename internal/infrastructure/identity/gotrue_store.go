package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/colony/backend/internal/domain/residency"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultGoTrueTimeout = 10 * time.Second
	// maxGoTrueResponseSize bounds how much of a response body is read
	maxGoTrueResponseSize = 1 << 20
)

// Configuration errors
var (
	ErrGoTrueMissingURL = errors.New("gotrue: base URL is required")
	ErrGoTrueMissingKey = errors.New("gotrue: service key is required")
)

// GoTrueConfig configures the GoTrue admin client
type GoTrueConfig struct {
	BaseURL    string // e.g. https://project.supabase.co/auth/v1
	ServiceKey string // service-role key, sent as bearer token and apikey
	Timeout    time.Duration
}

// Validate checks the required fields
func (c GoTrueConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrGoTrueMissingURL
	}
	if strings.TrimSpace(c.ServiceKey) == "" {
		return ErrGoTrueMissingKey
	}
	return nil
}

// GoTrueStore implements residency.IdentityStore against the GoTrue admin API
type GoTrueStore struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewGoTrueStore creates a client. Outgoing requests carry trace context.
func NewGoTrueStore(cfg GoTrueConfig) (*GoTrueStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGoTrueTimeout
	}
	return &GoTrueStore{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// CreateIdentity calls POST /admin/users with email_confirm so no mail is sent
func (s *GoTrueStore) CreateIdentity(ctx context.Context, in residency.NewIdentity) (*residency.Identity, error) {
	body := gotrueCreateUserRequest{
		Email:        in.Email,
		Password:     in.Password,
		EmailConfirm: in.Confirmed,
		UserMetadata: in.Metadata,
	}

	var user gotrueUser
	status, err := s.do(ctx, http.MethodPost, "/admin/users", body, &user)
	if err != nil {
		if status == http.StatusUnprocessableEntity || status == http.StatusConflict {
			return nil, residency.ErrIdentityEmailDuplicate.WithCause(err)
		}
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, errors.New("gotrue: created user has no id")
	}
	return user.toDomain(), nil
}

// DeleteIdentity calls DELETE /admin/users/{id}; 404 counts as deleted
func (s *GoTrueStore) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	status, err := s.do(ctx, http.MethodDelete, "/admin/users/"+id.String(), nil, nil)
	if status == http.StatusNotFound {
		return nil
	}
	return err
}

// UpdateIdentityMetadata calls PUT /admin/users/{id}
func (s *GoTrueStore) UpdateIdentityMetadata(ctx context.Context, id uuid.UUID, metadata residency.IdentityMetadata) error {
	status, err := s.do(ctx, http.MethodPut, "/admin/users/"+id.String(), gotrueUpdateUserRequest{UserMetadata: metadata}, nil)
	if status == http.StatusNotFound {
		return residency.ErrIdentityNotFound.WithCause(err)
	}
	return err
}

// FindIdentityByEmail searches the admin user list and keeps the exact match
func (s *GoTrueStore) FindIdentityByEmail(ctx context.Context, email string) (*residency.Identity, error) {
	q := url.Values{}
	q.Set("filter", email)
	q.Set("per_page", "50")

	var list gotrueUserList
	if _, err := s.do(ctx, http.MethodGet, "/admin/users?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	for _, u := range list.Users {
		if strings.EqualFold(u.Email, email) {
			return u.toDomain(), nil
		}
	}
	return nil, residency.ErrIdentityNotFound
}

// do sends a JSON request and decodes a 2xx body into out. The status code is
// returned alongside any error so callers can classify it.
func (s *GoTrueStore) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("gotrue: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("gotrue: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("gotrue: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGoTrueResponseSize))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("gotrue: failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr gotrueError
		_ = json.Unmarshal(body, &apiErr)
		msg := apiErr.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return resp.StatusCode, fmt.Errorf("gotrue: %s %s: HTTP %d: %s", method, path, resp.StatusCode, msg)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("gotrue: failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

var _ residency.IdentityStore = (*GoTrueStore)(nil)
