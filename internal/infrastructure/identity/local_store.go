// Package identity holds the identity-store adapters used for shadow accounts:
// a local table with bcrypt hashes and a client for the GoTrue admin API.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/colony/backend/internal/domain/residency"
	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/persistence"
	"github.com/colony/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LocalStore implements residency.IdentityStore on the identities table
type LocalStore struct {
	db    *gorm.DB
	clock shared.Clock
	cost  int
}

// LocalOption configures a LocalStore
type LocalOption func(*LocalStore)

// WithBcryptCost overrides bcrypt.DefaultCost
func WithBcryptCost(cost int) LocalOption {
	return func(s *LocalStore) { s.cost = cost }
}

// NewLocalStore creates a store over db
func NewLocalStore(db *gorm.DB, clock shared.Clock, opts ...LocalOption) *LocalStore {
	s := &LocalStore{db: db, clock: clock, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateIdentity stores a bcrypt hash of the password, never the password itself
func (s *LocalStore) CreateIdentity(ctx context.Context, in residency.NewIdentity) (*residency.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, shared.NewValidationError("Email is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	meta, err := models.EncodeIdentityMetadata(in.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	now := s.clock.Now()
	model := &models.IdentityModel{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Metadata:     meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Confirmed {
		model.ConfirmedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		if persistence.IsDuplicateKey(err) {
			return nil, residency.ErrIdentityEmailDuplicate.WithCause(err)
		}
		return nil, err
	}
	return model.ToDomain()
}

// DeleteIdentity removes the row. A missing row is not an error.
func (s *LocalStore) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.IdentityModel{}, "id = ?", id).Error
}

// UpdateIdentityMetadata replaces the metadata document
func (s *LocalStore) UpdateIdentityMetadata(ctx context.Context, id uuid.UUID, metadata residency.IdentityMetadata) error {
	meta, err := models.EncodeIdentityMetadata(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	result := s.db.WithContext(ctx).Model(&models.IdentityModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"metadata": meta, "updated_at": s.clock.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return residency.ErrIdentityNotFound
	}
	return nil
}

// FindIdentityByEmail looks an identity up by its lower-cased email
func (s *LocalStore) FindIdentityByEmail(ctx context.Context, email string) (*residency.Identity, error) {
	var model models.IdentityModel
	err := s.db.WithContext(ctx).
		First(&model, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, residency.ErrIdentityNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// VerifyPassword reports whether password matches the stored hash of email.
// Shadow accounts never sign in; this backs tests and manual checks only.
func (s *LocalStore) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	var model models.IdentityModel
	err := s.db.WithContext(ctx).
		Select("password_hash").
		First(&model, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, residency.ErrIdentityNotFound
		}
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(model.PasswordHash), []byte(password)) == nil, nil
}

var _ residency.IdentityStore = (*LocalStore)(nil)
