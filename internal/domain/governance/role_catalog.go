// Package governance owns office-bearer records and the role catalog that
// decides whether a role has one seat or many.
package governance

import (
	"fmt"
	"sort"

	"github.com/colony/backend/internal/domain/shared"
)

// SeatType tells whether a role admits one active holder or many
type SeatType string

const (
	SeatSingle SeatType = "single"
	SeatMulti  SeatType = "multi"
)

// IsValid checks if the seat type is known
func (s SeatType) IsValid() bool {
	return s == SeatSingle || s == SeatMulti
}

// Governance errors
var (
	ErrUnknownRole          = shared.NewDomainError(shared.CodeUnknownRole, "Role is not in the catalog")
	ErrOfficeBearerNotFound = shared.NewDomainError(shared.CodeNotFound, "Office bearer not found")
	ErrAlreadyFormer        = shared.NewDomainError(shared.CodeAlreadyFormer, "Office bearer has already been removed")
	ErrNotSingleSeat        = shared.NewValidationError("Role admits several active holders; list its members instead")
)

// Role is one entry of the role catalog
type Role struct {
	Key    string            `mapstructure:"key" json:"key"`
	Seat   SeatType          `mapstructure:"seat" json:"seat"`
	Order  int               `mapstructure:"order" json:"order"`
	Labels map[string]string `mapstructure:"labels" json:"labels"`
}

// IsSingleSeat reports whether the role admits at most one active holder
func (r Role) IsSingleSeat() bool {
	return r.Seat == SeatSingle
}

// Label returns the display label for lang, falling back to English and then the key
func (r Role) Label(lang string) string {
	if l, ok := r.Labels[lang]; ok && l != "" {
		return l
	}
	if l, ok := r.Labels["en"]; ok && l != "" {
		return l
	}
	return r.Key
}

// RoleCatalog is the versioned, ordered list of governance roles.
// It is configuration; the registry never writes it.
type RoleCatalog struct {
	version string
	roles   []Role
	byKey   map[string]Role
}

// NewRoleCatalog validates roles and returns them ordered by Order, then key
func NewRoleCatalog(version string, roles []Role) (*RoleCatalog, error) {
	if version == "" {
		return nil, shared.NewValidationError("Role catalog version cannot be empty")
	}
	if len(roles) == 0 {
		return nil, shared.NewValidationError("Role catalog must contain at least one role")
	}

	byKey := make(map[string]Role, len(roles))
	ordered := make([]Role, 0, len(roles))
	for _, r := range roles {
		if r.Key == "" {
			return nil, shared.NewValidationError("Role key cannot be empty")
		}
		if !r.Seat.IsValid() {
			return nil, shared.NewValidationError(fmt.Sprintf("Role %q has invalid seat type %q", r.Key, r.Seat))
		}
		if _, dup := byKey[r.Key]; dup {
			return nil, shared.NewValidationError(fmt.Sprintf("Role %q is listed twice", r.Key))
		}
		byKey[r.Key] = r
		ordered = append(ordered, r)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].Key < ordered[j].Key
	})

	return &RoleCatalog{version: version, roles: ordered, byKey: byKey}, nil
}

// Version returns the catalog version
func (c *RoleCatalog) Version() string {
	return c.version
}

// Roles returns the roles in catalog order
func (c *RoleCatalog) Roles() []Role {
	out := make([]Role, len(c.roles))
	copy(out, c.roles)
	return out
}

// Lookup finds a role by key
func (c *RoleCatalog) Lookup(key string) (Role, error) {
	r, ok := c.byKey[key]
	if !ok {
		return Role{}, ErrUnknownRole.WithMessage(fmt.Sprintf("Unknown role %q", key))
	}
	return r, nil
}

// Rank returns the position of key in catalog order, or len(roles) when unknown
func (c *RoleCatalog) Rank(key string) int {
	for i, r := range c.roles {
		if r.Key == key {
			return i
		}
	}
	return len(c.roles)
}
