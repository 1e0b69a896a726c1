package identity

import (
	"time"

	"github.com/colony/backend/internal/domain/residency"
	"github.com/google/uuid"
)

type gotrueCreateUserRequest struct {
	Email        string                     `json:"email"`
	Password     string                     `json:"password"`
	EmailConfirm bool                       `json:"email_confirm"`
	UserMetadata residency.IdentityMetadata `json:"user_metadata"`
}

type gotrueUpdateUserRequest struct {
	UserMetadata residency.IdentityMetadata `json:"user_metadata"`
}

type gotrueUser struct {
	ID               uuid.UUID                  `json:"id"`
	Email            string                     `json:"email"`
	EmailConfirmedAt *time.Time                 `json:"email_confirmed_at"`
	UserMetadata     residency.IdentityMetadata `json:"user_metadata"`
	CreatedAt        time.Time                  `json:"created_at"`
}

func (u gotrueUser) toDomain() *residency.Identity {
	return &residency.Identity{
		ID:        u.ID,
		Email:     u.Email,
		Confirmed: u.EmailConfirmedAt != nil,
		Metadata:  u.UserMetadata,
		CreatedAt: u.CreatedAt,
	}
}

type gotrueUserList struct {
	Users []gotrueUser `json:"users"`
}

// gotrueError covers the error shapes returned by different GoTrue versions
type gotrueError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return ""
}
