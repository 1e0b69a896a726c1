package residency

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"
	"unicode"

	"github.com/colony/backend/internal/domain/shared"
)

// DefaultShadowEmailDomain is used when no domain is configured
const DefaultShadowEmailDomain = "siddharthacolony.local"

const minPasswordLength = 8

// ShadowCredentials are the synthesized login details of a shadow identity.
// The password only satisfies the identity store; it is never shown or returned.
type ShadowCredentials struct {
	Email    string
	Password string
}

// String hides the password
func (c ShadowCredentials) String() string {
	return fmt.Sprintf("ShadowCredentials{Email:%s}", c.Email)
}

// CredentialSynthesizer derives shadow credentials from a phone number
type CredentialSynthesizer struct {
	domain string
	clock  shared.Clock
	random io.Reader
}

// NewCredentialSynthesizer creates a synthesizer. random defaults to crypto/rand.
func NewCredentialSynthesizer(domain string, clock shared.Clock, random io.Reader) *CredentialSynthesizer {
	if domain == "" {
		domain = DefaultShadowEmailDomain
	}
	if random == nil {
		random = rand.Reader
	}
	return &CredentialSynthesizer{domain: domain, clock: clock, random: random}
}

// Synthesize returns credentials of the form
//
//	email:    tenant_<digits>_<unix millis><6 hex>@<domain>
//	password: Ten@<digits>!<6 random digits>
func (s *CredentialSynthesizer) Synthesize(phoneNumber string) (ShadowCredentials, error) {
	digits := DigitsOnly(phoneNumber)
	if digits == "" {
		return ShadowCredentials{}, shared.NewValidationError("Phone number must contain digits")
	}

	token := make([]byte, 3)
	if _, err := io.ReadFull(s.random, token); err != nil {
		return ShadowCredentials{}, fmt.Errorf("read uniqueness token: %w", err)
	}
	suffix, err := rand.Int(s.random, big.NewInt(1_000_000))
	if err != nil {
		return ShadowCredentials{}, fmt.Errorf("read password suffix: %w", err)
	}

	creds := ShadowCredentials{
		Email:    fmt.Sprintf("tenant_%s_%d%s@%s", digits, s.clock.Now().UnixMilli(), hex.EncodeToString(token), s.domain),
		Password: fmt.Sprintf("Ten@%s!%06d", digits, suffix.Int64()),
	}
	if !IsStrongPassword(creds.Password) {
		return ShadowCredentials{}, shared.NewValidationError("Synthesized password does not meet strength requirements")
	}
	return creds, nil
}

// DigitsOnly strips everything but ASCII digits
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsStrongPassword checks length and the presence of upper, lower, digit and symbol classes
func IsStrongPassword(p string) bool {
	if len(p) < minPasswordLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
