package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionObject is the decoded form of a verified session proof. It is
// never persisted; every protected request re-derives it from the cookie.
type SessionObject struct {
	UserID    string     `json:"user_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Issuer    string     `json:"issuer,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// GetUserID returns the proof subject's id string.
func (s *SessionObject) GetUserID() string {
	return s.UserID
}

// GetUserUUID parses the subject id as a uuid.
func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf("user=%s iss=%s iat=%s", s.UserID, s.Issuer, issuedAt)
}

// SessionFromClaims converts verified claims into a session object.
func SessionFromClaims(claims *Claims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrProofInvalid
	}

	session := &SessionObject{
		UserID: claims.UserID(),
		Name:   claims.Name,
		Issuer: claims.RegisteredClaims.Issuer,
	}

	if claims.RegisteredClaims.IssuedAt != nil {
		iat := claims.RegisteredClaims.IssuedAt.Time
		session.IssuedAt = &iat
	}

	if claims.RegisteredClaims.ExpiresAt != nil {
		exp := claims.RegisteredClaims.ExpiresAt.Time
		session.ExpiresAt = &exp
	}

	return session, nil
}
