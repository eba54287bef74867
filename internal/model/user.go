package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is an account holder. Password is the bcrypt hash and must never
// leave the store layer; external reads go through the password-stripped
// projection (store.Users.GetPublicByID).
//
// Token is a single-use opaque value that backs exactly one pending action
// at a time: email confirmation after registration, or a password reset.
// Issuing a new token overwrites any stale one.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid" json:"id,omitempty"`
	Name      string     `bun:"name,notnull" json:"name,omitempty"`
	Email     string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone     string     `bun:"phone_number" json:"phone_number,omitempty"`
	Password  string     `bun:"password_hash" json:"-"`
	Token     *string    `bun:"token" json:"-"`
	Confirmed bool       `bun:"confirmed,notnull,default:false" json:"confirmed,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasPendingToken reports whether the user has an outstanding single-use
// token (confirmation or reset).
func (u *User) HasPendingToken() bool {
	return u.Token != nil && *u.Token != ""
}
