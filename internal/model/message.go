package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Message is an immutable inquiry from a sender to a listing. There is no
// update or delete path; only the listing owner may enumerate them.
type Message struct {
	bun.BaseModel `bun:"table:messages,alias:msg"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid" json:"id,omitempty"`
	Body       string     `bun:"body,notnull" json:"body,omitempty"`
	PropertyID uuid.UUID  `bun:"property_id,notnull,type:uuid" json:"property_id,omitempty"`
	SenderID   uuid.UUID  `bun:"sender_id,notnull,type:uuid" json:"sender_id,omitempty"`
	CreatedAt  *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`

	Sender *User `bun:"rel:belongs-to,join:sender_id=id" json:"sender,omitempty"`
}
