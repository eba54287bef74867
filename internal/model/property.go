package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Property is a listing owned by exactly one user. OwnerID is immutable
// after creation.
//
// Invariant: Published is true if and only if Image is non-empty. The
// record is created unpublished with an empty image; the image-attachment
// transition publishes it in the same update.
type Property struct {
	bun.BaseModel `bun:"table:properties,alias:prop"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid" json:"id,omitempty"`
	Title       string     `bun:"title,notnull" json:"title,omitempty"`
	Description string     `bun:"description,notnull" json:"description,omitempty"`
	Rooms       int        `bun:"rooms,notnull" json:"rooms,omitempty"`
	Parking     int        `bun:"parking,notnull" json:"parking,omitempty"`
	Bathrooms   int        `bun:"bathrooms,notnull" json:"bathrooms,omitempty"`
	Street      string     `bun:"street,notnull" json:"street,omitempty"`
	Lat         string     `bun:"lat,notnull" json:"lat,omitempty"`
	Lng         string     `bun:"lng,notnull" json:"lng,omitempty"`
	Image       string     `bun:"image,notnull,default:''" json:"image,omitempty"`
	Published   bool       `bun:"published,notnull,default:false" json:"published,omitempty"`
	OwnerID     uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	CategoryID  int64      `bun:"category_id,notnull" json:"category_id,omitempty"`
	PriceID     int64      `bun:"price_id,notnull" json:"price_id,omitempty"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`

	Owner    *User     `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`
	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Price    *Price    `bun:"rel:belongs-to,join:price_id=id" json:"price,omitempty"`
	Messages []Message `bun:"rel:has-many,join:id=property_id" json:"messages,omitempty"`
}

// IsOwnedBy is the single ownership predicate applied by every mutating
// operation on the listing engine.
func (p *Property) IsOwnedBy(userID uuid.UUID) bool {
	return p.OwnerID == userID
}
