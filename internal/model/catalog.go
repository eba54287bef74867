package model

import "github.com/uptrace/bun"

// Category is a fixed listing category (house, apartment, ...). Rows are
// seeded by migration and referenced by properties.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name string `bun:"name,notnull" json:"name,omitempty"`
}

// Price is a fixed price tier, seeded by migration.
type Price struct {
	bun.BaseModel `bun:"table:prices,alias:prc"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name string `bun:"name,notnull" json:"name,omitempty"`
}
