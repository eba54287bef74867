package store

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/vivienda/bienesraices/internal/model"
)

// Messages is the append-only inquiry repository. There is deliberately no
// update or delete method.
type Messages struct {
	db *bun.DB
}

// NewMessages returns a Messages repository backed by db.
func NewMessages(db *bun.DB) *Messages {
	return &Messages{db: db}
}

// Create appends a message.
func (r *Messages) Create(ctx context.Context, msg *model.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(msg).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create message")
	}

	return nil
}

// ListByProperty returns every message for a listing, oldest first, with the
// sender attached through the password-stripped projection.
func (r *Messages) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]model.Message, error) {
	var msgs []model.Message

	err := r.db.NewSelect().
		Model(&msgs).
		Relation("Sender", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.ExcludeColumn("password_hash", "token")
		}).
		Where("?TableAlias.property_id = ?", propertyID).
		Order("msg.created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list messages")
	}

	return msgs, nil
}
