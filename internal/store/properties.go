package store

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/vivienda/bienesraices/internal/model"
)

// Properties is the listing repository.
type Properties struct {
	db *bun.DB
}

// NewProperties returns a Properties repository backed by db.
func NewProperties(db *bun.DB) *Properties {
	return &Properties{db: db}
}

// Create persists a new listing in the unpublished, no-image state.
func (r *Properties) Create(ctx context.Context, prop *model.Property) error {
	if prop.ID == uuid.Nil {
		prop.ID = uuid.New()
	}
	prop.Image = ""
	prop.Published = false

	if _, err := r.db.NewInsert().Model(prop).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create property")
	}

	return nil
}

// GetByID returns a listing regardless of publication state. Used by owner
// paths after the access gate; the public path goes through
// GetPublishedByID instead.
func (r *Properties) GetByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	prop := &model.Property{}
	err := r.db.NewSelect().
		Model(prop).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	return prop, r.mapLookupErr(err)
}

// GetPublishedByID returns a published listing with its category and price
// tier. An unpublished listing is indistinguishable from a missing one.
func (r *Properties) GetPublishedByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	prop := &model.Property{}
	err := r.db.NewSelect().
		Model(prop).
		Relation("Category").
		Relation("Price").
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.published = ?", true).
		Limit(1).
		Scan(ctx)

	return prop, r.mapLookupErr(err)
}

// Publish attaches the image and flips the listing to published in a single
// conditional update. The WHERE clause on published is the single-writer
// guard: a concurrent publisher that lost the race sees zero rows updated.
func (r *Properties) Publish(ctx context.Context, id uuid.UUID, image string) error {
	res, err := r.db.NewUpdate().
		Model((*model.Property)(nil)).
		Set("image = ?", image).
		Set("published = ?", true).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.published = ?", false).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to publish property")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New("property is already published", errors.CategoryConflict).
			WithCode(errors.CodeConflict).
			WithTextCode("ALREADY_PUBLISHED")
	}

	return nil
}

// Update persists the structural fields of a listing. Image, publication
// state and ownership are never touched here.
func (r *Properties) Update(ctx context.Context, prop *model.Property) error {
	res, err := r.db.NewUpdate().
		Model(prop).
		Column("title", "description", "rooms", "parking", "bathrooms",
			"street", "lat", "lng", "category_id", "price_id").
		WherePK().
		Exec(ctx)

	return r.mapUpdateErr(res, err, "failed to update property")
}

// SetPublished flips visibility without touching the image.
func (r *Properties) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	res, err := r.db.NewUpdate().
		Model((*model.Property)(nil)).
		Set("published = ?", published).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return r.mapUpdateErr(res, err, "failed to toggle property")
}

// Delete removes the record. Asset cleanup happens in the engine before
// this is called.
func (r *Properties) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*model.Property)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return r.mapUpdateErr(res, err, "failed to delete property")
}

// ListByOwner returns one page of the owner's listings, newest first, with
// relations needed by the dashboard, plus the owner's total count.
func (r *Properties) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Property, int, error) {
	var props []model.Property

	total, err := r.db.NewSelect().
		Model(&props).
		Relation("Category").
		Relation("Price").
		Relation("Messages").
		Where("?TableAlias.owner_id = ?", ownerID).
		Order("prop.created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)

	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CategoryInternal, "failed to list properties")
	}

	return props, total, nil
}

// ListPublished returns published listings, optionally restricted to a
// category, newest first.
func (r *Properties) ListPublished(ctx context.Context, categoryID int64, limit int) ([]model.Property, error) {
	var props []model.Property

	q := r.db.NewSelect().
		Model(&props).
		Relation("Price").
		Where("?TableAlias.published = ?", true).
		Order("prop.created_at DESC")

	if categoryID > 0 {
		q = q.Where("?TableAlias.category_id = ?", categoryID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list published properties")
	}

	return props, nil
}

// SearchPublished matches published listings whose title contains term.
func (r *Properties) SearchPublished(ctx context.Context, term string) ([]model.Property, error) {
	var props []model.Property

	err := r.db.NewSelect().
		Model(&props).
		Relation("Price").
		Where("?TableAlias.published = ?", true).
		Where("?TableAlias.title LIKE ?", "%"+term+"%").
		Order("prop.created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to search properties")
	}

	return props, nil
}

func (r *Properties) mapLookupErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NewRecordNotFound()
	}
	return errors.Wrap(err, errors.CategoryInternal, "property lookup failed")
}

func (r *Properties) mapUpdateErr(res sql.Result, err error, msg string) error {
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, msg)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return NewRecordNotFound()
	}
	return nil
}
