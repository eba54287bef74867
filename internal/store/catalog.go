package store

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/vivienda/bienesraices/internal/model"
)

// Catalog serves the fixed category and price-tier rows seeded by
// migration.
type Catalog struct {
	db *bun.DB
}

// NewCatalog returns a Catalog repository backed by db.
func NewCatalog(db *bun.DB) *Catalog {
	return &Catalog{db: db}
}

// Categories returns every listing category.
func (r *Catalog) Categories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := r.db.NewSelect().Model(&cats).Order("cat.id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list categories")
	}
	return cats, nil
}

// Category returns a single category by id.
func (r *Catalog) Category(ctx context.Context, id int64) (*model.Category, error) {
	cat := &model.Category{}
	err := r.db.NewSelect().
		Model(cat).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if IsRecordNotFound(err) {
			return nil, NewRecordNotFound()
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "category lookup failed")
	}

	return cat, nil
}

// Prices returns every price tier.
func (r *Catalog) Prices(ctx context.Context) ([]model.Price, error) {
	var prices []model.Price
	if err := r.db.NewSelect().Model(&prices).Order("prc.id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list prices")
	}
	return prices, nil
}

// HasCategory reports whether a category id exists. Used by listing form
// validation.
func (r *Catalog) HasCategory(ctx context.Context, id int64) (bool, error) {
	return r.db.NewSelect().Model((*model.Category)(nil)).Where("?TableAlias.id = ?", id).Exists(ctx)
}

// HasPrice reports whether a price tier id exists.
func (r *Catalog) HasPrice(ctx context.Context, id int64) (bool, error) {
	return r.db.NewSelect().Model((*model.Price)(nil)).Where("?TableAlias.id = ?", id).Exists(ctx)
}
