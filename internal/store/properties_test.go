package store

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/vivienda/bienesraices/internal/model"
)

type propsFixture struct {
	db      *bun.DB
	props   *Properties
	ownerID uuid.UUID
	ctx     context.Context
}

func newPropsFixture(t *testing.T) *propsFixture {
	t.Helper()

	db := testDB(t)
	ctx := context.Background()

	users := NewUsers(db)
	owner := newTestUser("owner@example.com")
	require.NoError(t, users.Create(ctx, owner))

	return &propsFixture{
		db:      db,
		props:   NewProperties(db),
		ownerID: owner.ID,
		ctx:     ctx,
	}
}

func (f *propsFixture) create(t *testing.T, title string) *model.Property {
	t.Helper()

	prop := &model.Property{
		Title:       title,
		Description: "tres recamaras con jardin",
		Rooms:       3,
		Parking:     1,
		Bathrooms:   2,
		Street:      "Av. Siempre Viva 742",
		Lat:         "19.43",
		Lng:         "-99.13",
		OwnerID:     f.ownerID,
		CategoryID:  1,
		PriceID:     1,
	}
	require.NoError(t, f.props.Create(f.ctx, prop))
	return prop
}

func TestPropertiesCreateForcesUnpublished(t *testing.T) {
	f := newPropsFixture(t)

	prop := &model.Property{
		Title:       "Casa trampa",
		Description: "intenta nacer publicada",
		Rooms:       2,
		Bathrooms:   1,
		Street:      "Calle 1",
		Lat:         "0",
		Lng:         "0",
		Image:       "sneaky.jpg",
		Published:   true,
		OwnerID:     f.ownerID,
		CategoryID:  1,
		PriceID:     1,
	}
	require.NoError(t, f.props.Create(f.ctx, prop))

	got, err := f.props.GetByID(f.ctx, prop.ID)
	require.NoError(t, err)
	assert.False(t, got.Published)
	assert.Equal(t, "", got.Image)
}

func TestPropertiesPublishTransition(t *testing.T) {
	f := newPropsFixture(t)
	prop := f.create(t, "Casa en la playa")

	require.NoError(t, f.props.Publish(f.ctx, prop.ID, "imagen.jpg"))

	got, err := f.props.GetByID(f.ctx, prop.ID)
	require.NoError(t, err)
	assert.True(t, got.Published)
	assert.Equal(t, "imagen.jpg", got.Image)
}

func TestPropertiesPublishOnlyOnce(t *testing.T) {
	f := newPropsFixture(t)
	prop := f.create(t, "Casa unica")

	require.NoError(t, f.props.Publish(f.ctx, prop.ID, "primera.jpg"))

	err := f.props.Publish(f.ctx, prop.ID, "segunda.jpg")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConflict, mustRichError(t, err).Category)

	got, err := f.props.GetByID(f.ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, "primera.jpg", got.Image)
}

func TestPropertiesPublishMissing(t *testing.T) {
	f := newPropsFixture(t)

	// a missing id also hits zero rows; callers guard existence first
	err := f.props.Publish(f.ctx, uuid.New(), "imagen.jpg")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConflict, mustRichError(t, err).Category)
}

func TestPropertiesGetPublishedByID(t *testing.T) {
	f := newPropsFixture(t)
	prop := f.create(t, "Casa oculta")

	_, err := f.props.GetPublishedByID(f.ctx, prop.ID)
	assert.True(t, IsRecordNotFound(err), "unpublished must read as missing")

	require.NoError(t, f.props.Publish(f.ctx, prop.ID, "imagen.jpg"))

	got, err := f.props.GetPublishedByID(f.ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, prop.ID, got.ID)
	require.NotNil(t, got.Category)
	require.NotNil(t, got.Price)
}

func TestPropertiesToggleRoundTrip(t *testing.T) {
	f := newPropsFixture(t)
	prop := f.create(t, "Casa intermitente")
	require.NoError(t, f.props.Publish(f.ctx, prop.ID, "imagen.jpg"))

	require.NoError(t, f.props.SetPublished(f.ctx, prop.ID, false))
	_, err := f.props.GetPublishedByID(f.ctx, prop.ID)
	assert.True(t, IsRecordNotFound(err))

	require.NoError(t, f.props.SetPublished(f.ctx, prop.ID, true))
	got, err := f.props.GetByID(f.ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, "imagen.jpg", got.Image, "toggle must not touch the image")
}

func TestPropertiesListByOwnerPagination(t *testing.T) {
	f := newPropsFixture(t)
	for i := 0; i < 12; i++ {
		f.create(t, "Casa")
	}

	page, total, err := f.props.ListByOwner(f.ctx, f.ownerID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Len(t, page, 10)

	page, total, err = f.props.ListByOwner(f.ctx, f.ownerID, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Len(t, page, 2)

	page, _, err = f.props.ListByOwner(f.ctx, uuid.New(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestPropertiesSearchPublished(t *testing.T) {
	f := newPropsFixture(t)

	match := f.create(t, "Casa con alberca")
	require.NoError(t, f.props.Publish(f.ctx, match.ID, "a.jpg"))

	hidden := f.create(t, "Otra casa con alberca")
	_ = hidden // stays unpublished

	got, err := f.props.SearchPublished(f.ctx, "alberca")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, match.ID, got[0].ID)
}

func TestPropertiesDelete(t *testing.T) {
	f := newPropsFixture(t)
	prop := f.create(t, "Casa efimera")

	require.NoError(t, f.props.Delete(f.ctx, prop.ID))

	_, err := f.props.GetByID(f.ctx, prop.ID)
	assert.True(t, IsRecordNotFound(err))
}
