// Package property implements the listing ownership and publication
// engine. Every mutating operation re-derives authorization from the
// caller id passed in; nothing about ownership is cached across requests.
//
// Guard order is uniform and significant: existence, then publication
// state (where it applies), then ownership. A caller probing a nonexistent
// id and a non-owner probing someone else's id surface errors that
// handlers collapse into the identical redirect.
package property

import (
	"context"
	"io"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/vivienda/bienesraices/internal/model"
	"github.com/vivienda/bienesraices/internal/store"
)

// DashboardPageSize is the owner dashboard page length.
const DashboardPageSize = 10

// Logger matches the auth package's logging contract.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Engine drives the listing lifecycle: two-phase creation, publication,
// owner-gated mutation and deletion with asset cleanup.
type Engine struct {
	props  *store.Properties
	msgs   *store.Messages
	assets AssetStore
	logger Logger
}

// NewEngine wires the listing engine.
func NewEngine(props *store.Properties, msgs *store.Messages, assets AssetStore, logger Logger) *Engine {
	return &Engine{
		props:  props,
		msgs:   msgs,
		assets: assets,
		logger: logger,
	}
}

// CreateInput carries the validated structural fields of a listing.
type CreateInput struct {
	Title       string
	Description string
	Rooms       int
	Parking     int
	Bathrooms   int
	Street      string
	Lat         string
	Lng         string
	CategoryID  int64
	PriceID     int64
}

// Create persists a listing in the unpublished, no-image state. Publication
// is impossible at creation time: no image exists yet, and the image
// attachment transition is the only way to publish for the first time.
func (e *Engine) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*model.Property, error) {
	prop := &model.Property{
		Title:       input.Title,
		Description: input.Description,
		Rooms:       input.Rooms,
		Parking:     input.Parking,
		Bathrooms:   input.Bathrooms,
		Street:      input.Street,
		Lat:         input.Lat,
		Lng:         input.Lng,
		CategoryID:  input.CategoryID,
		PriceID:     input.PriceID,
		OwnerID:     ownerID,
	}

	if err := e.props.Create(ctx, prop); err != nil {
		return nil, err
	}

	return prop, nil
}

// GetForImage loads a listing for the image-attachment step, applying the
// same guards as AttachImage so the upload form is only shown when the
// transition can still happen.
func (e *Engine) GetForImage(ctx context.Context, id, callerID uuid.UUID) (*model.Property, error) {
	return e.guardAttach(ctx, id, callerID)
}

// AttachImage sets the image and publishes the listing in one atomic step.
// Guards run in order: existence, not already published, caller is owner.
func (e *Engine) AttachImage(ctx context.Context, id, callerID uuid.UUID, imageRef string) (*model.Property, error) {
	prop, err := e.guardAttach(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if err := e.props.Publish(ctx, id, imageRef); err != nil {
		// A concurrent publisher may have won between the guard read and
		// the conditional update.
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryConflict {
			return nil, ErrAlreadyPublished
		}
		return nil, err
	}

	prop.Image = imageRef
	prop.Published = true
	return prop, nil
}

// AttachImageUpload stores the uploaded image under a fresh name and runs
// the publication transition. If a concurrent publisher wins the race the
// freshly saved file is removed again so no orphan asset is left behind.
func (e *Engine) AttachImageUpload(ctx context.Context, id, callerID uuid.UUID, filename string, src io.Reader) (*model.Property, error) {
	if _, err := e.guardAttach(ctx, id, callerID); err != nil {
		return nil, err
	}

	imageRef := NewImageName(filename)
	if err := e.assets.Save(imageRef, src); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to store image")
	}

	prop, err := e.AttachImage(ctx, id, callerID, imageRef)
	if err != nil {
		if rerr := e.assets.Remove(imageRef); rerr != nil {
			e.logger.Errorf("orphan image cleanup failed for property %s: %v", id, rerr)
		}
		return nil, err
	}

	return prop, nil
}

// GetForOwner loads a listing for its owner with no publication filter.
// Guards: existence, then ownership.
func (e *Engine) GetForOwner(ctx context.Context, id, callerID uuid.UUID) (*model.Property, error) {
	prop, err := e.props.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !prop.IsOwnedBy(callerID) {
		return nil, ErrNotOwner
	}

	return prop, nil
}

// Update applies structural edits. Ownership is re-checked on every call;
// image and publication state are untouched.
func (e *Engine) Update(ctx context.Context, id, callerID uuid.UUID, input CreateInput) (*model.Property, error) {
	prop, err := e.GetForOwner(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	prop.Title = input.Title
	prop.Description = input.Description
	prop.Rooms = input.Rooms
	prop.Parking = input.Parking
	prop.Bathrooms = input.Bathrooms
	prop.Street = input.Street
	prop.Lat = input.Lat
	prop.Lng = input.Lng
	prop.CategoryID = input.CategoryID
	prop.PriceID = input.PriceID

	if err := e.props.Update(ctx, prop); err != nil {
		return nil, err
	}

	return prop, nil
}

// ToggleVisibility flips published without touching the image. Only
// meaningful after the initial publication transition.
func (e *Engine) ToggleVisibility(ctx context.Context, id, callerID uuid.UUID) (*model.Property, error) {
	prop, err := e.GetForOwner(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if err := e.props.SetPublished(ctx, id, !prop.Published); err != nil {
		return nil, err
	}

	prop.Published = !prop.Published
	return prop, nil
}

// Delete removes the stored image asset first and only then the record. If
// asset removal fails the record stays, so the listing never silently loses
// its file while remaining visible.
func (e *Engine) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	prop, err := e.GetForOwner(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := e.assets.Remove(prop.Image); err != nil {
		e.logger.Errorf("image cleanup failed for property %s: %v", id, err)
		return err
	}

	return e.props.Delete(ctx, id)
}

// View is the public read path: it only sees published listings, so an
// unpublished listing is indistinguishable from a missing one.
func (e *Engine) View(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	return e.props.GetPublishedByID(ctx, id)
}

// ListMessages returns a listing's inbox. Only the owner may enumerate it.
func (e *Engine) ListMessages(ctx context.Context, id, callerID uuid.UUID) ([]model.Message, error) {
	if _, err := e.GetForOwner(ctx, id, callerID); err != nil {
		return nil, err
	}

	return e.msgs.ListByProperty(ctx, id)
}

// PostMessage appends an inquiry from any authenticated caller, the owner
// included. Only the existence of the listing is checked.
func (e *Engine) PostMessage(ctx context.Context, propertyID, senderID uuid.UUID, body string) (*model.Message, error) {
	if _, err := e.props.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		Body:       body,
		PropertyID: propertyID,
		SenderID:   senderID,
	}

	if err := e.msgs.Create(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// DashboardPage is one page of the owner's listings.
type DashboardPage struct {
	Properties []model.Property
	Page       int
	Pages      int
	Total      int
	Limit      int
	Offset     int
}

// Dashboard returns the owner's paginated listings.
func (e *Engine) Dashboard(ctx context.Context, ownerID uuid.UUID, page int) (*DashboardPage, error) {
	if page < 1 {
		page = 1
	}

	limit := DashboardPageSize
	offset := (page - 1) * limit

	props, total, err := e.props.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	return &DashboardPage{
		Properties: props,
		Page:       page,
		Pages:      pages,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// guardAttach applies the ordered attach-image guards and returns the
// listing when all pass.
func (e *Engine) guardAttach(ctx context.Context, id, callerID uuid.UUID) (*model.Property, error) {
	prop, err := e.props.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if prop.Published {
		return nil, ErrAlreadyPublished
	}

	if !prop.IsOwnedBy(callerID) {
		return nil, ErrNotOwner
	}

	return prop, nil
}
