package store

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/vivienda/bienesraices/internal/model"
)

// ErrDuplicateEmail is returned when registering an email that already has
// an account.
var ErrDuplicateEmail = errors.New("email is already registered", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode("DUPLICATE_EMAIL")

// Users is the user repository. Methods returning full records (including
// the password hash) are consumed only by the credential store in
// internal/auth; everything downstream of the access gate goes through the
// password-stripped projection.
type Users struct {
	db *bun.DB
}

// NewUsers returns a Users repository backed by db.
func NewUsers(db *bun.DB) *Users {
	return &Users{db: db}
}

// Create persists a new user. A unique-email violation maps to
// ErrDuplicateEmail.
func (r *Users) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return nil
}

// GetByEmail returns the full record for the given email.
func (r *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	return user, r.mapLookupErr(err, map[string]any{"email": email})
}

// GetByToken returns the user holding the given single-use token.
func (r *Users) GetByToken(ctx context.Context, token string) (*model.User, error) {
	user := &model.User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)

	return user, r.mapLookupErr(err, nil)
}

// GetByID returns the full record for the given id.
func (r *Users) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user := &model.User{}
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	return user, r.mapLookupErr(err, map[string]any{"id": id.String()})
}

// GetPublicByID returns the password-stripped projection used by the access
// gate to attach a caller identity to the request.
func (r *Users) GetPublicByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user := &model.User{}
	err := r.db.NewSelect().
		Model(user).
		ExcludeColumn("password_hash", "token").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	return user, r.mapLookupErr(err, map[string]any{"id": id.String()})
}

// Confirm marks the account confirmed and clears the pending token.
func (r *Users) Confirm(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("confirmed = ?", true).
		Set("token = NULL").
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return r.mapUpdateErr(res, err, "failed to confirm user")
}

// IssueResetToken overwrites any previous token with the fresh one.
func (r *Users) IssueResetToken(ctx context.Context, id uuid.UUID, token string) error {
	res, err := r.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("token = ?", token).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return r.mapUpdateErr(res, err, "failed to issue reset token")
}

// ResetPassword stores a new password hash and clears the pending token in
// the same statement.
func (r *Users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("token = NULL").
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return r.mapUpdateErr(res, err, "failed to reset password")
}

func (r *Users) mapLookupErr(err error, metadata map[string]any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		nf := NewRecordNotFound()
		if metadata != nil {
			nf = nf.WithMetadata(metadata)
		}
		return nf
	}
	return errors.Wrap(err, errors.CategoryInternal, "user lookup failed")
}

func (r *Users) mapUpdateErr(res sql.Result, err error, msg string) error {
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, msg)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return NewRecordNotFound()
	}
	return nil
}
