package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"

	"github.com/vivienda/bienesraices/internal/model"
	"github.com/vivienda/bienesraices/internal/store"
)

// Notifier dispatches the outbound account emails. The mail transport lives
// behind this boundary; delivery failures are logged, never surfaced to the
// registrant.
type Notifier interface {
	SendAccountConfirmation(ctx context.Context, name, email, token string) error
	SendPasswordReset(ctx context.Context, name, email, token string) error
}

// Accounts drives the account lifecycle: registration, confirmation, login,
// forgot-password and reset. It is the only component that reads or writes
// password hashes and single-use tokens.
type Accounts struct {
	users      *store.Users
	tokens     *TokenService
	notifier   Notifier
	logger     Logger
	bcryptCost int
}

// NewAccounts wires the account lifecycle service.
func NewAccounts(users *store.Users, tokens *TokenService, notifier Notifier, bcryptCost int) *Accounts {
	return &Accounts{
		users:      users,
		tokens:     tokens,
		notifier:   notifier,
		logger:     defLogger{},
		bcryptCost: bcryptCost,
	}
}

// WithLogger replaces the default logger.
func (a *Accounts) WithLogger(l Logger) *Accounts {
	if l != nil {
		a.logger = l
	}
	return a
}

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates an unconfirmed account with a fresh confirmation token
// and dispatches the confirmation email. The caller is never logged in as a
// side effect. Returns store.ErrDuplicateEmail for an existing email.
func (a *Accounts) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	hash, err := HashPassword(input.Password, a.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	token := NewOpaqueToken()
	user := &model.User{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     phone,
		Password:  hash,
		Token:     &token,
		Confirmed: false,
	}

	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := a.notifier.SendAccountConfirmation(ctx, user.Name, user.Email, token); err != nil {
		a.logger.Errorf("account confirmation email failed for %s: %v", user.Email, err)
	}

	return stripCredentials(user), nil
}

// Confirm consumes a confirmation token: sets confirmed and clears the
// token. An unknown token is terminal (ErrTokenNotFound).
func (a *Accounts) Confirm(ctx context.Context, token string) (*model.User, error) {
	user, err := a.users.GetByToken(ctx, token)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	if err := a.users.Confirm(ctx, user.ID); err != nil {
		return nil, err
	}

	user.Confirmed = true
	user.Token = nil
	return stripCredentials(user), nil
}

// Login applies the checks in strict order: user exists, user confirmed,
// password matches. The first failing condition is returned. On success it
// mints a session proof bound to the user's id and display name.
func (a *Accounts) Login(ctx context.Context, email, password string) (string, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return "", ErrIdentityNotFound
		}
		return "", err
	}

	if !user.Confirmed {
		return "", ErrAccountNotConfirmed
	}

	if err := ComparePasswordAndHash(password, user.Password); err != nil {
		return "", ErrInvalidPassword
	}

	return a.tokens.Generate(user.ID, user.Name)
}

// RequestPasswordReset overwrites any pending token with a fresh one and
// dispatches the reset email. An unknown email is reported to the caller.
func (a *Accounts) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return err
	}

	token := NewOpaqueToken()
	if err := a.users.IssueResetToken(ctx, user.ID, token); err != nil {
		return err
	}

	if err := a.notifier.SendPasswordReset(ctx, user.Name, user.Email, token); err != nil {
		a.logger.Errorf("password reset email failed for %s: %v", user.Email, err)
	}

	return nil
}

// VerifyResetToken checks that a reset token is outstanding. Unknown tokens
// are terminal.
func (a *Accounts) VerifyResetToken(ctx context.Context, token string) (*model.User, error) {
	user, err := a.users.GetByToken(ctx, token)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return stripCredentials(user), nil
}

// ResetPassword re-validates the token (the form carries no other identity)
// and stores the new hash, clearing the token in the same statement.
func (a *Accounts) ResetPassword(ctx context.Context, token, password string) error {
	user, err := a.users.GetByToken(ctx, token)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return ErrTokenNotFound
		}
		return err
	}

	hash, err := HashPassword(password, a.bcryptCost)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	return a.users.ResetPassword(ctx, user.ID, hash)
}

// ResolveSession verifies a raw session proof and resolves it to a live
// user through the password-stripped projection. A valid proof whose user
// no longer exists fails the same way as an invalid proof.
func (a *Accounts) ResolveSession(ctx context.Context, proof string) (*model.User, error) {
	claims, err := a.tokens.Validate(proof)
	if err != nil {
		return nil, err
	}

	session, err := SessionFromClaims(claims)
	if err != nil {
		return nil, err
	}

	uid, err := session.GetUserUUID()
	if err != nil {
		return nil, ErrProofInvalid
	}

	user, err := a.users.GetPublicByID(ctx, uid)
	if err != nil {
		if store.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return user, nil
}

// normalizePhone formats an optional phone number to E164. Empty input is
// allowed; anything else must parse as a valid number.
func normalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", nil
	}

	parsed, err := phonenumbers.Parse(phone, "MX")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", errors.New("phone number is not valid", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// stripCredentials clears the fields that must never leave this component.
func stripCredentials(user *model.User) *model.User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.Password = ""
	return &clone
}
