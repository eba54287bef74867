package web

import (
	stderrors "errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// RegisterPayload is the registration form payload. Field names mirror the
// public form.
type RegisterPayload struct {
	Name            string `form:"nombre" json:"nombre"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"telefono" json:"telefono"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"repetir_password" json:"repetir_password"`
}

// Validate will validate the payload.
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// LoginPayload is the login form payload.
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload.
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// ForgotPasswordPayload carries the email requesting a reset.
type ForgotPasswordPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will validate the payload.
func (r ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// ResetPasswordPayload carries the replacement password; the token travels
// in the URL, not the form.
type ResetPasswordPayload struct {
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload.
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// PropertyPayload is the create/edit listing form payload.
type PropertyPayload struct {
	Title       string `form:"titulo" json:"titulo"`
	Description string `form:"descripcion" json:"descripcion"`
	Rooms       int    `form:"habitaciones" json:"habitaciones"`
	Parking     int    `form:"estacionamiento" json:"estacionamiento"`
	Bathrooms   int    `form:"wc" json:"wc"`
	Street      string `form:"calle" json:"calle"`
	Lat         string `form:"lat" json:"lat"`
	Lng         string `form:"lng" json:"lng"`
	CategoryID  int64  `form:"categoria" json:"categoria"`
	PriceID     int64  `form:"precio" json:"precio"`
}

// Validate will validate the payload.
func (r PropertyPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Required, validation.Length(1, 600)),
		validation.Field(&r.Rooms, validation.Required, validation.Min(1), validation.Max(20)),
		validation.Field(&r.Parking, validation.Min(0), validation.Max(20)),
		validation.Field(&r.Bathrooms, validation.Required, validation.Min(1), validation.Max(20)),
		validation.Field(&r.Street, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Lat, validation.Required),
		validation.Field(&r.CategoryID, validation.Required),
		validation.Field(&r.PriceID, validation.Required),
	)
}

// MessagePayload is the inquiry form payload.
type MessagePayload struct {
	Body string `form:"mensaje" json:"mensaje"`
}

// Validate will validate the payload.
func (r MessagePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.Length(10, 2000)),
	)
}

// ValidateStringEquals will check that both values match.
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return stderrors.New("values must match")
		}
		return nil
	}
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field -> message map for inline rendering.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if stderrors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}
