package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/vivienda/bienesraices/internal/auth"
)

// RegisterShow renders the registration form.
func (s *Server) RegisterShow(c *fiber.Ctx) error {
	return c.Render("auth/registro", fiber.Map{
		"pagina": "Crear Cuenta",
		"record": RegisterPayload{},
	})
}

// RegisterPost validates the form, creates the unconfirmed account and
// dispatches the confirmation email. The caller is never logged in here.
func (s *Server) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		s.logger.Errorf("register parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).Render("auth/registro", fiber.Map{
			"pagina":  "Crear Cuenta",
			"errores": map[string]string{"form": "No se pudo leer el formulario"},
			"record":  payload,
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Render("auth/registro", fiber.Map{
			"pagina":  "Crear Cuenta",
			"errores": FormatValidationErrorToMap(err),
			"record":  payload,
		})
	}

	_, err := s.accounts.Register(c.Context(), auth.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
	})
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			switch richErr.Category {
			case errors.CategoryConflict:
				return c.Render("auth/registro", fiber.Map{
					"pagina":  "Crear Cuenta",
					"errores": map[string]string{"email": "El usuario ya esta registrado"},
					"record":  payload,
				})
			case errors.CategoryValidation:
				return c.Render("auth/registro", fiber.Map{
					"pagina":  "Crear Cuenta",
					"errores": map[string]string{"telefono": "El telefono no es valido"},
					"record":  payload,
				})
			}
		}
		return s.handleFailure(c, err)
	}

	return s.renderMessage(c, "Cuenta creada correctamente",
		"Hemos enviado un email de confirmacion, presiona el enlace")
}

// ConfirmAccount consumes the emailed confirmation token. Unknown tokens
// render a terminal error view with no retry path.
func (s *Server) ConfirmAccount(c *fiber.Ctx) error {
	token := c.Params("token")

	if _, err := s.accounts.Confirm(c.Context(), token); err != nil {
		return c.Render("auth/confirmar-cuenta", fiber.Map{
			"pagina":  "Error al confirmar tu cuenta",
			"mensaje": "Hubo un error al confirmar tu cuenta, intenta de nuevo",
			"error":   true,
		})
	}

	return c.Render("auth/confirmar-cuenta", fiber.Map{
		"pagina":  "Cuenta Confirmada",
		"mensaje": "La cuenta se confirmo correctamente",
	})
}

// LoginShow renders the login form.
func (s *Server) LoginShow(c *fiber.Ctx) error {
	return c.Render("auth/login", fiber.Map{
		"pagina": "Iniciar Sesion",
	})
}

// LoginPost authenticates and stores the session proof in the credential
// cookie. Checks run in strict order inside the accounts service; the
// first failure is surfaced as a single message.
func (s *Server) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		s.logger.Errorf("login parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).Render("auth/login", fiber.Map{
			"pagina":  "Iniciar Sesion",
			"errores": map[string]string{"form": "No se pudo leer el formulario"},
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Render("auth/login", fiber.Map{
			"pagina":  "Iniciar Sesion",
			"errores": FormatValidationErrorToMap(err),
		})
	}

	proof, err := s.accounts.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return c.Render("auth/login", fiber.Map{
			"pagina":  "Iniciar Sesion",
			"errores": map[string]string{"auth": loginErrorMessage(err)},
		})
	}

	s.setSessionCookie(c, proof)
	return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
}

// Logout clears the credential carrier. The proof itself stays valid until
// expiry, consistent with the stateless session model.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSessionCookie(c)
	return c.Redirect("/auth/login", fiber.StatusSeeOther)
}

// ForgotPasswordShow renders the forgot-password form.
func (s *Server) ForgotPasswordShow(c *fiber.Ctx) error {
	return c.Render("auth/olvide-password", fiber.Map{
		"pagina": "Recupera tu acceso a BienesRaices",
	})
}

// ForgotPasswordPost issues a fresh reset token, invalidating any previous
// one, and dispatches the reset email.
func (s *Server) ForgotPasswordPost(c *fiber.Ctx) error {
	payload := new(ForgotPasswordPayload)

	if err := c.BodyParser(payload); err != nil {
		s.logger.Errorf("forgot password parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).Render("auth/olvide-password", fiber.Map{
			"pagina":  "Recupera tu acceso a BienesRaices",
			"errores": map[string]string{"form": "No se pudo leer el formulario"},
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Render("auth/olvide-password", fiber.Map{
			"pagina":  "Recupera tu acceso a BienesRaices",
			"errores": FormatValidationErrorToMap(err),
		})
	}

	if err := s.accounts.RequestPasswordReset(c.Context(), payload.Email); err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
			return c.Render("auth/olvide-password", fiber.Map{
				"pagina":  "Recupera tu acceso a BienesRaices",
				"errores": map[string]string{"email": "El email no pertenece a ningun usuario"},
			})
		}
		return s.handleFailure(c, err)
	}

	return s.renderMessage(c, "Reestablece tu Password",
		"Hemos enviado un email con las instrucciones")
}

// ResetPasswordShow verifies the emailed token and renders the new-password
// form. Unknown tokens are terminal.
func (s *Server) ResetPasswordShow(c *fiber.Ctx) error {
	token := c.Params("token")

	if _, err := s.accounts.VerifyResetToken(c.Context(), token); err != nil {
		return c.Render("auth/confirmar-cuenta", fiber.Map{
			"pagina":  "Reestablece tu Password",
			"mensaje": "Hubo un error al validar tu informacion, intenta de nuevo",
			"error":   true,
		})
	}

	return c.Render("auth/reset-password", fiber.Map{
		"pagina": "Reestablece tu Password",
	})
}

// ResetPasswordPost re-validates the token (the form carries no identity
// besides it) and stores the new password.
func (s *Server) ResetPasswordPost(c *fiber.Ctx) error {
	token := c.Params("token")
	payload := new(ResetPasswordPayload)

	if err := c.BodyParser(payload); err != nil {
		s.logger.Errorf("reset password parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).Render("auth/reset-password", fiber.Map{
			"pagina":  "Reestablece tu Password",
			"errores": map[string]string{"form": "No se pudo leer el formulario"},
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Render("auth/reset-password", fiber.Map{
			"pagina":  "Reestablece tu Password",
			"errores": FormatValidationErrorToMap(err),
		})
	}

	if err := s.accounts.ResetPassword(c.Context(), token, payload.Password); err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
			return c.Render("auth/confirmar-cuenta", fiber.Map{
				"pagina":  "Reestablece tu Password",
				"mensaje": "Hubo un error al validar tu informacion, intenta de nuevo",
				"error":   true,
			})
		}
		return s.handleFailure(c, err)
	}

	return c.Render("auth/confirmar-cuenta", fiber.Map{
		"pagina":  "Password Reestablecido",
		"mensaje": "El password se guardo correctamente",
	})
}

func loginErrorMessage(err error) string {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return "No se pudo iniciar sesion"
	}

	switch richErr.TextCode {
	case auth.ErrIdentityNotFound.TextCode:
		return "El usuario no existe"
	case auth.ErrAccountNotConfirmed.TextCode:
		return "Tu cuenta no ha sido confirmada"
	case auth.ErrInvalidPassword.TextCode:
		return "El password es incorrecto"
	default:
		return "No se pudo iniciar sesion"
	}
}
