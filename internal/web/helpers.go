package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// handleFailure maps a service error to the outward behavior the error
// taxonomy prescribes: not-found, not-owner and conflict all collapse into
// the same safe redirect so probing ids leaks nothing; authentication
// failures go to login; anything else is a persistence-level failure that
// gets logged and a generic 500 render.
func (s *Server) handleFailure(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		switch richErr.Category {
		case errors.CategoryNotFound, errors.CategoryAuthz, errors.CategoryConflict:
			return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
		case errors.CategoryAuth:
			s.clearSessionCookie(c)
			return c.Redirect("/auth/login", fiber.StatusSeeOther)
		}
	}

	s.logger.Errorf("request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
		"pagina": "Error",
	})
}

// renderMessage renders the generic acknowledgment view.
func (s *Server) renderMessage(c *fiber.Ctx, title, message string) error {
	return c.Render("templates/mensaje", fiber.Map{
		"pagina":  title,
		"mensaje": message,
	})
}
