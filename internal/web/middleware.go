package web

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vivienda/bienesraices/internal/model"
)

// RequireAuth is the access gate in front of every listing-management and
// messaging route. It re-derives the caller identity from the session proof
// cookie on every request and never mutates user or listing state.
//
// Absence of the cookie is not an error: the visitor is redirected to the
// login form. A forged, corrupted or stale proof is treated as a logout:
// the cookie is cleared and the visitor redirected.
func (s *Server) RequireAuth(c *fiber.Ctx) error {
	proof := c.Cookies(s.cfg.Auth.CookieName)
	if proof == "" {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	user, err := s.accounts.ResolveSession(c.Context(), proof)
	if err != nil {
		s.clearSessionCookie(c)
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	c.Locals(localUserKey, user)
	return c.Next()
}

// OptionalAuth attaches the caller identity when a valid proof is present
// but lets anonymous visitors through. Used by the public listing page so
// it can hide the contact form from the listing's own seller.
func (s *Server) OptionalAuth(c *fiber.Ctx) error {
	proof := c.Cookies(s.cfg.Auth.CookieName)
	if proof == "" {
		return c.Next()
	}

	if user, err := s.accounts.ResolveSession(c.Context(), proof); err == nil {
		c.Locals(localUserKey, user)
	} else {
		s.clearSessionCookie(c)
	}

	return c.Next()
}

// CurrentUser returns the identity the access gate attached, if any.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(localUserKey).(*model.User)
	return user
}

func (s *Server) setSessionCookie(c *fiber.Ctx, proof string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.Auth.CookieName,
		Value:    proof,
		Expires:  time.Now().Add(s.cfg.Auth.TokenExpiration),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.Auth.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * 24 * 365),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
