package web

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const homeSectionSize = 3

// HomeShow renders the landing page: the newest published listings of the
// first two categories plus both catalog selects for the search form.
func (s *Server) HomeShow(c *fiber.Ctx) error {
	categories, err := s.catalog.Categories(c.Context())
	if err != nil {
		return s.handleFailure(c, err)
	}
	prices, err := s.catalog.Prices(c.Context())
	if err != nil {
		return s.handleFailure(c, err)
	}

	sections := fiber.Map{
		"pagina":     "Inicio",
		"categorias": categories,
		"precios":    prices,
	}

	if len(categories) > 0 {
		houses, err := s.props.ListPublished(c.Context(), categories[0].ID, homeSectionSize)
		if err != nil {
			return s.handleFailure(c, err)
		}
		sections["casas"] = houses
	}
	if len(categories) > 1 {
		flats, err := s.props.ListPublished(c.Context(), categories[1].ID, homeSectionSize)
		if err != nil {
			return s.handleFailure(c, err)
		}
		sections["departamentos"] = flats
	}

	return c.Render("inicio", sections)
}

// CategoryShow lists a category's published listings. An unknown category
// id lands on the not-found page.
func (s *Server) CategoryShow(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Redirect("/404", fiber.StatusSeeOther)
	}

	category, err := s.catalog.Category(c.Context(), id)
	if err != nil {
		return c.Redirect("/404", fiber.StatusSeeOther)
	}

	props, err := s.props.ListPublished(c.Context(), id, 0)
	if err != nil {
		return s.handleFailure(c, err)
	}

	return c.Render("categoria", fiber.Map{
		"pagina":      category.Name + "s en Venta",
		"propiedades": props,
	})
}

// NotFoundShow renders the not-found page.
func (s *Server) NotFoundShow(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("404", fiber.Map{
		"pagina": "No Encontrada",
	})
}

// SearchPost searches published listings by title. A blank term bounces
// back to the landing page.
func (s *Server) SearchPost(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.FormValue("termino"))
	if term == "" {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	props, err := s.props.SearchPublished(c.Context(), term)
	if err != nil {
		return s.handleFailure(c, err)
	}

	return c.Render("busqueda", fiber.Map{
		"pagina":      "Resultados de la Busqueda",
		"propiedades": props,
	})
}
