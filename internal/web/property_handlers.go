package web

import (
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vivienda/bienesraices/internal/property"
)

// pageExpr accepts positive page numbers only; anything else falls back to
// page one via redirect so the address bar always shows a valid page.
var pageExpr = regexp.MustCompile(`^[1-9][0-9]*$`)

// DashboardShow renders the owner's paginated listings.
func (s *Server) DashboardShow(c *fiber.Ctx) error {
	user := CurrentUser(c)

	raw := c.Query("pagina")
	if !pageExpr.MatchString(raw) {
		return c.Redirect("/mis-propiedades?pagina=1", fiber.StatusSeeOther)
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return c.Redirect("/mis-propiedades?pagina=1", fiber.StatusSeeOther)
	}

	dash, err := s.engine.Dashboard(c.Context(), user.ID, page)
	if err != nil {
		return s.handleFailure(c, err)
	}

	return c.Render("propiedades/admin", fiber.Map{
		"pagina":       "Mis Propiedades",
		"propiedades":  dash.Properties,
		"paginaActual": dash.Page,
		"paginas":      dash.Pages,
		"total":        dash.Total,
		"limit":        dash.Limit,
		"offset":       dash.Offset,
	})
}

// PropertyCreateShow renders the create form with the catalog selects.
func (s *Server) PropertyCreateShow(c *fiber.Ctx) error {
	categories, prices, err := s.loadCatalog(c)
	if err != nil {
		return s.handleFailure(c, err)
	}

	return c.Render("propiedades/crear", fiber.Map{
		"pagina":     "Crear Propiedad",
		"categorias": categories,
		"precios":    prices,
		"record":     PropertyPayload{},
	})
}

// PropertyCreatePost validates the form and creates the listing in the
// unpublished, no-image state, then sends the owner to the image step.
func (s *Server) PropertyCreatePost(c *fiber.Ctx) error {
	user := CurrentUser(c)

	payload := new(PropertyPayload)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Errorf("create property parse payload: %v", err)
		return c.Redirect("/propiedades/crear", fiber.StatusSeeOther)
	}

	if errs := s.validateListingPayload(c, payload); len(errs) > 0 {
		categories, prices, err := s.loadCatalog(c)
		if err != nil {
			return s.handleFailure(c, err)
		}
		return c.Render("propiedades/crear", fiber.Map{
			"pagina":     "Crear Propiedad",
			"categorias": categories,
			"precios":    prices,
			"errores":    errs,
			"record":     payload,
		})
	}

	prop, err := s.engine.Create(c.Context(), user.ID, payload.toInput())
	if err != nil {
		return s.handleFailure(c, err)
	}

	return c.Redirect("/propiedades/agregar-imagen/"+prop.ID.String(), fiber.StatusSeeOther)
}

// PropertyImageShow renders the upload form, applying the same guards as
// the attach transition so a published or foreign listing never shows it.
func (s *Server) PropertyImageShow(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
	}

	prop, err := s.engine.GetForImage(c.Context(), id, user.ID)
	if err != nil {
		return s.handleFailure(c, err)
	}

	return c.Render("propiedades/agregar-imagen", fiber.Map{
		"pagina":    "Agregar Imagen: " + prop.Title,
		"propiedad": prop,
	})
}

// PropertyImagePost stores the upload and publishes the listing.
func (s *Server) PropertyImagePost(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
	}

	header, err := c.FormFile("imagen")
	if err != nil {
		prop, gerr := s.engine.GetForImage(c.Context(), id, user.ID)
		if gerr != nil {
			return s.handleFailure(c, gerr)
		}
		return c.Render("propiedades/agregar-imagen", fiber.Map{
			"pagina":    "Agregar Imagen: " + prop.Title,
			"propiedad": prop,
			"errores":   map[string]string{"imagen": "La imagen es obligatoria"},
		})
	}

	file, err := header.Open()
	if err != nil {
		return s.handleFailure(c, err)
	}
	defer file.Close()

	if _, err := s.engine.AttachImageUpload(c.Context(), id, user.ID, header.Filename, file); err != nil {
		return s.handleFailure(c, err)
	}

	return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
}

// PropertyEditShow renders the edit form prefilled with the listing.
func (s *Server) PropertyEditShow(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
	}

	prop, err := s.engine.GetForOwner(c.Context(), id, user.ID)
	if err != nil {
		return s.handleFailure(c, err)
	}

	categories, prices, err := s.loadCatalog(c)
	if err != nil {
		return s.handleFailure(c, err)
	}

	return c.Render("propiedades/editar", fiber.Map{
		"pagina":     "Editar Propiedad: " + prop.Title,
		"categorias": categories,
		"precios":    prices,
		"record": PropertyPayload{
			Title:       prop.Title,
			Description: prop.Description,
			Rooms:       prop.Rooms,
			Parking:     prop.Parking,
			Bathrooms:   prop.Bathrooms,
			Street:      prop.Street,
			Lat:         prop.Lat,
			Lng:         prop.Lng,
			CategoryID:  prop.CategoryID,
			PriceID:     prop.PriceID,
		},
	})
}

// PropertyEditPost validates and applies structural edits. Image and
// publication state are untouched by this path.
func (s *Server) PropertyEditPost(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
	}

	payload := new(PropertyPayload)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Errorf("edit property parse payload: %v", err)
		return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
	}

	if errs := s.validateListingPayload(c, payload); len(errs) > 0 {
		categories, prices, cerr := s.loadCatalog(c)
		if cerr != nil {
			return s.handleFailure(c, cerr)
		}
		return c.Render("propiedades/editar", fiber.Map{
			"pagina":     "Editar Propiedad",
			"categorias": categories,
			"precios":    prices,
			"errores":    errs,
			"record":     payload,
		})
	}

	if _, err := s.engine.Update(c.Context(), id, user.ID, payload.toInput()); err != nil {
		return s.handleFailure(c, err)
	}

	return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
}

// PropertyDelete removes the listing and its stored image.
func (s *Server) PropertyDelete(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
	}

	if err := s.engine.Delete(c.Context(), id, user.ID); err != nil {
		return s.handleFailure(c, err)
	}

	return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
}

// PropertyToggle flips the published flag. The dashboard calls it over
// XHR, so the response is a small JSON acknowledgment rather than a page.
func (s *Server) PropertyToggle(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
	}

	if _, err := s.engine.ToggleVisibility(c.Context(), id, user.ID); err != nil {
		return s.handleFailure(c, err)
	}

	return c.JSON(fiber.Map{"resultado": true})
}

// MessagesShow renders the listing's inbox for its owner.
func (s *Server) MessagesShow(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/mis-propiedades", fiber.StatusSeeOther)
	}

	msgs, err := s.engine.ListMessages(c.Context(), id, user.ID)
	if err != nil {
		return s.handleFailure(c, err)
	}

	return c.Render("propiedades/mensajes", fiber.Map{
		"pagina":   "Mensajes",
		"mensajes": msgs,
	})
}

// PropertyShow is the public listing page. Unpublished and missing ids are
// indistinguishable: both land on the not-found page.
func (s *Server) PropertyShow(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/404", fiber.StatusSeeOther)
	}

	prop, err := s.engine.View(c.Context(), id)
	if err != nil {
		return c.Redirect("/404", fiber.StatusSeeOther)
	}

	user := CurrentUser(c)
	isSeller := user != nil && prop.IsOwnedBy(user.ID)

	return c.Render("propiedades/mostrar", fiber.Map{
		"pagina":     prop.Title,
		"propiedad":  prop,
		"esVendedor": isSeller,
		"usuario":    user,
	})
}

// MessagePost appends an inquiry to a published listing from any
// authenticated visitor, the seller included.
func (s *Server) MessagePost(c *fiber.Ctx) error {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/404", fiber.StatusSeeOther)
	}

	prop, err := s.engine.View(c.Context(), id)
	if err != nil {
		return c.Redirect("/404", fiber.StatusSeeOther)
	}

	payload := new(MessagePayload)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Errorf("message parse payload: %v", err)
		return c.Redirect("/propiedades/"+id.String(), fiber.StatusSeeOther)
	}

	if err := payload.Validate(); err != nil {
		return c.Render("propiedades/mostrar", fiber.Map{
			"pagina":    prop.Title,
			"propiedad": prop,
			"usuario":   user,
			"errores":   FormatValidationErrorToMap(err),
		})
	}

	if _, err := s.engine.PostMessage(c.Context(), id, user.ID, payload.Body); err != nil {
		return s.handleFailure(c, err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// loadCatalog fetches both selects for the listing forms.
func (s *Server) loadCatalog(c *fiber.Ctx) (categories any, prices any, err error) {
	cats, err := s.catalog.Categories(c.Context())
	if err != nil {
		return nil, nil, err
	}
	prcs, err := s.catalog.Prices(c.Context())
	if err != nil {
		return nil, nil, err
	}
	return cats, prcs, nil
}

// validateListingPayload runs the structural rules plus the referential
// checks against the catalog.
func (s *Server) validateListingPayload(c *fiber.Ctx, payload *PropertyPayload) map[string]string {
	errs := FormatValidationErrorToMap(payload.Validate())

	if _, seen := errs["categoria"]; !seen && payload.CategoryID > 0 {
		if ok, err := s.catalog.HasCategory(c.Context(), payload.CategoryID); err != nil || !ok {
			errs["categoria"] = "Selecciona una categoria"
		}
	}
	if _, seen := errs["precio"]; !seen && payload.PriceID > 0 {
		if ok, err := s.catalog.HasPrice(c.Context(), payload.PriceID); err != nil || !ok {
			errs["precio"] = "Selecciona un rango de precios"
		}
	}

	return errs
}

func (p *PropertyPayload) toInput() property.CreateInput {
	return property.CreateInput{
		Title:       p.Title,
		Description: p.Description,
		Rooms:       p.Rooms,
		Parking:     p.Parking,
		Bathrooms:   p.Bathrooms,
		Street:      p.Street,
		Lat:         p.Lat,
		Lng:         p.Lng,
		CategoryID:  p.CategoryID,
		PriceID:     p.PriceID,
	}
}
