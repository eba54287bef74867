// Package web owns the HTTP surface: the fiber application, the access
// gate middleware and every handler. Rendering is a thin layer over the
// embedded django templates; all interesting decisions happen in the auth
// and property services.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/template/django/v3"

	"github.com/vivienda/bienesraices/internal/auth"
	"github.com/vivienda/bienesraices/internal/config"
	"github.com/vivienda/bienesraices/internal/property"
	"github.com/vivienda/bienesraices/internal/store"
)

//go:embed views
var viewsFS embed.FS

const localUserKey = "current_user"

// Options wires the server's collaborators.
type Options struct {
	Config   *config.Config
	Accounts *auth.Accounts
	Engine   *property.Engine
	Catalog  *store.Catalog
	Props    *store.Properties
	Logger   auth.Logger

	// DisableCSRF is used by handler tests; production wiring leaves the
	// protection on.
	DisableCSRF bool
}

// Server is the HTTP front of the application.
type Server struct {
	app      *fiber.App
	cfg      *config.Config
	accounts *auth.Accounts
	engine   *property.Engine
	catalog  *store.Catalog
	props    *store.Properties
	logger   auth.Logger
}

// New builds the fiber application with views, middleware and routes.
func New(opts Options) (*Server, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}

	engine := django.NewFileSystem(http.FS(sub), ".html")

	app := fiber.New(fiber.Config{
		PassLocalsToViews: true,
		Views:             engine,
	})

	s := &Server{
		app:      app,
		cfg:      opts.Config,
		accounts: opts.Accounts,
		engine:   opts.Engine,
		catalog:  opts.Catalog,
		props:    opts.Props,
		logger:   opts.Logger,
	}

	if !opts.DisableCSRF {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:  "form:_csrf",
			CookieName: "csrf_",
			ContextKey: "csrfToken",
		}))
	}

	app.Static("/uploads", opts.Config.Uploads.Dir)

	s.routes()

	return s, nil
}

// App exposes the underlying fiber app for serving and tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the configured address.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.HTTP.Address)
}

func (s *Server) routes() {
	app := s.app

	// public site
	app.Get("/", s.HomeShow)
	app.Get("/categorias/:id", s.CategoryShow)
	app.Get("/404", s.NotFoundShow)
	app.Post("/buscador", s.SearchPost)

	// account lifecycle
	app.Get("/auth/registro", s.RegisterShow)
	app.Post("/auth/registro", s.RegisterPost)
	app.Get("/auth/confirmar/:token", s.ConfirmAccount)
	app.Get("/auth/login", s.LoginShow)
	app.Post("/auth/login", s.LoginPost)
	app.Get("/auth/cerrar-sesion", s.Logout)
	app.Get("/auth/olvide-password", s.ForgotPasswordShow)
	app.Post("/auth/olvide-password", s.ForgotPasswordPost)
	app.Get("/auth/olvide-password/:token", s.ResetPasswordShow)
	app.Post("/auth/olvide-password/:token", s.ResetPasswordPost)

	// owner-gated listing management
	app.Get("/mis-propiedades", s.RequireAuth, s.DashboardShow)
	app.Get("/propiedades/crear", s.RequireAuth, s.PropertyCreateShow)
	app.Post("/propiedades/crear", s.RequireAuth, s.PropertyCreatePost)
	app.Get("/propiedades/agregar-imagen/:id", s.RequireAuth, s.PropertyImageShow)
	app.Post("/propiedades/agregar-imagen/:id", s.RequireAuth, s.PropertyImagePost)
	app.Get("/propiedades/editar/:id", s.RequireAuth, s.PropertyEditShow)
	app.Post("/propiedades/editar/:id", s.RequireAuth, s.PropertyEditPost)
	app.Post("/propiedades/eliminar/:id", s.RequireAuth, s.PropertyDelete)
	app.Put("/propiedades/:id", s.RequireAuth, s.PropertyToggle)
	app.Get("/mensajes/:id", s.RequireAuth, s.MessagesShow)

	// public listing view; messages require a caller identity
	app.Get("/propiedades/:id", s.OptionalAuth, s.PropertyShow)
	app.Post("/propiedades/:id", s.RequireAuth, s.MessagePost)
}
