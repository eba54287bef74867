package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivienda/bienesraices/internal/auth"
	"github.com/vivienda/bienesraices/internal/config"
	"github.com/vivienda/bienesraices/internal/model"
	"github.com/vivienda/bienesraices/internal/property"
	"github.com/vivienda/bienesraices/internal/store"
)

// captureNotifier records emailed tokens instead of sending anything.
type captureNotifier struct {
	mu            sync.Mutex
	confirmTokens map[string]string
	resetTokens   map[string]string
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{
		confirmTokens: map[string]string{},
		resetTokens:   map[string]string{},
	}
}

func (n *captureNotifier) SendAccountConfirmation(_ context.Context, _, email, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmTokens[email] = token
	return nil
}

func (n *captureNotifier) SendPasswordReset(_ context.Context, _, email, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetTokens[email] = token
	return nil
}

type testLogger struct{}

func (testLogger) Debugf(string, ...any) {}
func (testLogger) Infof(string, ...any)  {}
func (testLogger) Warnf(string, ...any)  {}
func (testLogger) Errorf(string, ...any) {}

type webFixture struct {
	app      *fiber.App
	accounts *auth.Accounts
	engine   *property.Engine
	users    *store.Users
	notifier *captureNotifier
	cfg      *config.Config
	ctx      context.Context
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()

	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: ":0", BaseURL: "http://test.local"},
		Persistence: config.StorageConfig{
			Driver: "sqlite",
			DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		},
		Auth: config.AuthConfig{
			SigningKey:      "web-test-signing-key",
			TokenExpiration: time.Hour,
			Issuer:          "bienesraices",
			CookieName:      "_token",
			BCryptCost:      auth.MinBCryptCost,
		},
		Uploads: config.UploadsConfig{Dir: t.TempDir()},
	}

	db, err := store.Open(cfg.Persistence)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db, cfg.Persistence.Driver))

	users := store.NewUsers(db)
	props := store.NewProperties(db)
	msgs := store.NewMessages(db)
	catalog := store.NewCatalog(db)

	tokens := auth.NewTokenService([]byte(cfg.Auth.SigningKey), cfg.Auth.TokenExpiration, cfg.Auth.Issuer, nil)
	notifier := newCaptureNotifier()
	accounts := auth.NewAccounts(users, tokens, notifier, cfg.Auth.BCryptCost)

	assets, err := property.NewDirAssets(cfg.Uploads.Dir)
	require.NoError(t, err)
	engine := property.NewEngine(props, msgs, assets, testLogger{})

	srv, err := New(Options{
		Config:      cfg,
		Accounts:    accounts,
		Engine:      engine,
		Catalog:     catalog,
		Props:       props,
		Logger:      testLogger{},
		DisableCSRF: true,
	})
	require.NoError(t, err)

	return &webFixture{
		app:      srv.App(),
		accounts: accounts,
		engine:   engine,
		users:    users,
		notifier: notifier,
		cfg:      cfg,
		ctx:      context.Background(),
	}
}

func (f *webFixture) postForm(t *testing.T, path string, form url.Values, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	if cookie != "" {
		req.Header.Set(fiber.HeaderCookie, "_token="+cookie)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *webFixture) get(t *testing.T, path, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set(fiber.HeaderCookie, "_token="+cookie)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// signup provisions a confirmed account and returns a live session proof.
func (f *webFixture) signup(t *testing.T, email string) (string, *model.User) {
	t.Helper()

	_, err := f.accounts.Register(f.ctx, auth.RegisterInput{
		Name:     "Ana",
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)

	user, err := f.accounts.Confirm(f.ctx, f.notifier.confirmTokens[email])
	require.NoError(t, err)

	proof, err := f.accounts.Login(f.ctx, email, "secret123")
	require.NoError(t, err)
	return proof, user
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "_token" {
			return c.Value
		}
	}
	return ""
}

func TestHomePage(t *testing.T) {
	f := newWebFixture(t)

	resp := f.get(t, "/", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRedirectAnonymous(t *testing.T) {
	f := newWebFixture(t)

	for _, path := range []string{
		"/mis-propiedades",
		"/propiedades/crear",
		"/propiedades/editar/" + uuid.NewString(),
		"/mensajes/" + uuid.NewString(),
	} {
		resp := f.get(t, path, "")
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/auth/login", resp.Header.Get(fiber.HeaderLocation), path)
	}
}

func TestForgedCookieClearedAndRedirected(t *testing.T) {
	f := newWebFixture(t)

	resp := f.get(t, "/mis-propiedades", "forged-proof")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get(fiber.HeaderLocation))

	for _, c := range resp.Cookies() {
		if c.Name == "_token" {
			assert.Equal(t, "", c.Value)
			assert.True(t, c.Expires.Before(time.Now()))
		}
	}
}

func TestRegisterConfirmLoginFlow(t *testing.T) {
	f := newWebFixture(t)

	resp := f.postForm(t, "/auth/registro", url.Values{
		"nombre":           {"Ana"},
		"email":            {"flujo@example.com"},
		"password":         {"secret123"},
		"repetir_password": {"secret123"},
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	token := f.notifier.confirmTokens["flujo@example.com"]
	require.NotEqual(t, "", token)

	// login before confirming fails back to the form
	resp = f.postForm(t, "/auth/login", url.Values{
		"email":    {"flujo@example.com"},
		"password": {"secret123"},
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "", sessionCookie(resp))

	resp = f.get(t, "/auth/confirmar/"+token, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = f.postForm(t, "/auth/login", url.Values{
		"email":    {"flujo@example.com"},
		"password": {"secret123"},
	}, "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/mis-propiedades", resp.Header.Get(fiber.HeaderLocation))

	proof := sessionCookie(resp)
	require.NotEqual(t, "", proof)

	resp = f.get(t, "/mis-propiedades?pagina=1", proof)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDashboardPageParamValidation(t *testing.T) {
	f := newWebFixture(t)
	proof, _ := f.signup(t, "paginas@example.com")

	for _, q := range []string{"", "?pagina=0", "?pagina=abc", "?pagina=-1", "?pagina=01", "?pagina=99999999999999999999"} {
		resp := f.get(t, "/mis-propiedades"+q, proof)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, q)
		assert.Equal(t, "/mis-propiedades?pagina=1", resp.Header.Get(fiber.HeaderLocation), q)
	}
}

func TestPropertyCreateRedirectsToImageStep(t *testing.T) {
	f := newWebFixture(t)
	proof, _ := f.signup(t, "creadora@example.com")

	resp := f.postForm(t, "/propiedades/crear", url.Values{
		"titulo":          {"Casa en el centro"},
		"descripcion":     {"muy bien ubicada"},
		"habitaciones":    {"3"},
		"estacionamiento": {"1"},
		"wc":              {"2"},
		"calle":           {"Av. Juarez 10"},
		"lat":             {"19.43"},
		"lng":             {"-99.13"},
		"categoria":       {"1"},
		"precio":          {"1"},
	}, proof)

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get(fiber.HeaderLocation)
	assert.True(t, strings.HasPrefix(location, "/propiedades/agregar-imagen/"), location)
}

func TestOwnershipGateCollapsesOutcomes(t *testing.T) {
	f := newWebFixture(t)
	proof, owner := f.signup(t, "duena@example.com")
	otherProof, _ := f.signup(t, "intrusa@example.com")

	prop, err := f.engine.Create(f.ctx, owner.ID, property.CreateInput{
		Title: "Casa ajena", Description: "d", Rooms: 2, Bathrooms: 1,
		Street: "Calle 1", Lat: "0", Lng: "0", CategoryID: 1, PriceID: 1,
	})
	require.NoError(t, err)

	// a foreign listing and a missing listing produce the identical redirect
	for _, path := range []string{
		"/propiedades/editar/" + prop.ID.String(),
		"/propiedades/editar/" + uuid.NewString(),
		"/propiedades/agregar-imagen/" + prop.ID.String(),
		"/mensajes/" + prop.ID.String(),
	} {
		resp := f.get(t, path, otherProof)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/mis-propiedades", resp.Header.Get(fiber.HeaderLocation), path)
	}

	// while the owner passes
	resp := f.get(t, "/propiedades/editar/"+prop.ID.String(), proof)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPropertyToggleJSON(t *testing.T) {
	f := newWebFixture(t)
	proof, owner := f.signup(t, "toggle@example.com")

	prop, err := f.engine.Create(f.ctx, owner.ID, property.CreateInput{
		Title: "Casa", Description: "d", Rooms: 2, Bathrooms: 1,
		Street: "Calle 1", Lat: "0", Lng: "0", CategoryID: 1, PriceID: 1,
	})
	require.NoError(t, err)
	_, err = f.engine.AttachImage(f.ctx, prop.ID, owner.ID, "imagen.jpg")
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPut, "/propiedades/"+prop.ID.String(), nil)
	req.Header.Set(fiber.HeaderCookie, "_token="+proof)

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "application/json")
}

func TestPropertyToggleFailuresRedirect(t *testing.T) {
	f := newWebFixture(t)
	_, owner := f.signup(t, "propietaria@example.com")
	intruderProof, _ := f.signup(t, "ajena@example.com")

	prop, err := f.engine.Create(f.ctx, owner.ID, property.CreateInput{
		Title: "Casa", Description: "d", Rooms: 2, Bathrooms: 1,
		Street: "Calle 1", Lat: "0", Lng: "0", CategoryID: 1, PriceID: 1,
	})
	require.NoError(t, err)

	// a foreign listing, a missing listing and a malformed id all collapse
	// into the same redirect the rest of the dashboard mutations return
	for _, id := range []string{prop.ID.String(), uuid.NewString(), "no-es-uuid"} {
		req := httptest.NewRequest(fiber.MethodPut, "/propiedades/"+id, nil)
		req.Header.Set(fiber.HeaderCookie, "_token="+intruderProof)

		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, id)
		assert.Equal(t, "/mis-propiedades", resp.Header.Get(fiber.HeaderLocation), id)
	}
}

func TestPublicPropertyView(t *testing.T) {
	f := newWebFixture(t)
	_, owner := f.signup(t, "publica@example.com")

	prop, err := f.engine.Create(f.ctx, owner.ID, property.CreateInput{
		Title: "Casa visible", Description: "d", Rooms: 2, Bathrooms: 1,
		Street: "Calle 1", Lat: "0", Lng: "0", CategoryID: 1, PriceID: 1,
	})
	require.NoError(t, err)

	// unpublished reads as missing for the public
	resp := f.get(t, "/propiedades/"+prop.ID.String(), "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/404", resp.Header.Get(fiber.HeaderLocation))

	_, err = f.engine.AttachImage(f.ctx, prop.ID, owner.ID, "imagen.jpg")
	require.NoError(t, err)

	resp = f.get(t, "/propiedades/"+prop.ID.String(), "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMessagePostRequiresAuth(t *testing.T) {
	f := newWebFixture(t)
	_, owner := f.signup(t, "vendedora@example.com")
	buyerProof, _ := f.signup(t, "compradora@example.com")

	prop, err := f.engine.Create(f.ctx, owner.ID, property.CreateInput{
		Title: "Casa", Description: "d", Rooms: 2, Bathrooms: 1,
		Street: "Calle 1", Lat: "0", Lng: "0", CategoryID: 1, PriceID: 1,
	})
	require.NoError(t, err)
	_, err = f.engine.AttachImage(f.ctx, prop.ID, owner.ID, "imagen.jpg")
	require.NoError(t, err)

	form := url.Values{"mensaje": {"Hola, me interesa esta propiedad"}}

	resp := f.postForm(t, "/propiedades/"+prop.ID.String(), form, "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get(fiber.HeaderLocation))

	resp = f.postForm(t, "/propiedades/"+prop.ID.String(), form, buyerProof)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

	msgs, err := f.engine.ListMessages(f.ctx, prop.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestPasswordResetFlowOverHTTP(t *testing.T) {
	f := newWebFixture(t)
	f.signup(t, "olvidada@example.com")

	resp := f.postForm(t, "/auth/olvide-password", url.Values{
		"email": {"olvidada@example.com"},
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	token := f.notifier.resetTokens["olvidada@example.com"]
	require.NotEqual(t, "", token)

	resp = f.get(t, "/auth/olvide-password/"+token, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = f.postForm(t, "/auth/olvide-password/"+token, url.Values{
		"password": {"renovada456"},
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, err := f.accounts.Login(f.ctx, "olvidada@example.com", "renovada456")
	assert.NoError(t, err)
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newWebFixture(t)
	proof, _ := f.signup(t, "salida@example.com")

	resp := f.get(t, "/auth/cerrar-sesion", proof)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get(fiber.HeaderLocation))

	found := false
	for _, c := range resp.Cookies() {
		if c.Name == "_token" {
			found = true
			assert.Equal(t, "", c.Value)
		}
	}
	assert.True(t, found)
}

func TestUnknownCategoryRedirects404(t *testing.T) {
	f := newWebFixture(t)

	resp := f.get(t, "/categorias/999", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/404", resp.Header.Get(fiber.HeaderLocation))

	resp = f.get(t, "/categorias/abc", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}
