package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/auth"
)

// mockAuthDienst implementiert AuthDienst für Handler-Tests.
type mockAuthDienst struct {
	session *auth.Session
	fehler  string
}

func (m *mockAuthDienst) Login(_ context.Context, username, password string) (bool, error) {
	if username == "max" && password == "geheim123" {
		m.session.SetToken("token-123")
		m.session.SetBenutzer(auth.Benutzer{Username: "max", Email: "max@test.de"})
		m.fehler = ""
		return true, nil
	}
	m.fehler = "Benutzername oder Passwort ist falsch"
	return false, nil
}

func (m *mockAuthDienst) Register(_ context.Context, username, _, _ string) (bool, error) {
	if username == "vergeben" {
		m.fehler = "Benutzername bereits vergeben"
		return false, nil
	}
	return true, nil
}

func (m *mockAuthDienst) Logout(_ context.Context) error {
	m.session.Leeren()
	return nil
}

func (m *mockAuthDienst) Refresh(_ context.Context) error { return nil }

func (m *mockAuthDienst) LetzterFehler() string { return m.fehler }

func neuerAuthTestRouter() (*auth.Session, chi.Router) {
	logger, _ := zap.NewDevelopment()
	session := auth.NewSession()
	h := NewAuthHandler(&mockAuthDienst{session: session}, session, logger)

	r := chi.NewRouter()
	r.Post("/api/auth/login", h.Login)
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/logout", h.Logout)
	r.Get("/api/auth/me", h.Me)
	return session, r
}

func postJSON(t *testing.T, router http.Handler, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	daten, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(daten))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLogin_Erfolgreich(t *testing.T) {
	_, router := neuerAuthTestRouter()

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "max", "password": "geheim123",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var antwort struct {
		Erfolg   bool          `json:"erfolg"`
		Benutzer auth.Benutzer `json:"benutzer"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&antwort))
	assert.True(t, antwort.Erfolg)
	assert.Equal(t, "max", antwort.Benutzer.Username)
}

func TestLogin_FalscheZugangsdaten(t *testing.T) {
	_, router := neuerAuthTestRouter()

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "max", "password": "falsch",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var antwort struct {
		Erfolg    bool   `json:"erfolg"`
		Nachricht string `json:"nachricht"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&antwort))
	assert.False(t, antwort.Erfolg)
	assert.Equal(t, "Benutzername oder Passwort ist falsch", antwort.Nachricht)
}

func TestLogin_LeereFelder(t *testing.T) {
	_, router := neuerAuthTestRouter()

	rec := postJSON(t, router, "/api/auth/login", map[string]string{})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var antwort feldFehlerBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&antwort))
	assert.Equal(t, "Benutzername wird benötigt", antwort.FeldFehler["username"])
	assert.Equal(t, "Passwort wird benötigt", antwort.FeldFehler["password"])
}

func TestRegister_Validierung(t *testing.T) {
	_, router := neuerAuthTestRouter()

	rec := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":           "keine-email",
		"password":        "kurz",
		"passwordConfirm": "anders",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var antwort feldFehlerBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&antwort))
	assert.Equal(t, "Benutzername wird benötigt", antwort.FeldFehler["username"])
	assert.Equal(t, "Gültige E-Mail-Adresse wird benötigt", antwort.FeldFehler["email"])
	assert.Equal(t, "Passwort muss mindestens 8 Zeichen haben", antwort.FeldFehler["password"])
	assert.Equal(t, "Passwörter stimmen nicht überein", antwort.FeldFehler["passwordConfirm"])
}

func TestRegister_Erfolgreich(t *testing.T) {
	_, router := neuerAuthTestRouter()

	rec := postJSON(t, router, "/api/auth/register", map[string]string{
		"username":        "neu",
		"email":           "neu@test.de",
		"password":        "geheim123",
		"passwordConfirm": "geheim123",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegister_BenutzernameVergeben(t *testing.T) {
	_, router := neuerAuthTestRouter()

	rec := postJSON(t, router, "/api/auth/register", map[string]string{
		"username":        "vergeben",
		"email":           "v@test.de",
		"password":        "geheim123",
		"passwordConfirm": "geheim123",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMe_NichtAngemeldet(t *testing.T) {
	_, router := neuerAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_NachLogin(t *testing.T) {
	_, router := neuerAuthTestRouter()
	postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "max", "password": "geheim123",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var benutzer auth.Benutzer
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&benutzer))
	assert.Equal(t, "max", benutzer.Username)
}

func TestLogout(t *testing.T) {
	session, router := neuerAuthTestRouter()
	postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "max", "password": "geheim123",
	})
	require.True(t, session.Angemeldet())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, session.Angemeldet())
}
