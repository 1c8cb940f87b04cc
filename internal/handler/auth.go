package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/auth"
)

// AuthDienst definiert den Vertrag, den der Handler vom Auth-Client erwartet.
type AuthDienst interface {
	Login(ctx context.Context, username, password string) (bool, error)
	Register(ctx context.Context, username, email, password string) (bool, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	LetzterFehler() string
}

// AuthHandler stellt die Anmelde-Endpunkte über HTTP bereit. Die eigentliche
// Authentifizierung übernimmt der externe Auth-Dienst.
type AuthHandler struct {
	dienst   AuthDienst
	session  *auth.Session
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAuthHandler erstellt einen neuen AuthHandler.
func NewAuthHandler(dienst AuthDienst, session *auth.Session, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		dienst:   dienst,
		session:  session,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// Login prüft die Zugangsdaten beim Auth-Dienst. Falsche Zugangsdaten
// ergeben 401 mit der Meldung des Dienstes, keine Exception.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"ungültiger anfrage-body"})
		return
	}
	if fehler := h.feldFehler(req); len(fehler) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, feldFehlerBody{"validierung fehlgeschlagen", fehler})
		return
	}

	ok, err := h.dienst.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Error("anmeldung am auth-dienst", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorBody{auth.FallbackMeldung})
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"erfolg":    false,
			"nachricht": h.dienst.LetzterFehler(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"erfolg":   true,
		"benutzer": h.session.Benutzer(),
	})
}

// Register legt ein neues Konto beim Auth-Dienst an.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"ungültiger anfrage-body"})
		return
	}
	if fehler := h.feldFehler(req); len(fehler) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, feldFehlerBody{"validierung fehlgeschlagen", fehler})
		return
	}

	ok, err := h.dienst.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.Error("registrierung am auth-dienst", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorBody{auth.FallbackMeldung})
		return
	}
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]any{
			"erfolg":    false,
			"nachricht": h.dienst.LetzterFehler(),
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"erfolg": true})
}

// Logout meldet den Benutzer ab; die Session wird immer geleert.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.dienst.Logout(r.Context()); err != nil {
		h.logger.Warn("abmeldung fehlgeschlagen", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me gibt den aktuell angemeldeten Benutzer zurück.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	benutzer := h.session.Benutzer()
	if benutzer == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{"nicht angemeldet"})
		return
	}
	writeJSON(w, http.StatusOK, benutzer)
}

// feldFehler validiert die Anfrage und übersetzt Verstöße in deutsche
// Meldungen je Feld.
func (h *AuthHandler) feldFehler(req any) map[string]string {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verstoesse validator.ValidationErrors
	fehler := make(map[string]string)
	if !errors.As(err, &verstoesse) {
		fehler["anfrage"] = "validierung fehlgeschlagen"
		return fehler
	}
	for _, v := range verstoesse {
		fehler[feldName(v.Field())] = feldMeldung(v)
	}
	return fehler
}

func feldName(feld string) string {
	switch feld {
	case "Username":
		return "username"
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "PasswordConfirm":
		return "passwordConfirm"
	default:
		return feld
	}
}

func feldMeldung(v validator.FieldError) string {
	switch v.Field() {
	case "Username":
		return "Benutzername wird benötigt"
	case "Email":
		if v.Tag() == "email" {
			return "Gültige E-Mail-Adresse wird benötigt"
		}
		return "E-Mail wird benötigt"
	case "Password":
		if v.Tag() == "min" {
			return "Passwort muss mindestens 8 Zeichen haben"
		}
		return "Passwort wird benötigt"
	case "PasswordConfirm":
		if v.Tag() == "eqfield" {
			return "Passwörter stimmen nicht überein"
		}
		return "Passwortbestätigung wird benötigt"
	default:
		return "Ungültige Eingabe"
	}
}
