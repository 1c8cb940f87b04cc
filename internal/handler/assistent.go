package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/domain"
	"verwaltungsportal-backend/internal/wizard"
)

// AssistentHandler stellt den Benutzeranlage-Assistenten über HTTP bereit.
// Jede Sitzung hält serverseitig genau einen Entwurf.
type AssistentHandler struct {
	manager *wizard.Manager
	logger  *zap.Logger
}

// NewAssistentHandler erstellt einen neuen AssistentHandler.
func NewAssistentHandler(manager *wizard.Manager, logger *zap.Logger) *AssistentHandler {
	return &AssistentHandler{manager: manager, logger: logger}
}

// zustand ist die Antwortform aller Assistenten-Endpunkte: der aktuelle
// Schritt, seine Gültigkeit samt Feldfehlern und der Entwurf.
type zustand struct {
	Sitzung        string            `json:"sitzung"`
	Schritt        int               `json:"schritt"`
	SchrittGueltig bool              `json:"schrittGueltig"`
	FeldFehler     map[string]string `json:"feldFehler"`
	Entwurf        domain.Eintrag    `json:"entwurf"`
	Bearbeitung    bool              `json:"bearbeitung"`
}

func zustandVon(sid string, c *wizard.Controller) zustand {
	schritt := c.Schritt()
	return zustand{
		Sitzung:        sid,
		Schritt:        schritt,
		SchrittGueltig: c.IstSchrittGueltig(schritt),
		FeldFehler:     c.FeldFehler(schritt),
		Entwurf:        c.Entwurf(),
		Bearbeitung:    c.EditierID() != "",
	}
}

// Start eröffnet eine neue Assistenten-Sitzung; mit eintragId im Body wird
// der bestehende Eintrag zur Bearbeitung geladen.
func (h *AssistentHandler) Start(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req struct {
		EintragID string `json:"eintragId"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{"ungültiger anfrage-body"})
			return
		}
	}

	sid, controller, err := h.manager.Start(r.Context(), req.EintragID)
	if err != nil {
		h.fehler(w, err, "assistent starten")
		return
	}
	writeJSON(w, http.StatusCreated, zustandVon(sid, controller))
}

// Get gibt den aktuellen Zustand der Sitzung zurück.
func (h *AssistentHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		writeJSON(w, http.StatusOK, zustandVon(sid, c))
	})
}

// AddOrganisation hängt eine leere Organisationszuordnung an den Entwurf an.
func (h *AssistentHandler) AddOrganisation(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		c.AddOrganisation()
		writeJSON(w, http.StatusOK, zustandVon(sid, c))
	})
}

// RemoveOrganisation entfernt die Zuordnung am Index; Index 0 ist gesperrt.
func (h *AssistentHandler) RemoveOrganisation(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		index, ok := h.indexParam(w, r, "index")
		if !ok {
			return
		}
		if err := c.RemoveOrganisation(index); err != nil {
			h.fehler(w, err, "organisation entfernen")
			return
		}
		writeJSON(w, http.StatusOK, zustandVon(sid, c))
	})
}

// PatchOrganisation setzt Typ, Untergliederung oder Einheitsauswahl der
// Zuordnung am Index. Bei mehreren Feldern greifen die Kaskaden in der
// Reihenfolge Typ -> Untergliederung -> Einheiten.
func (h *AssistentHandler) PatchOrganisation(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		index, ok := h.indexParam(w, r, "index")
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req struct {
			Typ             *string   `json:"typ"`
			Untergliederung *string   `json:"untergliederung"`
			Einheiten       *[]string `json:"einheiten"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{"ungültiger anfrage-body"})
			return
		}

		if req.Typ != nil {
			if err := c.SetOrganisationsTyp(index, *req.Typ); err != nil {
				h.fehler(w, err, "organisationstyp setzen")
				return
			}
		}
		if req.Untergliederung != nil {
			if err := c.SetUntergliederung(index, *req.Untergliederung); err != nil {
				h.fehler(w, err, "untergliederung setzen")
				return
			}
		}
		if req.Einheiten != nil {
			if err := c.SetEinheiten(index, *req.Einheiten); err != nil {
				h.fehler(w, err, "einheiten setzen")
				return
			}
		}
		writeJSON(w, http.StatusOK, zustandVon(sid, c))
	})
}

// SetRollen ersetzt die Rollenliste einer einzelnen Einheit.
func (h *AssistentHandler) SetRollen(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		orgIndex, ok := h.indexParam(w, r, "orgIndex")
		if !ok {
			return
		}
		einheitIndex, ok := h.indexParam(w, r, "einheitIndex")
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req struct {
			Rollen []domain.Rolle `json:"rollen"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{"ungültiger anfrage-body"})
			return
		}

		if err := c.SetEinheitsRollen(orgIndex, einheitIndex, req.Rollen); err != nil {
			h.fehler(w, err, "rollen setzen")
			return
		}
		writeJSON(w, http.StatusOK, zustandVon(sid, c))
	})
}

// PatchPerson aktualisiert die übergebenen Personenfelder des Entwurfs.
func (h *AssistentHandler) PatchPerson(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req struct {
			Vorname  *string `json:"vorname"`
			Nachname *string `json:"nachname"`
			Email    *string `json:"email"`
			Telefon  *string `json:"telefon"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{"ungültiger anfrage-body"})
			return
		}

		felder := map[string]*string{
			"vorname":  req.Vorname,
			"nachname": req.Nachname,
			"email":    req.Email,
			"telefon":  req.Telefon,
		}
		for feld, wert := range felder {
			if wert == nil {
				continue
			}
			if err := c.SetPersonFeld(feld, *wert); err != nil {
				h.fehler(w, err, "personenfeld setzen")
				return
			}
		}
		writeJSON(w, http.StatusOK, zustandVon(sid, c))
	})
}

// Weiter rückt einen Schritt vor, sofern der aktuelle Schritt gültig ist.
// Ungültige Schritte ergeben 422 mit den Feldfehlern des Schritts.
func (h *AssistentHandler) Weiter(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		schritt := c.Schritt()
		if !c.IstSchrittGueltig(schritt) {
			writeJSON(w, http.StatusUnprocessableEntity,
				feldFehlerBody{"schritt unvollständig", c.FeldFehler(schritt)})
			return
		}
		c.Weiter()
		writeJSON(w, http.StatusOK, zustandVon(sid, c))
	})
}

// Zurueck rückt einen Schritt zurück.
func (h *AssistentHandler) Zurueck(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		c.Zurueck()
		writeJSON(w, http.StatusOK, zustandVon(sid, c))
	})
}

// Speichern macht aus dem Entwurf einen Eintrag (Neuanlage oder Ersetzen)
// und setzt den Assistenten zurück.
func (h *AssistentHandler) Speichern(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		eintrag, err := c.Speichern(r.Context())
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				writeJSON(w, http.StatusUnprocessableEntity,
					feldFehlerBody{"entwurf unvollständig", c.FeldFehler(wizard.SchrittPerson)})
				return
			}
			h.fehler(w, err, "eintrag speichern")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"eintrag": eintrag})
	})
}

// Berechtigungen gibt die abgeleiteten Berechtigungen der Zuordnung am
// Index für die Zusammenfassungsansicht zurück.
func (h *AssistentHandler) Berechtigungen(w http.ResponseWriter, r *http.Request) {
	h.mitController(w, r, func(sid string, c *wizard.Controller) {
		index, ok := h.indexParam(w, r, "index")
		if !ok {
			return
		}
		berechtigungen, err := c.AbgeleiteteBerechtigungen(index)
		if err != nil {
			h.fehler(w, err, "berechtigungen ableiten")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"berechtigungen": berechtigungen})
	})
}

// Verwerfen beendet die Sitzung und verwirft den Entwurf.
func (h *AssistentHandler) Verwerfen(w http.ResponseWriter, r *http.Request) {
	h.manager.Verwerfen(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}

// mitController löst die Sitzung auf und ruft fn mit ihrem Controller auf.
func (h *AssistentHandler) mitController(w http.ResponseWriter, r *http.Request, fn func(sid string, c *wizard.Controller)) {
	sid := chi.URLParam(r, "sid")
	controller, err := h.manager.Get(sid)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{"assistenten-sitzung nicht gefunden"})
		return
	}
	fn(sid, controller)
}

func (h *AssistentHandler) indexParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{name + " muss eine ganzzahl sein"})
		return 0, false
	}
	return index, true
}

func (h *AssistentHandler) fehler(w http.ResponseWriter, err error, aktion string) {
	status := statusFuer(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(aktion, zap.Error(err))
		writeJSON(w, status, errorBody{"interner serverfehler"})
		return
	}
	writeJSON(w, status, errorBody{err.Error()})
}
