package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/domain"
	"verwaltungsportal-backend/internal/store"
	"verwaltungsportal-backend/internal/view"
)

// EintragHandler stellt die Benutzerverwaltungs-Endpunkte über HTTP bereit.
type EintragHandler struct {
	store    store.EintragStore
	proSeite int
	logger   *zap.Logger
}

// NewEintragHandler erstellt einen neuen EintragHandler.
// proSeite ist die feste Seitengröße der Tabellenansicht.
func NewEintragHandler(s store.EintragStore, proSeite int, logger *zap.Logger) *EintragHandler {
	return &EintragHandler{store: s, proSeite: proSeite, logger: logger}
}

// List gibt die sichtbare Seite der Eintragsliste zurück, bestimmt durch
// Suchbegriff, Filter, Sortierung und Seitennummer aus den Query-Parametern.
func (h *EintragHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := queryAusRequest(r, h.proSeite)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{err.Error()})
		return
	}

	eintraege, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("einträge abrufen", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{"interner serverfehler"})
		return
	}

	writeJSON(w, http.StatusOK, view.Apply(eintraege, q))
}

// Get gibt einen einzelnen Eintrag anhand seiner ID zurück.
func (h *EintragHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	eintrag, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fehler(w, err, "eintrag abrufen")
		return
	}
	writeJSON(w, http.StatusOK, eintrag)
}

// Delete entfernt einen Eintrag. Die Rückfrage beim Benutzer ist Sache der
// Oberfläche; hier wird bedingungslos gelöscht.
func (h *EintragHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Remove(r.Context(), id); err != nil {
		h.fehler(w, err, "eintrag löschen")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleStatus kippt das Aktiv-Flag eines Eintrags.
func (h *EintragHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	eintrag, err := h.store.ToggleAktiv(r.Context(), id)
	if err != nil {
		h.fehler(w, err, "status umschalten")
		return
	}
	writeJSON(w, http.StatusOK, eintrag)
}

// Berechtigungen gibt die abgeleiteten Berechtigungen eines Eintrags je
// Organisationszuordnung zurück. Sie werden berechnet, nicht gespeichert.
func (h *EintragHandler) Berechtigungen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	eintrag, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fehler(w, err, "berechtigungen abrufen")
		return
	}

	type orgBerechtigungen struct {
		Typ             string   `json:"typ"`
		Untergliederung string   `json:"untergliederung"`
		Berechtigungen  []string `json:"berechtigungen"`
	}
	out := make([]orgBerechtigungen, 0, len(eintrag.Organisationen))
	for _, org := range eintrag.Organisationen {
		var rollen []domain.Rolle
		for _, einheit := range org.Einheiten {
			rollen = append(rollen, einheit.Rollen...)
		}
		out = append(out, orgBerechtigungen{
			Typ:             org.Typ,
			Untergliederung: org.Untergliederung,
			Berechtigungen:  domain.BerechtigungenFuer(rollen),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"organisationen": out})
}

func (h *EintragHandler) fehler(w http.ResponseWriter, err error, aktion string) {
	if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrInvalidInput) {
		h.logger.Error(aktion, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{"interner serverfehler"})
		return
	}
	writeJSON(w, statusFuer(err), errorBody{err.Error()})
}

// queryAusRequest übersetzt die Query-Parameter in eine view.Query.
// Unbekannte Sortierschlüssel und Richtungen werden abgelehnt.
func queryAusRequest(r *http.Request, proSeite int) (view.Query, error) {
	params := r.URL.Query()

	q := view.Query{
		Suche:    params.Get("suche"),
		OrgTyp:   standard(params.Get("organisationstyp"), view.Alle),
		Status:   standard(params.Get("status"), view.Alle),
		Rolle:    standard(params.Get("rolle"), view.Alle),
		Richtung: standard(params.Get("richtung"), view.Aufsteigend),
		Seite:    1,
		ProSeite: proSeite,
	}

	switch key := view.SortKey(params.Get("sortierung")); key {
	case view.SortKeine, view.SortBenutzer, view.SortOrganisationen,
		view.SortEinheit, view.SortRolle, view.SortStatus:
		q.SortKey = key
	default:
		return view.Query{}, errors.New("unbekannter sortierschlüssel")
	}

	if q.Richtung != view.Aufsteigend && q.Richtung != view.Absteigend {
		return view.Query{}, errors.New("richtung muss asc oder desc sein")
	}

	if s := params.Get("seite"); s != "" {
		seite, err := strconv.Atoi(s)
		if err != nil || seite < 1 {
			return view.Query{}, errors.New("seite muss eine ganzzahl ab 1 sein")
		}
		q.Seite = seite
	}
	return q, nil
}

func standard(wert, fallback string) string {
	if wert == "" {
		return fallback
	}
	return wert
}
