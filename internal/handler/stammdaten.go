package handler

import (
	"net/http"

	"verwaltungsportal-backend/internal/domain"
)

// StammdatenHandler liefert die statischen Nachschlagetabellen für die
// Auswahlfelder des Assistenten: Organisationsstruktur und Rollen.
type StammdatenHandler struct{}

// NewStammdatenHandler erstellt einen neuen StammdatenHandler.
func NewStammdatenHandler() *StammdatenHandler {
	return &StammdatenHandler{}
}

// Organisationen gibt die Tabelle Typ -> Untergliederungen -> Einheiten in
// fester Anzeige-Reihenfolge zurück.
func (h *StammdatenHandler) Organisationen(w http.ResponseWriter, _ *http.Request) {
	type untergliederung struct {
		Name      string   `json:"name"`
		Einheiten []string `json:"einheiten"`
	}
	type orgTyp struct {
		Name              string            `json:"name"`
		Untergliederungen []untergliederung `json:"untergliederungen"`
	}

	out := make([]orgTyp, 0, len(domain.AlleOrgTypen))
	for _, typ := range domain.AlleOrgTypen {
		t := orgTyp{Name: typ}
		for _, name := range domain.ErlaubteUntergliederungen(typ) {
			t.Untergliederungen = append(t.Untergliederungen, untergliederung{
				Name:      name,
				Einheiten: domain.ErlaubteEinheiten(typ, name),
			})
		}
		out = append(out, t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"typen": out})
}

// Rollen gibt alle Rollen mit ihren Berechtigungen zurück.
func (h *StammdatenHandler) Rollen(w http.ResponseWriter, _ *http.Request) {
	type rolle struct {
		Name           domain.Rolle `json:"name"`
		Berechtigungen []string     `json:"berechtigungen"`
	}

	out := make([]rolle, 0, len(domain.AlleRollen))
	for _, r := range domain.AlleRollen {
		out = append(out, rolle{
			Name:           r,
			Berechtigungen: domain.BerechtigungenFuer([]domain.Rolle{r}),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rollen": out})
}
