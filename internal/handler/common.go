package handler

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"verwaltungsportal-backend/internal/domain"
)

// maxRequestBody begrenzt die Body-Größe schreibender Anfragen auf 1 MegaByte.
const maxRequestBody = 1 << 20

// errorBody ist die einheitliche Fehlerantwort-Struktur.
type errorBody struct {
	Error string `json:"error"`
}

// feldFehlerBody transportiert Validierungsfehler als Feld -> Meldung.
type feldFehlerBody struct {
	Error      string            `json:"error"`
	FeldFehler map[string]string `json:"feldFehler"`
}

// writeJSON setzt den Content-Type-Header und schreibt v als JSON in w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFuer bildet Domänenfehler auf HTTP-Statuscodes ab.
func statusFuer(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrCapacityReached):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
