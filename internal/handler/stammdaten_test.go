package handler

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verwaltungsportal-backend/internal/domain"
)

func neuerStammdatenTestRouter() chi.Router {
	h := NewStammdatenHandler()
	r := chi.NewRouter()
	r.Get("/api/stammdaten/organisationen", h.Organisationen)
	r.Get("/api/stammdaten/rollen", h.Rollen)
	return r
}

func TestOrganisationen_FesteReihenfolge(t *testing.T) {
	router := neuerStammdatenTestRouter()

	rec := get(t, router, "/api/stammdaten/organisationen")
	require.Equal(t, http.StatusOK, rec.Code)

	var antwort struct {
		Typen []struct {
			Name              string `json:"name"`
			Untergliederungen []struct {
				Name      string   `json:"name"`
				Einheiten []string `json:"einheiten"`
			} `json:"untergliederungen"`
		} `json:"typen"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&antwort))

	require.Len(t, antwort.Typen, 2)
	assert.Equal(t, "Kreisfreie Stadt", antwort.Typen[0].Name)
	assert.Equal(t, "Kreis", antwort.Typen[1].Name)

	require.Len(t, antwort.Typen[0].Untergliederungen, 3)
	assert.Equal(t, "Bonn", antwort.Typen[0].Untergliederungen[0].Name)
	assert.Equal(t, []string{"BF Bonn", "FF Bonn", "Leitstelle Bonn"},
		antwort.Typen[0].Untergliederungen[0].Einheiten)
}

func TestRollen_MitBerechtigungen(t *testing.T) {
	router := neuerStammdatenTestRouter()

	rec := get(t, router, "/api/stammdaten/rollen")
	require.Equal(t, http.StatusOK, rec.Code)

	var antwort struct {
		Rollen []struct {
			Name           domain.Rolle `json:"name"`
			Berechtigungen []string     `json:"berechtigungen"`
		} `json:"rollen"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&antwort))

	require.Len(t, antwort.Rollen, len(domain.AlleRollen))
	for _, r := range antwort.Rollen {
		assert.True(t, domain.GueltigeRolle(r.Name))
		assert.NotEmpty(t, r.Berechtigungen)
	}
}
