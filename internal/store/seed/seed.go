package seed

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/domain"
)

// zeile ist das CSV-Abbild eines Benutzereintrags mit genau einer
// Organisationszuordnung und einer Einheit. Rollen sind semikolongetrennt.
type zeile struct {
	Vorname         string `csv:"vorname"`
	Nachname        string `csv:"nachname"`
	Email           string `csv:"email"`
	Telefon         string `csv:"telefon"`
	OrgTyp          string `csv:"organisationstyp"`
	Untergliederung string `csv:"untergliederung"`
	Einheit         string `csv:"einheit"`
	Rollen          string `csv:"rollen"`
	Aktiv           string `csv:"aktiv"`
}

// Laden liest Benutzereinträge aus der CSV-Datei unter filePath.
// Ungültige Zeilen werden protokolliert und übersprungen, damit ein
// fehlerhafter Datensatz den Start nicht verhindert.
func Laden(filePath string, logger *zap.Logger) ([]domain.Eintrag, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("datei öffnen %s: %w", filePath, err)
	}
	defer file.Close()

	var zeilen []zeile
	if err := gocsv.UnmarshalFile(file, &zeilen); err != nil {
		return nil, fmt.Errorf("csv lesen: %w", err)
	}

	out := make([]domain.Eintrag, 0, len(zeilen))
	for i, z := range zeilen {
		eintrag, err := zeileZuEintrag(z)
		if err != nil {
			logger.Warn("ungültiger datensatz wird übersprungen",
				zap.Int("zeile", i+1),
				zap.Error(err),
			)
			continue
		}
		out = append(out, eintrag)
	}

	logger.Info("einträge aus CSV geladen",
		zap.Int("anzahl", len(out)),
		zap.String("datei", filePath),
	)
	return out, nil
}

// zeileZuEintrag validiert eine CSV-Zeile gegen die Organisationstabelle
// und die Rollenliste und baut daraus einen Eintrag.
func zeileZuEintrag(z zeile) (domain.Eintrag, error) {
	if z.Vorname == "" || z.Nachname == "" {
		return domain.Eintrag{}, fmt.Errorf("vorname und nachname sind erforderlich: %w", domain.ErrInvalidInput)
	}
	if !strings.Contains(z.Email, "@") {
		return domain.Eintrag{}, fmt.Errorf("ungültige email %q: %w", z.Email, domain.ErrInvalidInput)
	}
	if !domain.GueltigerOrgTyp(z.OrgTyp) {
		return domain.Eintrag{}, fmt.Errorf("unbekannter organisationstyp %q: %w", z.OrgTyp, domain.ErrInvalidInput)
	}
	if !enthaelt(domain.ErlaubteUntergliederungen(z.OrgTyp), z.Untergliederung) {
		return domain.Eintrag{}, fmt.Errorf("unbekannte untergliederung %q: %w", z.Untergliederung, domain.ErrInvalidInput)
	}
	if !enthaelt(domain.ErlaubteEinheiten(z.OrgTyp, z.Untergliederung), z.Einheit) {
		return domain.Eintrag{}, fmt.Errorf("unbekannte einheit %q: %w", z.Einheit, domain.ErrInvalidInput)
	}

	rollen := make([]domain.Rolle, 0)
	for _, name := range strings.Split(z.Rollen, ";") {
		rolle := domain.Rolle(strings.TrimSpace(name))
		if rolle == "" {
			continue
		}
		if !domain.GueltigeRolle(rolle) {
			return domain.Eintrag{}, fmt.Errorf("unbekannte rolle %q: %w", rolle, domain.ErrInvalidInput)
		}
		rollen = append(rollen, rolle)
	}
	if len(rollen) == 0 {
		return domain.Eintrag{}, fmt.Errorf("mindestens eine rolle erforderlich: %w", domain.ErrInvalidInput)
	}

	return domain.Eintrag{
		Person: domain.Person{
			Vorname:  z.Vorname,
			Nachname: z.Nachname,
			Email:    z.Email,
			Telefon:  z.Telefon,
		},
		Organisationen: []domain.Organisationszuordnung{{
			Typ:             z.OrgTyp,
			Untergliederung: z.Untergliederung,
			Einheiten:       []domain.Einheit{{Name: z.Einheit, Rollen: rollen}},
		}},
		Aktiv: z.Aktiv != "nein" && z.Aktiv != "0" && z.Aktiv != "false",
	}, nil
}

func enthaelt(liste []string, wert string) bool {
	for _, v := range liste {
		if v == wert {
			return true
		}
	}
	return false
}
