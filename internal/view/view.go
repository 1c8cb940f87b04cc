package view

import (
	"sort"
	"strings"

	"verwaltungsportal-backend/internal/domain"
)

// SortKey benennt die sortierbaren Tabellenspalten.
type SortKey string

const (
	SortKeine          SortKey = ""
	SortBenutzer       SortKey = "benutzer"
	SortOrganisationen SortKey = "organisationen"
	SortEinheit        SortKey = "einheit"
	SortRolle          SortKey = "rolle"
	SortStatus         SortKey = "status"
)

// Richtungen der Sortierung.
const (
	Aufsteigend = "asc"
	Absteigend  = "desc"
)

// Alle ist der Platzhalterwert, der einen Filter deaktiviert.
const Alle = "Alle"

// Query beschreibt den gewünschten Ausschnitt der Eintragsliste:
// Suchbegriff, Filter, Sortierung und Seite.
type Query struct {
	Suche    string
	OrgTyp   string // Organisationstyp oder "Alle"
	Status   string // "Aktiv", "Inaktiv" oder "Alle"
	Rolle    string // Rollenname oder "Alle"
	SortKey  SortKey
	Richtung string // "asc" oder "desc"
	Seite    int
	ProSeite int
}

// Page ist der sichtbare, sortierte und paginierte Ausschnitt.
// Seite ist die tatsächlich verwendete (geklemmte) Seitennummer.
type Page struct {
	Eintraege     []domain.Eintrag `json:"eintraege"`
	Seite         int              `json:"seite"`
	ProSeite      int              `json:"proSeite"`
	SeitenGesamt  int              `json:"seitenGesamt"`
	TrefferGesamt int              `json:"trefferGesamt"`
}

// Apply berechnet den sichtbaren Ausschnitt: erst filtern (Konjunktion
// aller vier Prädikate), dann stabil sortieren, dann paginieren. Die Seite
// wird bei jedem Aufruf auf min(seite, max(seitenGesamt, 1)) geklemmt,
// damit nach einem schrumpfenden Filter keine leere Phantomseite entsteht.
func Apply(eintraege []domain.Eintrag, q Query) Page {
	gefiltert := filtern(eintraege, q)
	sortieren(gefiltert, q)

	proSeite := q.ProSeite
	if proSeite <= 0 {
		proSeite = 5
	}
	seitenGesamt := (len(gefiltert) + proSeite - 1) / proSeite

	seite := q.Seite
	if seite < 1 {
		seite = 1
	}
	if maxSeite := max(seitenGesamt, 1); seite > maxSeite {
		seite = maxSeite
	}

	von := (seite - 1) * proSeite
	bis := von + proSeite
	if von > len(gefiltert) {
		von = len(gefiltert)
	}
	if bis > len(gefiltert) {
		bis = len(gefiltert)
	}

	return Page{
		Eintraege:     gefiltert[von:bis],
		Seite:         seite,
		ProSeite:      proSeite,
		SeitenGesamt:  seitenGesamt,
		TrefferGesamt: len(gefiltert),
	}
}

// filtern behält Einträge, die alle vier Prädikate erfüllen.
func filtern(eintraege []domain.Eintrag, q Query) []domain.Eintrag {
	out := make([]domain.Eintrag, 0, len(eintraege))
	for _, e := range eintraege {
		if passtSuche(e, q.Suche) &&
			passtOrgTyp(e, q.OrgTyp) &&
			passtStatus(e, q.Status) &&
			passtRolle(e, q.Rolle) {
			out = append(out, e)
		}
	}
	return out
}

// passtSuche prüft den Suchbegriff (klein geschrieben) als Teilzeichenkette
// von "Vorname Nachname" oder der E-Mail; leerer Begriff passt immer.
func passtSuche(e domain.Eintrag, suche string) bool {
	if suche == "" {
		return true
	}
	begriff := strings.ToLower(suche)
	return strings.Contains(strings.ToLower(e.Person.VollerName()), begriff) ||
		strings.Contains(strings.ToLower(e.Person.Email), begriff)
}

func passtOrgTyp(e domain.Eintrag, typ string) bool {
	if typ == "" || typ == Alle {
		return true
	}
	for _, org := range e.Organisationen {
		if org.Typ == typ {
			return true
		}
	}
	return false
}

func passtStatus(e domain.Eintrag, status string) bool {
	if status == "" || status == Alle {
		return true
	}
	return e.Aktiv == (status == "Aktiv")
}

func passtRolle(e domain.Eintrag, rolle string) bool {
	if rolle == "" || rolle == Alle {
		return true
	}
	for _, org := range e.Organisationen {
		for _, einheit := range org.Einheiten {
			for _, r := range einheit.Rollen {
				if string(r) == rolle {
					return true
				}
			}
		}
	}
	return false
}

// sortieren sortiert stabil nach dem gewählten Schlüssel; ohne Schlüssel
// bleibt die Einfügereihenfolge unverändert. Zeichenketten werden klein
// geschrieben verglichen, der Status direkt als Boolean.
func sortieren(eintraege []domain.Eintrag, q Query) {
	if q.SortKey == SortKeine {
		return
	}
	absteigend := q.Richtung == Absteigend

	sort.SliceStable(eintraege, func(i, j int) bool {
		var kleiner bool
		if q.SortKey == SortStatus {
			// false < true: inaktive Einträge zuerst bei aufsteigender Sortierung.
			if eintraege[i].Aktiv == eintraege[j].Aktiv {
				return false
			}
			kleiner = !eintraege[i].Aktiv
		} else {
			a := sortWert(eintraege[i], q.SortKey)
			b := sortWert(eintraege[j], q.SortKey)
			if a == b {
				return false
			}
			kleiner = a < b
		}
		if absteigend {
			return !kleiner
		}
		return kleiner
	})
}

// sortWert berechnet den Sortierschlüssel eines Eintrags als Zeichenkette.
func sortWert(e domain.Eintrag, key SortKey) string {
	switch key {
	case SortBenutzer:
		return strings.ToLower(e.Person.VollerName())
	case SortOrganisationen:
		if len(e.Organisationen) == 0 {
			return ""
		}
		return strings.ToLower(e.Organisationen[0].Typ)
	case SortEinheit:
		var namen []string
		for _, org := range e.Organisationen {
			for _, einheit := range org.Einheiten {
				namen = append(namen, einheit.Name)
			}
		}
		return strings.ToLower(strings.Join(namen, ","))
	case SortRolle:
		var rollen []string
		for _, org := range e.Organisationen {
			for _, einheit := range org.Einheiten {
				for _, r := range einheit.Rollen {
					rollen = append(rollen, string(r))
				}
			}
		}
		return strings.ToLower(strings.Join(rollen, ","))
	default:
		return ""
	}
}
