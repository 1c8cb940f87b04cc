package domain

import (
	"fmt"
	"sort"
)

// Rolle ist eine fest aufgezählte Bezeichnung, die einem Benutzer innerhalb
// einer Einheit zugewiesen wird und eine feste Menge von Berechtigungen verleiht.
type Rolle string

const (
	RolleErfasser     Rolle = "Erfasser"
	RolleAuswerter    Rolle = "Auswerter"
	RolleSuperadmin   Rolle = "Superadmin"
	RolleSchadenslage Rolle = "Schadenslage"
	RolleOptaErfasser Rolle = "Opta Erfasser"
)

// AlleRollen listet alle gültigen Rollen in Anzeige-Reihenfolge.
var AlleRollen = []Rolle{
	RolleErfasser,
	RolleAuswerter,
	RolleSuperadmin,
	RolleSchadenslage,
	RolleOptaErfasser,
}

// RollenBerechtigungen bildet jede Rolle auf ihre Berechtigungen ab.
// Superadmin erhält über BerechtigungenFuer immer die volle Menge.
var RollenBerechtigungen = map[Rolle][]string{
	RolleErfasser: {
		"lagen.erstellen",
		"lagen.bearbeiten",
		"lagen.lesen",
	},
	RolleAuswerter: {
		"lagen.lesen",
		"berichte.lesen",
		"berichte.exportieren",
	},
	RolleSuperadmin: {
		"benutzer.verwalten",
		"organisationen.verwalten",
	},
	RolleSchadenslage: {
		"schadenslagen.erstellen",
		"schadenslagen.bearbeiten",
		"lagen.lesen",
	},
	RolleOptaErfasser: {
		"opta.erfassen",
		"lagen.lesen",
	},
}

func init() {
	// Die Tabelle wird beim Laden geprüft: jede aufgezählte Rolle braucht
	// einen Eintrag, unbekannte Schlüssel sind nicht erlaubt.
	if len(RollenBerechtigungen) != len(AlleRollen) {
		panic(fmt.Sprintf("rollen-tabelle unvollständig: %d einträge, %d rollen",
			len(RollenBerechtigungen), len(AlleRollen)))
	}
	for _, rolle := range AlleRollen {
		if _, ok := RollenBerechtigungen[rolle]; !ok {
			panic(fmt.Sprintf("rolle %q ohne berechtigungen", rolle))
		}
	}
}

// GueltigeRolle meldet, ob name eine der aufgezählten Rollen ist.
func GueltigeRolle(name Rolle) bool {
	_, ok := RollenBerechtigungen[name]
	return ok
}

// AlleBerechtigungen gibt die volle, sortierte Berechtigungsmenge zurück
// (Vereinigung über alle Rollen).
func AlleBerechtigungen() []string {
	gesehen := make(map[string]struct{})
	for _, berechtigungen := range RollenBerechtigungen {
		for _, b := range berechtigungen {
			gesehen[b] = struct{}{}
		}
	}
	out := make([]string, 0, len(gesehen))
	for b := range gesehen {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// BerechtigungenFuer berechnet die abgeleiteten Berechtigungen einer
// Rollenliste: die Vereinigung der Berechtigungen aller Rollen, sortiert.
// Enthält die Liste Superadmin, ist das Ergebnis die volle Menge.
func BerechtigungenFuer(rollen []Rolle) []string {
	gesehen := make(map[string]struct{})
	for _, rolle := range rollen {
		if rolle == RolleSuperadmin {
			return AlleBerechtigungen()
		}
		for _, b := range RollenBerechtigungen[rolle] {
			gesehen[b] = struct{}{}
		}
	}
	out := make([]string, 0, len(gesehen))
	for b := range gesehen {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
