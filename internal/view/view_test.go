package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verwaltungsportal-backend/internal/domain"
)

// eintrag baut einen Testeintrag mit einer Organisation und einer Einheit.
func eintrag(vorname, nachname, email, orgTyp, einheit string, aktiv bool, rollen ...domain.Rolle) domain.Eintrag {
	return domain.Eintrag{
		ID:     vorname + "-" + nachname,
		Person: domain.Person{Vorname: vorname, Nachname: nachname, Email: email},
		Organisationen: []domain.Organisationszuordnung{{
			Typ:             orgTyp,
			Untergliederung: "Bonn",
			Einheiten:       []domain.Einheit{{Name: einheit, Rollen: rollen}},
		}},
		Aktiv: aktiv,
	}
}

func testDaten() []domain.Eintrag {
	return []domain.Eintrag{
		eintrag("Max", "Mustermann", "max@test.de", "Kreisfreie Stadt", "BF Bonn", true, domain.RolleErfasser),
		eintrag("Erika", "Musterfrau", "erika@test.de", "Kreis", "FF Siegburg", true, domain.RolleSuperadmin),
		eintrag("Hans", "Müller", "hans@firma.de", "Kreisfreie Stadt", "BF Köln", false, domain.RolleAuswerter),
		eintrag("Anna", "Schmidt", "anna@firma.de", "Kreis", "FF Mettmann", true, domain.RolleSchadenslage),
	}
}

func alleQuery() Query {
	return Query{OrgTyp: Alle, Status: Alle, Rolle: Alle, Richtung: Aufsteigend, Seite: 1, ProSeite: 5}
}

func TestFilter_LeererSuchbegriffPasstImmer(t *testing.T) {
	page := Apply(testDaten(), alleQuery())
	assert.Equal(t, 4, page.TrefferGesamt)
}

func TestFilter_SucheNameUndEmail(t *testing.T) {
	q := alleQuery()
	q.Suche = "muster"
	page := Apply(testDaten(), q)
	assert.Equal(t, 2, page.TrefferGesamt)

	// Groß-/Kleinschreibung spielt keine Rolle.
	q.Suche = "MAX@TEST"
	page = Apply(testDaten(), q)
	require.Equal(t, 1, page.TrefferGesamt)
	assert.Equal(t, "Max", page.Eintraege[0].Person.Vorname)

	// Suche über den vollen Namen "Vorname Nachname".
	q.Suche = "max muster"
	page = Apply(testDaten(), q)
	assert.Equal(t, 1, page.TrefferGesamt)
}

func TestFilter_Konjunktion(t *testing.T) {
	// Jedes Prädikat muss unabhängig erfüllt sein.
	q := alleQuery()
	q.OrgTyp = "Kreis"
	q.Status = "Aktiv"
	q.Rolle = string(domain.RolleSuperadmin)

	page := Apply(testDaten(), q)
	require.Equal(t, 1, page.TrefferGesamt)
	assert.Equal(t, "Erika", page.Eintraege[0].Person.Vorname)

	// Dieselbe Rolle, aber falscher Organisationstyp: kein Treffer.
	q.OrgTyp = "Kreisfreie Stadt"
	page = Apply(testDaten(), q)
	assert.Zero(t, page.TrefferGesamt)
}

func TestFilter_AktivInaktiv(t *testing.T) {
	q := alleQuery()
	q.Status = "Inaktiv"
	page := Apply(testDaten(), q)
	require.Equal(t, 1, page.TrefferGesamt)
	assert.Equal(t, "Hans", page.Eintraege[0].Person.Vorname)
}

func TestSort_BenutzerAufUndAbsteigend(t *testing.T) {
	q := alleQuery()
	q.SortKey = SortBenutzer
	page := Apply(testDaten(), q)
	assert.Equal(t, "Anna", page.Eintraege[0].Person.Vorname)
	assert.Equal(t, "Max", page.Eintraege[3].Person.Vorname)

	q.Richtung = Absteigend
	page = Apply(testDaten(), q)
	assert.Equal(t, "Max", page.Eintraege[0].Person.Vorname)
}

func TestSort_StatusDirektAlsBoolean(t *testing.T) {
	q := alleQuery()
	q.SortKey = SortStatus
	page := Apply(testDaten(), q)
	// Aufsteigend: inaktive (false) zuerst.
	assert.False(t, page.Eintraege[0].Aktiv)
	assert.Equal(t, "Hans", page.Eintraege[0].Person.Vorname)
}

func TestSort_StabilitaetUndRuecknahme(t *testing.T) {
	daten := testDaten()

	// Nach Status sortieren und wieder ohne Schlüssel anwenden:
	// die Einfügereihenfolge muss zurückkehren.
	q := alleQuery()
	q.SortKey = SortStatus
	_ = Apply(daten, q)

	q.SortKey = SortKeine
	page := Apply(daten, q)
	assert.Equal(t, "Max", page.Eintraege[0].Person.Vorname)
	assert.Equal(t, "Erika", page.Eintraege[1].Person.Vorname)
	assert.Equal(t, "Hans", page.Eintraege[2].Person.Vorname)
	assert.Equal(t, "Anna", page.Eintraege[3].Person.Vorname)

	// Gleiche Sortierschlüssel behalten ihre relative Reihenfolge (stabil):
	// alle aktiven Einträge bleiben in Einfügereihenfolge.
	q.SortKey = SortStatus
	page = Apply(daten, q)
	assert.Equal(t, "Hans", page.Eintraege[0].Person.Vorname)
	assert.Equal(t, "Max", page.Eintraege[1].Person.Vorname)
	assert.Equal(t, "Erika", page.Eintraege[2].Person.Vorname)
	assert.Equal(t, "Anna", page.Eintraege[3].Person.Vorname)
}

func TestSort_EinheitUndRolleKommagetrennt(t *testing.T) {
	daten := []domain.Eintrag{
		eintrag("Zoe", "Zander", "z@test.de", "Kreis", "Leitstelle Rhein-Sieg", true, domain.RolleAuswerter),
		eintrag("Adam", "Abel", "a@test.de", "Kreisfreie Stadt", "BF Bonn", true, domain.RolleErfasser),
	}
	q := alleQuery()
	q.SortKey = SortEinheit
	page := Apply(daten, q)
	assert.Equal(t, "Adam", page.Eintraege[0].Person.Vorname)

	q.SortKey = SortRolle
	page = Apply(daten, q)
	assert.Equal(t, "Zoe", page.Eintraege[0].Person.Vorname)
}

func TestPaginierung_SeitenGesamtUndAusschnitt(t *testing.T) {
	daten := make([]domain.Eintrag, 0, 12)
	for i := 0; i < 12; i++ {
		daten = append(daten, eintrag("Person", string(rune('A'+i)), "p@test.de", "Kreis", "FF Siegburg", true, domain.RolleErfasser))
	}

	q := alleQuery()
	page := Apply(daten, q)
	assert.Equal(t, 3, page.SeitenGesamt)
	assert.Len(t, page.Eintraege, 5)

	q.Seite = 3
	page = Apply(daten, q)
	assert.Len(t, page.Eintraege, 2)
	assert.Equal(t, 3, page.Seite)
}

func TestPaginierung_SeiteWirdGeklemmt(t *testing.T) {
	// Nach einem schrumpfenden Filter darf keine leere Phantomseite entstehen.
	q := alleQuery()
	q.Seite = 7
	page := Apply(testDaten(), q)
	assert.Equal(t, 1, page.Seite)
	assert.Len(t, page.Eintraege, 4)

	// Auch bei leerer Treffermenge bleibt Seite 1.
	q.Suche = "niemand"
	page = Apply(testDaten(), q)
	assert.Equal(t, 1, page.Seite)
	assert.Zero(t, page.SeitenGesamt)
	assert.Empty(t, page.Eintraege)
}

func TestSzenario_AktiveSuperadminsImKreis(t *testing.T) {
	daten := []domain.Eintrag{
		eintrag("Erika", "Musterfrau", "erika@test.de", "Kreis", "FF Siegburg", true, domain.RolleSuperadmin),
		eintrag("Hans", "Müller", "hans@firma.de", "Kreisfreie Stadt", "BF Köln", false, domain.RolleErfasser),
	}
	q := alleQuery()
	q.Status = "Aktiv"
	q.Rolle = string(domain.RolleSuperadmin)

	page := Apply(daten, q)
	require.Equal(t, 1, page.TrefferGesamt)
	assert.Equal(t, "Erika", page.Eintraege[0].Person.Vorname)
}
