package domain

import "errors"

var (
	ErrNotFound        = errors.New("nicht gefunden")
	ErrInvalidInput    = errors.New("ungültige eingabe")
	ErrCapacityReached = errors.New("kapazität erreicht")
)

// Person enthält die persönlichen Daten eines Benutzereintrags.
// Vorname, Nachname und Email sind Pflichtfelder; Telefon ist optional.
type Person struct {
	Vorname  string `json:"vorname" csv:"vorname"`
	Nachname string `json:"nachname" csv:"nachname"`
	Email    string `json:"email" csv:"email"`
	Telefon  string `json:"telefon" csv:"telefon"`
}

// Einheit ist eine benannte Untereinheit innerhalb einer Untergliederung.
// Die Reihenfolge der Rollen bleibt erhalten (Einfügereihenfolge).
type Einheit struct {
	Name   string  `json:"name"`
	Rollen []Rolle `json:"rollen"`
}

// Organisationszuordnung verknüpft eine Person mit einem Teil der
// Organisationshierarchie: Typ -> Untergliederung -> Einheiten.
type Organisationszuordnung struct {
	Typ             string    `json:"typ"`
	Untergliederung string    `json:"untergliederung"`
	Einheiten       []Einheit `json:"einheiten"`
}

// Eintrag ist ein gespeicherter Benutzerdatensatz der Benutzerverwaltung.
// Die ID wird beim Einfügen vom Store vergeben und bleibt stabil.
type Eintrag struct {
	ID             string                   `json:"id"`
	Person         Person                   `json:"person"`
	Organisationen []Organisationszuordnung `json:"organisationen"`
	Aktiv          bool                     `json:"aktiv"`
}

// Clone gibt eine tiefe Kopie des Eintrags zurück, damit Aufrufer den
// Originalzustand nicht über geteilte Slices verändern können.
func (e Eintrag) Clone() Eintrag {
	out := e
	out.Organisationen = CloneOrganisationen(e.Organisationen)
	return out
}

// CloneOrganisationen kopiert eine Liste von Organisationszuordnungen
// einschließlich aller Einheiten und Rollen.
func CloneOrganisationen(orgs []Organisationszuordnung) []Organisationszuordnung {
	if orgs == nil {
		return nil
	}
	out := make([]Organisationszuordnung, len(orgs))
	for i, org := range orgs {
		out[i] = org
		out[i].Einheiten = make([]Einheit, len(org.Einheiten))
		for j, einheit := range org.Einheiten {
			out[i].Einheiten[j] = einheit
			out[i].Einheiten[j].Rollen = append([]Rolle(nil), einheit.Rollen...)
		}
	}
	return out
}

// VollerName gibt "Vorname Nachname" zurück, wie in Suche und Sortierung verwendet.
func (p Person) VollerName() string {
	return p.Vorname + " " + p.Nachname
}
