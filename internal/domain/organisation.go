package domain

// AlleOrgTypen listet die Organisationstypen in Anzeige-Reihenfolge.
var AlleOrgTypen = []string{
	"Kreisfreie Stadt",
	"Kreis",
}

// OrgStruktur ist die statische Nachschlagetabelle
// Organisationstyp -> Untergliederung -> erlaubte Einheitsnamen.
var OrgStruktur = map[string]map[string][]string{
	"Kreisfreie Stadt": {
		"Bonn":       {"BF Bonn", "FF Bonn", "Leitstelle Bonn"},
		"Köln":       {"BF Köln", "FF Köln", "Leitstelle Köln"},
		"Düsseldorf": {"BF Düsseldorf", "FF Düsseldorf", "Leitstelle Düsseldorf"},
	},
	"Kreis": {
		"Rhein-Sieg-Kreis": {"FF Siegburg", "FF Troisdorf", "Leitstelle Rhein-Sieg"},
		"Kreis Mettmann":   {"FF Mettmann", "FF Ratingen", "Leitstelle Mettmann"},
		"Rhein-Erft-Kreis": {"FF Bergheim", "FF Hürth", "Leitstelle Rhein-Erft"},
	},
}

// GueltigerOrgTyp meldet, ob typ ein bekannter Organisationstyp ist.
func GueltigerOrgTyp(typ string) bool {
	_, ok := OrgStruktur[typ]
	return ok
}

// ErlaubteUntergliederungen gibt alle Untergliederungen unter typ zurück,
// in der Reihenfolge der Tabellendefinition. Unbekannter Typ -> leere Liste.
func ErlaubteUntergliederungen(typ string) []string {
	unter, ok := OrgStruktur[typ]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(unter))
	for _, name := range untergliederungsReihenfolge[typ] {
		if _, ok := unter[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// ErlaubteEinheiten gibt die Einheitsnamen unter (typ, untergliederung)
// zurück. Unbekannte Kombination -> leere Liste.
func ErlaubteEinheiten(typ, untergliederung string) []string {
	unter, ok := OrgStruktur[typ]
	if !ok {
		return nil
	}
	einheiten, ok := unter[untergliederung]
	if !ok {
		return nil
	}
	return append([]string(nil), einheiten...)
}

// untergliederungsReihenfolge hält die Anzeige-Reihenfolge fest, da die
// Map-Iteration in Go nicht deterministisch ist.
var untergliederungsReihenfolge = map[string][]string{
	"Kreisfreie Stadt": {"Bonn", "Köln", "Düsseldorf"},
	"Kreis":            {"Rhein-Sieg-Kreis", "Kreis Mettmann", "Rhein-Erft-Kreis"},
}
