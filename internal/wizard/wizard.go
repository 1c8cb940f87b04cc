package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/domain"
	"verwaltungsportal-backend/internal/store"
)

// Schrittindizes des Assistenten.
const (
	SchrittOrganisation    = 0
	SchrittRollen          = 1
	SchrittPerson          = 2
	SchrittZusammenfassung = 3
)

// Controller führt den vierstufigen Assistenten, der genau einen
// validierten Benutzereintrag erzeugt. Der Entwurf gehört exklusiv dieser
// Assistenten-Sitzung; alle Methoden sind nebenläufigkeitssicher.
type Controller struct {
	mu        sync.Mutex
	store     store.EintragStore
	logger    *zap.Logger
	entwurf   domain.Eintrag
	schritt   int
	editierID string
}

// NewController erstellt einen Assistenten mit leerem Entwurf.
// Der Entwurf startet mit einer leeren Organisationszuordnung, da immer
// mindestens eine Zuordnung vorhanden sein muss.
func NewController(s store.EintragStore, logger *zap.Logger) *Controller {
	c := &Controller{store: s, logger: logger}
	c.entwurf = leererEntwurf()
	return c
}

func leererEntwurf() domain.Eintrag {
	return domain.Eintrag{
		Organisationen: []domain.Organisationszuordnung{{}},
		Aktiv:          true,
	}
}

// Entwurf gibt eine tiefe Kopie des aktuellen Entwurfs zurück.
func (c *Controller) Entwurf() domain.Eintrag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entwurf.Clone()
}

// Schritt gibt den aktuellen Schrittindex zurück.
func (c *Controller) Schritt() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schritt
}

// EditierID gibt die ID des bearbeiteten Eintrags zurück ("" = Neuanlage).
func (c *Controller) EditierID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editierID
}

// AddOrganisation hängt eine leere Organisationszuordnung an den Entwurf an.
// Eine Obergrenze gibt es nicht.
func (c *Controller) AddOrganisation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entwurf.Organisationen = append(c.entwurf.Organisationen, domain.Organisationszuordnung{})
}

// RemoveOrganisation entfernt die Zuordnung am gegebenen Index.
// Index 0 ist gesperrt: mindestens eine Zuordnung muss immer bestehen bleiben.
func (c *Controller) RemoveOrganisation(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index == 0 {
		return fmt.Errorf("erste organisationszuordnung kann nicht entfernt werden: %w", domain.ErrInvalidInput)
	}
	if index < 0 || index >= len(c.entwurf.Organisationen) {
		return fmt.Errorf("organisationsindex %d: %w", index, domain.ErrNotFound)
	}
	c.entwurf.Organisationen = append(
		c.entwurf.Organisationen[:index],
		c.entwurf.Organisationen[index+1:]...,
	)
	return nil
}

// SetOrganisationsTyp setzt den Organisationstyp der Zuordnung am Index.
// Untergliederung und Einheiten werden dabei zurückgesetzt, da beide vom
// Typ abhängen.
func (c *Controller) SetOrganisationsTyp(index int, typ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	org, err := c.organisation(index)
	if err != nil {
		return err
	}
	if !domain.GueltigerOrgTyp(typ) {
		return fmt.Errorf("unbekannter organisationstyp %q: %w", typ, domain.ErrInvalidInput)
	}
	org.Typ = typ
	resetUntergliederungUndEinheiten(org)
	return nil
}

// SetUntergliederung setzt die Untergliederung der Zuordnung am Index.
// Die Einheiten werden zurückgesetzt, da die Einheitsliste von der
// Untergliederung abhängt.
func (c *Controller) SetUntergliederung(index int, untergliederung string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	org, err := c.organisation(index)
	if err != nil {
		return err
	}
	if !enthaelt(domain.ErlaubteUntergliederungen(org.Typ), untergliederung) {
		return fmt.Errorf("untergliederung %q nicht erlaubt unter %q: %w",
			untergliederung, org.Typ, domain.ErrInvalidInput)
	}
	org.Untergliederung = untergliederung
	resetEinheiten(org)
	return nil
}

// SetEinheiten ersetzt die Einheitsauswahl der Zuordnung am Index.
// Bereits zugewiesene Rollen bleiben für Einheiten erhalten, deren Name
// weiterhin ausgewählt ist; abgewählte Einheiten verlieren ihre Rollen.
func (c *Controller) SetEinheiten(index int, namen []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	org, err := c.organisation(index)
	if err != nil {
		return err
	}
	erlaubt := domain.ErlaubteEinheiten(org.Typ, org.Untergliederung)
	for _, name := range namen {
		if !enthaelt(erlaubt, name) {
			return fmt.Errorf("einheit %q nicht erlaubt unter %q/%q: %w",
				name, org.Typ, org.Untergliederung, domain.ErrInvalidInput)
		}
	}

	bisherigeRollen := make(map[string][]domain.Rolle, len(org.Einheiten))
	for _, einheit := range org.Einheiten {
		bisherigeRollen[einheit.Name] = einheit.Rollen
	}

	einheiten := make([]domain.Einheit, 0, len(namen))
	for _, name := range namen {
		einheiten = append(einheiten, domain.Einheit{
			Name:   name,
			Rollen: append([]domain.Rolle(nil), bisherigeRollen[name]...),
		})
	}
	org.Einheiten = einheiten
	return nil
}

// SetEinheitsRollen ersetzt die Rollenliste einer einzelnen Einheit.
func (c *Controller) SetEinheitsRollen(orgIndex, einheitIndex int, rollen []domain.Rolle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	org, err := c.organisation(orgIndex)
	if err != nil {
		return err
	}
	if einheitIndex < 0 || einheitIndex >= len(org.Einheiten) {
		return fmt.Errorf("einheitsindex %d: %w", einheitIndex, domain.ErrNotFound)
	}
	for _, rolle := range rollen {
		if !domain.GueltigeRolle(rolle) {
			return fmt.Errorf("unbekannte rolle %q: %w", rolle, domain.ErrInvalidInput)
		}
	}
	org.Einheiten[einheitIndex].Rollen = append([]domain.Rolle(nil), rollen...)
	return nil
}

// SetPersonFeld aktualisiert ein einzelnes Attribut der persönlichen Daten.
// Gültige Felder: vorname, nachname, email, telefon.
func (c *Controller) SetPersonFeld(feld, wert string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch feld {
	case "vorname":
		c.entwurf.Person.Vorname = wert
	case "nachname":
		c.entwurf.Person.Nachname = wert
	case "email":
		c.entwurf.Person.Email = wert
	case "telefon":
		c.entwurf.Person.Telefon = wert
	default:
		return fmt.Errorf("unbekanntes personenfeld %q: %w", feld, domain.ErrInvalidInput)
	}
	return nil
}

// Weiter bewegt den Assistenten einen Schritt vor (höchstens Schritt 3).
// Die Gültigkeitsprüfung liegt beim Aufrufer; der Controller blockiert nicht.
func (c *Controller) Weiter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.schritt < SchrittZusammenfassung {
		c.schritt++
	}
}

// Zurueck bewegt den Assistenten einen Schritt zurück (mindestens Schritt 0).
func (c *Controller) Zurueck() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.schritt > SchrittOrganisation {
		c.schritt--
	}
}

// IstSchrittGueltig prüft das Gültigkeitsprädikat des gegebenen Schritts.
// Schritt 3 wertet die Schritte 0 bis 2 erneut aus, ohne zu cachen; alle
// Prädikate sind reine Funktionen über dem Entwurf.
func (c *Controller) IstSchrittGueltig(schritt int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return istSchrittGueltig(c.entwurf, schritt)
}

func istSchrittGueltig(entwurf domain.Eintrag, schritt int) bool {
	switch schritt {
	case SchrittOrganisation:
		if len(entwurf.Organisationen) == 0 {
			return false
		}
		for _, org := range entwurf.Organisationen {
			if org.Typ == "" || org.Untergliederung == "" || len(org.Einheiten) == 0 {
				return false
			}
		}
		return true
	case SchrittRollen:
		for _, org := range entwurf.Organisationen {
			for _, einheit := range org.Einheiten {
				if len(einheit.Rollen) == 0 {
					return false
				}
			}
		}
		return true
	case SchrittPerson:
		return entwurf.Person.Vorname != "" &&
			entwurf.Person.Nachname != "" &&
			strings.Contains(entwurf.Person.Email, "@")
	case SchrittZusammenfassung:
		return istSchrittGueltig(entwurf, SchrittOrganisation) &&
			istSchrittGueltig(entwurf, SchrittRollen) &&
			istSchrittGueltig(entwurf, SchrittPerson)
	default:
		return false
	}
}

// FeldFehler liefert die Validierungsfehler des gegebenen Schritts als
// Abbildung Feldname -> Meldung. Fehler sind Daten, keine Exceptions.
func (c *Controller) FeldFehler(schritt int) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	fehler := make(map[string]string)
	switch schritt {
	case SchrittOrganisation:
		for i, org := range c.entwurf.Organisationen {
			if org.Typ == "" {
				fehler[fmt.Sprintf("organisationen[%d].typ", i)] = "Organisationstyp wird benötigt"
			}
			if org.Untergliederung == "" {
				fehler[fmt.Sprintf("organisationen[%d].untergliederung", i)] = "Untergliederung wird benötigt"
			}
			if len(org.Einheiten) == 0 {
				fehler[fmt.Sprintf("organisationen[%d].einheiten", i)] = "Mindestens eine Einheit wird benötigt"
			}
		}
	case SchrittRollen:
		for i, org := range c.entwurf.Organisationen {
			for j, einheit := range org.Einheiten {
				if len(einheit.Rollen) == 0 {
					fehler[fmt.Sprintf("organisationen[%d].einheiten[%d].rollen", i, j)] = "Mindestens eine Rolle wird benötigt"
				}
			}
		}
	case SchrittPerson:
		if c.entwurf.Person.Vorname == "" {
			fehler["vorname"] = "Vorname wird benötigt"
		}
		if c.entwurf.Person.Nachname == "" {
			fehler["nachname"] = "Nachname wird benötigt"
		}
		if !strings.Contains(c.entwurf.Person.Email, "@") {
			fehler["email"] = "Gültige E-Mail-Adresse wird benötigt"
		}
	}
	return fehler
}

// AbgeleiteteBerechtigungen berechnet die Berechtigungen der Zuordnung am
// Index als Vereinigung über die Rollen aller ihrer Einheiten.
func (c *Controller) AbgeleiteteBerechtigungen(orgIndex int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	org, err := c.organisation(orgIndex)
	if err != nil {
		return nil, err
	}
	var rollen []domain.Rolle
	for _, einheit := range org.Einheiten {
		rollen = append(rollen, einheit.Rollen...)
	}
	return domain.BerechtigungenFuer(rollen), nil
}

// Speichern validiert den Gesamtzustand und übergibt den Entwurf als
// tiefe Kopie an den Store: Neuanlage bei leerer EditierID, sonst Ersetzen
// des bestehenden Eintrags. Danach wird der Entwurf zurückgesetzt.
func (c *Controller) Speichern(ctx context.Context) (domain.Eintrag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !istSchrittGueltig(c.entwurf, SchrittZusammenfassung) {
		return domain.Eintrag{}, fmt.Errorf("entwurf unvollständig: %w", domain.ErrInvalidInput)
	}

	eintrag := c.entwurf.Clone()

	var (
		gespeichert domain.Eintrag
		err         error
	)
	if c.editierID == "" {
		gespeichert, err = c.store.Insert(ctx, eintrag)
	} else {
		gespeichert, err = c.store.Update(ctx, c.editierID, eintrag)
	}
	if err != nil {
		return domain.Eintrag{}, err
	}

	c.logger.Info("eintrag gespeichert",
		zap.String("id", gespeichert.ID),
		zap.Bool("neuanlage", c.editierID == ""),
	)

	c.entwurf = leererEntwurf()
	c.editierID = ""
	c.schritt = SchrittOrganisation
	return gespeichert, nil
}

// LoadForEdit übernimmt einen bestehenden Eintrag als tiefe Kopie in den
// Entwurf und startet den Assistenten wieder bei Schritt 0.
func (c *Controller) LoadForEdit(eintrag domain.Eintrag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entwurf = eintrag.Clone()
	c.editierID = eintrag.ID
	c.schritt = SchrittOrganisation
}

// Reset verwirft den Entwurf und setzt den Assistenten auf den Anfangszustand.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entwurf = leererEntwurf()
	c.editierID = ""
	c.schritt = SchrittOrganisation
}

// organisation gibt einen Zeiger auf die Zuordnung am Index zurück;
// der Aufrufer hält die Sperre.
func (c *Controller) organisation(index int) (*domain.Organisationszuordnung, error) {
	if index < 0 || index >= len(c.entwurf.Organisationen) {
		return nil, fmt.Errorf("organisationsindex %d: %w", index, domain.ErrNotFound)
	}
	return &c.entwurf.Organisationen[index], nil
}

// resetUntergliederungUndEinheiten setzt die vom Typ abhängigen Felder zurück.
func resetUntergliederungUndEinheiten(org *domain.Organisationszuordnung) {
	org.Untergliederung = ""
	org.Einheiten = nil
}

// resetEinheiten setzt die von der Untergliederung abhängigen Felder zurück.
func resetEinheiten(org *domain.Organisationszuordnung) {
	org.Einheiten = nil
}

func enthaelt(liste []string, wert string) bool {
	for _, v := range liste {
		if v == wert {
			return true
		}
	}
	return false
}
