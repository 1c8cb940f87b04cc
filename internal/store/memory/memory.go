package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/domain"
)

// EintragStore implementiert store.EintragStore und hält alle Einträge im
// Arbeitsspeicher. Die Einfügereihenfolge bleibt über das Slice erhalten.
type EintragStore struct {
	mu           sync.RWMutex
	eintraege    []domain.Eintrag
	maxEintraege int
	logger       *zap.Logger
}

// NewEintragStore legt einen leeren In-Memory-Store an.
// maxEintraege begrenzt die Anzahl; 0 bedeutet unbegrenzt.
func NewEintragStore(maxEintraege int, logger *zap.Logger) *EintragStore {
	return &EintragStore{maxEintraege: maxEintraege, logger: logger}
}

// Seed befüllt den Store mit Anfangsdaten, z. B. aus einem CSV-Import.
// Einträge ohne ID bekommen eine neue UUID zugewiesen.
func (s *EintragStore) Seed(eintraege []domain.Eintrag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range eintraege {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		s.eintraege = append(s.eintraege, e.Clone())
	}
	s.logger.Info("einträge geladen", zap.Int("anzahl", len(eintraege)))
}

// List gibt alle Einträge in Einfügereihenfolge zurück.
func (s *EintragStore) List(_ context.Context) ([]domain.Eintrag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Eintrag, 0, len(s.eintraege))
	for _, e := range s.eintraege {
		out = append(out, e.Clone())
	}
	return out, nil
}

// Get sucht einen Eintrag anhand seiner ID.
func (s *EintragStore) Get(_ context.Context, id string) (domain.Eintrag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, err := s.indexVon(id)
	if err != nil {
		return domain.Eintrag{}, err
	}
	return s.eintraege[i].Clone(), nil
}

// Insert hängt einen neuen Eintrag an und vergibt eine stabile UUID.
func (s *EintragStore) Insert(_ context.Context, eintrag domain.Eintrag) (domain.Eintrag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxEintraege > 0 && len(s.eintraege) >= s.maxEintraege {
		return domain.Eintrag{}, fmt.Errorf("max %d einträge: %w", s.maxEintraege, domain.ErrCapacityReached)
	}

	eintrag = eintrag.Clone()
	eintrag.ID = uuid.NewString()
	s.eintraege = append(s.eintraege, eintrag)
	return eintrag.Clone(), nil
}

// Update ersetzt den Eintrag mit der gegebenen ID an seiner bisherigen Position.
func (s *EintragStore) Update(_ context.Context, id string, eintrag domain.Eintrag) (domain.Eintrag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexVon(id)
	if err != nil {
		return domain.Eintrag{}, err
	}
	eintrag = eintrag.Clone()
	eintrag.ID = id
	s.eintraege[i] = eintrag
	return eintrag.Clone(), nil
}

// Remove entfernt den Eintrag mit der gegebenen ID.
func (s *EintragStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexVon(id)
	if err != nil {
		return err
	}
	s.eintraege = append(s.eintraege[:i], s.eintraege[i+1:]...)
	return nil
}

// ToggleAktiv kippt das Aktiv-Flag des Eintrags mit der gegebenen ID.
func (s *EintragStore) ToggleAktiv(_ context.Context, id string) (domain.Eintrag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexVon(id)
	if err != nil {
		return domain.Eintrag{}, err
	}
	s.eintraege[i].Aktiv = !s.eintraege[i].Aktiv
	return s.eintraege[i].Clone(), nil
}

// indexVon sucht die Position eines Eintrags; Aufrufer hält die Sperre.
func (s *EintragStore) indexVon(id string) (int, error) {
	for i, e := range s.eintraege {
		if e.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("eintrag mit id %s: %w", id, domain.ErrNotFound)
}
