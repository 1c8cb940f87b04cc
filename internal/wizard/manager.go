package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/domain"
	"verwaltungsportal-backend/internal/store"
)

// Manager verwaltet die aktiven Assistenten-Sitzungen. Jede Sitzung besitzt
// genau einen Controller und wird über eine UUID adressiert. Abgelaufene
// Sitzungen werden beim nächsten Zugriff verworfen; es läuft kein
// Hintergrundprozess.
type Manager struct {
	mu        sync.Mutex
	sitzungen map[string]*sitzung
	store     store.EintragStore
	logger    *zap.Logger
	ttl       time.Duration
	jetzt     func() time.Time
}

type sitzung struct {
	controller *Controller
	zuletzt    time.Time
}

// NewManager erstellt einen Sitzungs-Manager. ttl bestimmt, wie lange eine
// Sitzung ohne Zugriff gültig bleibt; 0 deaktiviert den Ablauf.
func NewManager(s store.EintragStore, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sitzungen: make(map[string]*sitzung),
		store:     s,
		logger:    logger,
		ttl:       ttl,
		jetzt:     time.Now,
	}
}

// Start eröffnet eine neue Assistenten-Sitzung. Bei nicht-leerer editID wird
// der bestehende Eintrag aus dem Store in den Entwurf übernommen.
func (m *Manager) Start(ctx context.Context, editID string) (string, *Controller, error) {
	controller := NewController(m.store, m.logger)
	if editID != "" {
		eintrag, err := m.store.Get(ctx, editID)
		if err != nil {
			return "", nil, err
		}
		controller.LoadForEdit(eintrag)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.raeumeAbgelaufeneAuf()

	id := uuid.NewString()
	m.sitzungen[id] = &sitzung{controller: controller, zuletzt: m.jetzt()}
	m.logger.Info("assistent gestartet",
		zap.String("sitzung", id),
		zap.Bool("bearbeitung", editID != ""),
	)
	return id, controller, nil
}

// Get liefert den Controller der Sitzung und erneuert ihre Frist.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raeumeAbgelaufeneAuf()

	s, ok := m.sitzungen[id]
	if !ok {
		return nil, fmt.Errorf("assistenten-sitzung %s: %w", id, domain.ErrNotFound)
	}
	s.zuletzt = m.jetzt()
	return s.controller, nil
}

// Verwerfen beendet die Sitzung und verwirft ihren Entwurf.
func (m *Manager) Verwerfen(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sitzungen, id)
}

// raeumeAbgelaufeneAuf entfernt Sitzungen über der Leerlauf-Frist;
// der Aufrufer hält die Sperre.
func (m *Manager) raeumeAbgelaufeneAuf() {
	if m.ttl <= 0 {
		return
	}
	grenze := m.jetzt().Add(-m.ttl)
	for id, s := range m.sitzungen {
		if s.zuletzt.Before(grenze) {
			delete(m.sitzungen, id)
			m.logger.Info("abgelaufene sitzung verworfen", zap.String("sitzung", id))
		}
	}
}
