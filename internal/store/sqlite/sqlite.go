package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"verwaltungsportal-backend/internal/domain"
)

// EintragStore implementiert store.EintragStore auf einer SQLite-Datenbank.
// Die Organisationszuordnungen werden als JSON-Spalte abgelegt; die
// Positionsspalte erhält die Einfügereihenfolge.
type EintragStore struct {
	db           *sql.DB
	maxEintraege int
	logger       *zap.Logger
}

// NewEintragStore öffnet die SQLite-Datenbank unter dsn, erstellt das
// Schema und gibt einen einsatzbereiten Store zurück.
// maxEintraege begrenzt die Zeilenanzahl; 0 bedeutet unbegrenzt.
func NewEintragStore(dsn string, maxEintraege int, logger *zap.Logger) (*EintragStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite öffnen: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS eintraege (
			id             TEXT PRIMARY KEY,
			vorname        TEXT NOT NULL,
			nachname       TEXT NOT NULL,
			email          TEXT NOT NULL,
			telefon        TEXT NOT NULL DEFAULT '',
			aktiv          INTEGER NOT NULL DEFAULT 1,
			organisationen TEXT NOT NULL,
			position       INTEGER NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("tabelle erstellen: %w", err)
	}

	logger.Info("sqlite-store initialisiert", zap.String("dsn", dsn))
	return &EintragStore{db: db, maxEintraege: maxEintraege, logger: logger}, nil
}

// Close schließt die zugrunde liegende Datenbankverbindung.
func (s *EintragStore) Close() error {
	return s.db.Close()
}

// List gibt alle Einträge in Einfügereihenfolge zurück.
func (s *EintragStore) List(ctx context.Context) ([]domain.Eintrag, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, vorname, nachname, email, telefon, aktiv, organisationen FROM eintraege ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("abfrage: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Eintrag, 0)
	for rows.Next() {
		e, err := scanEintrag(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get sucht einen Eintrag anhand seiner ID.
func (s *EintragStore) Get(ctx context.Context, id string) (domain.Eintrag, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, vorname, nachname, email, telefon, aktiv, organisationen FROM eintraege WHERE id = ?", id)
	e, err := scanEintrag(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Eintrag{}, fmt.Errorf("eintrag mit id %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Eintrag{}, fmt.Errorf("abfrage eintrag %s: %w", id, err)
	}
	return e, nil
}

// Insert fügt einen neuen Eintrag am Ende ein und prüft die Kapazitätsgrenze.
func (s *EintragStore) Insert(ctx context.Context, eintrag domain.Eintrag) (domain.Eintrag, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Eintrag{}, fmt.Errorf("transaktion starten: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if s.maxEintraege > 0 {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM eintraege").Scan(&count); err != nil {
			return domain.Eintrag{}, fmt.Errorf("anzahl abfragen: %w", err)
		}
		if count >= s.maxEintraege {
			return domain.Eintrag{}, fmt.Errorf("max %d einträge: %w", s.maxEintraege, domain.ErrCapacityReached)
		}
	}

	eintrag.ID = uuid.NewString()
	orgs, err := json.Marshal(eintrag.Organisationen)
	if err != nil {
		return domain.Eintrag{}, fmt.Errorf("organisationen serialisieren: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO eintraege (id, vorname, nachname, email, telefon, aktiv, organisationen, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE((SELECT MAX(position) FROM eintraege), 0) + 1)`,
		eintrag.ID, eintrag.Person.Vorname, eintrag.Person.Nachname,
		eintrag.Person.Email, eintrag.Person.Telefon, boolInt(eintrag.Aktiv), string(orgs),
	); err != nil {
		return domain.Eintrag{}, fmt.Errorf("eintrag einfügen: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Eintrag{}, fmt.Errorf("commit: %w", err)
	}
	return eintrag, nil
}

// Update ersetzt den Eintrag mit der gegebenen ID; die Position bleibt erhalten.
func (s *EintragStore) Update(ctx context.Context, id string, eintrag domain.Eintrag) (domain.Eintrag, error) {
	orgs, err := json.Marshal(eintrag.Organisationen)
	if err != nil {
		return domain.Eintrag{}, fmt.Errorf("organisationen serialisieren: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE eintraege SET vorname = ?, nachname = ?, email = ?, telefon = ?, aktiv = ?, organisationen = ?
		WHERE id = ?`,
		eintrag.Person.Vorname, eintrag.Person.Nachname, eintrag.Person.Email,
		eintrag.Person.Telefon, boolInt(eintrag.Aktiv), string(orgs), id,
	)
	if err != nil {
		return domain.Eintrag{}, fmt.Errorf("eintrag aktualisieren: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Eintrag{}, fmt.Errorf("eintrag mit id %s: %w", id, domain.ErrNotFound)
	}
	eintrag.ID = id
	return eintrag, nil
}

// Remove entfernt den Eintrag mit der gegebenen ID.
func (s *EintragStore) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM eintraege WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("eintrag löschen: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("eintrag mit id %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ToggleAktiv kippt das Aktiv-Flag und gibt den aktualisierten Eintrag zurück.
func (s *EintragStore) ToggleAktiv(ctx context.Context, id string) (domain.Eintrag, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE eintraege SET aktiv = CASE aktiv WHEN 0 THEN 1 ELSE 0 END WHERE id = ?", id)
	if err != nil {
		return domain.Eintrag{}, fmt.Errorf("status umschalten: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Eintrag{}, fmt.Errorf("eintrag mit id %s: %w", id, domain.ErrNotFound)
	}
	return s.Get(ctx, id)
}

// scanEintrag liest eine Zeile und deserialisiert die Organisationsspalte.
func scanEintrag(scan func(dest ...any) error) (domain.Eintrag, error) {
	var (
		e     domain.Eintrag
		aktiv int
		orgs  string
	)
	if err := scan(&e.ID, &e.Person.Vorname, &e.Person.Nachname,
		&e.Person.Email, &e.Person.Telefon, &aktiv, &orgs); err != nil {
		return domain.Eintrag{}, err
	}
	e.Aktiv = aktiv != 0
	if err := json.Unmarshal([]byte(orgs), &e.Organisationen); err != nil {
		return domain.Eintrag{}, fmt.Errorf("organisationen lesen: %w", err)
	}
	return e, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
