package store

import (
	"context"

	"verwaltungsportal-backend/internal/domain"
)

// EintragStore abstrahiert den Datenzugriff auf Benutzereinträge.
// List liefert die Einträge in Einfügereihenfolge; alle verändernden
// Operationen werden über die stabile Eintrags-ID adressiert.
type EintragStore interface {
	List(ctx context.Context) ([]domain.Eintrag, error)
	Get(ctx context.Context, id string) (domain.Eintrag, error)
	Insert(ctx context.Context, eintrag domain.Eintrag) (domain.Eintrag, error)
	Update(ctx context.Context, id string, eintrag domain.Eintrag) (domain.Eintrag, error)
	Remove(ctx context.Context, id string) error
	ToggleAktiv(ctx context.Context, id string) (domain.Eintrag, error)
}
