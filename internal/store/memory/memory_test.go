package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/domain"
)

func testLogger() *zap.Logger {
	l, _ := zap.NewDevelopment()
	return l
}

func neuerEintrag(vorname string) domain.Eintrag {
	return domain.Eintrag{
		Person: domain.Person{Vorname: vorname, Nachname: "Mustermann", Email: vorname + "@test.de"},
		Organisationen: []domain.Organisationszuordnung{{
			Typ:             "Kreisfreie Stadt",
			Untergliederung: "Bonn",
			Einheiten:       []domain.Einheit{{Name: "BF Bonn", Rollen: []domain.Rolle{domain.RolleErfasser}}},
		}},
		Aktiv: true,
	}
}

func TestInsert_VergibtStabileID(t *testing.T) {
	s := NewEintragStore(0, testLogger())

	a, err := s.Insert(context.Background(), neuerEintrag("Max"))
	require.NoError(t, err)
	b, err := s.Insert(context.Background(), neuerEintrag("Erika"))
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestList_Einfuegereihenfolge(t *testing.T) {
	s := NewEintragStore(0, testLogger())
	for _, name := range []string{"Max", "Erika", "Hans"} {
		_, err := s.Insert(context.Background(), neuerEintrag(name))
		require.NoError(t, err)
	}

	alle, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, alle, 3)
	assert.Equal(t, "Max", alle[0].Person.Vorname)
	assert.Equal(t, "Erika", alle[1].Person.Vorname)
	assert.Equal(t, "Hans", alle[2].Person.Vorname)
}

func TestGet_NichtGefunden(t *testing.T) {
	s := NewEintragStore(0, testLogger())
	_, err := s.Get(context.Background(), "fehlt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_ErsetztAnGleicherPosition(t *testing.T) {
	s := NewEintragStore(0, testLogger())
	a, err := s.Insert(context.Background(), neuerEintrag("Max"))
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), neuerEintrag("Erika"))
	require.NoError(t, err)

	geaendert := neuerEintrag("Moritz")
	aktualisiert, err := s.Update(context.Background(), a.ID, geaendert)
	require.NoError(t, err)
	assert.Equal(t, a.ID, aktualisiert.ID)

	alle, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Moritz", alle[0].Person.Vorname)
	assert.Equal(t, "Erika", alle[1].Person.Vorname)
}

func TestRemove(t *testing.T) {
	s := NewEintragStore(0, testLogger())
	a, err := s.Insert(context.Background(), neuerEintrag("Max"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), a.ID))
	alle, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alle)

	err = s.Remove(context.Background(), a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleAktiv(t *testing.T) {
	s := NewEintragStore(0, testLogger())
	a, err := s.Insert(context.Background(), neuerEintrag("Max"))
	require.NoError(t, err)

	umgeschaltet, err := s.ToggleAktiv(context.Background(), a.ID)
	require.NoError(t, err)
	assert.False(t, umgeschaltet.Aktiv)

	wieder, err := s.ToggleAktiv(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, wieder.Aktiv)
}

func TestInsert_Kapazitaetsgrenze(t *testing.T) {
	s := NewEintragStore(1, testLogger())
	_, err := s.Insert(context.Background(), neuerEintrag("Max"))
	require.NoError(t, err)

	_, err = s.Insert(context.Background(), neuerEintrag("Erika"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCapacityReached)
}

func TestList_LiefertKopien(t *testing.T) {
	s := NewEintragStore(0, testLogger())
	_, err := s.Insert(context.Background(), neuerEintrag("Max"))
	require.NoError(t, err)

	alle, err := s.List(context.Background())
	require.NoError(t, err)
	alle[0].Organisationen[0].Einheiten[0].Rollen[0] = domain.RolleSuperadmin

	wieder, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RolleErfasser, wieder[0].Organisationen[0].Einheiten[0].Rollen[0])
}

func TestSeed_BefuelltStore(t *testing.T) {
	s := NewEintragStore(0, testLogger())
	s.Seed([]domain.Eintrag{neuerEintrag("Max"), neuerEintrag("Erika")})

	alle, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, alle, 2)
	assert.NotEmpty(t, alle[0].ID)
}
