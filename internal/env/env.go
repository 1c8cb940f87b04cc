package env

import (
	"os"
	"strconv"
)

// Config enthält alle konfigurierbaren Werte der Anwendung, die über Umgebungsvariablen gesetzt werden können.
type Config struct {
	ServerAddr    string  // SERVER_ADDR – Adresse des HTTP-Servers (Standard: ":8080")
	AuthBaseURL   string  // AUTH_BASE_URL – Basis-URL des externen Auth-Dienstes (Standard: "http://localhost:8081")
	DataSource    string  // DATA_SOURCE – "memory" oder "sqlite" (Standard: "memory")
	SQLiteDSN     string  // SQLITE_DSN – Pfad der SQLite-Datenbank (Standard: "portal.db")
	CSVSeedPath   string  // CSV_SEED_PATH – CSV-Datei mit Anfangsdaten; leer = kein Import
	RateLimit     float64 // RATE_LIMIT – Erlaubte Anfragen pro Sekunde (Standard: 100)
	PageSize      int     // PAGE_SIZE – Feste Seitengröße der Eintragsliste (Standard: 5)
	MaxEintraege  int     // MAX_EINTRAEGE – Max. Anzahl Einträge im Store (Standard: 10000)
	WizardTTLMin  int     // WIZARD_TTL_MIN – Leerlauf-Frist von Assistenten-Sitzungen in Minuten (Standard: 120)
}

// MustLoad liest die Konfiguration aus Umgebungsvariablen.
func MustLoad() Config {
	return Config{
		ServerAddr:   getOr("SERVER_ADDR", ":8080"),
		AuthBaseURL:  getOr("AUTH_BASE_URL", "http://localhost:8081"),
		DataSource:   getOr("DATA_SOURCE", "memory"),
		SQLiteDSN:    getOr("SQLITE_DSN", "portal.db"),
		CSVSeedPath:  getOr("CSV_SEED_PATH", ""),
		RateLimit:    getFloatOr("RATE_LIMIT", 100),
		PageSize:     getIntOr("PAGE_SIZE", 5),
		MaxEintraege: getIntOr("MAX_EINTRAEGE", 10_000),
		WizardTTLMin: getIntOr("WIZARD_TTL_MIN", 120),
	}
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
