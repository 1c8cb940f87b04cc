package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/auth"
	"verwaltungsportal-backend/internal/env"
	"verwaltungsportal-backend/internal/handler"
	"verwaltungsportal-backend/internal/routes"
	"verwaltungsportal-backend/internal/store"
	memorystore "verwaltungsportal-backend/internal/store/memory"
	"verwaltungsportal-backend/internal/store/seed"
	sqlitestore "verwaltungsportal-backend/internal/store/sqlite"
	"verwaltungsportal-backend/internal/wizard"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg := env.MustLoad()
	logger.Info("konfiguration geladen",
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("auth_base_url", cfg.AuthBaseURL),
		zap.String("data_source", cfg.DataSource),
		zap.String("csv_seed_path", cfg.CSVSeedPath),
		zap.Float64("rate_limit", cfg.RateLimit),
		zap.Int("page_size", cfg.PageSize),
		zap.Int("max_eintraege", cfg.MaxEintraege),
	)

	eintragStore, cleanup := mustInitStore(cfg, logger)
	if cleanup != nil {
		defer cleanup()
	}

	session := auth.NewSession()
	authClient := auth.NewClient(cfg.AuthBaseURL, session, logger)
	manager := wizard.NewManager(eintragStore, time.Duration(cfg.WizardTTLMin)*time.Minute, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h := routes.Handlers{
		Auth:       handler.NewAuthHandler(authClient, session, logger),
		Eintraege:  handler.NewEintragHandler(eintragStore, cfg.PageSize, logger),
		Assistent:  handler.NewAssistentHandler(manager, logger),
		Stammdaten: handler.NewStammdatenHandler(),
	}

	r := chi.NewRouter()
	routes.Setup(r, h, logger, cfg.RateLimit, registry)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		logger.Info("server wird gestartet", zap.String("adresse", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server wird heruntergefahren")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("erzwungenes herunterfahren", zap.Error(err))
	}
	logger.Info("server gestoppt")
}

// mustInitStore erstellt je nach DATA_SOURCE den passenden EintragStore.
// Bei "sqlite" schließt die zurückgegebene cleanup-Funktion die DB-Verbindung.
// Ein gesetzter CSV_SEED_PATH befüllt einen leeren Store mit Anfangsdaten.
func mustInitStore(cfg env.Config, logger *zap.Logger) (store.EintragStore, func()) {
	var (
		s       store.EintragStore
		cleanup func()
	)

	switch cfg.DataSource {
	case "sqlite":
		sq, err := sqlitestore.NewEintragStore(cfg.SQLiteDSN, cfg.MaxEintraege, logger)
		if err != nil {
			logger.Fatal("sqlite-store konnte nicht initialisiert werden", zap.Error(err))
		}
		s = sq
		cleanup = func() { _ = sq.Close() }

	default:
		s = memorystore.NewEintragStore(cfg.MaxEintraege, logger)
	}

	if cfg.CSVSeedPath != "" {
		if err := seedLeerenStore(s, cfg.CSVSeedPath, logger); err != nil {
			logger.Fatal("csv-import fehlgeschlagen", zap.Error(err))
		}
	}
	return s, cleanup
}

// seedLeerenStore importiert die CSV-Daten, sofern der Store noch leer ist.
func seedLeerenStore(s store.EintragStore, pfad string, logger *zap.Logger) error {
	ctx := context.Background()

	vorhanden, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(vorhanden) > 0 {
		logger.Info("store bereits befüllt, csv-import übersprungen",
			zap.Int("anzahl", len(vorhanden)))
		return nil
	}

	eintraege, err := seed.Laden(pfad, logger)
	if err != nil {
		return err
	}
	for _, e := range eintraege {
		if _, err := s.Insert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
