package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// FallbackMeldung wird angezeigt, wenn der Auth-Dienst keine verwertbare
// Fehlermeldung liefert.
const FallbackMeldung = "Ein Fehler ist aufgetreten"

// Client ist der dünne HTTP-Wrapper um den externen Auth-Dienst.
// Fehlgeschlagene Anmeldungen liefern false statt eines Fehlers; die
// letzte Fehlermeldung wird als Zustand gehalten und kann abgefragt werden.
// Automatische Wiederholungen gibt es nicht.
type Client struct {
	basisURL string
	http     *http.Client
	session  *Session
	logger   *zap.Logger

	mu            sync.Mutex
	letzterFehler string
}

// NewClient erstellt einen Auth-Client gegen basisURL, der die übergebene
// Session pflegt. Alle Anfragen laufen mit 10 Sekunden Timeout.
func NewClient(basisURL string, session *Session, logger *zap.Logger) *Client {
	return &Client{
		basisURL: basisURL,
		http:     &http.Client{Timeout: 10 * time.Second},
		session:  session,
		logger:   logger,
	}
}

// LetzterFehler gibt die Meldung des letzten fehlgeschlagenen Aufrufs
// zurück ("" = kein Fehler seit dem letzten erfolgreichen Aufruf).
func (c *Client) LetzterFehler() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.letzterFehler
}

func (c *Client) setzeFehler(meldung string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.letzterFehler = meldung
}

// Login meldet den Benutzer am Auth-Dienst an. Bei Erfolg wird das
// Zugriffstoken gespeichert und der Benutzer über /me nachgeladen.
// Falsche Zugangsdaten liefern (false, nil); nur Transportfehler liefern err.
func (c *Client) Login(ctx context.Context, username, password string) (bool, error) {
	status, body, err := c.post(ctx, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		c.setzeFehler(FallbackMeldung)
		return false, err
	}
	if status < 200 || status >= 300 {
		c.setzeFehler(fehlerMeldung(body))
		c.logger.Warn("anmeldung abgelehnt", zap.Int("status", status), zap.String("benutzer", username))
		return false, nil
	}

	var antwort struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &antwort); err != nil || antwort.AccessToken == "" {
		c.setzeFehler(FallbackMeldung)
		return false, fmt.Errorf("antwort ohne zugriffstoken: %w", err)
	}
	c.session.SetToken(antwort.AccessToken)

	if err := c.Refresh(ctx); err != nil {
		c.setzeFehler(FallbackMeldung)
		return false, err
	}
	c.setzeFehler("")
	c.logger.Info("benutzer angemeldet", zap.String("benutzer", username))
	return true, nil
}

// Register legt ein neues Konto an. Abgelehnte Registrierungen liefern
// (false, nil) mit gesetzter Fehlermeldung.
func (c *Client) Register(ctx context.Context, username, email, password string) (bool, error) {
	status, body, err := c.post(ctx, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		c.setzeFehler(FallbackMeldung)
		return false, err
	}
	if status < 200 || status >= 300 {
		c.setzeFehler(fehlerMeldung(body))
		return false, nil
	}
	c.setzeFehler("")
	return true, nil
}

// Logout meldet den Benutzer beim Auth-Dienst ab. Die Session wird in
// jedem Fall geleert, auch wenn der Aufruf fehlschlägt.
func (c *Client) Logout(ctx context.Context) error {
	defer c.session.Leeren()

	status, _, err := c.post(ctx, "/api/auth/logout", nil)
	if err != nil {
		c.logger.Warn("abmeldung fehlgeschlagen", zap.Error(err))
		return err
	}
	if status < 200 || status >= 300 {
		c.logger.Warn("abmeldung abgelehnt", zap.Int("status", status))
	}
	return nil
}

// Refresh lädt den aktuellen Benutzer über GET /api/auth/me mit dem
// gespeicherten Bearer-Token. Ein 401 leert die Session (Token ungültig).
func (c *Client) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.basisURL+"/api/auth/me", nil)
	if err != nil {
		return fmt.Errorf("anfrage erstellen: %w", err)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("benutzer abrufen: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Leeren()
		return fmt.Errorf("token ungültig oder abgelaufen")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("benutzer abrufen: status %d", resp.StatusCode)
	}

	var benutzer Benutzer
	if err := json.NewDecoder(resp.Body).Decode(&benutzer); err != nil {
		return fmt.Errorf("benutzer lesen: %w", err)
	}
	c.session.SetBenutzer(benutzer)
	return nil
}

// post sendet einen JSON-Body an pfad und gibt Status und Antwort-Body zurück.
func (c *Client) post(ctx context.Context, pfad string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		daten, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("body serialisieren: %w", err)
		}
		reader = bytes.NewReader(daten)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.basisURL+pfad, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("anfrage erstellen: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("POST %s: %w", pfad, err)
	}
	defer resp.Body.Close()

	daten, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("antwort lesen: %w", err)
	}
	return resp.StatusCode, daten, nil
}

// fehlerMeldung zieht die Meldung aus einem Fehler-Body ({"message": ...}
// oder roher Text); ohne verwertbaren Inhalt bleibt die Standardmeldung.
func fehlerMeldung(body []byte) string {
	var antwort struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &antwort); err == nil && antwort.Message != "" {
		return antwort.Message
	}
	if len(body) > 0 && len(body) < 200 {
		return string(body)
	}
	return FallbackMeldung
}
