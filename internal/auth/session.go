package auth

import "sync"

// Benutzer sind die vom Auth-Dienst gelieferten Kontodaten.
type Benutzer struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session hält den angemeldeten Benutzer und sein Zugriffstoken. Sie wird
// beim Start erzeugt und per Injektion weitergereicht; es gibt keinen
// globalen Zustand. Beim Abmelden wird sie geleert.
type Session struct {
	mu       sync.RWMutex
	benutzer *Benutzer
	token    string
}

// NewSession erstellt eine leere, nicht angemeldete Session.
func NewSession() *Session {
	return &Session{}
}

// Benutzer gibt den angemeldeten Benutzer zurück oder nil.
func (s *Session) Benutzer() *Benutzer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.benutzer == nil {
		return nil
	}
	b := *s.benutzer
	return &b
}

// Token gibt das gespeicherte Zugriffstoken zurück ("" = nicht angemeldet).
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Angemeldet meldet, ob ein Benutzer mit Token hinterlegt ist.
func (s *Session) Angemeldet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.benutzer != nil && s.token != ""
}

// SetToken hinterlegt das Zugriffstoken.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// SetBenutzer hinterlegt den angemeldeten Benutzer.
func (s *Session) SetBenutzer(b Benutzer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.benutzer = &b
}

// Leeren entfernt Benutzer und Token, z. B. nach Abmeldung oder 401.
func (s *Session) Leeren() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.benutzer = nil
	s.token = ""
}
