package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/suPer8Hu/health-triage/internal/risk"
)

const (
	DefaultTitle = "New Consultation"
	maxTitleLen  = 36
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidFeedback = errors.New("invalid feedback")
)

type StoreOption func(*SessionStore)

// WithGreetingName sets the name used in welcome messages when Create is
// called without one.
func WithGreetingName(name string) StoreOption {
	return func(s *SessionStore) { s.greetingName = strings.TrimSpace(name) }
}

// SessionStore owns the session list. Every mutation is written through to
// the slot before it returns; the store is the only writer of the slot.
// Sessions are kept newest first.
type SessionStore struct {
	slot         Slot
	greetingName string

	mu       sync.Mutex
	sessions []Session
}

func NewSessionStore(slot Slot, opts ...StoreOption) *SessionStore {
	if slot == nil {
		slot = NewMemorySlot(nil)
	}
	s := &SessionStore{slot: slot}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory list with the slot's content. Missing, empty
// or unreadable data leaves exactly one fresh session; Load never fails.
func (s *SessionStore) Load(ctx context.Context) {
	var loaded []Session
	data, err := s.slot.Read(ctx)
	switch {
	case err != nil:
		log.Printf("[SessionStore] read slot failed, starting fresh err=%v", err)
	case len(data) == 0:
	default:
		if err := json.Unmarshal(data, &loaded); err != nil {
			log.Printf("[SessionStore] corrupt session data, starting fresh bytes=%d err=%v", len(data), err)
			loaded = nil
		}
	}

	valid := loaded[:0]
	for _, sess := range loaded {
		if sess.ID != "" {
			valid = append(valid, sess)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(valid) == 0 {
		s.sessions = []Session{s.newSessionLocked("")}
		s.persistLocked(ctx)
		return
	}
	s.sessions = valid
}

// Create adds a session holding only the welcome message.
func (s *SessionStore) Create(ctx context.Context, greetingName string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.newSessionLocked(greetingName)
	s.sessions = append([]Session{sess}, s.sessions...)
	s.persistLocked(ctx)
	return sess.clone()
}

// Append adds m to the end of the session. It reports false, and changes
// nothing, when the session does not exist.
func (s *SessionStore) Append(ctx context.Context, sessionID string, m Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(sessionID)
	if i < 0 {
		return false
	}
	s.sessions[i].Messages = append(s.sessions[i].Messages, m)
	s.persistLocked(ctx)
	return true
}

func (s *SessionStore) SetLastRisk(ctx context.Context, sessionID string, a risk.Assessment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(sessionID)
	if i < 0 {
		return false
	}
	s.sessions[i].LastRisk = &a
	s.persistLocked(ctx)
	return true
}

// RenameIfDefault sets the title from candidate while the title is still
// DefaultTitle. Long candidates are cut to 36 characters plus "...".
func (s *SessionStore) RenameIfDefault(ctx context.Context, sessionID, candidate string) bool {
	title := shortTitle(candidate)
	if title == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(sessionID)
	if i < 0 || s.sessions[i].Title != DefaultTitle {
		return false
	}
	s.sessions[i].Title = title
	s.persistLocked(ctx)
	return true
}

// Delete removes a session unless it is the last one.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(sessionID)
	if i < 0 || len(s.sessions) <= 1 {
		return false
	}
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	s.persistLocked(ctx)
	return true
}

func (s *SessionStore) SetFeedback(ctx context.Context, sessionID, messageID string, fb Feedback) error {
	if !fb.Valid() {
		return ErrInvalidFeedback
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(sessionID)
	if i < 0 {
		return ErrSessionNotFound
	}
	msgs := s.sessions[i].Messages
	for j := range msgs {
		if msgs[j].ID == messageID {
			msgs[j].Feedback = fb
			s.persistLocked(ctx)
			return nil
		}
	}
	return ErrMessageNotFound
}

func (s *SessionStore) List() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.clone()
	}
	return out
}

func (s *SessionStore) Get(sessionID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(sessionID)
	if i < 0 {
		return Session{}, false
	}
	return s.sessions[i].clone(), true
}

func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Persist writes the current list to the slot.
func (s *SessionStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx)
}

func (s *SessionStore) persistLocked(ctx context.Context) {
	if err := s.writeLocked(ctx); err != nil {
		log.Printf("[SessionStore] persist failed sessions=%d err=%v", len(s.sessions), err)
	}
}

func (s *SessionStore) writeLocked(ctx context.Context) error {
	data, err := json.Marshal(s.sessions)
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	return s.slot.Write(ctx, data)
}

func (s *SessionStore) indexLocked(sessionID string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			return i
		}
	}
	return -1
}

func (s *SessionStore) newSessionLocked(greetingName string) Session {
	name := strings.TrimSpace(greetingName)
	if name == "" {
		name = s.greetingName
	}
	at := now()
	return Session{
		ID:        NewSessionID(),
		Title:     DefaultTitle,
		CreatedAt: at,
		Messages: []Message{{
			ID:        NewMessageID(),
			Role:      RoleAssistant,
			Content:   welcomeText(name),
			CreatedAt: at,
			Synthetic: true,
		}},
	}
}

func welcomeText(name string) string {
	greeting := "Hello!"
	if name != "" {
		greeting = "Hello, " + name + "!"
	}
	return greeting + " I'm your health assistant. Describe your symptoms or ask a health question " +
		"and I'll help you understand what to do next. In an emergency, call your local emergency number immediately."
}

func shortTitle(candidate string) string {
	t := strings.Join(strings.Fields(candidate), " ")
	if utf8.RuneCountInString(t) <= maxTitleLen {
		return t
	}
	return strings.TrimSpace(string([]rune(t)[:maxTitleLen])) + "..."
}
