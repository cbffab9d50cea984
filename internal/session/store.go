// Package session holds the in-memory chat widget state: the message
// list, the session identifier, and the transient visibility flags.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront-chatkit/internal/domain"
	"storefront-chatkit/internal/identity"
	"storefront-chatkit/internal/store"
)

// State is an immutable view of the widget state handed to readers and
// subscribers. Messages is a copy; callers may keep it.
type State struct {
	SessionID string
	Messages  []domain.ChatMessage
	IsOpen    bool
	IsLoading bool
	ActiveTab domain.Tab
}

// Subscriber receives the state after every committed mutation.
// Subscribers run synchronously on the mutating goroutine, in
// registration order, and must not mutate the store from the callback.
type Subscriber func(State)

// Store is the single source of truth for chat widget state. All
// mutations are serialized by one mutex and cannot interleave. Only
// {messages, sessionId} are written through to the repository; the
// visibility flags and active tab reset to defaults on restore.
type Store struct {
	mu        sync.Mutex
	sessionID string
	messages  []domain.ChatMessage
	isOpen    bool
	isLoading bool
	activeTab domain.Tab

	nextSubID int
	subs      []subscription
	repo      store.Repository
}

type subscription struct {
	id int
	fn Subscriber
}

// New creates a store, restoring {messages, sessionId} from repo when a
// prior snapshot exists and generating a fresh session otherwise.
// repo may be nil for an in-memory-only store. Restore failures are not
// fatal: the store starts fresh and logs the cause.
func New(ctx context.Context, repo store.Repository) *Store {
	s := &Store{
		repo:      repo,
		activeTab: domain.TabChat,
	}

	if repo != nil {
		snap, err := repo.LoadSnapshot(ctx)
		if err != nil {
			slog.Warn("Session restore failed, starting fresh", "error", err)
		} else if snap != nil && snap.SessionID != "" {
			s.sessionID = snap.SessionID
			s.messages = append(s.messages, snap.Messages...)
		}
	}

	if s.sessionID == "" {
		s.sessionID = identity.NewID()
	}
	return s
}

// AddMessage appends a message with a fresh id and the current time.
// Content is not validated; empty strings are permitted, callers are
// expected to pre-validate. Always succeeds.
func (s *Store) AddMessage(role domain.Role, content string, chatID int64) domain.ChatMessage {
	s.mu.Lock()
	msg := domain.ChatMessage{
		ID:        identity.NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		ChatID:    chatID,
	}
	s.messages = append(s.messages, msg)
	s.persistLocked()
	s.unlockAndNotify()
	return msg
}

// ClearMessages empties the message list and rotates the session id.
// The open flag and active tab are untouched. Server-side history is
// not affected.
func (s *Store) ClearMessages() {
	s.mu.Lock()
	s.messages = nil
	s.sessionID = identity.NewID()
	s.persistLocked()
	s.unlockAndNotify()
}

// NewSession is ClearMessages plus a forced switch to the chat tab.
func (s *Store) NewSession() {
	s.mu.Lock()
	s.messages = nil
	s.sessionID = identity.NewID()
	s.activeTab = domain.TabChat
	s.persistLocked()
	s.unlockAndNotify()
}

// LoadSession atomically replaces the message list and session id with
// server-retrieved values and forces the chat tab.
func (s *Store) LoadSession(messages []domain.ChatMessage, sessionID string) {
	s.mu.Lock()
	s.messages = append([]domain.ChatMessage(nil), messages...)
	s.sessionID = sessionID
	s.activeTab = domain.TabChat
	s.persistLocked()
	s.unlockAndNotify()
}

// SetLoading sets the in-flight flag. No side effects.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.isLoading = loading
	s.unlockAndNotify()
}

// SetOpen sets the panel visibility flag. No side effects.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	s.isOpen = open
	s.unlockAndNotify()
}

// SetActiveTab switches between the chat and history panels.
func (s *Store) SetActiveTab(tab domain.Tab) {
	s.mu.Lock()
	s.activeTab = tab
	s.unlockAndNotify()
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// SessionID returns the current session identifier.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Subscribe registers fn to run after every committed mutation. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) stateLocked() State {
	return State{
		SessionID: s.sessionID,
		Messages:  append([]domain.ChatMessage(nil), s.messages...),
		IsOpen:    s.isOpen,
		IsLoading: s.isLoading,
		ActiveTab: s.activeTab,
	}
}

// persistLocked writes {messages, sessionId} through to the repository.
// Write failures degrade silently to in-memory-only operation for this
// update; they are never surfaced to the mutating caller.
func (s *Store) persistLocked() {
	if s.repo == nil {
		return
	}
	snap := &domain.SessionSnapshot{
		SessionID: s.sessionID,
		Messages:  append([]domain.ChatMessage(nil), s.messages...),
	}
	if err := s.repo.SaveSnapshot(context.Background(), snap); err != nil {
		slog.Warn("Session snapshot write failed, continuing in memory", "error", err)
	}
}

// unlockAndNotify releases the mutex and then runs subscribers with the
// state captured at commit time, so a subscriber reading the store back
// cannot deadlock.
func (s *Store) unlockAndNotify() {
	state := s.stateLocked()
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}
