// Package chatkit is the embeddable core of the storefront support
// chat widget: a persisted session store, the back-office menu
// activation resolver, and the client for the remote chatbot API.
package chatkit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-chatkit/internal/chatapi"
	"storefront-chatkit/internal/config"
	"storefront-chatkit/internal/domain"
	"storefront-chatkit/internal/menu"
	"storefront-chatkit/internal/notify"
	"storefront-chatkit/internal/session"
	"storefront-chatkit/internal/store"
)

// Widget ties the session store, the remote client, and the notifier
// together. Create one per embedding surface and Close it when the
// surface goes away; there is no process-wide instance.
type Widget struct {
	cfg      *config.Config
	store    *session.Store
	repo     store.Repository
	client   *chatapi.Client
	notifier notify.Notifier
	menu     []domain.MenuItem
}

// Option overrides a Widget dependency.
type Option func(*Widget)

// WithNotifier routes user-facing failure notifications to n instead of
// the default slog-backed sink.
func WithNotifier(n notify.Notifier) Option {
	return func(w *Widget) { w.notifier = n }
}

// WithMenu replaces the default back-office navigation tree.
func WithMenu(items []domain.MenuItem) Option {
	return func(w *Widget) { w.menu = items }
}

// WithRepository injects a snapshot repository instead of the SQLite
// store opened from cfg.DBPath. The Widget takes ownership and closes
// it on Close.
func WithRepository(r store.Repository) Option {
	return func(w *Widget) { w.repo = r }
}

// New builds a Widget from cfg, restoring any persisted session.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Widget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &Widget{
		cfg:      cfg,
		client:   chatapi.New(cfg.APIBaseURL, cfg.RequestTimeout),
		notifier: &notify.LogNotifier{Locale: cfg.Locale},
		menu:     menu.AdminMenu(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.repo == nil {
		repo, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		w.repo = repo
	}

	w.store = session.New(ctx, w.repo)
	return w, nil
}

// Close releases the widget's resources.
func (w *Widget) Close() error {
	if w.repo != nil {
		return w.repo.Close()
	}
	return nil
}

// Store exposes the session store for subscription and direct reads.
func (w *Widget) Store() *session.Store {
	return w.store
}

// Menu returns the configured navigation tree. Read-only.
func (w *Widget) Menu() []domain.MenuItem {
	return w.menu
}

// ActiveMenuIDs returns the ids of menu entries that should highlight
// for currentPath.
func (w *Widget) ActiveMenuIDs(currentPath string) map[string]bool {
	return menu.ActiveIDs(w.menu, currentPath)
}

// Send submits user input to the assistant and folds the reply into the
// store. Empty or whitespace-only input is a no-op, not an error. While
// a send is outstanding the loading flag blocks further sends, so
// message order equals send order. A reply that resolves after the
// session has been replaced is dropped rather than appended to the
// wrong conversation.
func (w *Widget) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	st := w.store.State()
	if st.IsLoading {
		return domain.ErrSendInFlight
	}
	sessionID := st.SessionID

	w.store.SetLoading(true)
	defer w.store.SetLoading(false)
	w.store.AddMessage(domain.RoleUser, text, 0)

	reply, err := w.client.Send(ctx, text, sessionID)
	if err != nil {
		w.notifyFailure(notify.KeySendFailed, err)
		return err
	}

	if w.store.SessionID() != sessionID {
		return nil
	}
	w.store.AddMessage(domain.RoleAssistant, reply, 0)
	return nil
}

// History fetches one page of past exchanges using the configured page
// size. History state is disjoint from the message list, so this may
// run while a send is in flight.
func (w *Widget) History(ctx context.Context, page int) (*chatapi.HistoryPage, error) {
	p, err := w.client.History(ctx, page, w.cfg.HistoryPageSize)
	if err != nil {
		w.notifyFailure(notify.KeyHistoryFailed, err)
		return nil, err
	}
	return p, nil
}

// SearchHistory fetches a filtered page of past exchanges.
func (w *Widget) SearchHistory(ctx context.Context, query string, startDate, endDate time.Time, page int) (*chatapi.HistoryPage, error) {
	p, err := w.client.SearchHistory(ctx, query, startDate, endDate, page, w.cfg.HistoryPageSize)
	if err != nil {
		w.notifyFailure(notify.KeyHistoryFailed, err)
		return nil, err
	}
	return p, nil
}

// OpenSession replaces the current conversation with a stored one and
// switches the widget to the chat tab.
func (w *Widget) OpenSession(ctx context.Context, sessionID string) error {
	sid, msgs, err := w.client.LoadSession(ctx, sessionID)
	if err != nil {
		w.notifyFailure(notify.KeySessionFailed, err)
		return err
	}
	w.store.LoadSession(msgs, sid)
	return nil
}

// Rate attaches a rating to a stored exchange. Fire-and-forget: a
// failure is notified once and never retried.
func (w *Widget) Rate(ctx context.Context, chatID int64, rating int, feedback string) error {
	if err := w.client.Rate(ctx, chatID, rating, feedback); err != nil {
		w.notifyFailure(notify.KeyRateFailed, err)
		return err
	}
	return nil
}

// notifyFailure forwards the server-supplied message when one exists;
// the notifier falls back to the localized catalog text otherwise.
func (w *Widget) notifyFailure(key string, err error) {
	var remote *domain.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		w.notifier.Notify(key, remote.Message)
		return
	}
	w.notifier.Notify(key, "")
}
