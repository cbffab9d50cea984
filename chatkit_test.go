package chatkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"storefront-chatkit/internal/config"
	"storefront-chatkit/internal/domain"
	"storefront-chatkit/internal/notify"
)

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu      sync.Mutex
	keys    []string
	details []string
}

func (n *recordingNotifier) Notify(key, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.keys = append(n.keys, key)
	n.details = append(n.details, detail)
}

func (n *recordingNotifier) calls() ([]string, []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.keys...), append([]string(nil), n.details...)
}

func writeEnvelope(w http.ResponseWriter, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	body := map[string]interface{}{"success": success, "message": message}
	if data != nil {
		body["data"] = data
	}
	_ = json.NewEncoder(w).Encode(body)
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	return &config.Config{
		APIBaseURL:      apiURL,
		DBPath:          filepath.Join(t.TempDir(), "chatkit.db"),
		RequestTimeout:  5 * time.Second,
		Locale:          "en",
		HistoryPageSize: 10,
	}
}

func newTestWidget(t *testing.T, r chi.Router, opts ...Option) (*Widget, *recordingNotifier) {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	notifier := &recordingNotifier{}
	w, err := New(context.Background(), testConfig(t, srv.URL), append([]Option{WithNotifier(notifier)}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, notifier
}

func TestSendAppendsUserAndAssistantMessages(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Post("/chatbot/chat", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, true, "", map[string]string{"response": "happy to help"})
	})

	w, notifier := newTestWidget(t, r)
	if err := w.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	st := w.Store().State()
	if st.IsLoading {
		t.Error("loading flag must clear after the reply is folded in")
	}
	if len(st.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(st.Messages))
	}
	if st.Messages[0].Role != domain.RoleUser || st.Messages[0].Content != "hello" {
		t.Errorf("unexpected user message: %+v", st.Messages[0])
	}
	if st.Messages[1].Role != domain.RoleAssistant || st.Messages[1].Content != "happy to help" {
		t.Errorf("unexpected assistant message: %+v", st.Messages[1])
	}
	if keys, _ := notifier.calls(); len(keys) != 0 {
		t.Errorf("unexpected notifications: %v", keys)
	}
}

func TestSendFailureLeavesStoreStable(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Post("/chatbot/chat", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, false, "assistant offline", nil)
	})

	w, notifier := newTestWidget(t, r)
	if err := w.Send(context.Background(), "anyone there?"); err == nil {
		t.Fatal("expected Send to fail")
	}

	st := w.Store().State()
	if st.IsLoading {
		t.Error("loading flag must clear on failure")
	}
	// The user message stays; no assistant message is committed.
	if len(st.Messages) != 1 || st.Messages[0].Role != domain.RoleUser {
		t.Fatalf("expected only the user message, got %+v", st.Messages)
	}

	keys, details := notifier.calls()
	if len(keys) != 1 || keys[0] != notify.KeySendFailed {
		t.Fatalf("expected one send-failed notification, got %v", keys)
	}
	if details[0] != "assistant offline" {
		t.Errorf("expected the server-supplied message, got %q", details[0])
	}
}

func TestSendEmptyInputIsNoop(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Post("/chatbot/chat", func(w http.ResponseWriter, req *http.Request) {
		t.Error("empty input must not reach the network")
	})

	w, _ := newTestWidget(t, r)
	if err := w.Send(context.Background(), "   \t"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if st := w.Store().State(); len(st.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(st.Messages))
	}
}

func TestSendRefusedWhileInFlight(t *testing.T) {
	t.Parallel()

	w, _ := newTestWidget(t, chi.NewRouter())
	w.Store().SetLoading(true)

	if err := w.Send(context.Background(), "second send"); !errors.Is(err, domain.ErrSendInFlight) {
		t.Fatalf("expected ErrSendInFlight, got %v", err)
	}
}

func TestStaleReplyIsDropped(t *testing.T) {
	t.Parallel()

	var (
		mu         sync.Mutex
		newSession func()
	)
	r := chi.NewRouter()
	r.Post("/chatbot/chat", func(rw http.ResponseWriter, req *http.Request) {
		// Replace the session while the send is outstanding.
		mu.Lock()
		replace := newSession
		mu.Unlock()
		replace()
		writeEnvelope(rw, true, "", map[string]string{"response": "too late"})
	})

	w, _ := newTestWidget(t, r)
	mu.Lock()
	newSession = w.Store().NewSession
	mu.Unlock()
	if err := w.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	for _, msg := range w.Store().State().Messages {
		if msg.Role == domain.RoleAssistant {
			t.Fatalf("stale assistant reply must not be appended: %+v", msg)
		}
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Post("/chatbot/chat", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, true, "", map[string]string{"response": "noted"})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	w, err := New(ctx, cfg, WithNotifier(&recordingNotifier{}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Send(ctx, "remember me"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	before := w.Store().State()
	w.Store().SetOpen(true)
	w.Store().SetActiveTab(domain.TabHistory)
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := New(ctx, cfg, WithNotifier(&recordingNotifier{}))
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	st := reopened.Store().State()
	if st.SessionID != before.SessionID {
		t.Errorf("session id not restored: got %q, want %q", st.SessionID, before.SessionID)
	}
	if len(st.Messages) != 2 || st.Messages[1].Content != "noted" {
		t.Errorf("messages not restored: %+v", st.Messages)
	}
	// Transient flags reset regardless of pre-reload values.
	if st.IsOpen || st.IsLoading || st.ActiveTab != domain.TabChat {
		t.Errorf("expected default transient flags, got %+v", st)
	}
}

func TestOpenSessionReplacesConversation(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Get("/chatbot/session/{sessionID}", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, true, "", map[string]interface{}{
			"sessionId": chi.URLParam(req, "sessionID"),
			"messages": []map[string]interface{}{
				{"id": 5, "message": "old question", "response": "old answer"},
			},
		})
	})

	w, _ := newTestWidget(t, r)
	w.Store().SetActiveTab(domain.TabHistory)

	if err := w.OpenSession(context.Background(), "sess-42"); err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}

	st := w.Store().State()
	if st.SessionID != "sess-42" {
		t.Errorf("unexpected session id: %q", st.SessionID)
	}
	if len(st.Messages) != 2 || st.Messages[0].ChatID != 5 || st.Messages[1].ChatID != 5 {
		t.Errorf("expected one expanded exchange, got %+v", st.Messages)
	}
	if st.ActiveTab != domain.TabChat {
		t.Errorf("loading a session must force the chat tab, got %q", st.ActiveTab)
	}
}

func TestRateFailureNotifiesWithoutRetry(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	r := chi.NewRouter()
	r.Post("/chatbot/history/{chatID}/rate", func(w http.ResponseWriter, req *http.Request) {
		requests.Add(1)
		writeEnvelope(w, false, "rating rejected", nil)
	})

	w, notifier := newTestWidget(t, r)
	if err := w.Rate(context.Background(), 11, 5, ""); err == nil {
		t.Fatal("expected Rate to fail")
	}

	if got := requests.Load(); got != 1 {
		t.Fatalf("rate must never retry, saw %d requests", got)
	}
	keys, details := notifier.calls()
	if len(keys) != 1 || keys[0] != notify.KeyRateFailed || details[0] != "rating rejected" {
		t.Fatalf("unexpected notifications: %v %v", keys, details)
	}
}

func TestHistoryFailureNotifies(t *testing.T) {
	t.Parallel()

	w, notifier := newTestWidget(t, chi.NewRouter()) // 404s on every route

	if _, err := w.History(context.Background(), 0); err == nil {
		t.Fatal("expected History to fail")
	}
	if keys, _ := notifier.calls(); len(keys) != 1 || keys[0] != notify.KeyHistoryFailed {
		t.Fatalf("unexpected notifications: %v", keys)
	}
}

func TestActiveMenuIDs(t *testing.T) {
	t.Parallel()

	w, _ := newTestWidget(t, chi.NewRouter())

	active := w.ActiveMenuIDs("/admin/discounts/vouchers")
	if !active["discounts"] || !active["vouchers"] {
		t.Errorf("expected discounts/vouchers active, got %v", active)
	}
	if active["promotions"] || active["dashboard"] {
		t.Errorf("unexpected active entries: %v", active)
	}
}
