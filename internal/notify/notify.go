// Package notify delivers user-facing failure notifications (the
// "toast" boundary). Every failure is terminal here: implementations
// present it and must not retry on behalf of the caller.
package notify

import (
	"log/slog"
)

// Keys for localized notification messages.
const (
	KeySendFailed    = "chat.send_failed"
	KeyHistoryFailed = "chat.history_failed"
	KeySessionFailed = "chat.session_failed"
	KeyRateFailed    = "chat.rate_failed"
)

// Notifier receives terminal, user-facing failures. detail carries the
// server-supplied message when one exists; implementations fall back to
// the localized catalog text when it is empty.
type Notifier interface {
	Notify(key, detail string)
}

const fallbackLocale = "en"

var catalogs = map[string]map[string]string{
	"en": {
		KeySendFailed:    "Could not send your message. Please try again.",
		KeyHistoryFailed: "Could not load chat history.",
		KeySessionFailed: "Could not open that conversation.",
		KeyRateFailed:    "Could not submit your rating.",
	},
	"vi": {
		KeySendFailed:    "Không thể gửi tin nhắn của bạn. Vui lòng thử lại.",
		KeyHistoryFailed: "Không thể tải lịch sử trò chuyện.",
		KeySessionFailed: "Không thể mở cuộc trò chuyện này.",
		KeyRateFailed:    "Không thể gửi đánh giá của bạn.",
	},
}

// Message resolves key in the given locale, falling back to English and
// then to the key itself.
func Message(locale, key string) string {
	if m, ok := catalogs[locale]; ok {
		if text, ok := m[key]; ok {
			return text
		}
	}
	if text, ok := catalogs[fallbackLocale][key]; ok {
		return text
	}
	return key
}

// LogNotifier logs notifications through slog. It is the default sink
// when the embedder supplies no UI-backed notifier.
type LogNotifier struct {
	Locale string
}

func (n *LogNotifier) Notify(key, detail string) {
	text := detail
	if text == "" {
		text = Message(n.Locale, key)
	}
	slog.Warn("User notification", "key", key, "message", text)
}
