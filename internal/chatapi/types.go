package chatapi

import (
	"encoding/json"
	"time"
)

// envelope is the common response wrapper of the chatbot API. Every
// endpoint answers {success, message, data}; data is decoded per
// endpoint into a typed struct.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type sendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

type sendData struct {
	Response string `json:"response"`
}

type rateRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback,omitempty"`
}

// ChatRecord is one stored user/assistant exchange as the server keeps
// it: the user message and the assistant response under a single id.
type ChatRecord struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Rating    int       `json:"rating,omitempty"`
	Feedback  string    `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryPage is one page of stored exchanges. Content is never nil so
// an empty result is distinguishable from a request that has not
// resolved.
type HistoryPage struct {
	Content       []ChatRecord `json:"content"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	CurrentPage   int          `json:"currentPage"`
}

type sessionData struct {
	SessionID string       `json:"sessionId"`
	Messages  []ChatRecord `json:"messages"`
}
