// Package chatapi is the HTTP client for the remote chatbot API. Each
// call is one independent request/response round trip; there is no
// retry, backoff, or idempotency handling, error presentation is the
// caller's job.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-chatkit/internal/domain"
	"storefront-chatkit/internal/identity"
)

// Client talks to the chatbot API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send submits a user message and returns the assistant's reply text.
func (c *Client) Send(ctx context.Context, message, sessionID string) (string, error) {
	var data sendData
	err := c.post(ctx, "/chatbot/chat", sendRequest{Message: message, SessionID: sessionID}, &data)
	if err != nil {
		return "", err
	}
	return data.Response, nil
}

// History fetches one page of past exchanges.
func (c *Client) History(ctx context.Context, page, limit int) (*HistoryPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return c.historyPage(ctx, "/chatbot/history", q)
}

// SearchHistory fetches a filtered page of past exchanges. Empty query
// and zero dates are omitted from the request.
func (c *Client) SearchHistory(ctx context.Context, query string, startDate, endDate time.Time, page, limit int) (*HistoryPage, error) {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if !startDate.IsZero() {
		q.Set("startDate", startDate.Format("2006-01-02"))
	}
	if !endDate.IsZero() {
		q.Set("endDate", endDate.Format("2006-01-02"))
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return c.historyPage(ctx, "/chatbot/history/search", q)
}

// LoadSession fetches a prior conversation and expands it into the
// widget's message sequence.
func (c *Client) LoadSession(ctx context.Context, sessionID string) (string, []domain.ChatMessage, error) {
	if !identity.IsValidSessionID(sessionID) {
		return "", nil, domain.ErrInvalidSessionID
	}

	var data sessionData
	if err := c.get(ctx, "/chatbot/session/"+url.PathEscape(sessionID), nil, &data); err != nil {
		return "", nil, err
	}
	return data.SessionID, ExpandRecords(data.Messages), nil
}

// Rate attaches a rating (1-5) and optional feedback to a stored
// exchange. Failures must not be retried automatically.
func (c *Client) Rate(ctx context.Context, chatID int64, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}
	path := fmt.Sprintf("/chatbot/history/%d/rate", chatID)
	return c.post(ctx, path, rateRequest{Rating: rating, Feedback: feedback}, nil)
}

// ExpandRecords converts stored exchanges into the widget's message
// sequence: each record becomes a user message and an assistant message
// sharing the record's chat id, in stored order.
func ExpandRecords(records []ChatRecord) []domain.ChatMessage {
	msgs := make([]domain.ChatMessage, 0, len(records)*2)
	for _, r := range records {
		msgs = append(msgs,
			domain.ChatMessage{
				ID:        fmt.Sprintf("%d-user", r.ID),
				Role:      domain.RoleUser,
				Content:   r.Message,
				Timestamp: r.Timestamp,
				ChatID:    r.ID,
			},
			domain.ChatMessage{
				ID:        fmt.Sprintf("%d-assistant", r.ID),
				Role:      domain.RoleAssistant,
				Content:   r.Response,
				Timestamp: r.Timestamp,
				ChatID:    r.ID,
			},
		)
	}
	return msgs
}

func (c *Client) historyPage(ctx context.Context, path string, q url.Values) (*HistoryPage, error) {
	var data HistoryPage
	if err := c.get(ctx, path, q, &data); err != nil {
		return nil, err
	}
	if data.Content == nil {
		data.Content = []ChatRecord{}
	}
	return &data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call chatbot api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	// Error statuses are remote failures even when the body is not the
	// usual envelope (proxies, gateways).
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.RemoteError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("parse response: %w", decodeErr)
	}

	// Business failures arrive as success=false on HTTP 200; the
	// server-supplied message travels with the error.
	if !env.Success {
		return &domain.RemoteError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("parse response data: %w", err)
		}
	}
	return nil
}
