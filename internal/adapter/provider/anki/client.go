// Package anki talks to a running Anki desktop through the AnkiConnect
// add-on's JSON API.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/lumen/internal/domain"
)

const (
	apiVersion = 6

	// DefaultModel is the built-in two-field note type.
	DefaultModel = "Basic"
)

// Client calls AnkiConnect actions.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
	retryDelay time.Duration
}

// NewClient creates a Client for the AnkiConnect endpoint at url.
func NewClient(url, userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "anki"),
		retryDelay: 500 * time.Millisecond,
	}
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// CreateDeck creates deck if it does not exist and returns its id.
func (c *Client) CreateDeck(ctx context.Context, deck string) (int64, error) {
	var id int64
	if err := c.invoke(ctx, "createDeck", map[string]any{"deck": deck}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

type noteFields struct {
	Front string `json:"Front"`
	Back  string `json:"Back"`
}

type noteOptions struct {
	AllowDuplicate bool   `json:"allowDuplicate"`
	DuplicateScope string `json:"duplicateScope"`
}

type note struct {
	DeckName  string      `json:"deckName"`
	ModelName string      `json:"modelName"`
	Fields    noteFields  `json:"fields"`
	Options   noteOptions `json:"options"`
	Tags      []string    `json:"tags"`
}

// AddNote adds a Basic note to deck and returns the note id. A duplicate
// note in the same deck is reported as domain.ErrAlreadyExists.
func (c *Client) AddNote(ctx context.Context, deck, front, back string, tags []string) (int64, error) {
	if tags == nil {
		tags = []string{}
	}
	params := map[string]any{"note": note{
		DeckName:  deck,
		ModelName: DefaultModel,
		Fields:    noteFields{Front: front, Back: back},
		Options:   noteOptions{DuplicateScope: "deck"},
		Tags:      tags,
	}}

	var id int64
	err := c.invoke(ctx, "addNote", params, &id)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return 0, fmt.Errorf("anki: note %q: %w", front, domain.ErrAlreadyExists)
		}
		return 0, err
	}
	return id, nil
}

// Version returns the AnkiConnect API version, which doubles as a health check.
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	if err := c.invoke(ctx, "version", nil, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func (c *Client) invoke(ctx context.Context, action string, params, result any) error {
	body, err := json.Marshal(request{Action: action, Version: apiVersion, Params: params})
	if err != nil {
		return fmt.Errorf("anki: encode %s: %w", action, err)
	}

	c.log.DebugContext(ctx, "anki request", slog.String("action", action))

	resp, err := c.doWithRetry(ctx, action, body)
	if err != nil {
		return fmt.Errorf("anki: %s: request failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anki: %s: unexpected status %d", action, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anki: %s: read body: %w", action, err)
	}

	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("anki: %s: decode json: %w", action, err)
	}
	if r.Error != nil {
		return fmt.Errorf("anki: %s: %s", action, *r.Error)
	}
	if result != nil && len(r.Result) > 0 {
		if err := json.Unmarshal(r.Result, result); err != nil {
			return fmt.Errorf("anki: %s: decode result: %w", action, err)
		}
	}
	return nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, action string, body []byte) (*http.Response, error) {
	resp, err := c.do(ctx, body)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "anki retry", slog.String("action", action), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}

	return c.do(ctx, body)
}

func (c *Client) do(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}
