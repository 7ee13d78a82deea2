package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/vsariola/pianoroll"
)

// ClientHeader carries the id of the editor instance, so the host can tell
// concurrent editors of the same player apart in its logs.
const ClientHeader = "X-Pianoroll-Client"

// HTTP talks to a host over its HTTP interface.
type HTTP struct {
	BaseURL string
	Player  int
	Client  *http.Client
	ID      uuid.UUID
}

func NewHTTP(baseURL string, player int) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Player:  player,
		Client:  http.DefaultClient,
		ID:      uuid.New(),
	}
}

func (h *HTTP) PushEdit(ctx context.Context, batch pianoroll.Events) error {
	return h.put(ctx, Request{Edit: batch})
}

func (h *HTTP) PushKeys(ctx context.Context, keys []pianoroll.Key) error {
	return h.put(ctx, Request{Keys: keys})
}

func (h *HTTP) PullSnapshot(ctx context.Context) (pianoroll.Snapshot, error) {
	var snap pianoroll.Snapshot
	err := h.get(ctx, fmt.Sprintf("/%d/player", h.Player), &snap)
	return snap, err
}

func (h *HTTP) PullRoll(ctx context.Context) (pianoroll.Roll, error) {
	var roll pianoroll.Roll
	err := h.get(ctx, fmt.Sprintf("/%d/roll", h.Player), &roll)
	return roll, err
}

// SetTime starts or stops the host transport.
func (h *HTTP) SetTime(ctx context.Context, req TimeRequest) error {
	return h.do(ctx, http.MethodPost, "/time", req, nil)
}

func (h *HTTP) put(ctx context.Context, req Request) error {
	return h.do(ctx, http.MethodPut, fmt.Sprintf("/%d/player", h.Player), req, nil)
}

func (h *HTTP) get(ctx context.Context, path string, target any) error {
	return h.do(ctx, http.MethodGet, path, nil, target)
}

func (h *HTTP) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(ClientHeader, h.ID.String())
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("could not decode response of %s %s: %w", method, path, err)
	}
	return nil
}
