package control

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/domain/entity"
)

// DefaultTimeout bounds a single control request.
const DefaultTimeout = 2 * time.Second

// ErrUnavailable is returned when the daemon cannot be reached.
var ErrUnavailable = errors.New("control api unavailable")

// Client talks to a running daemon.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ port.CommandSender = (*Client)(nil)

// NewClient creates a client for the daemon listening on addr.
func NewClient(addr string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Send delivers cmd to the active tab's engine.
func (c *Client) Send(ctx context.Context, cmd entity.Command) (*entity.CommandResponse, error) {
	return c.send(ctx, "/v1/message", cmd)
}

// SendTo delivers cmd to the engine of a specific tab.
func (c *Client) SendTo(ctx context.Context, tabID string, cmd entity.Command) (*entity.CommandResponse, error) {
	return c.send(ctx, "/v1/tabs/"+url.PathEscape(tabID)+"/message", cmd)
}

func (c *Client) send(ctx context.Context, path string, cmd entity.Command) (*entity.CommandResponse, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode command: %w", err)
	}
	var resp entity.CommandResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tabs lists the daemon's attached tabs.
func (c *Client) Tabs(ctx context.Context) ([]entity.TabInfo, error) {
	var tabs []entity.TabInfo
	if err := c.do(ctx, http.MethodGet, "/v1/tabs", nil, &tabs); err != nil {
		return nil, err
	}
	return tabs, nil
}

// Health asks the daemon for its status.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNoEngine
	case resp.StatusCode >= 300:
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if eb.Error == "" {
			eb.Error = resp.Status
		}
		return fmt.Errorf("control api: %s", eb.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
