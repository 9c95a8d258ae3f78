// Package fleetreg implements the fleet controller collaborator: service
// registration at startup and periodic health-check heartbeats. Both are
// plain JSON-over-HTTP calls to an external service with no protocol
// beyond request/response, so it is built directly on net/http rather
// than a heavier HTTP client library.
package fleetreg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/schnapsen-duo/match-server/pkg/protocol"
)

// HealthCheckInterval is how often send_health_check is called.
const HealthCheckInterval = 10 * time.Second

// Client talks to the fleet controller at baseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client against the fleet controller's registration URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// CreateGame registers this server with the fleet controller at startup.
func (c *Client) CreateGame(ctx context.Context, req protocol.GameServerCreate) error {
	return c.post(ctx, "/create_game", req)
}

// SendHealthCheck reports liveness for the server identified by id.
func (c *Client) SendHealthCheck(ctx context.Context, id string) error {
	return c.post(ctx, "/send_health_check", map[string]string{"id": id})
}

// RunHealthLoop calls SendHealthCheck every HealthCheckInterval until ctx
// is canceled.
func (c *Client) RunHealthLoop(ctx context.Context, id string) {
	ticker := time.NewTicker(HealthCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.SendHealthCheck(ctx, id)
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("fleet controller returned %s", resp.Status)
	}
	return nil
}
