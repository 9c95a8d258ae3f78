package transport

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/schnapsen-duo/match-server/pkg/match"
	"github.com/schnapsen-duo/match-server/pkg/protocol"
	"github.com/schnapsen-duo/match-server/pkg/rules"
)

func testLogger() slog.Logger {
	backend := slog.NewBackend(os.Stderr)
	log := backend.Logger("transport_test")
	log.SetLevel(slog.LevelError)
	return log
}

func TestMatchIDFromPath(t *testing.T) {
	cases := map[string]string{
		"/abc123":    "abc123",
		"/abc123/":   "abc123",
		"/a/b/c":     "c",
		"/":          "",
		"":           "",
		"/foo///":    "foo",
	}
	for path, want := range cases {
		require.Equal(t, want, matchIDFromPath(path), "path %q", path)
	}
}

func TestServeHTTPUnknownMatchIs404(t *testing.T) {
	hub := NewHub(testLogger())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nonexistent")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func newTestOrchestrator() *match.Orchestrator {
	rng := rand.New(rand.NewSource(1))
	return match.New([2]string{"alice", "bob"}, rules.Duo, rng, testLogger())
}

func TestServeHTTPUpgradesAndAuthenticates(t *testing.T) {
	hub := NewHub(testLogger())
	orch := newTestOrchestrator()
	hub.Register(orch)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + orch.MatchID()

	wsAlice, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer wsAlice.Close()
	wsBob, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer wsBob.Close()

	tokens := orch.PlayerWriteTokens()
	authAlice := envelope("auth", protocol.AuthPayload{WriteToken: tokens["alice"]})
	authBob := envelope("auth", protocol.AuthPayload{WriteToken: tokens["bob"]})
	require.NoError(t, wsAlice.WriteJSON(authAlice))
	require.NoError(t, wsBob.WriteJSON(authBob))

	// Once both players authenticate, the match starts and deals cards;
	// alice's socket should receive at least the "active" broadcast.
	wsAlice.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env struct {
		Name    string          `json:"name"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, wsAlice.ReadJSON(&env))
	require.NotEmpty(t, env.Name)
}

func TestServeHTTPUnauthenticatedSocketJoinsPublicRoom(t *testing.T) {
	hub := NewHub(testLogger())
	orch := newTestOrchestrator()
	hub.Register(orch)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + orch.MatchID()

	wsAlice, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer wsAlice.Close()
	wsBob, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer wsBob.Close()
	wsObserver, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer wsObserver.Close()

	tokens := orch.PlayerWriteTokens()
	require.NoError(t, wsAlice.WriteJSON(envelope("auth", protocol.AuthPayload{WriteToken: tokens["alice"]})))
	require.NoError(t, wsBob.WriteJSON(envelope("auth", protocol.AuthPayload{WriteToken: tokens["bob"]})))

	// wsObserver never authenticates, yet §4.5 joins every connection to
	// the public room on connect: it must still see the match's public
	// events (e.g. the opening "active" broadcast) once the match starts.
	wsObserver.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env struct {
		Name    string          `json:"name"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, wsObserver.ReadJSON(&env))
	require.NotEmpty(t, env.Name)
}

func envelope(name string, payload any) any {
	raw, _ := json.Marshal(payload)
	return struct {
		Name    string          `json:"name"`
		Payload json.RawMessage `json:"payload"`
	}{Name: name, Payload: raw}
}

func TestServeHTTPUnreachableSemaphoreRejectsExcessUpgrades(t *testing.T) {
	hub := NewHub(testLogger())
	orch := newTestOrchestrator()
	hub.Register(orch)

	require.True(t, hub.upgrades.TryAcquire(maxConcurrentUpgrades))
	defer hub.upgrades.Release(maxConcurrentUpgrades)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/" + orch.MatchID())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHubRegisterRemovesNamespaceOnExit(t *testing.T) {
	hub := NewHub(testLogger())
	orch := newTestOrchestrator()
	hub.Register(orch)

	done := make(chan struct{})
	orch.OnExit(func(match.Outcome) { close(done) })

	tokens := orch.PlayerWriteTokens()
	sock := &nullSocket{}
	b := orch.NewBinding(sock)
	b.HandleAuth(tokens["alice"])
	b.HandleDisconnect()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected match to exit after sole socket disconnects")
	}

	hub.mu.RLock()
	_, ok := hub.matches[orch.MatchID()]
	hub.mu.RUnlock()
	require.False(t, ok)
}

type nullSocket struct{}

func (*nullSocket) Send(string, any) error { return nil }
