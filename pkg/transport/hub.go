package transport

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/semaphore"

	"github.com/schnapsen-duo/match-server/pkg/match"
	"github.com/schnapsen-duo/match-server/pkg/protocol"
	"github.com/schnapsen-duo/match-server/pkg/session"
)

// maxConcurrentUpgrades bounds in-flight websocket handshakes, protecting
// the process from an unbounded burst of upgrade attempts.
const maxConcurrentUpgrades = 128

// Hub routes inbound connections to the orchestrator for their match
// namespace (/{matchID}) and removes a match's namespace once it
// terminates.
type Hub struct {
	mu       sync.RWMutex
	matches  map[string]*match.Orchestrator
	upgrader websocket.Upgrader
	upgrades *semaphore.Weighted
	log      slog.Logger
}

// NewHub builds an empty namespace registry.
func NewHub(log slog.Logger) *Hub {
	return &Hub{
		matches: make(map[string]*match.Orchestrator),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		upgrades: semaphore.NewWeighted(maxConcurrentUpgrades),
		log:      log,
	}
}

// Register opens a namespace for orchestrator o, keyed by its match id,
// and removes it automatically once the match exits.
func (h *Hub) Register(o *match.Orchestrator) {
	h.mu.Lock()
	h.matches[o.MatchID()] = o
	h.mu.Unlock()

	o.OnExit(func(match.Outcome) {
		h.mu.Lock()
		delete(h.matches, o.MatchID())
		h.mu.Unlock()
	})
}

// ServeHTTP upgrades a request at /{matchID} to a websocket connection
// bound to that match's orchestrator.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matchID := matchIDFromPath(r.URL.Path)

	h.mu.RLock()
	orch, ok := h.matches[matchID]
	h.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	if !h.upgrades.TryAcquire(1) {
		http.Error(w, "too many connection attempts", http.StatusServiceUnavailable)
		return
	}
	defer h.upgrades.Release(1)

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.log != nil {
			h.log.Warnf("websocket upgrade failed: %v", err)
		}
		return
	}

	conn := NewConn(ws)
	binding := orch.NewBinding(conn)
	orch.RegisterPublicSocket(conn)
	go h.readLoop(conn, orch, binding)
}

func (h *Hub) readLoop(conn *Conn, orch *match.Orchestrator, binding *session.Binding) {
	defer conn.Close()
	defer orch.UnregisterPublicSocket(conn)
	defer binding.HandleDisconnect()

	for {
		name, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		dispatch(binding, name, payload, h.log)
	}
}

func dispatch(binding *session.Binding, name string, payload json.RawMessage, log slog.Logger) {
	switch name {
	case "auth":
		var p protocol.AuthPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return
		}
		binding.HandleAuth(p.WriteToken)
	case "sync":
		var p protocol.SyncPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return
		}
		binding.HandleSync(p.Timestamp)
	default:
		binding.HandleMessage(name, payload)
	}
}

// matchIDFromPath extracts the final path segment as the match id.
func matchIDFromPath(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] == '/' {
		i--
	}
	end := i + 1
	for i >= 0 && path[i] != '/' {
		i--
	}
	return path[i+1 : end]
}
