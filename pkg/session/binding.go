package session

import (
	"encoding/json"

	"github.com/decred/slog"
	"github.com/schnapsen-duo/match-server/pkg/journal"
	"github.com/schnapsen-duo/match-server/pkg/protocol"
	"github.com/schnapsen-duo/match-server/pkg/rules"
)

// Socket is the minimal outbound capability a Session Binding needs. The
// concrete websocket connection in pkg/transport satisfies this
// structurally, with no import back into this package.
type Socket interface {
	Send(name string, payload any) error
}

// Registry is the match orchestrator's socket bookkeeping, called back
// into by the binding for authentication and socket-set membership. Kept
// as a narrow interface so pkg/session never imports pkg/match.
type Registry interface {
	ResolvePlayer(writeToken string) (rules.PlayerIndex, bool)
	RegisterSocket(p rules.PlayerIndex, s Socket)
	UnregisterSocket(p rules.PlayerIndex, s Socket)
}

// Binding is the Session Binding for a single live connection: one per
// (player, connection).
type Binding struct {
	journal   *journal.Journal
	performer *Performer
	registry  Registry
	socket    Socket
	log       slog.Logger

	authenticated bool
	player        rules.PlayerIndex
}

// NewBinding constructs a binding for a freshly-connected socket. The
// socket starts public-read-only until HandleAuth succeeds.
func NewBinding(j *journal.Journal, perf *Performer, registry Registry, socket Socket, log slog.Logger) *Binding {
	return &Binding{
		journal:   j,
		performer: perf,
		registry:  registry,
		socket:    socket,
		log:       log,
	}
}

// HandleAuth resolves a write-token to a player id. An unknown token is
// ignored; the socket simply remains public-read-only.
func (b *Binding) HandleAuth(writeToken string) {
	p, ok := b.registry.ResolvePlayer(writeToken)
	if !ok {
		if b.log != nil {
			b.log.Warnf("auth with unknown write-token, leaving socket public-only")
		}
		return
	}
	b.authenticated = true
	b.player = p
	b.registry.RegisterSocket(p, b.socket)
	b.replaySince(0)
}

// HandleSync replays journal entries visible to this binding's player
// from timestamp t onward.
func (b *Binding) HandleSync(t int64) {
	b.replaySince(t)
}

func (b *Binding) replaySince(t int64) {
	if !b.authenticated {
		return
	}
	for _, entry := range b.journal.EventsSince(t, b.player) {
		if err := b.socket.Send(string(entry.Event.Kind), entry.Event.Payload); err != nil {
			if b.log != nil {
				b.log.Warnf("replay emit failed, continuing: %v", err)
			}
		}
	}
}

// HandleMessage translates and forwards one inbound action message.
// Malformed payloads and rule-engine errors are both reported back over
// this socket as an "error" message; unknown message names are dropped.
func (b *Binding) HandleMessage(name string, payload json.RawMessage) {
	if !b.authenticated {
		return
	}

	action, known, translateErr := protocol.Translate(name, payload)
	if !known {
		return
	}
	if translateErr != nil {
		b.emitError(translateErr.Error())
		return
	}

	if errStr := b.performer.Perform(b.player, action); errStr != "" {
		b.emitError(errStr)
	}
}

func (b *Binding) emitError(msg string) {
	if err := b.socket.Send("error", protocol.ErrorMessage{Error: msg}); err != nil && b.log != nil {
		b.log.Warnf("error emit failed: %v", err)
	}
}

// HandleDisconnect removes this socket from the player's socket-set. The
// registry notifies the match orchestrator if that set becomes empty.
func (b *Binding) HandleDisconnect() {
	if !b.authenticated {
		return
	}
	b.registry.UnregisterSocket(b.player, b.socket)
}
