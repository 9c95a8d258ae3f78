package match

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/schnapsen-duo/match-server/pkg/journal"
	"github.com/schnapsen-duo/match-server/pkg/protocol"
	"github.com/schnapsen-duo/match-server/pkg/rules"
	"github.com/schnapsen-duo/match-server/pkg/session"
	"github.com/schnapsen-duo/match-server/pkg/statemachine"
)

// ForceMoveTimeout is the deadline for a player's reply to an
// AllowPlayCard event, the initial-join gate, and the reconnection
// window. All three races share one value. A var, not a const, so
// tests can shrink it instead of waiting out the production window.
var ForceMoveTimeout = 30 * time.Second

// BummerlRoundBreak is the pause between rounds in bummerl mode, during
// which a "reset" is broadcast to all sockets.
var BummerlRoundBreak = 5 * time.Second

// MinPlayers is the minimum number of connected players required to keep
// a match alive.
const MinPlayers = 2

// Orchestrator is the Match Orchestrator for one match instance.
type Orchestrator struct {
	matchID   string
	playerIDs [2]string
	mode      rules.Mode

	match     *rules.Match
	journal   *journal.Journal
	performer *session.Performer

	playerWrite   map[string]string            // player_id -> write_token
	tokenToPlayer map[string]rules.PlayerIndex // write_token -> index

	socketsMu sync.RWMutex
	sockets   [2]map[session.Socket]struct{}

	// public holds every live socket in the match namespace, authenticated
	// or not: §4.5 joins a connection to the public room immediately on
	// connect, before (or without ever) authenticating.
	public map[session.Socket]struct{}

	// reconnectSignal, when non-nil for index p, is closed exactly once
	// by the next successful RegisterSocket for p or the next PlayCard
	// from p, waking a pending initial-join/reconnection/force-move race.
	timeoutMu       sync.Mutex
	reconnectSignal [2]chan struct{}
	started         bool

	terminatedMu sync.Mutex
	terminated   bool

	exitOnce      sync.Once
	exitMu        sync.Mutex
	exitCallbacks []func(Outcome)

	clockMu  sync.Mutex
	lastTime int64

	lifecycle *statemachine.StateMachine[Orchestrator]

	// ctx/cancel bound the lifetime of every goroutine this match spawns
	// (forwarders, timeout races, the bummerl round break); cancel fires
	// once at exit so §5's "teardown cancels all its spawned tasks"
	// holds without each site needing its own shutdown signal. group
	// supervises those same goroutines so a leak or panic in one of them
	// is visible instead of silent.
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	log slog.Logger
	rng *rand.Rand
}

// New constructs an Orchestrator for two player ids, generating a random
// 128-bit match identifier, never a time-seeded hash.
func New(playerIDs [2]string, mode rules.Mode, rng *rand.Rand, log slog.Logger) *Orchestrator {
	m := rules.NewMatch(playerIDs[0], playerIDs[1], mode, rng, log)
	ctx, cancel := context.WithCancel(context.Background())

	o := &Orchestrator{
		matchID:       uuid.NewString(),
		ctx:           ctx,
		cancel:        cancel,
		playerIDs:     playerIDs,
		mode:          mode,
		match:         m,
		journal:       journal.New(),
		playerWrite:   map[string]string{playerIDs[0]: playerIDs[0], playerIDs[1]: playerIDs[1]},
		tokenToPlayer: map[string]rules.PlayerIndex{playerIDs[0]: rules.PlayerOne, playerIDs[1]: rules.PlayerTwo},
		sockets:       [2]map[session.Socket]struct{}{{}, {}},
		public:        map[session.Socket]struct{}{},
		log:           log,
		rng:           rng,
	}
	o.performer = session.NewPerformer(m)
	o.lifecycle = newLifecycle(o)
	o.enterLifecycle(awaitingPlayersState)

	o.group.Go(o.runPublicForwarder)
	o.group.Go(func() error { return o.runPrivateForwarder(rules.PlayerOne) })
	o.group.Go(func() error { return o.runPrivateForwarder(rules.PlayerTwo) })

	o.startInitialJoinGate()
	return o
}

// MatchID is the random identifier used as the namespace / "read" id.
func (o *Orchestrator) MatchID() string { return o.matchID }

// PlayerWriteTokens returns the player_id -> write_token map for
// CreatedMatch publication.
func (o *Orchestrator) PlayerWriteTokens() map[string]string {
	out := make(map[string]string, len(o.playerWrite))
	for k, v := range o.playerWrite {
		out[k] = v
	}
	return out
}

// Journal exposes the event journal for a Binding to read from.
func (o *Orchestrator) Journal() *journal.Journal { return o.journal }

// Performer exposes the action performer for a Binding.
func (o *Orchestrator) Performer() *session.Performer { return o.performer }

// NewBinding builds a Session Binding for a freshly-connected socket in
// this match's namespace.
func (o *Orchestrator) NewBinding(socket session.Socket) *session.Binding {
	return session.NewBinding(o.journal, o.performer, o, socket, o.log)
}

// --- session.Registry ---

// ResolvePlayer resolves a write-token to a player index.
func (o *Orchestrator) ResolvePlayer(writeToken string) (rules.PlayerIndex, bool) {
	p, ok := o.tokenToPlayer[writeToken]
	return p, ok
}

// RegisterPublicSocket joins a freshly-connected socket to the public
// room: it receives every public event from this point on, whether or
// not it ever authenticates as a player.
func (o *Orchestrator) RegisterPublicSocket(s session.Socket) {
	o.socketsMu.Lock()
	o.public[s] = struct{}{}
	o.socketsMu.Unlock()
}

// UnregisterPublicSocket removes a closed socket from the public room.
func (o *Orchestrator) UnregisterPublicSocket(s session.Socket) {
	o.socketsMu.Lock()
	delete(o.public, s)
	o.socketsMu.Unlock()
}

// RegisterSocket adds a socket to player p's live socket-set and wakes
// any pending reconnection/initial-join race for p.
func (o *Orchestrator) RegisterSocket(p rules.PlayerIndex, s session.Socket) {
	o.socketsMu.Lock()
	o.sockets[p][s] = struct{}{}
	o.public[s] = struct{}{}
	o.socketsMu.Unlock()

	o.wake(p)
	o.maybeStart()
}

// UnregisterSocket removes a socket from player p's live socket-set. If
// the set becomes empty, starts the reconnection race.
func (o *Orchestrator) UnregisterSocket(p rules.PlayerIndex, s session.Socket) {
	o.socketsMu.Lock()
	delete(o.sockets[p], s)
	empty := len(o.sockets[p]) == 0
	o.socketsMu.Unlock()

	if !empty {
		return
	}

	o.socketsMu.RLock()
	otherEmpty := len(o.sockets[p.Other()]) == 0
	o.socketsMu.RUnlock()
	if otherEmpty {
		o.exit(Outcome{AbruptClose: &protocol.MatchAbruptClose{
			MatchID: o.matchID,
			Reason:  protocol.AllPlayersDisconnected,
		}})
		return
	}

	o.group.Go(func() error { return o.runReconnectRace(p) })
}

func (o *Orchestrator) socketCount(p rules.PlayerIndex) int {
	o.socketsMu.RLock()
	defer o.socketsMu.RUnlock()
	return len(o.sockets[p])
}

// maybeStart flips started and kicks off the round once both players
// have at least one authenticated socket.
func (o *Orchestrator) maybeStart() {
	o.timeoutMu.Lock()
	alreadyStarted := o.started
	bothJoined := o.socketCount(rules.PlayerOne) > 0 && o.socketCount(rules.PlayerTwo) > 0
	if bothJoined && !alreadyStarted {
		o.started = true
	}
	start := bothJoined && !alreadyStarted
	o.timeoutMu.Unlock()

	if start {
		o.enterLifecycle(activeState)
		o.match.SetActivePlayer(rules.PlayerOne)
		o.match.DistributeCards()
	}
}

// nextTimestamp hands out strictly increasing microsecond timestamps for
// journal ordering, even if two events are produced in the same tick.
func (o *Orchestrator) nextTimestamp() int64 {
	o.clockMu.Lock()
	defer o.clockMu.Unlock()
	now := time.Now().UnixMicro()
	if now <= o.lastTime {
		now = o.lastTime + 1
	}
	o.lastTime = now
	return now
}

// OnExit registers a callback invoked exactly once when the match
// terminates, naturally or abruptly.
func (o *Orchestrator) OnExit(cb func(Outcome)) {
	o.exitMu.Lock()
	o.exitCallbacks = append(o.exitCallbacks, cb)
	o.exitMu.Unlock()
}

func (o *Orchestrator) exit(outcome Outcome) {
	o.exitOnce.Do(func() {
		o.terminatedMu.Lock()
		o.terminated = true
		o.terminatedMu.Unlock()

		o.enterLifecycle(terminatedState)
		o.cancel()
		go func() {
			if err := o.group.Wait(); err != nil && o.log != nil {
				o.log.Warnf("match %s: supervised task returned error: %v", o.matchID, err)
			}
		}()

		o.exitMu.Lock()
		cbs := append([]func(Outcome){}, o.exitCallbacks...)
		o.exitMu.Unlock()

		for _, cb := range cbs {
			cb(outcome)
		}
	})
}

func (o *Orchestrator) isTerminated() bool {
	o.terminatedMu.Lock()
	defer o.terminatedMu.Unlock()
	return o.terminated
}

// wake signals any goroutine blocked in a force-move or reconnection race
// for player p.
func (o *Orchestrator) wake(p rules.PlayerIndex) {
	o.timeoutMu.Lock()
	ch := o.reconnectSignal[p]
	o.reconnectSignal[p] = nil
	o.timeoutMu.Unlock()
	if ch != nil {
		close(ch)
	}
}

// armSignal installs a fresh one-shot signal channel for player p and
// returns it, so the caller can race it against a deadline.
func (o *Orchestrator) armSignal(p rules.PlayerIndex) chan struct{} {
	ch := make(chan struct{})
	o.timeoutMu.Lock()
	o.reconnectSignal[p] = ch
	o.timeoutMu.Unlock()
	return ch
}
