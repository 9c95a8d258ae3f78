package match

import (
	"github.com/schnapsen-duo/match-server/pkg/journal"
	"github.com/schnapsen-duo/match-server/pkg/rules"
	"github.com/schnapsen-duo/match-server/pkg/session"
)

// runPublicForwarder drains the rule engine's public event stream,
// journals each event, broadcasts it to every connected socket, and
// reacts to the control events (Result, FinalResult) that drive match
// lifecycle transitions. EventQuit is the exception: it is handled
// without being journaled or broadcast. Returns once the match's context is canceled at
// teardown, per §5's "teardown cancels all its spawned tasks".
func (o *Orchestrator) runPublicForwarder() error {
	bus := o.match.Bus().Public()
	for {
		select {
		case <-o.ctx.Done():
			return nil
		case ev := <-bus:
			if ev.Kind == rules.EventQuit {
				o.handlePublicControlEvent(ev)
				continue
			}
			o.journal.Append(journal.Entry{
				Timestamp: o.nextTimestamp(),
				Scope:     journal.PublicScope(),
				Event:     ev,
			})
			o.broadcast(o.allSockets(), ev)
			o.handlePublicControlEvent(ev)
		}
	}
}

// runPrivateForwarder drains player p's private event stream, journals
// each event, emits it only to p's sockets, and arms the force-move
// timeout whenever p becomes allowed to play.
func (o *Orchestrator) runPrivateForwarder(p rules.PlayerIndex) error {
	bus := o.match.Bus().Private(p)
	for {
		select {
		case <-o.ctx.Done():
			return nil
		case ev := <-bus:
			o.journal.Append(journal.Entry{
				Timestamp: o.nextTimestamp(),
				Scope:     journal.PrivateScope(p),
				Event:     ev,
			})
			var sig chan struct{}
			if ev.Kind == rules.EventAllowPlayCard {
				sig = o.armSignal(p)
			}
			o.broadcast(o.socketsFor(p), ev)

			if sig != nil {
				o.group.Go(func() error { return o.runForceMoveTimeout(p, sig) })
			}
		}
	}
}

// allSockets returns every socket in the public room: §4.5 joins a
// connection on connect regardless of authentication, so broadcasting a
// public event must not require a player index per socket.
func (o *Orchestrator) allSockets() []socketEntry {
	o.socketsMu.RLock()
	defer o.socketsMu.RUnlock()
	var out []socketEntry
	for s := range o.public {
		out = append(out, socketEntry{socket: s})
	}
	return out
}

func (o *Orchestrator) socketsFor(p rules.PlayerIndex) []socketEntry {
	o.socketsMu.RLock()
	defer o.socketsMu.RUnlock()
	var out []socketEntry
	for s := range o.sockets[p] {
		out = append(out, socketEntry{player: p, socket: s})
	}
	return out
}

type socketEntry struct {
	player rules.PlayerIndex
	socket session.Socket
}

func (o *Orchestrator) broadcast(entries []socketEntry, ev rules.Event) {
	for _, e := range entries {
		if err := e.socket.Send(string(ev.Kind), ev.Payload); err != nil && o.log != nil {
			o.log.Warnf("emit to player %d failed, continuing: %v", e.player, err)
		}
	}
}

// handlePublicControlEvent reacts to Result/FinalResult: in duo mode a
// Result is terminal; in bummerl mode a Result starts the round-break
// sequence, and a FinalResult is always terminal.
func (o *Orchestrator) handlePublicControlEvent(ev rules.Event) {
	switch ev.Kind {
	case rules.EventPlayCard:
		// Cancels any pending force-move timeout for this player, a
		// one-shot observer on the first PlayCard after it was armed.
		payload := ev.Payload.(rules.PlayCardPayload)
		o.wake(payload.Player)

	case rules.EventResult:
		payload := ev.Payload.(rules.ResultPayload)
		if o.mode == rules.Duo {
			o.exit(Outcome{Result: o.buildMatchResult(payload.Winner, payload.Ranked)})
			return
		}
		winner := payload.Winner
		o.group.Go(func() error { o.runBummerlRoundBreak(winner); return nil })

	case rules.EventFinalResult:
		payload := ev.Payload.(rules.FinalResultPayload)
		o.exit(Outcome{Result: o.buildMatchResult(payload.Winner, payload.Ranked)})

	case rules.EventQuit:
		payload := ev.Payload.(rules.QuitPayload)
		o.exit(Outcome{Result: o.buildTimeoutResult(payload.Player)})
	}
}
