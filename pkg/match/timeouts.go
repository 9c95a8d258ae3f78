package match

import (
	"time"

	"github.com/schnapsen-duo/match-server/pkg/protocol"
	"github.com/schnapsen-duo/match-server/pkg/rules"
)

// timeoutEvent/timeoutThreatEvent are the event-bus-shaped payloads for
// the transport-facing "timeout"/"timeout_threat"/"timeout_threat_close"
// messages, which originate at the orchestrator rather than the rule
// engine.
type timeoutEvent struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type timeoutThreatEvent struct {
	Timeout int `json:"timeout"`
}

type timeoutThreatCloseEvent struct{}

// startInitialJoinGate races both players' initial connection against
// ForceMoveTimeout. Any player who hasn't joined by the deadline causes
// an AllPlayersDisconnected-style abrupt close once every player has
// failed to join; players who did join get a "timeout" notification for
// the one who didn't.
func (o *Orchestrator) startInitialJoinGate() {
	for _, p := range []rules.PlayerIndex{rules.PlayerOne, rules.PlayerTwo} {
		p := p
		sig := o.armSignal(p)
		o.group.Go(func() error {
			select {
			case <-o.ctx.Done():
				return nil
			case <-sig:
				return nil
			case <-time.After(ForceMoveTimeout):
			}

			if o.socketCount(p) > 0 {
				return nil
			}

			o.broadcast(o.allSockets(), rules.Event{
				Kind:    "timeout",
				Payload: timeoutEvent{UserID: o.playerIDs[p], Reason: "did_not_join"},
			})

			if o.socketCount(p.Other()) == 0 {
				o.exit(Outcome{AbruptClose: &protocol.MatchAbruptClose{
					MatchID: o.matchID,
					Reason:  protocol.AllPlayersDisconnected,
				}})
			}
			return nil
		})
	}
}

// runForceMoveTimeout races an AllowPlayCard grant against
// ForceMoveTimeout: a PlayCard from p cancels it (via wake), otherwise p
// is declared timed out. sig must have been armed by the caller before
// the AllowPlayCard broadcast went out, so a fast client can never race
// past the window where the timer is listening.
func (o *Orchestrator) runForceMoveTimeout(p rules.PlayerIndex, sig chan struct{}) error {
	o.broadcast(o.socketsFor(p), rules.Event{
		Kind:    "timeout_threat",
		Payload: timeoutThreatEvent{Timeout: int(ForceMoveTimeout.Seconds())},
	})

	select {
	case <-o.ctx.Done():
		return nil
	case <-sig:
		return nil
	case <-time.After(ForceMoveTimeout):
	}

	if o.isTerminated() {
		return nil
	}

	o.broadcast(o.socketsFor(p), rules.Event{Kind: "timeout_threat_close", Payload: timeoutThreatCloseEvent{}})
	o.broadcast(o.allSockets(), rules.Event{
		Kind:    "timeout",
		Payload: timeoutEvent{UserID: o.playerIDs[p], Reason: "force_move"},
	})

	o.exit(Outcome{Result: o.buildTimeoutResult(p)})
	return nil
}

// runReconnectRace races a disconnected player's return against
// ForceMoveTimeout. A fresh RegisterSocket for p wakes it via o.wake.
func (o *Orchestrator) runReconnectRace(p rules.PlayerIndex) error {
	sig := o.armSignal(p)

	select {
	case <-o.ctx.Done():
		return nil
	case <-sig:
		return nil
	case <-time.After(ForceMoveTimeout):
	}

	if o.isTerminated() || o.socketCount(p) > 0 {
		return nil
	}

	o.broadcast(o.allSockets(), rules.Event{
		Kind:    "timeout",
		Payload: timeoutEvent{UserID: o.playerIDs[p], Reason: "disconnected"},
	})

	o.exit(Outcome{Result: o.buildTimeoutResult(p)})
	return nil
}

// buildTimeoutResult builds a MatchResult where p is the loser with 0
// points, used by both the force-move and reconnection timeout paths.
func (o *Orchestrator) buildTimeoutResult(loser rules.PlayerIndex) *protocol.MatchResult {
	winner := loser.Other()
	return &protocol.MatchResult{
		MatchID: o.matchID,
		Winners: map[string]int{o.playerIDs[winner]: 0},
		Losers:  map[string]int{o.playerIDs[loser]: 0},
		Ranking: map[string]protocol.Performance{
			o.playerIDs[winner]: {Performances: []string{"win"}},
			o.playerIDs[loser]:  {Performances: []string{"lose"}},
		},
		EventLog: o.eventLogForResult(),
	}
}

// buildMatchResult builds the terminal MatchResult for a natural Result
// or FinalResult event.
func (o *Orchestrator) buildMatchResult(winner rules.PlayerIndex, ranked int) *protocol.MatchResult {
	loser := winner.Other()
	return &protocol.MatchResult{
		MatchID: o.matchID,
		Winners: map[string]int{o.playerIDs[winner]: ranked},
		Losers:  map[string]int{o.playerIDs[loser]: 0},
		Ranking: map[string]protocol.Performance{
			o.playerIDs[winner]: {Performances: []string{"win"}},
			o.playerIDs[loser]:  {Performances: []string{"lose"}},
		},
		EventLog: o.eventLogForResult(),
	}
}

func (o *Orchestrator) eventLogForResult() []any {
	entries := o.journal.All()
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}
