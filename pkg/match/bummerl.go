package match

import (
	"time"

	"github.com/schnapsen-duo/match-server/pkg/rules"
)

// resetEvent is the empty payload broadcast to all sockets at a bummerl
// round break.
type resetEvent struct{}

// runBummerlRoundBreak handles a bummerl round break: broadcast
// "reset", pause, then start the next round led by winner. If
// the match has already terminated in the meantime (a FinalResult raced
// ahead of this goroutine), the next round is skipped.
func (o *Orchestrator) runBummerlRoundBreak(winner rules.PlayerIndex) {
	o.broadcast(o.allSockets(), rules.Event{Kind: "reset", Payload: resetEvent{}})

	select {
	case <-o.ctx.Done():
		return
	case <-time.After(BummerlRoundBreak):
	}

	if o.isTerminated() {
		return
	}
	o.match.NextRound(winner)
}
