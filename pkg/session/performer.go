// Package session implements the action performer and session binding:
// routing validated actions to the rule engine and binding individual
// live connections to a match.
package session

import (
	"github.com/schnapsen-duo/match-server/pkg/protocol"
	"github.com/schnapsen-duo/match-server/pkg/rules"
)

// Performer is the Action Performer: a dispatch table from action kind to
// rule-engine command, translating PlayerError into a user-facing string.
// It performs no authorization; that is the Session Binding's job via
// write-token resolution.
type Performer struct {
	match *rules.Match
}

// NewPerformer builds an AP bound to a single match instance.
func NewPerformer(m *rules.Match) *Performer {
	return &Performer{match: m}
}

// Perform routes action to the matching RE command for player p. It
// returns the empty string on success, or the stringified PlayerError on
// failure.
func (ap *Performer) Perform(p rules.PlayerIndex, action protocol.Action) string {
	var err *rules.PlayerError

	switch action.Kind {
	case protocol.ActionPlayCard:
		err = ap.match.PlayCard(p, action.Card)
	case protocol.ActionSwapTrump:
		err = ap.match.SwapTrump(p, action.Card)
	case protocol.ActionCloseTalon:
		err = ap.match.CloseTalon(p)
	case protocol.ActionAnnounce20:
		err = ap.match.Announce20(p, action.Pair)
	case protocol.ActionAnnounce40:
		err = ap.match.Announce40(p)
	case protocol.ActionDrawCard:
		err = ap.match.DrawCardAfterTrick(p)
	case protocol.ActionCutDeck:
		err = ap.match.CutDeck(p, action.CutK)
	case protocol.ActionTakeCards:
		err = ap.match.TakeCards(p, action.TakeCount)
	case protocol.ActionQuit:
		err = ap.match.Quit(p)
	default:
		err = rules.NewPlayerError(rules.CallError)
	}

	if err != nil {
		return err.Error()
	}
	return ""
}
