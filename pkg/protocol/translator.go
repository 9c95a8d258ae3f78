package protocol

import (
	"encoding/json"

	"github.com/schnapsen-duo/match-server/pkg/rules"
)

// Translate converts an inbound message name and raw JSON payload into a
// typed Action. It performs input validation only (field shapes), never
// rule checking. Unknown message names return ok=false with no error, so
// callers can drop them silently with no side effect.
func Translate(name string, payload json.RawMessage) (Action, bool, *rules.PlayerError) {
	switch ActionKind(name) {
	case ActionPlayCard:
		c, err := decodeCard(payload)
		if err != nil {
			return Action{}, true, rules.NewPlayerError(rules.CallError)
		}
		return Action{Kind: ActionPlayCard, Card: c}, true, nil

	case ActionSwapTrump:
		c, err := decodeCard(payload)
		if err != nil {
			return Action{}, true, rules.NewPlayerError(rules.CallError)
		}
		return Action{Kind: ActionSwapTrump, Card: c}, true, nil

	case ActionCloseTalon:
		return Action{Kind: ActionCloseTalon}, true, nil

	case ActionAnnounce20:
		pair, err := decodeCardPair(payload)
		if err != nil {
			return Action{}, true, rules.NewPlayerError(rules.CallError)
		}
		return Action{Kind: ActionAnnounce20, Pair: pair}, true, nil

	case ActionAnnounce40:
		return Action{Kind: ActionAnnounce40}, true, nil

	case ActionDrawCard:
		return Action{Kind: ActionDrawCard}, true, nil

	case ActionCutDeck:
		var k int
		if err := json.Unmarshal(payload, &k); err != nil || k < 0 {
			return Action{}, true, rules.NewPlayerError(rules.CallError)
		}
		return Action{Kind: ActionCutDeck, CutK: k}, true, nil

	case ActionTakeCards:
		var n int
		if err := json.Unmarshal(payload, &n); err != nil || n < 0 {
			return Action{}, true, rules.NewPlayerError(rules.CallError)
		}
		return Action{Kind: ActionTakeCards, TakeCount: n}, true, nil

	case ActionQuit:
		return Action{Kind: ActionQuit}, true, nil

	default:
		return Action{}, false, nil
	}
}
