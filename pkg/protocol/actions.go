package protocol

import "github.com/schnapsen-duo/match-server/pkg/rules"

// ActionKind names one of the closed set of inbound client actions.
type ActionKind string

const (
	ActionPlayCard    ActionKind = "play_card"
	ActionSwapTrump   ActionKind = "swap_trump"
	ActionCloseTalon  ActionKind = "close_talon"
	ActionAnnounce20  ActionKind = "announce_20"
	ActionAnnounce40  ActionKind = "announce_40"
	ActionDrawCard    ActionKind = "draw_card"
	ActionCutDeck     ActionKind = "cutt_deck"
	ActionTakeCards   ActionKind = "take_cards"
	ActionQuit        ActionKind = "quit"
)

// Action is one validated, typed action variant produced by the
// translator. Exactly the fields relevant to Kind are populated; AT
// performs no rule checking, only input-shape validation.
type Action struct {
	Kind ActionKind

	Card       rules.Card    // play_card, swap_trump
	Pair       [2]rules.Card // announce_20
	CutK       int           // cutt_deck
	TakeCount  int           // take_cards
}
