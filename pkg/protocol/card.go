// Package protocol implements the action translator and the wire
// message shapes exchanged with match clients.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/schnapsen-duo/match-server/pkg/rules"
)

// WireCard is the literal {"value":..,"suit":".."} card shape fixed by
// the external interface. rules.Card marshals to the same shape for
// outbound events; WireCard is the translator's own decode-and-validate
// path for inbound action payloads.
type WireCard struct {
	Value int    `json:"value"`
	Suit  string `json:"suit"`
}

// ToCard converts the wire shape into a rules.Card.
func (w WireCard) ToCard() (rules.Card, error) {
	suit, err := suitFromString(w.Suit)
	if err != nil {
		return rules.Card{}, err
	}
	value, err := valueFromInt(w.Value)
	if err != nil {
		return rules.Card{}, err
	}
	return rules.Card{Suit: suit, Value: value}, nil
}

// FromCard converts a rules.Card into its wire shape.
func FromCard(c rules.Card) WireCard {
	return WireCard{Value: int(c.Value), Suit: c.Suit.String()}
}

func suitFromString(s string) (rules.Suit, error) {
	switch s {
	case "Hearts":
		return rules.Hearts, nil
	case "Diamonds":
		return rules.Diamonds, nil
	case "Clubs":
		return rules.Clubs, nil
	case "Spades":
		return rules.Spades, nil
	default:
		return 0, fmt.Errorf("unknown suit %q", s)
	}
}

func valueFromInt(v int) (rules.Value, error) {
	switch rules.Value(v) {
	case rules.Jack, rules.Queen, rules.King, rules.Ten, rules.Ace:
		return rules.Value(v), nil
	default:
		return 0, fmt.Errorf("unknown card value %d", v)
	}
}

// decodeCard unmarshals a single WireCard payload.
func decodeCard(raw json.RawMessage) (rules.Card, error) {
	var w WireCard
	if err := json.Unmarshal(raw, &w); err != nil {
		return rules.Card{}, err
	}
	return w.ToCard()
}

// decodeCardPair unmarshals a [2]WireCard payload.
func decodeCardPair(raw json.RawMessage) ([2]rules.Card, error) {
	var w [2]WireCard
	if err := json.Unmarshal(raw, &w); err != nil {
		return [2]rules.Card{}, err
	}
	c0, err := w[0].ToCard()
	if err != nil {
		return [2]rules.Card{}, err
	}
	c1, err := w[1].ToCard()
	if err != nil {
		return [2]rules.Card{}, err
	}
	return [2]rules.Card{c0, c1}, nil
}
