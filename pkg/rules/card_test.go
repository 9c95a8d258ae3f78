package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardPoints(t *testing.T) {
	cases := []struct {
		v    Value
		want int
	}{
		{Jack, 2},
		{Queen, 3},
		{King, 4},
		{Ten, 10},
		{Ace, 11},
	}
	for _, c := range cases {
		card := Card{Suit: Hearts, Value: c.v}
		require.Equal(t, c.want, card.Points())
	}
}

func TestCardString(t *testing.T) {
	c := Card{Suit: Spades, Value: Ace}
	require.Equal(t, "Ace of Spades", c.String())
}

func TestSuitsAndValuesFixedOrder(t *testing.T) {
	require.Equal(t, [4]Suit{Hearts, Diamonds, Clubs, Spades}, Suits)
	require.Equal(t, [5]Value{Jack, Queen, King, Ten, Ace}, Values)
}

func TestCardMarshalJSONUsesWireShape(t *testing.T) {
	c := Card{Suit: Hearts, Value: King}
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"value":4,"suit":"Hearts"}`, string(raw))
}

func TestCardUnmarshalJSONRoundTrips(t *testing.T) {
	c := Card{Suit: Spades, Value: Ace}
	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var back Card
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, c, back)
}

func TestCardUnmarshalJSONRejectsUnknownSuitAndValue(t *testing.T) {
	var c Card
	require.Error(t, json.Unmarshal([]byte(`{"value":11,"suit":"Stars"}`), &c))
	require.Error(t, json.Unmarshal([]byte(`{"value":7,"suit":"Hearts"}`), &c))
}
