package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlayerIndexOther(t *testing.T) {
	require.Equal(t, PlayerTwo, PlayerOne.Other())
	require.Equal(t, PlayerOne, PlayerTwo.Other())
}

func TestPlayerHasAndRemoveCard(t *testing.T) {
	p := NewPlayer("alice")
	c := Card{Suit: Hearts, Value: King}
	p.Hand = []Card{c, {Suit: Diamonds, Value: Ace}}

	require.True(t, p.HasCard(c))
	require.True(t, p.RemoveCard(c))
	require.False(t, p.HasCard(c))
	require.False(t, p.RemoveCard(c))
}

func TestPlayerResetPreservesPoints(t *testing.T) {
	p := NewPlayer("bob")
	p.Hand = []Card{{Suit: Hearts, Value: King}}
	p.Tricks = []Trick{{Lead: Card{Suit: Hearts, Value: King}, Response: Card{Suit: Hearts, Value: Queen}}}
	p.Announcements = []Announcement{{Cards: [2]Card{{Suit: Hearts, Value: King}, {Suit: Hearts, Value: Queen}}, Kind: Twenty}}
	p.Points = 4

	p.Reset()

	require.Nil(t, p.Hand)
	require.Nil(t, p.Tricks)
	require.Nil(t, p.Announcements)
	require.Equal(t, 4, p.Points)
}

func TestPlayerAnnouncementPointsRequiresATrick(t *testing.T) {
	p := NewPlayer("carol")
	p.Announcements = []Announcement{{Kind: Forty}}

	require.Equal(t, 0, p.AnnouncementPoints())

	p.Tricks = []Trick{{Lead: Card{Suit: Hearts, Value: Ten}, Response: Card{Suit: Hearts, Value: Jack}}}
	require.Equal(t, 40, p.AnnouncementPoints())
}

func TestPlayerRoundPoints(t *testing.T) {
	p := NewPlayer("dan")
	p.Tricks = []Trick{
		{Lead: Card{Suit: Hearts, Value: Ace}, Response: Card{Suit: Hearts, Value: Ten}},
	}
	p.Announcements = []Announcement{{Kind: Twenty}}

	require.Equal(t, 11+10+20, p.RoundPoints())
}

func TestHasAnnouncedSuit(t *testing.T) {
	p := NewPlayer("eve")
	p.Announcements = []Announcement{{Cards: [2]Card{{Suit: Clubs, Value: King}, {Suit: Clubs, Value: Queen}}, Kind: Twenty}}

	require.True(t, p.HasAnnouncedSuit(Clubs))
	require.False(t, p.HasAnnouncedSuit(Spades))
}
