package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetActivePlayerOnlyOnce(t *testing.T) {
	m := newTestMatch()
	require.Nil(t, m.SetActivePlayer(PlayerOne))

	err := m.SetActivePlayer(PlayerTwo)
	require.NotNil(t, err)
	require.Equal(t, CantSetActivePlayer, err.Kind)
}

func TestDistributeCardsDealsFiveEachAndRevealsTrump(t *testing.T) {
	m := newTestMatch()
	m.deck.Shuffle(m.rng)
	require.Nil(t, m.SetActivePlayer(PlayerOne))
	require.Nil(t, m.DistributeCards())

	require.Len(t, m.players[PlayerOne].Hand, 5)
	require.Len(t, m.players[PlayerTwo].Hand, 5)
	require.NotNil(t, m.trump)
	require.Equal(t, 9, m.deck.Size())
}

func TestDistributeCardsEventOrder(t *testing.T) {
	m := newTestMatch()
	m.deck.Shuffle(m.rng)
	require.Nil(t, m.SetActivePlayer(PlayerOne))
	require.Nil(t, m.DistributeCards())

	var kinds []EventKind
	for {
		select {
		case ev := <-m.Bus().Public():
			kinds = append(kinds, ev.Kind)
			continue
		default:
		}
		break
	}

	// SetActivePlayer's own Active event plus distribution: 3 deals to
	// the starter, 3 to the other, trump reveal, 2 more each,
	// FinishedDistribution.
	want := []EventKind{
		EventActive,
		EventReceiveCard, EventReceiveCard, EventReceiveCard,
		EventReceiveCard, EventReceiveCard, EventReceiveCard,
		EventTrumpChange,
		EventReceiveCard, EventReceiveCard,
		EventReceiveCard, EventReceiveCard,
		EventFinishedDistribution,
	}
	require.Equal(t, want, kinds)
}

func TestDistributeCardsRequiresActivePlayer(t *testing.T) {
	m := newTestMatch()
	err := m.DistributeCards()
	require.NotNil(t, err)
	require.Equal(t, NoPlayerActive, err.Kind)
}

// dealtMatch builds a match with hands already dealt, for command tests
// that don't care about the exact distribution shuffle.
func dealtMatch() *Match {
	m := newTestMatch()
	m.deck.Shuffle(m.rng)
	m.SetActivePlayer(PlayerOne)
	m.DistributeCards()
	// Drain events so later assertions start from a clean bus.
	drainBus(m)
	return m
}

func drainBus(m *Match) {
	for {
		select {
		case <-m.Bus().Public():
			continue
		default:
		}
		break
	}
	for _, p := range []PlayerIndex{PlayerOne, PlayerTwo} {
		for {
			select {
			case <-m.Bus().Private(p):
				continue
			default:
			}
			break
		}
	}
}

func TestPlayCardRejectsWrongPlayer(t *testing.T) {
	m := dealtMatch()
	c := m.players[PlayerTwo].Hand[0]

	err := m.PlayCard(PlayerTwo, c)
	require.NotNil(t, err)
	require.Equal(t, PlayerNotActive, err.Kind)
}

func TestPlayCardRejectsCardNotInHand(t *testing.T) {
	m := dealtMatch()
	active, _ := m.ActivePlayer()

	notHeld := Card{Suit: Hearts, Value: Ace}
	for m.players[active].HasCard(notHeld) {
		notHeld.Value++
	}

	err := m.PlayCard(active, notHeld)
	require.NotNil(t, err)
	require.Equal(t, CantPlayCard, err.Kind)
}

func TestPlayCardLeadThenResponseResolvesTrick(t *testing.T) {
	m := dealtMatch()
	active, _ := m.ActivePlayer()
	other := active.Other()

	leadCard := m.players[active].Hand[0]
	require.Nil(t, m.PlayCard(active, leadCard))

	newActive, _ := m.ActivePlayer()
	require.Equal(t, other, newActive)
	require.Len(t, m.stack, 1)

	responseCard := m.players[other].Hand[0]
	require.Nil(t, m.PlayCard(other, responseCard))

	require.Empty(t, m.stack)
	totalTricks := len(m.players[PlayerOne].Tricks) + len(m.players[PlayerTwo].Tricks)
	require.Equal(t, 1, totalTricks)
}

func TestSwapTrumpExchangesJack(t *testing.T) {
	m := newTestMatch()
	trump := Card{Suit: Spades, Value: Ten}
	m.trump = &trump
	active := PlayerOne
	m.active = &active
	jack := Card{Suit: Spades, Value: Jack}
	m.players[PlayerOne].Hand = []Card{jack}

	require.Nil(t, m.SwapTrump(PlayerOne, jack))

	require.Equal(t, jack, *m.trump)
	require.True(t, m.players[PlayerOne].HasCard(trump))
	require.False(t, m.players[PlayerOne].HasCard(jack))
}

func TestSwapTrumpRejectsNonJack(t *testing.T) {
	m := newTestMatch()
	trump := Card{Suit: Spades, Value: Ten}
	m.trump = &trump
	active := PlayerOne
	m.active = &active
	queen := Card{Suit: Spades, Value: Queen}
	m.players[PlayerOne].Hand = []Card{queen}

	err := m.SwapTrump(PlayerOne, queen)
	require.NotNil(t, err)
	require.Equal(t, CardNotTrump, err.Kind)
}

func TestCloseTalonRejectsWhenAlreadyClosed(t *testing.T) {
	m := newTestMatch()
	active := PlayerOne
	m.active = &active
	m.deck.cards = []Card{{Suit: Hearts, Value: Ten}}

	require.Nil(t, m.CloseTalon(PlayerOne))
	err := m.CloseTalon(PlayerOne)
	require.NotNil(t, err)
	require.Equal(t, TalonAlreadyClosed, err.Kind)
}

func TestAnnounce20HappyPath(t *testing.T) {
	m := newTestMatch()
	active := PlayerOne
	m.active = &active
	king := Card{Suit: Clubs, Value: King}
	queen := Card{Suit: Clubs, Value: Queen}
	m.players[PlayerOne].Hand = []Card{king, queen}

	require.Nil(t, m.Announce20(PlayerOne, [2]Card{king, queen}))
	require.Len(t, m.players[PlayerOne].Announcements, 1)
	require.Equal(t, Twenty, m.players[PlayerOne].Announcements[0].Kind)
}

func TestAnnounce40RequiresTrumpSuitMarriage(t *testing.T) {
	m := newTestMatch()
	active := PlayerOne
	m.active = &active
	trump := Card{Suit: Hearts, Value: Ten}
	m.trump = &trump
	king := Card{Suit: Clubs, Value: King}
	queen := Card{Suit: Clubs, Value: Queen}
	m.players[PlayerOne].Hand = []Card{king, queen}

	err := m.Announce40(PlayerOne)
	require.NotNil(t, err)
	require.Equal(t, CantPlay40, err.Kind)
}

func TestAnnounce40HappyPath(t *testing.T) {
	m := newTestMatch()
	active := PlayerOne
	m.active = &active
	trump := Card{Suit: Hearts, Value: Ten}
	m.trump = &trump
	king := Card{Suit: Hearts, Value: King}
	queen := Card{Suit: Hearts, Value: Queen}
	m.players[PlayerOne].Hand = []Card{king, queen}

	require.Nil(t, m.Announce40(PlayerOne))
	require.Equal(t, Forty, m.players[PlayerOne].Announcements[0].Kind)
}

func TestDrawCardAfterTrickMirrorsBothPlayers(t *testing.T) {
	m := newTestMatch()
	active := PlayerOne
	m.active = &active
	m.deck.cards = []Card{{Suit: Hearts, Value: Ten}, {Suit: Clubs, Value: Ten}}
	m.players[PlayerOne].Hand = make([]Card, 4)
	m.players[PlayerTwo].Hand = make([]Card, 4)

	require.Nil(t, m.DrawCardAfterTrick(PlayerOne))

	require.Len(t, m.players[PlayerOne].Hand, 5)
	require.Len(t, m.players[PlayerTwo].Hand, 5)
	require.True(t, m.deck.Empty())
}

func TestTakeCardsValidatesCount(t *testing.T) {
	m := newTestMatch()
	active := PlayerOne
	m.active = &active
	m.deck.cards = nil
	trump := Card{Suit: Hearts, Value: Ten}
	m.trump = &trump
	m.players[PlayerOne].Hand = make([]Card, 4)
	m.players[PlayerTwo].Hand = make([]Card, 4)

	err := m.TakeCards(PlayerOne, 0)
	require.NotNil(t, err)
	require.Equal(t, CallError, err.Kind)

	m.players[PlayerOne].Hand = make([]Card, 4)
	err = m.TakeCards(PlayerOne, 2)
	require.NotNil(t, err)
	require.Equal(t, CantTakeAllDeckCards, err.Kind)

	require.Nil(t, m.TakeCards(PlayerOne, 1))
}

func TestCutDeckRejectsActivePlayer(t *testing.T) {
	m := newTestMatch()
	active := PlayerOne
	m.active = &active

	err := m.CutDeck(PlayerOne, 3)
	require.NotNil(t, err)
	require.Equal(t, CallError, err.Kind)

	require.Nil(t, m.CutDeck(PlayerTwo, 3))
}

func TestQuitEndsMatchImmediately(t *testing.T) {
	m := newTestMatch()
	require.Nil(t, m.Quit(PlayerOne))
	require.True(t, m.Ended())
}

func TestWithLockPoisonsOnPanic(t *testing.T) {
	m := newTestMatch()
	_ = m.withLock(func() *PlayerError {
		panic("boom")
	})

	err := m.withLock(func() *PlayerError { return nil })
	require.NotNil(t, err)
	require.Equal(t, CallError, err.Kind)
}
