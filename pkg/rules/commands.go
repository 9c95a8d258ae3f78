package rules

// SetActivePlayer marks p as the first active player of the round. Only
// legal once, before any active player is set.
func (m *Match) SetActivePlayer(p PlayerIndex) *PlayerError {
	return m.withLock(func() *PlayerError {
		return m.doSetActivePlayer(p)
	})
}

func (m *Match) doSetActivePlayer(p PlayerIndex) *PlayerError {
	if m.active != nil {
		return NewPlayerError(CantSetActivePlayer)
	}
	m.switchActive(p)
	return nil
}

// switchActive transitions the active player to next. Outside the very
// first activation (no previous active player), the source always fires
// Inactive{old} immediately before Active{new}; a no-op transition (next
// already active) emits nothing.
func (m *Match) switchActive(next PlayerIndex) {
	if m.active != nil && *m.active == next {
		return
	}
	if m.active != nil {
		m.bus.publishPublic(EventInactive, InactivePayload{Player: *m.active})
	}
	m.active = &next
	m.bus.publishPublic(EventActive, ActivePayload{Player: next})
}

// DistributeCards deals the opening hands: 3 cards to the active player,
// 3 to the other, reveals trump, then 2 more to each.
func (m *Match) DistributeCards() *PlayerError {
	return m.withLock(func() *PlayerError {
		return m.doDistributeCards()
	})
}

func (m *Match) doDistributeCards() *PlayerError {
	if m.active == nil {
		return NewPlayerError(NoPlayerActive)
	}
	if m.deck.Size() != 20 {
		return NewPlayerError(CallError)
	}

	starter := *m.active
	other := starter.Other()

	deal := func(p PlayerIndex, n int) {
		for i := 0; i < n; i++ {
			c, _ := m.deck.Pop()
			m.players[p].Hand = append(m.players[p].Hand, c)
			m.bus.publishPublic(EventReceiveCard, ReceiveCardPayload{Player: p, Card: c})
			m.bus.publishPrivate(p, EventCardAvailable, CardAvailablePayload{Card: c})
		}
	}

	deal(starter, 3)
	deal(other, 3)

	trumpCard, _ := m.deck.Pop()
	m.trump = &trumpCard
	m.bus.publishPublic(EventTrumpChange, TrumpChangePayload{Trump: &trumpCard})

	deal(starter, 2)
	deal(other, 2)

	m.bus.publishPublic(EventFinishedDistribution, FinishedDistributionPayload{})

	m.refreshBothDerived()

	m.bus.publishPrivate(starter, EventAllowPlayCard, AllowPlayCardPayload{})
	m.bus.publishPrivate(starter, EventAllowCloseTalon, AllowCloseTalonPayload{})
	return nil
}

// PlayCard plays card c for player p, resolving the trick if it is the
// second card played.
func (m *Match) PlayCard(p PlayerIndex, c Card) *PlayerError {
	return m.withLock(func() *PlayerError {
		if m.active == nil || *m.active != p {
			return NewPlayerError(PlayerNotActive)
		}
		if !containsCard(m.playableCards(p), c) {
			return NewPlayerErrorWithCard(CantPlayCard, c)
		}

		m.players[p].RemoveCard(c)
		m.bus.publishPrivate(p, EventCardUnavailable, CardUnavailablePayload{Card: c})
		m.bus.publishPublic(EventPlayCard, PlayCardPayload{Player: p, Card: c})

		if m.constraint[p] != nil {
			m.constraint[p] = nil
		}

		if len(m.stack) == 0 {
			m.stack = []Card{c}
			m.stackLead = p
			m.refreshBothDerived()

			newActive := p.Other()
			m.switchActive(newActive)
			m.bus.publishPrivate(newActive, EventAllowPlayCard, AllowPlayCardPayload{})
			return nil
		}

		m.stack = append(m.stack, c)
		winner := m.resolveTrick()
		m.switchActive(winner)

		if m.checkRoundEnd(winner) {
			m.refreshBothDerived()
			return nil
		}

		talonOpen := m.closed == nil
		if (!m.deck.Empty() || m.trump != nil) && talonOpen {
			m.refreshBothDerived()
			m.bus.publishPrivate(winner, EventAllowDrawCard, AllowDrawCardPayload{})
			return nil
		}

		m.refreshBothDerived()
		if len(m.announcableMarriages(winner)) > 0 {
			m.bus.publishPrivate(winner, EventAllowAnnounce, AllowAnnouncePayload{})
		}
		m.bus.publishPrivate(winner, EventAllowPlayCard, AllowPlayCardPayload{})
		return nil
	})
}

func containsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

// SwapTrump exchanges the Jack of the trump suit from p's hand with the
// face-up trump card.
func (m *Match) SwapTrump(p PlayerIndex, c Card) *PlayerError {
	return m.withLock(func() *PlayerError {
		if m.active == nil || *m.active != p {
			return NewPlayerError(PlayerNotActive)
		}
		if m.trump == nil || len(m.stack) != 0 || m.closed != nil {
			return NewPlayerError(CantSwapTrump)
		}
		if c.Value != Jack || c.Suit != m.trump.Suit {
			return NewPlayerError(CardNotTrump)
		}
		if !m.players[p].HasCard(c) {
			return NewPlayerError(CantSwapTrump)
		}

		oldTrump := *m.trump
		m.players[p].RemoveCard(c)
		m.players[p].Hand = append(m.players[p].Hand, oldTrump)
		newTrump := c
		m.trump = &newTrump

		m.bus.publishPrivate(p, EventCardUnavailable, CardUnavailablePayload{Card: c})
		m.bus.publishPrivate(p, EventCardAvailable, CardAvailablePayload{Card: oldTrump})
		m.bus.publishPublic(EventTrumpChange, TrumpChangePayload{Trump: &newTrump})

		m.refreshDerived(p)
		return nil
	})
}

// CloseTalon seals the talon: no further draws are permitted this round.
func (m *Match) CloseTalon(p PlayerIndex) *PlayerError {
	return m.withLock(func() *PlayerError {
		if m.active == nil || *m.active != p {
			return NewPlayerError(PlayerNotActive)
		}
		if m.closed != nil {
			return NewPlayerError(TalonAlreadyClosed)
		}
		if m.deck.Empty() || len(m.stack) != 0 {
			return NewPlayerError(CallError)
		}

		m.closed = &p
		m.bus.publishPublic(EventCloseTalon, CloseTalonPayload{Player: p})
		m.refreshBothDerived()
		return nil
	})
}

// Announce20 records a non-trump marriage announcement.
func (m *Match) Announce20(p PlayerIndex, pair [2]Card) *PlayerError {
	return m.withLock(func() *PlayerError {
		return m.doAnnounce(p, pair, Twenty)
	})
}

// Announce40 records the trump-suit marriage announcement. The pair is
// derived from the player's hand since only one trump marriage can ever
// exist.
func (m *Match) Announce40(p PlayerIndex) *PlayerError {
	return m.withLock(func() *PlayerError {
		ts, ok := m.trumpSuit()
		if !ok {
			return NewPlayerError(CantPlay40)
		}
		pair, ok := m.marriageInSuit(p, ts)
		if !ok {
			return NewPlayerError(CantPlay40)
		}
		return m.doAnnounce(p, pair, Forty)
	})
}

func (m *Match) marriageInSuit(p PlayerIndex, s Suit) ([2]Card, bool) {
	pl := &m.players[p]
	var king, queen Card
	var hasKing, hasQueen bool
	for _, c := range pl.Hand {
		if c.Suit != s {
			continue
		}
		if c.Value == King {
			king, hasKing = c, true
		}
		if c.Value == Queen {
			queen, hasQueen = c, true
		}
	}
	if !hasKing || !hasQueen {
		return [2]Card{}, false
	}
	return [2]Card{king, queen}, true
}

func (m *Match) doAnnounce(p PlayerIndex, pair [2]Card, kind AnnounceKind) *PlayerError {
	if m.active == nil || *m.active != p {
		return NewPlayerError(PlayerNotActive)
	}
	if len(m.stack) != 0 {
		if kind == Forty {
			return NewPlayerError(CantPlay40)
		}
		return NewPlayerError(CantPlay20)
	}

	king, queen := pair[0], pair[1]
	if king.Suit != queen.Suit || king.Value != King || queen.Value != Queen {
		if kind == Forty {
			return NewPlayerError(CantPlay40)
		}
		return NewPlayerError(CantPlay20)
	}
	pl := &m.players[p]
	if !pl.HasCard(king) || !pl.HasCard(queen) {
		if kind == Forty {
			return NewPlayerError(CantPlay40)
		}
		return NewPlayerError(CantPlay20)
	}
	if pl.HasAnnouncedSuit(king.Suit) {
		if kind == Forty {
			return NewPlayerError(CantPlay40)
		}
		return NewPlayerError(CantPlay20)
	}

	ts, hasTrump := m.trumpSuit()
	isTrumpSuit := hasTrump && king.Suit == ts
	if kind == Forty && !isTrumpSuit {
		return NewPlayerError(CantPlay40)
	}
	if kind == Twenty && isTrumpSuit {
		return NewPlayerError(CantPlay20)
	}

	ann := Announcement{Cards: pair, Kind: kind}
	pl.Announcements = append(pl.Announcements, ann)
	m.bus.publishPublic(EventAnnounce, AnnouncePayload{Player: p, Announcement: ann})

	m.constraint[p] = &pair
	m.refreshDerived(p)
	return nil
}

// DrawCardAfterTrick draws the trick-winner's replenishment card, then the
// other player's, mirroring the source's two-draws-per-trick flow.
func (m *Match) DrawCardAfterTrick(p PlayerIndex) *PlayerError {
	return m.withLock(func() *PlayerError {
		return m.doDrawAfterTrick(p)
	})
}

func (m *Match) doDrawAfterTrick(p PlayerIndex) *PlayerError {
	if m.active == nil || *m.active != p {
		return NewPlayerError(CantTakeCardPlayerNotActive)
	}
	if len(m.stack) != 0 {
		return NewPlayerError(CantTakeCardRoundNotFinished)
	}
	if m.closed != nil {
		return NewPlayerError(TalonAlreadyClosed)
	}
	if len(m.players[p].Hand) >= 5 {
		return NewPlayerError(CantTakeCardHaveAlreadyFive)
	}
	if m.deck.Empty() && m.trump == nil {
		return NewPlayerError(CantTakeCardDeckEmpty)
	}

	m.drawOne(p)
	m.drawOne(p.Other())

	m.refreshBothDerived()

	if len(m.players[PlayerOne].Hand) == 5 && len(m.players[PlayerTwo].Hand) == 5 {
		m.bus.publishPrivate(p, EventAllowPlayCard, AllowPlayCardPayload{})
		m.bus.publishPrivate(p, EventAllowCloseTalon, AllowCloseTalonPayload{})
	}
	return nil
}

// drawOne draws a single replenishment card for player p: from the deck
// if non-empty, otherwise the face-up trump card (its last possible
// draw). No-op if neither is available.
func (m *Match) drawOne(p PlayerIndex) {
	if len(m.players[p].Hand) >= 5 {
		return
	}
	if !m.deck.Empty() {
		c, _ := m.deck.Pop()
		m.players[p].Hand = append(m.players[p].Hand, c)
		m.bus.publishPublic(EventDeckCardCount, DeckCardCountPayload{Count: m.deck.Size()})
		m.bus.publishPrivate(p, EventCardAvailable, CardAvailablePayload{Card: c})
		m.bus.publishPublic(EventReceiveCard, ReceiveCardPayload{Player: p, Card: c})
		return
	}
	if m.trump != nil {
		c := *m.trump
		m.taken = &takenTrump{player: p, card: c}
		m.trump = nil
		m.bus.publishPublic(EventTrumpChange, TrumpChangePayload{Trump: nil})
		m.bus.publishPublic(EventDeckCardCount, DeckCardCountPayload{Count: m.deck.Size()})
		m.players[p].Hand = append(m.players[p].Hand, c)
		m.bus.publishPrivate(p, EventCardAvailable, CardAvailablePayload{Card: c})
		m.bus.publishPublic(EventReceiveCard, ReceiveCardPayload{Player: p, Card: c})
	}
}

// TakeCards is the client-facing alias for draw_card_after_trick; count is
// the number of cards the client believes are drawable and is validated,
// not trusted.
func (m *Match) TakeCards(p PlayerIndex, count int) *PlayerError {
	return m.withLock(func() *PlayerError {
		expected := 0
		if !m.deck.Empty() || m.trump != nil {
			expected = 1
		}
		if count > expected {
			return NewPlayerError(CantTakeAllDeckCards)
		}
		if count < expected {
			return NewPlayerError(CallError)
		}
		return m.doDrawAfterTrick(p)
	})
}

// CutDeck rotates the talon by k cards. Only legal for the non-active
// player (or before any active player is set).
func (m *Match) CutDeck(p PlayerIndex, k int) *PlayerError {
	return m.withLock(func() *PlayerError {
		if m.active != nil && *m.active == p {
			return NewPlayerError(CallError)
		}
		m.deck.Cut(k)
		return nil
	})
}

// Quit ends the match immediately as a forced loss for p: a graceful
// early fold, handled identically to a disconnect with no reconnect
// except that it skips the reconnect timeout window entirely.
func (m *Match) Quit(p PlayerIndex) *PlayerError {
	return m.withLock(func() *PlayerError {
		if m.ended {
			return NewPlayerError(CallError)
		}
		m.ended = true
		m.bus.publishPublic(EventQuit, QuitPayload{Player: p})
		return nil
	})
}
