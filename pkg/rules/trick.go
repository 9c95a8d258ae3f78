package rules

// cardsOfSuit filters hand to cards of suit s.
func cardsOfSuit(hand []Card, s Suit) []Card {
	var out []Card
	for _, c := range hand {
		if c.Suit == s {
			out = append(out, c)
		}
	}
	return out
}

// secondWins reports whether response beats lead, given the active trump
// suit: trump beats non-trump; otherwise the lead's suit must be
// followed to contest it; among cards of the same suit, higher value
// wins.
func secondWins(lead, response Card, trump Suit) bool {
	leadTrump := lead.Suit == trump
	respTrump := response.Suit == trump
	if leadTrump != respTrump {
		return respTrump
	}
	if response.Suit != lead.Suit {
		return false
	}
	return response.Value > lead.Value
}

// winningCandidates narrows candidates to those that would beat lead,
// used for the closed-talon playable-card restriction.
func winningCandidates(candidates []Card, lead Card, trump Suit) []Card {
	var out []Card
	for _, c := range candidates {
		if secondWins(lead, c, trump) {
			out = append(out, c)
		}
	}
	return out
}

// playableCards derives the legal plays for player p given current match
// state. Must be called with the match mutex held.
func (m *Match) playableCards(p PlayerIndex) []Card {
	pl := &m.players[p]

	if len(m.stack) == 0 {
		if c := m.constraint[p]; c != nil {
			var out []Card
			for _, cc := range c {
				if pl.HasCard(cc) {
					out = append(out, cc)
				}
			}
			return out
		}
		return append([]Card{}, pl.Hand...)
	}

	// Open-stock phase: no suit-following obligation while the trump card
	// still lies face up and the talon isn't closed.
	if m.trump != nil && m.closed == nil {
		return append([]Card{}, pl.Hand...)
	}

	lead := m.stack[0]
	var candidates []Card
	if suited := cardsOfSuit(pl.Hand, lead.Suit); len(suited) > 0 {
		candidates = suited
	} else if ts, ok := m.trumpSuit(); ok {
		if trumped := cardsOfSuit(pl.Hand, ts); len(trumped) > 0 {
			candidates = trumped
		} else {
			candidates = append([]Card{}, pl.Hand...)
		}
	} else {
		candidates = append([]Card{}, pl.Hand...)
	}

	if m.closed != nil {
		ts, _ := m.trumpSuit()
		if winning := winningCandidates(candidates, lead, ts); len(winning) > 0 {
			candidates = winning
		}
	}
	return candidates
}

// announcableMarriages derives the marriages player p could currently
// announce: King+Queen held in hand, not yet announced in that suit, only
// while leading (stack empty).
func (m *Match) announcableMarriages(p PlayerIndex) []Announcement {
	if len(m.stack) != 0 {
		return nil
	}
	pl := &m.players[p]
	ts, haveTrump := m.trumpSuit()

	var out []Announcement
	for _, s := range Suits {
		if pl.HasAnnouncedSuit(s) {
			continue
		}
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
			continue
		}
		kind := Twenty
		if haveTrump && s == ts {
			kind = Forty
		}
		out = append(out, Announcement{Cards: [2]Card{king, queen}, Kind: kind})
	}
	return out
}

// possibleTrumpSwap derives the trump-swap card available to player p, if
// any: the Jack of the trump suit, while the trump card is still face up,
// the talon is open, and the trick stack is empty.
func (m *Match) possibleTrumpSwap(p PlayerIndex) *Card {
	if m.trump == nil || m.closed != nil || len(m.stack) != 0 {
		return nil
	}
	pl := &m.players[p]
	for _, c := range pl.Hand {
		if c.Suit == m.trump.Suit && c.Value == Jack {
			cc := c
			return &cc
		}
	}
	return nil
}

// refreshDerived recomputes and diffs playable/announcable/swap state for
// player p, publishing only the deltas: every observable derived set
// emits delta events when it changes. Must be called with the match
// mutex held.
func (m *Match) refreshDerived(p PlayerIndex) {
	newPlayable := m.playableCards(p)
	diffCards(m.cachedPlayable[p], newPlayable,
		func(c Card) { m.bus.publishPrivate(p, EventCardPlayable, CardPlayablePayload{Card: c}) },
		func(c Card) { m.bus.publishPrivate(p, EventCardNotPlayable, CardNotPlayablePayload{Card: c}) },
	)
	m.cachedPlayable[p] = newPlayable

	newAnnounce := m.announcableMarriages(p)
	diffAnnouncements(m.cachedAnnouncable[p], newAnnounce,
		func(a Announcement) {
			m.bus.publishPrivate(p, EventCanAnnounce, CanAnnouncePayload{Cards: a.Cards, Kind: a.Kind})
		},
		func(a Announcement) {
			m.bus.publishPrivate(p, EventCannotAnnounce, CannotAnnouncePayload{Suit: a.Suit()})
		},
	)
	m.cachedAnnouncable[p] = newAnnounce

	newSwap := m.possibleTrumpSwap(p)
	oldSwap := m.cachedSwap[p]
	switch {
	case oldSwap == nil && newSwap != nil:
		m.bus.publishPrivate(p, EventTrumpChangePossible, TrumpChangePossiblePayload{Card: *newSwap})
		m.bus.publishPrivate(p, EventAllowSwapTrump, AllowSwapTrumpPayload{})
	case oldSwap != nil && newSwap == nil:
		m.bus.publishPrivate(p, EventTrumpChangeImpossible, TrumpChangeImpossiblePayload{})
	case oldSwap != nil && newSwap != nil && *oldSwap != *newSwap:
		m.bus.publishPrivate(p, EventTrumpChangePossible, TrumpChangePossiblePayload{Card: *newSwap})
		m.bus.publishPrivate(p, EventAllowSwapTrump, AllowSwapTrumpPayload{})
	}
	m.cachedSwap[p] = newSwap
}

// refreshBothDerived refreshes derived state for both players; used after
// transitions that can affect either hand's legal moves (e.g. talon
// close, card plays, replenishment draws).
func (m *Match) refreshBothDerived() {
	m.refreshDerived(PlayerOne)
	m.refreshDerived(PlayerTwo)
}

func diffCards(old, new []Card, added, removed func(Card)) {
	oldSet := map[Card]bool{}
	for _, c := range old {
		oldSet[c] = true
	}
	newSet := map[Card]bool{}
	for _, c := range new {
		newSet[c] = true
	}
	for _, c := range new {
		if !oldSet[c] {
			added(c)
		}
	}
	for _, c := range old {
		if !newSet[c] {
			removed(c)
		}
	}
}

func diffAnnouncements(old, new []Announcement, added, removed func(Announcement)) {
	key := func(a Announcement) Suit { return a.Suit() }
	oldSet := map[Suit]Announcement{}
	for _, a := range old {
		oldSet[key(a)] = a
	}
	newSet := map[Suit]Announcement{}
	for _, a := range new {
		newSet[key(a)] = a
	}
	for _, a := range new {
		if _, ok := oldSet[key(a)]; !ok {
			added(a)
		}
	}
	for _, a := range old {
		if _, ok := newSet[key(a)]; !ok {
			removed(a)
		}
	}
}

// resolveTrick determines the winner of a full 2-card stack and updates
// match state accordingly. Must be called with the match mutex held, and
// only when len(m.stack) == 2.
func (m *Match) resolveTrick() PlayerIndex {
	lead := m.stack[0]
	response := m.stack[1]
	ts, _ := m.trumpSuit()

	winner := m.stackLead
	if secondWins(lead, response, ts) {
		winner = m.stackLead.Other()
	}

	m.players[winner].Tricks = append(m.players[winner].Tricks, Trick{Lead: lead, Response: response})
	m.bus.publishPublic(EventTrick, TrickPayload{Winner: winner, Lead: lead, Response: response})

	m.stack = nil
	return winner
}
