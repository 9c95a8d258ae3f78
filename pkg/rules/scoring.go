package rules

// bummerlPointsFor converts a losing player's round points into the
// bummerl match-points the winner is awarded: a loser caught with zero
// points ("schneider schwarz") is worth 3; a loser at 33 or more is
// worth 2; anything else is worth 1.
func bummerlPointsFor(loserPoints int) int {
	switch {
	case loserPoints == 0:
		return 3
	case loserPoints >= 33:
		return 2
	default:
		return 1
	}
}

// checkRoundEnd inspects match state after a trick resolves and ends the
// round if either end condition holds. lastTrickWinner is who just won
// the most recent trick, used for the exhaustion tie-break. Must be
// called with the match mutex held.
func (m *Match) checkRoundEnd(lastTrickWinner PlayerIndex) bool {
	if m.players[lastTrickWinner].RoundPoints() >= 66 {
		m.endRoundByPoints(lastTrickWinner)
		return true
	}
	if len(m.players[PlayerOne].Hand) == 0 && len(m.players[PlayerTwo].Hand) == 0 {
		m.endRoundByExhaustion(lastTrickWinner)
		return true
	}
	return false
}

// endRoundByPoints ends the round because winner crossed 66 points. The
// loser keeps whatever round points they accumulated; there is no
// absorption or closed-talon adjustment on this path.
func (m *Match) endRoundByPoints(winner PlayerIndex) {
	loser := winner.Other()
	m.finishRound(winner, loser, m.players[winner].RoundPoints(), m.players[loser].RoundPoints())
}

// endRoundByExhaustion ends the round because both hands emptied before
// either player reached 66. The raw points-leader absorbs the
// points-trailer's round points entirely, leaving the trailer at zero.
// Closing the talon always adds 10 to the absorbed total, but the
// closer never keeps the win on this path: if the closer is the raw
// points-leader, winner and loser swap identities so the closer ends up
// the final loser (the "close and fail" rule); if the closer is the raw
// points-trailer, they were already headed for the loser slot, so no
// swap is needed. With no closed talon, the tie-break instead swaps
// whenever the points-leader did not take the last trick. In every
// case, the point totals stay bound to the pre-swap winner/loser
// slots — only the player identity occupying each slot can move.
func (m *Match) endRoundByExhaustion(lastTrickWinner PlayerIndex) {
	winner := PlayerOne
	if m.players[PlayerTwo].RoundPoints() > m.players[PlayerOne].RoundPoints() {
		winner = PlayerTwo
	}
	loser := winner.Other()

	winnerPoints := m.players[winner].RoundPoints() + m.players[loser].RoundPoints()
	loserPoints := 0

	switch {
	case m.closed != nil:
		winnerPoints += 10
		if *m.closed == winner {
			winner, loser = loser, winner
		}
	case lastTrickWinner != winner:
		winner, loser = loser, winner
	}

	m.finishRound(winner, loser, winnerPoints, loserPoints)
}

func (m *Match) finishRound(winner, loser PlayerIndex, winnerPoints, loserPoints int) {
	m.bus.publishPublic(EventScore, ScorePayload{Player: winner, Points: winnerPoints})
	m.bus.publishPublic(EventScore, ScorePayload{Player: loser, Points: loserPoints})

	ranked := bummerlPointsFor(loserPoints)
	m.players[winner].Points += ranked

	m.bus.publishPublic(EventResult, ResultPayload{Winner: winner, LoserPoints: loserPoints, Ranked: ranked})
	m.roundNum++

	if m.mode == Duo {
		m.ended = true
		return
	}

	if m.players[winner].Points >= BummerlTarget {
		m.bus.publishPublic(EventFinalResult, FinalResultPayload{Winner: winner, Ranked: ranked})
		m.ended = true
	}
}

// NextRound starts a fresh round in bummerl mode: the previous round's
// winner leads. Called by the match orchestrator after its round-break
// pause.
func (m *Match) NextRound(winner PlayerIndex) *PlayerError {
	return m.withLock(func() *PlayerError {
		if m.ended && m.mode != Bummerl {
			return NewPlayerError(CallError)
		}

		p1Points, p2Points := m.players[PlayerOne].Points, m.players[PlayerTwo].Points
		m.players[PlayerOne].Reset()
		m.players[PlayerTwo].Reset()
		m.players[PlayerOne].Points = p1Points
		m.players[PlayerTwo].Points = p2Points

		m.deck = NewDeck()
		m.deck.Shuffle(m.rng)
		m.trump = nil
		m.taken = nil
		m.closed = nil
		m.stack = nil
		m.constraint = [2]*[2]Card{}
		m.cachedPlayable = [2][]Card{}
		m.cachedAnnouncable = [2][]Announcement{}
		m.cachedSwap = [2]*Card{}
		m.active = nil

		if err := m.doSetActivePlayer(winner); err != nil {
			return err
		}
		return m.doDistributeCards()
	})
}
