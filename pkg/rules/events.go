package rules

// EventKind names one of the typed events RE emits, matching the
// snake_case wire names from the external interface.
type EventKind string

// Public events, visible to every viewer in the match.
const (
	EventActive              EventKind = "active"
	EventInactive             EventKind = "inactive"
	EventReceiveCard          EventKind = "receive_card"
	EventDeckCardCount        EventKind = "deck_card_count"
	EventTrumpChange          EventKind = "trump_change"
	EventPlayCard             EventKind = "play_card"
	EventTrick                EventKind = "trick"
	EventAnnounce             EventKind = "announce"
	EventCloseTalon           EventKind = "close_talon"
	EventScore                EventKind = "score"
	EventResult               EventKind = "result"
	EventFinalResult          EventKind = "final_result"
	EventFinishedDistribution EventKind = "finished_distribution"

	// EventQuit is an orchestrator-internal control event, never sent
	// over the wire as-is: it signals an immediate forced loss for the
	// quitting player, skipping the reconnect/force-move timeout window.
	EventQuit EventKind = "quit_fold"
)

// Private events, visible only to their addressee.
const (
	EventCardAvailable        EventKind = "card_available"
	EventCardUnavailable      EventKind = "card_unavailable"
	EventCardPlayable         EventKind = "card_playable"
	EventCardNotPlayable      EventKind = "card_not_playable"
	EventCanAnnounce          EventKind = "can_announce"
	EventCannotAnnounce       EventKind = "cannot_announce"
	EventTrumpChangePossible  EventKind = "trump_change_possible"
	EventTrumpChangeImpossible EventKind = "trump_change_impossible"
	EventAllowPlayCard        EventKind = "allow_play_card"
	EventAllowDrawCard        EventKind = "allow_draw_card"
	EventAllowAnnounce        EventKind = "allow_announce"
	EventAllowCloseTalon      EventKind = "allow_close_talon"
	EventAllowSwapTrump       EventKind = "allow_swap_trump"
)

// Event is the payload RE publishes on the event bus. Payload holds the
// typed payload struct for Kind (one of the *Payload types below) as an
// opaque value so the bus and journal don't need a case per kind.
type Event struct {
	Kind    EventKind
	Player  PlayerIndex // addressee for private events; unused for public
	Payload any
}

// --- Public event payloads ---

type ActivePayload struct {
	Player PlayerIndex
}

type InactivePayload struct {
	Player PlayerIndex
}

type ReceiveCardPayload struct {
	Player PlayerIndex
	Card   Card
}

type DeckCardCountPayload struct {
	Count int
}

// TrumpChangePayload carries the new trump card, or nil if the trump has
// been taken into a hand (TrumpChange(None)).
type TrumpChangePayload struct {
	Trump *Card
}

type PlayCardPayload struct {
	Player PlayerIndex
	Card   Card
}

type TrickPayload struct {
	Winner PlayerIndex
	Lead   Card
	Response Card
}

type AnnouncePayload struct {
	Player       PlayerIndex
	Announcement Announcement
}

type CloseTalonPayload struct {
	Player PlayerIndex
}

type ScorePayload struct {
	Player PlayerIndex
	Points int
}

type ResultPayload struct {
	Winner     PlayerIndex
	LoserPoints int
	Ranked     int // bummerl points awarded to the winner: 1, 2, or 3
}

type FinalResultPayload struct {
	Winner PlayerIndex
	Ranked int
}

type FinishedDistributionPayload struct{}

// QuitPayload names the player who folded early.
type QuitPayload struct {
	Player PlayerIndex
}

// --- Private event payloads ---

type CardAvailablePayload struct {
	Card Card
}

type CardUnavailablePayload struct {
	Card Card
}

type CardPlayablePayload struct {
	Card Card
}

type CardNotPlayablePayload struct {
	Card Card
}

type CanAnnouncePayload struct {
	Cards [2]Card
	Kind  AnnounceKind
}

type CannotAnnouncePayload struct {
	Suit Suit
}

type TrumpChangePossiblePayload struct {
	Card Card
}

type TrumpChangeImpossiblePayload struct{}

type AllowPlayCardPayload struct{}

type AllowDrawCardPayload struct{}

type AllowAnnouncePayload struct{}

type AllowCloseTalonPayload struct{}

type AllowSwapTrumpPayload struct{}
