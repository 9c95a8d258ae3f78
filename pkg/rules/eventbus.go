package rules

import "github.com/decred/slog"

// busCapacity bounds each subscriber channel. RE never blocks on a slow
// subscriber: sends are non-blocking and a full channel drops the event
// with a log line, matching the source's fire-and-forget emit policy.
const busCapacity = 256

// Subscriber is a read-only view of one of the bus's channels.
type Subscriber = <-chan Event

// EventBus replaces the source's player-id-to-closure observer map with a
// typed, bounded-channel fan-out: one public stream, and one private
// stream per player index. This removes the need to identify and remove
// callbacks by closure pointer equality.
type EventBus struct {
	public  chan Event
	private [2]chan Event
	log     slog.Logger
}

// NewEventBus constructs a bus with bounded channels.
func NewEventBus(log slog.Logger) *EventBus {
	return &EventBus{
		public: make(chan Event, busCapacity),
		private: [2]chan Event{
			make(chan Event, busCapacity),
			make(chan Event, busCapacity),
		},
		log: log,
	}
}

// Public returns the public event stream.
func (b *EventBus) Public() Subscriber {
	return b.public
}

// Private returns the private event stream for player p.
func (b *EventBus) Private(p PlayerIndex) Subscriber {
	return b.private[p]
}

// publishPublic sends a public event, dropping it (with a log line) if
// the public subscriber is backed up.
func (b *EventBus) publishPublic(kind EventKind, payload any) {
	ev := Event{Kind: kind, Payload: payload}
	select {
	case b.public <- ev:
	default:
		if b.log != nil {
			b.log.Warnf("dropping public event %s: subscriber backed up", kind)
		}
	}
}

// publishPrivate sends a private event to player p only.
func (b *EventBus) publishPrivate(p PlayerIndex, kind EventKind, payload any) {
	ev := Event{Kind: kind, Player: p, Payload: payload}
	select {
	case b.private[p] <- ev:
	default:
		if b.log != nil {
			b.log.Warnf("dropping private event %s for player %d: subscriber backed up", kind, p)
		}
	}
}

// publishPrivateBoth sends the same private event to both players.
func (b *EventBus) publishPrivateBoth(kind EventKind, payload any) {
	b.publishPrivate(PlayerOne, kind, payload)
	b.publishPrivate(PlayerTwo, kind, payload)
}
