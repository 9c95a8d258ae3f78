// Package journal implements the Event Journal: an append-ordered,
// timestamped log of every event a match produces, with scope-filtered
// tail reads for resynchronization.
package journal

import (
	"sort"
	"sync"

	"github.com/schnapsen-duo/match-server/pkg/rules"
)

// Scope identifies who may see an entry: everyone (public) or one player
// (private).
type Scope struct {
	Public bool
	Player rules.PlayerIndex
}

// PublicScope is the scope shared by every viewer.
func PublicScope() Scope { return Scope{Public: true} }

// PrivateScope is the scope visible only to p.
func PrivateScope(p rules.PlayerIndex) Scope { return Scope{Player: p} }

// visibleTo reports whether scope s is visible to viewer.
func (s Scope) visibleTo(viewer rules.PlayerIndex) bool {
	return s.Public || s.Player == viewer
}

// Entry is one journal record.
type Entry struct {
	Timestamp int64 // microseconds since epoch
	Scope     Scope
	Event     rules.Event
}

// Journal is a timestamp-sorted append log, guarded by its own mutex per
// the concurrency model: observers write, session bindings read.
type Journal struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{}
}

// Append inserts entry at the correct tail position to keep the sequence
// sorted by timestamp. Amortized O(1) for monotonic input, which is the
// overwhelmingly common case; out-of-order arrivals fall back to an
// insertion sort of the small out-of-order suffix.
func (j *Journal) Append(entry Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()

	n := len(j.entries)
	if n == 0 || j.entries[n-1].Timestamp <= entry.Timestamp {
		j.entries = append(j.entries, entry)
		return
	}

	idx := sort.Search(n, func(i int) bool {
		return j.entries[i].Timestamp > entry.Timestamp
	})
	j.entries = append(j.entries, Entry{})
	copy(j.entries[idx+1:], j.entries[idx:])
	j.entries[idx] = entry
}

// EventsSince returns the suffix of entries with Timestamp >= t, filtered
// to entries visible to viewer.
func (j *Journal) EventsSince(t int64, viewer rules.PlayerIndex) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	start := sort.Search(len(j.entries), func(i int) bool {
		return j.entries[i].Timestamp >= t
	})

	out := make([]Entry, 0, len(j.entries)-start)
	for _, e := range j.entries[start:] {
		if e.Scope.visibleTo(viewer) {
			out = append(out, e)
		}
	}
	return out
}

// All returns the full sequence, public and private, in order.
func (j *Journal) All() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}
