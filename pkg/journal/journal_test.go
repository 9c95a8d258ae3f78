package journal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schnapsen-duo/match-server/pkg/rules"
)

func TestAppendKeepsMonotonicOrder(t *testing.T) {
	j := New()
	j.Append(Entry{Timestamp: 1, Scope: PublicScope(), Event: rules.Event{Kind: rules.EventActive}})
	j.Append(Entry{Timestamp: 2, Scope: PublicScope(), Event: rules.Event{Kind: rules.EventPlayCard}})

	all := j.All()
	require.Len(t, all, 2)
	require.Equal(t, int64(1), all[0].Timestamp)
	require.Equal(t, int64(2), all[1].Timestamp)
}

func TestAppendOutOfOrderInsertsAtCorrectPosition(t *testing.T) {
	j := New()
	j.Append(Entry{Timestamp: 5, Scope: PublicScope()})
	j.Append(Entry{Timestamp: 10, Scope: PublicScope()})
	j.Append(Entry{Timestamp: 7, Scope: PublicScope()})

	all := j.All()
	require.Equal(t, []int64{5, 7, 10}, []int64{all[0].Timestamp, all[1].Timestamp, all[2].Timestamp})
}

func TestEventsSinceFiltersByScope(t *testing.T) {
	j := New()
	j.Append(Entry{Timestamp: 1, Scope: PublicScope(), Event: rules.Event{Kind: rules.EventActive}})
	j.Append(Entry{Timestamp: 2, Scope: PrivateScope(rules.PlayerOne), Event: rules.Event{Kind: rules.EventCardAvailable}})
	j.Append(Entry{Timestamp: 3, Scope: PrivateScope(rules.PlayerTwo), Event: rules.Event{Kind: rules.EventCardAvailable}})

	forP1 := j.EventsSince(0, rules.PlayerOne)
	require.Len(t, forP1, 2)

	forP2 := j.EventsSince(0, rules.PlayerTwo)
	require.Len(t, forP2, 2)
}

func TestEventsSinceRespectsWatermark(t *testing.T) {
	j := New()
	j.Append(Entry{Timestamp: 1, Scope: PublicScope()})
	j.Append(Entry{Timestamp: 2, Scope: PublicScope()})
	j.Append(Entry{Timestamp: 3, Scope: PublicScope()})

	got := j.EventsSince(2, rules.PlayerOne)
	require.Len(t, got, 2)
	require.Equal(t, int64(2), got[0].Timestamp)
}
