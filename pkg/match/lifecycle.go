package match

import "github.com/schnapsen-duo/match-server/pkg/statemachine"

// lifecycle tracks the coarse match-level state — awaiting_players,
// active, terminated — independently of the rule engine's own
// round-level state. It exists for observability: transitions are
// logged, nothing downstream branches on GetCurrentState.
type lifecycle = statemachine.StateFn[Orchestrator]

func awaitingPlayersState(o *Orchestrator, notify func(string, statemachine.StateEvent)) lifecycle {
	if notify != nil {
		notify("awaiting_players", statemachine.StateEntered)
	}
	return nil
}

func activeState(o *Orchestrator, notify func(string, statemachine.StateEvent)) lifecycle {
	if notify != nil {
		notify("active", statemachine.StateEntered)
	}
	return nil
}

func terminatedState(o *Orchestrator, notify func(string, statemachine.StateEvent)) lifecycle {
	if notify != nil {
		notify("terminated", statemachine.StateEntered)
	}
	return nil
}

func newLifecycle(o *Orchestrator) *statemachine.StateMachine[Orchestrator] {
	return statemachine.NewStateMachine(o, awaitingPlayersState)
}

// enterLifecycle installs next as the current state and logs the
// transition via the state machine's own dispatch path.
func (o *Orchestrator) enterLifecycle(next lifecycle) {
	o.lifecycle.EnterState(next, o.logLifecycleEvent)
}

func (o *Orchestrator) logLifecycleEvent(state string, event statemachine.StateEvent) {
	if o.log == nil || event != statemachine.StateEntered {
		return
	}
	o.log.Infof("match %s lifecycle -> %s", o.matchID, state)
}
