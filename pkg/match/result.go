// Package match implements the match orchestrator: the per-match
// supervisor that creates the rule engine, binds player sessions,
// enforces timing and disconnection policy, and produces the terminal
// outcome.
package match

import "github.com/schnapsen-duo/match-server/pkg/protocol"

// Outcome is the terminal event delivered to every registered exit
// callback exactly once: either a natural MatchResult or an abrupt
// MatchAbruptClose, never both.
type Outcome struct {
	Result      *protocol.MatchResult
	AbruptClose *protocol.MatchAbruptClose
}
