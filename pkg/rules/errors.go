package rules

import "fmt"

// ErrorKind is the closed player-facing error taxonomy. Values are
// stable strings, stringified back to the offending session.
type ErrorKind string

const (
	CantPlay40                   ErrorKind = "CantPlay40"
	CantPlay20                   ErrorKind = "CantPlay20"
	CantTakeCardDeckEmpty        ErrorKind = "CantTakeCardDeckEmpty"
	CantPlayCard                 ErrorKind = "CantPlayCard"
	PlayerNotActive               ErrorKind = "PlayerNotActive"
	CardNotTrump                 ErrorKind = "CardNotTrump"
	CantTakeCardRoundNotFinished  ErrorKind = "CantTakeCardRoundNotFinished"
	NoPlayerActive               ErrorKind = "NoPlayerActive"
	CantTakeAllDeckCards         ErrorKind = "CantTakeAllDeckCards"
	NotAllPlayersHaveTakenCards  ErrorKind = "NotAllPlayersHaveTakenCards"
	CantSetActivePlayer          ErrorKind = "CantSetActivePlayer"
	CantSwapTrump                ErrorKind = "CantSwapTrump"
	CantTakeCardPlayerNotActive  ErrorKind = "CantTakeCardPlayerNotActive"
	CantTakeCardHaveAlreadyFive  ErrorKind = "CantTakeCardHaveAlreadyFive"
	TalonAlreadyClosed           ErrorKind = "TalonAlreadyClosed"
	CallError                    ErrorKind = "CallError"
)

// PlayerError is the error type every rule engine command returns. A
// nil *PlayerError means success.
type PlayerError struct {
	Kind ErrorKind
	Card *Card
}

func (e *PlayerError) Error() string {
	if e == nil {
		return ""
	}
	if e.Card != nil {
		return fmt.Sprintf("%s(%s)", e.Kind, e.Card)
	}
	return string(e.Kind)
}

// NewPlayerError builds a PlayerError with no card payload.
func NewPlayerError(kind ErrorKind) *PlayerError {
	return &PlayerError{Kind: kind}
}

// NewPlayerErrorWithCard builds a PlayerError carrying the offending card
// (used by CantPlayCard).
func NewPlayerErrorWithCard(kind ErrorKind, c Card) *PlayerError {
	return &PlayerError{Kind: kind, Card: &c}
}
