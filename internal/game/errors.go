package game

import "errors"

// Action validation errors. All of them leave hand state untouched; the
// caller decides whether to resubmit.
var (
	ErrOutOfTurn         = errors.New("action out of turn")
	ErrPlayerNotEligible = errors.New("player not eligible to act")
	ErrIllegalCheck      = errors.New("cannot check facing a bet")
	ErrIllegalRaiseSize  = errors.New("raise below minimum")
	ErrInsufficientStack = errors.New("insufficient chips")
	ErrHandComplete      = errors.New("hand already complete")
)
