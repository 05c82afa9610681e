package roulette

import (
	"errors"
	"fmt"
)

// RejectionKind classifies why a bet request was refused.
type RejectionKind int

const (
	MalformedCommand RejectionKind = iota + 1
	InvalidSelector
	InsufficientBalance
	BelowMinimumWager
	UnknownBetType
)

func (k RejectionKind) String() string {
	switch k {
	case MalformedCommand:
		return "malformed_command"
	case InvalidSelector:
		return "invalid_selector"
	case InsufficientBalance:
		return "insufficient_balance"
	case BelowMinimumWager:
		return "below_minimum_wager"
	case UnknownBetType:
		return "unknown_bet_type"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against a *RejectionError.
var (
	ErrMalformedCommand    = errors.New("malformed command")
	ErrInvalidSelector     = errors.New("invalid selector")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimumWager   = errors.New("below minimum wager")
	ErrUnknownBetType      = errors.New("unknown bet type")

	// ErrCollaborator marks failures of the store or entropy source.
	ErrCollaborator = errors.New("collaborator failure")
)

var kindSentinels = map[RejectionKind]error{
	MalformedCommand:    ErrMalformedCommand,
	InvalidSelector:     ErrInvalidSelector,
	InsufficientBalance: ErrInsufficientBalance,
	BelowMinimumWager:   ErrBelowMinimumWager,
	UnknownBetType:      ErrUnknownBetType,
}

// RejectionError is a user-correctable problem with a bet request.
// Message is safe to show in chat.
type RejectionError struct {
	Kind    RejectionKind
	Token   string
	Message string
}

func (e *RejectionError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Token, e.Message)
}

func (e *RejectionError) Unwrap() error {
	return kindSentinels[e.Kind]
}

func reject(kind RejectionKind, token, format string, args ...interface{}) *RejectionError {
	return &RejectionError{Kind: kind, Token: token, Message: fmt.Sprintf(format, args...)}
}

// CollaboratorError wraps a failure from something outside the engine.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaborator
}
