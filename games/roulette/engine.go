package roulette

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// History records every slot the engine draws.
type History interface {
	Append(ctx context.Context, s Slot) error
	Recent(ctx context.Context, n int) ([]Slot, error)
}

// Result is the outcome of one resolved bet. Delta is the signed change the
// ledger should apply: +Payout on a win, -Wager on a loss.
type Result struct {
	ID         string
	Bet        Bet
	Slot       Slot
	Color      Color
	Won        bool
	Multiplier int64
	Payout     int64
	Delta      int64
}

// Evaluate resolves bet against a known slot without drawing.
func Evaluate(bet Bet, s Slot) *Result {
	res := &Result{
		ID:         uuid.NewString(),
		Bet:        bet,
		Slot:       s,
		Color:      s.Color(),
		Multiplier: bet.Multiplier(),
	}
	if Wins(bet, s) {
		res.Won = true
		res.Payout = bet.Wager * res.Multiplier
		res.Delta = res.Payout
	} else {
		res.Delta = -bet.Wager
	}
	return res
}

// Engine draws and resolves bets. It never writes balances.
type Engine struct {
	wheel   Wheel
	history History
}

func NewEngine(wheel Wheel, history History) *Engine {
	return &Engine{wheel: wheel, history: history}
}

// Resolve spins the wheel exactly once for bet and records the slot in the
// history. The caller applies Result.Delta through the ledger.
func (e *Engine) Resolve(ctx context.Context, bet Bet, balance int64) (*Result, error) {
	if !bet.Type.valid() {
		return nil, reject(UnknownBetType, "", "There is no bet type called %q", bet.Type.String())
	}
	if bet.Wager <= 0 || bet.Wager > MaxWager {
		return nil, reject(MalformedCommand, "", "%d is not a valid wager.", bet.Wager)
	}
	if bet.Wager > balance {
		return nil, reject(InsufficientBalance, "", "You can't wager %d points since you only have %d points to spend.", bet.Wager, balance)
	}

	slot, err := e.wheel.Spin()
	if err != nil {
		return nil, &CollaboratorError{Op: "spin", Err: err}
	}
	if !slot.Valid() {
		return nil, &CollaboratorError{Op: "spin", Err: fmt.Errorf("slot %d out of range", slot)}
	}

	res := Evaluate(bet, slot)
	if err := e.history.Append(ctx, slot); err != nil {
		return nil, &CollaboratorError{Op: "history append", Err: err}
	}
	return res, nil
}

// Recent returns up to n slots, newest first.
func (e *Engine) Recent(ctx context.Context, n int) ([]Slot, error) {
	slots, err := e.history.Recent(ctx, n)
	if err != nil {
		return nil, &CollaboratorError{Op: "history read", Err: err}
	}
	return slots, nil
}
