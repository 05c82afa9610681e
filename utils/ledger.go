package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chatwheel/games/roulette"
	"chatwheel/models"
)

var (
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrSwapContention = errors.New("points changed too often to swap")
)

// maxSwapAttempts bounds the compare-and-swap retry loop in Penalize.
const maxSwapAttempts = 5

// Ledger is the only writer of account balances. Every balance change is an
// atomic increment or a compare-and-swap in the store.
type Ledger struct {
	store AccountStore
	log   *zap.Logger
}

func NewLedger(store AccountStore, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, log: log}
}

// Credit adds amount to the balance.
func (l *Ledger) Credit(ctx context.Context, id string, amount int64, source string) (*models.Account, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	acc, err := l.store.UpdateAccount(ctx, id, models.AccountUpdate{PointsIncrement: amount})
	if err != nil {
		return nil, storeError("credit", fmt.Errorf("failed to credit %s: %w", id, err))
	}
	PointsMoved.WithLabelValues("credit", source).Add(float64(amount))
	return acc, nil
}

// Debit removes amount from the balance. Affordability is the caller's
// concern; the ledger only moves points.
func (l *Ledger) Debit(ctx context.Context, id string, amount int64, source string) (*models.Account, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	acc, err := l.store.UpdateAccount(ctx, id, models.AccountUpdate{PointsIncrement: -amount})
	if err != nil {
		return nil, storeError("debit", fmt.Errorf("failed to debit %s: %w", id, err))
	}
	PointsMoved.WithLabelValues("debit", source).Add(float64(amount))
	return acc, nil
}

// GrantChatPoint pays the per-message chat reward.
func (l *Ledger) GrantChatPoint(ctx context.Context, id string) (*models.Account, error) {
	return l.Credit(ctx, id, ChatPointGrant, "chat")
}

// Settle applies a resolved bet's delta and stamps LastPlayed in one write.
func (l *Ledger) Settle(ctx context.Context, id string, res *roulette.Result, now time.Time) (*models.Account, error) {
	played := now
	acc, err := l.store.UpdateAccount(ctx, id, models.AccountUpdate{
		PointsIncrement: res.Delta,
		LastPlayed:      &played,
	})
	if err != nil {
		return nil, storeError("settle", fmt.Errorf("failed to settle spin %s: %w", res.ID, err))
	}

	outcome := "lost"
	if res.Won {
		outcome = "won"
		PointsMoved.WithLabelValues("credit", "bet").Add(float64(res.Delta))
	} else {
		PointsMoved.WithLabelValues("debit", "bet").Add(float64(-res.Delta))
	}
	BetsResolved.WithLabelValues(res.Bet.Type.String(), outcome).Inc()

	l.log.Debug("spin settled",
		zap.String("spin_id", res.ID),
		zap.String("account", id),
		zap.String("bet", res.Bet.Type.String()),
		zap.Int("slot", int(res.Slot)),
		zap.Int64("delta", res.Delta),
		zap.Int64("balance", acc.Points),
	)
	return acc, nil
}

// RecordThrottle persists the throttle state from d.
func (l *Ledger) RecordThrottle(ctx context.Context, id string, d ThrottleDecision) (*models.Account, error) {
	acc, err := l.store.UpdateAccount(ctx, id, d.Update())
	if err != nil {
		return nil, storeError("record throttle", fmt.Errorf("failed to record throttle state: %w", err))
	}
	return acc, nil
}

// Penalize halves the balance, rounding down. The swap is retried if a
// concurrent writer changed the balance in between.
func (l *Ledger) Penalize(ctx context.Context, id string) (*models.Account, error) {
	for attempt := 0; attempt < maxSwapAttempts; attempt++ {
		acc, err := l.store.GetAccount(ctx, id)
		if err != nil {
			return nil, storeError("penalize", fmt.Errorf("failed to load account for penalty: %w", err))
		}

		halved := FloorHalf(acc.Points)
		ok, err := l.store.CompareAndSetPoints(ctx, id, acc.Points, halved)
		if err != nil {
			return nil, storeError("penalize", fmt.Errorf("failed to apply penalty: %w", err))
		}
		if !ok {
			continue
		}

		SpamPenalties.Inc()
		if lost := acc.Points - halved; lost > 0 {
			PointsMoved.WithLabelValues("debit", "spam").Add(float64(lost))
		}
		acc.Points = halved
		l.log.Info("spam penalty applied",
			zap.String("account", id),
			zap.Int64("balance", halved),
		)
		return acc, nil
	}
	return nil, ErrSwapContention
}

// WatchPoints is the passive reward for time spent between joined and now.
func WatchPoints(joined, now time.Time) int64 {
	if !now.After(joined) {
		return 0
	}
	return int64(now.Sub(joined) / WatchPointInterval)
}

// RecordJoin stamps the moment the account started watching.
func (l *Ledger) RecordJoin(ctx context.Context, id string, now time.Time) (*models.Account, error) {
	joined := now
	acc, err := l.store.UpdateAccount(ctx, id, models.AccountUpdate{LastJoined: &joined})
	if err != nil {
		return nil, storeError("record join", fmt.Errorf("failed to record join: %w", err))
	}
	return acc, nil
}

// GrantWatchPoints closes an open watch session and pays for it. A leave
// without a matching join only stamps LastLeft.
func (l *Ledger) GrantWatchPoints(ctx context.Context, id string, now time.Time) (int64, *models.Account, error) {
	acc, err := l.store.GetAccount(ctx, id)
	if err != nil {
		return 0, nil, storeError("grant watch points", fmt.Errorf("failed to load account for watch points: %w", err))
	}

	var granted int64
	if acc.LastJoined != nil && (acc.LastLeft == nil || acc.LastJoined.After(*acc.LastLeft)) {
		granted = WatchPoints(*acc.LastJoined, now)
	}

	left := now
	acc, err = l.store.UpdateAccount(ctx, id, models.AccountUpdate{
		PointsIncrement: granted,
		LastLeft:        &left,
	})
	if err != nil {
		return 0, nil, storeError("grant watch points", fmt.Errorf("failed to grant watch points: %w", err))
	}
	if granted > 0 {
		PointsMoved.WithLabelValues("credit", "watch").Add(float64(granted))
	}
	return granted, acc, nil
}
