package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatwheel/games/roulette"
	"chatwheel/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// AccountStore persists accounts. UpdateAccount applies PointsIncrement as
// an atomic increment, so concurrent writers never lose points.
type AccountStore interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	CreateAccount(ctx context.Context, acc models.Account) (*models.Account, error)
	UpdateAccount(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error)
	CompareAndSetPoints(ctx context.Context, id string, old, new int64) (bool, error)
}

// Store is a full backend: accounts plus draw history.
type Store interface {
	AccountStore
	roulette.History
	Ping(ctx context.Context) error
	Close()
}

// GetOrCreateAccount loads id, creating it with the starting grant on first
// sight. created reports whether this call made the account.
func GetOrCreateAccount(ctx context.Context, store AccountStore, id, username string, now time.Time) (acc *models.Account, created bool, err error) {
	acc, err = store.GetAccount(ctx, id)
	if err == nil {
		return acc, false, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, false, storeError("load account", err)
	}

	acc, err = store.CreateAccount(ctx, NewAccount(id, username, now))
	if errors.Is(err, ErrAccountExists) {
		// Lost a creation race with another process.
		acc, err = store.GetAccount(ctx, id)
		if err != nil {
			return nil, false, storeError("load account", err)
		}
		return acc, false, nil
	}
	if err != nil {
		return nil, false, storeError("create account", err)
	}
	return acc, true, nil
}

// storeError marks a backend failure as a collaborator failure. The account
// sentinels pass through unchanged since they describe data, not an outage.
func storeError(op string, err error) error {
	if errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrAccountExists) || errors.Is(err, roulette.ErrCollaborator) {
		return err
	}
	return &roulette.CollaboratorError{Op: op, Err: err}
}

// NewAccount builds a fresh account holding the starting grant.
func NewAccount(id, username string, now time.Time) models.Account {
	return models.Account{
		ID:        id,
		Username:  username,
		Points:    StartingPoints,
		LastChat:  now.UTC(),
		CreatedAt: now.UTC(),
	}
}

// accountColumns is the shared SELECT list for both SQL backends.
const accountColumns = `id, username, points, last_chat, recent_chats, last_played, last_joined, last_left, created_at`

// buildAccountUpdate turns a partial update into SET clauses. placeholder
// renders the n-th bind parameter for the target dialect; n starts at 1 and
// the caller binds the account ID last.
func buildAccountUpdate(upd models.AccountUpdate, placeholder func(n int) string) (string, []interface{}) {
	setParts := []string{}
	args := []interface{}{}
	next := func(v interface{}) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if upd.Username != "" {
		setParts = append(setParts, fmt.Sprintf("username = %s", next(upd.Username)))
	}
	if upd.PointsIncrement != 0 {
		setParts = append(setParts, fmt.Sprintf("points = points + %s", next(upd.PointsIncrement)))
	}
	if upd.LastChat != nil {
		setParts = append(setParts, fmt.Sprintf("last_chat = %s", next(upd.LastChat.UTC())))
	}
	if upd.RecentChats != nil {
		setParts = append(setParts, fmt.Sprintf("recent_chats = %s", next(*upd.RecentChats)))
	}
	if upd.LastPlayed != nil {
		setParts = append(setParts, fmt.Sprintf("last_played = %s", next(upd.LastPlayed.UTC())))
	}
	if upd.LastJoined != nil {
		setParts = append(setParts, fmt.Sprintf("last_joined = %s", next(upd.LastJoined.UTC())))
	}
	if upd.LastLeft != nil {
		setParts = append(setParts, fmt.Sprintf("last_left = %s", next(upd.LastLeft.UTC())))
	}
	return strings.Join(setParts, ", "), args
}
