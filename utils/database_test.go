package utils

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"chatwheel/models"
)

func TestPostgresUpdateQuery(t *testing.T) {
	played := time.Date(2024, 2, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	recent := 3

	cases := []struct {
		name  string
		upd   models.AccountUpdate
		query string
		args  []interface{}
	}{
		{
			name:  "increment",
			upd:   models.AccountUpdate{PointsIncrement: -250},
			query: "UPDATE accounts SET points = points + $1 WHERE id = $2 RETURNING " + accountColumns,
			args:  []interface{}{int64(-250), "u1"},
		},
		{
			name:  "settle",
			upd:   models.AccountUpdate{PointsIncrement: 500, LastPlayed: &played},
			query: "UPDATE accounts SET points = points + $1, last_played = $2 WHERE id = $3 RETURNING " + accountColumns,
			args:  []interface{}{int64(500), played.UTC(), "u1"},
		},
		{
			name:  "throttle",
			upd:   models.AccountUpdate{LastChat: &played, RecentChats: &recent},
			query: "UPDATE accounts SET last_chat = $1, recent_chats = $2 WHERE id = $3 RETURNING " + accountColumns,
			args:  []interface{}{played.UTC(), 3, "u1"},
		},
		{
			name:  "rename and leave",
			upd:   models.AccountUpdate{Username: "newname", LastLeft: &played},
			query: "UPDATE accounts SET username = $1, last_left = $2 WHERE id = $3 RETURNING " + accountColumns,
			args:  []interface{}{"newname", played.UTC(), "u1"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query, args := postgresUpdateQuery("u1", tc.upd)
			if query != tc.query {
				t.Errorf("Expected query %q, got %q", tc.query, query)
			}
			if !reflect.DeepEqual(args, tc.args) {
				t.Errorf("Expected args %v, got %v", tc.args, args)
			}
		})
	}
}

func TestBuildAccountUpdateStampsUTC(t *testing.T) {
	joined := time.Date(2024, 2, 1, 7, 0, 0, 0, time.FixedZone("EST", -5*3600))
	set, args := buildAccountUpdate(models.AccountUpdate{LastJoined: &joined}, func(int) string { return "?" })
	if set != "last_joined = ?" {
		t.Errorf("Expected %q, got %q", "last_joined = ?", set)
	}
	if len(args) != 1 {
		t.Fatalf("Expected one arg, got %v", args)
	}
	if ts, ok := args[0].(time.Time); !ok || ts.Location() != time.UTC || !ts.Equal(joined) {
		t.Errorf("Expected %v in UTC, got %v", joined, args[0])
	}
}

// TEST_DATABASE_URL points at a disposable Postgres database.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := NewPostgresStore(ctx, url, "chatwheel-test")
	if err != nil {
		t.Fatalf("Failed to open postgres store: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestPostgresStoreAccountLifecycle(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()
	id := "test-" + uuid.NewString()
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	if _, err := store.GetAccount(ctx, id); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("Expected ErrAccountNotFound, got %v", err)
	}
	if _, err := store.CreateAccount(ctx, NewAccount(id, "alice", now)); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	if _, err := store.CreateAccount(ctx, NewAccount(id, "alice", now)); !errors.Is(err, ErrAccountExists) {
		t.Errorf("Expected ErrAccountExists, got %v", err)
	}

	played := now.Add(time.Minute)
	acc, err := store.UpdateAccount(ctx, id, models.AccountUpdate{PointsIncrement: -400, LastPlayed: &played})
	if err != nil {
		t.Fatalf("Failed to update account: %v", err)
	}
	if acc.Points != StartingPoints-400 {
		t.Errorf("Expected %d points, got %d", StartingPoints-400, acc.Points)
	}
	if acc.LastPlayed == nil || !acc.LastPlayed.Equal(played) {
		t.Errorf("Expected last played %v, got %v", played, acc.LastPlayed)
	}

	ok, err := store.CompareAndSetPoints(ctx, id, acc.Points, FloorHalf(acc.Points))
	if err != nil || !ok {
		t.Fatalf("Expected swap to succeed, got ok=%v err=%v", ok, err)
	}
	ok, err = store.CompareAndSetPoints(ctx, id, acc.Points, 0)
	if err != nil || ok {
		t.Errorf("Expected stale swap to fail, got ok=%v err=%v", ok, err)
	}

	if _, err := store.UpdateAccount(ctx, "missing-"+id, models.AccountUpdate{PointsIncrement: 1}); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound for missing account, got %v", err)
	}
}
