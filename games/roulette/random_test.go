package roulette

import (
	"math/rand"
	"strings"
	"testing"
)

func TestRandomCommandAlwaysParses(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := make(map[BetType]int)

	for i := 0; i < 5000; i++ {
		cmd := RandomCommand(rng, "100")
		bet, err := ParseBet(strings.Split(cmd, " "), 1000)
		if err != nil {
			t.Fatalf("generated command %q was rejected: %v", cmd, err)
		}
		seen[bet.Type]++
	}

	for _, bt := range BetTypes() {
		if seen[bt] == 0 {
			t.Errorf("Expected %s bets to be generated", bt)
		}
	}
}

func TestRandomCommandKeepsWagerToken(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		cmd := RandomCommand(rng, "all")
		if !strings.HasPrefix(cmd, "all ") {
			t.Fatalf("Expected command to start with the wager, got %q", cmd)
		}
		bet, err := ParseBet(strings.Split(cmd, " "), 640)
		if err != nil {
			t.Fatalf("generated command %q was rejected: %v", cmd, err)
		}
		if bet.Wager != 640 {
			t.Errorf("Expected all-in wager 640, got %d", bet.Wager)
		}
	}
}
