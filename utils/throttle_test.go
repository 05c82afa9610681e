package utils

import (
	"testing"
	"time"
)

func TestThrottleBurstDoesNotTouchLastChat(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	state := ThrottleState{LastChat: start}

	for i := 1; i <= SpamBurst; i++ {
		d := Throttle(state, start.Add(time.Duration(i)*time.Millisecond))
		if !d.Allow || d.PenaltyApplied {
			t.Fatalf("Expected message %d to be allowed", i)
		}
		if d.State.RecentChats != i {
			t.Errorf("Expected RecentChats %d, got %d", i, d.State.RecentChats)
		}
		if !d.State.LastChat.Equal(start) {
			t.Errorf("Expected LastChat unchanged during burst, got %v", d.State.LastChat)
		}
		state = d.State
	}
}

func TestThrottleDeniesThirdMessageInsideCooldown(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	state := ThrottleState{LastChat: start, RecentChats: SpamBurst}

	now := start.Add(1 * time.Second)
	d := Throttle(state, now)
	if d.Allow {
		t.Fatal("Expected message to be denied")
	}
	if !d.PenaltyApplied {
		t.Error("Expected penalty to be applied")
	}
	if !d.State.LastChat.Equal(now) {
		t.Errorf("Expected LastChat to move to %v, got %v", now, d.State.LastChat)
	}
	if d.State.RecentChats != SpamBurst {
		t.Errorf("Expected RecentChats to stay %d, got %d", SpamBurst, d.State.RecentChats)
	}
}

func TestThrottleCooldownBoundary(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	state := ThrottleState{LastChat: start, RecentChats: SpamBurst}

	if d := Throttle(state, start.Add(SpamCooldown-time.Millisecond)); d.Allow {
		t.Error("Expected denial 1ms before the cooldown ends")
	}

	now := start.Add(SpamCooldown)
	d := Throttle(state, now)
	if !d.Allow || d.PenaltyApplied {
		t.Fatal("Expected message at exactly the cooldown to be allowed")
	}
	if d.State.RecentChats != 0 {
		t.Errorf("Expected RecentChats reset to 0, got %d", d.State.RecentChats)
	}
	if !d.State.LastChat.Equal(now) {
		t.Errorf("Expected LastChat %v, got %v", now, d.State.LastChat)
	}
}

func TestThrottleRepeatedSpamExtendsCooldown(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	state := ThrottleState{LastChat: start, RecentChats: SpamBurst}

	d := Throttle(state, start.Add(4*time.Second))
	if d.Allow {
		t.Fatal("Expected denial at 4s")
	}
	// 6s after start but only 2s after the denied message.
	d = Throttle(d.State, start.Add(6*time.Second))
	if d.Allow {
		t.Error("Expected denial because the cooldown restarted at the last denied message")
	}
}

func TestThrottleSequence(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	state := ThrottleState{LastChat: start.Add(-time.Hour)}

	offsets := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}
	var allowed []bool
	for _, off := range offsets {
		d := Throttle(state, start.Add(off))
		allowed = append(allowed, d.Allow)
		state = d.State
	}

	// The third message arrives an hour after LastChat, so it resets the burst.
	expected := []bool{true, true, true}
	for i := range expected {
		if allowed[i] != expected[i] {
			t.Errorf("Expected message %d allowed=%v, got %v", i+1, expected[i], allowed[i])
		}
	}
	if state.RecentChats != 0 {
		t.Errorf("Expected RecentChats 0 after reset, got %d", state.RecentChats)
	}

	if d := Throttle(state, start.Add(300*time.Millisecond)); !d.Allow {
		t.Error("Expected first message of the new burst to be allowed")
	}
}

func TestFloorHalf(t *testing.T) {
	cases := map[int64]int64{
		0:    0,
		1:    0,
		2:    1,
		3:    1,
		1000: 500,
		1001: 500,
		-1:   -1,
		-3:   -2,
		-4:   -2,
	}
	for in, expected := range cases {
		if got := FloorHalf(in); got != expected {
			t.Errorf("FloorHalf(%d): expected %d, got %d", in, expected, got)
		}
	}
}
