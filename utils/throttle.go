package utils

import (
	"time"

	"chatwheel/models"
)

// ThrottleState is the per-account slice of data the spam throttle reads.
type ThrottleState struct {
	LastChat    time.Time
	RecentChats int
}

// ThrottleDecision is the throttle's verdict plus the state to persist.
// PenaltyApplied means the caller must halve the balance.
type ThrottleDecision struct {
	Allow          bool
	State          ThrottleState
	PenaltyApplied bool
}

// ThrottleStateOf extracts the throttle fields from an account.
func ThrottleStateOf(acc *models.Account) ThrottleState {
	return ThrottleState{LastChat: acc.LastChat, RecentChats: acc.RecentChats}
}

// Throttle lets the first SpamBurst messages through without touching
// LastChat. After that a message is allowed only once SpamCooldown has
// passed since LastChat, which resets the burst; otherwise it is denied and
// LastChat moves to now, restarting the cooldown.
func Throttle(state ThrottleState, now time.Time) ThrottleDecision {
	if state.RecentChats < SpamBurst {
		state.RecentChats++
		return ThrottleDecision{Allow: true, State: state}
	}

	if now.Sub(state.LastChat) >= SpamCooldown {
		return ThrottleDecision{
			Allow: true,
			State: ThrottleState{LastChat: now, RecentChats: 0},
		}
	}

	state.LastChat = now
	return ThrottleDecision{State: state, PenaltyApplied: true}
}

// Update converts the decision's state into a store update.
func (d ThrottleDecision) Update() models.AccountUpdate {
	lastChat := d.State.LastChat
	recent := d.State.RecentChats
	return models.AccountUpdate{LastChat: &lastChat, RecentChats: &recent}
}

// FloorHalf halves n rounding toward negative infinity.
func FloorHalf(n int64) int64 {
	return n >> 1
}
