package roulette

import (
	"math/rand"
	"sync"
	"time"
)

// Slot is a pocket on the American wheel. 37 is the double zero.
type Slot int

const (
	Zero       Slot = 0
	DoubleZero Slot = 37
	SlotCount       = 38
)

// Color is the wheel colour of a slot.
type Color string

const (
	Green Color = "green"
	Red   Color = "red"
	Black Color = "black"
)

var redNumbers = map[Slot]struct{}{1: {}, 3: {}, 5: {}, 7: {}, 9: {}, 12: {}, 14: {}, 16: {}, 18: {}, 19: {}, 21: {}, 23: {}, 25: {}, 27: {}, 30: {}, 32: {}, 34: {}, 36: {}}
var blackNumbers = map[Slot]struct{}{2: {}, 4: {}, 6: {}, 8: {}, 10: {}, 11: {}, 13: {}, 15: {}, 17: {}, 20: {}, 22: {}, 24: {}, 26: {}, 28: {}, 29: {}, 31: {}, 33: {}, 35: {}}

// Valid reports whether s is one of the 38 pockets.
func (s Slot) Valid() bool {
	return s >= Zero && s <= DoubleZero
}

// IsZero reports whether s is one of the two house pockets.
func (s Slot) IsZero() bool {
	return s == Zero || s == DoubleZero
}

// Color classifies the slot using the fixed red and black sets.
func (s Slot) Color() Color {
	if _, ok := redNumbers[s]; ok {
		return Red
	}
	if _, ok := blackNumbers[s]; ok {
		return Black
	}
	return Green
}

// Wheel produces the outcome of a single spin.
type Wheel interface {
	Spin() (Slot, error)
}

// IntSource is the subset of *rand.Rand used by the random bet generator.
type IntSource interface {
	Intn(n int) int
}

// RandomWheel is a Wheel backed by math/rand. It is safe for concurrent use.
type RandomWheel struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomWheel creates a wheel seeded with seed, or with the clock when seed is 0.
func NewRandomWheel(seed int64) *RandomWheel {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomWheel{rng: rand.New(rand.NewSource(seed))}
}

// Spin draws a slot uniformly from 0-37.
func (w *RandomWheel) Spin() (Slot, error) {
	return Slot(w.Intn(SlotCount)), nil
}

// Intn lets the wheel double as the entropy for quick play commands.
func (w *RandomWheel) Intn(n int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rng.Intn(n)
}
