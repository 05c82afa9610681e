package roulette

import (
	"strconv"
	"strings"
)

// RandomCommand builds a quick play command for wager, choosing uniformly
// among the ten bet types. The output is always accepted by ParseBet when
// the wager itself is acceptable.
func RandomCommand(rng IntSource, wager string) string {
	t := BetType(rng.Intn(len(kinds)))
	parts := []string{wager}

	switch t {
	case BetSingle, BetDouble, BetTriple, BetQuad:
		parts = append(parts, kinds[t].name)
		for _, n := range distinctSlots(rng, kinds[t].selectors) {
			parts = append(parts, slotToken(n))
		}
	case BetLine:
		parts = append(parts, "line", strconv.Itoa(rng.Intn(31)))
	case BetDozen, BetColumn:
		parts = append(parts, kinds[t].name, strconv.Itoa(rng.Intn(3)+1))
	case BetHalf:
		parts = append(parts, "half", strconv.Itoa(rng.Intn(2)+1))
	case BetColor:
		parts = append(parts, pick(rng, "red", "black"))
	case BetParity:
		parts = append(parts, pick(rng, "odd", "even"))
	}
	return strings.Join(parts, " ")
}

func distinctSlots(rng IntSource, count int) []Slot {
	seen := make(map[Slot]struct{}, count)
	slots := make([]Slot, 0, count)
	for len(slots) < count {
		n := Slot(rng.Intn(SlotCount))
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		slots = append(slots, n)
	}
	return slots
}

// slotToken writes a slot the way a player would type it.
func slotToken(s Slot) string {
	if s == DoubleZero {
		return "00"
	}
	return strconv.Itoa(int(s))
}

func pick(rng IntSource, a, b string) string {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}
