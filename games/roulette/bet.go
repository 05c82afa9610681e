package roulette

// BetType tags the variant of a Bet.
type BetType int

const (
	BetSingle BetType = iota
	BetDouble
	BetTriple
	BetQuad
	BetLine
	BetDozen
	BetColumn
	BetHalf
	BetColor
	BetParity
)

// Bet is a validated wager. Only the selector field matching Type is set:
// Numbers for single through quad and line (the run start), Group for
// dozen, column and half, Category for color and parity.
type Bet struct {
	Type     BetType
	Wager    int64
	Numbers  []Slot
	Group    int
	Category string
}

// Multiplier returns the payout ratio for the bet's type.
func (b Bet) Multiplier() int64 {
	return b.Type.Multiplier()
}

func (t BetType) String() string {
	if !t.valid() {
		return "unknown"
	}
	return kinds[t].name
}

// Multiplier returns the payout ratio for t, or 0 for an unknown type.
func (t BetType) Multiplier() int64 {
	if !t.valid() {
		return 0
	}
	return kinds[t].multiplier
}

func (t BetType) valid() bool {
	return t >= BetSingle && t <= BetParity
}

// BetTypes lists every bet type in table order.
func BetTypes() []BetType {
	types := make([]BetType, 0, len(kinds))
	for t := range kinds {
		types = append(types, BetType(t))
	}
	return types
}

var typeTokens = map[string]BetType{
	"single": BetSingle,
	"double": BetDouble,
	"triple": BetTriple,
	"quad":   BetQuad,
	"line":   BetLine,
	"dozen":  BetDozen,
	"column": BetColumn,
	"half":   BetHalf,
	"red":    BetColor,
	"black":  BetColor,
	"odd":    BetParity,
	"even":   BetParity,
}

// LookupBetType maps a command token to its bet type.
func LookupBetType(token string) (BetType, bool) {
	t, ok := typeTokens[token]
	return t, ok
}
