package roulette

// kind is one row of the odds table: how a bet type is written, what it
// pays, and when it wins.
type kind struct {
	name       string
	title      string // how rejections name the type
	multiplier int64
	selectors  int
	usage      string
	parse      func(b *Bet, typeToken string, selectors []string) error
	wins       func(b Bet, s Slot) bool
}

var kinds = [...]kind{
	BetSingle: {"single", "A Single", 35, 1, `!play [AMOUNT] single [NUMBER]`, parseNumbers, hitsNumber},
	BetDouble: {"double", "A Double", 17, 2, `!play [AMOUNT] double [NUMBER] [NUMBER]`, parseNumbers, hitsNumber},
	BetTriple: {"triple", "A Triple", 11, 3, `!play [AMOUNT] triple [NUMBER] [NUMBER] [NUMBER]`, parseNumbers, hitsNumber},
	BetQuad:   {"quad", "A Quad", 8, 4, `!play [AMOUNT] quad [NUMBER] [NUMBER] [NUMBER] [NUMBER]`, parseNumbers, hitsNumber},
	BetLine:   {"line", "A Line", 5, 1, `!play [AMOUNT] line [ 0 - 30 ]`, parseLine, hitsLine},
	BetDozen:  {"dozen", "A Dozen", 2, 1, `!play [AMOUNT] dozen [ 1 | 2 | 3 ]`, parseGroup(3), hitsDozen},
	BetColumn: {"column", "A Column", 2, 1, `!play [AMOUNT] column [ 1 | 2 | 3 ]`, parseGroup(3), hitsColumn},
	BetHalf:   {"half", "A Half", 1, 1, `!play [AMOUNT] half [ 1 | 2 ]`, parseGroup(2), hitsHalf},
	BetColor:  {"color", "A Red or Black", 1, 0, `!play [AMOUNT] [ red | black ]`, parseCategory, hitsColor},
	BetParity: {"parity", "An Odd or Even", 1, 0, `!play [AMOUNT] [ odd | even ]`, parseCategory, hitsParity},
}

// Wins reports whether bet b wins when the wheel lands on s.
func Wins(b Bet, s Slot) bool {
	if !b.Type.valid() || !s.Valid() {
		return false
	}
	return kinds[b.Type].wins(b, s)
}

func hitsNumber(b Bet, s Slot) bool {
	for _, n := range b.Numbers {
		if n == s {
			return true
		}
	}
	return false
}

func hitsLine(b Bet, s Slot) bool {
	if len(b.Numbers) != 1 || s == DoubleZero {
		return false
	}
	start := b.Numbers[0]
	return s >= start && s <= start+5
}

// Outside bets never win on 0 or 00.

func hitsDozen(b Bet, s Slot) bool {
	return !s.IsZero() && (int(s)-1)/12+1 == b.Group
}

func hitsColumn(b Bet, s Slot) bool {
	return !s.IsZero() && (int(s)-1)%3+1 == b.Group
}

func hitsHalf(b Bet, s Slot) bool {
	return !s.IsZero() && (int(s)-1)/18+1 == b.Group
}

func hitsColor(b Bet, s Slot) bool {
	return !s.IsZero() && s.Color() == Color(b.Category)
}

func hitsParity(b Bet, s Slot) bool {
	if s.IsZero() {
		return false
	}
	switch b.Category {
	case "odd":
		return s%2 == 1
	case "even":
		return s%2 == 0
	}
	return false
}
