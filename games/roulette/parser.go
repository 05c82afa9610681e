package roulette

import (
	"math"
	"strconv"
	"strings"
)

// MinimumWager is the smallest accepted bet in points.
const MinimumWager int64 = 100

// MaxWager keeps wager times the largest multiplier inside int64.
const MaxWager int64 = math.MaxInt64 / 35

const commandUsage = `!play [AMOUNT] [TYPE] [SELECTION...]`

// ParseBet validates a tokenized command of the form
// <amount> <type> [selector...] against the caller's current balance.
// A rejected command returns a *RejectionError and nothing else happens.
func ParseBet(tokens []string, balance int64) (Bet, error) {
	if len(tokens) < 2 {
		return Bet{}, reject(MalformedCommand, "", `Invalid request. A bet should be: "%s"`, commandUsage)
	}
	for _, tok := range tokens {
		if tok == "" {
			return Bet{}, reject(MalformedCommand, "", "There are too many spaces or something was left blank.")
		}
		if strings.Contains(tok, ",") {
			return Bet{}, reject(MalformedCommand, tok, "The request should not contain any commas.")
		}
	}

	typeToken := tokens[1]
	betType, ok := LookupBetType(typeToken)
	if !ok {
		return Bet{}, reject(UnknownBetType, typeToken, `There is no bet type called "%s"`, typeToken)
	}
	k := kinds[betType]
	selectors := tokens[2:]
	if len(selectors) != k.selectors {
		return Bet{}, reject(MalformedCommand, typeToken, `%s bet should be: "%s"`, k.title, k.usage)
	}

	wager, err := ParseWager(tokens[0], balance)
	if err != nil {
		return Bet{}, err
	}
	if wager > balance {
		return Bet{}, reject(InsufficientBalance, tokens[0], "You can't wager %d points since you only have %d points to spend.", wager, balance)
	}
	if wager < MinimumWager {
		return Bet{}, reject(BelowMinimumWager, tokens[0], "The minimum wager is %d points.", MinimumWager)
	}

	bet := Bet{Type: betType, Wager: wager}
	if err := k.parse(&bet, typeToken, selectors); err != nil {
		return Bet{}, err
	}
	return bet, nil
}

// ParseWager reads the amount token. "all" stakes the whole balance as it
// stands at validation time.
func ParseWager(token string, balance int64) (int64, error) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "all" {
		if balance > MaxWager {
			return MaxWager, nil
		}
		return balance, nil
	}
	wager, err := strconv.ParseInt(token, 10, 64)
	if err != nil || wager < 0 || wager > MaxWager {
		return 0, reject(MalformedCommand, token, `"%s" is not a valid wager.`, token)
	}
	return wager, nil
}

// ParseSlot reads a wheel number token: 0-36, or "00" for the double zero.
func ParseSlot(token string) (Slot, bool) {
	if token == "00" {
		return DoubleZero, true
	}
	if len(token) == 0 || len(token) > 2 {
		return 0, false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(token)
	if err != nil || n > 36 {
		return 0, false
	}
	return Slot(n), true
}

func parseNumbers(b *Bet, _ string, selectors []string) error {
	seen := make(map[Slot]struct{}, len(selectors))
	numbers := make([]Slot, 0, len(selectors))
	for _, tok := range selectors {
		n, ok := ParseSlot(tok)
		if !ok {
			return reject(InvalidSelector, tok, `"%s" is not a valid number. 0-36 or 00 are valid. (Only 0-30 on Line bets)`, tok)
		}
		if _, dup := seen[n]; dup {
			return reject(InvalidSelector, tok, "You can't have repeating numbers.")
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}
	b.Numbers = numbers
	return nil
}

func parseLine(b *Bet, _ string, selectors []string) error {
	tok := selectors[0]
	n, ok := ParseSlot(tok)
	if !ok {
		return reject(InvalidSelector, tok, `"%s" is not a valid number. 0-36 or 00 are valid. (Only 0-30 on Line bets)`, tok)
	}
	if n == DoubleZero || n > 30 {
		return reject(InvalidSelector, tok, "Only 0-30 are valid numbers for a Line bet.")
	}
	b.Numbers = []Slot{n}
	return nil
}

func parseGroup(max int) func(b *Bet, typeToken string, selectors []string) error {
	return func(b *Bet, typeToken string, selectors []string) error {
		tok := selectors[0]
		if len(tok) != 1 || tok[0] < '1' || int(tok[0]-'0') > max {
			if max == 2 {
				return reject(InvalidSelector, tok, `"%s" is not a valid number. Only 1 or 2 are valid numbers for Half bets.`, tok)
			}
			return reject(InvalidSelector, tok, `"%s" is not a valid number. Only 1, 2, or 3 are valid numbers for Dozen and Column bets.`, tok)
		}
		b.Group = int(tok[0] - '0')
		return nil
	}
}

// Colour and parity bets use the type token itself as the selection.
func parseCategory(b *Bet, typeToken string, _ []string) error {
	switch typeToken {
	case "red", "black", "odd", "even":
		b.Category = typeToken
		return nil
	}
	return reject(InvalidSelector, typeToken, `"%s" is not a valid selection. Only "red", "black", "even", or "odd" is valid for this bet.`, typeToken)
}
