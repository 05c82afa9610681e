package roulette

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
)

func tokens(cmd string) []string {
	return strings.Split(cmd, " ")
}

func TestParseBetValid(t *testing.T) {
	cases := []struct {
		cmd      string
		betType  BetType
		wager    int64
		numbers  []Slot
		group    int
		category string
	}{
		{"500 single 17", BetSingle, 500, []Slot{17}, 0, ""},
		{"100 single 00", BetSingle, 100, []Slot{DoubleZero}, 0, ""},
		{"100 single 0", BetSingle, 100, []Slot{Zero}, 0, ""},
		{"100 double 0 00", BetDouble, 100, []Slot{Zero, DoubleZero}, 0, ""},
		{"100 triple 1 2 3", BetTriple, 100, []Slot{1, 2, 3}, 0, ""},
		{"250 quad 5 6 8 9", BetQuad, 250, []Slot{5, 6, 8, 9}, 0, ""},
		{"100 line 30", BetLine, 100, []Slot{30}, 0, ""},
		{"100 line 0", BetLine, 100, []Slot{0}, 0, ""},
		{"100 dozen 3", BetDozen, 100, nil, 3, ""},
		{"100 column 1", BetColumn, 100, nil, 1, ""},
		{"100 half 2", BetHalf, 100, nil, 2, ""},
		{"100 red", BetColor, 100, nil, 0, "red"},
		{"100 black", BetColor, 100, nil, 0, "black"},
		{"100 odd", BetParity, 100, nil, 0, "odd"},
		{"1000 even", BetParity, 1000, nil, 0, "even"},
	}

	for _, tc := range cases {
		bet, err := ParseBet(tokens(tc.cmd), 1000)
		if err != nil {
			t.Errorf("%q: expected valid bet, got %v", tc.cmd, err)
			continue
		}
		if bet.Type != tc.betType {
			t.Errorf("%q: expected type %s, got %s", tc.cmd, tc.betType, bet.Type)
		}
		if bet.Wager != tc.wager {
			t.Errorf("%q: expected wager %d, got %d", tc.cmd, tc.wager, bet.Wager)
		}
		if len(bet.Numbers) != len(tc.numbers) {
			t.Errorf("%q: expected numbers %v, got %v", tc.cmd, tc.numbers, bet.Numbers)
		} else {
			for i := range tc.numbers {
				if bet.Numbers[i] != tc.numbers[i] {
					t.Errorf("%q: expected numbers %v, got %v", tc.cmd, tc.numbers, bet.Numbers)
					break
				}
			}
		}
		if bet.Group != tc.group {
			t.Errorf("%q: expected group %d, got %d", tc.cmd, tc.group, bet.Group)
		}
		if bet.Category != tc.category {
			t.Errorf("%q: expected category %q, got %q", tc.cmd, tc.category, bet.Category)
		}
	}
}

func TestParseBetRejections(t *testing.T) {
	cases := []struct {
		cmd     string
		balance int64
		kind    RejectionKind
		token   string
	}{
		{"50 single 5", 200, BelowMinimumWager, "50"},
		{"100 red", 50, InsufficientBalance, "100"},
		{"100 dozen 4", 1000, InvalidSelector, "4"},
		{"100 dozen 0", 1000, InvalidSelector, "0"},
		{"100 column x", 1000, InvalidSelector, "x"},
		{"100 half 3", 1000, InvalidSelector, "3"},
		{"100 half 0", 1000, InvalidSelector, "0"},
		{"100 dozen +2", 1000, InvalidSelector, "+2"},
		{"100 dozen 01", 1000, InvalidSelector, "01"},
		{"100 half +1", 1000, InvalidSelector, "+1"},
		{"100 single 37", 1000, InvalidSelector, "37"},
		{"100 single -1", 1000, InvalidSelector, "-1"},
		{"100 single 000", 1000, InvalidSelector, "000"},
		{"100 single 1.5", 1000, InvalidSelector, "1.5"},
		{"100 double 5 5", 1000, InvalidSelector, "5"},
		{"100 triple 1 00 00", 1000, InvalidSelector, "00"},
		{"100 quad 1 2 3 1", 1000, InvalidSelector, "1"},
		{"100 line 31", 1000, InvalidSelector, "31"},
		{"100 line 00", 1000, InvalidSelector, "00"},
		{"100 roulette 5", 1000, UnknownBetType, "roulette"},
		{"100 green", 1000, UnknownBetType, "green"},
		{"100", 1000, MalformedCommand, ""},
		{"100 single", 1000, MalformedCommand, "single"},
		{"100 single 1 2", 1000, MalformedCommand, "single"},
		{"100 double 1", 1000, MalformedCommand, "double"},
		{"100 red 5", 1000, MalformedCommand, "red"},
		{"100 dozen", 1000, MalformedCommand, "dozen"},
		{"100  red", 1000, MalformedCommand, ""},
		{"100 single 1,2", 1000, MalformedCommand, "1,2"},
		{"ten red", 1000, MalformedCommand, "ten"},
		{"-100 red", 1000, MalformedCommand, "-100"},
		{"0 red", 1000, BelowMinimumWager, "0"},
		{"9223372036854775807 single 5", 1000, MalformedCommand, "9223372036854775807"},
		{"263524915338707881 red", 1000, MalformedCommand, "263524915338707881"},
	}

	for _, tc := range cases {
		_, err := ParseBet(tokens(tc.cmd), tc.balance)
		var rej *RejectionError
		if !errors.As(err, &rej) {
			t.Errorf("%q: expected rejection, got %v", tc.cmd, err)
			continue
		}
		if rej.Kind != tc.kind {
			t.Errorf("%q: expected kind %s, got %s (%s)", tc.cmd, tc.kind, rej.Kind, rej.Message)
		}
		if rej.Token != tc.token {
			t.Errorf("%q: expected token %q, got %q", tc.cmd, tc.token, rej.Token)
		}
		if rej.Message == "" {
			t.Errorf("%q: expected a human readable message", tc.cmd)
		}
	}
}

func TestParseBetSentinels(t *testing.T) {
	_, err := ParseBet(tokens("50 single 5"), 200)
	if !errors.Is(err, ErrBelowMinimumWager) {
		t.Errorf("Expected ErrBelowMinimumWager, got %v", err)
	}
	_, err = ParseBet(tokens("100 red"), 50)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("Expected ErrInsufficientBalance, got %v", err)
	}
	_, err = ParseBet(tokens("100 dozen 4"), 1000)
	if !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("Expected ErrInvalidSelector, got %v", err)
	}
	_, err = ParseBet(tokens("100 nope"), 1000)
	if !errors.Is(err, ErrUnknownBetType) {
		t.Errorf("Expected ErrUnknownBetType, got %v", err)
	}
}

func TestParseBetAllUsesBalanceAtValidation(t *testing.T) {
	bet, err := ParseBet(tokens("all red"), 1234)
	if err != nil {
		t.Fatalf("Expected valid bet, got %v", err)
	}
	if bet.Wager != 1234 {
		t.Errorf("Expected wager 1234, got %d", bet.Wager)
	}

	_, err = ParseBet(tokens("all red"), 99)
	if !errors.Is(err, ErrBelowMinimumWager) {
		t.Errorf("Expected all-in of 99 to be below minimum, got %v", err)
	}
}

func TestParseSlot(t *testing.T) {
	valid := map[string]Slot{"0": 0, "00": 37, "7": 7, "07": 7, "36": 36}
	for tok, want := range valid {
		got, ok := ParseSlot(tok)
		if !ok || got != want {
			t.Errorf("ParseSlot(%q): expected %d, got %d (ok=%v)", tok, want, got, ok)
		}
	}
	for _, tok := range []string{"", "37", "100", "-1", "+1", "a", "0x1", " 1"} {
		if _, ok := ParseSlot(tok); ok {
			t.Errorf("ParseSlot(%q): expected rejection", tok)
		}
	}
}

func TestParseBetSelectorCountMessage(t *testing.T) {
	cases := map[string]string{
		"100 dozen":     `A Dozen bet should be: "!play [AMOUNT] dozen [ 1 | 2 | 3 ]"`,
		"100 red 5":     `A Red or Black bet should be: "!play [AMOUNT] [ red | black ]"`,
		"100 even 2":    `An Odd or Even bet should be: "!play [AMOUNT] [ odd | even ]"`,
		"100 double 12": `A Double bet should be: "!play [AMOUNT] double [NUMBER] [NUMBER]"`,
	}
	for cmd, want := range cases {
		_, err := ParseBet(tokens(cmd), 1000)
		var rej *RejectionError
		if !errors.As(err, &rej) {
			t.Errorf("%q: expected rejection, got %v", cmd, err)
			continue
		}
		if rej.Message != want {
			t.Errorf("%q: expected message %q, got %q", cmd, want, rej.Message)
		}
	}
}

func TestParseWagerCap(t *testing.T) {
	wager, err := ParseWager("all", math.MaxInt64)
	if err != nil {
		t.Fatalf("Expected all-in to parse, got %v", err)
	}
	if wager != MaxWager {
		t.Errorf("Expected all-in capped at %d, got %d", MaxWager, wager)
	}

	limit := strconv.FormatInt(MaxWager, 10)
	if wager, err := ParseWager(limit, math.MaxInt64); err != nil || wager != MaxWager {
		t.Errorf("Expected %s to parse, got %d (%v)", limit, wager, err)
	}

	over := strconv.FormatInt(MaxWager+1, 10)
	if _, err := ParseWager(over, math.MaxInt64); !errors.Is(err, ErrMalformedCommand) {
		t.Errorf("Expected %s to be malformed, got %v", over, err)
	}

	bet, err := ParseBet(tokens("all single 5"), math.MaxInt64)
	if err != nil {
		t.Fatalf("Expected valid bet, got %v", err)
	}
	if payout := bet.Wager * kinds[BetSingle].multiplier; payout <= 0 {
		t.Errorf("Expected positive payout for capped wager, got %d", payout)
	}
}
