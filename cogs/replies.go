package cogs

import (
	"fmt"
	"strconv"
	"strings"

	"chatwheel/games/roulette"
	"chatwheel/utils"
)

// SlotLabel renders a slot the way players see it on the wheel.
func SlotLabel(s roulette.Slot) string {
	if s == roulette.DoubleZero {
		return "00"
	}
	return strconv.Itoa(int(s))
}

func colorLabel(c roulette.Color) string {
	switch c {
	case roulette.Red:
		return "Red"
	case roulette.Black:
		return "Black"
	default:
		return "Green"
	}
}

// BetLabel echoes a bet's selection, e.g. "double 5 00" or "red".
func BetLabel(b roulette.Bet) string {
	switch b.Type {
	case roulette.BetColor, roulette.BetParity:
		return b.Category
	case roulette.BetDozen, roulette.BetColumn, roulette.BetHalf:
		return fmt.Sprintf("%s %d", b.Type, b.Group)
	case roulette.BetLine:
		if len(b.Numbers) == 0 {
			return b.Type.String()
		}
		return fmt.Sprintf("%s %d", b.Type, b.Numbers[0])
	default:
		parts := []string{b.Type.String()}
		for _, n := range b.Numbers {
			parts = append(parts, SlotLabel(n))
		}
		return strings.Join(parts, " ")
	}
}

func mention(username, text string) string {
	return fmt.Sprintf("%s @%s %s", utils.BotTag, username, text)
}

func resultReply(username string, res *roulette.Result) string {
	text := fmt.Sprintf(`You wagered %d points on "%s". The number was %s (%s).`,
		res.Bet.Wager, BetLabel(res.Bet), SlotLabel(res.Slot), colorLabel(res.Color))
	if res.Won {
		text += fmt.Sprintf(" You won %d points! 🥳🎉", res.Payout)
	} else {
		text += " Better luck next time."
	}
	return mention(username, text)
}

func historyReply(username string, slots []roulette.Slot) string {
	if len(slots) == 0 {
		return mention(username, "There currently isn't any history.")
	}

	entries := make([]string, 0, len(slots))
	for _, s := range slots {
		entries = append(entries, fmt.Sprintf("%s (%s)", SlotLabel(s), colorLabel(s.Color())))
	}
	return mention(username, "History: "+strings.Join(entries, " | "))
}

func welcomeReply(username string) string {
	return mention(username, fmt.Sprintf("Your account was created! Enjoy your free %d points. You get points for chatting 👍.", utils.StartingPoints))
}

func balanceReply(username string, points int64) string {
	return mention(username, fmt.Sprintf("You have %d points.", points))
}

func spamReply(username string) string {
	return mention(username, fmt.Sprintf("Stop spamming for %d seconds! You lost half your points!", int(utils.SpamCooldown.Seconds())))
}

func helpReply(username string) string {
	return mention(username, utils.HelpLink)
}

func failureReply(username string) string {
	return mention(username, "Something went wrong, please try again.")
}
