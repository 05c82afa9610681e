package utils

import "time"

// Economy
const (
	StartingPoints     = 1000
	ChatPointGrant     = 100
	WatchPointInterval = 500 * time.Millisecond
	HistoryDisplaySize = 10
)

// Spam throttle
const (
	SpamBurst    = 2
	SpamCooldown = 5000 * time.Millisecond
)

// Chat
const (
	BotTag   = "[BOT]"
	HelpLink = "https://pcii.lol"
)
