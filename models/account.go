package models

import (
	"time"
)

// Account is a chat participant's points record.
type Account struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Points      int64      `json:"points"`
	LastChat    time.Time  `json:"last_chat"`
	RecentChats int        `json:"recent_chats"`
	LastPlayed  *time.Time `json:"last_played,omitempty"`
	LastJoined  *time.Time `json:"last_joined,omitempty"`
	LastLeft    *time.Time `json:"last_left,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AccountUpdate holds a partial update. Zero or nil fields are left untouched.
type AccountUpdate struct {
	Username        string     `json:"username,omitempty"`
	PointsIncrement int64      `json:"points_increment,omitempty"`
	LastChat        *time.Time `json:"last_chat,omitempty"`
	RecentChats     *int       `json:"recent_chats,omitempty"`
	LastPlayed      *time.Time `json:"last_played,omitempty"`
	LastJoined      *time.Time `json:"last_joined,omitempty"`
	LastLeft        *time.Time `json:"last_left,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Username == "" && u.PointsIncrement == 0 && u.LastChat == nil &&
		u.RecentChats == nil && u.LastPlayed == nil && u.LastJoined == nil && u.LastLeft == nil
}
