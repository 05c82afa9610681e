package cogs

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordReplier sends replies as plain channel messages.
type DiscordReplier struct {
	Session *discordgo.Session
}

func (r DiscordReplier) Reply(ctx context.Context, channelID, text string) error {
	_, err := r.Session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return err
}

// DiscordHandlers adapts gateway events to the Casino.
type DiscordHandlers struct {
	Casino *Casino
	// Allowed filters channels; nil allows every channel.
	Allowed func(channelID string) bool
	Log     *zap.Logger
}

// OnMessageCreate handles every guild text message.
func (h *DiscordHandlers) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	if h.Allowed != nil && !h.Allowed(m.ChannelID) {
		return
	}

	msg := ChatMessage{
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		Username:  m.Author.Username,
		Content:   m.Content,
		Bot:       m.Author.Bot,
	}
	if err := h.Casino.HandleMessage(context.Background(), msg); err != nil {
		h.Log.Debug("message handling ended with error", zap.String("message_id", m.ID), zap.Error(err))
	}
}

// OnVoiceStateUpdate turns voice channel joins and leaves into watch
// sessions. Moves between channels keep the session open.
func (h *DiscordHandlers) OnVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.VoiceState == nil || v.Member == nil || v.Member.User == nil || v.Member.User.Bot {
		return
	}

	wasIn := v.BeforeUpdate != nil && v.BeforeUpdate.ChannelID != ""
	isIn := v.ChannelID != ""
	user := v.Member.User

	switch {
	case !wasIn && isIn:
		if err := h.Casino.HandleJoin(context.Background(), user.ID, user.Username); err != nil {
			h.Log.Error("failed to record voice join", zap.String("account", user.ID), zap.Error(err))
		}
	case wasIn && !isIn:
		if _, err := h.Casino.HandleLeave(context.Background(), user.ID, user.Username); err != nil {
			h.Log.Error("failed to grant watch points", zap.String("account", user.ID), zap.Error(err))
		}
	}
}
