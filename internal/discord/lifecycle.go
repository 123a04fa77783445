package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// replyLookback is how many messages after a deleted message are searched
// for replies to cascade. Replies pushed further down by intervening
// traffic are left orphaned; unbounded history scans are out of the
// question.
const replyLookback = 10

// historySession is the slice of the Discord session the cascade needs.
type historySession interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// syncReplies deletes every bot-authored message within the lookback
// window after deletedID whose reply reference points at deletedID. Best
// effort: listing or deletion failures are logged and abandoned.
func syncReplies(s historySession, logger *slog.Logger, botID, channelID, deletedID string) {
	messages, err := s.ChannelMessages(channelID, replyLookback, "", deletedID, "")
	if err != nil {
		logger.Warn("failed to list messages after deletion", "channel_id", channelID, "err", err)
		return
	}

	// The API returns newest first; scan in ascending id order.
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Author == nil || m.Author.ID != botID {
			continue
		}
		if m.MessageReference == nil || m.MessageReference.MessageID != deletedID {
			continue
		}
		if err := s.ChannelMessageDelete(channelID, m.ID); err != nil {
			logger.Error("failed to delete reply", "message_id", m.ID, "err", err)
			continue
		}
		logger.Info("deleted orphaned reply", "message_id", m.ID, "source_id", deletedID)
	}
}
