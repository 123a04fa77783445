// Package discord connects the diagnostic pipeline to Discord: it watches
// message traffic, posts diagnostic replies and attachment views, and
// keeps replies in sync with the life of their source messages.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"diagbot/internal/dispatch"
	"diagbot/internal/domain"
)

// handleTimeout bounds the fetch-and-diagnose work for one message.
const handleTimeout = 60 * time.Second

// Channel is the Discord-facing bot. One instance serves one bot token.
type Channel struct {
	token      string
	prefix     string
	viewBase   string
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger

	session *discordgo.Session
	ctx     context.Context
}

// ChannelConfig configures the Discord channel.
type ChannelConfig struct {
	Token      string
	Prefix     string
	ViewBase   string
	Dispatcher *dispatch.Dispatcher
	Logger     *slog.Logger
}

// NewChannel creates the Discord channel. The session is not opened until
// Start.
func NewChannel(cfg ChannelConfig) *Channel {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		token:      cfg.Token,
		prefix:     cfg.Prefix,
		viewBase:   cfg.ViewBase,
		dispatcher: cfg.Dispatcher,
		logger:     logger,
	}
}

// Start connects to Discord and blocks until ctx is cancelled.
func (c *Channel) Start(ctx context.Context) error {
	c.ctx = ctx

	session, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	session.AddHandler(c.onReady)
	session.AddHandler(c.onMessageCreate)
	session.AddHandler(c.onMessageDelete)

	c.session = session

	if err := session.Open(); err != nil {
		return fmt.Errorf("discord connect: %w", err)
	}

	<-ctx.Done()
	c.logger.Info("discord bot disconnecting")
	return session.Close()
}

func (c *Channel) onReady(s *discordgo.Session, r *discordgo.Ready) {
	c.logger.Info("discord bot connected", "user", r.User.Username)
	if err := s.UpdateGameStatus(0, "DM me: "+c.prefix+"info"); err != nil {
		c.logger.Warn("failed to set presence", "err", err)
	}
}

func (c *Channel) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	msg := snapshot(m.Message, s.State.User.ID)

	ctx, cancel := context.WithTimeout(c.ctx, handleTimeout)
	defer cancel()

	outcome := c.dispatcher.Process(ctx, msg)
	c.logger.Debug("message dispatched", "message_id", msg.ID, "outcome", outcome.Kind.String())

	switch outcome.Kind {
	case domain.Diagnosed:
		if err := sendDiagnosis(s, msg, outcome.Findings); err != nil {
			c.logger.Error("failed to send diagnosis", "message_id", msg.ID, "err", err)
		}
	case domain.AttachmentsOnly:
		if err := sendAttachmentViews(s, c.viewBase, msg); err != nil {
			c.logger.Error("failed to send attachment views", "message_id", msg.ID, "err", err)
		}
	}
}

func (c *Channel) onMessageDelete(s *discordgo.Session, d *discordgo.MessageDelete) {
	syncReplies(s, c.logger, s.State.User.ID, d.ChannelID, d.ID)
}

// snapshot copies the platform message into the domain form the pipeline
// reads. The bot's own messages count as bot-authored regardless of the
// author's Bot flag.
func snapshot(m *discordgo.Message, selfID string) domain.Message {
	attachments := make([]domain.Attachment, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		attachments = append(attachments, domain.Attachment{
			ID:          a.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			URL:         a.URL,
		})
	}
	msg := domain.Message{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		Content:     m.Content,
		Attachments: attachments,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorBot = m.Author.Bot || m.Author.ID == selfID
	}
	if m.MessageReference != nil {
		msg.ReferencedMessageID = m.MessageReference.MessageID
	}
	return msg
}
