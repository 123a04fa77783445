package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"diagbot/internal/domain"
	"diagbot/internal/extract"
)

const (
	embedColor     = 0x11806a // dark teal
	diagnosisTitle = "Automated Response: (Warning: Experimental)"
	disclaimer     = "This might not solve your problem, but it could be worth a try"
	footerIconURL  = "https://cdn.discordapp.com/emojis/280120125284417536.png?v=1"

	// buttonsPerRow is the platform limit on buttons in one action row.
	buttonsPerRow = 5
)

// messageSender is the slice of the Discord session the reply builders
// need.
type messageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// sendDiagnosis posts the findings as a single embed replying to the
// source message: one field per finding in engine order, fixed title and
// disclaimer footer.
func sendDiagnosis(s messageSender, msg domain.Message, findings []domain.Finding) error {
	fields := make([]*discordgo.MessageEmbedField, 0, len(findings))
	for _, f := range findings {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   f.Title,
			Value:  f.Body,
			Inline: true,
		})
	}

	_, err := s.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:  diagnosisTitle,
			Color:  embedColor,
			Fields: fields,
			Footer: &discordgo.MessageEmbedFooter{
				IconURL: footerIconURL,
				Text:    disclaimer,
			},
		}},
		Reference: &discordgo.MessageReference{
			MessageID: msg.ID,
			ChannelID: msg.ChannelID,
		},
	})
	return err
}

// sendAttachmentViews posts one message with link buttons to the rendering
// proxy for every viewable attachment, replying to the source message. The
// author is named by reference only; the empty allowed-mentions set keeps
// the message from pinging anyone. Nothing is sent when no attachment is
// viewable.
func sendAttachmentViews(s messageSender, viewBase string, msg domain.Message) error {
	rows := buildViewRows(viewBase, msg)
	if len(rows) == 0 {
		return nil
	}

	_, err := s.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Content:         fmt.Sprintf("Web version of attachments from <@%s>", msg.AuthorID),
		Components:      rows,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
		Reference: &discordgo.MessageReference{
			MessageID: msg.ID,
			ChannelID: msg.ChannelID,
		},
	})
	return err
}

// buildViewRows packs one link button per viewable attachment into action
// rows of at most buttonsPerRow, preserving attachment order.
func buildViewRows(viewBase string, msg domain.Message) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row discordgo.ActionsRow
	for _, a := range extract.ViewTargets(msg.Attachments) {
		row.Components = append(row.Components, discordgo.Button{
			Style: discordgo.LinkButton,
			Label: "View " + a.Filename,
			Emoji: &discordgo.ComponentEmoji{Name: "📜"},
			URL:   fmt.Sprintf("%s/%s/%s/%s", viewBase, msg.ChannelID, a.ID, a.Filename),
		})
		if len(row.Components) >= buttonsPerRow {
			rows = append(rows, row)
			row = discordgo.ActionsRow{}
		}
	}
	if len(row.Components) > 0 {
		rows = append(rows, row)
	}
	return rows
}
