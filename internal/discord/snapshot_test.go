package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestSnapshot_AuthorBotFlag(t *testing.T) {
	tests := []struct {
		name   string
		author *discordgo.User
		want   bool
	}{
		{"human author", &discordgo.User{ID: "u1"}, false},
		{"bot author", &discordgo.User{ID: "u2", Bot: true}, true},
		{"own message without bot flag", &discordgo.User{ID: "self"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := snapshot(&discordgo.Message{ID: "m1", Author: tt.author}, "self")
			if msg.AuthorBot != tt.want {
				t.Errorf("AuthorBot = %v, want %v", msg.AuthorBot, tt.want)
			}
		})
	}
}

func TestSnapshot_CopiesAttachmentsAndReference(t *testing.T) {
	m := &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		Content:   "crash log attached",
		Author:    &discordgo.User{ID: "u1"},
		Attachments: []*discordgo.MessageAttachment{
			{ID: "a1", Filename: "latest.log", ContentType: "text/plain; charset=utf-8", URL: "https://cdn.example/a1"},
		},
		MessageReference: &discordgo.MessageReference{MessageID: "m0"},
	}

	msg := snapshot(m, "self")
	if msg.AuthorID != "u1" || msg.ChannelID != "c1" || msg.Content != "crash log attached" {
		t.Errorf("identity fields not copied: %+v", msg)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Filename != "latest.log" {
		t.Errorf("attachments not copied: %+v", msg.Attachments)
	}
	if msg.ReferencedMessageID != "m0" {
		t.Errorf("reference not copied: %q", msg.ReferencedMessageID)
	}
}
