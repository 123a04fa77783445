package domain

// Message is an immutable snapshot of a chat message, scoped to the
// handling of a single platform event. The platform owns the source of
// truth; the bot only reads it.
type Message struct {
	ID                  string
	ChannelID           string
	AuthorID            string
	AuthorBot           bool
	Content             string
	Attachments         []Attachment
	ReferencedMessageID string
}

// Attachment describes a file attached to a message. The byte payload is
// fetched on demand via URL and never persisted.
type Attachment struct {
	ID          string
	Filename    string
	ContentType string // declared by the platform; may be empty
	URL         string
}
