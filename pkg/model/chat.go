package model

import "time"

type Chat struct {
	ID           string   `firestore:"-" bson:"_id" json:"id"`
	Participants []string `firestore:"participants" bson:"participants" json:"participants"`
	Name         string   `firestore:"name" bson:"name" json:"name"`
}

// IsGroup reports whether the chat has more than two participants.
func (c *Chat) IsGroup() bool {
	return len(c.Participants) > 2
}

type ChatMessage struct {
	ChatID     string `firestore:"-" bson:"chatid" json:"chatId"`
	SenderID   string `firestore:"senderId" bson:"senderid" json:"senderId"`
	SenderName string `firestore:"senderName" bson:"sendername" json:"senderName"`
	Text       string `firestore:"text" bson:"text" json:"text"`

	Media []MediaAttachment `firestore:"media" bson:"media" json:"media"`

	// Older clients wrote a single attachment URL instead of Media
	ImageURL string `firestore:"imageUrl" bson:"imageurl" json:"imageUrl"`
	VideoURL string `firestore:"videoUrl" bson:"videourl" json:"videoUrl"`

	CreationDateTime time.Time `firestore:"createdAt" bson:"creationdatetime" json:"createdAt"`
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type MediaAttachment struct {
	Type MediaType `firestore:"type" bson:"type" json:"type"`
	URL  string    `firestore:"url" bson:"url" json:"url"`
}

// Attachments returns Media with the legacy single-URL fields folded in.
func (m *ChatMessage) Attachments() []MediaAttachment {
	attachments := append([]MediaAttachment{}, m.Media...)

	if len(m.Media) == 0 {
		if m.ImageURL != "" {
			attachments = append(attachments, MediaAttachment{Type: MediaTypeImage, URL: m.ImageURL})
		}
		if m.VideoURL != "" {
			attachments = append(attachments, MediaAttachment{Type: MediaTypeVideo, URL: m.VideoURL})
		}
	}

	return attachments
}
