package events

import (
	"fmt"
	"strings"

	"github.com/steeple/steeple/pkg/model"
	"github.com/steeple/steeple/pkg/util"
)

const (
	announcementTitle  = "⛪️ New Announcement"
	prayerRequestTitle = "🙏 New Prayer Request"
	groupChatPrefix    = "💬 "

	maxChatBodyLength = 100
	ellipsis          = "..."

	// how many participant first names a group chat title lists
	groupTitleNames = 2
)

const (
	NewsLink   = "/?page=news"
	PrayerLink = "/?page=prayer"
)

func ChatLink(chatID string) string {
	return fmt.Sprintf("/?page=chat&chatId=%s", chatID)
}

func BuildAnnouncementPayload(documentID string, announcement *model.Announcement, icon string, tokens []string) *model.NotificationPayload {
	return &model.NotificationPayload{
		Title:  announcementTitle,
		Body:   announcement.Title,
		Link:   NewsLink,
		Icon:   icon,
		Tag:    fmt.Sprintf("news-%s", documentID),
		Tokens: tokens,
	}
}

func BuildPrayerRequestPayload(documentID string, prayerRequest *model.PrayerRequest, icon string, tokens []string) *model.NotificationPayload {
	return &model.NotificationPayload{
		Title:  prayerRequestTitle,
		Body:   fmt.Sprintf("%s has shared a new request.", prayerRequest.AuthorName),
		Link:   PrayerLink,
		Icon:   icon,
		Tag:    fmt.Sprintf("prayer-%s", documentID),
		Tokens: tokens,
	}
}

// BuildChatMessagePayload builds the notification for a chat message. others are
// the chat participants excluding the sender, in participant order.
func BuildChatMessagePayload(chat *model.Chat, message *model.ChatMessage, senderName string, others []*model.UserRecord, icon string, tokens []string) *model.NotificationPayload {
	content := ChatMessageContent(message)

	payload := &model.NotificationPayload{
		Title: senderName,
		Body:  content,
		Link:  ChatLink(chat.ID),
		Icon:  icon,
		Tag:   fmt.Sprintf("chat-%s", chat.ID),
		Data: map[string]string{
			"chatId": chat.ID,
		},
		Tokens: tokens,
	}

	if chat.IsGroup() {
		payload.Title = GroupChatTitle(chat, others)
		payload.Body = fmt.Sprintf("%s: %s", senderName, content)
	}

	return payload
}

// GroupChatTitle uses the chat's stored name, falling back to the first names of
// the other participants.
func GroupChatTitle(chat *model.Chat, others []*model.UserRecord) string {
	if chat.Name != "" {
		return groupChatPrefix + chat.Name
	}

	names := []string{}
	for _, user := range others {
		if len(names) == groupTitleNames {
			break
		}
		if firstName := user.FirstName(); firstName != "" {
			names = append(names, firstName)
		}
	}

	title := strings.Join(names, ", ")
	if len(others) > groupTitleNames {
		title += ellipsis
	}

	return groupChatPrefix + title
}

// ChatMessageContent is the message text, truncated, or a description of the
// attached media when the text is blank. Length is measured on the text as sent.
func ChatMessageContent(message *model.ChatMessage) string {
	if strings.TrimSpace(message.Text) != "" {
		return util.TruncateString(message.Text, maxChatBodyLength, ellipsis)
	}

	attachments := message.Attachments()
	switch {
	case len(attachments) > 1:
		return "Sent media"
	case len(attachments) == 1 && attachments[0].Type == model.MediaTypeImage:
		return "Sent a photo"
	case len(attachments) == 1 && attachments[0].Type == model.MediaTypeVideo:
		return "Sent a video"
	case len(attachments) == 1:
		return "Sent media"
	default:
		return "Sent a message"
	}
}
