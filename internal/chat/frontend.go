// Package chat provides a unified interface for chat frontends.
package chat

import (
	"context"
)

// Message represents a normalized chat message from the frontend.
type Message struct {
	ID         string
	ChatID     string
	SenderID   string
	SenderName string
	Text       string
	Command    string // bot command without the leading slash, empty for plain text
	Raw        any    // underlying library message struct
}

// Frontend defines the operations the message pipeline requires from a chat
// platform integration.
type Frontend interface {
	// Start initializes the chat frontend.
	Start(ctx context.Context) error

	// Listen blocks, delivering each inbound message to handler.
	Listen(ctx context.Context, handler func(*Message)) error

	// SendText sends a text message, optionally as a reply, and returns the
	// new message ID so the caller can edit it later.
	SendText(ctx context.Context, chatID, replyToID, text string) (string, error)

	// EditMessage replaces the text of a previously sent message.
	EditMessage(ctx context.Context, chatID, messageID, newText string) error

	// SendAudio uploads an audio attachment, optionally as a reply.
	SendAudio(ctx context.Context, chatID, replyToID string, audio []byte, filename, caption string) error
}
