// Package telegram provides Telegram Bot API integration using go-telegram/bot library.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"spotfetch/internal/chat"
)

// pollTimeout is the long-polling timeout for getUpdates.
const pollTimeout = 30 * time.Second

// Config holds Telegram-specific configuration
type Config struct {
	BotToken      string
	UploadTimeout time.Duration // HTTP client timeout, must cover large audio uploads
}

// Frontend implements the chat.Frontend interface for Telegram
type Frontend struct {
	config *Config
	logger *zap.Logger
	bot    *bot.Bot

	// Message handling
	messageHandler func(*chat.Message)
}

// NewFrontend creates a new Telegram frontend
func NewFrontend(config *Config, logger *zap.Logger) *Frontend {
	return &Frontend{
		config: config,
		logger: logger,
	}
}

// Start initializes the Telegram bot
func (f *Frontend) Start(_ context.Context) error {
	f.logger.Info("Starting Telegram frontend")

	opts := []bot.Option{
		bot.WithDefaultHandler(f.handleUpdate),
		bot.WithMessageTextHandler("/start", bot.MatchTypeExact, f.handleStartCommand),
		// The default client times out long before a 50 MiB upload finishes.
		bot.WithHTTPClient(pollTimeout, &http.Client{
			Timeout: f.config.UploadTimeout,
		}),
	}

	b, err := bot.New(f.config.BotToken, opts...)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}

	f.bot = b

	f.logger.Info("Telegram frontend started successfully")
	return nil
}

// Listen starts listening for messages and calls the handler for each message
func (f *Frontend) Listen(ctx context.Context, handler func(*chat.Message)) error {
	f.messageHandler = handler

	// Start the bot, blocks until ctx is canceled
	f.bot.Start(ctx)

	return nil
}

// SendText sends a text message to the specified chat, optionally as a reply
func (f *Frontend) SendText(ctx context.Context, chatID, replyToID, text string) (string, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid chat ID: %w", err)
	}

	params := &bot.SendMessageParams{
		ChatID: chatIDInt,
		Text:   text,
	}

	// Disable link previews since replies often quote Spotify links back to
	// the user and the preview just adds noise
	disabled := true
	params.LinkPreviewOptions = &models.LinkPreviewOptions{
		IsDisabled: &disabled,
	}

	if replyToID != "" {
		messageID, parseErr := strconv.Atoi(replyToID)
		if parseErr != nil {
			return "", fmt.Errorf("invalid reply message ID: %w", parseErr)
		}
		params.ReplyParameters = &models.ReplyParameters{
			MessageID: messageID,
		}
	}

	msg, err := f.bot.SendMessage(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	return strconv.Itoa(msg.ID), nil
}

// EditMessage replaces the text of a previously sent message
func (f *Frontend) EditMessage(ctx context.Context, chatID, messageID, newText string) error {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	msgIDInt, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("invalid message ID: %w", err)
	}

	if _, err := f.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatIDInt,
		MessageID: msgIDInt,
		Text:      newText,
	}); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}

	return nil
}

// SendAudio uploads an audio attachment to the specified chat, optionally as a reply
func (f *Frontend) SendAudio(ctx context.Context, chatID, replyToID string, audio []byte, filename, caption string) error {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	params := &bot.SendAudioParams{
		ChatID: chatIDInt,
		Audio: &models.InputFileUpload{
			Filename: filename,
			Data:     bytes.NewReader(audio),
		},
		Caption: caption,
	}

	if replyToID != "" {
		messageID, parseErr := strconv.Atoi(replyToID)
		if parseErr != nil {
			return fmt.Errorf("invalid reply message ID: %w", parseErr)
		}
		params.ReplyParameters = &models.ReplyParameters{
			MessageID: messageID,
		}
	}

	if _, err := f.bot.SendAudio(ctx, params); err != nil {
		return fmt.Errorf("failed to send audio: %w", err)
	}

	f.logger.Debug("Sent audio file",
		zap.String("chatID", chatID),
		zap.String("filename", filename),
		zap.Int("size", len(audio)))

	return nil
}

// handleStartCommand processes the /start command
func (f *Frontend) handleStartCommand(_ context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	message := f.toChatMessage(update.Message)
	message.Command = "start"

	if f.messageHandler != nil {
		f.messageHandler(message)
	}
}

// handleUpdate processes incoming Telegram updates
func (f *Frontend) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message != nil {
		f.handleMessage(ctx, update.Message)
	}
}

// handleMessage processes incoming messages
func (f *Frontend) handleMessage(_ context.Context, msg *models.Message) {
	// Ignore messages from bots and non-text updates (photos, stickers, joins)
	if msg.From == nil || msg.From.IsBot || msg.Text == "" {
		return
	}

	if f.messageHandler != nil {
		f.messageHandler(f.toChatMessage(msg))
	}
}

// toChatMessage converts a Telegram message to the unified message format
func (f *Frontend) toChatMessage(msg *models.Message) *chat.Message {
	return &chat.Message{
		ID:         strconv.Itoa(msg.ID),
		ChatID:     strconv.FormatInt(msg.Chat.ID, 10),
		SenderID:   strconv.FormatInt(msg.From.ID, 10),
		SenderName: f.getUserDisplayName(msg.From),
		Text:       msg.Text,
		Raw:        msg,
	}
}

// getUserDisplayName creates a display name for the user
func (f *Frontend) getUserDisplayName(user *models.User) string {
	if user.Username != "" {
		return "@" + user.Username
	}

	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}

	return name
}
