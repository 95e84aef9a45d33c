package core

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"spotfetch/internal/chat"
	"spotfetch/internal/i18n"
	"spotfetch/pkg/spotlink"
	"spotfetch/pkg/text"
)

const (
	messageTypeCommand = "command"
	messageTypeText    = "text"

	statusConverted = "converted"
)

// Dispatcher handles inbound messages from the chat frontend. Each message is
// processed on its own goroutine; there is no shared mutable state between
// message tasks.
type Dispatcher struct {
	config    *Config
	frontend  chat.Frontend
	converter Converter
	metadata  MetadataResolver // optional
	metrics   MetricsRecorder  // optional
	logger    *zap.Logger
	localizer *i18n.Localizer
}

// NewDispatcher creates a dispatcher. metadata and metrics may be nil.
func NewDispatcher(
	config *Config,
	frontend chat.Frontend,
	converter Converter,
	metadata MetadataResolver,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		config:    config,
		frontend:  frontend,
		converter: converter,
		metadata:  metadata,
		metrics:   metrics,
		logger:    logger,
		localizer: i18n.NewLocalizer(config.App.Language),
	}
}

// Start initializes the frontend and begins processing messages. Blocks until
// ctx is canceled.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info("Starting message dispatcher")

	if err := d.frontend.Start(ctx); err != nil {
		return err
	}

	return d.frontend.Listen(ctx, d.HandleMessage)
}

// Stop gracefully shuts down the dispatcher.
func (d *Dispatcher) Stop(_ context.Context) error {
	d.logger.Info("Stopping message dispatcher")
	return nil
}

// HandleMessage is the per-message entry point invoked by the frontend.
func (d *Dispatcher) HandleMessage(msg *chat.Message) {
	ctx := context.Background()

	d.logger.Debug("Received message",
		zap.String("messageID", msg.ID),
		zap.String("sender", msg.SenderName),
		zap.String("command", msg.Command),
	)

	go d.processMessage(ctx, msg)
}

func (d *Dispatcher) processMessage(ctx context.Context, msg *chat.Message) {
	if msg.Command != "" {
		d.recordMessage(messageTypeCommand, "ok")
		if msg.Command == "start" {
			d.reply(ctx, msg, d.localizer.T("bot.welcome"))
		}
		return
	}

	if msg.Text == "" {
		return
	}

	start := time.Now()
	normalized := text.Normalize(msg.Text)

	link, ok := spotlink.Match(normalized)
	if !ok {
		d.recordMessage(messageTypeText, FailureNoURLMatch.String())
		d.recordConversion(FailureNoURLMatch.String(), start, 0)
		d.reply(ctx, msg, d.localizer.T("error.invalid_link"))
		return
	}

	d.processLink(ctx, msg, link, start)
}

// processLink runs the conversion pipeline for one recognized link: status
// reply, two-phase conversion, audio delivery, final status edit.
func (d *Dispatcher) processLink(ctx context.Context, msg *chat.Message, link string, start time.Time) {
	d.logger.Info("Processing link",
		zap.String("messageID", msg.ID),
		zap.String("url", link))

	statusID, err := d.frontend.SendText(ctx, msg.ChatID, msg.ID, d.localizer.T("status.fetching"))
	if err != nil {
		d.logger.Warn("Failed to send status message", zap.Error(err))
		statusID = ""
	}

	payload, convErr := d.converter.Convert(ctx, ConversionRequest{SourceURL: link})
	if convErr != nil {
		kind := KindOf(convErr)
		d.logger.Warn("Conversion failed",
			zap.String("url", link),
			zap.String("kind", kind.String()),
			zap.Error(convErr))
		d.recordMessage(messageTypeText, kind.String())
		d.recordConversion(kind.String(), start, 0)
		// Remote rejections, transport errors and oversized payloads all get
		// the same user-facing text; the metrics labels keep them apart.
		d.editStatus(ctx, msg.ChatID, statusID, d.localizer.T("error.download_failed"))
		return
	}
	defer payload.Release()

	caption := d.lookupCaption(ctx, link)

	if sendErr := d.frontend.SendAudio(ctx, msg.ChatID, msg.ID,
		payload.Bytes, payload.SuggestedName, caption); sendErr != nil {
		d.logger.Error("Failed to deliver audio",
			zap.String("url", link),
			zap.String("filename", payload.SuggestedName),
			zap.Int64("size", payload.Size()),
			zap.Error(sendErr))
		d.recordMessage(messageTypeText, FailureDelivery.String())
		d.recordConversion(FailureDelivery.String(), start, payload.Size())
		// A failed upload after a successful fetch gets its own reply so the
		// user knows the remote conversion itself worked.
		d.reply(ctx, msg, d.localizer.T("error.upload_failed"))
		return
	}

	d.logger.Info("Delivered audio",
		zap.String("url", link),
		zap.String("filename", payload.SuggestedName),
		zap.Int64("size", payload.Size()))
	d.recordMessage(messageTypeText, statusConverted)
	d.recordConversion(statusConverted, start, payload.Size())
	d.editStatus(ctx, msg.ChatID, statusID, d.localizer.T("status.success"))
}

// lookupCaption resolves optional track metadata for the audio caption.
// Best-effort only: any failure degrades to an empty caption.
func (d *Dispatcher) lookupCaption(ctx context.Context, link string) string {
	if d.metadata == nil || !strings.Contains(link, "/track/") {
		return ""
	}

	trackID := spotlink.ItemID(link)
	if trackID == "" {
		return ""
	}

	meta, err := d.metadata.LookupTrack(ctx, trackID)
	if err != nil {
		d.logger.Debug("Track metadata lookup failed",
			zap.String("trackID", trackID),
			zap.Error(err))
		return ""
	}

	return d.localizer.T("caption.track", meta.Artist, meta.Title)
}

func (d *Dispatcher) reply(ctx context.Context, msg *chat.Message, replyText string) {
	if _, err := d.frontend.SendText(ctx, msg.ChatID, msg.ID, replyText); err != nil {
		d.logger.Warn("Failed to send reply",
			zap.String("chatID", msg.ChatID),
			zap.Error(err))
	}
}

func (d *Dispatcher) editStatus(ctx context.Context, chatID, statusID, newText string) {
	if statusID == "" {
		return
	}
	if err := d.frontend.EditMessage(ctx, chatID, statusID, newText); err != nil {
		d.logger.Warn("Failed to edit status message",
			zap.String("chatID", chatID),
			zap.String("messageID", statusID),
			zap.Error(err))
	}
}

func (d *Dispatcher) recordMessage(msgType, status string) {
	if d.metrics != nil {
		d.metrics.RecordMessage(msgType, status)
	}
}

func (d *Dispatcher) recordConversion(status string, start time.Time, payloadBytes int64) {
	if d.metrics != nil {
		d.metrics.RecordConversion(status, time.Since(start), payloadBytes)
	}
}
