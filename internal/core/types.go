// Package core contains the message pipeline: link validation, conversion
// orchestration and the classified failure taxonomy.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ConversionRequest names the source link handed to the conversion service.
// Callers must validate the URL against the link grammar before constructing
// a request; the converter does not re-validate.
type ConversionRequest struct {
	SourceURL string
}

// AudioPayload is a fetched audio file held in memory for one delivery.
// The handling task owns the buffer exclusively and must call Release on
// every exit path once the delivery step finishes.
type AudioPayload struct {
	Bytes         []byte
	SuggestedName string
}

// Size returns the payload size in bytes.
func (p *AudioPayload) Size() int64 {
	return int64(len(p.Bytes))
}

// Release drops the buffer so it can be collected as soon as delivery is done.
func (p *AudioPayload) Release() {
	p.Bytes = nil
}

// FailureKind classifies why a request produced no audio for the user.
type FailureKind int

const (
	// FailureNone means no classified failure occurred.
	FailureNone FailureKind = iota
	// FailureNoURLMatch: the message text contains no recognizable link.
	FailureNoURLMatch
	// FailureTransport: network error or timeout on either conversion phase.
	FailureTransport
	// FailureRemoteRejected: non-success status or malformed/error JSON from
	// the remote service.
	FailureRemoteRejected
	// FailurePayloadTooLarge: the fetched audio exceeds the upload ceiling.
	FailurePayloadTooLarge
	// FailureDelivery: the chat upload of a successfully fetched payload failed.
	FailureDelivery
)

func (k FailureKind) String() string {
	switch k {
	case FailureNoURLMatch:
		return "no_url_match"
	case FailureTransport:
		return "transport_failure"
	case FailureRemoteRejected:
		return "remote_rejection"
	case FailurePayloadTooLarge:
		return "payload_too_large"
	case FailureDelivery:
		return "delivery_failure"
	case FailureNone:
		return "none"
	default:
		return "unknown"
	}
}

// ConversionError carries a classified failure kind through the pipeline.
// Callers branch on the kind; the wrapped cause is for logs only and is never
// shown to the end user.
type ConversionError struct {
	Kind  FailureKind
	cause error
}

// NewConversionError wraps cause with a failure classification.
func NewConversionError(kind FailureKind, cause error) *ConversionError {
	return &ConversionError{Kind: kind, cause: cause}
}

func (e *ConversionError) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.cause)
}

func (e *ConversionError) Unwrap() error {
	return e.cause
}

// KindOf extracts the failure kind carried by err. Unclassified errors map to
// FailureRemoteRejected so the user still gets the generic failure reply.
func KindOf(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return FailureRemoteRejected
}

// Converter turns one ConversionRequest into one AudioPayload or a classified
// failure. Implementations perform no retries and no caching; two calls with
// the same request issue two independent remote round-trips.
type Converter interface {
	Convert(ctx context.Context, req ConversionRequest) (*AudioPayload, error)
}

// TrackMetadata is the minimal track description used for captions.
type TrackMetadata struct {
	Title  string
	Artist string
}

// MetadataResolver optionally resolves a Spotify track ID to display metadata.
// Lookups are best-effort; failures never affect the conversion outcome.
type MetadataResolver interface {
	LookupTrack(ctx context.Context, trackID string) (*TrackMetadata, error)
}

// MetricsRecorder receives pipeline observations. Implemented by the HTTP
// metrics server; a nil recorder disables instrumentation.
type MetricsRecorder interface {
	RecordMessage(msgType, status string)
	RecordConversion(status string, duration time.Duration, payloadBytes int64)
}
