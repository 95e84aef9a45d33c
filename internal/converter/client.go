// Package converter implements the two-phase remote conversion protocol:
// an initiation call that yields an intermediate download location plus a
// payload token, followed by the audio fetch itself.
package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"spotfetch/internal/core"
	"spotfetch/pkg/spotlink"
)

const (
	headerAPIKey  = "x-rapidapi-key"
	headerAPIHost = "x-rapidapi-host"

	// maxErrorBodyBytes caps how much of a rejection body ends up in the log.
	maxErrorBodyBytes = 2048
)

// initiateResponse is the JSON envelope returned by the initiation endpoint.
type initiateResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	URL     string `json:"url"`
	Payload string `json:"payload"`
}

// Client talks to the remote conversion service. It is safe for concurrent
// use; each phase has its own http.Client so the timeouts stay independent.
type Client struct {
	config   *core.ConverterConfig
	logger   *zap.Logger
	initiate *http.Client
	fetch    *http.Client
}

// NewClient creates a conversion client from config.
func NewClient(config *core.ConverterConfig, logger *zap.Logger) *Client {
	return &Client{
		config:   config,
		logger:   logger,
		initiate: &http.Client{Timeout: config.InitiateTimeout},
		fetch:    &http.Client{Timeout: config.FetchTimeout},
	}
}

// Convert runs both protocol phases for one source link and returns the audio
// payload. Every error is a *core.ConversionError; the second phase is never
// attempted when the first fails.
func (c *Client) Convert(ctx context.Context, req core.ConversionRequest) (*core.AudioPayload, error) {
	location, token, err := c.initiateConversion(ctx, req.SourceURL)
	if err != nil {
		return nil, err
	}

	body, err := c.fetchAudio(ctx, location, token)
	if err != nil {
		return nil, err
	}

	if int64(len(body)) > c.config.MaxPayloadBytes {
		return nil, core.NewConversionError(core.FailurePayloadTooLarge,
			fmt.Errorf("payload exceeds %d bytes", c.config.MaxPayloadBytes))
	}

	return &core.AudioPayload{
		Bytes:         body,
		SuggestedName: spotlink.SuggestedFilename(req.SourceURL),
	}, nil
}

// initiateConversion asks the service to convert sourceURL and returns the
// intermediate download location and payload token.
func (c *Client) initiateConversion(ctx context.Context, sourceURL string) (string, string, error) {
	endpoint := c.config.Endpoint + "?urls=" + url.QueryEscape(sourceURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader("{}"))
	if err != nil {
		return "", "", core.NewConversionError(core.FailureTransport, err)
	}
	req.Header.Set(headerAPIKey, c.config.APIKey)
	req.Header.Set(headerAPIHost, c.config.Host)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.initiate.Do(req)
	if err != nil {
		return "", "", core.NewConversionError(core.FailureTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Debug("Conversion initiation rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return "", "", core.NewConversionError(core.FailureRemoteRejected,
			fmt.Errorf("initiation returned status %d", resp.StatusCode))
	}

	var parsed initiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", "", core.NewConversionError(core.FailureRemoteRejected,
			fmt.Errorf("decoding initiation response: %w", err))
	}

	if parsed.Error {
		return "", "", core.NewConversionError(core.FailureRemoteRejected,
			fmt.Errorf("service reported failure: %s", parsed.Message))
	}
	if parsed.URL == "" || parsed.Payload == "" {
		return "", "", core.NewConversionError(core.FailureRemoteRejected,
			fmt.Errorf("initiation response missing url or payload"))
	}

	return parsed.URL, parsed.Payload, nil
}

// fetchAudio downloads the converted audio from the intermediate location.
// Reads at most MaxPayloadBytes+1 so an oversized response cannot exhaust
// memory before the ceiling check.
func (c *Client) fetchAudio(ctx context.Context, location, token string) ([]byte, error) {
	fetchURL, err := url.Parse(location)
	if err != nil {
		return nil, core.NewConversionError(core.FailureRemoteRejected,
			fmt.Errorf("parsing download location: %w", err))
	}
	query := fetchURL.Query()
	query.Set("payload", token)
	fetchURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL.String(), nil)
	if err != nil {
		return nil, core.NewConversionError(core.FailureTransport, err)
	}

	resp, err := c.fetch.Do(req)
	if err != nil {
		return nil, core.NewConversionError(core.FailureTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.NewConversionError(core.FailureRemoteRejected,
			fmt.Errorf("audio fetch returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxPayloadBytes+1))
	if err != nil {
		return nil, core.NewConversionError(core.FailureTransport,
			fmt.Errorf("reading audio body: %w", err))
	}

	return body, nil
}
