// Package spotify provides Spotify Web API integration for track metadata lookups.
package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"spotfetch/internal/core"
)

// UnknownArtist is the default value when artist name is not available
const UnknownArtist = "Unknown"

// Client resolves track IDs to display metadata. It only needs the
// client-credentials flow since no user data is touched.
type Client struct {
	config *core.SpotifyConfig
	logger *zap.Logger
	client *spotify.Client
}

func NewClient(config *core.SpotifyConfig, logger *zap.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

// Authenticate obtains an app token via the client-credentials flow.
func (c *Client) Authenticate(ctx context.Context) error {
	creds := &clientcredentials.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain spotify token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	c.client = spotify.New(httpClient)

	c.logger.Info("Authenticated with Spotify Web API")
	return nil
}

// LookupTrack implements core.MetadataResolver.
func (c *Client) LookupTrack(ctx context.Context, trackID string) (*core.TrackMetadata, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	track, err := c.client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", trackID, err)
	}

	return &core.TrackMetadata{
		Title:  track.Name,
		Artist: joinArtists(track.Artists),
	}, nil
}

func joinArtists(artists []spotify.SimpleArtist) string {
	if len(artists) == 0 {
		return UnknownArtist
	}

	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}

	return strings.Join(names, ", ")
}
