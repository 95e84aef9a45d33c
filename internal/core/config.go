package core

import (
	"time"
)

const (
	// DefaultConverterEndpoint is the conversion-initiation endpoint of the
	// remote download service.
	DefaultConverterEndpoint = "https://spotify-downloader12.p.rapidapi.com/convert"
	// DefaultConverterHost identifies the service for the x-rapidapi-host header.
	DefaultConverterHost = "spotify-downloader12.p.rapidapi.com"
	// DefaultInitiateTimeout bounds the conversion-initiation call.
	DefaultInitiateTimeout = 30 * time.Second
	// DefaultFetchTimeout bounds the audio fetch call.
	DefaultFetchTimeout = 60 * time.Second
	// DefaultUploadTimeout bounds the Telegram audio upload. Large files need
	// well over the Bot API default, so this must stay at two minutes or more.
	DefaultUploadTimeout = 120 * time.Second
	// DefaultMaxPayloadBytes is the Telegram bot upload ceiling (50 MiB).
	DefaultMaxPayloadBytes = 50 << 20
	// DefaultServerPort is the default metrics server port.
	DefaultServerPort = 8080
)

type Config struct {
	Telegram  TelegramConfig
	Converter ConverterConfig
	Spotify   SpotifyConfig
	Server    ServerConfig
	Log       LogConfig
	App       AppConfig
}

type TelegramConfig struct {
	BotToken      string
	UploadTimeout time.Duration
}

type ConverterConfig struct {
	Endpoint        string
	Host            string
	APIKey          string
	InitiateTimeout time.Duration
	FetchTimeout    time.Duration
	MaxPayloadBytes int64
}

// SpotifyConfig holds optional Web API credentials for track metadata lookups.
// Both fields empty disables metadata entirely.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Language string
}

func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			UploadTimeout: DefaultUploadTimeout,
		},
		Converter: ConverterConfig{
			Endpoint:        DefaultConverterEndpoint,
			Host:            DefaultConverterHost,
			InitiateTimeout: DefaultInitiateTimeout,
			FetchTimeout:    DefaultFetchTimeout,
			MaxPayloadBytes: DefaultMaxPayloadBytes,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultServerPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language: "en",
		},
	}
}
