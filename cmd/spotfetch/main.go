// Package main provides the SpotFetch CLI application entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"spotfetch/internal/chat"
	"spotfetch/internal/chat/telegram"
	"spotfetch/internal/converter"
	"spotfetch/internal/core"
	httpserver "spotfetch/internal/http"
	"spotfetch/internal/i18n"
	"spotfetch/internal/spotify"
)

const (
	defaultServerHost = "0.0.0.0"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spotfetch",
	Short: "SpotFetch - Telegram Spotify Track Downloader",
	Long: `SpotFetch is a Telegram bot that takes Spotify track links from chat messages,
converts them through a remote download service and sends the resulting MP3 back to the chat.`,
	RunE: runSpotFetch,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("telegram-token", "", "Telegram bot token")
	rootCmd.PersistentFlags().String("download-api-key", "", "RapidAPI key for the download service")
	rootCmd.PersistentFlags().String("converter-endpoint", core.DefaultConverterEndpoint, "Conversion initiation endpoint")
	rootCmd.PersistentFlags().String("converter-host", core.DefaultConverterHost, "RapidAPI host header value")
	rootCmd.PersistentFlags().Int("initiate-timeout-secs", int(core.DefaultInitiateTimeout/time.Second), "Conversion initiation timeout in seconds")
	rootCmd.PersistentFlags().Int("fetch-timeout-secs", int(core.DefaultFetchTimeout/time.Second), "Audio fetch timeout in seconds")
	rootCmd.PersistentFlags().Int("upload-timeout-secs", int(core.DefaultUploadTimeout/time.Second), "Telegram upload timeout in seconds")
	rootCmd.PersistentFlags().Int64("max-payload-bytes", core.DefaultMaxPayloadBytes, "Maximum audio payload size in bytes")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID (optional, enables track captions)")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret (optional, enables track captions)")
	rootCmd.PersistentFlags().String("server-host", defaultServerHost, "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", core.DefaultServerPort, "HTTP server port")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	rootCmd.PersistentFlags().String("language", i18n.DefaultLanguage, fmt.Sprintf("Bot language (%s)", supportedLangs))
	rootCmd.PersistentFlags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Load .env file explicitly using gotenv
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		// Don't exit if .env file doesn't exist, just warn
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix("SPOTFETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Also accept the unprefixed names many deployments already use
	bindEnvOrExit("telegram-token", "SPOTFETCH_TELEGRAM_TOKEN", "TELEGRAM_TOKEN")
	bindEnvOrExit("download-api-key", "SPOTFETCH_DOWNLOAD_API_KEY", "DOWNLOAD_API_KEY")

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func bindEnvOrExit(key string, envVars ...string) {
	args := append([]string{key}, envVars...)
	if err := viper.BindEnv(args...); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind env for %s: %v\n", key, err)
		os.Exit(1)
	}
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureTelegram(cfg)
	configureConverter(cfg)
	configureSpotify(cfg)
	configureServer(cfg)
	configureApp(cfg)

	return cfg
}

func configureTelegram(cfg *core.Config) {
	cfg.Telegram.BotToken = viper.GetString("telegram-token")
	if secs := viper.GetInt("upload-timeout-secs"); secs > 0 {
		cfg.Telegram.UploadTimeout = time.Duration(secs) * time.Second
	}
}

func configureConverter(cfg *core.Config) {
	cfg.Converter.APIKey = viper.GetString("download-api-key")
	if endpoint := viper.GetString("converter-endpoint"); endpoint != "" {
		cfg.Converter.Endpoint = endpoint
	}
	if host := viper.GetString("converter-host"); host != "" {
		cfg.Converter.Host = host
	}
	if secs := viper.GetInt("initiate-timeout-secs"); secs > 0 {
		cfg.Converter.InitiateTimeout = time.Duration(secs) * time.Second
	}
	if secs := viper.GetInt("fetch-timeout-secs"); secs > 0 {
		cfg.Converter.FetchTimeout = time.Duration(secs) * time.Second
	}
	if limit := viper.GetInt64("max-payload-bytes"); limit > 0 {
		cfg.Converter.MaxPayloadBytes = limit
	}
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Log.Level = viper.GetString("log-level")
}

func configureApp(cfg *core.Config) {
	// Language configuration with validation
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	// Validate that the specified language is supported
	supportedLanguages := i18n.GetSupportedLanguages()
	isSupported := false
	for _, lang := range supportedLanguages {
		if cfg.App.Language == lang {
			isSupported = true
			break
		}
	}
	if !isSupported {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(supportedLanguages, ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runSpotFetch(cmd *cobra.Command, _ []string) error {
	// Handle generate-env-example flag
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting SpotFetch",
		zap.String("version", "1.0.0"),
		zap.String("converter_host", config.Converter.Host),
		zap.Bool("spotify_metadata", config.Spotify.ClientID != ""))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	services, err := initializeServices(ctx)
	if err != nil {
		return err
	}

	return runServices(ctx, services)
}

type services struct {
	frontend   chat.Frontend
	converter  *converter.Client
	metadata   core.MetadataResolver
	httpServer *httpserver.Server
	dispatcher *core.Dispatcher
}

func initializeServices(ctx context.Context) (*services, error) {
	frontend := telegram.NewFrontend(&telegram.Config{
		BotToken:      config.Telegram.BotToken,
		UploadTimeout: config.Telegram.UploadTimeout,
	}, logger.Named("telegram"))

	converterClient := converter.NewClient(&config.Converter, logger.Named("converter"))

	metadata := createMetadataResolver(ctx)

	httpServer := httpserver.NewServer(&config.Server, logger.Named("http"))
	dispatcher := core.NewDispatcher(config, frontend, converterClient, metadata, httpServer,
		logger.Named("dispatcher"))

	return &services{
		frontend:   frontend,
		converter:  converterClient,
		metadata:   metadata,
		httpServer: httpServer,
		dispatcher: dispatcher,
	}, nil
}

// createMetadataResolver builds the optional Spotify metadata client. Missing
// credentials or a failed authentication just disables captions.
func createMetadataResolver(ctx context.Context) core.MetadataResolver {
	if config.Spotify.ClientID == "" || config.Spotify.ClientSecret == "" {
		logger.Info("Spotify credentials not set, track captions disabled")
		return nil
	}

	client := spotify.NewClient(&config.Spotify, logger.Named("spotify"))
	if err := client.Authenticate(ctx); err != nil {
		logger.Warn("Spotify authentication failed, track captions disabled", zap.Error(err))
		return nil
	}

	return client
}

func runServices(ctx context.Context, svcs *services) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	g.Go(func() error {
		return svcs.dispatcher.Start(gCtx)
	})

	logger.Info("SpotFetch started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("SpotFetch stopped with error", zap.Error(err))
		if stopErr := svcs.dispatcher.Stop(context.Background()); stopErr != nil {
			logger.Debug("Failed to stop dispatcher gracefully", zap.Error(stopErr))
		}
		return err
	}

	if err := svcs.dispatcher.Stop(context.Background()); err != nil {
		logger.Debug("Failed to stop dispatcher gracefully", zap.Error(err))
	}

	logger.Info("SpotFetch stopped gracefully")
	return nil
}

func validateConfig() error {
	if config.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required (set SPOTFETCH_TELEGRAM_TOKEN or --telegram-token)")
	}

	if config.Converter.APIKey == "" {
		return fmt.Errorf("download API key is required (set SPOTFETCH_DOWNLOAD_API_KEY or --download-api-key)")
	}

	// Captions need both halves of the credential pair
	if (config.Spotify.ClientID == "") != (config.Spotify.ClientSecret == "") {
		return fmt.Errorf("spotify client ID and secret must be set together")
	}

	return nil
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# SpotFetch Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: SPOTFETCH_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("#\n")

	generateTelegramSection(&content)
	generateConverterSection(&content, cmd)
	generateSpotifySection(&content)
	generateServerSection(&content, cmd)
	generateSetupGuide(&content)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return "SPOTFETCH_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func generateTelegramSection(content *strings.Builder) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Telegram Configuration (Required)\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --telegram-token\n")
	fmt.Fprintf(content, "%s=123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11  # Bot token from @BotFather\n",
		flagToEnvVar("telegram-token"))
	content.WriteString("\n")
}

func generateConverterSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Download Service Configuration (Required)\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Get a key from https://rapidapi.com\n")
	content.WriteString("# CLI: --download-api-key, --converter-endpoint, --converter-host\n")

	endpointDefault := getDefaultValueString(cmd, "converter-endpoint")
	hostDefault := getDefaultValueString(cmd, "converter-host")

	fmt.Fprintf(content, "%s=your_rapidapi_key_here          # RapidAPI key\n",
		flagToEnvVar("download-api-key"))
	fmt.Fprintf(content, "# %s=%s  # Initiation endpoint (default)\n",
		flagToEnvVar("converter-endpoint"), endpointDefault)
	fmt.Fprintf(content, "# %s=%s       # RapidAPI host header (default)\n",
		flagToEnvVar("converter-host"), hostDefault)
	content.WriteString("\n")
}

func generateSpotifySection(content *strings.Builder) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Spotify Web API Configuration (Optional - enables track captions)\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Get these from https://developer.spotify.com/dashboard\n")
	content.WriteString("# CLI: --spotify-client-id, --spotify-client-secret\n")
	fmt.Fprintf(content, "# %s=your_spotify_client_id_here          # Spotify app client ID\n",
		flagToEnvVar("spotify-client-id"))
	fmt.Fprintf(content, "# %s=your_spotify_client_secret_here  # Spotify app client secret\n",
		flagToEnvVar("spotify-client-secret"))
	content.WriteString("\n")
}

func generateServerSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# HTTP Server and Logging Configuration\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --server-host, --server-port, --log-level, --language\n")

	hostDefault := getDefaultValueString(cmd, "server-host")
	portDefault := getDefaultValueString(cmd, "server-port")
	logDefault := getDefaultValueString(cmd, "log-level")
	langDefault := getDefaultValueString(cmd, "language")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")

	fmt.Fprintf(content, "%s=%s                         # Server bind address (default: %s)\n",
		flagToEnvVar("server-host"), "127.0.0.1", hostDefault)
	fmt.Fprintf(content, "%s=%s                              # Server port (default: %s)\n",
		flagToEnvVar("server-port"), portDefault, portDefault)
	fmt.Fprintf(content, "%s=%s                                # Log level: debug, info, warn, error (default: %s)\n",
		flagToEnvVar("log-level"), logDefault, logDefault)
	fmt.Fprintf(content, "%s=%s                                    # Bot language: %s (default: %s)\n",
		flagToEnvVar("language"), langDefault, supportedLangs, langDefault)
	content.WriteString("\n")
}

func generateSetupGuide(content *strings.Builder) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# QUICK SETUP GUIDE\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("\n")
	content.WriteString("# 1. TELEGRAM SETUP:\n")
	content.WriteString("#    - Message @BotFather on Telegram\n")
	content.WriteString("#    - Create bot with /newbot command\n")
	content.WriteString("#    - Copy bot token to SPOTFETCH_TELEGRAM_TOKEN above\n")
	content.WriteString("\n")
	content.WriteString("# 2. DOWNLOAD SERVICE SETUP:\n")
	content.WriteString("#    - Sign up at https://rapidapi.com\n")
	content.WriteString("#    - Subscribe to the Spotify Downloader API\n")
	content.WriteString("#    - Copy your key to SPOTFETCH_DOWNLOAD_API_KEY above\n")
	content.WriteString("\n")
	content.WriteString("# 3. TEST CONFIGURATION:\n")
	content.WriteString("#    go run ./cmd/spotfetch --help                 # See all CLI options\n")
	content.WriteString("#    go run ./cmd/spotfetch --log-level=debug      # Run with debug logging\n")
}
