package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Bot status messages
	"bot.welcome": "Hello! I am your Spotify Music Downloader Bot. 🎵\n\n" +
		"Send me a direct Spotify track URL, and I will try to download the MP3 file for you.",

	// Status messages
	"status.fetching": "⏳ Connecting to download API and fetching track... This may take a moment.",
	"status.success":  "✅ Download successful! Sending your audio file now.",

	// Error messages
	"error.invalid_link": "That doesn't look like a valid Spotify track URL. " +
		"Please send a link that starts with `https://open.spotify.com/track/...`",
	"error.download_failed": "❌ Download Failed. The external API could not process the request " +
		"or I failed to connect. This could be due to an invalid link, an API error, " +
		"or the request timing out. Please try again later.",
	"error.upload_failed": "❌ Error: I successfully downloaded the file but failed to upload it " +
		"to Telegram. Please check the logs.",

	// Audio caption, formatted as artist - title
	"caption.track": "%s - %s",
}
