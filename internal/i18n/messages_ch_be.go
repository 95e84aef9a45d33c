package i18n

// berneseGermanMessages contains all Bernese Swiss German (Bärndütsch) translations
var berneseGermanMessages = map[string]string{
	// Bot status messages
	"bot.welcome": "Hoi! I bi di Spotify-Musig-Abelade-Bot. 🎵\n\n" +
		"Schick mir e direkte Spotify-Track-Link u i probierä dir d MP3-Datei abezlade.",

	// Status messages
	"status.fetching": "⏳ Verbinde mit dr Abelade-API u hole ds Lied... Das cha es Momäntli ga.",
	"status.success":  "✅ Abelade het klappet! I schicke dir jitz d Audio-Datei.",

	// Error messages
	"error.invalid_link": "Das gseht nid us wie ne gültige Spotify-Track-Link. " +
		"Bitte schick e Link wo mit `https://open.spotify.com/track/...` afat.",
	"error.download_failed": "❌ Ds Abelade het nid klappet. D API het d Aafrag nid chönne verarbeite " +
		"oder i ha kei Verbindig übercho. Das cha a me ungültige Link, ere API-Störig " +
		"oder emne Timeout lige. Probier's spöter nomau.",
	"error.upload_failed": "❌ Fähler: I ha d Datei zwar chönne abelade, aber ds Uelade uf Telegram " +
		"het nid funktioniert. Lueg bitte i d Logs.",

	// Audio caption, formatted as artist - title
	"caption.track": "%s - %s",
}
