package forecast

// FallbackGlyph is shown for unknown icon codes on the current conditions card.
const FallbackGlyph = "🌦️"

// UnknownGlyph is shown for unknown icon codes in the hourly strip.
const UnknownGlyph = "❓"

var glyphs = map[string]string{
	"01d": "☀️", "01n": "🌙",
	"02d": "🌤️", "02n": "☁️",
	"03d": "☁️", "03n": "☁️",
	"04d": "☁️", "04n": "☁️",
	"09d": "🌧️", "09n": "🌧️",
	"10d": "🌦️", "10n": "🌧️",
	"11d": "⛈️", "11n": "⛈️",
	"13d": "❄️", "13n": "❄️",
	"50d": "🌫️", "50n": "🌫️",
}

// Glyph maps an icon code to its display glyph.
func Glyph(code string) string {
	return GlyphOr(code, FallbackGlyph)
}

// GlyphOr maps an icon code to its glyph, or returns fallback.
func GlyphOr(code, fallback string) string {
	if g, ok := glyphs[code]; ok {
		return g
	}
	return fallback
}

// KnownIcon reports whether the code has a dedicated glyph.
func KnownIcon(code string) bool {
	_, ok := glyphs[code]
	return ok
}
