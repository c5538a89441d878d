package utils

import (
	"regexp"
	"strings"
)

// transliterationMap converts Cyrillic characters to their Latin
// counterparts for filesystem-safe names.
var transliterationMap = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "",
	'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	dashRun         = regexp.MustCompile(`-+`)
	leadingTrailing = regexp.MustCompile(`^-|-$`)
)

// Transliterate converts a name into a lowercase Latin slug suitable for a
// filename: Cyrillic letters are transliterated, everything except letters,
// digits and dashes is dropped, whitespace collapses to single dashes.
func Transliterate(text string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(text) {
		if latin, ok := transliterationMap[r]; ok {
			builder.WriteString(latin)
		} else {
			builder.WriteRune(r)
		}
	}

	slug := nonSlugChars.ReplaceAllString(builder.String(), "")
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = dashRun.ReplaceAllString(slug, "-")
	return leadingTrailing.ReplaceAllString(slug, "")
}

// SanitizeString strips angle brackets and trims surrounding whitespace.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return strings.TrimSpace(s)
}
