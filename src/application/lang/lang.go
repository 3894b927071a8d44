package lang

import "strings"

// Two normalization tables because the two consumer families disagree:
// Google-style translation endpoints want regioned Chinese codes and the
// legacy 'iw' for Hebrew, while transcription and API-style translation
// backends want bare ISO codes.

var googleCodes = map[string]string{
	"arabic":     "ar",
	"ar":         "ar",
	"czech":      "cs",
	"cs":         "cs",
	"danish":     "da",
	"da":         "da",
	"dutch":      "nl",
	"nl":         "nl",
	"english":    "en",
	"en":         "en",
	"finnish":    "fi",
	"fi":         "fi",
	"french":     "fr",
	"fr":         "fr",
	"german":     "de",
	"de":         "de",
	"greek":      "el",
	"el":         "el",
	"hebrew":     "iw",
	"iw":         "iw",
	"hindi":      "hi",
	"hi":         "hi",
	"hungarian":  "hu",
	"hu":         "hu",
	"indonesian": "id",
	"id":         "id",
	"italian":    "it",
	"it":         "it",
	"japanese":   "ja",
	"ja":         "ja",
	"korean":     "ko",
	"ko":         "ko",
	"norwegian":  "no",
	"no":         "no",
	"polish":     "pl",
	"pl":         "pl",
	"portuguese": "pt",
	"pt":         "pt",
	"romanian":   "ro",
	"ro":         "ro",
	"russian":    "ru",
	"ru":         "ru",
	"slovak":     "sk",
	"sk":         "sk",
	"spanish":    "es",
	"es":         "es",
	"swedish":    "sv",
	"sv":         "sv",
	"thai":       "th",
	"th":         "th",
	"turkish":    "tr",
	"tr":         "tr",
	"ukrainian":  "uk",
	"uk":         "uk",
	"vietnamese": "vi",
	"vi":         "vi",
	"chinese":    "zh-cn",
	"zh":         "zh-cn",
	"zh-cn":      "zh-cn",
	"zh_tw":      "zh-tw",
	"taiwanese":  "zh-tw",
}

var apiCodes = map[string]string{
	"arabic":     "ar",
	"ar":         "ar",
	"czech":      "cs",
	"cs":         "cs",
	"danish":     "da",
	"da":         "da",
	"dutch":      "nl",
	"nl":         "nl",
	"english":    "en",
	"en":         "en",
	"finnish":    "fi",
	"fi":         "fi",
	"french":     "fr",
	"fr":         "fr",
	"german":     "de",
	"de":         "de",
	"greek":      "el",
	"el":         "el",
	"hebrew":     "he",
	"he":         "he",
	"hindi":      "hi",
	"hi":         "hi",
	"hungarian":  "hu",
	"hu":         "hu",
	"indonesian": "id",
	"id":         "id",
	"italian":    "it",
	"it":         "it",
	"japanese":   "ja",
	"ja":         "ja",
	"korean":     "ko",
	"ko":         "ko",
	"norwegian":  "no",
	"no":         "no",
	"polish":     "pl",
	"pl":         "pl",
	"portuguese": "pt",
	"pt":         "pt",
	"romanian":   "ro",
	"ro":         "ro",
	"russian":    "ru",
	"ru":         "ru",
	"slovak":     "sk",
	"sk":         "sk",
	"spanish":    "es",
	"es":         "es",
	"swedish":    "sv",
	"sv":         "sv",
	"thai":       "th",
	"th":         "th",
	"turkish":    "tr",
	"tr":         "tr",
	"ukrainian":  "uk",
	"uk":         "uk",
	"vietnamese": "vi",
	"vi":         "vi",
	"chinese":    "zh",
	"zh":         "zh",
	"zh-cn":      "zh",
	"zh_tw":      "zh-tw",
	"taiwanese":  "zh-tw",
}

// NormalizeForGoogle maps a user-supplied language name or code to the
// code Google-style translation endpoints expect. Unknown inputs pass
// through unchanged.
func NormalizeForGoogle(language string) string {
	return normalize(language, googleCodes)
}

// NormalizeForAPI maps a user-supplied language name or code to a bare
// ISO-style code. Unknown inputs pass through unchanged.
func NormalizeForAPI(language string) string {
	return normalize(language, apiCodes)
}

func normalize(language string, table map[string]string) string {
	key := strings.ToLower(strings.TrimSpace(language))
	if code, ok := table[key]; ok {
		return code
	}

	return key
}
