package service

import "strings"

// Language is one entry of the supported-language catalog.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// languages is the static catalog of languages the translation provider
// handles well enough to offer in the clients.
var languages = []Language{
	{"af", "Afrikaans"}, {"ar", "Arabic"},
	{"hy", "Armenian"}, {"az", "Azerbaijani"},
	{"be", "Belarusian"}, {"bs", "Bosnian"},
	{"bg", "Bulgarian"}, {"ca", "Catalan"},
	{"zh", "Chinese"}, {"hr", "Croatian"},
	{"cs", "Czech"}, {"da", "Danish"},
	{"nl", "Dutch"}, {"en", "English"},
	{"et", "Estonian"}, {"fi", "Finnish"},
	{"fr", "French"}, {"gl", "Galician"},
	{"de", "German"}, {"el", "Greek"},
	{"he", "Hebrew"}, {"hi", "Hindi"},
	{"hu", "Hungarian"}, {"is", "Icelandic"},
	{"id", "Indonesian"}, {"it", "Italian"},
	{"ja", "Japanese"}, {"kn", "Kannada"},
	{"kk", "Kazakh"}, {"ko", "Korean"},
	{"lv", "Latvian"}, {"lt", "Lithuanian"},
	{"mk", "Macedonian"}, {"ms", "Malay"},
	{"mr", "Marathi"}, {"mi", "Maori"},
	{"ne", "Nepali"}, {"no", "Norwegian"},
	{"fa", "Persian"}, {"pl", "Polish"},
	{"pt", "Portuguese"}, {"ro", "Romanian"},
	{"ru", "Russian"}, {"sr", "Serbian"},
	{"sk", "Slovak"}, {"sl", "Slovenian"},
	{"es", "Spanish"}, {"sw", "Swahili"},
	{"sv", "Swedish"}, {"tl", "Tagalog"},
	{"ta", "Tamil"}, {"th", "Thai"},
	{"tr", "Turkish"}, {"uk", "Ukrainian"},
	{"ur", "Urdu"}, {"vi", "Vietnamese"},
	{"cy", "Welsh"},
}

// LanguageCatalog serves the supported-language list.
type LanguageCatalog struct{}

func NewLanguageCatalog() *LanguageCatalog {
	return &LanguageCatalog{}
}

// Search filters the catalog by a case-insensitive substring of the code
// or name. An empty query or "*" returns the whole catalog.
func (c *LanguageCatalog) Search(query string) []Language {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || query == "*" {
		out := make([]Language, len(languages))
		copy(out, languages)
		return out
	}

	var out []Language
	for _, lang := range languages {
		if strings.Contains(strings.ToLower(lang.Name), query) ||
			strings.Contains(lang.Code, query) {
			out = append(out, lang)
		}
	}
	return out
}

// Supported reports whether the code names a catalog language.
func (c *LanguageCatalog) Supported(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, lang := range languages {
		if lang.Code == code {
			return true
		}
	}
	return false
}
