package normalize

import (
	"regexp"
	"strings"
)

// Known misspellings and variant forms observed in inbound documents.
var cityAliases = map[string]string{
	"SASAKTOON":     "SASKATOON",
	"SASKATON":      "SASKATOON",
	"SASKTOON":      "SASKATOON",
	"STOON":         "SASKATOON",
	"MARTINSVILLE":  "MARTENSVILLE",
	"PRINCE ALBERT": "PRINCE ALBERT",
	"P A":           "PRINCE ALBERT",
	"REGNA":         "REGINA",
	"WHITE CITY":    "WHITE CITY",
	"PILOT BUTT":    "PILOT BUTTE",
}

var (
	ruralMunicipalityRe = regexp.MustCompile(`^(?:R\.?M\.?|RURAL MUNICIPALITY)(?:\s+OF)?\s+`)
	municipalityNoRe    = regexp.MustCompile(`\s*(?:NO\.?|#)\s*(\d+)$`)
)

// City canonicalizes a municipality name: punctuation is removed, the
// "R.M."/"RURAL MUNICIPALITY OF" forms collapse to "RM OF", the
// "NO."/"#" numbering forms collapse to "NO <n>", and a fixed alias
// table repairs known misspellings. Returns ok=false only for empty
// input.
func City(raw string) (string, bool) {
	s := collapseSpace(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "" {
		return "", false
	}

	number := ""
	if m := municipalityNoRe.FindStringSubmatch(s); m != nil {
		number = m[1]
		s = strings.TrimSpace(s[:len(s)-len(m[0])])
	}

	rural := false
	if m := ruralMunicipalityRe.FindString(s); m != "" {
		rural = true
		s = strings.TrimSpace(s[len(m):])
	}

	s = collapseSpace(strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', ';', '\'':
			return ' '
		}
		return r
	}, s))

	if alias, ok := cityAliases[s]; ok {
		s = alias
	}

	if rural {
		s = "RM OF " + s
	}
	if number != "" {
		s += " NO " + number
	}
	return s, true
}
