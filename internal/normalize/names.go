package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// Corporate suffix and boilerplate tokens stripped before company
// comparison. Matching on what remains keeps "Wright Construction
// Western Inc" and "Wright Construction Western Ltd." aligned.
var companySuffixes = map[string]bool{
	"INC":          true,
	"LTD":          true,
	"CORP":         true,
	"CORPORATION":  true,
	"CO":           true,
	"LLC":          true,
	"LLP":          true,
	"LP":           true,
	"PARTNERSHIP":  true,
	"HOLDING":      true,
	"HOLDINGS":     true,
	"GROUP":        true,
	"PROPERTIES":   true,
	"INVESTMENT":   true,
	"INVESTMENTS":  true,
	"REALTY":       true,
	"TRUST":        true,
	"ASSOCIATE":    true,
	"ASSOCIATES":   true,
	"ENTERPRISE":   true,
	"ENTERPRISES":  true,
	"DEVELOPMENT":  true,
	"DEVELOPMENTS": true,
	"CONSTRUCTION": true,
}

var namePunctRe = regexp.MustCompile(`[.,;:'"()\-&/]`)

// numberedCompanyRe matches Saskatchewan-style numbered companies, e.g.
// "102118427 Saskatchewan Ltd."; the leading number alone identifies
// the entity.
var numberedCompanyRe = regexp.MustCompile(`^(\d{6,})`)

// CompanyName canonicalizes a company name for comparison: uppercased,
// punctuation removed, corporate suffixes stripped. Empty input yields
// an empty string.
func CompanyName(raw string) string {
	s := cleanName(raw)
	if s == "" {
		return ""
	}

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if !companySuffixes[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return s
	}
	return strings.Join(kept, " ")
}

// CompanyNumber extracts the leading entity number from a numbered
// company name, or "" when the name is not a numbered company.
func CompanyNumber(raw string) string {
	m := numberedCompanyRe.FindStringSubmatch(cleanName(raw))
	if m == nil {
		return ""
	}
	return m[1]
}

// PersonName canonicalizes a person name into sorted-token form so that
// "BATTING TRAVIS" and "Travis Batting" compare equal.
func PersonName(raw string) string {
	s := cleanName(raw)
	if s == "" {
		return ""
	}

	parts := strings.Fields(s)
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func cleanName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = namePunctRe.ReplaceAllString(s, " ")
	return collapseSpace(s)
}
