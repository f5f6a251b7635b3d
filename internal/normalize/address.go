package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Street-type expansions. Full forms map to themselves so expansion is
// idempotent and direction guarding works on already-normalized input.
var streetTypes = map[string]string{
	"ST":        "STREET",
	"AVE":       "AVENUE",
	"AV":        "AVENUE",
	"DR":        "DRIVE",
	"RD":        "ROAD",
	"BLVD":      "BOULEVARD",
	"CRES":      "CRESCENT",
	"CR":        "CRESCENT",
	"PL":        "PLACE",
	"CRT":       "COURT",
	"CT":        "COURT",
	"LN":        "LANE",
	"TERR":      "TERRACE",
	"PKWY":      "PARKWAY",
	"HWY":       "HIGHWAY",
	"CIR":       "CIRCLE",
	"STREET":    "STREET",
	"AVENUE":    "AVENUE",
	"DRIVE":     "DRIVE",
	"ROAD":      "ROAD",
	"BOULEVARD": "BOULEVARD",
	"CRESCENT":  "CRESCENT",
	"PLACE":     "PLACE",
	"COURT":     "COURT",
	"LANE":      "LANE",
	"TERRACE":   "TERRACE",
	"PARKWAY":   "PARKWAY",
	"HIGHWAY":   "HIGHWAY",
	"CIRCLE":    "CIRCLE",
	"BAY":       "BAY",
	"WAY":       "WAY",
	"GATE":      "GATE",
	"MANOR":     "MANOR",
	"MEWS":      "MEWS",
	"TRAIL":     "TRAIL",
}

var directions = map[string]string{
	"N":         "NORTH",
	"S":         "SOUTH",
	"E":         "EAST",
	"W":         "WEST",
	"NE":        "NORTHEAST",
	"NW":        "NORTHWEST",
	"SE":        "SOUTHEAST",
	"SW":        "SOUTHWEST",
	"NORTH":     "NORTH",
	"SOUTH":     "SOUTH",
	"EAST":      "EAST",
	"WEST":      "WEST",
	"NORTHEAST": "NORTHEAST",
	"NORTHWEST": "NORTHWEST",
	"SOUTHEAST": "SOUTHEAST",
	"SOUTHWEST": "SOUTHWEST",
}

var (
	postalCodeRe = regexp.MustCompile(`\b[A-Z]\d[A-Z]\s?\d[A-Z]\d\b`)
	provinceRe   = regexp.MustCompile(`[\s,]+(?:SASKATCHEWAN|SASK|SK|CANADA)\.?$`)

	// Directional quarter-section notation, e.g. NE-12-34-05-W3.
	// Legal land descriptions do not follow civic grammar and pass
	// through untouched once detected.
	legalLandRe = regexp.MustCompile(`^(?:NE|NW|SE|SW)[- ]\d{1,2}[- ]\d{1,2}[- ]\d{1,2}(?:[- ]?W\d)?$`)

	unitPrefixRe   = regexp.MustCompile(`^(?:UNIT|SUITE|STE\.?|#)\s*(\d+[A-Z]?)\s*[,\-]?\s*(.+)$`)
	unitSuffixRe   = regexp.MustCompile(`^(.+?)[,\s]+(?:UNIT|SUITE|STE\.?|#)\s*(\d+[A-Z]?)$`)
	hyphenSplitRe  = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)\s+(.+)$`)
	spacedDoubleRe = regexp.MustCompile(`^(\d+)\s+(\d+)\s+(.+)$`)
)

// Civic-range heuristic constants. A leading <n>-<m> pair is treated as
// an address range (not a unit split) when the numbers sit within
// rangeSpan of each other, or when both exceed rangePairFloor and the
// larger is within rangePairRatio of the smaller.
const (
	rangeSpan      = 50
	rangePairFloor = 100
	rangePairRatio = 2
)

// Address canonicalizes a raw street address. It uppercases, strips
// postal codes, province tokens, and trailing city fragments, extracts a
// unit/suite designator, expands street-type and directional
// abbreviations, and reappends the unit as "UNIT <n>". Legal land
// descriptions are returned as written. Returns ok=false only for empty
// input.
func Address(raw string) (string, bool) {
	s := collapseSpace(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "" {
		return "", false
	}

	s = collapseSpace(postalCodeRe.ReplaceAllString(s, " "))
	for {
		trimmed := provinceRe.ReplaceAllString(s, "")
		if trimmed == s {
			break
		}
		s = strings.TrimSpace(trimmed)
	}
	s = strings.TrimRight(s, " ,")

	if legalLandRe.MatchString(s) {
		return s, true
	}

	s = stripCityFragment(s)

	s, unit := extractUnit(s)
	s = expandTokens(s)

	if unit != "" {
		s += " UNIT " + unit
	}
	return s, true
}

// stripCityFragment drops trailing comma-delimited fragments that carry
// no digits (city names), keeping fragments such as "SUITE 200" intact.
func stripCityFragment(s string) string {
	parts := strings.Split(s, ",")
	for len(parts) > 1 && !strings.ContainsAny(parts[len(parts)-1], "0123456789") {
		parts = parts[:len(parts)-1]
	}
	joined := strings.Join(parts, " ")
	return collapseSpace(strings.ReplaceAll(joined, ",", " "))
}

// extractUnit pulls a unit/suite number out of the address, trying the
// explicit prefix form, the explicit suffix form, the hyphenated
// <unit>-<civic> form, and finally the space-separated <unit> <civic>
// form. The hyphenated form is only split when the pair fails the
// civic-range heuristic.
func extractUnit(s string) (addr, unit string) {
	if m := unitPrefixRe.FindStringSubmatch(s); m != nil {
		return collapseSpace(m[2]), m[1]
	}

	if m := unitSuffixRe.FindStringSubmatch(s); m != nil {
		return collapseSpace(m[1]), m[2]
	}

	if m := hyphenSplitRe.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		if a < b && !isCivicRange(a, b) {
			return collapseSpace(m[2] + " " + m[3]), m[1]
		}
		return s, ""
	}

	if m := spacedDoubleRe.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		if a < b {
			return collapseSpace(m[2] + " " + m[3]), m[1]
		}
	}

	return s, ""
}

func isCivicRange(a, b int) bool {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo <= rangeSpan {
		return true
	}
	return lo > rangePairFloor && hi <= lo*rangePairRatio
}

// expandTokens expands street-type and directional abbreviations. A
// direction token is only expanded when it follows an expanded street
// type or sits in final position, which keeps directional letters inside
// descriptive text untouched.
func expandTokens(s string) string {
	tokens := strings.Fields(s)
	prevStreetType := false

	for i, tok := range tokens {
		word := strings.TrimSuffix(tok, ".")

		if full, ok := streetTypes[word]; ok && i > 0 {
			tokens[i] = full
			prevStreetType = true
			continue
		}

		if full, ok := directions[word]; ok && (prevStreetType || i == len(tokens)-1) {
			tokens[i] = full
		} else {
			tokens[i] = word
		}
		prevStreetType = false
	}

	return strings.Join(tokens, " ")
}
