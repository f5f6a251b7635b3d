package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Grounded reports whether the numeric value appears literally in the
// source text in at least one accepted rendering: plain, comma-grouped,
// space-grouped, dollar-prefixed, or with trailing cents. A number with
// no rendering in the source is treated as a probable fabrication.
func Grounded(value float64, source string) bool {
	for _, needle := range renderings(value) {
		if containsToken(source, needle) {
			return true
		}
	}
	return false
}

func renderings(value float64) []string {
	var forms []string

	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		n := int64(value)
		plain := strconv.FormatInt(n, 10)
		grouped := groupDigits(plain, ",")
		spaced := groupDigits(plain, " ")

		forms = append(forms, plain, plain+".00")
		if grouped != plain {
			forms = append(forms, grouped, spaced, grouped+".00")
		}
	} else {
		forms = append(forms,
			strconv.FormatFloat(value, 'f', -1, 64),
			fmt.Sprintf("%.2f", value),
		)
	}

	withCurrency := make([]string, 0, len(forms))
	for _, f := range forms {
		withCurrency = append(withCurrency, "$"+f, "$ "+f)
	}
	return append(forms, withCurrency...)
}

// containsToken matches needle in source at digit boundaries, so 1500
// does not ground against 11500 or 15000.
func containsToken(source, needle string) bool {
	for from := 0; ; {
		i := strings.Index(source[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)

		beforeOK := start == 0 || !isDigit(source[start-1])
		afterOK := end == len(source) || !isDigit(source[end])
		if needle[0] == '$' {
			beforeOK = true
		}

		if beforeOK && afterOK {
			return true
		}
		from = start + 1
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func groupDigits(s string, sep string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
