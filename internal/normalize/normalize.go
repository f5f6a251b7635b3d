// Package normalize implements deterministic canonicalization of street
// addresses, municipality names, and counterparty names. Every matching
// decision in the pipeline keys off these functions, so they are pure,
// idempotent, and never fail: malformed input degrades to best-effort
// output, and only empty input yields ok=false.
package normalize

import "strings"

// KeySeparator joins the address and city halves of a match key.
const KeySeparator = "|"

// MatchKey builds the canonical duplicate-lookup key for an address/city
// pair. The address is required; a city that fails normalization leaves
// the city half empty rather than failing the key.
func MatchKey(address, city string) (string, bool) {
	addr, ok := Address(address)
	if !ok {
		return "", false
	}

	c, _ := City(city)
	return addr + KeySeparator + c, true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
