// Package dedup implements the duplicate and renewal-candidate
// heuristics. All scoring lives here as pure functions with documented
// thresholds so the handlers that consume them stay testable and the
// thresholds stay tunable in one place.
package dedup

import (
	"fmt"
	"strings"
	"time"

	"github.com/meridianworks/meridian/internal/normalize"
)

// Matching thresholds.
const (
	// NameMatchThreshold is the minimum token-overlap similarity for a
	// high-confidence person name match.
	NameMatchThreshold = 0.85

	// DuplicateWindowDays is how far apart two start dates may sit for
	// transactions at the same address with the same counterparty to be
	// the same deal.
	DuplicateWindowDays = 365

	// RenewalWindowDays is how close a prior lease expiry must be to a
	// new lease start to flag a renewal candidate.
	RenewalWindowDays = 60

	partialMatchWeight = 0.8
	partialMinWordLen  = 3
)

// Outcome classifies a candidate transaction against existing records.
type Outcome string

const (
	// OutcomeNovel means no existing record matched.
	OutcomeNovel Outcome = "novel"
	// OutcomeDuplicate means the candidate restates an existing deal.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeRenewal means the candidate looks like a renewal of an
	// existing tenancy, a distinct signal rather than a duplicate.
	OutcomeRenewal Outcome = "renewal-candidate"
)

// Transaction is the minimal view of a transaction record the
// classifier needs.
type Transaction struct {
	ID           int64
	Counterparty string
	StartDate    *time.Time
	EndDate      *time.Time
}

// Result reports the classification with the matched record when one
// exists.
type Result struct {
	Outcome   Outcome
	MatchedID int64
	Reason    string
}

// ClassifyTransaction compares a candidate against existing records
// sharing its match key. The duplicate check always takes precedence:
// a candidate is only flagged as a renewal candidate when no duplicate
// matched.
func ClassifyTransaction(candidate Transaction, existing []Transaction) Result {
	for _, ex := range existing {
		if !counterpartiesMatch(candidate.Counterparty, ex.Counterparty) {
			continue
		}
		if candidate.StartDate == nil || ex.StartDate == nil {
			continue
		}
		if gap := daysBetween(*candidate.StartDate, *ex.StartDate); gap <= DuplicateWindowDays {
			return Result{
				Outcome:   OutcomeDuplicate,
				MatchedID: ex.ID,
				Reason:    fmt.Sprintf("same address and counterparty, start dates %d days apart", gap),
			}
		}
	}

	for _, ex := range existing {
		if !counterpartiesMatch(candidate.Counterparty, ex.Counterparty) {
			continue
		}
		if candidate.StartDate == nil || ex.EndDate == nil {
			continue
		}
		if gap := daysBetween(*candidate.StartDate, *ex.EndDate); gap <= RenewalWindowDays {
			return Result{
				Outcome:   OutcomeRenewal,
				MatchedID: ex.ID,
				Reason:    fmt.Sprintf("prior lease expiry %d days from new start", gap),
			}
		}
	}

	return Result{Outcome: OutcomeNovel}
}

// counterpartiesMatch reports whether two counterparty names refer to
// the same party. Numbered companies match on the entity number alone;
// otherwise both canonical forms must be present and one contained in
// the other.
func counterpartiesMatch(a, b string) bool {
	if num := normalize.CompanyNumber(a); num != "" && num == normalize.CompanyNumber(b) {
		return true
	}

	na := normalize.CompanyName(a)
	nb := normalize.CompanyName(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

func daysBetween(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// NameSimilarity scores two person names by token overlap over their
// canonical forms: exact word matches count 1, partial matches (one
// word a substring of the other, both longer than three characters)
// count 0.8, divided by the larger word count. Canonicalizing first
// makes the score insensitive to word order and punctuation, so
// "Batting, Travis" scores 1 against "Travis Batting".
func NameSimilarity(a, b string) float64 {
	aw := strings.Fields(normalize.PersonName(a))
	bw := strings.Fields(normalize.PersonName(b))
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}

	used := make([]bool, len(bw))
	var score float64

	for _, wa := range aw {
		best := 0.0
		bestIdx := -1
		for i, wb := range bw {
			if used[i] {
				continue
			}
			switch {
			case wa == wb:
				best = 1
				bestIdx = i
			case best < partialMatchWeight && isPartialMatch(wa, wb):
				best = partialMatchWeight
				bestIdx = i
			}
			if best == 1 {
				break
			}
		}
		if bestIdx >= 0 {
			used[bestIdx] = true
			score += best
		}
	}

	return score / float64(max(len(aw), len(bw)))
}

func isPartialMatch(a, b string) bool {
	if len(a) <= partialMinWordLen || len(b) <= partialMinWordLen {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// PersonMatch reports whether a candidate contact matches an existing
// person record: name similarity above threshold, corroborated by a
// company-name substring in the existing notes, or accepted outright
// when the candidate carries no company to compare.
func PersonMatch(candidateName, candidateCompany, existingName, existingNotes string) bool {
	if NameSimilarity(candidateName, existingName) <= NameMatchThreshold {
		return false
	}

	company := normalize.CompanyName(candidateCompany)
	if company == "" {
		return true
	}
	return strings.Contains(strings.ToUpper(existingNotes), company)
}
