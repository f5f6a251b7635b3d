package validation

import (
	"fmt"
	"strings"
)

// BatchTally tracks per-item outcomes while processing a multi-item
// document. A skipped item is counted, not fatal; a batch where every
// item failed is logged as a single failure by the caller.
type BatchTally struct {
	Accepted int
	Skipped  int
	Reasons  []string
}

// Accept records one accepted item.
func (t *BatchTally) Accept() {
	t.Accepted++
}

// Skip records one rejected item with its reason.
func (t *BatchTally) Skip(reason string) {
	t.Skipped++
	t.Reasons = append(t.Reasons, reason)
}

// AllFailed reports whether the batch had items and none survived.
func (t *BatchTally) AllFailed() bool {
	return t.Accepted == 0 && t.Skipped > 0
}

// Summary renders the tally for responses and failure log entries.
func (t *BatchTally) Summary() string {
	s := fmt.Sprintf("%d accepted, %d skipped", t.Accepted, t.Skipped)
	if len(t.Reasons) > 0 {
		s += ": " + strings.Join(t.Reasons, "; ")
	}
	return s
}
