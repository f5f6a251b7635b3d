// Package faillog implements the processing failure log. Every message
// that reaches a handler but cannot be recorded lands here with enough
// context for a researcher to recover it manually. The log is capped:
// recording a new entry evicts the oldest once the cap is exceeded.
package faillog

import (
	"time"
)

// Cap is the maximum number of entries retained. Recording entry
// Cap+1 evicts the oldest.
const Cap = 100

// Entry is a single logged processing failure.
type Entry struct {
	ID        int64     `json:"id"`
	LoggedAt  time.Time `json:"logged_at"`
	Tag       string    `json:"tag"`
	SourceRef string    `json:"source_ref"`
	MessageID string    `json:"message_id"`
	Reason    string    `json:"reason"`
}

// RecordCommand carries the data needed to record a failure.
type RecordCommand struct {
	Tag       string `json:"tag"`
	SourceRef string `json:"source_ref"`
	MessageID string `json:"message_id"`
	Reason    string `json:"reason"`
}
