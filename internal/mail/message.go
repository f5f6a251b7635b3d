// Package mail defines the canonical in-memory form of an inbound
// message and its attachments. A Message is created once per inbound
// submission, is immutable after normalization, and is discarded when
// the pipeline completes; only its effects persist.
package mail

import (
	"strings"
	"time"
)

// Verdict carries the transport layer's authentication findings for the
// sending domain.
type Verdict struct {
	Authenticated    bool `json:"authenticated"`
	SenderPolicyPass bool `json:"sender_policy_pass"`
	DomainKeyPass    bool `json:"domain_key_pass"`
}

// Passed reports whether every transport-layer gate passed.
func (v Verdict) Passed() bool {
	return v.Authenticated && v.SenderPolicyPass && v.DomainKeyPass
}

// Attachment is a single file carried by an inbound message.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Content     []byte `json:"-"`
}

// IsWinmail reports whether the attachment is a legacy encapsulated-mail
// container that must be expanded before routing.
func (a *Attachment) IsWinmail() bool {
	if strings.EqualFold(a.Filename, "winmail.dat") {
		return true
	}
	ct := strings.ToLower(a.ContentType)
	return strings.Contains(ct, "ms-tnef") || strings.Contains(ct, "vnd.ms-tnef")
}

// Message is the canonical normalized form of one inbound submission.
type Message struct {
	ID          string       `json:"id"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	ReceivedAt  time.Time    `json:"received_at"`
	Auth        Verdict      `json:"auth"`
	Attachments []Attachment `json:"attachments"`
}

// SourceRef is the short human-readable description used in failure log
// entries and stored record provenance.
func (m *Message) SourceRef() string {
	subject := strings.TrimSpace(m.Subject)
	if subject == "" {
		subject = "(no subject)"
	}
	return m.From + ": " + subject
}
