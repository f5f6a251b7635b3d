package gateway

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridianworks/meridian/internal/mail"
	"github.com/meridianworks/meridian/internal/router"
)

// attachmentPayload is an attachment in a structured submission. Content
// is base64 in transit per encoding/json.
type attachmentPayload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// submission is the structured JSON form of an inbound message. Raw, when
// present, carries the original RFC 822 bytes and takes precedence over
// the structured fields except for the auth verdict and receipt time.
type submission struct {
	From        string              `json:"from"`
	To          string              `json:"to"`
	Subject     string              `json:"subject"`
	Body        string              `json:"body"`
	ReceivedAt  time.Time           `json:"received_at"`
	Auth        mail.Verdict        `json:"auth"`
	Attachments []attachmentPayload `json:"attachments"`
	Raw         []byte              `json:"raw"`
}

// decode reads the request body into a normalized message. A request with
// Content-Type message/rfc822 is treated as the raw message bytes; every
// other request is decoded as a structured submission.
func (g *Gateway) decode(r *http.Request) (*mail.Message, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, g.cfg.MaxMessageSizeBytes()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSubmission, err)
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "message/rfc822") {
		msg, err := mail.ParseRaw(body, time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSubmission, err)
		}
		return msg, nil
	}

	var sub submission
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSubmission, err)
	}

	receivedAt := sub.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	if len(sub.Raw) > 0 {
		msg, err := mail.ParseRaw(sub.Raw, receivedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSubmission, err)
		}
		msg.Auth = sub.Auth
		return msg, nil
	}

	msg := &mail.Message{
		From:       sub.From,
		To:         sub.To,
		Subject:    sub.Subject,
		Body:       sub.Body,
		ReceivedAt: receivedAt,
		Auth:       sub.Auth,
	}
	for _, att := range sub.Attachments {
		msg.Attachments = append(msg.Attachments, mail.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Size:        int64(len(att.Content)),
			Content:     att.Content,
		})
	}
	return msg, nil
}

// authorized checks the Authorization header against the shared secret
// with a constant-time comparison.
func (g *Gateway) authorized(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(g.cfg.Secret)) == 1
}

// senderAllowed reports whether the sender matches the allow-list. An
// empty allow-list rejects everything.
func (g *Gateway) senderAllowed(from string) bool {
	sender := strings.ToLower(from)
	for _, allowed := range g.cfg.AllowedSenders {
		if strings.Contains(sender, strings.ToLower(strings.TrimSpace(allowed))) {
			return true
		}
	}
	return false
}

// accept runs the post-auth pipeline for one message: winmail expansion,
// attachment archival, then dispatch.
func (g *Gateway) accept(ctx context.Context, msg *mail.Message) *router.Outcome {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	mail.ExpandWinmail(msg, g.logger)
	g.archive(ctx, msg)

	return g.dispatch.Dispatch(ctx, msg)
}

// archive uploads each attachment to the blob store under the message ID.
// Archival is best-effort; a failed upload is logged and does not block
// routing.
func (g *Gateway) archive(ctx context.Context, msg *mail.Message) {
	for i, att := range msg.Attachments {
		name := path.Base(att.Filename)
		if name == "" || name == "." || name == "/" {
			name = "attachment"
		}
		key := fmt.Sprintf("messages/%s/%d-%s", msg.ID, i, name)

		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		err := g.store.Upload(ctx, key, bytes.NewReader(att.Content), contentType)
		if err != nil {
			g.logger.Warn("attachment archive failed",
				"key", key,
				"error", err,
			)
		}
	}
}
