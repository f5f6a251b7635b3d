package mail

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
)

// ParseRaw normalizes a raw transport-encoded blob (RFC 5322 message)
// into a Message. Attachments of every disposition are collected;
// inline images and other non-file parts are skipped.
func ParseRaw(raw []byte, receivedAt time.Time) (*Message, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse raw message: %w", err)
	}

	body := env.Text
	if strings.TrimSpace(body) == "" {
		body = env.HTML
	}

	msg := &Message{
		ID:         strings.Trim(env.GetHeader("Message-Id"), "<>"),
		From:       env.GetHeader("From"),
		To:         env.GetHeader("To"),
		Subject:    env.GetHeader("Subject"),
		Body:       body,
		ReceivedAt: receivedAt,
	}

	for _, part := range append(env.Attachments, env.OtherParts...) {
		if part.FileName == "" && len(part.Content) == 0 {
			continue
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    part.FileName,
			ContentType: part.ContentType,
			Size:        int64(len(part.Content)),
			Content:     part.Content,
		})
	}

	return msg, nil
}
