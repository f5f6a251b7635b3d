package mail

import (
	"log/slog"
	"net/http"

	"github.com/teamwork/tnef"
)

// ExpandWinmail replaces legacy encapsulated-mail containers
// (winmail.dat / TNEF) with the files they carry, preserving attachment
// order. A container that fails to decode is dropped with a log entry;
// the message itself is never failed over a bad container.
func ExpandWinmail(msg *Message, logger *slog.Logger) {
	expanded := make([]Attachment, 0, len(msg.Attachments))

	for i := range msg.Attachments {
		att := msg.Attachments[i]
		if !att.IsWinmail() {
			expanded = append(expanded, att)
			continue
		}

		data, err := tnef.Decode(att.Content)
		if err != nil {
			logger.Warn(
				"winmail container dropped",
				"filename", att.Filename,
				"error", err,
			)
			continue
		}

		for _, inner := range data.Attachments {
			if len(inner.Data) == 0 {
				continue
			}
			expanded = append(expanded, Attachment{
				Filename:    inner.Title,
				ContentType: http.DetectContentType(inner.Data),
				Size:        int64(len(inner.Data)),
				Content:     inner.Data,
			})
		}

		logger.Info(
			"winmail container expanded",
			"filename", att.Filename,
			"files", len(data.Attachments),
		)
	}

	msg.Attachments = expanded
}
