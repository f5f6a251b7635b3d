package extraction

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/meridianworks/meridian/internal/inference"
	"github.com/meridianworks/meridian/internal/mail"
)

const documentAnalysisPrompt = `Transcribe the complete text content of the
attached document. The document is base64-encoded below. Preserve
numbers, dates, and names exactly as written. Respond with plain text
only.`

// BuildSource assembles the extraction source text from a message body
// and its attachments. Attachments are processed sequentially: PDF
// attachments go through a temp-file-scoped analysis call against the
// inference service, text-like attachments fold in directly, and other
// types are noted and skipped. Attachment failures degrade to a note in
// the source rather than failing the build.
func (e *Engine) BuildSource(ctx context.Context, msg *mail.Message) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\nFrom: %s\n\n%s", msg.Subject, msg.From, msg.Body)

	for i := range msg.Attachments {
		att := &msg.Attachments[i]
		text := e.attachmentText(ctx, att)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n--- Attachment: %s ---\n%s", att.Filename, text)
	}

	return b.String()
}

func (e *Engine) attachmentText(ctx context.Context, att *mail.Attachment) string {
	switch {
	case isTextAttachment(att):
		return string(att.Content)
	case isPDFAttachment(att):
		text, err := e.analyzePDF(ctx, att)
		if err != nil {
			e.logger.Warn(
				"attachment analysis skipped",
				"filename", att.Filename,
				"error", err,
			)
			return ""
		}
		return text
	default:
		e.logger.Info(
			"attachment type not analyzable",
			"filename", att.Filename,
			"content_type", att.ContentType,
		)
		return ""
	}
}

// analyzePDF validates the PDF and sends it through the large-file
// analysis call. The temporary file lives only for the duration of this
// call; removal is guaranteed on every exit path.
func (e *Engine) analyzePDF(ctx context.Context, att *mail.Attachment) (string, error) {
	tmp, err := os.CreateTemp("", "meridian-attach-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(att.Content); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	pages, err := api.PageCountFile(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("invalid pdf: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(att.Content)
	msgs := []inference.Message{
		{Role: inference.RoleSystem, Content: documentAnalysisPrompt},
		{Role: inference.RoleUser, Content: fmt.Sprintf("filename: %s\npages: %d\n\n%s", att.Filename, pages, encoded)},
	}

	text, err := e.client.CompleteLarge(ctx, msgs, 0)
	if err != nil {
		return "", fmt.Errorf("analyze %s: %w", att.Filename, err)
	}

	e.logger.Info("attachment analyzed", "filename", att.Filename, "pages", pages)
	return text, nil
}

func isTextAttachment(att *mail.Attachment) bool {
	ct := strings.ToLower(att.ContentType)
	if strings.HasPrefix(ct, "text/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(att.Filename)) {
	case ".txt", ".csv", ".md":
		return true
	}
	return false
}

func isPDFAttachment(att *mail.Attachment) bool {
	if strings.Contains(strings.ToLower(att.ContentType), "pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(att.Filename), ".pdf")
}
