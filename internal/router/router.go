// Package router extracts routing tags from inbound messages and
// dispatches them to the registered domain handler. Handler failures
// never propagate past dispatch: they are recorded in the failure log
// and reported as an unsuccessful outcome.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/meridianworks/meridian/internal/faillog"
	"github.com/meridianworks/meridian/internal/mail"
)

// Tag identifies a message handler. The vocabulary is closed: a tag
// outside this set is reported back to the sender as unrecognized.
type Tag string

const (
	TagDrafter    Tag = "drafter"
	TagComp       Tag = "comp"
	TagPermit     Tag = "permit"
	TagProspect   Tag = "prospect"
	TagIndustrial Tag = "industrial"
	TagOffice     Tag = "office"
	TagUnderwrite Tag = "underwrite"
)

var knownTags = map[Tag]bool{
	TagDrafter:    true,
	TagComp:       true,
	TagPermit:     true,
	TagProspect:   true,
	TagIndustrial: true,
	TagOffice:     true,
	TagUnderwrite: true,
}

// tagRe matches the first hash-prefixed word, e.g. "#comp".
var tagRe = regexp.MustCompile(`#([A-Za-z][A-Za-z0-9_-]*)`)

// ParseTag validates a raw tag word against the known vocabulary.
func ParseTag(raw string) (Tag, bool) {
	t := Tag(strings.ToLower(strings.TrimSpace(raw)))
	return t, knownTags[t]
}

// ExtractTag finds the first hash-prefixed word in the subject, then
// the body. It returns the raw word without the hash; ok is false when
// neither contains a tag.
func ExtractTag(subject, body string) (raw string, ok bool) {
	if m := tagRe.FindStringSubmatch(subject); m != nil {
		return strings.ToLower(m[1]), true
	}
	if m := tagRe.FindStringSubmatch(body); m != nil {
		return strings.ToLower(m[1]), true
	}
	return "", false
}

// Outcome is the result of dispatching one message.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Handler processes a tagged message. Implementations return an error
// when the message could not be recorded; the router owns logging the
// failure.
type Handler interface {
	Handle(ctx context.Context, msg *mail.Message) (*Outcome, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg *mail.Message) (*Outcome, error)

func (f HandlerFunc) Handle(ctx context.Context, msg *mail.Message) (*Outcome, error) {
	return f(ctx, msg)
}

// Router dispatches messages to tag handlers.
type Router struct {
	handlers map[Tag]Handler
	failures faillog.System
	logger   *slog.Logger
}

// New creates a Router backed by the given failure log.
func New(failures faillog.System, logger *slog.Logger) *Router {
	return &Router{
		handlers: make(map[Tag]Handler),
		failures: failures,
		logger:   logger.With("system", "router"),
	}
}

// Register binds a handler to a tag. Registering an unknown tag panics:
// the vocabulary is fixed at startup and a typo is a programming error.
func (r *Router) Register(tag Tag, h Handler) {
	if !knownTags[tag] {
		panic(fmt.Sprintf("router: unknown tag %q", tag))
	}
	r.handlers[tag] = h
}

// Dispatch extracts the message's tag and runs the matching handler.
// It never returns an error: every failure mode collapses into an
// Outcome, and handler errors and panics are recorded in the failure
// log before the outcome is returned.
func (r *Router) Dispatch(ctx context.Context, msg *mail.Message) *Outcome {
	raw, ok := ExtractTag(msg.Subject, msg.Body)
	if !ok {
		r.logger.Warn("message carries no routing tag",
			"message_id", msg.ID,
			"source_ref", msg.SourceRef(),
		)
		return &Outcome{
			Success: false,
			Message: "no routing tag found; queued for manual review",
		}
	}

	tag, known := ParseTag(raw)
	if !known {
		r.logger.Warn("unrecognized routing tag",
			"tag", raw,
			"message_id", msg.ID,
		)
		return &Outcome{
			Success: false,
			Message: fmt.Sprintf("unrecognized tag %q", raw),
			Tag:     raw,
		}
	}

	handler, registered := r.handlers[tag]
	if !registered {
		r.logger.Warn("no handler registered for tag", "tag", tag)
		return &Outcome{
			Success: false,
			Message: fmt.Sprintf("no handler registered for tag %q", tag),
			Tag:     string(tag),
		}
	}

	r.logger.Info("dispatching message",
		"tag", tag,
		"message_id", msg.ID,
		"source_ref", msg.SourceRef(),
	)

	outcome, err := r.run(ctx, tag, handler, msg)
	if err != nil {
		r.recordFailure(ctx, tag, msg, err)
		return &Outcome{
			Success: false,
			Message: err.Error(),
			Tag:     string(tag),
		}
	}

	outcome.Tag = string(tag)
	return outcome
}

// run invokes the handler with panic recovery. A panicking handler is
// indistinguishable from one returning an error.
func (r *Router) run(
	ctx context.Context,
	tag Tag,
	handler Handler,
	msg *mail.Message,
) (outcome *Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panicked", "tag", tag, "panic", rec)
			outcome = nil
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()

	outcome, err = handler.Handle(ctx, msg)
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		return nil, fmt.Errorf("handler returned no outcome")
	}
	return outcome, nil
}

func (r *Router) recordFailure(ctx context.Context, tag Tag, msg *mail.Message, cause error) {
	_, err := r.failures.Record(ctx, faillog.RecordCommand{
		Tag:       string(tag),
		SourceRef: msg.SourceRef(),
		MessageID: msg.ID,
		Reason:    cause.Error(),
	})
	if err != nil {
		// The failure log failing must not mask the original failure.
		r.logger.Error("failed to record processing failure",
			"tag", tag,
			"cause", cause,
			"error", err,
		)
	}
}
