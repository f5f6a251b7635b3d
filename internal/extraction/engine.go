package extraction

import (
	"context"
	"log/slog"

	"github.com/meridianworks/meridian/internal/inference"
	"github.com/meridianworks/meridian/pkg/formatting"
)

// Completer is the inference surface the engine depends on. Satisfied
// by *inference.Client.
type Completer interface {
	Complete(ctx context.Context, msgs []inference.Message, maxTokens int) (string, error)
	CompleteLarge(ctx context.Context, msgs []inference.Message, maxTokens int) (string, error)
}

// Engine runs per-class extraction passes and merges their output.
type Engine struct {
	client Completer
	logger *slog.Logger
}

// NewEngine creates an extraction engine backed by the given completer.
func NewEngine(client Completer, logger *slog.Logger) *Engine {
	return &Engine{
		client: client,
		logger: logger.With("system", "extraction"),
	}
}

// Extract runs the pass sequence for the class against the source text.
// A pass whose response cannot be parsed, or whose call fails, degrades
// to an empty pass rather than aborting the extraction; both passes
// failing yields an empty merged result that downstream validation
// rejects. The returned error is reserved for context cancellation.
func (e *Engine) Extract(ctx context.Context, class Class, source string) (*Merged, error) {
	schema := SchemaFor(class)

	explicit := e.runPass(ctx, passOneMessages(schema, source), string(class)+"/explicit")
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var inferred Pass
	if schema.TwoPass {
		inferred = e.runPass(ctx, passTwoMessages(schema, source, explicit), string(class)+"/inferred")
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	merged := Merge(class, explicit, inferred, schema.Fields)
	e.logger.Info(
		"extraction complete",
		"class", class,
		"summary", merged.Summary,
	)
	return merged, nil
}

// ExtractBatch runs a single-pass batch extraction for documents that
// list multiple spaces (multi-bay industrial listings, office
// availability reports). Each element merges independently; a malformed
// response yields an empty batch.
func (e *Engine) ExtractBatch(ctx context.Context, class Class, source string) ([]*Merged, error) {
	schema := SchemaFor(class)

	content, err := e.client.Complete(ctx, batchMessages(schema, source), 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("batch pass degraded to empty", "class", class, "error", err)
		return nil, nil
	}

	passes, err := formatting.Parse[[]Pass](content)
	if err != nil {
		e.logger.Warn("batch response unparseable", "class", class, "error", err)
		return nil, nil
	}

	results := make([]*Merged, 0, len(passes))
	for _, p := range passes {
		results = append(results, Merge(class, p, nil, schema.Fields))
	}

	e.logger.Info("batch extraction complete", "class", class, "items", len(results))
	return results, nil
}

// runPass issues one inference exchange and parses the field map.
// Failures degrade to a nil pass.
func (e *Engine) runPass(ctx context.Context, msgs []inference.Message, label string) Pass {
	content, err := e.client.Complete(ctx, msgs, 0)
	if err != nil {
		e.logger.Warn("pass degraded to empty", "pass", label, "error", err)
		return nil
	}

	pass, err := formatting.Parse[Pass](content)
	if err != nil {
		e.logger.Warn("pass response unparseable", "pass", label, "error", err)
		return nil
	}

	return pass
}
