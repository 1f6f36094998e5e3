package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/athas-labs/querysync/internal/branding"
	"github.com/athas-labs/querysync/internal/compose"
	"github.com/athas-labs/querysync/internal/logging"
	"github.com/athas-labs/querysync/internal/platform"
	"github.com/athas-labs/querysync/internal/rewrite"
	"github.com/athas-labs/querysync/internal/sources"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
)

const tracerName = "github.com/athas-labs/querysync/internal/syncer"

// Fetcher retrieves upstream content for a pinned file.
type Fetcher interface {
	Fetch(ctx context.Context, repository, revision, queryPath string) (string, error)
}

// ProgressFunc is called after each entry reaches a terminal state.
type ProgressFunc func(res Result)

// Syncer runs the sync pipeline over a registry.
type Syncer struct {
	fetcher  Fetcher
	root     string
	mode     Mode
	failFast bool
	command  string
	metrics  *Metrics
	tracer   trace.Tracer
	progress ProgressFunc
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithRoot sets the directory target and override paths are relative to.
func WithRoot(root string) Option {
	return func(s *Syncer) {
		s.root = root
	}
}

// WithMode selects write or check mode.
func WithMode(mode Mode) Option {
	return func(s *Syncer) {
		s.mode = mode
	}
}

// WithFailFast stops the run at the first failing entry, drift included.
func WithFailFast(failFast bool) Option {
	return func(s *Syncer) {
		s.failFast = failFast
	}
}

// WithCommand sets the regenerate command named in drift errors.
func WithCommand(command string) Option {
	return func(s *Syncer) {
		s.command = command
	}
}

// WithMetrics records outcomes into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Syncer) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Syncer) {
		s.tracer = t
	}
}

// WithProgress reports each result as soon as its entry finishes.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Syncer) {
		s.progress = fn
	}
}

// New creates a Syncer that fetches through f.
func New(f Fetcher, opts ...Option) *Syncer {
	s := &Syncer{
		fetcher: f,
		root:    ".",
		mode:    ModeWrite,
		command: branding.CLIName(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Run syncs every entry of reg in sorted name order. A fetch, replacement or
// I/O failure ends the run at that entry. Drift in check mode is collected
// across all entries unless fail-fast is set. The report always covers the
// entries that ran; the error combines every per-entry failure.
func (s *Syncer) Run(ctx context.Context, reg sources.Registry) (*Report, error) {
	logger := logging.FromContext(ctx)
	report := &Report{Mode: s.mode}

	var errs error
	for _, name := range reg.Names() {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sync interrupted before %s: %w", name, err))
			break
		}

		res := s.SyncEntry(ctx, name, reg[name])
		report.Results = append(report.Results, res)
		s.metrics.observeEntry(res)
		if s.progress != nil {
			s.progress(res)
		}

		if res.Err != nil {
			errs = multierr.Append(errs, res.Err)
			if s.failFast || res.State != StateWouldChange {
				logger.V(1).Info("stopping run", "entry", name, "state", res.State)
				break
			}
		}
	}

	s.metrics.ObserveRun(errs)
	return report, errs
}

// SyncEntry runs the full pipeline for one entry and returns its terminal
// result. Failing entries never touch their target.
func (s *Syncer) SyncEntry(ctx context.Context, name string, entry sources.Entry) Result {
	ctx, span := s.tracer.Start(ctx, "sync.entry", trace.WithAttributes(
		attribute.String("querysync.entry", name),
		attribute.String("querysync.repository", entry.Repository),
		attribute.String("querysync.revision", entry.Revision),
		attribute.String("querysync.mode", s.mode.String()),
	))
	defer span.End()

	logger := logging.FromContext(ctx).WithValues("entry", name)
	ctx = logging.IntoContext(ctx, logger)

	res := s.syncEntry(ctx, name, entry)

	span.SetAttributes(attribute.String("querysync.state", string(res.State)))
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	logger.V(1).Info("entry finished", "state", res.State, "target", entry.TargetPath)
	return res
}

func (s *Syncer) syncEntry(ctx context.Context, name string, entry sources.Entry) Result {
	res := Result{Name: name, TargetPath: entry.TargetPath, State: StateFetching}
	fail := func(err error) Result {
		res.FailedAt = res.State
		res.State = StateFailed
		res.Err = err
		return res
	}

	generated, err := s.generate(ctx, name, entry, func(st State) { res.State = st })
	if err != nil {
		return fail(err)
	}

	res.State = StateComparing
	targetPath := s.resolve(entry.TargetPath)
	existing, err := readTarget(targetPath)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", name, err))
	}

	existing = compose.NormalizeNewlines(existing)
	generated = compose.NormalizeNewlines(generated)
	if existing == generated {
		res.State = StateUnchanged
		return res
	}

	if s.mode == ModeCheck {
		res.State = StateWouldChange
		res.Changed = true
		res.Existing = existing
		res.Generated = generated
		res.Err = &DriftError{Name: name, TargetPath: entry.TargetPath, Command: s.command}
		return res
	}

	if err := platform.WriteFileAtomic(targetPath, []byte(generated)); err != nil {
		return fail(fmt.Errorf("%s: %w", name, err))
	}
	res.State = StateWritten
	res.Changed = true
	return res
}

// Generate produces the artifact text for one entry without touching the
// target: fetch, apply replacements, read the override, compose.
func (s *Syncer) Generate(ctx context.Context, name string, entry sources.Entry) (string, error) {
	return s.generate(ctx, name, entry, func(State) {})
}

func (s *Syncer) generate(ctx context.Context, name string, entry sources.Entry, advance func(State)) (string, error) {
	logger := logging.FromContext(ctx)

	advance(StateFetching)
	upstreamText, err := s.fetch(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	logger.V(1).Info("fetched upstream", "repository", entry.Repository, "revision", entry.Revision, "bytes", len(upstreamText))

	advance(StateSubstituting)
	patched, err := rewrite.Apply(name, compose.NormalizeNewlines(upstreamText), entry.Replacements)
	if err != nil {
		return "", err
	}
	logger.V(1).Info("applied replacements", "count", len(entry.Replacements))

	advance(StateComposing)
	var override string
	if entry.OverridePath != "" {
		content, present, err := compose.ReadOverride(s.resolve(entry.OverridePath))
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		override = content
		logger.V(1).Info("read override", "path", entry.OverridePath, "present", present)
	}

	return compose.Compose(name, entry, patched, override), nil
}

func (s *Syncer) fetch(ctx context.Context, entry sources.Entry) (string, error) {
	ctx, span := s.tracer.Start(ctx, "sync.fetch", trace.WithAttributes(
		attribute.String("querysync.query_path", entry.QueryPath),
	))
	defer span.End()

	start := time.Now()
	text, err := s.fetcher.Fetch(ctx, entry.Repository, entry.Revision, entry.QueryPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	s.metrics.observeFetch(time.Since(start), len(text))
	span.SetAttributes(attribute.Int("querysync.bytes", len(text)))
	return text, nil
}

func (s *Syncer) resolve(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// readTarget returns the target's content, or "" when it does not exist yet.
func readTarget(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading target %s: %w", path, err)
	}
	return string(data), nil
}
