// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/nric/internal/domain/nric"
	"github.com/okian/nric/internal/domain/resolver"
	"github.com/okian/nric/internal/domain/types"
	"github.com/okian/nric/pkg/logger"
	"github.com/okian/nric/pkg/metrics"
)

const defaultMaxBatchSize = 1000

// Service validates and resolves identifiers.
type Service struct {
	resolver *resolver.Resolver

	// Configuration
	batchWorkers int
	maxBatchSize int

	// Counters reported by GetStats.
	validated       atomic.Int64
	invalid         atomic.Int64
	resolved        atomic.Int64
	resolveFailures atomic.Int64
	startedAt       time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBatchWorkers caps concurrent checks during batch validation.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}

// WithMaxBatchSize caps the number of identifiers in one batch.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service that resolves identifiers with birth counts from counter.
func New(counter resolver.BirthCounter, opts ...Option) *Service {
	s := &Service{
		batchWorkers: runtime.NumCPU(),
		maxBatchSize: defaultMaxBatchSize,
		startedAt:    time.Now(),
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = resolver.New(counter, resolver.WithLogger(s.logger.Named("resolver")))
	return s
}

// Validate checks a single identifier and records the outcome.
func (s *Service) Validate(ctx context.Context, id string) types.ValidationResult {
	err := nric.Check(id)
	reason := Reason(err)
	s.validated.Add(1)
	metrics.RecordValidation(err == nil, reason)
	if err != nil {
		s.invalid.Add(1)
		s.logger.Debug(ctx, "identifier rejected", logger.String("reason", reason), logger.Error(err))
		return types.ValidationResult{NRIC: id, Valid: false, Reason: reason}
	}
	return types.ValidationResult{NRIC: id, Valid: true}
}

// ValidateBatch checks ids concurrently. Results are returned in input order.
func (s *Service) ValidateBatch(ctx context.Context, ids []string) ([]types.ValidationResult, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(ids) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(ids), s.maxBatchSize)
	}
	metrics.RecordBatchSize(len(ids))

	results := make([]types.ValidationResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchWorkers)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Validate(gctx, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch validation: %w", err)
	}
	return results, nil
}

// Complete appends the checksum letter to the first eight characters of an identifier.
func (s *Service) Complete(_ context.Context, partial string) (string, error) {
	return nric.Complete(partial)
}

// Resolve estimates the full identifier for a DDMMYYYY birth date and the
// identifier's last four characters.
func (s *Service) Resolve(ctx context.Context, birthDate, lastFour string) (resolver.Result, error) {
	start := time.Now()
	res, err := s.resolver.Evaluate(ctx, birthDate, lastFour)
	metrics.RecordResolutionLatency(float64(time.Since(start).Milliseconds()))

	outcome := Outcome(err)
	metrics.RecordResolution(outcome)
	if err != nil {
		s.resolveFailures.Add(1)
		s.logger.Warn(ctx, "resolution failed",
			logger.String("outcome", outcome),
			logger.Error(err),
		)
		return resolver.Result{}, err
	}

	s.resolved.Add(1)
	metrics.RecordResolutionCandidates(len(res.Candidates))
	s.logger.Info(ctx, "resolution completed",
		logger.Int("candidates", len(res.Candidates)),
		logger.Float64("estimate", res.Estimate),
	)
	return res, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"validations":      s.validated.Load(),
		"invalid":          s.invalid.Load(),
		"resolutions":      s.resolved.Load(),
		"resolve_failures": s.resolveFailures.Load(),
		"batch_workers":    s.batchWorkers,
		"max_batch_size":   s.maxBatchSize,
		"uptime_seconds":   int64(time.Since(s.startedAt).Seconds()),
	}
}

// Reason maps a checksum error to a short, stable label.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, nric.ErrLength):
		return "length"
	case errors.Is(err, nric.ErrPrefix):
		return "prefix"
	case errors.Is(err, nric.ErrDigits):
		return "digits"
	case errors.Is(err, nric.ErrChecksum):
		return "checksum"
	default:
		return "malformed"
	}
}

// Outcome maps a resolution error to a metrics outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeResolved
	case errors.Is(err, resolver.ErrMalformedInput):
		return metrics.OutcomeBadInput
	case errors.Is(err, resolver.ErrNoCandidate):
		return metrics.OutcomeNoCandidate
	case errors.Is(err, resolver.ErrStatistics):
		return metrics.OutcomeStatistics
	default:
		return metrics.OutcomeError
	}
}
