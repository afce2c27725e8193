// Package pipeline runs a list of named indicators over one bar series and
// collects their outputs into a Table.
package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/pipengine/indicators"
	"github.com/rustyeddy/pipengine/internal/id"
	"github.com/rustyeddy/pipengine/logger"
	"github.com/rustyeddy/pipengine/market"
	"github.com/rustyeddy/pipengine/metrics"
	"go.uber.org/zap"
)

// Request asks for one indicator. Params is the indicator's parameter
// struct (or a pointer to it); nil selects the defaults.
type Request struct {
	Name   string
	As     string
	Params any
}

// Key is the name the output is stored under in the Table.
func (r Request) Key() string {
	if r.As != "" {
		return r.As
	}
	return r.Name
}

// Pipeline computes indicator requests against a read-only bar series.
type Pipeline struct {
	registry        *Registry
	log             *zap.Logger
	metrics         *metrics.Metrics
	parallel        bool
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRegistry replaces the default indicator registry.
func WithRegistry(r *Registry) Option {
	return func(p *Pipeline) { p.registry = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics records run and indicator metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithParallel runs the indicators of a request list concurrently.
func WithParallel(on bool) Option {
	return func(p *Pipeline) { p.parallel = on }
}

// WithContinueOnError keeps computing after an indicator fails. Failed
// indicators are left out of the table and their errors are joined.
func WithContinueOnError(on bool) Option {
	return func(p *Pipeline) { p.continueOnError = on }
}

// New creates a pipeline backed by DefaultRegistry unless WithRegistry is given.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{log: logger.Nop().Logger}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = DefaultRegistry()
	}
	return p
}

// Registry returns the registry the pipeline resolves names against.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

type result struct {
	out indicators.Output
	err error
}

// Run validates bars, resolves every request, then computes them.
//
// Unknown names and duplicate keys are reported before anything runs. By
// default the first failing indicator aborts the run with a nil table. With
// WithContinueOnError the partial table is returned together with the joined
// errors of the indicators that failed.
func (p *Pipeline) Run(bars market.Bars, reqs []Request) (*Table, error) {
	runID := id.New()
	log := p.log.With(zap.String("run_id", runID))

	table, err := p.run(log, runID, bars, reqs)
	p.metrics.ObserveRun(len(bars), err)
	if err != nil {
		log.Warn("pipeline run failed", zap.Error(err))
	}
	return table, err
}

func (p *Pipeline) run(log *zap.Logger, runID string, bars market.Bars, reqs []Request) (*Table, error) {
	if err := market.Validate(bars); err != nil {
		return nil, err
	}
	if err := p.check(reqs); err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.Int("bars", len(bars)),
		zap.Int("indicators", len(reqs)),
		zap.Bool("parallel", p.parallel),
	}
	if started, err := id.Time(runID); err == nil {
		fields = append(fields, zap.Time("started_at", started))
	}
	log.Info("pipeline run started", fields...)
	start := time.Now()

	results := make([]result, len(reqs))
	if p.parallel {
		var wg sync.WaitGroup
		for i, req := range reqs {
			wg.Add(1)
			go func(i int, req Request) {
				defer wg.Done()
				results[i] = p.compute(log, bars, req)
			}(i, req)
		}
		wg.Wait()
	} else {
		for i, req := range reqs {
			results[i] = p.compute(log, bars, req)
			if results[i].err != nil && !p.continueOnError {
				break
			}
		}
	}

	table := newTable(runID, bars.Times())
	var errs []error
	for i, req := range reqs {
		res := results[i]
		if res.err != nil {
			err := fmt.Errorf("%s: %w", req.Key(), res.err)
			if !p.continueOnError {
				return nil, err
			}
			errs = append(errs, err)
			continue
		}
		table.add(req.Key(), res.out)
	}

	log.Info("pipeline run finished",
		zap.Int("outputs", len(table.keys)),
		zap.Int("failed", len(errs)),
		zap.Duration("elapsed", time.Since(start)))
	return table, errors.Join(errs...)
}

// check rejects unknown names and duplicate output keys.
func (p *Pipeline) check(reqs []Request) error {
	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		if !p.registry.Has(req.Name) {
			return p.registry.unknown(req.Name)
		}
		key := req.Key()
		if seen[key] {
			return &indicators.InvalidParameterError{
				Indicator: req.Name,
				Param:     "as",
				Value:     key,
				Reason:    "output name already used by another request",
			}
		}
		seen[key] = true
	}
	return nil
}

func (p *Pipeline) compute(log *zap.Logger, bars market.Bars, req Request) result {
	start := time.Now()
	out, err := p.registry.Compute(req.Name, bars, req.Params)
	elapsed := time.Since(start)
	p.metrics.ObserveIndicator(req.Name, elapsed, err)

	if err != nil {
		log.Warn("indicator failed",
			zap.String("indicator", req.Name),
			zap.String("key", req.Key()),
			zap.Error(err))
		return result{err: err}
	}
	log.Debug("indicator computed",
		zap.String("indicator", req.Name),
		zap.String("key", req.Key()),
		zap.Int("bars", len(bars)),
		zap.Duration("elapsed", elapsed))
	return result{out: out}
}
