package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rustyeddy/pipengine/indicators"
	"github.com/rustyeddy/pipengine/market"
	"gopkg.in/yaml.v3"
)

// Indicator names registered by DefaultRegistry.
const (
	EMA          = "ema"
	DEMA         = "dema"
	ATR          = "atr"
	ImpulseMACD  = "impulse_macd"
	ZeroLagMACD  = "zero_lag_macd"
	FractalStops = "williams_fractal_stops"
	Supertrend   = "supertrend"
	PSAR         = "psar"
)

type entry struct {
	defaults func() any
	decode   func(*yaml.Node) (any, error)
	compute  func(market.Bars, any) (indicators.Output, error)
}

// Registry maps indicator names to their parameter types and compute
// functions. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// DefaultRegistry returns a registry holding every built-in indicator.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	Register(r, EMA, indicators.DefaultEMAParams, indicators.ComputeEMA)
	Register(r, DEMA, indicators.DefaultDEMAParams, indicators.ComputeDEMA)
	Register(r, ATR, indicators.DefaultATRParams, indicators.ComputeATR)
	Register(r, ImpulseMACD, indicators.DefaultImpulseMACDParams, indicators.ComputeImpulseMACD)
	Register(r, ZeroLagMACD, indicators.DefaultZeroLagMACDParams, indicators.ComputeZeroLagMACD)
	Register(r, FractalStops, indicators.DefaultFractalStopsParams, indicators.ComputeFractalStops)
	Register(r, Supertrend, indicators.DefaultSupertrendParams, indicators.ComputeSupertrend)
	Register(r, PSAR, indicators.DefaultPSARParams, indicators.ComputePSAR)
	return r
}

// Register adds an indicator whose parameters are of type P. Requests for
// name must carry a P, a *P, or nil for the defaults. Registering a name
// twice replaces the earlier entry.
func Register[P any](r *Registry, name string, defaults func() P, compute func(market.Bars, P) (indicators.Output, error)) {
	e := entry{
		defaults: func() any { return defaults() },
		decode: func(node *yaml.Node) (any, error) {
			p := defaults()
			if node == nil || node.Kind == 0 || node.ShortTag() == "!!null" {
				return p, nil
			}
			if err := decodeStrict(node, &p); err != nil {
				return nil, &indicators.InvalidParameterError{
					Indicator: name,
					Param:     "params",
					Value:     fmt.Sprintf("line %d", node.Line),
					Reason:    err.Error(),
				}
			}
			if err := indicators.ValidateParams(name, p); err != nil {
				return nil, err
			}
			return p, nil
		},
		compute: func(bars market.Bars, params any) (indicators.Output, error) {
			var p P
			switch v := params.(type) {
			case nil:
				p = defaults()
			case P:
				p = v
			case *P:
				if v == nil {
					p = defaults()
				} else {
					p = *v
				}
			default:
				return indicators.Output{}, &indicators.InvalidParameterError{
					Indicator: name,
					Param:     "params",
					Value:     fmt.Sprintf("%T", params),
					Reason:    fmt.Sprintf("want %T", p),
				}
			}
			return compute(bars, p)
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		r.order = append(r.order, name)
	}
	r.entries[name] = e
}

// decodeStrict re-encodes node so unknown keys can be rejected; yaml.Node.Decode
// has no KnownFields switch.
func decodeStrict(node *yaml.Node, out any) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Names returns the registered indicator names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Defaults returns the default parameters of name.
func (r *Registry) Defaults(name string) (any, error) {
	e, ok := r.lookup(name)
	if !ok {
		return nil, r.unknown(name)
	}
	return e.defaults(), nil
}

// Decode builds typed, validated parameters for name from a YAML mapping.
// Unknown keys are an error. A nil or empty node yields the defaults.
func (r *Registry) Decode(name string, node *yaml.Node) (any, error) {
	e, ok := r.lookup(name)
	if !ok {
		return nil, r.unknown(name)
	}
	return e.decode(node)
}

// Compute runs a single indicator outside a pipeline.
func (r *Registry) Compute(name string, bars market.Bars, params any) (indicators.Output, error) {
	e, ok := r.lookup(name)
	if !ok {
		return indicators.Output{}, r.unknown(name)
	}
	return e.compute(bars, params)
}

func (r *Registry) lookup(name string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

func (r *Registry) unknown(name string) error {
	return &UnknownIndicatorError{Name: name, Known: r.Names()}
}
