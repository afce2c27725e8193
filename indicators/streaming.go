package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/pipengine/market"
)

// SimpleMA is a streaming Simple Moving Average of closes.
type SimpleMA struct {
	period int
	window []float64
	sum    float64
}

// NewMA creates a new Simple Moving Average indicator with the given period
func NewMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		window: make([]float64, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("MA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.window = m.window[:0]
	m.sum = 0
}

func (m *SimpleMA) Update(b market.Bar) {
	m.window = append(m.window, b.Close)
	m.sum += b.Close
	// Keep only the last 'period' closes
	if len(m.window) > m.period {
		m.sum -= m.window[0]
		m.window = m.window[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return len(m.window) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return math.NaN()
	}
	return m.sum / float64(m.period)
}

// ExponentialMA is a streaming Exponential Moving Average of closes. It
// produces the same values as EMA over the same closes.
type ExponentialMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

// NewEMA creates a new Exponential Moving Average indicator with the given period
func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *ExponentialMA) Update(b market.Bar) {
	if e.count < e.period {
		// During warmup, accumulate sum for initial SMA
		e.warmupSum += b.Close
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
		return
	}
	e.ema = b.Close*e.multiplier + e.ema*(1-e.multiplier)
}

func (e *ExponentialMA) Ready() bool {
	return e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return math.NaN()
	}
	return e.ema
}

// AverageTrueRange is a streaming Wilder ATR. The first bar contributes
// high-low, matching ATR with the RMA method.
type AverageTrueRange struct {
	period      int
	atr         float64
	count       int
	warmupSum   float64
	prev        market.Bar
	hasPrevious bool
}

// NewATR creates a new Average True Range indicator with the given period
func NewATR(period int) *AverageTrueRange {
	return &AverageTrueRange{period: period}
}

func (a *AverageTrueRange) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

func (a *AverageTrueRange) Warmup() int {
	return a.period
}

func (a *AverageTrueRange) Reset() {
	a.atr = 0
	a.count = 0
	a.warmupSum = 0
	a.hasPrevious = false
}

func (a *AverageTrueRange) Update(b market.Bar) {
	tr := b.High - b.Low
	if a.hasPrevious {
		tr = trueRange(b, a.prev)
	}
	a.prev = b
	a.hasPrevious = true

	if a.count < a.period {
		a.warmupSum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.warmupSum / float64(a.period)
		}
		return
	}

	// Apply Wilder's smoothing
	p := float64(a.period)
	a.atr = (a.atr*(p-1) + tr) / p
}

func (a *AverageTrueRange) Ready() bool {
	return a.count >= a.period
}

func (a *AverageTrueRange) Value() float64 {
	if !a.Ready() {
		return math.NaN()
	}
	return a.atr
}
