package pipeline

import (
	"time"

	"github.com/rustyeddy/pipengine/indicators"
)

// Table holds the outputs of one pipeline run, keyed by request key in
// request order. Every column has one value per input bar.
type Table struct {
	RunID string
	Times []time.Time

	keys    []string
	outputs map[string]indicators.Output
}

func newTable(runID string, times []time.Time) *Table {
	return &Table{RunID: runID, Times: times, outputs: make(map[string]indicators.Output)}
}

func (t *Table) add(key string, out indicators.Output) {
	t.keys = append(t.keys, key)
	t.outputs[key] = out
}

// Keys returns the output keys in request order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Get returns the output stored under key.
func (t *Table) Get(key string) (indicators.Output, bool) {
	out, ok := t.outputs[key]
	return out, ok
}

// Column returns one column of the output stored under key.
func (t *Table) Column(key, column string) ([]float64, bool) {
	out, ok := t.outputs[key]
	if !ok {
		return nil, false
	}
	return out.Column(column)
}

// Len returns the number of rows (input bars).
func (t *Table) Len() int {
	return len(t.Times)
}

// Header names every flattened column. Single-column outputs use the key
// alone; the others use key.column.
func (t *Table) Header() []string {
	var h []string
	for _, k := range t.keys {
		out := t.outputs[k]
		if len(out.Columns) == 1 {
			h = append(h, k)
			continue
		}
		for _, c := range out.Columns {
			h = append(h, k+"."+c.Name)
		}
	}
	return h
}

// Row returns the flattened values of row i in Header order.
func (t *Table) Row(i int) []float64 {
	var row []float64
	for _, k := range t.keys {
		for _, c := range t.outputs[k].Columns {
			row = append(row, c.Values[i])
		}
	}
	return row
}
