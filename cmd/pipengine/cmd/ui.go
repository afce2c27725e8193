package cmd

import (
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rustyeddy/pipengine/indicators"
	"github.com/rustyeddy/pipengine/market"
	"github.com/rustyeddy/pipengine/pipeline"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	undefinedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Padding(0, 1)
)

const timeLayout = "2006-01-02 15:04"

func formatValue(v float64) string {
	if indicators.IsUndefined(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && col < len(rows[row]) && rows[row][col] == "-" {
				return undefinedStyle
			}
			return cellStyle
		})

	_, err := io.WriteString(w, t.String()+"\n")
	return err
}

// tailStart returns the first row index of the last n rows.
func tailStart(total, n int) int {
	if n <= 0 || n >= total {
		return 0
	}
	return total - n
}

// printResults renders the last tail rows of a pipeline table.
func printResults(w io.Writer, t *pipeline.Table, tail int) error {
	headers := append([]string{"time"}, t.Header()...)

	var rows [][]string
	for i := tailStart(t.Len(), tail); i < t.Len(); i++ {
		row := []string{t.Times[i].Format(timeLayout)}
		for _, v := range t.Row(i) {
			row = append(row, formatValue(v))
		}
		rows = append(rows, row)
	}
	return renderTable(w, headers, rows)
}

// printBars renders the last tail bars.
func printBars(w io.Writer, bars market.Bars, tail int) error {
	headers := []string{"time", "open", "high", "low", "close", "volume"}

	var rows [][]string
	for _, b := range bars[tailStart(len(bars), tail):] {
		rows = append(rows, []string{
			b.Time.UTC().Format(timeLayout),
			formatValue(b.Open),
			formatValue(b.High),
			formatValue(b.Low),
			formatValue(b.Close),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		})
	}
	return renderTable(w, headers, rows)
}

func parseTimeFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
