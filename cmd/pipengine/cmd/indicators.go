package cmd

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/pipengine/pipeline"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "List the available indicators and their default parameters",
	RunE:  runIndicators,
}

func init() {
	rootCmd.AddCommand(indicatorsCmd)
}

func runIndicators(cmd *cobra.Command, args []string) error {
	reg := pipeline.DefaultRegistry()

	var rows [][]string
	for _, name := range reg.Names() {
		defaults, err := reg.Defaults(name)
		if err != nil {
			return err
		}
		params, err := flowYAML(defaults)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		rows = append(rows, []string{name, params})
	}
	return renderTable(cmd.OutOrStdout(), []string{"name", "default params"}, rows)
}

// flowYAML renders v on one line, the way params are written in a config file.
func flowYAML(v any) (string, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return "", err
	}
	n.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&n)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
