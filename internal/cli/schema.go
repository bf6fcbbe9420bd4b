package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartwire/pkg/spec"
)

// schemaCommand prints the JSON Schema for spec files.
func (c *CLI) schemaCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for chart spec files",
		Long: `Print the JSON Schema for chart spec files.

Point an editor at the schema for completion and validation of JSON and YAML
specs, e.g. with a "$schema" key or a yaml-language-server comment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := spec.SchemaJSON()
			if err != nil {
				return err
			}
			data = append(data, '\n')
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Schema written")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
