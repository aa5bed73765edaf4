package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wheelnext/variantschema"
)

var (
	schemaIndent     int
	schemaNoMetadata bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the variants JSON Schema to standard output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemaIndent < 0 {
			return fmt.Errorf("--indent must be >= 0, got %d", schemaIndent)
		}
		text, err := variantschema.EmitJSONSchema(variantschema.EmitOptions{
			Indent:   schemaIndent,
			Metadata: !schemaNoMetadata,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	schemaCmd.Flags().IntVar(&schemaIndent, "indent", 2, "spaces per indentation level (0 for compact output)")
	schemaCmd.Flags().BoolVar(&schemaNoMetadata, "no-metadata", false, "omit the $schema, $id, and title constants")
}
