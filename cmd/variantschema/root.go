package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "variantschema",
	Short: "Validate wheel-variants metadata and emit its JSON Schema",
	Long: `variantschema works with wheel-variants metadata documents: it validates
candidate documents against the variants rule set and emits the rule set as
a standalone draft 2020-12 JSON Schema for external tooling.

Exit Codes:
  0 - Success
  1 - Document invalid, usage error, or processing error`,
	SilenceUsage: true,
}

func execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(validateCmd)
}
