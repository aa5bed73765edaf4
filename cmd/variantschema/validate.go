package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wheelnext/variantschema"
)

var (
	validateFailFast bool
	validateYAML     bool
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a variants document (JSON, or YAML by extension/--yaml)",
	Long: `validate reads a variants document from FILE (or standard input when FILE
is "-") and checks it against the variants rule set. Every violated rule is
reported with its JSON Pointer field path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		var (
			data []byte
			err  error
		)
		if name == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return err
		}

		opt := variantschema.ParseOpt{FailFast: validateFailFast}
		ctx := cmd.Context()
		if validateYAML || strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			_, err = variantschema.ParseYAMLBytes(ctx, data, opt)
		} else {
			_, err = variantschema.ParseBytes(ctx, data, opt)
		}
		if err != nil {
			if iss, ok := variantschema.AsIssues(err); ok {
				for _, it := range iss {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s at %s: %s\n", it.Code, it.Path, it.Message)
				}
				return fmt.Errorf("document invalid: %d issue(s)", len(iss))
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "document is valid")
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateFailFast, "fail-fast", false, "stop at the first violated rule")
	validateCmd.Flags().BoolVar(&validateYAML, "yaml", false, "force YAML input regardless of file extension")
}
