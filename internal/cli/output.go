package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// writeResult prints v as JSON in json mode, otherwise the text line.
func writeResult(cmd *cobra.Command, opts *RootOptions, v interface{}, text string) error {
	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}
