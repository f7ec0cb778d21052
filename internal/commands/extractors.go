package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/uttrekk-dev/uttrekk/internal/extract"
)

func newExtractorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extractors",
		Short: "List the available extractors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tFORMATS\tDESCRIPTION")
			for _, info := range extract.Default().List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, strings.Join(info.Formats, ","), info.Description)
			}
			return tw.Flush()
		},
	}
}
