package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/uttrekk-dev/uttrekk/internal/export"
	"github.com/uttrekk-dev/uttrekk/internal/extract"
)

func newExtractCommand() *cobra.Command {
	var (
		extractorName string
		format        string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract normalized transactions from a single export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			res, err := extract.Default().Run(extractorName, data, filepath.Base(args[0]))
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return fmt.Errorf("encoding result: %w", err)
				}
			case "csv":
				if err := export.WriteCSV(out, res.Transactions); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format: %s (want json or csv)", format)
			}

			for _, skip := range res.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped row %d: %s\n", skip.Line, skip.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&extractorName, "extractor", "e", "", "extractor name (see 'uttrekk extractors')")
	_ = cmd.MarkFlagRequired("extractor")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
