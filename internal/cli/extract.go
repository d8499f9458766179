package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"partscan/internal/usecase"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Extract part numbers from plain text",
	Long: `Run part-number extraction on text that was already recognized, reading
from a file or from stdin. Prints one part per line.

Examples:
  partscan extract page.txt
  pdftotext manual.pdf - | partscan extract`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	parts := newExtractor().Extract(string(data))
	return usecase.RenderParts(cmd.OutOrStdout(), GetConfig().Output.Format, parts)
}
