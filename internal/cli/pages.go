package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"partscan/internal/adapter/pagerange"
)

var pagesTotal int

var pagesCmd = &cobra.Command{
	Use:   "pages <range>",
	Short: "Preview which pages a range selects",
	Long: `Parse a page range the way scan does and print the selected 1-based
page numbers. Out-of-range and non-numeric entries are dropped silently.

Examples:
  partscan pages "1,2,5-7" --total 10
  partscan pages "5-7,40" --total 10`,
	Args: cobra.ExactArgs(1),
	RunE: runPages,
}

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.Flags().IntVarP(&pagesTotal, "total", "n", 0, "number of pages in the document (required)")
	pagesCmd.MarkFlagRequired("total")
}

func runPages(cmd *cobra.Command, args []string) error {
	indices, err := pagerange.Parse(args[0], pagesTotal)
	if err != nil {
		return err
	}

	numbers := make([]string, len(indices))
	for i, idx := range indices {
		numbers[i] = strconv.Itoa(idx + 1)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, strings.Join(numbers, ","))
	if len(indices) > 0 {
		fmt.Fprintf(out, "%d page(s): %s\n", len(indices), pagerange.Format(indices))
	}
	return nil
}
