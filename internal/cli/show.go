package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"partscan/internal/usecase"
)

var showCmd = &cobra.Command{
	Use:   "show [file.pdf]",
	Short: "Show stored scan results",
	Long: `Print the stored results for one PDF, or for every scanned PDF when no
file is given. Nothing is rasterized or sent to OCR.

Examples:
  partscan show manual.pdf
  partscan show -f json
  partscan show --forget manual.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

var showForget bool

func init() {
	showCmd.Flags().BoolVar(&showForget, "forget", false, "delete the stored results for the given file")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := openExistingStore(GetRootDir(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer st.Close()

	scanUC := usecase.NewScanUseCase(nil, nil, nil, st, GetLogger(), 1, cfg.Render.DPI)

	if showForget {
		if len(args) != 1 {
			return fmt.Errorf("--forget needs a file")
		}
		if _, err := scanUC.Forget(args[0]); err != nil {
			return fmt.Errorf("no stored results for %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Forgot stored results for %s\n", args[0])
		return nil
	}

	var results []*usecase.ScanResult
	if len(args) == 1 {
		res, err := scanUC.Stored(args[0])
		if err != nil {
			return fmt.Errorf("no stored results for %s: %w", args[0], err)
		}
		results = append(results, res)
	} else {
		results, err = scanUC.StoredAll()
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return fmt.Errorf("%w. Run 'partscan scan' first", ErrNoResults)
		}
	}

	return usecase.RenderResults(cmd.OutOrStdout(), cfg.Output.Format, results)
}
