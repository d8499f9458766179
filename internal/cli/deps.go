package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"partscan/config"
	"partscan/internal/adapter/analyzer"
	"partscan/internal/adapter/frequency"
	"partscan/internal/adapter/store"
)

// ErrNoResults is returned when show runs before any scan.
var ErrNoResults = errors.New("no stored results")

func newExtractor() *analyzer.Extractor {
	oracle := frequency.NewCachedOracle(frequency.NewZipfOracle(), frequency.NewScoreCache(0))
	return analyzer.NewDefaultExtractor(oracle)
}

// openStore opens the result store under dir, clearing it when the scan
// settings changed since the results were written.
func openStore(dir string, cfg *config.Config, status io.Writer) (*store.BoltStore, error) {
	if err := config.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", config.DataDirName, err)
	}

	st, err := store.NewBoltStore(config.StoreDBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}

	migration, err := st.CheckMigration(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to check migration: %w", err)
	}

	if migration.NeedsRebuild {
		fmt.Fprintf(status, "Stored results are stale: %s\n", migration.Reason)
		fmt.Fprintln(status, "Clearing stored results...")
		if err := st.Clear(); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to clear results: %w", err)
		}
	}
	if migration.NeedsRebuild || migration.NeedsMigration {
		if err := st.Migrate(cfg); err != nil {
			st.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return st, nil
}

// openExistingStore opens the store read side, failing if nothing was scanned yet.
func openExistingStore(dir string, cfg *config.Config, status io.Writer) (*store.BoltStore, error) {
	if _, err := os.Stat(config.StoreDBPath(dir)); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w. Run 'partscan scan' first", ErrNoResults)
	}
	return openStore(dir, cfg, status)
}
