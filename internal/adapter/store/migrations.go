package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"
	"partscan/config"
	"partscan/internal/adapter/analyzer"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 2

var (
	keySchemaVersion = []byte("schema_version")
	keySettingsHash  = []byte("settings_hash")
)

// SchemaInfo stores schema version and the hash of result-affecting settings.
type SchemaInfo struct {
	Version      int    `json:"version"`
	SettingsHash string `json:"settings_hash"`
}

// GetSchemaInfo retrieves the current schema info from the database.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStats)
		if b == nil {
			return nil
		}

		versionData := b.Get(keySchemaVersion)
		if versionData != nil {
			if err := json.Unmarshal(versionData, &info.Version); err != nil {
				info.Version = 1
			}
		}

		hashData := b.Get(keySettingsHash)
		if hashData != nil {
			info.SettingsHash = string(hashData)
		}

		return nil
	})
	return &info, err
}

// SetSchemaInfo stores the schema info in the database.
func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStats)

		versionData, err := json.Marshal(info.Version)
		if err != nil {
			return err
		}
		if err := b.Put(keySchemaVersion, versionData); err != nil {
			return err
		}

		return b.Put(keySettingsHash, []byte(info.SettingsHash))
	})
}

// ComputeSettingsHash hashes every setting that changes what a page scan
// produces. A different hash means stored pages are stale.
func ComputeSettingsHash(cfg *config.Config) string {
	relevant := struct {
		Stopwords   string  `json:"stopwords"`
		Threshold   float64 `json:"threshold"`
		Language    string  `json:"language"`
		DPI         int     `json:"dpi"`
		OCRProvider string  `json:"ocr_provider"`
		OCRModel    string  `json:"ocr_model"`
		OCRLangs    string  `json:"ocr_langs"`
	}{
		Stopwords:   analyzer.DefaultStopwords().Fingerprint(),
		Threshold:   analyzer.CommonWordThreshold,
		Language:    analyzer.OracleLanguage,
		DPI:         cfg.Render.DPI,
		OCRProvider: cfg.OCR.Provider,
		OCRModel:    cfg.OCR.Model,
		OCRLangs:    strings.Join(cfg.OCR.Languages, ","),
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration checks if migration or rebuild is needed.
func (s *BoltStore) CheckMigration(cfg *config.Config) (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	if info.Version == 0 {
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	} else if info.Version < CurrentSchemaVersion {
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	} else if info.Version > CurrentSchemaVersion {
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("database created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
		return result, nil
	}

	newHash := ComputeSettingsHash(cfg)
	if info.SettingsHash != "" && info.SettingsHash != newHash {
		result.NeedsRebuild = true
		result.Reason = "scan settings changed"
	}

	return result, nil
}

// Migrate performs any necessary schema migrations and records the current settings.
func (s *BoltStore) Migrate(cfg *config.Config) error {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return err
	}

	for v := info.Version; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	newInfo := &SchemaInfo{
		Version:      CurrentSchemaVersion,
		SettingsHash: ComputeSettingsHash(cfg),
	}
	return s.SetSchemaInfo(newInfo)
}

func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		return nil
	case from == 1 && to == 2:
		// v2 added scan run history
		return s.db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketRuns)
			return err
		})
	default:
		return nil
	}
}

// Clear removes all stored results, keeping schema info.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDocs, bucketPages, bucketRuns} {
			if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}
