package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type DamagedLine struct {
	Line   int
	Reason string
}

type FileHealth struct {
	Path          string
	Exists        bool
	Records       int
	Damaged       []DamagedLine
	DamagedFile   string
	HasQuarantine bool
}

// InspectFile reads the log at path without changing it
func InspectFile(path string) (*FileHealth, error) {
	health := &FileHealth{Path: path, DamagedFile: DamagedPath(path)}

	if _, err := os.Stat(health.DamagedFile); err == nil {
		health.HasQuarantine = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return nil, fmt.Errorf("can not read store file %s: %w", path, err)
	}
	health.Exists = true

	for _, line := range splitLines(data) {
		if len(bytes.TrimSpace(line.Data)) == 0 {
			continue
		}
		if _, err := decodeRecord(line.Data); err != nil {
			health.Damaged = append(health.Damaged, DamagedLine{Line: line.Number, Reason: err.Error()})
			continue
		}
		health.Records++
	}

	return health, nil
}

type RepairReport struct {
	Kept        int
	Quarantined int
	DamagedFile string
}

// RepairFile rewrites the log keeping only decodable records. Damaged lines
// are appended to the damaged file. The rewrite goes to a temporary file that
// replaces the log with a rename, so an interrupted repair leaves the
// original in place. No FileStore may have the log open while it runs.
func RepairFile(path string, log *zerolog.Logger) (*RepairReport, error) {
	report := &RepairReport{DamagedFile: DamagedPath(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, nil
		}
		return nil, fmt.Errorf("can not read store file %s: %w", path, err)
	}

	var kept, damaged bytes.Buffer
	for _, line := range splitLines(data) {
		if len(bytes.TrimSpace(line.Data)) == 0 {
			continue
		}
		if _, err := decodeRecord(line.Data); err != nil {
			log.Warn().Err(err).Int("line", line.Number).Msg("quarantining damaged record")
			damaged.Write(line.Data)
			damaged.WriteByte('\n')
			report.Quarantined++
			continue
		}
		kept.Write(line.Data)
		kept.WriteByte('\n')
		report.Kept++
	}

	if report.Quarantined == 0 {
		return report, nil
	}

	if err := appendBytes(report.DamagedFile, damaged.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write damaged records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(kept.Bytes()); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("failed to write repaired log: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("failed to sync repaired log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close repaired log: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return nil, fmt.Errorf("failed to replace log: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("kept", report.Kept).
		Int("quarantined", report.Quarantined).
		Msg("store log repaired")

	return report, nil
}
