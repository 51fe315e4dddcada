// Package audit keeps the flat backup trail beside the primary store: a CSV
// log with one row per proof and an individual JSON snapshot per proof.
package audit

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"jnbvisualizer/core"
)

var csvHeader = []string{
	"created_utc", "proof_id", "design_file", "client_tag",
	"bg_hex", "colors_csv", "generated_pes_filename",
}

// Log appends proofs to a CSV file and writes JSON snapshots into a backup
// directory.
type Log struct {
	csvPath   string
	backupDir string
}

func NewLog(csvPath, backupDir string) *Log {
	return &Log{csvPath: csvPath, backupDir: backupDir}
}

// Append writes one CSV row for the proof, creating the file with its header
// on first use.
func (l *Log) Append(p *core.ProofRecord) error {
	if err := l.ensureHeader(); err != nil {
		return err
	}
	f, err := os.OpenFile(l.csvPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{
		p.CreatedUTC.Format(time.RFC3339Nano),
		p.ProofID,
		p.DesignFile,
		p.ClientTag,
		p.BackgroundHex,
		p.ColorsCSV,
		filepath.Base(p.GeneratedPath),
	})
	w.Flush()
	return w.Error()
}

// Snapshot writes an indented JSON copy of the proof as <proofID>.json in
// the backup directory and returns the snapshot path.
func (l *Log) Snapshot(p *core.ProofRecord) (string, error) {
	payload := map[string]any{
		"created_utc":            p.CreatedUTC.Format(time.RFC3339Nano),
		"proof_id":               p.ProofID,
		"design_file":            p.DesignFile,
		"client_tag":             p.ClientTag,
		"bg_hex":                 p.BackgroundHex,
		"colors_csv":             p.ColorsCSV,
		"generated_pes_filename": filepath.Base(p.GeneratedPath),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(l.backupDir, p.ProofID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// CSVPath returns the audit log location for backup bundling.
func (l *Log) CSVPath() string { return l.csvPath }

// BackupDir returns the snapshot directory for backup bundling.
func (l *Log) BackupDir() string { return l.backupDir }

func (l *Log) ensureHeader() error {
	if _, err := os.Stat(l.csvPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	f, err := os.Create(l.csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write(csvHeader)
	w.Flush()
	return w.Error()
}
