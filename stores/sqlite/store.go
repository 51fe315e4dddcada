package sqlite

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"jnbvisualizer/apperr"
	"jnbvisualizer/core"
)

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based proof store.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	proofTableStmt := `
	CREATE TABLE IF NOT EXISTS proofs (
		proof_id TEXT PRIMARY KEY,
		design_file TEXT NOT NULL,
		client_tag TEXT NOT NULL,
		bg_hex TEXT NOT NULL,
		colors_csv TEXT NOT NULL,
		created_utc TEXT NOT NULL,
		generated_pes_path TEXT NOT NULL
	);`
	if _, err = db.Exec(proofTableStmt); err != nil {
		log.Fatalf("failed to create proofs table: %v", err)
	}

	return &sqliteStore{db}
}

func (s *sqliteStore) Insert(ctx context.Context, proof *core.ProofRecord) error {
	log := logrus.WithFields(logrus.Fields{
		"proof_id":    proof.ProofID,
		"design_file": proof.DesignFile,
	})

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO proofs (proof_id, design_file, client_tag, bg_hex, colors_csv, created_utc, generated_pes_path) VALUES (?,?,?,?,?,?,?)",
		proof.ProofID, proof.DesignFile, proof.ClientTag, proof.BackgroundHex,
		proof.ColorsCSV, proof.CreatedUTC.UTC().Format(time.RFC3339Nano), proof.GeneratedPath)
	if err != nil {
		log.WithError(err).Error("Failed to insert proof")
		return err
	}
	log.Info("Proof record saved")
	return nil
}

func (s *sqliteStore) Find(ctx context.Context, proofID string) (*core.ProofRecord, error) {
	var p core.ProofRecord
	var created string
	err := s.db.QueryRowContext(ctx,
		"SELECT proof_id, design_file, client_tag, bg_hex, colors_csv, created_utc, generated_pes_path FROM proofs WHERE proof_id = ?",
		proofID).Scan(&p.ProofID, &p.DesignFile, &p.ClientTag, &p.BackgroundHex, &p.ColorsCSV, &created, &p.GeneratedPath)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("proof not found")
		}
		return nil, err
	}
	p.CreatedUTC, _ = time.Parse(time.RFC3339Nano, created)
	return &p, nil
}

func (s *sqliteStore) ListRecent(ctx context.Context, limit int) ([]*core.ProofRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT proof_id, design_file, client_tag, bg_hex, colors_csv, created_utc, generated_pes_path FROM proofs ORDER BY created_utc DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proofs []*core.ProofRecord
	for rows.Next() {
		var p core.ProofRecord
		var created string
		if err := rows.Scan(&p.ProofID, &p.DesignFile, &p.ClientTag, &p.BackgroundHex, &p.ColorsCSV, &created, &p.GeneratedPath); err != nil {
			return nil, err
		}
		p.CreatedUTC, _ = time.Parse(time.RFC3339Nano, created)
		proofs = append(proofs, &p)
	}
	return proofs, rows.Err()
}
