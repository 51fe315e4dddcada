package core

import (
	"context"
	"time"
)

type (
	// ProofRecord captures one saved color customization: the chosen colors
	// paired with the recolored design file generated for them. Records are
	// written once and never mutated.
	ProofRecord struct {
		ProofID       string    `json:"proof_id"`
		DesignFile    string    `json:"design_file"`
		ClientTag     string    `json:"client_tag"`
		BackgroundHex string    `json:"bg_hex"`
		ColorsCSV     string    `json:"colors_csv"`
		CreatedUTC    time.Time `json:"created_utc"`
		GeneratedPath string    `json:"generated_pes_path"`
	}

	// ProofStore defines the persistence layer for proof records. The store
	// is append-only from the service's perspective; there is no update or
	// delete.
	ProofStore interface {
		// Insert persists a new proof record.
		Insert(ctx context.Context, proof *ProofRecord) error

		// Find returns a single proof by its identifier.
		Find(ctx context.Context, proofID string) (*ProofRecord, error)

		// ListRecent returns up to limit proofs, newest first.
		ListRecent(ctx context.Context, limit int) ([]*ProofRecord, error)
	}
)
