// Package proofs orchestrates the two customer-facing operations: rendering
// a preview image and saving a proof (recolored design file plus audit
// trail). Each call decodes the master file fresh; there is no shared state
// between requests.
package proofs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"jnbvisualizer/audit"
	"jnbvisualizer/backup"
	"jnbvisualizer/config"
	"jnbvisualizer/core"
	"jnbvisualizer/designs"
	"jnbvisualizer/format"
	"jnbvisualizer/preview"
)

// Notifier receives the record of every saved proof. The live admin feed
// implements it; tests use a recording stub.
type Notifier interface {
	ProofCreated(p *core.ProofRecord)
}

// Service wires the transform pipeline to the catalog, store and audit
// trail.
type Service struct {
	cfg     *config.Config
	catalog *designs.Catalog
	store   core.ProofStore
	log     *audit.Log
	mirror  *backup.Mirror
	feed    Notifier
}

func NewService(cfg *config.Config, catalog *designs.Catalog, store core.ProofStore, log *audit.Log, mirror *backup.Mirror, feed Notifier) *Service {
	return &Service{
		cfg:     cfg,
		catalog: catalog,
		store:   store,
		log:     log,
		mirror:  mirror,
		feed:    feed,
	}
}

// Info describes one design to the widget: its native colors and how many
// color blocks a customer can override.
type Info struct {
	Design     string   `json:"design"`
	Colors     []string `json:"colors"`
	BlockCount int      `json:"block_count"`
}

// DesignInfo decodes a master design and reports its thread colors and
// capped block count.
func (s *Service) DesignInfo(designFile string) (*Info, error) {
	path, err := s.catalog.Resolve(designFile)
	if err != nil {
		return nil, err
	}
	p, err := format.ReadFile(path)
	if err != nil {
		return nil, err
	}

	blocks := preview.Cap(preview.Blocks(p, s.cfg.JumpThreshold), config.MaxBlocks)
	return &Info{
		Design:     filepath.Base(designFile),
		Colors:     threadColors(p),
		BlockCount: len(blocks),
	}, nil
}

// Preview renders a PNG proof image for a design with the given background
// and override colors. A design with no drawable stitches still renders:
// background plus watermark.
func (s *Service) Preview(designFile, bgHex string, colors []string) ([]byte, error) {
	path, err := s.catalog.Resolve(designFile)
	if err != nil {
		return nil, err
	}
	p, err := format.ReadFile(path)
	if err != nil {
		return nil, err
	}

	blocks := preview.Cap(preview.Blocks(p, s.cfg.JumpThreshold), config.MaxBlocks)
	blocks = preview.Normalize(blocks, config.CanvasPadding, config.CanvasSize)

	return preview.Render(blocks, bgHex, colors, threadColors(p), preview.RenderOptions{
		Canvas:          config.CanvasSize,
		Padding:         config.CanvasPadding,
		LineWidth:       config.LineWidth,
		WatermarkHeight: config.WatermarkHeight,
	})
}

// Save validates the request, writes the recolored design file and persists
// the proof record, CSV row and JSON snapshot. Mirror copies are
// best-effort. Nothing is written if validation or recoloring fails.
func (s *Service) Save(ctx context.Context, designFile, clientTag, bgHex, colorsCSV string) (*core.ProofRecord, error) {
	masterPath, err := s.catalog.Resolve(designFile)
	if err != nil {
		return nil, err
	}
	tag := core.SafeTag(clientTag)
	if _, err := core.HexToRGBInt(bgHex); err != nil {
		return nil, err
	}
	colors, err := core.ParseColorList(colorsCSV)
	if err != nil {
		return nil, err
	}

	proofID := core.NewProofID()
	created := time.Now().UTC()

	outPath, err := s.generateRecolored(masterPath, colors, proofID, tag)
	if err != nil {
		return nil, err
	}

	record := &core.ProofRecord{
		ProofID:       proofID,
		DesignFile:    filepath.Base(designFile),
		ClientTag:     tag,
		BackgroundHex: bgHex,
		ColorsCSV:     strings.Join(colors, ","),
		CreatedUTC:    created,
		GeneratedPath: outPath,
	}

	if err := s.store.Insert(ctx, record); err != nil {
		return nil, err
	}
	if err := s.log.Append(record); err != nil {
		return nil, err
	}
	snapPath, err := s.log.Snapshot(record)
	if err != nil {
		return nil, err
	}

	s.mirror.Copy(ctx, s.cfg.DBPath)
	s.mirror.Copy(ctx, s.log.CSVPath())
	s.mirror.Copy(ctx, snapPath)

	if s.feed != nil {
		s.feed.ProofCreated(record)
	}

	logrus.WithFields(logrus.Fields{
		"proof_id":    record.ProofID,
		"design_file": record.DesignFile,
		"client_tag":  record.ClientTag,
	}).Info("Proof saved")
	return record, nil
}

func (s *Service) generateRecolored(masterPath string, colors []string, proofID, tag string) (string, error) {
	p, err := format.ReadFile(masterPath)
	if err != nil {
		return "", err
	}
	if err := Recolor(p, colors); err != nil {
		return "", err
	}

	base := filepath.Base(masterPath)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s__%s__%s%s", strings.TrimSuffix(base, ext), tag, proofID, ext)
	outPath := filepath.Join(s.cfg.GeneratedDir, name)

	if err := format.WriteFile(outPath, p); err != nil {
		return "", err
	}
	return outPath, nil
}

// threadColors extracts the pattern's native thread colors as hex strings,
// capped at the block limit. These are the fallback colors the renderer
// uses beyond the customer's override list.
func threadColors(p *format.Pattern) []string {
	colors := make([]string, 0, len(p.Threads))
	for _, t := range p.Threads {
		colors = append(colors, core.RGBIntToHex(t.Color))
		if len(colors) == config.MaxBlocks {
			break
		}
	}
	return colors
}
