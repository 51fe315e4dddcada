package proofs

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jnbvisualizer/apperr"
	"jnbvisualizer/audit"
	"jnbvisualizer/backup"
	"jnbvisualizer/config"
	"jnbvisualizer/core"
	"jnbvisualizer/designs"
	"jnbvisualizer/format"
	_ "jnbvisualizer/format/dst"
	_ "jnbvisualizer/format/pes"
	"jnbvisualizer/stores/memory"
)

type recordingFeed struct {
	created []*core.ProofRecord
}

func (f *recordingFeed) ProofCreated(p *core.ProofRecord) {
	f.created = append(f.created, p)
}

func writeMaster(t *testing.T, dir, name string, p *format.Pattern) {
	t.Helper()
	require.NoError(t, format.WriteFile(filepath.Join(dir, name), p))
}

func flowerPattern() *format.Pattern {
	p := &format.Pattern{}
	p.AddThread(0xEC0000)
	p.AddThread(0x0F75FF)
	p.AddStitch(0, 0, format.CmdStitch)
	p.AddStitch(20, 0, format.CmdStitch)
	p.AddStitch(20, 20, format.CmdStitch)
	p.AddStitch(0, 0, format.CmdColorChange)
	p.AddStitch(40, 40, format.CmdStitch)
	p.AddStitch(60, 40, format.CmdStitch)
	return p
}

func logoPattern() *format.Pattern {
	// DST masters carry no thread list.
	p := &format.Pattern{}
	p.AddStitch(0, 0, format.CmdStitch)
	p.AddStitch(15, 15, format.CmdStitch)
	return p
}

func newTestService(t *testing.T) (*Service, *config.Config, *recordingFeed) {
	t.Helper()
	base := t.TempDir()
	cfg := &config.Config{
		DataDir:       base,
		MasterDir:     filepath.Join(base, "designs", "master"),
		GeneratedDir:  filepath.Join(base, "designs", "generated"),
		BackupDir:     filepath.Join(base, "backups"),
		DBPath:        filepath.Join(base, "proofs.db"),
		LogCSVPath:    filepath.Join(base, "proofs_log.csv"),
		DesignMapPath: filepath.Join(base, "design_map.json"),
		MirrorDir:     filepath.Join(base, "mirror"),
		JumpThreshold: 45,
		StorageType:   "memory",
	}
	require.NoError(t, cfg.EnsureDirs())

	writeMaster(t, cfg.MasterDir, "flower.pes", flowerPattern())
	writeMaster(t, cfg.MasterDir, "logo.dst", logoPattern())

	feed := &recordingFeed{}
	svc := NewService(
		cfg,
		designs.NewCatalog(cfg.MasterDir, cfg.DesignMapPath),
		memory.NewStore(),
		audit.NewLog(cfg.LogCSVPath, cfg.BackupDir),
		backup.NewMirror(cfg.MirrorDir, ""),
		feed,
	)
	return svc, cfg, feed
}

func TestDesignInfo(t *testing.T) {
	svc, _, _ := newTestService(t)

	info, err := svc.DesignInfo("flower.pes")
	require.NoError(t, err)
	assert.Equal(t, "flower.pes", info.Design)
	assert.Equal(t, []string{"#ec0000", "#0f75ff"}, info.Colors)
	assert.Equal(t, 2, info.BlockCount)
}

func TestDesignInfo_UnknownDesign(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.DesignInfo("nope.pes")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestPreview(t *testing.T) {
	svc, _, _ := newTestService(t)

	data, err := svc.Preview("flower.pes", "#ffffff", []string{"#ff0000"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestSave(t *testing.T) {
	svc, cfg, feed := newTestService(t)

	rec, err := svc.Save(context.Background(), "flower.pes", "Mani Z!!", "#336699", "#ff0000, #00ff00")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^JNB-[0-9A-F]{8}$`), rec.ProofID)
	assert.Equal(t, "flower.pes", rec.DesignFile)
	assert.Equal(t, "mani_z", rec.ClientTag)
	assert.Equal(t, "#336699", rec.BackgroundHex)
	assert.Equal(t, "#ff0000,#00ff00", rec.ColorsCSV)

	wantName := "flower__mani_z__" + rec.ProofID + ".pes"
	assert.Equal(t, filepath.Join(cfg.GeneratedDir, wantName), rec.GeneratedPath)
	_, err = os.Stat(rec.GeneratedPath)
	require.NoError(t, err)

	// The generated file is a decodable design with the requested colors.
	gen, err := format.ReadFile(rec.GeneratedPath)
	require.NoError(t, err)
	require.Len(t, gen.Threads, 2)
	assert.Equal(t, 0xEC0000, gen.Threads[0].Color) // #ff0000 snapped to the thread chart
	assert.Equal(t, 0x00AA00, gen.Threads[1].Color)

	// Audit trail: one CSV row plus header, one snapshot.
	f, err := os.Open(cfg.LogCSVPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, rec.ProofID, rows[1][1])
	assert.Equal(t, wantName, rows[1][6])

	_, err = os.Stat(filepath.Join(cfg.BackupDir, rec.ProofID+".json"))
	require.NoError(t, err)

	// Mirror copies are best-effort; the CSV and snapshot exist, the missing
	// sqlite file is skipped silently.
	_, err = os.Stat(filepath.Join(cfg.MirrorDir, "proofs_log.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.MirrorDir, rec.ProofID+".json"))
	assert.NoError(t, err)

	require.Len(t, feed.created, 1)
	assert.Equal(t, rec.ProofID, feed.created[0].ProofID)
}

func TestSave_UnknownDesign(t *testing.T) {
	svc, cfg, _ := newTestService(t)

	_, err := svc.Save(context.Background(), "missing.pes", "tag", "#ffffff", "#ff0000")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assertNoOutput(t, cfg)
}

func TestSave_BadBackground(t *testing.T) {
	svc, cfg, _ := newTestService(t)

	_, err := svc.Save(context.Background(), "flower.pes", "tag", "nope", "#ff0000")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
	assertNoOutput(t, cfg)
}

func TestSave_EmptyColors(t *testing.T) {
	svc, cfg, _ := newTestService(t)

	_, err := svc.Save(context.Background(), "flower.pes", "tag", "#ffffff", " , ")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
	assertNoOutput(t, cfg)
}

func TestSave_NoThreadList(t *testing.T) {
	svc, cfg, _ := newTestService(t)

	_, err := svc.Save(context.Background(), "logo.dst", "tag", "#ffffff", "#ff0000")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeUnprocessable))
	assertNoOutput(t, cfg)
}

// assertNoOutput verifies that a failed save left no generated file, CSV row
// or snapshot behind.
func assertNoOutput(t *testing.T, cfg *config.Config) {
	t.Helper()
	entries, err := os.ReadDir(cfg.GeneratedDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = os.Stat(cfg.LogCSVPath)
	assert.True(t, os.IsNotExist(err))

	snaps, err := os.ReadDir(cfg.BackupDir)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}
