package backup

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipName(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "JNB_BACKUP_20260315_093005.zip", ZipName(now))
}

func TestWriteZip(t *testing.T) {
	base := t.TempDir()
	snapDir := filepath.Join(base, "backups")
	genDir := filepath.Join(base, "generated")
	require.NoError(t, os.MkdirAll(snapDir, 0755))
	require.NoError(t, os.MkdirAll(genDir, 0755))

	write := func(path, content string) {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write(filepath.Join(base, "proofs.db"), "db-bytes")
	write(filepath.Join(base, "proofs_log.csv"), "header\nrow\n")
	write(filepath.Join(snapDir, "JNB-AAAA1111.json"), "{}")
	write(filepath.Join(snapDir, "notes.txt"), "ignored")
	write(filepath.Join(genDir, "flower__client__JNB-AAAA1111.pes"), "pes-bytes")

	var buf bytes.Buffer
	err := WriteZip(&buf, Bundle{
		DBPath:       filepath.Join(base, "proofs.db"),
		CSVPath:      filepath.Join(base, "proofs_log.csv"),
		SnapshotDir:  snapDir,
		GeneratedDir: genDir,
		DesignMap:    map[string]string{"01abc": "flower.pes"},
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"backups/JNB-AAAA1111.json",
		"design_map.json",
		"generated/flower__client__JNB-AAAA1111.pes",
		"proofs.db",
		"proofs_log.csv",
	}, names)
}

func TestWriteZip_FreshInstall(t *testing.T) {
	base := t.TempDir()

	var buf bytes.Buffer
	err := WriteZip(&buf, Bundle{
		DBPath:       filepath.Join(base, "missing.db"),
		CSVPath:      filepath.Join(base, "missing.csv"),
		SnapshotDir:  filepath.Join(base, "no-backups"),
		GeneratedDir: filepath.Join(base, "no-generated"),
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}

func TestMirror_LocalDir(t *testing.T) {
	base := t.TempDir()
	mirrorDir := filepath.Join(base, "mirror")
	require.NoError(t, os.MkdirAll(mirrorDir, 0755))

	src := filepath.Join(base, "proofs_log.csv")
	require.NoError(t, os.WriteFile(src, []byte("rows"), 0644))

	m := NewMirror(mirrorDir, "")
	require.True(t, m.Enabled())
	m.Copy(t.Context(), src)

	data, err := os.ReadFile(filepath.Join(mirrorDir, "proofs_log.csv"))
	require.NoError(t, err)
	assert.Equal(t, "rows", string(data))
}

func TestMirror_Disabled(t *testing.T) {
	m := NewMirror("", "")
	assert.False(t, m.Enabled())
	// No targets configured; nothing happens and nothing fails.
	m.Copy(t.Context(), "/nonexistent/file")
}
