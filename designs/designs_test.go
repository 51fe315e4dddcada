package designs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jnbvisualizer/apperr"
	_ "jnbvisualizer/format/dst"
	_ "jnbvisualizer/format/pes"
)

func newTestCatalog(t *testing.T, names ...string) *Catalog {
	t.Helper()
	base := t.TempDir()
	masterDir := filepath.Join(base, "master")
	require.NoError(t, os.MkdirAll(masterDir, 0755))
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(masterDir, n), []byte("x"), 0644))
	}
	return NewCatalog(masterDir, filepath.Join(base, "design_map.json"))
}

func TestList(t *testing.T) {
	c := newTestCatalog(t, "b.pes", "a.pes", "logo.dst", "readme.txt", "photo.png")

	// Only supported design extensions, sorted.
	assert.Equal(t, []string{"a.pes", "b.pes", "logo.dst"}, c.List())
}

func TestList_MissingDir(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "map.json"))
	assert.Empty(t, c.List())
}

func TestResolve(t *testing.T) {
	c := newTestCatalog(t, "flower.pes")

	path, err := c.Resolve("flower.pes")
	require.NoError(t, err)
	assert.Equal(t, "flower.pes", filepath.Base(path))

	_, err = c.Resolve("missing.pes")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestResolve_StripsDirectories(t *testing.T) {
	c := newTestCatalog(t, "flower.pes")

	// Path components in the request cannot escape the master directory.
	path, err := c.Resolve("../../etc/flower.pes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.masterDir, "flower.pes"), path)

	_, err = c.Resolve("../../etc/passwd")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestSlugs(t *testing.T) {
	c := newTestCatalog(t, "flower.pes")

	slug, err := c.CreateSlug("flower.pes")
	require.NoError(t, err)
	require.NotEmpty(t, slug)

	name, err := c.ResolveSlug(slug)
	require.NoError(t, err)
	assert.Equal(t, "flower.pes", name)

	_, err = c.ResolveSlug("unknown")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	// The map survives a catalog reload.
	reloaded := NewCatalog(c.masterDir, c.mapPath)
	name, err = reloaded.ResolveSlug(slug)
	require.NoError(t, err)
	assert.Equal(t, "flower.pes", name)
}

func TestCreateSlug_UnknownDesign(t *testing.T) {
	c := newTestCatalog(t, "flower.pes")

	_, err := c.CreateSlug("missing.pes")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
