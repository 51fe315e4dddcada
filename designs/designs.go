// Package designs manages the catalog of master design files and the
// share-link slug map. Master files live in a read-only directory and are
// never overwritten; slugs let a customer-facing widget be locked to one
// design without exposing the filename list.
package designs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"jnbvisualizer/apperr"
	"jnbvisualizer/format"
)

// Catalog lists and validates master design files.
type Catalog struct {
	masterDir string

	mu      sync.Mutex
	mapPath string
	slugs   map[string]string // slug -> design file name
}

// NewCatalog creates a catalog over masterDir, loading the slug map from
// mapPath if it exists.
func NewCatalog(masterDir, mapPath string) *Catalog {
	c := &Catalog{
		masterDir: masterDir,
		mapPath:   mapPath,
		slugs:     map[string]string{},
	}
	c.loadSlugs()
	return c
}

// List returns the sorted master design file names with a supported
// extension.
func (c *Catalog) List() []string {
	entries, err := os.ReadDir(c.masterDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).WithField("dir", c.masterDir).Warn("Failed to read master design directory")
		}
		return nil
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && format.Supported(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

// Resolve validates that name refers to a known master design and returns
// its full path. The name is reduced to its base first so a crafted value
// can never escape the master directory.
func (c *Catalog) Resolve(name string) (string, error) {
	name = filepath.Base(name)
	for _, f := range c.List() {
		if f == name {
			return filepath.Join(c.masterDir, name), nil
		}
	}
	return "", apperr.NewNotFound("design file not found in designs/master")
}

// ResolveSlug maps a share-link slug to its design file name.
func (c *Catalog) ResolveSlug(slug string) (string, error) {
	c.mu.Lock()
	name, ok := c.slugs[slug]
	c.mu.Unlock()
	if !ok {
		return "", apperr.NewNotFound("unknown design link")
	}
	return name, nil
}

// CreateSlug registers a new share link for a known design and persists the
// map. Returns the generated slug.
func (c *Catalog) CreateSlug(designFile string) (string, error) {
	if _, err := c.Resolve(designFile); err != nil {
		return "", err
	}
	slug := strings.ToLower(ulid.Make().String())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.slugs[slug] = filepath.Base(designFile)
	if err := c.saveSlugsLocked(); err != nil {
		delete(c.slugs, slug)
		return "", err
	}
	return slug, nil
}

// Slugs returns a copy of the slug map for backup bundling.
func (c *Catalog) Slugs() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.slugs))
	for k, v := range c.slugs {
		out[k] = v
	}
	return out
}

func (c *Catalog) loadSlugs() {
	data, err := os.ReadFile(c.mapPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).WithField("path", c.mapPath).Warn("Failed to read design map")
		}
		return
	}
	if err := json.Unmarshal(data, &c.slugs); err != nil {
		logrus.WithError(err).WithField("path", c.mapPath).Warn("Design map is not valid JSON, ignoring")
		c.slugs = map[string]string{}
	}
}

func (c *Catalog) saveSlugsLocked() error {
	data, err := json.MarshalIndent(c.slugs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.mapPath, data, 0644)
}
