// Package web serves the embedded customer widget page.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"jnbvisualizer/apperr"
	"jnbvisualizer/config"
	"jnbvisualizer/designs"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type widgetData struct {
	Designs   []string
	Selected  string
	Locked    bool
	MaxBlocks int
	Blocks    []int
}

// HandleHome serves a minimal landing page.
func HandleHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		pages.ExecuteTemplate(w, "home.html", nil)
	}
}

// HandleWidget serves the color picker widget. With lock=1 the design
// dropdown is replaced by a fixed selection.
func HandleWidget(catalog *designs.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		design := r.URL.Query().Get("design")
		locked := r.URL.Query().Get("lock") == "1"
		serveWidget(w, r, catalog, design, locked)
	}
}

// HandleWidgetSlug serves the widget locked to the design a share-link slug
// points at.
func HandleWidgetSlug(catalog *designs.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		design, err := catalog.ResolveSlug(slug)
		if err != nil {
			render.Status(r, apperr.StatusOf(err))
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}
		serveWidget(w, r, catalog, design, true)
	}
}

func serveWidget(w http.ResponseWriter, r *http.Request, catalog *designs.Catalog, design string, locked bool) {
	files := catalog.List()
	if len(files) == 0 {
		http.Error(w, "No design files found in designs/master", http.StatusNotFound)
		return
	}

	if locked {
		if design == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "locked widget requires a design"})
			return
		}
		design = filepath.Base(design)
		if _, err := catalog.Resolve(design); err != nil {
			render.Status(r, apperr.StatusOf(err))
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}
	} else if design == "" || !contains(files, design) {
		design = files[0]
	}

	blocks := make([]int, config.MaxBlocks)
	for i := range blocks {
		blocks[i] = i + 1
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pages.ExecuteTemplate(w, "widget.html", widgetData{
		Designs:   files,
		Selected:  design,
		Locked:    locked,
		MaxBlocks: config.MaxBlocks,
		Blocks:    blocks,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to render widget")
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
