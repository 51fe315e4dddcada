package admin

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"jnbvisualizer/apperr"
	"jnbvisualizer/audit"
	"jnbvisualizer/backup"
	"jnbvisualizer/config"
	"jnbvisualizer/core"
	"jnbvisualizer/designs"
)

const recentLimit = 200

// HandleListProofs returns the most recent proof records, newest first.
func HandleListProofs(store core.ProofStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListRecent(r.Context(), recentLimit)
		if err != nil {
			logrus.WithError(err).Error("Failed to list proofs")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "failed to list proofs"})
			return
		}
		if records == nil {
			records = []*core.ProofRecord{}
		}
		render.JSON(w, r, records)
	}
}

// HandleDownload streams the generated design file for one proof.
func HandleDownload(store core.ProofStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proofID := chi.URLParam(r, "proofID")
		record, err := store.Find(r.Context(), proofID)
		if err != nil {
			render.Status(r, apperr.StatusOf(err))
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}

		if _, err := os.Stat(record.GeneratedPath); err != nil {
			logrus.WithFields(logrus.Fields{
				"proof_id": proofID,
				"path":     record.GeneratedPath,
			}).Warn("Generated file missing from disk")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "generated file missing"})
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(record.GeneratedPath))
		http.ServeFile(w, r, record.GeneratedPath)
	}
}

// HandleBackup streams a zip of the database, audit log, snapshots,
// generated files and the design map.
func HandleBackup(cfg *config.Config, catalog *designs.Catalog, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := backup.ZipName(time.Now())
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", "attachment; filename="+name)

		err := backup.WriteZip(w, backup.Bundle{
			DBPath:       cfg.DBPath,
			CSVPath:      log.CSVPath(),
			SnapshotDir:  log.BackupDir(),
			GeneratedDir: cfg.GeneratedDir,
			DesignMap:    catalog.Slugs(),
		})
		if err != nil {
			// Headers are already gone; the truncated download is all we
			// can report to the client.
			logrus.WithError(err).Error("Failed to write backup zip")
		}
	}
}

// HandleCreateLink registers a share-link slug for a design.
func HandleCreateLink(catalog *designs.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid form"})
			return
		}
		design := r.PostFormValue("design_file")
		slug, err := catalog.CreateSlug(design)
		if err != nil {
			render.Status(r, apperr.StatusOf(err))
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]string{"slug": slug, "design_file": filepath.Base(design)})
	}
}
