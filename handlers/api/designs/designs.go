package designs

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"jnbvisualizer/apperr"
	"jnbvisualizer/designs"
	"jnbvisualizer/proofs"
)

// HandleList returns the master design file names customers may pick from.
func HandleList(catalog *designs.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files := catalog.List()
		if files == nil {
			files = []string{}
		}
		render.JSON(w, r, map[string]any{"designs": files})
	}
}

// HandleInfo returns a design's native thread colors and capped block
// count, which the widget uses to enable the right number of pickers.
func HandleInfo(svc *proofs.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		design := r.URL.Query().Get("design")
		if design == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "design is required"})
			return
		}

		info, err := svc.DesignInfo(design)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":  err,
				"design": design,
			}).Warn("Failed to read design info")
			render.Status(r, apperr.StatusOf(err))
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}
		if info.Colors == nil {
			info.Colors = []string{}
		}
		render.JSON(w, r, info)
	}
}
