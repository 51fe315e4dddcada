package proofs

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"jnbvisualizer/apperr"
	"jnbvisualizer/core"
	"jnbvisualizer/proofs"
)

// HandlePreview renders the proof PNG for ?design=&bg=&colors=.
func HandlePreview(svc *proofs.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		design := q.Get("design")
		bg := q.Get("bg")

		if _, err := core.HexToRGBInt(bg); err != nil {
			writeError(w, r, err)
			return
		}
		colors, err := core.ParseColorList(q.Get("colors"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		png, err := svc.Preview(design, bg, colors)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":  err,
				"design": design,
			}).Warn("Failed to render preview")
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	}
}

// HandleSave persists a proof from the widget's form post and returns its
// identifier.
func HandleSave(svc *proofs.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			if err := r.ParseForm(); err != nil {
				writeError(w, r, apperr.NewInvalidInput("invalid form"))
				return
			}
		}

		record, err := svc.Save(r.Context(),
			r.PostFormValue("design_file"),
			r.PostFormValue("client_tag"),
			r.PostFormValue("bg_hex"),
			r.PostFormValue("colors_csv"),
		)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":       err,
				"design_file": r.PostFormValue("design_file"),
			}).Warn("Failed to save proof")
			writeError(w, r, err)
			return
		}

		render.JSON(w, r, map[string]string{"proof_id": record.ProofID})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, apperr.StatusOf(err))
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
