// Package export renders posted canvas documents without touching stored
// boards. The playground uses it to download what is on screen.
package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/canvas-go/internal/asset"
	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/render"
)

const (
	maxDocumentSize = 8 << 20
	maxScale        = 8
)

type Handler struct {
	loader *asset.Loader
}

// NewHandler creates an export handler. loader resolves image sources;
// nil leaves images empty.
func NewHandler(loader *asset.Loader) *Handler {
	return &Handler{loader: loader}
}

// Export handles POST /export/{format}?scale=1&name=drawing with a canvas
// document as the body.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		http.Error(w, "invalid format: must be png, webp, or pdf", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	scale := 1.0
	if v := q.Get("scale"); v != "" {
		scale, err = strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > maxScale {
			http.Error(w, fmt.Sprintf("scale must be in (0, %d]", maxScale), http.StatusBadRequest)
			return
		}
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		return
	}

	c := canvas.New(0, 0)
	if err := c.LoadFromJSON(data); err != nil {
		http.Error(w, "invalid document: "+err.Error(), http.StatusBadRequest)
		return
	}
	if h.loader != nil {
		if err := h.loader.Hydrate(r.Context(), c.Objects()); err != nil {
			slog.Warn("hydrate export images", "error", err)
		}
	}

	var buf bytes.Buffer
	if err := render.Export(&buf, c, format, scale); err != nil {
		slog.Error("export failed", "error", err, "format", format)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	slog.Info("export finished", "format", format, "objects", c.Size(), "bytes", buf.Len())

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, sanitize(q.Get("name")), format))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// sanitize reduces name to a safe file name.
func sanitize(name string) string {
	if name == "" {
		return "canvas"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
