package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/canvas-go/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

// acceptedTypes are the upload content types Decode can read.
var acceptedTypes = []string{
	"image/png", "image/jpeg", "image/webp", "image/bmp",
	"image/x-tga", "image/x-targa", "image/tga", "application/octet-stream",
}

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Source string `json:"sourceFormat"`
	Name   string `json:"name"`
}

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	dir    string // directory to store asset files
	maxDim int
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string, maxDim int) *Handler {
	// Ensure directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir, maxDim: maxDim}
}

func accepted(contentType string) bool {
	for _, t := range acceptedTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

// Upload handles POST /assets/upload (multipart form with "file" field).
// Every accepted format is stored as PNG, downscaled to the size limit.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !accepted(header.Header.Get("Content-Type")) {
		http.Error(w, "only PNG, JPEG, WebP, BMP and TGA images are supported", http.StatusBadRequest)
		return
	}

	img, format, err := Decode(file, h.maxDim)
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	assetID := typeid.NewAssetID()
	filename := assetID + ".png"
	filePath := filepath.Join(h.dir, filename)

	out, err := os.Create(filePath)
	if err != nil {
		slog.Error("create asset file", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		slog.Error("encode png", "error", err)
		os.Remove(filePath)
		http.Error(w, "failed to encode image", http.StatusInternalServerError)
		return
	}

	bounds := img.Bounds()
	resp := UploadResponse{
		ID:     assetID,
		URL:    fmt.Sprintf("/assets/%s", filename),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Source: format,
		Name:   header.Filename,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Routes registers upload and file serving on public, and deletion as
// DELETE {protected prefix}/assets/{id} on protected, which must carry the
// auth middleware.
func (h *Handler) Routes(public, protected *mux.Router) {
	public.HandleFunc("/assets/upload", h.Upload).Methods(http.MethodPost, http.MethodOptions)
	public.PathPrefix("/assets/").Handler(h.Serve()).Methods(http.MethodGet)
	protected.HandleFunc("/assets/{id}", h.Remove).Methods(http.MethodDelete)
}

// Remove handles DELETE /api/assets/{id}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := typeid.Validate(id, typeid.PrefixAsset); err != nil {
		http.Error(w, "invalid asset id", http.StatusBadRequest)
		return
	}
	if err := h.Delete(id); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			http.Error(w, "asset not found", http.StatusNotFound)
			return
		}
		slog.Error("delete asset", "error", err, "id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an asset file from disk.
func (h *Handler) Delete(assetID string) error {
	err := os.Remove(filepath.Join(h.dir, assetID+".png"))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("asset %s: %w", assetID, ErrAssetNotFound)
	}
	return err
}
