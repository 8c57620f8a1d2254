package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/canvas-go/internal/auth"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/render"
)

const maxDocumentSize = 8 << 20

type Handler struct {
	service       *Service
	defaultWidth  int
	defaultHeight int
}

// NewHandler creates a board handler. New boards without a size get
// width x height.
func NewHandler(service *Service, width, height int) *Handler {
	return &Handler{service: service, defaultWidth: width, defaultHeight: height}
}

// Routes registers the board endpoints on r, which is expected to run
// behind auth.AuthMiddleware.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/boards", h.List).Methods("GET")
	r.HandleFunc("/boards", h.Create).Methods("POST")
	r.HandleFunc("/boards/{boardId}", h.Get).Methods("GET")
	r.HandleFunc("/boards/{boardId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/boards/{boardId}/invite", h.Invite).Methods("POST")
	r.HandleFunc("/boards/{boardId}/members", h.ListMembers).Methods("GET")
	r.HandleFunc("/boards/{boardId}/members/{userId}", h.RemoveMember).Methods("DELETE")
	r.HandleFunc("/boards/{boardId}/document", h.GetDocument).Methods("GET")
	r.HandleFunc("/boards/{boardId}/document", h.SaveDocument).Methods("PUT")
	r.HandleFunc("/boards/{boardId}/render.{format}", h.Render).Methods("GET")
	r.HandleFunc("/boards/{boardId}/hit", h.HitTest).Methods("GET")
	r.HandleFunc("/boards/{boardId}/bounds", h.Bounds).Methods("GET")
}

type createRequest struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Sample bool   `json:"sample"`
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Width < 0 || req.Height < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "width and height must not be negative"})
		return
	}
	if req.Width == 0 {
		req.Width = h.defaultWidth
	}
	if req.Height == 0 {
		req.Height = h.defaultHeight
	}

	board, err := h.service.Create(r.Context(), CreateParams{
		Name:   req.Name,
		Width:  req.Width,
		Height: req.Height,
		Sample: req.Sample,
	}, userID)
	if err != nil {
		slog.Error("create board failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, board)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	board, err := h.service.Get(r.Context(), mux.Vars(r)["boardId"], userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	boards, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("list boards failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, boards)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), mux.Vars(r)["boardId"], userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	if err := h.service.InviteByEmail(r.Context(), mux.Vars(r)["boardId"], userID, req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "invited"})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	members, err := h.service.ListMembers(r.Context(), mux.Vars(r)["boardId"], userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	vars := mux.Vars(r)

	if err := h.service.RemoveMember(r.Context(), vars["boardId"], userID, vars["userId"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	snap, err := h.service.GetDocument(r.Context(), mux.Vars(r)["boardId"], userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
		return
	}

	snap, err := h.service.SaveDocument(r.Context(), mux.Vars(r)["boardId"], userID, data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"version": snap.Version})
}

// Render handles GET /boards/{boardId}/render.{png,webp,pdf}?scale=2.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	vars := mux.Vars(r)

	format, err := render.ParseFormat(vars["format"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	scale := 1.0
	if v := r.URL.Query().Get("scale"); v != "" {
		if scale, err = strconv.ParseFloat(v, 64); err != nil || scale <= 0 || scale > 8 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scale must be in (0, 8]"})
			return
		}
	}

	// Buffer so a failed render can still report an error status.
	var buf bytes.Buffer
	if err := h.service.Render(r.Context(), &buf, vars["boardId"], userID, format, scale); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// HitTest handles GET /boards/{boardId}/hit?x=..&y=..
func (h *Handler) HitTest(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y are required numbers"})
		return
	}

	hit, err := h.service.HitTest(r.Context(), mux.Vars(r)["boardId"], userID, x, y)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hit)
}

// Bounds handles GET /boards/{boardId}/bounds?ids=a,b
func (h *Handler) Bounds(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ids is required"})
		return
	}

	rect, err := h.service.Bounds(r.Context(), mux.Vars(r)["boardId"], userID, ids)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rect)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrNoObjects):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no matching objects"})
	case errors.Is(err, ErrInviteeNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrNotMember):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not a board member"})
	case errors.Is(err, ErrCannotRemoveOwner):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cannot remove board owner"})
	case errors.Is(err, ErrInvalidDocument), errors.Is(err, geom.ErrDomain), errors.Is(err, render.ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
