package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkpot-app/inkpot/internal/apperr"
	"github.com/inkpot-app/inkpot/internal/models"
	"github.com/inkpot-app/inkpot/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	if errors.Is(err, apperr.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	slog.Error(op+" failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// ListNotes handles GET /notes with optional ?q= text filter or ?tag= filter.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var notes []*models.Note
	if tag := q.Get("tag"); tag != "" {
		notes = h.svc.FilterNotesByTag(&tag)
	} else {
		notes = h.svc.FilterNotes(q.Get("q"))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": toNoteDTOs(notes),
		"total": len(notes),
	})
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.CreateNote()
	if err != nil {
		writeServiceError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteDTO(note))
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNote(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteDTO(note))
}

// UpdateNote handles PUT /notes/{id}. The service works on a clone, so a
// failed durable write never leaves a half-applied note visible to others.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}

	note, err := h.svc.GetNote(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "update note", err)
		return
	}

	if req.Title != nil {
		note.SetTitle(*req.Title)
	}
	if req.Content != nil {
		note.SetContent(*req.Content)
	}
	if req.Tags != nil {
		note.Tags = models.TagSet(*req.Tags)
	}
	if req.Pinned != nil {
		note.Pinned = *req.Pinned
	}

	if err := h.svc.UpdateNote(note); err != nil {
		writeServiceError(w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteDTO(note))
}

// DeleteNote handles DELETE /notes/{id}: soft delete into the trash.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MoveToTrash(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "trash note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TagCounts handles GET /tags.
func (h *Handler) TagCounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.TagCounts())
}

// ListTrash handles GET /trash.
func (h *Handler) ListTrash(w http.ResponseWriter, _ *http.Request) {
	entries, err := h.svc.ListTrash()
	if err != nil {
		writeServiceError(w, "list trash", err)
		return
	}
	if entries == nil {
		entries = []models.TrashEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// RestoreNote handles POST /trash/{id}/restore.
func (h *Handler) RestoreNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.RestoreFromTrash(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "restore note", err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteDTO(note))
}

// PurgeNote handles DELETE /trash/{id}: permanent deletion.
func (h *Handler) PurgeNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePermanently(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "purge note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EmptyTrash handles DELETE /trash. Partial failures do not abort the purge
// pass; they are reported alongside the count.
func (h *Handler) EmptyTrash(w http.ResponseWriter, _ *http.Request) {
	purged, err := h.svc.EmptyTrash()
	resp := EmptyTrashResponse{Purged: purged}
	if err != nil {
		resp.Errors = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListVersions handles GET /notes/{id}/versions.
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.svc.ListVersions(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "list versions", err)
		return
	}
	if versions == nil {
		versions = []models.NoteVersion{}
	}
	writeJSON(w, http.StatusOK, versions)
}

// SaveVersion handles POST /notes/{id}/versions.
func (h *Handler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	var req SaveVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	v, err := h.svc.SaveVersion(req.Comment, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "save version", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// RestoreVersion handles POST /versions/{id}/restore.
func (h *Handler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RestoreVersionByID(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "restore version", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteVersion handles DELETE /versions/{id}.
func (h *Handler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteVersion(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "delete version", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /session.
func (h *Handler) GetSession(w http.ResponseWriter, _ *http.Request) {
	resp := SessionResponse{Open: h.svc.RecentNotes()}
	if resp.Open == nil {
		resp.Open = []string{}
	}
	if id, ok := h.svc.CurrentNoteID(); ok {
		resp.Current = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// OpenNote handles POST /session/open.
func (h *Handler) OpenNote(w http.ResponseWriter, r *http.Request) {
	var req OpenNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	// Only live notes can be opened.
	if _, err := h.svc.GetNote(req.ID); err != nil {
		writeServiceError(w, "open note", err)
		return
	}
	h.svc.OpenNote(req.ID)
	h.GetSession(w, r)
}

// CloseNote handles POST /session/close.
func (h *Handler) CloseNote(w http.ResponseWriter, r *http.Request) {
	var req OpenNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	h.svc.CloseNote(req.ID)
	h.GetSession(w, r)
}

// MoveCurrent handles POST /session/move.
func (h *Handler) MoveCurrent(w http.ResponseWriter, r *http.Request) {
	var req MoveCurrentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}
	if !h.svc.MoveCurrentNote(req.Anchor) {
		writeJSON(w, http.StatusConflict, errorBody("cannot move current note"))
		return
	}
	h.GetSession(w, r)
}

// SetMaxOpen handles PUT /session/max?n=N.
func (h *Handler) SetMaxOpen(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 1 {
		writeJSON(w, http.StatusBadRequest, errorBody("n must be a positive integer"))
		return
	}
	h.svc.SetMaxOpenNotes(n)
	h.GetSession(w, r)
}
