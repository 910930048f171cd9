package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/muhub/projecthub/internal/apperror"
	"github.com/muhub/projecthub/internal/auth"
	"github.com/muhub/projecthub/internal/service"
)

// ProjectHandler manages CRUD operations for project ideas.
//
// WHY A SEPARATE HANDLER?
// Separating project logic from auth logic keeps each handler struct owning
// one area of functionality: all project routes land here, all session
// routes land in AuthHandler. Ownership and role checks live in the
// ProjectService — this layer only translates HTTP.
type ProjectHandler struct {
	svc    *service.ProjectService
	logger *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, logger: logger}
}

type projectRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Tags    string `json:"tags"`
}

type assignMentorRequest struct {
	MentorID string `json:"mentorId"`
}

// HandleList returns project ideas, newest first.
//
// HTTP: GET /api/projects?limit=20&offset=0
//
// Browsing is open to everyone — the catalog is the front page of the
// matching flow. Bad limit/offset values are treated as absent rather than
// rejected; the service clamps them anyway.
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	projects, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// HandleGet returns one project.
//
// HTTP: GET /api/projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	project, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

// HandleCreate submits a new project idea. The authenticated caller
// becomes the owner.
//
// HTTP: POST /api/projects
// REQUEST BODY: {"title": "...", "summary": "...", "tags": "cv,ml"}
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	project, err := h.svc.Create(r.Context(), identity, req.Title, req.Summary, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"project": project})
}

// HandleUpdate edits a project. The service enforces that only the owner
// or an admin may edit; empty fields are left unchanged.
//
// HTTP: PUT /api/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	project, err := h.svc.Update(r.Context(), identity, chi.URLParam(r, "id"), req.Title, req.Summary, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

// HandleDelete removes a project.
//
// HTTP: DELETE /api/projects/{id}
// Success: 204 No Content — successful deletion, no body.
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	if err := h.svc.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAssignMentor attaches a mentor to a project and marks it matched.
//
// HTTP: POST /api/projects/{id}/mentor
// REQUEST BODY: {"mentorId": "..."} — optional; a mentor omitting it
// assigns themselves.
func (h *ProjectHandler) HandleAssignMentor(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	// The body is optional — an empty body means self-assign.
	var req assignMentorRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	project, err := h.svc.AssignMentor(r.Context(), identity, chi.URLParam(r, "id"), req.MentorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}
