package handler

import (
	"log/slog"
	"net/http"

	"docshare/internal/httputil"
	"docshare/internal/service"
)

// CourseHandler serves the course CRUD and enrollment endpoints.
type CourseHandler struct {
	courseService *service.CourseService
	logger        *slog.Logger
}

func NewCourseHandler(courseService *service.CourseService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		logger:        logger.With("handler", "courses"),
	}
}

// List handles GET /api/courses.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)
	opts.Category = r.URL.Query().Get("category")

	page, err := h.courseService.List(r.Context(), opts, httputil.CallerIdentity(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, page)
}

// Create handles POST /api/courses.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req service.CreateCourseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	course, err := h.courseService.Create(r.Context(), &req, user.Identity())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusCreated, course)
}

// Get handles GET /api/courses/{id}.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.Get(r.Context(), r.PathValue("id"), httputil.CallerIdentity(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, course)
}

// Update handles PUT /api/courses/{id}.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var patch service.UpdateCourseRequest
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		handleError(w, h.logger, err)
		return
	}

	course, err := h.courseService.Update(r.Context(), r.PathValue("id"), &patch, user.Identity())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, course)
}

// Delete handles DELETE /api/courses/{id}. Files attached to the course
// are removed in the same transaction as the course row.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.courseService.Delete(r.Context(), r.PathValue("id"), user.Identity()); err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondMessage(w, http.StatusOK, "Course deleted successfully")
}

// Enroll handles POST /api/courses/{id}/enroll.
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	course, err := h.courseService.Enroll(r.Context(), r.PathValue("id"), user.Identity())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, course)
}

// UpdateProgress handles PUT /api/courses/{id}/progress.
func (h *CourseHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		Progress int `json:"progress"`
	}
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, h.logger, err)
		return
	}

	course, err := h.courseService.UpdateProgress(r.Context(), r.PathValue("id"), user.Identity(), body.Progress)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, course)
}
