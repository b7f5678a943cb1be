package handler

import (
	"log/slog"
	"net/http"

	"docshare/internal/domain/models"
	"docshare/internal/httputil"
	"docshare/internal/service"
	"docshare/internal/uploads"
)

// multipartMemoryLimit caps the in-memory portion of a multipart parse;
// larger parts spill to temp files.
const multipartMemoryLimit = 32 << 20

// FileHandler serves the file CRUD and upload endpoints.
type FileHandler struct {
	fileService *service.FileService
	uploads     *uploads.Policy
	logger      *slog.Logger
}

func NewFileHandler(fileService *service.FileService, uploadPolicy *uploads.Policy, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		uploads:     uploadPolicy,
		logger:      logger.With("handler", "files"),
	}
}

// List handles GET /api/files.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)
	opts.FileType = r.URL.Query().Get("fileType")

	page, err := h.fileService.List(r.Context(), opts, httputil.CallerIdentity(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, page)
}

// Upload handles POST /api/files. The request is multipart form data
// with the content under the "file" field and metadata alongside.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	// Cap the whole request body; the slack on top of the per-file limit
	// covers the metadata fields and multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxSizeBytes+(1<<20))

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid upload request")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("failed to clean up multipart temp files", "error", err)
		}
	}()

	content, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer content.Close()

	req := &service.UploadFileRequest{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Tags:        httputil.SplitCommaList(r.FormValue("tags")),
		Visibility:  models.Visibility(r.FormValue("visibility")),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     content,
	}
	if courseID := r.FormValue("courseId"); courseID != "" {
		req.CourseID = &courseID
	}

	file, err := h.fileService.Upload(r.Context(), req, user.Identity())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusCreated, file)
}

// Get handles GET /api/files/{id}.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	file, err := h.fileService.Get(r.Context(), r.PathValue("id"), httputil.CallerIdentity(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, file)
}

// Update handles PUT /api/files/{id}.
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var patch service.UpdateFileRequest
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		handleError(w, h.logger, err)
		return
	}

	file, err := h.fileService.Update(r.Context(), r.PathValue("id"), &patch, user.Identity())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondData(w, http.StatusOK, file)
}

// Delete handles DELETE /api/files/{id}.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.fileService.Delete(r.Context(), r.PathValue("id"), user.Identity()); err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondMessage(w, http.StatusOK, "File deleted successfully")
}

// listOptionsFromQuery reads the pagination and filter parameters shared
// by the file and course list endpoints.
func listOptionsFromQuery(r *http.Request) models.ListOptions {
	return models.ListOptions{
		Search: r.URL.Query().Get("search"),
		Tags:   httputil.QueryTags(r, "tags"),
		Page:   httputil.QueryInt(r, "page", models.DefaultPage),
		Limit:  httputil.QueryInt(r, "limit", models.DefaultPageLimit),
	}
}
