package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/service"
	"go.uber.org/zap"
)

// FileHandler handles job-site photos and quote attachments
type FileHandler struct {
	fileService *service.FileService
	maxUploadMB int64
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, maxUploadMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// Upload godoc
// @Summary Upload file
// @Description Attaches a file to a job or a quote. Exactly one of jobId
// @Description and quoteId must be provided.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param jobId formData string false "Job to attach to"
// @Param quoteId formData string false "Quote to attach to"
// @Success 201 {object} domain.FileResponse
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Router /files/upload [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	jobIDStr := r.FormValue("jobId")
	quoteIDStr := r.FormValue("quoteId")
	if (jobIDStr == "") == (quoteIDStr == "") {
		respondWithError(w, http.StatusBadRequest, "Exactly one of jobId and quoteId is required")
		return
	}

	contentType := header.Header.Get("Content-Type")

	var resp interface{}
	if jobIDStr != "" {
		jobID, err := uuid.Parse(jobIDStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid jobId: must be a valid UUID")
			return
		}
		resp, err = h.fileService.UploadForJob(r.Context(), jobID, header.Filename, contentType, file)
		if err != nil {
			h.logger.Error("failed to upload file", zap.Error(err))
			respondServiceError(w, err)
			return
		}
	} else {
		quoteID, err := uuid.Parse(quoteIDStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid quoteId: must be a valid UUID")
			return
		}
		resp, err = h.fileService.UploadForQuote(r.Context(), quoteID, header.Filename, contentType, file)
		if err != nil {
			h.logger.Error("failed to upload file", zap.Error(err))
			respondServiceError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Download godoc
// @Summary Download file
// @Tags Files
// @Produce application/octet-stream
// @Param id path string true "File ID"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID: must be a valid UUID")
		return
	}

	file, reader, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer reader.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+file.Filename+"\"")
	w.Header().Set("Content-Type", contentType)

	_, _ = io.Copy(w, reader)
}

// Delete godoc
// @Summary Delete file
// @Tags Files
// @Param id path string true "File ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID: must be a valid UUID")
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete file", zap.Error(err), zap.String("file_id", id.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByJob godoc
// @Summary List job files
// @Tags Files
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {array} domain.FileResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /jobs/{id}/files [get]
func (h *FileHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid job ID: must be a valid UUID")
		return
	}

	files, err := h.fileService.ListByJob(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list job files", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// ListByQuote godoc
// @Summary List quote files
// @Tags Files
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {array} domain.FileResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /quotes/{id}/files [get]
func (h *FileHandler) ListByQuote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	files, err := h.fileService.ListByQuote(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list quote files", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, files)
}
