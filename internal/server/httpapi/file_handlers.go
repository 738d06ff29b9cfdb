package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

type fileResponse struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalFileName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"fileSize"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toFileResponse(f *models.StoredFile) fileResponse {
	return fileResponse{
		ID:           f.ID,
		FileName:     f.StorageName,
		OriginalName: f.OriginalName,
		ContentType:  f.ContentType,
		Size:         f.Size,
		UploadedAt:   f.UploadedAt.UTC(),
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// bound the request body: the cap plus headroom for multipart framing,
	// so a grossly oversize upload is cut off without buffering all of it
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxFileSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeFail(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	result, err := s.files.Upload(r.Context(), userID, header.Filename, contentType, header.Size,
		io.LimitReader(file, storage.MaxFileSize))
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "file uploaded", "user_id", userID, "file_id", result.ID, "size", result.Size)
	writeOK(w, http.StatusOK, "file uploaded", toFileResponse(result))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	files, err := s.files.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	// always a list, even when the user has no files
	result := make([]fileResponse, 0, len(files))
	for _, f := range files {
		result = append(result, toFileResponse(f))
	}

	writeOK(w, http.StatusOK, "files listed", result)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, common.ErrorNotFound)
		return
	}

	if err := s.files.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "file deleted", "user_id", userID, "file_id", id)
	writeOK(w, http.StatusOK, "file deleted", nil)
}
