package ingest

import (
	"context"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	errors "github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/transport"
)

// multipartOverhead leaves room for the form envelope around the file itself.
const multipartOverhead = 1 << 20

type ServiceAPI interface {
	Ingest(ctx context.Context, upload Upload) (*Result, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	maxBytes int64
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = errors.DefaultUploadMaxBytes
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		maxBytes:    maxBytes,
	}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.WriteAppError(w, errors.ErrFileTooLarge)
			return
		}
		h.Logger.Warn("Upload: invalid multipart form", "error", err)
		h.WriteAppError(w, errors.ErrMissingFile)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteAppError(w, errors.ErrMissingFile)
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		h.WriteAppError(w, errors.ErrFileTooLarge)
		return
	}
	if !isCSV(header.Filename, header.Header.Get("Content-Type")) {
		h.WriteAppError(w, errors.ErrNotCSV)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleServiceError(w, errors.NewInternalError("failed to read upload", err))
		return
	}

	result, err := h.Service.Ingest(r.Context(), Upload{FileName: header.Filename, Data: data})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func isCSV(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/csv"
}
