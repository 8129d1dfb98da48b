package api

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/media"
	"github.com/starford/folio/internal/models"
)

// maxUploadBytes bounds the upload before compression.
const maxUploadBytes = 4 << 20

// Upload handles POST /api/overrides/{kind}/{key}/upload (multipart/form-data,
// field "file"). The file is stored inline as a data URI under an img_ or
// media_ override, the same way the page embeds picked images. Still images
// are compressed first; GIFs and videos are kept as sent.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	kind, key := overrideParams(r)
	if kind != models.OverrideImage && kind != models.OverrideMedia {
		writeJSON(w, http.StatusBadRequest, errorBody("uploads are accepted for img and media overrides only"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}
	if len(data) > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("file too large"))
		return
	}

	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") && !strings.HasPrefix(mime, "video/") {
		writeJSON(w, http.StatusUnsupportedMediaType, errorBody("unsupported media type "+mime))
		return
	}

	v, err := h.storeUpload(r, kind, key, mime, data)
	storeKey, _ := kind.Key(key)
	writeResult(w, "upload", OverrideResponse{Key: storeKey, Value: v}, err)
}

// storeUpload saves the upload as a data URI. Still images are re-encoded
// as JPEG at the standard preset, and once more at the reduced preset when
// that does not fit the quota. Images that cannot be decoded are stored as
// sent.
func (h *Handler) storeUpload(r *http.Request, kind models.OverrideKind, key, mime string, data []byte) (string, error) {
	if !media.Compressible(mime) {
		return h.svc.SetOverride(r.Context(), kind, key, media.DataURI(mime, data))
	}
	small, err := media.Compress(data, media.Standard)
	if err != nil {
		slog.Warn("upload: compression failed, storing original",
			slog.String("key", key), slog.String("error", err.Error()))
		return h.svc.SetOverride(r.Context(), kind, key, media.DataURI(mime, data))
	}
	v, err := h.svc.SetOverride(r.Context(), kind, key, media.DataURI("image/jpeg", small))
	if !apperr.IsWarning(err) {
		return v, err
	}
	smaller, cerr := media.Compress(data, media.Reduced)
	if cerr != nil {
		return v, err
	}
	slog.Info("upload: retrying at reduced quality", slog.String("key", key))
	return h.svc.SetOverride(r.Context(), kind, key, media.DataURI("image/jpeg", smaller))
}
