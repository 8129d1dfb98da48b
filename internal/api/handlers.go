package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/bundle"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolioservice"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *portfolioservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *portfolioservice.Service) *Handler {
	return &Handler{svc: svc}
}

// typed erases a typed mutation result for the service layer.
func typed[T any](v T, err error) (any, error) { return v, err }

// intParam parses a non-negative path index.
func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s %q: %w", name, raw, apperr.ErrInvalidValue)
	}
	return n, nil
}

// intParams parses several path indices in order.
func intParams(r *http.Request, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		n, err := intParam(r, name)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// State handles GET /api/content.
//
//	@Summary		Get all content, overrides, theme and session state
//	@Tags			content
//	@Produce		json
//	@Success		200	{object}	StateResponse
//	@Security		BearerAuth
//	@Router			/content [get]
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.State(r.Context()))
}

// Export handles GET /api/export.
//
//	@Summary		Download a bundle of all content and overrides
//	@Tags			bundle
//	@Produce		json
//	@Param			format	query	string	false	"Bundle encoding"	Enums(json, yaml)
//	@Success		200
//	@Security		BearerAuth
//	@Router			/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := bundle.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	data, err := h.svc.Export(r.Context(), format)
	if err != nil {
		writeError(w, "export", err)
		return
	}
	contentType := "application/json; charset=utf-8"
	if format == bundle.FormatYAML {
		contentType = "application/yaml; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", `"`+checksum.Sum(data)+`"`)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="portfolio.%s"`, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /api/import.
//
//	@Summary		Replace all content with a bundle
//	@Tags			bundle
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	MutationResponse
//	@Failure		400	{object}	errResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	b, err := h.svc.Import(r.Context(), data, portfolioservice.SourceAPI)
	if err != nil {
		writeError(w, "import", err)
		return
	}
	c := b.Content
	writeResult(w, "import", ImportResponse{
		Version: b.Version,
		Records: len(c.Skills) + len(c.Projects) + len(c.Experiences) +
			len(c.Certificates) + len(c.ArtCategories) + len(c.ContactButtons),
		Overrides: len(b.Overrides),
	}, nil)
}

// ListRecords handles GET /api/{repo}.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Records(r.Context(), chi.URLParam(r, "repo"))
	if err != nil {
		writeError(w, "list records", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// AddRecord handles POST /api/{repo}. An empty body appends the placeholder
// record the page's "add" button creates.
//
//	@Summary		Append a record
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			repo	path		string	true	"Repository"	Enums(skills, projects, experiences, certificates, art, contacts)
//	@Success		200		{object}	MutationResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/{repo} [post]
func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if strings.TrimSpace(string(raw)) == "" {
		raw = nil
	}
	data, err := h.svc.AddRecord(r.Context(), chi.URLParam(r, "repo"), raw)
	writeResult(w, "add record", data, err)
}

// RemoveRecord handles DELETE /api/{repo}/{index}.
func (h *Handler) RemoveRecord(w http.ResponseWriter, r *http.Request) {
	i, err := intParam(r, "index")
	if err != nil {
		writeError(w, "remove record", err)
		return
	}
	data, err := h.svc.RemoveRecord(r.Context(), chi.URLParam(r, "repo"), i)
	writeResult(w, "remove record", data, err)
}

// UpdateRecord handles PATCH /api/{repo}/{index}.
//
//	@Summary		Set one field of a record
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			repo	path		string				true	"Repository"
//	@Param			index	path		int					true	"Record position"
//	@Param			body	body		UpdateFieldRequest	true	"Field and value"
//	@Success		200		{object}	MutationResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/{repo}/{index} [patch]
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	i, err := intParam(r, "index")
	if err != nil {
		writeError(w, "update record", err)
		return
	}
	var req UpdateFieldRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Field == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("field is required"))
		return
	}
	data, err := h.svc.UpdateRecordField(r.Context(), chi.URLParam(r, "repo"), i, req.Field, req.Value)
	writeResult(w, "update record", data, err)
}

// Skills

func (h *Handler) AddSkill(w http.ResponseWriter, r *http.Request) {
	cat, err := intParam(r, "cat")
	if err != nil {
		writeError(w, "add skill", err)
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.Skills, func(st *content.Store) (any, error) {
		return typed(st.AddSkill(cat))
	})
	writeResult(w, "add skill", data, err)
}

func (h *Handler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	idx, err := intParams(r, "cat", "i")
	if err != nil {
		writeError(w, "update skill", err)
		return
	}
	var req ValueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.Skills, func(st *content.Store) (any, error) {
		return typed(st.UpdateSkill(idx[0], idx[1], req.Value))
	})
	writeResult(w, "update skill", data, err)
}

func (h *Handler) RemoveSkill(w http.ResponseWriter, r *http.Request) {
	idx, err := intParams(r, "cat", "i")
	if err != nil {
		writeError(w, "remove skill", err)
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.Skills, func(st *content.Store) (any, error) {
		return typed(st.RemoveSkill(idx[0], idx[1]))
	})
	writeResult(w, "remove skill", data, err)
}

// Projects

func (h *Handler) AddScreenshot(w http.ResponseWriter, r *http.Request) {
	p, err := intParam(r, "i")
	if err != nil {
		writeError(w, "add screenshot", err)
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.Projects, func(st *content.Store) (any, error) {
		return typed(st.AddScreenshot(p))
	})
	writeResult(w, "add screenshot", data, err)
}

func (h *Handler) RemoveScreenshot(w http.ResponseWriter, r *http.Request) {
	idx, err := intParams(r, "i", "s")
	if err != nil {
		writeError(w, "remove screenshot", err)
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.Projects, func(st *content.Store) (any, error) {
		return typed(st.RemoveScreenshot(idx[0], idx[1]))
	})
	writeResult(w, "remove screenshot", data, err)
}

// UpdateProjectMedia handles PUT /api/projects/{i}/media.
//
//	@Summary		Replace a project's main image or one screenshot
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			i		path		int					true	"Project position"
//	@Param			body	body		ProjectMediaRequest	true	"Slot, URL and screenshot position"
//	@Success		200		{object}	MutationResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects/{i}/media [put]
func (h *Handler) UpdateProjectMedia(w http.ResponseWriter, r *http.Request) {
	p, err := intParam(r, "i")
	if err != nil {
		writeError(w, "update project media", err)
		return
	}
	var req ProjectMediaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.Projects, func(st *content.Store) (any, error) {
		return typed(st.UpdateProjectMedia(p, content.MediaSlot(req.Slot), req.URL, req.Index))
	})
	writeResult(w, "update project media", data, err)
}

// Art

func (h *Handler) AddArtItem(w http.ResponseWriter, r *http.Request) {
	cat, err := intParam(r, "cat")
	if err != nil {
		writeError(w, "add art item", err)
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.ArtCategories, func(st *content.Store) (any, error) {
		return typed(st.AddArtItem(cat))
	})
	writeResult(w, "add art item", data, err)
}

func (h *Handler) RemoveArtItem(w http.ResponseWriter, r *http.Request) {
	idx, err := intParams(r, "cat", "i")
	if err != nil {
		writeError(w, "remove art item", err)
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.ArtCategories, func(st *content.Store) (any, error) {
		return typed(st.RemoveArtItem(idx[0], idx[1]))
	})
	writeResult(w, "remove art item", data, err)
}

func (h *Handler) UpdateArtItemURL(w http.ResponseWriter, r *http.Request) {
	idx, err := intParams(r, "cat", "i")
	if err != nil {
		writeError(w, "update art item", err)
		return
	}
	var req ValueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.ArtCategories, func(st *content.Store) (any, error) {
		return typed(st.UpdateArtItemURL(idx[0], idx[1], req.Value))
	})
	writeResult(w, "update art item", data, err)
}

func (h *Handler) AddGalleryImage(w http.ResponseWriter, r *http.Request) {
	idx, err := intParams(r, "cat", "i")
	if err != nil {
		writeError(w, "add gallery image", err)
		return
	}
	var req ValueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.ArtCategories, func(st *content.Store) (any, error) {
		return typed(st.AddGalleryImage(idx[0], idx[1], req.Value))
	})
	writeResult(w, "add gallery image", data, err)
}

func (h *Handler) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	idx, err := intParams(r, "cat", "i", "g")
	if err != nil {
		writeError(w, "update gallery image", err)
		return
	}
	var req ValueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.ArtCategories, func(st *content.Store) (any, error) {
		return typed(st.UpdateGalleryImage(idx[0], idx[1], idx[2], req.Value))
	})
	writeResult(w, "update gallery image", data, err)
}

func (h *Handler) RemoveGalleryImage(w http.ResponseWriter, r *http.Request) {
	idx, err := intParams(r, "cat", "i", "g")
	if err != nil {
		writeError(w, "remove gallery image", err)
		return
	}
	data, err := h.svc.MutateRepository(r.Context(), content.ArtCategories, func(st *content.Store) (any, error) {
		return typed(st.RemoveGalleryImage(idx[0], idx[1], idx[2]))
	})
	writeResult(w, "remove gallery image", data, err)
}

// Overrides

func overrideParams(r *http.Request) (models.OverrideKind, string) {
	return models.OverrideKind(chi.URLParam(r, "kind")), chi.URLParam(r, "key")
}

// ListOverrides handles GET /api/overrides.
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Overrides(r.Context()))
}

// GetOverride handles GET /api/overrides/{kind}/{key}.
func (h *Handler) GetOverride(w http.ResponseWriter, r *http.Request) {
	kind, key := overrideParams(r)
	v, err := h.svc.Override(r.Context(), kind, key)
	if err != nil {
		writeError(w, "get override", err)
		return
	}
	storeKey, _ := kind.Key(key)
	writeJSON(w, http.StatusOK, OverrideResponse{Key: storeKey, Value: v})
}

// SetOverride handles PUT /api/overrides/{kind}/{key}.
//
//	@Summary		Set a text, image or media override
//	@Tags			overrides
//	@Accept			json
//	@Produce		json
//	@Param			kind	path		string			true	"Override kind"	Enums(text, img, media)
//	@Param			key		path		string			true	"Semantic key"
//	@Param			body	body		ValueRequest	true	"New value"
//	@Success		200		{object}	MutationResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/overrides/{kind}/{key} [put]
func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	kind, key := overrideParams(r)
	var req ValueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := h.svc.SetOverride(r.Context(), kind, key, req.Value)
	storeKey, _ := kind.Key(key)
	writeResult(w, "set override", OverrideResponse{Key: storeKey, Value: v}, err)
}

// RemoveOverride handles DELETE /api/overrides/{kind}/{key}.
func (h *Handler) RemoveOverride(w http.ResponseWriter, r *http.Request) {
	kind, key := overrideParams(r)
	if err := h.svc.RemoveOverride(r.Context(), kind, key); err != nil {
		writeError(w, "remove override", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Theme

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ThemeRequest{Theme: h.svc.Theme(r.Context())})
}

// SetTheme handles PUT /api/theme. The theme is not part of an edit session.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.SetTheme(r.Context(), req.Theme); err != nil {
		writeError(w, "set theme", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// Session

func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Session(r.Context()))
}

// StartSession handles POST /api/session/start.
//
//	@Summary		Open an edit session
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	MutationResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/start [post]
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.StartSession(r.Context())
	writeResult(w, "start session", st, err)
}

func (h *Handler) FinishSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.FinishSession(r.Context())
	writeResult(w, "finish session", st, err)
}

// CancelSession handles POST /api/session/cancel. A missing snapshot or a
// restore cut short by the quota still ends the session and is reported as
// a warning.
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.CancelSession(r.Context())
	if isSnapshotLoss(err) {
		slog.Warn("cancel: nothing restored", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, MutationResponse{Data: st, Warning: "no snapshot for this session, nothing was restored"})
		return
	}
	if apperr.IsWarning(err) {
		writeJSON(w, http.StatusOK, MutationResponse{Data: st, Warning: "session ended but not every value could be restored: " + err.Error()})
		return
	}
	writeResult(w, "cancel session", st, err)
}

func isSnapshotLoss(err error) bool {
	return errors.Is(err, apperr.ErrSnapshotMissing) || errors.Is(err, apperr.ErrMalformedData)
}

func (h *Handler) FactoryReset(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.FactoryReset(r.Context())
	writeResult(w, "factory reset", st, err)
}

// Trigger handles POST /api/session/trigger with the contact form fields.
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req TriggerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	matched, st, err := h.svc.Trigger(r.Context(), req)
	if err != nil && !apperr.IsWarning(err) {
		writeError(w, "trigger", err)
		return
	}
	writeJSON(w, http.StatusOK, TriggerResponse{Matched: matched, Session: st})
}
