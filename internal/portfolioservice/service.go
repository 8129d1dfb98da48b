// Package portfolioservice coordinates the content store and the edit
// session controller for the REST, MCP, CLI and watcher front ends.
package portfolioservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/bundle"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/session"
	"github.com/starford/folio/internal/sse"
)

// Import sources, used as a metrics label.
const (
	SourceAPI   = "api"
	SourceWatch = "watch"
	SourceCLI   = "cli"
)

// Publisher receives per-key change events. kind is one of sse.ContentUpdated,
// sse.ContentRemoved or sse.ContentImported. *sse.Broker implements it.
type Publisher interface {
	PublishContentEvent(kind, key string)
}

type nopPublisher struct{}

func (nopPublisher) PublishContentEvent(string, string) {}

// State is the full read model served to pages.
type State struct {
	Content   models.Content    `json:"content"`
	View      View              `json:"view"`
	Overrides map[string]string `json:"overrides"`
	Theme     string            `json:"theme"`
	Session   session.Status    `json:"session"`
}

// Service coordinates store reads, session-gated mutations and events.
type Service struct {
	store  *content.Store
	ctl    *session.Controller
	events Publisher
}

// NewService creates a new portfolio service. events may be nil.
func NewService(store *content.Store, ctl *session.Controller, events Publisher) *Service {
	if events == nil {
		events = nopPublisher{}
	}
	return &Service{store: store, ctl: ctl, events: events}
}

// State returns the content, overrides, theme and session status.
func (s *Service) State(_ context.Context) State {
	c := s.store.Content()
	return State{
		Content:   c,
		View:      buildView(s.store, c),
		Overrides: s.store.Overrides(),
		Theme:     s.store.Theme(),
		Session:   s.ctl.Status(),
	}
}

// Records returns one repository by name.
func (s *Service) Records(_ context.Context, repo string) (any, error) {
	return s.store.Records(repo)
}

// Override returns one loose override value.
func (s *Service) Override(_ context.Context, kind models.OverrideKind, key string) (string, error) {
	v, ok, err := s.store.Override(kind, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.ErrNotFound
	}
	return v, nil
}

// Overrides returns every loose override.
func (s *Service) Overrides(_ context.Context) map[string]string {
	return s.store.Overrides()
}

// Theme returns the stored UI theme.
func (s *Service) Theme(_ context.Context) string {
	return s.store.Theme()
}

// SetTheme changes the UI theme. It is allowed outside a session.
func (s *Service) SetTheme(_ context.Context, theme string) error {
	return s.store.SetTheme(theme)
}

// Mutate runs fn inside the active session and publishes an update event
// for key when fn succeeds or only fails to persist.
func (s *Service) Mutate(_ context.Context, key string, fn func(*content.Store) (any, error)) (any, error) {
	var out any
	err := s.ctl.Edit(func(st *content.Store) error {
		var err error
		out, err = fn(st)
		return err
	})
	if err == nil || apperr.IsWarning(err) {
		s.events.PublishContentEvent(sse.ContentUpdated, key)
	}
	return out, err
}

// MutateRepository is Mutate addressed by repository name.
func (s *Service) MutateRepository(ctx context.Context, repo string, fn func(*content.Store) (any, error)) (any, error) {
	key, err := s.store.RepositoryKey(repo)
	if err != nil {
		return nil, err
	}
	return s.Mutate(ctx, key, fn)
}

// AddRecord appends a record, or the placeholder when raw is empty.
func (s *Service) AddRecord(ctx context.Context, repo string, raw []byte) (any, error) {
	return s.MutateRepository(ctx, repo, func(st *content.Store) (any, error) {
		return st.AddRecord(repo, raw)
	})
}

// RemoveRecord deletes the record at index i.
func (s *Service) RemoveRecord(ctx context.Context, repo string, i int) (any, error) {
	return s.MutateRepository(ctx, repo, func(st *content.Store) (any, error) {
		return st.RemoveRecord(repo, i)
	})
}

// UpdateRecordField sets one field of the record at index i.
func (s *Service) UpdateRecordField(ctx context.Context, repo string, i int, field, value string) (any, error) {
	return s.MutateRepository(ctx, repo, func(st *content.Store) (any, error) {
		return st.UpdateRecordField(repo, i, field, value)
	})
}

// SetOverride writes a loose override inside the active session.
func (s *Service) SetOverride(ctx context.Context, kind models.OverrideKind, key, value string) (string, error) {
	storeKey, err := kind.Key(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrInvalidField, err)
	}
	out, err := s.Mutate(ctx, storeKey, func(st *content.Store) (any, error) {
		return st.SetOverride(kind, key, value)
	})
	v, _ := out.(string)
	return v, err
}

// RemoveOverride deletes a loose override inside the active session.
func (s *Service) RemoveOverride(_ context.Context, kind models.OverrideKind, key string) error {
	storeKey, err := kind.Key(key)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidField, err)
	}
	err = s.ctl.Edit(func(st *content.Store) error {
		return st.RemoveOverride(kind, key)
	})
	if err == nil {
		s.events.PublishContentEvent(sse.ContentRemoved, storeKey)
	}
	return err
}

// Export encodes the current state as a bundle.
func (s *Service) Export(_ context.Context, format bundle.Format) ([]byte, error) {
	b, err := s.store.Export()
	if err != nil {
		return nil, err
	}
	return bundle.Encode(b, format)
}

// Import decodes data and overwrites the store with it. Imports from the
// API require an active session so they can be cancelled; file drops and
// the CLI act on the owner's behalf and run in any state.
func (s *Service) Import(_ context.Context, data []byte, source string) (*bundle.Bundle, error) {
	b, err := bundle.Decode(data)
	if err != nil {
		metrics.Imports.WithLabelValues(source, "invalid").Inc()
		return nil, err
	}
	apply := func(st *content.Store) error { return st.Import(b) }
	if source == SourceAPI {
		err = s.ctl.Edit(apply)
	} else {
		err = s.ctl.Exclusive(apply)
	}
	switch {
	case err == nil:
		metrics.Imports.WithLabelValues(source, "ok").Inc()
		s.events.PublishContentEvent(sse.ContentImported, source)
	case errors.Is(err, apperr.ErrNotEditing):
		metrics.Imports.WithLabelValues(source, "rejected").Inc()
	default:
		metrics.Imports.WithLabelValues(source, "error").Inc()
		slog.Warn("import: incomplete", slog.String("source", source), slog.String("error", err.Error()))
	}
	return b, err
}

// Session returns the current session status.
func (s *Service) Session(_ context.Context) session.Status {
	return s.ctl.Status()
}

// StartSession opens an edit session.
func (s *Service) StartSession(_ context.Context) (session.Status, error) {
	return s.ctl.Start()
}

// FinishSession keeps the session's changes.
func (s *Service) FinishSession(_ context.Context) (session.Status, error) {
	return s.ctl.Finish()
}

// CancelSession reverts the session's changes.
func (s *Service) CancelSession(_ context.Context) (session.Status, error) {
	return s.ctl.Cancel()
}

// FactoryReset restores the built-in dataset.
func (s *Service) FactoryReset(_ context.Context) (session.Status, error) {
	return s.ctl.FactoryReset()
}

// Trigger evaluates a contact form submission.
func (s *Service) Trigger(_ context.Context, f session.Form) (bool, session.Status, error) {
	return s.ctl.Trigger(f)
}
