// Package content implements the ContentStore: the six portfolio
// repositories and the loose override keys, backed by a kvs.Store.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/bundle"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/models"
)

// Repository names used by the HTTP and MCP layers.
const (
	Skills         = "skills"
	Projects       = "projects"
	Experiences    = "experiences"
	Certificates   = "certificates"
	ArtCategories  = "art"
	ContactButtons = "contacts"
)

// Names lists the repository names in display order.
var Names = []string{Skills, Projects, Experiences, Certificates, ArtCategories, ContactButtons}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides time.Now, which seeds generated identifiers.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTextSanitizer filters every text override before it is stored.
func WithTextSanitizer(fn func(string) string) Option {
	return func(s *Store) { s.sanitize = fn }
}

// Store owns the in-memory view of all portfolio content. It must be
// initialized with Init before use; Reload re-reads everything from the
// key-value store.
type Store struct {
	kv       kvs.Store
	logger   *slog.Logger
	now      func() time.Time
	sanitize func(string) string

	mu     sync.RWMutex
	ready  bool
	loose  map[string]string
	skills *Repository[models.SkillCategory]
	projs  *Repository[models.Project]
	exps   *Repository[models.Experience]
	certs  *Repository[models.Certificate]
	art    *Repository[models.ArtCategory]
	btns   *Repository[models.ContactButton]
}

// New creates a Store over kv. Call Init before use.
func New(kv kvs.Store, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	clock := func() time.Time { return s.now() }

	s.skills = newRepository(Skills, models.SkillsKey, "skill", defaultSkills, newSkillCategory, kv, clock, s.logger)
	s.projs = newRepository(Projects, models.ProjectsKey, "proj", defaultProjects, newProject, kv, clock, s.logger)
	s.exps = newRepository(Experiences, models.ExperiencesKey, "exp", defaultExperiences, newExperience, kv, clock, s.logger)
	s.certs = newRepository(Certificates, models.CertificatesKey, "cert", defaultCertificates, newCertificate, kv, clock, s.logger)
	s.art = newRepository(ArtCategories, models.ArtCategoriesKey, "cat", defaultArtCategories, newArtCategory, kv, clock, s.logger)
	s.art.normalize = models.NormalizeArt
	s.btns = newRepository(ContactButtons, models.ContactButtonsKey, "contact", defaultContactButtons, newContactButton, kv, clock, s.logger)
	return s
}

// KV returns the backing store.
func (s *Store) KV() kvs.Store { return s.kv }

// Init loads every repository and the override cache. Malformed persisted
// data falls back to defaults and is only logged; the returned error
// reports store access failures.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.init()
}

func (s *Store) init() error {
	var errs []error
	for _, load := range []func() error{
		func() error { _, err := s.skills.Load(); return err },
		func() error { _, err := s.projs.Load(); return err },
		func() error { _, err := s.exps.Load(); return err },
		func() error { _, err := s.certs.Load(); return err },
		s.loadArt,
		func() error { _, err := s.btns.Load(); return err },
	} {
		if err := load(); err != nil && !errors.Is(err, apperr.ErrMalformedData) {
			errs = append(errs, err)
		}
	}

	loose, err := kvs.Dump(s.kv, models.OverridePrefixes...)
	if err != nil {
		errs = append(errs, err)
		loose = map[string]string{}
	}
	s.loose = loose
	s.ready = true
	return errors.Join(errs...)
}

// loadArt loads the art categories, migrating the two flat legacy galleries
// when no category layout has been saved yet.
func (s *Store) loadArt() error {
	_, ok, err := s.kv.Get(models.ArtCategoriesKey)
	if err != nil {
		return err
	}
	if ok {
		_, err := s.art.Load()
		return err
	}

	cats := defaultArtCategories()
	migrated := false
	for i, legacy := range []struct{ key, prefix string }{
		{models.LegacyPortfolio3DKey, "3d_mig"},
		{models.LegacyPortfolio2DKey, "2d_mig"},
	} {
		raw, ok, err := s.kv.Get(legacy.key)
		if err != nil || !ok {
			continue
		}
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err != nil {
			s.logger.Warn("content: skipping malformed legacy gallery",
				slog.String("key", legacy.key), slog.String("error", err.Error()))
			continue
		}
		cats[i].Items = artItems(urls, legacy.prefix)
		migrated = true
	}
	if !migrated {
		_, err := s.art.Load()
		return err
	}
	s.logger.Info("content: migrated legacy art galleries")
	if _, err := s.art.Replace(cats); err != nil && !apperr.IsWarning(err) {
		return err
	}
	return nil
}

// Teardown drops all in-memory state.
func (s *Store) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown()
}

func (s *Store) teardown() {
	s.skills.Reset()
	s.projs.Reset()
	s.exps.Reset()
	s.certs.Reset()
	s.art.Reset()
	s.btns.Reset()
	s.loose = nil
	s.ready = false
}

// Reload discards the in-memory view and re-reads it from the store.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown()
	return s.init()
}

// Ready reports whether Init has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Content returns a deep copy of all six repositories.
func (s *Store) Content() models.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Content{
		Skills:         s.skills.All(),
		Projects:       s.projs.All(),
		Experiences:    s.exps.All(),
		Certificates:   s.certs.All(),
		ArtCategories:  s.art.All(),
		ContactButtons: s.btns.All(),
	}
}

func (s *Store) collection(name string) (Collection, error) {
	switch name {
	case Skills:
		return s.skills, nil
	case Projects:
		return s.projs, nil
	case Experiences:
		return s.exps, nil
	case Certificates:
		return s.certs, nil
	case ArtCategories:
		return s.art, nil
	case ContactButtons:
		return s.btns, nil
	}
	return nil, fmt.Errorf("content: repository %q: %w", name, apperr.ErrNotFound)
}

// RepositoryKey returns the store key of the named repository.
func (s *Store) RepositoryKey(name string) (string, error) {
	c, err := s.collection(name)
	if err != nil {
		return "", err
	}
	return c.Key(), nil
}

// Records returns a copy of the named repository.
func (s *Store) Records(name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.collection(name)
	if err != nil {
		return nil, err
	}
	return c.Items(), nil
}

// AddRecord appends a record to the named repository. An empty raw body
// appends the placeholder record.
func (s *Store) AddRecord(name string, raw []byte) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.collection(name)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return c.AddPlaceholder()
	}
	return c.AddJSON(raw)
}

// RemoveRecord deletes the record at index i of the named repository.
func (s *Store) RemoveRecord(name string, i int) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.collection(name)
	if err != nil {
		return nil, err
	}
	return c.RemoveAt(i)
}

// UpdateRecordField sets one field of the record at index i.
func (s *Store) UpdateRecordField(name string, i int, field, value string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.collection(name)
	if err != nil {
		return nil, err
	}
	return c.UpdateField(i, field, value)
}

// Typed accessors.

func (s *Store) Skills() []models.SkillCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skills.All()
}

func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projs.All()
}

func (s *Store) Experiences() []models.Experience {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exps.All()
}

func (s *Store) Certificates() []models.Certificate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.certs.All()
}

func (s *Store) ArtCategories() []models.ArtCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.art.All()
}

func (s *Store) ContactButtons() []models.ContactButton {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.btns.All()
}

// Theme returns the stored UI theme, "light" when unset.
func (s *Store) Theme() string {
	v, ok, err := s.kv.Get(models.ThemeKey)
	if err != nil || !ok || v != "dark" {
		return "light"
	}
	return v
}

// SetTheme stores the UI theme, which is either "light" or "dark".
func (s *Store) SetTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("content: theme %q: %w", theme, apperr.ErrInvalidValue)
	}
	return s.kv.Set(models.ThemeKey, theme)
}

// Export returns a sealed bundle of the current state.
func (s *Store) Export() (*bundle.Bundle, error) {
	content := s.Content()
	s.mu.RLock()
	overrides := maps.Clone(s.loose)
	s.mu.RUnlock()
	return bundle.New(content, overrides, s.now())
}

// Import overwrites every repository and loose override key with the
// bundle's contents. Override keys absent from the bundle are removed.
// Writes are not atomic across keys; on failure earlier writes stay.
func (s *Store) Import(b *bundle.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := b.Content
	now := s.now()
	errs := []error{
		writeList(s.kv, models.SkillsKey, models.EnsureIDs(c.Skills, "skill", now)),
		writeList(s.kv, models.ProjectsKey, models.EnsureIDs(c.Projects, "proj", now)),
		writeList(s.kv, models.ExperiencesKey, models.EnsureIDs(c.Experiences, "exp", now)),
		writeList(s.kv, models.CertificatesKey, models.EnsureIDs(c.Certificates, "cert", now)),
		writeList(s.kv, models.ArtCategoriesKey, models.NormalizeArt(c.ArtCategories, now)),
		writeList(s.kv, models.ContactButtonsKey, models.EnsureIDs(c.ContactButtons, "contact", now)),
	}
	// The imported art layout supersedes any legacy gallery.
	for _, k := range []string{models.LegacyPortfolio3DKey, models.LegacyPortfolio2DKey} {
		errs = append(errs, s.kv.Remove(k))
	}

	existing, err := s.kv.Keys()
	if err != nil {
		errs = append(errs, err)
	}
	for _, k := range kvs.FilterPrefix(existing, models.OverridePrefixes...) {
		if _, keep := b.Overrides[k]; keep {
			continue
		}
		if err := s.kv.Remove(k); err != nil {
			errs = append(errs, err)
		}
	}
	for k, v := range b.Overrides {
		if err := s.kv.Set(k, v); err != nil {
			errs = append(errs, err)
		}
	}

	s.teardown()
	if err := s.init(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ResetToDefaults deletes every repository key and every loose override,
// then reloads, leaving the built-in dataset in place.
func (s *Store) ResetToDefaults() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, k := range models.RepositoryKeys {
		if err := s.kv.Remove(k); err != nil {
			errs = append(errs, err)
		}
	}
	keys, err := s.kv.Keys()
	if err != nil {
		errs = append(errs, err)
	}
	for _, k := range kvs.FilterPrefix(keys, models.SessionPrefixes...) {
		if err := s.kv.Remove(k); err != nil {
			errs = append(errs, err)
		}
	}
	s.teardown()
	if err := s.init(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
