package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/models"
)

// Collection is the type-erased view of a repository used by the HTTP and
// MCP layers, which address repositories by name.
type Collection interface {
	Name() string
	Key() string
	Len() int
	Items() any
	AddPlaceholder() (any, error)
	AddJSON(raw []byte) (any, error)
	RemoveAt(i int) (any, error)
	UpdateField(i int, field, value string) (any, error)
}

// Repository is one ordered, independently keyed collection of records.
// Every mutation rewrites the whole collection under its key.
type Repository[T models.Record[T]] struct {
	name        string
	key         string
	prefix      string
	defaults    func() []T
	placeholder func() T
	normalize   func([]T, time.Time) []T

	kv     kvs.Store
	now    func() time.Time
	logger *slog.Logger

	items []T
}

var (
	_ Collection = (*Repository[models.Project])(nil)
	_ Collection = (*Repository[models.ArtCategory])(nil)
)

func newRepository[T models.Record[T]](name, key, prefix string, defaults func() []T, placeholder func() T, kv kvs.Store, now func() time.Time, logger *slog.Logger) *Repository[T] {
	r := &Repository[T]{
		name:        name,
		key:         key,
		prefix:      prefix,
		defaults:    defaults,
		placeholder: placeholder,
		kv:          kv,
		now:         now,
		logger:      logger,
	}
	r.normalize = func(list []T, at time.Time) []T {
		return models.EnsureIDs(list, r.prefix, at)
	}
	return r
}

func (r *Repository[T]) Name() string { return r.name }
func (r *Repository[T]) Key() string  { return r.key }
func (r *Repository[T]) Len() int     { return len(r.items) }
func (r *Repository[T]) Items() any   { return r.All() }

// All returns a deep copy of the current in-memory view.
func (r *Repository[T]) All() []T {
	out := models.CloneAll(r.items)
	if out == nil {
		out = []T{}
	}
	return out
}

// Load reads the persisted collection, falling back to the built-in dataset
// when the key is absent or its value cannot be decoded or fails validation.
func (r *Repository[T]) Load() ([]T, error) {
	raw, ok, err := r.kv.Get(r.key)
	if err != nil {
		r.items = r.normalize(r.defaults(), r.now())
		return r.All(), err
	}
	if !ok {
		r.items = r.normalize(r.defaults(), r.now())
		return r.All(), nil
	}
	list, err := decodeList[T](raw)
	if err == nil {
		list = r.normalize(list, r.now())
		if verr := models.ValidateAll(r.name, list); verr != nil {
			err = errors.Join(apperr.ErrMalformedData, verr)
		}
	}
	if err != nil {
		metrics.MalformedData.WithLabelValues(r.name).Inc()
		r.logger.Warn("content: malformed repository, using defaults",
			slog.String("key", r.key), slog.String("error", err.Error()))
		r.items = r.normalize(r.defaults(), r.now())
		return r.All(), fmt.Errorf("content: load %s: %w", r.key, err)
	}
	r.items = list
	return r.All(), nil
}

// Reset drops the in-memory view.
func (r *Repository[T]) Reset() { r.items = nil }

// Add appends rec, assigning an identifier when it has none.
func (r *Repository[T]) Add(rec T) ([]T, error) {
	if rec.RecordID() == "" {
		rec = rec.WithRecordID(fmt.Sprintf("%s_%d", r.prefix, r.now().UnixMilli()))
	}
	if err := rec.Validate(); err != nil {
		return r.All(), fmt.Errorf("content: add %s: %w: %w", r.name, apperr.ErrInvalidValue, err)
	}
	next := append(models.CloneAll(r.items), rec.Clone())
	return r.commit(next)
}

// RemoveAt deletes the record at index i.
func (r *Repository[T]) RemoveAt(i int) (any, error) {
	return r.Remove(i)
}

// Remove deletes the record at index i and returns the typed sequence.
func (r *Repository[T]) Remove(i int) ([]T, error) {
	if err := r.checkIndex(i); err != nil {
		return r.All(), err
	}
	next := slices.Delete(models.CloneAll(r.items), i, i+1)
	return r.commit(next)
}

// UpdateField sets one string field of the record at index i.
func (r *Repository[T]) UpdateField(i int, field, value string) (any, error) {
	return r.Update(i, func(rec T) (T, error) {
		return rec.WithField(field, value)
	})
}

// Update replaces the record at index i with fn's result.
func (r *Repository[T]) Update(i int, fn func(T) (T, error)) ([]T, error) {
	if err := r.checkIndex(i); err != nil {
		return r.All(), err
	}
	updated, err := fn(r.items[i].Clone())
	if err != nil {
		return r.All(), err
	}
	next := models.CloneAll(r.items)
	next[i] = updated
	return r.commit(next)
}

// Replace swaps the whole collection.
func (r *Repository[T]) Replace(list []T) ([]T, error) {
	return r.commit(models.CloneAll(list))
}

// AddPlaceholder appends the record an "add" button creates.
func (r *Repository[T]) AddPlaceholder() (any, error) {
	return r.Add(r.placeholder())
}

// AddJSON decodes raw as a single record and appends it.
func (r *Repository[T]) AddJSON(raw []byte) (any, error) {
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return r.All(), fmt.Errorf("content: decode %s record: %w: %w", r.name, apperr.ErrInvalidValue, err)
	}
	return r.Add(rec)
}

// Persist writes the current view under the repository key.
func (r *Repository[T]) Persist() error {
	return writeList(r.kv, r.key, r.items)
}

// commit makes next the in-memory view and persists it. A persistence
// failure leaves the view updated and returns a *apperr.PersistError.
func (r *Repository[T]) commit(next []T) ([]T, error) {
	r.items = r.normalize(next, r.now())
	if err := r.Persist(); err != nil {
		metrics.PersistFailures.WithLabelValues(r.name).Inc()
		r.logger.Warn("content: change kept for this session only",
			slog.String("key", r.key), slog.String("error", err.Error()))
		return r.All(), &apperr.PersistError{Key: r.key, Err: err}
	}
	return r.All(), nil
}

func (r *Repository[T]) checkIndex(i int) error {
	if i < 0 || i >= len(r.items) {
		return fmt.Errorf("content: %s[%d]: %w", r.name, i, apperr.ErrIndexOutOfRange)
	}
	return nil
}

func writeList[T any](kv kvs.Store, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("content: encode %s: %w", key, err)
	}
	return kv.Set(key, string(data))
}

func decodeList[T any](raw string) ([]T, error) {
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, errors.Join(apperr.ErrMalformedData, err)
	}
	if list == nil {
		return nil, fmt.Errorf("%w: null collection", apperr.ErrMalformedData)
	}
	return list, nil
}
