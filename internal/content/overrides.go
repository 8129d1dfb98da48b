package content

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/metrics"
	"github.com/starford/folio/internal/models"
)

// Override returns the stored value of a loose override key. Values that
// could not be persisted are still served for the life of the process.
func (s *Store) Override(kind models.OverrideKind, name string) (string, bool, error) {
	key, err := kind.Key(name)
	if err != nil {
		return "", false, fmt.Errorf("content: %w: %w", apperr.ErrInvalidField, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.loose[key]
	return v, ok, nil
}

// Overrides returns a copy of every loose override key and value.
func (s *Store) Overrides() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := maps.Clone(s.loose)
	if out == nil {
		out = map[string]string{}
	}
	return out
}

// SetOverride writes a loose override. Text values pass through the
// configured sanitizer. On a quota failure the value is kept in memory
// and a *apperr.PersistError is returned.
func (s *Store) SetOverride(kind models.OverrideKind, name, value string) (string, error) {
	key, err := kind.Key(name)
	if err != nil {
		return "", fmt.Errorf("content: %w: %w", apperr.ErrInvalidField, err)
	}
	if kind == models.OverrideText && s.sanitize != nil {
		value = s.sanitize(value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loose == nil {
		s.loose = map[string]string{}
	}
	s.loose[key] = value
	if err := s.kv.Set(key, value); err != nil {
		metrics.PersistFailures.WithLabelValues(string(kind)).Inc()
		s.logger.Warn("content: override kept for this session only",
			slog.String("key", key), slog.String("error", err.Error()))
		return value, &apperr.PersistError{Key: key, Err: err}
	}
	return value, nil
}

// RemoveOverride deletes a loose override.
func (s *Store) RemoveOverride(kind models.OverrideKind, name string) error {
	key, err := kind.Key(name)
	if err != nil {
		return fmt.Errorf("content: %w: %w", apperr.ErrInvalidField, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loose, key)
	return s.kv.Remove(key)
}
