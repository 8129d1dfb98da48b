package session

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/models"
)

// Restore rewinds kv to the snapshot stored in sess and removes the
// snapshot. Namespaced keys that were absent at capture are deleted and
// every captured key gets its captured value back. Repositories present at
// capture are written from the snapshot's content.
//
// Deletes run first, then writes ordered by growth, shrinking values before
// growing ones, so a state that fit the quota at capture fits again. Writes
// are not atomic; on error earlier writes stay applied. A quota failure is
// reported as a *apperr.PersistError.
func Restore(kv, sess kvs.Store, logger *slog.Logger) (*Snapshot, error) {
	snap, err := Load(sess)
	if err != nil {
		return nil, err
	}

	target := make(map[string]string, len(snap.Loose))
	for k, v := range snap.Loose {
		if v != nil {
			target[k] = *v
		}
	}
	c := snap.Content
	for _, r := range []struct {
		key  string
		list any
	}{
		{models.SkillsKey, c.Skills},
		{models.ProjectsKey, c.Projects},
		{models.ExperiencesKey, c.Experiences},
		{models.CertificatesKey, c.Certificates},
		{models.ArtCategoriesKey, c.ArtCategories},
		{models.ContactButtonsKey, c.ContactButtons},
	} {
		if _, ok := target[r.key]; !ok {
			continue
		}
		data, err := encodeRepository(r.list)
		if err != nil {
			return snap, fmt.Errorf("restore: encode %s: %w", r.key, err)
		}
		target[r.key] = data
	}

	current, err := kvs.Dump(kv, models.SessionPrefixes...)
	if err != nil {
		return snap, fmt.Errorf("restore: list keys: %w", err)
	}

	var errs []error
	for k := range current {
		if _, keep := target[k]; keep {
			continue
		}
		if err := kv.Remove(k); err != nil {
			logger.Warn("restore: delete failed", slog.String("key", k), slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	for _, w := range orderWrites(current, target) {
		if err := kv.Set(w.key, w.value); err != nil {
			logger.Warn("restore: write failed", slog.String("key", w.key), slog.String("error", err.Error()))
			if errors.Is(err, apperr.ErrQuotaExceeded) {
				err = &apperr.PersistError{Key: w.key, Err: err}
			}
			errs = append(errs, err)
		}
	}

	if err := Discard(sess); err != nil {
		errs = append(errs, fmt.Errorf("restore: discard snapshot: %w", err))
	}
	return snap, errors.Join(errs...)
}

type write struct {
	key   string
	value string
	delta int
}

// orderWrites returns the writes needed to turn current into target,
// smallest size change first. Unchanged keys are skipped.
func orderWrites(current, target map[string]string) []write {
	out := make([]write, 0, len(target))
	for k, v := range target {
		delta := len(k) + len(v)
		if old, ok := current[k]; ok {
			if old == v {
				continue
			}
			delta = len(v) - len(old)
		}
		out = append(out, write{key: k, value: v, delta: delta})
	}
	slices.SortFunc(out, func(a, b write) int {
		if d := cmp.Compare(a.delta, b.delta); d != 0 {
			return d
		}
		return strings.Compare(a.key, b.key)
	})
	return out
}

func encodeRepository(list any) (string, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}
