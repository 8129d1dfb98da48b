// Package kvs defines the string key-value store that backs all persisted
// portfolio content, and its SQLite and in-memory implementations.
package kvs

import (
	"sort"
	"strings"
)

// Store is a persistent mapping of string keys to string values.
// There are no transactions across keys.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (string, bool, error)
	// Set writes value under key. It fails with apperr.ErrQuotaExceeded when
	// the store would grow past its quota; the previous value is kept.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Keys returns every key currently stored, sorted.
	Keys() ([]string, error)
}

// Unlimited disables the quota check.
const Unlimited int64 = 0

// entrySize is the number of bytes an entry counts against the quota.
func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

// HasPrefix reports whether key starts with any of prefixes.
func HasPrefix(key string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// FilterPrefix returns the keys that start with any of prefixes, sorted.
func FilterPrefix(keys []string, prefixes ...string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if HasPrefix(k, prefixes...) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Dump returns every key/value pair under prefixes.
func Dump(s Store, prefixes ...string) (map[string]string, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, k := range FilterPrefix(keys, prefixes...) {
		v, ok, err := s.Get(k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}
