// Package session implements edit sessions: snapshot capture, restore on
// cancel, and the controller that moves between viewing and editing.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/models"
)

// SnapshotKey is the session-store key holding the active snapshot.
const SnapshotKey = "portfolio_backup"

// Snapshot is the state captured when an edit session starts.
//
// Loose maps every namespaced key to its captured value. A nil value marks a
// repository key that was absent at capture; an empty string is a value.
type Snapshot struct {
	SessionID  string             `json:"sessionId"`
	CapturedAt time.Time          `json:"capturedAt"`
	Content    models.Content     `json:"content"`
	Loose      map[string]*string `json:"loose"`
}

// Capture copies the store's content and every namespaced key of kv, and
// writes the result to sess under SnapshotKey. The snapshot is returned even
// when the final write fails.
func Capture(store *content.Store, kv, sess kvs.Store, sessionID string, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		SessionID:  sessionID,
		CapturedAt: now.UTC(),
		Content:    store.Content(),
		Loose:      map[string]*string{},
	}
	values, err := kvs.Dump(kv, models.SessionPrefixes...)
	if err != nil {
		return snap, fmt.Errorf("capture: read keys: %w", err)
	}
	for k, v := range values {
		snap.Loose[k] = &v
	}
	for _, k := range models.RepositoryKeys {
		if _, ok := snap.Loose[k]; !ok {
			snap.Loose[k] = nil
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return snap, fmt.Errorf("capture: encode: %w", err)
	}
	if err := sess.Set(SnapshotKey, string(data)); err != nil {
		return snap, fmt.Errorf("capture: write snapshot: %w", err)
	}
	return snap, nil
}

// Load reads the snapshot from sess. A snapshot that cannot be decoded is
// removed and reported as apperr.ErrMalformedData.
func Load(sess kvs.Store) (*Snapshot, error) {
	raw, ok, err := sess.Get(SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	if !ok {
		return nil, apperr.ErrSnapshotMissing
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, errors.Join(fmt.Errorf("snapshot: %w", apperr.ErrMalformedData), err, sess.Remove(SnapshotKey))
	}
	if snap.Loose == nil {
		snap.Loose = map[string]*string{}
	}
	return &snap, nil
}

// Discard removes the snapshot, if any.
func Discard(sess kvs.Store) error {
	return sess.Remove(SnapshotKey)
}
