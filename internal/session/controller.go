package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/metrics"
)

// State is the controller's mode.
type State string

const (
	Viewing State = "viewing"
	Editing State = "editing"
)

// Event types published through the Notifier.
const (
	EventStarted   = "session.started"
	EventFinished  = "session.finished"
	EventCancelled = "session.cancelled"
	EventResetImgs = "reset-images"
	EventResetData = "reset-data"
	EventReloaded  = "content.reloaded"
)

// Notifier receives session events. *sse.Broker implements it.
type Notifier interface {
	Notify(eventType string, data any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, any) {}

// Status describes the current session.
type Status struct {
	State     State      `json:"state"`
	SessionID string     `json:"sessionId,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	// Degraded is set when the snapshot could not be written; Cancel cannot
	// restore such a session.
	Degraded bool `json:"degraded,omitempty"`
}

// Option configures a Controller.
type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notify = n }
}

func WithTrigger(t Trigger) Option {
	return func(c *Controller) { c.trigger = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller moves between Viewing and Editing. All transitions and every
// content mutation made through Edit are serialized by one mutex.
type Controller struct {
	store   *content.Store
	sess    kvs.Store
	notify  Notifier
	trigger Trigger
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	state    State
	id       string
	started  time.Time
	degraded bool
}

// NewController creates a controller in the Viewing state. sess is the
// session-scoped store that holds the snapshot.
func NewController(store *content.Store, sess kvs.Store, opts ...Option) (*Controller, error) {
	c := &Controller{
		store:  store,
		sess:   sess,
		notify: nopNotifier{},
		logger: slog.Default(),
		now:    time.Now,
		state:  Viewing,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.trigger == nil {
		t, err := NewExprTrigger("")
		if err != nil {
			return nil, err
		}
		c.trigger = t
	}
	return c, nil
}

// Resume re-enters Editing when the session store still holds a snapshot
// from an earlier process. It reports whether a session was resumed.
func (c *Controller) Resume() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, err := Load(c.sess)
	if errors.Is(err, apperr.ErrSnapshotMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	c.enter(snap.SessionID, snap.CapturedAt, false)
	c.logger.Info("session: resumed", slog.String("session_id", snap.SessionID))
	return true, nil
}

// Status returns the current session state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status()
}

func (c *Controller) status() Status {
	st := Status{State: c.state}
	if c.state == Editing {
		started := c.started
		st.SessionID = c.id
		st.StartedAt = &started
		st.Degraded = c.degraded
	}
	return st
}

// Start captures a snapshot and enters Editing. It fails with
// apperr.ErrSessionActive while a session is open and leaves the existing
// snapshot untouched. A failed capture still enters Editing, degraded.
func (c *Controller) Start() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start()
}

func (c *Controller) start() (Status, error) {
	if c.state == Editing {
		metrics.SessionTransitions.WithLabelValues("start", "rejected").Inc()
		return c.status(), apperr.ErrSessionActive
	}
	id := uuid.NewString()
	now := c.now()
	_, err := Capture(c.store, c.store.KV(), c.sess, id, now)
	c.enter(id, now, err != nil)
	if err != nil {
		// A snapshot left over from an earlier session must not be restored
		// by this one.
		if derr := Discard(c.sess); derr != nil {
			err = errors.Join(err, derr)
		}
		metrics.SessionTransitions.WithLabelValues("start", "degraded").Inc()
		c.logger.Warn("session: started without snapshot, cancel will not restore",
			slog.String("session_id", id), slog.String("error", err.Error()))
		c.notify.Notify(EventStarted, c.status())
		return c.status(), &apperr.PersistError{Key: SnapshotKey, Err: err}
	}
	metrics.SessionTransitions.WithLabelValues("start", "ok").Inc()
	c.logger.Info("session: started", slog.String("session_id", id))
	c.notify.Notify(EventStarted, c.status())
	return c.status(), nil
}

func (c *Controller) enter(id string, at time.Time, degraded bool) {
	c.state = Editing
	c.id = id
	c.started = at
	c.degraded = degraded
	metrics.EditMode.Set(1)
}

func (c *Controller) leave() {
	c.state = Viewing
	c.id = ""
	c.started = time.Time{}
	c.degraded = false
	metrics.EditMode.Set(0)
}

// Finish keeps every change and discards the snapshot.
func (c *Controller) Finish() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Editing {
		return c.status(), apperr.ErrNotEditing
	}
	id := c.id
	err := Discard(c.sess)
	c.leave()
	if err != nil {
		c.logger.Warn("session: discard snapshot failed", slog.String("error", err.Error()))
	}
	metrics.SessionTransitions.WithLabelValues("finish", "ok").Inc()
	c.logger.Info("session: finished", slog.String("session_id", id))
	c.notify.Notify(EventFinished, map[string]string{"sessionId": id})
	return c.status(), nil
}

// Cancel restores the snapshot, reloads the store and returns to Viewing.
// Without a snapshot it still leaves Editing and reloads, then reports
// apperr.ErrSnapshotMissing.
func (c *Controller) Cancel() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Editing {
		return c.status(), apperr.ErrNotEditing
	}
	id := c.id

	_, rerr := Restore(c.store.KV(), c.sess, c.logger)
	c.leave()
	if err := c.store.Reload(); err != nil {
		c.logger.Warn("session: reload after cancel", slog.String("error", err.Error()))
	}

	status := "ok"
	switch {
	case errors.Is(rerr, apperr.ErrSnapshotMissing):
		status = "no_snapshot"
		c.logger.Warn("session: cancelled without snapshot, nothing restored", slog.String("session_id", id))
	case apperr.IsWarning(rerr):
		status = "degraded"
		c.logger.Warn("session: restore incomplete, quota exceeded", slog.String("session_id", id), slog.String("error", rerr.Error()))
	case rerr != nil:
		status = "error"
		c.logger.Error("session: restore failed", slog.String("session_id", id), slog.String("error", rerr.Error()))
	default:
		c.logger.Info("session: cancelled", slog.String("session_id", id))
	}
	metrics.SessionTransitions.WithLabelValues("cancel", status).Inc()
	c.notify.Notify(EventCancelled, map[string]string{"sessionId": id, "status": status})
	c.notify.Notify(EventReloaded, map[string]string{})
	return c.status(), rerr
}

// FactoryReset deletes every repository key and loose override, drops any
// snapshot and reloads the built-in dataset. It is allowed in any state and
// always ends in Viewing. The theme is kept.
func (c *Controller) FactoryReset() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notify.Notify(EventResetImgs, map[string]string{})
	c.notify.Notify(EventResetData, map[string]string{})

	err := c.store.ResetToDefaults()
	if derr := Discard(c.sess); derr != nil {
		err = errors.Join(err, fmt.Errorf("reset: discard snapshot: %w", derr))
	}
	c.leave()

	status := "ok"
	if err != nil {
		status = "error"
		c.logger.Error("session: factory reset incomplete", slog.String("error", err.Error()))
	} else {
		c.logger.Info("session: factory reset")
	}
	metrics.SessionTransitions.WithLabelValues("reset", status).Inc()
	c.notify.Notify(EventReloaded, map[string]string{})
	return c.status(), err
}

// Trigger evaluates f against the configured Trigger and starts a session on
// a match. It reports whether the form matched. A match while already
// editing is a no-op.
func (c *Controller) Trigger(f Form) (bool, Status, error) {
	ok, err := c.trigger.Match(f)
	if err != nil || !ok {
		return false, c.Status(), err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Editing {
		return true, c.status(), nil
	}
	st, err := c.start()
	return true, st, err
}

// Edit runs fn while holding the session lock, provided a session is open.
// Content mutations go through Edit so they cannot interleave with a
// capture or restore.
func (c *Controller) Edit(fn func(*content.Store) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Editing {
		return apperr.ErrNotEditing
	}
	return fn(c.store)
}

// Exclusive runs fn under the session lock in any state. Bulk writers that
// act on the owner's behalf outside a session use it.
func (c *Controller) Exclusive(fn func(*content.Store) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.store)
}

