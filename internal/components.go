package internal

import (
	"fmt"
	"log/slog"

	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/portfolioservice"
	"github.com/starford/folio/internal/session"
)

// Table names inside the SQLite database.
const (
	userTable    = "user_kv"
	sessionTable = "session_kv"
)

// Events receives session notifications and per-key content events.
// *sse.Broker implements it.
type Events interface {
	session.Notifier
	portfolioservice.Publisher
}

// components is the wired domain graph shared by every command.
type components struct {
	db    *kvs.DB
	store *content.Store
	ctl   *session.Controller
	svc   *portfolioservice.Service
}

func (c *components) Close() error {
	return c.db.Close()
}

// build opens the database and wires store, controller and service.
// events may be nil.
func build(cfg *Config, logger *slog.Logger, events Events) (*components, error) {
	db, err := kvs.Open(cfg.KVS.Path)
	if err != nil {
		return nil, fmt.Errorf("init kvs: %w", err)
	}
	c, err := wire(db, cfg, logger, events)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func wire(db *kvs.DB, cfg *Config, logger *slog.Logger, events Events) (*components, error) {
	user, err := db.Table(userTable, cfg.KVS.Quota)
	if err != nil {
		return nil, err
	}

	var sess kvs.Store = kvs.NewMemory(cfg.Session.Quota)
	if cfg.Session.Store == SessionStoreSQLite {
		if sess, err = db.Table(sessionTable, cfg.Session.Quota); err != nil {
			return nil, err
		}
	}

	storeOpts := []content.Option{content.WithLogger(logger)}
	if cfg.Content.SanitizeText {
		storeOpts = append(storeOpts, content.WithTextSanitizer(content.StripMarkup()))
	}
	store := content.New(user, storeOpts...)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("init content: %w", err)
	}

	trigger, err := session.NewExprTrigger(cfg.Session.Trigger)
	if err != nil {
		return nil, fmt.Errorf("init trigger: %w", err)
	}
	ctlOpts := []session.Option{session.WithTrigger(trigger), session.WithLogger(logger)}
	var publisher portfolioservice.Publisher
	if events != nil {
		ctlOpts = append(ctlOpts, session.WithNotifier(events))
		publisher = events
	}
	ctl, err := session.NewController(store, sess, ctlOpts...)
	if err != nil {
		return nil, fmt.Errorf("init session: %w", err)
	}
	resumed, err := ctl.Resume()
	if err != nil {
		logger.Warn("session: resume failed", slog.String("error", err.Error()))
	} else if resumed {
		logger.Info("session: edit session from a previous run is still open")
	}

	return &components{
		db:    db,
		store: store,
		ctl:   ctl,
		svc:   portfolioservice.NewService(store, ctl, publisher),
	}, nil
}
