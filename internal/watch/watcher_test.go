package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/folio/internal/bundle"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolioservice"
	"github.com/starford/folio/internal/session"
)

type results struct {
	mu   sync.Mutex
	ok   []string
	errs []string
}

func (r *results) record(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.errs = append(r.errs, filepath.Base(path))
		return
	}
	r.ok = append(r.ok, filepath.Base(path))
}

func (r *results) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ok), len(r.errs)
}

func watcherTestEnv(t *testing.T) (string, *portfolioservice.Service, *results) {
	t.Helper()
	store := content.New(kvs.NewMemory(kvs.Unlimited))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	ctl, err := session.NewController(store, kvs.NewMemory(kvs.Unlimited))
	if err != nil {
		t.Fatal(err)
	}
	svc := portfolioservice.NewService(store, ctl, nil)

	dir := t.TempDir()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	res := &results{}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go Watch(ctx, dir, svc, portfolioservice.SourceWatch, logger, res.record)
	time.Sleep(100 * time.Millisecond)

	return dir, svc, res
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func testBundle(t *testing.T, title string, format bundle.Format) []byte {
	t.Helper()
	c := content.Defaults()
	c.Certificates = []models.Certificate{{ID: "cert_x", Title: title, Issuer: "Khronos", Date: "2025"}}
	b, err := bundle.New(c, map[string]string{"text_hero_title": title}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	data, err := bundle.Encode(b, format)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestWatcher_ImportsDroppedBundle(t *testing.T) {
	dir, svc, res := watcherTestEnv(t)
	ctx := context.Background()

	_ = os.WriteFile(filepath.Join(dir, "drop.json"), testBundle(t, "Vulkan", bundle.FormatJSON), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		v, err := svc.Override(ctx, models.OverrideText, "hero_title")
		return err == nil && v == "Vulkan"
	}, "dropped bundle not imported")

	certs, _ := svc.Records(ctx, content.Certificates)
	if got := certs.([]models.Certificate); len(got) != 1 || got[0].Title != "Vulkan" {
		t.Errorf("certificates = %+v", got)
	}
	if svc.Session(ctx).State != session.Viewing {
		t.Error("drop import must not open a session")
	}
	if ok, _ := res.counts(); ok != 1 {
		t.Errorf("imports = %d, want 1", ok)
	}
}

func TestWatcher_YAMLBundle(t *testing.T) {
	dir, svc, _ := watcherTestEnv(t)

	_ = os.WriteFile(filepath.Join(dir, "drop.yml"), testBundle(t, "Metal", bundle.FormatYAML), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		v, err := svc.Override(context.Background(), models.OverrideText, "hero_title")
		return err == nil && v == "Metal"
	}, "yaml bundle not imported")
}

func TestWatcher_InvalidBundleSkipped(t *testing.T) {
	dir, svc, res := watcherTestEnv(t)

	_ = os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"version": 99}`), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, failed := res.counts()
		return failed == 1
	}, "invalid bundle not reported")

	if ok, _ := res.counts(); ok != 0 {
		t.Errorf("imports = %d, want 0", ok)
	}
	if _, err := svc.Override(context.Background(), models.OverrideText, "hero_title"); err == nil {
		t.Error("invalid bundle changed content")
	}
}

func TestWatcher_UnchangedFileNotReimported(t *testing.T) {
	dir, _, res := watcherTestEnv(t)
	path := filepath.Join(dir, "same.json")
	data := testBundle(t, "Once", bundle.FormatJSON)

	_ = os.WriteFile(path, data, 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		ok, _ := res.counts()
		return ok == 1
	}, "first write not imported")

	// Rewrite identical bytes; the watcher sees a write but skips it.
	_ = os.WriteFile(path, data, 0o644)
	time.Sleep(3 * settle)
	if ok, _ := res.counts(); ok != 1 {
		t.Errorf("imports = %d, want 1", ok)
	}
}
