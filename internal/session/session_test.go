package session

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/testutil"
)

var epoch = time.UnixMilli(1_700_000_000_000)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Notify(eventType string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

type fixture struct {
	kv    kvs.Store
	sess  kvs.Store
	store *content.Store
	ctl   *Controller
	rec   *recorder
}

func setup(t *testing.T, kv, sess kvs.Store) *fixture {
	t.Helper()
	store := content.New(kv, content.WithClock(testutil.Clock(epoch)))
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	rec := &recorder{}
	ctl, err := NewController(store, sess, WithNotifier(rec), WithClock(testutil.Clock(epoch)))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return &fixture{kv: kv, sess: sess, store: store, ctl: ctl, rec: rec}
}

func memSetup(t *testing.T) *fixture {
	return setup(t, kvs.NewMemory(kvs.Unlimited), kvs.NewMemory(kvs.Unlimited))
}

func namespaced(t *testing.T, kv kvs.Store) map[string]string {
	t.Helper()
	m, err := kvs.Dump(kv, models.SessionPrefixes...)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestAddThenCancel(t *testing.T) {
	kv := kvs.NewMemory(kvs.Unlimited)
	p1 := models.Project{ID: "proj_1", Title: "Endless Bus", Status: models.StatusReleased, Screenshots: []string{"a.png"}}
	raw, _ := json.Marshal([]models.Project{p1})
	kv.Set(models.ProjectsKey, string(raw))
	f := setup(t, kv, kvs.NewMemory(kvs.Unlimited))

	if _, err := f.ctl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	err := f.ctl.Edit(func(s *content.Store) error {
		_, err := s.AddRecord(content.Projects, nil)
		return err
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if n := len(f.store.Projects()); n != 2 {
		t.Fatalf("projects during session = %d", n)
	}

	if _, err := f.ctl.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if diff := cmp.Diff([]models.Project{p1}, f.store.Projects()); diff != "" {
		t.Errorf("projects after cancel (-want +got):\n%s", diff)
	}
	stored, _, _ := kv.Get(models.ProjectsKey)
	var got []models.Project
	if err := json.Unmarshal([]byte(stored), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]models.Project{p1}, got); diff != "" {
		t.Errorf("persisted projects (-want +got):\n%s", diff)
	}
	if _, ok, _ := f.sess.Get(SnapshotKey); ok {
		t.Error("snapshot should be removed after cancel")
	}
	if f.ctl.Status().State != Viewing {
		t.Error("expected Viewing after cancel")
	}
}

func TestEditThenFinish(t *testing.T) {
	f := memSetup(t)
	f.ctl.Start()
	err := f.ctl.Edit(func(s *content.Store) error {
		_, err := s.SetText("hero_subtitle", "Hello World")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.ctl.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if v, _, _ := f.kv.Get("text_hero_subtitle"); v != "Hello World" {
		t.Errorf("text_hero_subtitle = %q", v)
	}
	if _, ok, _ := f.sess.Get(SnapshotKey); ok {
		t.Error("snapshot should be removed after finish")
	}
	if _, err := f.ctl.Finish(); !errors.Is(err, apperr.ErrNotEditing) {
		t.Errorf("second Finish: %v", err)
	}
}

func TestNoOrphanKeysAfterCancel(t *testing.T) {
	f := memSetup(t)
	f.kv.Set("text_title", "Original")
	f.kv.Set("text_empty", "")
	f.kv.Set("img_profile", "data:image/png;base64,AAAA")
	f.kv.Set(models.ThemeKey, "light")
	f.store.Reload()
	before := namespaced(t, f.kv)

	f.ctl.Start()
	f.ctl.Edit(func(s *content.Store) error {
		s.SetText("title", "Changed")
		s.SetText("empty", "now filled")
		s.SetText("added", "new")
		s.SetMedia("project_proj_1_main", "clip.mp4")
		s.RemoveOverride(models.OverrideImage, "profile")
		s.AddRecord(content.Skills, nil)
		s.AddArtItem(0)
		return nil
	})
	f.store.SetTheme("dark")

	if _, err := f.ctl.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if diff := cmp.Diff(before, namespaced(t, f.kv)); diff != "" {
		t.Errorf("namespaced keys (-want +got):\n%s", diff)
	}
	if v, ok, _ := f.kv.Get("text_empty"); !ok || v != "" {
		t.Errorf("empty value should be restored as empty, got %q %v", v, ok)
	}
	if diff := cmp.Diff(content.Defaults(), f.store.Content()); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
	if f.store.Theme() != "dark" {
		t.Error("theme is outside the session and must not be restored")
	}
}

func TestCancelRestoresSwappedSizesUnderQuota(t *testing.T) {
	long, short := strings.Repeat("a", 1000), strings.Repeat("b", 10)
	f := setup(t, kvs.NewMemory(1100), kvs.NewMemory(kvs.Unlimited))
	f.kv.Set("text_a", long)
	f.kv.Set("text_b", short)
	f.store.Reload()
	before := namespaced(t, f.kv)

	// Map iteration is random; repeat so both write orders would come up.
	for i := 0; i < 20; i++ {
		if _, err := f.ctl.Start(); err != nil {
			t.Fatalf("Start: %v", err)
		}
		err := f.ctl.Edit(func(s *content.Store) error {
			if _, err := s.SetText("a", short); err != nil {
				return err
			}
			_, err := s.SetText("b", long)
			return err
		})
		if err != nil {
			t.Fatalf("swap: %v", err)
		}
		if _, err := f.ctl.Cancel(); err != nil {
			t.Fatalf("Cancel #%d: %v", i, err)
		}
		if diff := cmp.Diff(before, namespaced(t, f.kv)); diff != "" {
			t.Fatalf("namespaced keys after cancel #%d (-want +got):\n%s", i, diff)
		}
	}
}

// quotaStore fails every write to one key with a quota error.
type quotaStore struct {
	*kvs.Memory
	full string
}

func (q *quotaStore) Set(key, value string) error {
	if key == q.full {
		return apperr.ErrQuotaExceeded
	}
	return q.Memory.Set(key, value)
}

func TestCancelQuotaFailureIsWarning(t *testing.T) {
	kv := &quotaStore{Memory: kvs.NewMemory(kvs.Unlimited)}
	kv.Memory.Set("text_title", "Original")
	f := setup(t, kv, kvs.NewMemory(kvs.Unlimited))

	f.ctl.Start()
	err := f.ctl.Edit(func(s *content.Store) error {
		_, err := s.SetText("title", "Changed")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	// The key cannot be written back once the session is open.
	kv.full = "text_title"
	st, err := f.ctl.Cancel()
	if !apperr.IsWarning(err) || !errors.Is(err, apperr.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want a quota warning", err)
	}
	if st.State != Viewing {
		t.Errorf("state = %s, want viewing", st.State)
	}
	if _, ok, _ := f.sess.Get(SnapshotKey); ok {
		t.Error("snapshot should be discarded after restore")
	}
}

func TestCancelRestoresAcrossSQLite(t *testing.T) {
	user, sess := testutil.TestKV(t, kvs.Unlimited)
	f := setup(t, user, sess)
	f.store.AddRecord(content.Certificates, nil)
	want := f.store.Content()
	before := namespaced(t, user)

	f.ctl.Start()
	f.ctl.Edit(func(s *content.Store) error {
		s.RemoveRecord(content.Certificates, 0)
		s.UpdateRecordField(content.ContactButtons, 0, "variant", "dark")
		return nil
	})
	if _, err := f.ctl.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if diff := cmp.Diff(want, f.store.Content()); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before, namespaced(t, user)); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestStartIsNotReentrant(t *testing.T) {
	f := memSetup(t)
	first, err := f.ctl.Start()
	if err != nil {
		t.Fatal(err)
	}
	snap, _, _ := f.sess.Get(SnapshotKey)

	f.ctl.Edit(func(s *content.Store) error {
		_, err := s.SetText("title", "mid-session")
		return err
	})
	second, err := f.ctl.Start()
	if !errors.Is(err, apperr.ErrSessionActive) {
		t.Fatalf("second Start: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Error("session id changed on rejected start")
	}
	if again, _, _ := f.sess.Get(SnapshotKey); again != snap {
		t.Error("snapshot replaced by rejected start")
	}
}

func TestEditRequiresSession(t *testing.T) {
	f := memSetup(t)
	called := false
	err := f.ctl.Edit(func(*content.Store) error { called = true; return nil })
	if !errors.Is(err, apperr.ErrNotEditing) || called {
		t.Errorf("Edit outside session: err=%v called=%v", err, called)
	}
	if _, err := f.ctl.Cancel(); !errors.Is(err, apperr.ErrNotEditing) {
		t.Errorf("Cancel outside session: %v", err)
	}
}

func TestCancelWithoutSnapshot(t *testing.T) {
	f := memSetup(t)
	f.ctl.Start()
	f.ctl.Edit(func(s *content.Store) error {
		_, err := s.SetText("kept", "yes")
		return err
	})
	Discard(f.sess)

	st, err := f.ctl.Cancel()
	if !errors.Is(err, apperr.ErrSnapshotMissing) {
		t.Fatalf("Cancel: %v", err)
	}
	if st.State != Viewing {
		t.Error("cancel without snapshot should still leave Editing")
	}
	if v, _, _ := f.kv.Get("text_kept"); v != "yes" {
		t.Error("nothing should be restored without a snapshot")
	}
}

func TestDegradedCapture(t *testing.T) {
	f := setup(t, kvs.NewMemory(kvs.Unlimited), kvs.NewMemory(64))
	st, err := f.ctl.Start()
	if !apperr.IsWarning(err) || !errors.Is(err, apperr.ErrQuotaExceeded) {
		t.Fatalf("Start: %v", err)
	}
	if st.State != Editing || !st.Degraded {
		t.Errorf("status = %+v", st)
	}
	if _, err := f.ctl.Cancel(); !errors.Is(err, apperr.ErrSnapshotMissing) {
		t.Errorf("Cancel: %v", err)
	}
}

func TestDegradedCaptureDropsStaleSnapshot(t *testing.T) {
	sess := kvs.NewMemory(64)
	sess.Set(SnapshotKey, `{"sessionId":"old","loose":{}}`)
	kv := kvs.NewMemory(kvs.Unlimited)
	kv.Set("text_title", "Kept")
	f := setup(t, kv, sess)

	if _, err := f.ctl.Start(); !apperr.IsWarning(err) {
		t.Fatalf("Start: %v", err)
	}
	if _, ok, _ := sess.Get(SnapshotKey); ok {
		t.Fatal("stale snapshot survived a failed capture")
	}
	if _, err := f.ctl.Cancel(); !errors.Is(err, apperr.ErrSnapshotMissing) {
		t.Errorf("Cancel: %v", err)
	}
	if v, _, _ := kv.Get("text_title"); v != "Kept" {
		t.Errorf("text_title = %q", v)
	}
}

func TestMalformedSnapshotIsDropped(t *testing.T) {
	f := memSetup(t)
	f.ctl.Start()
	f.sess.Set(SnapshotKey, "{broken")
	if _, err := f.ctl.Cancel(); !errors.Is(err, apperr.ErrMalformedData) {
		t.Errorf("Cancel: %v", err)
	}
	if _, ok, _ := f.sess.Get(SnapshotKey); ok {
		t.Error("malformed snapshot should be removed")
	}
}

func TestFactoryReset(t *testing.T) {
	f := memSetup(t)
	f.kv.Set(models.LegacyPortfolio3DKey, `["a.png"]`)
	f.kv.Set("media_project_proj_1_main", "clip.mp4")
	f.kv.Set(models.ThemeKey, "dark")
	f.store.Reload()

	f.ctl.Start()
	f.ctl.Edit(func(s *content.Store) error {
		s.AddRecord(content.Projects, nil)
		s.SetText("hero", "x")
		s.SetImage("profile", "y")
		return nil
	})

	st, err := f.ctl.FactoryReset()
	if err != nil {
		t.Fatalf("FactoryReset: %v", err)
	}
	if st.State != Viewing {
		t.Error("expected Viewing after reset")
	}
	if left := namespaced(t, f.kv); len(left) != 0 {
		t.Errorf("keys left after reset: %v", left)
	}
	if diff := cmp.Diff(content.Defaults(), f.store.Content()); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
	if _, ok, _ := f.sess.Get(SnapshotKey); ok {
		t.Error("snapshot should be removed by reset")
	}
	if f.store.Theme() != "dark" {
		t.Error("reset must keep the theme")
	}
	want := []string{EventStarted, EventResetImgs, EventResetData, EventReloaded}
	if diff := cmp.Diff(want, f.rec.Events()); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestTrigger(t *testing.T) {
	f := memSetup(t)
	ok, _, err := f.ctl.Trigger(Form{Name: "editmode207", Email: "someone@example.com", Message: "editmode207"})
	if err != nil || ok {
		t.Fatalf("partial match: ok=%v err=%v", ok, err)
	}
	if f.ctl.Status().State != Viewing {
		t.Fatal("partial match must not start a session")
	}

	code := Form{Name: "editmode207", Email: "editmode207", Message: "editmode207"}
	ok, st, err := f.ctl.Trigger(code)
	if err != nil || !ok || st.State != Editing {
		t.Fatalf("match: ok=%v st=%+v err=%v", ok, st, err)
	}
	ok, again, err := f.ctl.Trigger(code)
	if err != nil || !ok || again.SessionID != st.SessionID {
		t.Errorf("repeat trigger should be a no-op: %+v %v", again, err)
	}
}

func TestExprTrigger(t *testing.T) {
	tr, err := NewExprTrigger(`message startsWith "open sesame" && email endsWith "@example.com"`)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		form Form
		want bool
	}{
		{Form{Email: "me@example.com", Message: "open sesame please"}, true},
		{Form{Email: "me@example.org", Message: "open sesame"}, false},
		{Form{}, false},
	}
	for _, tc := range cases {
		got, err := tr.Match(tc.form)
		if err != nil || got != tc.want {
			t.Errorf("Match(%+v) = %v, %v", tc.form, got, err)
		}
	}
	if _, err := NewExprTrigger(`name +`); err == nil {
		t.Error("expected compile error")
	}
	if _, err := NewExprTrigger(`name`); err == nil {
		t.Error("expected error for non-boolean expression")
	}
}

func TestResume(t *testing.T) {
	user, sess := testutil.TestKV(t, kvs.Unlimited)
	f := setup(t, user, sess)
	st, _ := f.ctl.Start()

	g := setup(t, user, sess)
	resumed, err := g.ctl.Resume()
	if err != nil || !resumed {
		t.Fatalf("Resume: %v %v", resumed, err)
	}
	if got := g.ctl.Status(); got.State != Editing || got.SessionID != st.SessionID {
		t.Errorf("status = %+v", got)
	}

	h := memSetup(t)
	if resumed, err := h.ctl.Resume(); err != nil || resumed {
		t.Errorf("Resume without snapshot: %v %v", resumed, err)
	}
}
