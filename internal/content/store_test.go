package content

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/testutil"
)

var epoch = time.UnixMilli(1_700_000_000_000)

func newStore(t *testing.T, kv kvs.Store, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(testutil.Clock(epoch))}, opts...)
	s := New(kv, opts...)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestInitDefaultsWithoutPersisting(t *testing.T) {
	kv := kvs.NewMemory(kvs.Unlimited)
	s := newStore(t, kv)

	if diff := cmp.Diff(Defaults(), s.Content()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if keys, _ := kv.Keys(); len(keys) != 0 {
		t.Errorf("Init wrote %v, want no keys", keys)
	}
	if !s.Ready() {
		t.Error("store should be ready after Init")
	}
	s.Teardown()
	if s.Ready() {
		t.Error("store should not be ready after Teardown")
	}
}

func TestMutationsPersistAcrossReload(t *testing.T) {
	user, _ := testutil.TestKV(t, kvs.Unlimited)
	s := newStore(t, user)

	if _, err := s.AddRecord(Projects, nil); err != nil {
		t.Fatalf("AddRecord: %v", err)
	}
	if _, err := s.UpdateRecordField(Projects, 5, "title", "Endless Bus 2"); err != nil {
		t.Fatalf("UpdateRecordField: %v", err)
	}
	if _, err := s.AddSkill(0); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	if _, err := s.SetText("hero_title", "Hello"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	before := s.Content()

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if diff := cmp.Diff(before, s.Content()); diff != "" {
		t.Errorf("content changed across reload (-want +got):\n%s", diff)
	}
	projects := s.Projects()
	if len(projects) != 6 || projects[5].Title != "Endless Bus 2" || projects[5].Status != models.StatusWIP {
		t.Errorf("added project = %+v", projects[len(projects)-1])
	}
	skills := s.Skills()[0].Skills
	if skills[len(skills)-1] != NewSkillLabel {
		t.Errorf("skills = %v", skills)
	}
	if v, ok, _ := s.Override(models.OverrideText, "hero_title"); !ok || v != "Hello" {
		t.Errorf("override = %q, %v", v, ok)
	}
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	s := newStore(t, kvs.NewMemory(kvs.Unlimited))
	for range 3 {
		if _, err := s.AddRecord(Certificates, nil); err != nil {
			t.Fatal(err)
		}
	}
	seen := map[string]bool{}
	for _, c := range s.Certificates() {
		if c.ID == "" || seen[c.ID] {
			t.Fatalf("duplicate or empty id %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestMalformedRepositoryFallsBackToDefaults(t *testing.T) {
	kv := kvs.NewMemory(kvs.Unlimited)
	kv.Set(models.ProjectsKey, "{not json")
	kv.Set(models.SkillsKey, "null")

	s := newStore(t, kv)
	if diff := cmp.Diff(defaultProjects(), s.Projects()); diff != "" {
		t.Errorf("projects (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaultSkills(), s.Skills()); diff != "" {
		t.Errorf("skills (-want +got):\n%s", diff)
	}
}

func TestForeignEnumFallsBackToDefaults(t *testing.T) {
	kv := kvs.NewMemory(kvs.Unlimited)
	kv.Set(models.ProjectsKey, `[{"id":"p1","title":"Odd","status":"Bogus"}]`)
	kv.Set(models.ContactButtonsKey, `[{"id":"c1","label":"Grave","icon":"skull","variant":"blue"}]`)

	s := newStore(t, kv)
	if diff := cmp.Diff(defaultProjects(), s.Projects()); diff != "" {
		t.Errorf("projects (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaultContactButtons(), s.ContactButtons()); diff != "" {
		t.Errorf("contacts (-want +got):\n%s", diff)
	}
}

func TestQuotaFailureKeepsSessionValue(t *testing.T) {
	kv := kvs.NewMemory(256)
	s := newStore(t, kv)

	big := strings.Repeat("x", 1024)
	got, err := s.SetImage("profile", big)
	if !apperr.IsWarning(err) || !errors.Is(err, apperr.ErrQuotaExceeded) {
		t.Fatalf("expected quota warning, got %v", err)
	}
	if got != big {
		t.Error("SetImage should return the value it applied")
	}
	if v, ok, _ := s.Override(models.OverrideImage, "profile"); !ok || v != big {
		t.Error("value should be served for the rest of the process")
	}

	projects, err := s.AddRecord(Projects, nil)
	if !apperr.IsWarning(err) {
		t.Fatalf("expected persist warning, got %v", err)
	}
	if n := len(projects.([]models.Project)); n != 6 {
		t.Errorf("in-memory projects = %d, want 6", n)
	}

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, ok, _ := s.Override(models.OverrideImage, "profile"); ok {
		t.Error("unpersisted override should not survive reload")
	}
	if n := len(s.Projects()); n != 5 {
		t.Errorf("projects after reload = %d, want 5", n)
	}
}

func TestLegacyArtMigration(t *testing.T) {
	kv := kvs.NewMemory(kvs.Unlimited)
	kv.Set(models.LegacyPortfolio3DKey, `["a.png","b.png"]`)

	s := newStore(t, kv)
	cats := s.ArtCategories()
	want := []models.ArtItem{
		{ID: "3d_mig_0", URL: "a.png", Type: models.MediaImage},
		{ID: "3d_mig_1", URL: "b.png", Type: models.MediaImage},
	}
	if diff := cmp.Diff(want, cats[0].Items); diff != "" {
		t.Errorf("migrated items (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaultArtCategories()[1], cats[1]); diff != "" {
		t.Errorf("2d category (-want +got):\n%s", diff)
	}
	if _, ok, _ := kv.Get(models.ArtCategoriesKey); !ok {
		t.Error("migration should persist the category layout")
	}
}

func TestNestedOperations(t *testing.T) {
	s := newStore(t, kvs.NewMemory(kvs.Unlimited))

	if _, err := s.UpdateSkill(0, 0, "Blender"); err != nil {
		t.Fatal(err)
	}
	if got := s.Skills()[0].Skills[0]; got != "Blender" {
		t.Errorf("skill = %q", got)
	}
	if _, err := s.RemoveSkill(0, 99); !errors.Is(err, apperr.ErrIndexOutOfRange) {
		t.Errorf("RemoveSkill out of range: %v", err)
	}

	shots := len(s.Projects()[0].Screenshots)
	if _, err := s.AddScreenshot(0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateProjectMedia(0, MediaScreenshot, "new.png", shots); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateProjectMedia(0, MediaMain, "main.png", 0); err != nil {
		t.Fatal(err)
	}
	p := s.Projects()[0]
	if p.Image != "main.png" || p.Screenshots[shots] != "new.png" {
		t.Errorf("project media = %q %v", p.Image, p.Screenshots)
	}
	if _, err := s.RemoveScreenshot(0, shots); err != nil {
		t.Fatal(err)
	}
	if len(s.Projects()[0].Screenshots) != shots {
		t.Error("RemoveScreenshot did not shrink the list")
	}
	if _, err := s.SetMedia("project_"+p.ID+"_main", "upload.mp4"); err != nil {
		t.Fatal(err)
	}
	if got := s.ProjectImage(s.Projects()[0]); got != "upload.mp4" {
		t.Errorf("ProjectImage = %q", got)
	}

	items := len(s.ArtCategories()[0].Items)
	if _, err := s.AddArtItem(0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateArtItemURL(0, items, "piece.png"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddGalleryImage(0, items, "g1.png"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddGalleryImage(0, items, "g2.png"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateGalleryImage(0, items, 0, "g0.png"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RemoveGalleryImage(0, items, 1); err != nil {
		t.Fatal(err)
	}
	it := s.ArtCategories()[0].Items[items]
	if it.URL != "piece.png" || !cmp.Equal(it.Gallery, []string{"g0.png"}) {
		t.Errorf("art item = %+v", it)
	}
	if _, err := s.RemoveGalleryImage(0, items, 5); !errors.Is(err, apperr.ErrIndexOutOfRange) {
		t.Errorf("RemoveGalleryImage out of range: %v", err)
	}
	if _, err := s.RemoveArtItem(0, items); err != nil {
		t.Fatal(err)
	}
	if len(s.ArtCategories()[0].Items) != items {
		t.Error("RemoveArtItem did not shrink the list")
	}
}

func TestUpdateRecordFieldErrors(t *testing.T) {
	s := newStore(t, kvs.NewMemory(kvs.Unlimited))
	if _, err := s.UpdateRecordField(Projects, 0, "nope", "x"); !errors.Is(err, apperr.ErrInvalidField) {
		t.Errorf("unknown field: %v", err)
	}
	if _, err := s.UpdateRecordField(Projects, 0, "status", "Abandoned"); !errors.Is(err, apperr.ErrInvalidValue) {
		t.Errorf("bad enum: %v", err)
	}
	if _, err := s.UpdateRecordField("widgets", 0, "title", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown repository: %v", err)
	}
	if _, err := s.AddRecord(ContactButtons, []byte(`{"label":"X","icon":"fax","variant":"blue"}`)); !errors.Is(err, apperr.ErrInvalidValue) {
		t.Errorf("invalid record: %v", err)
	}
}

func TestExportImport(t *testing.T) {
	src := newStore(t, kvs.NewMemory(kvs.Unlimited))
	src.AddRecord(Experiences, nil)
	src.SetText("hero_title", "Hi")

	b, err := src.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	kv := kvs.NewMemory(kvs.Unlimited)
	kv.Set("text_stale", "old")
	kv.Set(models.LegacyPortfolio2DKey, `["x"]`)
	dst := newStore(t, kv)
	if err := dst.Import(b); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if diff := cmp.Diff(src.Content(), dst.Content(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"text_hero_title": "Hi"}, dst.Overrides()); diff != "" {
		t.Errorf("overrides (-want +got):\n%s", diff)
	}
	if _, ok, _ := kv.Get(models.LegacyPortfolio2DKey); ok {
		t.Error("legacy gallery should be removed by import")
	}
}

func TestResetToDefaultsKeepsTheme(t *testing.T) {
	kv := kvs.NewMemory(kvs.Unlimited)
	s := newStore(t, kv)
	s.SetTheme("dark")
	s.AddRecord(Skills, nil)
	s.SetText("footer", "bye")

	if err := s.ResetToDefaults(); err != nil {
		t.Fatalf("ResetToDefaults: %v", err)
	}
	if diff := cmp.Diff(Defaults(), s.Content()); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
	keys, _ := kv.Keys()
	if diff := cmp.Diff([]string{models.ThemeKey}, keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if s.Theme() != "dark" {
		t.Errorf("theme = %q", s.Theme())
	}
	if err := s.SetTheme("neon"); !errors.Is(err, apperr.ErrInvalidValue) {
		t.Errorf("SetTheme(neon): %v", err)
	}
}

func TestTextSanitizer(t *testing.T) {
	s := newStore(t, kvs.NewMemory(kvs.Unlimited), WithTextSanitizer(StripMarkup()))
	got, err := s.SetText("bio", `Hi <script>alert(1)</script><b>there</b>`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hi there" {
		t.Errorf("sanitized = %q", got)
	}
	for _, plain := range []string{`R&D "Lead" I'm`, "I'm a game developer", "a < b > c"} {
		got, err := s.SetText("plain", plain)
		if err != nil {
			t.Fatal(err)
		}
		if got != plain {
			t.Errorf("SetText(%q) = %q", plain, got)
		}
		stored, _, _ := s.KV().Get("text_plain")
		if stored != plain {
			t.Errorf("stored %q, want %q", stored, plain)
		}
	}
	// Image values are URLs or data URIs and are stored verbatim.
	raw := "data:image/png;base64,<AAAA>"
	if got, _ := s.SetImage("logo", raw); got != raw {
		t.Errorf("image = %q", got)
	}
}
