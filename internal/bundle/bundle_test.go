package bundle

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

func sample(t *testing.T) *Bundle {
	t.Helper()
	content := models.Content{
		Skills: []models.SkillCategory{{ID: "skill_1", Title: "Tools", Skills: []string{"Blender"}}},
		Projects: []models.Project{{
			ID: "proj_1", Title: "Endless Bus", Status: models.StatusPrototype,
			EngineIcon: models.EngineUnity, Screenshots: []string{"a.png"},
		}},
		ArtCategories: []models.ArtCategory{{
			ID: "3d", Title: "3D", Items: []models.ArtItem{{ID: "i", URL: "u", Gallery: []string{"g1", "g2"}}},
		}},
	}
	overrides := map[string]string{"text_hero_title": "Hi: there", "img_profile": "data:image/png;base64,AAAA"}
	b, err := New(content, overrides, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestEncodeDecode(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			b := sample(t)
			data, err := Encode(b, f)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(b.Content, got.Content, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("content mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(b.Overrides, got.Overrides); diff != "" {
				t.Errorf("overrides mismatch (-want +got):\n%s", diff)
			}
			if !got.ExportedAt.Equal(b.ExportedAt) {
				t.Errorf("exportedAt = %v", got.ExportedAt)
			}
		})
	}
}

func TestDecodeRejectsTamperedChecksum(t *testing.T) {
	b := sample(t)
	b.Overrides["text_hero_title"] = "changed after sealing"
	data, _ := Encode(b, FormatJSON)
	if _, err := Decode(data); !errors.Is(err, apperr.ErrMalformedData) {
		t.Errorf("expected ErrMalformedData, got %v", err)
	}
}

func TestDecodeWithoutChecksum(t *testing.T) {
	doc := `
version: 1
content:
  certificates:
    - id: cert_1
      title: Hand written
overrides:
  text_footer: bye
`
	b, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(b.Content.Certificates) != 1 || b.Content.Certificates[0].Title != "Hand written" {
		t.Errorf("certificates = %+v", b.Content.Certificates)
	}
	if b.Content.Projects == nil {
		t.Error("missing collections should decode as empty, not nil")
	}
}

func TestDecodeRejectsForeignKeys(t *testing.T) {
	doc := `{"version":1,"content":{},"overrides":{"theme":"dark"}}`
	_, err := Decode([]byte(doc))
	if !errors.Is(err, apperr.ErrMalformedData) || !strings.Contains(err.Error(), "theme") {
		t.Errorf("expected key rejection, got %v", err)
	}
}

func TestDecodeRejectsUnknownEnums(t *testing.T) {
	for name, doc := range map[string]string{
		"status": `{"version":1,"content":{"projects":[{"title":"X","status":"Bogus"}]}}`,
		"icon":   `{"version":1,"content":{"contactButtons":[{"label":"X","icon":"skull","variant":"blue"}]}}`,
		"art":    `{"version":1,"content":{"artCategories":[{"title":"3D","items":[{"url":"a.png","type":"gif"}]}]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(doc)); !errors.Is(err, apperr.ErrMalformedData) {
				t.Errorf("expected ErrMalformedData, got %v", err)
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, doc := range []string{"", "{not json", "version: 9\n"} {
		if _, err := Decode([]byte(doc)); !errors.Is(err, apperr.ErrMalformedData) {
			t.Errorf("Decode(%q) err = %v", doc, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatJSON, "json": FormatJSON, ".yml": FormatYAML, "YAML": FormatYAML}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
	if !IsBundlePath("drop/export.yaml") || IsBundlePath("notes.md") {
		t.Error("IsBundlePath")
	}
}
