package models

import (
	"fmt"
	"time"
)

// Content aggregates the six structured repositories.
type Content struct {
	Skills         []SkillCategory `json:"skills" yaml:"skills"`
	Projects       []Project       `json:"projects" yaml:"projects"`
	Experiences    []Experience    `json:"experiences" yaml:"experiences"`
	Certificates   []Certificate   `json:"certificates" yaml:"certificates"`
	ArtCategories  []ArtCategory   `json:"artCategories" yaml:"artCategories"`
	ContactButtons []ContactButton `json:"contactButtons" yaml:"contactButtons"`
}

// Clone returns a deep copy of c.
func (c Content) Clone() Content {
	return Content{
		Skills:         CloneAll(c.Skills),
		Projects:       CloneAll(c.Projects),
		Experiences:    CloneAll(c.Experiences),
		Certificates:   CloneAll(c.Certificates),
		ArtCategories:  CloneAll(c.ArtCategories),
		ContactButtons: CloneAll(c.ContactButtons),
	}
}

// Validate checks every record of c. Missing identifiers are accepted since
// EnsureIDs fills them on load.
func (c Content) Validate() error {
	var zero time.Time
	for _, err := range []error{
		ValidateAll("skills", EnsureIDs(c.Skills, "skill", zero)),
		ValidateAll("projects", EnsureIDs(c.Projects, "proj", zero)),
		ValidateAll("experiences", EnsureIDs(c.Experiences, "exp", zero)),
		ValidateAll("certificates", EnsureIDs(c.Certificates, "cert", zero)),
		ValidateAll("artCategories", NormalizeArt(c.ArtCategories, zero)),
		ValidateAll("contactButtons", EnsureIDs(c.ContactButtons, "contact", zero)),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll runs Validate on each record and reports the first failure
// with its position.
func ValidateAll[T Record[T]](name string, list []T) error {
	for i, rec := range list {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w", name, i, err)
		}
	}
	return nil
}

// EnsureIDs assigns an identifier to every record that lacks one or whose
// identifier repeats an earlier record in the list. Generated identifiers
// follow prefix_<unix millis>_<index>.
func EnsureIDs[T Record[T]](list []T, prefix string, now time.Time) []T {
	if list == nil {
		return nil
	}
	out := make([]T, len(list))
	seen := make(map[string]struct{}, len(list))
	stamp := now.UnixMilli()
	for i, r := range list {
		id := r.RecordID()
		if _, dup := seen[id]; id == "" || dup {
			id = fmt.Sprintf("%s_%d_%d", prefix, stamp, i)
			// A stored record may already use the generated form.
			for n := 1; ; n++ {
				if _, taken := seen[id]; !taken {
					break
				}
				id = fmt.Sprintf("%s_%d_%d_%d", prefix, stamp, i, n)
			}
			r = r.WithRecordID(id)
		}
		seen[id] = struct{}{}
		out[i] = r
	}
	return out
}

// NormalizeArt runs EnsureIDs over the categories and over each category's
// items, using art_<categoryIndex> as the item prefix.
func NormalizeArt(cats []ArtCategory, now time.Time) []ArtCategory {
	cats = EnsureIDs(cats, "cat", now)
	for i := range cats {
		cats[i].Items = EnsureIDs(cats[i].Items, fmt.Sprintf("art_%d", i), now)
		if cats[i].Items == nil {
			cats[i].Items = []ArtItem{}
		}
	}
	return cats
}
