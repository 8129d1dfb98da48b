// Package models defines the portfolio content records.
//
// Records are value types. Every mutation helper returns a new value and
// Clone performs a deep copy, so a record held in a snapshot never aliases
// a slice that a repository later mutates.
package models

import (
	"fmt"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/apperr"
)

// Record is the contract shared by every repository element type. Validate
// checks identifiers and closed enums only; free-text fields may be empty.
type Record[T any] interface {
	RecordID() string
	WithRecordID(id string) T
	// WithField returns a copy with the string field named by its JSON name set.
	WithField(field, value string) (T, error)
	Clone() T
	Validate() error
}

func unknownField(kind, field string) error {
	return fmt.Errorf("%s.%s: %w", kind, field, apperr.ErrInvalidField)
}

func badEnum(kind, field, value string) error {
	return fmt.Errorf("%s.%s = %q: %w", kind, field, value, apperr.ErrInvalidValue)
}

// SkillCategory groups positional skill labels under a title.
type SkillCategory struct {
	ID     string   `json:"id" yaml:"id"`
	Title  string   `json:"title" yaml:"title"`
	Skills []string `json:"skills" yaml:"skills"`
}

func (c SkillCategory) RecordID() string { return c.ID }

func (c SkillCategory) WithRecordID(id string) SkillCategory {
	c.ID = id
	return c
}

func (c SkillCategory) Clone() SkillCategory {
	c.Skills = slices.Clone(c.Skills)
	return c
}

func (c SkillCategory) WithField(field, value string) (SkillCategory, error) {
	c = c.Clone()
	switch field {
	case "title":
		c.Title = value
	default:
		return c, unknownField("skill", field)
	}
	return c, nil
}

func (c SkillCategory) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
	)
}

// Project is a game or software project card.
type Project struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Category    string        `json:"category" yaml:"category"`
	Engine      string        `json:"engine" yaml:"engine"`
	EngineIcon  EngineKind    `json:"engineIcon,omitempty" yaml:"engineIcon,omitempty"`
	Description string        `json:"description" yaml:"description"`
	Role        string        `json:"role" yaml:"role"`
	Status      ProjectStatus `json:"status" yaml:"status"`
	Link        string        `json:"link" yaml:"link"`
	Image       string        `json:"image" yaml:"image"`
	Screenshots []string      `json:"screenshots" yaml:"screenshots"`
}

func (p Project) RecordID() string { return p.ID }

func (p Project) WithRecordID(id string) Project {
	p.ID = id
	return p
}

func (p Project) Clone() Project {
	p.Screenshots = slices.Clone(p.Screenshots)
	return p
}

func (p Project) WithField(field, value string) (Project, error) {
	p = p.Clone()
	switch field {
	case "title":
		p.Title = value
	case "category":
		p.Category = value
	case "engine":
		p.Engine = value
	case "engineIcon":
		if !EngineKind(value).Valid() {
			return p, badEnum("project", field, value)
		}
		p.EngineIcon = EngineKind(value)
	case "description":
		p.Description = value
	case "role":
		p.Role = value
	case "status":
		if !ProjectStatus(value).Valid() {
			return p, badEnum("project", field, value)
		}
		p.Status = ProjectStatus(value)
	case "link":
		p.Link = value
	case "image":
		p.Image = value
	default:
		return p, unknownField("project", field)
	}
	return p, nil
}

func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Status, validation.Required,
			validation.In(StatusPrototype, StatusWIP, StatusReleased)),
		validation.Field(&p.EngineIcon,
			validation.In(EngineUnity, EngineUnreal, EngineGodot, EngineRoblox, EngineCustom)),
	)
}

// Experience is a work or organization entry.
type Experience struct {
	ID          string         `json:"id" yaml:"id"`
	Company     string         `json:"company" yaml:"company"`
	Role        string         `json:"role" yaml:"role"`
	Period      string         `json:"period" yaml:"period"`
	Description string         `json:"description" yaml:"description"`
	KeyNotes    string         `json:"keyNotes" yaml:"keyNotes"`
	Type        ExperienceType `json:"type" yaml:"type"`
	Image       string         `json:"image,omitempty" yaml:"image,omitempty"`
}

func (e Experience) RecordID() string { return e.ID }

func (e Experience) WithRecordID(id string) Experience {
	e.ID = id
	return e
}

func (e Experience) Clone() Experience { return e }

func (e Experience) WithField(field, value string) (Experience, error) {
	switch field {
	case "company":
		e.Company = value
	case "role":
		e.Role = value
	case "period":
		e.Period = value
	case "description":
		e.Description = value
	case "keyNotes":
		e.KeyNotes = value
	case "type":
		if !ExperienceType(value).Valid() {
			return e, badEnum("experience", field, value)
		}
		e.Type = ExperienceType(value)
	case "image":
		e.Image = value
	default:
		return e, unknownField("experience", field)
	}
	return e, nil
}

func (e Experience) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Type, validation.Required,
			validation.In(ExperienceWork, ExperienceOrganization)),
	)
}

// Certificate is an award or course certificate.
type Certificate struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Issuer string `json:"issuer" yaml:"issuer"`
	Date   string `json:"date" yaml:"date"`
	Image  string `json:"image" yaml:"image"`
}

func (c Certificate) RecordID() string { return c.ID }

func (c Certificate) WithRecordID(id string) Certificate {
	c.ID = id
	return c
}

func (c Certificate) Clone() Certificate { return c }

func (c Certificate) WithField(field, value string) (Certificate, error) {
	switch field {
	case "title":
		c.Title = value
	case "issuer":
		c.Issuer = value
	case "date":
		c.Date = value
	case "image":
		c.Image = value
	default:
		return c, unknownField("certificate", field)
	}
	return c, nil
}

func (c Certificate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
	)
}

// ArtItem is one piece in an art gallery. Gallery holds extra images shown
// when the item is opened.
type ArtItem struct {
	ID          string    `json:"id" yaml:"id"`
	URL         string    `json:"url" yaml:"url"`
	Gallery     []string  `json:"gallery,omitempty" yaml:"gallery,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Type        MediaType `json:"type,omitempty" yaml:"type,omitempty"`
}

func (a ArtItem) RecordID() string { return a.ID }

func (a ArtItem) WithRecordID(id string) ArtItem {
	a.ID = id
	return a
}

func (a ArtItem) Clone() ArtItem {
	a.Gallery = slices.Clone(a.Gallery)
	return a
}

func (a ArtItem) WithField(field, value string) (ArtItem, error) {
	a = a.Clone()
	switch field {
	case "url":
		a.URL = value
	case "description":
		a.Description = value
	case "type":
		if !MediaType(value).Valid() {
			return a, badEnum("artItem", field, value)
		}
		a.Type = MediaType(value)
	default:
		return a, unknownField("artItem", field)
	}
	return a, nil
}

func (a ArtItem) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.Type, validation.In(MediaImage, MediaVideo)),
	)
}

// ArtCategory is a titled gallery of art items.
type ArtCategory struct {
	ID    string    `json:"id" yaml:"id"`
	Title string    `json:"title" yaml:"title"`
	Items []ArtItem `json:"items" yaml:"items"`
}

func (c ArtCategory) RecordID() string { return c.ID }

func (c ArtCategory) WithRecordID(id string) ArtCategory {
	c.ID = id
	return c
}

func (c ArtCategory) Clone() ArtCategory {
	c.Items = CloneAll(c.Items)
	return c
}

func (c ArtCategory) WithField(field, value string) (ArtCategory, error) {
	c = c.Clone()
	switch field {
	case "title":
		c.Title = value
	default:
		return c, unknownField("artCategory", field)
	}
	return c, nil
}

func (c ArtCategory) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Items),
	)
}

// ContactButton is a link button in the contact section.
type ContactButton struct {
	ID          string       `json:"id" yaml:"id"`
	Label       string       `json:"label" yaml:"label"`
	DisplayText string       `json:"displayText" yaml:"displayText"`
	URL         string       `json:"url" yaml:"url"`
	Icon        IconKind     `json:"icon" yaml:"icon"`
	Variant     ColorVariant `json:"variant" yaml:"variant"`
}

func (b ContactButton) RecordID() string { return b.ID }

func (b ContactButton) WithRecordID(id string) ContactButton {
	b.ID = id
	return b
}

func (b ContactButton) Clone() ContactButton { return b }

func (b ContactButton) WithField(field, value string) (ContactButton, error) {
	switch field {
	case "label":
		b.Label = value
	case "displayText":
		b.DisplayText = value
	case "url":
		b.URL = value
	case "icon":
		if !IconKind(value).Valid() {
			return b, badEnum("contactButton", field, value)
		}
		b.Icon = IconKind(value)
	case "variant":
		if !ColorVariant(value).Valid() {
			return b, badEnum("contactButton", field, value)
		}
		b.Variant = ColorVariant(value)
	default:
		return b, unknownField("contactButton", field)
	}
	return b, nil
}

func (b ContactButton) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Icon, validation.Required, validation.By(func(any) error {
			if !b.Icon.Valid() {
				return fmt.Errorf("unknown icon %q", b.Icon)
			}
			return nil
		})),
		validation.Field(&b.Variant, validation.Required, validation.By(func(any) error {
			if !b.Variant.Valid() {
				return fmt.Errorf("unknown variant %q", b.Variant)
			}
			return nil
		})),
	)
}

// CloneAll deep-copies a record sequence. A nil input stays nil.
func CloneAll[T Record[T]](list []T) []T {
	if list == nil {
		return nil
	}
	out := make([]T, len(list))
	for i, r := range list {
		out[i] = r.Clone()
	}
	return out
}
