package portfolioservice

import (
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/models"
)

// View carries the render hints a page needs next to the raw records:
// resolved project media and the classes and glyphs behind each enum tag.
// Entries are in record order.
type View struct {
	Projects    []ProjectView    `json:"projects"`
	Experiences []ExperienceView `json:"experiences"`
	Contacts    []ContactView    `json:"contacts"`
}

type ProjectView struct {
	ID          string `json:"id"`
	Image       string `json:"image"`
	StatusClass string `json:"statusClass"`
	EngineLabel string `json:"engineLabel,omitempty"`
}

type ExperienceView struct {
	ID          string `json:"id"`
	AccentClass string `json:"accentClass"`
}

type ContactView struct {
	ID    string `json:"id"`
	Glyph string `json:"glyph"`
	Class string `json:"class"`
}

func buildView(store *content.Store, c models.Content) View {
	v := View{
		Projects:    make([]ProjectView, 0, len(c.Projects)),
		Experiences: make([]ExperienceView, 0, len(c.Experiences)),
		Contacts:    make([]ContactView, 0, len(c.ContactButtons)),
	}
	for _, p := range c.Projects {
		v.Projects = append(v.Projects, ProjectView{
			ID:          p.ID,
			Image:       store.ProjectImage(p),
			StatusClass: p.Status.Badge().Class(),
			EngineLabel: p.EngineIcon.Label(),
		})
	}
	for _, e := range c.Experiences {
		v.Experiences = append(v.Experiences, ExperienceView{ID: e.ID, AccentClass: e.Type.Accent().Class()})
	}
	for _, b := range c.ContactButtons {
		v.Contacts = append(v.Contacts, ContactView{ID: b.ID, Glyph: b.Icon.Glyph(), Class: b.Variant.Class()})
	}
	return v
}
