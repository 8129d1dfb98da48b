package api

import (
	"github.com/starford/folio/internal/portfolioservice"
	"github.com/starford/folio/internal/session"
)

// StateResponse is the full page state (aliased from the domain layer).
type StateResponse = portfolioservice.State

// SessionStatus is the edit session state (aliased from the domain layer).
type SessionStatus = session.Status

// TriggerRequest is the contact form submission checked by the trigger.
type TriggerRequest = session.Form

// MutationResponse wraps the new state of whatever a mutation changed.
type MutationResponse struct {
	Data    any    `json:"data"`
	Warning string `json:"warning,omitempty" example:"change applied for this session only: storage quota exceeded"`
}

// UpdateFieldRequest sets one string field of a record.
type UpdateFieldRequest struct {
	Field string `json:"field" example:"title" validate:"required"`
	Value string `json:"value" example:"Endless Bus" validate:"required"`
}

// ValueRequest carries a single string value: a skill label, a URL or an
// override value.
type ValueRequest struct {
	Value string `json:"value" example:"Blender" validate:"required"`
}

// ProjectMediaRequest replaces a project's main image or a screenshot.
type ProjectMediaRequest struct {
	Slot  string `json:"slot" example:"screenshot" enums:"main,screenshot" validate:"required"`
	URL   string `json:"url" example:"https://picsum.photos/seed/s1/300/200" validate:"required"`
	Index int    `json:"index" example:"0"`
}

// ThemeRequest sets the UI theme.
type ThemeRequest struct {
	Theme string `json:"theme" example:"dark" enums:"light,dark" validate:"required"`
}

// OverrideResponse is a single loose override.
type OverrideResponse struct {
	Key   string `json:"key" example:"text_hero_title" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// TriggerResponse reports whether a form submission opened a session.
type TriggerResponse struct {
	Matched bool          `json:"matched"`
	Session SessionStatus `json:"session"`
}

// ImportResponse summarizes an applied bundle.
type ImportResponse struct {
	Version   int `json:"version" example:"1"`
	Records   int `json:"records" example:"27"`
	Overrides int `json:"overrides" example:"4"`
}
