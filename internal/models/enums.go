package models

// ProjectStatus is the development stage shown on a project card.
type ProjectStatus string

const (
	StatusPrototype ProjectStatus = "Prototype"
	StatusWIP       ProjectStatus = "WIP"
	StatusReleased  ProjectStatus = "Released"
)

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPrototype, StatusWIP, StatusReleased:
		return true
	}
	return false
}

// Badge returns the color variant used to render the status badge.
func (s ProjectStatus) Badge() ColorVariant {
	switch s {
	case StatusPrototype:
		return VariantYellow
	case StatusWIP:
		return VariantOrange
	case StatusReleased:
		return VariantGreen
	}
	return VariantDark
}

// ExperienceType distinguishes work entries from organization entries.
type ExperienceType string

const (
	ExperienceWork         ExperienceType = "Work"
	ExperienceOrganization ExperienceType = "Organization"
)

func (t ExperienceType) Valid() bool {
	switch t {
	case ExperienceWork, ExperienceOrganization:
		return true
	}
	return false
}

// Accent returns the variant used for the experience card border.
func (t ExperienceType) Accent() ColorVariant {
	switch t {
	case ExperienceWork:
		return VariantOrange
	case ExperienceOrganization:
		return VariantGreen
	}
	return VariantDark
}

// EngineKind tags the engine icon shown next to a project. Empty means none.
type EngineKind string

const (
	EngineNone   EngineKind = ""
	EngineUnity  EngineKind = "unity"
	EngineUnreal EngineKind = "unreal"
	EngineGodot  EngineKind = "godot"
	EngineRoblox EngineKind = "roblox"
	EngineCustom EngineKind = "custom"
)

func (e EngineKind) Valid() bool {
	switch e {
	case EngineNone, EngineUnity, EngineUnreal, EngineGodot, EngineRoblox, EngineCustom:
		return true
	}
	return false
}

// Label returns the display name for the engine icon.
func (e EngineKind) Label() string {
	switch e {
	case EngineNone:
		return ""
	case EngineUnity:
		return "Unity"
	case EngineUnreal:
		return "Unreal Engine"
	case EngineGodot:
		return "Godot"
	case EngineRoblox:
		return "Roblox Studio"
	case EngineCustom:
		return "Custom Engine"
	}
	return ""
}

// IconKind is the icon rendered on a contact button.
type IconKind string

const (
	IconMail      IconKind = "mail"
	IconPhone     IconKind = "phone"
	IconInstagram IconKind = "instagram"
	IconLinkedIn  IconKind = "linkedin"
	IconGitHub    IconKind = "github"
	IconWhatsApp  IconKind = "whatsapp"
	IconDiscord   IconKind = "discord"
	IconItch      IconKind = "itch"
	IconLink      IconKind = "link"
)

func (i IconKind) Valid() bool {
	switch i {
	case IconMail, IconPhone, IconInstagram, IconLinkedIn, IconGitHub,
		IconWhatsApp, IconDiscord, IconItch, IconLink:
		return true
	}
	return false
}

// Glyph returns the icon name in the front-end icon set.
func (i IconKind) Glyph() string {
	switch i {
	case IconMail:
		return "Mail"
	case IconPhone:
		return "Phone"
	case IconInstagram:
		return "Instagram"
	case IconLinkedIn:
		return "Linkedin"
	case IconGitHub:
		return "Github"
	case IconWhatsApp:
		return "MessageCircle"
	case IconDiscord:
		return "MessageSquare"
	case IconItch:
		return "Gamepad2"
	case IconLink:
		return "Link"
	}
	return "Link"
}

// ColorVariant is the palette entry used by buttons and badges.
type ColorVariant string

const (
	VariantOrange ColorVariant = "orange"
	VariantGreen  ColorVariant = "green"
	VariantBlue   ColorVariant = "blue"
	VariantRed    ColorVariant = "red"
	VariantDark   ColorVariant = "dark"
	VariantYellow ColorVariant = "yellow"
)

func (v ColorVariant) Valid() bool {
	switch v {
	case VariantOrange, VariantGreen, VariantBlue, VariantRed, VariantDark, VariantYellow:
		return true
	}
	return false
}

// Class returns the CSS class applied for the variant.
func (v ColorVariant) Class() string {
	switch v {
	case VariantOrange:
		return "bg-brand-orange"
	case VariantGreen:
		return "bg-brand-green"
	case VariantBlue:
		return "bg-brand-blue"
	case VariantRed:
		return "bg-brand-red"
	case VariantDark:
		return "bg-brand-dark"
	case VariantYellow:
		return "bg-brand-yellow"
	}
	return "bg-brand-dark"
}

// MediaType hints how an art item is rendered.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

func (m MediaType) Valid() bool {
	switch m {
	case "", MediaImage, MediaVideo:
		return true
	}
	return false
}
