package models

import "fmt"

// Key namespaces in the key-value store.
const (
	TextPrefix  = "text_"
	ImagePrefix = "img_"
	MediaPrefix = "media_"
	RepoPrefix  = "user_"

	// ThemeKey holds the UI theme and is never part of an edit session.
	ThemeKey = "theme"
)

// Repository keys.
const (
	SkillsKey         = "user_skills"
	ProjectsKey       = "user_projects"
	ExperiencesKey    = "user_experiences"
	CertificatesKey   = "user_certificates"
	ArtCategoriesKey  = "user_art_categories"
	ContactButtonsKey = "user_contact_buttons"

	// Pre-gallery layout of the art section; migrated on load.
	LegacyPortfolio3DKey = "user_portfolio_3d"
	LegacyPortfolio2DKey = "user_portfolio_2d"
)

// OverridePrefixes are the loose override namespaces.
var OverridePrefixes = []string{TextPrefix, ImagePrefix, MediaPrefix}

// SessionPrefixes are the namespaces captured by an edit session snapshot.
var SessionPrefixes = []string{TextPrefix, ImagePrefix, MediaPrefix, RepoPrefix}

// RepositoryKeys lists every repository key, including legacy ones.
var RepositoryKeys = []string{
	SkillsKey, ProjectsKey, ExperiencesKey, CertificatesKey,
	ArtCategoriesKey, ContactButtonsKey,
	LegacyPortfolio3DKey, LegacyPortfolio2DKey,
}

// OverrideKind selects a loose override namespace.
type OverrideKind string

const (
	OverrideText  OverrideKind = "text"
	OverrideImage OverrideKind = "img"
	OverrideMedia OverrideKind = "media"
)

// Prefix returns the key namespace for k.
func (k OverrideKind) Prefix() (string, error) {
	switch k {
	case OverrideText:
		return TextPrefix, nil
	case OverrideImage:
		return ImagePrefix, nil
	case OverrideMedia:
		return MediaPrefix, nil
	}
	return "", fmt.Errorf("unknown override kind %q", string(k))
}

// Key builds the store key for a caller-supplied semantic key.
func (k OverrideKind) Key(name string) (string, error) {
	p, err := k.Prefix()
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("override key is empty")
	}
	return p + name, nil
}

// ProjectMediaKey is the media override key for a project's main media.
func ProjectMediaKey(projectID string) string {
	return MediaPrefix + "project_" + projectID + "_main"
}
