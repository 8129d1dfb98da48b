package content

import (
	"fmt"
	"slices"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// MediaSlot selects which project image UpdateProjectMedia replaces.
type MediaSlot string

const (
	MediaMain       MediaSlot = "main"
	MediaScreenshot MediaSlot = "screenshot"
)

func outOfRange(what string, i int) error {
	return fmt.Errorf("content: %s[%d]: %w", what, i, apperr.ErrIndexOutOfRange)
}

// Skills

// AddSkill appends the placeholder label to category cat.
func (s *Store) AddSkill(cat int) ([]models.SkillCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills.Update(cat, func(c models.SkillCategory) (models.SkillCategory, error) {
		c.Skills = append(c.Skills, NewSkillLabel)
		return c, nil
	})
}

// UpdateSkill replaces the label at position i of category cat.
func (s *Store) UpdateSkill(cat, i int, value string) ([]models.SkillCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills.Update(cat, func(c models.SkillCategory) (models.SkillCategory, error) {
		if i < 0 || i >= len(c.Skills) {
			return c, outOfRange("skill", i)
		}
		c.Skills[i] = value
		return c, nil
	})
}

// RemoveSkill deletes the label at position i of category cat.
func (s *Store) RemoveSkill(cat, i int) ([]models.SkillCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills.Update(cat, func(c models.SkillCategory) (models.SkillCategory, error) {
		if i < 0 || i >= len(c.Skills) {
			return c, outOfRange("skill", i)
		}
		c.Skills = slices.Delete(c.Skills, i, i+1)
		return c, nil
	})
}

// Projects

// AddScreenshot appends the placeholder screenshot to project p.
func (s *Store) AddScreenshot(p int) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projs.Update(p, func(pr models.Project) (models.Project, error) {
		pr.Screenshots = append(pr.Screenshots, NewScreenshotURL)
		return pr, nil
	})
}

// RemoveScreenshot deletes screenshot sh of project p.
func (s *Store) RemoveScreenshot(p, sh int) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projs.Update(p, func(pr models.Project) (models.Project, error) {
		if sh < 0 || sh >= len(pr.Screenshots) {
			return pr, outOfRange("screenshot", sh)
		}
		pr.Screenshots = slices.Delete(pr.Screenshots, sh, sh+1)
		return pr, nil
	})
}

// UpdateProjectMedia replaces the main image of project p, or screenshot sh
// when slot is MediaScreenshot.
func (s *Store) UpdateProjectMedia(p int, slot MediaSlot, url string, sh int) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projs.Update(p, func(pr models.Project) (models.Project, error) {
		switch slot {
		case MediaMain:
			pr.Image = url
		case MediaScreenshot:
			if sh < 0 || sh >= len(pr.Screenshots) {
				return pr, outOfRange("screenshot", sh)
			}
			pr.Screenshots[sh] = url
		default:
			return pr, fmt.Errorf("content: media slot %q: %w", slot, apperr.ErrInvalidValue)
		}
		return pr, nil
	})
}

// ProjectImage resolves the main image of a project. An uploaded
// media_project_<id>_main override takes precedence over the record.
func (s *Store) ProjectImage(p models.Project) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.loose[models.ProjectMediaKey(p.ID)]; ok && v != "" {
		return v
	}
	return p.Image
}

// Art

func (s *Store) updateArtItem(cat, i int, fn func(models.ArtItem) (models.ArtItem, error)) ([]models.ArtCategory, error) {
	return s.art.Update(cat, func(c models.ArtCategory) (models.ArtCategory, error) {
		if i < 0 || i >= len(c.Items) {
			return c, outOfRange("artItem", i)
		}
		item, err := fn(c.Items[i])
		if err != nil {
			return c, err
		}
		c.Items[i] = item
		return c, nil
	})
}

// AddArtItem appends a placeholder image item to category cat.
func (s *Store) AddArtItem(cat int) ([]models.ArtCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.art.Update(cat, func(c models.ArtCategory) (models.ArtCategory, error) {
		c.Items = append(c.Items, models.ArtItem{
			ID:   fmt.Sprintf("art_item_%d", s.now().UnixMilli()),
			URL:  NewArtItemURL,
			Type: models.MediaImage,
		})
		return c, nil
	})
}

// RemoveArtItem deletes item i of category cat.
func (s *Store) RemoveArtItem(cat, i int) ([]models.ArtCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.art.Update(cat, func(c models.ArtCategory) (models.ArtCategory, error) {
		if i < 0 || i >= len(c.Items) {
			return c, outOfRange("artItem", i)
		}
		c.Items = slices.Delete(c.Items, i, i+1)
		return c, nil
	})
}

// UpdateArtItemURL replaces the media of item i in category cat.
func (s *Store) UpdateArtItemURL(cat, i int, url string) ([]models.ArtCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateArtItem(cat, i, func(it models.ArtItem) (models.ArtItem, error) {
		it.URL = url
		return it, nil
	})
}

// AddGalleryImage appends url to the gallery of item i in category cat.
func (s *Store) AddGalleryImage(cat, i int, url string) ([]models.ArtCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateArtItem(cat, i, func(it models.ArtItem) (models.ArtItem, error) {
		it.Gallery = append(it.Gallery, url)
		return it, nil
	})
}

// UpdateGalleryImage replaces gallery image g of item i in category cat.
func (s *Store) UpdateGalleryImage(cat, i, g int, url string) ([]models.ArtCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateArtItem(cat, i, func(it models.ArtItem) (models.ArtItem, error) {
		if g < 0 || g >= len(it.Gallery) {
			return it, outOfRange("gallery", g)
		}
		it.Gallery[g] = url
		return it, nil
	})
}

// RemoveGalleryImage deletes gallery image g of item i in category cat.
func (s *Store) RemoveGalleryImage(cat, i, g int) ([]models.ArtCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateArtItem(cat, i, func(it models.ArtItem) (models.ArtItem, error) {
		if g < 0 || g >= len(it.Gallery) {
			return it, outOfRange("gallery", g)
		}
		it.Gallery = slices.Delete(it.Gallery, g, g+1)
		return it, nil
	})
}

// Loose override shorthands.

func (s *Store) SetText(name, value string) (string, error) {
	return s.SetOverride(models.OverrideText, name, value)
}

func (s *Store) SetImage(name, value string) (string, error) {
	return s.SetOverride(models.OverrideImage, name, value)
}

func (s *Store) SetMedia(name, value string) (string, error) {
	return s.SetOverride(models.OverrideMedia, name, value)
}
