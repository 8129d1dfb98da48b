package content

import (
	"fmt"

	"github.com/starford/folio/internal/models"
)

// Built-in dataset shown until the owner persists an edit.

func defaultSkills() []models.SkillCategory {
	return []models.SkillCategory{
		{
			ID:    "skill_1",
			Title: "Hard Skills",
			Skills: []string{"3D Modeling", "UV Mapping", "2D Art & Pixel Art", "Texturing",
				"C# & Lua Programming", "Technical Artist", "Rigging", "Animation",
				"Graphic Design", "Video Editing", "Game Design"},
		},
		{
			ID:     "skill_2",
			Title:  "Soft Skills",
			Skills: []string{"Teamwork", "Adaptability", "Tech-Savvy", "Problem Solving", "Creativity", "Communication Skills"},
		},
		{
			ID:     "skill_3",
			Title:  "Tools",
			Skills: []string{"Blender", "Adobe Photoshop & Illustrator", "Unity Engine", "Roblox Studio", "Aseprite", "Github"},
		},
	}
}

func defaultProjects() []models.Project {
	project := func(n int, title, category, desc, role string, status models.ProjectStatus, link, seed string) models.Project {
		return models.Project{
			ID:          fmt.Sprintf("proj_%d", n),
			Title:       title,
			Category:    category,
			Engine:      "Unity",
			EngineIcon:  models.EngineUnity,
			Description: desc,
			Role:        role,
			Status:      status,
			Link:        link,
			Image:       "https://picsum.photos/seed/" + seed + "/600/400",
			Screenshots: []string{
				"https://picsum.photos/seed/" + seed + "1/300/200",
				"https://picsum.photos/seed/" + seed + "2/300/200",
			},
		}
	}
	return []models.Project{
		project(1, "Endless Bus", "Unity Game",
			"A 2D side-scroller developed during GAMESEED 2025 Game Jam (Top 15). Fast-paced endless adventure.",
			"Game Programmer & Designer", models.StatusPrototype, "https://xynite.itch.io/endlessbus", "endlessbus"),
		project(2, "Weird World", "Unity Game",
			"Built for Brackeys Game Jam 2025.1. A world that changes the longer players continue to play.",
			"Game Artist & Programmer", models.StatusPrototype, "https://xynite.itch.io/weirdworld", "weirdworld"),
		project(3, "Folktale Odyssey", "Unity Game",
			"Narrative-driven adventure game based on Indonesian folklore. Developed as a college assignment.",
			"Game Artist & Designer", models.StatusPrototype, "https://xynite.itch.io/folktale-odyssey", "folktale"),
		project(4, "Seed & Sell", "Mobile Game",
			"Simple mobile farming simulation game where players inherit an abandoned farm.",
			"3D & UI Artist, Programmer", models.StatusPrototype, "https://adamharyanto.itch.io/seedsell", "seedsell"),
		project(5, "Paradrinks", "Studio Project",
			"Mobile simulation game where players run a beverage seller van. Currently in development under Xynite Studio.",
			"Designer, Programmer, Artist", models.StatusWIP, "#", "paradrinks"),
	}
}

func defaultExperiences() []models.Experience {
	return []models.Experience{
		{
			ID:          "exp_1",
			Company:     "Xynite Studio",
			Role:        "Founder & Developer",
			Period:      "2023 - Present",
			Description: "Built a small indie game studio. Lead Project Manager, Game Artist (3D/Technical), and Game Programmer. Focusing on gameplay mechanics and implementation.",
			KeyNotes:    "Project Manager, 3D Artist, Programmer C# & Lua",
			Type:        models.ExperienceWork,
			Image:       "https://picsum.photos/seed/xynite/100/100",
		},
		{
			ID:          "exp_2",
			Company:     "Game Technology Student Union",
			Role:        "Digital Creative",
			Period:      "2024 - 2026",
			Description: "Member of the daily executive board (Digital Creative Division). Responsible for creating designs, logos, GSM, managing social media, and event organization.",
			KeyNotes:    "Graphic Design, Teamwork, Social Media Manager",
			Type:        models.ExperienceOrganization,
			Image:       "https://picsum.photos/seed/himagatek/100/100",
		},
		{
			ID:          "exp_3",
			Company:     "Freelance 3D Modeler",
			Role:        "3D Asset Modeler",
			Period:      "2019 - 2023",
			Description: "Created assets for Roblox and non-game projects. Delivered assets meeting artistic vision and technical standards.",
			KeyNotes:    "3D Modeling, Client Communication, Adaptability",
			Type:        models.ExperienceWork,
			Image:       "https://picsum.photos/seed/freelance/100/100",
		},
		{
			ID:          "exp_4",
			Company:     "Institut Digital Bisnis Indonesia",
			Role:        "Digital Creative Intern",
			Period:      "2021 - 2022",
			Description: "Part of the Creative Team. Roles included social media management, graphic design, video editing, videography, and event documentation.",
			KeyNotes:    "Graphic Design, Video Editing, Content Creation",
			Type:        models.ExperienceWork,
			Image:       "https://picsum.photos/seed/idb/100/100",
		},
	}
}

func defaultCertificates() []models.Certificate {
	return []models.Certificate{
		{ID: "cert_1", Title: "Top 15 Gameseed 2025", Issuer: "Gameseed", Date: "2025", Image: "https://picsum.photos/seed/cert1/600/400"},
		{ID: "cert_2", Title: "Unity Game Developer Course", Issuer: "Unity / Udemy", Date: "2024", Image: "https://picsum.photos/seed/cert2/600/400"},
	}
}

var (
	portfolio3D = []string{
		"https://picsum.photos/seed/3d1/400/300",
		"https://picsum.photos/seed/3d2/400/300",
		"https://picsum.photos/seed/3d3/400/300",
		"https://picsum.photos/seed/3d4/400/300",
		"https://picsum.photos/seed/3d5/400/300",
		"https://picsum.photos/seed/3d6/400/300",
	}
	portfolio2D = []string{
		"https://picsum.photos/seed/2d1/300/400",
		"https://picsum.photos/seed/2d2/300/400",
		"https://picsum.photos/seed/2d3/300/400",
	}
)

func artItems(urls []string, prefix string) []models.ArtItem {
	items := make([]models.ArtItem, len(urls))
	for i, u := range urls {
		items[i] = models.ArtItem{ID: fmt.Sprintf("%s_%d", prefix, i), URL: u, Type: models.MediaImage}
	}
	return items
}

func defaultArtCategories() []models.ArtCategory {
	return []models.ArtCategory{
		{ID: "3d", Title: "3D Portfolio", Items: artItems(portfolio3D, "3d_init")},
		{ID: "2d", Title: "2D Portfolio", Items: artItems(portfolio2D, "2d_init")},
	}
}

func defaultContactButtons() []models.ContactButton {
	return []models.ContactButton{
		{ID: "contact_1", Label: "Email", DisplayText: "adamharyanto05@gmail.com", URL: "mailto:adamharyanto05@gmail.com", Icon: models.IconMail, Variant: models.VariantOrange},
		{ID: "contact_2", Label: "WhatsApp", DisplayText: "+62 813 9872 1857", URL: "https://wa.me/6281398721857", Icon: models.IconWhatsApp, Variant: models.VariantGreen},
		{ID: "contact_3", Label: "Instagram", DisplayText: "@xynite.x", URL: "https://instagram.com/xynite.x", Icon: models.IconInstagram, Variant: models.VariantRed},
		{ID: "contact_4", Label: "LinkedIn", DisplayText: "adamharyanto", URL: "https://linkedin.com/in/adamharyanto", Icon: models.IconLinkedIn, Variant: models.VariantBlue},
		{ID: "contact_5", Label: "itch.io", DisplayText: "adamharyanto.itch.io", URL: "https://adamharyanto.itch.io", Icon: models.IconItch, Variant: models.VariantDark},
		{ID: "contact_6", Label: "GitHub", DisplayText: "adamharyanto", URL: "https://github.com/adamharyanto", Icon: models.IconGitHub, Variant: models.VariantDark},
		{ID: "contact_7", Label: "Discord", DisplayText: "Join the server", URL: "https://discord.gg/VxKA5gFTS7", Icon: models.IconDiscord, Variant: models.VariantYellow},
	}
}

// Defaults returns a fresh copy of the built-in dataset.
func Defaults() models.Content {
	return models.Content{
		Skills:         defaultSkills(),
		Projects:       defaultProjects(),
		Experiences:    defaultExperiences(),
		Certificates:   defaultCertificates(),
		ArtCategories:  defaultArtCategories(),
		ContactButtons: defaultContactButtons(),
	}
}

// Placeholders created by the "add" actions in edit mode.

// NewSkillLabel is appended by AddSkill.
const NewSkillLabel = "New Skill"

// NewScreenshotURL is appended by AddScreenshot.
const NewScreenshotURL = "https://picsum.photos/seed/newshot/300/200"

// NewArtItemURL is the media of an item appended by AddArtItem.
const NewArtItemURL = "https://picsum.photos/seed/newart/400/300"

func newSkillCategory() models.SkillCategory {
	return models.SkillCategory{Title: "New Category", Skills: []string{NewSkillLabel}}
}

func newProject() models.Project {
	return models.Project{
		Title:       "New Project Title",
		Category:    "Game Category",
		Engine:      "Engine Name",
		Description: "Description of your awesome new project goes here.",
		Role:        "Your Role",
		Status:      models.StatusWIP,
		Link:        "#",
		Image:       "https://picsum.photos/seed/newproject/600/400",
		Screenshots: []string{"https://picsum.photos/seed/s1/300/200", "https://picsum.photos/seed/s2/300/200"},
	}
}

func newExperience() models.Experience {
	return models.Experience{
		Company:     "New Company",
		Role:        "New Role",
		Period:      "2025 - Present",
		Description: "Description of your experience.",
		KeyNotes:    "Key skills used",
		Type:        models.ExperienceWork,
		Image:       "https://picsum.photos/seed/newexp/100/100",
	}
}

func newCertificate() models.Certificate {
	return models.Certificate{
		Title:  "New Certificate",
		Issuer: "Issuer Name",
		Date:   "2025",
		Image:  "https://picsum.photos/seed/newcert/600/400",
	}
}

func newArtCategory() models.ArtCategory {
	return models.ArtCategory{Title: "New Portfolio Group", Items: []models.ArtItem{}}
}

func newContactButton() models.ContactButton {
	return models.ContactButton{
		Label:       "New Button",
		DisplayText: "@username",
		URL:         "https://example.com",
		Icon:        models.IconLink,
		Variant:     models.VariantBlue,
	}
}
