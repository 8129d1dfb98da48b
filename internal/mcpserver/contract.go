package mcpserver

// BundleFormatContract describes the export bundle that the export_bundle
// tool returns and that the REST import endpoint and drop directory accept.
const BundleFormatContract = `# Folio Bundle Format

A bundle is a single JSON or YAML document holding every repository and
every loose override. Importing it replaces the stored content.

## Structure

` + "```" + `json
{
  "version": 1,
  "exportedAt": "2025-01-20T10:00:00Z",
  "content": {
    "skills":         [{"id": "skill_1", "title": "Tools", "skills": ["Blender"]}],
    "projects":       [{"id": "proj_1", "title": "...", "status": "Released", "screenshots": []}],
    "experiences":    [{"id": "exp_1", "company": "...", "type": "Work"}],
    "certificates":   [{"id": "cert_1", "title": "...", "issuer": "...", "date": "2024"}],
    "artCategories":  [{"id": "3d", "title": "3D Portfolio", "items": [{"id": "a1", "url": "...", "type": "image", "gallery": []}]}],
    "contactButtons": [{"id": "contact_1", "label": "Email", "url": "mailto:...", "icon": "mail", "variant": "orange"}]
  },
  "overrides": {
    "text_hero_title": "Hello",
    "img_avatar": "data:image/png;base64,...",
    "media_project_proj_1_main": "https://..."
  },
  "checksum": "sha256 hex digest"
}
` + "```" + `

## Rules

1. **version** must be 1.
2. **overrides** keys start with ` + "`" + `text_` + "`" + `, ` + "`" + `img_` + "`" + ` or ` + "`" + `media_` + "`" + `. Any other key rejects the bundle.
3. **checksum** is optional. When present it must match the digest of
   ` + "`" + `content` + "`" + ` and ` + "`" + `overrides` + "`" + `, so edit a bundle by dropping the field.
4. Records without an ` + "`" + `id` + "`" + ` get one on import.
5. Missing lists are imported as empty lists, not as the built-in defaults.
6. Override keys absent from the bundle are deleted on import. The theme is
   never part of a bundle.
7. Tagged fields only take their listed values: project ` + "`" + `status` + "`" + `
   (Prototype, WIP, Released), ` + "`" + `engineIcon` + "`" + ` (unity, unreal, godot,
   roblox, custom), experience ` + "`" + `type` + "`" + ` (Work, Organization), art item
   ` + "`" + `type` + "`" + ` (image, video) and contact ` + "`" + `icon` + "`" + `/` + "`" + `variant` + "`" + `. An unknown value
   rejects the bundle.
`
