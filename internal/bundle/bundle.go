// Package bundle encodes and decodes portfolio export files.
//
// A bundle carries the six repositories and every loose override key, so an
// exported file can be imported elsewhere to make edits permanent.
package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/kvs"
	"github.com/starford/folio/internal/models"
)

// Version is the current bundle layout version.
const Version = 1

// Format is an on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a query value or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("bundle: unknown format %q", s)
}

// IsBundlePath reports whether path has a bundle file extension.
func IsBundlePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Bundle is the export/import document.
type Bundle struct {
	Version    int               `json:"version" yaml:"version"`
	ExportedAt time.Time         `json:"exportedAt" yaml:"exportedAt"`
	Content    models.Content    `json:"content" yaml:"content"`
	Overrides  map[string]string `json:"overrides" yaml:"overrides"`
	Checksum   string            `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// New builds a sealed bundle from the given state.
func New(content models.Content, overrides map[string]string, now time.Time) (*Bundle, error) {
	b := &Bundle{
		Version:    Version,
		ExportedAt: now.UTC(),
		Content:    canonical(content.Clone()),
		Overrides:  make(map[string]string, len(overrides)),
	}
	for k, v := range overrides {
		b.Overrides[k] = v
	}
	sum, err := b.Digest()
	if err != nil {
		return nil, err
	}
	b.Checksum = sum
	return b, nil
}

// Digest returns the checksum over content and overrides.
func (b *Bundle) Digest() (string, error) {
	sum, err := checksum.JSON(struct {
		Content   models.Content    `json:"content"`
		Overrides map[string]string `json:"overrides"`
	}{canonical(b.Content), b.Overrides})
	if err != nil {
		return "", fmt.Errorf("bundle: digest: %w", err)
	}
	return sum, nil
}

// Encode serializes b in the given format.
func Encode(b *Bundle, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("bundle: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("bundle: encode yaml: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("bundle: unknown format %q", format)
}

// Decode parses a JSON or YAML bundle and verifies its checksum and keys.
func Decode(data []byte) (*Bundle, error) {
	var b Bundle
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("bundle: empty document: %w", apperr.ErrMalformedData)
	}
	var err error
	if trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &b)
	} else {
		err = yaml.Unmarshal(trimmed, &b)
	}
	if err != nil {
		return nil, fmt.Errorf("bundle: decode: %w: %w", apperr.ErrMalformedData, err)
	}
	if err := b.check(); err != nil {
		return nil, err
	}
	b.Content = canonical(b.Content)
	if b.Overrides == nil {
		b.Overrides = map[string]string{}
	}
	return &b, nil
}

func (b *Bundle) check() error {
	if b.Version < 1 || b.Version > Version {
		return fmt.Errorf("bundle: unsupported version %d: %w", b.Version, apperr.ErrMalformedData)
	}
	for k := range b.Overrides {
		if !kvs.HasPrefix(k, models.OverridePrefixes...) {
			return fmt.Errorf("bundle: override key %q outside text_/img_/media_: %w", k, apperr.ErrMalformedData)
		}
	}
	if err := b.Content.Validate(); err != nil {
		return fmt.Errorf("bundle: %w: %w", apperr.ErrMalformedData, err)
	}
	if b.Checksum == "" {
		return nil
	}
	sum, err := b.Digest()
	if err != nil {
		return err
	}
	if sum != b.Checksum {
		return fmt.Errorf("bundle: checksum mismatch: %w", apperr.ErrMalformedData)
	}
	return nil
}

// canonical replaces nil sequences with empty ones so JSON and YAML
// round trips produce the same digest.
func canonical(c models.Content) models.Content {
	c.Skills = nonNil(c.Skills)
	for i := range c.Skills {
		c.Skills[i].Skills = nonNil(c.Skills[i].Skills)
	}
	c.Projects = nonNil(c.Projects)
	for i := range c.Projects {
		c.Projects[i].Screenshots = nonNil(c.Projects[i].Screenshots)
	}
	c.Experiences = nonNil(c.Experiences)
	c.Certificates = nonNil(c.Certificates)
	c.ArtCategories = nonNil(c.ArtCategories)
	for i := range c.ArtCategories {
		c.ArtCategories[i].Items = nonNil(c.ArtCategories[i].Items)
	}
	c.ContactButtons = nonNil(c.ContactButtons)
	return c
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
