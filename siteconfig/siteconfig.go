// Package siteconfig holds the document model for a generated site: theme,
// ordered pages, and the ordered, typed sections on each page. Everything in
// this package is pure data plus pure functions; mutation helpers return a new
// SiteConfig and never modify their input.
package siteconfig

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BorderRadius is the closed set of corner-rounding presets a theme may use.
type BorderRadius string

const (
	RadiusNone BorderRadius = "none"
	RadiusSm   BorderRadius = "sm"
	RadiusMd   BorderRadius = "md"
	RadiusLg   BorderRadius = "lg"
	RadiusFull BorderRadius = "full"
)

type ThemeColors struct {
	Primary    string `json:"primary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
	TextMuted  string `json:"textMuted"`
}

type ThemeFonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type ThemeConfig struct {
	Colors       ThemeColors  `json:"colors"`
	Fonts        ThemeFonts   `json:"fonts"`
	BorderRadius BorderRadius `json:"borderRadius"`
}

// SectionConfig is one typed content block on a page. Type is an open string
// tag: the registry knows a fixed set, but the agent may invent tags that only
// the generic renderer will ever see. Content shape is per-type convention and
// is never statically enforced.
type SectionConfig struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Enabled bool           `json:"enabled"`
	Content map[string]any `json:"content"`
	Styles  map[string]any `json:"styles,omitempty"`
}

// PageConfig is one page of the site. Slug is unique per site and the empty
// string denotes the home page. Section order is the sole ordering signal.
type PageConfig struct {
	ID       string          `json:"id"`
	Slug     string          `json:"slug"`
	Title    string          `json:"title"`
	Sections []SectionConfig `json:"sections"`
}

// SiteConfig is the full persisted and edited unit. Version is a monotonic
// stamp bumped by the owning service on every accepted mutation; the pure
// helpers in this package leave it untouched.
type SiteConfig struct {
	Version uint64       `json:"version"`
	Theme   ThemeConfig  `json:"theme"`
	Pages   []PageConfig `json:"pages"`
}

// FindPage returns the page matching slug, falling back to the first page when
// there is no match. The second return is false only for an empty site.
func (c SiteConfig) FindPage(slug string) (PageConfig, bool) {
	for _, p := range c.Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	if len(c.Pages) > 0 {
		return c.Pages[0], true
	}
	return PageConfig{}, false
}

// Section returns the section with the given id on the page matching slug.
func (c SiteConfig) Section(slug, id string) (SectionConfig, bool) {
	page, ok := c.FindPage(slug)
	if !ok {
		return SectionConfig{}, false
	}
	for _, s := range page.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionConfig{}, false
}

// NewSectionID stamps a fresh section id of the form <type>-<unixms>-<suffix>.
// The random suffix keeps two adds within the same millisecond from colliding.
func NewSectionID(typeTag string) string {
	return fmt.Sprintf("%s-%d-%s", typeTag, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Clone returns a deep copy of the config. Section content and styles records
// are copied recursively so the clone shares nothing with the original.
func (c SiteConfig) Clone() SiteConfig {
	out := c
	out.Pages = make([]PageConfig, len(c.Pages))
	for i, p := range c.Pages {
		out.Pages[i] = p.Clone()
	}
	return out
}

func (p PageConfig) Clone() PageConfig {
	out := p
	out.Sections = make([]SectionConfig, len(p.Sections))
	for i, s := range p.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

func (s SectionConfig) Clone() SectionConfig {
	out := s
	out.Content = cloneRecord(s.Content)
	if s.Styles != nil {
		out.Styles = cloneRecord(s.Styles)
	}
	return out
}

func cloneRecord(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneRecord(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// MergeTheme shallow-merges a partial theme into base, per sub-object: color
// and font keys survive unless the patch names them, borderRadius is replaced
// only when set.
func MergeTheme(base ThemeConfig, patch ThemePatch) ThemeConfig {
	out := base
	if patch.Colors != nil {
		mergeColor(&out.Colors.Primary, patch.Colors.Primary)
		mergeColor(&out.Colors.Accent, patch.Colors.Accent)
		mergeColor(&out.Colors.Background, patch.Colors.Background)
		mergeColor(&out.Colors.Text, patch.Colors.Text)
		mergeColor(&out.Colors.TextMuted, patch.Colors.TextMuted)
	}
	if patch.Fonts != nil {
		mergeColor(&out.Fonts.Heading, patch.Fonts.Heading)
		mergeColor(&out.Fonts.Body, patch.Fonts.Body)
	}
	if patch.BorderRadius != "" {
		out.BorderRadius = patch.BorderRadius
	}
	return out
}

func mergeColor(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// ThemePatch is a partial theme update; empty fields leave the base untouched.
type ThemePatch struct {
	Colors       *ThemeColorsPatch `json:"colors,omitempty"`
	Fonts        *ThemeFontsPatch  `json:"fonts,omitempty"`
	BorderRadius BorderRadius      `json:"borderRadius,omitempty"`
}

type ThemeColorsPatch struct {
	Primary    string `json:"primary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
	TextMuted  string `json:"textMuted,omitempty"`
}

type ThemeFontsPatch struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body,omitempty"`
}
