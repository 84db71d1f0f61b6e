package siteconfig

// Section list mutations. Every operation is a total function over the input
// config: unknown slugs and ids are no-ops, never errors. Each returns a new
// SiteConfig in which only the affected page's section slice is replaced;
// sibling pages are shared with the input.

// SectionPatch is a partial update for one section. Content and Styles are
// merged key-wise into the existing records, so unspecified keys survive.
type SectionPatch struct {
	Type    *string        `json:"type,omitempty"`
	Enabled *bool          `json:"enabled,omitempty"`
	Content map[string]any `json:"content,omitempty"`
	Styles  map[string]any `json:"styles,omitempty"`
}

// AddSection inserts section into the page matching slug, at position when it
// is given and within bounds, else at the end. If the id collides with an
// existing sibling it is re-stamped before insertion.
func AddSection(cfg SiteConfig, slug string, section SectionConfig, position *int) SiteConfig {
	return withPage(cfg, slug, func(sections []SectionConfig) []SectionConfig {
		for hasID(sections, section.ID) {
			section.ID = NewSectionID(section.Type)
		}
		at := len(sections)
		if position != nil && *position >= 0 && *position <= len(sections) {
			at = *position
		}
		out := make([]SectionConfig, 0, len(sections)+1)
		out = append(out, sections[:at]...)
		out = append(out, section)
		out = append(out, sections[at:]...)
		return out
	})
}

// UpdateSection merges patch into the section matching id. No-op if the id is
// not present on the page.
func UpdateSection(cfg SiteConfig, slug, id string, patch SectionPatch) SiteConfig {
	return withPage(cfg, slug, func(sections []SectionConfig) []SectionConfig {
		out := make([]SectionConfig, len(sections))
		copy(out, sections)
		for i, s := range out {
			if s.ID != id {
				continue
			}
			next := s.Clone()
			if patch.Type != nil && *patch.Type != "" {
				next.Type = *patch.Type
			}
			if patch.Enabled != nil {
				next.Enabled = *patch.Enabled
			}
			for k, v := range patch.Content {
				next.Content[k] = cloneValue(v)
			}
			if len(patch.Styles) > 0 && next.Styles == nil {
				next.Styles = map[string]any{}
			}
			for k, v := range patch.Styles {
				next.Styles[k] = cloneValue(v)
			}
			out[i] = next
			break
		}
		return out
	})
}

// RemoveSection removes the section matching id. No-op if not found.
func RemoveSection(cfg SiteConfig, slug, id string) SiteConfig {
	return withPage(cfg, slug, func(sections []SectionConfig) []SectionConfig {
		out := make([]SectionConfig, 0, len(sections))
		for _, s := range sections {
			if s.ID != id {
				out = append(out, s)
			}
		}
		return out
	})
}

// ReorderSections replaces the page's order with the caller-computed one. Ids
// not present on the page are ignored; sections the order omits keep their
// relative position at the tail, so the operation stays total.
func ReorderSections(cfg SiteConfig, slug string, orderedIDs []string) SiteConfig {
	return withPage(cfg, slug, func(sections []SectionConfig) []SectionConfig {
		byID := make(map[string]SectionConfig, len(sections))
		for _, s := range sections {
			byID[s.ID] = s
		}
		out := make([]SectionConfig, 0, len(sections))
		seen := make(map[string]bool, len(sections))
		for _, id := range orderedIDs {
			if s, ok := byID[id]; ok && !seen[id] {
				out = append(out, s)
				seen[id] = true
			}
		}
		for _, s := range sections {
			if !seen[s.ID] {
				out = append(out, s)
			}
		}
		return out
	})
}

// ToggleSection flips the enabled flag of the section matching id.
func ToggleSection(cfg SiteConfig, slug, id string) SiteConfig {
	section, ok := cfg.Section(slug, id)
	if !ok {
		return cfg
	}
	enabled := !section.Enabled
	return UpdateSection(cfg, slug, id, SectionPatch{Enabled: &enabled})
}

func withPage(cfg SiteConfig, slug string, fn func([]SectionConfig) []SectionConfig) SiteConfig {
	page, ok := cfg.FindPage(slug)
	if !ok {
		return cfg
	}
	out := cfg
	out.Pages = make([]PageConfig, len(cfg.Pages))
	copy(out.Pages, cfg.Pages)
	for i := range out.Pages {
		if out.Pages[i].ID == page.ID {
			next := out.Pages[i]
			next.Sections = fn(next.Sections)
			out.Pages[i] = next
			break
		}
	}
	return out
}

func hasID(sections []SectionConfig, id string) bool {
	for _, s := range sections {
		if s.ID == id {
			return true
		}
	}
	return false
}

// EditorState is the small amount of UI-facing state the section list editor
// owns beyond the config itself: which section is selected for editing.
type EditorState struct {
	SelectedSectionID string
}

// OnAdd moves the selection to a freshly added section.
func (e *EditorState) OnAdd(id string) {
	e.SelectedSectionID = id
}

// OnRemove clears the selection if it pointed at the removed section.
func (e *EditorState) OnRemove(id string) {
	if e.SelectedSectionID == id {
		e.SelectedSectionID = ""
	}
}
