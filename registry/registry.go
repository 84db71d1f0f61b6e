// Package registry maps section type tags to their renderer and default
// content template. A Registry is built once at startup by explicit Register
// calls and passed in as a dependency; it is read-only for the rest of the
// process lifetime. Agent-invented type tags are never added here; they stay
// plain data and fall through to the generic renderer at dispatch time.
package registry

import (
	"sync"

	"github.com/homepro/siteforge/service/vo"
	"github.com/homepro/siteforge/siteconfig"
)

// RenderFunc turns one section plus the read-only business context into an
// HTML fragment. Implementations must not panic; the dispatcher guards the
// call anyway and falls back to the generic renderer.
type RenderFunc func(section siteconfig.SectionConfig, biz vo.BusinessContext) string

// Entry is everything recorded for one known section type.
type Entry struct {
	Name        string
	Description string
	Defaults    siteconfig.SectionConfig
	Render      RenderFunc
}

// TypeInfo is the metadata shape served to the add-section UI.
type TypeInfo struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register binds a type tag to an entry. The last registration for a given
// tag wins; registering twice is not an error.
func (r *Registry) Register(typeTag string, entry Entry) {
	if typeTag == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[typeTag]; !exists {
		r.order = append(r.order, typeTag)
	}
	r.entries[typeTag] = entry
}

func (r *Registry) Lookup(typeTag string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[typeTag]
	return entry, ok
}

func (r *Registry) Has(typeTag string) bool {
	_, ok := r.Lookup(typeTag)
	return ok
}

// ListAvailable returns type metadata in registration order.
func (r *Registry) ListAvailable() []TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TypeInfo, 0, len(r.order))
	for _, tag := range r.order {
		entry := r.entries[tag]
		out = append(out, TypeInfo{Type: tag, Name: entry.Name, Description: entry.Description})
	}
	return out
}

// DefaultsFor returns a deep clone of the default template for typeTag with a
// fresh id stamped and enabled set, ready to insert into a page.
func (r *Registry) DefaultsFor(typeTag string) (siteconfig.SectionConfig, bool) {
	entry, ok := r.Lookup(typeTag)
	if !ok {
		return siteconfig.SectionConfig{}, false
	}
	section := entry.Defaults.Clone()
	section.Type = typeTag
	section.ID = siteconfig.NewSectionID(typeTag)
	section.Enabled = true
	if section.Content == nil {
		section.Content = map[string]any{}
	}
	return section, true
}

// Defaults returns the default template for every registered type, keyed by
// type tag, for the metadata endpoint.
func (r *Registry) Defaults() map[string]siteconfig.SectionConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]siteconfig.SectionConfig, len(r.entries))
	for tag, entry := range r.entries {
		section := entry.Defaults.Clone()
		section.Type = tag
		section.Enabled = true
		out[tag] = section
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
