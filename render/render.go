// Package render turns section configs into HTML. Dispatch looks the section
// type up in the registry; unknown types and renderer panics both land in the
// generic fallback renderer, so rendering a section never fails regardless of
// content shape.
package render

import (
	"go.uber.org/zap"

	"github.com/homepro/siteforge/registry"
	"github.com/homepro/siteforge/service/vo"
	"github.com/homepro/siteforge/siteconfig"
)

type Renderer struct {
	logger *zap.Logger
	reg    *registry.Registry
	cache  *pageCache
}

func NewRenderer(logger *zap.Logger, reg *registry.Registry) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		logger: logger,
		reg:    reg,
		cache:  newPageCache(defaultPageCacheTTL),
	}
}

// Section renders one section. Callers are expected to skip disabled sections
// before dispatch; this method renders whatever it is handed.
func (r *Renderer) Section(section siteconfig.SectionConfig, biz vo.BusinessContext) string {
	entry, ok := r.reg.Lookup(section.Type)
	if !ok {
		return Generic(section.Type, section.Content)
	}
	return r.guarded(entry, section, biz)
}

// guarded invokes a registered renderer under a recover so a badly shaped
// content record can never take down the page; the fallback output is used
// instead.
func (r *Renderer) guarded(entry registry.Entry, section siteconfig.SectionConfig, biz vo.BusinessContext) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("section renderer panicked, using generic fallback",
				zap.String("type", section.Type),
				zap.String("id", section.ID),
				zap.Any("panic", rec))
			out = Generic(section.Type, section.Content)
		}
	}()
	return entry.Render(section, biz)
}
