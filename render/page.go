package render

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/homepro/siteforge/service/vo"
	"github.com/homepro/siteforge/siteconfig"
)

const defaultPageCacheTTL = 30 * time.Second

// Page renders a full HTML document for the page matching slug: theme custom
// properties, then every enabled section in order. Each section is wrapped in
// an element carrying a stable "section-<id>" anchor so the editor can scroll
// it into view. refreshToken is embedded as a cache-busting query value on
// asset links; bumping it forces the preview to fetch fresh assets.
func (r *Renderer) Page(cfg siteconfig.SiteConfig, slug string, biz vo.BusinessContext, refreshToken uint64) string {
	key := fmt.Sprintf("%d/%s/%d", cfg.Version, slug, refreshToken)
	if cached, ok := r.cache.get(key); ok {
		return cached
	}

	page, ok := cfg.FindPage(slug)
	if !ok {
		page = siteconfig.PageConfig{Title: biz.Business.Name}
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head>")
	title := page.Title
	if title == "" {
		title = biz.Business.Name
	}
	b.WriteString("<title>" + html.EscapeString(title) + "</title>")
	b.WriteString(fmt.Sprintf(`<link rel="stylesheet" href="/assets/site.css?v=%d">`, refreshToken))
	b.WriteString("<style>" + themeCSS(cfg.Theme) + "</style>")
	b.WriteString("</head><body>")
	for _, section := range page.Sections {
		if !section.Enabled {
			continue
		}
		b.WriteString(`<div id="section-` + html.EscapeString(section.ID) + `">`)
		b.WriteString(r.Section(section, biz))
		b.WriteString("</div>")
	}
	b.WriteString("</body></html>")

	out := b.String()
	r.cache.set(key, out)
	return out
}

func themeCSS(theme siteconfig.ThemeConfig) string {
	radius := map[siteconfig.BorderRadius]string{
		siteconfig.RadiusNone: "0",
		siteconfig.RadiusSm:   "4px",
		siteconfig.RadiusMd:   "8px",
		siteconfig.RadiusLg:   "16px",
		siteconfig.RadiusFull: "9999px",
	}[theme.BorderRadius]
	if radius == "" {
		radius = "8px"
	}
	return fmt.Sprintf(
		":root{--color-primary:%s;--color-accent:%s;--color-background:%s;--color-text:%s;--color-text-muted:%s;--font-heading:%s;--font-body:%s;--radius:%s}",
		theme.Colors.Primary, theme.Colors.Accent, theme.Colors.Background,
		theme.Colors.Text, theme.Colors.TextMuted,
		theme.Fonts.Heading, theme.Fonts.Body, radius)
}

type pageCacheEntry struct {
	html      string
	expiresAt time.Time
}

// pageCache memoizes rendered pages keyed by (config version, slug, refresh
// token). Any mutation bumps the version, so stale entries simply age out.
type pageCache struct {
	mu      sync.RWMutex
	entries map[string]pageCacheEntry
	ttl     time.Duration
}

func newPageCache(ttl time.Duration) *pageCache {
	return &pageCache{entries: make(map[string]pageCacheEntry), ttl: ttl}
}

func (c *pageCache) get(key string) (string, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()
	if !exists {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.html, true
}

func (c *pageCache) set(key, html string) {
	c.mu.Lock()
	c.entries[key] = pageCacheEntry{html: html, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
