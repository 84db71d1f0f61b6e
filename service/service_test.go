package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homepro/siteforge/render"
	"github.com/homepro/siteforge/service/vo"
	"github.com/homepro/siteforge/siteconfig"
)

type recorder struct {
	mu       sync.Mutex
	persists []siteconfig.SiteConfig
	notifies int
}

func (r *recorder) onChange(cfg siteconfig.SiteConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persists = append(r.persists, cfg)
}

func (r *recorder) notify() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifies++
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.persists), r.notifies
}

func newTestService(t *testing.T) (Service, *recorder) {
	t.Helper()
	reg := render.Builtin()
	renderer := render.NewRenderer(nil, reg)
	rec := &recorder{}
	biz := vo.BusinessContext{Business: vo.Business{Name: "Apex Plumbing", Phone: "555-0134"}}
	initial := siteconfig.SiteConfig{Pages: []siteconfig.PageConfig{{
		ID:   "p1",
		Slug: "",
		Sections: []siteconfig.SectionConfig{
			{ID: "hero-1", Type: "hero", Enabled: true, Content: map[string]any{"headline": "Hello"}},
			{ID: "svc-1", Type: "services", Enabled: true, Content: map[string]any{}},
		},
	}}}
	svc := New(nil, reg, renderer, biz, initial, Options{
		OnConfigChange: rec.onChange,
		Notify:         rec.notify,
	})
	t.Cleanup(svc.Close)
	return svc, rec
}

func TestAddSectionFromDefaults(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	section, err := svc.AddSection(ctx, "", "faq", nil, nil)
	require.NoError(t, err)
	require.Regexp(t, `^faq-\d+`, section.ID)
	require.True(t, section.Enabled)
	require.Equal(t, "Frequently Asked Questions", section.Content["heading"])

	cfg := svc.Config()
	require.Equal(t, uint64(1), cfg.Version)
	page, _ := cfg.FindPage("")
	require.Len(t, page.Sections, 3)
	require.Equal(t, section.ID, svc.Selected(), "selection moves to the new section")

	persists, notifies := rec.counts()
	require.Equal(t, 1, persists)
	require.Equal(t, 1, notifies)
}

func TestAddSectionWithContentOverride(t *testing.T) {
	svc, _ := newTestService(t)

	section, err := svc.AddSection(context.Background(), "", "hero", nil, map[string]any{"headline": "Override"})
	require.NoError(t, err)
	require.Equal(t, "Override", section.Content["headline"])
	// Default keys the override did not name survive.
	require.NotEmpty(t, section.Content["tagline"])
}

func TestAddSectionAdHocType(t *testing.T) {
	svc, _ := newTestService(t)

	section, err := svc.AddSection(context.Background(), "", "seasonal-banner", nil, map[string]any{"heading": "Winter Special"})
	require.NoError(t, err)
	require.Equal(t, "seasonal-banner", section.Type)

	// Unknown type with no content is refused; nothing is applied.
	before := svc.Config()
	_, err = svc.AddSection(context.Background(), "", "mystery", nil, nil)
	require.Error(t, err)
	require.Equal(t, before.Version, svc.Config().Version)
}

func TestUpdateSectionNoopOnMissingID(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdateSection(ctx, "", "ghost", siteconfig.SectionPatch{Content: map[string]any{"x": 1}}))
	require.Zero(t, svc.Config().Version, "no-op mutations do not bump the version")
	persists, _ := rec.counts()
	require.Zero(t, persists)

	require.NoError(t, svc.UpdateSection(ctx, "", "hero-1", siteconfig.SectionPatch{Content: map[string]any{"headline": "New Headline"}}))
	section, _ := svc.Config().Section("", "hero-1")
	require.Equal(t, "New Headline", section.Content["headline"])
}

func TestRemoveSectionClearsSelection(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Select("hero-1")
	require.Equal(t, "hero-1", svc.Selected())

	require.NoError(t, svc.RemoveSection(ctx, "", "hero-1"))
	require.Empty(t, svc.Selected())

	// Removing an unrelated section leaves selection alone.
	svc.Select("svc-1")
	require.NoError(t, svc.RemoveSection(ctx, "", "ghost"))
	require.Equal(t, "svc-1", svc.Selected())
}

func TestReorderAndToggle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ReorderSections(ctx, "", []string{"svc-1", "hero-1"}))
	page, _ := svc.Config().FindPage("")
	require.Equal(t, "svc-1", page.Sections[0].ID)

	require.NoError(t, svc.ToggleSection(ctx, "", "hero-1"))
	section, _ := svc.Config().Section("", "hero-1")
	require.False(t, section.Enabled)
}

func TestUpdateTheme(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.UpdateTheme(context.Background(), siteconfig.ThemePatch{
		Colors: &siteconfig.ThemeColorsPatch{Primary: "#ff0000"},
	})
	require.NoError(t, err)
	require.Equal(t, "#ff0000", svc.Config().Theme.Colors.Primary)
}

func TestConcurrentWritersStaySerialized(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Form editor and agent tools race; the apply loop serializes them, so
	// every accepted mutation lands and the version counts them exactly.
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddSection(ctx, "", "cta", nil, nil)
			require.NoError(t, err)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.UpdateSection(ctx, "", "hero-1", siteconfig.SectionPatch{Content: map[string]any{"tagline": "racy"}})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	cfg := svc.Config()
	require.Equal(t, uint64(50), cfg.Version)
	page, _ := cfg.FindPage("")
	require.Len(t, page.Sections, 27)

	seen := map[string]bool{}
	for _, s := range page.Sections {
		require.False(t, seen[s.ID], "section ids stay unique under concurrent adds")
		seen[s.ID] = true
	}
}

func TestRenderPageAndMarkdown(t *testing.T) {
	svc, _ := newTestService(t)

	markup := svc.RenderPage("", 4)
	require.Contains(t, markup, "Hello")
	require.Contains(t, markup, "?v=4")

	markdown, err := svc.PageMarkdown("")
	require.NoError(t, err)
	require.Contains(t, string(markdown), "Hello")
}

func TestSectionMetadataQueries(t *testing.T) {
	svc, _ := newTestService(t)

	types := svc.SectionTypes()
	require.NotEmpty(t, types)
	require.Equal(t, "hero", types[0].Type)

	defaults := svc.SectionDefaults()
	require.Contains(t, defaults, "hero")
	require.Contains(t, defaults, "services")
}

func TestValidateImageUpload(t *testing.T) {
	require.NoError(t, ValidateImageUpload("image/png", 1024))
	require.NoError(t, ValidateImageUpload("image/webp", MaxImageUploadBytes))
	require.Error(t, ValidateImageUpload("image/png", MaxImageUploadBytes+1))
	require.Error(t, ValidateImageUpload("image/png", 0))
	require.Error(t, ValidateImageUpload("application/pdf", 1024))
	require.Error(t, ValidateImageUpload("image/svg+xml", 1024))
}
