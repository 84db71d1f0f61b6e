package siteconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSite() SiteConfig {
	return SiteConfig{Pages: []PageConfig{
		{
			ID:   "p1",
			Slug: "",
			Sections: []SectionConfig{
				{ID: "a", Type: "hero", Enabled: true, Content: map[string]any{"headline": "Hi"}},
				{ID: "b", Type: "services", Enabled: true, Content: map[string]any{}},
				{ID: "c", Type: "cta", Enabled: true, Content: map[string]any{}},
			},
		},
		{
			ID:       "p2",
			Slug:     "about",
			Sections: []SectionConfig{{ID: "x", Type: "hero", Enabled: true, Content: map[string]any{}}},
		},
	}}
}

func sectionIDs(cfg SiteConfig, slug string) []string {
	page, _ := cfg.FindPage(slug)
	ids := make([]string, len(page.Sections))
	for i, s := range page.Sections {
		ids[i] = s.ID
	}
	return ids
}

func TestAddSectionAppendsAndInserts(t *testing.T) {
	cfg := testSite()

	out := AddSection(cfg, "", SectionConfig{ID: "d", Type: "faq", Enabled: true, Content: map[string]any{}}, nil)
	require.Equal(t, []string{"a", "b", "c", "d"}, sectionIDs(out, ""))

	pos := 1
	out = AddSection(cfg, "", SectionConfig{ID: "d", Type: "faq", Enabled: true, Content: map[string]any{}}, &pos)
	require.Equal(t, []string{"a", "d", "b", "c"}, sectionIDs(out, ""))

	// Out-of-bounds position appends.
	pos = 99
	out = AddSection(cfg, "", SectionConfig{ID: "d", Type: "faq", Enabled: true, Content: map[string]any{}}, &pos)
	require.Equal(t, []string{"a", "b", "c", "d"}, sectionIDs(out, ""))

	// Input is untouched.
	require.Equal(t, []string{"a", "b", "c"}, sectionIDs(cfg, ""))
}

func TestAddSectionRestampsCollidingID(t *testing.T) {
	cfg := testSite()
	out := AddSection(cfg, "", SectionConfig{ID: "a", Type: "hero", Enabled: true, Content: map[string]any{}}, nil)

	ids := sectionIDs(out, "")
	require.Len(t, ids, 4)
	seen := map[string]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "ids must stay unique within a page")
		seen[id] = true
	}
}

func TestUpdateSectionMergesContent(t *testing.T) {
	cfg := testSite()
	out := UpdateSection(cfg, "", "a", SectionPatch{Content: map[string]any{"tagline": "New"}})

	section, ok := out.Section("", "a")
	require.True(t, ok)
	require.Equal(t, "Hi", section.Content["headline"], "unspecified content keys survive")
	require.Equal(t, "New", section.Content["tagline"])

	// Styles start nil and are created on first patch.
	out = UpdateSection(out, "", "a", SectionPatch{Styles: map[string]any{"padding": "lg"}})
	section, _ = out.Section("", "a")
	require.Equal(t, "lg", section.Styles["padding"])

	// Missing id is a no-op, not an error.
	out = UpdateSection(cfg, "", "nope", SectionPatch{Content: map[string]any{"x": 1}})
	require.Equal(t, sectionIDs(cfg, ""), sectionIDs(out, ""))
}

func TestUpdateScenarioHeadlineOnly(t *testing.T) {
	cfg := testSite()
	out := UpdateSection(cfg, "", "a", SectionPatch{Content: map[string]any{"headline": "New Headline"}})
	section, _ := out.Section("", "a")
	require.Equal(t, "New Headline", section.Content["headline"])
	require.Len(t, section.Content, 1)

	// Original config must be untouched.
	original, _ := cfg.Section("", "a")
	require.Equal(t, "Hi", original.Content["headline"])
}

func TestRemoveSection(t *testing.T) {
	cfg := testSite()
	out := RemoveSection(cfg, "", "b")
	require.Equal(t, []string{"a", "c"}, sectionIDs(out, ""))

	out = RemoveSection(cfg, "", "missing")
	require.Equal(t, []string{"a", "b", "c"}, sectionIDs(out, ""))
}

func TestAddRemoveRoundTrip(t *testing.T) {
	cfg := testSite()
	section := SectionConfig{ID: "tmp", Type: "faq", Enabled: true, Content: map[string]any{"heading": "FAQ"}}

	out := RemoveSection(AddSection(cfg, "", section, nil), "", "tmp")
	require.Equal(t, sectionIDs(cfg, ""), sectionIDs(out, ""))

	before, _ := cfg.FindPage("")
	after, _ := out.FindPage("")
	require.Equal(t, before.Sections, after.Sections)
}

func TestReorderSections(t *testing.T) {
	cfg := testSite()

	// Drag index 2 to index 0: [a b c] -> [c a b].
	out := ReorderSections(cfg, "", []string{"c", "a", "b"})
	require.Equal(t, []string{"c", "a", "b"}, sectionIDs(out, ""))

	// Identity permutation is idempotent.
	out = ReorderSections(cfg, "", []string{"a", "b", "c"})
	require.Equal(t, sectionIDs(cfg, ""), sectionIDs(out, ""))

	// Unknown ids are ignored; omitted sections keep relative order at the tail.
	out = ReorderSections(cfg, "", []string{"c", "ghost"})
	require.Equal(t, []string{"c", "a", "b"}, sectionIDs(out, ""))
}

func TestToggleSection(t *testing.T) {
	cfg := testSite()
	out := ToggleSection(cfg, "", "a")
	section, _ := out.Section("", "a")
	require.False(t, section.Enabled)

	out = ToggleSection(out, "", "a")
	section, _ = out.Section("", "a")
	require.True(t, section.Enabled)

	require.Equal(t, cfg, ToggleSection(cfg, "", "missing"))
}

func TestMutationsLeaveSiblingPagesUntouched(t *testing.T) {
	cfg := testSite()
	out := RemoveSection(cfg, "", "a")
	require.Equal(t, []string{"x"}, sectionIDs(out, "about"))

	out = UpdateSection(cfg, "about", "x", SectionPatch{Content: map[string]any{"k": "v"}})
	require.Equal(t, []string{"a", "b", "c"}, sectionIDs(out, ""))
	original, _ := cfg.Section("", "a")
	require.Equal(t, "Hi", original.Content["headline"])
}

func TestEditorState(t *testing.T) {
	var state EditorState
	state.OnAdd("s1")
	require.Equal(t, "s1", state.SelectedSectionID)

	state.OnRemove("other")
	require.Equal(t, "s1", state.SelectedSectionID)

	state.OnRemove("s1")
	require.Empty(t, state.SelectedSectionID)
}
