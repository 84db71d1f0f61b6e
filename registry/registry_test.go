package registry

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homepro/siteforge/service/vo"
	"github.com/homepro/siteforge/siteconfig"
)

func heroEntry(name string) Entry {
	return Entry{
		Name:        name,
		Description: "hero banner",
		Defaults: siteconfig.SectionConfig{
			Type:    "hero",
			Content: map[string]any{"headline": "Hello"},
		},
		Render: func(siteconfig.SectionConfig, vo.BusinessContext) string { return "<section></section>" },
	}
}

func TestRegisterLastWins(t *testing.T) {
	reg := New()
	reg.Register("hero", heroEntry("First"))
	reg.Register("hero", heroEntry("Second"))

	entry, ok := reg.Lookup("hero")
	require.True(t, ok)
	require.Equal(t, "Second", entry.Name)
	require.Equal(t, 1, reg.Count())
}

func TestLookupMissing(t *testing.T) {
	reg := New()
	_, ok := reg.Lookup("no-such-type")
	require.False(t, ok)
	require.False(t, reg.Has("no-such-type"))
}

func TestListAvailableKeepsRegistrationOrder(t *testing.T) {
	reg := New()
	reg.Register("hero", heroEntry("Hero"))
	reg.Register("trust-bar", Entry{Name: "Trust Bar"})
	reg.Register("services", Entry{Name: "Services"})
	// Re-registering must not duplicate the listing.
	reg.Register("hero", heroEntry("Hero"))

	infos := reg.ListAvailable()
	require.Len(t, infos, 3)
	require.Equal(t, "hero", infos[0].Type)
	require.Equal(t, "trust-bar", infos[1].Type)
	require.Equal(t, "services", infos[2].Type)
}

func TestDefaultsForStampsFreshID(t *testing.T) {
	reg := New()
	reg.Register("hero", heroEntry("Hero"))

	section, ok := reg.DefaultsFor("hero")
	require.True(t, ok)
	require.Regexp(t, regexp.MustCompile(`^hero-\d+`), section.ID)
	require.True(t, section.Enabled)
	require.Equal(t, map[string]any{"headline": "Hello"}, section.Content)

	// The clone must not share the template's content record.
	section.Content["headline"] = "Changed"
	again, _ := reg.DefaultsFor("hero")
	require.Equal(t, "Hello", again.Content["headline"])
	require.NotEqual(t, section.ID, again.ID)

	_, ok = reg.DefaultsFor("invented-by-agent")
	require.False(t, ok)
}

func TestDefaultsMap(t *testing.T) {
	reg := New()
	reg.Register("hero", heroEntry("Hero"))
	reg.Register("faq", Entry{Name: "FAQ", Defaults: siteconfig.SectionConfig{Type: "faq", Content: map[string]any{}}})

	defaults := reg.Defaults()
	require.Len(t, defaults, 2)
	require.Equal(t, "hero", defaults["hero"].Type)
	require.True(t, defaults["faq"].Enabled)
}
