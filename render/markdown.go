package render

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/homepro/siteforge/service/vo"
	"github.com/homepro/siteforge/siteconfig"
)

// PageMarkdown renders the page and converts its body to markdown. This is
// what the agent reads to see the current state of a page without having to
// interpret raw section records.
func (r *Renderer) PageMarkdown(cfg siteconfig.SiteConfig, slug string, biz vo.BusinessContext) (vo.Markdown, error) {
	markup := r.Page(cfg, slug, biz, 0)

	doc, err := ParseDocument(markup)
	if err != nil {
		return "", err
	}

	body, err := FindNodeByTag(doc, "body")
	if err != nil {
		return "", fmt.Errorf("rendered page has no body: %w", err)
	}

	markdownBytes, err := htmltomarkdown.ConvertNode(body)
	if err != nil {
		return "", fmt.Errorf("failed to convert page to markdown: %w", err)
	}

	return vo.Markdown(markdownBytes), nil
}
