package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/homepro/siteforge/registry"
	"github.com/homepro/siteforge/service/vo"
	"github.com/homepro/siteforge/siteconfig"
)

// Builtin returns a registry populated with the section types the template
// ships for the home-services vertical. Content shapes here are the
// per-type conventions the editor and the agent both write against.
func Builtin() *registry.Registry {
	reg := registry.New()

	reg.Register("hero", registry.Entry{
		Name:        "Hero Banner",
		Description: "Large headline, tagline and call-to-action at the top of a page",
		Defaults: siteconfig.SectionConfig{
			Type: "hero",
			Content: map[string]any{
				"headline": "Fast, Reliable Plumbing",
				"tagline":  "Licensed and insured. Same-day service available.",
				"ctaLabel": "Call Now",
			},
		},
		Render: renderHero,
	})

	reg.Register("trust-bar", registry.Entry{
		Name:        "Trust Bar",
		Description: "Rating, review count and badges that build credibility",
		Defaults: siteconfig.SectionConfig{
			Type: "trust-bar",
			Content: map[string]any{
				"badges": []any{"Licensed & Insured", "Upfront Pricing", "24/7 Emergency"},
			},
		},
		Render: renderTrustBar,
	})

	reg.Register("services", registry.Entry{
		Name:        "Services Grid",
		Description: "Grid of the services the business offers",
		Defaults: siteconfig.SectionConfig{
			Type: "services",
			Content: map[string]any{
				"heading": "Our Services",
			},
		},
		Render: renderServices,
	})

	reg.Register("testimonials", registry.Entry{
		Name:        "Testimonials",
		Description: "Customer quotes with names",
		Defaults: siteconfig.SectionConfig{
			Type: "testimonials",
			Content: map[string]any{
				"heading": "What Our Customers Say",
				"items":   []any{},
			},
		},
		Render: renderTestimonials,
	})

	reg.Register("faq", registry.Entry{
		Name:        "FAQ",
		Description: "Frequently asked questions with answers",
		Defaults: siteconfig.SectionConfig{
			Type: "faq",
			Content: map[string]any{
				"heading": "Frequently Asked Questions",
				"faqs":    []any{},
			},
		},
		Render: renderFAQ,
	})

	reg.Register("cta", registry.Entry{
		Name:        "Call To Action",
		Description: "Banner prompting visitors to call or book",
		Defaults: siteconfig.SectionConfig{
			Type: "cta",
			Content: map[string]any{
				"heading": "Ready to fix it for good?",
				"label":   "Get a Free Quote",
			},
		},
		Render: renderCTA,
	})

	reg.Register("contact", registry.Entry{
		Name:        "Contact",
		Description: "Phone, location and a contact prompt",
		Defaults: siteconfig.SectionConfig{
			Type: "contact",
			Content: map[string]any{
				"heading": "Get In Touch",
			},
		},
		Render: renderContact,
	})

	return reg
}

func renderHero(section siteconfig.SectionConfig, biz vo.BusinessContext) string {
	c := section.Content
	headline := firstString(c, "headline", "heading", "title")
	if headline == "" {
		headline = biz.Business.Name
	}
	var b strings.Builder
	b.WriteString(`<section class="section section-hero">`)
	b.WriteString("<h1>" + html.EscapeString(headline) + "</h1>")
	if tagline := firstString(c, "tagline", "subheading"); tagline != "" {
		b.WriteString(`<p class="tagline">` + html.EscapeString(tagline) + "</p>")
	}
	if src, alt, ok := imageFrom(c["image"]); ok {
		b.WriteString(imgTag(src, alt))
	}
	label := firstString(c, "ctaLabel", "label")
	if label == "" {
		label = "Call Now"
	}
	if biz.Business.Phone != "" {
		b.WriteString(fmt.Sprintf(`<a class="cta" href="tel:%s">%s</a>`,
			html.EscapeString(biz.Business.Phone), html.EscapeString(label)))
	}
	b.WriteString("</section>")
	return b.String()
}

func renderTrustBar(section siteconfig.SectionConfig, biz vo.BusinessContext) string {
	var b strings.Builder
	b.WriteString(`<section class="section section-trust-bar">`)
	if biz.Business.Rating > 0 {
		b.WriteString(fmt.Sprintf(`<span class="rating">%.1f ★</span>`, biz.Business.Rating))
		if biz.Business.ReviewCount > 0 {
			b.WriteString(fmt.Sprintf(`<span class="reviews">%d reviews</span>`, biz.Business.ReviewCount))
		}
	}
	for _, badge := range firstList(section.Content, "badges", "items") {
		if s, ok := badge.(string); ok {
			b.WriteString(`<span class="badge">` + html.EscapeString(s) + "</span>")
		}
	}
	b.WriteString("</section>")
	return b.String()
}

func renderServices(section siteconfig.SectionConfig, biz vo.BusinessContext) string {
	var b strings.Builder
	b.WriteString(`<section class="section section-services">`)
	if heading := firstString(section.Content, headingKeys...); heading != "" {
		b.WriteString("<h2>" + html.EscapeString(heading) + "</h2>")
	}
	b.WriteString(`<div class="grid">`)
	// Explicit items on the section win; otherwise fall back to the business
	// directory's offerings.
	items := firstList(section.Content, "items", "services")
	if len(items) > 0 {
		for _, item := range items {
			record, ok := item.(map[string]any)
			if !ok {
				continue
			}
			b.WriteString(serviceCard(
				firstString(record, itemTitleKeys...),
				firstString(record, itemBodyKeys...),
				firstString(record, itemPriceKeys...)))
		}
	} else {
		for _, offering := range biz.Offerings {
			b.WriteString(serviceCard(offering.Name, offering.Description, offering.Price))
		}
	}
	b.WriteString("</div></section>")
	return b.String()
}

func serviceCard(name, description, price string) string {
	var b strings.Builder
	b.WriteString(`<div class="card">`)
	b.WriteString("<h3>" + html.EscapeString(name) + "</h3>")
	if description != "" {
		b.WriteString("<p>" + html.EscapeString(description) + "</p>")
	}
	if price != "" {
		b.WriteString(`<span class="price">` + html.EscapeString(price) + "</span>")
	}
	b.WriteString("</div>")
	return b.String()
}

func renderTestimonials(section siteconfig.SectionConfig, _ vo.BusinessContext) string {
	var b strings.Builder
	b.WriteString(`<section class="section section-testimonials">`)
	if heading := firstString(section.Content, headingKeys...); heading != "" {
		b.WriteString("<h2>" + html.EscapeString(heading) + "</h2>")
	}
	for _, item := range firstList(section.Content, "items", "testimonials") {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		quote := firstString(record, "quote", "text", "body")
		if quote == "" {
			continue
		}
		b.WriteString("<blockquote>" + html.EscapeString(quote))
		if name := firstString(record, "name", "author"); name != "" {
			b.WriteString("<cite>" + html.EscapeString(name) + "</cite>")
		}
		b.WriteString("</blockquote>")
	}
	b.WriteString("</section>")
	return b.String()
}

func renderFAQ(section siteconfig.SectionConfig, _ vo.BusinessContext) string {
	var b strings.Builder
	b.WriteString(`<section class="section section-faq">`)
	if heading := firstString(section.Content, headingKeys...); heading != "" {
		b.WriteString("<h2>" + html.EscapeString(heading) + "</h2>")
	}
	for _, item := range firstList(section.Content, "faqs", "items") {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		question := firstString(record, "question", "title")
		answer := firstString(record, "answer", "description", "text")
		if question == "" {
			continue
		}
		b.WriteString("<details><summary>" + html.EscapeString(question) + "</summary>")
		if answer != "" {
			b.WriteString("<p>" + html.EscapeString(answer) + "</p>")
		}
		b.WriteString("</details>")
	}
	b.WriteString("</section>")
	return b.String()
}

func renderCTA(section siteconfig.SectionConfig, biz vo.BusinessContext) string {
	c := section.Content
	var b strings.Builder
	b.WriteString(`<section class="section section-cta">`)
	if heading := firstString(c, headingKeys...); heading != "" {
		b.WriteString("<h2>" + html.EscapeString(heading) + "</h2>")
	}
	label := firstString(c, "label", "ctaLabel")
	if label == "" {
		label = "Contact Us"
	}
	href := firstString(c, "href", "url")
	if href == "" && biz.Business.Phone != "" {
		href = "tel:" + biz.Business.Phone
	}
	if href != "" {
		b.WriteString(fmt.Sprintf(`<a class="cta" href="%s">%s</a>`,
			html.EscapeString(href), html.EscapeString(label)))
	}
	b.WriteString("</section>")
	return b.String()
}

func renderContact(section siteconfig.SectionConfig, biz vo.BusinessContext) string {
	var b strings.Builder
	b.WriteString(`<section class="section section-contact">`)
	if heading := firstString(section.Content, headingKeys...); heading != "" {
		b.WriteString("<h2>" + html.EscapeString(heading) + "</h2>")
	}
	if biz.Business.Phone != "" {
		b.WriteString(fmt.Sprintf(`<a class="phone" href="tel:%s">%s</a>`,
			html.EscapeString(biz.Business.Phone), html.EscapeString(biz.Business.Phone)))
	}
	if biz.Business.City != "" {
		b.WriteString(`<p class="location">Serving ` + html.EscapeString(biz.Business.City) + ` and surrounding areas</p>`)
	}
	b.WriteString("</section>")
	return b.String()
}
