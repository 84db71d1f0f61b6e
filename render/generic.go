package render

import (
	"fmt"
	"html"
	"strings"
)

// Field inference order for the generic renderer. First match wins per
// concept; fields of the wrong type are skipped, never an error.
var (
	headingKeys    = []string{"heading", "headline", "title"}
	subheadingKeys = []string{"subheading", "tagline", "subtitle", "description"}
	bodyKeys       = []string{"body", "text", "content"}
	listKeys       = []string{"items", "list", "features", "faqs", "options", "tiers"}

	itemTitleKeys = []string{"title", "name", "question", "label"}
	itemBodyKeys  = []string{"description", "answer", "text", "body"}
	itemPriceKeys = []string{"price", "cost", "amount"}
)

// Generic renders a section of a type the registry has never seen by
// heuristically pulling headings, body text, images and list items out of the
// content record. It always returns a usable fragment: when nothing is
// recognized it emits a neutral placeholder naming the type.
func Generic(typeTag string, content map[string]any) string {
	var b strings.Builder
	b.WriteString(`<section class="section section-generic" data-section-type="` + html.EscapeString(typeTag) + `">`)

	wrote := false
	if heading := firstString(content, headingKeys...); heading != "" {
		b.WriteString("<h2>" + html.EscapeString(heading) + "</h2>")
		wrote = true
	}
	if sub := firstString(content, subheadingKeys...); sub != "" {
		b.WriteString(`<p class="subheading">` + html.EscapeString(sub) + "</p>")
		wrote = true
	}
	if body := firstString(content, bodyKeys...); body != "" {
		// Body content is trusted admin-authored rich text; it is emitted as-is.
		b.WriteString(`<div class="body">` + body + "</div>")
		wrote = true
	}
	if src, alt, ok := imageFrom(content["image"]); ok {
		b.WriteString(imgTag(src, alt))
		wrote = true
	}
	if gallery := firstList(content, "images", "gallery"); len(gallery) > 0 {
		var imgs strings.Builder
		for _, item := range gallery {
			if src, alt, ok := imageFrom(item); ok {
				imgs.WriteString(imgTag(src, alt))
			}
		}
		if imgs.Len() > 0 {
			b.WriteString(`<div class="gallery">` + imgs.String() + "</div>")
			wrote = true
		}
	}
	if items := firstList(content, listKeys...); len(items) > 0 {
		var lis strings.Builder
		for _, item := range items {
			if li := genericItem(item); li != "" {
				lis.WriteString(li)
			}
		}
		if lis.Len() > 0 {
			b.WriteString(`<ul class="items">` + lis.String() + "</ul>")
			wrote = true
		}
	}

	if !wrote {
		b.WriteString(fmt.Sprintf(`<div class="placeholder">Section %q has no displayable content yet.</div>`,
			html.EscapeString(typeTag)))
	}
	b.WriteString("</section>")
	return b.String()
}

// genericItem renders one list element, which may be a bare string or a record
// with conventional title/body/price/image keys.
func genericItem(item any) string {
	switch v := item.(type) {
	case string:
		return "<li>" + html.EscapeString(v) + "</li>"
	case map[string]any:
		var b strings.Builder
		if title := firstString(v, itemTitleKeys...); title != "" {
			b.WriteString("<strong>" + html.EscapeString(title) + "</strong>")
		}
		if body := firstString(v, itemBodyKeys...); body != "" {
			b.WriteString("<p>" + html.EscapeString(body) + "</p>")
		}
		if price := firstString(v, itemPriceKeys...); price != "" {
			b.WriteString(`<span class="price">` + html.EscapeString(price) + "</span>")
		}
		if src, alt, ok := imageFrom(v["image"]); ok {
			b.WriteString(imgTag(src, alt))
		}
		if b.Len() == 0 {
			return ""
		}
		return "<li>" + b.String() + "</li>"
	default:
		return ""
	}
}

// firstString returns the first of keys that holds a non-empty string. Numeric
// values are accepted too since prices and amounts often arrive as numbers.
func firstString(record map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := record[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return trimFloat(v)
		case int:
			return fmt.Sprintf("%d", v)
		}
	}
	return ""
}

func firstList(record map[string]any, keys ...string) []any {
	for _, key := range keys {
		if list, ok := record[key].([]any); ok && len(list) > 0 {
			return list
		}
	}
	return nil
}

// imageFrom accepts either a record with src/url and optional alt, or a bare
// string URL.
func imageFrom(v any) (src, alt string, ok bool) {
	switch val := v.(type) {
	case string:
		if val != "" {
			return val, "", true
		}
	case map[string]any:
		src = firstString(val, "src", "url")
		if src != "" {
			return src, firstString(val, "alt"), true
		}
	}
	return "", "", false
}

func imgTag(src, alt string) string {
	return `<img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(alt) + `">`
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
