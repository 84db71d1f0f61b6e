package vo

type Markdown string

// Business is the read-only directory record for one customer business. The
// renderer interpolates these fields into sections; nothing in this module
// ever writes them back.
type Business struct {
	ID           string  `json:"id"`
	Slug         string  `json:"slug"`
	TemplateSlug string  `json:"templateSlug"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	City         string  `json:"city"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"reviewCount"`
}

// Offering is one service the business advertises (e.g. "Drain Cleaning").
type Offering struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price,omitempty"`
}

// BusinessContext is what section renderers receive alongside the section
// content: the business record plus its offerings.
type BusinessContext struct {
	Business  Business   `json:"business"`
	Offerings []Offering `json:"offerings,omitempty"`
}
