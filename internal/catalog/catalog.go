// Package catalog holds the built-in video template listing. Templates are
// static for now; the picker only needs a stable id to thread through the
// generation ledger.
package catalog

import (
	"velora.studio/velora/internal/workflow"
	"velora.studio/velora/pkg/utils/markdown"
)

// Template describes one entry in the studio's template picker.
type Template struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Workflow    workflow.Category  `json:"workflow"`
	Thumbnail   string             `json:"thumbnail"`
	DurationSec int                `json:"duration"`
	Description *markdown.Markdown `json:"description"`
}

var templates = []Template{
	{
		ID:          "ugc-1",
		Name:        "Modern Product Showcase",
		Category:    "ugc-product",
		Workflow:    workflow.CategoryUGCProduct,
		Thumbnail:   "/static/templates/video-ugc-product.jpg",
		DurationSec: 15,
		Description: markdown.NewMarkdown(
			"Handheld, creator-style product footage. Works best with a **product page URL** and a short pitch of what makes the product worth showing off."),
	},
	{
		ID:          "service-1",
		Name:        "Professional Consultation",
		Category:    "service-business",
		Workflow:    workflow.CategoryServiceBusiness,
		Thumbnail:   "/static/templates/video-service-business.jpg",
		DurationSec: 20,
		Description: markdown.NewMarkdown(
			"Polished talking-head spot for local and service businesses. Only needs your **business website**; the pipeline pulls the rest."),
	},
	{
		ID:          "software-1",
		Name:        "Dashboard Analytics",
		Category:    "software-ui",
		Workflow:    workflow.CategorySoftwareUI,
		Thumbnail:   "/static/templates/video-software-ui.jpg",
		DurationSec: 25,
		Description: markdown.NewMarkdown(
			"Animated walkthrough of your product UI. Supply a **company name**, plus optional logo and screenshot uploads for tighter branding."),
	},
	{
		ID:          "logo-1",
		Name:        "Luxury Brand Animation",
		Category:    "software-ui",
		Workflow:    workflow.CategorySoftwareUI,
		Thumbnail:   "/static/templates/video-logo-animation.jpg",
		DurationSec: 10,
		Description: markdown.NewMarkdown(
			"Short cinematic logo reveal. A clean *transparent-background* logo upload gives the best result."),
	},
}

// Templates returns the full catalog.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// ByCategory filters the catalog to one picker grouping.
func ByCategory(category string) []Template {
	var out []Template
	for _, t := range templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Find looks a template up by id.
func Find(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
