// Package workflow builds and dispatches generation payloads to the
// external automation engine's webhooks.
package workflow

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrUnknownCategory = errors.New("unknown workflow category")

// Category selects which automation pipeline receives a generation.
type Category string

const (
	CategoryUGCProduct      Category = "ugc-product"
	CategoryServiceBusiness Category = "service-business"
	CategorySoftwareUI      Category = "software-ui-logo"
)

var titleCaser = cases.Title(language.English)

// ParseCategory validates a client-supplied workflow name.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.TrimSpace(strings.ToLower(s))) {
	case CategoryUGCProduct:
		return CategoryUGCProduct, nil
	case CategoryServiceBusiness:
		return CategoryServiceBusiness, nil
	case CategorySoftwareUI:
		return CategorySoftwareUI, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// TemplateCategory is the catalog grouping the category belongs to.
func (c Category) TemplateCategory() string {
	if c == CategorySoftwareUI {
		return "software-ui"
	}
	return string(c)
}

// DisplayName renders the category for user-facing listings.
func (c Category) DisplayName() string {
	return titleCaser.String(strings.ReplaceAll(string(c), "-", " "))
}

// Categories returns every dispatchable workflow category.
func Categories() []Category {
	return []Category{CategoryUGCProduct, CategoryServiceBusiness, CategorySoftwareUI}
}
