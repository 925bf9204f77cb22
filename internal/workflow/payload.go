package workflow

import (
	"fmt"
	"time"
)

// MissingFieldError reports a required input the category cannot dispatch
// without. Surfaced to the user as a validation error, never retried.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Inputs carries the per-category fields a generation request may supply.
// Which ones are required depends on the category.
type Inputs struct {
	// ugc-product
	Description string `json:"description,omitempty"`
	WebsiteURL  string `json:"website_url,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`

	// service-business
	BusinessWebsiteURL string `json:"businessWebsiteUrl,omitempty"`

	// software-ui-logo
	CompanyName  string `json:"companyName,omitempty"`
	LogoImage    string `json:"logoImage,omitempty"`
	UIScreenshot string `json:"uiScreenshot,omitempty"`
}

// Validate checks that the inputs carry everything the category requires.
func (in Inputs) Validate(category Category) error {
	switch category {
	case CategoryUGCProduct:
		if in.Description == "" {
			return &MissingFieldError{Field: "description"}
		}
		if in.WebsiteURL == "" {
			return &MissingFieldError{Field: "website_url"}
		}
	case CategoryServiceBusiness:
		if in.BusinessWebsiteURL == "" {
			return &MissingFieldError{Field: "businessWebsiteUrl"}
		}
	case CategorySoftwareUI:
		if in.CompanyName == "" {
			return &MissingFieldError{Field: "companyName"}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return nil
}

// BuildPayload assembles the webhook body for a generation. The ledger row
// id rides along so the engine's callback can reference it.
func BuildPayload(category Category, userID, generationID string, in Inputs, now time.Time) (map[string]any, error) {
	if err := in.Validate(category); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"userId":       userID,
		"generationId": generationID,
		"workflow":     string(category),
		"timestamp":    now.UTC().Format(time.RFC3339),
	}

	switch category {
	case CategoryUGCProduct:
		payload["description"] = in.Description
		payload["website_url"] = in.WebsiteURL
		if in.ImageBase64 != "" {
			payload["image_base64"] = in.ImageBase64
		}
	case CategoryServiceBusiness:
		payload["businessWebsiteUrl"] = in.BusinessWebsiteURL
	case CategorySoftwareUI:
		payload["companyName"] = in.CompanyName
		if in.LogoImage != "" {
			payload["logoImage"] = in.LogoImage
		}
		if in.UIScreenshot != "" {
			payload["uiScreenshot"] = in.UIScreenshot
		}
	}

	return payload, nil
}
