package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	cat, err := ParseCategory("ugc-product")
	require.NoError(t, err)
	require.Equal(t, CategoryUGCProduct, cat)

	cat, err = ParseCategory("  Service-Business ")
	require.NoError(t, err)
	require.Equal(t, CategoryServiceBusiness, cat)

	_, err = ParseCategory("music-video")
	require.Error(t, err)

	_, err = ParseCategory("")
	require.Error(t, err)
}

func TestCategory_TemplateCategory(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ugc-product", CategoryUGCProduct.TemplateCategory())
	require.Equal(t, "service-business", CategoryServiceBusiness.TemplateCategory())
	require.Equal(t, "software-ui", CategorySoftwareUI.TemplateCategory())
}

func TestCategory_DisplayName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Ugc Product", CategoryUGCProduct.DisplayName())
	require.Equal(t, "Service Business", CategoryServiceBusiness.DisplayName())
}

func TestInputs_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		category Category
		inputs   Inputs
		missing  string
	}{
		{"ugc ok", CategoryUGCProduct, Inputs{Description: "demo", WebsiteURL: "https://example.com"}, ""},
		{"ugc missing description", CategoryUGCProduct, Inputs{WebsiteURL: "https://example.com"}, "description"},
		{"ugc missing url", CategoryUGCProduct, Inputs{Description: "demo"}, "website_url"},
		{"service ok", CategoryServiceBusiness, Inputs{BusinessWebsiteURL: "https://biz.example"}, ""},
		{"service missing url", CategoryServiceBusiness, Inputs{}, "businessWebsiteUrl"},
		{"software ok", CategorySoftwareUI, Inputs{CompanyName: "Acme"}, ""},
		{"software missing name", CategorySoftwareUI, Inputs{LogoImage: "data:"}, "companyName"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.inputs.Validate(tc.category)
			if tc.missing == "" {
				require.NoError(t, err)
				return
			}
			var mfe *MissingFieldError
			require.ErrorAs(t, err, &mfe)
			require.Equal(t, tc.missing, mfe.Field)
		})
	}
}

func TestBuildPayload(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	payload, err := BuildPayload(CategoryUGCProduct, "user-1", "gen-1", Inputs{
		Description: "product demo",
		WebsiteURL:  "https://example.com",
	}, now)
	require.NoError(t, err)

	require.Equal(t, "user-1", payload["userId"])
	require.Equal(t, "gen-1", payload["generationId"])
	require.Equal(t, "ugc-product", payload["workflow"])
	require.Equal(t, "2026-03-14T09:26:53Z", payload["timestamp"])
	require.Equal(t, "product demo", payload["description"])
	require.NotContains(t, payload, "image_base64")
}

func TestBuildPayload_OptionalFields(t *testing.T) {
	t.Parallel()

	payload, err := BuildPayload(CategorySoftwareUI, "u", "g", Inputs{
		CompanyName:  "Acme",
		LogoImage:    "data:image/png;base64,AAAA",
		UIScreenshot: "data:image/png;base64,BBBB",
	}, time.Now())
	require.NoError(t, err)
	require.Contains(t, payload, "logoImage")
	require.Contains(t, payload, "uiScreenshot")
}

func TestBuildPayload_ValidatesFirst(t *testing.T) {
	t.Parallel()

	_, err := BuildPayload(CategoryServiceBusiness, "u", "g", Inputs{}, time.Now())
	var mfe *MissingFieldError
	require.ErrorAs(t, err, &mfe)
}
