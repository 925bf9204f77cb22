package markdown

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Markdown wraps markdown source code and provides methods to render it.
// Template catalog descriptions are authored as markdown and rendered to
// sanitized HTML when served.
type Markdown struct {
	// Source is the markdown source code.
	Source string
	// renderedHTML caches the HTML content rendered from the markdown source.
	renderedHTML *template.HTML
	// renderedText is the plain text content rendered from the markdown source.
	renderedText *template.HTML
}

var (
	bfRenderer = blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink | blackfriday.NofollowLinks | blackfriday.HrefTargetBlank | blackfriday.Smartypants | blackfriday.SmartypantsFractions | blackfriday.SmartypantsDashes | blackfriday.SmartypantsLatexDashes | blackfriday.SmartypantsAngledQuotes | blackfriday.SmartypantsQuotesNBSP,
	})
	bfExtensions = blackfriday.NoIntraEmphasis | blackfriday.Tables | blackfriday.FencedCode | blackfriday.Autolink | blackfriday.Strikethrough | blackfriday.SpaceHeadings | blackfriday.NoEmptyLineBeforeBlock | blackfriday.HeadingIDs | blackfriday.AutoHeadingIDs | blackfriday.DefinitionLists
	policy       = bluemonday.UGCPolicy()
)

func NewMarkdown(source string) *Markdown {
	return &Markdown{Source: source}
}

// Render converts the Markdown Source into sanitized HTML.
func (m *Markdown) Render() template.HTML {
	if m.renderedHTML != nil {
		return *m.renderedHTML
	}

	unsafe := blackfriday.Run([]byte(m.Source),
		blackfriday.WithRenderer(bfRenderer),
		blackfriday.WithExtensions(bfExtensions),
	)
	safe := policy.SanitizeBytes(unsafe)
	html := template.HTML(bytes.TrimSpace(safe))
	m.renderedHTML = &html
	return html
}

// PlainText renders the markdown source and strips every tag from the result.
func (m *Markdown) PlainText() template.HTML {
	if m.renderedText != nil {
		return *m.renderedText
	}

	unsafe := blackfriday.Run([]byte(m.Source),
		blackfriday.WithRenderer(bfRenderer),
		blackfriday.WithExtensions(bfExtensions),
	)

	safe := bytes.TrimSpace(bluemonday.StrictPolicy().SanitizeBytes(unsafe))
	h := template.HTML(safe)
	m.renderedText = &h

	return *m.renderedText
}

// MarshalJSON implements json.Marshaler, emitting the rendered sanitized HTML.
func (m Markdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m.Render()))
}

// UnmarshalJSON implements json.Unmarshaler so Markdown can be decoded from JSON.
func (m *Markdown) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("Markdown.UnmarshalJSON: %w", err)
	}
	m.Source = s
	m.renderedHTML = nil
	m.renderedText = nil
	return nil
}

// StripTags removes every HTML tag from user-supplied text. Generation
// titles and descriptions pass through this before they are stored.
func StripTags(s string) string {
	return string(bytes.TrimSpace(bluemonday.StrictPolicy().SanitizeBytes([]byte(s))))
}
