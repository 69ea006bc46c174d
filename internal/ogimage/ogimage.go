// Package ogimage renders the dynamic social-preview images as SVG.
package ogimage

import (
	"bytes"
	"fmt"
	"html"
	"text/template"
)

// Params selects the preview content. Kind switches the accent color:
// "event" for the events pages, anything else gets the storefront theme.
type Params struct {
	Title    string
	Subtitle string
	Kind     string
}

const width, height = 1200, 630

var svgTemplate = template.Must(template.New("og").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
  <defs>
    <linearGradient id="bg" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0%" stop-color="#111827"/>
      <stop offset="100%" stop-color="{{.Accent}}"/>
    </linearGradient>
  </defs>
  <rect width="{{.Width}}" height="{{.Height}}" fill="url(#bg)"/>
  <text x="80" y="140" font-family="Arial, sans-serif" font-size="44" fill="{{.Accent}}" font-weight="bold">NA M&#205;DIA</text>
  <text x="80" y="330" font-family="Arial, sans-serif" font-size="72" fill="#ffffff" font-weight="bold">{{.Title}}</text>
  <text x="80" y="420" font-family="Arial, sans-serif" font-size="36" fill="#d1d5db">{{.Subtitle}}</text>
  <text x="80" y="560" font-family="Arial, sans-serif" font-size="28" fill="#9ca3af">namidia.com.br</text>
</svg>
`))

type templateData struct {
	Width    int
	Height   int
	Accent   string
	Title    string
	Subtitle string
}

// Render produces the SVG bytes for the preview card.
func Render(params Params) ([]byte, error) {
	accent := "#f59e0b"
	if params.Kind == "event" {
		accent = "#8b5cf6"
	}

	title := params.Title
	if title == "" {
		title = "Na Mídia"
	}
	if runes := []rune(title); len(runes) > 40 {
		title = string(runes[:37]) + "..."
	}

	data := templateData{
		Width:    width,
		Height:   height,
		Accent:   accent,
		Title:    html.EscapeString(title),
		Subtitle: html.EscapeString(params.Subtitle),
	}

	var buf bytes.Buffer
	if err := svgTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render og image: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType is the MIME type of rendered previews.
const ContentType = "image/svg+xml"
