// Package render produces a standalone HTML preview of a poster document.
// It is a convenience surface for the CLI and server; the browser editor
// has its own renderer and only depends on the document contract.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"posterforge/internal/poster"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var pageTemplate = template.Must(template.New("poster").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Doc.Title}}</title>
<style>
  :root {
    --primary: {{.Doc.Theme.PrimaryColor}};
    --secondary: {{.Doc.Theme.SecondaryColor}};
    --accent: {{.Doc.Theme.AccentColor}};
    --background: {{.Doc.Theme.BackgroundColor}};
    --title-text: {{.Doc.Theme.TitleTextColor}};
    --body-text: {{.Doc.Theme.BodyTextColor}};
    --section-title: {{.Doc.Theme.SectionTitleColor}};
    --border: {{.Doc.Theme.BorderColor}};
  }
  body { background: var(--background); color: var(--body-text); font-family: sans-serif; margin: 0; }
  header { background: var(--primary); color: var(--title-text); padding: 24px; text-align: center; }
  header .meta { color: var(--title-text); opacity: 0.85; }
  .columns { display: flex; gap: 16px; padding: 16px; }
  .column { flex: 1; display: flex; flex-direction: column; gap: 16px; }
  section { border: 1px solid var(--border); border-radius: 6px; padding: 12px; }
  section h2 { color: var(--section-title); margin-top: 0; }
  table { border-collapse: collapse; width: 100%; }
  td, th { border: 1px solid var(--border); padding: 4px 8px; }
  figure { margin: 8px 0; }
  footer { border-top: 2px solid var(--primary); padding: 12px 24px; font-size: 0.9em; }
</style>
</head>
<body>
<header>
  <h1>{{.Doc.Title}}</h1>
  <p class="meta">{{join .Doc.Authors ", "}}</p>
  <p class="meta">{{.Doc.University}}{{if .Doc.Department}} &middot; {{.Doc.Department}}{{end}}</p>
</header>
<div class="columns">
  <div class="column">{{range .Left}}{{template "section" .}}{{end}}</div>
  <div class="column">{{range .Right}}{{template "section" .}}{{end}}</div>
</div>
<footer>
  {{with .Doc.ContactInfo}}{{.Email}} {{.Phone}} {{.Website}} {{.Address}}{{end}}
</footer>
</body>
</html>
{{define "section"}}<section id="{{.Section.ID}}">
<h2>{{.Section.Title}}</h2>
{{.ContentHTML}}
{{range .VisualHTML}}{{.}}{{end}}
</section>
{{end}}`))

type renderedSection struct {
	Section     poster.Section
	ContentHTML template.HTML
	VisualHTML  []template.HTML
}

type pageData struct {
	Doc   *poster.Document
	Left  []renderedSection
	Right []renderedSection
}

// HTML renders the document as a self-contained page with the theme colors
// exposed as CSS variables.
func HTML(doc *poster.Document) (string, error) {
	data := pageData{Doc: doc}
	for _, sec := range doc.Sections {
		rs, err := renderSection(sec)
		if err != nil {
			return "", fmt.Errorf("render section %q: %w", sec.Title, err)
		}
		if sec.Column == poster.ColumnLeft {
			data.Left = append(data.Left, rs)
		} else {
			data.Right = append(data.Right, rs)
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderSection(sec poster.Section) (renderedSection, error) {
	var content bytes.Buffer
	if err := markdown.Convert([]byte(sec.Content), &content); err != nil {
		return renderedSection{}, err
	}

	rs := renderedSection{
		Section:     sec,
		ContentHTML: template.HTML(content.String()),
	}
	for _, v := range sec.Visuals {
		rs.VisualHTML = append(rs.VisualHTML, renderVisual(v))
	}
	return rs, nil
}

// renderVisual emits a static placeholder for each visual: tables and chart
// data render as HTML tables, images as figures. Interactive charts belong
// to the browser editor.
func renderVisual(v poster.Visual) template.HTML {
	var sb strings.Builder
	switch v.Type {
	case poster.VisualImage:
		fmt.Fprintf(&sb, `<figure><img src="%s" alt="%s"><figcaption>%s</figcaption></figure>`,
			template.HTMLEscapeString(v.URL), template.HTMLEscapeString(v.Caption), template.HTMLEscapeString(v.Caption))
	case poster.VisualTable:
		sb.WriteString("<table><tr>")
		for _, h := range v.Headers {
			fmt.Fprintf(&sb, "<th>%s</th>", template.HTMLEscapeString(h))
		}
		sb.WriteString("</tr>")
		for _, row := range v.Rows {
			sb.WriteString("<tr>")
			for _, cell := range row {
				fmt.Fprintf(&sb, "<td>%s</td>", template.HTMLEscapeString(cell))
			}
			sb.WriteString("</tr>")
		}
		sb.WriteString("</table>")
	case poster.VisualDonutChart:
		sb.WriteString("<table><tr><th>Label</th><th>Value</th></tr>")
		for _, item := range v.Items {
			fmt.Fprintf(&sb, "<tr><td>%s</td><td>%g</td></tr>", template.HTMLEscapeString(item.Label), item.Value)
		}
		sb.WriteString("</table>")
	case poster.VisualLineChart, poster.VisualBarChart:
		sb.WriteString("<table><tr><th>Series</th>")
		for _, l := range v.Labels {
			fmt.Fprintf(&sb, "<th>%s</th>", template.HTMLEscapeString(l))
		}
		sb.WriteString("</tr>")
		for _, s := range v.Series {
			fmt.Fprintf(&sb, "<tr><td>%s</td>", template.HTMLEscapeString(s.Name))
			for _, d := range s.Data {
				fmt.Fprintf(&sb, "<td>%g</td>", d)
			}
			sb.WriteString("</tr>")
		}
		sb.WriteString("</table>")
	}
	return template.HTML(sb.String())
}
