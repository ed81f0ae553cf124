// Package renderer renders snapshots and answers as markdown, with text/template.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/fiadvisor"
	"github.com/etnz/fiadvisor/agent"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

// RenderOverview renders o to markdown.
func RenderOverview(o *Overview) string {
	partials := map[string]string{
		"snapshot_title":   "snapshot_title.md",
		"snapshot_figures": "snapshot_figures.md",
		"snapshot_records": "snapshot_records.md",
	}
	return renderTemplate("snapshot", "snapshot.md", partials, o)
}

// Snapshot renders the financial snapshot of persona.
func Snapshot(persona fiadvisor.Persona, p *fiadvisor.Profile) string {
	return RenderOverview(NewOverview(persona, p))
}

// RenderReply renders r to markdown.
func RenderReply(r *Reply) string {
	return renderTemplate("answer", "answer.md", nil, r)
}

// Answer renders the advisor result r for question.
func Answer(persona, question string, r agent.Result) string {
	return RenderReply(&Reply{
		Persona:  persona,
		Question: question,
		Text:     r.Display(),
		Failed:   r.Err != nil,
	})
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
