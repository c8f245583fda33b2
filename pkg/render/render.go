// Package render turns a button registry into the single static page btnify
// serves on GET /. The page is rendered once at bind time and never depends
// on request state.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/joeydtaylor/btnify/pkg/button"
	"github.com/joeydtaylor/btnify/pkg/core"
)

//go:embed page.html
var pageFS embed.FS

var pageTmpl = template.Must(template.ParseFS(pageFS, "page.html"))

// Entry is what the page needs to know about one button.
type Entry struct {
	Name    string
	Prompts []string
}

type pageButton struct {
	ID   int
	Name string
}

type pageData struct {
	Title   string
	Buttons []pageButton
	Prompts template.JS
}

// Page renders entries in order; entry i posts id i.
func Page(title string, entries []Entry) ([]byte, error) {
	data := pageData{
		Title:   title,
		Buttons: make([]pageButton, len(entries)),
		Prompts: template.JS(promptTable(entries)),
	}
	for i, e := range entries {
		data.Buttons[i] = pageButton{ID: i, Name: e.Name}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RegistryPage renders every button in reg.
func RegistryPage[S any](title string, reg *core.Registry[S]) ([]byte, error) {
	entries := make([]Entry, 0, reg.Len())
	reg.Each(func(_ int, b button.Button[S]) {
		entries = append(entries, Entry{Name: b.Name(), Prompts: b.Prompts()})
	})
	return Page(title, entries)
}

// promptTable builds a JS array literal with one array of prompt strings per
// button, e.g. [[],["name?"]]. The literal is also valid JSON.
func promptTable(entries []Entry) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('[')
		for j, p := range e.Prompts {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(EscapeJS(p))
			sb.WriteByte('"')
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}
