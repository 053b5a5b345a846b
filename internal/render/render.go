// Package render turns a result panel into terminal text, JSON, or an HTML
// fragment. Strings that came from the lookup service are stripped of markup
// before they are shown.
package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
	"github.com/microcosm-cc/bluemonday"

	"vocalis/internal/form"
)

// Format selects an output representation.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatHTML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or html)", s)
	}
}

// Panel renders p in format f.
func Panel(f Format, p form.Panel) (string, error) {
	switch f {
	case FormatJSON:
		return JSON(p)
	case FormatHTML:
		return HTML(p)
	default:
		return Text(p), nil
	}
}

var (
	stripOnce sync.Once
	strip     *bluemonday.Policy
)

// Clean removes any markup from a backend-provided string.
func Clean(s string) string {
	stripOnce.Do(func() {
		strip = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(strip.Sanitize(s)))
}

func cleanCard(c form.Card) form.Card {
	return form.Card{
		EnglishName:    Clean(c.EnglishName),
		ScientificName: Clean(c.ScientificName),
		Sound:          Clean(c.Sound),
		EmotionLabel:   Clean(c.EmotionLabel),
		ContextTrigger: Clean(c.ContextTrigger),
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(20)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	loadingStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
)

// Text renders the panel for a terminal. A hidden panel renders empty.
func Text(p form.Panel) string {
	switch p.Kind {
	case form.PanelHidden:
		return ""
	case form.PanelLoading:
		return loadingStyle.Render(p.Message)
	case form.PanelError, form.PanelNotFound:
		return errorStyle.Render(p.Message)
	}

	if p.Card == nil {
		return Clean(p.Message)
	}
	c := cleanCard(*p.Card)
	rows := []string{
		titleStyle.Render("Analysis Results"),
		labelStyle.Render("Animal:") + fmt.Sprintf("%s (%s)", c.EnglishName, c.ScientificName),
		labelStyle.Render("Sound:") + c.Sound,
		labelStyle.Render("Emotion:") + c.EmotionLabel,
		labelStyle.Render("Context / Trigger:") + c.ContextTrigger,
	}
	return cardStyle.Render(strings.Join(rows, "\n"))
}

type jsonPanel struct {
	Status  string     `json:"status"`
	Message string     `json:"message,omitempty"`
	Card    *form.Card `json:"card,omitempty"`
}

// JSON renders the panel as a single JSON object.
func JSON(p form.Panel) (string, error) {
	out := jsonPanel{Status: p.Kind.String(), Message: p.Message}
	if p.Kind == form.PanelSuccess {
		out.Message = Clean(p.Message)
	}
	if p.Card != nil {
		c := cleanCard(*p.Card)
		out.Card = &c
	}
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode panel: %w", err)
	}
	return string(b), nil
}

var panelTemplate = template.Must(template.New("panel").Parse(`<div id="result-display" class="result-visible{{if .Class}} {{.Class}}{{end}}">
{{- if .Card}}
<div class="result-content">
<h3>Analysis Results</h3>
<div class="result-item"><div class="result-label">Animal:</div><div class="result-value">{{.Card.EnglishName}} ({{.Card.ScientificName}})</div></div>
<div class="result-item"><div class="result-label">Sound:</div><div class="result-value">{{.Card.Sound}}</div></div>
<div class="result-item"><div class="result-label">Emotion:</div><div class="result-value">{{.Card.EmotionLabel}}</div></div>
<div class="result-item"><div class="result-label">Context / Trigger:</div><div class="result-value">{{.Card.ContextTrigger}}</div></div>
</div>
{{- else}}
{{.Message}}
{{- end}}
</div>`))

// HTML renders the panel as an escaped HTML fragment.
func HTML(p form.Panel) (string, error) {
	if !p.Visible() {
		return "", nil
	}

	data := struct {
		Class   string
		Message string
		Card    *form.Card
	}{Message: Clean(p.Message)}
	switch p.Kind {
	case form.PanelError, form.PanelNotFound:
		data.Class = "error"
	case form.PanelLoading:
		data.Class = "loading"
	}
	if p.Card != nil {
		c := cleanCard(*p.Card)
		data.Card = &c
	}

	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render panel: %w", err)
	}
	return buf.String(), nil
}
