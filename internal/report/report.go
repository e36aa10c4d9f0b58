package report

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"

	"DCADashboard/internal/model"
	"DCADashboard/internal/strategy"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02")
	},
	"threshold": strategy.ThresholdToPercent,
	"escape":    escape,
	"windowLabels": func(e *model.Evaluation) []string {
		for _, a := range e.Assets {
			labels := make([]string, len(a.Windows))
			for i, w := range a.Windows {
				labels[i] = escape(w.Window.Label)
			}
			return labels
		}
		return nil
	},
	"hasAlerts": func(e *model.Evaluation) bool { return e.AlertCount() > 0 },
}

var dashboard = template.Must(template.New("dashboard.md").Funcs(funcs).ParseFS(templates, "templates/dashboard.md"))

// Markdown renders eval as markdown tables.
func Markdown(eval *model.Evaluation) (string, error) {
	var b bytes.Buffer
	if err := dashboard.Execute(&b, eval); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return b.String(), nil
}

// Render renders eval for a terminal. style is a glamour standard style
// such as "dark", "light" or "notty"; width <= 0 disables wrapping.
func Render(eval *model.Evaluation, style string, width int) (string, error) {
	md, err := Markdown(eval)
	if err != nil {
		return "", err
	}
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

var mdEscaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`)

func escape(s string) string { return mdEscaper.Replace(s) }
