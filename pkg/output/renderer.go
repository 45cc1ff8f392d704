package output

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/output/styles"
	"github.com/arthur-debert/dotsync/pkg/ui/lipbalm"
	"github.com/charmbracelet/lipgloss"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer expands the embedded templates and writes styled output.
//
// Rendering happens in two steps:
//  1. The Go template for the view runs against a plain view model
//  2. Lipbalm turns the semantic tags in the result into ANSI sequences,
//     or strips them when color is off
type Renderer struct {
	templates *template.Template
	writer    io.Writer
	noColor   bool
}

// NewRenderer creates a Renderer writing to w. With noColor every style tag
// is stripped; otherwise the color profile of w decides.
func NewRenderer(w io.Writer, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("output.Renderer")

	log.Debug().
		Bool("noColor", noColor).
		Str("NO_COLOR_env", os.Getenv("NO_COLOR")).
		Str("TERM", os.Getenv("TERM")).
		Msg("Creating renderer")

	if !noColor {
		renderer := lipgloss.NewRenderer(w)
		lipbalm.SetDefaultRenderer(renderer)
		log.Debug().
			Str("colorProfile", fmt.Sprintf("%v", renderer.ColorProfile())).
			Msg("Lipgloss renderer created")
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{
		templates: tmpl,
		writer:    w,
		noColor:   noColor,
	}, nil
}

// execute runs the named template and writes the styled result.
func (r *Renderer) execute(name string, data any) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return r.write(strings.TrimRight(buf.String(), "\n"))
}

func (r *Renderer) write(markup string) error {
	out, err := r.style(markup)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.writer, out)
	return err
}

func (r *Renderer) style(markup string) (string, error) {
	if r.noColor {
		return lipbalm.StripTags(markup), nil
	}
	out, err := lipbalm.ExpandTags(markup, styles.Registry())
	if err != nil {
		return "", fmt.Errorf("failed to expand tags: %w", err)
	}
	return out, nil
}

// RenderPlan writes the plan as one line per item.
func (r *Renderer) RenderPlan(v PlanView) error {
	return r.execute("plan.tmpl", v)
}

// RenderItem writes the outcome of one executed item.
func (r *Renderer) RenderItem(v ItemView) error {
	return r.execute("item.tmpl", v)
}

// RenderSummary writes the closing summary of a session.
func (r *Renderer) RenderSummary(v SummaryView) error {
	return r.execute("summary.tmpl", v)
}

// RenderError writes err prefixed with an error badge.
func (r *Renderer) RenderError(err error) error {
	return r.write("<errorBadge>Error</errorBadge> " + template.HTMLEscapeString(err.Error()))
}

// RenderMessage writes message wrapped in the named style.
func (r *Renderer) RenderMessage(style, message string) error {
	escaped := template.HTMLEscapeString(message)
	return r.write(fmt.Sprintf("<%s>%s</%s>", style, escaped, style))
}
