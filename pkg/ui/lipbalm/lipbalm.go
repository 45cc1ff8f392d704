package lipbalm

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/beevik/etree"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// StyleMap maps tag names to the lipgloss style applied to their content.
type StyleMap map[string]lipgloss.Style

// NoFormatTag marks content only emitted when color output is disabled.
const NoFormatTag = "no-format"

// rootTag wraps the input so that mixed text and tags form a single document.
const rootTag = "lipbalm-root"

var (
	mu              sync.RWMutex
	defaultRenderer = lipgloss.DefaultRenderer()
)

// SetDefaultRenderer sets the renderer whose color profile decides whether
// styles are applied.
func SetDefaultRenderer(r *lipgloss.Renderer) {
	mu.Lock()
	defer mu.Unlock()
	defaultRenderer = r
}

func colorEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return defaultRenderer.ColorProfile() != termenv.Ascii
}

// Render executes tmpl as a Go template with data and expands the style
// tags in the result.
func Render(tmpl string, data any, styles StyleMap) (string, error) {
	t, err := template.New("lipbalm").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return ExpandTags(buf.String(), styles)
}

// ExpandTags replaces style tags with the matching lipgloss rendering.
// Input that is not well-formed markup is returned unchanged.
func ExpandTags(input string, styles StyleMap) (string, error) {
	if input == "" {
		return "", nil
	}
	root, ok := parse(input)
	if !ok {
		return input, nil
	}
	return expand(root, styles, colorEnabled()), nil
}

// StripTags removes every tag and keeps the text content, including the
// content of no-format tags.
func StripTags(input string) string {
	if input == "" {
		return ""
	}
	root, ok := parse(input)
	if !ok {
		return input
	}
	var b strings.Builder
	collectText(root, &b)
	return b.String()
}

func parse(input string) (*etree.Element, bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString("<" + rootTag + ">" + input + "</" + rootTag + ">"); err != nil {
		return nil, false
	}
	root := doc.SelectElement(rootTag)
	return root, root != nil
}

func expand(el *etree.Element, styles StyleMap, color bool) string {
	var b strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			if t.Tag == NoFormatTag {
				if !color {
					collectText(t, &b)
				}
				continue
			}
			inner := expand(t, styles, color)
			if style, ok := styles[t.Tag]; ok && color {
				b.WriteString(style.Render(inner))
			} else {
				b.WriteString(inner)
			}
		}
	}
	return b.String()
}

func collectText(el *etree.Element, b *strings.Builder) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			collectText(t, b)
		}
	}
}
