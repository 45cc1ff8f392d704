// Package ui picks how a session is presented: rich terminal output, plain
// text, or a JSON document.
package ui

import (
	"io"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/output"
	"github.com/arthur-debert/dotsync/pkg/session"
	"github.com/arthur-debert/dotsync/pkg/ui/json"
)

// Reporter is a session reporter that can also render a fatal error in
// its own format.
type Reporter interface {
	session.Reporter
	RenderError(err error) error
}

// NewReporter creates the reporter for format writing to w. FormatAuto is
// resolved with DetectFormat.
func NewReporter(format Format, w io.Writer, title string, dryRun bool) (Reporter, error) {
	if format == FormatAuto {
		format = DetectFormat(w)
	}

	switch format {
	case FormatTerminal, FormatText:
		r, err := output.NewRenderer(w, format == FormatText)
		if err != nil {
			return nil, err
		}
		return &textReporter{Reporter: output.NewReporter(r, title, dryRun), r: r}, nil
	case FormatJSON:
		return json.New(w), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

type textReporter struct {
	*output.Reporter
	r *output.Renderer
}

func (t *textReporter) RenderError(err error) error {
	return t.r.RenderError(err)
}
