// Package confirmations asks the user which plan entries to execute.
package confirmations

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/planner"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// ConsoleDecider prompts once per actionable entry. The default answer is
// No, and end of input declines every remaining entry.
type ConsoleDecider struct {
	out   io.Writer
	lines <-chan line
	done  chan struct{}
	once  sync.Once
}

type line struct {
	text string
	err  error
}

// NewConsoleDecider reads answers from in and writes prompts to out
func NewConsoleDecider(in io.Reader, out io.Writer) *ConsoleDecider {
	done := make(chan struct{})
	return &ConsoleDecider{out: out, lines: readLines(in, done), done: done}
}

// Close stops the input reader once its pending read returns. Select
// closes the decider itself when its context is cancelled.
func (d *ConsoleDecider) Close() {
	d.once.Do(func() { close(d.done) })
}

// readLines feeds the lines of in to a channel so that a pending read does
// not block cancellation. The channel is closed after the first error or
// once done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan line {
	ch := make(chan line)
	go func() {
		defer close(ch)
		send := func(l line) bool {
			select {
			case ch <- l:
				return true
			case <-done:
				return false
			}
		}
		r := bufio.NewReader(in)
		for {
			text, err := r.ReadString('\n')
			if text != "" && !send(line{text: text}) {
				return
			}
			if err != nil {
				if err != io.EOF {
					send(line{err: err})
				}
				return
			}
		}
	}()
	return ch
}

// Select asks about every actionable entry of plan in order
func (d *ConsoleDecider) Select(ctx context.Context, plan types.SyncPlan) ([]types.PlanEntry, error) {
	logger := logging.GetLogger("confirmations")

	var selected []types.PlanEntry
	for _, entry := range plan.Actionable() {
		ok, eof, err := d.ask(ctx, entry)
		if err != nil {
			if ctx.Err() != nil {
				d.Close()
			}
			return selected, err
		}
		if eof {
			logger.Debug().Str("item", entry.Item.String()).Msg("Input closed, declining remaining items")
			fmt.Fprintln(d.out)
			break
		}
		if ok {
			selected = append(selected, entry)
		}
	}
	return selected, nil
}

func (d *ConsoleDecider) ask(ctx context.Context, entry types.PlanEntry) (approved, eof bool, err error) {
	desc := planner.Describe(entry)
	for {
		if err := ctx.Err(); err != nil {
			return false, false, err
		}
		fmt.Fprintf(d.out, "Sync %s (%s)? [y/N]: ", entry.Item, desc.Text)

		var l line
		var open bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(d.out)
			return false, false, ctx.Err()
		case l, open = <-d.lines:
		}
		if !open {
			return false, true, nil
		}
		if l.err != nil {
			return false, false, errors.Wrap(l.err, errors.ErrInternal, "failed to read user input")
		}

		switch answer := strings.ToLower(strings.TrimSpace(l.text)); answer {
		case "y", "yes":
			return true, false, nil
		case "", "n", "no":
			return false, false, nil
		default:
			fmt.Fprintf(d.out, "Please answer y or n (got %q).\n", answer)
		}
	}
}
