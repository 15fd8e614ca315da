package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerDelay = 100 * time.Millisecond

// Step reports one long-running operation. On a terminal it animates a
// spinner; elsewhere it prints nothing until the operation finishes.
type Step struct {
	out     io.Writer
	label   string
	symbols ProgressSymbols
	spin    *spinner.Spinner
}

// Start begins a step labelled label, writing to out.
func Start(out io.Writer, caps TerminalCapabilities, label string) *Step {
	s := &Step{out: out, label: label, symbols: SelectSymbols(caps)}
	if caps.IsTTY {
		s.spin = spinner.New(spinner.CharSets[s.symbols.SpinnerSet], spinnerDelay, spinner.WithWriter(out))
		s.spin.Suffix = " " + label
		s.spin.Start()
	}
	return s
}

// Done stops the step and prints its result line when it ran on a terminal.
func (s *Step) Done(err error) {
	if s.spin == nil {
		return
	}
	s.spin.Stop()
	if err != nil {
		fmt.Fprintf(s.out, "%s %s\n", s.symbols.Failure, s.label)
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", s.symbols.Checkmark, s.label)
}

// Run wraps fn in a step.
func Run(out io.Writer, caps TerminalCapabilities, label string, fn func() error) error {
	step := Start(out, caps, label)
	err := fn()
	step.Done(err)
	return err
}
