package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Display orchestrates progress output for a validation run. Result lines go
// to the configured writer; the spinner animates on stderr so piped stdout
// stays clean.
type Display struct {
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	spinner      *spinner.Spinner
	out          io.Writer
}

// NewDisplay creates a progress display writing result lines to out.
func NewDisplay(caps TerminalCapabilities, out io.Writer) *Display {
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          out,
	}
}

// StartFile begins animating progress for one document. Outside a TTY this is
// a no-op; the complete result line is printed when the outcome arrives.
func (d *Display) StartFile(path string, number, total int) {
	d.startSpinner(buildFileMessage(path, number, total))
}

// StartBatch begins a single spinner covering a whole parallel batch.
func (d *Display) StartBatch(total int) {
	d.startSpinner(fmt.Sprintf("Validating %d file(s)...", total))
}

func (d *Display) startSpinner(msg string) {
	if !d.capabilities.IsTTY {
		return
	}
	d.Stop()
	d.spinner = spinner.New(
		spinner.CharSets[d.symbols.SpinnerSet],
		100*time.Millisecond,
	)
	d.spinner.Writer = os.Stderr // Keep stdout clean for result lines
	d.spinner.Suffix = " " + msg
	d.spinner.Start()
}

// Result stops the spinner and prints the document's result line.
func (d *Display) Result(path string, ok bool) {
	d.Stop()

	mark := checkmark(d.symbols, d.capabilities.SupportsColor)
	if !ok {
		mark = failureMark(d.symbols, d.capabilities.SupportsColor)
	}
	fmt.Fprintf(d.out, "Validating %s... %s\n", path, mark)
}

// Stop halts the spinner without printing a result.
// This is useful when interrupting the run or before interactive output.
func (d *Display) Stop() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}
