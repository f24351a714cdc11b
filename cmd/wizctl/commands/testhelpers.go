package commands

import (
	"bytes"
	"io"
	"os"
	"regexp"

	"github.com/pterm/pterm"
)

// captureStdout captures stdout during the execution of f, disables pterm color, and strips ANSI codes from the output.
func captureStdout(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// pterm printers hold their own writers, so point them at the pipe too
	oldPrintColor := pterm.PrintColor
	oldOutput := pterm.Output
	oldTableWriter := pterm.DefaultTable.Writer
	oldPrinters := map[*pterm.PrefixPrinter]io.Writer{}
	for _, p := range []*pterm.PrefixPrinter{&pterm.Success, &pterm.Info, &pterm.Warning} {
		oldPrinters[p] = p.Writer
		p.Writer = w
	}

	pterm.PrintColor = false
	pterm.Output = true
	pterm.DefaultTable.Writer = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = oldStdout

	pterm.PrintColor = oldPrintColor
	pterm.Output = oldOutput
	pterm.DefaultTable.Writer = oldTableWriter
	for p, wr := range oldPrinters {
		p.Writer = wr
	}

	out := <-outC

	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(out, "")
}
