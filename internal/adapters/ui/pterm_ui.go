package ui

import (
	"fmt"
	"io"
	"os"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// PtermUI is an implementation of core.UI using pterm.
type PtermUI struct {
	writer io.Writer
}

// NewPtermUI creates a new PtermUI writing to stderr, so stdout stays
// clean for rendered artifacts (backend blokları gibi).
func NewPtermUI() *PtermUI {
	return &PtermUI{
		writer: os.Stderr,
	}
}

// Ensure PtermUI implements core.UI
var _ core.UI = (*PtermUI)(nil)

// skipPrinter, pterm.Info'nun gri tonlu bir kopyasıdır: atlanan adımlar
// görünür ama dikkat çekmez.
var skipPrinter = pterm.PrefixPrinter{
	MessageStyle: &pterm.Style{pterm.FgGray},
	Prefix: pterm.Prefix{
		Style: &pterm.Style{pterm.FgGray},
		Text:  " SKIP",
	},
}

func (p *PtermUI) Section(title string) {
	pterm.DefaultSection.WithWriter(p.writer).Println(title)
}

func (p *PtermUI) Title(title string) {
	pterm.DefaultHeader.WithFullWidth().WithWriter(p.writer).Println(title)
}

func (p *PtermUI) Success(msg string) {
	pterm.Success.WithWriter(p.writer).Println(msg)
}

func (p *PtermUI) Info(msg string) {
	pterm.Info.WithWriter(p.writer).Println(msg)
}

func (p *PtermUI) Warning(msg string) {
	pterm.Warning.WithWriter(p.writer).Println(msg)
}

func (p *PtermUI) Error(msg string) {
	pterm.Error.WithWriter(p.writer).Println(msg)
}

func (p *PtermUI) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.writer, format, args...)
}

func (p *PtermUI) Println(args ...interface{}) {
	fmt.Fprintln(p.writer, args...)
}

// Start hides the cursor while a step's action is running; the result
// line (Done/Skip/Fail) restores it. Adım başına tek satır basılır.
func (p *PtermUI) Start(label string) {
	cursor.Hide()
}

func (p *PtermUI) Done(label, msg string) {
	cursor.Show()
	pterm.Success.WithWriter(p.writer).Println(joinLabel(label, msg))
}

func (p *PtermUI) Skip(label, msg string) {
	cursor.Show()
	skipPrinter.WithWriter(p.writer).Println(joinLabel(label, msg))
}

func (p *PtermUI) Fail(label, msg string) {
	cursor.Show()
	pterm.Error.WithWriter(p.writer).Println(joinLabel(label, msg))
}

func (p *PtermUI) WithWriter(w io.Writer) core.UI {
	return &PtermUI{
		writer: w,
	}
}

func joinLabel(label, msg string) string {
	if msg == "" {
		return label
	}
	return label + ": " + msg
}
