package core

import "io"

// UI defines the interface for user interaction and output.
// Implementations write to stderr so stdout stays clean for piping.
type UI interface {
	// Section prints a section header.
	Section(title string)
	// Title prints a main title.
	Title(title string)
	// Success prints a success message.
	Success(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Warning prints a warning message.
	Warning(msg string)
	// Error prints an error message.
	Error(msg string)
	// Printf prints a formatted message to standard output.
	Printf(format string, args ...interface{})
	// Println prints a line to standard output.
	Println(args ...interface{})

	// Start announces that a step is being evaluated.
	Start(label string)
	// Done reports a step that changed the system.
	Done(label, msg string)
	// Skip reports a step whose precondition was already satisfied.
	Skip(label, msg string)
	// Fail reports a step that errored.
	Fail(label, msg string)

	// WithWriter returns a new UI instance writing to the specified writer.
	WithWriter(w io.Writer) UI
}
