package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Details      []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with details and help
// commands
//
// Example output:
//
//	✗ COMPILE FAILED: module graph has 2 errors
//	   - Message 'demo.BallPercept': Message has no producer.
//	   - Commands of type 'demo.MotionCommands': Commands have no handler.
//
//	   → Inspect the graph: rtctl graph
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	attr, symbol := color.FgRed, "✗"
	if opts.Level == ErrorLevelWarning {
		attr, symbol = color.FgYellow, "!"
	}
	header := newColor(opts.NoColor, attr, color.Bold)
	body := newColor(opts.NoColor, attr)

	if opts.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	for _, d := range opts.Details {
		body.Fprintf(&b, "   - %s\n", d)
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := newColor(opts.NoColor, color.FgCyan)
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	return newColor(noColor, color.FgGreen, color.Bold).Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// CompileError renders a module graph compile failure. Errors that are not
// compile errors are rendered as a single line.
func CompileError(err error, noColor bool) string {
	opts := ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "COMPILE FAILED",
		HelpCommands: []string{"Inspect the graph: rtctl graph"},
		NoColor:      noColor,
	}

	var cerr *rt.CompileError
	if !errors.As(err, &cerr) {
		opts.Problem = err.Error()
		return FormatError(opts)
	}

	errs := cerr.Errors()
	opts.Problem = fmt.Sprintf("module graph has %d error%s", len(errs), plural(len(errs)))
	for _, e := range errs {
		opts.Details = append(opts.Details, e.Error())
	}
	return FormatError(opts)
}

// ShutdownWarning renders a shutdown that did not finish in time.
func ShutdownWarning(err error, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelWarning,
		Context: "SHUTDOWN",
		Problem: err.Error(),
		HelpCommands: []string{
			"Raise the timeout: RT_KERNEL_SHUTDOWN_TIMEOUT=5s",
		},
		NoColor: noColor,
	})
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
