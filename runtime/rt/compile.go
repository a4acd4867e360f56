package rt

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
)

const compileErrorHeader = "Found the following errors in module dependencies:"

// GraphError is one problem found while compiling the module graph.
type GraphError struct {
	Subject string // e.g. "Message 'vision.BallPercept'"
	Message string
}

func (e *GraphError) Error() string {
	return e.Subject + ": " + e.Message
}

// CompileError lists every problem found while compiling the module graph.
type CompileError struct {
	err error
}

// Errors returns the individual *GraphError values.
func (e *CompileError) Errors() []error { return multierr.Errors(e.err) }

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *CompileError) Unwrap() []error { return e.Errors() }

func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString(compileErrorHeader)
	for _, err := range e.Errors() {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func channelError(ch *metadata.ChannelMeta, msg string) error {
	var kind string
	switch ch.Kind {
	case metadata.KindMessage, metadata.KindBlob:
		kind = "Message"
	case metadata.KindCommand:
		kind = "Commands of type"
	case metadata.KindContext:
		kind = "Context"
	}
	return &GraphError{Subject: fmt.Sprintf("%s '%s'", kind, ch.TypeName()), Message: msg}
}

func moduleError(m *metadata.ModuleMeta, msg string) error {
	return &GraphError{Subject: fmt.Sprintf("Module '%s'", m.Name), Message: msg}
}

func (k *Kernel) resolve() error {
	meta := k.meta
	meta.SetRequiredBy()

	var errs error
	for _, c := range metadata.FindCycles(meta.Modules) {
		errs = multierr.Append(errs, moduleError(meta.Module(c.Child),
			fmt.Sprintf("Circular dependency with module '%s'.", meta.Module(c.Ancestor).Name)))
	}

	for i := range meta.Channels {
		ch := &meta.Channels[i]
		switch ch.Kind {
		case metadata.KindMessage, metadata.KindBlob:
			switch n := len(meta.ModulesOn(ch.ID, metadata.Out)); {
			case n == 0:
				errs = multierr.Append(errs, channelError(ch, "Message has no producer."))
			case n >= 2:
				errs = multierr.Append(errs, channelError(ch, "Message has more than one producer."))
			}
		case metadata.KindCommand:
			switch n := len(meta.ModulesOn(ch.ID, metadata.In)); {
			case n == 0:
				errs = multierr.Append(errs, channelError(ch, "Commands have no handler."))
			case n >= 2:
				errs = multierr.Append(errs, channelError(ch, "Commands have multiple handlers."))
			}
		}
	}

	var logger *metadata.ModuleMeta
	for i := range meta.Modules {
		m := &meta.Modules[i]
		if !m.Tags.Has(Logger) {
			continue
		}
		if logger != nil {
			errs = multierr.Append(errs, moduleError(m,
				fmt.Sprintf("Only one logger module is allowed, '%s' is already tagged logger.", logger.Name)))
			continue
		}
		logger = m
	}

	if errs != nil {
		return &CompileError{err: errs}
	}
	return nil
}
