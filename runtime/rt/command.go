package rt

import (
	"reflect"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/channels"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
)

// Issuer enqueues commands of group G.
type Issuer[G any] struct {
	ch *channels.CommandChannel[G]
}

// Issue buffers cmd for the handling module's next cycle.
func (i *Issuer[G]) Issue(cmd channels.Command[G]) { i.ch.Enqueue(cmd) }

// Issue declares the module as an issuer of commands of group G.
func Issue[G any](l *Linker) *Issuer[G] {
	i := &Issuer[G]{ch: commandChannel[G](l)}
	l.addEndpoint(reflect.TypeFor[G](), metadata.KindCommand, metadata.Out, false, i)
	return i
}

// Handler runs the command handlers of group G at the start of every cycle
// of its module.
type Handler[G any] struct {
	ch *channels.CommandChannel[G]
}

// Handle declares the module as the handler of command group G. Handlers
// for the individual command types are bound with On.
func Handle[G any](l *Linker) *Handler[G] {
	h := &Handler[G]{ch: commandChannel[G](l)}
	l.addEndpoint(reflect.TypeFor[G](), metadata.KindCommand, metadata.In, false, h)
	l.onPre(func() { h.ch.Update() })
	return h
}

// On binds fn to the command type C.
func On[G any, C channels.Command[G]](h *Handler[G], fn func(C)) {
	channels.Connect(h.ch, fn)
}
