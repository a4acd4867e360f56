package rt

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/channels"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
)

// Linker collects the endpoints of one module while it connects.
type Linker struct {
	kernel *Kernel
	name   string
	tags   Tag

	endpoints []metadata.EndpointMeta
	ready     []func() bool
	pre       []func()
	post      []func()
}

func newLinker(k *Kernel, name string, tags Tag) *Linker {
	return &Linker{kernel: k, name: name, tags: tags}
}

// SetName overrides the module's display name.
func (l *Linker) SetName(name string) {
	if name == "" {
		panic("rt: module name must not be empty")
	}
	l.name = name
}

// Name returns the module's display name.
func (l *Linker) Name() string { return l.name }

// Tags returns the module's tags.
func (l *Linker) Tags() Tag { return l.tags }

// Logger returns the kernel logger scoped to the module.
func (l *Linker) Logger() *zap.Logger {
	return l.kernel.logger.With(zap.String("module", l.name))
}

func (l *Linker) addEndpoint(dataType reflect.Type, kind metadata.ChannelKind, dir metadata.Direction, required bool, obj any) {
	ch := l.kernel.meta.FindOrEmplaceChannel(dataType, kind)
	l.endpoints = append(l.endpoints, metadata.EndpointMeta{
		Kind:     dir,
		Channel:  ch,
		Required: required,
		Obj:      obj,
	})
}

func (l *Linker) onReady(f func() bool) { l.ready = append(l.ready, f) }
func (l *Linker) onPre(f func())        { l.pre = append(l.pre, f) }
func (l *Linker) onPost(f func())       { l.post = append(l.post, f) }

func (l *Linker) meta() metadata.ModuleMeta {
	return metadata.ModuleMeta{
		Name:        l.name,
		Tags:        l.tags,
		ReadyFuncs:  l.ready,
		PreProcess:  l.pre,
		PostProcess: l.post,
	}
}

func messageChannel[T any](l *Linker) *channels.MessageChannel[T] {
	wait := l.kernel.opts.snoopWait
	return getOrCreate(l.kernel.pool, func() *channels.MessageChannel[T] {
		ch := channels.NewMessageChannel[T]()
		ch.SetSnoopWait(wait)
		return ch
	})
}

func blobChannel[T, P any](l *Linker) *channels.BlobChannel[T, P] {
	return getOrCreate(l.kernel.pool, channels.NewBlobChannel[T, P])
}

func commandChannel[G any](l *Linker) *channels.CommandChannel[G] {
	return getOrCreate(l.kernel.pool, channels.NewCommandChannel[G])
}

func contextChannel[T any](l *Linker) *channels.ContextChannel[T] {
	return getOrCreate(l.kernel.pool, channels.NewContextChannel[T])
}

// OutputOption configures a message output.
type OutputOption func(*outputConfig)

type outputConfig struct {
	noLog bool
}

// NoLog keeps the output's values out of the log data stream.
func NoLog() OutputOption {
	return func(c *outputConfig) { c.noLog = true }
}

// tapLogData mirrors every write of ch into the log data stream unless the
// module or output opted out or no logger module is loaded.
func tapLogData[T any](l *Linker, ch *channels.MessageChannel[T], opts []OutputOption) {
	var cfg outputConfig
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.noLog || l.tags.Has(DisableLogging) || !l.kernel.hasLogger() {
		return
	}
	q := l.kernel.logData.addQueue(l.name, metadata.PrettyTypeName(reflect.TypeFor[T]()))
	ch.AddTap(func(v T) { q.push(v) })
}

func mustBeLogger(l *Linker) {
	if !l.tags.Has(Logger) {
		panic(fmt.Sprintf("rt: module %q reads log data but is not tagged %s", l.name, Logger))
	}
}
