package metadata

import (
	"reflect"
	"strings"
)

// ModuleID indexes Metadata.Modules.
type ModuleID int

// ChannelID indexes Metadata.Channels.
type ChannelID int

// EndpointID indexes Metadata.Endpoints.
type EndpointID int

// InvalidID marks an index that has not been assigned yet.
const InvalidID = -1

// Tag classifies a module. Tags form a bitset.
type Tag uint32

const (
	TagNone           Tag = 0
	TagNormal         Tag = 1 << 1
	TagNoThread       Tag = 1 << 2
	TagHook           Tag = 1 << 3
	TagLogger         Tag = 1 << 4
	TagDisableLogging Tag = 1 << 5
)

// Has reports whether every bit of t is set.
func (tags Tag) Has(t Tag) bool {
	return t != TagNone && tags&t == t
}

func (tags Tag) String() string {
	if tags == TagNone {
		return "none"
	}
	var names []string
	for _, t := range []struct {
		tag  Tag
		name string
	}{
		{TagNormal, "normal"},
		{TagNoThread, "nothread"},
		{TagHook, "hook"},
		{TagLogger, "logger"},
		{TagDisableLogging, "disable-logging"},
	} {
		if tags.Has(t.tag) {
			names = append(names, t.name)
		}
	}
	return strings.Join(names, "|")
}

// ChannelKind is the transport used by a channel.
type ChannelKind int

const (
	KindMessage ChannelKind = iota
	KindBlob
	KindCommand
	KindContext
)

func (k ChannelKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindBlob:
		return "blob"
	case KindCommand:
		return "command"
	case KindContext:
		return "context"
	}
	return "unknown"
}

// Direction of an endpoint relative to its channel.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// EndpointMeta describes one declared slot of a module.
type EndpointMeta struct {
	ID       EndpointID // Position in Metadata.Endpoints
	Kind     Direction  // IN endpoints consume (or handle), OUT endpoints produce (or issue)
	Channel  ChannelID  // Channel the endpoint is attached to
	Required bool       // IN endpoint whose freshness gates the module
	Module   ModuleID   // Owning module
	Obj      any        // Endpoint object resolved at link time
}

// ChannelMeta describes one channel, interned by data type.
type ChannelMeta struct {
	ID        ChannelID    // Position in Metadata.Channels
	Kind      ChannelKind  // Transport kind
	DataType  reflect.Type // Payload type identity
	Endpoints []EndpointID // Every endpoint attached to the channel
}

// TypeName returns a readable name for the channel's data type.
func (c *ChannelMeta) TypeName() string {
	return PrettyTypeName(c.DataType)
}

// ModuleMeta is the runtime record of a module.
type ModuleMeta struct {
	ID         ModuleID     // Position in Metadata.Modules
	Name       string       // Display name, must not be empty
	Tags       Tag          // Classification bitset
	Endpoints  []EndpointID // Endpoints declared by the module
	RequiredBy []ModuleID   // Modules that require data produced here

	ReadyFuncs  []func() bool // All must hold before the module may run
	PreProcess  []func()      // Run before process (pull inputs)
	PostProcess []func()      // Run after process (publish outputs)
}

// Ready is the conjunction of all ready funcs. It has no side effects.
func (m *ModuleMeta) Ready() bool {
	for _, f := range m.ReadyFuncs {
		if !f() {
			return false
		}
	}
	return true
}

// DoPreProcess runs all pre-process closures in declaration order.
func (m *ModuleMeta) DoPreProcess() {
	for _, f := range m.PreProcess {
		f()
	}
}

// DoPostProcess runs all post-process closures in declaration order.
func (m *ModuleMeta) DoPostProcess() {
	for _, f := range m.PostProcess {
		f()
	}
}

// PrettyTypeName renders a type as "pkg.Name", keeping generic arguments.
func PrettyTypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	name := t.String()
	if name == "" {
		return t.Kind().String()
	}
	return name
}
