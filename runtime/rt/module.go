package rt

import (
	"reflect"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
)

// Tag classifies a module.
type Tag = metadata.Tag

// Module tags.
const (
	Normal         = metadata.TagNormal
	NoThread       = metadata.TagNoThread
	Hook           = metadata.TagHook
	Logger         = metadata.TagLogger
	DisableLogging = metadata.TagDisableLogging
)

// Module is implemented by every unit loaded into a Kernel. Connect declares
// the module's endpoints and is called exactly once while compiling.
type Module interface {
	Connect(l *Linker)
}

// Processor is a module with a per-cycle body. Modules without one are
// driven by their host and never get a goroutine.
type Processor interface {
	Process()
}

// Loader loads further modules before compilation. Pass pure loaders to
// Kernel.Use; a Module implementing Loader is loaded as a regular module.
type Loader interface {
	Load(k *Kernel) error
}

// Setupper is a module with one-time initialization after compilation.
type Setupper interface {
	Setup() error
}

// Stopper is a module with cleanup on shutdown.
type Stopper interface {
	Stop()
}

// Disabler is a module that may opt out of being loaded.
type Disabler interface {
	Disabled() bool
}

// Tagger is a module with non-default tags.
type Tagger interface {
	Tags() Tag
}

// Namer is a module with an explicit display name.
type Namer interface {
	Name() string
}

func moduleName(m any) string {
	if n, ok := m.(Namer); ok && n.Name() != "" {
		return n.Name()
	}
	t := reflect.TypeOf(m)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func moduleTags(m Module) Tag {
	tags := Normal
	if t, ok := m.(Tagger); ok {
		tags = t.Tags()
		if tags == metadata.TagNone {
			tags = Normal
		}
	}
	if _, ok := m.(Processor); !ok {
		tags |= NoThread
	}
	return tags
}
