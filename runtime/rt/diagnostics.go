package rt

import (
	"fmt"
	"strings"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/tasks"
)

// ModuleStats is the runtime state of one module.
type ModuleStats struct {
	ID       ModuleID `json:"id"`
	Name     string   `json:"name"`
	Tags     string   `json:"tags"`
	Threaded bool     `json:"threaded"`
	Running  bool     `json:"running"`
	Runs     uint64   `json:"runs"`
}

// Stats returns the runtime state of every module in load order.
func (k *Kernel) Stats() []ModuleStats {
	out := make([]ModuleStats, 0, len(k.slots))
	for i, s := range k.slots {
		out = append(out, ModuleStats{
			ID:       ModuleID(i),
			Name:     s.name,
			Tags:     s.tags.String(),
			Threaded: s.threaded(),
			Running:  s.running.Load(),
			Runs:     s.runs.Load(),
		})
	}
	return out
}

// TaskStats returns the statistics of the task pool.
func (k *Kernel) TaskStats() []tasks.Stats {
	if k.tasks == nil {
		return nil
	}
	return k.tasks.Metrics().All()
}

// Meta returns the graph model. It must not be modified.
func (k *Kernel) Meta() *metadata.Metadata { return k.meta }

// Snapshot returns an exportable copy of the module graph.
func (k *Kernel) Snapshot() metadata.GraphSnapshot { return k.meta.Snapshot() }

// LogData returns the log data buffers of the kernel.
func (k *Kernel) LogData() *LogDataContext { return k.logData }

// ModuleByName returns the id of the module called name.
func (k *Kernel) ModuleByName(name string) (ModuleID, bool) {
	for i, s := range k.slots {
		if s.name == name {
			return ModuleID(i), true
		}
	}
	return metadata.InvalidID, false
}

// PrintModules renders the linked modules with their endpoints and the
// modules that depend on them.
func (k *Kernel) PrintModules() string {
	var b strings.Builder
	meta := k.meta

	for i := range meta.Modules {
		m := &meta.Modules[i]
		kind := "MODULE"
		if int(m.ID) < len(k.slots) && k.slots[m.ID].module == nil {
			kind = "HOOK"
		}
		fmt.Fprintf(&b, "%s %s [id = %d]\n", kind, m.Name, m.ID)

		for _, epID := range m.Endpoints {
			ep := meta.Endpoint(epID)
			ch := meta.Channel(ep.Channel)
			in := ep.Kind == metadata.In

			b.WriteString("  ")
			switch ch.Kind {
			case metadata.KindCommand:
				if in {
					fmt.Fprintf(&b, "HANDLES %s", ch.TypeName())
				} else {
					fmt.Fprintf(&b, "ISSUES %s -> %s", ch.TypeName(), meta.ModuleName(meta.FirstIn(ch.ID)))
				}
			case metadata.KindContext:
				if in {
					fmt.Fprintf(&b, "READS CONTEXT %s <- %s", ch.TypeName(), meta.ModuleName(meta.FirstOut(ch.ID)))
				} else {
					fmt.Fprintf(&b, "WRITES CONTEXT %s", ch.TypeName())
				}
			case metadata.KindMessage, metadata.KindBlob:
				switch {
				case !in:
					fmt.Fprintf(&b, "PROVIDES %s", ch.TypeName())
				case ep.Required:
					fmt.Fprintf(&b, "REQUIRES %s <- %s", ch.TypeName(), meta.ModuleName(meta.FirstOut(ch.ID)))
				default:
					fmt.Fprintf(&b, "LISTENS %s <- %s", ch.TypeName(), meta.ModuleName(meta.FirstOut(ch.ID)))
				}
			}
			b.WriteString("\n")
		}

		for _, r := range m.RequiredBy {
			fmt.Fprintf(&b, "  REQUIRED BY %s\n", meta.Module(r).Name)
		}
	}
	return b.String()
}
