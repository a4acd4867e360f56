// Package metadata holds the graph model of the module runtime.
//
// # Overview
//
// The runtime describes a running application as three flat arenas:
//
//   - ModuleMeta: one record per loaded module (name, tags, endpoints and the
//     closures the kernel invokes around the module's process step)
//   - ChannelMeta: one record per distinct (kind, data type) pair
//   - EndpointMeta: one record per declared input, output, context or dispatch slot
//
// Records reference each other only by integer index (ModuleID, ChannelID,
// EndpointID). The Metadata value exclusively owns all records; every other
// component keeps indices, never pointers into the arenas.
//
// # Lifecycle
//
// Records are appended while modules connect. Once the kernel compiles the
// graph, SetRequiredBy derives the reverse dependency edges and the arenas are
// treated as immutable.
//
// # Diagnostics
//
// DumpGraph renders the raw arenas as text. Snapshot produces a serializable
// view of the graph that can be emitted as JSON or YAML:
//
//	snap := meta.Snapshot()
//	out, err := snap.YAML()
//
// # Cycles
//
// FindCycles runs a depth-first search over the "required by" relation and
// reports the first back edge found below each root.
package metadata
