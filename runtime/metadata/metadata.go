package metadata

import (
	"fmt"
	"reflect"
	"strings"
)

// Metadata owns the module, channel and endpoint arenas.
type Metadata struct {
	Modules   []ModuleMeta
	Channels  []ChannelMeta
	Endpoints []EndpointMeta
}

// New returns an empty graph.
func New() *Metadata {
	return &Metadata{}
}

// InsertModule appends a module together with the endpoints it declared.
// The endpoints are assigned ids and attached to their channels.
func (m *Metadata) InsertModule(module ModuleMeta, endpoints []EndpointMeta) ModuleID {
	if module.Name == "" {
		panic("metadata: module name must not be empty")
	}
	if len(module.Endpoints) != 0 {
		panic(fmt.Sprintf("metadata: module %q already has endpoints", module.Name))
	}

	module.ID = ModuleID(len(m.Modules))
	for _, ep := range endpoints {
		ep.ID = EndpointID(len(m.Endpoints))
		ep.Module = module.ID
		module.Endpoints = append(module.Endpoints, ep.ID)
		ch := m.channel(ep.Channel)
		ch.Endpoints = append(ch.Endpoints, ep.ID)
		m.Endpoints = append(m.Endpoints, ep)
	}
	m.Modules = append(m.Modules, module)
	return module.ID
}

// FindOrEmplaceChannel returns the channel carrying dataType, creating it on
// first use. A data type is bound to a single channel kind for the lifetime of
// the graph.
func (m *Metadata) FindOrEmplaceChannel(dataType reflect.Type, kind ChannelKind) ChannelID {
	for i := range m.Channels {
		ch := &m.Channels[i]
		if ch.DataType != dataType {
			continue
		}
		if ch.Kind != kind {
			panic(fmt.Sprintf("metadata: %s is used as %s and %s channel",
				PrettyTypeName(dataType), ch.Kind, kind))
		}
		return ch.ID
	}

	id := ChannelID(len(m.Channels))
	m.Channels = append(m.Channels, ChannelMeta{
		ID:       id,
		Kind:     kind,
		DataType: dataType,
	})
	return id
}

// Module returns the module record for id.
func (m *Metadata) Module(id ModuleID) *ModuleMeta {
	if int(id) < 0 || int(id) >= len(m.Modules) {
		panic(fmt.Sprintf("metadata: module id %d out of range", id))
	}
	return &m.Modules[id]
}

// Channel returns the channel record for id.
func (m *Metadata) Channel(id ChannelID) *ChannelMeta {
	return m.channel(id)
}

// Endpoint returns the endpoint record for id.
func (m *Metadata) Endpoint(id EndpointID) *EndpointMeta {
	if int(id) < 0 || int(id) >= len(m.Endpoints) {
		panic(fmt.Sprintf("metadata: endpoint id %d out of range", id))
	}
	return &m.Endpoints[id]
}

func (m *Metadata) channel(id ChannelID) *ChannelMeta {
	if int(id) < 0 || int(id) >= len(m.Channels) {
		panic(fmt.Sprintf("metadata: channel id %d out of range", id))
	}
	return &m.Channels[id]
}

// SetRequiredBy derives, for every module, the modules that require data it
// produces on message or blob channels.
func (m *Metadata) SetRequiredBy() {
	for i := range m.Modules {
		module := &m.Modules[i]
		seen := make(map[ModuleID]bool)
		var requiredBy []ModuleID

		for _, epID := range module.Endpoints {
			point := &m.Endpoints[epID]
			ch := &m.Channels[point.Channel]
			if point.Kind == In || !producesData(ch.Kind) {
				continue
			}
			for _, otherID := range ch.Endpoints {
				other := &m.Endpoints[otherID]
				if other.Kind == Out || !other.Required {
					continue
				}
				if !seen[other.Module] {
					seen[other.Module] = true
					requiredBy = append(requiredBy, other.Module)
				}
			}
		}
		module.RequiredBy = requiredBy
	}
}

func producesData(kind ChannelKind) bool {
	return kind == KindMessage || kind == KindBlob
}

// FirstIn returns the first IN endpoint of a channel or InvalidID.
func (m *Metadata) FirstIn(id ChannelID) EndpointID {
	return m.first(id, In)
}

// FirstOut returns the first OUT endpoint of a channel or InvalidID.
func (m *Metadata) FirstOut(id ChannelID) EndpointID {
	return m.first(id, Out)
}

func (m *Metadata) first(id ChannelID, dir Direction) EndpointID {
	for _, epID := range m.channel(id).Endpoints {
		if m.Endpoints[epID].Kind == dir {
			return epID
		}
	}
	return InvalidID
}

// ModulesOn lists the modules owning endpoints of the given direction on a
// channel, in endpoint order.
func (m *Metadata) ModulesOn(id ChannelID, dir Direction) []ModuleID {
	var out []ModuleID
	for _, epID := range m.channel(id).Endpoints {
		if ep := &m.Endpoints[epID]; ep.Kind == dir {
			out = append(out, ep.Module)
		}
	}
	return out
}

// ModuleName returns the name of the module owning an endpoint, or "?" when
// the endpoint does not exist.
func (m *Metadata) ModuleName(id EndpointID) string {
	if int(id) < 0 || int(id) >= len(m.Endpoints) {
		return "?"
	}
	return m.Modules[m.Endpoints[id].Module].Name
}

// DumpGraph renders the raw arenas.
func (m *Metadata) DumpGraph() string {
	var b strings.Builder

	b.WriteString("MODULES\n")
	for _, module := range m.Modules {
		fmt.Fprintf(&b, "  id = %d\n  name = %s\n  tags = %s\n\n", module.ID, module.Name, module.Tags)
	}

	b.WriteString("CHANNELS\n")
	for _, ch := range m.Channels {
		fmt.Fprintf(&b, "  id = %d\n  kind = %s\n  dataType = %s\n", ch.ID, ch.Kind, ch.TypeName())
		b.WriteString("  endpoints = [ ")
		for _, id := range ch.Endpoints {
			fmt.Fprintf(&b, "%d, ", id)
		}
		b.WriteString("]\n\n")
	}

	b.WriteString("ENDPOINTS\n")
	for _, ep := range m.Endpoints {
		fmt.Fprintf(&b, "  id = %d\n  kind = %s\n  module = %d\n  channel = %d\n  required = %t\n\n",
			ep.ID, ep.Kind, ep.Module, ep.Channel, ep.Required)
	}

	return b.String()
}
