package metadata

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// GraphSnapshot is a serializable copy of a compiled graph.
type GraphSnapshot struct {
	Modules  []ModuleSnapshot  `json:"modules" yaml:"modules"`
	Channels []ChannelSnapshot `json:"channels" yaml:"channels"`
}

// ModuleSnapshot describes one module and its edges.
type ModuleSnapshot struct {
	ID         int                `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Tags       string             `json:"tags" yaml:"tags"`
	Endpoints  []EndpointSnapshot `json:"endpoints" yaml:"endpoints"`
	RequiredBy []string           `json:"required_by,omitempty" yaml:"required_by,omitempty"`
}

// EndpointSnapshot describes one endpoint of a module.
type EndpointSnapshot struct {
	ID        int    `json:"id" yaml:"id"`
	Direction string `json:"direction" yaml:"direction"`
	Kind      string `json:"kind" yaml:"kind"`
	DataType  string `json:"data_type" yaml:"data_type"`
	Required  bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// ChannelSnapshot describes one channel with its producers and consumers.
type ChannelSnapshot struct {
	ID        int      `json:"id" yaml:"id"`
	Kind      string   `json:"kind" yaml:"kind"`
	DataType  string   `json:"data_type" yaml:"data_type"`
	Producers []string `json:"producers,omitempty" yaml:"producers,omitempty"`
	Consumers []string `json:"consumers,omitempty" yaml:"consumers,omitempty"`
}

// Snapshot copies the graph into a serializable form.
func (m *Metadata) Snapshot() GraphSnapshot {
	snap := GraphSnapshot{
		Modules:  make([]ModuleSnapshot, 0, len(m.Modules)),
		Channels: make([]ChannelSnapshot, 0, len(m.Channels)),
	}

	for _, module := range m.Modules {
		ms := ModuleSnapshot{
			ID:   int(module.ID),
			Name: module.Name,
			Tags: module.Tags.String(),
		}
		for _, epID := range module.Endpoints {
			ep := &m.Endpoints[epID]
			ch := &m.Channels[ep.Channel]
			ms.Endpoints = append(ms.Endpoints, EndpointSnapshot{
				ID:        int(ep.ID),
				Direction: ep.Kind.String(),
				Kind:      ch.Kind.String(),
				DataType:  ch.TypeName(),
				Required:  ep.Required,
			})
		}
		for _, r := range module.RequiredBy {
			ms.RequiredBy = append(ms.RequiredBy, m.Modules[r].Name)
		}
		snap.Modules = append(snap.Modules, ms)
	}

	for _, ch := range m.Channels {
		cs := ChannelSnapshot{
			ID:       int(ch.ID),
			Kind:     ch.Kind.String(),
			DataType: ch.TypeName(),
		}
		for _, id := range m.ModulesOn(ch.ID, Out) {
			cs.Producers = append(cs.Producers, m.Modules[id].Name)
		}
		for _, id := range m.ModulesOn(ch.ID, In) {
			cs.Consumers = append(cs.Consumers, m.Modules[id].Name)
		}
		snap.Channels = append(snap.Channels, cs)
	}

	return snap
}

// JSON encodes the snapshot with indentation.
func (s GraphSnapshot) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}
	return data, nil
}

// YAML encodes the snapshot as YAML.
func (s GraphSnapshot) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}
	return data, nil
}
