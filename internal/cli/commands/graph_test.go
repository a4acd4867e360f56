package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
)

func moduleNames(snap metadata.GraphSnapshot) []string {
	var names []string
	for _, m := range snap.Modules {
		names = append(names, m.Name)
	}
	return names
}

func TestGraphCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "graph", "-o", "json", "--config", writeConfig(t, ""))
	require.NoError(t, err)

	var snap metadata.GraphSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Len(t, snap.Modules, 8)
	assert.Contains(t, moduleNames(snap), "DataLogger")
	assert.Contains(t, moduleNames(snap), "PathPlanner")
}

func TestGraphCommand_YAML(t *testing.T) {
	out, _, err := execute(t, "graph", "--output", "yaml", "--config", writeConfig(t, ""))
	require.NoError(t, err)

	var snap metadata.GraphSnapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	assert.Contains(t, moduleNames(snap), "Vision")
	assert.NotEmpty(t, snap.Channels)
}

func TestGraphCommand_Text(t *testing.T) {
	out, _, err := execute(t, "graph", "--no-color", "--config", writeConfig(t, ""))
	require.NoError(t, err)

	assert.Contains(t, out, "Modules\n")
	assert.Contains(t, out, "Channels\n")
	assert.Contains(t, out, "Camera [id = ")
	assert.Contains(t, out, "  handles demo.MotionCommands")
	assert.Contains(t, out, "PRODUCERS")
}

func TestGraphCommand_Modules(t *testing.T) {
	out, _, err := execute(t, "graph", "-o", "modules", "--config", writeConfig(t, ""))
	require.NoError(t, err)

	assert.Contains(t, out, "MODULE Vision [id = ")
	assert.Contains(t, out, "REQUIRES demo.RobotPose <- Localization")
	assert.Contains(t, out, "ISSUES demo.MotionCommands -> Motion")
}

func TestGraphCommand_UnknownFormat(t *testing.T) {
	_, _, err := execute(t, "graph", "-o", "dot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "dot"`)
}

func TestGraphCommand_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, "graph", "--config", writeConfig(t, "tasks:\n  workers: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tasks.workers")
}
