package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bembelbots/BembelSoccer-sub000/internal/cli/ui"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/tasks"
)

type ballFinder struct{ out *rt.Output[ballPercept] }

func (b *ballFinder) Connect(l *rt.Linker) {
	l.SetName("ballFinder")
	b.out = rt.Provide[ballPercept](l)
}
func (b *ballFinder) Process() {}

func compiledKernel(t *testing.T) *rt.Kernel {
	t.Helper()
	k := rt.NewKernel()
	require.NoError(t, k.Load(&ballFinder{}, &striker{}))
	require.NoError(t, k.Compile())
	return k
}

func TestRenderGraph(t *testing.T) {
	k := compiledKernel(t)

	var buf bytes.Buffer
	ui.RenderGraph(&buf, k.Snapshot(), true)
	out := buf.String()

	assert.Contains(t, out, "ballFinder [id = 0, normal]")
	assert.Contains(t, out, "  provides ")
	assert.Contains(t, out, "  consumes ")
	assert.Contains(t, out, "(required)")
	assert.Contains(t, out, "  required by striker")
}

func TestRenderChannels(t *testing.T) {
	k := compiledKernel(t)

	var buf bytes.Buffer
	ui.RenderChannels(&buf, k.Snapshot(), true)
	out := buf.String()

	assert.Contains(t, out, "PRODUCERS")
	assert.Contains(t, out, "message")
	assert.Contains(t, out, "ballFinder")
	assert.Contains(t, out, "striker")
}

func TestRenderStats(t *testing.T) {
	k := compiledKernel(t)

	var buf bytes.Buffer
	ui.RenderStats(&buf, k.Stats(), []tasks.Stats{{Kind: "path", Processed: 3, Failed: 1}}, true)
	out := buf.String()

	assert.Contains(t, out, "ballFinder")
	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "TASK")
	assert.Contains(t, out, "path")
}

func TestRenderStatsWithoutTasks(t *testing.T) {
	k := compiledKernel(t)

	var buf bytes.Buffer
	ui.RenderStats(&buf, k.Stats(), nil, true)
	assert.NotContains(t, buf.String(), "TASK")
}
