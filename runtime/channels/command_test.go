package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type motionCommands struct{}

type walkTo struct{ X, Y float32 }

type kick struct{ Strength int }

type stand struct{}

func (walkTo) InGroup(motionCommands) {}
func (kick) InGroup(motionCommands)   {}
func (stand) InGroup(motionCommands)  {}

func TestCommandChannel_DispatchInOrder(t *testing.T) {
	ch := NewCommandChannel[motionCommands]()
	var log []string
	Connect(ch, func(c walkTo) { log = append(log, "walk") })
	Connect(ch, func(c kick) { log = append(log, "kick") })

	ch.Enqueue(walkTo{X: 1})
	ch.Enqueue(kick{Strength: 3})
	ch.Enqueue(walkTo{X: 2})
	assert.Equal(t, 3, ch.Pending())
	assert.Empty(t, log, "nothing runs before Update")

	n := ch.Update()
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"walk", "kick", "walk"}, log)
	assert.Equal(t, 0, ch.Pending())
}

func TestCommandChannel_HandlerReceivesPayload(t *testing.T) {
	ch := NewCommandChannel[motionCommands]()
	var got walkTo
	Connect(ch, func(c walkTo) { got = c })

	ch.Enqueue(walkTo{X: 1.5, Y: -2})
	ch.Update()
	assert.Equal(t, walkTo{X: 1.5, Y: -2}, got)
}

func TestCommandChannel_DoubleConnectPanics(t *testing.T) {
	ch := NewCommandChannel[motionCommands]()
	Connect(ch, func(walkTo) {})
	assert.Panics(t, func() { Connect(ch, func(walkTo) {}) })
}

func TestCommandChannel_DropsUnhandled(t *testing.T) {
	ch := NewCommandChannel[motionCommands]()
	Connect(ch, func(walkTo) {})

	ch.Enqueue(stand{})
	ch.Enqueue(walkTo{})
	assert.Equal(t, 1, ch.Update())
	assert.Equal(t, uint64(1), ch.Dropped())
}

func TestCommandChannel_EnqueueDuringUpdate(t *testing.T) {
	ch := NewCommandChannel[motionCommands]()
	kicks := 0
	Connect(ch, func(walkTo) { ch.Enqueue(kick{}) })
	Connect(ch, func(kick) { kicks++ })

	ch.Enqueue(walkTo{})
	require.Equal(t, 1, ch.Update())
	assert.Equal(t, 0, kicks)
	assert.Equal(t, 1, ch.Pending())

	require.Equal(t, 1, ch.Update())
	assert.Equal(t, 1, kicks)
}
