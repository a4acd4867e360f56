package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cameraInfo struct {
	Camera    int
	Timestamp int64
}

type image = Blob[uint8, cameraInfo]

func TestDim(t *testing.T) {
	assert.Equal(t, Dim{X: 640, Y: 480, Z: 2}, NewDim(640, 480, 2))
	assert.Equal(t, Dim{X: 8, Y: 1, Z: 1}, NewDim(8))
	assert.Equal(t, 640*480*2, NewDim(640, 480, 2).Flat())
	assert.Equal(t, "4x3x1", NewDim(4, 3).String())
}

func TestBlobChannel_WriteRead(t *testing.T) {
	ch := NewBlobChannel[uint8, cameraInfo]()
	reader := ch.AddListener()
	ch.AddWriter(NewDim(4, 3))

	// two initial cells, one per reader, one for the writer
	assert.Equal(t, 4, ch.Cells())
	assert.False(t, ch.HasNewData(reader))

	var out image
	require.NoError(t, ch.StartWriting(&out))
	require.Len(t, out.Data, 12)
	for i := range out.Data {
		out.Data[i] = uint8(i)
	}
	out.Info = cameraInfo{Camera: 1, Timestamp: 99}
	ch.FinishWriting(&out)
	assert.Nil(t, out.Data)
	assert.Equal(t, uint64(1), ch.Tick())

	require.True(t, ch.HasNewData(reader))
	var in image
	ch.StartReading(reader, &in, true)
	assert.Equal(t, NewDim(4, 3), in.Size)
	assert.Equal(t, cameraInfo{Camera: 1, Timestamp: 99}, in.Info)
	assert.Equal(t, uint8(11), in.Data[11])
	assert.False(t, ch.HasNewData(reader))

	ch.StopReading(reader, &in)
	assert.Nil(t, in.Data)
	assert.Equal(t, cameraInfo{}, in.Info)
}

func TestBlobChannel_ReaderKeepsFrameAcrossWrites(t *testing.T) {
	ch := NewBlobChannel[uint8, NoPayload]()
	reader := ch.AddListener()
	ch.AddWriter(NewDim(16))

	var out Blob[uint8, NoPayload]
	writeFrame := func(v uint8) {
		require.NoError(t, ch.StartWriting(&out))
		for i := range out.Data {
			out.Data[i] = v
		}
		ch.FinishWriting(&out)
	}

	writeFrame(1)
	var in Blob[uint8, NoPayload]
	ch.StartReading(reader, &in, true)

	for v := uint8(2); v < 20; v++ {
		writeFrame(v)
	}
	for _, b := range in.Data {
		assert.Equal(t, uint8(1), b)
	}
	assert.True(t, ch.HasNewData(reader))
	ch.StopReading(reader, &in)

	ch.StartReading(reader, &in, true)
	assert.Equal(t, uint8(19), in.Data[0])
	ch.StopReading(reader, &in)
}

func TestBlobChannel_ContractViolations(t *testing.T) {
	ch := NewBlobChannel[uint8, NoPayload]()
	reader := ch.AddListener()
	ch.AddWriter(NewDim(2))
	var b Blob[uint8, NoPayload]

	assert.Panics(t, func() { ch.HasNewData(reader + 5) })

	require.NoError(t, ch.StartWriting(&b))
	ch.FinishWriting(&b)

	ch.StartReading(reader, &b, true)
	ch.StopReading(reader, &b)
	assert.Panics(t, func() { ch.StartReading(reader, &b, true) }, "no new tick since last read")
}

func TestBlobChannel_WriterNeverStarves(t *testing.T) {
	ch := NewBlobChannel[uint8, NoPayload]()
	ch.AddWriter(NewDim(1))
	readers := []int{ch.AddListener(), ch.AddListener(), ch.AddListener()}

	var out Blob[uint8, NoPayload]
	held := make([]Blob[uint8, NoPayload], len(readers))
	// every reader pins a different cell
	for i, r := range readers {
		require.NoError(t, ch.StartWriting(&out))
		out.Data[0] = uint8(i)
		ch.FinishWriting(&out)
		ch.StartReading(r, &held[i], true)
	}

	for i := 0; i < 10; i++ {
		require.NoError(t, ch.StartWriting(&out))
		ch.FinishWriting(&out)
	}
	for i := range readers {
		assert.Equal(t, uint8(i), held[i].Data[0])
		ch.StopReading(readers[i], &held[i])
	}
}
