package channels

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/ringbuffer"
)

// BlobAlignment is the byte alignment of blob cells.
const BlobAlignment = 64

// ErrNoFreeCell is returned when every cell of a blob channel is held by
// readers.
var ErrNoFreeCell = errors.New("channels: no free blob cell")

// Dim is the extent of a blob.
type Dim struct {
	X, Y, Z int
}

// NewDim returns a Dim with unset trailing extents defaulting to 1.
func NewDim(x int, rest ...int) Dim {
	d := Dim{X: x, Y: 1, Z: 1}
	if len(rest) > 0 {
		d.Y = rest[0]
	}
	if len(rest) > 1 {
		d.Z = rest[1]
	}
	return d
}

// Flat is the number of elements.
func (d Dim) Flat() int { return d.X * d.Y * d.Z }

func (d Dim) String() string { return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z) }

// NoPayload marks blobs without per-cell metadata.
type NoPayload struct{}

// Blob is a view on one ring buffer cell. Data is only valid between
// StartWriting/FinishWriting or StartReading/StopReading.
type Blob[T, P any] struct {
	Data []T
	Size Dim
	Info P
}

type blobReader struct {
	tick  uint64
	bufID int
}

// BlobChannel passes blobs of T with metadata P without copying.
type BlobChannel[T, P any] struct {
	mu         sync.Mutex
	tick       uint64
	size       Dim
	buffer     *ringbuffer.RingBuffer[T]
	payload    []P
	hasPayload bool
	readers    []blobReader
	writers    int
}

// NewBlobChannel creates a channel with two cells and no readers.
func NewBlobChannel[T, P any]() *BlobChannel[T, P] {
	c := &BlobChannel[T, P]{
		buffer:     ringbuffer.New[T](BlobAlignment, 0),
		hasPayload: reflect.TypeFor[P]() != reflect.TypeFor[NoPayload](),
	}
	c.addEntry()
	c.addEntry()
	return c
}

// AddListener registers a reader and grows the ring by one cell.
func (c *BlobChannel[T, P]) AddListener() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addListener()
}

func (c *BlobChannel[T, P]) addListener() int {
	c.readers = append(c.readers, blobReader{bufID: ringbuffer.NoRef})
	c.addEntry()
	return len(c.readers) - 1
}

// AddWriter fixes the blob size for the lifetime of the channel.
func (c *BlobChannel[T, P]) AddWriter(size Dim) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writers++
	c.size = size
	c.buffer.SetSize(size.Flat())
	// one extra cell for the writer itself
	c.addListener()
}

// StartWriting points blob at a free cell.
func (c *BlobChannel[T, P]) StartWriting(blob *Blob[T, P]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.buffer.StartWriting()
	if !ok {
		blob.Data = nil
		return ErrNoFreeCell
	}
	blob.Data = data
	blob.Size = c.size
	return nil
}

// FinishWriting publishes the cell blob points at together with blob.Info.
func (c *BlobChannel[T, P]) FinishWriting(blob *Blob[T, P]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setPayload(c.buffer.WriteBuf(), blob.Info)
	c.buffer.FinishWriting()
	blob.Data = nil
	blob.Size = Dim{}
	c.tick++
}

// Tick counts published blobs.
func (c *BlobChannel[T, P]) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

// Size returns the blob size fixed by the writer.
func (c *BlobChannel[T, P]) Size() Dim {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Cells returns the number of ring buffer cells.
func (c *BlobChannel[T, P]) Cells() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Len()
}

// HasNewData reports whether a blob was published since reader id last
// started reading.
func (c *BlobChannel[T, P]) HasNewData(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reader(id).tick < c.tick
}

// StartReading points blob at the newest cell. With requiresNewData the
// channel must have advanced since the reader's previous read.
func (c *BlobChannel[T, P]) StartReading(id int, blob *Blob[T, P], requiresNewData bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := c.reader(id)
	if requiresNewData && ctx.tick >= c.tick {
		panic(fmt.Sprintf("channels: blob reader %d requires new data at tick %d", id, c.tick))
	}
	if ctx.bufID != ringbuffer.NoRef {
		panic(fmt.Sprintf("channels: blob reader %d is already reading", id))
	}
	ctx.bufID = c.buffer.AddReader()
	ctx.tick = c.tick
	blob.Data = c.buffer.Data(ctx.bufID)
	blob.Size = c.size
	blob.Info = c.getPayload(ctx.bufID)
}

// StopReading releases the cell held by reader id.
func (c *BlobChannel[T, P]) StopReading(id int, blob *Blob[T, P]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := c.reader(id)
	c.buffer.RemoveReader(ctx.bufID)
	ctx.bufID = ringbuffer.NoRef
	*blob = Blob[T, P]{}
}

func (c *BlobChannel[T, P]) reader(id int) *blobReader {
	if id < 0 || id >= len(c.readers) {
		panic(fmt.Sprintf("channels: invalid blob reader id %d (have %d)", id, len(c.readers)))
	}
	return &c.readers[id]
}

func (c *BlobChannel[T, P]) getPayload(id int) P {
	if !c.hasPayload {
		var zero P
		return zero
	}
	return c.payload[id]
}

func (c *BlobChannel[T, P]) setPayload(id int, p P) {
	if c.hasPayload && id >= 0 {
		c.payload[id] = p
	}
}

func (c *BlobChannel[T, P]) addEntry() {
	if c.hasPayload {
		var zero P
		c.payload = append(c.payload, zero)
	}
	c.buffer.AddEntry()
}
