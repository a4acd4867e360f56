// Package ringbuffer implements a reference counted multi-cell buffer that
// gives one writer and many readers lock-free access to large payloads.
//
// Every cell is in one of three states, encoded in its reference count:
//
//	 0  free
//	-1  locked by the writer
//	 N  readable, held by N readers
//
// The writer only ever claims free cells, so a reader keeps a stable view of
// its cell until it releases it, no matter how many writes happen meanwhile.
package ringbuffer

import (
	"fmt"
	"sync/atomic"
)

// NoRef marks the absence of a cell.
const NoRef = -1

const writing = -1

type cell[T any] struct {
	data     []T
	refCount atomic.Int32
}

// RingBuffer is a pool of equally sized cells.
//
// StartWriting/FinishWriting must be called from a single writer. AddReader
// and RemoveReader may be called from any goroutine. SetSize and AddEntry
// change the structure and must not run concurrently with anything else.
type RingBuffer[T any] struct {
	alignment int
	size      int
	cells     []*cell[T]

	writeBuf   int
	newestData atomic.Int64
}

// New creates an empty buffer whose cells hold size elements aligned to
// alignment bytes where the element size permits it.
func New[T any](alignment, size int) *RingBuffer[T] {
	rb := &RingBuffer[T]{
		alignment: alignment,
		size:      size,
		writeBuf:  NoRef,
	}
	rb.newestData.Store(NoRef)
	return rb
}

// StartWriting claims a free cell and returns its storage. It returns false
// when every cell is being read.
func (rb *RingBuffer[T]) StartWriting() ([]T, bool) {
	if rb.writeBuf != NoRef {
		panic("ringbuffer: already writing")
	}

	// Leave the newest cell to readers while another cell is free.
	newest := int(rb.newestData.Load())
	for i := range rb.cells {
		if i != newest && rb.tryLockForWriting(i) {
			rb.writeBuf = i
			return rb.cells[i].data, true
		}
	}
	if newest != NoRef && rb.tryLockForWriting(newest) {
		rb.writeBuf = newest
		return rb.cells[newest].data, true
	}
	return nil, false
}

// FinishWriting publishes the cell claimed by StartWriting.
func (rb *RingBuffer[T]) FinishWriting() {
	if rb.writeBuf == NoRef {
		panic("ringbuffer: FinishWriting without StartWriting")
	}
	if !rb.cells[rb.writeBuf].refCount.CompareAndSwap(writing, 0) {
		panic("ringbuffer: write cell lost its lock")
	}
	rb.newestData.Store(int64(rb.writeBuf))
	rb.writeBuf = NoRef
}

// AddReader takes a reference on the newest published cell and returns its id.
func (rb *RingBuffer[T]) AddReader() int {
	for {
		id := int(rb.newestData.Load())
		if id == NoRef {
			panic("ringbuffer: AddReader before first write")
		}
		c := rb.cells[id]
		r := c.refCount.Load()
		if r < 0 {
			// the writer reclaimed the cell, pick up the next publication
			continue
		}
		if c.refCount.CompareAndSwap(r, r+1) {
			return id
		}
	}
}

// RemoveReader drops a reference taken by AddReader.
func (rb *RingBuffer[T]) RemoveReader(id int) {
	if id == NoRef {
		panic("ringbuffer: RemoveReader without a cell")
	}
	if r := rb.cell(id).refCount.Add(-1); r < 0 {
		panic(fmt.Sprintf("ringbuffer: cell %d released more often than acquired", id))
	}
}

// SetSize reallocates every cell to hold newSize elements.
func (rb *RingBuffer[T]) SetSize(newSize int) {
	rb.assertIdle()
	rb.size = newSize
	n := len(rb.cells)
	rb.cells = rb.cells[:0]
	for i := 0; i < n; i++ {
		rb.AddEntry()
	}
	rb.newestData.Store(NoRef)
}

// AddEntry appends a free cell.
func (rb *RingBuffer[T]) AddEntry() {
	rb.cells = append(rb.cells, &cell[T]{data: alignedSlice[T](rb.size, rb.alignment)})
}

// Len returns the number of cells.
func (rb *RingBuffer[T]) Len() int { return len(rb.cells) }

// Size returns the number of elements per cell.
func (rb *RingBuffer[T]) Size() int { return rb.size }

// WriteBuf returns the cell currently claimed by the writer or NoRef.
func (rb *RingBuffer[T]) WriteBuf() int { return rb.writeBuf }

// Newest returns the most recently published cell or NoRef.
func (rb *RingBuffer[T]) Newest() int { return int(rb.newestData.Load()) }

// Data returns the storage of a cell.
func (rb *RingBuffer[T]) Data(id int) []T { return rb.cell(id).data }

// RefCount returns the current reference count of a cell.
func (rb *RingBuffer[T]) RefCount(id int) int { return int(rb.cell(id).refCount.Load()) }

// HasNewData reports whether a cell other than id has been published since.
func (rb *RingBuffer[T]) HasNewData(id int) bool {
	return id != int(rb.newestData.Load())
}

func (rb *RingBuffer[T]) cell(id int) *cell[T] {
	if id < 0 || id >= len(rb.cells) {
		panic(fmt.Sprintf("ringbuffer: cell %d out of range [0, %d)", id, len(rb.cells)))
	}
	return rb.cells[id]
}

func (rb *RingBuffer[T]) tryLockForWriting(id int) bool {
	return rb.cells[id].refCount.CompareAndSwap(0, writing)
}

func (rb *RingBuffer[T]) assertIdle() {
	if rb.writeBuf != NoRef {
		panic("ringbuffer: resize while writing")
	}
	for i, c := range rb.cells {
		if c.refCount.Load() != 0 {
			panic(fmt.Sprintf("ringbuffer: resize while cell %d is in use", i))
		}
	}
}
