package rt

import (
	"errors"
	"reflect"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/channels"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
)

// BlobInput gives zero-copy access to the newest blob during a cycle.
type BlobInput[T, P any] struct {
	ch      *channels.BlobChannel[T, P]
	id      int
	blob    channels.Blob[T, P]
	reading bool
}

// Blob returns the blob held in this cycle. Its Data is nil if nothing is
// held.
func (in *BlobInput[T, P]) Blob() *channels.Blob[T, P] { return &in.blob }

// Valid reports whether a blob is held in this cycle.
func (in *BlobInput[T, P]) Valid() bool { return in.reading }

func (in *BlobInput[T, P]) start(requiresNewData bool) {
	in.ch.StartReading(in.id, &in.blob, requiresNewData)
	in.reading = true
}

func (in *BlobInput[T, P]) stop() {
	if in.reading {
		in.ch.StopReading(in.id, &in.blob)
		in.reading = false
	}
}

// RequireBlob declares a blob input that gates the module on new blobs.
func RequireBlob[T, P any](l *Linker) *BlobInput[T, P] {
	ch := blobChannel[T, P](l)
	in := &BlobInput[T, P]{ch: ch, id: ch.AddListener()}
	l.addEndpoint(reflect.TypeFor[channels.Blob[T, P]](), metadata.KindBlob, metadata.In, true, in)
	l.onReady(func() bool { return ch.HasNewData(in.id) })
	l.onPre(func() { in.start(true) })
	l.onPost(in.stop)
	return in
}

// ListenBlob declares a blob input that holds a blob only in cycles where a
// new one was published.
func ListenBlob[T, P any](l *Linker) *BlobInput[T, P] {
	ch := blobChannel[T, P](l)
	in := &BlobInput[T, P]{ch: ch, id: ch.AddListener()}
	l.addEndpoint(reflect.TypeFor[channels.Blob[T, P]](), metadata.KindBlob, metadata.In, false, in)
	l.onPre(func() {
		if ch.HasNewData(in.id) {
			in.start(false)
		}
	})
	l.onPost(in.stop)
	return in
}

// BlobOutput hands the module a free cell to fill during a cycle.
type BlobOutput[T, P any] struct {
	ch      *channels.BlobChannel[T, P]
	blob    channels.Blob[T, P]
	writing bool
	dropped atomic.Uint64
}

// Blob returns the cell to fill. Its Data is nil when no cell was free.
func (out *BlobOutput[T, P]) Blob() *channels.Blob[T, P] { return &out.blob }

// Writable reports whether a cell is held in this cycle.
func (out *BlobOutput[T, P]) Writable() bool { return out.writing }

// Dropped counts cycles in which no cell was free.
func (out *BlobOutput[T, P]) Dropped() uint64 { return out.dropped.Load() }

// ProvideBlob declares the module as the producer of blobs of the given size.
func ProvideBlob[T, P any](l *Linker, size channels.Dim) *BlobOutput[T, P] {
	ch := blobChannel[T, P](l)
	ch.AddWriter(size)
	out := &BlobOutput[T, P]{ch: ch}
	l.addEndpoint(reflect.TypeFor[channels.Blob[T, P]](), metadata.KindBlob, metadata.Out, false, out)

	logger := l.Logger()
	l.onPre(func() {
		err := ch.StartWriting(&out.blob)
		if errors.Is(err, channels.ErrNoFreeCell) {
			out.dropped.Add(1)
			logger.Warn("blob output has no free cell, skipping publish",
				zap.Stringer("size", size),
				zap.Int("cells", ch.Cells()))
			return
		}
		out.writing = true
	})
	l.onPost(func() {
		if out.writing {
			ch.FinishWriting(&out.blob)
			out.writing = false
		}
	})
	return out
}
