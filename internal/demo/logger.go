package demo

import (
	"sync/atomic"
	"time"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// defaultLogWait bounds how long the data logger waits for new data.
const defaultLogWait = 50 * time.Millisecond

// DataLogger forwards the values of every logged output to Sink.
type DataLogger struct {
	Sink   func(rt.LogData)
	Period time.Duration

	data      *rt.LogDataContext
	forwarded atomic.Uint64
}

func (d *DataLogger) Tags() rt.Tag { return rt.Logger }

// Disabled reports true without a sink.
func (d *DataLogger) Disabled() bool { return d.Sink == nil }

func (d *DataLogger) Connect(l *rt.Linker) {
	d.data = rt.LogDataReader(l)
}

func (d *DataLogger) Process() {
	wait := d.Period
	if wait <= 0 {
		wait = defaultLogWait
	}
	d.data.Wait(wait)
	d.drain()
}

// Stop forwards what is still buffered.
func (d *DataLogger) Stop() { d.drain() }

func (d *DataLogger) drain() {
	n := d.data.Drain(d.Sink)
	d.forwarded.Add(uint64(n))
}

// Forwarded returns the number of values passed to Sink.
func (d *DataLogger) Forwarded() uint64 { return d.forwarded.Load() }
