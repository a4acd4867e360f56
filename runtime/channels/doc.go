// Package channels implements the shared objects through which modules
// exchange data.
//
//   - MessageChannel: one coalescing single-slot mailbox per listener, plus
//     unbounded queues for snooping listeners and taps that observe every write
//   - BlobChannel: zero-copy hand over of large dimensioned payloads through a
//     reference counted ring buffer
//   - CommandChannel: typed commands queued by any number of issuers and
//     dispatched to exactly one handler per command type
//   - ContextChannel: a mutex guarded shared record
//
// Misuse that indicates broken wiring (an invalid listener id, fetching an
// empty mailbox) panics.
package channels
