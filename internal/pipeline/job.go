// Package pipeline implements the per-file-type consumer worker of
// spec.md §4.3: a goroutine that dequeues Jobs and runs its Stage chain on
// each, until it sees the end-of-stream sentinel.
package pipeline

// Job is a unit of work handed from the Harvester to a Pipeline's queue.
// EndOfStream is a distinct tagged variant rather than a magic string
// value, per spec.md §9 Design Notes ("The sentinel end-of-stream marker is
// a distinct variant of the channel message type, not a magic string").
type Job struct {
	Filename    string
	EndOfStream bool
}

// EndOfStreamJob is the sentinel enqueued once per pipeline after harvesting
// completes.
func EndOfStreamJob() Job { return Job{EndOfStream: true} }
