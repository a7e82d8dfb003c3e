package frame

import "time"

// Queue is an ordered buffer of frames plus a cached copy of the most recent
// frame used for duplication.
//
// Queue is not safe for concurrent use; it is owned by the recording worker.
type Queue struct {
	frames   []*Frame
	last     *Frame
	capacity int
	dropped  int
}

// NewQueue creates a queue. A capacity of zero means unbounded.
func NewQueue(capacity int) *Queue {
	return &Queue{capacity: capacity}
}

// Push takes ownership of f and appends it. The cached last frame is replaced
// by an independent copy of f. When the queue is at capacity the oldest
// queued frame is released and counted as dropped.
func (q *Queue) Push(f *Frame) {
	if q.capacity > 0 && len(q.frames) >= q.capacity {
		q.frames[0].Release()
		q.frames[0] = nil
		q.frames = q.frames[1:]
		q.dropped++
	}
	q.frames = append(q.frames, f)
	q.setLast(f.Clone())
}

// Pop removes and returns the oldest frame, transferring ownership to the
// caller. It returns nil when the queue is empty.
func (q *Queue) Pop() *Frame {
	if len(q.frames) == 0 {
		return nil
	}
	f := q.frames[0]
	q.frames[0] = nil
	q.frames = q.frames[1:]
	if len(q.frames) == 0 {
		q.frames = nil
	}
	return f
}

// Last returns the cached last frame without transferring ownership.
// The returned frame stays owned by the queue.
func (q *Queue) Last() *Frame {
	return q.last
}

// Len returns the number of queued frames.
func (q *Queue) Len() int {
	return len(q.frames)
}

// Dropped returns the number of frames discarded by Push or DropAllButNewest.
func (q *Queue) Dropped() int {
	return q.dropped
}

// DropAllButNewest releases every queued frame except the most recent one
// and returns how many were dropped.
func (q *Queue) DropAllButNewest() int {
	n := len(q.frames) - 1
	if n <= 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		q.frames[i].Release()
		q.frames[i] = nil
	}
	q.frames = q.frames[n:]
	q.dropped += n
	return n
}

// DropSuperseded releases queued frames that have a newer frame captured at
// or before t, so the oldest remaining frame is the newest one available at t.
// It returns how many were dropped.
func (q *Queue) DropSuperseded(t time.Time) int {
	n := 0
	for n+1 < len(q.frames) && !q.frames[n+1].Timestamp.After(t) {
		q.frames[n].Release()
		q.frames[n] = nil
		n++
	}
	if n > 0 {
		q.frames = q.frames[n:]
		q.dropped += n
	}
	return n
}

// Discard releases every queued frame, counting them as dropped. The cached
// last frame is kept.
func (q *Queue) Discard() int {
	n := len(q.frames)
	for i, f := range q.frames {
		f.Release()
		q.frames[i] = nil
	}
	q.frames = nil
	q.dropped += n
	return n
}

// Reset releases every queued frame and the cached last frame.
func (q *Queue) Reset() {
	for i, f := range q.frames {
		f.Release()
		q.frames[i] = nil
	}
	q.frames = nil
	q.setLast(nil)
}

func (q *Queue) setLast(f *Frame) {
	if q.last != nil {
		q.last.Release()
	}
	q.last = f
}
