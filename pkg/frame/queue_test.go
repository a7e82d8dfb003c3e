package frame

import (
	"image/color"
	"testing"
	"time"
)

func stamped(n int) *Frame {
	return New(solid(2, 2, color.RGBA{R: uint8(n), A: 255}), time.Unix(int64(n), 0))
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(0)
	for i := 1; i <= 3; i++ {
		q.Push(stamped(i))
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	for i := 1; i <= 3; i++ {
		f := q.Pop()
		if f == nil {
			t.Fatalf("Pop %d returned nil", i)
		}
		if got := int(f.Image.Pix[0]); got != i {
			t.Errorf("Pop %d returned frame %d", i, got)
		}
		f.Release()
	}
	if q.Pop() != nil {
		t.Error("Pop on empty queue should return nil")
	}
}

func TestQueueLastSurvivesPop(t *testing.T) {
	q := NewQueue(0)
	q.Push(stamped(7))
	f := q.Pop()
	f.Release()

	last := q.Last()
	if last == nil {
		t.Fatal("last frame should survive pop")
	}
	if last.Image.Pix[0] != 7 {
		t.Errorf("last frame = %d, want 7", last.Image.Pix[0])
	}
	if last.Released() {
		t.Error("last frame released by popping the original")
	}
}

func TestQueueCapacityDropsOldest(t *testing.T) {
	q := NewQueue(2)
	first := stamped(1)
	q.Push(first)
	q.Push(stamped(2))
	q.Push(stamped(3))

	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}
	if q.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", q.Dropped())
	}
	if !first.Released() {
		t.Error("dropped frame should be released")
	}
	if f := q.Pop(); f.Image.Pix[0] != 2 {
		t.Errorf("oldest remaining = %d, want 2", f.Image.Pix[0])
	}
}

func TestQueueDropAllButNewest(t *testing.T) {
	q := NewQueue(0)
	for i := 1; i <= 5; i++ {
		q.Push(stamped(i))
	}
	if n := q.DropAllButNewest(); n != 4 {
		t.Errorf("dropped %d, want 4", n)
	}
	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1", q.Len())
	}
	if f := q.Pop(); f.Image.Pix[0] != 5 {
		t.Errorf("survivor = %d, want 5", f.Image.Pix[0])
	}
	if n := q.DropAllButNewest(); n != 0 {
		t.Errorf("dropping from empty queue returned %d", n)
	}
}

func TestQueueReset(t *testing.T) {
	q := NewQueue(0)
	a, b := stamped(1), stamped(2)
	q.Push(a)
	q.Push(b)
	last := q.Last()
	q.Reset()

	if q.Len() != 0 || q.Last() != nil {
		t.Error("queue not empty after reset")
	}
	if !a.Released() || !b.Released() || !last.Released() {
		t.Error("reset should release queued frames and the cached last frame")
	}
}

func TestQueueDropSuperseded(t *testing.T) {
	q := NewQueue(0)
	frames := make([]*Frame, 5)
	for i := range frames {
		frames[i] = stamped(i + 1)
		q.Push(frames[i])
	}

	// frames 1-3 are captured by t=3; only 3 is still current
	if n := q.DropSuperseded(time.Unix(3, 0)); n != 2 {
		t.Errorf("dropped %d, want 2", n)
	}
	if !frames[0].Released() || !frames[1].Released() || frames[2].Released() {
		t.Error("only superseded frames should be released")
	}
	if f := q.Pop(); f.Image.Pix[0] != 3 {
		t.Errorf("next = %d, want 3", f.Image.Pix[0])
	}

	// nothing captured by t=0 keeps the oldest at the head
	if n := q.DropSuperseded(time.Unix(0, 0)); n != 0 {
		t.Errorf("dropped %d before any capture, want 0", n)
	}
	// the newest frame always survives
	if n := q.DropSuperseded(time.Unix(100, 0)); n != 1 || q.Len() != 1 {
		t.Errorf("dropped %d leaving %d, want 1 and 1", n, q.Len())
	}
	if q.Dropped() != 3 {
		t.Errorf("Dropped = %d, want 3", q.Dropped())
	}
}

func TestQueueDiscardKeepsLast(t *testing.T) {
	q := NewQueue(0)
	a, b := stamped(1), stamped(2)
	q.Push(a)
	q.Push(b)

	if n := q.Discard(); n != 2 {
		t.Errorf("discarded %d, want 2", n)
	}
	if q.Len() != 0 || !a.Released() || !b.Released() {
		t.Error("discard should release every queued frame")
	}
	if last := q.Last(); last == nil || last.Released() {
		t.Error("discard must keep the cached last frame")
	}
	if q.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", q.Dropped())
	}
}
