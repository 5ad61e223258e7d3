package utils

import (
	"sync"
	"time"
)

type Entry[T any] struct {
	At    time.Time
	Value T
}

// SlidingWindow keeps timestamped entries in insertion order. An entry is
// inside the window while now-At < window.
type SlidingWindow[T any] struct {
	mu      sync.Mutex
	window  time.Duration
	entries []Entry[T]
}

func NewSlidingWindow[T any](window time.Duration) *SlidingWindow[T] {
	return &SlidingWindow[T]{window: window}
}

func (w *SlidingWindow[T]) SetWindow(window time.Duration) {
	if window <= 0 {
		return
	}
	w.mu.Lock()
	w.window = window
	w.mu.Unlock()
}

// Add drops entries outside the window, appends value and returns a copy of
// the remaining entries.
func (w *SlidingWindow[T]) Add(now time.Time, value T) []Entry[T] {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now.Add(-w.window))
	w.entries = append(w.entries, Entry[T]{At: now, Value: value})
	return w.copyLocked(now, w.window)
}

// Append adds value without pruning and returns the entries younger than
// within, the new one included.
func (w *SlidingWindow[T]) Append(now time.Time, value T, within time.Duration) []Entry[T] {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.entries = append(w.entries, Entry[T]{At: now, Value: value})
	return w.copyLocked(now, within)
}

func (w *SlidingWindow[T]) Within(now time.Time, within time.Duration) []Entry[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.copyLocked(now, within)
}

// Prune removes entries at or before cutoff and returns how many are left.
func (w *SlidingWindow[T]) Prune(cutoff time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(cutoff)
	return len(w.entries)
}

func (w *SlidingWindow[T]) Reset() {
	w.mu.Lock()
	w.entries = nil
	w.mu.Unlock()
}

func (w *SlidingWindow[T]) pruneLocked(cutoff time.Time) {
	idx := 0
	for _, entry := range w.entries {
		if entry.At.After(cutoff) {
			break
		}
		idx++
	}
	if idx == 0 {
		return
	}
	w.entries = append(w.entries[:0:0], w.entries[idx:]...)
}

func (w *SlidingWindow[T]) copyLocked(now time.Time, within time.Duration) []Entry[T] {
	out := make([]Entry[T], 0, len(w.entries))
	for _, entry := range w.entries {
		if now.Sub(entry.At) < within {
			out = append(out, entry)
		}
	}
	return out
}
