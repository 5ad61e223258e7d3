package utils

import (
	"testing"
	"time"
)

func TestSlidingWindowAdd(t *testing.T) {
	window := NewSlidingWindow[string](2 * time.Second)
	now := time.Now()
	if entries := window.Add(now, "a"); len(entries) != 1 {
		t.Fatalf("expected 1, got %d", len(entries))
	}
	window.Add(now.Add(500*time.Millisecond), "b")
	if entries := window.Within(now.Add(1*time.Second), 2*time.Second); len(entries) != 2 {
		t.Fatalf("expected 2, got %d", len(entries))
	}
	if entries := window.Add(now.Add(3*time.Second), "c"); len(entries) != 1 || entries[0].Value != "c" {
		t.Fatalf("expected expired entries pruned, got %+v", entries)
	}
}

func TestSlidingWindowBoundaryIsExclusive(t *testing.T) {
	window := NewSlidingWindow[int](5 * time.Second)
	now := time.Unix(100, 0)
	window.Add(now, 1)
	entries := window.Add(now.Add(5*time.Second), 2)
	if len(entries) != 1 || entries[0].Value != 2 {
		t.Fatalf("expected only the new entry, got %+v", entries)
	}
}

func TestSlidingWindowAppendKeepsHistory(t *testing.T) {
	window := NewSlidingWindow[string](time.Minute)
	now := time.Unix(100, 0)
	window.Append(now, "old", time.Second)
	recent := window.Append(now.Add(2*time.Second), "new", time.Second)
	if len(recent) != 1 || recent[0].Value != "new" {
		t.Fatalf("expected only recent entry, got %+v", recent)
	}
	if left := window.Prune(now.Add(time.Second)); left != 1 {
		t.Fatalf("expected 1 entry after prune, got %d", left)
	}
	if left := window.Prune(now.Add(10 * time.Second)); left != 0 {
		t.Fatalf("expected empty window, got %d", left)
	}
}
