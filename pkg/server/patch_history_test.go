package server

import (
	"fmt"
	"testing"
)

func frameFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("frame-%d", seq))
}

func TestPatchHistoryGet(t *testing.T) {
	h := NewPatchHistory(3)
	if _, ok := h.Get(1); ok {
		t.Error("Get on empty history succeeded")
	}
	for seq := uint64(1); seq <= 5; seq++ {
		h.Add(seq, frameFor(seq))
	}

	tests := []struct {
		seq uint64
		ok  bool
	}{
		{1, false},
		{2, false},
		{3, true},
		{4, true},
		{5, true},
		{6, false},
	}
	for _, tc := range tests {
		got, ok := h.Get(tc.seq)
		if ok != tc.ok {
			t.Errorf("Get(%d) ok = %v, want %v", tc.seq, ok, tc.ok)
			continue
		}
		if ok && string(got) != string(frameFor(tc.seq)) {
			t.Errorf("Get(%d) = %q", tc.seq, got)
		}
	}

	if lo, hi, ok := h.Bounds(); !ok || lo != 3 || hi != 5 {
		t.Errorf("Bounds() = %d, %d, %v; want 3, 5, true", lo, hi, ok)
	}
	if h.Count() != 3 {
		t.Errorf("Count() = %d, want 3", h.Count())
	}
}

func TestPatchHistoryCopiesFrames(t *testing.T) {
	h := NewPatchHistory(2)
	buf := []byte("abc")
	h.Add(1, buf)
	buf[0] = 'x'
	if got, _ := h.Get(1); string(got) != "abc" {
		t.Errorf("Get(1) = %q, want the bytes at Add time", got)
	}
}

func TestPatchHistoryGetFrames(t *testing.T) {
	h := NewPatchHistory(4)
	for seq := uint64(1); seq <= 6; seq++ {
		h.Add(seq, frameFor(seq))
	}

	frames := h.GetFrames(3, 6)
	if len(frames) != 3 {
		t.Fatalf("GetFrames(3, 6) returned %d frames, want 3", len(frames))
	}
	for i, f := range frames {
		if want := frameFor(uint64(4 + i)); string(f) != string(want) {
			t.Errorf("frame %d = %q, want %q", i, f, want)
		}
	}
	if h.GetFrames(1, 6) != nil {
		t.Error("GetFrames across evicted entries should be nil")
	}
	if h.GetFrames(5, 7) != nil {
		t.Error("GetFrames beyond the newest entry should be nil")
	}
}

func TestPatchHistoryClear(t *testing.T) {
	h := NewPatchHistory(0)
	h.Add(1, frameFor(1))
	h.Clear()
	if h.Count() != 0 {
		t.Errorf("Count() after Clear = %d", h.Count())
	}
	if _, _, ok := h.Bounds(); ok {
		t.Error("Bounds() after Clear should report empty")
	}
	h.Add(7, frameFor(7))
	if got, ok := h.Get(7); !ok || string(got) != "frame-7" {
		t.Errorf("Get(7) after Clear = %q, %v", got, ok)
	}
}
