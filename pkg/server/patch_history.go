package server

import (
	"sync"
	"time"
)

// PatchHistoryEntry is an encoded patch frame kept for replay.
type PatchHistoryEntry struct {
	Seq    uint64    // Frame sequence number
	Frame  []byte    // Encoded FramePatches
	SentAt time.Time // When the frame was sent
}

// PatchHistory is a fixed-size ring of the most recent frames of a session.
// Once full, each Add overwrites the oldest entry.
type PatchHistory struct {
	mu       sync.RWMutex
	entries  []PatchHistoryEntry
	head     int // next write position
	count    int
	capacity int
}

// NewPatchHistory creates a history holding up to capacity frames.
func NewPatchHistory(capacity int) *PatchHistory {
	if capacity <= 0 {
		capacity = 100
	}
	return &PatchHistory{
		entries:  make([]PatchHistoryEntry, capacity),
		capacity: capacity,
	}
}

// Add stores a frame. Sequence numbers must increase. The frame bytes are
// copied.
func (h *PatchHistory) Add(seq uint64, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.head] = PatchHistoryEntry{
		Seq:    seq,
		Frame:  append([]byte(nil), frame...),
		SentAt: time.Now(),
	}
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
}

// oldest returns the ring index of the oldest entry. Callers hold the lock.
func (h *PatchHistory) oldest() int {
	return (h.head - h.count + h.capacity) % h.capacity
}

// Get returns the frame with the given sequence number.
func (h *PatchHistory) Get(seq uint64) ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return nil, false
	}
	first := h.entries[h.oldest()].Seq
	if seq < first {
		return nil, false
	}
	// Sequence numbers are dense, so the offset from the oldest entry is
	// the position in the ring.
	offset := seq - first
	if offset >= uint64(h.count) {
		return nil, false
	}
	e := h.entries[(h.oldest()+int(offset))%h.capacity]
	if e.Seq != seq {
		return nil, false
	}
	return e.Frame, true
}

// GetFrames returns frames for sequences (afterSeq, toSeq] in order, or nil
// if any of them is no longer held.
func (h *PatchHistory) GetFrames(afterSeq, toSeq uint64) [][]byte {
	var frames [][]byte
	for seq := afterSeq + 1; seq <= toSeq; seq++ {
		f, ok := h.Get(seq)
		if !ok {
			return nil
		}
		frames = append(frames, f)
	}
	return frames
}

// Bounds returns the lowest and highest sequence held.
func (h *PatchHistory) Bounds() (minSeq, maxSeq uint64, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return 0, 0, false
	}
	newest := (h.head - 1 + h.capacity) % h.capacity
	return h.entries[h.oldest()].Seq, h.entries[newest].Seq, true
}

// Count returns the number of entries held.
func (h *PatchHistory) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Clear removes all entries.
func (h *PatchHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.entries {
		h.entries[i] = PatchHistoryEntry{}
	}
	h.head = 0
	h.count = 0
}
