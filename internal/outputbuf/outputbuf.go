// Package outputbuf implements a bounded byte buffer with UTF-8-safe
// head truncation, used by terminal sessions to cap memory use without
// ever splitting a multi-byte rune.
package outputbuf

import (
	"bytes"
	"sync"
)

// Buffer is a byte accumulator with a maximum length. When appending
// would exceed the limit, bytes are removed from the head until the
// buffer fits, snapping the cut point forward to the next UTF-8 start
// byte so the retained bytes are never mid-rune.
type Buffer struct {
	mu        sync.RWMutex
	data      []byte
	limit     int
	truncated bool
}

// New creates a Buffer bounded to limit bytes. A non-positive limit
// disables truncation (the buffer grows unbounded).
func New(limit int) *Buffer {
	return &Buffer{limit: limit}
}

// Append adds bytes to the buffer, truncating from the head if needed.
func (b *Buffer) Append(p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append(b.data, p...)
	if b.limit <= 0 || len(b.data) <= b.limit {
		return
	}

	excess := len(b.data) - b.limit
	cut := nextUTF8Boundary(b.data, excess)
	b.data = append([]byte(nil), b.data[cut:]...)
	b.truncated = true
}

// nextUTF8Boundary returns the smallest index >= from that is not a
// UTF-8 continuation byte (top two bits != 0b10), so cutting the slice
// at that index never severs a multi-byte rune. If from is already at
// or past the end, len(data) is returned.
func nextUTF8Boundary(data []byte, from int) int {
	for from < len(data) && isContinuationByte(data[from]) {
		from++
	}
	return from
}

func isContinuationByte(b byte) bool {
	return b&0b1100_0000 == 0b1000_0000
}

// Bytes returns a copy of the current buffer contents.
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// String returns a lossy UTF-8 decode of the buffer contents.
func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(bytes.ToValidUTF8(b.data, []byte("�")))
}

// Truncated reports whether any head truncation has occurred.
func (b *Buffer) Truncated() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.truncated
}

// Clear resets the buffer contents and truncated flag.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	b.truncated = false
}

// Len returns the current number of buffered bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}
