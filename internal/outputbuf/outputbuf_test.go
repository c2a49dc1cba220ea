package outputbuf

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestAppendWithinLimitNoTruncation(t *testing.T) {
	b := New(100)
	b.Append([]byte("hello"))
	require.False(t, b.Truncated())
	require.Equal(t, "hello", b.String())
}

func TestAppendUTF8BoundaryTruncation(t *testing.T) {
	// Limit 100: "a"x98 then a 3-byte rune "你" pushes to 101 bytes,
	// forcing removal of exactly 1 byte from the head. That byte is
	// the first "a", which is itself a UTF-8 start byte, so the cut
	// lands cleanly without needing to snap forward.
	b := New(100)
	b.Append([]byte(strings.Repeat("a", 98)))
	b.Append([]byte("你"))

	require.LessOrEqual(t, b.Len(), 100)
	require.True(t, b.Truncated())
	require.True(t, utf8.Valid(b.Bytes()))
}

func TestAppendSnapsForwardPastContinuationBytes(t *testing.T) {
	// Force a truncation point that would land mid-rune absent the
	// forward snap: limit smaller than one multi-byte rune's width.
	b := New(2)
	b.Append([]byte("你")) // 3 bytes: E4 BD A0
	require.True(t, b.Truncated())
	require.True(t, utf8.Valid(b.Bytes()))
	// Only a valid (possibly empty) UTF-8 suffix should remain.
	require.LessOrEqual(t, b.Len(), 2)
}

func TestClearResetsState(t *testing.T) {
	b := New(4)
	b.Append([]byte("abcdef"))
	require.True(t, b.Truncated())
	b.Clear()
	require.False(t, b.Truncated())
	require.Equal(t, 0, b.Len())
}

func TestConcurrentAppendAndRead(t *testing.T) {
	b := New(1024)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Append([]byte("x"))
		}()
	}
	wg.Wait()
	require.Equal(t, 50, b.Len())
}
