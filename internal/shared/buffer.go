package shared

import (
	"bytes"
	"sync"
)

// ThreadSafeBuffer is a bytes.Buffer guarded by a mutex. The server tests
// point their logger at one while the accept loop writes from another goroutine.
type ThreadSafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// NewThreadSafeBuffer creates a new ThreadSafeBuffer
func NewThreadSafeBuffer() *ThreadSafeBuffer {
	return &ThreadSafeBuffer{}
}

// Write writes data to the buffer, is thread-safe
func (b *ThreadSafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String returns a copy of the buffered contents.
func (b *ThreadSafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}
