package core

import (
	"bytes"
	"sync"
)

// bufferPool is a mutex-protected buffer pool. Unlike sync.Pool its contents
// are not cleared by the garbage collector, which suits the larger reusable
// buffers used for payload compression and decompression.
type bufferPool struct {
	mu       sync.Mutex
	items    []*bytes.Buffer
	capacity int
	maxIdle  int
}

// DefaultPayloadBufferSize is the pre-allocated capacity for pooled buffers.
const DefaultPayloadBufferSize = 4 * 1024

// BufferPool is the shared pool used by compressors and the block writer.
var BufferPool = NewBufferPool(DefaultPayloadBufferSize)

// NewBufferPool creates a new buffer pool whose buffers start with the given
// capacity.
func NewBufferPool(capacity int) *bufferPool {
	return &bufferPool{
		capacity: capacity,
		maxIdle:  16,
	}
}

// Get retrieves a reset buffer from the pool, allocating one if empty.
func (p *bufferPool) Get() *bytes.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.items); n > 0 {
		buf := p.items[n-1]
		p.items = p.items[:n-1]
		return buf
	}
	buf := &bytes.Buffer{}
	buf.Grow(p.capacity)
	return buf
}

// Put returns a buffer to the pool. Buffers beyond the idle limit are
// dropped so a burst of large blocks does not pin memory forever.
func (p *bufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) >= p.maxIdle {
		return
	}
	p.items = append(p.items, buf)
}
