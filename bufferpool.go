package posixipc

// BufferPool manages reusable byte slices to reduce GC pressure in the
// framing hot path. It uses a channel-based design, which gives
// lock-free, concurrency-safe Get and Put.
type BufferPool struct {
	pool    chan []byte
	bufSize int
}

// NewBufferPool creates a pool pre-populated with count buffers of
// bufSize bytes. Buffers are retrieved with Get and returned with Put.
func NewBufferPool(bufSize, count int) *BufferPool {
	pool := make(chan []byte, count)
	for i := 0; i < count; i++ {
		pool <- make([]byte, bufSize)
	}
	return &BufferPool{
		pool:    pool,
		bufSize: bufSize,
	}
}

// Get returns a buffer from the pool, or allocates a fresh one if the
// pool is empty. The returned buffer has length bufSize.
func (bp *BufferPool) Get() []byte {
	select {
	case buf := <-bp.pool:
		return buf
	default:
		return make([]byte, bp.bufSize)
	}
}

// Put returns a buffer to the pool for reuse. Buffers with the wrong
// capacity are discarded, as is anything beyond the pool's capacity.
func (bp *BufferPool) Put(buf []byte) {
	if cap(buf) != bp.bufSize {
		return
	}
	select {
	case bp.pool <- buf[:bp.bufSize]:
	default:
		// Pool is full; let the buffer be collected.
	}
}
