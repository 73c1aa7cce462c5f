package ptexfilter

import "sync"

// NewBufferPool creates a BufferPool.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		cache: make(map[int]*sync.Pool),
	}
}

// BufferPool maintains a sync.Pool of float32 slices for each size gotten from
// it. It is mostly useful when evaluating a large quantity of sample batches
// in a few fixed sizes.
type BufferPool struct {
	cache map[int]*sync.Pool
	mu    sync.Mutex
}

func (p *BufferPool) getPool(n int) *sync.Pool {
	p.mu.Lock()
	pool, ok := p.cache[n]
	if !ok {
		pool = &sync.Pool{
			New: func() interface{} {
				tmp := make([]float32, n)
				return &tmp
			},
		}
		p.cache[n] = pool
	}
	p.mu.Unlock()
	return pool
}

// Get gets a zeroed float32 slice of length n from the pool.
func (p *BufferPool) Get(n int) []float32 {
	buf := *p.getPool(n).Get().(*[]float32)
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// Put puts a slice back into the pool.
func (p *BufferPool) Put(buf []float32) {
	if buf == nil {
		return
	}
	p.getPool(len(buf)).Put(&buf)
}
