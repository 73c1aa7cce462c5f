package ptexfilter

import (
	"context"
	"errors"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrShortBuffer is returned when a batch result buffer cannot hold every
// sample.
var ErrShortBuffer = errors.New("result buffer too short")

// Request identifies one sample to evaluate: a position and filter half-widths
// on a face.
type Request struct {
	Face   int
	U, V   float32
	UW, VW float32
}

// Sampler evaluates batches of samples concurrently. It's safe to use
// concurrently.
type Sampler struct {
	filter   Filter
	channels int
	pool     *BufferPool
	log      zerolog.Logger
}

// NewSampler creates a Sampler evaluating channels channels per sample with
// the provided filter.
func NewSampler(f Filter, channels int) *Sampler {
	return &Sampler{
		filter:   f,
		channels: channels,
		pool:     NewBufferPool(),
		log:      zerolog.Nop(),
	}
}

// WithLogger sets the logger used for batch diagnostics and returns s.
func (s *Sampler) WithLogger(log zerolog.Logger) *Sampler {
	s.log = log
	return s
}

// EvalBatch evaluates every request into out, one channels-wide slot per
// request, fanning the work across NumCPU goroutines. It returns early if ctx
// is canceled; slots not yet evaluated are left as is.
func (s *Sampler) EvalBatch(ctx context.Context, reqs []Request, out []float32) error {
	if len(out) < len(reqs)*s.channels {
		return ErrShortBuffer
	}

	errg, ctx := errgroup.WithContext(ctx)
	idx := make(chan int)
	errg.Go(func() error {
		defer close(idx)
		for i := range reqs {
			select {
			case idx <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < runtime.NumCPU(); i++ {
		errg.Go(func() error {
			for i := range idx {
				r := reqs[i]
				s.filter.Eval(out[i*s.channels:(i+1)*s.channels], 0, s.channels,
					r.Face, r.U, r.V, r.UW, r.VW)
			}
			return nil
		})
	}

	if err := errg.Wait(); err != nil {
		return err
	}
	s.log.Debug().Int("samples", len(reqs)).Int("channels", s.channels).Msg("evaluated batch")
	return nil
}

// EvalBatchAlloc is like EvalBatch with a result buffer taken from the
// sampler's pool. Return the buffer with Release once done with it.
func (s *Sampler) EvalBatchAlloc(ctx context.Context, reqs []Request) ([]float32, error) {
	out := s.pool.Get(len(reqs) * s.channels)
	if err := s.EvalBatch(ctx, reqs, out); err != nil {
		s.pool.Put(out)
		return nil, err
	}
	return out, nil
}

// Release returns a buffer obtained from EvalBatchAlloc to the pool.
func (s *Sampler) Release(buf []float32) {
	s.pool.Put(buf)
}
