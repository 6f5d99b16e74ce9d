package service

import (
	"context"
	"sync"

	"autofill-agent/internal/domain/entity"
)

type inflight struct {
	id     uint64
	cancel context.CancelCauseFunc
	done   chan struct{}
}

// RequestRegistry keeps at most one in-flight request per key. Starting a
// request cancels the previous one for the same key and waits for it to
// release, so two requests never drive the same page at once.
type RequestRegistry[K comparable] struct {
	mu       sync.Mutex
	seq      uint64
	requests map[K]*inflight
}

func NewRequestRegistry[K comparable]() *RequestRegistry[K] {
	return &RequestRegistry[K]{
		requests: make(map[K]*inflight),
	}
}

// Begin registers a new request. The returned context is cancelled with
// entity.ErrSuperseded when a later Begin for the same key arrives. release
// must be called when the request is finished.
func (r *RequestRegistry[K]) Begin(parent context.Context, key K) (ctx context.Context, release func(), err error) {
	for {
		if err := parent.Err(); err != nil {
			return nil, nil, err
		}
		r.mu.Lock()
		prev, busy := r.requests[key]
		if !busy {
			r.seq++
			ctx, cancel := context.WithCancelCause(parent)
			req := &inflight{id: r.seq, cancel: cancel, done: make(chan struct{})}
			r.requests[key] = req
			r.mu.Unlock()
			return ctx, func() { r.release(key, req) }, nil
		}
		prev.cancel(entity.ErrSuperseded)
		r.mu.Unlock()

		select {
		case <-prev.done:
		case <-parent.Done():
			return nil, nil, parent.Err()
		}
	}
}

// Active reports how many requests are registered.
func (r *RequestRegistry[K]) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *RequestRegistry[K]) release(key K, req *inflight) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.requests[key]; ok && cur.id == req.id {
		delete(r.requests, key)
	}
	req.cancel(context.Canceled)
	select {
	case <-req.done:
	default:
		close(req.done)
	}
}
