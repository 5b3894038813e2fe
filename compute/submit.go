package compute

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/celer/vkcompute/vkg"
)

// fenceWaiter is the part of a fence a Submission depends on
type fenceWaiter interface {
	Wait() error
	Signaled() (bool, error)
	Destroy()
}

// Submission is a recording in flight on the queue
type Submission struct {
	op      Operation
	buffers []*HostBuffer
	fence   fenceWaiter
	release func()
	onDone  func()

	mu   sync.Mutex
	done atomic.Bool
}

func newSubmission(op Operation, fence fenceWaiter, release, onDone func()) *Submission {
	sub := &Submission{op: op, buffers: op.touched(), fence: fence, release: release, onDone: onDone}
	for _, b := range sub.buffers {
		b.inflight.Store(sub)
	}
	return sub
}

// Submit sends the recording to the session queue with a new fence
func (s *Session) Submit(r *Recording) (*Submission, error) {
	if !r.submitted.CompareAndSwap(false, true) {
		return nil, ErrAlreadySubmitted
	}
	for _, b := range r.op.touched() {
		if err := b.checkIdle(); err != nil {
			s.abandon(r)
			return nil, err
		}
	}

	fence, err := s.Device.CreateFence()
	if err != nil {
		s.abandon(r)
		return nil, fmt.Errorf("create fence: %w", err)
	}

	err = s.Queue.SubmitWithFence(fence, r.cb)
	if err != nil {
		fence.Destroy()
		s.abandon(r)
		return nil, fmt.Errorf("submit %s: %w", r.op.Name(), err)
	}

	sub := newSubmission(r.op, fence,
		func() {
			fence.Destroy()
			s.abandon(r)
		},
		func() {
			s.state.advance(StateCompleted)
		})

	s.state.advance(StateSubmitted)
	s.log.WithField("op", r.op.Name()).Debug("submitted")
	return sub, nil
}

// abandon frees r's command buffer and releases what it reserved
func (s *Session) abandon(r *Recording) {
	s.CommandPool.FreeBuffer(r.cb)
	r.op.release(r)
}

// Wait blocks with no timeout until the submission's fence signals
func (sub *Submission) Wait() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.done.Load() {
		return nil
	}
	if err := sub.fence.Wait(); err != nil {
		return fmt.Errorf("wait for %s: %w", sub.op.Name(), err)
	}
	sub.complete()
	return nil
}

// Signaled polls the fence without blocking. Observing the signal releases
// the submission's buffers just as Wait does.
func (sub *Submission) Signaled() bool {
	if sub.done.Load() {
		return true
	}
	if !sub.mu.TryLock() {
		// a Wait is in progress
		return false
	}
	defer sub.mu.Unlock()
	if sub.done.Load() {
		return true
	}
	ok, err := sub.fence.Signaled()
	if err != nil {
		vkg.Logger().WithError(err).Warn("fence status")
		return false
	}
	if ok {
		sub.complete()
	}
	return ok
}

// complete must be called with mu held
func (sub *Submission) complete() {
	sub.done.Store(true)
	for _, b := range sub.buffers {
		b.inflight.CompareAndSwap(sub, nil)
	}
	if sub.release != nil {
		sub.release()
	}
	if sub.onDone != nil {
		sub.onDone()
	}
}

// Run records op, submits it and waits for it to complete
func (s *Session) Run(op Operation) error {
	r, err := s.Record(op)
	if err != nil {
		return err
	}
	sub, err := s.Submit(r)
	if err != nil {
		return err
	}
	return sub.Wait()
}
