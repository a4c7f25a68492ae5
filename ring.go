package aaudio

import (
	"sync/atomic"

	"github.com/smallnest/ringbuffer"
)

// RingOutput feeds an output stream from a ring buffer filled by another goroutine.
// The data callback never blocks: whatever the ring cannot supply is played as silence.
type RingOutput struct {
	rb       *ringbuffer.RingBuffer
	underrun atomic.Int64
	played   atomic.Int64
	stop     atomic.Bool
}

// NewRingOutput returns an adapter reading from rb.
func NewRingOutput(rb *ringbuffer.RingBuffer) *RingOutput {
	return &RingOutput{rb: rb}
}

// Callback is the DataCallback to install on the builder.
func (r *RingOutput) Callback(_ *Stream, audioData []byte, _ int32) CallbackResult {
	n, _ := r.rb.TryRead(audioData)
	r.played.Add(int64(n))

	if n < len(audioData) {
		clear(audioData[n:])
		r.underrun.Add(int64(len(audioData) - n))
	}

	if r.stop.Load() && r.rb.IsEmpty() {
		return AAUDIO_CALLBACK_RESULT_STOP
	}

	return AAUDIO_CALLBACK_RESULT_CONTINUE
}

// StopWhenDrained makes the callback return STOP once the ring is empty.
func (r *RingOutput) StopWhenDrained() {
	r.stop.Store(true)
}

// Underrun returns the number of silent bytes played because the ring was empty.
func (r *RingOutput) Underrun() int64 {
	return r.underrun.Load()
}

// Played returns the number of bytes taken from the ring.
func (r *RingOutput) Played() int64 {
	return r.played.Load()
}

// RingInput captures an input stream into a ring buffer drained by another goroutine.
// Data that does not fit is dropped and counted.
type RingInput struct {
	rb       *ringbuffer.RingBuffer
	overrun  atomic.Int64
	captured atomic.Int64
}

// NewRingInput returns an adapter writing into rb.
func NewRingInput(rb *ringbuffer.RingBuffer) *RingInput {
	return &RingInput{rb: rb}
}

// Callback is the DataCallback to install on the builder.
func (r *RingInput) Callback(_ *Stream, audioData []byte, _ int32) CallbackResult {
	n, _ := r.rb.TryWrite(audioData)
	r.captured.Add(int64(n))

	if dropped := len(audioData) - n; dropped > 0 {
		r.overrun.Add(int64(dropped))
	}

	return AAUDIO_CALLBACK_RESULT_CONTINUE
}

// Overrun returns the number of captured bytes dropped because the ring was full.
func (r *RingInput) Overrun() int64 {
	return r.overrun.Load()
}

// Captured returns the number of bytes written to the ring.
func (r *RingInput) Captured() int64 {
	return r.captured.Load()
}
