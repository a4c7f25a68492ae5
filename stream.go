package aaudio

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Stream represents an open AAudio stream. It is created by StreamBuilder.OpenStream
// and owns the native handle until Close.
//
// Format, channel count, sample rate and direction are read once after open and cached;
// every other query goes to the native stream.
type Stream struct {
	lib    *Library
	handle uintptr
	arena  *arena
	reg    *registration

	direction  Direction
	format     Format
	channels   int32
	sampleRate int32

	released atomic.Bool
	closed   atomic.Bool
}

func newStream(l *Library, h uintptr, a *arena, reg *registration) *Stream {
	return &Stream{lib: l, handle: h, arena: a, reg: reg}
}

// updateFrameBytes caches the negotiated frame layout used to size callback buffers.
func (s *Stream) updateFrameBytes() error {
	var err error
	if s.channels, err = s.count(StreamChannelCount); err != nil {
		return err
	}

	f, err := s.value(StreamFormat)
	if err != nil {
		return err
	}
	s.format = Format(f)

	if s.sampleRate, err = s.count(StreamSampleRate); err != nil {
		return err
	}

	d, err := s.value(StreamDirection)
	if err != nil {
		return err
	}
	s.direction = Direction(d)

	s.reg.frameBytes.Store(int32(s.FrameSize()))

	return nil
}

// IsOpen reports whether the stream has not been closed.
func (s *Stream) IsOpen() bool {
	return s != nil && !s.closed.Load()
}

// Handle returns the native AAudioStream pointer.
func (s *Stream) Handle() uintptr {
	return s.handle
}

func (s *Stream) check() error {
	switch {
	case !s.IsOpen():
		return ErrStreamClosed
	case s.lib.closed.Load():
		return ErrLibraryClosed
	}

	return nil
}

func (s *Stream) control(op StreamOp) error {
	if err := s.check(); err != nil {
		return err
	}

	r, err := s.lib.native.StreamControl(s.handle, op)
	if err != nil {
		return err
	}

	return checkResult(op.Symbol(), r)
}

// value reads an enumerated or signed property.
func (s *Stream) value(p StreamProperty) (int32, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	return s.lib.native.StreamGetInt(s.handle, p)
}

// count reads a property where a negative value is a result code.
func (s *Stream) count(p StreamProperty) (int32, error) {
	v, err := s.value(p)
	if err != nil {
		return 0, err
	}

	return checkCount(p.Symbol(), v)
}

func (s *Stream) count64(p StreamProperty) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	v, err := s.lib.native.StreamGetInt64(s.handle, p)
	if err != nil {
		return 0, err
	}

	if v < 0 {
		return 0, &Error{Op: p.Symbol(), Code: Normalize(int32(v)), Raw: int32(v)}
	}

	return v, nil
}

func (s *Stream) flag(p StreamProperty) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}

	return s.lib.native.StreamGetBool(s.handle, p)
}

// RequestStart asynchronously requests the stream to start.
// The state moves to STARTING immediately and to STARTED once the device is running.
func (s *Stream) RequestStart() error {
	return s.control(StreamRequestStart)
}

// RequestPause asynchronously requests the stream to pause. Input streams report
// AAUDIO_ERROR_UNIMPLEMENTED.
func (s *Stream) RequestPause() error {
	return s.control(StreamRequestPause)
}

// RequestFlush discards pending output data. The stream must be paused first.
// Input streams report AAUDIO_ERROR_UNIMPLEMENTED.
func (s *Stream) RequestFlush() error {
	return s.control(StreamRequestFlush)
}

// RequestStop asynchronously requests the stream to stop.
func (s *Stream) RequestStop() error {
	return s.control(StreamRequestStop)
}

// Release frees the stream's device resources while keeping the handle valid for queries.
// Requires API level 30. Close releases the stream if this was not called.
func (s *Stream) Release() error {
	if err := s.control(StreamRelease); err != nil {
		return err
	}

	s.released.Store(true)

	return nil
}

// Close releases and closes the native stream, then drops its callback registrations.
// Calling Close more than once is safe; only the first call reaches the native library.
// Failures of the native calls are returned together and never prevent the registrations
// from being dropped.
func (s *Stream) Close() error {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	defer s.arena.close()

	if s.lib.closed.Load() {
		return ErrLibraryClosed
	}

	var errs []error
	if !s.released.Load() {
		r, err := s.lib.native.StreamControl(s.handle, StreamRelease)
		switch {
		case errors.Is(err, ErrSymbolNotFound):
		case err != nil:
			errs = append(errs, err)
		default:
			errs = append(errs, checkResult(StreamRelease.Symbol(), r))
		}
	}

	r, err := s.lib.native.StreamControl(s.handle, StreamClose)
	if err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, checkResult(StreamClose.Symbol(), r))
	}

	err = errors.Join(errs...)
	if err != nil {
		s.lib.log.Warn("stream close reported errors", "err", err)
	} else {
		s.lib.log.Debug("stream closed")
	}

	return err
}

// State returns the current state as last reported by the client side of AAudio. It does not block.
func (s *Stream) State() (StreamState, error) {
	if !s.IsOpen() {
		return AAUDIO_STREAM_STATE_CLOSED, ErrStreamClosed
	}

	v, err := s.value(StreamCurrentState)
	if err != nil {
		return AAUDIO_STREAM_STATE_UNKNOWN, err
	}

	return StreamState(v), nil
}

// WaitForStateChange blocks until the stream leaves current or timeout elapses, and
// returns the state it observed last. A zero or negative timeout polls once.
// When the state did not change in time the error matches AAUDIO_ERROR_TIMEOUT.
func (s *Stream) WaitForStateChange(current StreamState, timeout time.Duration) (StreamState, error) {
	if err := s.check(); err != nil {
		return current, err
	}

	timeout = max(timeout, 0)

	next, r := s.lib.native.StreamWaitForStateChange(s.handle, int32(current), timeout.Nanoseconds())
	if err := checkResult(symStreamWaitForStateChange, r); err != nil {
		return StreamState(next), err
	}

	return StreamState(next), nil
}

// awaitPoll bounds each native wait so AwaitState can observe ctx.
const awaitPoll = 100 * time.Millisecond

// AwaitState waits until the stream reaches want, ctx is done, or the stream ends up
// DISCONNECTED or CLOSED without reaching want.
func (s *Stream) AwaitState(ctx context.Context, want StreamState) error {
	st, err := s.State()
	if err != nil {
		return err
	}

	for st != want {
		if st == AAUDIO_STREAM_STATE_DISCONNECTED || st == AAUDIO_STREAM_STATE_CLOSED {
			return fmt.Errorf("await %s: stream is %s: %w", want, st, AAUDIO_ERROR_INVALID_STATE)
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("await %s: stream is %s: %w", want, st, err)
		}

		next, err := s.WaitForStateChange(st, awaitPoll)
		if err != nil && !errors.Is(err, AAUDIO_ERROR_TIMEOUT) {
			return err
		}

		st = next
	}

	return nil
}

// SetBufferSizeInFrames adjusts the part of the buffer used for latency and returns
// the size actually set, which AAudio may round to a burst multiple.
func (s *Stream) SetBufferSizeInFrames(frames int32) (int32, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	return checkCount(symStreamSetBufferSize, s.lib.native.StreamSetBufferSize(s.handle, frames))
}

func (s *Stream) BufferSizeInFrames() (int32, error) {
	return s.count(StreamBufferSizeInFrames)
}

// FramesPerBurst returns the number of frames the device moves in one transfer.
func (s *Stream) FramesPerBurst() (int32, error) {
	return s.count(StreamFramesPerBurst)
}

func (s *Stream) BufferCapacityInFrames() (int32, error) {
	return s.count(StreamBufferCapacityInFrames)
}

// FramesPerDataCallback returns the fixed callback size, or AAUDIO_UNSPECIFIED when it varies.
func (s *Stream) FramesPerDataCallback() (int32, error) {
	return s.count(StreamFramesPerDataCallback)
}

// XRunCount returns the number of underruns (output) or overruns (input) so far.
func (s *Stream) XRunCount() (int32, error) {
	return s.count(StreamXRunCount)
}

func (s *Stream) SampleRate() (int32, error) {
	return s.count(StreamSampleRate)
}

// HardwareSampleRate requires API level 34.
func (s *Stream) HardwareSampleRate() (int32, error) {
	return s.count(StreamHardwareSampleRate)
}

func (s *Stream) ChannelCount() (int32, error) {
	return s.count(StreamChannelCount)
}

// HardwareChannelCount requires API level 34.
func (s *Stream) HardwareChannelCount() (int32, error) {
	return s.count(StreamHardwareChannelCount)
}

func (s *Stream) SamplesPerFrame() (int32, error) {
	return s.count(StreamSamplesPerFrame)
}

func (s *Stream) DeviceID() (int32, error) {
	return s.count(StreamDeviceID)
}

func (s *Stream) Format() (Format, error) {
	v, err := s.value(StreamFormat)
	return Format(v), err
}

// HardwareFormat requires API level 34.
func (s *Stream) HardwareFormat() (Format, error) {
	v, err := s.value(StreamHardwareFormat)
	return Format(v), err
}

func (s *Stream) SharingMode() (SharingMode, error) {
	v, err := s.value(StreamSharingMode)
	return SharingMode(v), err
}

func (s *Stream) PerformanceMode() (PerformanceMode, error) {
	v, err := s.value(StreamPerformanceMode)
	return PerformanceMode(v), err
}

func (s *Stream) Direction() (Direction, error) {
	v, err := s.value(StreamDirection)
	return Direction(v), err
}

// FramesWritten returns the number of frames written to the stream since it was opened.
func (s *Stream) FramesWritten() (int64, error) {
	return s.count64(StreamFramesWritten)
}

// FramesRead returns the number of frames read from the stream since it was opened.
func (s *Stream) FramesRead() (int64, error) {
	return s.count64(StreamFramesRead)
}

// SessionID requires API level 28.
func (s *Stream) SessionID() (SessionID, error) {
	v, err := s.value(StreamSessionID)
	return SessionID(v), err
}

// Usage requires API level 28.
func (s *Stream) Usage() (Usage, error) {
	v, err := s.value(StreamUsage)
	return Usage(v), err
}

// ContentType requires API level 28.
func (s *Stream) ContentType() (ContentType, error) {
	v, err := s.value(StreamContentType)
	return ContentType(v), err
}

// SpatializationBehavior requires API level 32.
func (s *Stream) SpatializationBehavior() (SpatializationBehavior, error) {
	v, err := s.value(StreamSpatializationBehavior)
	return SpatializationBehavior(v), err
}

// IsContentSpatialized requires API level 32.
func (s *Stream) IsContentSpatialized() (bool, error) {
	return s.flag(StreamIsContentSpatialized)
}

// InputPreset requires API level 28.
func (s *Stream) InputPreset() (InputPreset, error) {
	v, err := s.value(StreamInputPreset)
	return InputPreset(v), err
}

// AllowedCapturePolicy requires API level 29.
func (s *Stream) AllowedCapturePolicy() (AllowedCapturePolicy, error) {
	v, err := s.value(StreamAllowedCapturePolicy)
	return AllowedCapturePolicy(v), err
}

// IsPrivacySensitive requires API level 30.
func (s *Stream) IsPrivacySensitive() (bool, error) {
	return s.flag(StreamIsPrivacySensitive)
}

// ChannelMask requires API level 32.
func (s *Stream) ChannelMask() (ChannelMask, error) {
	v, err := s.value(StreamChannelMask)
	return ChannelMask(v), err
}

// Timestamp returns the position of a recently presented frame and the time it was presented
// on clock. It fails with AAUDIO_ERROR_INVALID_STATE when the stream is not running.
func (s *Stream) Timestamp(clock ClockID) (framePosition int64, timeNanos int64, err error) {
	if err := s.check(); err != nil {
		return 0, 0, err
	}

	framePosition, timeNanos, r := s.lib.native.StreamGetTimestamp(s.handle, int32(clock))
	if err := checkResult(symStreamGetTimestamp, r); err != nil {
		return 0, 0, err
	}

	return framePosition, timeNanos, nil
}

// Channels returns the channel count negotiated at open.
func (s *Stream) Channels() int32 {
	return s.channels
}

// Rate returns the sample rate negotiated at open.
func (s *Stream) Rate() int32 {
	return s.sampleRate
}

// StreamFormat returns the sample format negotiated at open.
func (s *Stream) StreamFormat() Format {
	return s.format
}

// StreamDirection returns the direction negotiated at open.
func (s *Stream) StreamDirection() Direction {
	return s.direction
}

// FrameSize returns the size of a single frame in bytes.
func (s *Stream) FrameSize() int {
	return int(s.channels) * FormatBytesPerSample(s.format)
}

// FramesToBytes converts a number of frames to the corresponding number of bytes.
func (s *Stream) FramesToBytes(frames int) int {
	return frames * s.FrameSize()
}

// BytesToFrames converts a number of bytes to the corresponding number of whole frames.
func (s *Stream) BytesToFrames(bytes int) int {
	fs := s.FrameSize()
	if fs == 0 {
		return 0
	}

	return bytes / fs
}

// BurstTime returns the duration of one burst at the negotiated rate.
func (s *Stream) BurstTime() (time.Duration, error) {
	burst, err := s.FramesPerBurst()
	if err != nil || s.sampleRate == 0 {
		return 0, err
	}

	return time.Duration(int64(burst) * int64(time.Second) / int64(s.sampleRate)), nil
}

// FormatBytesPerSample returns the storage size of one sample, or 0 for formats without a fixed size.
func FormatBytesPerSample(f Format) int {
	switch f {
	case AAUDIO_FORMAT_PCM_I16, AAUDIO_FORMAT_IEC61937:
		return 2
	case AAUDIO_FORMAT_PCM_I24_PACKED:
		return 3
	case AAUDIO_FORMAT_PCM_FLOAT, AAUDIO_FORMAT_PCM_I32:
		return 4
	default:
		return 0
	}
}
