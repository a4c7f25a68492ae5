// Package aaudiotest provides an in-memory aaudio.Native for tests.
// It keeps builder and stream state in Go maps, walks streams through the AAudio state
// machine and lets tests invoke the installed callbacks directly.
package aaudiotest

import (
	"fmt"
	"math/bits"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/gen2brain/aaudio"
)

// Device defaults reported for parameters left unspecified on the builder.
const (
	DefaultSampleRate     = 48000
	DefaultChannelCount   = 2
	DefaultFramesPerBurst = 192
	DefaultCapacity       = 3840
	DefaultDeviceID       = 3
	firstSessionID        = 100
)

// Builder is the fake native state of one AAudioStreamBuilder.
type Builder struct {
	Ints    map[aaudio.BuilderParam]int32
	Bools   map[aaudio.BuilderParam]bool
	Strings map[aaudio.BuilderParam]string

	dataProc      aaudio.DataProc
	errorProc     aaudio.ErrorProc
	dataUserData  uintptr
	errorUserData uintptr

	Deleted int
}

// Stream is the fake native state of one AAudioStream.
type Stream struct {
	Handle uintptr

	ints  map[aaudio.StreamProperty]int32
	bools map[aaudio.StreamProperty]bool

	state   aaudio.StreamState
	pending aaudio.StreamState
	changed chan struct{}

	dataProc      aaudio.DataProc
	errorProc     aaudio.ErrorProc
	dataUserData  uintptr
	errorUserData uintptr

	framesWritten int64
	framesRead    int64

	// Written collects the bytes passed to AAudioStream_write.
	Written []byte
	// Input is consumed by AAudioStream_read.
	Input []byte

	Released int
	Closed   int
}

// Native implements aaudio.Native in memory. The zero value is not usable; call New.
type Native struct {
	mu sync.Mutex

	// CreateResult is returned by AAudio_createStreamBuilder.
	CreateResult int32
	// OpenResult, when non-zero, is returned by AAudioStreamBuilder_openStream instead of opening.
	OpenResult int32
	// CloseResult is returned by AAudioStream_close.
	CloseResult int32
	// Missing lists entry points to report as absent.
	Missing map[string]bool
	// ManualTransitions keeps streams in their -ing states until Complete is called.
	ManualTransitions bool

	next        uintptr
	nextSession int32
	builders    map[uintptr]*Builder
	streams     map[uintptr]*Stream
	calls       map[string]int
	closed      bool
}

// New returns an empty fake library.
func New() *Native {
	return &Native{
		Missing:     make(map[string]bool),
		next:        0x1000,
		nextSession: firstSessionID,
		builders:    make(map[uintptr]*Builder),
		streams:     make(map[uintptr]*Stream),
		calls:       make(map[string]int),
	}
}

// Remove makes the given entry points report as absent, like an older libaaudio.
func (n *Native) Remove(symbols ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, s := range symbols {
		n.Missing[s] = true
	}
}

// Calls returns how often the entry point was called.
func (n *Native) Calls(symbol string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.calls[symbol]
}

// Closed reports whether Close was called.
func (n *Native) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.closed
}

// Builder returns the fake state behind a builder handle.
func (n *Native) Builder(h uintptr) *Builder {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.builders[h]
}

// Stream returns the fake state behind a stream handle.
func (n *Native) Stream(h uintptr) *Stream {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.streams[h]
}

// Streams returns the number of streams opened so far.
func (n *Native) Streams() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.streams)
}

func (n *Native) record(symbol string) error {
	n.calls[symbol]++
	if n.Missing[symbol] {
		return fmt.Errorf("%s: %w", symbol, aaudio.ErrSymbolNotFound)
	}

	return nil
}

func (n *Native) handle() uintptr {
	n.next += 0x10
	return n.next
}

func (n *Native) CreateStreamBuilder() (uintptr, int32) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.record("AAudio_createStreamBuilder")
	if n.CreateResult != 0 {
		return 0, n.CreateResult
	}

	h := n.handle()
	n.builders[h] = &Builder{
		Ints:    make(map[aaudio.BuilderParam]int32),
		Bools:   make(map[aaudio.BuilderParam]bool),
		Strings: make(map[aaudio.BuilderParam]string),
	}

	return h, 0
}

func (n *Native) BuilderDelete(builder uintptr) int32 {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.record("AAudioStreamBuilder_delete")
	b, ok := n.builders[builder]
	if !ok {
		return int32(aaudio.AAUDIO_ERROR_INVALID_HANDLE)
	}

	b.Deleted++

	return 0
}

func (n *Native) BuilderSetInt(builder uintptr, p aaudio.BuilderParam, v int32) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.record(p.Symbol()); err != nil {
		return err
	}

	n.builders[builder].Ints[p] = v

	return nil
}

func (n *Native) BuilderSetBool(builder uintptr, p aaudio.BuilderParam, v bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.record(p.Symbol()); err != nil {
		return err
	}

	n.builders[builder].Bools[p] = v

	return nil
}

func (n *Native) BuilderSetString(builder uintptr, p aaudio.BuilderParam, v string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.record(p.Symbol()); err != nil {
		return err
	}

	n.builders[builder].Strings[p] = v

	return nil
}

func (n *Native) BuilderSetDataCallback(builder uintptr, proc aaudio.DataProc, userData uintptr) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.record("AAudioStreamBuilder_setDataCallback")
	b := n.builders[builder]
	b.dataProc, b.dataUserData = proc, userData
}

func (n *Native) BuilderSetErrorCallback(builder uintptr, proc aaudio.ErrorProc, userData uintptr) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.record("AAudioStreamBuilder_setErrorCallback")
	b := n.builders[builder]
	b.errorProc, b.errorUserData = proc, userData
}

func (b *Builder) intOr(p aaudio.BuilderParam, def int32) int32 {
	if v, ok := b.Ints[p]; ok && v != aaudio.AAUDIO_UNSPECIFIED {
		return v
	}

	return def
}

// intSet is intOr for params where zero is a real value, such as EXCLUSIVE or OUTPUT.
func (b *Builder) intSet(p aaudio.BuilderParam, def int32) int32 {
	if v, ok := b.Ints[p]; ok {
		return v
	}

	return def
}

func (n *Native) BuilderOpenStream(builder uintptr) (uintptr, int32) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.record("AAudioStreamBuilder_openStream")
	if n.OpenResult != 0 {
		return 0, n.OpenResult
	}

	b, ok := n.builders[builder]
	if !ok || b.Deleted > 0 {
		return 0, int32(aaudio.AAUDIO_ERROR_INVALID_HANDLE)
	}

	rate := b.intOr(aaudio.BuilderSampleRate, DefaultSampleRate)
	if rate < 8000 || rate > 768000 {
		return 0, int32(aaudio.AAUDIO_ERROR_INVALID_RATE)
	}

	format := aaudio.Format(b.intOr(aaudio.BuilderFormat, int32(aaudio.AAUDIO_FORMAT_PCM_I16)))
	if aaudio.FormatBytesPerSample(format) == 0 {
		return 0, int32(aaudio.AAUDIO_ERROR_INVALID_FORMAT)
	}

	channels := b.intOr(aaudio.BuilderChannelCount, b.intOr(aaudio.BuilderSamplesPerFrame, DefaultChannelCount))
	mask := b.intOr(aaudio.BuilderChannelMask, 0)
	if mask != 0 {
		if mask == int32(aaudio.AAUDIO_CHANNEL_INVALID) {
			return 0, int32(aaudio.AAUDIO_ERROR_ILLEGAL_ARGUMENT)
		}
		channels = int32(bits.OnesCount32(uint32(mask)))
	}

	session := b.intOr(aaudio.BuilderSessionID, int32(aaudio.AAUDIO_SESSION_ID_NONE))
	if v, ok := b.Ints[aaudio.BuilderSessionID]; ok && v == int32(aaudio.AAUDIO_SESSION_ID_ALLOCATE) {
		session = n.nextSession
		n.nextSession++
	}

	capacity := b.intOr(aaudio.BuilderBufferCapacityInFrames, DefaultCapacity)

	s := &Stream{
		Handle:  n.handle(),
		state:   aaudio.AAUDIO_STREAM_STATE_OPEN,
		changed: make(chan struct{}),
		ints: map[aaudio.StreamProperty]int32{
			aaudio.StreamSampleRate:             rate,
			aaudio.StreamHardwareSampleRate:     rate,
			aaudio.StreamChannelCount:           channels,
			aaudio.StreamSamplesPerFrame:        channels,
			aaudio.StreamHardwareChannelCount:   channels,
			aaudio.StreamFormat:                 int32(format),
			aaudio.StreamHardwareFormat:         int32(format),
			aaudio.StreamDirection:              b.intSet(aaudio.BuilderDirection, int32(aaudio.AAUDIO_DIRECTION_OUTPUT)),
			aaudio.StreamSharingMode:            b.intSet(aaudio.BuilderSharingMode, int32(aaudio.AAUDIO_SHARING_MODE_SHARED)),
			aaudio.StreamPerformanceMode:        b.intOr(aaudio.BuilderPerformanceMode, int32(aaudio.AAUDIO_PERFORMANCE_MODE_NONE)),
			aaudio.StreamDeviceID:               b.intOr(aaudio.BuilderDeviceID, DefaultDeviceID),
			aaudio.StreamBufferCapacityInFrames: capacity,
			aaudio.StreamBufferSizeInFrames:     capacity / 2,
			aaudio.StreamFramesPerBurst:         DefaultFramesPerBurst,
			aaudio.StreamFramesPerDataCallback:  b.intOr(aaudio.BuilderFramesPerDataCallback, 0),
			aaudio.StreamXRunCount:              0,
			aaudio.StreamSessionID:              session,
			aaudio.StreamUsage:                  b.intOr(aaudio.BuilderUsage, int32(aaudio.AAUDIO_USAGE_MEDIA)),
			aaudio.StreamContentType:            b.intOr(aaudio.BuilderContentType, int32(aaudio.AAUDIO_CONTENT_TYPE_MUSIC)),
			aaudio.StreamSpatializationBehavior: b.intOr(aaudio.BuilderSpatializationBehavior, int32(aaudio.AAUDIO_SPATIALIZATION_BEHAVIOR_AUTO)),
			aaudio.StreamInputPreset:            b.intOr(aaudio.BuilderInputPreset, int32(aaudio.AAUDIO_INPUT_PRESET_VOICE_RECOGNITION)),
			aaudio.StreamAllowedCapturePolicy:   b.intOr(aaudio.BuilderAllowedCapturePolicy, int32(aaudio.AAUDIO_ALLOW_CAPTURE_BY_ALL)),
			aaudio.StreamChannelMask:            mask,
		},
		bools: map[aaudio.StreamProperty]bool{
			aaudio.StreamIsContentSpatialized: b.Bools[aaudio.BuilderIsContentSpatialized],
			aaudio.StreamIsPrivacySensitive:   b.Bools[aaudio.BuilderPrivacySensitive],
		},
		dataProc:      b.dataProc,
		errorProc:     b.errorProc,
		dataUserData:  b.dataUserData,
		errorUserData: b.errorUserData,
	}
	n.streams[s.Handle] = s

	return s.Handle, 0
}

// setState moves s to st and wakes waiters. n.mu must be held.
func (s *Stream) setState(st aaudio.StreamState) {
	if s.state == st {
		return
	}

	s.state = st
	close(s.changed)
	s.changed = make(chan struct{})
}

// transition enters an -ing state that completes in terminal.
func (s *Stream) transition(ing, terminal aaudio.StreamState) {
	s.pending = terminal
	s.setState(ing)
}

// complete finishes a pending transition. n.mu must be held.
func (s *Stream) complete() bool {
	if s.pending == aaudio.AAUDIO_STREAM_STATE_UNINITIALIZED {
		return false
	}

	st := s.pending
	s.pending = aaudio.AAUDIO_STREAM_STATE_UNINITIALIZED
	s.setState(st)

	return true
}

func (s *Stream) direction() aaudio.Direction {
	return aaudio.Direction(s.ints[aaudio.StreamDirection])
}

func (s *Stream) frameBytes() int {
	return int(s.ints[aaudio.StreamChannelCount]) * aaudio.FormatBytesPerSample(aaudio.Format(s.ints[aaudio.StreamFormat]))
}

func (n *Native) stream(h uintptr) (*Stream, int32) {
	s, ok := n.streams[h]
	if !ok || s.Closed > 0 {
		return nil, int32(aaudio.AAUDIO_ERROR_INVALID_HANDLE)
	}

	return s, 0
}

func (n *Native) StreamControl(stream uintptr, op aaudio.StreamOp) (int32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.record(op.Symbol()); err != nil {
		return 0, err
	}

	s, r := n.stream(stream)
	if s == nil {
		return r, nil
	}

	switch op {
	case aaudio.StreamRequestStart:
		switch s.state {
		case aaudio.AAUDIO_STREAM_STATE_OPEN, aaudio.AAUDIO_STREAM_STATE_PAUSED,
			aaudio.AAUDIO_STREAM_STATE_FLUSHED, aaudio.AAUDIO_STREAM_STATE_STOPPED:
			s.transition(aaudio.AAUDIO_STREAM_STATE_STARTING, aaudio.AAUDIO_STREAM_STATE_STARTED)
		case aaudio.AAUDIO_STREAM_STATE_STARTING, aaudio.AAUDIO_STREAM_STATE_STARTED:
		default:
			return int32(aaudio.AAUDIO_ERROR_INVALID_STATE), nil
		}
	case aaudio.StreamRequestPause:
		if s.direction() == aaudio.AAUDIO_DIRECTION_INPUT {
			return int32(aaudio.AAUDIO_ERROR_UNIMPLEMENTED), nil
		}
		switch s.state {
		case aaudio.AAUDIO_STREAM_STATE_STARTING, aaudio.AAUDIO_STREAM_STATE_STARTED:
			s.transition(aaudio.AAUDIO_STREAM_STATE_PAUSING, aaudio.AAUDIO_STREAM_STATE_PAUSED)
		case aaudio.AAUDIO_STREAM_STATE_PAUSING, aaudio.AAUDIO_STREAM_STATE_PAUSED:
		default:
			return int32(aaudio.AAUDIO_ERROR_INVALID_STATE), nil
		}
	case aaudio.StreamRequestFlush:
		if s.direction() == aaudio.AAUDIO_DIRECTION_INPUT {
			return int32(aaudio.AAUDIO_ERROR_UNIMPLEMENTED), nil
		}
		switch s.state {
		case aaudio.AAUDIO_STREAM_STATE_OPEN, aaudio.AAUDIO_STREAM_STATE_PAUSED,
			aaudio.AAUDIO_STREAM_STATE_STOPPED, aaudio.AAUDIO_STREAM_STATE_FLUSHED:
			s.Written = nil
			s.transition(aaudio.AAUDIO_STREAM_STATE_FLUSHING, aaudio.AAUDIO_STREAM_STATE_FLUSHED)
		default:
			return int32(aaudio.AAUDIO_ERROR_INVALID_STATE), nil
		}
	case aaudio.StreamRequestStop:
		switch s.state {
		case aaudio.AAUDIO_STREAM_STATE_DISCONNECTED, aaudio.AAUDIO_STREAM_STATE_CLOSING:
			return int32(aaudio.AAUDIO_ERROR_INVALID_STATE), nil
		case aaudio.AAUDIO_STREAM_STATE_STOPPING, aaudio.AAUDIO_STREAM_STATE_STOPPED:
		default:
			s.transition(aaudio.AAUDIO_STREAM_STATE_STOPPING, aaudio.AAUDIO_STREAM_STATE_STOPPED)
		}
	case aaudio.StreamRelease:
		s.Released++
		s.pending = aaudio.AAUDIO_STREAM_STATE_UNINITIALIZED
		s.setState(aaudio.AAUDIO_STREAM_STATE_CLOSING)
	case aaudio.StreamClose:
		s.Closed++
		s.pending = aaudio.AAUDIO_STREAM_STATE_UNINITIALIZED
		s.setState(aaudio.AAUDIO_STREAM_STATE_CLOSED)

		return n.CloseResult, nil
	}

	// The real service completes transitions on its own thread. Here they
	// complete when someone waits for them, or on Complete.
	return 0, nil
}

// Complete finishes the pending transition of a stream, e.g. STARTING to STARTED.
func (n *Native) Complete(h uintptr) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, ok := n.streams[h]
	if !ok {
		return false
	}

	return s.complete()
}

// SetState forces a stream into st, e.g. to simulate a disconnect.
func (n *Native) SetState(h uintptr, st aaudio.StreamState) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if s, ok := n.streams[h]; ok {
		s.pending = aaudio.AAUDIO_STREAM_STATE_UNINITIALIZED
		s.setState(st)
	}
}

// SetInt overrides a property reported for a stream.
func (n *Native) SetInt(h uintptr, p aaudio.StreamProperty, v int32) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if s, ok := n.streams[h]; ok {
		s.ints[p] = v
	}
}

func (n *Native) StreamGetInt(stream uintptr, p aaudio.StreamProperty) (int32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.record(p.Symbol()); err != nil {
		return 0, err
	}

	s, r := n.stream(stream)
	if s == nil {
		return r, nil
	}

	if p == aaudio.StreamCurrentState {
		return int32(s.state), nil
	}

	return s.ints[p], nil
}

func (n *Native) StreamGetInt64(stream uintptr, p aaudio.StreamProperty) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.record(p.Symbol()); err != nil {
		return 0, err
	}

	s, r := n.stream(stream)
	if s == nil {
		return int64(r), nil
	}

	switch p {
	case aaudio.StreamFramesWritten:
		return s.framesWritten, nil
	case aaudio.StreamFramesRead:
		return s.framesRead, nil
	}

	return int64(s.ints[p]), nil
}

func (n *Native) StreamGetBool(stream uintptr, p aaudio.StreamProperty) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.record(p.Symbol()); err != nil {
		return false, err
	}

	s, _ := n.stream(stream)
	if s == nil {
		return false, nil
	}

	return s.bools[p], nil
}

func (n *Native) StreamSetBufferSize(stream uintptr, frames int32) int32 {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.record("AAudioStream_setBufferSizeInFrames")
	s, r := n.stream(stream)
	if s == nil {
		return r
	}

	if frames < 0 {
		return int32(aaudio.AAUDIO_ERROR_ILLEGAL_ARGUMENT)
	}

	// Round up to whole bursts and clamp to the capacity.
	burst := s.ints[aaudio.StreamFramesPerBurst]
	frames = max((frames+burst-1)/burst*burst, burst)
	frames = min(frames, s.ints[aaudio.StreamBufferCapacityInFrames])
	s.ints[aaudio.StreamBufferSizeInFrames] = frames

	return frames
}

func (n *Native) StreamWaitForStateChange(stream uintptr, input int32, timeoutNanos int64) (int32, int32) {
	deadline := time.Now().Add(time.Duration(timeoutNanos))

	n.mu.Lock()
	_ = n.record("AAudioStream_waitForStateChange")
	n.mu.Unlock()

	for {
		n.mu.Lock()
		s, r := n.stream(stream)
		if s == nil {
			n.mu.Unlock()
			return int32(aaudio.AAUDIO_STREAM_STATE_CLOSED), r
		}

		if int32(s.state) == input && !n.ManualTransitions {
			s.complete()
		}

		st, changed := s.state, s.changed
		n.mu.Unlock()

		if int32(st) != input {
			return int32(st), 0
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return int32(st), int32(aaudio.AAUDIO_ERROR_TIMEOUT)
		}

		timer := time.NewTimer(remaining)
		select {
		case <-changed:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (n *Native) StreamWrite(stream uintptr, buf unsafe.Pointer, frames int32, _ int64) int32 {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.record("AAudioStream_write")
	s, r := n.stream(stream)
	if s == nil {
		return r
	}

	if frames < 0 || buf == nil {
		return int32(aaudio.AAUDIO_ERROR_ILLEGAL_ARGUMENT)
	}

	s.Written = append(s.Written, unsafe.Slice((*byte)(buf), int(frames)*s.frameBytes())...)
	s.framesWritten += int64(frames)

	return frames
}

func (n *Native) StreamRead(stream uintptr, buf unsafe.Pointer, frames int32, _ int64) int32 {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.record("AAudioStream_read")
	s, r := n.stream(stream)
	if s == nil {
		return r
	}

	if frames < 0 || buf == nil {
		return int32(aaudio.AAUDIO_ERROR_ILLEGAL_ARGUMENT)
	}

	fb := s.frameBytes()
	avail := min(int(frames), len(s.Input)/fb)
	copy(unsafe.Slice((*byte)(buf), avail*fb), s.Input)
	s.Input = s.Input[avail*fb:]
	s.framesRead += int64(avail)

	return int32(avail)
}

func (n *Native) StreamGetTimestamp(stream uintptr, clock int32) (int64, int64, int32) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_ = n.record("AAudioStream_getTimestamp")
	s, r := n.stream(stream)
	if s == nil {
		return 0, 0, r
	}

	if s.state != aaudio.AAUDIO_STREAM_STATE_STARTED {
		return 0, 0, int32(aaudio.AAUDIO_ERROR_INVALID_STATE)
	}

	var ts unix.Timespec
	if err := unix.ClockGettime(clock, &ts); err != nil {
		return 0, 0, int32(aaudio.AAUDIO_ERROR_ILLEGAL_ARGUMENT)
	}

	pos := s.framesWritten
	if s.direction() == aaudio.AAUDIO_DIRECTION_INPUT {
		pos = s.framesRead
	}

	return pos, ts.Nano(), 0
}

func (n *Native) ResultToText(code int32) string {
	return "AAUDIO_" + aaudio.Result(code).String()
}

func (n *Native) StateToText(state int32) string {
	return "AAUDIO_STREAM_STATE_" + aaudio.StreamState(state).String()
}

func (n *Native) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true

	return nil
}

// FireData invokes the stream's data callback with buf as the native audio buffer, the
// way the audio service does from its real-time thread. buf may be longer than the
// callback is expected to touch.
func (n *Native) FireData(h uintptr, buf []byte, numFrames int32) int32 {
	n.mu.Lock()
	s, ok := n.streams[h]
	n.mu.Unlock()

	if !ok || s.dataProc == nil {
		return int32(aaudio.AAUDIO_CALLBACK_RESULT_STOP)
	}

	var p unsafe.Pointer
	if len(buf) > 0 {
		p = unsafe.Pointer(&buf[0])
	}

	r := s.dataProc(h, s.dataUserData, p, numFrames)

	if r == int32(aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE) {
		n.mu.Lock()
		if s.direction() == aaudio.AAUDIO_DIRECTION_INPUT {
			s.framesRead += int64(numFrames)
		} else {
			s.framesWritten += int64(numFrames)
		}
		n.mu.Unlock()
	}

	return r
}

// FireError invokes the stream's error callback. A disconnect also moves the stream to DISCONNECTED.
func (n *Native) FireError(h uintptr, code int32) {
	n.mu.Lock()
	s, ok := n.streams[h]
	if ok && code == int32(aaudio.AAUDIO_ERROR_DISCONNECTED) {
		s.pending = aaudio.AAUDIO_STREAM_STATE_UNINITIALIZED
		s.setState(aaudio.AAUDIO_STREAM_STATE_DISCONNECTED)
	}
	n.mu.Unlock()

	if !ok || s.errorProc == nil {
		return
	}

	s.errorProc(h, s.errorUserData, code)
}

// HasDataCallback reports whether the stream was opened with a data callback.
func (n *Native) HasDataCallback(h uintptr) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, ok := n.streams[h]

	return ok && s.dataProc != nil
}

var _ aaudio.Native = (*Native)(nil)
