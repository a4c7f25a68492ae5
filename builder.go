package aaudio

import (
	"errors"
	"fmt"
)

// StreamBuilder configures and opens a Stream. The requested parameters live in the
// native builder; nothing is validated until OpenStream.
//
// Setters return the builder so calls can be chained. The first failure of a setter
// (closed or already opened builder, entry point missing from the device's libaaudio)
// is kept and returned by OpenStream or Err.
type StreamBuilder struct {
	lib      *Library
	handle   uintptr
	arena    *arena
	reg      *registration
	userData uintptr
	err      error
	opened   bool
	closed   bool
}

// NewStreamBuilder creates a native stream builder with every parameter at its default.
func (l *Library) NewStreamBuilder() (*StreamBuilder, error) {
	if l.closed.Load() {
		return nil, ErrLibraryClosed
	}

	h, r := l.native.CreateStreamBuilder()
	if err := checkResult(symCreateStreamBuilder, r); err != nil {
		return nil, err
	}

	return &StreamBuilder{
		lib:    l,
		handle: h,
		arena:  newArena(l.callbacks),
		reg:    &registration{},
	}, nil
}

// Handle returns the native AAudioStreamBuilder pointer.
func (b *StreamBuilder) Handle() uintptr {
	return b.handle
}

// Err returns the first error recorded by a setter.
func (b *StreamBuilder) Err() error {
	return b.err
}

func (b *StreamBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// usable reports whether the builder may still be configured. Once a stream is
// open its registration belongs to the stream.
func (b *StreamBuilder) usable() bool {
	switch {
	case b.closed:
		b.fail(ErrBuilderClosed)
		return false
	case b.opened:
		b.fail(ErrBuilderOpened)
		return false
	}

	return true
}

func (b *StreamBuilder) setInt(p BuilderParam, v int32) *StreamBuilder {
	if b.usable() {
		if err := b.lib.native.BuilderSetInt(b.handle, p, v); err != nil {
			b.fail(err)
		}
	}

	return b
}

func (b *StreamBuilder) setBool(p BuilderParam, v bool) *StreamBuilder {
	if b.usable() {
		if err := b.lib.native.BuilderSetBool(b.handle, p, v); err != nil {
			b.fail(err)
		}
	}

	return b
}

func (b *StreamBuilder) setString(p BuilderParam, v string) *StreamBuilder {
	if b.usable() {
		if err := b.lib.native.BuilderSetString(b.handle, p, v); err != nil {
			b.fail(err)
		}
	}

	return b
}

// DeviceID requests a specific audio device. AAUDIO_UNSPECIFIED selects the default device.
func (b *StreamBuilder) DeviceID(id int32) *StreamBuilder {
	return b.setInt(BuilderDeviceID, id)
}

// PackageName declares the package of the calling application. Requires API level 31.
func (b *StreamBuilder) PackageName(name string) *StreamBuilder {
	return b.setString(BuilderPackageName, name)
}

// AttributionTag sets the attribution tag used for permission checks. Requires API level 31.
func (b *StreamBuilder) AttributionTag(tag string) *StreamBuilder {
	return b.setString(BuilderAttributionTag, tag)
}

func (b *StreamBuilder) SampleRate(rate int32) *StreamBuilder {
	return b.setInt(BuilderSampleRate, rate)
}

func (b *StreamBuilder) ChannelCount(channels int32) *StreamBuilder {
	return b.setInt(BuilderChannelCount, channels)
}

// SamplesPerFrame is the legacy name of ChannelCount.
func (b *StreamBuilder) SamplesPerFrame(n int32) *StreamBuilder {
	return b.setInt(BuilderSamplesPerFrame, n)
}

func (b *StreamBuilder) Format(f Format) *StreamBuilder {
	return b.setInt(BuilderFormat, int32(f))
}

func (b *StreamBuilder) SharingMode(m SharingMode) *StreamBuilder {
	return b.setInt(BuilderSharingMode, int32(m))
}

func (b *StreamBuilder) Direction(d Direction) *StreamBuilder {
	return b.setInt(BuilderDirection, int32(d))
}

func (b *StreamBuilder) BufferCapacityInFrames(frames int32) *StreamBuilder {
	return b.setInt(BuilderBufferCapacityInFrames, frames)
}

func (b *StreamBuilder) PerformanceMode(m PerformanceMode) *StreamBuilder {
	return b.setInt(BuilderPerformanceMode, int32(m))
}

// Usage requires API level 28.
func (b *StreamBuilder) Usage(u Usage) *StreamBuilder {
	return b.setInt(BuilderUsage, int32(u))
}

// ContentType requires API level 28.
func (b *StreamBuilder) ContentType(c ContentType) *StreamBuilder {
	return b.setInt(BuilderContentType, int32(c))
}

// SpatializationBehavior requires API level 32.
func (b *StreamBuilder) SpatializationBehavior(sb SpatializationBehavior) *StreamBuilder {
	return b.setInt(BuilderSpatializationBehavior, int32(sb))
}

// IsContentSpatialized declares that the content is already spatialized. Requires API level 32.
func (b *StreamBuilder) IsContentSpatialized(v bool) *StreamBuilder {
	return b.setBool(BuilderIsContentSpatialized, v)
}

// InputPreset requires API level 28.
func (b *StreamBuilder) InputPreset(p InputPreset) *StreamBuilder {
	return b.setInt(BuilderInputPreset, int32(p))
}

// AllowedCapturePolicy requires API level 29.
func (b *StreamBuilder) AllowedCapturePolicy(p AllowedCapturePolicy) *StreamBuilder {
	return b.setInt(BuilderAllowedCapturePolicy, int32(p))
}

// SessionID requests a session. Pass AAUDIO_SESSION_ID_ALLOCATE to have one allocated. Requires API level 28.
func (b *StreamBuilder) SessionID(id SessionID) *StreamBuilder {
	return b.setInt(BuilderSessionID, int32(id))
}

// PrivacySensitive marks captured audio as privacy sensitive. Requires API level 30.
func (b *StreamBuilder) PrivacySensitive(v bool) *StreamBuilder {
	return b.setBool(BuilderPrivacySensitive, v)
}

func (b *StreamBuilder) FramesPerDataCallback(frames int32) *StreamBuilder {
	return b.setInt(BuilderFramesPerDataCallback, frames)
}

// ChannelMask requests a channel layout instead of a channel count. Requires API level 32.
func (b *StreamBuilder) ChannelMask(m ChannelMask) *StreamBuilder {
	return b.setInt(BuilderChannelMask, int32(m))
}

func (b *StreamBuilder) ensureRegistered() {
	if b.userData == 0 {
		b.userData = b.arena.register(b.reg)
	}
}

// DataCallback installs cb as the stream's data callback. A nil cb removes it
// and the stream then uses blocking Read or Write.
func (b *StreamBuilder) DataCallback(cb DataCallback) *StreamBuilder {
	if !b.usable() {
		return b
	}

	b.reg.data = cb
	if cb == nil {
		b.lib.native.BuilderSetDataCallback(b.handle, nil, 0)
		return b
	}

	b.ensureRegistered()
	b.lib.native.BuilderSetDataCallback(b.handle, b.lib.dispatchData, b.userData)

	return b
}

// ErrorCallback installs cb as the stream's error callback. A nil cb removes it.
func (b *StreamBuilder) ErrorCallback(cb ErrorCallback) *StreamBuilder {
	if !b.usable() {
		return b
	}

	b.reg.err = cb
	if cb == nil {
		b.lib.native.BuilderSetErrorCallback(b.handle, nil, 0)
		return b
	}

	b.ensureRegistered()
	b.lib.native.BuilderSetErrorCallback(b.handle, b.lib.dispatchError, b.userData)

	return b
}

// OpenStream opens a stream with the accumulated parameters. A builder opens at most
// one stream; a failed open may be retried after adjusting parameters.
func (b *StreamBuilder) OpenStream() (*Stream, error) {
	switch {
	case b.closed:
		return nil, ErrBuilderClosed
	case b.opened:
		return nil, ErrBuilderOpened
	case b.err != nil:
		return nil, fmt.Errorf("configure stream failed: %w", b.err)
	case b.lib.closed.Load():
		return nil, ErrLibraryClosed
	}

	h, r := b.lib.native.BuilderOpenStream(b.handle)
	if err := checkResult(symBuilderOpenStream, r); err != nil {
		b.lib.log.Debug("open stream failed", "code", Normalize(r), "raw", r)
		return nil, err
	}

	b.opened = true
	s := newStream(b.lib, h, b.arena, b.reg)
	b.arena = nil

	if err := s.updateFrameBytes(); err != nil {
		return nil, errors.Join(err, s.Close())
	}

	b.reg.stream.Store(s)

	b.lib.log.Debug("stream opened",
		"direction", s.direction, "format", s.format, "channels", s.channels, "rate", s.sampleRate)

	return s, nil
}

// Close deletes the native builder. A stream opened from it stays valid.
func (b *StreamBuilder) Close() error {
	if b == nil || b.closed {
		return nil
	}

	b.closed = true
	if b.arena != nil {
		defer b.arena.close()
	}

	return checkResult(symBuilderDelete, b.lib.native.BuilderDelete(b.handle))
}

// Config is a plain description of the stream parameters most applications set.
// Zero fields keep the builder defaults.
type Config struct {
	DeviceID               int32
	SampleRate             int32
	ChannelCount           int32
	ChannelMask            ChannelMask
	Format                 Format
	Direction              Direction
	Exclusive              bool
	PerformanceMode        PerformanceMode
	Usage                  Usage
	ContentType            ContentType
	InputPreset            InputPreset
	BufferCapacityInFrames int32
	FramesPerDataCallback  int32
}

// Apply forwards every non-zero field of cfg to the builder.
// Exclusive requests AAUDIO_SHARING_MODE_EXCLUSIVE; otherwise the sharing mode is left shared.
func (b *StreamBuilder) Apply(cfg Config) *StreamBuilder {
	if cfg.Direction != AAUDIO_DIRECTION_OUTPUT {
		b.Direction(cfg.Direction)
	}
	if cfg.Exclusive {
		b.SharingMode(AAUDIO_SHARING_MODE_EXCLUSIVE)
	}
	if cfg.DeviceID != AAUDIO_UNSPECIFIED {
		b.DeviceID(cfg.DeviceID)
	}
	if cfg.SampleRate != AAUDIO_UNSPECIFIED {
		b.SampleRate(cfg.SampleRate)
	}
	if cfg.ChannelCount != AAUDIO_UNSPECIFIED {
		b.ChannelCount(cfg.ChannelCount)
	}
	if cfg.ChannelMask != AAUDIO_UNSPECIFIED {
		b.ChannelMask(cfg.ChannelMask)
	}
	if cfg.Format != AAUDIO_FORMAT_UNSPECIFIED {
		b.Format(cfg.Format)
	}
	if cfg.PerformanceMode != 0 {
		b.PerformanceMode(cfg.PerformanceMode)
	}
	if cfg.Usage != 0 {
		b.Usage(cfg.Usage)
	}
	if cfg.ContentType != 0 {
		b.ContentType(cfg.ContentType)
	}
	if cfg.InputPreset != 0 {
		b.InputPreset(cfg.InputPreset)
	}
	if cfg.BufferCapacityInFrames != AAUDIO_UNSPECIFIED {
		b.BufferCapacityInFrames(cfg.BufferCapacityInFrames)
	}
	if cfg.FramesPerDataCallback != AAUDIO_UNSPECIFIED {
		b.FramesPerDataCallback(cfg.FramesPerDataCallback)
	}

	return b
}

// OpenStream builds and opens a stream from cfg in one call. The builder is deleted
// before returning. Either callback may be nil.
func (l *Library) OpenStream(cfg Config, data DataCallback, onError ErrorCallback) (*Stream, error) {
	b, err := l.NewStreamBuilder()
	if err != nil {
		return nil, err
	}

	b.Apply(cfg)
	if data != nil {
		b.DataCallback(data)
	}
	if onError != nil {
		b.ErrorCallback(onError)
	}

	s, err := b.OpenStream()
	cerr := b.Close()

	switch {
	case err != nil && cerr != nil:
		return nil, errors.Join(err, cerr)
	case err != nil:
		return nil, err
	case cerr != nil:
		return nil, errors.Join(cerr, s.Close())
	}

	return s, nil
}
