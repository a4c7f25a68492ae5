package aaudio

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"time"
	"unsafe"
)

// Write writes interleaved frames to an output stream that has no data callback.
// data must be a []byte, or a numeric slice whose element size matches the stream format
// ([]int16 for PCM_I16, []float32 for PCM_FLOAT, []int32 for PCM_I32).
// It blocks for up to timeout and returns the number of frames actually written;
// a zero timeout writes only what fits without blocking.
func (s *Stream) Write(data any, timeout time.Duration) (int, error) {
	if s.direction != AAUDIO_DIRECTION_OUTPUT {
		return 0, fmt.Errorf("cannot write to an input stream")
	}

	ptr, frames, err := s.checkFrames(data)
	if err != nil {
		return 0, fmt.Errorf("invalid data for Write: %w", err)
	}

	if err := s.check(); err != nil {
		return 0, err
	}

	defer runtime.KeepAlive(data)

	n := s.lib.native.StreamWrite(s.handle, ptr, frames, max(timeout, 0).Nanoseconds())
	written, err := checkCount(symStreamWrite, n)

	return int(written), err
}

// Read reads interleaved frames from an input stream that has no data callback.
// data follows the same rules as for Write. It blocks for up to timeout and returns
// the number of frames actually read.
func (s *Stream) Read(data any, timeout time.Duration) (int, error) {
	if s.direction != AAUDIO_DIRECTION_INPUT {
		return 0, fmt.Errorf("cannot read from an output stream")
	}

	ptr, frames, err := s.checkFrames(data)
	if err != nil {
		return 0, fmt.Errorf("invalid data for Read: %w", err)
	}

	if err := s.check(); err != nil {
		return 0, err
	}

	defer runtime.KeepAlive(data)

	n := s.lib.native.StreamRead(s.handle, ptr, frames, max(timeout, 0).Nanoseconds())
	read, err := checkCount(symStreamRead, n)

	return int(read), err
}

// checkFrames validates data against the stream's frame layout and returns a pointer
// to its first element together with the number of whole frames it holds.
func (s *Stream) checkFrames(data any) (unsafe.Pointer, int32, error) {
	ptr, byteLen, elemSize, err := checkSliceAndGetData(data)
	if err != nil {
		return nil, 0, err
	}

	sampleSize := FormatBytesPerSample(s.format)
	if elemSize != 1 && elemSize != sampleSize {
		return nil, 0, fmt.Errorf("%T does not match stream format %s", data, s.format)
	}

	frameSize := s.FrameSize()
	if frameSize == 0 {
		return nil, 0, fmt.Errorf("stream format %s has no fixed frame size", s.format)
	}

	frames := byteLen / frameSize
	if frames == 0 {
		return nil, 0, fmt.Errorf("data buffer too small: needs %d bytes, got %d", frameSize, byteLen)
	}

	return ptr, int32(frames), nil
}

// checkSlice validates that the input is a slice of a supported numeric type.
// It returns the total length of the slice data in bytes and the element size.
func checkSlice(data any) (byteLen, elemSize int, err error) {
	if data == nil {
		return 0, 0, errors.New("data cannot be nil")
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice {
		return 0, 0, fmt.Errorf("expected a slice, got %T", data)
	}

	switch rv.Type().Elem().Kind() {
	case reflect.Int8, reflect.Uint8,
		reflect.Int16, reflect.Uint16,
		reflect.Int32, reflect.Uint32,
		reflect.Float32:
	default:
		return 0, 0, fmt.Errorf("unsupported slice element type: %s", rv.Type().Elem().Kind())
	}

	elemSize = int(rv.Type().Elem().Size())

	return rv.Len() * elemSize, elemSize, nil
}

func checkSliceAndGetData(data any) (ptr unsafe.Pointer, byteLen, elemSize int, err error) {
	byteLen, elemSize, err = checkSlice(data)
	if err != nil {
		return nil, 0, 0, err
	}

	if byteLen > 0 {
		ptr = unsafe.Pointer(reflect.ValueOf(data).Index(0).Addr().Pointer())
	}

	return ptr, byteLen, elemSize, nil
}
