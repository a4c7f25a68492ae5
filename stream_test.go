package aaudio_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gen2brain/aaudio"
	"github.com/gen2brain/aaudio/internal/aaudiotest"
)

func TestStreamClose(t *testing.T) {
	lib, fake := newLibrary(t)

	s := openStream(t, lib, nil)
	h := s.Handle()

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second Close should be a no-op")
	assert.False(t, s.IsOpen())

	ns := fake.Stream(h)
	assert.Equal(t, 1, ns.Released, "Close should release once")
	assert.Equal(t, 1, ns.Closed, "Close should close once")
}

func TestStreamCloseAfterRelease(t *testing.T) {
	lib, fake := newLibrary(t)

	s := openStream(t, lib, nil)
	require.NoError(t, s.Release())

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_STREAM_STATE_CLOSING, state)

	require.NoError(t, s.Close())
	assert.Equal(t, 1, fake.Stream(s.Handle()).Released)
}

func TestStreamCloseWithoutRelease(t *testing.T) {
	lib, fake := newLibrary(t)
	fake.Remove("AAudioStream_release")

	s := openStream(t, lib, nil)

	err := s.Release()
	require.ErrorIs(t, err, aaudio.ErrSymbolNotFound)

	require.NoError(t, s.Close(), "a library without release should still close cleanly")
	ns := fake.Stream(s.Handle())
	assert.Equal(t, 0, ns.Released)
	assert.Equal(t, 1, ns.Closed)
}

func TestStreamCloseError(t *testing.T) {
	lib, fake := newLibrary(t)
	fake.CloseResult = int32(aaudio.AAUDIO_ERROR_INTERNAL)

	var calls int
	s := openStream(t, lib, func(b *aaudio.StreamBuilder) {
		b.DataCallback(func(*aaudio.Stream, []byte, int32) aaudio.CallbackResult {
			calls++
			return aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE
		})
	})

	err := s.Close()
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_INTERNAL)
	assert.False(t, s.IsOpen())

	// The callback registration is gone even though close failed.
	r := fake.FireData(s.Handle(), make([]byte, 64), 16)
	assert.Equal(t, int32(aaudio.AAUDIO_CALLBACK_RESULT_STOP), r)
	assert.Equal(t, 0, calls)
}

func TestStreamClosedOperations(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, nil)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.RequestStart(), aaudio.ErrStreamClosed)
	assert.ErrorIs(t, s.RequestStop(), aaudio.ErrStreamClosed)

	state, err := s.State()
	assert.ErrorIs(t, err, aaudio.ErrStreamClosed)
	assert.Equal(t, aaudio.AAUDIO_STREAM_STATE_CLOSED, state)

	_, err = s.FramesPerBurst()
	assert.ErrorIs(t, err, aaudio.ErrStreamClosed)

	_, err = s.WaitForStateChange(aaudio.AAUDIO_STREAM_STATE_OPEN, time.Second)
	assert.ErrorIs(t, err, aaudio.ErrStreamClosed)

	_, err = s.Write(make([]int16, 8), 0)
	assert.ErrorIs(t, err, aaudio.ErrStreamClosed)
}

func TestStreamStart(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, nil)
	require.NoError(t, s.RequestStart())

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_STREAM_STATE_STARTING, state)

	next, err := s.WaitForStateChange(aaudio.AAUDIO_STREAM_STATE_STARTING, time.Second)
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_STREAM_STATE_STARTED, next)

	require.NoError(t, s.RequestPause())
	require.NoError(t, s.AwaitState(context.Background(), aaudio.AAUDIO_STREAM_STATE_PAUSED))

	require.NoError(t, s.RequestFlush())
	require.NoError(t, s.AwaitState(context.Background(), aaudio.AAUDIO_STREAM_STATE_FLUSHED))

	require.NoError(t, s.RequestStop())
	require.NoError(t, s.AwaitState(context.Background(), aaudio.AAUDIO_STREAM_STATE_STOPPED))
}

func TestStreamWaitZeroTimeout(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, nil)

	start := time.Now()
	state, err := s.WaitForStateChange(aaudio.AAUDIO_STREAM_STATE_OPEN, 0)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_TIMEOUT)
	assert.Equal(t, aaudio.AAUDIO_STREAM_STATE_OPEN, state)

	_, err = s.WaitForStateChange(aaudio.AAUDIO_STREAM_STATE_OPEN, -time.Second)
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_TIMEOUT)
}

func TestStreamAwaitState(t *testing.T) {
	lib, fake := newLibrary(t)
	fake.ManualTransitions = true

	s := openStream(t, lib, nil)
	require.NoError(t, s.RequestStart())

	var (
		wg       sync.WaitGroup
		awaitErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		awaitErr = s.AwaitState(context.Background(), aaudio.AAUDIO_STREAM_STATE_STARTED)
	}()

	time.Sleep(150 * time.Millisecond)
	require.True(t, fake.Complete(s.Handle()))

	wg.Wait()
	require.NoError(t, awaitErr)

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_STREAM_STATE_STARTED, state)
}

func TestStreamAwaitStateContext(t *testing.T) {
	lib, fake := newLibrary(t)
	fake.ManualTransitions = true

	s := openStream(t, lib, nil)
	require.NoError(t, s.RequestStart())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := s.AwaitState(ctx, aaudio.AAUDIO_STREAM_STATE_STARTED)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "STARTING")
}

func TestStreamAwaitStateDisconnected(t *testing.T) {
	lib, fake := newLibrary(t)
	fake.ManualTransitions = true

	s := openStream(t, lib, nil)
	require.NoError(t, s.RequestStart())
	fake.SetState(s.Handle(), aaudio.AAUDIO_STREAM_STATE_DISCONNECTED)

	err := s.AwaitState(context.Background(), aaudio.AAUDIO_STREAM_STATE_STARTED)
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_INVALID_STATE)
}

func TestStreamInputControl(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, func(b *aaudio.StreamBuilder) {
		b.Direction(aaudio.AAUDIO_DIRECTION_INPUT)
	})
	require.NoError(t, s.RequestStart())
	require.NoError(t, s.AwaitState(context.Background(), aaudio.AAUDIO_STREAM_STATE_STARTED))

	err := s.RequestPause()
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_UNIMPLEMENTED)

	err = s.RequestFlush()
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_UNIMPLEMENTED)

	require.NoError(t, s.RequestStop())
}

func TestStreamInvalidTransition(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, nil)

	err := s.RequestPause()
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_INVALID_STATE)
	assert.Contains(t, err.Error(), "AAudioStream_requestPause")
}

func TestStreamQueries(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, nil)

	counts := []struct {
		name string
		get  func() (int32, error)
		want int32
	}{
		{"BufferSizeInFrames", s.BufferSizeInFrames, aaudiotest.DefaultCapacity / 2},
		{"FramesPerBurst", s.FramesPerBurst, aaudiotest.DefaultFramesPerBurst},
		{"BufferCapacityInFrames", s.BufferCapacityInFrames, aaudiotest.DefaultCapacity},
		{"FramesPerDataCallback", s.FramesPerDataCallback, aaudio.AAUDIO_UNSPECIFIED},
		{"XRunCount", s.XRunCount, 0},
		{"SampleRate", s.SampleRate, aaudiotest.DefaultSampleRate},
		{"HardwareSampleRate", s.HardwareSampleRate, aaudiotest.DefaultSampleRate},
		{"ChannelCount", s.ChannelCount, aaudiotest.DefaultChannelCount},
		{"HardwareChannelCount", s.HardwareChannelCount, aaudiotest.DefaultChannelCount},
		{"SamplesPerFrame", s.SamplesPerFrame, aaudiotest.DefaultChannelCount},
		{"DeviceID", s.DeviceID, aaudiotest.DefaultDeviceID},
	}

	for _, tc := range counts {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.get()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("Enums", func(t *testing.T) {
		format, err := s.Format()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_FORMAT_PCM_I16, format)

		hwFormat, err := s.HardwareFormat()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_FORMAT_PCM_I16, hwFormat)

		mode, err := s.SharingMode()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_SHARING_MODE_SHARED, mode)

		perf, err := s.PerformanceMode()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_PERFORMANCE_MODE_NONE, perf)

		dir, err := s.Direction()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_DIRECTION_OUTPUT, dir)

		session, err := s.SessionID()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_SESSION_ID_NONE, session)

		usage, err := s.Usage()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_USAGE_MEDIA, usage)

		content, err := s.ContentType()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_CONTENT_TYPE_MUSIC, content)

		spatial, err := s.SpatializationBehavior()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_SPATIALIZATION_BEHAVIOR_AUTO, spatial)

		preset, err := s.InputPreset()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_INPUT_PRESET_VOICE_RECOGNITION, preset)

		policy, err := s.AllowedCapturePolicy()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_ALLOW_CAPTURE_BY_ALL, policy)

		private, err := s.IsPrivacySensitive()
		require.NoError(t, err)
		assert.False(t, private)
	})

	t.Run("MissingGetter", func(t *testing.T) {
		lib, fake := newLibrary(t)
		fake.Remove("AAudioStream_getHardwareSampleRate")

		s := openStream(t, lib, nil)
		_, err := s.HardwareSampleRate()
		require.ErrorIs(t, err, aaudio.ErrSymbolNotFound)
		assert.ErrorIs(t, err, aaudio.AAUDIO_ERROR_UNIMPLEMENTED)
	})

	t.Run("NegativeCount", func(t *testing.T) {
		lib, fake := newLibrary(t)

		s := openStream(t, lib, nil)
		fake.SetInt(s.Handle(), aaudio.StreamXRunCount, int32(aaudio.AAUDIO_ERROR_INVALID_STATE))

		_, err := s.XRunCount()
		require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_INVALID_STATE)
	})
}

func TestStreamBufferSize(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, nil)

	got, err := s.SetBufferSizeInFrames(500)
	require.NoError(t, err)
	assert.Equal(t, int32(576), got, "size should round up to whole bursts")

	size, err := s.BufferSizeInFrames()
	require.NoError(t, err)
	assert.Equal(t, got, size)

	got, err = s.SetBufferSizeInFrames(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, int32(aaudiotest.DefaultCapacity), got, "size should clamp to capacity")

	_, err = s.SetBufferSizeInFrames(-1)
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_ILLEGAL_ARGUMENT)
}

func TestStreamTimestamp(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, nil)

	_, _, err := s.Timestamp(aaudio.CLOCK_MONOTONIC)
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_INVALID_STATE)

	require.NoError(t, s.RequestStart())
	require.NoError(t, s.AwaitState(context.Background(), aaudio.AAUDIO_STREAM_STATE_STARTED))

	n, err := s.Write(make([]int16, 2*64), time.Second)
	require.NoError(t, err)
	require.Equal(t, 64, n)

	pos, nanos, err := s.Timestamp(aaudio.CLOCK_MONOTONIC)
	require.NoError(t, err)
	assert.Equal(t, int64(64), pos)
	assert.Positive(t, nanos)
}

func TestStreamWrite(t *testing.T) {
	lib, fake := newLibrary(t)

	s := openStream(t, lib, nil)

	n, err := s.Write([]int16{1, 2, 3, 4, 5}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "a trailing partial frame is not written")
	assert.Equal(t, []byte{1, 0, 2, 0, 3, 0, 4, 0}, fake.Stream(s.Handle()).Written)

	n, err = s.Write([]byte{9, 0, 9, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	written, err := s.FramesWritten()
	require.NoError(t, err)
	assert.Equal(t, int64(3), written)

	_, err = s.Write([]float32{0.5, 0.5}, 0)
	assert.Error(t, err, "float32 samples do not match PCM_I16")

	_, err = s.Write([]byte{1, 2}, 0)
	assert.Error(t, err, "less than one frame")

	_, err = s.Write("not a slice", 0)
	assert.Error(t, err)

	_, err = s.Read(make([]int16, 4), 0)
	assert.Error(t, err, "output streams cannot be read")
}

func TestStreamRead(t *testing.T) {
	lib, fake := newLibrary(t)

	s := openStream(t, lib, func(b *aaudio.StreamBuilder) {
		b.Direction(aaudio.AAUDIO_DIRECTION_INPUT).ChannelCount(1).Format(aaudio.AAUDIO_FORMAT_PCM_FLOAT)
	})

	fake.Stream(s.Handle()).Input = make([]byte, 4*3)

	buf := make([]float32, 8)
	n, err := s.Read(buf, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	read, err := s.FramesRead()
	require.NoError(t, err)
	assert.Equal(t, int64(3), read)

	_, err = s.Write(buf, 0)
	assert.Error(t, err, "input streams cannot be written")

	_, err = s.Read(make([]int16, 8), 0)
	assert.Error(t, err, "int16 samples do not match PCM_FLOAT")
}

func TestStreamFrameHelpers(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, func(b *aaudio.StreamBuilder) {
		b.ChannelCount(2).Format(aaudio.AAUDIO_FORMAT_PCM_FLOAT)
	})

	assert.Equal(t, 8, s.FrameSize())
	assert.Equal(t, 80, s.FramesToBytes(10))
	assert.Equal(t, 10, s.BytesToFrames(87))

	burst, err := s.BurstTime()
	require.NoError(t, err)
	assert.Equal(t, 4*time.Millisecond, burst)

	tests := []struct {
		format aaudio.Format
		want   int
	}{
		{aaudio.AAUDIO_FORMAT_PCM_I16, 2},
		{aaudio.AAUDIO_FORMAT_PCM_I24_PACKED, 3},
		{aaudio.AAUDIO_FORMAT_PCM_I32, 4},
		{aaudio.AAUDIO_FORMAT_PCM_FLOAT, 4},
		{aaudio.AAUDIO_FORMAT_IEC61937, 2},
		{aaudio.AAUDIO_FORMAT_UNSPECIFIED, 0},
		{aaudio.AAUDIO_FORMAT_INVALID, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, aaudio.FormatBytesPerSample(tc.format), tc.format.String())
	}
}

func TestStreamLibraryClosed(t *testing.T) {
	fake := aaudiotest.New()
	lib := aaudio.NewLibrary(fake, aaudio.WithLogger(quietLogger()))

	b, err := lib.NewStreamBuilder()
	require.NoError(t, err)
	s, err := b.OpenStream()
	require.NoError(t, err)
	require.NoError(t, b.Close())

	require.NoError(t, lib.Close())

	assert.ErrorIs(t, s.RequestStart(), aaudio.ErrLibraryClosed)
	assert.ErrorIs(t, s.Close(), aaudio.ErrLibraryClosed)
	assert.Equal(t, 0, fake.Stream(s.Handle()).Closed, "an unloaded library is not called")
}
