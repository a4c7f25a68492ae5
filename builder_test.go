package aaudio_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gen2brain/aaudio"
)

func TestBuilderOpenFailureCarriesCode(t *testing.T) {
	codes := []int32{
		int32(aaudio.AAUDIO_ERROR_DISCONNECTED),
		int32(aaudio.AAUDIO_ERROR_ILLEGAL_ARGUMENT),
		int32(aaudio.AAUDIO_ERROR_UNAVAILABLE),
		int32(aaudio.AAUDIO_ERROR_NO_SERVICE),
		-1234,
	}

	for _, code := range codes {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			lib, fake := newLibrary(t)
			fake.OpenResult = code

			b, err := lib.NewStreamBuilder()
			require.NoError(t, err)
			defer b.Close()

			s, err := b.OpenStream()
			require.Error(t, err)
			assert.Nil(t, s)

			var ae *aaudio.Error
			require.True(t, errors.As(err, &ae), "error should be an *aaudio.Error, got %T", err)
			assert.Equal(t, code, ae.Raw)
			assert.Equal(t, aaudio.Normalize(code), ae.Code)
			assert.ErrorIs(t, err, aaudio.Normalize(code))
			assert.Equal(t, 0, fake.Streams())
		})
	}
}

func TestBuilderOpenSuccess(t *testing.T) {
	lib, fake := newLibrary(t)

	s := openStream(t, lib, nil)
	require.True(t, s.IsOpen())
	require.NotZero(t, s.Handle())
	require.NotNil(t, fake.Stream(s.Handle()))

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_STREAM_STATE_OPEN, state)
	assert.Equal(t, int32(2), s.Channels())
	assert.Equal(t, int32(48000), s.Rate())
	assert.Equal(t, aaudio.AAUDIO_FORMAT_PCM_I16, s.StreamFormat())
	assert.Equal(t, aaudio.AAUDIO_DIRECTION_OUTPUT, s.StreamDirection())
}

func TestBuilderSettersForward(t *testing.T) {
	lib, fake := newLibrary(t)

	b, err := lib.NewStreamBuilder()
	require.NoError(t, err)
	defer b.Close()

	b.DeviceID(7).
		PackageName("com.example.player").
		AttributionTag("playback").
		SampleRate(44100).
		ChannelCount(1).
		SamplesPerFrame(1).
		Format(aaudio.AAUDIO_FORMAT_PCM_FLOAT).
		SharingMode(aaudio.AAUDIO_SHARING_MODE_EXCLUSIVE).
		Direction(aaudio.AAUDIO_DIRECTION_OUTPUT).
		BufferCapacityInFrames(2048).
		PerformanceMode(aaudio.AAUDIO_PERFORMANCE_MODE_LOW_LATENCY).
		Usage(aaudio.AAUDIO_USAGE_GAME).
		ContentType(aaudio.AAUDIO_CONTENT_TYPE_SONIFICATION).
		SpatializationBehavior(aaudio.AAUDIO_SPATIALIZATION_BEHAVIOR_NEVER).
		IsContentSpatialized(true).
		InputPreset(aaudio.AAUDIO_INPUT_PRESET_UNPROCESSED).
		AllowedCapturePolicy(aaudio.AAUDIO_ALLOW_CAPTURE_BY_NONE).
		SessionID(aaudio.AAUDIO_SESSION_ID_ALLOCATE).
		PrivacySensitive(true).
		FramesPerDataCallback(96)
	require.NoError(t, b.Err())

	nb := fake.Builder(b.Handle())
	require.NotNil(t, nb)

	assert.Equal(t, int32(7), nb.Ints[aaudio.BuilderDeviceID])
	assert.Equal(t, "com.example.player", nb.Strings[aaudio.BuilderPackageName])
	assert.Equal(t, "playback", nb.Strings[aaudio.BuilderAttributionTag])
	assert.Equal(t, int32(44100), nb.Ints[aaudio.BuilderSampleRate])
	assert.Equal(t, int32(1), nb.Ints[aaudio.BuilderChannelCount])
	assert.Equal(t, int32(aaudio.AAUDIO_FORMAT_PCM_FLOAT), nb.Ints[aaudio.BuilderFormat])
	assert.Equal(t, int32(aaudio.AAUDIO_SHARING_MODE_EXCLUSIVE), nb.Ints[aaudio.BuilderSharingMode])
	assert.Equal(t, int32(2048), nb.Ints[aaudio.BuilderBufferCapacityInFrames])
	assert.Equal(t, int32(aaudio.AAUDIO_PERFORMANCE_MODE_LOW_LATENCY), nb.Ints[aaudio.BuilderPerformanceMode])
	assert.Equal(t, int32(aaudio.AAUDIO_USAGE_GAME), nb.Ints[aaudio.BuilderUsage])
	assert.Equal(t, int32(aaudio.AAUDIO_CONTENT_TYPE_SONIFICATION), nb.Ints[aaudio.BuilderContentType])
	assert.Equal(t, int32(aaudio.AAUDIO_SPATIALIZATION_BEHAVIOR_NEVER), nb.Ints[aaudio.BuilderSpatializationBehavior])
	assert.True(t, nb.Bools[aaudio.BuilderIsContentSpatialized])
	assert.Equal(t, int32(aaudio.AAUDIO_INPUT_PRESET_UNPROCESSED), nb.Ints[aaudio.BuilderInputPreset])
	assert.Equal(t, int32(aaudio.AAUDIO_ALLOW_CAPTURE_BY_NONE), nb.Ints[aaudio.BuilderAllowedCapturePolicy])
	assert.True(t, nb.Bools[aaudio.BuilderPrivacySensitive])
	assert.Equal(t, int32(96), nb.Ints[aaudio.BuilderFramesPerDataCallback])

	s, err := b.OpenStream()
	require.NoError(t, err)
	defer s.Close()

	session, err := s.SessionID()
	require.NoError(t, err)
	assert.Greater(t, int32(session), int32(0), "ALLOCATE should yield a positive session id")

	spatialized, err := s.IsContentSpatialized()
	require.NoError(t, err)
	assert.True(t, spatialized)

	policy, err := s.AllowedCapturePolicy()
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_ALLOW_CAPTURE_BY_NONE, policy)
}

func TestBuilderChannelMask(t *testing.T) {
	lib, _ := newLibrary(t)

	s := openStream(t, lib, func(b *aaudio.StreamBuilder) {
		b.ChannelMask(aaudio.AAUDIO_CHANNEL_5POINT1)
	})

	mask, err := s.ChannelMask()
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_CHANNEL_5POINT1, mask)
	assert.Equal(t, int32(6), s.Channels())
	assert.Equal(t, 12, s.FrameSize())
}

func TestBuilderOpensOnce(t *testing.T) {
	lib, _ := newLibrary(t)

	b, err := lib.NewStreamBuilder()
	require.NoError(t, err)
	defer b.Close()

	s, err := b.OpenStream()
	require.NoError(t, err)
	defer s.Close()

	_, err = b.OpenStream()
	require.ErrorIs(t, err, aaudio.ErrBuilderOpened)
}

func TestBuilderRetryAfterFailedOpen(t *testing.T) {
	lib, _ := newLibrary(t)

	b, err := lib.NewStreamBuilder()
	require.NoError(t, err)
	defer b.Close()

	_, err = b.SampleRate(1).OpenStream()
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_INVALID_RATE)

	s, err := b.SampleRate(22050).OpenStream()
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, int32(22050), s.Rate())
}

func TestBuilderInvalidFormatAtOpen(t *testing.T) {
	lib, _ := newLibrary(t)

	b, err := lib.NewStreamBuilder()
	require.NoError(t, err)
	defer b.Close()

	// No client-side validation: the setter succeeds and open reports the problem.
	b.Format(aaudio.Format(99))
	require.NoError(t, b.Err())

	_, err = b.OpenStream()
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_INVALID_FORMAT)
}

func TestBuilderClose(t *testing.T) {
	lib, fake := newLibrary(t)

	b, err := lib.NewStreamBuilder()
	require.NoError(t, err)
	h := b.Handle()

	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "second Close should be a no-op")
	assert.Equal(t, 1, fake.Builder(h).Deleted)

	b.SampleRate(44100)
	assert.ErrorIs(t, b.Err(), aaudio.ErrBuilderClosed)

	_, err = b.OpenStream()
	assert.ErrorIs(t, err, aaudio.ErrBuilderClosed)
	assert.Equal(t, 0, fake.Calls("AAudioStreamBuilder_setSampleRate"))
}

func TestBuilderCreateFailure(t *testing.T) {
	lib, fake := newLibrary(t)
	fake.CreateResult = int32(aaudio.AAUDIO_ERROR_NO_MEMORY)

	_, err := lib.NewStreamBuilder()
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_NO_MEMORY)
}

func TestBuilderMissingSymbol(t *testing.T) {
	lib, fake := newLibrary(t)
	fake.Remove("AAudioStreamBuilder_setPackageName", "AAudioStreamBuilder_setChannelMask")

	b, err := lib.NewStreamBuilder()
	require.NoError(t, err)
	defer b.Close()

	b.SampleRate(44100).PackageName("com.example").ChannelMask(aaudio.AAUDIO_CHANNEL_STEREO)

	err = b.Err()
	require.ErrorIs(t, err, aaudio.ErrSymbolNotFound)
	assert.ErrorIs(t, err, aaudio.AAUDIO_ERROR_UNIMPLEMENTED)
	assert.Contains(t, err.Error(), "setPackageName", "the first failure is kept")

	_, err = b.OpenStream()
	require.ErrorIs(t, err, aaudio.ErrSymbolNotFound)
	assert.Equal(t, 0, fake.Calls("AAudioStreamBuilder_openStream"))
}

func TestBuilderCloseKeepsStream(t *testing.T) {
	lib, fake := newLibrary(t)

	var calls int
	b, err := lib.NewStreamBuilder()
	require.NoError(t, err)

	b.DataCallback(func(_ *aaudio.Stream, audioData []byte, _ int32) aaudio.CallbackResult {
		calls++
		return aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE
	})

	s, err := b.OpenStream()
	require.NoError(t, err)
	require.NoError(t, b.Close())
	defer s.Close()

	buf := make([]byte, 64)
	assert.Equal(t, int32(aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE), fake.FireData(s.Handle(), buf, 16))
	assert.Equal(t, 1, calls)
}

func TestBuilderCloseReleasesUnusedCallbacks(t *testing.T) {
	lib, fake := newLibrary(t)

	b, err := lib.NewStreamBuilder()
	require.NoError(t, err)
	b.ErrorCallback(func(*aaudio.Stream, error) {})
	require.NoError(t, b.Close())

	// Opening after close is refused, and nothing is left registered for the fake to reach.
	_, err = b.OpenStream()
	require.ErrorIs(t, err, aaudio.ErrBuilderClosed)
	assert.Equal(t, 0, fake.Streams())
}

func TestLibraryOpenStreamConfig(t *testing.T) {
	lib, fake := newLibrary(t)

	cfg := aaudio.Config{
		SampleRate:      16000,
		ChannelCount:    1,
		Format:          aaudio.AAUDIO_FORMAT_PCM_I24_PACKED,
		Direction:       aaudio.AAUDIO_DIRECTION_INPUT,
		Exclusive:       true,
		PerformanceMode: aaudio.AAUDIO_PERFORMANCE_MODE_POWER_SAVING,
		InputPreset:     aaudio.AAUDIO_INPUT_PRESET_CAMCORDER,
	}

	s, err := lib.OpenStream(cfg, nil, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, int32(16000), s.Rate())
	assert.Equal(t, int32(1), s.Channels())
	assert.Equal(t, aaudio.AAUDIO_DIRECTION_INPUT, s.StreamDirection())
	assert.Equal(t, 3, s.FrameSize())
	assert.False(t, fake.HasDataCallback(s.Handle()))
	assert.Equal(t, 0, fake.Calls("AAudioStreamBuilder_setUsage"), "zero fields are not forwarded")

	preset, err := s.InputPreset()
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_INPUT_PRESET_CAMCORDER, preset)

	mode, err := s.PerformanceMode()
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_PERFORMANCE_MODE_POWER_SAVING, mode)
}

func TestLibraryOpenStreamFailure(t *testing.T) {
	lib, fake := newLibrary(t)
	fake.OpenResult = int32(aaudio.AAUDIO_ERROR_NO_FREE_HANDLES)

	s, err := lib.OpenStream(aaudio.Config{}, nil, nil)
	require.ErrorIs(t, err, aaudio.AAUDIO_ERROR_NO_FREE_HANDLES)
	assert.Nil(t, s)
	assert.Equal(t, 1, fake.Calls("AAudioStreamBuilder_delete"), "the builder is deleted even when open fails")
}

func TestBuilderSettersAfterOpen(t *testing.T) {
	t.Run("NoCallbacks", func(t *testing.T) {
		lib, fake := newLibrary(t)

		b, err := lib.NewStreamBuilder()
		require.NoError(t, err)
		defer b.Close()

		s, err := b.OpenStream()
		require.NoError(t, err)
		defer s.Close()

		require.NotPanics(t, func() {
			b.DataCallback(func(*aaudio.Stream, []byte, int32) aaudio.CallbackResult {
				return aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE
			})
			b.ErrorCallback(func(*aaudio.Stream, error) {})
			b.SampleRate(44100)
		})

		assert.ErrorIs(t, b.Err(), aaudio.ErrBuilderOpened)
		assert.Equal(t, 0, fake.Calls("AAudioStreamBuilder_setDataCallback"))
		assert.Equal(t, 0, fake.Calls("AAudioStreamBuilder_setErrorCallback"))
		assert.Equal(t, 0, fake.Calls("AAudioStreamBuilder_setSampleRate"))
		assert.False(t, fake.HasDataCallback(s.Handle()))
	})

	t.Run("LiveCallbackKept", func(t *testing.T) {
		lib, fake := newLibrary(t)

		b, err := lib.NewStreamBuilder()
		require.NoError(t, err)
		defer b.Close()

		var first, second int
		b.DataCallback(func(*aaudio.Stream, []byte, int32) aaudio.CallbackResult {
			first++
			return aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE
		})

		s, err := b.OpenStream()
		require.NoError(t, err)
		defer s.Close()

		b.DataCallback(func(*aaudio.Stream, []byte, int32) aaudio.CallbackResult {
			second++
			return aaudio.AAUDIO_CALLBACK_RESULT_STOP
		})
		assert.ErrorIs(t, b.Err(), aaudio.ErrBuilderOpened)

		r := fake.FireData(s.Handle(), make([]byte, 64), 4)
		assert.Equal(t, int32(aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE), r)
		assert.Equal(t, 1, first)
		assert.Equal(t, 0, second)
	})
}

func TestZeroConfigKeepsDefaults(t *testing.T) {
	lib, fake := newLibrary(t)

	s, err := lib.OpenStream(aaudio.Config{}, nil, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 0, fake.Calls("AAudioStreamBuilder_setSharingMode"))
	assert.Equal(t, 0, fake.Calls("AAudioStreamBuilder_setDirection"))
	assert.Equal(t, 0, fake.Calls("AAudioStreamBuilder_setFormat"))

	mode, err := s.SharingMode()
	require.NoError(t, err)
	assert.Equal(t, aaudio.AAUDIO_SHARING_MODE_SHARED, mode)
	assert.Equal(t, aaudio.AAUDIO_DIRECTION_OUTPUT, s.StreamDirection())
}

func TestExclusiveSharingMode(t *testing.T) {
	t.Run("Builder", func(t *testing.T) {
		lib, _ := newLibrary(t)

		s := openStream(t, lib, func(b *aaudio.StreamBuilder) {
			b.SharingMode(aaudio.AAUDIO_SHARING_MODE_EXCLUSIVE)
		})

		mode, err := s.SharingMode()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_SHARING_MODE_EXCLUSIVE, mode)
	})

	t.Run("Config", func(t *testing.T) {
		lib, fake := newLibrary(t)

		s, err := lib.OpenStream(aaudio.Config{Exclusive: true}, nil, nil)
		require.NoError(t, err)
		defer s.Close()

		assert.Equal(t, 1, fake.Calls("AAudioStreamBuilder_setSharingMode"))

		mode, err := s.SharingMode()
		require.NoError(t, err)
		assert.Equal(t, aaudio.AAUDIO_SHARING_MODE_EXCLUSIVE, mode)
	})
}
