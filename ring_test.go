package aaudio_test

import (
	"bytes"
	"testing"

	"github.com/smallnest/ringbuffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gen2brain/aaudio"
)

func TestRingOutput(t *testing.T) {
	rb := ringbuffer.New(64)
	out := aaudio.NewRingOutput(rb)

	n, err := rb.Write(bytes.Repeat([]byte{7}, 24))
	require.NoError(t, err)
	require.Equal(t, 24, n)

	buf := bytes.Repeat([]byte{0xAA}, 16)
	assert.Equal(t, aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE, out.Callback(nil, buf, 4))
	assert.Equal(t, bytes.Repeat([]byte{7}, 16), buf)

	buf = bytes.Repeat([]byte{0xAA}, 16)
	assert.Equal(t, aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE, out.Callback(nil, buf, 4))
	assert.Equal(t, append(bytes.Repeat([]byte{7}, 8), make([]byte, 8)...), buf)

	assert.Equal(t, int64(24), out.Played())
	assert.Equal(t, int64(8), out.Underrun())
}

func TestRingOutputStopWhenDrained(t *testing.T) {
	rb := ringbuffer.New(64)
	out := aaudio.NewRingOutput(rb)

	_, err := rb.Write(make([]byte, 24))
	require.NoError(t, err)
	out.StopWhenDrained()

	assert.Equal(t, aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE, out.Callback(nil, make([]byte, 16), 4))
	assert.Equal(t, aaudio.AAUDIO_CALLBACK_RESULT_STOP, out.Callback(nil, make([]byte, 16), 4))
}

func TestRingInput(t *testing.T) {
	rb := ringbuffer.New(32)
	in := aaudio.NewRingInput(rb)

	assert.Equal(t, aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE, in.Callback(nil, bytes.Repeat([]byte{1}, 24), 6))
	assert.Equal(t, aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE, in.Callback(nil, bytes.Repeat([]byte{2}, 24), 6))

	assert.Equal(t, int64(32), in.Captured())
	assert.Equal(t, int64(16), in.Overrun())

	got := make([]byte, 32)
	n, err := rb.Read(got)
	require.NoError(t, err)
	assert.Equal(t, 32, n)
	assert.Equal(t, append(bytes.Repeat([]byte{1}, 24), bytes.Repeat([]byte{2}, 8)...), got)
}

func TestRingThroughStream(t *testing.T) {
	lib, fake := newLibrary(t)

	rb := ringbuffer.New(1024)
	out := aaudio.NewRingOutput(rb)
	s := openStream(t, lib, func(b *aaudio.StreamBuilder) {
		b.ChannelCount(1).Format(aaudio.AAUDIO_FORMAT_PCM_I16).DataCallback(out.Callback)
	})

	_, err := rb.Write(bytes.Repeat([]byte{3}, 100))
	require.NoError(t, err)

	buf := make([]byte, 2*64)
	require.Equal(t, int32(aaudio.AAUDIO_CALLBACK_RESULT_CONTINUE), fake.FireData(s.Handle(), buf, 64))
	assert.Equal(t, int64(100), out.Played())
	assert.Equal(t, int64(28), out.Underrun())
}
