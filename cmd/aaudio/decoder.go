package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/gen2brain/aaudio"
)

// source is a decoded audio file the play command can feed into a stream.
type source interface {
	// PCMBuffer fills buf.Data with interleaved samples and returns how many were read.
	PCMBuffer(buf *audio.IntBuffer) (n int, err error)
	Duration() (time.Duration, error)
	NumChans() int
	SampleRate() int
	BitDepth() int
}

// openSource picks a decoder by file extension. Anything that is not .mp3 is read as WAV.
func openSource(path string) (source, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var src source
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		src, err = newMp3Source(f)
	default:
		src, err = newWavSource(f)
	}

	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return src, f, nil
}

type wavSource struct {
	*wav.Decoder
}

func newWavSource(r io.ReadSeeker) (source, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	return &wavSource{Decoder: d}, nil
}

func (w *wavSource) SampleRate() int { return int(w.Decoder.SampleRate) }
func (w *wavSource) NumChans() int   { return int(w.Decoder.NumChans) }
func (w *wavSource) BitDepth() int   { return int(w.Decoder.BitDepth) }

// mp3Source decodes to 16-bit stereo regardless of the file's layout.
type mp3Source struct {
	d       *mp3.Decoder
	scratch []byte
}

func newMp3Source(r io.Reader) (source, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	return &mp3Source{d: d}, nil
}

func (m *mp3Source) PCMBuffer(buf *audio.IntBuffer) (int, error) {
	need := len(buf.Data) * 2
	if cap(m.scratch) < need {
		m.scratch = make([]byte, need)
	}
	b := m.scratch[:need]

	read, err := io.ReadFull(m.d, b)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}

	n := read / 2
	for i := 0; i < n; i++ {
		buf.Data[i] = int(int16(binary.LittleEndian.Uint16(b[i*2:])))
	}

	if n > 0 && errors.Is(err, io.EOF) {
		err = nil
	}

	return n, err
}

func (m *mp3Source) Duration() (time.Duration, error) {
	frames := m.d.Length() / 4
	if frames <= 0 {
		return 0, errors.New("unknown length")
	}

	return time.Duration(frames) * time.Second / time.Duration(m.d.SampleRate()), nil
}

func (m *mp3Source) SampleRate() int { return m.d.SampleRate() }
func (m *mp3Source) NumChans() int   { return 2 }
func (m *mp3Source) BitDepth() int   { return 16 }

// streamFormat maps a --format value to an AAudio format. An empty value follows the source.
func streamFormat(name string, src source) (aaudio.Format, error) {
	switch strings.ToLower(name) {
	case "i16", "s16":
		return aaudio.AAUDIO_FORMAT_PCM_I16, nil
	case "i24", "s24":
		return aaudio.AAUDIO_FORMAT_PCM_I24_PACKED, nil
	case "i32", "s32":
		return aaudio.AAUDIO_FORMAT_PCM_I32, nil
	case "float":
		return aaudio.AAUDIO_FORMAT_PCM_FLOAT, nil
	case "":
	default:
		return aaudio.AAUDIO_FORMAT_INVALID, fmt.Errorf("unsupported format %q (use i16, i24, i32 or float)", name)
	}

	if src == nil {
		return aaudio.AAUDIO_FORMAT_PCM_I16, nil
	}

	switch src.BitDepth() {
	case 24:
		return aaudio.AAUDIO_FORMAT_PCM_I24_PACKED, nil
	case 32:
		return aaudio.AAUDIO_FORMAT_PCM_I32, nil
	default:
		return aaudio.AAUDIO_FORMAT_PCM_I16, nil
	}
}
