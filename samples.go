package aaudio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// formatBitDepth returns the integer depth used when converting to or from f.
// PCM_FLOAT is treated as 32-bit on the integer side.
func formatBitDepth(f Format) int {
	switch f {
	case AAUDIO_FORMAT_PCM_I16:
		return 16
	case AAUDIO_FORMAT_PCM_I24_PACKED:
		return 24
	case AAUDIO_FORMAT_PCM_I32, AAUDIO_FORMAT_PCM_FLOAT:
		return 32
	default:
		return 0
	}
}

func rescale(v, from, to int) int {
	switch {
	case from == to || from == 0:
		return v
	case to > from:
		return v << (to - from)
	default:
		return v >> (from - to)
	}
}

func clampInt(v, depth int) int {
	hi := 1<<(depth-1) - 1
	lo := -(1 << (depth - 1))

	return min(max(v, lo), hi)
}

func floatToInt(v float32, depth int) int {
	if v != v {
		return 0
	}

	v = min(max(v, -1), 1)

	return int(math.Round(float64(v) * float64(int64(1)<<(depth-1)-1)))
}

func putSample(dst []byte, f Format, v int) {
	switch f {
	case AAUDIO_FORMAT_PCM_I16:
		binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
	case AAUDIO_FORMAT_PCM_I24_PACKED:
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
		dst[2] = byte(v >> 16)
	case AAUDIO_FORMAT_PCM_I32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(v)))
	}
}

func sample(src []byte, f Format) int {
	switch f {
	case AAUDIO_FORMAT_PCM_I16:
		return int(int16(binary.LittleEndian.Uint16(src)))
	case AAUDIO_FORMAT_PCM_I24_PACKED:
		v := int32(src[0]) | int32(src[1])<<8 | int32(src[2])<<16

		return int(v<<8) >> 8
	case AAUDIO_FORMAT_PCM_I32:
		return int(int32(binary.LittleEndian.Uint32(src)))
	default:
		return 0
	}
}

// EncodeSamples converts buf into little endian samples of format f in dst and returns the
// number of bytes written. Integer buffers are rescaled from their SourceBitDepth
// (16 when unset); float buffers are expected in [-1, 1].
// Only whole samples that fit in dst are converted.
func EncodeSamples(dst []byte, buf audio.Buffer, f Format) (int, error) {
	size := FormatBytesPerSample(f)
	depth := formatBitDepth(f)
	if size == 0 || depth == 0 {
		return 0, fmt.Errorf("cannot encode samples as %s", f)
	}

	if ib, ok := buf.(*audio.IntBuffer); ok {
		from := ib.SourceBitDepth
		if from == 0 {
			from = 16
		}

		n := min(len(ib.Data), len(dst)/size)
		for i := 0; i < n; i++ {
			out := dst[i*size:]
			if f == AAUDIO_FORMAT_PCM_FLOAT {
				v := float32(ib.Data[i]) / float32(int64(1)<<(from-1))
				binary.LittleEndian.PutUint32(out, math.Float32bits(v))
				continue
			}

			putSample(out, f, clampInt(rescale(ib.Data[i], from, depth), depth))
		}

		return n * size, nil
	}

	fb := buf.AsFloat32Buffer()
	n := min(len(fb.Data), len(dst)/size)
	for i := 0; i < n; i++ {
		out := dst[i*size:]
		if f == AAUDIO_FORMAT_PCM_FLOAT {
			binary.LittleEndian.PutUint32(out, math.Float32bits(fb.Data[i]))
			continue
		}

		putSample(out, f, floatToInt(fb.Data[i], depth))
	}

	return n * size, nil
}

// DecodeSamples converts captured bytes of format f into an integer buffer.
// PCM_FLOAT samples are scaled to 32-bit integers.
func DecodeSamples(src []byte, f Format, channels, sampleRate int) (*audio.IntBuffer, error) {
	size := FormatBytesPerSample(f)
	depth := formatBitDepth(f)
	if size == 0 || depth == 0 {
		return nil, fmt.Errorf("cannot decode samples from %s", f)
	}

	data := make([]int, len(src)/size)
	for i := range data {
		in := src[i*size:]
		if f == AAUDIO_FORMAT_PCM_FLOAT {
			data[i] = floatToInt(math.Float32frombits(binary.LittleEndian.Uint32(in)), depth)
			continue
		}

		data[i] = sample(in, f)
	}

	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: depth,
	}, nil
}
