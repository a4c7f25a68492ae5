package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-audio/audio"
	"github.com/smallnest/ringbuffer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/gen2brain/aaudio"
)

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Play a WAV or MP3 file",
	Long: `Play a WAV or MP3 file through an AAudio output stream.

By default a data callback pulls audio from a ring buffer that a decoder
goroutine keeps filled. With --blocking the file is written with AAudioStream_write.

Examples:
  aaudio play music.mp3
  aaudio play --sharing exclusive --format float music.wav
  aaudio play --blocking --ring 500ms voice.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Duration("ring", 250*time.Millisecond, "Audio buffered ahead of the device")
	playCmd.Flags().Bool("blocking", false, "Use blocking writes instead of a data callback")
	playCmd.Flags().String("usage", "media", "Stream usage, e.g. media, game, assistant")
}

func runPlay(cmd *cobra.Command, args []string) error {
	src, closer, err := openSource(args[0])
	if err != nil {
		return err
	}
	defer closer.Close()

	format, err := streamFormat(viper.GetString("format"), src)
	if err != nil {
		return err
	}

	usage, err := parseEnum("usage", viper.GetString("usage"), aaudio.UsageNames)
	if err != nil {
		return err
	}

	cfg, err := streamConfig(aaudio.AAUDIO_DIRECTION_OUTPUT)
	if err != nil {
		return err
	}
	cfg.Format = format
	cfg.Usage = usage
	cfg.ContentType = aaudio.AAUDIO_CONTENT_TYPE_MUSIC
	if cfg.SampleRate == aaudio.AAUDIO_UNSPECIFIED {
		cfg.SampleRate = int32(src.SampleRate())
	}
	if cfg.ChannelCount == aaudio.AAUDIO_UNSPECIFIED {
		cfg.ChannelCount = int32(src.NumChans())
	}

	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	if d, err := src.Duration(); err == nil {
		logger.Info("playing", "file", args[0], "duration", d.Round(time.Millisecond))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := &player{src: src, cfg: cfg, errs: make(chan error, 1)}
	if viper.GetBool("blocking") {
		err = p.playBlocking(ctx, lib)
	} else {
		err = p.playCallback(ctx, lib, viper.GetDuration("ring"))
	}

	if errors.Is(err, context.Canceled) {
		logger.Info("playback interrupted")
		return nil
	}

	return err
}

type player struct {
	src  source
	cfg  aaudio.Config
	errs chan error
}

// onError runs on an AAudio thread; the stream is torn down by the main goroutine.
func (p *player) onError(_ *aaudio.Stream, err error) {
	select {
	case p.errs <- err:
	default:
	}
}

func (p *player) open(lib *aaudio.Library, data aaudio.DataCallback) (*aaudio.Stream, error) {
	s, err := lib.OpenStream(p.cfg, data, p.onError)
	if err != nil {
		return nil, err
	}

	if s.Rate() != int32(p.src.SampleRate()) || s.Channels() != int32(p.src.NumChans()) {
		s.Close()
		return nil, fmt.Errorf("device opened %d Hz x %d channels, file is %d Hz x %d channels (resampling is not supported)",
			s.Rate(), s.Channels(), p.src.SampleRate(), p.src.NumChans())
	}

	burst, _ := s.FramesPerBurst()
	logger.Info("stream opened",
		"rate", s.Rate(), "channels", s.Channels(), "format", s.StreamFormat(), "burst", burst)

	return s, nil
}

// decode reads the next chunk of the file as bytes in the stream format. It returns io.EOF at the end.
func (p *player) decode(s *aaudio.Stream, buf *audio.IntBuffer, out []byte) ([]byte, error) {
	n, err := p.src.PCMBuffer(buf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}

		return nil, err
	}

	chunk := &audio.IntBuffer{Format: buf.Format, Data: buf.Data[:n], SourceBitDepth: p.src.BitDepth()}
	written, err := aaudio.EncodeSamples(out, chunk, s.StreamFormat())
	if err != nil {
		return nil, err
	}

	return out[:written-written%s.FrameSize()], nil
}

func (p *player) buffers(s *aaudio.Stream, frames int) (*audio.IntBuffer, []byte) {
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: p.src.NumChans(), SampleRate: p.src.SampleRate()},
		Data:   make([]int, frames*p.src.NumChans()),
	}

	return buf, make([]byte, s.FramesToBytes(frames))
}

func (p *player) playCallback(ctx context.Context, lib *aaudio.Library, ahead time.Duration) error {
	// The ring is created before the stream so its size can only be estimated
	// from the requested layout; the 4 bytes per sample cover every PCM format.
	size := max(int(ahead.Seconds()*float64(p.cfg.SampleRate))*int(p.cfg.ChannelCount)*4, 4096)
	rb := ringbuffer.New(size)
	out := aaudio.NewRingOutput(rb)

	s, err := p.open(lib, out.Callback)
	if err != nil {
		return err
	}
	defer s.Close()

	burst, err := s.BurstTime()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	decoded := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(decoded)
		defer out.StopWhenDrained()

		buf, raw := p.buffers(s, 1024)
		for {
			chunk, err := p.decode(s, buf, raw)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			for len(chunk) > 0 {
				n, _ := rb.TryWrite(chunk)
				chunk = chunk[n:]
				if len(chunk) == 0 {
					break
				}

				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-time.After(burst):
				}
			}
		}
	})

	// Let the producer get ahead before the device starts pulling.
prefill:
	for rb.Length() < rb.Capacity()/2 {
		select {
		case <-gctx.Done():
			return g.Wait()
		case <-decoded:
			break prefill
		case <-time.After(time.Millisecond):
		}
	}

	if err := p.start(ctx, s); err != nil {
		cancel()
		return errors.Join(err, g.Wait())
	}

	start := time.Now()
	g.Go(func() error {
		return p.waitStopped(gctx, s)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	written, _ := s.FramesWritten()
	xruns, _ := s.XRunCount()
	logger.Info("playback finished",
		"elapsed", time.Since(start).Round(time.Millisecond), "frames", written,
		"xruns", xruns, "silence_bytes", out.Underrun())

	return nil
}

// waitStopped returns once the data callback has stopped the stream or the device failed.
func (p *player) waitStopped(ctx context.Context, s *aaudio.Stream) error {
	st := aaudio.AAUDIO_STREAM_STATE_STARTED
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-p.errs:
			return fmt.Errorf("stream failed: %w", err)
		default:
		}

		next, err := s.WaitForStateChange(st, 100*time.Millisecond)
		if err != nil && !errors.Is(err, aaudio.AAUDIO_ERROR_TIMEOUT) {
			return err
		}

		switch next {
		case aaudio.AAUDIO_STREAM_STATE_STOPPING, aaudio.AAUDIO_STREAM_STATE_STOPPED:
			return nil
		case aaudio.AAUDIO_STREAM_STATE_DISCONNECTED:
			return fmt.Errorf("stream disconnected: %w", aaudio.AAUDIO_ERROR_DISCONNECTED)
		}

		st = next
	}
}

func (p *player) start(ctx context.Context, s *aaudio.Stream) error {
	if err := s.RequestStart(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return s.AwaitState(ctx, aaudio.AAUDIO_STREAM_STATE_STARTED)
}

func (p *player) playBlocking(ctx context.Context, lib *aaudio.Library) error {
	s, err := p.open(lib, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := p.start(ctx, s); err != nil {
		return err
	}

	start := time.Now()
	buf, raw := p.buffers(s, 1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case err := <-p.errs:
			return fmt.Errorf("stream failed: %w", err)
		default:
		}

		chunk, err := p.decode(s, buf, raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		for len(chunk) > 0 {
			n, err := s.Write(chunk, time.Second)
			if err != nil {
				return err
			}
			if n == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			chunk = chunk[s.FramesToBytes(n):]
		}
	}

	// Give the device time to play out what is still buffered.
	if size, err := s.BufferSizeInFrames(); err == nil && s.Rate() > 0 {
		time.Sleep(time.Duration(size) * time.Second / time.Duration(s.Rate()))
	}

	if err := s.RequestStop(); err != nil {
		return err
	}

	written, _ := s.FramesWritten()
	logger.Info("playback finished", "elapsed", time.Since(start).Round(time.Millisecond), "frames", written)

	return nil
}
