package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-audio/wav"
	"github.com/smallnest/ringbuffer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/gen2brain/aaudio"
)

var captureCmd = &cobra.Command{
	Use:   "capture <output.wav>",
	Short: "Record from an input stream into a WAV file",
	Long: `Record from an AAudio input stream into a WAV file.

The default data callback copies captured audio into a ring buffer that a writer
goroutine drains into the file. With --blocking the stream is read with AAudioStream_read.

Examples:
  aaudio capture --duration 10s out.wav
  aaudio capture --preset unprocessed --format float --rate 48000 out.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().Duration("duration", 5*time.Second, "How long to record")
	captureCmd.Flags().Bool("blocking", false, "Use blocking reads instead of a data callback")
	captureCmd.Flags().String("preset", "generic", "Input preset, e.g. generic, camcorder, unprocessed")
}

func runCapture(cmd *cobra.Command, args []string) error {
	format, err := streamFormat(viper.GetString("format"), nil)
	if err != nil {
		return err
	}

	preset, err := parseEnum("input preset", viper.GetString("preset"), aaudio.InputPresetNames)
	if err != nil {
		return err
	}

	cfg, err := streamConfig(aaudio.AAUDIO_DIRECTION_INPUT)
	if err != nil {
		return err
	}
	cfg.Format = format
	cfg.InputPreset = preset

	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, viper.GetDuration("duration"))
	defer cancel()

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r := &recorder{errs: make(chan error, 1)}
	if viper.GetBool("blocking") {
		err = r.recordBlocking(ctx, lib, cfg, f)
	} else {
		err = r.recordCallback(ctx, lib, cfg, f)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		err = nil
	}

	if err != nil {
		return err
	}

	logger.Info("capture finished", "file", args[0], "frames", r.frames,
		"seconds", fmt.Sprintf("%.2f", float64(r.frames)/float64(max(r.rate, 1))))

	return nil
}

type recorder struct {
	enc    *wav.Encoder
	errs   chan error
	frames int64
	rate   int32
}

func (r *recorder) onError(_ *aaudio.Stream, err error) {
	select {
	case r.errs <- err:
	default:
	}
}

// open opens the input stream and prepares a WAV encoder matching what the device granted.
func (r *recorder) open(lib *aaudio.Library, cfg aaudio.Config, data aaudio.DataCallback, f *os.File) (*aaudio.Stream, error) {
	s, err := lib.OpenStream(cfg, data, r.onError)
	if err != nil {
		return nil, err
	}

	depth := 16
	switch s.StreamFormat() {
	case aaudio.AAUDIO_FORMAT_PCM_I24_PACKED:
		depth = 24
	case aaudio.AAUDIO_FORMAT_PCM_I32, aaudio.AAUDIO_FORMAT_PCM_FLOAT:
		depth = 32
	}

	r.rate = s.Rate()
	r.enc = wav.NewEncoder(f, int(s.Rate()), depth, int(s.Channels()), 1)

	preset, _ := s.InputPreset()
	logger.Info("stream opened",
		"rate", s.Rate(), "channels", s.Channels(), "format", s.StreamFormat(), "preset", preset)

	return s, nil
}

// write encodes captured bytes into the WAV file.
func (r *recorder) write(s *aaudio.Stream, data []byte) error {
	ib, err := aaudio.DecodeSamples(data, s.StreamFormat(), int(s.Channels()), int(s.Rate()))
	if err != nil {
		return err
	}

	if err := r.enc.Write(ib); err != nil {
		return fmt.Errorf("write WAV: %w", err)
	}

	r.frames += int64(s.BytesToFrames(len(data)))

	return nil
}

func (r *recorder) finish(s *aaudio.Stream) error {
	errs := []error{s.RequestStop()}
	if r.enc != nil {
		errs = append(errs, r.enc.Close())
	}

	return errors.Join(errs...)
}

func (r *recorder) start(ctx context.Context, s *aaudio.Stream) error {
	if err := s.RequestStart(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return s.AwaitState(ctx, aaudio.AAUDIO_STREAM_STATE_STARTED)
}

func (r *recorder) recordCallback(ctx context.Context, lib *aaudio.Library, cfg aaudio.Config, f *os.File) error {
	// One second of the widest layout the request can produce.
	rate := max(int(cfg.SampleRate), 48000)
	channels := max(int(cfg.ChannelCount), 2)
	rb := ringbuffer.New(rate * channels * 4)
	in := aaudio.NewRingInput(rb)

	s, err := r.open(lib, cfg, in.Callback, f)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := r.start(ctx, s); err != nil {
		return errors.Join(err, r.finish(s))
	}

	burst, err := s.BurstTime()
	if err != nil {
		return err
	}

	buf := make([]byte, s.FramesToBytes(4096))
	drain := func() error {
		for {
			n, _ := rb.TryRead(buf[:len(buf)-len(buf)%s.FrameSize()])
			n -= n % s.FrameSize()
			if n == 0 {
				return nil
			}
			if err := r.write(s, buf[:n]); err != nil {
				return err
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case err := <-r.errs:
				return fmt.Errorf("stream failed: %w", err)
			case <-time.After(burst):
			}

			if err := drain(); err != nil {
				return err
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		err = nil
	}

	stopErr := s.RequestStop()
	drainErr := drain()

	if dropped := in.Overrun(); dropped > 0 {
		logger.Warn("capture ring overflowed", "dropped_bytes", dropped)
	}

	return errors.Join(err, stopErr, drainErr, r.enc.Close())
}

func (r *recorder) recordBlocking(ctx context.Context, lib *aaudio.Library, cfg aaudio.Config, f *os.File) error {
	s, err := r.open(lib, cfg, nil, f)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := r.start(ctx, s); err != nil {
		return errors.Join(err, r.finish(s))
	}

	burst, _ := s.FramesPerBurst()
	buf := make([]byte, s.FramesToBytes(int(max(burst, 256))))

	for ctx.Err() == nil {
		select {
		case err := <-r.errs:
			return errors.Join(fmt.Errorf("stream failed: %w", err), r.finish(s))
		default:
		}

		n, err := s.Read(buf, 100*time.Millisecond)
		if err != nil {
			return errors.Join(err, r.finish(s))
		}

		if n > 0 {
			if err := r.write(s, buf[:s.FramesToBytes(n)]); err != nil {
				return errors.Join(err, r.finish(s))
			}
		}
	}

	return r.finish(s)
}
