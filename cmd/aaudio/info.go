package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gen2brain/aaudio"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Open a stream and print what the device granted",
	Long: `Open a stream with the requested parameters, print every property the
device reports and close it again without starting it.

Examples:
  aaudio info
  aaudio info --input --sharing exclusive
  aaudio info --rate 44100 --format float`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().Bool("input", false, "Open an input stream instead of an output stream")
}

func runInfo(cmd *cobra.Command, _ []string) error {
	dir := aaudio.AAUDIO_DIRECTION_OUTPUT
	if viper.GetBool("input") {
		dir = aaudio.AAUDIO_DIRECTION_INPUT
	}

	cfg, err := streamConfig(dir)
	if err != nil {
		return err
	}

	if name := viper.GetString("format"); name != "" {
		if cfg.Format, err = streamFormat(name, nil); err != nil {
			return err
		}
	}

	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	s, err := lib.OpenStream(cfg, nil, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	return printStream(cmd.OutOrStdout(), lib, s)
}

// show formats a property, marking entry points the device's libaaudio lacks.
func show[T any](v T, err error) string {
	switch {
	case errors.Is(err, aaudio.ErrSymbolNotFound):
		return "unavailable"
	case err != nil:
		return err.Error()
	}

	return fmt.Sprint(v)
}

func printStream(out io.Writer, lib *aaudio.Library, s *aaudio.Stream) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	row := func(name, value string) {
		fmt.Fprintf(w, "%s\t%s\n", name, value)
	}

	state, err := s.State()
	row("Library", lib.Path())
	row("State", lib.StateToText(state))
	row("Direction", show(s.Direction()))
	row("Device", show(s.DeviceID()))
	row("Sharing mode", show(s.SharingMode()))
	row("Performance mode", show(s.PerformanceMode()))
	row("Sample rate", show(s.SampleRate()))
	row("Hardware sample rate", show(s.HardwareSampleRate()))
	row("Channels", show(s.ChannelCount()))
	row("Hardware channels", show(s.HardwareChannelCount()))
	row("Channel mask", show(s.ChannelMask()))
	row("Format", show(s.Format()))
	row("Hardware format", show(s.HardwareFormat()))
	row("Frames per burst", show(s.FramesPerBurst()))
	row("Burst time", show(s.BurstTime()))
	row("Buffer size", show(s.BufferSizeInFrames()))
	row("Buffer capacity", show(s.BufferCapacityInFrames()))
	row("Frames per data callback", show(s.FramesPerDataCallback()))
	row("Session", show(s.SessionID()))

	if s.StreamDirection() == aaudio.AAUDIO_DIRECTION_INPUT {
		row("Input preset", show(s.InputPreset()))
		row("Privacy sensitive", show(s.IsPrivacySensitive()))
	} else {
		row("Usage", show(s.Usage()))
		row("Content type", show(s.ContentType()))
		row("Allowed capture", show(s.AllowedCapturePolicy()))
		row("Spatialization", show(s.SpatializationBehavior()))
		row("Content spatialized", show(s.IsContentSpatialized()))
	}

	return errors.Join(err, w.Flush())
}
