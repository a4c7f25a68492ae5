package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gen2brain/aaudio"
)

var (
	cfgFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aaudio",
	Short: "Play, capture and inspect AAudio streams",
	Long: `aaudio drives the Android AAudio API without cgo.

Stream flags may also come from the environment (AAUDIO_RATE, AAUDIO_SHARING, ...)
or from a config file passed with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (yaml, toml or json)")
	pf.BoolP("verbose", "v", false, "Verbose output (debug logging)")
	pf.String("lib-path", "", "Path to libaaudio.so (default: system library)")
	pf.Int32("device", aaudio.AAUDIO_UNSPECIFIED, "Device id (0 = default device)")
	pf.Int32("rate", aaudio.AAUDIO_UNSPECIFIED, "Sample rate in Hz (0 = device or file rate)")
	pf.Int32("channels", aaudio.AAUDIO_UNSPECIFIED, "Channel count (0 = device or file layout)")
	pf.String("format", "", "Sample format: i16, i24, i32 or float")
	pf.String("sharing", "shared", "Sharing mode: shared or exclusive")
	pf.String("performance", "low-latency", "Performance mode: none, low-latency or power-saving")
	pf.Int32("buffer-capacity", aaudio.AAUDIO_UNSPECIFIED, "Buffer capacity in frames (0 = default)")
}

func initConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("AAUDIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return nil
}

// loadLibrary opens libaaudio honoring --lib-path.
func loadLibrary() (*aaudio.Library, error) {
	opts := []aaudio.Option{aaudio.WithLogger(logger.With("component", "aaudio"))}
	if p := viper.GetString("lib-path"); p != "" {
		opts = append(opts, aaudio.WithLibraryPath(p))
	}

	lib, err := aaudio.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("load libaaudio: %w", err)
	}

	logger.Debug("libaaudio loaded", "path", lib.Path())

	return lib, nil
}

// parseEnum looks value up in names, ignoring case and treating '-' as '_'.
func parseEnum[T ~int32](kind, value string, names map[T]string) (T, error) {
	key := strings.ToUpper(strings.ReplaceAll(value, "-", "_"))
	for v, name := range names {
		if name == key {
			return v, nil
		}
	}

	return 0, fmt.Errorf("unknown %s %q", kind, value)
}

// streamConfig collects the stream flags shared by all commands.
func streamConfig(dir aaudio.Direction) (aaudio.Config, error) {
	sharing, err := parseEnum("sharing mode", viper.GetString("sharing"), aaudio.SharingModeNames)
	if err != nil {
		return aaudio.Config{}, err
	}

	perf, err := parseEnum("performance mode", viper.GetString("performance"), aaudio.PerformanceModeNames)
	if err != nil {
		return aaudio.Config{}, err
	}

	return aaudio.Config{
		DeviceID:               viper.GetInt32("device"),
		SampleRate:             viper.GetInt32("rate"),
		ChannelCount:           viper.GetInt32("channels"),
		Direction:              dir,
		Exclusive:              sharing == aaudio.AAUDIO_SHARING_MODE_EXCLUSIVE,
		PerformanceMode:        perf,
		BufferCapacityInFrames: viper.GetInt32("buffer-capacity"),
	}, nil
}
