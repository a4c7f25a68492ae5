package aaudio

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// LibraryPathEnv overrides the library search path when set.
const LibraryPathEnv = "AAUDIO_LIB_PATH"

// DefaultLibraryPaths are tried in order by Load.
var DefaultLibraryPaths = []string{
	"libaaudio.so",
	"/system/lib64/libaaudio.so",
	"/system/lib/libaaudio.so",
}

// Library is a loaded AAudio implementation. It owns the native entry points and
// the callback trampolines shared by every builder and stream created from it.
type Library struct {
	native    Native
	path      string
	log       *slog.Logger
	callbacks *registry
	closed    atomic.Bool
}

type options struct {
	paths  []string
	logger *slog.Logger
}

// Option configures a Library.
type Option func(*options)

// WithLogger sets the logger used for lifecycle events and recovered callback panics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLibraryPath replaces the library search path.
func WithLibraryPath(paths ...string) Option {
	return func(o *options) {
		o.paths = paths
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default().With("component", "aaudio")
	}

	if len(o.paths) == 0 {
		if env := os.Getenv(LibraryPathEnv); env != "" {
			o.paths = []string{env}
		} else {
			o.paths = DefaultLibraryPaths
		}
	}

	return o
}

// Load opens libaaudio and resolves its entry points.
func Load(opts ...Option) (*Library, error) {
	o := buildOptions(opts)

	n, path, err := openNative(o.paths)
	if err != nil {
		return nil, fmt.Errorf("load libaaudio failed: %w", err)
	}

	l := newLibrary(n, o)
	l.path = path
	l.log.Debug("library loaded", "path", path)

	return l, nil
}

// NewLibrary wraps an existing Native implementation.
func NewLibrary(n Native, opts ...Option) *Library {
	return newLibrary(n, buildOptions(opts))
}

func newLibrary(n Native, o options) *Library {
	return &Library{
		native:    n,
		log:       o.logger,
		callbacks: newRegistry(),
	}
}

// Path returns the file the library was loaded from, or an empty string for a wrapped Native.
func (l *Library) Path() string {
	return l.path
}

// ResultToText returns the native description of a result code.
func (l *Library) ResultToText(r Result) string {
	if l.closed.Load() {
		return r.String()
	}

	return l.native.ResultToText(int32(r))
}

// StateToText returns the native description of a stream state.
func (l *Library) StateToText(s StreamState) string {
	if l.closed.Load() {
		return s.String()
	}

	return l.native.StateToText(int32(s))
}

// Close unloads the library. Streams and builders created from it must be closed first.
func (l *Library) Close() error {
	if l == nil || !l.closed.CompareAndSwap(false, true) {
		return nil
	}

	if n := l.callbacks.len(); n > 0 {
		l.log.Warn("closing library with live callbacks", "count", n)
	}

	if err := l.native.Close(); err != nil {
		return fmt.Errorf("close library failed: %w", err)
	}

	l.log.Debug("library closed")

	return nil
}
