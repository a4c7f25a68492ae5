package aaudio

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// DataCallback is invoked on the AAudio real-time thread while a stream is started.
// audioData holds exactly numFrames frames: the caller must fill it for an output stream
// and may only read it for an input stream. The slice is valid until the callback returns.
//
// The callback must not block, allocate, perform I/O or call stream control methods.
type DataCallback func(s *Stream, audioData []byte, numFrames int32) CallbackResult

// ErrorCallback is invoked when a stream is disconnected or fails.
// It must not stop or close the stream itself; hand that off to another goroutine.
type ErrorCallback func(s *Stream, err error)

// registration is what the native trampolines find through the userData id.
type registration struct {
	data       DataCallback
	err        ErrorCallback
	stream     atomic.Pointer[Stream]
	frameBytes atomic.Int32
}

// registry maps userData ids to registrations. No Go pointer crosses into native code.
type registry struct {
	mu      sync.RWMutex
	next    uintptr
	entries map[uintptr]*registration
}

func newRegistry() *registry {
	return &registry{next: 1, entries: make(map[uintptr]*registration)}
}

func (r *registry) add(reg *registration) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	r.entries[id] = reg

	return id
}

func (r *registry) remove(id uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
}

func (r *registry) lookup(id uintptr) *registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.entries[id]
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// arena owns the callback registrations of one builder and, after open, its stream.
// The native side may invoke a registration until the arena is closed, so the arena
// must not be closed before the stream is.
type arena struct {
	reg      *registry
	mu       sync.Mutex
	ids      []uintptr
	released bool
}

func newArena(r *registry) *arena {
	return &arena{reg: r}
}

func (a *arena) register(reg *registration) uintptr {
	id := a.reg.add(reg)

	a.mu.Lock()
	a.ids = append(a.ids, id)
	a.mu.Unlock()

	return id
}

// close unregisters everything the arena owns. It is safe to call more than once.
func (a *arena) close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return
	}

	for _, id := range a.ids {
		a.reg.remove(id)
	}

	a.ids = nil
	a.released = true
}

func (a *arena) closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.released
}

func (l *Library) dispatchData(_, userData uintptr, audioData unsafe.Pointer, numFrames int32) (result int32) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Warn("panic in data callback", "userData", userData, "panic", r)
			result = int32(AAUDIO_CALLBACK_RESULT_STOP)
		}
	}()

	reg := l.callbacks.lookup(userData)
	if reg == nil || reg.data == nil {
		return int32(AAUDIO_CALLBACK_RESULT_STOP)
	}

	s := reg.stream.Load()
	if s == nil {
		return int32(AAUDIO_CALLBACK_RESULT_STOP)
	}

	var buf []byte
	if size := int(numFrames) * int(reg.frameBytes.Load()); audioData != nil && size > 0 {
		buf = unsafe.Slice((*byte)(audioData), size)
	}

	return int32(reg.data(s, buf, numFrames))
}

func (l *Library) dispatchError(_, userData uintptr, code int32) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Warn("panic in error callback", "userData", userData, "panic", r)
		}
	}()

	reg := l.callbacks.lookup(userData)
	if reg == nil || reg.err == nil {
		return
	}

	reg.err(reg.stream.Load(), &Error{Op: "AAudioStream_errorCallback", Code: Normalize(code), Raw: code})
}

// FillOutput copies src into dst and zeroes whatever src did not cover.
// It returns the number of bytes zeroed.
func FillOutput(dst, src []byte) int {
	n := copy(dst, src)
	clear(dst[n:])

	return len(dst) - n
}

// OutputCallback adapts a producer returning whole buffers to a DataCallback.
// The produced bytes are copied into the native buffer and any shortfall is played as silence.
func OutputCallback(produce func(s *Stream, numFrames int32) ([]byte, CallbackResult)) DataCallback {
	return func(s *Stream, audioData []byte, numFrames int32) CallbackResult {
		data, res := produce(s, numFrames)
		FillOutput(audioData, data)

		return res
	}
}

// InputCallback adapts a consumer of captured bytes to a DataCallback.
func InputCallback(consume func(s *Stream, data []byte) CallbackResult) DataCallback {
	return func(s *Stream, audioData []byte, _ int32) CallbackResult {
		return consume(s, audioData)
	}
}
