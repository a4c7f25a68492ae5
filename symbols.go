//go:build linux && (amd64 || arm64)

package aaudio

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
)

// requiredSymbols are present in every libaaudio since API level 26.
// Everything else is resolved on first use and may be missing on older devices.
var requiredSymbols = []string{
	symCreateStreamBuilder,
	symBuilderOpenStream,
	symBuilderDelete,
	symBuilderSetDataCallback,
	symBuilderSetErrorCallback,
	symStreamSetBufferSize,
	symStreamWaitForStateChange,
	symStreamRead,
	symStreamWrite,
	symStreamGetTimestamp,
	StreamClose.Symbol(),
	StreamRequestStart.Symbol(),
	StreamRequestStop.Symbol(),
	StreamCurrentState.Symbol(),
}

// pureNative calls libaaudio through purego without cgo.
type pureNative struct {
	handle uintptr

	mu   sync.RWMutex
	syms map[string]uintptr

	resultToText func(int32) string
	stateToText  func(int32) string

	dataProc  atomic.Pointer[DataProc]
	errorProc atomic.Pointer[ErrorProc]

	dataOnce  sync.Once
	dataCB    uintptr
	errorOnce sync.Once
	errorCB   uintptr
}

func openNative(paths []string) (Native, string, error) {
	var errs []error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
		if err != nil {
			errs = append(errs, fmt.Errorf("dlopen %s: %w", path, err))
			continue
		}

		n := &pureNative{handle: handle, syms: make(map[string]uintptr)}
		if err := n.resolveRequired(); err != nil {
			_ = purego.Dlclose(handle)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}

		return n, path, nil
	}

	if len(errs) == 0 {
		return nil, "", errors.New("no library path to try")
	}

	return nil, "", errors.Join(errs...)
}

func (n *pureNative) resolveRequired() error {
	for _, name := range requiredSymbols {
		if _, err := n.sym(name); err != nil {
			return err
		}
	}

	if p, err := n.sym(symConvertResultToText); err == nil {
		purego.RegisterFunc(&n.resultToText, p)
	}
	if p, err := n.sym(symConvertStreamStateToText); err == nil {
		purego.RegisterFunc(&n.stateToText, p)
	}

	return nil
}

// sym returns the address of name, caching both hits and misses.
func (n *pureNative) sym(name string) (uintptr, error) {
	n.mu.RLock()
	p, ok := n.syms[name]
	n.mu.RUnlock()

	if !ok {
		p, _ = purego.Dlsym(n.handle, name)
		n.mu.Lock()
		n.syms[name] = p
		n.mu.Unlock()
	}

	if p == 0 {
		return 0, fmt.Errorf("%s: %w", name, ErrSymbolNotFound)
	}

	return p, nil
}

func (n *pureNative) mustSym(name string) uintptr {
	p, err := n.sym(name)
	if err != nil {
		panic(err)
	}

	return p
}

func boolArg(v bool) uintptr {
	if v {
		return 1
	}

	return 0
}

func (n *pureNative) CreateStreamBuilder() (uintptr, int32) {
	var builder uintptr
	r, _, _ := purego.SyscallN(n.mustSym(symCreateStreamBuilder), uintptr(unsafe.Pointer(&builder)))

	return builder, int32(r)
}

func (n *pureNative) BuilderOpenStream(builder uintptr) (uintptr, int32) {
	var stream uintptr
	r, _, _ := purego.SyscallN(n.mustSym(symBuilderOpenStream), builder, uintptr(unsafe.Pointer(&stream)))

	return stream, int32(r)
}

func (n *pureNative) BuilderDelete(builder uintptr) int32 {
	r, _, _ := purego.SyscallN(n.mustSym(symBuilderDelete), builder)

	return int32(r)
}

func (n *pureNative) BuilderSetInt(builder uintptr, p BuilderParam, v int32) error {
	fn, err := n.sym(p.Symbol())
	if err != nil {
		return err
	}

	// Channel masks are uint32_t; the other setters take int32_t.
	purego.SyscallN(fn, builder, uintptr(uint32(v)))

	return nil
}

func (n *pureNative) BuilderSetBool(builder uintptr, p BuilderParam, v bool) error {
	fn, err := n.sym(p.Symbol())
	if err != nil {
		return err
	}

	purego.SyscallN(fn, builder, boolArg(v))

	return nil
}

func (n *pureNative) BuilderSetString(builder uintptr, p BuilderParam, v string) error {
	fn, err := n.sym(p.Symbol())
	if err != nil {
		return err
	}

	cstr := append([]byte(v), 0)
	purego.SyscallN(fn, builder, uintptr(unsafe.Pointer(&cstr[0])))
	// AAudio copies the string before returning.
	runtime.KeepAlive(cstr)

	return nil
}

func (n *pureNative) BuilderSetDataCallback(builder uintptr, proc DataProc, userData uintptr) {
	var cb uintptr
	if proc != nil {
		n.dataProc.Store(&proc)
		n.dataOnce.Do(func() {
			n.dataCB = purego.NewCallback(func(stream, userData uintptr, audioData unsafe.Pointer, numFrames uintptr) uintptr {
				p := n.dataProc.Load()
				if p == nil {
					return uintptr(AAUDIO_CALLBACK_RESULT_STOP)
				}

				return uintptr(uint32((*p)(stream, userData, audioData, int32(numFrames))))
			})
		})
		cb = n.dataCB
	}

	purego.SyscallN(n.mustSym(symBuilderSetDataCallback), builder, cb, userData)
}

func (n *pureNative) BuilderSetErrorCallback(builder uintptr, proc ErrorProc, userData uintptr) {
	var cb uintptr
	if proc != nil {
		n.errorProc.Store(&proc)
		n.errorOnce.Do(func() {
			n.errorCB = purego.NewCallback(func(stream, userData, code uintptr) uintptr {
				if p := n.errorProc.Load(); p != nil {
					(*p)(stream, userData, int32(code))
				}

				return 0
			})
		})
		cb = n.errorCB
	}

	purego.SyscallN(n.mustSym(symBuilderSetErrorCallback), builder, cb, userData)
}

func (n *pureNative) StreamControl(stream uintptr, op StreamOp) (int32, error) {
	fn, err := n.sym(op.Symbol())
	if err != nil {
		return 0, err
	}

	r, _, _ := purego.SyscallN(fn, stream)

	return int32(r), nil
}

func (n *pureNative) StreamGetInt(stream uintptr, p StreamProperty) (int32, error) {
	fn, err := n.sym(p.Symbol())
	if err != nil {
		return 0, err
	}

	r, _, _ := purego.SyscallN(fn, stream)

	return int32(r), nil
}

func (n *pureNative) StreamGetInt64(stream uintptr, p StreamProperty) (int64, error) {
	fn, err := n.sym(p.Symbol())
	if err != nil {
		return 0, err
	}

	r, _, _ := purego.SyscallN(fn, stream)

	return int64(r), nil
}

func (n *pureNative) StreamGetBool(stream uintptr, p StreamProperty) (bool, error) {
	fn, err := n.sym(p.Symbol())
	if err != nil {
		return false, err
	}

	r, _, _ := purego.SyscallN(fn, stream)

	return r&0xff != 0, nil
}

func (n *pureNative) StreamSetBufferSize(stream uintptr, frames int32) int32 {
	r, _, _ := purego.SyscallN(n.mustSym(symStreamSetBufferSize), stream, uintptr(frames))

	return int32(r)
}

func (n *pureNative) StreamWaitForStateChange(stream uintptr, input int32, timeoutNanos int64) (int32, int32) {
	var next int32
	r, _, _ := purego.SyscallN(n.mustSym(symStreamWaitForStateChange),
		stream, uintptr(input), uintptr(unsafe.Pointer(&next)), uintptr(timeoutNanos))

	return next, int32(r)
}

func (n *pureNative) StreamRead(stream uintptr, buf unsafe.Pointer, frames int32, timeoutNanos int64) int32 {
	r, _, _ := purego.SyscallN(n.mustSym(symStreamRead), stream, uintptr(buf), uintptr(frames), uintptr(timeoutNanos))

	return int32(r)
}

func (n *pureNative) StreamWrite(stream uintptr, buf unsafe.Pointer, frames int32, timeoutNanos int64) int32 {
	r, _, _ := purego.SyscallN(n.mustSym(symStreamWrite), stream, uintptr(buf), uintptr(frames), uintptr(timeoutNanos))

	return int32(r)
}

func (n *pureNative) StreamGetTimestamp(stream uintptr, clock int32) (int64, int64, int32) {
	var framePosition, timeNanos int64
	r, _, _ := purego.SyscallN(n.mustSym(symStreamGetTimestamp),
		stream, uintptr(clock), uintptr(unsafe.Pointer(&framePosition)), uintptr(unsafe.Pointer(&timeNanos)))

	return framePosition, timeNanos, int32(r)
}

func (n *pureNative) ResultToText(code int32) string {
	if n.resultToText == nil {
		return Normalize(code).String()
	}

	return n.resultToText(code)
}

func (n *pureNative) StateToText(state int32) string {
	if n.stateToText == nil {
		return StreamState(state).String()
	}

	return n.stateToText(state)
}

func (n *pureNative) Close() error {
	if err := purego.Dlclose(n.handle); err != nil {
		return fmt.Errorf("dlclose failed: %w", err)
	}

	return nil
}
