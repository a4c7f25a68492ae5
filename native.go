package aaudio

import (
	"unsafe"
)

// DataProc is the Go side of the native data callback:
// aaudio_data_callback_result_t (*)(AAudioStream*, void* userData, void* audioData, int32_t numFrames).
type DataProc func(stream, userData uintptr, audioData unsafe.Pointer, numFrames int32) int32

// ErrorProc is the Go side of the native error callback:
// void (*)(AAudioStream*, void* userData, aaudio_result_t error).
type ErrorProc func(stream, userData uintptr, code int32)

// Native is the set of libaaudio entry points used by the binding.
// Builder and stream handles are opaque native pointers.
//
// Methods returning int32 pass the native result or count through untouched.
// Methods returning error fail only when the entry point is absent from the
// loaded library, in which case the error wraps ErrSymbolNotFound.
type Native interface {
	CreateStreamBuilder() (builder uintptr, result int32)
	BuilderOpenStream(builder uintptr) (stream uintptr, result int32)
	BuilderDelete(builder uintptr) int32

	BuilderSetInt(builder uintptr, p BuilderParam, v int32) error
	BuilderSetBool(builder uintptr, p BuilderParam, v bool) error
	BuilderSetString(builder uintptr, p BuilderParam, v string) error

	// BuilderSetDataCallback installs proc as the data callback. A nil proc clears it.
	BuilderSetDataCallback(builder uintptr, proc DataProc, userData uintptr)
	// BuilderSetErrorCallback installs proc as the error callback. A nil proc clears it.
	BuilderSetErrorCallback(builder uintptr, proc ErrorProc, userData uintptr)

	StreamControl(stream uintptr, op StreamOp) (int32, error)
	StreamGetInt(stream uintptr, p StreamProperty) (int32, error)
	StreamGetInt64(stream uintptr, p StreamProperty) (int64, error)
	StreamGetBool(stream uintptr, p StreamProperty) (bool, error)

	StreamSetBufferSize(stream uintptr, frames int32) int32
	StreamWaitForStateChange(stream uintptr, input int32, timeoutNanos int64) (next int32, result int32)
	StreamRead(stream uintptr, buf unsafe.Pointer, frames int32, timeoutNanos int64) int32
	StreamWrite(stream uintptr, buf unsafe.Pointer, frames int32, timeoutNanos int64) int32
	StreamGetTimestamp(stream uintptr, clock int32) (framePosition, timeNanos int64, result int32)

	ResultToText(code int32) string
	StateToText(state int32) string

	// Close unloads the library. Handles obtained from it must not be used afterwards.
	Close() error
}

// BuilderParam names a stream builder setter.
type BuilderParam int

const (
	BuilderDeviceID BuilderParam = iota
	BuilderPackageName
	BuilderAttributionTag
	BuilderSampleRate
	BuilderChannelCount
	BuilderSamplesPerFrame
	BuilderFormat
	BuilderSharingMode
	BuilderDirection
	BuilderBufferCapacityInFrames
	BuilderPerformanceMode
	BuilderUsage
	BuilderContentType
	BuilderSpatializationBehavior
	BuilderIsContentSpatialized
	BuilderInputPreset
	BuilderAllowedCapturePolicy
	BuilderSessionID
	BuilderPrivacySensitive
	BuilderFramesPerDataCallback
	BuilderChannelMask

	builderParamCount
)

var builderSymbols = [builderParamCount]string{
	BuilderDeviceID:               "AAudioStreamBuilder_setDeviceId",
	BuilderPackageName:            "AAudioStreamBuilder_setPackageName",
	BuilderAttributionTag:         "AAudioStreamBuilder_setAttributionTag",
	BuilderSampleRate:             "AAudioStreamBuilder_setSampleRate",
	BuilderChannelCount:           "AAudioStreamBuilder_setChannelCount",
	BuilderSamplesPerFrame:        "AAudioStreamBuilder_setSamplesPerFrame",
	BuilderFormat:                 "AAudioStreamBuilder_setFormat",
	BuilderSharingMode:            "AAudioStreamBuilder_setSharingMode",
	BuilderDirection:              "AAudioStreamBuilder_setDirection",
	BuilderBufferCapacityInFrames: "AAudioStreamBuilder_setBufferCapacityInFrames",
	BuilderPerformanceMode:        "AAudioStreamBuilder_setPerformanceMode",
	BuilderUsage:                  "AAudioStreamBuilder_setUsage",
	BuilderContentType:            "AAudioStreamBuilder_setContentType",
	BuilderSpatializationBehavior: "AAudioStreamBuilder_setSpatializationBehavior",
	BuilderIsContentSpatialized:   "AAudioStreamBuilder_setIsContentSpatialized",
	BuilderInputPreset:            "AAudioStreamBuilder_setInputPreset",
	BuilderAllowedCapturePolicy:   "AAudioStreamBuilder_setAllowedCapturePolicy",
	BuilderSessionID:              "AAudioStreamBuilder_setSessionId",
	BuilderPrivacySensitive:       "AAudioStreamBuilder_setPrivacySensitive",
	BuilderFramesPerDataCallback:  "AAudioStreamBuilder_setFramesPerDataCallback",
	BuilderChannelMask:            "AAudioStreamBuilder_setChannelMask",
}

// Symbol returns the C entry point for the setter.
func (p BuilderParam) Symbol() string {
	if p < 0 || p >= builderParamCount {
		return ""
	}

	return builderSymbols[p]
}

func (p BuilderParam) String() string { return p.Symbol() }

// StreamProperty names a stream getter.
type StreamProperty int

const (
	StreamCurrentState StreamProperty = iota
	StreamBufferSizeInFrames
	StreamFramesPerBurst
	StreamBufferCapacityInFrames
	StreamFramesPerDataCallback
	StreamXRunCount
	StreamSampleRate
	StreamHardwareSampleRate
	StreamChannelCount
	StreamHardwareChannelCount
	StreamSamplesPerFrame
	StreamDeviceID
	StreamFormat
	StreamHardwareFormat
	StreamSharingMode
	StreamPerformanceMode
	StreamDirection
	StreamFramesWritten
	StreamFramesRead
	StreamSessionID
	StreamUsage
	StreamContentType
	StreamSpatializationBehavior
	StreamIsContentSpatialized
	StreamInputPreset
	StreamAllowedCapturePolicy
	StreamIsPrivacySensitive
	StreamChannelMask

	streamPropertyCount
)

var streamPropertySymbols = [streamPropertyCount]string{
	StreamCurrentState:           "AAudioStream_getState",
	StreamBufferSizeInFrames:     "AAudioStream_getBufferSizeInFrames",
	StreamFramesPerBurst:         "AAudioStream_getFramesPerBurst",
	StreamBufferCapacityInFrames: "AAudioStream_getBufferCapacityInFrames",
	StreamFramesPerDataCallback:  "AAudioStream_getFramesPerDataCallback",
	StreamXRunCount:              "AAudioStream_getXRunCount",
	StreamSampleRate:             "AAudioStream_getSampleRate",
	StreamHardwareSampleRate:     "AAudioStream_getHardwareSampleRate",
	StreamChannelCount:           "AAudioStream_getChannelCount",
	StreamHardwareChannelCount:   "AAudioStream_getHardwareChannelCount",
	StreamSamplesPerFrame:        "AAudioStream_getSamplesPerFrame",
	StreamDeviceID:               "AAudioStream_getDeviceId",
	StreamFormat:                 "AAudioStream_getFormat",
	StreamHardwareFormat:         "AAudioStream_getHardwareFormat",
	StreamSharingMode:            "AAudioStream_getSharingMode",
	StreamPerformanceMode:        "AAudioStream_getPerformanceMode",
	StreamDirection:              "AAudioStream_getDirection",
	StreamFramesWritten:          "AAudioStream_getFramesWritten",
	StreamFramesRead:             "AAudioStream_getFramesRead",
	StreamSessionID:              "AAudioStream_getSessionId",
	StreamUsage:                  "AAudioStream_getUsage",
	StreamContentType:            "AAudioStream_getContentType",
	StreamSpatializationBehavior: "AAudioStream_getSpatializationBehavior",
	StreamIsContentSpatialized:   "AAudioStream_isContentSpatialized",
	StreamInputPreset:            "AAudioStream_getInputPreset",
	StreamAllowedCapturePolicy:   "AAudioStream_getAllowedCapturePolicy",
	StreamIsPrivacySensitive:     "AAudioStream_isPrivacySensitive",
	StreamChannelMask:            "AAudioStream_getChannelMask",
}

// Symbol returns the C entry point for the getter.
func (p StreamProperty) Symbol() string {
	if p < 0 || p >= streamPropertyCount {
		return ""
	}

	return streamPropertySymbols[p]
}

func (p StreamProperty) String() string { return p.Symbol() }

// StreamOp names a stream control entry point taking only the stream and returning a result.
type StreamOp int

const (
	StreamRequestStart StreamOp = iota
	StreamRequestPause
	StreamRequestFlush
	StreamRequestStop
	StreamRelease
	StreamClose

	streamOpCount
)

var streamOpSymbols = [streamOpCount]string{
	StreamRequestStart: "AAudioStream_requestStart",
	StreamRequestPause: "AAudioStream_requestPause",
	StreamRequestFlush: "AAudioStream_requestFlush",
	StreamRequestStop:  "AAudioStream_requestStop",
	StreamRelease:      "AAudioStream_release",
	StreamClose:        "AAudioStream_close",
}

// Symbol returns the C entry point for the control call.
func (op StreamOp) Symbol() string {
	if op < 0 || op >= streamOpCount {
		return ""
	}

	return streamOpSymbols[op]
}

func (op StreamOp) String() string { return op.Symbol() }

const (
	symCreateStreamBuilder      = "AAudio_createStreamBuilder"
	symBuilderOpenStream        = "AAudioStreamBuilder_openStream"
	symBuilderDelete            = "AAudioStreamBuilder_delete"
	symBuilderSetDataCallback   = "AAudioStreamBuilder_setDataCallback"
	symBuilderSetErrorCallback  = "AAudioStreamBuilder_setErrorCallback"
	symStreamSetBufferSize      = "AAudioStream_setBufferSizeInFrames"
	symStreamWaitForStateChange = "AAudioStream_waitForStateChange"
	symStreamRead               = "AAudioStream_read"
	symStreamWrite              = "AAudioStream_write"
	symStreamGetTimestamp       = "AAudioStream_getTimestamp"
	symConvertResultToText      = "AAudio_convertResultToText"
	symConvertStreamStateToText = "AAudio_convertStreamStateToText"
)
