package aaudio

import (
	"strconv"
)

// ClockID selects the clock used by Stream.Timestamp.
// The values are the Linux clockid_t numbers expected by AAudioStream_getTimestamp.
type ClockID int32

const (
	CLOCK_MONOTONIC ClockID = 1
	CLOCK_BOOTTIME  ClockID = 7
)

// ClockIDNames provides human-readable names for clock ids.
var ClockIDNames = map[ClockID]string{
	CLOCK_MONOTONIC: "MONOTONIC",
	CLOCK_BOOTTIME:  "BOOTTIME",
}

type enum interface {
	~int32
}

func enumName[T enum](kind string, names map[T]string, v T) string {
	if s, ok := names[v]; ok {
		return s
	}

	return kind + "(" + strconv.Itoa(int(v)) + ")"
}

func enumFromValue[T enum](kind string, names map[T]string, v int32) (T, error) {
	if _, ok := names[T(v)]; ok {
		return T(v), nil
	}

	return 0, &UnknownValueError{Kind: kind, Value: int64(v)}
}

func (r Result) String() string { return enumName("Result", ResultNames, r) }

func (s StreamState) String() string { return enumName("StreamState", StreamStateNames, s) }

func (f Format) String() string { return enumName("Format", FormatNames, f) }

func (d Direction) String() string { return enumName("Direction", DirectionNames, d) }

func (m SharingMode) String() string { return enumName("SharingMode", SharingModeNames, m) }

func (m PerformanceMode) String() string {
	return enumName("PerformanceMode", PerformanceModeNames, m)
}

func (u Usage) String() string { return enumName("Usage", UsageNames, u) }

func (c ContentType) String() string { return enumName("ContentType", ContentTypeNames, c) }

func (p InputPreset) String() string { return enumName("InputPreset", InputPresetNames, p) }

func (p AllowedCapturePolicy) String() string {
	return enumName("AllowedCapturePolicy", AllowedCapturePolicyNames, p)
}

func (b SpatializationBehavior) String() string {
	return enumName("SpatializationBehavior", SpatializationBehaviorNames, b)
}

func (r CallbackResult) String() string { return enumName("CallbackResult", CallbackResultNames, r) }

func (c ClockID) String() string { return enumName("ClockID", ClockIDNames, c) }

// String returns the sentinel name, or the numeric id of an allocated session.
func (id SessionID) String() string {
	if id > 0 {
		return strconv.Itoa(int(id))
	}

	return enumName("SessionID", SessionIDNames, id)
}

// ResultFromValue returns the Result named by v.
// Unlike Normalize, it reports unknown codes instead of mapping them to AAUDIO_ERROR_INTERNAL.
func ResultFromValue(v int32) (Result, error) { return enumFromValue("Result", ResultNames, v) }

func StreamStateFromValue(v int32) (StreamState, error) {
	return enumFromValue("StreamState", StreamStateNames, v)
}

func FormatFromValue(v int32) (Format, error) { return enumFromValue("Format", FormatNames, v) }

func DirectionFromValue(v int32) (Direction, error) {
	return enumFromValue("Direction", DirectionNames, v)
}

func SharingModeFromValue(v int32) (SharingMode, error) {
	return enumFromValue("SharingMode", SharingModeNames, v)
}

func PerformanceModeFromValue(v int32) (PerformanceMode, error) {
	return enumFromValue("PerformanceMode", PerformanceModeNames, v)
}

func UsageFromValue(v int32) (Usage, error) { return enumFromValue("Usage", UsageNames, v) }

func ContentTypeFromValue(v int32) (ContentType, error) {
	return enumFromValue("ContentType", ContentTypeNames, v)
}

func InputPresetFromValue(v int32) (InputPreset, error) {
	return enumFromValue("InputPreset", InputPresetNames, v)
}

func AllowedCapturePolicyFromValue(v int32) (AllowedCapturePolicy, error) {
	return enumFromValue("AllowedCapturePolicy", AllowedCapturePolicyNames, v)
}

func SpatializationBehaviorFromValue(v int32) (SpatializationBehavior, error) {
	return enumFromValue("SpatializationBehavior", SpatializationBehaviorNames, v)
}

func CallbackResultFromValue(v int32) (CallbackResult, error) {
	return enumFromValue("CallbackResult", CallbackResultNames, v)
}

func ClockIDFromValue(v int32) (ClockID, error) { return enumFromValue("ClockID", ClockIDNames, v) }

// SessionIDFromValue accepts the NONE and ALLOCATE sentinels and any positive allocated id.
func SessionIDFromValue(v int32) (SessionID, error) {
	if v > 0 {
		return SessionID(v), nil
	}

	return enumFromValue("SessionID", SessionIDNames, v)
}
