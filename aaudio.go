// Package aaudio provides a Go interface to the Android AAudio native audio API, loaded from libaaudio.so at runtime.
package aaudio

// AAUDIO_UNSPECIFIED asks AAudio to pick a suitable value for a builder parameter.
const AAUDIO_UNSPECIFIED = 0

// StreamState defines the current state of an AAudio stream.
// These values correspond to the AAUDIO_STREAM_STATE_* constants in aaudio/AAudio.h.
type StreamState int32

const (
	AAUDIO_STREAM_STATE_UNINITIALIZED StreamState = 0
	AAUDIO_STREAM_STATE_UNKNOWN       StreamState = 1
	AAUDIO_STREAM_STATE_OPEN          StreamState = 2
	AAUDIO_STREAM_STATE_STARTING      StreamState = 3
	AAUDIO_STREAM_STATE_STARTED       StreamState = 4
	AAUDIO_STREAM_STATE_PAUSING       StreamState = 5
	AAUDIO_STREAM_STATE_PAUSED        StreamState = 6
	AAUDIO_STREAM_STATE_FLUSHING      StreamState = 7
	AAUDIO_STREAM_STATE_FLUSHED       StreamState = 8
	AAUDIO_STREAM_STATE_STOPPING      StreamState = 9
	AAUDIO_STREAM_STATE_STOPPED       StreamState = 10
	AAUDIO_STREAM_STATE_CLOSING       StreamState = 11
	AAUDIO_STREAM_STATE_CLOSED        StreamState = 12
	AAUDIO_STREAM_STATE_DISCONNECTED  StreamState = 13
)

// Format defines the sample format of a stream.
type Format int32

const (
	AAUDIO_FORMAT_INVALID        Format = -1
	AAUDIO_FORMAT_UNSPECIFIED    Format = 0
	AAUDIO_FORMAT_PCM_I16        Format = 1
	AAUDIO_FORMAT_PCM_FLOAT      Format = 2
	AAUDIO_FORMAT_PCM_I24_PACKED Format = 3
	AAUDIO_FORMAT_PCM_I32        Format = 4
	// AAUDIO_FORMAT_IEC61937 carries compressed data wrapped in 16-bit bursts.
	AAUDIO_FORMAT_IEC61937 Format = 5
)

// Direction defines whether a stream plays or captures audio.
type Direction int32

const (
	AAUDIO_DIRECTION_OUTPUT Direction = 0 // Audio flows from the application to the device.
	AAUDIO_DIRECTION_INPUT  Direction = 1 // Audio flows from the device to the application.
)

// SharingMode defines whether a stream may share the audio device with other streams.
type SharingMode int32

const (
	// AAUDIO_SHARING_MODE_EXCLUSIVE requests exclusive use of the device, for the lowest latency.
	AAUDIO_SHARING_MODE_EXCLUSIVE SharingMode = 0
	// AAUDIO_SHARING_MODE_SHARED mixes the stream with other streams in the audio server.
	AAUDIO_SHARING_MODE_SHARED SharingMode = 1
)

// PerformanceMode defines the latency and power trade-off requested for a stream.
type PerformanceMode int32

const (
	AAUDIO_PERFORMANCE_MODE_NONE         PerformanceMode = 10
	AAUDIO_PERFORMANCE_MODE_POWER_SAVING PerformanceMode = 11
	AAUDIO_PERFORMANCE_MODE_LOW_LATENCY  PerformanceMode = 12
)

// Usage describes why a stream plays audio, used for routing and focus decisions.
type Usage int32

const (
	AAUDIO_USAGE_MEDIA                          Usage = 1
	AAUDIO_USAGE_VOICE_COMMUNICATION            Usage = 2
	AAUDIO_USAGE_VOICE_COMMUNICATION_SIGNALLING Usage = 3
	AAUDIO_USAGE_ALARM                          Usage = 4
	AAUDIO_USAGE_NOTIFICATION                   Usage = 5
	AAUDIO_USAGE_NOTIFICATION_RINGTONE          Usage = 6
	AAUDIO_USAGE_NOTIFICATION_EVENT             Usage = 10
	AAUDIO_USAGE_ASSISTANCE_ACCESSIBILITY       Usage = 11
	AAUDIO_USAGE_ASSISTANCE_NAVIGATION_GUIDANCE Usage = 12
	AAUDIO_USAGE_ASSISTANCE_SONIFICATION        Usage = 13
	AAUDIO_USAGE_GAME                           Usage = 14
	AAUDIO_USAGE_ASSISTANT                      Usage = 16
	AAUDIO_SYSTEM_USAGE_EMERGENCY               Usage = 1000
	AAUDIO_SYSTEM_USAGE_SAFETY                  Usage = 1001
	AAUDIO_SYSTEM_USAGE_VEHICLE_STATUS          Usage = 1002
	AAUDIO_SYSTEM_USAGE_ANNOUNCEMENT            Usage = 1003
)

// ContentType describes what kind of audio a stream carries.
type ContentType int32

const (
	AAUDIO_CONTENT_TYPE_SPEECH       ContentType = 1
	AAUDIO_CONTENT_TYPE_MUSIC        ContentType = 2
	AAUDIO_CONTENT_TYPE_MOVIE        ContentType = 3
	AAUDIO_CONTENT_TYPE_SONIFICATION ContentType = 4
)

// InputPreset selects the capture path processing applied to an input stream.
type InputPreset int32

const (
	AAUDIO_INPUT_PRESET_GENERIC               InputPreset = 1
	AAUDIO_INPUT_PRESET_CAMCORDER             InputPreset = 5
	AAUDIO_INPUT_PRESET_VOICE_RECOGNITION     InputPreset = 6
	AAUDIO_INPUT_PRESET_VOICE_COMMUNICATION   InputPreset = 7
	AAUDIO_INPUT_PRESET_UNPROCESSED           InputPreset = 9
	AAUDIO_INPUT_PRESET_VOICE_PERFORMANCE     InputPreset = 10
	AAUDIO_INPUT_PRESET_SYSTEM_ECHO_REFERENCE InputPreset = 1997
	AAUDIO_INPUT_PRESET_SYSTEM_HOTWORD        InputPreset = 1999
)

// AllowedCapturePolicy controls whether other applications may capture the output of a stream.
type AllowedCapturePolicy int32

const (
	AAUDIO_ALLOW_CAPTURE_BY_ALL    AllowedCapturePolicy = 1
	AAUDIO_ALLOW_CAPTURE_BY_SYSTEM AllowedCapturePolicy = 2
	AAUDIO_ALLOW_CAPTURE_BY_NONE   AllowedCapturePolicy = 3
)

// SpatializationBehavior controls whether the output of a stream may be spatialized.
type SpatializationBehavior int32

const (
	AAUDIO_SPATIALIZATION_BEHAVIOR_AUTO  SpatializationBehavior = 1
	AAUDIO_SPATIALIZATION_BEHAVIOR_NEVER SpatializationBehavior = 2
)

// SessionID identifies an audio session used to attach effects to a stream.
// Values above zero are session ids allocated by the audio server.
type SessionID int32

const (
	// AAUDIO_SESSION_ID_NONE means the stream has no session.
	AAUDIO_SESSION_ID_NONE SessionID = -1
	// AAUDIO_SESSION_ID_ALLOCATE asks AAudio to allocate a session id when the stream is opened.
	AAUDIO_SESSION_ID_ALLOCATE SessionID = 0
)

// CallbackResult is returned by a data callback to tell AAudio whether to keep calling it.
type CallbackResult int32

const (
	AAUDIO_CALLBACK_RESULT_CONTINUE CallbackResult = 0
	AAUDIO_CALLBACK_RESULT_STOP     CallbackResult = 1
)

// StreamStateNames provides human-readable names for stream states.
var StreamStateNames = map[StreamState]string{
	AAUDIO_STREAM_STATE_UNINITIALIZED: "UNINITIALIZED",
	AAUDIO_STREAM_STATE_UNKNOWN:       "UNKNOWN",
	AAUDIO_STREAM_STATE_OPEN:          "OPEN",
	AAUDIO_STREAM_STATE_STARTING:      "STARTING",
	AAUDIO_STREAM_STATE_STARTED:       "STARTED",
	AAUDIO_STREAM_STATE_PAUSING:       "PAUSING",
	AAUDIO_STREAM_STATE_PAUSED:        "PAUSED",
	AAUDIO_STREAM_STATE_FLUSHING:      "FLUSHING",
	AAUDIO_STREAM_STATE_FLUSHED:       "FLUSHED",
	AAUDIO_STREAM_STATE_STOPPING:      "STOPPING",
	AAUDIO_STREAM_STATE_STOPPED:       "STOPPED",
	AAUDIO_STREAM_STATE_CLOSING:       "CLOSING",
	AAUDIO_STREAM_STATE_CLOSED:        "CLOSED",
	AAUDIO_STREAM_STATE_DISCONNECTED:  "DISCONNECTED",
}

// FormatNames provides human-readable names for sample formats.
var FormatNames = map[Format]string{
	AAUDIO_FORMAT_INVALID:        "INVALID",
	AAUDIO_FORMAT_UNSPECIFIED:    "UNSPECIFIED",
	AAUDIO_FORMAT_PCM_I16:        "PCM_I16",
	AAUDIO_FORMAT_PCM_FLOAT:      "PCM_FLOAT",
	AAUDIO_FORMAT_PCM_I24_PACKED: "PCM_I24_PACKED",
	AAUDIO_FORMAT_PCM_I32:        "PCM_I32",
	AAUDIO_FORMAT_IEC61937:       "IEC61937",
}

// DirectionNames provides human-readable names for stream directions.
var DirectionNames = map[Direction]string{
	AAUDIO_DIRECTION_OUTPUT: "OUTPUT",
	AAUDIO_DIRECTION_INPUT:  "INPUT",
}

// SharingModeNames provides human-readable names for sharing modes.
var SharingModeNames = map[SharingMode]string{
	AAUDIO_SHARING_MODE_EXCLUSIVE: "EXCLUSIVE",
	AAUDIO_SHARING_MODE_SHARED:    "SHARED",
}

// PerformanceModeNames provides human-readable names for performance modes.
var PerformanceModeNames = map[PerformanceMode]string{
	AAUDIO_PERFORMANCE_MODE_NONE:         "NONE",
	AAUDIO_PERFORMANCE_MODE_POWER_SAVING: "POWER_SAVING",
	AAUDIO_PERFORMANCE_MODE_LOW_LATENCY:  "LOW_LATENCY",
}

// UsageNames provides human-readable names for usages.
var UsageNames = map[Usage]string{
	AAUDIO_USAGE_MEDIA:                          "MEDIA",
	AAUDIO_USAGE_VOICE_COMMUNICATION:            "VOICE_COMMUNICATION",
	AAUDIO_USAGE_VOICE_COMMUNICATION_SIGNALLING: "VOICE_COMMUNICATION_SIGNALLING",
	AAUDIO_USAGE_ALARM:                          "ALARM",
	AAUDIO_USAGE_NOTIFICATION:                   "NOTIFICATION",
	AAUDIO_USAGE_NOTIFICATION_RINGTONE:          "NOTIFICATION_RINGTONE",
	AAUDIO_USAGE_NOTIFICATION_EVENT:             "NOTIFICATION_EVENT",
	AAUDIO_USAGE_ASSISTANCE_ACCESSIBILITY:       "ASSISTANCE_ACCESSIBILITY",
	AAUDIO_USAGE_ASSISTANCE_NAVIGATION_GUIDANCE: "ASSISTANCE_NAVIGATION_GUIDANCE",
	AAUDIO_USAGE_ASSISTANCE_SONIFICATION:        "ASSISTANCE_SONIFICATION",
	AAUDIO_USAGE_GAME:                           "GAME",
	AAUDIO_USAGE_ASSISTANT:                      "ASSISTANT",
	AAUDIO_SYSTEM_USAGE_EMERGENCY:               "EMERGENCY",
	AAUDIO_SYSTEM_USAGE_SAFETY:                  "SAFETY",
	AAUDIO_SYSTEM_USAGE_VEHICLE_STATUS:          "VEHICLE_STATUS",
	AAUDIO_SYSTEM_USAGE_ANNOUNCEMENT:            "ANNOUNCEMENT",
}

// ContentTypeNames provides human-readable names for content types.
var ContentTypeNames = map[ContentType]string{
	AAUDIO_CONTENT_TYPE_SPEECH:       "SPEECH",
	AAUDIO_CONTENT_TYPE_MUSIC:        "MUSIC",
	AAUDIO_CONTENT_TYPE_MOVIE:        "MOVIE",
	AAUDIO_CONTENT_TYPE_SONIFICATION: "SONIFICATION",
}

// InputPresetNames provides human-readable names for input presets.
var InputPresetNames = map[InputPreset]string{
	AAUDIO_INPUT_PRESET_GENERIC:               "GENERIC",
	AAUDIO_INPUT_PRESET_CAMCORDER:             "CAMCORDER",
	AAUDIO_INPUT_PRESET_VOICE_RECOGNITION:     "VOICE_RECOGNITION",
	AAUDIO_INPUT_PRESET_VOICE_COMMUNICATION:   "VOICE_COMMUNICATION",
	AAUDIO_INPUT_PRESET_UNPROCESSED:           "UNPROCESSED",
	AAUDIO_INPUT_PRESET_VOICE_PERFORMANCE:     "VOICE_PERFORMANCE",
	AAUDIO_INPUT_PRESET_SYSTEM_ECHO_REFERENCE: "SYSTEM_ECHO_REFERENCE",
	AAUDIO_INPUT_PRESET_SYSTEM_HOTWORD:        "SYSTEM_HOTWORD",
}

// AllowedCapturePolicyNames provides human-readable names for capture policies.
var AllowedCapturePolicyNames = map[AllowedCapturePolicy]string{
	AAUDIO_ALLOW_CAPTURE_BY_ALL:    "ALL",
	AAUDIO_ALLOW_CAPTURE_BY_SYSTEM: "SYSTEM",
	AAUDIO_ALLOW_CAPTURE_BY_NONE:   "NONE",
}

// SpatializationBehaviorNames provides human-readable names for spatialization behaviors.
var SpatializationBehaviorNames = map[SpatializationBehavior]string{
	AAUDIO_SPATIALIZATION_BEHAVIOR_AUTO:  "AUTO",
	AAUDIO_SPATIALIZATION_BEHAVIOR_NEVER: "NEVER",
}

// SessionIDNames provides names for the session id sentinels.
var SessionIDNames = map[SessionID]string{
	AAUDIO_SESSION_ID_NONE:     "NONE",
	AAUDIO_SESSION_ID_ALLOCATE: "ALLOCATE",
}

// CallbackResultNames provides human-readable names for data callback results.
var CallbackResultNames = map[CallbackResult]string{
	AAUDIO_CALLBACK_RESULT_CONTINUE: "CONTINUE",
	AAUDIO_CALLBACK_RESULT_STOP:     "STOP",
}
