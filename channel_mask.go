package aaudio

import (
	"math/bits"
	"strconv"
	"strings"
)

// ChannelMask describes the channel layout of a stream as a bit set of speaker positions.
// The native type is uint32; AAUDIO_CHANNEL_INVALID is all bits set.
type ChannelMask int32

const (
	AAUDIO_CHANNEL_INVALID ChannelMask = -1

	AAUDIO_CHANNEL_FRONT_LEFT            ChannelMask = 1 << 0
	AAUDIO_CHANNEL_FRONT_RIGHT           ChannelMask = 1 << 1
	AAUDIO_CHANNEL_FRONT_CENTER          ChannelMask = 1 << 2
	AAUDIO_CHANNEL_LOW_FREQUENCY         ChannelMask = 1 << 3
	AAUDIO_CHANNEL_BACK_LEFT             ChannelMask = 1 << 4
	AAUDIO_CHANNEL_BACK_RIGHT            ChannelMask = 1 << 5
	AAUDIO_CHANNEL_FRONT_LEFT_OF_CENTER  ChannelMask = 1 << 6
	AAUDIO_CHANNEL_FRONT_RIGHT_OF_CENTER ChannelMask = 1 << 7
	AAUDIO_CHANNEL_BACK_CENTER           ChannelMask = 1 << 8
	AAUDIO_CHANNEL_SIDE_LEFT             ChannelMask = 1 << 9
	AAUDIO_CHANNEL_SIDE_RIGHT            ChannelMask = 1 << 10
	AAUDIO_CHANNEL_TOP_CENTER            ChannelMask = 1 << 11
	AAUDIO_CHANNEL_TOP_FRONT_LEFT        ChannelMask = 1 << 12
	AAUDIO_CHANNEL_TOP_FRONT_CENTER      ChannelMask = 1 << 13
	AAUDIO_CHANNEL_TOP_FRONT_RIGHT       ChannelMask = 1 << 14
	AAUDIO_CHANNEL_TOP_BACK_LEFT         ChannelMask = 1 << 15
	AAUDIO_CHANNEL_TOP_BACK_CENTER       ChannelMask = 1 << 16
	AAUDIO_CHANNEL_TOP_BACK_RIGHT        ChannelMask = 1 << 17
	AAUDIO_CHANNEL_TOP_SIDE_LEFT         ChannelMask = 1 << 18
	AAUDIO_CHANNEL_TOP_SIDE_RIGHT        ChannelMask = 1 << 19
	AAUDIO_CHANNEL_BOTTOM_FRONT_LEFT     ChannelMask = 1 << 20
	AAUDIO_CHANNEL_BOTTOM_FRONT_CENTER   ChannelMask = 1 << 21
	AAUDIO_CHANNEL_BOTTOM_FRONT_RIGHT    ChannelMask = 1 << 22
	AAUDIO_CHANNEL_LOW_FREQUENCY_2       ChannelMask = 1 << 23
	AAUDIO_CHANNEL_FRONT_WIDE_LEFT       ChannelMask = 1 << 24
	AAUDIO_CHANNEL_FRONT_WIDE_RIGHT      ChannelMask = 1 << 25

	channelPositionBits = 26
	channelPositionMask = ChannelMask(1<<channelPositionBits - 1)
)

// Named layouts.
const (
	AAUDIO_CHANNEL_MONO          = AAUDIO_CHANNEL_FRONT_LEFT
	AAUDIO_CHANNEL_STEREO        = AAUDIO_CHANNEL_FRONT_LEFT | AAUDIO_CHANNEL_FRONT_RIGHT
	AAUDIO_CHANNEL_2POINT1       = AAUDIO_CHANNEL_STEREO | AAUDIO_CHANNEL_LOW_FREQUENCY
	AAUDIO_CHANNEL_TRI           = AAUDIO_CHANNEL_STEREO | AAUDIO_CHANNEL_FRONT_CENTER
	AAUDIO_CHANNEL_TRI_BACK      = AAUDIO_CHANNEL_STEREO | AAUDIO_CHANNEL_BACK_CENTER
	AAUDIO_CHANNEL_3POINT1       = AAUDIO_CHANNEL_TRI | AAUDIO_CHANNEL_LOW_FREQUENCY
	AAUDIO_CHANNEL_2POINT0POINT2 = AAUDIO_CHANNEL_STEREO | AAUDIO_CHANNEL_TOP_SIDE_LEFT | AAUDIO_CHANNEL_TOP_SIDE_RIGHT
	AAUDIO_CHANNEL_2POINT1POINT2 = AAUDIO_CHANNEL_2POINT0POINT2 | AAUDIO_CHANNEL_LOW_FREQUENCY
	AAUDIO_CHANNEL_3POINT0POINT2 = AAUDIO_CHANNEL_TRI | AAUDIO_CHANNEL_TOP_SIDE_LEFT | AAUDIO_CHANNEL_TOP_SIDE_RIGHT
	AAUDIO_CHANNEL_3POINT1POINT2 = AAUDIO_CHANNEL_3POINT0POINT2 | AAUDIO_CHANNEL_LOW_FREQUENCY
	AAUDIO_CHANNEL_QUAD          = AAUDIO_CHANNEL_STEREO | AAUDIO_CHANNEL_BACK_LEFT | AAUDIO_CHANNEL_BACK_RIGHT
	AAUDIO_CHANNEL_QUAD_SIDE     = AAUDIO_CHANNEL_STEREO | AAUDIO_CHANNEL_SIDE_LEFT | AAUDIO_CHANNEL_SIDE_RIGHT
	AAUDIO_CHANNEL_SURROUND      = AAUDIO_CHANNEL_TRI | AAUDIO_CHANNEL_BACK_CENTER
	AAUDIO_CHANNEL_PENTA         = AAUDIO_CHANNEL_QUAD | AAUDIO_CHANNEL_FRONT_CENTER
	AAUDIO_CHANNEL_5POINT1       = AAUDIO_CHANNEL_QUAD | AAUDIO_CHANNEL_FRONT_CENTER | AAUDIO_CHANNEL_LOW_FREQUENCY
	AAUDIO_CHANNEL_5POINT1_SIDE  = AAUDIO_CHANNEL_QUAD_SIDE | AAUDIO_CHANNEL_FRONT_CENTER | AAUDIO_CHANNEL_LOW_FREQUENCY
	AAUDIO_CHANNEL_6POINT1       = AAUDIO_CHANNEL_5POINT1 | AAUDIO_CHANNEL_BACK_CENTER
	AAUDIO_CHANNEL_7POINT1       = AAUDIO_CHANNEL_5POINT1 | AAUDIO_CHANNEL_SIDE_LEFT | AAUDIO_CHANNEL_SIDE_RIGHT
	AAUDIO_CHANNEL_5POINT1POINT2 = AAUDIO_CHANNEL_5POINT1 | AAUDIO_CHANNEL_TOP_SIDE_LEFT | AAUDIO_CHANNEL_TOP_SIDE_RIGHT
	AAUDIO_CHANNEL_5POINT1POINT4 = AAUDIO_CHANNEL_5POINT1 | AAUDIO_CHANNEL_TOP_FRONT_LEFT | AAUDIO_CHANNEL_TOP_FRONT_RIGHT |
		AAUDIO_CHANNEL_TOP_BACK_LEFT | AAUDIO_CHANNEL_TOP_BACK_RIGHT
	AAUDIO_CHANNEL_7POINT1POINT2 = AAUDIO_CHANNEL_7POINT1 | AAUDIO_CHANNEL_TOP_SIDE_LEFT | AAUDIO_CHANNEL_TOP_SIDE_RIGHT
	AAUDIO_CHANNEL_7POINT1POINT4 = AAUDIO_CHANNEL_7POINT1 | AAUDIO_CHANNEL_TOP_FRONT_LEFT | AAUDIO_CHANNEL_TOP_FRONT_RIGHT |
		AAUDIO_CHANNEL_TOP_BACK_LEFT | AAUDIO_CHANNEL_TOP_BACK_RIGHT
	AAUDIO_CHANNEL_9POINT1POINT4 = AAUDIO_CHANNEL_7POINT1POINT4 | AAUDIO_CHANNEL_FRONT_WIDE_LEFT | AAUDIO_CHANNEL_FRONT_WIDE_RIGHT
	AAUDIO_CHANNEL_9POINT1POINT6 = AAUDIO_CHANNEL_9POINT1POINT4 | AAUDIO_CHANNEL_TOP_SIDE_LEFT | AAUDIO_CHANNEL_TOP_SIDE_RIGHT
	AAUDIO_CHANNEL_FRONT_BACK    = AAUDIO_CHANNEL_FRONT_CENTER | AAUDIO_CHANNEL_BACK_CENTER
)

// ChannelPositionNames names each single speaker position bit.
var ChannelPositionNames = map[ChannelMask]string{
	AAUDIO_CHANNEL_FRONT_LEFT:            "FRONT_LEFT",
	AAUDIO_CHANNEL_FRONT_RIGHT:           "FRONT_RIGHT",
	AAUDIO_CHANNEL_FRONT_CENTER:          "FRONT_CENTER",
	AAUDIO_CHANNEL_LOW_FREQUENCY:         "LOW_FREQUENCY",
	AAUDIO_CHANNEL_BACK_LEFT:             "BACK_LEFT",
	AAUDIO_CHANNEL_BACK_RIGHT:            "BACK_RIGHT",
	AAUDIO_CHANNEL_FRONT_LEFT_OF_CENTER:  "FRONT_LEFT_OF_CENTER",
	AAUDIO_CHANNEL_FRONT_RIGHT_OF_CENTER: "FRONT_RIGHT_OF_CENTER",
	AAUDIO_CHANNEL_BACK_CENTER:           "BACK_CENTER",
	AAUDIO_CHANNEL_SIDE_LEFT:             "SIDE_LEFT",
	AAUDIO_CHANNEL_SIDE_RIGHT:            "SIDE_RIGHT",
	AAUDIO_CHANNEL_TOP_CENTER:            "TOP_CENTER",
	AAUDIO_CHANNEL_TOP_FRONT_LEFT:        "TOP_FRONT_LEFT",
	AAUDIO_CHANNEL_TOP_FRONT_CENTER:      "TOP_FRONT_CENTER",
	AAUDIO_CHANNEL_TOP_FRONT_RIGHT:       "TOP_FRONT_RIGHT",
	AAUDIO_CHANNEL_TOP_BACK_LEFT:         "TOP_BACK_LEFT",
	AAUDIO_CHANNEL_TOP_BACK_CENTER:       "TOP_BACK_CENTER",
	AAUDIO_CHANNEL_TOP_BACK_RIGHT:        "TOP_BACK_RIGHT",
	AAUDIO_CHANNEL_TOP_SIDE_LEFT:         "TOP_SIDE_LEFT",
	AAUDIO_CHANNEL_TOP_SIDE_RIGHT:        "TOP_SIDE_RIGHT",
	AAUDIO_CHANNEL_BOTTOM_FRONT_LEFT:     "BOTTOM_FRONT_LEFT",
	AAUDIO_CHANNEL_BOTTOM_FRONT_CENTER:   "BOTTOM_FRONT_CENTER",
	AAUDIO_CHANNEL_BOTTOM_FRONT_RIGHT:    "BOTTOM_FRONT_RIGHT",
	AAUDIO_CHANNEL_LOW_FREQUENCY_2:       "LOW_FREQUENCY_2",
	AAUDIO_CHANNEL_FRONT_WIDE_LEFT:       "FRONT_WIDE_LEFT",
	AAUDIO_CHANNEL_FRONT_WIDE_RIGHT:      "FRONT_WIDE_RIGHT",
}

// ChannelLayoutNames names the predefined layouts. MONO shares its value with FRONT_LEFT.
var ChannelLayoutNames = map[ChannelMask]string{
	AAUDIO_CHANNEL_INVALID:       "INVALID",
	AAUDIO_UNSPECIFIED:           "UNSPECIFIED",
	AAUDIO_CHANNEL_MONO:          "MONO",
	AAUDIO_CHANNEL_STEREO:        "STEREO",
	AAUDIO_CHANNEL_2POINT1:       "2POINT1",
	AAUDIO_CHANNEL_TRI:           "TRI",
	AAUDIO_CHANNEL_TRI_BACK:      "TRI_BACK",
	AAUDIO_CHANNEL_3POINT1:       "3POINT1",
	AAUDIO_CHANNEL_2POINT0POINT2: "2POINT0POINT2",
	AAUDIO_CHANNEL_2POINT1POINT2: "2POINT1POINT2",
	AAUDIO_CHANNEL_3POINT0POINT2: "3POINT0POINT2",
	AAUDIO_CHANNEL_3POINT1POINT2: "3POINT1POINT2",
	AAUDIO_CHANNEL_QUAD:          "QUAD",
	AAUDIO_CHANNEL_QUAD_SIDE:     "QUAD_SIDE",
	AAUDIO_CHANNEL_SURROUND:      "SURROUND",
	AAUDIO_CHANNEL_PENTA:         "PENTA",
	AAUDIO_CHANNEL_5POINT1:       "5POINT1",
	AAUDIO_CHANNEL_5POINT1_SIDE:  "5POINT1_SIDE",
	AAUDIO_CHANNEL_6POINT1:       "6POINT1",
	AAUDIO_CHANNEL_7POINT1:       "7POINT1",
	AAUDIO_CHANNEL_5POINT1POINT2: "5POINT1POINT2",
	AAUDIO_CHANNEL_5POINT1POINT4: "5POINT1POINT4",
	AAUDIO_CHANNEL_7POINT1POINT2: "7POINT1POINT2",
	AAUDIO_CHANNEL_7POINT1POINT4: "7POINT1POINT4",
	AAUDIO_CHANNEL_9POINT1POINT4: "9POINT1POINT4",
	AAUDIO_CHANNEL_9POINT1POINT6: "9POINT1POINT6",
	AAUDIO_CHANNEL_FRONT_BACK:    "FRONT_BACK",
}

// Channels returns the number of channels in the mask, or 0 for INVALID.
func (m ChannelMask) Channels() int {
	if m == AAUDIO_CHANNEL_INVALID {
		return 0
	}

	return bits.OnesCount32(uint32(m))
}

// Has reports whether every position in p is set in m.
func (m ChannelMask) Has(p ChannelMask) bool {
	return m != AAUDIO_CHANNEL_INVALID && m&p == p
}

// String returns the layout name, or the set positions joined with '|'.
func (m ChannelMask) String() string {
	if s, ok := ChannelLayoutNames[m]; ok {
		return s
	}

	if m&^channelPositionMask != 0 {
		return "ChannelMask(0x" + strconv.FormatUint(uint64(uint32(m)), 16) + ")"
	}

	var parts []string
	for i := 0; i < channelPositionBits; i++ {
		if bit := ChannelMask(1 << i); m&bit != 0 {
			parts = append(parts, ChannelPositionNames[bit])
		}
	}

	return strings.Join(parts, "|")
}

// ChannelMaskFromValue accepts INVALID, UNSPECIFIED and any combination of known position bits.
func ChannelMaskFromValue(v int32) (ChannelMask, error) {
	m := ChannelMask(v)
	if m == AAUDIO_CHANNEL_INVALID || m&^channelPositionMask == 0 {
		return m, nil
	}

	return 0, &UnknownValueError{Kind: "ChannelMask", Value: int64(v)}
}
