package frame

import (
	"fmt"

	"github.com/AlexandreRouma/vhf-framing/internal/bits"
)

// FrameType identifies one of the supported structural frame layouts.
type FrameType uint8

const (
	// TypeA is the 96-bit frame: 52 codec bits, 20 protocol bits
	// (the last 2 shared with the side channel), a 16-bit unique word
	// and 8 padding bits.
	TypeA FrameType = iota
)

// Field sizes for Type A.
const (
	TypeABits = 96 // total frame length in bits

	PayloadBits  = 52
	PayloadBytes = 7 // 52 bits MSB-first packed

	ProtocolBits  = 20
	ProtocolBytes = 3 // 20 bits MSB-first packed

	SideChannelBits = 2
)

// ErrUnsupportedFrameType is returned when a layout lookup or a
// constructor is handed a FrameType this package does not know.
var ErrUnsupportedFrameType = fmt.Errorf("frame: unsupported frame type")

// Range describes a contiguous run of bits inside a frame.
type Range struct {
	Offset int // first bit index, 0-based
	Length int // number of bits
}

// Layout holds the immutable structural constants of one frame type.
// Layouts are process-wide, read-only after init, and safe to share.
type Layout struct {
	Type      FrameType
	FrameBits int // total bits per frame

	UW       bits.Bits // unique word pattern
	UWOffset int       // bit offset of the UW within the frame

	Blank bits.Bits // blank frame template, assembly starting point

	Payload     []Range // codec payload, filled in range order
	Protocol    []Range // protocol field, filled in range order
	SideChannel Range   // overlaps the tail of the last protocol range
	Padding     []Range // fixed template bits, never written by callers

	// Unique-word matching parameters.
	UWFirstTolerance int // max UW bit errors to acquire sync
	UWSyncTolerance  int // max UW bit errors to hold sync clean
	MissTolerance    int // consecutive UW misses allowed before sync drops
}

// String returns the conventional name of the frame type.
func (t FrameType) String() string {
	switch t {
	case TypeA:
		return "A"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

var typeAUW = bits.Bits{
	0, 1, 1, 0, 0, 1, 1, 1,
	1, 0, 1, 0, 1, 1, 0, 1,
}

var typeABlank = bits.Bits{
	1, 0, 1, 0, 0, 1, 1, 1, // padding 0:4, protocol bits 0:4
	1, 0, 1, 0, 0, 1, 1, 1, // protocol bits 4:12
	0, 0, 0, 0, 0, 0, 0, 0, // payload bits 0:8
	0, 0, 0, 0, 0, 0, 0, 0, // payload bits 8:16
	0, 0, 0, 0, 0, 0, 0, 0, // payload bits 16:24
	0, 1, 1, 0, 0, 1, 1, 1, // UW bits 0:8
	1, 0, 1, 0, 1, 1, 0, 1, // UW bits 8:16
	0, 0, 0, 0, 0, 0, 0, 0, // payload bits 24:32
	0, 0, 0, 0, 0, 0, 0, 0, // payload bits 32:40
	0, 0, 0, 0, 0, 0, 0, 0, // payload bits 40:48
	0, 0, 0, 0, 0, 0, 1, 0, // payload bits 48:52, protocol bits 12:16
	0, 1, 1, 1, 0, 0, 1, 0, // protocol bits 16:20, padding 4:8
}

var typeALayout = Layout{
	Type:      TypeA,
	FrameBits: TypeABits,
	UW:        typeAUW,
	UWOffset:  40,
	Blank:     typeABlank,
	Payload: []Range{
		{Offset: 16, Length: 24},
		{Offset: 56, Length: 28},
	},
	Protocol: []Range{
		{Offset: 4, Length: 12},
		{Offset: 84, Length: 8},
	},
	SideChannel: Range{Offset: 90, Length: 2},
	Padding: []Range{
		{Offset: 0, Length: 4},
		{Offset: 92, Length: 4},
	},
	UWFirstTolerance: 2,
	UWSyncTolerance:  1,
	MissTolerance:    2,
}

// LayoutFor returns the layout table for t. Unsupported types are an
// error, never a default.
func LayoutFor(t FrameType) (*Layout, error) {
	switch t {
	case TypeA:
		return &typeALayout, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFrameType, t)
	}
}
