package frame

import (
	"fmt"

	"github.com/AlexandreRouma/vhf-framing/internal/bits"
)

// Fields holds the data recovered from one frame. Payload and Protocol
// are MSB-first packed; SideChannel is 2 raw bit values, read at its
// fixed offset independently of the overlapping protocol bits.
type Fields struct {
	Payload     [PayloadBytes]byte
	Protocol    [ProtocolBytes]byte
	SideChannel [SideChannelBits]byte
}

// Extract reads frame fields out of ring relative to cursor, wrapping,
// assuming the oldest buffered bit sits exactly one frame behind the
// cursor. A nil destination skips that field entirely. ring must hold
// exactly one frame's worth of bits for t.
func Extract(ring bits.Bits, cursor int, t FrameType, payload *[PayloadBytes]byte, proto *[ProtocolBytes]byte, sideChannel *[SideChannelBits]byte) error {
	lay, err := LayoutFor(t)
	if err != nil {
		return err
	}
	if len(ring) != lay.FrameBits {
		return fmt.Errorf("frame: ring holds %d bits, type %s frame is %d", len(ring), t, lay.FrameBits)
	}
	if cursor < 0 || cursor >= lay.FrameBits {
		return fmt.Errorf("frame: cursor %d out of range [0,%d)", cursor, lay.FrameBits)
	}

	if payload != nil {
		packRanges(ring, cursor, lay.FrameBits, lay.Payload, payload[:])
	}
	if proto != nil {
		packRanges(ring, cursor, lay.FrameBits, lay.Protocol, proto[:])
	}
	if sideChannel != nil {
		readSideChannel(ring, cursor, lay, sideChannel)
	}
	return nil
}

// packRanges reads the ranges out of ring relative to cursor, wrapping,
// and packs their bits MSB-first into out.
func packRanges(ring bits.Bits, cursor, frameBits int, ranges []Range, out []byte) {
	for i := range out {
		out[i] = 0
	}
	i := 0
	for _, r := range ranges {
		pos := cursor + r.Offset
		if pos >= frameBits {
			pos -= frameBits
		}
		for j := 0; j < r.Length; j++ {
			out[i>>3] |= (ring[pos] & 1) << (7 - uint(i&7))
			i++
			pos++
			if pos == frameBits {
				pos = 0
			}
		}
	}
}

func readSideChannel(ring bits.Bits, cursor int, lay *Layout, out *[SideChannelBits]byte) {
	pos := cursor + lay.SideChannel.Offset
	if pos >= lay.FrameBits {
		pos -= lay.FrameBits
	}
	for i := range out {
		out[i] = ring[pos] & 1
		pos++
		if pos == lay.FrameBits {
			pos = 0
		}
	}
}
