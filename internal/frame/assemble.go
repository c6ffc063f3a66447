package frame

import "github.com/AlexandreRouma/vhf-framing/internal/bits"

// Assemble packs the supplied fields into a complete frame bit sequence,
// starting from the blank template for t. payload is 52 bits MSB-first
// packed; proto, when non-nil, is 20 bits MSB-first packed; sideChannel,
// when non-nil, is 2 raw bit values.
//
// Write order is side channel, then protocol, then payload: the last
// 2 protocol bits share frame positions with the side channel, and a
// supplied protocol field deliberately overwrites them. Absent optional
// fields leave the template's default bits in place.
func Assemble(t FrameType, payload [PayloadBytes]byte, proto *[ProtocolBytes]byte, sideChannel *[SideChannelBits]byte) (bits.Bits, error) {
	lay, err := LayoutFor(t)
	if err != nil {
		return nil, err
	}

	out := make(bits.Bits, lay.FrameBits)
	copy(out, lay.Blank)

	if sideChannel != nil {
		out[lay.SideChannel.Offset] = sideChannel[0] & 1
		out[lay.SideChannel.Offset+1] = sideChannel[1] & 1
	}
	if proto != nil {
		writeRanges(out, lay.Protocol, proto[:])
	}
	writeRanges(out, lay.Payload, payload[:])

	return out, nil
}

// writeRanges unpacks packed MSB-first and writes its bits across the
// ranges in order, consuming consecutive source bits.
func writeRanges(dst bits.Bits, ranges []Range, packed []byte) {
	i := 0
	for _, r := range ranges {
		for j := 0; j < r.Length; j++ {
			dst[r.Offset+j] = bits.At(packed, i)
			i++
		}
	}
}
