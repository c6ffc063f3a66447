package sim

import (
	"math/rand"

	"github.com/AlexandreRouma/vhf-framing/internal/bits"
	"github.com/AlexandreRouma/vhf-framing/internal/frame"
)

// Transmission is one simulated over-the-air frame together with the
// fields a clean receiver should recover from it.
type Transmission struct {
	Bits        bits.Bits    // frame bits after channel impairments
	Sent        frame.Fields // fields a clean extraction returns
	FlippedBits int          // random bit errors injected
	CorruptedUW bool         // unique word deliberately destroyed
}

// Source generates the transmit side of one simulated channel.
type Source struct {
	frameType    frame.FrameType
	layout       *frame.Layout
	rng          *rand.Rand
	ber          float64
	corruptRun   int
	corruptEvery int
	frameCount   int
}

// NewSource creates a frame source for one channel. ber is the per-bit
// flip probability; every corruptEvery frames a run of corruptRun
// frames gets its unique word inverted (corruptRun 0 disables bursts).
func NewSource(t frame.FrameType, ber float64, corruptRun, corruptEvery int, rng *rand.Rand) (*Source, error) {
	lay, err := frame.LayoutFor(t)
	if err != nil {
		return nil, err
	}
	return &Source{
		frameType:    t,
		layout:       lay,
		rng:          rng,
		ber:          ber,
		corruptRun:   corruptRun,
		corruptEvery: corruptEvery,
	}, nil
}

// LeadIn returns n random garbage bits, the noise a receiver sees
// before the transmitter keys up.
func (s *Source) LeadIn(n int) bits.Bits {
	out := make(bits.Bits, n)
	for i := range out {
		out[i] = byte(s.rng.Intn(2))
	}
	return out
}

// NextFrame assembles a frame from fresh random field data and applies
// the configured channel impairments.
func (s *Source) NextFrame() (Transmission, error) {
	var payload [frame.PayloadBytes]byte
	var proto [frame.ProtocolBytes]byte
	var sideChannel [frame.SideChannelBits]byte

	s.rng.Read(payload[:])
	s.rng.Read(proto[:])
	sideChannel[0] = byte(s.rng.Intn(2))
	sideChannel[1] = byte(s.rng.Intn(2))

	// Bits past the field widths are never transmitted; zero them so
	// the sent fields compare equal to a clean extraction.
	payload[frame.PayloadBytes-1] &= 0xF0
	proto[frame.ProtocolBytes-1] &= 0xF0

	fb, err := frame.Assemble(s.frameType, payload, &proto, &sideChannel)
	if err != nil {
		return Transmission{}, err
	}

	tx := Transmission{
		Bits: fb,
		Sent: frame.Fields{
			Payload:  payload,
			Protocol: proto,
			// Protocol wins the overlap on assembly, so the receiver's
			// side channel reads the protocol's last 2 bits.
			SideChannel: [frame.SideChannelBits]byte{
				bits.At(proto[:], frame.ProtocolBits-2),
				bits.At(proto[:], frame.ProtocolBits-1),
			},
		},
	}

	s.frameCount++
	if s.corruptRun > 0 && s.corruptEvery > 0 && s.frameCount%s.corruptEvery < s.corruptRun {
		for i := 0; i < len(s.layout.UW); i++ {
			tx.Bits[s.layout.UWOffset+i] ^= 1
		}
		tx.CorruptedUW = true
	}
	tx.FlippedBits = s.corrupt(tx.Bits)

	return tx, nil
}

// corrupt flips each bit with probability ber and returns the flip count.
func (s *Source) corrupt(fb bits.Bits) int {
	if s.ber <= 0 {
		return 0
	}
	flipped := 0
	for i := range fb {
		if s.rng.Float64() < s.ber {
			fb[i] ^= 1
			flipped++
		}
	}
	return flipped
}
