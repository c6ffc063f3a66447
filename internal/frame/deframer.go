package frame

import "github.com/AlexandreRouma/vhf-framing/internal/bits"

// SyncState is the deframer's lock state.
type SyncState uint8

const (
	Unsynchronized SyncState = iota
	Synchronized
)

// String returns the lock state name.
func (s SyncState) String() string {
	switch s {
	case Unsynchronized:
		return "unsynchronized"
	case Synchronized:
		return "synchronized"
	default:
		return "invalid"
	}
}

// Deframer recovers frame alignment from a continuous stream of sliced
// bits. It keeps the most recent frame's worth of bits in a ring buffer
// and hunts for the unique word at its expected offset; once locked it
// re-checks the UW once per frame and tolerates a bounded run of misses
// before giving the lock up.
//
// A Deframer models one physical receive channel and is not safe for
// concurrent use without external serialization. The steady-state path
// performs no allocation; the ring is sized once at construction.
type Deframer struct {
	layout *Layout

	ring   bits.Bits // last FrameBits received bits, circular
	cursor int       // next ring slot to overwrite

	state     SyncState
	countdown int // bits since the last UW check while synchronized
	missCount int // consecutive UW misses while synchronized
}

// NewDeframer creates a deframer bound to one frame type. Unsupported
// types fail construction; every operation on a constructed Deframer
// is total.
func NewDeframer(t FrameType) (*Deframer, error) {
	lay, err := LayoutFor(t)
	if err != nil {
		return nil, err
	}
	return &Deframer{
		layout: lay,
		ring:   make(bits.Bits, lay.FrameBits),
	}, nil
}

// FrameType returns the frame type this deframer was built for.
func (d *Deframer) FrameType() FrameType { return d.layout.Type }

// FrameBits returns the frame length in bits.
func (d *Deframer) FrameBits() int { return d.layout.FrameBits }

// State returns the current lock state.
func (d *Deframer) State() SyncState { return d.state }

// Synchronized reports whether the deframer currently holds frame lock.
func (d *Deframer) Synchronized() bool { return d.state == Synchronized }

// PushBits feeds a batch of sliced bits through the deframer, one bit
// at a time in order, and reports whether any bit in the batch caused a
// frame extraction. When several extractions occur within one call only
// the final one's fields are returned; callers that need every frame
// should push batches of exactly FrameBits bits.
func (d *Deframer) PushBits(in bits.Bits) (Fields, bool) {
	var (
		fields    Fields
		extracted bool
	)
	for _, b := range in {
		d.ring[d.cursor] = b & 1
		d.cursor++
		if d.cursor == d.layout.FrameBits {
			d.cursor = 0
		}

		if d.state == Synchronized {
			d.countdown++
			if d.countdown < d.layout.FrameBits {
				continue
			}
			// The UW is due back at its expected offset. Check it, but
			// deliver the frame either way: lock survives up to
			// MissTolerance consecutive bad unique words, trading a few
			// possibly misaligned frames for robustness against
			// transient UW corruption.
			d.countdown = 0
			if d.matchUW(d.layout.UWSyncTolerance) {
				d.missCount = 0
			} else {
				d.missCount++
				if d.missCount > d.layout.MissTolerance {
					d.state = Unsynchronized
				}
			}
			fields = d.extract()
			extracted = true
		} else if d.matchUW(d.layout.UWFirstTolerance) {
			d.state = Synchronized
			d.countdown = 0
			d.missCount = 0
			fields = d.extract()
			extracted = true
		}
	}
	return fields, extracted
}

// matchUW compares the unique word against the ring window at its
// expected offset from the cursor, wrapping, within tol bit errors.
func (d *Deframer) matchUW(tol int) bool {
	lay := d.layout
	pos := d.cursor + lay.UWOffset
	if pos >= lay.FrameBits {
		pos -= lay.FrameBits
	}
	diff := 0
	for _, want := range lay.UW {
		if d.ring[pos] != want {
			diff++
		}
		pos++
		if pos == lay.FrameBits {
			pos = 0
		}
	}
	return diff <= tol
}

func (d *Deframer) extract() Fields {
	var f Fields
	lay := d.layout
	packRanges(d.ring, d.cursor, lay.FrameBits, lay.Payload, f.Payload[:])
	packRanges(d.ring, d.cursor, lay.FrameBits, lay.Protocol, f.Protocol[:])
	readSideChannel(d.ring, d.cursor, lay, &f.SideChannel)
	return f
}
