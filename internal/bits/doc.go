// Package bits provides the one-bit-per-element representation used across
// the framing code. A Bits value holds hard bit decisions from the slicer,
// one bit per byte, together with MSB-first pack/unpack conversions to and
// from byte-aligned field arrays.
package bits
