// Package frame implements the fixed-layout VHF digital-voice frame:
// the per-type layout tables, the assembler that packs codec, protocol
// and side-channel fields into a transmittable bit sequence, and the
// deframer that recovers frame alignment from a raw sliced bitstream
// using unique-word matching with bit-error tolerance and miss hysteresis.
package frame
