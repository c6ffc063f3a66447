// Package channel manages per-channel deframer sessions. One physical
// receive channel owns exactly one deframer; the manager routes sliced
// bit batches to the right session, serializes access, tracks per-channel
// statistics and reaps channels that have gone idle.
package channel
