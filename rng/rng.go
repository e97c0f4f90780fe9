// Package rng provides a deterministic byte stream that can serve as the
// bigint.Source the engine takes wherever it needs randomness: jump-table
// permutations and scalar sampling (spec component C7). No package in this
// module imports it; every consumer takes its Source as a parameter.
// It follows the HMAC-DRBG construction from RFC 6979 §3.2 — the same
// update/generate state machine as the teacher's RFC6979HMACSHA256 in
// hash.go — rekeyed from a caller-supplied seed rather than a private
// key and message digest, since this engine has no signing context to
// derive a nonce from.
package rng

import (
	"crypto/hmac"
	"encoding/binary"

	sha256simd "github.com/minio/sha256-simd"
)

// DRBG is an HMAC-SHA256 deterministic random bit generator: the V/K
// state pair from RFC 6979 §3.2, advanced by update when seeded and
// before every Generate call after the first, per §3.2.g/h.
type DRBG struct {
	v, k  [32]byte
	ready bool
}

// NewDRBG seeds a DRBG from seed (treated as the RFC 6979 "message"
// input) and an optional personalization string folded in as the
// "private key" input. Same seed and personalization always produce
// the same stream.
func NewDRBG(seed, personalization []byte) *DRBG {
	d := &DRBG{}
	for i := range d.v {
		d.v[i] = 0x01
	}
	for i := range d.k {
		d.k[i] = 0x00
	}
	d.update(personalization, seed, 0x00)
	d.update(personalization, seed, 0x01)
	return d
}

// update performs one RFC 6979 §3.2.d/f step: K = HMAC_K(V || tag || key || extra),
// V = HMAC_K(V).
func (d *DRBG) update(key, extra []byte, tag byte) {
	mac := hmac.New(sha256simd.New, d.k[:])
	mac.Write(d.v[:])
	mac.Write([]byte{tag})
	mac.Write(key)
	mac.Write(extra)
	copy(d.k[:], mac.Sum(nil))

	mac = hmac.New(sha256simd.New, d.k[:])
	mac.Write(d.v[:])
	copy(d.v[:], mac.Sum(nil))
}

// Generate fills out with deterministic pseudorandom bytes per RFC
// 6979 §3.2.h, reseeding K/V between calls so successive Generate
// calls never repeat output.
func (d *DRBG) Generate(out []byte) {
	if d.ready {
		d.update(nil, nil, 0x00)
	}
	d.ready = true

	for len(out) > 0 {
		mac := hmac.New(sha256simd.New, d.k[:])
		mac.Write(d.v[:])
		copy(d.v[:], mac.Sum(nil))

		n := copy(out, d.v[:])
		out = out[n:]
	}
}

// Uint64 satisfies bigint.Source, drawing 8 fresh bytes per call.
func (d *DRBG) Uint64() uint64 {
	var buf [8]byte
	d.Generate(buf[:])
	return binary.BigEndian.Uint64(buf[:])
}
