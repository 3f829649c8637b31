package cache

import (
	"hash/fnv"
	"strconv"
)

// FingerprintBuilder accumulates the (feature kind, profile dimensions,
// params) tuple that identifies a cut solid and reduces it to a
// 32-bit rolling hash. FNV-1a is the standard library's rolling
// non-cryptographic hash (the same category as the maphash-based keys
// gioui.org/text.pathCache computes over glyph runs), and its 32-bit
// variant matches the key's 32-bit width exactly, so no additional
// hashing library is pulled in for this.
type FingerprintBuilder struct {
	h uint32 // fnv-1a running state, offset basis preloaded in NewFingerprint
}

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// NewFingerprint returns a builder ready to accumulate key components.
func NewFingerprint() *FingerprintBuilder {
	return &FingerprintBuilder{h: fnvOffset32}
}

// writeBytes folds b into the running hash, FNV-1a style.
func (b *FingerprintBuilder) writeBytes(data []byte) *FingerprintBuilder {
	h := b.h
	for _, c := range data {
		h ^= uint32(c)
		h *= fnvPrime32
	}
	b.h = h
	return b
}

// String folds s into the fingerprint.
func (b *FingerprintBuilder) String(s string) *FingerprintBuilder {
	return b.writeBytes([]byte(s)).writeBytes([]byte{0}) // NUL-separate fields
}

// Float64 folds f into the fingerprint, rounded to six decimal places so
// that floating-point jitter in repeated calls with "the same" geometric
// parameters does not change the key.
func (b *FingerprintBuilder) Float64(f float64) *FingerprintBuilder {
	return b.String(strconv.FormatFloat(f, 'f', 6, 64))
}

// Int folds i into the fingerprint.
func (b *FingerprintBuilder) Int(i int) *FingerprintBuilder {
	return b.String(strconv.Itoa(i))
}

// Sum returns the accumulated fingerprint.
func (b *FingerprintBuilder) Sum() Key {
	return Key(b.h)
}

// sumFNV is used by tests that want a reference value computed the
// straightforward way, via the standard library's own fnv.New32a.
func sumFNV(parts ...string) Key {
	h := fnv.New32a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return Key(h.Sum32())
}
