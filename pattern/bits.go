package pattern

// Bit-sequence helpers. The transport layer delivers bits most significant
// first; these keep the library, the offline dictionary tooling, and the
// tests on the same convention.

// BitsOf expands the low `bits` bits of value into a 0/1 sample sequence,
// most significant bit first
func BitsOf(value byte, bits int) []byte {
	if bits < 1 {
		return []byte{}
	}
	if bits > 8 {
		bits = 8
	}

	out := make([]byte, bits)
	for i := 0; i < bits; i++ {
		out[i] = (value >> (bits - 1 - i)) & 1
	}
	return out
}

// ByteOf packs a 0/1 sample sequence (most significant bit first) back into
// a byte. Any nonzero sample counts as a one; at most the first 8 samples
// are used.
func ByteOf(bits []byte) byte {
	n := len(bits)
	if n > 8 {
		n = 8
	}

	var value byte
	for i := 0; i < n; i++ {
		value <<= 1
		if bits[i] != 0 {
			value |= 1
		}
	}
	return value
}

// Repeat concatenates `repetitions` copies of the bit pattern into one
// sample buffer
func Repeat(bits []byte, repetitions int) []byte {
	if len(bits) == 0 || repetitions < 1 {
		return []byte{}
	}

	out := make([]byte, 0, len(bits)*repetitions)
	for rep := 0; rep < repetitions; rep++ {
		out = append(out, bits...)
	}
	return out
}
