package common

// WipeByteArray zeroes b in place. Used to drop passwords from memory.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
