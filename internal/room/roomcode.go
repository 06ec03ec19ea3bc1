package room

import (
	"crypto/rand"
)

const (
	codeLength  = 8
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewCode mints an 8-character uppercase-alphanumeric room code. Bytes
// outside the alphabet's range are rejected and resampled rather than
// reduced modulo the alphabet size, so every character stays uniformly
// distributed — a plain byte%36 reduction would bias the first four
// characters ('0' to '3'), since 256 = 7*36 + 4.
func NewCode() string {
	buf := make([]byte, codeLength)
	var scratch [1]byte

	for i := range buf {
		for {
			if _, err := rand.Read(scratch[:]); err != nil {
				continue
			}
			if int(scratch[0]) >= len(codeAlphabet)*(256/len(codeAlphabet)) {
				continue
			}
			buf[i] = codeAlphabet[int(scratch[0])%len(codeAlphabet)]
			break
		}
	}

	return string(buf)
}
