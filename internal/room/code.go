package room

import (
	"math/rand"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 4
)

func randomCode(rng *rand.Rand) string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// NormalizeCode trims and upper-cases a room code typed by a user.
func NormalizeCode(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
