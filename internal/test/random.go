package test

import (
	"math/rand/v2"
	"strings"
)

const (
	nameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits       = "0123456789"
)

// RandomASCIIString returns a random alphanumeric string of length within
// [minLen, maxLen]. Non-positive minLen is treated as 1.
func RandomASCIIString(minLen, maxLen int) string {
	minLen = max(minLen, 1)
	maxLen = max(maxLen, minLen)
	return randomFrom(nameAlphabet, minLen+rand.IntN(maxLen-minLen+1))
}

// RandomLocalPhone returns a ten digit mobile number starting with 6-9,
// formatted the way customers tend to type it.
func RandomLocalPhone() string {
	number := string(rune('6'+rand.IntN(4))) + randomFrom(digits, 9)
	return number[:5] + " " + number[5:]
}

func randomFrom(alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}
