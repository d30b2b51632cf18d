package gringotts

import (
	"math"
	"os"
	"strings"
	"unicode"
)

const (
	qualityMin = 2.586840 // log(4 * log2(10))
	qualityMax = 5.545177 // log(256)
)

// commonPasswords score zero regardless of their composition
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "passw0rd": {}, "p@ssw0rd": {},
	"123456": {}, "12345678": {}, "123456789": {}, "1234567890": {},
	"qwerty": {}, "qwertyuiop": {}, "azerty": {}, "asdfghjkl": {},
	"letmein": {}, "welcome": {}, "welcome1": {}, "admin": {}, "administrator": {},
	"iloveyou": {}, "monkey": {}, "dragon": {}, "football": {}, "baseball": {},
	"sunshine": {}, "princess": {}, "trustno1": {}, "master": {}, "shadow": {},
	"superman": {}, "michael": {}, "abc123": {}, "abcdef": {}, "111111": {},
	"000000": {}, "changeme": {}, "secret": {}, "starwars": {}, "whatever": {},
	"freedom": {}, "qazwsx": {}, "zaq12wsx": {}, "1q2w3e4r": {}, "hello123": {},
}

// PasswordQuality rates an ASCII password between 0 and 1 from its length
// and the character classes it draws from. Passwords shorter than four
// characters and well-known passwords rate 0.
func PasswordQuality(password string) float64 {
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return 0
	}

	var lower, upper, digit, other bool
	for _, r := range password {
		switch {
		case r < unicode.MaxASCII && unicode.IsLower(r):
			lower = true
		case r < unicode.MaxASCII && unicode.IsUpper(r):
			upper = true
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}
	n := len(password)
	if n < 4 {
		return 0
	}

	charset := 0
	if lower {
		charset += 26
	}
	if upper {
		charset += 26
	}
	if digit {
		charset += 10
	}
	if other {
		charset += 32
	}

	bits := float64(n) * math.Log2(float64(charset))
	q := (math.Log(bits) - qualityMin) / (qualityMax - qualityMin)
	return clamp01(q)
}

// FilePasswordQuality rates a key file by its size: 32 bytes or more rate
// 1, an empty or unreadable file rates 0.
func FilePasswordQuality(path string) float64 {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return 0
	}
	return clamp01(float64(fi.Size()) / 32)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
