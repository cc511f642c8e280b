// Package nric implements the weighted-modulo checksum used by Singapore
// NRIC and FIN numbers.
//
// An identifier is nine characters: a series letter (S, T, F or G), seven
// decimal digits and a trailing checksum letter. Every function here is pure
// and safe for concurrent use.
package nric

import (
	"fmt"
)

// Identifier layout.
const (
	Length     = 9
	bodyLength = 7
	modulus    = 11
	eraOffset  = 4
)

// weights applied to the seven body digits, left to right.
var weights = [bodyLength]int{2, 7, 6, 5, 4, 3, 2}

// Series groups prefix letters that share a checksum alphabet.
type Series int

// Known series.
const (
	SeriesResident Series = iota + 1
	SeriesForeign
)

// alphabets maps each series to the letters indexed by the remainder.
var alphabets = map[Series]string{
	SeriesResident: "JZIHGFEDCBA",
	SeriesForeign:  "XWUTRQPNMLK",
}

// Prefix describes a series letter: which alphabet it uses and whether it
// belongs to the post-2000 era, which shifts the weighted total.
type Prefix struct {
	Letter byte
	Series Series
	Offset int
}

// prefixes is keyed by the uppercase series letter.
var prefixes = map[byte]Prefix{
	'S': {Letter: 'S', Series: SeriesResident},
	'T': {Letter: 'T', Series: SeriesResident, Offset: eraOffset},
	'F': {Letter: 'F', Series: SeriesForeign},
	'G': {Letter: 'G', Series: SeriesForeign, Offset: eraOffset},
}

// LookupPrefix returns the Prefix for letter, case-insensitively.
func LookupPrefix(letter byte) (Prefix, bool) {
	p, ok := prefixes[upper(letter)]
	return p, ok
}

// Alphabet returns the checksum alphabet for the prefix's series.
func (p Prefix) Alphabet() string {
	return alphabets[p.Series]
}

// Validate reports whether id is a well-formed identifier with a matching
// checksum letter. It never panics; use Check for the reason of a rejection.
func Validate(id string) bool {
	return Check(id) == nil
}

// Check validates id and returns the first reason it fails, or nil.
// Length and prefix are checked before the digits, and the checksum letter
// is compared case-insensitively.
func Check(id string) error {
	if len(id) != Length {
		return ErrLength
	}
	want, err := Checksum(id[0], id[1:Length-1])
	if err != nil {
		return err
	}
	if got := upper(id[Length-1]); got != want {
		return fmt.Errorf("%w: got %q, want %q", ErrChecksum, got, want)
	}
	return nil
}

// Checksum computes the expected checksum letter for a prefix letter and the
// seven body digits.
func Checksum(prefix byte, digits string) (byte, error) {
	p, ok := LookupPrefix(prefix)
	if !ok {
		return 0, ErrPrefix
	}
	if len(digits) != bodyLength {
		return 0, ErrDigits
	}

	total := p.Offset
	for i := 0; i < bodyLength; i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, ErrDigits
		}
		total += int(c-'0') * weights[i]
	}
	return p.Alphabet()[total%modulus], nil
}

// Complete appends the checksum letter to the first eight characters of an
// identifier. The prefix is normalized to uppercase.
func Complete(partial string) (string, error) {
	if len(partial) != Length-1 {
		return "", fmt.Errorf("%w: partial identifier must be %d characters", ErrMalformedInput, Length-1)
	}
	letter, err := Checksum(partial[0], partial[1:])
	if err != nil {
		return "", err
	}
	return string(upper(partial[0])) + partial[1:] + string(letter), nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
