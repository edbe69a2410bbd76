// Package textenc repairs garbled text at the ingestion boundary.
// Source datasets assembled from mixed exports commonly contain UTF-8
// that was decoded as Windows-1252 somewhere upstream ("mojibake",
// e.g. "cafÃ©" for "café"). Repair reverses that round trip.
//
// Repair is a one-time, per-field ingestion filter: corpus sources apply
// it while loading, and the recommendation core never sees raw input.
package textenc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RepairFunc fixes a single garbled field. Corpus sources accept any
// RepairFunc so the repair strategy stays pluggable.
type RepairFunc func(string) string

// mojibakeMarkers are byte sequences that almost never occur in clean
// English text but always appear when UTF-8 was mis-decoded as
// Windows-1252 or Latin-1.
var mojibakeMarkers = []string{"Ã", "â€", "Â", "å", "ð"}

// Repair attempts to reverse a UTF-8-as-Windows-1252 mis-decode. Text
// without mojibake markers is returned unchanged, as is anything the
// round trip cannot improve. Repair never fails; at worst it is the
// identity function.
func Repair(s string) string {
	if !looksGarbled(s) {
		return s
	}

	// Re-encode the runes back to their Windows-1252 bytes. If the text
	// really was mis-decoded, those bytes are the original UTF-8.
	encoded, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return s
	}
	// The recovered bytes forming valid UTF-8 is the signal that the text
	// really was mis-decoded; otherwise leave the input alone.
	if !utf8.ValidString(encoded) {
		return s
	}
	return encoded
}

// Noop returns its input unchanged. Useful for sources with known-clean data.
func Noop(s string) string {
	return s
}

func looksGarbled(s string) bool {
	for _, marker := range mojibakeMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
