// Package phash wraps the perceptual-hash primitive: a 64-bit fingerprint
// of an image's low-frequency structure, carried around as a fixed-length
// hex string and compared only by Hamming distance.
package phash

import (
	"fmt"
	"image"
	"strconv"

	artphash "github.com/artyom/phash"
	"github.com/disintegration/imaging"
)

// HexLen is the fixed encoded length of a 64-bit fingerprint.
const HexLen = 16

func resample(img image.Image, w, h int) image.Image {
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Compute returns the 64-bit perceptual hash of an image.
func Compute(img image.Image) (uint64, error) {
	return artphash.Get(img, resample)
}

// ComputeFile decodes the image at path and returns its encoded
// fingerprint.
func ComputeFile(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("phash: failed to decode %s: %w", path, err)
	}
	h, err := Compute(img)
	if err != nil {
		return "", fmt.Errorf("phash: failed to hash %s: %w", path, err)
	}
	return Encode(h), nil
}

// Encode renders a fingerprint as a fixed-length lowercase hex string.
func Encode(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

// Decode parses a fingerprint previously produced by Encode. Encodings of
// any other length are rejected so that distances are never computed over
// mismatched widths.
func Decode(s string) (uint64, error) {
	if len(s) != HexLen {
		return 0, fmt.Errorf("phash: malformed fingerprint %q: want %d hex chars, got %d", s, HexLen, len(s))
	}
	h, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("phash: malformed fingerprint %q: %w", s, err)
	}
	return h, nil
}

// Distance returns the Hamming distance between two encoded fingerprints.
// Malformed encodings fail closed with an error rather than yielding a
// wrong distance.
func Distance(a, b string) (int, error) {
	ha, err := Decode(a)
	if err != nil {
		return 0, err
	}
	hb, err := Decode(b)
	if err != nil {
		return 0, err
	}
	return artphash.Distance(ha, hb), nil
}
