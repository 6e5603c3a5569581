package thumbs

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// jpegSOI marks the start of a JPEG stream inside a RAW container.
var jpegSOI = []byte{0xff, 0xd8, 0xff}

const maxPreviewCandidates = 8

// extractEmbeddedPreview finds the largest decodable JPEG preview embedded
// in a RAW file. Every mainstream RAW container (NEF, CR2, ARW, DNG, ...)
// carries at least one full JPEG rendition; scanning for SOI markers and
// letting the decoder run to its own EOI avoids a native RAW decoder
// entirely.
func extractEmbeddedPreview(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var best image.Image
	bestPixels := 0

	offset := 0
	for candidates := 0; candidates < maxPreviewCandidates; candidates++ {
		idx := bytes.Index(data[offset:], jpegSOI)
		if idx < 0 {
			break
		}
		start := offset + idx

		if img, err := imaging.Decode(bytes.NewReader(data[start:])); err == nil {
			b := img.Bounds()
			if pixels := b.Dx() * b.Dy(); pixels > bestPixels {
				best = img
				bestPixels = pixels
			}
		}

		offset = start + len(jpegSOI)
	}

	if best == nil {
		return nil, fmt.Errorf("no decodable JPEG preview found in %s", path)
	}
	return best, nil
}
