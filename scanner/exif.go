package scanner

import (
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val := strings.Trim(strings.TrimRight(tag.String(), "\x00"), `"`)
	if val == "" {
		return nil
	}
	return &val
}

// readExifQuick pulls the capture date and camera model out of a photo
// file. RAW containers based on TIFF (NEF, CR2, ARW, DNG, ...) decode the
// same way as JPEG here. Any failure leaves both fields unset; EXIF is
// best-effort enrichment, never a reason to drop a photo.
func readExifQuick(path string) (dateTaken, cameraModel *string) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil
	}
	defer file.Close()

	exifData, err := exif.Decode(file)
	if err != nil {
		return nil, nil
	}

	return getString(exifData, exif.DateTimeOriginal), getString(exifData, exif.Model)
}
