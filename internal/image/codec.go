package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format identifies an export encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
	FormatTIFF
)

func (f Format) String() string {
	switch f {
	case FormatBMP:
		return "BMP"
	case FormatTIFF:
		return "TIFF"
	default:
		return "PNG"
	}
}

// FormatFromPath picks the export format from a file extension.
// Unknown extensions fall back to PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	default:
		return FormatPNG
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, FormatPNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBytes decodes any supported image format.
func DecodeBytes(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Load reads an image file in any supported format.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Save writes img to path, choosing the encoding from the extension.
func Save(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return Encode(file, img, FormatFromPath(path))
}

// SupportedFormats returns the list of readable image extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// ExportFormats returns the list of writable image extensions.
func ExportFormats() []string {
	return []string{".png", ".bmp", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a readable image extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
