// Package imageio encodes rendered frames to disk and to object storage.
package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Supported output formats
const (
	FormatBMP = "bmp"
	FormatPNG = "png"
)

// FormatFromPath picks an output format from the file extension
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP, nil
	case ".png":
		return FormatPNG, nil
	default:
		return "", errors.Wrapf(core.ErrInvalidArgument, "unsupported image extension %q", filepath.Ext(path))
	}
}

// ContentType returns the MIME type of a format
func ContentType(format string) string {
	if format == FormatPNG {
		return "image/png"
	}
	return "image/bmp"
}

// toByte clamps a channel to [0,1] and truncates it to 8 bits
func toByte(c float64) uint8 {
	if !(c > 0) {
		return 0
	}
	if c >= 1 {
		return 0xFF
	}
	return uint8(c * 0xFF)
}

// ToRGBA converts a frame to an opaque 8-bit image. Row 0 of the frame is the
// top row of the image.
func ToRGBA(frame *core.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			c := frame.At(x, y).Clamp(0, 1)
			img.SetRGBA(x, y, color.RGBA{R: toByte(c.X), G: toByte(c.Y), B: toByte(c.Z), A: 0xFF})
		}
	}
	return img
}

// WriteBMP writes a 24-bit uncompressed bitmap. Rows are stored bottom-up,
// BGR ordered and padded to four bytes.
func WriteBMP(w io.Writer, frame *core.Frame) error {
	return errors.Wrap(bmp.Encode(w, ToRGBA(frame)), "failed to encode bitmap")
}

// WritePNG writes the frame as a PNG image
func WritePNG(w io.Writer, frame *core.Frame) error {
	return errors.Wrap(png.Encode(w, ToRGBA(frame)), "failed to encode png")
}

// Encode writes img in the given format
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatPNG:
		err = png.Encode(w, img)
	default:
		return errors.Wrapf(core.ErrInvalidArgument, "unsupported image format %q", format)
	}
	return errors.Wrapf(err, "failed to encode %s", format)
}

// EncodeBytes encodes img into memory, ready for upload
func EncodeBytes(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes img to path, choosing the format from the extension
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	if err := Encode(file, img, format); err != nil {
		file.Close()
		return err
	}
	return errors.Wrapf(file.Close(), "failed to close %s", path)
}

// SaveFrame converts and writes a frame to path
func SaveFrame(path string, frame *core.Frame) error {
	return Save(path, ToRGBA(frame))
}
