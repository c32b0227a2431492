package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrMalformedPayload reports an image payload that cannot be decoded:
// missing data-URI prefix, invalid base64 body, or bytes that are not a
// supported raster format.
var ErrMalformedPayload = errors.New("malformed image payload")

// Frame is a decoded camera frame.
type Frame struct {
	Image  image.Image
	Format string
	Width  int
	Height int
}

// Decode turns a data-URI string of the form "<prefix>,<base64 body>" into
// a pixel frame. Exactly one prefix segment before the first comma is
// discarded; the remainder is interpreted as base64.
func Decode(payload string) (Frame, error) {
	_, body, found := strings.Cut(payload, ",")
	if !found {
		return Frame{}, fmt.Errorf("%w: no data-URI separator", ErrMalformedPayload)
	}

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: invalid base64: %v", ErrMalformedPayload, err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: not a supported image: %v", ErrMalformedPayload, err)
	}

	bounds := img.Bounds()
	return Frame{
		Image:  img,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Gray returns the frame's row-major luma plane. Classifier transports that
// want raw pixels rather than an encoded image consume this form.
func (f Frame) Gray() [][]uint8 {
	bounds := f.Image.Bounds()
	rows := make([][]uint8, bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := make([]uint8, bounds.Dx())
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := f.Image.At(x, y).RGBA()
			// ITU-R BT.601 luma, 16-bit channels scaled back to 8 bits.
			row[x-bounds.Min.X] = uint8((299*r + 587*g + 114*b) / 1000 >> 8)
		}
		rows[y-bounds.Min.Y] = row
	}
	return rows
}
