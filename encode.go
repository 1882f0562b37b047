package ico

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"io"

	"github.com/pkg/errors"

	"github.com/ur65/ico-favicon/internal/bmp"
	"github.com/ur65/ico-favicon/internal/resample"
)

// Encoder writes ICO files. The zero value stores every image as PNG.
type Encoder struct {
	// Format selects how each image is stored inside the container.
	Format Format
}

// Encode writes primary followed by extra as a single ICO file using the
// default Encoder.
func Encode(w io.Writer, primary image.Image, extra ...image.Image) error {
	var e Encoder
	return e.Encode(w, primary, extra...)
}

// Encode writes primary followed by extra to w. Images keep the given order
// and are neither sorted nor deduplicated.
func (e *Encoder) Encode(w io.Writer, primary image.Image, extra ...image.Image) error {
	if primary == nil {
		return errors.New("ico: no image to encode")
	}

	imgs := append([]image.Image{primary}, extra...)

	ds := make([]directory, len(imgs))
	payloads := make([][]byte, len(imgs))
	offset := headerSize + directorySize*len(imgs)

	for i, m := range imgs {
		if m == nil {
			return errors.Errorf("ico: image %d is nil", i)
		}

		b := m.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 {
			return errors.Errorf("ico: image %d is empty (got: %dx%d)", i, b.Dx(), b.Dy())
		}
		if b.Dx() > maxSize || b.Dy() > maxSize {
			return errors.Errorf("ico: image %d exceeds %dx%d (got: %dx%d)", i, maxSize, maxSize, b.Dx(), b.Dy())
		}

		data, err := e.encodeImage(m)
		if err != nil {
			return errors.Wrapf(err, "ico: encode image %d", i)
		}

		ds[i] = directory{
			// 256 is stored as 0
			Width:       uint8(b.Dx() % maxSize),
			Height:      uint8(b.Dy() % maxSize),
			Planes:      1,
			BitCount:    32,
			BytesInRes:  uint32(len(data)),
			ImageOffset: uint32(offset),
		}
		payloads[i] = data
		offset += len(data)
	}

	bw := bufio.NewWriter(w)

	h := header{ImageType: 1, Count: uint16(len(imgs))}
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, ds); err != nil {
		return err
	}
	for _, p := range payloads {
		if _, err := bw.Write(p); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func (e *Encoder) encodeImage(m image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}

	switch e.Format {
	case FormatPNG:
		if err := png.Encode(buf, rgba32{resample.ToNRGBA(m)}); err != nil {
			return nil, err
		}
	case FormatBMP:
		if err := bmp.EncodeIcon(buf, m); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("ico: unknown format %d", e.Format)
	}

	return buf.Bytes(), nil
}

// rgba32 reports itself as non-opaque so image/png always writes 8-bit RGBA
// (color type 6) rather than dropping the alpha channel of opaque images.
// Every PNG entry then matches the 32 bpp recorded in the directory.
type rgba32 struct {
	*image.NRGBA
}

func (rgba32) Opaque() bool {
	return false
}
