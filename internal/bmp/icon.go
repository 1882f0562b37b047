package bmp

import (
	"bufio"
	"encoding/binary"
	"image"
	"io"

	"github.com/pkg/errors"

	"github.com/ur65/ico-favicon/internal/resample"
)

// DecodeIcon decodes a DIB stored inside an ICO entry. Such a DIB has no file
// header, declares twice its real height and is followed by a 1 bpp AND mask
// whose set bits mark transparent pixels.
func DecodeIcon(r io.Reader) (*image.NRGBA, error) {
	ih, err := ReadInfoHeader(r)
	if err != nil {
		return nil, err
	}

	d, err := newDecoder(r, ih, ih.Height/2)
	if err != nil {
		return nil, err
	}

	xor, err := d.decode(r)
	if err != nil {
		return nil, err
	}

	img := resample.ToNRGBA(xor)

	w := d.config.Width
	row := make([]byte, rowSize(w, 1))
	err = d.rows(r, row, func(y int) {
		p := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x/8]&(0x80>>uint(x%8)) != 0 {
				p[x*4+3] = 0
			}
		}
	})
	// some writers omit the mask entirely
	if err == io.ErrUnexpectedEOF && ih.BitCount == 32 {
		return img, nil
	}
	if err != nil {
		return nil, err
	}

	return img, nil
}

// EncodeIcon writes m as a 32 bpp DIB followed by its AND mask, ready to be
// stored as an ICO entry.
func EncodeIcon(w io.Writer, m image.Image) error {
	img := resample.ToNRGBA(m)
	width, height := img.Rect.Dx(), img.Rect.Dy()
	if width <= 0 || height <= 0 {
		return errors.Errorf("bmp: image is empty (got: %dx%d)", width, height)
	}

	maskStride := rowSize(width, 1)

	ih := InfoHeader{
		Size:      InfoHeaderSize,
		Width:     int32(width),
		Height:    int32(height * 2),
		Planes:    1,
		BitCount:  32,
		SizeImage: uint32((width*4 + maskStride) * height),
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, ih); err != nil {
		return err
	}

	row := make([]byte, width*4)
	mask := make([]byte, maskStride*height)

	// rows are stored bottom-up
	for i := 0; i < height; i++ {
		y := height - 1 - i
		p := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width; x++ {
			row[x*4+0] = p[x*4+2]
			row[x*4+1] = p[x*4+1]
			row[x*4+2] = p[x*4+0]
			row[x*4+3] = p[x*4+3]
			if p[x*4+3] == 0 {
				mask[i*maskStride+x/8] |= 0x80 >> uint(x%8)
			}
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}

	if _, err := bw.Write(mask); err != nil {
		return err
	}

	return bw.Flush()
}
