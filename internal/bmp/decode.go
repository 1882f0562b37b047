package bmp

import (
	"encoding/binary"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

const (
	FileHeaderSize = 14
	InfoHeaderSize = 40
)

// "BM" read as a little-endian uint16
const signature = 0x4d42

type fileHeader struct {
	Signature  uint16
	FileSize   uint32
	Reserved1  uint16
	Reserved2  uint16
	OffsetBits uint32
}

func readFileHeader(r io.Reader) (fileHeader, error) {
	h := fileHeader{}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return fileHeader{}, err
	}

	if h.Signature != signature {
		sig := make([]byte, 2)
		binary.LittleEndian.PutUint16(sig, h.Signature)
		return fileHeader{}, errors.Errorf("bmp: file signature should be 'BM' (got: %q)", sig)
	}

	return h, nil
}

// InfoHeader is a BITMAPINFOHEADER. Larger V4/V5 headers are accepted and
// their extra fields skipped.
type InfoHeader struct {
	Size           uint32
	Width          int32
	Height         int32
	Planes         uint16
	BitCount       uint16
	Compression    uint32
	SizeImage      uint32
	XPelsPerMeter  int32
	YPelsPerMeter  int32
	ColorUsed      uint32
	ColorImportant uint32
}

func ReadInfoHeader(r io.Reader) (InfoHeader, error) {
	h := InfoHeader{}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return InfoHeader{}, err
	}

	switch h.Size {
	case 40:
	case 108, 124:
		if _, err := io.CopyN(io.Discard, r, int64(h.Size-InfoHeaderSize)); err != nil {
			return InfoHeader{}, err
		}
	default:
		return InfoHeader{}, errors.Errorf("bmp: unsupported DIB header size (got: %d)", h.Size)
	}

	if h.Width <= 0 {
		return InfoHeader{}, errors.Errorf("bmp: width should be greater than zero (got: %d)", h.Width)
	}

	if h.Height == 0 {
		return InfoHeader{}, errors.Errorf("bmp: height should be non-zero (got: %d)", h.Height)
	}

	return h, nil
}

// colorBGR is BGR order
type colorBGR struct {
	B        uint8
	G        uint8
	R        uint8
	Reserved uint8
}

func (c colorBGR) RGBA() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 0xff}
}

// rowSize returns the padded byte length of one pixel row.
func rowSize(width, bpp int) int {
	return (width*bpp + 31) / 32 * 4
}

type decoder struct {
	bpp     int
	topDown bool
	config  image.Config
}

// newDecoder prepares decoding of the pixel array that follows ih. height is
// passed separately because icon DIBs store twice the real height.
func newDecoder(r io.Reader, ih InfoHeader, height int32) (*decoder, error) {
	var topDown bool
	if height < 0 {
		height *= -1
		topDown = true
	}

	if ih.Compression != 0 {
		return nil, errors.Errorf("bmp: supported compression method is only 0 (got: %d)", ih.Compression)
	}

	var model color.Model

	switch ih.BitCount {
	case 1, 4, 8:
		n := ih.ColorUsed
		if n == 0 {
			n = 1 << ih.BitCount
		}
		if n > 1<<ih.BitCount {
			return nil, errors.Errorf("bmp: too many palette entries for %d bpp (got: %d)", ih.BitCount, n)
		}
		clrs := make([]colorBGR, n)
		if err := binary.Read(r, binary.LittleEndian, &clrs); err != nil {
			return nil, err
		}
		// indices past the stored palette read as opaque black
		palette := make(color.Palette, 1<<ih.BitCount)
		for i := range palette {
			palette[i] = color.RGBA{0, 0, 0, 0xff}
		}
		for i, c := range clrs {
			palette[i] = c.RGBA()
		}
		model = palette
	case 24:
		model = color.RGBAModel
	case 32:
		model = color.NRGBAModel
	default:
		return nil, errors.Errorf("bmp: unsupported bpp (got: %d)", ih.BitCount)
	}

	d := &decoder{
		bpp:     int(ih.BitCount),
		topDown: topDown,
		config:  image.Config{ColorModel: model, Width: int(ih.Width), Height: int(height)},
	}

	return d, nil
}

// rows reads each stored row into buf and calls fn with its image y.
func (d *decoder) rows(r io.Reader, buf []byte, fn func(y int)) error {
	y0, y1, dy := d.config.Height-1, -1, -1
	if d.topDown {
		y0, y1, dy = 0, d.config.Height, 1
	}

	for y := y0; y != y1; y += dy {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		fn(y)
	}

	return nil
}

func (d *decoder) decodePaletted(r io.Reader) (image.Image, error) {
	w, h := d.config.Width, d.config.Height
	paletted := image.NewPaletted(image.Rect(0, 0, w, h), d.config.ColorModel.(color.Palette))

	perByte := 8 / d.bpp
	mask := byte(1<<uint(d.bpp) - 1)

	row := make([]byte, rowSize(w, d.bpp))
	err := d.rows(r, row, func(y int) {
		p := paletted.Pix[y*paletted.Stride : y*paletted.Stride+w]
		for x := range p {
			shift := uint(8 - d.bpp*(x%perByte+1))
			p[x] = (row[x/perByte] >> shift) & mask
		}
	})
	if err != nil {
		return nil, err
	}

	return paletted, nil
}

func (d *decoder) decode24(r io.Reader) (image.Image, error) {
	w, h := d.config.Width, d.config.Height
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))

	row := make([]byte, rowSize(w, 24))
	err := d.rows(r, row, func(y int) {
		p := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for i, j := 0, 0; i < len(p); i, j = i+4, j+3 {
			// BGR order
			p[i+0] = row[j+2]
			p[i+1] = row[j+1]
			p[i+2] = row[j+0]
			p[i+3] = 0xff
		}
	})
	if err != nil {
		return nil, err
	}

	return rgba, nil
}

func (d *decoder) decode32(r io.Reader) (image.Image, error) {
	w, h := d.config.Width, d.config.Height
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))

	row := make([]byte, rowSize(w, 32))
	err := d.rows(r, row, func(y int) {
		p := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for i := 0; i < len(p); i += 4 {
			// BGRA order
			p[i+0] = row[i+2]
			p[i+1] = row[i+1]
			p[i+2] = row[i+0]
			p[i+3] = row[i+3]
		}
	})
	if err != nil {
		return nil, err
	}

	return nrgba, nil
}

func (d *decoder) decode(r io.Reader) (image.Image, error) {
	switch d.bpp {
	case 1, 4, 8:
		return d.decodePaletted(r)
	case 24:
		return d.decode24(r)
	case 32:
		return d.decode32(r)
	}

	return nil, errors.Errorf("bmp: no decoder for %d bpp", d.bpp)
}

func newFileDecoder(r io.Reader) (*decoder, error) {
	if _, err := readFileHeader(r); err != nil {
		return nil, err
	}

	ih, err := ReadInfoHeader(r)
	if err != nil {
		return nil, err
	}

	return newDecoder(r, ih, ih.Height)
}

// Decode reads a BMP image from io.Reader and returns an image.Image
func Decode(r io.Reader) (image.Image, error) {
	d, err := newFileDecoder(r)
	if err != nil {
		return nil, err
	}

	return d.decode(r)
}

// DecodeConfig reads a BMP image from io.Reader and returns an image.Config
func DecodeConfig(r io.Reader) (image.Config, error) {
	d, err := newFileDecoder(r)
	if err != nil {
		return image.Config{}, err
	}

	return d.config, nil
}

func init() {
	image.RegisterFormat("bmp", "BM", Decode, DecodeConfig)
}
