package ico

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"io"

	"github.com/pkg/errors"

	"github.com/ur65/ico-favicon/internal/bmp"
)

// MaxSize is the largest width or height an ICO entry can hold.
const MaxSize = 256

const (
	headerSize    = 6
	directorySize = 16
	maxSize       = MaxSize
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

type header struct {
	Reserved  uint16
	ImageType uint16
	Count     uint16
}

func readHeader(r io.Reader) (header, error) {
	h := header{}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, errors.Wrap(err, "ico: read header")
	}

	if h.ImageType != 1 {
		return h, errors.Errorf("ico: image type should be 1 (got: %d)", h.ImageType)
	}

	if h.Count == 0 {
		return h, errors.Errorf("ico: invalid the number of images (got: %d)", h.Count)
	}

	return h, nil
}

type directory struct {
	Width       uint8
	Height      uint8
	ColorCount  uint8
	Reserved    uint8
	Planes      uint16
	BitCount    uint16
	BytesInRes  uint32
	ImageOffset uint32
}

// dimensions returns the entry size, reading 0 as 256.
func (d directory) dimensions() (int, int) {
	w, h := int(d.Width), int(d.Height)
	if w == 0 {
		w = maxSize
	}
	if h == 0 {
		h = maxSize
	}
	return w, h
}

func readDirectories(r io.Reader, n int) ([]directory, error) {
	ds := make([]directory, n)
	if err := binary.Read(r, binary.LittleEndian, ds); err != nil {
		return nil, errors.Wrap(err, "ico: read directory")
	}

	return ds, nil
}

// file is a parsed ICO container: its directory plus the raw bytes that
// follow it.
type file struct {
	dirs []directory
	buf  []byte
}

func readFile(r io.Reader) (*file, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	ds, err := readDirectories(r, int(h.Count))
	if err != nil {
		return nil, err
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "ico: read image data")
	}

	return &file{dirs: ds, buf: buf}, nil
}

func (f *file) payload(i int) ([]byte, error) {
	d := f.dirs[i]
	start := int64(d.ImageOffset) - int64(headerSize+directorySize*len(f.dirs))
	end := start + int64(d.BytesInRes)
	if start < 0 || end > int64(len(f.buf)) || d.BytesInRes == 0 {
		return nil, errors.Errorf("ico: image %d is out of bounds (offset: %d, size: %d)", i, d.ImageOffset, d.BytesInRes)
	}

	return f.buf[start:end], nil
}

// Format is the encoding of an image stored in an ICO entry.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	}
	return "unknown"
}

func sniff(data []byte) Format {
	if bytes.HasPrefix(data, pngMagic) {
		return FormatPNG
	}
	return FormatBMP
}

// Entry describes one image of an ICO file as recorded in its directory.
type Entry struct {
	Width    int
	Height   int
	BitCount int
	Size     int
	Offset   int
	Format   Format
}

// ReadDirectory returns the directory entries of an ICO file in stored order
// without decoding any image.
func ReadDirectory(r io.Reader) ([]Entry, error) {
	f, err := readFile(r)
	if err != nil {
		return nil, err
	}

	es := make([]Entry, len(f.dirs))
	for i, d := range f.dirs {
		data, err := f.payload(i)
		if err != nil {
			return nil, err
		}
		w, h := d.dimensions()
		es[i] = Entry{
			Width:    w,
			Height:   h,
			BitCount: int(d.BitCount),
			Size:     int(d.BytesInRes),
			Offset:   int(d.ImageOffset),
			Format:   sniff(data),
		}
	}

	return es, nil
}

// Decode decodes the given io.Reader and returns all images contained in the data.
func Decode(r io.Reader) ([]image.Image, error) {
	f, err := readFile(r)
	if err != nil {
		return nil, err
	}

	imgs := make([]image.Image, len(f.dirs))
	for i := range f.dirs {
		data, err := f.payload(i)
		if err != nil {
			return nil, err
		}

		switch sniff(data) {
		case FormatPNG:
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				return nil, errors.Wrapf(err, "ico: decode png image %d", i)
			}
			imgs[i] = img
		default:
			img, err := bmp.DecodeIcon(bytes.NewReader(data))
			if err != nil {
				return nil, errors.Wrapf(err, "ico: decode bmp image %d", i)
			}
			imgs[i] = img
		}
	}

	return imgs, nil
}
