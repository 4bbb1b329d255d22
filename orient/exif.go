package orient

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrNoEXIF is returned by ReadEXIF when the stream carries no orientation tag.
var ErrNoEXIF = errors.New("orient: no exif orientation")

var fromEXIF = [...]Orientation{
	1: Identity,
	2: MirrorHorizontal,
	3: Rotate180,
	4: MirrorVertical,
	5: MirrorRotateLeft,
	6: RotateRight,
	7: MirrorRotateRight,
	8: RotateLeft,
}

// FromEXIF converts an EXIF orientation tag value (1-8). Out of range values
// map to Identity.
func FromEXIF(tag int) Orientation {
	if tag < 1 || tag >= len(fromEXIF) {
		return Identity
	}
	return fromEXIF[tag]
}

// EXIF returns the EXIF orientation tag value for o.
func (o Orientation) EXIF() int {
	for tag := 1; tag < len(fromEXIF); tag++ {
		if fromEXIF[tag] == o {
			return tag
		}
	}
	return 1
}

// ReadEXIF scans a JPEG stream for the APP1 Exif segment and returns the
// orientation stored in IFD0. Only the stream prefix up to the first scan
// is read.
func ReadEXIF(r io.Reader) (Orientation, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:2]); err != nil {
		return Identity, err
	}
	if b[0] != 0xFF || b[1] != 0xD8 {
		return Identity, ErrNoEXIF
	}
	for {
		if _, err := io.ReadFull(r, b[:4]); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return Identity, err
		}
		if b[0] != 0xFF {
			return Identity, errors.New("orient: bad jpeg marker")
		}
		marker := b[1]
		segLen := int(binary.BigEndian.Uint16(b[2:4])) - 2
		if marker == 0xDA || marker == 0xD9 || segLen < 0 {
			return Identity, ErrNoEXIF
		}
		if marker != 0xE1 {
			if _, err := io.CopyN(io.Discard, r, int64(segLen)); err != nil {
				return Identity, err
			}
			continue
		}
		seg := make([]byte, segLen)
		if _, err := io.ReadFull(r, seg); err != nil {
			return Identity, err
		}
		if len(seg) < 6 || string(seg[:6]) != "Exif\x00\x00" {
			continue
		}
		return parseTIFF(seg[6:])
	}
}

func parseTIFF(b []byte) (Orientation, error) {
	if len(b) < 8 {
		return Identity, ErrNoEXIF
	}
	var bo binary.ByteOrder
	switch string(b[:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return Identity, ErrNoEXIF
	}
	if bo.Uint16(b[2:4]) != 42 {
		return Identity, ErrNoEXIF
	}
	ifd := int(bo.Uint32(b[4:8]))
	if ifd < 8 || ifd+2 > len(b) {
		return Identity, ErrNoEXIF
	}
	n := int(bo.Uint16(b[ifd:]))
	for i := 0; i < n; i++ {
		off := ifd + 2 + i*12
		if off+12 > len(b) {
			break
		}
		const orientationTag, typeShort = 0x0112, 3
		if bo.Uint16(b[off:]) != orientationTag {
			continue
		}
		if bo.Uint16(b[off+2:]) != typeShort {
			return Identity, ErrNoEXIF
		}
		v := int(bo.Uint16(b[off+8:]))
		if v < 1 || v > 8 {
			return Identity, ErrNoEXIF
		}
		return FromEXIF(v), nil
	}
	return Identity, ErrNoEXIF
}
