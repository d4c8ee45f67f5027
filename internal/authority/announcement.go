// Package authority publishes signed accumulator announcements. After every
// externally observable accumulator transition the registry's long-term
// ECDSA P-256 key signs {epoch, accumulator, timestamp}, so verifiers can
// pin the accumulator value they prove against without trusting transport.
package authority

import (
	"encoding/binary"
	"errors"
	"math/big"
	"time"

	"github.com/zkiot/revocation-registry/internal/curve"
)

// Canonical announcement format constants.
const (
	MagicBytes     = "RVAN" // ReVocation ANnouncement
	FormatVersion  = 1
	HeaderSize     = 4 + 1 + 1 // magic + version + flags
	EpochSize      = 8
	CoordinateSize = 32
	TimestampSize  = 8
	PayloadSize    = HeaderSize + EpochSize + 2*CoordinateSize + TimestampSize
)

var (
	ErrPayloadTooShort   = errors.New("authority: payload too short")
	ErrBadMagic          = errors.New("authority: invalid magic bytes")
	ErrUnsupportedFormat = errors.New("authority: unsupported format version")
)

// Announcement is one epoch's accumulator value.
type Announcement struct {
	Epoch       uint64
	Accumulator curve.Point
	Timestamp   time.Time
}

// SignedAnnouncement carries the canonical payload and its DER signature.
type SignedAnnouncement struct {
	Announcement Announcement
	Payload      []byte
	Signature    []byte
}

// EncodeAnnouncement builds the canonical binary payload.
// Format:
//   - Magic: 4 bytes "RVAN"
//   - Version: 1 byte
//   - Flags: 1 byte (reserved)
//   - Epoch: 8 bytes (big-endian)
//   - Accumulator X: 32 bytes (big-endian)
//   - Accumulator Y: 32 bytes (big-endian)
//   - Timestamp: 8 bytes (unix seconds, big-endian)
func EncodeAnnouncement(a Announcement) []byte {
	buf := make([]byte, PayloadSize)
	offset := 0

	copy(buf[offset:], MagicBytes)
	offset += len(MagicBytes)

	buf[offset] = FormatVersion
	offset++

	buf[offset] = 0 // flags, reserved
	offset++

	binary.BigEndian.PutUint64(buf[offset:], a.Epoch)
	offset += EpochSize

	a.Accumulator.X().FillBytes(buf[offset : offset+CoordinateSize])
	offset += CoordinateSize

	a.Accumulator.Y().FillBytes(buf[offset : offset+CoordinateSize])
	offset += CoordinateSize

	binary.BigEndian.PutUint64(buf[offset:], uint64(a.Timestamp.Unix()))

	return buf
}

// DecodeAnnouncement parses a canonical payload back into an Announcement.
func DecodeAnnouncement(data []byte) (Announcement, error) {
	if len(data) < PayloadSize {
		return Announcement{}, ErrPayloadTooShort
	}

	offset := 0
	if string(data[offset:offset+len(MagicBytes)]) != MagicBytes {
		return Announcement{}, ErrBadMagic
	}
	offset += len(MagicBytes)

	if data[offset] != FormatVersion {
		return Announcement{}, ErrUnsupportedFormat
	}
	offset += 2 // version + flags

	epoch := binary.BigEndian.Uint64(data[offset:])
	offset += EpochSize

	x := new(big.Int).SetBytes(data[offset : offset+CoordinateSize])
	offset += CoordinateSize
	y := new(big.Int).SetBytes(data[offset : offset+CoordinateSize])
	offset += CoordinateSize

	acc, err := curve.NewPoint(x, y)
	if err != nil {
		return Announcement{}, err
	}

	ts := time.Unix(int64(binary.BigEndian.Uint64(data[offset:])), 0).UTC()

	return Announcement{Epoch: epoch, Accumulator: acc, Timestamp: ts}, nil
}
