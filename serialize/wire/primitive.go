package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// maxVarStrPrealloc caps the buffer allocated up front for a varstr,
// the rest grows as the bytes actually arrive
const maxVarStrPrealloc = 512

func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncatedInput
	}
	return err
}

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return truncated(err)
	}
	return nil
}

// readElement reads a fixed size little endian value into element
func readElement(r io.Reader, element interface{}) error {
	if err := binary.Read(r, binary.LittleEndian, element); err != nil {
		return truncated(err)
	}
	return nil
}

func writeElement(w *bytes.Buffer, element interface{}) {
	binary.Write(w, binary.LittleEndian, element)
}

// ReadUint reads an unsigned integer of width 1, 2, 4 or 8 bytes
func ReadUint(r io.Reader, width int, order binary.ByteOrder) (uint64, error) {
	if width != 1 && width != 2 && width != 4 && width != 8 {
		return 0, fmt.Errorf("unsupported integer width %d", width)
	}

	var buf [8]byte
	b := buf[:width]
	if err := readFull(r, b); err != nil {
		return 0, err
	}

	switch width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(order.Uint16(b)), nil
	case 4:
		return uint64(order.Uint32(b)), nil
	}
	return order.Uint64(b), nil
}

// ReadVarInt reads a variable length integer.
// Non-minimal encodings are accepted.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if err := readFull(r, prefix[:]); err != nil {
		return 0, err
	}
	return readVarIntBody(r, prefix[0])
}

func readVarIntBody(r io.Reader, prefix byte) (uint64, error) {
	switch prefix {
	case 0xfd:
		return ReadUint(r, 2, binary.LittleEndian)
	case 0xfe:
		return ReadUint(r, 4, binary.LittleEndian)
	case 0xff:
		return ReadUint(r, 8, binary.LittleEndian)
	default:
		return uint64(prefix), nil
	}
}

// EncodeVarInt returns the shortest encoding of n
func EncodeVarInt(n uint64) []byte {
	switch {
	case n < 0xfd:
		return []byte{byte(n)}
	case n <= 0xffff:
		result := make([]byte, 3)
		result[0] = 0xfd
		binary.LittleEndian.PutUint16(result[1:], uint16(n))
		return result
	case n <= 0xffffffff:
		result := make([]byte, 5)
		result[0] = 0xfe
		binary.LittleEndian.PutUint32(result[1:], uint32(n))
		return result
	default:
		result := make([]byte, 9)
		result[0] = 0xff
		binary.LittleEndian.PutUint64(result[1:], n)
		return result
	}
}

func WriteVarInt(w io.Writer, n uint64) error {
	_, err := w.Write(EncodeVarInt(n))
	return err
}

// VarIntSerializeSize returns how many bytes EncodeVarInt(n) takes
func VarIntSerializeSize(n uint64) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// ReadVarStr reads a varint length followed by that many bytes.
// A length above max fails with ErrLengthOutOfRange before anything is allocated.
func ReadVarStr(r io.Reader, max uint64) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n > max {
		return nil, fmt.Errorf("varstr length %d, max %d: %w", n, max, ErrLengthOutOfRange)
	}
	if n == 0 {
		return nil, nil
	}

	prealloc := n
	if prealloc > maxVarStrPrealloc {
		prealloc = maxVarStrPrealloc
	}
	buf := bytes.NewBuffer(make([]byte, 0, prealloc))
	if _, err := io.CopyN(buf, r, int64(n)); err != nil {
		return nil, truncated(err)
	}
	return buf.Bytes(), nil
}

func WriteVarStr(w io.Writer, data []byte) error {
	if err := WriteVarInt(w, uint64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// readCount reads a varint element count and checks it against max
func readCount(r io.Reader, max uint64) (uint64, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return 0, err
	}
	if count > max {
		return 0, fmt.Errorf("count %d, max %d: %w", count, max, ErrLengthOutOfRange)
	}
	return count, nil
}

// DoubleSHA256 returns sha256(sha256(data))
func DoubleSHA256(data []byte) []byte {
	return chainhash.DoubleHashB(data)
}

func checksum(payload []byte) [ChecksumSize]byte {
	var result [ChecksumSize]byte
	copy(result[:], DoubleSHA256(payload))
	return result
}

// PadCommand right pads name with zero bytes to CommandSize
func PadCommand(name string) ([CommandSize]byte, error) {
	var result [CommandSize]byte
	if len(name) > CommandSize {
		return result, CommandTooLongError{Name: name}
	}
	copy(result[:], name)
	return result, nil
}

// ParseCommand strips the trailing zero bytes of a padded command
func ParseCommand(padded [CommandSize]byte) string {
	return strings.TrimRight(string(padded[:]), "\x00")
}

// unixTime maps 0 to the zero time so absent timestamps survive a round trip
func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

func timeUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
