package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/996BC/btcwire/params"
)

// Envelope is one frame of the stream with its payload still raw
type Envelope struct {
	Net      params.Net
	Command  string
	Length   uint32
	Checksum [ChecksumSize]byte
	Payload  []byte
}

// DecodeEnvelope decodes the frame at the start of data and returns it with
// the number of bytes it occupies. It never blocks: ErrTruncatedInput asks the
// caller to come back with more bytes.
func DecodeEnvelope(data []byte, net params.Net) (*Envelope, int, error) {
	if len(data) < len(net) {
		if !bytes.HasPrefix(net[:], data) {
			var got [4]byte
			copy(got[:], data)
			return nil, 0, BadMagicError{Expect: net, Got: got}
		}
		return nil, 0, ErrTruncatedInput
	}
	if len(data) < HeaderSize {
		if err := checkMagic(data, net); err != nil {
			return nil, 0, err
		}
		return nil, 0, ErrTruncatedInput
	}

	result, err := parseHeader(data[:HeaderSize], net)
	if err != nil {
		return nil, 0, err
	}

	frameLen := HeaderSize + int(result.Length)
	if len(data) < frameLen {
		return nil, 0, ErrTruncatedInput
	}

	result.Payload = make([]byte, result.Length)
	copy(result.Payload, data[HeaderSize:frameLen])
	if err := result.verify(); err != nil {
		return nil, 0, err
	}

	return result, frameLen, nil
}

// ReadEnvelope reads one frame from a blocking reader.
// It returns io.EOF if r ends cleanly before the frame starts.
func ReadEnvelope(r io.Reader, net params.Net) (*Envelope, error) {
	var header [HeaderSize]byte
	n, err := io.ReadFull(r, header[:])
	if err == io.EOF && n == 0 {
		return nil, io.EOF
	}
	if err != nil {
		if n >= len(net) {
			if magicErr := checkMagic(header[:n], net); magicErr != nil {
				return nil, magicErr
			}
		}
		return nil, truncated(err)
	}

	result, err := parseHeader(header[:], net)
	if err != nil {
		return nil, err
	}

	result.Payload = make([]byte, result.Length)
	if err := readFull(r, result.Payload); err != nil {
		return nil, err
	}
	if err := result.verify(); err != nil {
		return nil, err
	}

	return result, nil
}

// EncodeEnvelope frames payload under command
func EncodeEnvelope(net params.Net, command string, payload []byte) ([]byte, error) {
	paddedCmd, err := PadCommand(command)
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxPayloadSize {
		return nil, PayloadTooLargeError{Length: uint32(len(payload))}
	}

	sum := checksum(payload)

	result := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(payload)))
	result.Write(net[:])
	result.Write(paddedCmd[:])
	writeElement(result, uint32(len(payload)))
	result.Write(sum[:])
	result.Write(payload)

	return result.Bytes(), nil
}

// Marshal re-frames the envelope, recomputing length and checksum from the payload
func (e *Envelope) Marshal() ([]byte, error) {
	return EncodeEnvelope(e.Net, e.Command, e.Payload)
}

func (e *Envelope) String() string {
	return fmt.Sprintf("Net %s Command %s Length %d Checksum %X",
		e.Net, e.Command, e.Length, e.Checksum[:])
}

// FindMagic returns the index of the next magic sequence of net in data, or -1
func FindMagic(data []byte, net params.Net) int {
	return bytes.Index(data, net[:])
}

func checkMagic(data []byte, net params.Net) error {
	var got [4]byte
	copy(got[:], data[:len(net)])
	if params.Net(got) != net {
		return BadMagicError{Expect: net, Got: got}
	}
	return nil
}

func parseHeader(header []byte, net params.Net) (*Envelope, error) {
	if err := checkMagic(header, net); err != nil {
		return nil, err
	}

	var paddedCmd [CommandSize]byte
	copy(paddedCmd[:], header[4:4+CommandSize])

	result := &Envelope{
		Net:     net,
		Command: ParseCommand(paddedCmd),
		Length:  binary.LittleEndian.Uint32(header[4+CommandSize:]),
	}
	if result.Length > MaxPayloadSize {
		return nil, PayloadTooLargeError{Length: result.Length}
	}
	copy(result.Checksum[:], header[HeaderSize-ChecksumSize:])

	return result, nil
}

func (e *Envelope) verify() error {
	if int(e.Length) != len(e.Payload) {
		return fmt.Errorf("payload length %d, declared %d: %w", len(e.Payload), e.Length, ErrTruncatedInput)
	}
	if expect := checksum(e.Payload); expect != e.Checksum {
		return ChecksumMismatchError{Expect: expect, Got: e.Checksum}
	}
	return nil
}
