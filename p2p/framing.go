package p2p

import (
	"bytes"
	"encoding/binary"

	"github.com/996BC/btcwire/params"
	"github.com/996BC/btcwire/serialize/wire"
)

// lengthOffset locates the payload length inside the envelope header
const lengthOffset = 4 + wire.CommandSize

// streamSplitter cuts whole envelopes off a TCP stream.
// Bytes that are not the start of a frame are skipped up to the next magic.
// Checksums are verified later, when the frame is decoded.
type streamSplitter struct {
	net     params.Net
	skipped int
}

func newStreamSplitter(net params.Net) *streamSplitter {
	return &streamSplitter{net: net}
}

func (s *streamSplitter) split(received *bytes.Buffer) ([][]byte, error) {
	var frames [][]byte

	for received.Len() >= wire.HeaderSize {
		data := received.Bytes()
		if !bytes.HasPrefix(data, s.net[:]) {
			s.resync(received)
			continue
		}

		length := binary.LittleEndian.Uint32(data[lengthOffset:])
		if length > wire.MaxPayloadSize {
			s.resync(received)
			continue
		}

		frameLen := wire.HeaderSize + int(length)
		if received.Len() < frameLen {
			break
		}

		frame := make([]byte, frameLen)
		if _, err := received.Read(frame); err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

// resync drops bytes up to the next magic after the current position.
// Without one it keeps the tail that may hold the first bytes of a magic.
func (s *streamSplitter) resync(received *bytes.Buffer) {
	data := received.Bytes()

	drop := len(data) - (len(s.net) - 1)
	if idx := wire.FindMagic(data[1:], s.net); idx >= 0 {
		drop = idx + 1
	}

	received.Next(drop)
	s.skipped += drop
	logger.Warn("skip %d bytes to find the next %s frame\n", drop, s.net)
}
