package p2p

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/996BC/btcwire/params"
	"github.com/996BC/btcwire/serialize/wire"
)

func testFrames(t *testing.T) [][]byte {
	var result [][]byte
	for _, msg := range []wire.Message{wire.NewTestVersion(), &wire.MsgVerAck{}, wire.NewTestBlock(2), wire.NewMsgPing(1)} {
		frame, err := wire.EncodeMessage(params.MainNet, msg)
		require.NoError(t, err)
		result = append(result, frame)
	}
	return result
}

func TestSplitByteByByte(t *testing.T) {
	frames := testFrames(t)
	stream := bytes.Join(frames, nil)

	splitter := newStreamSplitter(params.MainNet)
	received := new(bytes.Buffer)
	var result [][]byte
	for _, b := range stream {
		received.WriteByte(b)
		pkts, err := splitter.split(received)
		require.NoError(t, err)
		result = append(result, pkts...)
	}

	require.Equal(t, frames, result)
	require.Zero(t, received.Len())
	require.Zero(t, splitter.skipped)
}

func TestSplitAtOnce(t *testing.T) {
	frames := testFrames(t)
	received := bytes.NewBuffer(bytes.Join(frames, nil))

	result, err := newStreamSplitter(params.MainNet).split(received)
	require.NoError(t, err)
	require.Equal(t, frames, result)
}

func TestSplitResync(t *testing.T) {
	frames := testFrames(t)

	// garbage with a partial magic, then a testnet frame, then a real frame
	garbage := []byte{0x01, 0xf9, 0xbe, 0xb4, 0x00, 0x02}
	testnetFrame, err := wire.EncodeMessage(params.TestNet3, &wire.MsgVerAck{})
	require.NoError(t, err)

	stream := append(append([]byte{}, garbage...), testnetFrame...)
	stream = append(stream, frames[0]...)
	stream = append(stream, frames[1]...)

	splitter := newStreamSplitter(params.MainNet)
	result, err := splitter.split(bytes.NewBuffer(stream))
	require.NoError(t, err)
	require.Equal(t, frames[:2], result)
	require.Equal(t, len(garbage)+len(testnetFrame), splitter.skipped)
}

func TestSplitOversized(t *testing.T) {
	frames := testFrames(t)

	header := make([]byte, wire.HeaderSize)
	copy(header, params.MainNet[:])
	copy(header[4:], wire.CmdBlock)
	binary.LittleEndian.PutUint32(header[lengthOffset:], wire.MaxPayloadSize+1)

	received := bytes.NewBuffer(append(header, frames[3]...))
	splitter := newStreamSplitter(params.MainNet)
	result, err := splitter.split(received)
	require.NoError(t, err)
	require.Equal(t, frames[3:], result)
	require.Equal(t, wire.HeaderSize, splitter.skipped)
}

func TestSplitGarbageOnly(t *testing.T) {
	garbage := bytes.Repeat([]byte{0xaa}, 40)
	garbage = append(garbage, params.MainNet[:3]...)

	received := bytes.NewBuffer(garbage)
	splitter := newStreamSplitter(params.MainNet)
	result, err := splitter.split(received)
	require.NoError(t, err)
	require.Empty(t, result)

	// the possible start of a magic stays
	require.Equal(t, params.MainNet[:3], received.Bytes())
}
