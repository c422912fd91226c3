package wire

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/996BC/btcwire/params"
)

func decodeFrame(t *testing.T, network params.Net, msg Message) Message {
	frame, err := EncodeMessage(network, msg)
	require.NoError(t, err)
	env, n, err := DecodeEnvelope(frame, network)
	require.NoError(t, err)
	require.Equal(t, len(frame), n)
	result, err := DecodeMessage(env)
	require.NoError(t, err)
	return result
}

func requireMalformed(t *testing.T, err error, command string) MalformedPayloadError {
	var malformedErr MalformedPayloadError
	require.True(t, errors.As(err, &malformedErr), "got %v", err)
	require.Equal(t, command, malformedErr.Command)
	return malformedErr
}

func TestVersionMessage(t *testing.T) {
	addrRecv := NewNetworkAddress(net.ParseIP("10.0.0.1"), 8333, params.NodeNetwork)
	addrFrom := NewNetworkAddress(net.ParseIP("10.0.0.2"), 8333, params.NodeNetwork)
	version := NewMsgVersion(addrRecv, addrFrom, 0x1122334455667788, 0)

	require.Equal(t, int32(70015), version.ProtocolVersion)
	require.Equal(t, params.NodeNetwork, version.Services)
	require.Equal(t, "/some-cool-software/", version.UserAgent)
	require.True(t, version.Relay)

	payload := version.Marshal()
	require.Len(t, payload, 4+8+8+26+26+8+1+20+4+1)
	// the addresses carry no timestamp and a big endian port
	require.Equal(t, []byte{0x20, 0x8d}, payload[20+24:20+26])

	result := decodeFrame(t, params.MainNet, version)
	require.Equal(t, version, result)

	rVersion := result.(*MsgVersion)
	require.True(t, rVersion.AddrRecv.Timestamp.IsZero())
	require.Equal(t, "10.0.0.1:8333", rVersion.AddrRecv.Key())
	require.Equal(t, int32(0), rVersion.StartHeight)
}

func TestVersionRelayOptional(t *testing.T) {
	version := NewTestVersion()
	version.ProtocolVersion = 60002
	payload := version.Marshal()

	result, err := UnmarshalVersion(bytes.NewReader(payload[:len(payload)-1]))
	require.NoError(t, err)
	require.True(t, result.Relay)

	version.ProtocolVersion = params.ProtocolVersion
	version.Relay = false
	payload = version.Marshal()
	result, err = UnmarshalVersion(bytes.NewReader(payload))
	require.NoError(t, err)
	require.False(t, result.Relay)

	// the relay byte is mandatory from the relay version on
	_, err = DecodePayload(CmdVersion, payload[:len(payload)-1])
	malformedErr := requireMalformed(t, err, CmdVersion)
	require.ErrorIs(t, malformedErr, ErrPayloadShort)
}

func TestVersionUserAgentTooLong(t *testing.T) {
	version := NewTestVersion()
	version.UserAgent = string(bytes.Repeat([]byte{'a'}, MaxUserAgentLen+1))

	_, err := DecodePayload(CmdVersion, version.Marshal())
	malformedErr := requireMalformed(t, err, CmdVersion)
	require.ErrorIs(t, malformedErr, ErrLengthOutOfRange)
}

func TestEmptyMessages(t *testing.T) {
	require.Equal(t, &MsgVerAck{}, decodeFrame(t, params.MainNet, &MsgVerAck{}))
	require.Equal(t, &MsgGetAddr{}, decodeFrame(t, params.MainNet, &MsgGetAddr{}))

	_, err := DecodePayload(CmdVerAck, []byte{0x00})
	requireMalformed(t, err, CmdVerAck)
}

func TestPingPong(t *testing.T) {
	nonce := RandomNonce()
	require.Equal(t, NewMsgPing(nonce), decodeFrame(t, params.MainNet, NewMsgPing(nonce)))
	require.Equal(t, NewMsgPong(nonce), decodeFrame(t, params.MainNet, NewMsgPong(nonce)))

	_, err := DecodePayload(CmdPing, make([]byte, 9))
	malformedErr := requireMalformed(t, err, CmdPing)
	require.Contains(t, malformedErr.Detail, "trailing")

	_, err = DecodePayload(CmdPong, make([]byte, 7))
	malformedErr = requireMalformed(t, err, CmdPong)
	require.ErrorIs(t, malformedErr, ErrPayloadShort)
}

func TestAddrMessage(t *testing.T) {
	msg := &MsgAddr{}
	for i := 0; i < 3; i++ {
		require.NoError(t, msg.AddAddress(NewTestNetworkAddress(AddrWithTimestamp)))
	}
	payload := msg.Marshal()
	require.Len(t, payload, 1+3*30)

	result := decodeFrame(t, params.MainNet, msg)
	require.Equal(t, msg, result)

	full := &MsgAddr{}
	for i := 0; i < MaxAddrPerMsg; i++ {
		require.NoError(t, full.AddAddress(NewTestNetworkAddress(AddrWithTimestamp)))
	}
	require.ErrorIs(t, full.AddAddress(NewTestNetworkAddress(AddrWithTimestamp)), ErrLengthOutOfRange)

	// 1001 declared addresses
	_, err := DecodePayload(CmdAddr, []byte{0xfd, 0xe9, 0x03})
	malformedErr := requireMalformed(t, err, CmdAddr)
	require.ErrorIs(t, malformedErr, ErrLengthOutOfRange)
}

func TestInventoryMessages(t *testing.T) {
	inv := &MsgInv{}
	require.NoError(t, inv.AddInvVect(NewInvVect(InvTypeTx, RandHash())))
	require.NoError(t, inv.AddInvVect(NewInvVect(InvTypeBlock, RandHash())))
	require.Len(t, inv.Marshal(), 1+2*36)
	require.Equal(t, inv, decodeFrame(t, params.MainNet, inv))

	getData := &MsgGetData{InvList: inv.InvList}
	require.Equal(t, getData, decodeFrame(t, params.MainNet, getData))

	notFound := &MsgNotFound{InvList: inv.InvList[:1]}
	require.Equal(t, notFound, decodeFrame(t, params.MainNet, notFound))

	require.Equal(t, &MsgInv{}, decodeFrame(t, params.MainNet, &MsgInv{}))

	// unnamed types decode, peers may announce newer ones
	future := &MsgInv{InvList: []*InvVect{NewInvVect(InvType(0x40000001), RandHash())}}
	rFuture := decodeFrame(t, params.MainNet, future).(*MsgInv)
	require.False(t, rFuture.InvList[0].Type.IsKnown())
	require.Equal(t, "MSG_BLOCK", InvTypeBlock.String())

	// a count of 50001 is refused before reading any vector
	_, err := DecodePayload(CmdInv, []byte{0xfe, 0x51, 0xc3, 0x00, 0x00})
	malformedErr := requireMalformed(t, err, CmdInv)
	require.ErrorIs(t, malformedErr, ErrLengthOutOfRange)

	_, err = DecodePayload(CmdGetData, inv.Marshal()[:40])
	malformedErr = requireMalformed(t, err, CmdGetData)
	require.ErrorIs(t, malformedErr, ErrPayloadShort)
}

func TestLocatorMessages(t *testing.T) {
	getHeaders := NewMsgGetHeaders(ZeroHash, RandHash(), RandHash(), RandHash())
	require.Equal(t, uint32(params.ProtocolVersion), getHeaders.ProtocolVersion)
	require.Len(t, getHeaders.Marshal(), 4+1+3*32+32)
	require.Equal(t, getHeaders, decodeFrame(t, params.MainNet, getHeaders))

	getBlocks := NewMsgGetBlocks(RandHash(), RandHash())
	require.Equal(t, getBlocks, decodeFrame(t, params.MainNet, getBlocks))

	locator := NewBlockLocator()
	for i := 0; i < MaxBlockLocatorHashes; i++ {
		require.NoError(t, locator.AddHash(RandHash()))
	}
	require.ErrorIs(t, locator.AddHash(RandHash()), ErrLengthOutOfRange)

	// 501 declared hashes
	_, err := DecodePayload(CmdGetHeaders, []byte{0x7f, 0x11, 0x01, 0x00, 0xfd, 0xf5, 0x01})
	malformedErr := requireMalformed(t, err, CmdGetHeaders)
	require.ErrorIs(t, malformedErr, ErrLengthOutOfRange)
}

func TestHeadersMessage(t *testing.T) {
	first := NewTestBlockHeader()
	second := NewTestBlockHeader()
	second.PrevBlock = first.Hash()

	msg := &MsgHeaders{}
	require.NoError(t, msg.AddBlockHeader(first))
	require.NoError(t, msg.AddBlockHeader(second))

	payload := msg.Marshal()
	require.Len(t, payload, 1+2*81)
	require.Equal(t, byte(0), payload[81])
	require.Equal(t, byte(0), payload[162])

	result := decodeFrame(t, params.MainNet, msg).(*MsgHeaders)
	require.Len(t, result.Headers, 2)
	require.Equal(t, first, result.Headers[0])
	require.Equal(t, uint64(0), result.Headers[1].TxCount)
	require.NotEqual(t, result.Headers[0].Hash(), result.Headers[1].Hash())
	require.Equal(t, result.Headers[0].Hash(), result.Headers[1].PrevBlock)

	// a header carrying transactions is refused
	payload[81] = 1
	_, err := DecodePayload(CmdHeaders, payload)
	malformedErr := requireMalformed(t, err, CmdHeaders)
	require.Contains(t, malformedErr.Detail, "transactions")
}

func TestBlockHeaderLayout(t *testing.T) {
	header := NewBlockHeader(2, RandHash(), RandHash(), 0x1d00ffff, 0xdeadbeef)
	header.Timestamp = time.Unix(1231006505, 0)

	raw := header.Marshal()
	require.Len(t, raw, BlockHeaderSize)
	require.Equal(t, header.PrevBlock.WireBytes(), raw[4:36])
	require.Equal(t, []byte{0xff, 0xff, 0x00, 0x1d}, raw[72:76])
	require.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, raw[76:80])

	result, err := UnmarshalBlockHeader(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, header, result)
	require.Equal(t, uint32(0x1d00ffff), result.BitsUint32())
	require.Equal(t, uint32(0xdeadbeef), result.NonceUint32())

	_, err = UnmarshalBlockHeader(bytes.NewReader(raw[:79]))
	require.ErrorIs(t, err, ErrTruncatedInput)
}

func TestTxMessage(t *testing.T) {
	tx := NewTestTx(2, 3)
	require.Equal(t, tx, decodeFrame(t, params.MainNet, tx))

	rTx := decodeFrame(t, params.TestNet3, tx).(*MsgTx)
	require.True(t, rTx.TestNet)
	require.Equal(t, tx.TxHash(), rTx.TxHash())

	// the hash does not depend on the network
	rTx.TestNet = false
	require.Equal(t, tx, rTx)
}

func TestTxNoInputs(t *testing.T) {
	// version 1, no inputs, no outputs, lock time 0
	payload := []byte{0x01, 0, 0, 0, 0x00, 0x00, 0, 0, 0, 0}
	msg, err := DecodePayload(CmdTx, payload)
	require.NoError(t, err)

	tx := msg.(*MsgTx)
	require.Equal(t, int32(1), tx.Version)
	require.Empty(t, tx.TxIn)
	require.Empty(t, tx.TxOut)
	require.Equal(t, payload, tx.Marshal())

	// the byte after the input count is the output count, 0x01 included
	for outputs := 1; outputs <= 3; outputs++ {
		tx = NewTestTx(0, outputs)
		raw := tx.Marshal()
		require.Equal(t, []byte{0x00, byte(outputs)}, raw[4:6])

		rMsg, err := DecodePayload(CmdTx, raw)
		require.NoError(t, err, "%d outputs", outputs)
		require.Equal(t, tx, rMsg)
	}

	tx = NewMsgTx(1)
	tx.AddTxOut(NewTxOut(5000, []byte{0x51}))
	require.Equal(t, tx, decodeFrame(t, params.MainNet, tx))
}

func TestTxTruncated(t *testing.T) {
	raw := NewTestTx(1, 1).Marshal()
	for k := 0; k < len(raw); k++ {
		_, err := UnmarshalTx(bytes.NewReader(raw[:k]))
		malformedErr := requireMalformed(t, err, CmdTx)
		require.ErrorIs(t, malformedErr, ErrPayloadShort, "prefix of %d bytes", k)
		require.NotErrorIs(t, malformedErr, ErrTruncatedInput, "prefix of %d bytes", k)
	}
}

func TestBlockMessage(t *testing.T) {
	block := NewTestBlock(3)
	block.Header.TxCount = 99

	payload := block.Marshal()
	// the header count field is ignored, the real count follows the header
	require.Equal(t, byte(3), payload[BlockHeaderSize])

	result := decodeFrame(t, params.RegTest, block).(*MsgBlock)
	require.Equal(t, uint64(0), result.Header.TxCount)
	require.Len(t, result.Transactions, 3)
	require.Equal(t, block.BlockHash(), result.BlockHash())
	require.Equal(t, block.TxHashes(), result.TxHashes())
	for _, tx := range result.Transactions {
		require.True(t, tx.TestNet)
	}

	_, err := DecodePayload(CmdBlock, payload[:len(payload)-1])
	malformedErr := requireMalformed(t, err, CmdBlock)
	require.ErrorIs(t, malformedErr, ErrPayloadShort)
	require.NotErrorIs(t, malformedErr, ErrTruncatedInput)
}

func TestTrailingBytes(t *testing.T) {
	for _, msg := range []Message{NewTestVersion(), NewTestTx(1, 1), NewTestBlock(1), &MsgHeaders{}} {
		payload := append(msg.Marshal(), 0x00)
		_, err := DecodePayload(msg.Command(), payload)
		requireMalformed(t, err, msg.Command())
	}
}
