package p2p

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/996BC/btcwire/params"
	"github.com/996BC/btcwire/serialize/wire"
)

var mockRemoteAddr = &net.TCPAddr{IP: net.ParseIP("192.168.1.2"), Port: 8333}
var mockLocalAddr = &net.TCPAddr{IP: net.ParseIP("192.168.1.3"), Port: 50000}

///////////////////////////////////////tcpConnMock

type tcpConnMock struct {
	sendQ        chan []byte
	recvQ        chan []byte
	disconnected chan struct{}
	once         sync.Once
}

func newTCPConnMock() *tcpConnMock {
	return &tcpConnMock{
		sendQ:        make(chan []byte, 128),
		recvQ:        make(chan []byte, 128),
		disconnected: make(chan struct{}),
	}
}

func (t *tcpConnMock) Send(data []byte) {
	t.sendQ <- data
}
func (t *tcpConnMock) GetRecvChannel() <-chan []byte {
	return t.recvQ
}
func (t *tcpConnMock) Disconnected() <-chan struct{} {
	return t.disconnected
}
func (t *tcpConnMock) RemoteAddr() net.Addr {
	return mockRemoteAddr
}
func (t *tcpConnMock) LocalAddr() net.Addr {
	return mockLocalAddr
}
func (t *tcpConnMock) Disconnect() {
	t.once.Do(func() { close(t.disconnected) })
}

func (t *tcpConnMock) setRecvMsg(tt *testing.T, msg wire.Message) {
	frame, err := wire.EncodeMessage(params.RegTest, msg)
	require.NoError(tt, err)
	t.recvQ <- frame
}

func (t *tcpConnMock) getSendMsg(tt *testing.T) wire.Message {
	select {
	case frame := <-t.sendQ:
		env, _, err := wire.DecodeEnvelope(frame, params.RegTest)
		require.NoError(tt, err)
		msg, err := wire.DecodeMessage(env)
		require.NoError(tt, err)
		return msg
	case <-time.After(5 * time.Second):
		tt.Fatal("nothing sent")
		return nil
	}
}
