package p2p

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/996BC/btcwire/params"
	"github.com/996BC/btcwire/serialize/wire"
	"github.com/996BC/btcwire/utils"
)

/*
outbound handshake:
	1. send version with a random nonce
	2. on the remote version: refuse our own nonce and old versions, reply verack
	3. done once the remote version and verack both arrived, in either order
unknown commands in between are skipped, newer peers announce features there
*/

type negotiator interface {
	handshake(conn utils.TCPConn) (*wire.MsgVersion, error)
}

type negotiatorImp struct {
	net          params.Net
	services     params.ServiceFlag
	userAgent    string
	startHeight  int32
	relay        bool
	timeout      time.Duration
	genNonceFunc func() uint64 // for test stub
}

func newNegotiator(c *Config) negotiator {
	return &negotiatorImp{
		net:          c.Net,
		services:     c.Services,
		userAgent:    c.UserAgent,
		startHeight:  c.StartHeight,
		relay:        c.Relay,
		timeout:      c.HandshakeTimeout,
		genNonceFunc: wire.RandomNonce,
	}
}

func (n *negotiatorImp) handshake(conn utils.TCPConn) (*wire.MsgVersion, error) {
	nonce := n.genNonceFunc()
	if err := n.send(conn, n.genVersion(conn, nonce)); err != nil {
		return nil, err
	}

	timeout := time.NewTimer(n.timeout)
	defer timeout.Stop()

	var remote *wire.MsgVersion
	gotVerAck := false
	for remote == nil || !gotVerAck {
		msg, err := n.readMessage(conn, timeout.C)
		if err != nil {
			return nil, err
		}

		switch m := msg.(type) {
		case nil:
		case *wire.MsgVersion:
			if remote != nil {
				return nil, UnexpectedMessageError{Command: m.Command()}
			}
			if err := n.checkVersion(m, nonce); err != nil {
				return nil, err
			}
			remote = m
			if err := n.send(conn, &wire.MsgVerAck{}); err != nil {
				return nil, err
			}
		case *wire.MsgVerAck:
			gotVerAck = true
		default:
			return nil, UnexpectedMessageError{Command: m.Command()}
		}
	}

	return remote, nil
}

func (n *negotiatorImp) genVersion(conn utils.TCPConn, nonce uint64) *wire.MsgVersion {
	remoteAddr, _ := conn.RemoteAddr().(*net.TCPAddr)
	localAddr, _ := conn.LocalAddr().(*net.TCPAddr)

	result := wire.NewMsgVersion(
		wire.NewNetworkAddressFromTCP(remoteAddr, 0),
		wire.NewNetworkAddressFromTCP(localAddr, n.services),
		nonce, n.startHeight)
	result.Services = n.services
	result.UserAgent = n.userAgent
	result.Relay = n.relay
	return result
}

func (n *negotiatorImp) checkVersion(remote *wire.MsgVersion, nonce uint64) error {
	if remote.Nonce == nonce {
		return ErrSelfConnection
	}
	if remote.ProtocolVersion < params.MinimumPeerVersion {
		return VersionTooOldError{Min: params.MinimumPeerVersion, Got: remote.ProtocolVersion}
	}
	return nil
}

// readMessage returns a nil message for a skipped unknown command
func (n *negotiatorImp) readMessage(conn utils.TCPConn, timeout <-chan time.Time) (wire.Message, error) {
	var frame []byte
	select {
	case <-timeout:
		return nil, ErrHandshakeTimeout
	case <-conn.Disconnected():
		return nil, ErrDisconnected
	case frame = <-conn.GetRecvChannel():
	}

	env, _, err := wire.DecodeEnvelope(frame, n.net)
	if err != nil {
		return nil, BrokenDataError{
			info: fmt.Sprintf("decode handshake frame failed:%v", err),
		}
	}

	msg, err := wire.DecodeMessage(env)
	var unknown wire.UnknownCommandError
	if errors.As(err, &unknown) {
		logger.Debug("skip %s during handshake with %v\n", unknown.Name, conn.RemoteAddr())
		return nil, nil
	}
	if err != nil {
		return nil, BrokenDataError{
			info: fmt.Sprintf("decode handshake message failed:%v", err),
		}
	}
	return msg, nil
}

func (n *negotiatorImp) send(conn utils.TCPConn, msg wire.Message) error {
	frame, err := wire.EncodeMessage(n.net, msg)
	if err != nil {
		return err
	}
	conn.Send(frame)
	return nil
}
