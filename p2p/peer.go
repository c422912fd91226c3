package p2p

import (
	"errors"
	"fmt"
	"time"

	"github.com/996BC/btcwire/params"
	"github.com/996BC/btcwire/serialize/wire"
	"github.com/996BC/btcwire/utils"
)

var logger = utils.NewLogger("p2p")

// Config is configs for an outbound peer connection
type Config struct {
	Net              params.Net
	Services         params.ServiceFlag
	UserAgent        string
	StartHeight      int32
	Relay            bool
	DialTimeout      time.Duration
	HandshakeTimeout time.Duration
}

// Handler gets every message received after the handshake, in order.
// It runs on the receiving goroutine and must not call Stop synchronously.
type Handler func(p *Peer, msg wire.Message)

// Peer is a connection that finished the version handshake.
// Pings are answered before the handler sees them.
type Peer struct {
	net     params.Net
	conn    utils.TCPConn
	handler Handler
	remote  *wire.MsgVersion
	lm      *utils.LoopMode
}

// Connect dials addr (ip:port) and performs the handshake
func Connect(addr string, c *Config, handler Handler) (*Peer, error) {
	conn, err := utils.TCPConnectTo(addr, c.DialTimeout, newStreamSplitter(c.Net).split)
	if err != nil {
		return nil, err
	}

	p, err := newPeer(conn, newNegotiator(c), c.Net, handler)
	if err != nil {
		conn.Disconnect()
		return nil, err
	}
	p.start()
	return p, nil
}

func newPeer(conn utils.TCPConn, ng negotiator, net params.Net, handler Handler) (*Peer, error) {
	remote, err := ng.handshake(conn)
	if err != nil {
		return nil, fmt.Errorf("handshake with %v failed: %w", conn.RemoteAddr(), err)
	}
	logger.Info("handshake with %v done, %s\n", conn.RemoteAddr(), remote)

	return &Peer{
		net:     net,
		conn:    conn,
		handler: handler,
		remote:  remote,
		lm:      utils.NewLoop(),
	}, nil
}

func (p *Peer) String() string {
	return fmt.Sprintf("[Peer] %v on %s", p.conn.RemoteAddr(), p.net)
}

// RemoteVersion is the version message the peer sent during the handshake
func (p *Peer) RemoteVersion() *wire.MsgVersion {
	return p.remote
}

func (p *Peer) Send(msg wire.Message) error {
	frame, err := wire.EncodeMessage(p.net, msg)
	if err != nil {
		return err
	}
	p.conn.Send(frame)
	return nil
}

// Done is closed once the connection is down
func (p *Peer) Done() <-chan struct{} {
	return p.conn.Disconnected()
}

func (p *Peer) Stop() {
	if p.lm.Stop() {
		p.conn.Disconnect()
	}
}

func (p *Peer) start() {
	p.lm.Add()
	go p.loop()
	p.lm.StartWorking()
}

func (p *Peer) loop() {
	defer p.lm.Done()

	recvC := p.conn.GetRecvChannel()
	for {
		select {
		case <-p.lm.D:
			return
		case <-p.conn.Disconnected():
			logger.Info("%v disconnected\n", p.conn.RemoteAddr())
			return
		case frame := <-recvC:
			if !p.handleFrame(frame) {
				go p.Stop()
				return
			}
		}
	}
}

// handleFrame returns false if the connection can not go on
func (p *Peer) handleFrame(frame []byte) bool {
	env, _, err := wire.DecodeEnvelope(frame, p.net)
	if err != nil {
		logger.Warn("drop %v: %v\n", p.conn.RemoteAddr(), err)
		return false
	}

	msg, err := wire.DecodeMessage(env)
	if err != nil {
		var unknown wire.UnknownCommandError
		if errors.As(err, &unknown) {
			logger.Debug("skip unknown command %s from %v\n", unknown.Name, p.conn.RemoteAddr())
		} else {
			logger.Warn("skip message from %v: %v\n", p.conn.RemoteAddr(), err)
		}
		return true
	}

	if ping, ok := msg.(*wire.MsgPing); ok {
		if err := p.Send(wire.NewMsgPong(ping.Nonce)); err != nil {
			logger.Warn("answer ping failed:%v\n", err)
		}
	}

	if p.handler != nil {
		p.handler(p, msg)
	}
	return true
}
