package utils

import (
	"bytes"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

const (
	tcpRecvQSize      = 1024
	tcpReadBufferSize = 4096
	tcpRecvTimeout    = 2 * time.Second
	tcpSendQSize      = 1024
)

// SplitFunc cuts the complete packets off the front of received and leaves the rest.
// An error closes the connection.
type SplitFunc func(received *bytes.Buffer) ([][]byte, error)

type TCPConn interface {
	Send(data []byte)
	GetRecvChannel() <-chan []byte
	// Disconnected is closed once the connection is down
	Disconnected() <-chan struct{}
	RemoteAddr() net.Addr
	LocalAddr() net.Addr
	Disconnect()
}

// TCPConnectTo dials addr (ip:port) and starts receiving with split
func TCPConnectTo(addr string, timeout time.Duration, split SplitFunc) (TCPConn, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return NewTCPConn(conn, split), nil
}

// NewTCPConn wraps an established connection
func NewTCPConn(conn net.Conn, split SplitFunc) TCPConn {
	result := &tcpConn{
		conn:         conn,
		split:        split,
		recvQ:        make(chan []byte, tcpRecvQSize),
		sendQ:        make(chan []byte, tcpSendQSize),
		disconnected: make(chan struct{}),
		lm:           NewLoop(),
	}
	result.start()

	return result
}

type tcpConn struct {
	conn         net.Conn
	split        SplitFunc
	recvQ        chan []byte
	sendQ        chan []byte
	disconnected chan struct{}
	closing      int32
	stopOnce     sync.Once
	lm           *LoopMode
}

func (c *tcpConn) Send(data []byte) {
	select {
	case c.sendQ <- data:
	case <-c.disconnected:
	}
}

func (c *tcpConn) GetRecvChannel() <-chan []byte {
	return c.recvQ
}

func (c *tcpConn) Disconnected() <-chan struct{} {
	return c.disconnected
}

func (c *tcpConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *tcpConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

func (c *tcpConn) Disconnect() {
	c.stop()
}

func (c *tcpConn) start() {
	c.lm.Add()
	go c.recv()
	c.lm.Add()
	go c.send()
	c.lm.StartWorking()
}

func (c *tcpConn) stop() {
	c.stopOnce.Do(func() {
		atomic.StoreInt32(&c.closing, 1)
		c.conn.Close()
		c.lm.Stop()
		close(c.disconnected)
	})
}

func (c *tcpConn) recv() {
	defer c.lm.Done()

	buffer := new(bytes.Buffer)
	readBuf := make([]byte, tcpReadBufferSize)
	for {
		select {
		case <-c.lm.D:
			return
		default:
		}

		c.conn.SetReadDeadline(time.Now().Add(tcpRecvTimeout))
		size, err := c.conn.Read(readBuf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if atomic.LoadInt32(&c.closing) == 0 {
				if err == io.EOF {
					logger.Debug("connection closed by remote:%v\n", c.RemoteAddr())
				} else {
					logger.Warn("connection got unexpected err:%v\n", err)
				}
				go c.stop()
			}
			return
		}

		buffer.Write(readBuf[:size])
		if c.split == nil {
			continue
		}

		pkts, err := c.split(buffer)
		if err != nil {
			logger.Warn("tcp split packet err:%v\n", err)
			go c.stop()
			return
		}
		for _, pkt := range pkts {
			select {
			case c.recvQ <- pkt:
			case <-c.lm.D:
				return
			}
		}
	}
}

func (c *tcpConn) send() {
	defer c.lm.Done()

	for {
		select {
		case <-c.lm.D:
			return
		case pkt := <-c.sendQ:
			if _, err := c.conn.Write(pkt); err != nil {
				if atomic.LoadInt32(&c.closing) == 0 {
					logger.Warn("send to %v failed:%v , close connection\n", c.RemoteAddr(), err)
					go c.stop()
				}
				return
			}
		}
	}
}
