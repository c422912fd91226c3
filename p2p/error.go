package p2p

import (
	"errors"
	"fmt"
)

var ErrHandshakeTimeout = errors.New("handshake timeout")

var ErrSelfConnection = errors.New("connected to self")

var ErrDisconnected = errors.New("disconnected")

type VersionTooOldError struct {
	Min int32
	Got int32
}

func (v VersionTooOldError) Error() string {
	return fmt.Sprintf("protocol version %d too old, minimum %d", v.Got, v.Min)
}

// UnexpectedMessageError means the peer sent a known message before the handshake finished
type UnexpectedMessageError struct {
	Command string
}

func (u UnexpectedMessageError) Error() string {
	return fmt.Sprintf("unexpected %s during handshake", u.Command)
}

type BrokenDataError struct {
	info string
}

func (b BrokenDataError) Error() string {
	return b.info
}
