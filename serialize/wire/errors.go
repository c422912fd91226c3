package wire

import (
	"errors"
	"fmt"
)

// ErrTruncatedInput means the source holds fewer bytes than the field or frame needs.
// It is not a corruption signal: retry once more bytes arrived.
var ErrTruncatedInput = errors.New("truncated input")

// ErrPayloadShort means a payload ended before its message did.
// The frame was complete, so waiting for more bytes will not help.
var ErrPayloadShort = errors.New("payload too short")

// ErrLengthOutOfRange is returned for a count or length prefix above its limit
var ErrLengthOutOfRange = errors.New("length prefix out of range")

// BadMagicError means the stream is not aligned to a frame or belongs to another network
type BadMagicError struct {
	Expect [4]byte
	Got    [4]byte
}

func (b BadMagicError) Error() string {
	return fmt.Sprintf("bad magic %X, expect %X", b.Got[:], b.Expect[:])
}

// PayloadTooLargeError means the declared payload length can not be trusted
type PayloadTooLargeError struct {
	Length uint32
}

func (p PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload length %d exceeds limit %d", p.Length, MaxPayloadSize)
}

type ChecksumMismatchError struct {
	Expect [ChecksumSize]byte
	Got    [ChecksumSize]byte
}

func (c ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch, expect %X, got %X", c.Expect[:], c.Got[:])
}

type UnknownCommandError struct {
	Name string
}

func (u UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", u.Name)
}

// MalformedPayloadError scopes a decode failure to one message
type MalformedPayloadError struct {
	Command string
	Detail  string
	Err     error
}

func (m MalformedPayloadError) Error() string {
	switch {
	case m.Err == nil:
		return fmt.Sprintf("malformed %s payload: %s", m.Command, m.Detail)
	case m.Detail == "":
		return fmt.Sprintf("malformed %s payload: %v", m.Command, m.Err)
	default:
		return fmt.Sprintf("malformed %s payload: %s: %v", m.Command, m.Detail, m.Err)
	}
}

func (m MalformedPayloadError) Unwrap() error {
	return m.Err
}

type CommandTooLongError struct {
	Name string
}

func (c CommandTooLongError) Error() string {
	return fmt.Sprintf("command %q longer than %d bytes", c.Name, CommandSize)
}

func malformed(command, detail string, err error) error {
	return MalformedPayloadError{Command: command, Detail: detail, Err: payloadShort(err)}
}

// payloadShort turns running out of bytes inside a payload into ErrPayloadShort
func payloadShort(err error) error {
	if errors.Is(err, ErrTruncatedInput) {
		var m MalformedPayloadError
		if !errors.As(err, &m) {
			return ErrPayloadShort
		}
	}
	return err
}

// payloadError scopes err to command, keeping the detail of an inner MalformedPayloadError
func payloadError(command string, err error) error {
	if err == nil {
		return nil
	}
	var m MalformedPayloadError
	if errors.As(err, &m) {
		m.Command = command
		return m
	}
	return MalformedPayloadError{Command: command, Err: payloadShort(err)}
}
