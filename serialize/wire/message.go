package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/996BC/btcwire/params"
)

// Message is a typed payload. The set of messages is closed,
// every implementation lives in this package.
type Message interface {
	Command() string
	Marshal() []byte
	unmarshal(r io.Reader) error
}

func makeEmptyMessage(command string) (Message, error) {
	switch command {
	case CmdVersion:
		return &MsgVersion{}, nil
	case CmdVerAck:
		return &MsgVerAck{}, nil
	case CmdAddr:
		return &MsgAddr{}, nil
	case CmdGetAddr:
		return &MsgGetAddr{}, nil
	case CmdInv:
		return &MsgInv{}, nil
	case CmdGetData:
		return &MsgGetData{}, nil
	case CmdNotFound:
		return &MsgNotFound{}, nil
	case CmdGetBlocks:
		return &MsgGetBlocks{}, nil
	case CmdGetHeaders:
		return &MsgGetHeaders{}, nil
	case CmdHeaders:
		return &MsgHeaders{}, nil
	case CmdBlock:
		return &MsgBlock{}, nil
	case CmdTx:
		return &MsgTx{}, nil
	case CmdPing:
		return &MsgPing{}, nil
	case CmdPong:
		return &MsgPong{}, nil
	}
	return nil, UnknownCommandError{Name: command}
}

// DecodePayload decodes payload as the message named by command.
// The payload must be consumed exactly.
func DecodePayload(command string, payload []byte) (Message, error) {
	msg, err := makeEmptyMessage(command)
	if err != nil {
		return nil, err
	}
	if err := unmarshalExact(msg, payload); err != nil {
		return nil, err
	}
	return msg, nil
}

// DecodeMessage dispatches a verified envelope to its payload codec
func DecodeMessage(env *Envelope) (Message, error) {
	msg, err := DecodePayload(env.Command, env.Payload)
	if err != nil {
		return nil, err
	}
	if env.Net.IsTestNet() {
		markTestNet(msg)
	}
	return msg, nil
}

// ReadMessage reads one frame from r and decodes its payload.
// The envelope is returned with an UnknownCommandError so callers can skip the frame.
func ReadMessage(r io.Reader, net params.Net) (Message, *Envelope, error) {
	env, err := ReadEnvelope(r, net)
	if err != nil {
		return nil, nil, err
	}
	msg, err := DecodeMessage(env)
	if err != nil {
		return nil, env, err
	}
	return msg, env, nil
}

// EncodeMessage frames msg for net
func EncodeMessage(net params.Net, msg Message) ([]byte, error) {
	return EncodeEnvelope(net, msg.Command(), msg.Marshal())
}

func unmarshalExact(msg Message, payload []byte) error {
	r := bytes.NewReader(payload)
	if err := msg.unmarshal(r); err != nil {
		return payloadError(msg.Command(), err)
	}
	if r.Len() != 0 {
		return malformed(msg.Command(), fmt.Sprintf("%d trailing bytes", r.Len()), nil)
	}
	return nil
}

func markTestNet(msg Message) {
	switch m := msg.(type) {
	case *MsgTx:
		m.TestNet = true
	case *MsgBlock:
		for _, tx := range m.Transactions {
			tx.TestNet = true
		}
	}
}
