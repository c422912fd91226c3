package wire

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/996BC/btcwire/params"
)

// MsgVersion opens the handshake. Both address fields carry no timestamp.
type MsgVersion struct {
	ProtocolVersion int32
	Services        params.ServiceFlag
	Timestamp       time.Time
	AddrRecv        NetworkAddress
	AddrFrom        NetworkAddress
	Nonce           uint64
	UserAgent       string
	StartHeight     int32
	// Relay is optional on the wire below params.RelayVersion and defaults to true
	Relay bool
}

func NewMsgVersion(addrRecv, addrFrom *NetworkAddress, nonce uint64, startHeight int32) *MsgVersion {
	return &MsgVersion{
		ProtocolVersion: params.ProtocolVersion,
		Services:        params.NodeNetwork,
		Timestamp:       time.Unix(time.Now().Unix(), 0),
		AddrRecv:        *addrRecv,
		AddrFrom:        *addrFrom,
		Nonce:           nonce,
		UserAgent:       params.DefaultUserAgent,
		StartHeight:     startHeight,
		Relay:           true,
	}
}

// RandomNonce returns a nonce for version and ping messages
func RandomNonce() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func UnmarshalVersion(data io.Reader) (*MsgVersion, error) {
	result := &MsgVersion{}
	if err := result.unmarshal(data); err != nil {
		return nil, payloadError(CmdVersion, err)
	}
	return result, nil
}

func (m *MsgVersion) Command() string {
	return CmdVersion
}

func (m *MsgVersion) unmarshal(r io.Reader) error {
	if err := readElement(r, &m.ProtocolVersion); err != nil {
		return err
	}
	if err := readElement(r, &m.Services); err != nil {
		return err
	}
	var ts int64
	if err := readElement(r, &ts); err != nil {
		return err
	}
	m.Timestamp = unixTime(ts)

	addrRecv, err := UnmarshalNetworkAddress(r, AddrNoTimestamp)
	if err != nil {
		return err
	}
	m.AddrRecv = *addrRecv
	addrFrom, err := UnmarshalNetworkAddress(r, AddrNoTimestamp)
	if err != nil {
		return err
	}
	m.AddrFrom = *addrFrom

	if err := readElement(r, &m.Nonce); err != nil {
		return err
	}
	userAgent, err := ReadVarStr(r, MaxUserAgentLen)
	if err != nil {
		return malformed(CmdVersion, "user agent", err)
	}
	m.UserAgent = string(userAgent)
	if err := readElement(r, &m.StartHeight); err != nil {
		return err
	}

	var relay [1]byte
	err = readFull(r, relay[:])
	switch {
	case err == ErrTruncatedInput && m.ProtocolVersion < params.RelayVersion:
		m.Relay = true
	case err != nil:
		return err
	default:
		m.Relay = relay[0] != 0
	}

	return nil
}

func (m *MsgVersion) Marshal() []byte {
	result := new(bytes.Buffer)
	writeElement(result, m.ProtocolVersion)
	writeElement(result, m.Services)
	writeElement(result, timeUnix(m.Timestamp))
	m.AddrRecv.writeTo(result, AddrNoTimestamp)
	m.AddrFrom.writeTo(result, AddrNoTimestamp)
	writeElement(result, m.Nonce)
	WriteVarStr(result, []byte(m.UserAgent))
	writeElement(result, m.StartHeight)
	if m.Relay {
		result.WriteByte(1)
	} else {
		result.WriteByte(0)
	}
	return result.Bytes()
}

func (m *MsgVersion) String() string {
	return fmt.Sprintf("version %d services %d agent %q height %d from %s relay %v",
		m.ProtocolVersion, m.Services, m.UserAgent, m.StartHeight, m.AddrFrom.Key(), m.Relay)
}
