package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/996BC/btcwire/params"
)

// AddrMode tells the address codec whether the timestamp is on the wire.
// The caller always knows it from context, the bytes never say.
type AddrMode int

const (
	// AddrNoTimestamp is the shape embedded in a version message
	AddrNoTimestamp AddrMode = iota
	// AddrWithTimestamp is the shape of addr list entries
	AddrWithTimestamp
)

type NetworkAddress struct {
	// Timestamp is zero in AddrNoTimestamp mode
	Timestamp time.Time
	Services  params.ServiceFlag
	IP        net.IP
	Port      uint16
}

func NewNetworkAddress(ip net.IP, port uint16, services params.ServiceFlag) *NetworkAddress {
	return &NetworkAddress{
		Services: services,
		IP:       ip.To16(),
		Port:     port,
	}
}

// NewNetworkAddressFromTCP converts a dialed address, mostly for the version message
func NewNetworkAddressFromTCP(addr *net.TCPAddr, services params.ServiceFlag) *NetworkAddress {
	if addr == nil {
		return NewNetworkAddress(net.IPv4zero, 0, services)
	}
	return NewNetworkAddress(addr.IP, uint16(addr.Port), services)
}

func UnmarshalNetworkAddress(data io.Reader, mode AddrMode) (*NetworkAddress, error) {
	result := &NetworkAddress{}

	if mode == AddrWithTimestamp {
		var ts uint32
		if err := readElement(data, &ts); err != nil {
			return nil, err
		}
		result.Timestamp = unixTime(int64(ts))
	}

	if err := readElement(data, &result.Services); err != nil {
		return nil, err
	}

	ip := make([]byte, net.IPv6len)
	if err := readFull(data, ip); err != nil {
		return nil, err
	}
	result.IP = net.IP(ip)

	port, err := ReadUint(data, 2, binary.BigEndian)
	if err != nil {
		return nil, err
	}
	result.Port = uint16(port)

	return result, nil
}

func (a *NetworkAddress) Marshal(mode AddrMode) []byte {
	result := new(bytes.Buffer)
	a.writeTo(result, mode)
	return result.Bytes()
}

func (a *NetworkAddress) writeTo(w *bytes.Buffer, mode AddrMode) {
	if mode == AddrWithTimestamp {
		writeElement(w, uint32(timeUnix(a.Timestamp)))
	}
	writeElement(w, a.Services)

	ip := make([]byte, net.IPv6len)
	if a.IP != nil {
		copy(ip, a.IP.To16())
	}
	w.Write(ip)

	binary.Write(w, binary.BigEndian, a.Port)
}

// Key identifies the address regardless of timestamp and services
func (a *NetworkAddress) Key() string {
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(int(a.Port)))
}

func (a *NetworkAddress) String() string {
	return fmt.Sprintf("%s services %d", a.Key(), a.Services)
}
