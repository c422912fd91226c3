package params

import (
	"fmt"
	"strings"
)

// Net identifies a bitcoin network by its magic bytes, kept in wire order
type Net [4]byte

var (
	MainNet  = Net{0xf9, 0xbe, 0xb4, 0xd9}
	TestNet3 = Net{0x0b, 0x11, 0x09, 0x07}
	RegTest  = Net{0xfa, 0xbf, 0xb5, 0xda}
)

var netNames = map[Net]string{
	MainNet:  "mainnet",
	TestNet3: "testnet3",
	RegTest:  "regtest",
}

// ParseNet returns the network with the given name
func ParseNet(name string) (Net, error) {
	for n, s := range netNames {
		if s == strings.ToLower(name) {
			return n, nil
		}
	}
	return Net{}, fmt.Errorf("unknown network:%s", name)
}

// IsTestNet reports whether transactions on this network belong to a test chain
func (n Net) IsTestNet() bool {
	return n != MainNet
}

func (n Net) String() string {
	if s, ok := netNames[n]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%X)", n[:])
}

/////////////////////////////////////////////////////////////////

// DefaultPort returns the usual listening port of the network
func DefaultPort(n Net) int {
	switch n {
	case TestNet3:
		return 18333
	case RegTest:
		return 18444
	default:
		return 8333
	}
}

/////////////////////////////////////////////////////////////////

type ServiceFlag uint64

const (
	NodeNetwork = ServiceFlag(1 << 0)
	NodeWitness = ServiceFlag(1 << 3)
)

const (
	// ProtocolVersion is past BIP31, so peers expect ping/pong
	ProtocolVersion = 70015

	// RelayVersion is the first version carrying the relay flag (BIP37)
	RelayVersion = 70001

	// MinimumPeerVersion is the oldest version we still talk to
	MinimumPeerVersion = 31800

	DefaultUserAgent = "/some-cool-software/"
)
