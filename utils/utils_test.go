package utils

import (
	"bytes"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseIPPort(t *testing.T) {
	ip, port := ParseIPPort("192.168.1.2:8333")
	require.True(t, net.ParseIP("192.168.1.2").Equal(ip))
	require.Equal(t, 8333, port)

	ip, port = ParseIPPort("[::1]:18444")
	require.True(t, net.IPv6loopback.Equal(ip))
	require.Equal(t, 18444, port)

	for _, bad := range []string{"192.168.1.2", "host:8333", "1.2.3.4:0", "1.2.3.4:70000", ""} {
		ip, port = ParseIPPort(bad)
		require.Nil(t, ip, bad)
		require.Zero(t, port, bad)
	}
}

func TestReadableBigInt(t *testing.T) {
	require.Equal(t, "0xFFFF..(4)", ReadableBigInt(big.NewInt(0xffff)))
	target := new(big.Int).Lsh(big.NewInt(0xffff), 208)
	require.Equal(t, "0xFFFF00..(56)", ReadableBigInt(target))
}

func TestTimeToString(t *testing.T) {
	require.Equal(t, "-", TimeToString(time.Time{}))
	ts := time.Date(2009, 1, 3, 18, 15, 5, 0, time.Local)
	require.Equal(t, "2009/01/03 18:15:05", TimeToString(ts))
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("info")
	require.NoError(t, err)
	require.Equal(t, LogInfoLevel, level)

	level, err = ParseLogLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, LogDebugLevel, level)

	_, err = ParseLogLevel("verbose")
	require.Error(t, err)
}

func TestLoopMode(t *testing.T) {
	lm := NewLoop()
	require.False(t, lm.Stop())

	ticks := make(chan struct{}, 1)
	for i := 0; i < 3; i++ {
		lm.Add()
		go func() {
			defer lm.Done()
			for {
				select {
				case <-lm.D:
					return
				case ticks <- struct{}{}:
				}
			}
		}()
	}
	lm.StartWorking()
	require.True(t, lm.IsWorking())

	<-ticks
	require.True(t, lm.Stop())
	require.False(t, lm.IsWorking())
	require.False(t, lm.Stop())
}

// splitLines cuts newline terminated packets
func splitLines(received *bytes.Buffer) ([][]byte, error) {
	var result [][]byte
	for {
		idx := bytes.IndexByte(received.Bytes(), '\n')
		if idx < 0 {
			return result, nil
		}
		line := make([]byte, idx+1)
		received.Read(line)
		result = append(result, line)
	}
}

func TestTCPConn(t *testing.T) {
	local, remote := net.Pipe()
	conn := NewTCPConn(local, splitLines)

	go func() {
		remote.Write([]byte("hel"))
		remote.Write([]byte("lo\nwor"))
		remote.Write([]byte("ld\n"))
	}()

	recvC := conn.GetRecvChannel()
	require.Equal(t, []byte("hello\n"), <-recvC)
	require.Equal(t, []byte("world\n"), <-recvC)

	conn.Send([]byte("ping\n"))
	buf := make([]byte, 5)
	_, err := remote.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte("ping\n"), buf)

	remote.Close()
	select {
	case <-conn.Disconnected():
	case <-time.After(5 * time.Second):
		t.Fatal("connection not closed after remote close")
	}

	// sending to a closed connection does not block
	conn.Send([]byte("late\n"))
	conn.Disconnect()
}
