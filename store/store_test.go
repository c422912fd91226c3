package store

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/996BC/btcwire/params"
	"github.com/996BC/btcwire/serialize/wire"
)

func openTestStore(t *testing.T) *Store {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestOpenMissingDir(t *testing.T) {
	_, err := Open(t.TempDir() + "/missing")
	require.Error(t, err)
}

func TestTx(t *testing.T) {
	s := openTestStore(t)

	tx := wire.NewTestTx(2, 2)
	hash, err := s.PutTx(tx)
	require.NoError(t, err)
	require.Equal(t, tx.TxHash(), hash)
	require.True(t, s.HasTx(hash))

	result, err := s.GetTx(hash)
	require.NoError(t, err)
	require.Equal(t, tx, result)

	testTx := wire.NewTestTx(1, 1)
	testTx.TestNet = true
	testHash, err := s.PutTx(testTx)
	require.NoError(t, err)
	result, err = s.GetTx(testHash)
	require.NoError(t, err)
	require.True(t, result.TestNet)

	missing := wire.RandHash()
	require.False(t, s.HasTx(missing))
	_, err = s.GetTx(missing)
	require.ErrorIs(t, err, ErrNotFound)

	hashes, err := s.TxHashes()
	require.NoError(t, err)
	require.ElementsMatch(t, []wire.Hash{hash, testHash}, hashes)

	// storing again keeps one copy
	_, err = s.PutTx(tx)
	require.NoError(t, err)
	txs, _, err := s.Counts()
	require.NoError(t, err)
	require.Equal(t, 2, txs)
}

func TestAddrs(t *testing.T) {
	s := openTestStore(t)

	older := wire.NewNetworkAddress(net.ParseIP("10.0.0.1"), 8333, params.NodeNetwork)
	older.Timestamp = time.Unix(1600000000, 0)
	other := wire.NewNetworkAddress(net.ParseIP("10.0.0.2"), 8333, params.NodeNetwork)
	other.Timestamp = time.Unix(1600000000, 0)

	added, err := s.PutAddrs([]*wire.NetworkAddress{older, other, other})
	require.NoError(t, err)
	require.Equal(t, 2, added)

	newer := wire.NewNetworkAddress(net.ParseIP("10.0.0.1"), 8333, params.NodeNetwork|params.NodeWitness)
	newer.Timestamp = time.Unix(1700000000, 0)
	stale := wire.NewNetworkAddress(net.ParseIP("10.0.0.2"), 8333, params.NodeWitness)
	stale.Timestamp = time.Unix(1500000000, 0)

	added, err = s.PutAddrs([]*wire.NetworkAddress{newer, stale})
	require.NoError(t, err)
	require.Zero(t, added)

	addrs, err := s.Addrs()
	require.NoError(t, err)
	require.Len(t, addrs, 2)

	byKey := make(map[string]*wire.NetworkAddress)
	for _, addr := range addrs {
		byKey[addr.Key()] = addr
	}
	require.Equal(t, newer, byKey["10.0.0.1:8333"])
	require.Equal(t, other, byKey["10.0.0.2:8333"])

	_, count, err := s.Counts()
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestClosed(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	s.Close()
	s.Close()

	_, err = s.PutTx(wire.NewTestTx(1, 1))
	require.ErrorIs(t, err, ErrClosed)
}

func TestCloseWhileWriting(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, err := s.PutTx(wire.NewTestTx(1, 1)); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	s.Close()
	wg.Wait()
	close(errs)

	// every writer stops on ErrClosed, none runs into a closed badger
	for err := range errs {
		require.ErrorIs(t, err, ErrClosed)
	}
	require.False(t, s.HasTx(wire.RandHash()))
}
