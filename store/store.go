package store

import (
	"bytes"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger"

	"github.com/996BC/btcwire/serialize/wire"
	"github.com/996BC/btcwire/utils"
)

const gcInterval = 10 * time.Minute

var logger = utils.NewLogger("store")

// Store keeps the transactions and addresses received from peers.
// It is safe for concurrent use.
type Store struct {
	db *badger.DB
	lm *utils.LoopMode

	// held for reading by every transaction, for writing by Close
	mu sync.RWMutex
}

// Open opens the store in the existing directory path
func Open(path string) (*Store, error) {
	dbpath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := utils.AccessCheck(dbpath); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbpath)
	opts = opts.WithLogger(nil)
	opts = opts.WithValueLogFileSize(64 << 20)
	opts = opts.WithMaxTableSize(16 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, wrapError(err)
	}

	s := &Store{
		db: db,
		lm: utils.NewLoop(),
	}
	s.start()
	return s, nil
}

// Close waits for running transactions, later calls get ErrClosed
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lm.Stop() {
		s.db.Close()
	}
}

// PutTx stores tx under its hash, overwriting an earlier copy
func (s *Store) PutTx(tx *wire.MsgTx) (wire.Hash, error) {
	hash := tx.TxHash()

	value := bytes.NewBuffer([]byte{flagMainNet})
	if tx.TestNet {
		value.Bytes()[0] = flagTestNet
	}
	value.Write(tx.Marshal())

	wf := func(txn *badger.Txn) error {
		return txn.Set(getTxKey(hash), value.Bytes())
	}
	return hash, s.update(wf)
}

func (s *Store) GetTx(h wire.Hash) (*wire.MsgTx, error) {
	var result *wire.MsgTx
	rf := func(txn *badger.Txn) error {
		item, err := txn.Get(getTxKey(h))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = decodeTx(val)
			return err
		})
	}
	return result, s.view(rf)
}

func (s *Store) HasTx(h wire.Hash) bool {
	rf := func(txn *badger.Txn) error {
		_, err := txn.Get(getTxKey(h))
		return err
	}
	return s.view(rf) == nil
}

// TxHashes returns the hashes of all stored transactions in key order
func (s *Store) TxHashes() ([]wire.Hash, error) {
	var result []wire.Hash
	rf := func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(txPrefix); it.ValidForPrefix(txPrefix); it.Next() {
			result = append(result, hashFromTxKey(it.Item().Key()))
		}
		return nil
	}
	return result, s.view(rf)
}

// PutAddrs stores addresses keyed by ip:port. A known address only moves forward
// in time. It returns how many addresses were new.
func (s *Store) PutAddrs(addrs []*wire.NetworkAddress) (int, error) {
	added := 0
	wf := func(txn *badger.Txn) error {
		added = 0
		for _, addr := range addrs {
			key := getAddrKey(addr)
			item, err := txn.Get(key)
			switch {
			case err == badger.ErrKeyNotFound:
				added++
			case err != nil:
				return err
			default:
				known, err := itemAddr(item)
				if err != nil {
					return err
				}
				if !addr.Timestamp.After(known.Timestamp) {
					continue
				}
			}

			if err := txn.Set(key, addr.Marshal(wire.AddrWithTimestamp)); err != nil {
				return err
			}
		}
		return nil
	}
	return added, s.update(wf)
}

// Addrs returns all stored addresses
func (s *Store) Addrs() ([]*wire.NetworkAddress, error) {
	var result []*wire.NetworkAddress
	rf := func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(addrPrefix); it.ValidForPrefix(addrPrefix); it.Next() {
			addr, err := itemAddr(it.Item())
			if err != nil {
				return err
			}
			result = append(result, addr)
		}
		return nil
	}
	return result, s.view(rf)
}

// Counts returns the number of stored transactions and addresses
func (s *Store) Counts() (txs int, addrs int, err error) {
	rf := func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(txPrefix); it.ValidForPrefix(txPrefix); it.Next() {
			txs++
		}
		for it.Seek(addrPrefix); it.ValidForPrefix(addrPrefix); it.Next() {
			addrs++
		}
		return nil
	}
	err = s.view(rf)
	return
}

func itemAddr(item *badger.Item) (*wire.NetworkAddress, error) {
	var result *wire.NetworkAddress
	err := item.Value(func(val []byte) error {
		var err error
		result, err = wire.UnmarshalNetworkAddress(bytes.NewReader(val), wire.AddrWithTimestamp)
		return err
	})
	return result, err
}

func decodeTx(val []byte) (*wire.MsgTx, error) {
	if len(val) == 0 {
		return nil, ErrInternal
	}
	r := bytes.NewReader(val[1:])
	result, err := wire.UnmarshalTx(r)
	if err != nil {
		return nil, err
	}
	result.TestNet = val[0] == flagTestNet
	return result, nil
}

func (s *Store) view(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.lm.IsWorking() {
		return ErrClosed
	}
	return wrapError(s.db.View(fn))
}

func (s *Store) update(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.lm.IsWorking() {
		return ErrClosed
	}
	return wrapError(s.db.Update(fn))
}

// wrap the error directly get from badger
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}

	logger.Warn("badger got unexpect err:%v\n", err)
	return ErrInternal
}

func (s *Store) start() {
	s.lm.Add()
	go s.gcLoop()
	s.lm.StartWorking()
}

func (s *Store) gcLoop() {
	defer s.lm.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.lm.D:
			return
		case <-ticker.C:
			for s.db.RunValueLogGC(0.5) == nil {
			}
		}
	}
}
