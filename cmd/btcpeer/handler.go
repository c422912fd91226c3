package main

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/996BC/btcwire/p2p"
	"github.com/996BC/btcwire/serialize/wire"
	"github.com/996BC/btcwire/store"
	"github.com/996BC/btcwire/utils"
)

type sender interface {
	Send(msg wire.Message) error
}

// collector asks for every announced tx and block, and keeps the
// transactions and addresses it receives
type collector struct {
	db *store.Store
}

func newCollector(db *store.Store) *collector {
	return &collector{db: db}
}

func (c *collector) handle(p *p2p.Peer, msg wire.Message) {
	c.process(p, msg)
}

func (c *collector) process(s sender, msg wire.Message) {
	if utils.GetLogLevel() >= utils.LogDebugLevel {
		logger.Debug("received %s\n%s", msg.Command(), spew.Sdump(msg))
	}

	switch m := msg.(type) {
	case *wire.MsgInv:
		c.onInv(s, m)
	case *wire.MsgTx:
		c.onTx(m)
	case *wire.MsgAddr:
		c.onAddr(m)
	case *wire.MsgHeaders:
		for _, h := range m.Headers {
			c.logHeader(h)
		}
	case *wire.MsgBlock:
		c.logHeader(&m.Header)
		for _, tx := range m.Transactions {
			c.onTx(tx)
		}
	case *wire.MsgNotFound:
		logger.Info("peer has not found %d items\n", len(m.InvList))
	default:
		logger.Debug("ignore %s\n", msg.Command())
	}
}

func (c *collector) onInv(s sender, inv *wire.MsgInv) {
	getData := &wire.MsgGetData{}
	for _, iv := range inv.InvList {
		if iv.Type == wire.InvTypeTx && c.db.HasTx(iv.Hash) {
			continue
		}
		if iv.Type != wire.InvTypeTx && iv.Type != wire.InvTypeBlock {
			continue
		}
		if err := getData.AddInvVect(iv); err != nil {
			break
		}
	}

	if len(getData.InvList) == 0 {
		return
	}
	if err := s.Send(getData); err != nil {
		logger.Warn("send getdata failed:%v\n", err)
	}
}

func (c *collector) onTx(tx *wire.MsgTx) {
	hash, err := c.db.PutTx(tx)
	if err != nil {
		logger.Warn("save tx %s failed:%v\n", hash, err)
		return
	}
	logger.Info("tx %s, %d in, %d out\n", hash, len(tx.TxIn), len(tx.TxOut))
}

func (c *collector) onAddr(m *wire.MsgAddr) {
	added, err := c.db.PutAddrs(m.AddrList)
	if err != nil {
		logger.Warn("save addresses failed:%v\n", err)
		return
	}
	logger.Info("%d addresses received, %d new\n", len(m.AddrList), added)
}

func (c *collector) logHeader(h *wire.BlockHeader) {
	logger.Info("block %s time %s target %s pow ok %v\n",
		h.Hash(), utils.TimeToString(h.Timestamp),
		utils.ReadableBigInt(h.Target()), h.CheckPow())
}
