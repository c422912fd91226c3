package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/996BC/btcwire/p2p"
	"github.com/996BC/btcwire/serialize/wire"
	"github.com/996BC/btcwire/store"
	"github.com/996BC/btcwire/utils"
)

var logger = utils.NewLogger("btcpeer")

func main() {
	// load the config file
	cf := flag.String("c", "", "config file")
	flag.Parse()

	conf, err := parseConfig(*cf)
	if err != nil {
		log.Fatal(err)
	}
	utils.SetLogLevel(conf.logLevel)

	// db
	db, err := store.Open(conf.DataPath)
	if err != nil {
		logger.Fatal("open store failed:%v\n", err)
	}
	txs, addrs, err := db.Counts()
	if err != nil {
		logger.Fatal("read store failed:%v\n", err)
	}
	logger.Info("store opened under %s with %d txs and %d addresses\n", conf.DataPath, txs, addrs)

	// peer
	c := newCollector(db)
	p, err := p2p.Connect(conf.Peer, conf.peerConfig(), c.handle)
	if err != nil {
		db.Close()
		logger.Fatal("connect %s failed:%v\n", conf.Peer, err)
	}
	remote := p.RemoteVersion()
	logger.Info("connected to %s on %s, version %d %s height %d\n",
		p, conf.net, remote.ProtocolVersion, remote.UserAgent, remote.StartHeight)

	if err := p.Send(&wire.MsgGetAddr{}); err != nil {
		logger.Warn("send getaddr failed:%v\n", err)
	}

	// waiting gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sc:
		logger.Infoln("Quitting......")
	case <-p.Done():
		logger.Infoln("peer disconnected")
	}
	p.Stop()
	db.Close()
	logger.Infoln("Bye!")
}
