package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/996BC/btcwire/serialize/wire"
	"github.com/996BC/btcwire/store"
	"github.com/996BC/btcwire/utils"
)

var output io.Writer

func main() {
	dbpath := flag.String("dbpath", "", `path of database`)
	tx := flag.String("tx", "", `view transaction via hash in hex format, "all" lists every stored hash`)
	addrs := flag.Bool("addrs", false, `view all stored addresses`)

	o := flag.String("o", "", `result output file; if it's null it will print to stdout`)
	flag.Parse()
	var err error

	if len(*dbpath) == 0 {
		fmt.Println("empty db path")
		os.Exit(1)
	}

	if err = utils.AccessCheck(*dbpath); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	db, err := store.Open(*dbpath)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer db.Close()

	if len(*o) != 0 {
		f, err := os.OpenFile(*o, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Printf("open file %s failed:%v\n", *o, err)
			os.Exit(1)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	if len(*tx) != 0 {
		err = txView(db, *tx)
	} else if *addrs {
		err = addrView(db)
	} else {
		err = summaryView(db)
	}
	if err != nil {
		fmt.Printf("error happen: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Finish.")
}

func summaryView(db *store.Store) error {
	txs, addrs, err := db.Counts()
	if err != nil {
		return err
	}
	write("transactions\t%d\naddresses\t%d\n", txs, addrs)
	return nil
}

func txView(db *store.Store, hash string) error {
	if hash == "all" {
		hashes, err := db.TxHashes()
		if err != nil {
			return err
		}
		for _, h := range hashes {
			write("%s\n", h)
		}
		return nil
	}

	h, err := wire.NewHashFromStr(hash)
	if err != nil {
		return fmt.Errorf("decode %s failed:%v", hash, err)
	}

	tx, err := db.GetTx(h)
	if err != nil {
		return fmt.Errorf("get tx %s failed:%v", hash, err)
	}
	formatOutputTx(h, tx)
	return nil
}

func addrView(db *store.Store) error {
	addrs, err := db.Addrs()
	if err != nil {
		return err
	}
	for _, addr := range addrs {
		write("%-46s services %-6d last seen %s\n",
			addr.Key(), addr.Services, utils.TimeToString(addr.Timestamp))
	}
	return nil
}

func write(format string, v ...interface{}) {
	if _, err := fmt.Fprintf(output, format, v...); err != nil {
		fmt.Printf("output err:%v\n", err)
		os.Exit(1)
	}
}

func formatOutputTx(hash wire.Hash, tx *wire.MsgTx) {
	format :=
		`>>>>> [Tx] %s
version		%d
testnet		%v
coinbase	%v
locktime	%d

`
	write(format, hash, tx.Version, tx.TestNet, tx.IsCoinBase(), tx.LockTime)

	for i, in := range tx.TxIn {
		write("[In %d] %s:%d\nsequence\t%X\nscript\t\t%X\n\n",
			i, in.PrevTxHash, in.PrevIndex, in.Sequence, in.SignatureScript)
	}
	for i, out := range tx.TxOut {
		write("[Out %d] %d\nscript\t\t%X\n\n", i, out.Value, out.PkScript)
	}
}
