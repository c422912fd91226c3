package wire

const (
	// CommandSize is the fixed width of the command name in the envelope
	CommandSize = 12

	// HeaderSize is magic + command + length + checksum
	HeaderSize = 4 + CommandSize + 4 + 4

	// ChecksumSize is how many bytes of the double sha256 are kept
	ChecksumSize = 4

	// MaxPayloadSize bounds the declared payload length of a single envelope
	MaxPayloadSize = 32 * 1024 * 1024

	// BlockHeaderSize is the serialized header without the tx count
	BlockHeaderSize = 80

	MaxInvPerMsg          = 50000
	MaxBlockLocatorHashes = 500
	MaxBlockHeadersPerMsg = 2000
	MaxAddrPerMsg         = 1000
	MaxUserAgentLen       = 256
)

// message commands
const (
	CmdVersion    = "version"
	CmdVerAck     = "verack"
	CmdAddr       = "addr"
	CmdGetAddr    = "getaddr"
	CmdInv        = "inv"
	CmdGetData    = "getdata"
	CmdNotFound   = "notfound"
	CmdGetBlocks  = "getblocks"
	CmdGetHeaders = "getheaders"
	CmdHeaders    = "headers"
	CmdBlock      = "block"
	CmdTx         = "tx"
	CmdPing       = "ping"
	CmdPong       = "pong"
)

// all integers are little endian unless marked (BE)

/*

Envelope
+-----------+-----------------------------+
|   Magic   |          Command            |
+-----------+--+-----------+--------------+
|    Length    |  Checksum |   Payload    |
+--------------+-----------+--------------+
(bytes)
Magic       4
Command     12 (zero padded)
Length      4
Checksum    4 (first bytes of double sha256 of Payload)
Payload     Length


VarInt
+--------+------------------+
| Prefix |     Value        |
+--------+------------------+
(bytes)
< 0xFD  1 (prefix is the value)
0xFD    1 + 2
0xFE    1 + 4
0xFF    1 + 8


NetworkAddress
+------+----------+------+------+
| Time | Services |  IP  | Port |
+------+----------+------+------+
(bytes)
Time        4 (only in addr lists)
Services    8
IP          16
Port        2 (BE)


Version
+---------+----------+-----------+
| Version | Services | Timestamp |
+---------+-+--------+-----------+
| AddrRecv  |  AddrFrom  | Nonce |
+-----------+-----+------+-------+
| UserAgent:VarStr | Height | Relay |
+------------------+--------+-------+
(bytes)
Version     4
Services    8
Timestamp   8
AddrRecv    26
AddrFrom    26
Nonce       8
UserAgent   -
Height      4
Relay       1


InvVect
+------+------+
| Type | Hash |
+------+------+
(bytes)
Type    4
Hash    32


Inv / GetData / NotFound
+----------------+-------------------+
| Count:VarInt   |  Items:(InvVect)  |
+----------------+-------------------+


GetBlocks / GetHeaders
+---------+----------------+---------+----------+
| Version |  Count:VarInt  | Hashes  | HashStop |
+---------+----------------+---------+----------+
(bytes)
Version     4
Hashes      32 * Count
HashStop    32


BlockHeader
+---------+-----------+------------+
| Version | PrevBlock | MerkleRoot |
+------+--+---+-------+------------+
| Time | Bits | Nonce |
+------+------+-------+
(bytes)
Version     4
PrevBlock   32
MerkleRoot  32
Time        4
Bits        4
Nonce       4


Headers
+--------------+------------------------------------+
| Count:VarInt | (BlockHeader + TxCount:VarInt=0)*N |
+--------------+------------------------------------+


Block
+---------------+----------------+-----------+
| (BlockHeader) | TxCount:VarInt | Txs:(Tx)  |
+---------------+----------------+-----------+


Tx
+---------+-----------------+-----------+
| Version | TxInCount:VarInt| TxIns     |
+---------+-----------------+-----------+
| TxOutCount:VarInt | TxOuts | LockTime |
+-------------------+--------+----------+

TxIn
+--------+-------+-------------------+----------+
| PrevTx | Index | SigScript:VarStr  | Sequence |
+--------+-------+-------------------+----------+
(bytes)
PrevTx      32
Index       4
Sequence    4

TxOut
+-------+---------------------+
| Value |  PkScript:VarStr    |
+-------+---------------------+
(bytes)
Value       8


Addr
+--------------+-------------------------------+
| Count:VarInt | Addrs:(NetworkAddress w/ Time)|
+--------------+-------------------------------+


Ping / Pong
+-------+
| Nonce |
+-------+
(bytes)
Nonce   8
*/
