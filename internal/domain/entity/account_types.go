package entity

// Coin is an amount of a single denomination. Amount is a base-10 integer string in the
// smallest unit so that values above 2^53 survive JSON round trips.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Fee is the fee declared in a transaction's auth info.
type Fee struct {
	Amount   []Coin `json:"amount"`
	GasLimit uint64 `json:"gasLimit,string"`
}

// AccountInfo is a snapshot of the signer's on-chain account. It is fetched fresh before every
// simulate/sign because the sequence advances with each broadcast.
type AccountInfo struct {
	Address       string `json:"address"`
	AccountNumber uint64 `json:"accountNumber,string"`
	Sequence      uint64 `json:"sequence,string"`
}

// Key is the signer's public identity as reported by the wallet.
type Key struct {
	Bech32Address string `json:"bech32Address"`
	PubKey        []byte `json:"pubKey"`
}
