package entity

import "time"

// TxStatus is the confirmation state of a broadcast transaction.
type TxStatus string

// Transaction states.
const (
	TxPending TxStatus = "pending"
	TxSuccess TxStatus = "success"
	TxFailed  TxStatus = "failed"
)

// TxRouteType distinguishes the two transfer paths.
type TxRouteType string

// Route kinds recorded in history.
const (
	TxRouteIBC    TxRouteType = "ibc"
	TxRouteEureka TxRouteType = "eureka"
)

// TxStep is one hop of a multi-hop transfer.
type TxStep struct {
	Chain       string   `json:"chain"`
	Description string   `json:"description"`
	Status      TxStatus `json:"status"`
}

// TxRecord tracks a broadcast transfer for display.
type TxRecord struct {
	Hash             string      `json:"hash"`
	SubmittedAt      time.Time   `json:"submittedAt"`
	Amount           string      `json:"amount"`
	Denom            string      `json:"denom"`
	SourceChain      string      `json:"sourceChain"`
	DestinationChain string      `json:"destinationChain"`
	Status           TxStatus    `json:"status"`
	RouteType        TxRouteType `json:"routeType"`
	Steps            []TxStep    `json:"steps,omitempty"`
	GasUsed          uint64      `json:"gasUsed,omitempty"`
	GasLimit         uint64      `json:"gasLimit,omitempty"`
	Code             *uint32     `json:"code,omitempty"`
	Log              string      `json:"log,omitempty"`
}

// Resolve moves the record and all of its pending steps to the final status.
func (r *TxRecord) Resolve(status TxStatus) {
	r.Status = status
	for i := range r.Steps {
		if r.Steps[i].Status == TxPending {
			r.Steps[i].Status = status
		}
	}
}
