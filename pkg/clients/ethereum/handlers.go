package ethereum

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// CallCallback receives the outcome of a single request in a batch.
type CallCallback func(err error, data hexutil.Bytes)

// CallRequest is a batchable eth_call with its completion callback.
type CallRequest struct {
	elem     rpc.BatchElem
	result   *hexutil.Bytes
	callback CallCallback
}

type callArgs struct {
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

// BlockNumberArg renders the block parameter of eth_call, defaulting to latest.
func BlockNumberArg(blockNumber *rpc.BlockNumber) string {
	if blockNumber == nil {
		return rpc.LatestBlockNumber.String()
	}
	return blockNumber.String()
}

// EthCallRequest builds an eth_call against to with the given call data.
func EthCallRequest(to common.Address, data []byte, blockNumber *rpc.BlockNumber, callback CallCallback) *CallRequest {
	result := new(hexutil.Bytes)
	return &CallRequest{
		elem: rpc.BatchElem{
			Method: "eth_call",
			Args: []interface{}{
				callArgs{To: to, Data: data},
				BlockNumberArg(blockNumber),
			},
			Result: result,
		},
		result:   result,
		callback: callback,
	}
}

func (r *CallRequest) Method() string {
	return r.elem.Method
}

func (r *CallRequest) Args() []interface{} {
	return r.elem.Args
}
