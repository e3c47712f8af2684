package ethereum

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testContract = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")

func TestEthCallRequest_LatestByDefault(t *testing.T) {
	req := EthCallRequest(testContract, []byte{0x95, 0xd8, 0x9b, 0x41}, nil, func(error, hexutil.Bytes) {})

	assert.Equal(t, "eth_call", req.Method())

	body, err := json.Marshal(req.Args())
	require.NoError(t, err)

	var parsed []interface{}
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.Len(t, parsed, 2)

	call := parsed[0].(map[string]interface{})
	assert.Equal(t, "0x6b175474e89094c44da98b954eedeac495271d0f", call["to"])
	assert.Equal(t, "0x95d89b41", call["data"])
	assert.Equal(t, "latest", parsed[1])
}

func TestEthCallRequest_BlockNumberEncoding(t *testing.T) {
	block := rpc.BlockNumber(4096)
	req := EthCallRequest(testContract, nil, &block, func(error, hexutil.Bytes) {})

	body, err := json.Marshal(req.Args())
	require.NoError(t, err)

	var parsed []interface{}
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "0x1000", parsed[1])
}

func TestBlockNumberArg_Tags(t *testing.T) {
	finalized := rpc.FinalizedBlockNumber
	assert.Equal(t, "finalized", BlockNumberArg(&finalized))
	assert.Equal(t, "latest", BlockNumberArg(nil))

	block := rpc.BlockNumber(255)
	assert.Equal(t, "0xff", BlockNumberArg(&block))
}
