package ethereum

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Layr-Labs/batch-call/pkg/mocks"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// fakeEthService answers eth_call from a table keyed by hex call data
type fakeEthService struct {
	responses map[string]string
	calls     atomic.Int32
	blocks    []string
}

func (s *fakeEthService) Call(args map[string]interface{}, block string) (hexutil.Bytes, error) {
	s.calls.Add(1)
	s.blocks = append(s.blocks, block)
	data, _ := args["data"].(string)
	res, ok := s.responses[strings.ToLower(data)]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return hexutil.Decode(res)
}

func newInProcClient(t *testing.T, svc *fakeEthService) *EthereumClient {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", svc))
	rpcClient := rpc.DialInProc(server)
	t.Cleanup(func() {
		rpcClient.Close()
		server.Stop()
	})
	return NewEthereumClientWithCaller(rpcClient, zap.NewNop())
}

type outcome struct {
	err  error
	data hexutil.Bytes
}

func recordInto(outcomes *[]outcome, idx int) CallCallback {
	return func(err error, data hexutil.Bytes) {
		(*outcomes)[idx] = outcome{err: err, data: data}
	}
}

func TestBatch_Execute_InProcServer(t *testing.T) {
	svc := &fakeEthService{responses: map[string]string{
		"0x95d89b41": "0x0000000000000000000000000000000000000000000000000000000000000001",
		"0x313ce567": "0x0000000000000000000000000000000000000000000000000000000000000012",
	}}
	client := newInProcClient(t, svc)

	outcomes := make([]outcome, 3)
	batch := client.NewBatch()
	batch.Add(EthCallRequest(testContract, hexutil.MustDecode("0x95d89b41"), nil, recordInto(&outcomes, 0)))
	batch.Add(EthCallRequest(testContract, hexutil.MustDecode("0x313ce567"), nil, recordInto(&outcomes, 1)))
	batch.Add(EthCallRequest(testContract, hexutil.MustDecode("0xdeadbeef"), nil, recordInto(&outcomes, 2)))
	assert.Equal(t, 3, batch.Len())

	err := batch.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(3), svc.calls.Load())
	assert.NoError(t, outcomes[0].err)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000001", outcomes[0].data.String())
	assert.NoError(t, outcomes[1].err)
	assert.Error(t, outcomes[2].err)
	assert.Contains(t, outcomes[2].err.Error(), "execution reverted")
	assert.Equal(t, []string{"latest", "latest", "latest"}, svc.blocks)
}

func TestBatch_Execute_BlockNumberBoundToEveryCall(t *testing.T) {
	svc := &fakeEthService{responses: map[string]string{"0x95d89b41": "0x01"}}
	client := newInProcClient(t, svc)

	block := rpc.BlockNumber(100)
	outcomes := make([]outcome, 2)
	batch := client.NewBatch()
	batch.Add(EthCallRequest(testContract, hexutil.MustDecode("0x95d89b41"), &block, recordInto(&outcomes, 0)))
	batch.Add(EthCallRequest(testContract, hexutil.MustDecode("0x95d89b41"), &block, recordInto(&outcomes, 1)))

	require.NoError(t, batch.Execute(context.Background()))
	assert.Equal(t, []string{"0x64", "0x64"}, svc.blocks)
}

func TestBatch_Execute_OnlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCaller := mocks.NewMockBatchCaller(ctrl)
	mockCaller.EXPECT().BatchCallContext(gomock.Any(), gomock.Len(1)).Return(nil).Times(1)

	calls := 0
	batch := NewEthereumClientWithCaller(mockCaller, zap.NewNop()).NewBatch()
	batch.Add(EthCallRequest(testContract, nil, nil, func(error, hexutil.Bytes) { calls++ }))

	require.NoError(t, batch.Execute(context.Background()))
	assert.ErrorIs(t, batch.Execute(context.Background()), ErrBatchAlreadyExecuted)
	assert.Equal(t, 1, calls)
}

func TestBatch_Execute_TransportErrorFansOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transportErr := errors.New("connection refused")
	mockCaller := mocks.NewMockBatchCaller(ctrl)
	mockCaller.EXPECT().BatchCallContext(gomock.Any(), gomock.Len(2)).Return(transportErr)

	outcomes := make([]outcome, 2)
	batch := NewEthereumClientWithCaller(mockCaller, zap.NewNop()).NewBatch()
	batch.Add(EthCallRequest(testContract, nil, nil, recordInto(&outcomes, 0)))
	batch.Add(EthCallRequest(testContract, nil, nil, recordInto(&outcomes, 1)))

	err := batch.Execute(context.Background())
	assert.ErrorIs(t, err, transportErr)
	assert.ErrorIs(t, outcomes[0].err, transportErr)
	assert.ErrorIs(t, outcomes[1].err, transportErr)
}

func TestBatch_Execute_EmptyBatchSkipsTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCaller := mocks.NewMockBatchCaller(ctrl)

	batch := NewEthereumClientWithCaller(mockCaller, zap.NewNop()).NewBatch()
	assert.NoError(t, batch.Execute(context.Background()))
}
