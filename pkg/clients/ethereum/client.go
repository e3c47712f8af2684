package ethereum

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// BatchCaller is the transport primitive batches are dispatched through. *rpc.Client satisfies it.
type BatchCaller interface {
	BatchCallContext(ctx context.Context, b []rpc.BatchElem) error
}

type EthereumClientConfig struct {
	BaseUrl string
}

type EthereumClient struct {
	caller BatchCaller
	logger *zap.Logger
}

// NewEthereumClient dials the JSON-RPC endpoint at cfg.BaseUrl (http, ws or ipc).
func NewEthereumClient(ctx context.Context, cfg *EthereumClientConfig, logger *zap.Logger) (*EthereumClient, *rpc.Client, error) {
	rpcClient, err := rpc.DialContext(ctx, cfg.BaseUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial %s: %w", cfg.BaseUrl, err)
	}
	return NewEthereumClientWithCaller(rpcClient, logger), rpcClient, nil
}

func NewEthereumClientWithCaller(caller BatchCaller, logger *zap.Logger) *EthereumClient {
	return &EthereumClient{
		caller: caller,
		logger: logger,
	}
}

// NewBatch opens a batch that is sent as a single JSON-RPC batch request.
func (c *EthereumClient) NewBatch() *Batch {
	return &Batch{
		caller: c.caller,
		logger: c.logger,
	}
}
