package ethereum

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

var ErrBatchAlreadyExecuted = errors.New("batch already executed")

// Batch collects requests and sends them as one JSON-RPC batch. Every request's
// callback is invoked exactly once per Execute.
type Batch struct {
	caller BatchCaller
	logger *zap.Logger

	mu       sync.Mutex
	requests []*CallRequest
	executed bool
}

func (b *Batch) Add(req *CallRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *Batch) Execute(ctx context.Context) error {
	b.mu.Lock()
	if b.executed {
		b.mu.Unlock()
		return ErrBatchAlreadyExecuted
	}
	b.executed = true
	requests := b.requests
	b.mu.Unlock()

	if len(requests) == 0 {
		return nil
	}

	elems := make([]rpc.BatchElem, len(requests))
	for i, req := range requests {
		elems[i] = req.elem
	}

	b.logger.Sugar().Debugw("Dispatching batch", zap.Int("requestCount", len(elems)))

	if err := b.caller.BatchCallContext(ctx, elems); err != nil {
		b.logger.Sugar().Errorw("Batch request failed",
			zap.Int("requestCount", len(elems)),
			zap.Error(err),
		)
		for _, req := range requests {
			req.callback(err, nil)
		}
		return err
	}

	for i, req := range requests {
		if elems[i].Error != nil {
			req.callback(elems[i].Error, nil)
			continue
		}
		var data hexutil.Bytes
		if req.result != nil {
			data = *req.result
		}
		req.callback(nil, data)
	}
	return nil
}
