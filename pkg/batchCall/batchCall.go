package batchCall

import (
	"context"
	"fmt"
	"sync"

	"github.com/Layr-Labs/batch-call/pkg/abiCodec"
	"github.com/Layr-Labs/batch-call/pkg/abiResolver"
	"github.com/Layr-Labs/batch-call/pkg/abiStore"
	"github.com/Layr-Labs/batch-call/pkg/abiStore/inMemoryAbiStore"
	"github.com/Layr-Labs/batch-call/pkg/clients/ethereum"
	"github.com/Layr-Labs/batch-call/pkg/clients/etherscan"
	"github.com/Layr-Labs/batch-call/pkg/config"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BatchCallConfig struct {
	// Provider carries the JSON-RPC batches, usually an *rpc.Client
	Provider           ethereum.BatchCaller
	Etherscan          *config.EtherscanConfig
	ParsedAbiCacheSize int
}

func (c *BatchCallConfig) Validate() error {
	if c == nil {
		return multierr.Combine(config.ErrMissingProvider, config.ErrMissingEtherscanConfig)
	}
	var err error
	if c.Provider == nil {
		err = multierr.Append(err, config.ErrMissingProvider)
	}
	return multierr.Append(err, c.Etherscan.Validate())
}

type BatchCall struct {
	ethClient *ethereum.EthereumClient
	resolver  *abiResolver.AbiResolver
	logger    *zap.Logger
}

// NewBatchCall validates the config and wires an in-memory ABI cache backed by Etherscan.
func NewBatchCall(cfg *BatchCallConfig, logger *zap.Logger) (*BatchCall, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &config.ConfigurationError{Err: err}
	}
	etherscanConfig := cfg.Etherscan.WithDefaults()

	return newBatchCall(
		cfg.Provider,
		inMemoryAbiStore.NewInMemoryAbiStore(logger),
		etherscan.NewEtherscanClient(etherscanConfig, logger),
		&abiResolver.AbiResolverConfig{
			DelayTime:          *etherscanConfig.DelayTime,
			ParsedAbiCacheSize: cfg.ParsedAbiCacheSize,
		},
		logger,
	)
}

func newBatchCall(
	provider ethereum.BatchCaller,
	store abiStore.IAbiStore,
	fetcher abiResolver.AbiFetcher,
	resolverConfig *abiResolver.AbiResolverConfig,
	logger *zap.Logger,
) (*BatchCall, error) {
	resolver, err := abiResolver.NewAbiResolver(store, fetcher, resolverConfig, logger)
	if err != nil {
		return nil, &config.ConfigurationError{Err: err}
	}
	return &BatchCall{
		ethClient: ethereum.NewEthereumClientWithCaller(provider, logger),
		resolver:  resolver,
		logger:    logger,
	}, nil
}

// callFuture is resolved exactly once by the batch callback of its request.
type callFuture struct {
	once   sync.Once
	done   chan struct{}
	result *RawCallResult
	err    error
}

func newCallFuture() *callFuture {
	return &callFuture{done: make(chan struct{})}
}

func (f *callFuture) resolve(result *RawCallResult, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
	})
}

func (f *callFuture) wait(ctx context.Context) (*RawCallResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
		return f.result, f.err
	}
}

type pendingCall struct {
	callsIdx int
	slot     int
	future   *callFuture
}

// Execute reads every requested method of every address in one JSON-RPC batch.
//
// ABIs are resolved first, one address at a time, since encoding a call needs the ABI and
// explorer lookups are throttled. Failing to resolve an ABI aborts with an error. Once all
// ABIs are known, all calls are sent as a single batch, bound to blockNumber when given.
// If any call fails the Response carries only that failure's message.
func (bc *BatchCall) Execute(ctx context.Context, requests []ContractRequest, blockNumber *rpc.BlockNumber) (*Response, error) {
	for i := range requests {
		for _, address := range requests[i].Addresses {
			if err := bc.resolver.EnsureAbi(ctx, address, requests[i].Abi); err != nil {
				return nil, fmt.Errorf("failed to resolve abi for %s: %w", address, err)
			}
		}
	}

	batch := bc.ethClient.NewBatch()
	calls := make([]addressCalls, 0)
	pending := make([]pendingCall, 0)

	for i := range requests {
		req := &requests[i]
		for _, address := range req.Addresses {
			ac, futures, err := bc.addAddressToBatch(batch, req, address, blockNumber)
			if err != nil {
				bc.logger.Sugar().Errorw("Failed to build calls for address",
					zap.String("address", address),
					zap.Error(err),
				)
				return &Response{Error: err.Error()}, nil
			}
			for slot, future := range futures {
				if future != nil {
					pending = append(pending, pendingCall{callsIdx: len(calls), slot: slot, future: future})
				}
			}
			calls = append(calls, ac)
		}
	}

	bc.logger.Sugar().Infow("Executing batch",
		zap.Int("requestCount", len(requests)),
		zap.Int("addressCount", len(calls)),
		zap.Int("callCount", batch.Len()),
		zap.String("block", ethereum.BlockNumberArg(blockNumber)),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// failures reach every request's callback, the futures report them
		if err := batch.Execute(ctx); err != nil {
			bc.logger.Sugar().Warnw("Batch dispatch failed", zap.Error(err))
		}
		return nil
	})
	for _, p := range pending {
		g.Go(func() error {
			res, err := p.future.wait(gctx)
			if err != nil {
				return err
			}
			calls[p.callsIdx].state[p.slot] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		bc.logger.Sugar().Errorw("Batch call failed", zap.Error(err))
		return &Response{Error: err.Error()}, nil
	}

	return &Response{Result: aggregateResults(calls, bc.logger)}, nil
}

// addAddressToBatch registers one call per method the address's ABI knows. The returned
// futures line up with the state slots; missing methods have neither.
func (bc *BatchCall) addAddressToBatch(
	batch *ethereum.Batch,
	req *ContractRequest,
	address string,
	blockNumber *rpc.BlockNumber,
) (addressCalls, []*callFuture, error) {
	ac := addressCalls{
		address:   address,
		namespace: req.namespace(),
	}

	if !common.IsHexAddress(address) {
		return ac, nil, fmt.Errorf("invalid address %q", address)
	}
	parsed, err := bc.resolver.GetParsedAbi(address)
	if err != nil {
		return ac, nil, err
	}

	methods := make([]MethodSpec, 0, len(req.Methods))
	methods = append(methods, req.Methods...)
	if req.AllMethods {
		fields, err := bc.resolver.ReadableFields(address)
		if err != nil {
			return ac, nil, err
		}
		for _, name := range fields {
			methods = append(methods, MethodSpec{Name: name})
		}
	}

	ac.state = make([]*RawCallResult, len(methods))
	futures := make([]*callFuture, len(methods))
	to := common.HexToAddress(address)

	for i, spec := range methods {
		method, ok := abiCodec.FindMethod(parsed, spec.Name, len(spec.Args))
		if !ok {
			bc.logger.Sugar().Debugw("Method not found in abi, skipping",
				zap.String("address", address),
				zap.String("method", spec.Name),
			)
			continue
		}

		data, err := abiCodec.EncodeCall(method, spec.Args)
		if err != nil {
			return ac, nil, fmt.Errorf("%s on %s: %w", spec.Name, address, err)
		}

		future := newCallFuture()
		batch.Add(ethereum.EthCallRequest(to, data, blockNumber, decodeInto(future, method, spec, address, data)))
		futures[i] = future
	}
	return ac, futures, nil
}

func decodeInto(future *callFuture, method abi.Method, spec MethodSpec, address string, data hexutil.Bytes) ethereum.CallCallback {
	return func(err error, returned hexutil.Bytes) {
		if err != nil {
			future.resolve(nil, fmt.Errorf("%s on %s: %w", spec.Name, address, err))
			return
		}
		value, err := abiCodec.DecodeOutputs(method, returned)
		if err != nil {
			future.resolve(nil, fmt.Errorf("%s on %s: %w", spec.Name, address, err))
			return
		}
		res := &RawCallResult{
			Method: spec.Name,
			Value:  value,
		}
		if spec.Args != nil {
			res.Input = data.String()
			res.Args = spec.Args
		}
		future.resolve(res, nil)
	}
}
