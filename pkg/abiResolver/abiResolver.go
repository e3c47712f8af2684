package abiResolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Layr-Labs/batch-call/pkg/abiStore"
	"github.com/Layr-Labs/batch-call/pkg/contracts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const DefaultParsedAbiCacheSize = 256

// AbiFetcher looks up the ABI of a deployed contract, e.g. from a block explorer.
type AbiFetcher interface {
	GetAbi(ctx context.Context, address string) (contracts.Abi, error)
}

type AbiResolverConfig struct {
	// DelayTime is waited after every fetch so consecutive lookups respect the explorer rate limit
	DelayTime          time.Duration
	ParsedAbiCacheSize int
}

type AbiResolver struct {
	store   abiStore.IAbiStore
	fetcher AbiFetcher
	config  *AbiResolverConfig
	parsed  *lru.Cache[common.Hash, *abi.ABI]
	sleep   func(ctx context.Context, d time.Duration) error
	logger  *zap.Logger
}

func NewAbiResolver(
	store abiStore.IAbiStore,
	fetcher AbiFetcher,
	config *AbiResolverConfig,
	logger *zap.Logger,
) (*AbiResolver, error) {
	if config.ParsedAbiCacheSize <= 0 {
		config.ParsedAbiCacheSize = DefaultParsedAbiCacheSize
	}
	parsed, err := lru.New[common.Hash, *abi.ABI](config.ParsedAbiCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create parsed abi cache: %w", err)
	}
	return &AbiResolver{
		store:   store,
		fetcher: fetcher,
		config:  config,
		parsed:  parsed,
		sleep:   sleepContext,
		logger:  logger,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GetAbi returns the cached ABI for address, or abiStore.ErrNotFound.
func (r *AbiResolver) GetAbi(address string) (contracts.Abi, error) {
	return r.store.GetAbiByAddress(address)
}

func (r *AbiResolver) PutAbi(address string, a contracts.Abi) (common.Hash, error) {
	hash, err := r.store.PutAbi(address, a)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to cache abi for %s: %w", address, err)
	}
	return hash, nil
}

// EnsureAbi makes sure an ABI is cached for address. A provided ABI always replaces the
// cached one. Otherwise a missing ABI is fetched, cached and followed by the configured
// delay; an already cached ABI causes no network access.
func (r *AbiResolver) EnsureAbi(ctx context.Context, address string, provided contracts.Abi) error {
	if provided != nil {
		_, err := r.PutAbi(address, provided)
		return err
	}

	_, err := r.store.GetAbiByAddress(address)
	if err == nil {
		return nil
	}
	if !errors.Is(err, abiStore.ErrNotFound) {
		return fmt.Errorf("failed to read abi cache for %s: %w", address, err)
	}

	r.logger.Sugar().Infow("Abi not cached, fetching from explorer", zap.String("address", address))

	fetched, err := r.fetcher.GetAbi(ctx, address)
	if err != nil {
		return err
	}
	if _, err := r.PutAbi(address, fetched); err != nil {
		return err
	}

	r.logger.Sugar().Debugw("Waiting before next explorer request",
		zap.String("address", address),
		zap.Duration("delay", r.config.DelayTime),
	)
	return r.sleep(ctx, r.config.DelayTime)
}

// GetParsedAbi returns the go-ethereum form of the cached ABI. Parsed ABIs are memoized
// by content hash so addresses sharing an ABI are parsed once.
func (r *AbiResolver) GetParsedAbi(address string) (*abi.ABI, error) {
	hash, err := r.store.GetAbiHashByAddress(address)
	if err != nil {
		return nil, err
	}
	if parsed, ok := r.parsed.Get(hash); ok {
		return parsed, nil
	}

	a, err := r.store.GetAbiByHash(hash)
	if err != nil {
		return nil, err
	}
	parsed, err := a.ToGethAbi()
	if err != nil {
		return nil, fmt.Errorf("invalid abi for %s: %w", address, err)
	}
	r.parsed.Add(hash, parsed)
	return parsed, nil
}

// ReadableFields lists the zero-argument view methods of the cached ABI in declaration order.
func (r *AbiResolver) ReadableFields(address string) ([]string, error) {
	a, err := r.store.GetAbiByAddress(address)
	if err != nil {
		return nil, err
	}
	return a.ReadableFields(), nil
}
