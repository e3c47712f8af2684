package inMemoryAbiStore

import (
	"strings"
	"sync"

	"github.com/Layr-Labs/batch-call/pkg/abiStore"
	"github.com/Layr-Labs/batch-call/pkg/contracts"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// InMemoryAbiStore implements IAbiStore with two maps: address -> abi hash and abi hash -> abi
type InMemoryAbiStore struct {
	mu            sync.RWMutex
	closed        bool
	abiHashByAddr map[string]common.Hash
	abiByHash     map[common.Hash]contracts.Abi
	logger        *zap.Logger
}

func NewInMemoryAbiStore(logger *zap.Logger) *InMemoryAbiStore {
	return &InMemoryAbiStore{
		abiHashByAddr: make(map[string]common.Hash),
		abiByHash:     make(map[common.Hash]contracts.Abi),
		logger:        logger,
	}
}

func (s *InMemoryAbiStore) GetAbiByAddress(address string) (contracts.Abi, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, abiStore.ErrStoreClosed
	}

	hash, exists := s.abiHashByAddr[strings.ToLower(address)]
	if !exists {
		return nil, abiStore.ErrNotFound
	}
	abi, exists := s.abiByHash[hash]
	if !exists {
		return nil, abiStore.ErrNotFound
	}
	return abi, nil
}

func (s *InMemoryAbiStore) GetAbiHashByAddress(address string) (common.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return common.Hash{}, abiStore.ErrStoreClosed
	}

	hash, exists := s.abiHashByAddr[strings.ToLower(address)]
	if !exists {
		return common.Hash{}, abiStore.ErrNotFound
	}
	return hash, nil
}

func (s *InMemoryAbiStore) GetAbiByHash(hash common.Hash) (contracts.Abi, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, abiStore.ErrStoreClosed
	}

	abi, exists := s.abiByHash[hash]
	if !exists {
		return nil, abiStore.ErrNotFound
	}
	return abi, nil
}

func (s *InMemoryAbiStore) PutAbi(address string, abi contracts.Abi) (common.Hash, error) {
	hash, err := abi.Hash()
	if err != nil {
		return common.Hash{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return common.Hash{}, abiStore.ErrStoreClosed
	}

	addr := strings.ToLower(address)
	if previous, ok := s.abiHashByAddr[addr]; ok && previous != hash {
		s.logger.Sugar().Debugw("Replacing abi for address",
			zap.String("address", addr),
			zap.String("previousHash", previous.Hex()),
			zap.String("newHash", hash.Hex()),
		)
	}
	s.abiByHash[hash] = abi
	s.abiHashByAddr[addr] = hash
	return hash, nil
}

func (s *InMemoryAbiStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return abiStore.ErrStoreClosed
	}
	s.closed = true

	s.abiHashByAddr = nil
	s.abiByHash = nil
	return nil
}
