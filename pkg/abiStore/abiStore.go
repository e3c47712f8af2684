package abiStore

import (
	"errors"

	"github.com/Layr-Labs/batch-call/pkg/contracts"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNotFound    = errors.New("abi not found")
	ErrStoreClosed = errors.New("abi store closed")
)

// IAbiStore is a content-addressed ABI cache: addresses point at an ABI hash and
// identical ABI bodies are stored once.
type IAbiStore interface {
	GetAbiByAddress(address string) (contracts.Abi, error)
	GetAbiHashByAddress(address string) (common.Hash, error)
	GetAbiByHash(hash common.Hash) (contracts.Abi, error)

	// PutAbi replaces whatever ABI the address pointed at before.
	PutAbi(address string, abi contracts.Abi) (common.Hash, error)

	Close() error
}
