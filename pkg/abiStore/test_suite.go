package abiStore

import (
	"fmt"
	"testing"
	"time"

	"github.com/Layr-Labs/batch-call/pkg/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite defines a test suite that all abi store implementations must pass
type TestSuite struct {
	NewStore func() (IAbiStore, error)
}

// Run executes all abi store interface compliance tests
func (s *TestSuite) Run(t *testing.T) {
	t.Run("PutAndGet", s.testPutAndGet)
	t.Run("ContentAddressing", s.testContentAddressing)
	t.Run("LastWriteWins", s.testLastWriteWins)
	t.Run("CaseInsensitiveAddresses", s.testCaseInsensitiveAddresses)
	t.Run("Lifecycle", s.testLifecycle)
	t.Run("ConcurrentAccess", s.testConcurrentAccess)
}

func erc20Abi() contracts.Abi {
	return contracts.Abi{
		{
			Type:            contracts.AbiFieldType_Function,
			Name:            "symbol",
			Outputs:         []contracts.AbiParam{{Type: "string"}},
			StateMutability: contracts.StateMutability_View,
		},
		{
			Type:            contracts.AbiFieldType_Function,
			Name:            "balanceOf",
			Inputs:          []contracts.AbiParam{{Name: "owner", Type: "address"}},
			Outputs:         []contracts.AbiParam{{Type: "uint256"}},
			StateMutability: contracts.StateMutability_View,
		},
	}
}

func ownableAbi() contracts.Abi {
	return contracts.Abi{
		{
			Type:            contracts.AbiFieldType_Function,
			Name:            "owner",
			Outputs:         []contracts.AbiParam{{Type: "address"}},
			StateMutability: contracts.StateMutability_View,
		},
	}
}

func (s *TestSuite) testPutAndGet(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	// nolint:errcheck
	defer store.Close()

	// Test getting non-existent abi
	_, err = store.GetAbiByAddress("0xaaa")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetAbiHashByAddress("0xaaa")
	assert.ErrorIs(t, err, ErrNotFound)

	hash, err := store.PutAbi("0xaaa", erc20Abi())
	require.NoError(t, err)

	expectedHash, err := erc20Abi().Hash()
	require.NoError(t, err)
	assert.Equal(t, expectedHash, hash)

	got, err := store.GetAbiByAddress("0xaaa")
	require.NoError(t, err)
	assert.Equal(t, erc20Abi(), got)

	byHash, err := store.GetAbiByHash(hash)
	require.NoError(t, err)
	assert.Equal(t, erc20Abi(), byHash)
}

func (s *TestSuite) testContentAddressing(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	// nolint:errcheck
	defer store.Close()

	hashA, err := store.PutAbi("0xaaa", erc20Abi())
	require.NoError(t, err)
	hashB, err := store.PutAbi("0xbbb", erc20Abi())
	require.NoError(t, err)

	// Byte-identical bodies for different addresses share one entry
	assert.Equal(t, hashA, hashB)

	// Re-pointing one address does not touch the other
	hashC, err := store.PutAbi("0xaaa", ownableAbi())
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashC)

	gotB, err := store.GetAbiHashByAddress("0xbbb")
	require.NoError(t, err)
	assert.Equal(t, hashB, gotB)

	stillShared, err := store.GetAbiByHash(hashB)
	require.NoError(t, err)
	assert.Equal(t, erc20Abi(), stillShared)
}

func (s *TestSuite) testLastWriteWins(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	// nolint:errcheck
	defer store.Close()

	_, err = store.PutAbi("0xaaa", erc20Abi())
	require.NoError(t, err)
	_, err = store.PutAbi("0xaaa", ownableAbi())
	require.NoError(t, err)

	got, err := store.GetAbiByAddress("0xaaa")
	require.NoError(t, err)
	assert.Equal(t, ownableAbi(), got)
}

func (s *TestSuite) testCaseInsensitiveAddresses(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	// nolint:errcheck
	defer store.Close()

	_, err = store.PutAbi("0xABCDEF", erc20Abi())
	require.NoError(t, err)

	got, err := store.GetAbiByAddress("0xabcdef")
	require.NoError(t, err)
	assert.Equal(t, erc20Abi(), got)
}

func (s *TestSuite) testLifecycle(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)

	_, err = store.PutAbi("0xaaa", erc20Abi())
	require.NoError(t, err)

	err = store.Close()
	require.NoError(t, err)

	// Operations after close should fail
	_, err = store.PutAbi("0xbbb", erc20Abi())
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = store.GetAbiByAddress("0xaaa")
	assert.ErrorIs(t, err, ErrStoreClosed)

	err = store.Close()
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func (s *TestSuite) testConcurrentAccess(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)

	// nolint:errcheck
	defer store.Close()

	done := make(chan bool)
	errors := make(chan error, 10)

	// Concurrent writes to different addresses
	for i := 0; i < 5; i++ {
		go func(idx int) {
			for j := 0; j < 10; j++ {
				_, err := store.PutAbi(fmt.Sprintf("0x%d_%d", idx, j), erc20Abi())
				if err != nil {
					errors <- err
					return
				}
			}
			done <- true
		}(i)
	}

	// Concurrent reads
	for i := 0; i < 5; i++ {
		go func(idx int) {
			for j := 0; j < 10; j++ {
				_, err := store.GetAbiByAddress(fmt.Sprintf("0x%d_%d", idx, j))
				if err != nil && err != ErrNotFound {
					errors <- err
					return
				}
			}
			done <- true
		}(i)
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		select {
		case <-done:
		case err := <-errors:
			t.Fatalf("Concurrent access error: %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("Timeout waiting for concurrent operations")
		}
	}
}
