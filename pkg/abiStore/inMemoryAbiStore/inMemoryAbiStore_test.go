package inMemoryAbiStore_test

import (
	"testing"

	"github.com/Layr-Labs/batch-call/pkg/abiStore"
	"github.com/Layr-Labs/batch-call/pkg/abiStore/inMemoryAbiStore"
	"github.com/Layr-Labs/batch-call/pkg/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Test_InMemoryAbiStore runs the standard abi store test suite
func Test_InMemoryAbiStore(t *testing.T) {
	suite := &abiStore.TestSuite{
		NewStore: func() (abiStore.IAbiStore, error) {
			return inMemoryAbiStore.NewInMemoryAbiStore(zap.NewNop()), nil
		},
	}
	suite.Run(t)
}

func TestInMemorySpecific(t *testing.T) {
	t.Run("MultipleInstances", func(t *testing.T) {
		store1 := inMemoryAbiStore.NewInMemoryAbiStore(zap.NewNop())
		store2 := inMemoryAbiStore.NewInMemoryAbiStore(zap.NewNop())

		_, err := store1.PutAbi("0xaaa", contracts.Abi{{Type: "function", Name: "owner"}})
		require.NoError(t, err)

		_, err = store2.GetAbiByAddress("0xaaa")
		assert.ErrorIs(t, err, abiStore.ErrNotFound)
	})
}
