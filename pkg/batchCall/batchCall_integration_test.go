package batchCall

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Layr-Labs/batch-call/pkg/clients/ethereum"
	"github.com/Layr-Labs/batch-call/pkg/config"
	"github.com/Layr-Labs/batch-call/pkg/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// Ethereum mainnet tokens with verified sources
	mainnetDai  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	mainnetWeth = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"

	integrationBlock = rpc.BlockNumber(19_000_000)
)

func skipIfNoIntegrationEnv(t *testing.T) (string, string) {
	t.Helper()
	rpcURL := os.Getenv("ETH_RPC_URL")
	apiKey := os.Getenv("ETHERSCAN_API_KEY")
	if rpcURL == "" || apiKey == "" {
		t.Skip("ETH_RPC_URL or ETHERSCAN_API_KEY not set, skipping integration test")
	}
	return rpcURL, apiKey
}

func TestIntegration_Execute_Mainnet(t *testing.T) {
	rpcURL, apiKey := skipIfNoIntegrationEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: true})
	require.NoError(t, err)

	_, rpcClient, err := ethereum.NewEthereumClient(ctx, &ethereum.EthereumClientConfig{BaseUrl: rpcURL}, l)
	require.NoError(t, err)
	defer rpcClient.Close()

	bc, err := NewBatchCall(&BatchCallConfig{
		Provider: rpcClient,
		Etherscan: &config.EtherscanConfig{
			ApiKey:  apiKey,
			BaseUrl: "https://api.etherscan.io/v2/api",
			ChainId: config.ChainId_EthereumMainnet,
		},
	}, l)
	require.NoError(t, err)

	res, err := bc.Execute(ctx, []ContractRequest{
		{
			Addresses: []string{mainnetDai},
			Namespace: "tokens",
			Methods: []MethodSpec{
				{Name: "symbol"},
				{Name: "balanceOf", Args: []any{common.Address{}.Hex()}},
			},
		},
		{
			Addresses:  []string{mainnetDai},
			AllMethods: true,
		},
	}, nil)
	require.NoError(t, err)
	require.Empty(t, res.Error)

	records := res.Result["tokens"]
	require.Len(t, records, 1)
	assert.Equal(t, []MethodResult{{Value: "DAI"}}, records[0].Methods["symbol"])
	require.Len(t, records[0].Methods["balanceOf"], 1)
	assert.Contains(t, records[0].MethodNames(), "totalSupply")
	assert.Empty(t, res.Result[DefaultNamespace])
}

func TestIntegration_Execute_PinnedBlock(t *testing.T) {
	rpcURL, apiKey := skipIfNoIntegrationEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: true})
	require.NoError(t, err)

	_, rpcClient, err := ethereum.NewEthereumClient(ctx, &ethereum.EthereumClientConfig{BaseUrl: rpcURL}, l)
	require.NoError(t, err)
	defer rpcClient.Close()

	bc, err := NewBatchCall(&BatchCallConfig{
		Provider: rpcClient,
		Etherscan: &config.EtherscanConfig{
			ApiKey:  apiKey,
			BaseUrl: "https://api.etherscan.io/v2/api",
			ChainId: config.ChainId_EthereumMainnet,
		},
	}, l)
	require.NoError(t, err)

	block := integrationBlock
	res, err := bc.Execute(ctx, []ContractRequest{
		{Addresses: []string{mainnetDai, mainnetWeth}, Methods: []MethodSpec{{Name: "decimals"}}},
	}, &block)
	require.NoError(t, err)
	require.Empty(t, res.Error)

	records := res.Result[DefaultNamespace]
	require.Len(t, records, 2)
	assert.Equal(t, []MethodResult{{Value: "18"}}, records[0].Methods["decimals"])
	assert.Equal(t, []MethodResult{{Value: "18"}}, records[1].Methods["decimals"])
}
