package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/Layr-Labs/batch-call/pkg/batchCall"
	"github.com/Layr-Labs/batch-call/pkg/clients/ethereum"
	"github.com/Layr-Labs/batch-call/pkg/config"
	"github.com/Layr-Labs/batch-call/pkg/logger"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	Version   = "v0.0.0"
	GitCommit = ""
)

var (
	RpcUrlFlag = &cli.StringFlag{
		Name:     "rpc-url",
		Usage:    "JSON-RPC endpoint of the node (http, ws or ipc)",
		EnvVars:  []string{"BATCH_CALL_RPC_URL"},
		Required: true,
	}
	EtherscanApiKeyFlag = &cli.StringFlag{
		Name:    "etherscan-api-key",
		Usage:   "API key used to look up ABIs that are not provided",
		EnvVars: []string{"ETHERSCAN_API_KEY"},
	}
	EtherscanUrlFlag = &cli.StringFlag{
		Name:    "etherscan-url",
		Usage:   "Etherscan compatible API endpoint",
		EnvVars: []string{"BATCH_CALL_ETHERSCAN_URL"},
		Value:   config.DefaultEtherscanBaseUrl,
	}
	EtherscanChainIdFlag = &cli.UintFlag{
		Name:    "etherscan-chain-id",
		Usage:   "chainid parameter for multichain explorer endpoints, omitted when 0",
		EnvVars: []string{"BATCH_CALL_ETHERSCAN_CHAIN_ID"},
	}
	EtherscanDelayFlag = &cli.DurationFlag{
		Name:    "etherscan-delay",
		Usage:   "Pause after every ABI fetched from the explorer, 0 disables it",
		EnvVars: []string{"BATCH_CALL_ETHERSCAN_DELAY"},
		Value:   config.DefaultEtherscanDelayTime,
	}
	BlockFlag = &cli.StringFlag{
		Name:  "block",
		Usage: "Block to read at: a number, 0x-prefixed hex or a tag such as latest or finalized",
		Value: "latest",
	}
	DebugFlag = &cli.BoolFlag{
		Name:    "debug",
		Usage:   "Enable debug logging",
		EnvVars: []string{"BATCH_CALL_DEBUG"},
	}
)

var Flags = []cli.Flag{
	RpcUrlFlag,
	EtherscanApiKeyFlag,
	EtherscanUrlFlag,
	EtherscanChainIdFlag,
	EtherscanDelayFlag,
	BlockFlag,
	DebugFlag,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, r io.Reader, w io.Writer, ew io.Writer, args []string) error {
	app := cli.NewApp()
	app.Reader = r
	app.Writer = w
	app.ErrWriter = ew
	app.Name = "batchCall"
	app.Version = fmt.Sprintf("%s-%s", Version, GitCommit)
	app.Usage = "Read many contract view methods in a single JSON-RPC batch"
	app.ArgsUsage = "REQUEST.json | -"
	app.Description = "Reads a JSON list of contract requests and prints the results grouped by namespace.\n" +
		" ABIs that are not part of a request are looked up on Etherscan."
	app.Flags = Flags
	app.Action = batchCallAction
	return app.RunContext(ctx, args)
}

func batchCallAction(cliCtx *cli.Context) error {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cliCtx.Bool(DebugFlag.Name)})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Sync()

	requests, err := readRequests(cliCtx.Args().First(), cliCtx.App.Reader)
	if err != nil {
		return err
	}
	blockNumber, err := parseBlockNumber(cliCtx.String(BlockFlag.Name))
	if err != nil {
		return err
	}

	_, rpcClient, err := ethereum.NewEthereumClient(cliCtx.Context, &ethereum.EthereumClientConfig{
		BaseUrl: cliCtx.String(RpcUrlFlag.Name),
	}, l)
	if err != nil {
		return err
	}
	defer rpcClient.Close()

	delay := cliCtx.Duration(EtherscanDelayFlag.Name)
	bc, err := batchCall.NewBatchCall(&batchCall.BatchCallConfig{
		Provider: rpcClient,
		Etherscan: &config.EtherscanConfig{
			ApiKey:    cliCtx.String(EtherscanApiKeyFlag.Name),
			BaseUrl:   cliCtx.String(EtherscanUrlFlag.Name),
			ChainId:   config.ChainId(cliCtx.Uint(EtherscanChainIdFlag.Name)),
			DelayTime: &delay,
		},
	}, l)
	if err != nil {
		return err
	}

	l.Sugar().Debugw("Executing requests",
		zap.Int("requestCount", len(requests)),
		zap.String("block", ethereum.BlockNumberArg(blockNumber)),
	)
	res, err := bc.Execute(cliCtx.Context, requests, blockNumber)
	if err != nil {
		return err
	}
	return writeResponse(cliCtx.App.Writer, res)
}

// readRequests decodes the request list from path, or from stdin when path is "-".
func readRequests(path string, stdin io.Reader) ([]batchCall.ContractRequest, error) {
	var src io.Reader
	switch path {
	case "":
		return nil, fmt.Errorf("missing request file argument")
	case "-":
		src = stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open request file: %w", err)
		}
		defer f.Close()
		src = f
	}

	// numbers stay json.Number so uint256 arguments keep full precision
	dec := json.NewDecoder(src)
	dec.UseNumber()

	var requests []batchCall.ContractRequest
	if err := dec.Decode(&requests); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}
	return requests, nil
}

// parseBlockNumber accepts decimal numbers next to the forms rpc.BlockNumber understands.
// An empty string means latest.
func parseBlockNumber(s string) (*rpc.BlockNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.ParseUint(s, 10, 63); err == nil {
		bn := rpc.BlockNumber(n)
		return &bn, nil
	}
	var bn rpc.BlockNumber
	if err := bn.UnmarshalJSON([]byte(strconv.Quote(s))); err != nil {
		return nil, fmt.Errorf("invalid block %q: %w", s, err)
	}
	return &bn, nil
}

func writeResponse(w io.Writer, res *batchCall.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
