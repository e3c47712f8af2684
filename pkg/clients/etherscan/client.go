package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Layr-Labs/batch-call/pkg/config"
	"github.com/Layr-Labs/batch-call/pkg/contracts"
	"go.uber.org/zap"
)

const defaultHttpTimeout = 30 * time.Second

// EtherscanGenericResp is the envelope every Etherscan-compatible API answers with.
type EtherscanGenericResp struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// ExplorerError carries the raw response body alongside the underlying failure.
type ExplorerError struct {
	Address  string
	Response []byte
	Err      error
}

func (e *ExplorerError) Error() string {
	if len(e.Response) > 0 {
		return fmt.Sprintf("etherscan error for %s: %v (response: %s)", e.Address, e.Err, truncate(e.Response, 256))
	}
	return fmt.Sprintf("etherscan error for %s: %v", e.Address, e.Err)
}

func (e *ExplorerError) Unwrap() error {
	return e.Err
}

type EtherscanClient struct {
	httpClient *http.Client
	baseUrl    string
	apiKey     string
	chainId    config.ChainId
	logger     *zap.Logger
}

func NewEtherscanClient(cfg *config.EtherscanConfig, logger *zap.Logger) *EtherscanClient {
	cfg = cfg.WithDefaults()
	return &EtherscanClient{
		httpClient: &http.Client{Timeout: defaultHttpTimeout},
		baseUrl:    cfg.BaseUrl,
		apiKey:     cfg.ApiKey,
		chainId:    cfg.ChainId,
		logger:     logger,
	}
}

// GetAbiRequestUrl builds the getabi lookup for a single address.
func GetAbiRequestUrl(baseUrl string, apiKey string, chainId config.ChainId, address string) (string, error) {
	u, err := url.Parse(baseUrl)
	if err != nil {
		return "", fmt.Errorf("invalid etherscan url %q: %w", baseUrl, err)
	}
	q := u.Query()
	if chainId != 0 {
		q.Set("chainid", strconv.FormatUint(uint64(chainId), 10))
	}
	q.Set("module", "contract")
	q.Set("action", "getabi")
	q.Set("address", address)
	q.Set("apikey", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// GetAbi fetches the verified ABI of a contract. The ABI arrives as a JSON string
// inside the result field and is decoded a second time.
func (c *EtherscanClient) GetAbi(ctx context.Context, address string) (contracts.Abi, error) {
	requestUrl, err := GetAbiRequestUrl(c.baseUrl, c.apiKey, c.chainId, address)
	if err != nil {
		return nil, &ExplorerError{Address: address, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, &ExplorerError{Address: address, Err: err}
	}

	c.logger.Sugar().Debugw("Fetching abi from etherscan", zap.String("address", address))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExplorerError{Address: address, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &ExplorerError{Address: address, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &ExplorerError{Address: address, Response: body, Err: fmt.Errorf("unexpected status code %d", res.StatusCode)}
	}

	var envelope EtherscanGenericResp
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ExplorerError{Address: address, Response: body, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	var abiString string
	if err := json.Unmarshal(envelope.Result, &abiString); err != nil {
		return nil, &ExplorerError{Address: address, Response: body, Err: fmt.Errorf("result is not a string: %w", err)}
	}

	abi, err := contracts.ParseAbi([]byte(abiString))
	if err != nil {
		// status "0" answers carry the reason in result, e.g. "Contract source code not verified"
		c.logger.Sugar().Warnw("Etherscan returned an unusable abi",
			zap.String("address", address),
			zap.String("status", envelope.Status),
			zap.String("message", envelope.Message),
		)
		return nil, &ExplorerError{Address: address, Response: body, Err: err}
	}
	return abi, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
