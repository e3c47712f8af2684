package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_BaseSepolia     ChainId = 84532
)

const (
	DefaultEtherscanBaseUrl   = "https://api.etherscan.io/api"
	DefaultEtherscanDelayTime = 300 * time.Millisecond
)

var (
	ErrMissingProvider        = errors.New("no provider set")
	ErrMissingEtherscanConfig = errors.New("no etherscan config set")
	ErrMissingEtherscanApiKey = errors.New("no etherscan API key set")
)

// EtherscanConfig holds the credentials and throttling used for ABI lookups.
type EtherscanConfig struct {
	ApiKey  string
	BaseUrl string
	// ChainId is sent as the chainid parameter when non-zero (Etherscan v2 endpoints)
	ChainId ChainId
	// DelayTime is waited after every ABI fetched from the explorer. Nil means the default,
	// an explicit zero disables the wait.
	DelayTime *time.Duration
}

// ConfigurationError is returned when a component cannot be constructed from the given config.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return multierr.Errors(e.Err)
}

// WithDefaults returns a copy of the config with unset values filled in.
func (c *EtherscanConfig) WithDefaults() *EtherscanConfig {
	out := *c
	if out.BaseUrl == "" {
		out.BaseUrl = DefaultEtherscanBaseUrl
	}
	if out.DelayTime == nil {
		delay := DefaultEtherscanDelayTime
		out.DelayTime = &delay
	}
	return &out
}

// Validate reports every missing explorer setting at once. A nil config is itself an error.
func (c *EtherscanConfig) Validate() error {
	if c == nil {
		return ErrMissingEtherscanConfig
	}
	var err error
	if c.ApiKey == "" {
		err = multierr.Append(err, ErrMissingEtherscanApiKey)
	}
	if c.DelayTime != nil && *c.DelayTime < 0 {
		err = multierr.Append(err, fmt.Errorf("etherscan delay time must not be negative, got %s", *c.DelayTime))
	}
	return err
}
