package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEtherscanConfig_WithDefaults(t *testing.T) {
	t.Run("unset delay uses the default", func(t *testing.T) {
		cfg := (&EtherscanConfig{ApiKey: "key"}).WithDefaults()

		require.NotNil(t, cfg.DelayTime)
		assert.Equal(t, DefaultEtherscanDelayTime, *cfg.DelayTime)
		assert.Equal(t, DefaultEtherscanBaseUrl, cfg.BaseUrl)
	})

	t.Run("explicit zero delay disables the wait", func(t *testing.T) {
		zero := time.Duration(0)
		cfg := (&EtherscanConfig{ApiKey: "key", DelayTime: &zero}).WithDefaults()

		require.NotNil(t, cfg.DelayTime)
		assert.Equal(t, time.Duration(0), *cfg.DelayTime)
	})

	t.Run("defaults do not touch the original", func(t *testing.T) {
		original := &EtherscanConfig{ApiKey: "key"}
		_ = original.WithDefaults()

		assert.Nil(t, original.DelayTime)
		assert.Empty(t, original.BaseUrl)
	})
}

func TestEtherscanConfig_Validate(t *testing.T) {
	var missing *EtherscanConfig
	assert.ErrorIs(t, missing.Validate(), ErrMissingEtherscanConfig)

	assert.ErrorIs(t, (&EtherscanConfig{}).Validate(), ErrMissingEtherscanApiKey)

	negative := -time.Second
	err := (&EtherscanConfig{DelayTime: &negative}).Validate()
	assert.ErrorIs(t, err, ErrMissingEtherscanApiKey)
	assert.ErrorContains(t, err, "must not be negative")

	zero := time.Duration(0)
	assert.NoError(t, (&EtherscanConfig{ApiKey: "key", DelayTime: &zero}).Validate())

	cfgErr := &ConfigurationError{Err: (&EtherscanConfig{DelayTime: &negative}).Validate()}
	assert.ErrorIs(t, cfgErr, ErrMissingEtherscanApiKey)
}
