package config_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/passkey-wallet/internal/config"
	"github.com/tdex-network/passkey-wallet/pkg/safe"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

func TestInitConfig(t *testing.T) {
	datadir := filepath.Join(t.TempDir(), "pkw")
	t.Setenv("PKW_DATADIR", datadir)
	t.Setenv("PKW_BUNDLER_URL", "https://bundler.example.com/rpc")
	t.Setenv("PKW_RECEIPT_TIMEOUT", "90s")
	t.Setenv("PKW_PASSKEY_PASSPHRASE", "secret")

	require.NoError(t, config.InitConfig())

	info, err := os.Stat(datadir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.Equal(t, big.NewInt(11155111), config.GetChainID())
	require.Equal(t, userop.EntryPointV06, config.GetAddress(config.EntryPointKey))
	require.Equal(t, safe.Module4337Address, config.GetAddress(config.Safe4337ModuleKey))
	require.Equal(t, "https://bundler.example.com/rpc", config.GetPaymasterURL())
	require.Equal(t, 90*time.Second, config.GetDuration(config.ReceiptTimeoutKey))
	require.Equal(t, 2*time.Second, config.GetDuration(config.ReceiptPollIntervalKey))
	require.Zero(t, config.GetSaltNonce().Sign())
	require.Nil(t, config.GetProxyCreationCode())
	require.Equal(t, 10, config.GetInt(config.RateLimitKey))

	settings := config.AllSettings()
	require.Equal(t, datadir, settings[config.DatadirKey])
	require.NotContains(t, settings, config.PasskeyPassphraseKey)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"with_invalid_log_level", "PKW_LOG_LEVEL", "9"},
		{"with_invalid_chain_id", "PKW_CHAIN_ID", "0"},
		{"with_invalid_entrypoint", "PKW_ENTRYPOINT_ADDRESS", "0x1234"},
		{"with_invalid_rpc_url", "PKW_RPC_URL", "localhost"},
		{"with_invalid_salt_nonce", "PKW_SALT_NONCE", "-1"},
		{"with_invalid_creation_code", "PKW_SAFE_PROXY_CREATION_CODE", "abcd"},
		{"with_invalid_poll_interval", "PKW_RECEIPT_POLL_INTERVAL", "0s"},
		{"with_negative_rate_limit", "PKW_RATE_LIMIT", "-1"},
		{"with_half_api_key", "PKW_API_PUBLIC_KEY", "02abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PKW_DATADIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			require.Error(t, config.InitConfig())
		})
	}
}
