package config

import (
	"fmt"
	"math/big"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tdex-network/passkey-wallet/pkg/safe"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

const (
	// DatadirKey is the local data directory storing the session, the
	// operation journal and the passkeys
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// RPIDKey is the passkey relying party id, usually the wallet domain
	RPIDKey = "RP_ID"
	// RPOriginKey is the origin passkey ceremonies are bound to
	RPOriginKey = "RP_ORIGIN"
	// RPDisplayNameKey is the relying party name shown to the user
	RPDisplayNameKey = "RP_DISPLAY_NAME"
	// KeyServiceURLKey is the base url of the key-management service
	KeyServiceURLKey = "KEY_SERVICE_URL"
	// OrganizationIDKey is the id of the parent organization at the key
	// service
	OrganizationIDKey = "ORGANIZATION_ID"
	// ProvisionerURLKey is the base url of the provisioning backend
	ProvisionerURLKey = "PROVISIONER_URL"
	// RPCURLKey is the url of the network JSON-RPC node
	RPCURLKey = "RPC_URL"
	// BundlerURLKey is the url of the ERC-4337 bundler
	BundlerURLKey = "BUNDLER_URL"
	// PaymasterURLKey is the url of the paymaster, defaults to the bundler one
	PaymasterURLKey = "PAYMASTER_URL"
	// SponsorshipPolicyIDKey enables sponsored operations with the given
	// paymaster policy
	SponsorshipPolicyIDKey = "SPONSORSHIP_POLICY_ID"
	// ChainIDKey is the id of the network
	ChainIDKey = "CHAIN_ID"
	// EntryPointKey is the address of the EntryPoint v0.6 contract
	EntryPointKey = "ENTRYPOINT_ADDRESS"
	// SafeProxyFactoryKey is the address of the Safe proxy factory
	SafeProxyFactoryKey = "SAFE_PROXY_FACTORY"
	// SafeSingletonKey is the address of the Safe singleton
	SafeSingletonKey = "SAFE_SINGLETON"
	// Safe4337ModuleKey is the address of the Safe 4337 module
	Safe4337ModuleKey = "SAFE_4337_MODULE"
	// SafeModuleSetupKey is the address of the library enabling the module
	SafeModuleSetupKey = "SAFE_MODULE_SETUP"
	// SafeMultiSendKey is the address of the MultiSend contract used for
	// batches
	SafeMultiSendKey = "SAFE_MULTISEND"
	// SafeProxyCreationCodeKey is the hex proxy creation code, fetched from
	// the factory if not set
	SafeProxyCreationCodeKey = "SAFE_PROXY_CREATION_CODE"
	// SaltNonceKey is the salt nonce the account address depends on
	SaltNonceKey = "SALT_NONCE"
	// ReceiptPollIntervalKey is the interval between two receipt lookups
	ReceiptPollIntervalKey = "RECEIPT_POLL_INTERVAL"
	// ReceiptTimeoutKey bounds the inclusion wait, 0 means no bound
	ReceiptTimeoutKey = "RECEIPT_TIMEOUT"
	// RequestTimeoutKey is the timeout of the HTTP calls to remote services
	RequestTimeoutKey = "REQUEST_TIMEOUT"
	// PasskeyPassphraseKey unlocks the passkeys without prompting
	PasskeyPassphraseKey = "PASSKEY_PASSPHRASE"
	// ListenAddrKey is the address <host:port> the provisioning backend
	// listens on
	ListenAddrKey = "LISTEN_ADDR"
	// RateLimitKey caps the sub-organization creations per second served
	// by the provisioning backend, 0 disables the cap
	RateLimitKey = "RATE_LIMIT"
	// APIPublicKeyKey is the hex compressed P-256 public key of the backend
	// API key at the key service
	APIPublicKeyKey = "API_PUBLIC_KEY"
	// APIPrivateKeyKey is the hex P-256 private key of the backend API key
	APIPrivateKeyKey = "API_PRIVATE_KEY"

	envPrefix = "PKW"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("pkw", false)

	addressKeys = []string{
		EntryPointKey, SafeProxyFactoryKey, SafeSingletonKey,
		Safe4337ModuleKey, SafeModuleSetupKey, SafeMultiSendKey,
	}
	urlKeys = []string{
		KeyServiceURLKey, ProvisionerURLKey, RPCURLKey, BundlerURLKey,
		PaymasterURLKey, RPOriginKey,
	}
)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(RPIDKey, "localhost")
	vip.SetDefault(RPOriginKey, "http://localhost")
	vip.SetDefault(RPDisplayNameKey, "Passkey Wallet")
	vip.SetDefault(KeyServiceURLKey, "https://api.turnkey.com")
	vip.SetDefault(ProvisionerURLKey, "http://localhost:8080")
	vip.SetDefault(ChainIDKey, 11155111)
	vip.SetDefault(EntryPointKey, userop.EntryPointV06.Hex())
	vip.SetDefault(SafeProxyFactoryKey, safe.ProxyFactoryAddress.Hex())
	vip.SetDefault(SafeSingletonKey, safe.SingletonAddress.Hex())
	vip.SetDefault(Safe4337ModuleKey, safe.Module4337Address.Hex())
	vip.SetDefault(SafeModuleSetupKey, safe.AddModulesLibAddress.Hex())
	vip.SetDefault(SafeMultiSendKey, safe.MultiSendAddress.Hex())
	vip.SetDefault(SaltNonceKey, "0")
	vip.SetDefault(ReceiptPollIntervalKey, 2*time.Second)
	vip.SetDefault(ReceiptTimeoutKey, 0)
	vip.SetDefault(RequestTimeoutKey, 30*time.Second)
	vip.SetDefault(ListenAddrKey, ":8080")
	vip.SetDefault(RateLimitKey, 10)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	log.SetLevel(log.Level(GetInt(LogLevelKey)))
	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetAddress(key string) common.Address {
	return common.HexToAddress(GetString(key))
}

func GetChainID() *big.Int {
	return big.NewInt(int64(GetInt(ChainIDKey)))
}

// GetPaymasterURL returns the bundler url if no paymaster one is set since
// most bundlers also serve the pm_ namespace.
func GetPaymasterURL() string {
	if u := GetString(PaymasterURLKey); u != "" {
		return u
	}
	return GetString(BundlerURLKey)
}

func GetSaltNonce() *big.Int {
	nonce, _ := new(big.Int).SetString(GetString(SaltNonceKey), 0)
	return nonce
}

// GetProxyCreationCode returns nil if not configured.
func GetProxyCreationCode() []byte {
	code := GetString(SafeProxyCreationCodeKey)
	if code == "" {
		return nil
	}
	buf, _ := hexutil.Decode(code)
	return buf
}

// AllSettings returns the effective configuration, secrets excluded.
func AllSettings() map[string]interface{} {
	settings := make(map[string]interface{})
	for _, key := range vip.AllKeys() {
		k := strings.ToUpper(key)
		if k == PasskeyPassphraseKey || k == APIPrivateKeyKey {
			continue
		}
		settings[k] = vip.Get(key)
	}
	return settings
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	logLevel := GetInt(LogLevelKey)
	if logLevel < int(log.PanicLevel) || logLevel > int(log.TraceLevel) {
		return fmt.Errorf("%s must be in range [%d, %d]", LogLevelKey, log.PanicLevel, log.TraceLevel)
	}

	if GetInt(ChainIDKey) <= 0 {
		return fmt.Errorf("%s must be a positive integer", ChainIDKey)
	}

	for _, key := range addressKeys {
		if !common.IsHexAddress(GetString(key)) {
			return fmt.Errorf("%s must be a valid address", key)
		}
	}

	for _, key := range urlKeys {
		u := GetString(key)
		if u == "" {
			continue
		}
		if parsed, err := url.Parse(u); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be a valid url", key)
		}
	}

	if nonce, ok := new(big.Int).SetString(GetString(SaltNonceKey), 0); !ok || nonce.Sign() < 0 {
		return fmt.Errorf("%s must be a non negative integer", SaltNonceKey)
	}

	if code := GetString(SafeProxyCreationCodeKey); code != "" {
		if _, err := hexutil.Decode(code); err != nil {
			return fmt.Errorf("%s must be a 0x prefixed hex string", SafeProxyCreationCodeKey)
		}
	}

	if GetDuration(ReceiptPollIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", ReceiptPollIntervalKey)
	}
	if GetInt(RateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", RateLimitKey)
	}
	if GetDuration(ReceiptTimeoutKey) < 0 {
		return fmt.Errorf("%s must not be negative", ReceiptTimeoutKey)
	}

	pubkey, privkey := GetString(APIPublicKeyKey), GetString(APIPrivateKeyKey)
	if (pubkey == "") != (privkey == "") {
		return fmt.Errorf("API key requires both public and private key when enabled")
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(GetDatadir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
