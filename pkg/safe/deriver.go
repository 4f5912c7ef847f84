package safe

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Config holds the contracts and parameters an account address depends on.
// Two deployments of the same owner set with the same Config always end up
// at the same address.
type Config struct {
	ProxyFactory common.Address
	Singleton    common.Address
	Module       common.Address
	ModuleSetup  common.Address
	// ProxyCreationCode is the init code of the proxy as returned by the
	// factory's proxyCreationCode() getter.
	ProxyCreationCode []byte
	SaltNonce         *big.Int
}

// Account is a counterfactual Safe account.
type Account struct {
	Address   common.Address
	Owners    []common.Address
	Threshold uint64
}

// Deriver computes counterfactual Safe addresses. It never touches the
// network.
type Deriver struct {
	cfg          Config
	proxyInitKey []byte
}

// NewDeriver returns a Deriver for the given Config.
func NewDeriver(cfg Config) (*Deriver, error) {
	if len(cfg.ProxyCreationCode) == 0 {
		return nil, ErrMissingCreationCode
	}
	if cfg.SaltNonce == nil {
		cfg.SaltNonce = new(big.Int)
	}
	deploymentData := append(
		common.CopyBytes(cfg.ProxyCreationCode),
		common.LeftPadBytes(cfg.Singleton.Bytes(), 32)...,
	)
	return &Deriver{
		cfg:          cfg,
		proxyInitKey: crypto.Keccak256(deploymentData),
	}, nil
}

// Config returns the configuration of the deriver.
func (d *Deriver) Config() Config {
	return d.cfg
}

// Derive returns the account controlled by the given ordered owner set with
// the given threshold.
func (d *Deriver) Derive(owners []common.Address, threshold uint64) (Account, error) {
	initializer, err := d.Initializer(owners, threshold)
	if err != nil {
		return Account{}, err
	}

	salt := crypto.Keccak256Hash(
		crypto.Keccak256(initializer),
		common.LeftPadBytes(d.cfg.SaltNonce.Bytes(), 32),
	)
	address := crypto.CreateAddress2(d.cfg.ProxyFactory, salt, d.proxyInitKey)

	return Account{
		Address:   address,
		Owners:    append([]common.Address(nil), owners...),
		Threshold: threshold,
	}, nil
}

// Initializer returns the Safe setup call executed by the proxy factory at
// deployment. It enables the 4337 module through the module setup library
// and registers it as fallback handler.
func (d *Deriver) Initializer(owners []common.Address, threshold uint64) ([]byte, error) {
	if err := ValidateOwners(owners, threshold); err != nil {
		return nil, err
	}

	enableModules, err := addModulesLibABI.Pack(
		"enableModules", []common.Address{d.cfg.Module},
	)
	if err != nil {
		return nil, err
	}

	return safeABI.Pack(
		"setup",
		owners,
		new(big.Int).SetUint64(threshold),
		d.cfg.ModuleSetup,
		enableModules,
		d.cfg.Module,
		common.Address{},
		new(big.Int),
		common.Address{},
	)
}

// InitCode returns the ERC-4337 init code deploying the account:
// the factory address followed by the createProxyWithNonce call.
func (d *Deriver) InitCode(owners []common.Address, threshold uint64) ([]byte, error) {
	initializer, err := d.Initializer(owners, threshold)
	if err != nil {
		return nil, err
	}
	call, err := proxyFactoryABI.Pack(
		"createProxyWithNonce", d.cfg.Singleton, initializer, d.cfg.SaltNonce,
	)
	if err != nil {
		return nil, err
	}
	return append(d.cfg.ProxyFactory.Bytes(), call...), nil
}

// ValidateOwners checks that the owner set is not empty, has no zero or
// duplicated addresses and that the threshold fits it.
func ValidateOwners(owners []common.Address, threshold uint64) error {
	if len(owners) == 0 {
		return ErrEmptyOwners
	}
	seen := make(map[common.Address]struct{}, len(owners))
	for _, owner := range owners {
		if owner == (common.Address{}) {
			return ErrZeroOwner
		}
		if _, ok := seen[owner]; ok {
			return ErrDuplicateOwner
		}
		seen[owner] = struct{}{}
	}
	if threshold == 0 || threshold > uint64(len(owners)) {
		return ErrInvalidThreshold
	}
	return nil
}
