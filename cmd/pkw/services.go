package main

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/config"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/authenticator/softkey"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/bundler"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/chain"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/keyservice"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/paymaster"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/provisioner"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/smartaccount"
	dbbadger "github.com/tdex-network/passkey-wallet/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/passkey-wallet/pkg/safe"
)

// services wires the application services from the configuration. Remote
// services whose url is not configured are left unset and the commands
// needing them fail with application.ErrServiceNotConfigured.
type services struct {
	*application.Config
	closers []func()
}

func newServices(ctx context.Context) (svc *services, err error) {
	svc = &services{}
	defer func() {
		if err != nil {
			svc.close()
		}
	}()

	datadir := config.GetDatadir()
	timeout := config.GetDuration(config.RequestTimeoutKey)
	entryPoint := config.GetAddress(config.EntryPointKey)
	rp := application.RelyingParty{
		ID:          config.GetString(config.RPIDKey),
		Origin:      config.GetString(config.RPOriginKey),
		DisplayName: config.GetString(config.RPDisplayNameKey),
	}

	repoManager, err := dbbadger.NewRepoManager(datadir, log.StandardLogger())
	if err != nil {
		return nil, err
	}
	svc.closers = append(svc.closers, repoManager.Close)

	credentials, err := dbbadger.NewCredentialStore(datadir, log.StandardLogger())
	if err != nil {
		return nil, err
	}
	svc.closers = append(svc.closers, credentials.Close)

	authenticator, err := softkey.NewAuthenticator(
		credentials, softkey.NewTerminalPrompter(config.GetString(config.PasskeyPassphraseKey)),
	)
	if err != nil {
		return nil, err
	}

	keyService, err := keyservice.NewKeyService(
		config.GetString(config.KeyServiceURLKey), timeout,
		keyservice.NewWebAuthnStamper(rp.ID, rp.Origin, authenticator),
	)
	if err != nil {
		return nil, err
	}

	var provisionerSvc ports.Provisioner
	if url := config.GetString(config.ProvisionerURLKey); url != "" {
		if provisionerSvc, err = provisioner.NewClient(url, timeout); err != nil {
			return nil, err
		}
	}

	var chainSvc ports.Chain
	if url := config.GetString(config.RPCURLKey); url != "" {
		if chainSvc, err = chain.NewService(ctx, url, entryPoint); err != nil {
			return nil, fmt.Errorf("connecting to rpc node: %w", err)
		}
		svc.closers = append(svc.closers, chainSvc.Close)
	}

	var bundlerSvc ports.Bundler
	if url := config.GetString(config.BundlerURLKey); url != "" {
		if bundlerSvc, err = bundler.NewService(ctx, url, entryPoint); err != nil {
			return nil, fmt.Errorf("connecting to bundler: %w", err)
		}
		svc.closers = append(svc.closers, bundlerSvc.Close)
	}

	policyID := config.GetString(config.SponsorshipPolicyIDKey)
	var paymasterSvc ports.Paymaster
	if url := config.GetPaymasterURL(); url != "" && policyID != "" {
		if paymasterSvc, err = paymaster.NewService(ctx, url, entryPoint); err != nil {
			return nil, fmt.Errorf("connecting to paymaster: %w", err)
		}
		svc.closers = append(svc.closers, paymasterSvc.Close)
	}

	factory := config.GetAddress(config.SafeProxyFactoryKey)
	creationCode, err := application.ProxyCreationCode(
		ctx, config.GetProxyCreationCode(), factory,
		repoManager.CacheRepository(), chainSvc,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: configure PKW_%s or PKW_%s",
			err, config.SafeProxyCreationCodeKey, config.RPCURLKey,
		)
	}
	deriver, err := smartaccount.NewAccountDeriver(safe.Config{
		ProxyFactory:      factory,
		Singleton:         config.GetAddress(config.SafeSingletonKey),
		Module:            config.GetAddress(config.Safe4337ModuleKey),
		ModuleSetup:       config.GetAddress(config.SafeModuleSetupKey),
		ProxyCreationCode: creationCode,
		SaltNonce:         config.GetSaltNonce(),
	})
	if err != nil {
		return nil, err
	}

	svc.Config = &application.Config{
		RelyingParty:   rp,
		OrganizationID: config.GetString(config.OrganizationIDKey),
		Contracts: application.Contracts{
			EntryPoint: entryPoint,
			Module:     config.GetAddress(config.Safe4337ModuleKey),
			MultiSend:  config.GetAddress(config.SafeMultiSendKey),
		},
		Network: application.Network{
			ChainID:             config.GetChainID(),
			SponsorshipPolicyID: policyID,
			ReceiptPollInterval: config.GetDuration(config.ReceiptPollIntervalKey),
			ReceiptTimeout:      config.GetDuration(config.ReceiptTimeoutKey),
		},
		RepoManager:   repoManager,
		Authenticator: authenticator,
		KeyService:    keyService,
		Provisioner:   provisionerSvc,
		Chain:         chainSvc,
		Bundler:       bundlerSvc,
		Paymaster:     paymasterSvc,
		Deriver:       deriver,
	}
	if err := svc.Validate(); err != nil {
		return nil, err
	}

	if _, err := svc.SessionManager().Load(ctx); err != nil {
		if !errors.Is(err, application.ErrStaleSession) {
			return nil, fmt.Errorf("loading session: %w", err)
		}
		log.WithError(err).Warn("ignoring stored session, run login again")
	}
	return svc, nil
}

func (s *services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
