package application

import (
	"fmt"

	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

type Config struct {
	RelyingParty   RelyingParty
	OrganizationID string
	Contracts      Contracts
	Network        Network

	RepoManager   ports.RepoManager
	Authenticator ports.Authenticator
	KeyService    ports.KeyService
	Provisioner   ports.Provisioner
	Chain         ports.Chain
	Bundler       ports.Bundler
	Paymaster     ports.Paymaster
	Deriver       ports.AccountDeriver

	sessions      SessionManager
	binder        CredentialBinder
	account       AccountService
	resolver      SessionResolver
	builder       OperationBuilder
	negotiator    SponsorshipNegotiator
	signer        AuthorizationSigner
	submitter     Submitter
	authorization AuthorizationService
}

func (c *Config) Validate() error {
	if c.RepoManager == nil {
		return fmt.Errorf("%w: missing repo manager", ErrServiceNotConfigured)
	}
	if c.Deriver == nil {
		return fmt.Errorf("%w: missing account deriver", ErrServiceNotConfigured)
	}
	if c.Network.ChainID == nil {
		return fmt.Errorf("%w: missing chain id", ErrServiceNotConfigured)
	}
	if c.Network.IsSponsored() && c.Paymaster == nil {
		return fmt.Errorf("%w: missing paymaster for sponsorship policy", ErrServiceNotConfigured)
	}
	return nil
}

func (c *Config) SessionManager() SessionManager {
	if c.sessions == nil {
		c.sessions = NewSessionManager(c.RepoManager.SessionRepository(), c.Deriver)
	}
	return c.sessions
}

func (c *Config) CredentialBinder() (CredentialBinder, error) {
	if c.binder == nil {
		if c.Authenticator == nil {
			return nil, fmt.Errorf("%w: missing authenticator", ErrServiceNotConfigured)
		}
		binder, err := NewCredentialBinder(c.RelyingParty, c.Authenticator)
		if err != nil {
			return nil, err
		}
		c.binder = binder
	}
	return c.binder, nil
}

func (c *Config) AccountService() (AccountService, error) {
	if c.account == nil {
		if c.Provisioner == nil {
			return nil, fmt.Errorf("%w: missing provisioner", ErrServiceNotConfigured)
		}
		binder, err := c.CredentialBinder()
		if err != nil {
			return nil, err
		}
		c.account = NewAccountService(binder, c.Provisioner, c.Deriver, c.SessionManager())
	}
	return c.account, nil
}

func (c *Config) SessionResolver() (SessionResolver, error) {
	if c.resolver == nil {
		if c.KeyService == nil {
			return nil, fmt.Errorf("%w: missing key service", ErrServiceNotConfigured)
		}
		c.resolver = NewSessionResolver(
			c.OrganizationID, c.KeyService, c.RepoManager.SessionRepository(),
			c.Deriver, c.SessionManager(),
		)
	}
	return c.resolver, nil
}

func (c *Config) OperationBuilder() (OperationBuilder, error) {
	if c.builder == nil {
		if c.Chain == nil || c.Bundler == nil {
			return nil, fmt.Errorf("%w: missing chain or bundler", ErrServiceNotConfigured)
		}
		c.builder = NewOperationBuilder(
			c.Chain, c.Bundler, c.Deriver, c.Contracts, c.Network,
		)
	}
	return c.builder, nil
}

// SponsorshipNegotiator returns nil if operations are not sponsored.
func (c *Config) SponsorshipNegotiator() SponsorshipNegotiator {
	if c.negotiator == nil && c.Network.IsSponsored() && c.Paymaster != nil {
		c.negotiator = NewSponsorshipNegotiator(c.Paymaster, c.Network.SponsorshipPolicyID)
	}
	return c.negotiator
}

func (c *Config) AuthorizationSigner() (AuthorizationSigner, error) {
	if c.signer == nil {
		if c.KeyService == nil {
			return nil, fmt.Errorf("%w: missing key service", ErrServiceNotConfigured)
		}
		c.signer = NewAuthorizationSigner(c.KeyService, c.Deriver, c.Contracts, c.Network)
	}
	return c.signer, nil
}

func (c *Config) Submitter() (Submitter, error) {
	if c.submitter == nil {
		if c.Bundler == nil {
			return nil, fmt.Errorf("%w: missing bundler", ErrServiceNotConfigured)
		}
		c.submitter = NewSubmitter(
			c.Bundler, c.RepoManager.ReceiptRepository(), c.Contracts, c.Network,
		)
	}
	return c.submitter, nil
}

func (c *Config) AuthorizationService() (AuthorizationService, error) {
	if c.authorization == nil {
		builder, err := c.OperationBuilder()
		if err != nil {
			return nil, err
		}
		signer, err := c.AuthorizationSigner()
		if err != nil {
			return nil, err
		}
		submitter, err := c.Submitter()
		if err != nil {
			return nil, err
		}
		c.authorization = NewAuthorizationService(
			c.SessionManager(), builder, c.SponsorshipNegotiator(), signer, submitter,
		)
	}
	return c.authorization, nil
}
