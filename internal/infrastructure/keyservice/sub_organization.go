package keyservice

import (
	"context"
	"fmt"
	"time"

	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

type subOrganizationCreator struct {
	*client
	organizationID string
	stamper        Stamper
}

// NewSubOrganizationCreator returns a ports.SubOrganizationCreator acting
// on behalf of the parent organization with the given stamper, usually an
// API key one.
func NewSubOrganizationCreator(
	baseURL string, timeout time.Duration, organizationID string, stamper Stamper,
) (ports.SubOrganizationCreator, error) {
	if organizationID == "" {
		return nil, ErrMissingOrganizationID
	}
	if stamper == nil {
		return nil, ErrNullStamper
	}
	c, err := newClient(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &subOrganizationCreator{c, organizationID, stamper}, nil
}

// CreateSubOrganization creates a sub-organization with one root user
// authenticated by the given passkey and one Ethereum wallet account.
func (s *subOrganizationCreator) CreateSubOrganization(
	ctx context.Context, req ports.SubOrganization,
) (*ports.SubOrganizationResult, error) {
	activity, err := s.submit(
		ctx, pathCreateSubOrganization, activityCreateSubOrganization,
		s.organizationID, newSubOrganizationParams(req), s.stamper,
	)
	if err != nil {
		return nil, err
	}

	result := activity.Result.CreateSubOrganizationResultV7
	if result == nil || result.Wallet == nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrUnavailable, ErrMissingResult)
	}
	return &ports.SubOrganizationResult{
		SubOrganizationID: result.SubOrganizationID,
		WalletID:          result.Wallet.WalletID,
		Addresses:         result.Wallet.Addresses,
	}, nil
}

func newSubOrganizationParams(req ports.SubOrganization) subOrganizationParams {
	transportList := make([]string, 0, len(req.Attestation.Transports))
	for _, t := range req.Attestation.Transports {
		if v, ok := transports[t]; ok {
			transportList = append(transportList, v)
		}
	}

	return subOrganizationParams{
		SubOrganizationName: req.Name,
		RootUsers: []rootUser{{
			UserName: req.UserName,
			APIKeys:  []interface{}{},
			Authenticators: []authenticator{{
				AuthenticatorName: req.UserName,
				Challenge:         req.Challenge,
				Attestation: attestation{
					CredentialID:      b64url(req.Attestation.CredentialID),
					ClientDataJSON:    b64url(req.Attestation.ClientDataJSON),
					AttestationObject: b64url(req.Attestation.AttestationObject),
					Transports:        transportList,
				},
			}},
			OauthProviders: []interface{}{},
		}},
		RootQuorumThreshold: 1,
		Wallet: walletParams{
			WalletName: req.WalletName,
			Accounts: []walletAccount{{
				Curve:         curveSecp256k1,
				PathFormat:    pathFormatBip32,
				Path:          DefaultDerivationPath,
				AddressFormat: addressFormatEthereum,
			}},
		},
	}
}
