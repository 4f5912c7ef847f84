package keyservice

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tdex-network/passkey-wallet/internal/core/domain"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

type keyService struct {
	*client
	stamper Stamper
}

// NewKeyService returns a ports.KeyService whose activities are stamped
// with the given stamper, usually the passkey one.
func NewKeyService(
	baseURL string, timeout time.Duration, stamper Stamper,
) (ports.KeyService, error) {
	if stamper == nil {
		return nil, ErrNullStamper
	}
	c, err := newClient(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &keyService{c, stamper}, nil
}

// CreateReadOnlySession returns ports.ErrNoCredential if the key service
// does not know the stamping credential.
func (s *keyService) CreateReadOnlySession(
	ctx context.Context, organizationID string,
) (*domain.ReadOnlySession, error) {
	if organizationID == "" {
		return nil, ErrMissingOrganizationID
	}

	activity, err := s.submit(
		ctx, pathCreateReadOnlySession, activityCreateReadOnlySession,
		organizationID, struct{}{}, s.stamper,
	)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ports.ErrNoCredential, err)
		}
		return nil, err
	}
	result := activity.Result.CreateReadOnlySessionResult
	if result == nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrUnavailable, ErrMissingResult)
	}

	var expiresAt int64
	if result.SessionExpiry != "" {
		if expiresAt, err = strconv.ParseInt(result.SessionExpiry, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid session expiry %q: %w", result.SessionExpiry, err)
		}
	}
	return &domain.ReadOnlySession{
		OrganizationID: result.OrganizationID,
		UserID:         result.UserID,
		Username:       result.Username,
		Token:          result.Session,
		ExpiresAt:      expiresAt,
	}, nil
}

func (s *keyService) ListWallets(
	ctx context.Context, session domain.ReadOnlySession,
) ([]ports.Wallet, error) {
	var res listWalletsResponse
	if err := s.query(
		ctx, pathListWallets, session.Token,
		listWalletsRequest{session.OrganizationID}, &res,
	); err != nil {
		return nil, err
	}

	wallets := make([]ports.Wallet, 0, len(res.Wallets))
	for _, w := range res.Wallets {
		wallets = append(wallets, ports.Wallet{ID: w.WalletID, Name: w.WalletName})
	}
	return wallets, nil
}

func (s *keyService) ListWalletAccounts(
	ctx context.Context, session domain.ReadOnlySession, walletID string,
) ([]ports.WalletAccount, error) {
	var res listWalletAccountsResponse
	if err := s.query(
		ctx, pathListWalletAccounts, session.Token,
		listWalletAccountsRequest{session.OrganizationID, walletID}, &res,
	); err != nil {
		return nil, err
	}

	accounts := make([]ports.WalletAccount, 0, len(res.Accounts))
	for _, a := range res.Accounts {
		accounts = append(accounts, ports.WalletAccount{
			OrganizationID: a.OrganizationID,
			WalletID:       a.WalletID,
			Address:        a.Address,
			Path:           a.Path,
		})
	}
	return accounts, nil
}

// SignRawPayload signs the given 32 bytes digest as is.
func (s *keyService) SignRawPayload(
	ctx context.Context, req ports.SignRawPayload,
) (*ports.RawSignature, error) {
	activity, err := s.submit(
		ctx, pathSignRawPayload, activitySignRawPayload, req.OrganizationID,
		signRawPayloadParams{
			SignWith:     req.SignWith,
			Payload:      hex.EncodeToString(req.Payload),
			Encoding:     encodingHexadecimal,
			HashFunction: hashFunctionNoOp,
		},
		s.stamper,
	)
	if err != nil {
		return nil, err
	}
	result := activity.Result.SignRawPayloadResult
	if result == nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrUnavailable, ErrMissingResult)
	}
	return parseSignature(*result)
}

func parseSignature(res signRawPayloadResult) (*ports.RawSignature, error) {
	r, err := decodeHex(res.R)
	if err != nil || len(r) == 0 || len(r) > 32 {
		return nil, fmt.Errorf("%w: invalid signature r", ports.ErrUnavailable)
	}
	s, err := decodeHex(res.S)
	if err != nil || len(s) == 0 || len(s) > 32 {
		return nil, fmt.Errorf("%w: invalid signature s", ports.ErrUnavailable)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(res.V, "0x"), 16, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid signature v", ports.ErrUnavailable)
	}
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return nil, fmt.Errorf("%w: invalid recovery id %d", ports.ErrUnavailable, v)
	}
	return &ports.RawSignature{R: r, S: s, V: byte(v)}, nil
}

func decodeHex(str string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(str, "0x"))
}
