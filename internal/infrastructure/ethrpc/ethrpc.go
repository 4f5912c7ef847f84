// Package ethrpc holds the helpers shared by the JSON-RPC adapters.
package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// Dial connects to the given JSON-RPC endpoint.
func Dial(ctx context.Context, url string) (*rpc.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("missing rpc endpoint")
	}
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return client, nil
}

// ClassifyError maps a JSON-RPC failure to ports.ErrRejected if the remote
// refused the request, to ports.ErrUnavailable otherwise.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500 {
			return fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
		}
		return fmt.Errorf("%w: %w", ports.ErrRejected, err)
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%w: %w", ports.ErrRejected, err)
	}
	return fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
}
