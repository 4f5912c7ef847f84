package provisioner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/pkg/httputil"
)

// ErrMissingURL ...
var ErrMissingURL = errors.New("missing provisioner url")

type client struct {
	url  string
	http *httputil.Client
}

// NewClient returns a ports.Provisioner talking to the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) (ports.Provisioner, error) {
	if baseURL == "" {
		return nil, ErrMissingURL
	}
	return &client{
		url:  strings.TrimSuffix(baseURL, "/") + SubOrgPath,
		http: httputil.NewClient(timeout),
	}, nil
}

// CreateSubOrganization returns an error wrapping ports.ErrRejected for 4xx
// replies and ports.ErrUnavailable for anything else that is not a success.
func (c *client) CreateSubOrganization(
	ctx context.Context, req ports.ProvisionRequest,
) (*ports.ProvisionResult, error) {
	body, err := json.Marshal(NewSubOrgRequest(req))
	if err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	log.Debugf("provisioning request %s for %s", requestID, req.SubOrgName)

	status, resp, err := c.http.PostJSON(
		ctx, c.url, body, map[string]string{RequestIDHeader: requestID},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
	}

	if !httputil.IsSuccess(status) {
		var errResp ErrorResponse
		if err := json.Unmarshal(resp, &errResp); err != nil || errResp.Error == "" {
			errResp.Error = strings.TrimSpace(string(resp))
		}
		if httputil.IsClientError(status) {
			return nil, fmt.Errorf("%w: %d %s", ports.ErrRejected, status, errResp.Error)
		}
		return nil, fmt.Errorf("%w: %d %s", ports.ErrUnavailable, status, errResp.Error)
	}

	var res SubOrgResponse
	if err := json.Unmarshal(resp, &res); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %s", ports.ErrUnavailable, err)
	}
	result := res.ToPorts()
	return &result, nil
}
