package keyservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/pkg/circuitbreaker"
	"github.com/tdex-network/passkey-wallet/pkg/httputil"
)

// statusError is a non 2xx response of the key service.
type statusError struct {
	status int
	resp   errorResponse
}

func (e *statusError) Error() string {
	return fmt.Sprintf("key service replied %d: %s", e.status, e.resp)
}

type client struct {
	baseURL string
	http    *httputil.Client
	cb      *gobreaker.CircuitBreaker
	now     func() time.Time
}

func newClient(baseURL string, timeout time.Duration) (*client, error) {
	if baseURL == "" {
		return nil, ErrMissingURL
	}
	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httputil.NewClient(timeout),
		cb:      circuitbreaker.NewCircuitBreaker("key service"),
		now:     time.Now,
	}, nil
}

// submit stamps and posts an activity and returns it once completed.
func (c *client) submit(
	ctx context.Context,
	path, activityType, organizationID string,
	params interface{},
	stamper Stamper,
) (*activity, error) {
	body, err := json.Marshal(activityRequest{
		Type:           activityType,
		TimestampMs:    strconv.FormatInt(c.now().UnixMilli(), 10),
		OrganizationID: organizationID,
		Parameters:     params,
	})
	if err != nil {
		return nil, err
	}

	header, stamp, err := stamper.Stamp(ctx, body)
	if err != nil {
		return nil, err
	}

	var res activityResponse
	if err := c.post(ctx, path, body, map[string]string{header: stamp}, &res); err != nil {
		return nil, err
	}

	switch res.Activity.Status {
	case statusCompleted:
		log.Debugf("activity %s completed", res.Activity.ID)
		return &res.Activity, nil
	case statusFailed, statusRejected:
		return nil, fmt.Errorf(
			"%w: activity %s %s %s", ports.ErrRejected,
			res.Activity.ID, res.Activity.Status, res.Activity.FailureMessage,
		)
	default:
		return nil, fmt.Errorf(
			"%w: activity %s is %s", ports.ErrUnavailable, res.Activity.ID, res.Activity.Status,
		)
	}
}

// query posts a read request authenticated with a read-only session.
func (c *client) query(
	ctx context.Context, path, sessionToken string, req, res interface{},
) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return c.post(ctx, path, body, map[string]string{headerSession: sessionToken}, res)
}

// post sends the body through the circuit breaker. Only transport failures
// and 5xx replies count as breaker failures.
func (c *client) post(
	ctx context.Context, path string, body []byte, header map[string]string, res interface{},
) error {
	url := c.baseURL + path
	out, err := c.cb.Execute(func() (interface{}, error) {
		status, resp, err := c.http.PostJSON(ctx, url, body, header)
		if err != nil {
			return nil, err
		}
		if httputil.IsSuccess(status) {
			return resp, nil
		}

		sErr := &statusError{status: status}
		if err := json.Unmarshal(resp, &sErr.resp); err != nil {
			sErr.resp.Message = string(resp)
		}
		if httputil.IsClientError(status) {
			return sErr, nil
		}
		return nil, sErr
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
	}

	switch v := out.(type) {
	case *statusError:
		return fmt.Errorf("%w: %w", ports.ErrRejected, v)
	case []byte:
		if err := json.Unmarshal(v, res); err != nil {
			return fmt.Errorf("%w: malformed response: %s", ports.ErrUnavailable, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unexpected response", ports.ErrUnavailable)
	}
}

func isNotFound(err error) bool {
	var sErr *statusError
	if !errors.As(err, &sErr) {
		return false
	}
	return sErr.status == http.StatusUnauthorized || sErr.status == http.StatusNotFound
}
