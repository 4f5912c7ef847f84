package paymaster_test

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/paymaster"
	"github.com/tdex-network/passkey-wallet/pkg/circuitbreaker"
	"github.com/tdex-network/passkey-wallet/pkg/userop"
)

var ctx = context.Background()

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func newOperation() userop.UserOperation {
	return userop.UserOperation{
		Sender:               common.HexToAddress("0x5555555555555555555555555555555555555555"),
		Nonce:                big.NewInt(0),
		CallGasLimit:         big.NewInt(100000),
		VerificationGasLimit: big.NewInt(500000),
		PreVerificationGas:   big.NewInt(50000),
		MaxFeePerGas:         big.NewInt(3000000000),
		MaxPriorityFeePerGas: big.NewInt(1000000000),
	}
}

func TestSponsorUserOperation(t *testing.T) {
	var policy struct {
		SponsorshipPolicyID string `json:"sponsorshipPolicyId"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "pm_sponsorUserOperation", req.Method)
		require.Len(t, req.Params, 3)
		require.NoError(t, json.Unmarshal(req.Params[2], &policy))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]string{
				"paymasterAndData":     "0xaabbcc",
				"callGasLimit":         "0x11170",
				"verificationGasLimit": "0x493e0",
				"preVerificationGas":   "0xafc8",
			},
		}))
	}))
	defer srv.Close()

	svc, err := paymaster.NewService(ctx, srv.URL, userop.EntryPointV06)
	require.NoError(t, err)
	defer svc.Close()

	sponsorship, err := svc.SponsorUserOperation(ctx, newOperation(), "sp_test")
	require.NoError(t, err)
	require.Equal(t, "sp_test", policy.SponsorshipPolicyID)
	require.Equal(t, []byte{0xaa, 0xbb, 0xcc}, sponsorship.PaymasterAndData)
	require.Equal(t, big.NewInt(70000), sponsorship.CallGasLimit)
	require.Equal(t, big.NewInt(300000), sponsorship.VerificationGasLimit)
	require.Equal(t, big.NewInt(45000), sponsorship.PreVerificationGas)
	require.Nil(t, sponsorship.MaxFeePerGas)
	require.Nil(t, sponsorship.MaxPriorityFeePerGas)
}

func TestSponsorshipDenied(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32602, "message": "policy limit reached"},
		}))
	}))
	defer srv.Close()

	svc, err := paymaster.NewService(ctx, srv.URL, userop.EntryPointV06)
	require.NoError(t, err)
	defer svc.Close()

	// Refusals never trip the breaker.
	for i := 0; i < circuitbreaker.MaxNumOfFailingRequests+5; i++ {
		_, err := svc.SponsorUserOperation(ctx, newOperation(), "sp_test")
		require.ErrorIs(t, err, ports.ErrRejected)
	}
	require.Equal(t, int32(circuitbreaker.MaxNumOfFailingRequests+5), atomic.LoadInt32(&calls))
}

func TestPaymasterDownTripsBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc, err := paymaster.NewService(ctx, srv.URL, userop.EntryPointV06)
	require.NoError(t, err)
	defer svc.Close()

	attempts := circuitbreaker.MaxNumOfFailingRequests + 5
	for i := 0; i < attempts; i++ {
		_, err := svc.SponsorUserOperation(ctx, newOperation(), "sp_test")
		require.ErrorIs(t, err, ports.ErrUnavailable)
	}
	require.Less(t, int(atomic.LoadInt32(&calls)), attempts)
}
