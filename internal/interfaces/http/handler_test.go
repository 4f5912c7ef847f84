package httpinterface_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/core/ports"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/provisioner"
	httpinterface "github.com/tdex-network/passkey-wallet/internal/interfaces/http"
)

var (
	ctx     = context.Background()
	address = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	request = ports.ProvisionRequest{
		SubOrgName: "alice",
		Challenge:  "Y2hhbGxlbmdl",
		Attestation: ports.Attestation{
			CredentialID:      []byte{1, 2, 3},
			ClientDataJSON:    []byte(`{"type":"webauthn.create"}`),
			AttestationObject: []byte{0xa3},
			Transports:        []string{"internal"},
		},
	}
)

type mockSubOrganizationCreator struct {
	mock.Mock
}

func (m *mockSubOrganizationCreator) CreateSubOrganization(
	ctx context.Context, req ports.SubOrganization,
) (*ports.SubOrganizationResult, error) {
	args := m.Called(ctx, req)
	var res *ports.SubOrganizationResult
	if a := args.Get(0); a != nil {
		res = a.(*ports.SubOrganizationResult)
	}
	return res, args.Error(1)
}

func newBackend(t *testing.T, creator ports.SubOrganizationCreator) ports.Provisioner {
	srv := httptest.NewServer(
		httpinterface.NewRouter(application.NewProvisioningService(creator), 0),
	)
	t.Cleanup(srv.Close)

	client, err := provisioner.NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	return client
}

func TestCreateSubOrg(t *testing.T) {
	creator := &mockSubOrganizationCreator{}
	creator.On("CreateSubOrganization", mock.Anything, mock.MatchedBy(
		func(req ports.SubOrganization) bool {
			return req.Name == "alice" && req.Challenge == request.Challenge &&
				string(req.Attestation.CredentialID) == string(request.Attestation.CredentialID)
		},
	)).Return(&ports.SubOrganizationResult{
		SubOrganizationID: "sub-org-id",
		WalletID:          "wallet-id",
		Addresses:         []string{address},
	}, nil)

	result, err := newBackend(t, creator).CreateSubOrganization(ctx, request)
	require.NoError(t, err)
	require.Equal(t, &ports.ProvisionResult{
		Address: address, SubOrgID: "sub-org-id", ID: "wallet-id",
	}, result)
	creator.AssertExpectations(t)
}

func TestFailingCreateSubOrg(t *testing.T) {
	tests := []struct {
		name          string
		result        *ports.SubOrganizationResult
		err           error
		expectedError error
	}{
		{
			name:          "with_rejected_attestation",
			err:           fmt.Errorf("%w: activity failed", ports.ErrRejected),
			expectedError: ports.ErrRejected,
		},
		{
			name:          "with_key_service_down",
			err:           fmt.Errorf("%w: 503", ports.ErrUnavailable),
			expectedError: ports.ErrUnavailable,
		},
		{
			name: "with_invalid_wallet_address",
			result: &ports.SubOrganizationResult{
				SubOrganizationID: "sub-org-id", WalletID: "wallet-id", Addresses: []string{"0xabc"},
			},
			expectedError: ports.ErrUnavailable,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			creator := &mockSubOrganizationCreator{}
			creator.On("CreateSubOrganization", mock.Anything, mock.Anything).
				Return(tt.result, tt.err)

			result, err := newBackend(t, creator).CreateSubOrganization(ctx, request)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, result)
		})
	}
}

func TestCreateSubOrgStatusCodes(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		err            error
		expectedStatus int
	}{
		{
			name:           "with_malformed_body",
			body:           "{",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "with_invalid_encoding",
			body:           `{"subOrgName":"alice","challenge":"c","attestation":{"credentialId":"!!"}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "with_missing_attestation",
			body:           `{"subOrgName":"alice","challenge":"c"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "with_rejected_attestation",
			body:           `{"subOrgName":"alice","challenge":"c","attestation":{"credentialId":"AQ","clientDataJson":"AQ","attestationObject":"AQ"}}`,
			err:            ports.ErrRejected,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "with_key_service_down",
			body:           `{"subOrgName":"alice","challenge":"c","attestation":{"credentialId":"AQ","clientDataJson":"AQ","attestationObject":"AQ"}}`,
			err:            ports.ErrUnavailable,
			expectedStatus: http.StatusBadGateway,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			creator := &mockSubOrganizationCreator{}
			creator.On("CreateSubOrganization", mock.Anything, mock.Anything).
				Return(nil, tt.err)
			router := httpinterface.NewRouter(application.NewProvisioningService(creator), 0)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, provisioner.SubOrgPath, strings.NewReader(tt.body))
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			require.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestHealth(t *testing.T) {
	router := httpinterface.NewRouter(
		application.NewProvisioningService(&mockSubOrganizationCreator{}), 0,
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, provisioner.SubOrgPath, nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetrics(t *testing.T) {
	creator := &mockSubOrganizationCreator{}
	creator.On("CreateSubOrganization", mock.Anything, mock.Anything).
		Return(nil, ports.ErrUnavailable)
	router := httpinterface.NewRouter(application.NewProvisioningService(creator), 5)

	body := `{"subOrgName":"alice","challenge":"c","attestation":{"credentialId":"AQ","clientDataJson":"AQ","attestationObject":"AQ"}}`
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, provisioner.SubOrgPath, strings.NewReader(body))
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadGateway, rec.Code)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(
		t, rec.Body.String(),
		fmt.Sprintf(`pkw_provisioner_http_requests_total{code="502",route="%s"} 2`, provisioner.SubOrgPath),
	)
	require.Contains(t, rec.Body.String(), "pkw_provisioner_http_request_duration_seconds_bucket")
}
