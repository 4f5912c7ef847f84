package provisioner

import (
	"encoding/base64"
	"fmt"

	"github.com/tdex-network/passkey-wallet/internal/core/ports"
)

// SubOrgPath is the path of the sub-organization endpoint of the backend.
const SubOrgPath = "/api/sub-org"

// RequestIDHeader carries the id of a provisioning request, echoed by the
// backend in its logs.
const RequestIDHeader = "X-Request-Id"

// SubOrgRequest is the body of a provisioning request. Binary fields are
// base64url encoded without padding.
type SubOrgRequest struct {
	SubOrgName  string      `json:"subOrgName"`
	Challenge   string      `json:"challenge"`
	Attestation Attestation `json:"attestation"`
}

type Attestation struct {
	CredentialID      string   `json:"credentialId"`
	ClientDataJSON    string   `json:"clientDataJson"`
	AttestationObject string   `json:"attestationObject"`
	Transports        []string `json:"transports"`
}

type SubOrgResponse struct {
	Address  string `json:"address"`
	SubOrgID string `json:"subOrgId"`
	ID       string `json:"id"`
}

// ErrorResponse is returned by the backend with any non 2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewSubOrgRequest(req ports.ProvisionRequest) SubOrgRequest {
	transports := req.Attestation.Transports
	if transports == nil {
		transports = []string{}
	}
	return SubOrgRequest{
		SubOrgName: req.SubOrgName,
		Challenge:  req.Challenge,
		Attestation: Attestation{
			CredentialID:      encode(req.Attestation.CredentialID),
			ClientDataJSON:    encode(req.Attestation.ClientDataJSON),
			AttestationObject: encode(req.Attestation.AttestationObject),
			Transports:        transports,
		},
	}
}

func (r SubOrgRequest) ToPorts() (ports.ProvisionRequest, error) {
	credentialID, err := decode(r.Attestation.CredentialID)
	if err != nil {
		return ports.ProvisionRequest{}, fmt.Errorf("invalid credential id: %w", err)
	}
	clientData, err := decode(r.Attestation.ClientDataJSON)
	if err != nil {
		return ports.ProvisionRequest{}, fmt.Errorf("invalid client data: %w", err)
	}
	attestationObject, err := decode(r.Attestation.AttestationObject)
	if err != nil {
		return ports.ProvisionRequest{}, fmt.Errorf("invalid attestation object: %w", err)
	}
	return ports.ProvisionRequest{
		SubOrgName: r.SubOrgName,
		Challenge:  r.Challenge,
		Attestation: ports.Attestation{
			CredentialID:      credentialID,
			ClientDataJSON:    clientData,
			AttestationObject: attestationObject,
			Transports:        r.Attestation.Transports,
		},
	}, nil
}

func NewSubOrgResponse(res ports.ProvisionResult) SubOrgResponse {
	return SubOrgResponse{res.Address, res.SubOrgID, res.ID}
}

func (r SubOrgResponse) ToPorts() ports.ProvisionResult {
	return ports.ProvisionResult{Address: r.Address, SubOrgID: r.SubOrgID, ID: r.ID}
}

func encode(buf []byte) string {
	return base64.RawURLEncoding.EncodeToString(buf)
}

func decode(str string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(str)
}
