package ports

import "context"

// Provisioner is the backend creating the custody sub-organization for a
// new passkey.
type Provisioner interface {
	CreateSubOrganization(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error)
}

type ProvisionRequest struct {
	SubOrgName  string
	Challenge   string
	Attestation Attestation
}

type ProvisionResult struct {
	Address  string
	SubOrgID string
	ID       string
}
