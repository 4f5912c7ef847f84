package keyservice

import (
	"encoding/json"
	"fmt"
)

const (
	activityCreateReadOnlySession = "ACTIVITY_TYPE_CREATE_READ_ONLY_SESSION"
	activitySignRawPayload        = "ACTIVITY_TYPE_SIGN_RAW_PAYLOAD_V2"
	activityCreateSubOrganization = "ACTIVITY_TYPE_CREATE_SUB_ORGANIZATION_V7"

	statusCompleted = "ACTIVITY_STATUS_COMPLETED"
	statusFailed    = "ACTIVITY_STATUS_FAILED"
	statusRejected  = "ACTIVITY_STATUS_REJECTED"

	encodingHexadecimal = "PAYLOAD_ENCODING_HEXADECIMAL"
	hashFunctionNoOp    = "HASH_FUNCTION_NO_OP"

	curveSecp256k1        = "CURVE_SECP256K1"
	pathFormatBip32       = "PATH_FORMAT_BIP32"
	addressFormatEthereum = "ADDRESS_FORMAT_ETHEREUM"
	// DefaultDerivationPath is the path of the Ethereum account created
	// with every sub-organization wallet.
	DefaultDerivationPath = "m/44'/60'/0'/0/0"

	pathCreateReadOnlySession = "/public/v1/submit/create_read_only_session"
	pathSignRawPayload        = "/public/v1/submit/sign_raw_payload"
	pathCreateSubOrganization = "/public/v1/submit/create_sub_organization"
	pathListWallets           = "/public/v1/query/list_wallets"
	pathListWalletAccounts    = "/public/v1/query/list_wallet_accounts"
)

var transports = map[string]string{
	"internal": "AUTHENTICATOR_TRANSPORT_INTERNAL",
	"hybrid":   "AUTHENTICATOR_TRANSPORT_HYBRID",
	"usb":      "AUTHENTICATOR_TRANSPORT_USB",
	"nfc":      "AUTHENTICATOR_TRANSPORT_NFC",
	"ble":      "AUTHENTICATOR_TRANSPORT_BLE",
}

type activityRequest struct {
	Type           string      `json:"type"`
	TimestampMs    string      `json:"timestampMs"`
	OrganizationID string      `json:"organizationId"`
	Parameters     interface{} `json:"parameters"`
}

type activityResponse struct {
	Activity activity `json:"activity"`
}

type activity struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organizationId"`
	Status         string         `json:"status"`
	Type           string         `json:"type"`
	Result         activityResult `json:"result"`
	FailureMessage string         `json:"failure,omitempty"`
}

type activityResult struct {
	CreateReadOnlySessionResult   *readOnlySessionResult `json:"createReadOnlySessionResult,omitempty"`
	SignRawPayloadResult          *signRawPayloadResult  `json:"signRawPayloadResult,omitempty"`
	CreateSubOrganizationResultV7 *subOrganizationResult `json:"createSubOrganizationResultV7,omitempty"`
}

type readOnlySessionResult struct {
	OrganizationID   string `json:"organizationId"`
	OrganizationName string `json:"organizationName"`
	UserID           string `json:"userId"`
	Username         string `json:"username"`
	Session          string `json:"session"`
	SessionExpiry    string `json:"sessionExpiry"`
}

type signRawPayloadParams struct {
	SignWith     string `json:"signWith"`
	Payload      string `json:"payload"`
	Encoding     string `json:"encoding"`
	HashFunction string `json:"hashFunction"`
}

type signRawPayloadResult struct {
	R string `json:"r"`
	S string `json:"s"`
	V string `json:"v"`
}

type subOrganizationParams struct {
	SubOrganizationName string     `json:"subOrganizationName"`
	RootUsers           []rootUser `json:"rootUsers"`
	RootQuorumThreshold int        `json:"rootQuorumThreshold"`
	Wallet              walletParams `json:"wallet"`
}

type rootUser struct {
	UserName       string          `json:"userName"`
	APIKeys        []interface{}   `json:"apiKeys"`
	Authenticators []authenticator `json:"authenticators"`
	OauthProviders []interface{}   `json:"oauthProviders"`
}

type authenticator struct {
	AuthenticatorName string      `json:"authenticatorName"`
	Challenge         string      `json:"challenge"`
	Attestation       attestation `json:"attestation"`
}

type attestation struct {
	CredentialID      string   `json:"credentialId"`
	ClientDataJSON    string   `json:"clientDataJson"`
	AttestationObject string   `json:"attestationObject"`
	Transports        []string `json:"transports"`
}

type walletParams struct {
	WalletName string          `json:"walletName"`
	Accounts   []walletAccount `json:"accounts"`
}

type walletAccount struct {
	Curve         string `json:"curve"`
	PathFormat    string `json:"pathFormat"`
	Path          string `json:"path"`
	AddressFormat string `json:"addressFormat"`
}

type subOrganizationResult struct {
	SubOrganizationID string `json:"subOrganizationId"`
	Wallet            *struct {
		WalletID  string   `json:"walletId"`
		Addresses []string `json:"addresses"`
	} `json:"wallet"`
}

type listWalletsRequest struct {
	OrganizationID string `json:"organizationId"`
}

type listWalletsResponse struct {
	Wallets []struct {
		WalletID   string `json:"walletId"`
		WalletName string `json:"walletName"`
	} `json:"wallets"`
}

type listWalletAccountsRequest struct {
	OrganizationID string `json:"organizationId"`
	WalletID       string `json:"walletId"`
}

type listWalletAccountsResponse struct {
	Accounts []struct {
		OrganizationID string `json:"organizationId"`
		WalletID       string `json:"walletId"`
		Address        string `json:"address"`
		Path           string `json:"path"`
	} `json:"accounts"`
}

type errorResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (e errorResponse) String() string {
	if e.Message == "" {
		return fmt.Sprintf("code %d", e.Code)
	}
	return e.Message
}
