package safe

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Canonical deployments of Safe v1.4.1 and of the Safe4337Module v0.2.0
// working with EntryPoint v0.6.
var (
	ProxyFactoryAddress      = common.HexToAddress("0x4e1DCf7AD4e460CfD30791CCC4F9c8a4f820ec67")
	SingletonAddress         = common.HexToAddress("0x41675C099F32341bf84BFc5382aF534df5C7461a")
	Module4337Address        = common.HexToAddress("0xa581c4A4DB7175302464fF3C06380BC3270b4037")
	AddModulesLibAddress     = common.HexToAddress("0x8EcD4ec46D4D2a6B64fE960B3D64e8B94B2234eb")
	MultiSendAddress         = common.HexToAddress("0x38869bf66a61cF6bDB996A6aE40D5853Fd43B526")
	MultiSendCallOnlyAddress = common.HexToAddress("0x9641d764fc13c8B624c04430C7356C1C7C8102e2")
)

// Operation is the kind of call performed by the account.
type Operation uint8

const (
	OperationCall Operation = iota
	OperationDelegateCall
)

const (
	safeABIJSON = `[
		{"type":"function","name":"setup","inputs":[
			{"name":"_owners","type":"address[]"},
			{"name":"_threshold","type":"uint256"},
			{"name":"to","type":"address"},
			{"name":"data","type":"bytes"},
			{"name":"fallbackHandler","type":"address"},
			{"name":"paymentToken","type":"address"},
			{"name":"payment","type":"uint256"},
			{"name":"paymentReceiver","type":"address"}],"outputs":[]}
	]`
	addModulesLibABIJSON = `[
		{"type":"function","name":"enableModules","inputs":[
			{"name":"modules","type":"address[]"}],"outputs":[]}
	]`
	proxyFactoryABIJSON = `[
		{"type":"function","name":"createProxyWithNonce","inputs":[
			{"name":"_singleton","type":"address"},
			{"name":"initializer","type":"bytes"},
			{"name":"saltNonce","type":"uint256"}],
		 "outputs":[{"name":"proxy","type":"address"}]},
		{"type":"function","name":"proxyCreationCode","stateMutability":"pure",
		 "inputs":[],"outputs":[{"name":"","type":"bytes"}]}
	]`
	moduleABIJSON = `[
		{"type":"function","name":"executeUserOp","inputs":[
			{"name":"to","type":"address"},
			{"name":"value","type":"uint256"},
			{"name":"data","type":"bytes"},
			{"name":"operation","type":"uint8"}],"outputs":[]}
	]`
	multiSendABIJSON = `[
		{"type":"function","name":"multiSend","inputs":[
			{"name":"transactions","type":"bytes"}],"outputs":[]}
	]`
)

var (
	safeABI          = mustParseABI(safeABIJSON)
	addModulesLibABI = mustParseABI(addModulesLibABIJSON)
	proxyFactoryABI  = mustParseABI(proxyFactoryABIJSON)
	moduleABI        = mustParseABI(moduleABIJSON)
	multiSendABI     = mustParseABI(multiSendABIJSON)
)

// PackProxyCreationCode returns the call data of the factory's
// proxyCreationCode() getter.
func PackProxyCreationCode() ([]byte, error) {
	return proxyFactoryABI.Pack("proxyCreationCode")
}

// UnpackProxyCreationCode decodes the return data of proxyCreationCode().
func UnpackProxyCreationCode(data []byte) ([]byte, error) {
	out, err := proxyFactoryABI.Unpack("proxyCreationCode", data)
	if err != nil {
		return nil, err
	}
	code, ok := out[0].([]byte)
	if !ok || len(code) == 0 {
		return nil, ErrMissingCreationCode
	}
	return code, nil
}

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
