package batchCall

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/batch-call/pkg/contracts"
)

const (
	DefaultNamespace = "default"

	reservedAddressKey = "address"
)

// ContractRequest targets every listed address with the same ABI and method list.
type ContractRequest struct {
	// Abi, when set, replaces whatever is cached for the addresses
	Abi        contracts.Abi `json:"abi,omitempty"`
	Addresses  []string      `json:"addresses"`
	Namespace  string        `json:"namespace,omitempty"`
	Methods    []MethodSpec  `json:"methods,omitempty"`
	AllMethods bool          `json:"allMethods,omitempty"`
}

func (c *ContractRequest) namespace() string {
	if c.Namespace == "" {
		return DefaultNamespace
	}
	return c.Namespace
}

// MethodSpec names a method and its arguments. Nil Args is a zero-argument call; a non-nil
// Args, even empty, records the encoded input with the result.
type MethodSpec struct {
	Name string `json:"name"`
	Args []any  `json:"args,omitempty"`
}

// RawCallResult is the outcome of one successful call before aggregation.
type RawCallResult struct {
	Method string
	Value  any
	Input  string
	Args   []any
}

type addressCalls struct {
	address   string
	namespace string
	// nil entries stand for methods missing from the address's ABI
	state []*RawCallResult
}

type MethodResult struct {
	Value any
	Input string
	Args  []any
}

func (m MethodResult) MarshalJSON() ([]byte, error) {
	out := map[string]any{"value": m.Value}
	if m.Input != "" {
		out["input"] = m.Input
	}
	if m.Args != nil {
		out["args"] = m.Args
	}
	return json.Marshal(out)
}

// AddressRecord holds every method result for one address. It encodes as a flat object
// with the address next to one key per method.
type AddressRecord struct {
	Address string
	Methods map[string][]MethodResult

	methodOrder []string
}

func newAddressRecord(address string) *AddressRecord {
	return &AddressRecord{
		Address: address,
		Methods: make(map[string][]MethodResult),
	}
}

func (r *AddressRecord) setMethod(method string, results []MethodResult) {
	if _, ok := r.Methods[method]; !ok {
		r.methodOrder = append(r.methodOrder, method)
	}
	r.Methods[method] = results
}

// MethodNames returns method keys in the order they were first produced.
func (r *AddressRecord) MethodNames() []string {
	out := make([]string, len(r.methodOrder))
	copy(out, r.methodOrder)
	return out
}

func (r *AddressRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	addr, err := json.Marshal(r.Address)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"address":`)
	buf.Write(addr)

	for _, method := range r.methodOrder {
		if method == reservedAddressKey {
			continue
		}
		key, err := json.Marshal(method)
		if err != nil {
			return nil, err
		}
		results, err := json.Marshal(r.Methods[method])
		if err != nil {
			return nil, fmt.Errorf("failed to encode results of %s: %w", method, err)
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(results)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Result maps namespace to the address records produced under it.
type Result map[string][]*AddressRecord

// Response is what Execute resolves to: either a result or the message of the first
// failed call.
type Response struct {
	Result Result
	Error  string
}

func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	if r.Result == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Result)
}
