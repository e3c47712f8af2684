package abiCodec

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var ErrEmptyReturnData = errors.New("returned values aren't valid, did it run out of gas?")

// FindMethod resolves a method by name, by full signature ("balanceOf(address)") or by
// 4-byte selector. Overloads sharing a name prefer the one whose arity matches argCount;
// a negative argCount accepts any arity. The bool is false when nothing matches.
func FindMethod(parsed *abi.ABI, name string, argCount int) (abi.Method, bool) {
	if parsed == nil || name == "" {
		return abi.Method{}, false
	}

	// overloads are named foo, foo0, foo1 in declaration order
	keys := make([]string, 0, len(parsed.Methods))
	for k := range parsed.Methods {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})

	var candidates []abi.Method
	for _, k := range keys {
		m := parsed.Methods[k]
		if m.Sig == name || hexutil.Encode(m.ID) == name {
			return m, true
		}
		if m.RawName == name {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return abi.Method{}, false
	}
	if argCount >= 0 {
		for _, m := range candidates {
			if len(m.Inputs) == argCount {
				return m, true
			}
		}
	}
	return candidates[0], true
}

// EncodeCall returns selector followed by the packed, coerced arguments.
func EncodeCall(method abi.Method, args []any) (hexutil.Bytes, error) {
	coerced, err := CoerceArgs(method.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method.Sig, err)
	}
	packed, err := method.Inputs.Pack(coerced...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method.Sig, err)
	}
	data := make([]byte, 0, len(method.ID)+len(packed))
	data = append(data, method.ID...)
	data = append(data, packed...)
	return data, nil
}

// DecodeOutputs unpacks return data. A single output yields the value itself; several
// outputs yield a map keyed by position and, where present, by output name.
func DecodeOutputs(method abi.Method, data []byte) (any, error) {
	if len(method.Outputs) == 0 {
		return nil, nil
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", method.Sig, ErrEmptyReturnData)
	}

	values, err := method.Outputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", method.Sig, err)
	}
	if len(values) != len(method.Outputs) {
		return nil, fmt.Errorf("failed to decode %s: expected %d values, got %d", method.Sig, len(method.Outputs), len(values))
	}

	if len(values) == 1 {
		return FormatValue(method.Outputs[0].Type, values[0]), nil
	}

	out := make(map[string]any, len(values)*2)
	for i, output := range method.Outputs {
		formatted := FormatValue(output.Type, values[i])
		out[strconv.Itoa(i)] = formatted
		if output.Name != "" {
			out[output.Name] = formatted
		}
	}
	return out, nil
}

// FormatValue turns unpacked values into JSON friendly ones: integers become decimal
// strings, addresses checksummed hex, byte strings 0x-prefixed hex.
func FormatValue(t abi.Type, v any) any {
	if v == nil {
		return nil
	}
	switch t.T {
	case abi.IntTy, abi.UintTy:
		return fmt.Sprintf("%d", v)
	case abi.AddressTy:
		if addr, ok := v.(common.Address); ok {
			return addr.Hex()
		}
		return v
	case abi.BytesTy:
		if b, ok := v.([]byte); ok {
			return hexutil.Encode(b)
		}
		return v
	case abi.FixedBytesTy, abi.HashTy, abi.FunctionTy:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Array {
			return v
		}
		b := make([]byte, rv.Len())
		for i := range b {
			b[i] = byte(rv.Index(i).Uint())
		}
		return hexutil.Encode(b)
	case abi.SliceTy, abi.ArrayTy:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return v
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = FormatValue(*t.Elem, rv.Index(i).Interface())
		}
		return items
	case abi.TupleTy:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return v
		}
		out := make(map[string]any, len(t.TupleElems))
		for i, elem := range t.TupleElems {
			key := strconv.Itoa(i)
			if i < len(t.TupleRawNames) && t.TupleRawNames[i] != "" {
				key = t.TupleRawNames[i]
			}
			out[key] = FormatValue(*elem, rv.Field(i).Interface())
		}
		return out
	default:
		return v
	}
}
