package abiCodec

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CoerceArgs converts loosely typed values, as they come out of encoding/json, into
// the Go types the go-ethereum packer expects for each argument.
func CoerceArgs(arguments abi.Arguments, args []any) ([]any, error) {
	if len(arguments) != len(args) {
		return nil, fmt.Errorf("invalid number of parameters: got %d, expected %d", len(args), len(arguments))
	}
	out := make([]any, len(args))
	for i, arg := range arguments {
		v, err := CoerceValue(arg.Type, args[i])
		if err != nil {
			name := arg.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("argument %s: %w", name, err)
		}
		out[i] = v
	}
	return out, nil
}

func CoerceValue(t abi.Type, v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("nil value for %s", t.String())
	}
	if reflect.TypeOf(v) == t.GetType() {
		return v, nil
	}

	switch t.T {
	case abi.AddressTy:
		return coerceAddress(v)
	case abi.IntTy, abi.UintTy:
		return coerceInteger(t, v)
	case abi.BoolTy:
		return coerceBool(v)
	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("cannot use %T as string", v)
		}
		return s, nil
	case abi.BytesTy:
		return coerceBytes(v)
	case abi.FixedBytesTy:
		b, err := coerceBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("%d bytes do not fit in bytes%d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy:
		items, err := asList(v)
		if err != nil {
			return nil, err
		}
		slice := reflect.MakeSlice(t.GetType(), len(items), len(items))
		if err := fillSequence(slice, *t.Elem, items); err != nil {
			return nil, err
		}
		return slice.Interface(), nil
	case abi.ArrayTy:
		items, err := asList(v)
		if err != nil {
			return nil, err
		}
		if len(items) != t.Size {
			return nil, fmt.Errorf("expected %d elements for %s, got %d", t.Size, t.String(), len(items))
		}
		arr := reflect.New(t.GetType()).Elem()
		if err := fillSequence(arr, *t.Elem, items); err != nil {
			return nil, err
		}
		return arr.Interface(), nil
	case abi.TupleTy:
		return coerceTuple(t, v)
	default:
		return nil, fmt.Errorf("unsupported argument type %s", t.String())
	}
}

func coerceAddress(v any) (common.Address, error) {
	s, ok := v.(string)
	if !ok {
		return common.Address{}, fmt.Errorf("cannot use %T as address", v)
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return new(big.Int).Set(n), nil
	case string:
		s := strings.TrimSpace(n)
		bi, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", n)
		}
		return bi, nil
	case json.Number:
		return toBigInt(n.String())
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return nil, fmt.Errorf("invalid integer %v", n)
		}
		bi, _ := big.NewFloat(n).Int(nil)
		return bi, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	default:
		return nil, fmt.Errorf("cannot use %T as integer", v)
	}
}

func coerceInteger(t abi.Type, v any) (any, error) {
	bi, err := toBigInt(v)
	if err != nil {
		return nil, err
	}

	if t.T == abi.UintTy {
		if bi.Sign() < 0 || bi.BitLen() > t.Size {
			return nil, fmt.Errorf("%s out of range for %s", bi.String(), t.String())
		}
	} else {
		// two's complement range [-2^(n-1), 2^(n-1)-1]
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if bi.Cmp(limit) >= 0 || bi.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s out of range for %s", bi.String(), t.String())
		}
	}

	target := t.GetType()
	switch target.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(bi.Uint64()).Convert(target).Interface(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(bi.Int64()).Convert(target).Interface(), nil
	default:
		return bi, nil
	}
}

func coerceBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("invalid bool %q", b)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("cannot use %T as bool", v)
	}
}

func coerceBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case hexutil.Bytes:
		return b, nil
	case string:
		decoded, err := hexutil.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("invalid hex bytes %q: %w", b, err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("cannot use %T as bytes", v)
	}
}

func asList(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("cannot use %T as list", v)
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

func fillSequence(dst reflect.Value, elemType abi.Type, items []any) error {
	for i, item := range items {
		coerced, err := CoerceValue(elemType, item)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		dst.Index(i).Set(reflect.ValueOf(coerced))
	}
	return nil
}

// coerceTuple accepts either a positional list or an object keyed by component name.
func coerceTuple(t abi.Type, v any) (any, error) {
	tuple := reflect.New(t.GetType()).Elem()

	var values []any
	switch tv := v.(type) {
	case map[string]any:
		values = make([]any, len(t.TupleElems))
		for i, name := range t.TupleRawNames {
			field, ok := tv[name]
			if !ok {
				return nil, fmt.Errorf("missing tuple component %q", name)
			}
			values[i] = field
		}
	default:
		items, err := asList(v)
		if err != nil {
			return nil, fmt.Errorf("cannot use %T as tuple", v)
		}
		if len(items) != len(t.TupleElems) {
			return nil, fmt.Errorf("expected %d tuple components, got %d", len(t.TupleElems), len(items))
		}
		values = items
	}

	for i, elem := range t.TupleElems {
		coerced, err := CoerceValue(*elem, values[i])
		if err != nil {
			return nil, fmt.Errorf("tuple component %d: %w", i, err)
		}
		tuple.Field(i).Set(reflect.ValueOf(coerced))
	}
	return tuple.Interface(), nil
}
