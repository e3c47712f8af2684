package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	AbiFieldType_Function    = "function"
	AbiFieldType_Constructor = "constructor"
	AbiFieldType_Event       = "event"
	AbiFieldType_Error       = "error"
	AbiFieldType_Fallback    = "fallback"
	AbiFieldType_Receive     = "receive"

	StateMutability_View = "view"
)

type AbiParam struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	InternalType string     `json:"internalType,omitempty"`
	Indexed      bool       `json:"indexed,omitempty"`
	Components   []AbiParam `json:"components,omitempty"`
}

// AbiField is a single entry of a contract ABI as published by solc and block explorers.
type AbiField struct {
	Type            string     `json:"type,omitempty"`
	Name            string     `json:"name,omitempty"`
	Inputs          []AbiParam `json:"inputs,omitempty"`
	Outputs         []AbiParam `json:"outputs,omitempty"`
	StateMutability string     `json:"stateMutability,omitempty"`
	Anonymous       bool       `json:"anonymous,omitempty"`
	Constant        bool       `json:"constant,omitempty"`
	Payable         bool       `json:"payable,omitempty"`
}

// Abi keeps fields in declaration order, which go-ethereum's parsed ABI does not.
type Abi []AbiField

func ParseAbi(data []byte) (Abi, error) {
	var a Abi
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode abi: %w", err)
	}
	return a, nil
}

// Hash is the keccak256 of the canonical JSON encoding, so identical ABI bodies share a hash.
func (a Abi) Hash() (common.Hash, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode abi: %w", err)
	}
	return crypto.Keccak256Hash(data), nil
}

// ReadableFields lists the zero-input view functions with at least one output.
func (a Abi) ReadableFields() []string {
	fields := make([]string, 0)
	for _, f := range a {
		if len(f.Inputs) == 0 && len(f.Outputs) > 0 && f.Name != "" && f.StateMutability == StateMutability_View {
			fields = append(fields, f.Name)
		}
	}
	return fields
}

func (a Abi) ToGethAbi() (*abi.ABI, error) {
	// explorers still serve pre-0.5 ABIs where the type key is optional
	fields := make(Abi, len(a))
	for i, f := range a {
		if f.Type == "" {
			f.Type = AbiFieldType_Function
		}
		fields[i] = f
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode abi: %w", err)
	}
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	return &parsed, nil
}
