// Copyright 2026 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package paritytrace

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// U256 converts a uint256.Int into its wire representation.
func U256(v *uint256.Int) hexutil.U256 {
	if v == nil {
		return hexutil.U256{}
	}
	return hexutil.U256(*v)
}

// AccountDiff describes how one account changed across the traced
// execution: balance, nonce, code and every touched storage slot.
type AccountDiff struct {
	Balance Diff[hexutil.U256]
	Nonce   Diff[hexutil.U256]
	Code    Diff[hexutil.Bytes]
	Storage map[common.Hash]Diff[common.Hash]
}

// StateDiff aggregates per-account diffs, keyed by address. Encoding is
// deterministic: addresses are written in ascending byte order, and so
// are the storage keys inside each account, regardless of how the maps
// were populated.
type StateDiff map[common.Address]AccountDiff

func (a AccountDiff) MarshalJSON() ([]byte, error) {
	balance, err := jsonCfg.Marshal(a.Balance)
	if err != nil {
		return nil, err
	}
	nonce, err := jsonCfg.Marshal(a.Nonce)
	if err != nil {
		return nil, err
	}
	code, err := jsonCfg.Marshal(a.Code)
	if err != nil {
		return nil, err
	}

	stream := jsonCfg.BorrowStream(nil)
	defer jsonCfg.ReturnStream(stream)
	stream.WriteObjectStart()
	stream.WriteObjectField("balance")
	stream.WriteRaw(string(balance))
	stream.WriteMore()
	stream.WriteObjectField("nonce")
	stream.WriteRaw(string(nonce))
	stream.WriteMore()
	stream.WriteObjectField("code")
	stream.WriteRaw(string(code))
	stream.WriteMore()
	stream.WriteObjectField("storage")
	stream.WriteObjectStart()
	keys := make([]common.Hash, 0, len(a.Storage))
	for k := range a.Storage {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	for i, k := range keys {
		if i > 0 {
			stream.WriteMore()
		}
		val, err := jsonCfg.Marshal(a.Storage[k])
		if err != nil {
			return nil, err
		}
		stream.WriteObjectField(hexutil.Encode(k[:]))
		stream.WriteRaw(string(val))
	}
	stream.WriteObjectEnd()
	stream.WriteObjectEnd()
	return finishStream(stream)
}

func (a *AccountDiff) UnmarshalJSON(input []byte) error {
	return a.decode(input, "")
}

func (a *AccountDiff) decode(input []byte, path string) error {
	var raw struct {
		Balance json.RawMessage `json:"balance"`
		Nonce   json.RawMessage `json:"nonce"`
		Code    json.RawMessage `json:"code"`
		Storage json.RawMessage `json:"storage"`
	}
	if err := jsonCfg.Unmarshal(input, &raw); err != nil {
		return schemaErr(path, "malformed account diff: %v", err)
	}
	for field, payload := range map[string]json.RawMessage{
		"balance": raw.Balance,
		"nonce":   raw.Nonce,
		"code":    raw.Code,
		"storage": raw.Storage,
	} {
		if payload == nil {
			return schemaErr(path, "missing required field %q", field)
		}
	}
	if err := a.Balance.decode(raw.Balance, fieldPath(path, "balance")); err != nil {
		return err
	}
	if err := a.Nonce.decode(raw.Nonce, fieldPath(path, "nonce")); err != nil {
		return err
	}
	if err := a.Code.decode(raw.Code, fieldPath(path, "code")); err != nil {
		return err
	}

	var storage map[string]json.RawMessage
	if err := jsonCfg.Unmarshal(raw.Storage, &storage); err != nil {
		return schemaErr(fieldPath(path, "storage"), "malformed storage map: %v", err)
	}
	a.Storage = make(map[common.Hash]Diff[common.Hash], len(storage))
	for key, payload := range storage {
		keyPath := fieldPath(fieldPath(path, "storage"), key)
		b, err := hexutil.Decode(key)
		if err != nil {
			return schemaErr(keyPath, "malformed storage key: %v", err)
		}
		if len(b) != common.HashLength {
			return schemaErr(keyPath, "storage key must be %d bytes, got %d", common.HashLength, len(b))
		}
		var d Diff[common.Hash]
		if err := d.decode(payload, keyPath); err != nil {
			return err
		}
		a.Storage[common.BytesToHash(b)] = d
	}
	return nil
}

func (sd StateDiff) MarshalJSON() ([]byte, error) {
	addrs := make([]common.Address, 0, len(sd))
	for addr := range sd {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})

	stream := jsonCfg.BorrowStream(nil)
	defer jsonCfg.ReturnStream(stream)
	stream.WriteObjectStart()
	for i, addr := range addrs {
		if i > 0 {
			stream.WriteMore()
		}
		acc, err := jsonCfg.Marshal(sd[addr])
		if err != nil {
			return nil, err
		}
		stream.WriteObjectField(hexutil.Encode(addr[:]))
		stream.WriteRaw(string(acc))
	}
	stream.WriteObjectEnd()
	return finishStream(stream)
}

func (sd *StateDiff) UnmarshalJSON(input []byte) error {
	return sd.decode(input, "")
}

func (sd *StateDiff) decode(input []byte, path string) error {
	var raw map[string]json.RawMessage
	if err := jsonCfg.Unmarshal(input, &raw); err != nil {
		return schemaErr(path, "malformed state diff: %v", err)
	}
	out := make(StateDiff, len(raw))
	for key, payload := range raw {
		keyPath := fieldPath(path, key)
		b, err := hexutil.Decode(key)
		if err != nil {
			return schemaErr(keyPath, "malformed address key: %v", err)
		}
		if len(b) != common.AddressLength {
			return schemaErr(keyPath, "address key must be %d bytes, got %d", common.AddressLength, len(b))
		}
		var acc AccountDiff
		if err := acc.decode(payload, keyPath); err != nil {
			return err
		}
		out[common.BytesToAddress(b)] = acc
	}
	*sd = out
	return nil
}
