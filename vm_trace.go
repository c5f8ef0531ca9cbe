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
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DefaultMaxVMTraceDepth caps the call nesting a VM trace decoder will
// follow. 1024 is the EVM call-stack limit, so a deeper payload cannot
// come from a real execution.
const DefaultMaxVMTraceDepth = 1024

// VMTrace records the full instruction-level trace of one call frame.
// Sub-executions entered through CALL/CREATE hang off the operation that
// performed them, so the structure is a tree owned root to leaf.
type VMTrace struct {
	Code hexutil.Bytes `json:"code"`
	Ops  []VMOperation `json:"ops"`
}

// VMOperation is the execution record of a single instruction. Ex is nil
// when the instruction was never actually executed (out-of-gas or revert
// short-circuit); Sub is the nested trace of a CALL/CREATE, nil for
// every other instruction.
type VMOperation struct {
	Pc   uint64               `json:"pc"`
	Cost uint64               `json:"cost"`
	Ex   *VMExecutedOperation `json:"ex"`
	Sub  *VMTrace             `json:"sub"`
}

// VMExecutedOperation holds the effects of one executed instruction.
type VMExecutedOperation struct {
	Used  uint64         `json:"used"`
	Push  []hexutil.U256 `json:"push"`
	Mem   *MemoryDiff    `json:"mem"`
	Store *StorageDiff   `json:"store"`
}

// MemoryDiff is a chunk of memory replaced at Off.
type MemoryDiff struct {
	Off  uint64        `json:"off"`
	Data hexutil.Bytes `json:"data"`
}

// StorageDiff is a storage slot written by the instruction.
type StorageDiff struct {
	Key hexutil.U256 `json:"key"`
	Val hexutil.U256 `json:"val"`
}

func (vt VMTrace) MarshalJSON() ([]byte, error) {
	type shadow VMTrace
	s := shadow(vt)
	if s.Ops == nil {
		s.Ops = []VMOperation{}
	}
	return jsonCfg.Marshal(s)
}

func (ex VMExecutedOperation) MarshalJSON() ([]byte, error) {
	type shadow VMExecutedOperation
	s := shadow(ex)
	if s.Push == nil {
		s.Push = []hexutil.U256{}
	}
	return jsonCfg.Marshal(s)
}

// UnmarshalVMTrace decodes a VM trace, failing with a *DepthError when
// the call nesting goes beyond maxDepth; a trace nested exactly maxDepth
// levels deep still decodes. maxDepth <= 0 selects
// DefaultMaxVMTraceDepth. The recursion point is the one place
// attacker-controlled nesting enters the package, hence the guard.
func UnmarshalVMTrace(input []byte, maxDepth int) (*VMTrace, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxVMTraceDepth
	}
	vt := new(VMTrace)
	if err := vt.decode(input, "", 1, maxDepth); err != nil {
		return nil, err
	}
	return vt, nil
}

func (vt *VMTrace) UnmarshalJSON(input []byte) error {
	return vt.decode(input, "", 1, DefaultMaxVMTraceDepth)
}

// The VM trace family decodes permissively: the producer zero-fills
// fields it has no telemetry for, so absence means the type-appropriate
// zero, not a schema violation.
func (vt *VMTrace) decode(input []byte, path string, depth, maxDepth int) error {
	if depth > maxDepth {
		return &DepthError{Path: path, Limit: maxDepth}
	}
	var raw struct {
		Code hexutil.Bytes     `json:"code"`
		Ops  []json.RawMessage `json:"ops"`
	}
	if err := jsonCfg.Unmarshal(input, &raw); err != nil {
		return schemaErr(path, "malformed vm trace: %v", err)
	}
	vt.Code = raw.Code
	vt.Ops = make([]VMOperation, len(raw.Ops))
	opsPath := fieldPath(path, "ops")
	for i, r := range raw.Ops {
		if err := vt.Ops[i].decode(r, indexPath(opsPath, i), depth, maxDepth); err != nil {
			return err
		}
	}
	return nil
}

func (op *VMOperation) decode(input []byte, path string, depth, maxDepth int) error {
	var raw struct {
		Pc   uint64          `json:"pc"`
		Cost uint64          `json:"cost"`
		Ex   json.RawMessage `json:"ex"`
		Sub  json.RawMessage `json:"sub"`
	}
	if err := jsonCfg.Unmarshal(input, &raw); err != nil {
		return schemaErr(path, "malformed vm operation: %v", err)
	}
	op.Pc = raw.Pc
	op.Cost = raw.Cost
	op.Ex = nil
	op.Sub = nil
	if raw.Ex != nil && !isJSONNull(raw.Ex) {
		ex := new(VMExecutedOperation)
		if err := ex.decode(raw.Ex, fieldPath(path, "ex")); err != nil {
			return err
		}
		op.Ex = ex
	}
	if raw.Sub != nil && !isJSONNull(raw.Sub) {
		sub := new(VMTrace)
		if err := sub.decode(raw.Sub, fieldPath(path, "sub"), depth+1, maxDepth); err != nil {
			return err
		}
		op.Sub = sub
	}
	return nil
}

func (ex *VMExecutedOperation) decode(input []byte, path string) error {
	type shadow VMExecutedOperation
	var s shadow
	if err := jsonCfg.Unmarshal(input, &s); err != nil {
		return schemaErr(path, "malformed executed operation: %v", err)
	}
	if s.Push == nil {
		s.Push = []hexutil.U256{}
	}
	*ex = VMExecutedOperation(s)
	return nil
}
