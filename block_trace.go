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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockTrace is the envelope of one replayed call or transaction: the
// call output plus whichever of the three trace views the producer
// populated. The decoder reflects what is present on the wire, it does
// not check presence against the requested trace types.
//
// TransactionHash is set only when the envelope is one element of a
// block-level batch. Absent wire fields stay nil in memory and nil
// fields are omitted on re-encode, so absence round-trips.
type BlockTrace struct {
	Output          hexutil.Bytes     `json:"output"`
	Trace           TransactionTraces `json:"trace,omitempty"`
	VMTrace         *VMTrace          `json:"vmTrace,omitempty"`
	StateDiff       StateDiff         `json:"stateDiff,omitempty"`
	TransactionHash *common.Hash      `json:"transactionHash,omitempty"`
}

func (bt BlockTrace) MarshalJSON() ([]byte, error) {
	stream := jsonCfg.BorrowStream(nil)
	defer jsonCfg.ReturnStream(stream)
	stream.WriteObjectStart()
	stream.WriteObjectField("output")
	stream.WriteVal(bt.Output)
	// nil means the view is absent; an empty but present view still
	// encodes, so present-and-empty round-trips too.
	if bt.Trace != nil {
		stream.WriteMore()
		stream.WriteObjectField("trace")
		traces, err := jsonCfg.Marshal(bt.Trace)
		if err != nil {
			return nil, err
		}
		stream.WriteRaw(string(traces))
	}
	if bt.VMTrace != nil {
		stream.WriteMore()
		stream.WriteObjectField("vmTrace")
		vm, err := jsonCfg.Marshal(bt.VMTrace)
		if err != nil {
			return nil, err
		}
		stream.WriteRaw(string(vm))
	}
	if bt.StateDiff != nil {
		stream.WriteMore()
		stream.WriteObjectField("stateDiff")
		sd, err := jsonCfg.Marshal(bt.StateDiff)
		if err != nil {
			return nil, err
		}
		stream.WriteRaw(string(sd))
	}
	if bt.TransactionHash != nil {
		stream.WriteMore()
		stream.WriteObjectField("transactionHash")
		stream.WriteString(hexutil.Encode(bt.TransactionHash[:]))
	}
	stream.WriteObjectEnd()
	return finishStream(stream)
}

func (bt *BlockTrace) UnmarshalJSON(input []byte) error {
	return bt.decode(input, "")
}

func (bt *BlockTrace) decode(input []byte, path string) error {
	var raw struct {
		Output          json.RawMessage `json:"output"`
		Trace           json.RawMessage `json:"trace"`
		VMTrace         json.RawMessage `json:"vmTrace"`
		StateDiff       json.RawMessage `json:"stateDiff"`
		TransactionHash json.RawMessage `json:"transactionHash"`
	}
	if err := jsonCfg.Unmarshal(input, &raw); err != nil {
		return schemaErr(path, "malformed block trace: %v", err)
	}
	if raw.Output == nil || isJSONNull(raw.Output) {
		return schemaErr(path, `missing required field "output"`)
	}
	var output hexutil.Bytes
	if err := jsonCfg.Unmarshal(raw.Output, &output); err != nil {
		return schemaErr(fieldPath(path, "output"), "%v", err)
	}

	out := BlockTrace{Output: output}
	if raw.Trace != nil && !isJSONNull(raw.Trace) {
		traces, err := decodeTraces(raw.Trace, fieldPath(path, "trace"))
		if err != nil {
			return err
		}
		out.Trace = traces
	}
	if raw.VMTrace != nil && !isJSONNull(raw.VMTrace) {
		vm := new(VMTrace)
		if err := vm.decode(raw.VMTrace, fieldPath(path, "vmTrace"), 1, DefaultMaxVMTraceDepth); err != nil {
			return err
		}
		out.VMTrace = vm
	}
	if raw.StateDiff != nil && !isJSONNull(raw.StateDiff) {
		var sd StateDiff
		if err := sd.decode(raw.StateDiff, fieldPath(path, "stateDiff")); err != nil {
			return err
		}
		out.StateDiff = sd
	}
	if raw.TransactionHash != nil && !isJSONNull(raw.TransactionHash) {
		hashPath := fieldPath(path, "transactionHash")
		var s string
		if err := jsonCfg.Unmarshal(raw.TransactionHash, &s); err != nil {
			return schemaErr(hashPath, "must be a hex string: %v", err)
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return schemaErr(hashPath, "malformed hash: %v", err)
		}
		if len(b) != common.HashLength {
			return schemaErr(hashPath, "hash must be %d bytes, got %d", common.HashLength, len(b))
		}
		hash := common.BytesToHash(b)
		out.TransactionHash = &hash
	}

	// Assign only after the whole envelope decoded, so a failure cannot
	// leave bt partially overwritten.
	*bt = out
	return nil
}

// UnmarshalBlockTrace decodes a single replay envelope, as returned by
// trace_call or trace_replayTransaction.
func UnmarshalBlockTrace(input []byte) (*BlockTrace, error) {
	bt := new(BlockTrace)
	if err := bt.decode(input, ""); err != nil {
		return nil, err
	}
	return bt, nil
}

// UnmarshalBlockTraces decodes a trace_replayBlockTransactions response:
// one envelope per transaction, in block position order. Order and count
// are preserved exactly; any element failure discards the whole batch so
// callers never see partially decoded results.
func UnmarshalBlockTraces(input []byte) ([]*BlockTrace, error) {
	var raws []json.RawMessage
	if err := jsonCfg.Unmarshal(input, &raws); err != nil {
		return nil, schemaErr("", "malformed block trace batch: %v", err)
	}
	out := make([]*BlockTrace, len(raws))
	for i, r := range raws {
		bt := new(BlockTrace)
		if err := bt.decode(r, indexPath("", i)); err != nil {
			return nil, err
		}
		out[i] = bt
	}
	return out, nil
}
