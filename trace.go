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
)

// TransactionTrace is one node of the flat call tree. TraceAddress is
// the path from the root ([0,1] is the second child of the first child),
// Subtraces the number of direct children; siblings are correlated by
// address prefix, the list itself stays flat in producer order.
//
// Result and Error are mutually exclusive. A trace may carry neither
// (the producer's pending/unknown state), never both.
type TransactionTrace struct {
	TraceAddress []int           `json:"traceAddress"`
	Subtraces    int             `json:"subtraces"`
	Action       json.RawMessage `json:"action"`
	Type         ActionType      `json:"type"`
	Result       json.RawMessage `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// TransactionTraces is the call tree of one transaction, in the
// producer's traversal order.
type TransactionTraces []TransactionTrace

func (t TransactionTrace) MarshalJSON() ([]byte, error) {
	if t.Result != nil && t.Error != "" {
		return nil, encodingErr("", "result and error are mutually exclusive")
	}
	if !t.Type.Valid() {
		return nil, encodingErr("type", "unknown action type %q", string(t.Type))
	}
	if t.Action == nil {
		return nil, encodingErr("action", "missing action payload")
	}

	stream := jsonCfg.BorrowStream(nil)
	defer jsonCfg.ReturnStream(stream)
	stream.WriteObjectStart()
	stream.WriteObjectField("action")
	stream.WriteRaw(string(t.Action))
	if t.Error != "" {
		stream.WriteMore()
		stream.WriteObjectField("error")
		stream.WriteString(t.Error)
	} else if t.Result != nil {
		stream.WriteMore()
		stream.WriteObjectField("result")
		stream.WriteRaw(string(t.Result))
	}
	stream.WriteMore()
	stream.WriteObjectField("subtraces")
	stream.WriteInt(t.Subtraces)
	stream.WriteMore()
	stream.WriteObjectField("traceAddress")
	stream.WriteArrayStart()
	for i, a := range t.TraceAddress {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteInt(a)
	}
	stream.WriteArrayEnd()
	stream.WriteMore()
	stream.WriteObjectField("type")
	stream.WriteString(string(t.Type))
	stream.WriteObjectEnd()
	return finishStream(stream)
}

func (t *TransactionTrace) UnmarshalJSON(input []byte) error {
	return t.decode(input, "")
}

func (t *TransactionTrace) decode(input []byte, path string) error {
	var raw struct {
		TraceAddress *[]int          `json:"traceAddress"`
		Subtraces    *int            `json:"subtraces"`
		Action       json.RawMessage `json:"action"`
		Type         *string         `json:"type"`
		Result       json.RawMessage `json:"result"`
		Error        *string         `json:"error"`
	}
	if err := jsonCfg.Unmarshal(input, &raw); err != nil {
		return schemaErr(path, "malformed transaction trace: %v", err)
	}
	if raw.TraceAddress == nil {
		return schemaErr(path, `missing required field "traceAddress"`)
	}
	if raw.Subtraces == nil {
		return schemaErr(path, `missing required field "subtraces"`)
	}
	if raw.Action == nil || isJSONNull(raw.Action) {
		return schemaErr(path, `missing required field "action"`)
	}
	if raw.Type == nil {
		return schemaErr(path, `missing required field "type"`)
	}
	actionType := ActionType(*raw.Type)
	if !actionType.Valid() {
		return schemaErr(fieldPath(path, "type"), "unknown action type %q", *raw.Type)
	}
	if *raw.Subtraces < 0 {
		return schemaErr(fieldPath(path, "subtraces"), "must be non-negative, got %d", *raw.Subtraces)
	}
	for i, a := range *raw.TraceAddress {
		if a < 0 {
			return schemaErr(indexPath(fieldPath(path, "traceAddress"), i), "must be non-negative, got %d", a)
		}
	}

	result := raw.Result
	if result != nil && isJSONNull(result) {
		result = nil
	}
	var errStr string
	if raw.Error != nil {
		errStr = *raw.Error
	}
	// Reject, do not silently prefer one: an ambiguous outcome would
	// otherwise leak to consumers that branch on success.
	if result != nil && errStr != "" {
		return schemaErr(path, "result and error are mutually exclusive")
	}

	t.TraceAddress = *raw.TraceAddress
	t.Subtraces = *raw.Subtraces
	t.Action = raw.Action
	t.Type = actionType
	t.Result = result
	t.Error = errStr
	return nil
}

// UnmarshalTransactionTraces decodes a call-tree list, preserving the
// producer's order. On any element failure nothing is returned.
func UnmarshalTransactionTraces(input []byte) (TransactionTraces, error) {
	return decodeTraces(input, "")
}

func decodeTraces(input []byte, path string) (TransactionTraces, error) {
	var raws []json.RawMessage
	if err := jsonCfg.Unmarshal(input, &raws); err != nil {
		return nil, schemaErr(path, "malformed trace list: %v", err)
	}
	out := make(TransactionTraces, len(raws))
	for i, r := range raws {
		if err := out[i].decode(r, indexPath(path, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
