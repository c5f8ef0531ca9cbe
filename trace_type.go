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

// TraceType selects which view of the execution a replay request asks
// the producer to populate.
type TraceType string

const (
	// TraceTypeTrace requests the flat call tree.
	TraceTypeTrace TraceType = "trace"
	// TraceTypeVMTrace requests the per-instruction VM trace.
	TraceTypeVMTrace TraceType = "vmTrace"
	// TraceTypeStateDiff requests the account state diff.
	TraceTypeStateDiff TraceType = "stateDiff"
)

// Valid reports whether t is one of the three recognized trace types.
func (t TraceType) Valid() bool {
	switch t {
	case TraceTypeTrace, TraceTypeVMTrace, TraceTypeStateDiff:
		return true
	}
	return false
}

func (t TraceType) String() string { return string(t) }

func (t TraceType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, encodingErr("", "unknown trace type %q", string(t))
	}
	return jsonCfg.Marshal(string(t))
}

func (t *TraceType) UnmarshalJSON(input []byte) error {
	var s string
	if err := jsonCfg.Unmarshal(input, &s); err != nil {
		return schemaErr("", "trace type must be a string: %v", err)
	}
	tt := TraceType(s)
	if !tt.Valid() {
		return schemaErr("", "unknown trace type %q", s)
	}
	*t = tt
	return nil
}

// TraceTypes is the ordered list of views sent with a replay request.
type TraceTypes []TraceType

// ParseTraceTypes converts the raw string list of an RPC request,
// rejecting unknown entries.
func ParseTraceTypes(raw []string) (TraceTypes, error) {
	out := make(TraceTypes, len(raw))
	for i, s := range raw {
		tt := TraceType(s)
		if !tt.Valid() {
			return nil, schemaErr(indexPath("", i), "unknown trace type %q", s)
		}
		out[i] = tt
	}
	return out, nil
}

func (tt TraceTypes) has(want TraceType) bool {
	for _, t := range tt {
		if t == want {
			return true
		}
	}
	return false
}

// HasTrace reports whether the call tree view was requested.
func (tt TraceTypes) HasTrace() bool { return tt.has(TraceTypeTrace) }

// HasVMTrace reports whether the VM trace view was requested.
func (tt TraceTypes) HasVMTrace() bool { return tt.has(TraceTypeVMTrace) }

// HasStateDiff reports whether the state diff view was requested.
func (tt TraceTypes) HasStateDiff() bool { return tt.has(TraceTypeStateDiff) }
