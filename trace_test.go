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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-test/deep"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := jsonCfg.Marshal(v)
	require.NoError(t, err)
	return raw
}

func testCallTrace(t *testing.T) TransactionTrace {
	t.Helper()
	return TransactionTrace{
		TraceAddress: []int{},
		Subtraces:    1,
		Action: mustMarshal(t, CallAction{
			From:     common.HexToAddress("0x83806d539d4ea1c140489a06660319c9a303f874"),
			To:       common.HexToAddress("0x1c39ba39e4735cb65978d4db400ddd70a72dc750"),
			Gas:      hexutil.Uint64(0x1a1f8),
			Value:    U256(uint256.NewInt(0x7a16c911b4d00000)),
			Input:    hexutil.Bytes{},
			CallType: "call",
		}),
		Type:   ActionCall,
		Result: mustMarshal(t, CallResult{GasUsed: hexutil.Uint64(0x2982), Output: hexutil.Bytes{}}),
	}
}

func TestTransactionTraceRoundTrip(t *testing.T) {
	trace := testCallTrace(t)
	encoded, err := jsonCfg.Marshal(trace)
	require.NoError(t, err)

	var decoded TransactionTrace
	require.NoError(t, jsonCfg.Unmarshal(encoded, &decoded))
	require.Equal(t, trace, decoded)
}

func TestTransactionTraceFieldOrder(t *testing.T) {
	trace := TransactionTrace{
		TraceAddress: []int{0, 1},
		Subtraces:    0,
		Action:       json.RawMessage(`{"author":"0x0000000000000000000000000000000000000000","value":"0x0","rewardType":"block"}`),
		Type:         ActionReward,
	}
	encoded, err := jsonCfg.Marshal(trace)
	require.NoError(t, err)
	require.Equal(t,
		`{"action":{"author":"0x0000000000000000000000000000000000000000","value":"0x0","rewardType":"block"},"subtraces":0,"traceAddress":[0,1],"type":"reward"}`,
		string(encoded))
}

func TestTransactionTraceListOrderPreserved(t *testing.T) {
	input := `[
		{"action":{"callType":"call","from":"0x0000000000000000000000000000000000000001","gas":"0x0","input":"0x","to":"0x0000000000000000000000000000000000000002","value":"0x0"},"result":{"gasUsed":"0x0","output":"0x"},"subtraces":2,"traceAddress":[],"type":"call"},
		{"action":{"callType":"call","from":"0x0000000000000000000000000000000000000002","gas":"0x0","input":"0x","to":"0x0000000000000000000000000000000000000003","value":"0x0"},"error":"Reverted","subtraces":0,"traceAddress":[0],"type":"call"},
		{"action":{"callType":"call","from":"0x0000000000000000000000000000000000000002","gas":"0x0","input":"0x","to":"0x0000000000000000000000000000000000000004","value":"0x0"},"result":{"gasUsed":"0x0","output":"0x"},"subtraces":0,"traceAddress":[1],"type":"call"}
	]`
	traces, err := UnmarshalTransactionTraces([]byte(input))
	require.NoError(t, err)
	require.Len(t, traces, 3)
	require.Equal(t, []int{}, traces[0].TraceAddress)
	require.Equal(t, []int{0}, traces[1].TraceAddress)
	require.Equal(t, []int{1}, traces[2].TraceAddress)
	require.Equal(t, "Reverted", traces[1].Error)
	require.Nil(t, traces[1].Result)

	// Re-encode and decode again: the list survives untouched.
	encoded, err := jsonCfg.Marshal(traces)
	require.NoError(t, err)
	again, err := UnmarshalTransactionTraces(encoded)
	require.NoError(t, err)
	if diff := deep.Equal(traces, again); diff != nil {
		t.Fatal(diff)
	}
}

func TestTransactionTraceMutualExclusion(t *testing.T) {
	t.Run("encode", func(t *testing.T) {
		trace := testCallTrace(t)
		trace.Error = "Out of gas"
		_, err := trace.MarshalJSON()
		var enc *EncodingError
		require.ErrorAs(t, err, &enc)
	})

	t.Run("decode", func(t *testing.T) {
		input := `{"action":{},"result":{"gasUsed":"0x0","output":"0x"},"error":"Reverted","subtraces":0,"traceAddress":[],"type":"call"}`
		var trace TransactionTrace
		err := trace.UnmarshalJSON([]byte(input))
		var schema *SchemaError
		require.ErrorAs(t, err, &schema)
		require.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("neither is the pending state and decodes", func(t *testing.T) {
		input := `{"action":{"author":"0x0000000000000000000000000000000000000000","value":"0x0","rewardType":"uncle"},"subtraces":0,"traceAddress":[],"type":"reward"}`
		var trace TransactionTrace
		require.NoError(t, trace.UnmarshalJSON([]byte(input)))
		require.Nil(t, trace.Result)
		require.Empty(t, trace.Error)
	})
}

func TestTransactionTraceRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing traceAddress", `{"action":{},"subtraces":0,"type":"call"}`},
		{"missing subtraces", `{"action":{},"traceAddress":[],"type":"call"}`},
		{"missing action", `{"subtraces":0,"traceAddress":[],"type":"call"}`},
		{"null action", `{"action":null,"subtraces":0,"traceAddress":[],"type":"call"}`},
		{"missing type", `{"action":{},"subtraces":0,"traceAddress":[]}`},
		{"unknown type", `{"action":{},"subtraces":0,"traceAddress":[],"type":"invoke"}`},
		{"negative subtraces", `{"action":{},"subtraces":-1,"traceAddress":[],"type":"call"}`},
		{"negative trace address entry", `{"action":{},"subtraces":0,"traceAddress":[-2],"type":"call"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trace TransactionTrace
			err := trace.UnmarshalJSON([]byte(tt.input))
			var schema *SchemaError
			require.ErrorAs(t, err, &schema)
		})
	}
}

func TestDecodedAction(t *testing.T) {
	trace := testCallTrace(t)
	decoded, err := trace.DecodedAction()
	require.NoError(t, err)
	call, ok := decoded.(*CallAction)
	require.True(t, ok)
	require.Equal(t, common.HexToAddress("0x1c39ba39e4735cb65978d4db400ddd70a72dc750"), call.To)
	require.Equal(t, "call", call.CallType)

	result, err := trace.DecodedResult()
	require.NoError(t, err)
	callRes, ok := result.(*CallResult)
	require.True(t, ok)
	require.Equal(t, hexutil.Uint64(0x2982), callRes.GasUsed)
}

func TestDecodedActionPerType(t *testing.T) {
	tests := []struct {
		actionType ActionType
		action     any
		want       any
	}{
		{ActionCreate, CreateAction{Gas: 1, Init: hexutil.Bytes{0x60}}, new(CreateAction)},
		{ActionSuicide, SuicideAction{Address: common.HexToAddress("0x01")}, new(SuicideAction)},
		{ActionReward, RewardAction{RewardType: "block"}, new(RewardAction)},
	}
	for _, tt := range tests {
		t.Run(string(tt.actionType), func(t *testing.T) {
			trace := TransactionTrace{
				TraceAddress: []int{},
				Action:       mustMarshal(t, tt.action),
				Type:         tt.actionType,
			}
			decoded, err := trace.DecodedAction()
			require.NoError(t, err)
			require.IsType(t, tt.want, decoded)

			// suicide and reward traces have no result payload
			if tt.actionType != ActionCreate {
				res, err := trace.DecodedResult()
				require.NoError(t, err)
				require.Nil(t, res)
			}
		})
	}
}
