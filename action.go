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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ActionType classifies the action of one call-tree node.
type ActionType string

const (
	ActionCall    ActionType = "call"
	ActionCreate  ActionType = "create"
	ActionSuicide ActionType = "suicide"
	ActionReward  ActionType = "reward"
)

// Valid reports whether t is one of the recognized action type tags.
func (t ActionType) Valid() bool {
	switch t {
	case ActionCall, ActionCreate, ActionSuicide, ActionReward:
		return true
	}
	return false
}

func (t ActionType) String() string { return string(t) }

func (t ActionType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, encodingErr("type", "unknown action type %q", string(t))
	}
	return jsonCfg.Marshal(string(t))
}

func (t *ActionType) UnmarshalJSON(input []byte) error {
	var s string
	if err := jsonCfg.Unmarshal(input, &s); err != nil {
		return schemaErr("type", "action type must be a string: %v", err)
	}
	at := ActionType(s)
	if !at.Valid() {
		return schemaErr("type", "unknown action type %q", s)
	}
	*t = at
	return nil
}

// The envelope carries action and result payloads as raw JSON, because
// their exact shape belongs to the producer's action model, not to the
// trace structure. The types below are the producer's known shapes;
// DecodedAction and DecodedResult give the typed view on demand.

// CallAction is the action payload of a "call" trace.
type CallAction struct {
	From     common.Address `json:"from"`
	To       common.Address `json:"to"`
	Gas      hexutil.Uint64 `json:"gas"`
	Value    hexutil.U256   `json:"value"`
	Input    hexutil.Bytes  `json:"input"`
	CallType string         `json:"callType"`
}

// CreateAction is the action payload of a "create" trace.
type CreateAction struct {
	From  common.Address `json:"from"`
	Gas   hexutil.Uint64 `json:"gas"`
	Value hexutil.U256   `json:"value"`
	Init  hexutil.Bytes  `json:"init"`
}

// SuicideAction is the action payload of a "suicide" trace.
type SuicideAction struct {
	Address       common.Address `json:"address"`
	RefundAddress common.Address `json:"refundAddress"`
	Balance       hexutil.U256   `json:"balance"`
}

// RewardAction is the action payload of a "reward" trace.
type RewardAction struct {
	Author     common.Address `json:"author"`
	Value      hexutil.U256   `json:"value"`
	RewardType string         `json:"rewardType"`
}

// CallResult is the result payload of a successful "call" trace.
type CallResult struct {
	GasUsed hexutil.Uint64 `json:"gasUsed"`
	Output  hexutil.Bytes  `json:"output"`
}

// CreateResult is the result payload of a successful "create" trace.
type CreateResult struct {
	GasUsed hexutil.Uint64 `json:"gasUsed"`
	Code    hexutil.Bytes  `json:"code"`
	Address common.Address `json:"address"`
}

// DecodedAction decodes the raw action payload into the concrete type
// selected by the trace's action type tag: *CallAction, *CreateAction,
// *SuicideAction or *RewardAction.
func (t *TransactionTrace) DecodedAction() (any, error) {
	if t.Action == nil {
		return nil, schemaErr("action", "missing action payload")
	}
	var out any
	switch t.Type {
	case ActionCall:
		out = new(CallAction)
	case ActionCreate:
		out = new(CreateAction)
	case ActionSuicide:
		out = new(SuicideAction)
	case ActionReward:
		out = new(RewardAction)
	default:
		return nil, schemaErr("type", "unknown action type %q", string(t.Type))
	}
	if err := jsonCfg.Unmarshal(t.Action, out); err != nil {
		return nil, schemaErr("action", "%v", err)
	}
	return out, nil
}

// DecodedResult decodes the raw result payload into *CallResult or
// *CreateResult depending on the action type. It returns nil for traces
// without a result and for action types that carry none.
func (t *TransactionTrace) DecodedResult() (any, error) {
	if t.Result == nil {
		return nil, nil
	}
	var out any
	switch t.Type {
	case ActionCall:
		out = new(CallResult)
	case ActionCreate:
		out = new(CreateResult)
	case ActionSuicide, ActionReward:
		return nil, nil
	default:
		return nil, schemaErr("type", "unknown action type %q", string(t.Type))
	}
	if err := jsonCfg.Unmarshal(t.Result, out); err != nil {
		return nil, schemaErr("result", "%v", err)
	}
	return out, nil
}
