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

// Package paritytrace models the payloads of the Parity (OpenEthereum)
// ad-hoc trace API: trace_call, trace_rawTransaction,
// trace_replayTransaction and trace_replayBlockTransactions.
//
// A replay response is a BlockTrace envelope carrying the call output
// plus up to three independent views of the execution, selected by the
// TraceType list sent with the request: the flat call tree
// ([]TransactionTrace), the per-instruction VM trace (VMTrace) and the
// account state diff (StateDiff).
//
// The package is a pure wire model. It does not fetch payloads, dispatch
// RPC methods or verify that a trace is internally consistent; it maps
// bytes to typed values and back, losslessly. Decoding is strict about
// the producer's tag discipline (the "="/"+"/"-"/"*" diff tags, the
// action type tags) and fails with a SchemaError rather than guessing
// from payload shape. Encoding of the ordered maps (StateDiff, account
// storage) is deterministic: keys are written in ascending byte order so
// two structurally equal values always encode to identical bytes.
//
// All types are plain values with no shared state; encode and decode are
// pure functions and safe to call concurrently on independent payloads.
package paritytrace
