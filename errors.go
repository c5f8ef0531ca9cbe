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

import "fmt"

// SchemaError reports a wire value that does not match the expected
// shape or tag for its declared type: an unknown diff or action tag,
// malformed hex, a missing required field. Path locates the offending
// field within the decoded document, when known.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "schema violation: " + e.Reason
	}
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Reason)
}

// schemaErr builds a *SchemaError with a formatted reason.
func schemaErr(path, format string, args ...any) error {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// DepthError reports a VM trace whose call nesting exceeds the limit the
// decoder was configured with.
type DepthError struct {
	Path  string
	Limit int
}

func (e *DepthError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("vm trace nesting exceeds depth limit %d", e.Limit)
	}
	return fmt.Sprintf("vm trace nesting at %s exceeds depth limit %d", e.Path, e.Limit)
}

// EncodingError reports an attempt to encode an in-memory value that
// violates a wire invariant, e.g. a trace with both result and error
// set.
type EncodingError struct {
	Path   string
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Path == "" {
		return "cannot encode: " + e.Reason
	}
	return fmt.Sprintf("cannot encode %s: %s", e.Path, e.Reason)
}

// encodingErr builds an *EncodingError with a formatted reason.
func encodingErr(path, format string, args ...any) error {
	return &EncodingError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
