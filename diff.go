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
)

// DiffKind identifies which of the four change variants a Diff holds.
type DiffKind uint8

const (
	// DiffSame marks a value that did not change.
	DiffSame DiffKind = iota
	// DiffBorn marks a value created by the transaction.
	DiffBorn
	// DiffDied marks a value removed by the transaction.
	DiffDied
	// DiffChanged marks a value replaced by the transaction.
	DiffChanged
)

// Tag returns the single-character wire tag of the variant.
func (k DiffKind) Tag() string {
	switch k {
	case DiffSame:
		return "="
	case DiffBorn:
		return "+"
	case DiffDied:
		return "-"
	case DiffChanged:
		return "*"
	}
	return ""
}

// Diff describes how one value changed across the traced execution. It
// is a tagged union: exactly one variant holds at a time, and the wire
// form is dispatched strictly on the variant tag, never inferred from
// the payload shape.
//
// On the wire DiffSame is the bare string "=", DiffBorn and DiffDied are
// single-key objects {"+": v} / {"-": v}, and DiffChanged is
// {"*": {"from": v, "to": v}}.
type Diff[T any] struct {
	kind DiffKind
	from T // DiffDied and DiffChanged
	to   T // DiffBorn and DiffChanged
}

// Same returns the unchanged variant.
func Same[T any]() Diff[T] {
	return Diff[T]{kind: DiffSame}
}

// Born returns the created variant holding the new value.
func Born[T any](v T) Diff[T] {
	return Diff[T]{kind: DiffBorn, to: v}
}

// Died returns the removed variant holding the old value.
func Died[T any](v T) Diff[T] {
	return Diff[T]{kind: DiffDied, from: v}
}

// Changed returns the replaced variant holding both values.
func Changed[T any](from, to T) Diff[T] {
	return Diff[T]{kind: DiffChanged, from: from, to: to}
}

// Kind returns the variant held by the diff. The zero Diff is DiffSame.
func (d Diff[T]) Kind() DiffKind { return d.kind }

// From returns the old value. It is the zero T unless the variant is
// DiffDied or DiffChanged.
func (d Diff[T]) From() T { return d.from }

// To returns the new value. It is the zero T unless the variant is
// DiffBorn or DiffChanged.
func (d Diff[T]) To() T { return d.to }

func (d Diff[T]) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case DiffSame:
		return []byte(`"="`), nil
	case DiffBorn:
		payload, err := jsonCfg.Marshal(d.to)
		if err != nil {
			return nil, err
		}
		return wrapTag("+", payload), nil
	case DiffDied:
		payload, err := jsonCfg.Marshal(d.from)
		if err != nil {
			return nil, err
		}
		return wrapTag("-", payload), nil
	case DiffChanged:
		from, err := jsonCfg.Marshal(d.from)
		if err != nil {
			return nil, err
		}
		to, err := jsonCfg.Marshal(d.to)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		buf.WriteString(`{"*":{"from":`)
		buf.Write(from)
		buf.WriteString(`,"to":`)
		buf.Write(to)
		buf.WriteString(`}}`)
		return buf.Bytes(), nil
	}
	return nil, encodingErr("", "unknown diff kind %d", d.kind)
}

func wrapTag(tag string, payload []byte) []byte {
	out := make([]byte, 0, len(payload)+6)
	out = append(out, '{', '"')
	out = append(out, tag...)
	out = append(out, '"', ':')
	out = append(out, payload...)
	out = append(out, '}')
	return out
}

func (d *Diff[T]) UnmarshalJSON(input []byte) error {
	return d.decode(input, "")
}

// decode dispatches on the wire tag, carrying path for error reporting.
func (d *Diff[T]) decode(input []byte, path string) error {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) == 0 {
		return schemaErr(path, "empty diff value")
	}
	switch trimmed[0] {
	case '"':
		var tag string
		if err := jsonCfg.Unmarshal(trimmed, &tag); err != nil {
			return schemaErr(path, "malformed diff tag: %v", err)
		}
		if tag != "=" {
			return schemaErr(path, "unknown diff tag %q", tag)
		}
		*d = Diff[T]{kind: DiffSame}
		return nil
	case '{':
		var tagged map[string]json.RawMessage
		if err := jsonCfg.Unmarshal(trimmed, &tagged); err != nil {
			return schemaErr(path, "malformed diff object: %v", err)
		}
		if len(tagged) != 1 {
			return schemaErr(path, "diff object must carry exactly one tag key, got %d", len(tagged))
		}
		for tag, payload := range tagged {
			return d.decodeTagged(tag, payload, path)
		}
	}
	return schemaErr(path, `diff must be the string "=" or a single-key tag object`)
}

func (d *Diff[T]) decodeTagged(tag string, payload []byte, path string) error {
	switch tag {
	case "+":
		var v T
		if err := jsonCfg.Unmarshal(payload, &v); err != nil {
			return schemaErr(fieldPath(path, `"+"`), "%v", err)
		}
		*d = Born(v)
		return nil
	case "-":
		var v T
		if err := jsonCfg.Unmarshal(payload, &v); err != nil {
			return schemaErr(fieldPath(path, `"-"`), "%v", err)
		}
		*d = Died(v)
		return nil
	case "*":
		var ch struct {
			From json.RawMessage `json:"from"`
			To   json.RawMessage `json:"to"`
		}
		if err := jsonCfg.Unmarshal(payload, &ch); err != nil {
			return schemaErr(fieldPath(path, `"*"`), "%v", err)
		}
		if ch.From == nil {
			return schemaErr(fieldPath(path, `"*"`), `missing required field "from"`)
		}
		if ch.To == nil {
			return schemaErr(fieldPath(path, `"*"`), `missing required field "to"`)
		}
		var from, to T
		if err := jsonCfg.Unmarshal(ch.From, &from); err != nil {
			return schemaErr(fieldPath(path, `"*".from`), "%v", err)
		}
		if err := jsonCfg.Unmarshal(ch.To, &to); err != nil {
			return schemaErr(fieldPath(path, `"*".to`), "%v", err)
		}
		*d = Changed(from, to)
		return nil
	case "=":
		// "=" is a bare string on the wire; a payload is a producer bug.
		return schemaErr(path, `diff tag "=" carries no payload`)
	}
	return schemaErr(path, "unknown diff tag %q", tag)
}
