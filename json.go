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
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// jsonCfg is the JSON engine shared by every encoder and decoder in this
// package. Trace payloads can be tens of megabytes, so we use jsoniter
// in its stdlib-compatible configuration, same as the rpcdaemon does.
var jsonCfg = jsoniter.ConfigCompatibleWithStandardLibrary

var jsonNull = []byte("null")

// isJSONNull reports whether data is the JSON null literal.
func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), jsonNull)
}

// fieldPath appends a field name to a decode path for error reporting.
func fieldPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

// indexPath appends an array index to a decode path.
func indexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

// finishStream copies the stream buffer out. jsoniter reuses the buffer
// once the stream is returned to the pool.
func finishStream(stream *jsoniter.Stream) ([]byte, error) {
	if stream.Error != nil {
		return nil, stream.Error
	}
	buf := stream.Buffer()
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}
