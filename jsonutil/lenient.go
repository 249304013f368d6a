// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jsonutil

import (
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// DecodeLenient unmarshals data into v, retrying once with bare NaN tokens
// rewritten to null if the strict parse fails. Some upstream catalog feeds
// emit unquoted NaN for missing numeric values, which is not valid JSON. The
// substitution only runs on input that already failed to parse, so valid
// documents are never rewritten.
func DecodeLenient(data []byte, v any) error {
	strictErr := json.Unmarshal(data, v)
	if strictErr == nil {
		return nil
	}

	log.Debug().Err(strictErr).Msg("strict JSON parse failed; retrying with NaN substitution")
	if err := json.Unmarshal(rewriteBareNaN(data), v); err != nil {
		// report the original failure, not the one from the rewritten text
		return strictErr
	}
	return nil
}

// rewriteBareNaN replaces NaN tokens outside string literals with null.
// String spans, escapes included, are copied through untouched so a NaN
// inside a title or description survives the rewrite.
func rewriteBareNaN(data []byte) []byte {
	out := make([]byte, 0, len(data)+4)
	inString := false
	escaped := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if c == 'N' && i+2 < len(data) && data[i+1] == 'a' && data[i+2] == 'N' {
			out = append(out, "null"...)
			i += 2
			continue
		}
		out = append(out, c)
	}
	return out
}
