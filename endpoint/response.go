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

package endpoint

import (
	"errors"
)

// ErrNoTileURL is returned when a tile response carries none of the
// recognized URL fields.
var ErrNoTileURL = errors.New("tile response missing a tile URL field (expected one of tile_url, tileUrl, urlFormat, tiles[0], data.tileUrl, data.urlFormat)")

// ParseTileURL extracts a templated tile URL from a deserialized tile
// response. Endpoints disagree on the field name, so the fields are checked
// in strict precedence order; the first present string-typed value wins.
func ParseTileURL(body map[string]any) (string, error) {
	for _, key := range []string{"tile_url", "tileUrl", "urlFormat"} {
		if s, ok := body[key].(string); ok {
			return s, nil
		}
	}

	if tiles, ok := body["tiles"].([]any); ok && len(tiles) > 0 {
		if s, ok := tiles[0].(string); ok {
			return s, nil
		}
	}

	if data, ok := body["data"].(map[string]any); ok {
		for _, key := range []string{"tileUrl", "urlFormat"} {
			if s, ok := data[key].(string); ok {
				return s, nil
			}
		}
	}

	return "", ErrNoTileURL
}
